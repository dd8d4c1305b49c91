package script

import (
	"github.com/worldscript/server/internal/game"
)

// DialogStatusUndefined is returned from the dialog status hooks when no
// script overrides the status, telling the caller to fall back to the
// default quest-giver logic.
const DialogStatusUndefined uint32 = 100

// GetCreatureAI asks the creature's bundle for an AI instance, nil when
// the creature is unscripted or its bundle provides none.
func (m *Mgr) GetCreatureAI(c game.Creature) game.CreatureAI {
	s := m.script(c.ScriptID())
	if s == nil || s.GetAI == nil {
		return nil
	}
	return s.GetAI(c)
}

// GetGameObjectAI asks the gameobject's bundle for an AI instance.
func (m *Mgr) GetGameObjectAI(gobj game.GameObject) game.GameObjectAI {
	s := m.script(gobj.ScriptID())
	if s == nil || s.GetGameObjectAI == nil {
		return nil
	}
	return s.GetGameObjectAI(gobj)
}

// CreateInstanceData builds scripted per-map state for a map whose entry
// names an instance script. Returns nil for unscripted maps.
func (m *Mgr) CreateInstanceData(mp game.Map) game.InstanceData {
	entry := m.store.Maps.Get(mp.ID())
	if entry == nil {
		return nil
	}
	s := m.script(m.ScriptID(entry.ScriptName))
	if s == nil || s.CreateInstanceData == nil {
		return nil
	}
	return s.CreateInstanceData(mp)
}

// OnGossipHello runs the gossip-open hook for a creature. When a hook
// exists the player's pending menu is cleared before it runs, so a script
// menu never stacks onto a stale one; unscripted targets leave the menu
// alone.
func (m *Mgr) OnGossipHello(p game.Player, c game.Creature) bool {
	s := m.script(c.ScriptID())
	if s == nil || s.OnGossipHello == nil {
		return false
	}
	p.ClearGossipMenu()
	return s.OnGossipHello(p, c)
}

// OnGOGossipHello runs the gossip-open hook for a gameobject.
func (m *Mgr) OnGOGossipHello(p game.Player, gobj game.GameObject) bool {
	s := m.script(gobj.ScriptID())
	if s == nil || s.OnGOGossipHello == nil {
		return false
	}
	p.ClearGossipMenu()
	return s.OnGOGossipHello(p, gobj)
}

// OnGossipSelect runs the menu-selection hook for a creature.
func (m *Mgr) OnGossipSelect(p game.Player, c game.Creature, sender, action uint32) bool {
	s := m.script(c.ScriptID())
	if s == nil || s.OnGossipSelect == nil {
		return false
	}
	p.ClearGossipMenu()
	return s.OnGossipSelect(p, c, sender, action)
}

// OnGossipSelectWithCode runs the menu-selection hook carrying a typed
// code for a creature.
func (m *Mgr) OnGossipSelectWithCode(p game.Player, c game.Creature, sender, action uint32, code string) bool {
	s := m.script(c.ScriptID())
	if s == nil || s.OnGossipSelectWithCode == nil {
		return false
	}
	p.ClearGossipMenu()
	return s.OnGossipSelectWithCode(p, c, sender, action, code)
}

// OnGOGossipSelect runs the menu-selection hook for a gameobject.
func (m *Mgr) OnGOGossipSelect(p game.Player, gobj game.GameObject, sender, action uint32) bool {
	s := m.script(gobj.ScriptID())
	if s == nil || s.OnGOGossipSelect == nil {
		return false
	}
	p.ClearGossipMenu()
	return s.OnGOGossipSelect(p, gobj, sender, action)
}

// OnGOGossipSelectWithCode runs the menu-selection hook carrying a typed
// code for a gameobject.
func (m *Mgr) OnGOGossipSelectWithCode(p game.Player, gobj game.GameObject, sender, action uint32, code string) bool {
	s := m.script(gobj.ScriptID())
	if s == nil || s.OnGOGossipSelectWithCode == nil {
		return false
	}
	p.ClearGossipMenu()
	return s.OnGOGossipSelectWithCode(p, gobj, sender, action, code)
}

// OnQuestAccept runs the quest-accept hook for a creature quest giver.
func (m *Mgr) OnQuestAccept(p game.Player, c game.Creature, questID uint32) bool {
	quest := m.store.Quests.Get(questID)
	if quest == nil {
		return false
	}
	s := m.script(c.ScriptID())
	if s == nil || s.OnQuestAccept == nil {
		return false
	}
	return s.OnQuestAccept(p, c, quest)
}

// OnQuestRewarded runs the quest-turn-in hook for a creature quest giver.
func (m *Mgr) OnQuestRewarded(p game.Player, c game.Creature, questID uint32) bool {
	quest := m.store.Quests.Get(questID)
	if quest == nil {
		return false
	}
	s := m.script(c.ScriptID())
	if s == nil || s.OnQuestRewarded == nil {
		return false
	}
	return s.OnQuestRewarded(p, c, quest)
}

// OnGOQuestAccept runs the quest-accept hook for a gameobject quest giver.
func (m *Mgr) OnGOQuestAccept(p game.Player, gobj game.GameObject, questID uint32) bool {
	quest := m.store.Quests.Get(questID)
	if quest == nil {
		return false
	}
	s := m.script(gobj.ScriptID())
	if s == nil || s.OnGOQuestAccept == nil {
		return false
	}
	return s.OnGOQuestAccept(p, gobj, quest)
}

// OnGOQuestRewarded runs the quest-turn-in hook for a gameobject quest
// giver.
func (m *Mgr) OnGOQuestRewarded(p game.Player, gobj game.GameObject, questID uint32) bool {
	quest := m.store.Quests.Get(questID)
	if quest == nil {
		return false
	}
	s := m.script(gobj.ScriptID())
	if s == nil || s.OnGOQuestRewarded == nil {
		return false
	}
	return s.OnGOQuestRewarded(p, gobj, quest)
}

// OnItemQuestAccept runs the quest-accept hook for a quest-starting item.
func (m *Mgr) OnItemQuestAccept(p game.Player, item game.Item, questID uint32) bool {
	quest := m.store.Quests.Get(questID)
	if quest == nil {
		return false
	}
	s := m.script(item.ScriptID())
	if s == nil || s.OnItemQuestAccept == nil {
		return false
	}
	return s.OnItemQuestAccept(p, item, quest)
}

// GetNPCDialogStatus asks a creature's bundle for a dialog status
// override. DialogStatusUndefined means fall back to default logic.
func (m *Mgr) GetNPCDialogStatus(p game.Player, c game.Creature) uint32 {
	s := m.script(c.ScriptID())
	if s == nil || s.NPCDialogStatus == nil {
		return DialogStatusUndefined
	}
	return s.NPCDialogStatus(p, c)
}

// GetGODialogStatus asks a gameobject's bundle for a dialog status
// override.
func (m *Mgr) GetGODialogStatus(p game.Player, gobj game.GameObject) uint32 {
	s := m.script(gobj.ScriptID())
	if s == nil || s.GODialogStatus == nil {
		return DialogStatusUndefined
	}
	return s.GODialogStatus(p, gobj)
}

// OnGOOpen runs the open hook when a player opens a gameobject, before
// its state change takes effect.
func (m *Mgr) OnGOOpen(p game.Player, gobj game.GameObject) bool {
	s := m.script(gobj.ScriptID())
	if s == nil || s.OnGOOpen == nil {
		return false
	}
	return s.OnGOOpen(p, gobj)
}

// OnGOUse runs the use hook when a player activates a gameobject.
func (m *Mgr) OnGOUse(p game.Player, gobj game.GameObject) bool {
	s := m.script(gobj.ScriptID())
	if s == nil || s.OnGOUse == nil {
		return false
	}
	return s.OnGOUse(p, gobj)
}

// OnItemUse runs the use hook when a player uses a scripted item.
func (m *Mgr) OnItemUse(p game.Player, item game.Item, targets game.SpellTargets) bool {
	s := m.script(item.ScriptID())
	if s == nil || s.OnItemUse == nil {
		return false
	}
	return s.OnItemUse(p, item, targets)
}

// OnAreaTrigger runs the hook bound to an area trigger the player walked
// into.
func (m *Mgr) OnAreaTrigger(p game.Player, triggerID uint32) bool {
	at := m.store.AreaTriggers.Get(triggerID)
	if at == nil {
		return false
	}
	s := m.script(m.areaTriggerScripts[triggerID])
	if s == nil || s.OnAreaTrigger == nil {
		return false
	}
	return s.OnAreaTrigger(p, at)
}

// OnProcessEvent runs the hook bound to a fired world event id. A false
// return lets the event fall through to the event_scripts command table.
func (m *Mgr) OnProcessEvent(eventID uint32, source, target game.WorldObject, isStart bool) bool {
	s := m.script(m.eventIDScripts[eventID])
	if s == nil || s.OnProcessEvent == nil {
		return false
	}
	return s.OnProcessEvent(eventID, source, target, isStart)
}

// OnEffectDummyCreature runs the dummy-effect hook for a spell hitting a
// scripted creature.
func (m *Mgr) OnEffectDummyCreature(caster game.Unit, spellID uint32, effIndex int, target game.Creature) bool {
	s := m.script(target.ScriptID())
	if s == nil || s.OnEffectDummyCreature == nil {
		return false
	}
	return s.OnEffectDummyCreature(caster, spellID, effIndex, target)
}

// OnEffectDummyGameObject runs the dummy-effect hook for a spell hitting
// a scripted gameobject.
func (m *Mgr) OnEffectDummyGameObject(caster game.Unit, spellID uint32, effIndex int, target game.GameObject) bool {
	s := m.script(target.ScriptID())
	if s == nil || s.OnEffectDummyGameObject == nil {
		return false
	}
	return s.OnEffectDummyGameObject(caster, spellID, effIndex, target)
}

// OnEffectDummyItem runs the dummy-effect hook for a spell hitting a
// scripted item.
func (m *Mgr) OnEffectDummyItem(caster game.Unit, spellID uint32, effIndex int, target game.Item) bool {
	s := m.script(target.ScriptID())
	if s == nil || s.OnEffectDummyItem == nil {
		return false
	}
	return s.OnEffectDummyItem(caster, spellID, effIndex, target)
}

// OnAuraDummy runs the dummy-aura hook when a dummy aura applies to or
// fades from a scripted creature.
func (m *Mgr) OnAuraDummy(aura game.Aura, apply bool) bool {
	target, ok := aura.Target().(game.Creature)
	if !ok {
		return false
	}
	s := m.script(target.ScriptID())
	if s == nil || s.OnAuraDummy == nil {
		return false
	}
	return s.OnAuraDummy(aura, apply)
}
