package script

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worldscript/server/internal/data"
	"github.com/worldscript/server/internal/game"
)

func TestOnGossipHelloClearsMenu(t *testing.T) {
	m := newTestMgr(t)
	seedNames(m, "town_crier")

	p := newFakePlayer()
	c := newFakeCreature(100)

	// unscripted creature: not handled and the menu is left alone
	assert.False(t, m.OnGossipHello(p, c))
	assert.Nil(t, p.called("ClearGossipMenu"))

	handled := false
	m.Register(&Script{
		Name: "town_crier",
		OnGossipHello: func(p game.Player, c game.Creature) bool {
			handled = true
			return true
		},
	})

	c.scriptID = m.ScriptID("town_crier")
	p = newFakePlayer()
	assert.True(t, m.OnGossipHello(p, c))
	assert.True(t, handled)
	require.Len(t, p.calls, 1)
	assert.Equal(t, "ClearGossipMenu", p.calls[0].method)
}

func TestOnGossipSelect(t *testing.T) {
	m := newTestMgr(t)
	seedNames(m, "town_crier")

	var gotSender, gotAction uint32
	m.Register(&Script{
		Name: "town_crier",
		OnGossipSelect: func(p game.Player, c game.Creature, sender, action uint32) bool {
			gotSender, gotAction = sender, action
			return true
		},
	})

	c := newFakeCreature(100)
	c.scriptID = m.ScriptID("town_crier")
	p := newFakePlayer()

	assert.True(t, m.OnGossipSelect(p, c, 3, 7))
	assert.Equal(t, uint32(3), gotSender)
	assert.Equal(t, uint32(7), gotAction)
	assert.NotNil(t, p.called("ClearGossipMenu"))

	// the coded variant is a separate hook and leaves the menu alone
	fresh := newFakePlayer()
	assert.False(t, m.OnGossipSelectWithCode(fresh, c, 3, 7, "secret"))
	assert.Nil(t, fresh.called("ClearGossipMenu"))
}

func TestQuestHooksResolveQuest(t *testing.T) {
	m := newTestMgr(t)
	seedNames(m, "town_crier")

	var got *data.Quest
	m.Register(&Script{
		Name: "town_crier",
		OnQuestAccept: func(p game.Player, c game.Creature, quest *data.Quest) bool {
			got = quest
			return true
		},
	})

	c := newFakeCreature(100)
	c.scriptID = m.ScriptID("town_crier")
	p := newFakePlayer()

	assert.False(t, m.OnQuestAccept(p, c, 9999), "unknown quest never reaches the hook")
	assert.Nil(t, got)

	assert.True(t, m.OnQuestAccept(p, c, 800))
	require.NotNil(t, got)
	assert.Equal(t, "The Missing Diplomat", got.Title)
}

func TestDialogStatusDefaults(t *testing.T) {
	m := newTestMgr(t)
	seedNames(m, "town_crier")

	c := newFakeCreature(100)
	p := newFakePlayer()
	g := newFakeGameObject(410)

	assert.Equal(t, DialogStatusUndefined, m.GetNPCDialogStatus(p, c))
	assert.Equal(t, DialogStatusUndefined, m.GetGODialogStatus(p, g))

	m.Register(&Script{
		Name: "town_crier",
		NPCDialogStatus: func(p game.Player, c game.Creature) uint32 {
			return 6
		},
	})
	c.scriptID = m.ScriptID("town_crier")
	assert.Equal(t, uint32(6), m.GetNPCDialogStatus(p, c))
}

func TestGetCreatureAI(t *testing.T) {
	m := newTestMgr(t)
	seedNames(m, "town_crier")

	c := newFakeCreature(100)
	assert.Nil(t, m.GetCreatureAI(c))

	m.Register(&Script{
		Name: "town_crier",
		GetAI: func(c game.Creature) game.CreatureAI {
			return &genericAIStub{}
		},
	})
	c.scriptID = m.ScriptID("town_crier")
	assert.NotNil(t, m.GetCreatureAI(c))
}

type genericAIStub struct{}

func (*genericAIStub) UpdateAI(diffMs uint32) {}

func TestOnAreaTrigger(t *testing.T) {
	m := newTestMgr(t)
	seedNames(m, "at_gates")

	var gotTrigger uint32
	m.Register(&Script{
		Name: "at_gates",
		OnAreaTrigger: func(p game.Player, at *data.AreaTrigger) bool {
			gotTrigger = at.ID
			return true
		},
	})
	m.areaTriggerScripts[1000] = m.ScriptID("at_gates")

	p := newFakePlayer()
	assert.True(t, m.OnAreaTrigger(p, 1000))
	assert.Equal(t, uint32(1000), gotTrigger)

	// trigger missing from the catalog
	assert.False(t, m.OnAreaTrigger(p, 9999))
	// trigger with no binding
	m.areaTriggerScripts = map[uint32]uint32{}
	assert.False(t, m.OnAreaTrigger(p, 1000))
}

func TestOnProcessEvent(t *testing.T) {
	m := newTestMgr(t)
	seedNames(m, "event_beacon")

	m.Register(&Script{
		Name: "event_beacon",
		OnProcessEvent: func(eventID uint32, source, target game.WorldObject, isStart bool) bool {
			return isStart
		},
	})
	m.eventIDScripts[7001] = m.ScriptID("event_beacon")

	assert.True(t, m.OnProcessEvent(7001, nil, nil, true))
	assert.False(t, m.OnProcessEvent(7001, nil, nil, false))
	assert.False(t, m.OnProcessEvent(500, nil, nil, true))
}

func TestOnGameObjectOpenAndUse(t *testing.T) {
	m := newTestMgr(t)
	seedNames(m, "dusty_chest")

	var opened, used bool
	m.Register(&Script{
		Name: "dusty_chest",
		OnGOOpen: func(p game.Player, gobj game.GameObject) bool {
			opened = true
			return true
		},
		OnGOUse: func(p game.Player, gobj game.GameObject) bool {
			used = true
			return true
		},
	})

	p := newFakePlayer()
	chest := newFakeGameObject(410)
	chest.scriptID = m.ScriptID("dusty_chest")
	assert.True(t, m.OnGOOpen(p, chest))
	assert.True(t, m.OnGOUse(p, chest))
	assert.True(t, opened)
	assert.True(t, used)

	plain := newFakeGameObject(400)
	assert.False(t, m.OnGOOpen(p, plain))
	assert.False(t, m.OnGOUse(p, plain))
}

func TestOnItemUse(t *testing.T) {
	m := newTestMgr(t)
	seedNames(m, "item_sealed_letter")

	m.Register(&Script{
		Name: "item_sealed_letter",
		OnItemUse: func(p game.Player, item game.Item, targets game.SpellTargets) bool {
			return true
		},
	})

	p := newFakePlayer()
	item := &fakeItem{entry: 710, scriptID: m.ScriptID("item_sealed_letter")}
	assert.True(t, m.OnItemUse(p, item, game.SpellTargets{}))

	plain := &fakeItem{entry: 700}
	assert.False(t, m.OnItemUse(p, plain, game.SpellTargets{}))
}

func TestOnAuraDummy(t *testing.T) {
	m := newTestMgr(t)
	seedNames(m, "town_crier")

	var applied bool
	m.Register(&Script{
		Name: "town_crier",
		OnAuraDummy: func(aura game.Aura, apply bool) bool {
			applied = apply
			return true
		},
	})

	c := newFakeCreature(100)
	c.scriptID = m.ScriptID("town_crier")
	assert.True(t, m.OnAuraDummy(&fakeAura{spellID: 900, target: c}, true))
	assert.True(t, applied)

	// player targets never hit creature aura hooks
	assert.False(t, m.OnAuraDummy(&fakeAura{spellID: 900, target: newFakePlayer()}, true))
}

func TestCreateInstanceData(t *testing.T) {
	m := newTestMgr(t)
	seedNames(m, "instance_shadowfang")

	m.Register(&Script{
		Name: "instance_shadowfang",
		CreateInstanceData: func(mp game.Map) game.InstanceData {
			return newFakeInstanceData()
		},
	})

	assert.NotNil(t, m.CreateInstanceData(&fakeMap{id: 33}))
	assert.Nil(t, m.CreateInstanceData(&fakeMap{id: 0}), "unscripted map")
	assert.Nil(t, m.CreateInstanceData(&fakeMap{id: 99}), "unknown map")
}
