package script

import (
	"sort"

	"go.uber.org/zap"

	"github.com/worldscript/server/internal/game"
)

// queuedStep is one scheduled command awaiting execution.
type queuedStep struct {
	seq    uint64
	dueAt  uint64 // queue clock, milliseconds
	table  string
	rec    *CommandRecord
	source game.WorldObject
	target game.WorldObject
}

// stepQueue holds pending steps ordered by due time. It runs on the
// world tick goroutine only and needs no locking.
type stepQueue struct {
	now     uint64
	nextSeq uint64
	steps   []*queuedStep
}

// StartScripts queues every step of one script id from the given table
// against a source and target pair. Returns false when the id has no
// steps. Delays are relative to now; steps sharing a delay run in their
// stored order.
func (m *Mgr) StartScripts(table *ScriptTable, id uint32, source, target game.WorldObject) bool {
	recs := table.Get(id)
	if len(recs) == 0 {
		return false
	}
	for _, rec := range recs {
		m.queue.nextSeq++
		m.queue.steps = append(m.queue.steps, &queuedStep{
			seq:    m.queue.nextSeq,
			dueAt:  m.queue.now + uint64(rec.Delay),
			table:  table.Name(),
			rec:    rec,
			source: source,
			target: target,
		})
		m.scheduled.Add(1)
	}
	return true
}

// Update advances the queue clock and executes every step that has come
// due, in due-time then queue order.
func (m *Mgr) Update(diffMs uint32) {
	m.queue.now += uint64(diffMs)
	if len(m.queue.steps) == 0 {
		return
	}

	sort.SliceStable(m.queue.steps, func(i, j int) bool {
		if m.queue.steps[i].dueAt != m.queue.steps[j].dueAt {
			return m.queue.steps[i].dueAt < m.queue.steps[j].dueAt
		}
		return m.queue.steps[i].seq < m.queue.steps[j].seq
	})

	for len(m.queue.steps) > 0 && m.queue.steps[0].dueAt <= m.queue.now {
		st := m.queue.steps[0]
		m.queue.steps = m.queue.steps[1:]
		m.scheduled.Add(-1)
		m.executeStep(st)
	}
}

// terminateScript drops every still-queued step belonging to the same
// table, script id and source as the given step.
func (m *Mgr) terminateScript(st *queuedStep) {
	kept := m.queue.steps[:0]
	dropped := 0
	for _, other := range m.queue.steps {
		if other.table == st.table && other.rec.ID == st.rec.ID && other.source == st.source {
			m.scheduled.Add(-1)
			dropped++
			continue
		}
		kept = append(kept, other)
	}
	m.queue.steps = kept
	if dropped > 0 {
		m.log.Debug("script terminated",
			zap.String("table", st.table), zap.Uint32("id", st.rec.ID),
			zap.Int("dropped", dropped))
	}
}

func asUnit(o game.WorldObject) game.Unit {
	u, _ := o.(game.Unit)
	return u
}

func asCreature(o game.WorldObject) game.Creature {
	c, _ := o.(game.Creature)
	return c
}

func asGameObject(o game.WorldObject) game.GameObject {
	g, _ := o.(game.GameObject)
	return g
}

// playerFor picks the player a step acts on: target first, then source.
func playerFor(source, target game.WorldObject) game.Player {
	if p, ok := target.(game.Player); ok {
		return p
	}
	if p, ok := source.(game.Player); ok {
		return p
	}
	return nil
}

// resolveBuddyObject finds the live entity a step's buddy reference names.
func (m *Mgr) resolveBuddyObject(st *queuedStep) game.WorldObject {
	buddy := st.rec.Buddy
	switch buddy.Type {
	case BuddyCreatureEntry:
		if c := m.world.FindCreatureNear(st.source, buddy.ID, float32(buddy.Radius)); c != nil {
			return c
		}
	case BuddyCreatureGUID:
		if c := m.world.GetCreatureByGUID(buddy.ID); c != nil {
			return c
		}
	case BuddyGameObjectEntry:
		if g := m.world.FindGameObjectNear(st.source, buddy.ID, float32(buddy.Radius)); g != nil {
			return g
		}
	case BuddyGameObjectGUID:
		if g := m.world.GetGameObjectByGUID(buddy.ID); g != nil {
			return g
		}
	case BuddyCreatureInstanceData:
		if st.source != nil && st.source.Map() != nil {
			if inst := st.source.Map().InstanceData(); inst != nil {
				if c := m.world.GetCreatureByGUID(inst.GetData(buddy.ID)); c != nil {
					return c
				}
			}
		}
	case BuddyGameObjectInstanceData:
		if st.source != nil && st.source.Map() != nil {
			if inst := st.source.Map().InstanceData(); inst != nil {
				if g := m.world.GetGameObjectByGUID(inst.GetData(buddy.ID)); g != nil {
					return g
				}
			}
		}
	}
	return nil
}

// executeStep resolves the step's source and target, applying swap flags
// and the buddy reference, then runs the command. A step whose actors
// cannot be resolved is skipped with a warning; the rest of the script
// still runs.
func (m *Mgr) executeStep(st *queuedStep) {
	source, target := st.source, st.target
	rec := st.rec

	if rec.HasFlag(FlagSwapInitialTargets) {
		source, target = target, source
	}
	if rec.Buddy != nil {
		buddy := m.resolveBuddyObject(st)
		if buddy == nil {
			m.log.Warn("script step buddy not found",
				zap.String("table", st.table), zap.Uint32("id", rec.ID),
				zap.String("command", rec.Command.String()),
				zap.Uint32("buddy", rec.Buddy.ID))
			return
		}
		if rec.HasFlag(FlagBuddyAsTarget) {
			target = buddy
		} else {
			source = buddy
		}
	}
	if rec.HasFlag(FlagSwapFinalTargets) {
		source, target = target, source
	}

	if !m.runCommand(st, rec, source, target) {
		m.log.Warn("script step could not run on its actors",
			zap.String("table", st.table), zap.Uint32("id", rec.ID),
			zap.String("command", rec.Command.String()))
	}
}

// runCommand executes one resolved step. Returns false when the actors
// do not fit the command.
func (m *Mgr) runCommand(st *queuedStep, rec *CommandRecord, source, target game.WorldObject) bool {
	switch p := rec.Payload.(type) {
	case TalkPayload:
		if source == nil {
			return false
		}
		m.DoScriptText(pickTextID(p.TextIDs, st.seq), source, asUnit(target), p.ChatType)

	case EmotePayload:
		u := asUnit(source)
		if u == nil {
			return false
		}
		u.HandleEmote(p.EmoteID)

	case FieldSetPayload, FlagSetPayload, FlagRemovePayload:
		// raw object field writes are owned by the simulation, not by
		// this engine
		m.log.Debug("raw field command ignored",
			zap.String("table", st.table), zap.Uint32("id", rec.ID),
			zap.String("command", rec.Command.String()))

	case MoveToPayload:
		c := asCreature(source)
		if c == nil {
			return false
		}
		x, y, z := rec.X, rec.Y, rec.Z
		if p.CoordsType == MoveToCoordsRelativeToTarget && target != nil {
			tx, ty, tz, _ := target.Position()
			x, y, z = tx+x, ty+y, tz+z
		}
		c.MovePoint(x, y, z, p.MovementOptions)

	case TeleportPayload:
		pl := playerFor(source, target)
		if pl == nil {
			return false
		}
		pl.TeleportTo(p.MapID, rec.X, rec.Y, rec.Z, rec.O)

	case QuestExploredPayload:
		pl := playerFor(source, target)
		if pl == nil {
			return false
		}
		pl.AreaExploredOrEventHappens(p.QuestID)

	case KillCreditPayload:
		pl := playerFor(source, target)
		if pl == nil {
			return false
		}
		pl.KilledMonsterCredit(p.CreatureEntry)

	case RespawnGameObjectPayload:
		g := m.world.GetGameObjectByGUID(p.GOGuid)
		if g == nil {
			return false
		}
		g.Respawn()

	case SummonCreaturePayload:
		if source == nil || source.Map() == nil {
			return false
		}
		source.Map().SummonCreature(p.CreatureEntry, rec.X, rec.Y, rec.Z, rec.O, p.DespawnDelay)

	case DoorPayload:
		g := m.world.GetGameObjectByGUID(p.GOGuid)
		if g == nil {
			return false
		}
		if rec.Command == CommandOpenDoor {
			g.UseDoorOrButton(p.ResetDelay)
		} else {
			g.ResetDoorOrButton()
		}

	case ActivateObjectPayload:
		g := asGameObject(target)
		if g == nil {
			g = asGameObject(source)
		}
		if g == nil {
			return false
		}
		g.UseDoorOrButton(0)

	case RemoveAuraPayload:
		u := asUnit(source)
		if u == nil {
			return false
		}
		u.RemoveAura(p.SpellID)

	case CastSpellPayload:
		u := asUnit(source)
		if u == nil {
			return false
		}
		u.CastSpell(asUnit(target), p.SpellID, p.CastFlags&0x01 != 0)

	case PlaySoundPayload:
		if source == nil {
			return false
		}
		source.PlayDirectSound(p.SoundID)

	case CreateItemPayload:
		pl := playerFor(source, target)
		if pl == nil {
			return false
		}
		if !pl.AddItem(p.ItemEntry, p.Amount) {
			m.log.Warn("scripted item grant failed",
				zap.Uint32("id", rec.ID), zap.Uint32("item", p.ItemEntry))
		}

	case DespawnPayload:
		c := asCreature(source)
		if c == nil {
			return false
		}
		c.ForcedDespawn(p.DespawnDelay)

	case SetEquipmentPayload:
		c := asCreature(source)
		if c == nil {
			return false
		}
		if p.ResetDefault != 0 {
			c.SetEquipment(0, 0, 0)
		} else {
			c.SetEquipment(p.Slots[0], p.Slots[1], p.Slots[2])
		}

	case MovementPayload:
		c := asCreature(source)
		if c == nil {
			return false
		}
		c.SetMotion(p.MotionType, p.BoolParam != 0)

	case SetActiveObjectPayload:
		g := asGameObject(source)
		if g == nil {
			return false
		}
		g.SetActive(p.Activate != 0)

	case SetFactionPayload:
		c := asCreature(source)
		if c == nil {
			return false
		}
		if p.FactionID == 0 {
			c.RestoreFaction()
		} else {
			c.SetFaction(p.FactionID)
		}

	case MorphPayload:
		c := asCreature(source)
		if c == nil {
			return false
		}
		switch {
		case p.CreatureOrModelEntry == 0:
			c.Demorph()
		case p.IsDisplayID:
			c.Morph(p.CreatureOrModelEntry)
		default:
			if tmpl := m.store.Creatures.GetTemplate(p.CreatureOrModelEntry); tmpl != nil {
				c.Morph(tmpl.DisplayID)
			}
		}

	case MountPayload:
		c := asCreature(source)
		if c == nil {
			return false
		}
		switch {
		case p.CreatureOrModelEntry == 0:
			c.Unmount()
		case p.IsDisplayID:
			c.Mount(p.CreatureOrModelEntry)
		default:
			if tmpl := m.store.Creatures.GetTemplate(p.CreatureOrModelEntry); tmpl != nil {
				c.Mount(tmpl.DisplayID)
			}
		}

	case SetRunPayload:
		c := asCreature(source)
		if c == nil {
			return false
		}
		c.SetRun(p.Run)

	case AttackStartPayload:
		c := asCreature(source)
		u := asUnit(target)
		if c == nil || u == nil {
			return false
		}
		c.AttackStart(u)

	case GoLockStatePayload:
		g := asGameObject(source)
		if g == nil {
			g = asGameObject(target)
		}
		if g == nil {
			return false
		}
		if p.LockState&GoLockStateLock != 0 {
			g.SetLockState(true)
		}
		if p.LockState&GoLockStateUnlock != 0 {
			g.SetLockState(false)
		}
		if p.LockState&GoLockStateNoInteract != 0 {
			g.SetInteractable(false)
		}
		if p.LockState&GoLockStateInteract != 0 {
			g.SetInteractable(true)
		}

	case StandStatePayload:
		u := asUnit(source)
		if u == nil {
			return false
		}
		u.SetStandState(uint8(p.StandState))

	case NpcFlagsPayload:
		c := asCreature(source)
		if c == nil {
			return false
		}
		c.SetNpcFlags(p.Flags, p.ChangeMode != 2)

	case TaxiPathPayload:
		pl := playerFor(source, target)
		if pl == nil {
			return false
		}
		pl.ActivateTaxiPath(p.PathID)

	case TerminatePayload:
		if p.CreatureEntry != 0 {
			if m.world.FindCreatureNear(st.source, p.CreatureEntry, float32(p.SearchRadius)) != nil {
				return true // the creature is around, keep the script running
			}
		}
		m.terminateScript(st)

	case TerminateConditionPayload:
		pl := playerFor(source, target)
		if m.world.CheckCondition(p.ConditionID, pl, source) {
			return true
		}
		if p.FailQuest != 0 && pl != nil {
			pl.FailQuest(p.FailQuest)
		}
		m.terminateScript(st)

	case EvadePayload:
		c := asCreature(source)
		if c == nil {
			return false
		}
		c.EnterEvadeMode()

	case HomePositionPayload:
		c := asCreature(source)
		if c == nil {
			return false
		}
		if p.UseCurrent {
			x, y, z, o := c.Position()
			c.SetHomePosition(x, y, z, o)
		} else {
			c.SetHomePosition(rec.X, rec.Y, rec.Z, rec.O)
		}

	case TurnToPayload:
		u := asUnit(source)
		if u == nil {
			return false
		}
		if p.FacingLogic == 0 {
			if t := asUnit(target); t != nil {
				u.SetFacing(t)
			} else {
				u.SetFacingTo(rec.O)
			}
		} else {
			u.SetFacingTo(rec.O)
		}

	case MeetingStonePayload:
		pl := playerFor(source, target)
		if pl == nil {
			return false
		}
		pl.SendMeetingStoneQueue(p.AreaID)

	case SetInstDataPayload:
		inst := instanceDataFor(source, target)
		if inst == nil {
			return false
		}
		switch p.Mode {
		case InstDataSet:
			inst.SetData(p.Field, p.Value)
		case InstDataIncrement:
			inst.SetData(p.Field, inst.GetData(p.Field)+p.Value)
		case InstDataDecrement:
			inst.SetData(p.Field, inst.GetData(p.Field)-p.Value)
		}

	case SetInstData64Payload:
		inst := instanceDataFor(source, target)
		if inst == nil {
			return false
		}
		switch p.Mode {
		case InstData64Set:
			inst.SetData64(p.Field, p.Value)
		case InstData64SourceGUID:
			if source == nil {
				return false
			}
			inst.SetData64(p.Field, source.GUID())
		}

	case RawPayload:
		m.log.Debug("unknown script command ignored",
			zap.String("table", st.table), zap.Uint32("id", rec.ID),
			zap.Uint32("command", uint32(rec.Command)))
	}
	return true
}

func instanceDataFor(source, target game.WorldObject) game.InstanceData {
	for _, o := range []game.WorldObject{source, target} {
		if o != nil && o.Map() != nil {
			if inst := o.Map().InstanceData(); inst != nil {
				return inst
			}
		}
	}
	return nil
}

// pickTextID chooses one of the filled text slots. The pick is seeded by
// the step's queue sequence so replays of a fixed schedule stay
// deterministic.
func pickTextID(ids [MaxTextIDs]int32, seed uint64) int32 {
	n := 0
	for _, id := range ids {
		if id == 0 {
			break
		}
		n++
	}
	if n == 0 {
		return 0
	}
	return ids[seed%uint64(n)]
}
