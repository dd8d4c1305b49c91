package script

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/worldscript/server/internal/data"
)

const commandRowColumns = `id, delay, command,
	datalong, datalong2, datalong3, datalong4,
	buddy_id, buddy_radius, buddy_type, data_flags,
	dataint, dataint2, dataint3, dataint4,
	x, y, z, o`

var knownDataFlags = FlagSwapInitialTargets | FlagSwapFinalTargets | FlagBuddyAsTarget

// loadScriptTable rebuilds one command table from the database. Every row
// passes buddy resolution, flag sanity and the command's own validation;
// rows that fail are dropped with a warning and the rest of the table
// still loads. While steps are queued the reload is refused and the
// current table is kept.
func (m *Mgr) loadScriptTable(ctx context.Context, q Querier, table *ScriptTable) error {
	if n := m.scheduled.Load(); n > 0 {
		m.log.Warn("script table reload refused, steps still queued",
			zap.String("table", table.Name()), zap.Int64("queued", n))
		return nil
	}

	rows, err := q.Query(ctx, "SELECT "+commandRowColumns+" FROM "+table.Name())
	if err != nil {
		return fmt.Errorf("load %s: %w", table.Name(), err)
	}
	defer rows.Close()

	next := newScriptTable(table.Name())
	total := 0
	for rows.Next() {
		var raw RawRow
		if err := rows.Scan(
			&raw.ID, &raw.Delay, &raw.Command,
			&raw.Datalong[0], &raw.Datalong[1], &raw.Datalong[2], &raw.Datalong[3],
			&raw.BuddyID, &raw.BuddyRadius, &raw.BuddyType, &raw.DataFlags,
			&raw.Dataint[0], &raw.Dataint[1], &raw.Dataint[2], &raw.Dataint[3],
			&raw.X, &raw.Y, &raw.Z, &raw.O,
		); err != nil {
			return fmt.Errorf("scan %s: %w", table.Name(), err)
		}
		total++

		rec, err := m.buildRecord(&raw)
		if err != nil {
			m.log.Warn("script row dropped",
				zap.String("table", table.Name()),
				zap.Uint32("id", raw.ID),
				zap.String("command", Command(raw.Command).String()),
				zap.Error(err))
			continue
		}
		next.add(rec)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("read %s: %w", table.Name(), err)
	}
	next.sortByDelay()

	*table = *next
	m.log.Info("script table loaded",
		zap.String("table", table.Name()),
		zap.Int("rows", table.Len()),
		zap.Int("dropped", total-table.Len()))
	return nil
}

// buildRecord validates one raw row and decodes its payload. A non-nil
// error means the row is unusable and must be dropped.
func (m *Mgr) buildRecord(raw *RawRow) (*CommandRecord, error) {
	if raw.DataFlags&^knownDataFlags != 0 {
		return nil, fmt.Errorf("unknown data_flags 0x%x", raw.DataFlags&^knownDataFlags)
	}

	buddy, err := m.resolveBuddy(raw)
	if err != nil {
		return nil, err
	}
	if buddy == nil && raw.DataFlags&FlagBuddyAsTarget != 0 {
		return nil, fmt.Errorf("data_flags 0x%x requires a buddy but buddy_id is 0", raw.DataFlags)
	}
	// swapping both target sets without a buddy ends where it started
	swapBoth := FlagSwapInitialTargets | FlagSwapFinalTargets
	if buddy == nil && raw.DataFlags&swapBoth == swapBoth {
		return nil, fmt.Errorf("data_flags 0x%x swaps both target sets without a buddy", raw.DataFlags)
	}

	rec := &CommandRecord{
		ID:      raw.ID,
		Delay:   raw.Delay,
		Command: Command(raw.Command),
		Payload: buildPayload(raw),
		Buddy:   buddy,
		Flags:   raw.DataFlags,
		X:       raw.X, Y: raw.Y,
		Z: raw.Z, O: raw.O,
	}
	if err := m.validateRecord(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// resolveBuddy checks a row's buddy reference against the catalogs. A
// zero buddy_id means no buddy. Unknown buddy types keep the reference so
// future types stay loadable; resolution then fails at run time instead.
func (m *Mgr) resolveBuddy(raw *RawRow) (*BuddyRef, error) {
	if raw.BuddyID == 0 {
		return nil, nil
	}
	ref := &BuddyRef{ID: raw.BuddyID, Radius: raw.BuddyRadius, Type: BuddyType(raw.BuddyType)}

	switch ref.Type {
	case BuddyCreatureEntry:
		if m.store.Creatures.GetTemplate(ref.ID) == nil {
			return nil, fmt.Errorf("buddy creature entry %d does not exist", ref.ID)
		}
		if ref.Radius == 0 {
			return nil, fmt.Errorf("buddy creature entry %d has search radius 0", ref.ID)
		}
	case BuddyCreatureGUID:
		if m.store.Creatures.GetSpawn(ref.ID) == nil {
			return nil, fmt.Errorf("buddy creature guid %d is not spawned", ref.ID)
		}
	case BuddyGameObjectEntry:
		if m.store.GameObjects.GetTemplate(ref.ID) == nil {
			return nil, fmt.Errorf("buddy gameobject entry %d does not exist", ref.ID)
		}
		if ref.Radius == 0 {
			return nil, fmt.Errorf("buddy gameobject entry %d has search radius 0", ref.ID)
		}
	case BuddyGameObjectGUID:
		if m.store.GameObjects.GetSpawn(ref.ID) == nil {
			return nil, fmt.Errorf("buddy gameobject guid %d is not spawned", ref.ID)
		}
	case BuddyCreatureInstanceData, BuddyGameObjectInstanceData:
		// resolved through instance data at run time, nothing to check here
	default:
		m.log.Warn("script row has unknown buddy type, kept",
			zap.Uint32("id", raw.ID), zap.Uint8("buddy_type", raw.BuddyType))
	}
	return ref, nil
}

func (m *Mgr) validateRecord(rec *CommandRecord) error {
	switch p := rec.Payload.(type) {
	case TalkPayload:
		return m.validateTalk(rec, p)
	case EmotePayload:
		if !m.store.Emotes.Has(p.EmoteID) {
			return fmt.Errorf("emote %d does not exist", p.EmoteID)
		}
	case FieldSetPayload:
		if p.FieldID == 0 {
			return fmt.Errorf("FIELD_SET with field id 0")
		}
	case FlagSetPayload:
		if p.FieldID == 0 {
			return fmt.Errorf("FLAG_SET with field id 0")
		}
	case FlagRemovePayload:
		if p.FieldID == 0 {
			return fmt.Errorf("FLAG_REMOVE with field id 0")
		}
	case MoveToPayload:
		if p.CoordsType >= MoveToCoordsMax {
			return fmt.Errorf("invalid coordinates type %d", p.CoordsType)
		}
		if p.MovementOptions > MaxMovementOptions {
			return fmt.Errorf("movement options 0x%x out of range", p.MovementOptions)
		}
	case TeleportPayload:
		if m.store.Maps.Get(p.MapID) == nil {
			return fmt.Errorf("teleport target map %d does not exist", p.MapID)
		}
		if !data.IsValidMapCoord(rec.X, rec.Y, rec.Z, rec.O) {
			return fmt.Errorf("teleport target coordinates are invalid")
		}
	case QuestExploredPayload:
		return m.validateQuestExplored(rec, p)
	case KillCreditPayload:
		if m.store.Creatures.GetTemplate(p.CreatureEntry) == nil {
			return fmt.Errorf("kill credit creature %d does not exist", p.CreatureEntry)
		}
	case RespawnGameObjectPayload:
		return m.validateRespawnGameObject(p)
	case SummonCreaturePayload:
		if m.store.Creatures.GetTemplate(p.CreatureEntry) == nil {
			return fmt.Errorf("summon creature %d does not exist", p.CreatureEntry)
		}
		if !data.IsValidMapCoord(rec.X, rec.Y, rec.Z, rec.O) {
			return fmt.Errorf("summon coordinates are invalid")
		}
	case DoorPayload:
		return m.validateDoor(p)
	case RemoveAuraPayload:
		if m.store.Spells.Get(p.SpellID) == nil {
			return fmt.Errorf("aura spell %d does not exist", p.SpellID)
		}
	case CastSpellPayload:
		if m.store.Spells.Get(p.SpellID) == nil {
			return fmt.Errorf("cast spell %d does not exist", p.SpellID)
		}
		if p.CastFlags&^CastSpellFlagsMask != 0 {
			return fmt.Errorf("cast flags 0x%x out of range", p.CastFlags)
		}
	case PlaySoundPayload:
		if !m.store.Sounds.Has(p.SoundID) {
			return fmt.Errorf("sound %d does not exist", p.SoundID)
		}
		if p.Flags&^uint32(0x03) != 0 {
			return fmt.Errorf("sound flags 0x%x out of range", p.Flags)
		}
	case CreateItemPayload:
		if m.store.Items.Get(p.ItemEntry) == nil {
			return fmt.Errorf("item %d does not exist", p.ItemEntry)
		}
		if p.Amount == 0 {
			return fmt.Errorf("CREATE_ITEM with amount 0")
		}
	case SetEquipmentPayload:
		// all slots must resolve, a partly valid row is dropped whole
		for i, slot := range p.Slots {
			if slot <= 0 {
				continue
			}
			if m.store.Items.Get(uint32(slot)) == nil {
				return fmt.Errorf("equipment slot %d item %d does not exist", i, slot)
			}
		}
	case MovementPayload:
		if p.MotionType >= motionMax {
			return fmt.Errorf("invalid motion type %d", p.MotionType)
		}
		if p.BoolParam > 1 {
			return fmt.Errorf("MOVEMENT boolean parameter %d out of range", p.BoolParam)
		}
	case SetFactionPayload:
		if p.FactionID != 0 && !m.store.Factions.Has(p.FactionID) {
			return fmt.Errorf("faction %d does not exist", p.FactionID)
		}
	case MorphPayload:
		return m.validateEntryOrModel("morph", p.CreatureOrModelEntry, p.IsDisplayID)
	case MountPayload:
		return m.validateEntryOrModel("mount", p.CreatureOrModelEntry, p.IsDisplayID)
	case GoLockStatePayload:
		return validateGoLockState(p.LockState)
	case StandStatePayload:
		if p.StandState >= MaxStandState {
			return fmt.Errorf("stand state %d out of range", p.StandState)
		}
	case NpcFlagsPayload:
		if p.ChangeMode > 2 {
			return fmt.Errorf("npc flag change mode %d out of range", p.ChangeMode)
		}
	case TaxiPathPayload:
		if !m.store.TaxiPaths.Has(p.PathID) {
			return fmt.Errorf("taxi path %d does not exist", p.PathID)
		}
	case TerminatePayload:
		if p.CreatureEntry != 0 {
			if m.store.Creatures.GetTemplate(p.CreatureEntry) == nil {
				return fmt.Errorf("terminate search creature %d does not exist", p.CreatureEntry)
			}
			if p.SearchRadius == 0 {
				return fmt.Errorf("terminate search creature %d with radius 0", p.CreatureEntry)
			}
		}
	case TerminateConditionPayload:
		if !m.store.Conditions.Has(p.ConditionID) {
			return fmt.Errorf("condition %d does not exist", p.ConditionID)
		}
		if p.FailQuest != 0 {
			if m.store.Quests.Get(p.FailQuest) == nil {
				return fmt.Errorf("fail quest %d does not exist", p.FailQuest)
			}
		}
	case HomePositionPayload:
		if !p.UseCurrent && !data.IsValidMapCoord(rec.X, rec.Y, rec.Z, rec.O) {
			return fmt.Errorf("home position coordinates are invalid")
		}
	case TurnToPayload:
		if p.FacingLogic > 1 {
			return fmt.Errorf("facing logic %d out of range", p.FacingLogic)
		}
	case MeetingStonePayload:
		if p.AreaID == 0 {
			return fmt.Errorf("MEETINGSTONE with area id 0")
		}
	case SetInstDataPayload:
		if p.Mode >= instDataMax {
			return fmt.Errorf("instance data mode %d out of range", p.Mode)
		}
	case SetInstData64Payload:
		if p.Mode >= instData64Max {
			return fmt.Errorf("instance data64 mode %d out of range", p.Mode)
		}
	}
	return nil
}

func (m *Mgr) validateTalk(rec *CommandRecord, p TalkPayload) error {
	if p.ChatType > ChatTypeZoneYell {
		return fmt.Errorf("invalid chat type %d", p.ChatType)
	}
	if p.TextIDs[0] == 0 {
		return fmt.Errorf("TALK without a text id")
	}
	seenEmpty := false
	for i, id := range p.TextIDs {
		if id == 0 {
			seenEmpty = true
			continue
		}
		if seenEmpty {
			return fmt.Errorf("text id in slot %d after an empty slot", i)
		}
		if id < 0 {
			return fmt.Errorf("text id %d in slot %d is not a broadcast text id", id, i)
		}
	}
	return nil
}

func (m *Mgr) validateQuestExplored(rec *CommandRecord, p QuestExploredPayload) error {
	quest := m.store.Quests.Get(p.QuestID)
	if quest == nil {
		return fmt.Errorf("quest %d does not exist", p.QuestID)
	}
	if float32(p.Distance) > data.DefaultVisibilityDistance {
		return fmt.Errorf("quest complete distance %d exceeds visibility range", p.Distance)
	}
	// zero disables the distance check entirely
	if p.Distance != 0 && float32(p.Distance) < data.InteractionDistance {
		return fmt.Errorf("quest complete distance %d below interaction range", p.Distance)
	}
	if !quest.HasSpecialFlag(data.QuestFlagExplorationOrEvent) {
		// the step cannot complete the quest without the flag, repair it
		quest.SetSpecialFlag(data.QuestFlagExplorationOrEvent)
		m.log.Warn("quest missing exploration/event special flag, flag added",
			zap.Uint32("id", rec.ID), zap.Uint32("quest", p.QuestID))
	}
	return nil
}

func (m *Mgr) validateRespawnGameObject(p RespawnGameObjectPayload) error {
	spawn := m.store.GameObjects.GetSpawn(p.GOGuid)
	if spawn == nil {
		return fmt.Errorf("gameobject guid %d is not spawned", p.GOGuid)
	}
	tmpl := m.store.GameObjects.GetTemplate(spawn.Entry)
	if tmpl == nil {
		return fmt.Errorf("gameobject guid %d has no template %d", p.GOGuid, spawn.Entry)
	}
	switch tmpl.Type {
	case data.GOTypeFishingNode, data.GOTypeDoor, data.GOTypeButton, data.GOTypeTrap:
		return fmt.Errorf("gameobject guid %d has type %d which cannot be respawned this way",
			p.GOGuid, tmpl.Type)
	}
	return nil
}

func (m *Mgr) validateDoor(p DoorPayload) error {
	spawn := m.store.GameObjects.GetSpawn(p.GOGuid)
	if spawn == nil {
		return fmt.Errorf("gameobject guid %d is not spawned", p.GOGuid)
	}
	tmpl := m.store.GameObjects.GetTemplate(spawn.Entry)
	if tmpl == nil {
		return fmt.Errorf("gameobject guid %d has no template %d", p.GOGuid, spawn.Entry)
	}
	if tmpl.Type != data.GOTypeDoor && tmpl.Type != data.GOTypeButton {
		return fmt.Errorf("gameobject guid %d has type %d, door or button required",
			p.GOGuid, tmpl.Type)
	}
	return nil
}

func (m *Mgr) validateEntryOrModel(what string, entry uint32, isDisplay bool) error {
	if entry == 0 {
		return nil // zero restores the natural form
	}
	if isDisplay {
		if !m.store.Displays.Has(entry) {
			return fmt.Errorf("%s display id %d does not exist", what, entry)
		}
		return nil
	}
	if m.store.Creatures.GetTemplate(entry) == nil {
		return fmt.Errorf("%s creature entry %d does not exist", what, entry)
	}
	return nil
}

func validateGoLockState(state uint32) error {
	if state == 0 || state >= goLockStateMax {
		return fmt.Errorf("lock state 0x%x out of range", state)
	}
	if state&GoLockStateLock != 0 && state&GoLockStateUnlock != 0 {
		return fmt.Errorf("lock state 0x%x sets lock and unlock together", state)
	}
	if state&GoLockStateNoInteract != 0 && state&GoLockStateInteract != 0 {
		return fmt.Errorf("lock state 0x%x sets interact and no-interact together", state)
	}
	return nil
}

// LoadGameObjectScripts loads gameobject_scripts. Script ids are
// gameobject spawn guids.
func (m *Mgr) LoadGameObjectScripts(ctx context.Context, q Querier) error {
	if err := m.loadScriptTable(ctx, q, m.gameObjectScripts); err != nil {
		return err
	}
	for _, id := range m.gameObjectScripts.IDs() {
		if m.store.GameObjects.GetSpawn(id) == nil {
			m.log.Warn("gameobject script bound to unspawned guid",
				zap.Uint32("guid", id))
		}
	}
	return nil
}

// LoadQuestEndScripts loads quest_end_scripts. Script ids are quest ids.
func (m *Mgr) LoadQuestEndScripts(ctx context.Context, q Querier) error {
	if err := m.loadScriptTable(ctx, q, m.questEndScripts); err != nil {
		return err
	}
	m.checkQuestIDs(m.questEndScripts)
	return nil
}

// LoadQuestStartScripts loads quest_start_scripts. Script ids are quest
// ids.
func (m *Mgr) LoadQuestStartScripts(ctx context.Context, q Querier) error {
	if err := m.loadScriptTable(ctx, q, m.questStartScripts); err != nil {
		return err
	}
	m.checkQuestIDs(m.questStartScripts)
	return nil
}

func (m *Mgr) checkQuestIDs(table *ScriptTable) {
	for _, id := range table.IDs() {
		if m.store.Quests.Get(id) == nil {
			m.log.Warn("script bound to missing quest",
				zap.String("table", table.Name()), zap.Uint32("quest", id))
		}
	}
}

// LoadSpellScripts loads spell_scripts. Script ids are spell ids and the
// spell must carry a script effect, otherwise the script can never fire.
func (m *Mgr) LoadSpellScripts(ctx context.Context, q Querier) error {
	if err := m.loadScriptTable(ctx, q, m.spellScripts); err != nil {
		return err
	}
	for _, id := range m.spellScripts.IDs() {
		spell := m.store.Spells.Get(id)
		if spell == nil {
			m.log.Warn("spell script bound to missing spell", zap.Uint32("spell", id))
			continue
		}
		if !spell.HasEffect(data.SpellEffectScriptEffect) {
			m.log.Warn("spell script bound to spell without a script effect",
				zap.Uint32("spell", id))
		}
	}
	return nil
}

// LoadCreatureSpellsScripts loads creature_spells_scripts. Script ids
// encode creature entry and spell slot as entry*100+slot.
func (m *Mgr) LoadCreatureSpellsScripts(ctx context.Context, q Querier) error {
	if err := m.loadScriptTable(ctx, q, m.creatureSpellsScripts); err != nil {
		return err
	}
	for _, id := range m.creatureSpellsScripts.IDs() {
		entry := id / 100
		if m.store.Creatures.GetTemplate(entry) == nil {
			m.log.Warn("creature spells script bound to missing creature",
				zap.Uint32("id", id), zap.Uint32("entry", entry))
		}
	}
	return nil
}

// LoadEventScripts loads event_scripts. Script ids are world event ids;
// ids no game data can fire are kept but warned about.
func (m *Mgr) LoadEventScripts(ctx context.Context, q Querier) error {
	if err := m.loadScriptTable(ctx, q, m.eventScripts); err != nil {
		return err
	}
	possible := m.collectPossibleEventIDs()
	for _, id := range m.eventScripts.IDs() {
		if _, ok := possible[id]; !ok {
			m.log.Warn("event script can never trigger from game data",
				zap.Uint32("event", id))
		}
	}
	return nil
}

// LoadGossipScripts loads gossip_scripts. Script ids are free-form and
// referenced from gossip menu actions, so no referential pass applies.
func (m *Mgr) LoadGossipScripts(ctx context.Context, q Querier) error {
	return m.loadScriptTable(ctx, q, m.gossipScripts)
}

// LoadCreatureMovementScripts loads creature_movement_scripts. Script ids
// are referenced from waypoint data, so no referential pass applies.
func (m *Mgr) LoadCreatureMovementScripts(ctx context.Context, q Querier) error {
	return m.loadScriptTable(ctx, q, m.creatureMovementScripts)
}

// CheckAllScriptTexts verifies every TALK step's text ids against the
// broadcast text catalog. Call after the command tables are in.
func (m *Mgr) CheckAllScriptTexts() {
	for _, table := range []*ScriptTable{
		m.gameObjectScripts,
		m.questEndScripts,
		m.questStartScripts,
		m.spellScripts,
		m.creatureSpellsScripts,
		m.eventScripts,
		m.gossipScripts,
		m.creatureMovementScripts,
	} {
		for _, id := range table.IDs() {
			for _, rec := range table.Get(id) {
				talk, ok := rec.Payload.(TalkPayload)
				if !ok {
					continue
				}
				for _, textID := range talk.TextIDs {
					if textID == 0 {
						break
					}
					if m.store.BroadcastTexts.Get(textID) == nil {
						m.log.Warn("TALK step references missing broadcast text",
							zap.String("table", table.Name()),
							zap.Uint32("id", id),
							zap.Int32("text", textID))
					}
				}
			}
		}
	}
}
