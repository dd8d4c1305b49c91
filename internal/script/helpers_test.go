package script

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/worldscript/server/internal/data"
	"github.com/worldscript/server/internal/game"
)

// testStore builds a small catalog store covering every lookup the
// loaders and dispatch make. Entry numbers group by kind: creatures 1xx,
// gameobjects 4xx (spawn guids 64xx), items 7xx, quests 8xx, spells 9xx.
func testStore(t *testing.T) *data.Store {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		"creature_templates.yaml": `creatures:
  - {entry: 100, name: Town Crier, display_id: 1100, script_name: town_crier}
  - {entry: 200, name: Guard, display_id: 1200}
  - {entry: 300, name: Prisoner, display_id: 1300, script_name: npc_prisoner}
`,
		"creature_spawns.yaml": `spawns:
  - {guid: 5100, entry: 100, map_id: 0, x: 10, y: 20, z: 30, o: 0}
`,
		"gameobject_templates.yaml": `gameobjects:
  - {entry: 400, type: 0, name: Old Door}
  - {entry: 410, type: 3, name: Dusty Chest, script_name: dusty_chest, event_id: 7001}
  - {entry: 420, type: 17, name: Bobber}
`,
		"gameobject_spawns.yaml": `spawns:
  - {guid: 6400, entry: 400, map_id: 0, x: 0, y: 0, z: 0, o: 0}
  - {guid: 6410, entry: 410, map_id: 0, x: 0, y: 0, z: 0, o: 0}
  - {guid: 6420, entry: 420, map_id: 0, x: 0, y: 0, z: 0, o: 0}
`,
		"item_templates.yaml": `items:
  - {entry: 700, name: Rusty Key}
  - {entry: 710, name: Sealed Letter, script_name: item_sealed_letter}
`,
		"quest_templates.yaml": `quests:
  - {id: 800, title: The Missing Diplomat, special_flags: 2}
  - {id: 810, title: A Lost Cause, special_flags: 0}
`,
		"spell_templates.yaml": `spells:
  - {id: 900, name: Scripted Bolt, effects: [77, 0, 0], effect_misc_values: [0, 0, 0]}
  - {id: 910, name: Plain Bolt, effects: [2, 0, 0], effect_misc_values: [0, 0, 0]}
  - {id: 920, name: Event Pulse, effects: [61, 0, 0], effect_misc_values: [7002, 0, 0]}
`,
		"map_templates.yaml": `maps:
  - {id: 0, name: Eastern Kingdoms}
  - {id: 33, name: Shadowfang Keep, script_name: instance_shadowfang}
`,
		"area_triggers.yaml": `area_triggers:
  - {id: 1000, map_id: 0}
`,
		"broadcast_texts.yaml": `broadcast_texts:
  - {id: 50, text: "Hear ye, hear ye!", chat_type: 0, language: 7, emote: 2, sound: 1150}
  - {id: 55, text: Make way!, chat_type: 0}
  - {id: 60, text: The keep trembles!, chat_type: 6, language: 1, sound: 1151}
`,
		"factions.yaml":          "ids: [14, 35]\n",
		"emotes.yaml":            "ids: [1, 2, 5]\n",
		"sounds.yaml":            "ids: [1150, 1151]\n",
		"taxi_paths.yaml":        "ids: [506]\n",
		"conditions.yaml":        "ids: [40]\n",
		"languages.yaml":         "ids: [1, 7]\n",
		"creature_displays.yaml": "ids: [1100, 1200, 1300, 2500]\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	store, err := data.LoadStore(dir)
	require.NoError(t, err)
	return store
}

func newTestMgr(t *testing.T) *Mgr {
	t.Helper()
	return NewMgr(zap.NewNop(), testStore(t))
}

// seedNames assigns the registry directly, bypassing the database load.
// Names must already be sorted; index 0 stays the reserved empty slot.
func seedNames(m *Mgr, names ...string) {
	m.names = append([]string{""}, names...)
	m.scripts = make([]*Script, len(m.names))
}

// call records one method invocation on a fake.
type call struct {
	method string
	args   []any
}

type fakeObject struct {
	guid       uint64
	entry      uint32
	objName    string
	typeID     game.TypeID
	mp         game.Map
	x, y, z, o float32

	calls []call
}

func (f *fakeObject) record(method string, args ...any) {
	// zero-arg calls keep a non-nil slice so called can tell "ran with no
	// arguments" from "never ran"
	if args == nil {
		args = []any{}
	}
	f.calls = append(f.calls, call{method, args})
}

// called returns the arguments of the first invocation of method, nil
// when it never ran.
func (f *fakeObject) called(method string) []any {
	for _, c := range f.calls {
		if c.method == method {
			return c.args
		}
	}
	return nil
}

func (f *fakeObject) methods() []string {
	out := make([]string, len(f.calls))
	for i, c := range f.calls {
		out[i] = c.method
	}
	return out
}

func (f *fakeObject) GUID() uint64        { return f.guid }
func (f *fakeObject) Entry() uint32       { return f.entry }
func (f *fakeObject) Name() string        { return f.objName }
func (f *fakeObject) TypeID() game.TypeID { return f.typeID }
func (f *fakeObject) Map() game.Map       { return f.mp }

func (f *fakeObject) Position() (float32, float32, float32, float32) {
	return f.x, f.y, f.z, f.o
}

func (f *fakeObject) Say(textID int32, language uint32, target game.Unit) {
	f.record("Say", textID, language)
}

func (f *fakeObject) Yell(textID int32, language uint32, target game.Unit) {
	f.record("Yell", textID, language)
}

func (f *fakeObject) TextEmote(textID int32, target game.Unit, boss bool) {
	f.record("TextEmote", textID, boss)
}

func (f *fakeObject) Whisper(textID int32, target game.Unit, boss bool) {
	f.record("Whisper", textID, boss)
}

func (f *fakeObject) YellToZone(textID int32, language uint32, target game.Unit) {
	f.record("YellToZone", textID, language)
}

func (f *fakeObject) PlayDirectSound(soundID uint32) {
	f.record("PlayDirectSound", soundID)
}

type fakeUnit struct {
	fakeObject
	alive bool
}

func (f *fakeUnit) IsAlive() bool { return f.alive }

func (f *fakeUnit) HandleEmote(emoteID uint32) { f.record("HandleEmote", emoteID) }

func (f *fakeUnit) CastSpell(target game.Unit, spellID uint32, triggered bool) {
	f.record("CastSpell", spellID, triggered)
}

func (f *fakeUnit) RemoveAura(spellID uint32)  { f.record("RemoveAura", spellID) }
func (f *fakeUnit) SetStandState(state uint8)  { f.record("SetStandState", state) }
func (f *fakeUnit) SetFacingTo(o float32)      { f.record("SetFacingTo", o) }
func (f *fakeUnit) SetFacing(target game.Unit) { f.record("SetFacing", target) }

type fakeCreature struct {
	fakeUnit
	scriptID uint32
}

func newFakeCreature(entry uint32) *fakeCreature {
	c := &fakeCreature{}
	c.entry = entry
	c.objName = "creature"
	c.typeID = game.TypeIDUnit
	c.alive = true
	return c
}

func (f *fakeCreature) ScriptID() uint32 { return f.scriptID }

func (f *fakeCreature) SetFaction(factionID uint32) { f.record("SetFaction", factionID) }
func (f *fakeCreature) RestoreFaction()             { f.record("RestoreFaction") }
func (f *fakeCreature) Morph(displayID uint32)      { f.record("Morph", displayID) }
func (f *fakeCreature) Demorph()                    { f.record("Demorph") }
func (f *fakeCreature) Mount(displayID uint32)      { f.record("Mount", displayID) }
func (f *fakeCreature) Unmount()                    { f.record("Unmount") }
func (f *fakeCreature) SetRun(run bool)             { f.record("SetRun", run) }

func (f *fakeCreature) SetNpcFlags(flags uint32, apply bool) {
	f.record("SetNpcFlags", flags, apply)
}

func (f *fakeCreature) SetEquipment(slot0, slot1, slot2 int32) {
	f.record("SetEquipment", slot0, slot1, slot2)
}

func (f *fakeCreature) SetMotion(motionType uint32, param bool) {
	f.record("SetMotion", motionType, param)
}

func (f *fakeCreature) MovePoint(x, y, z float32, options uint32) {
	f.record("MovePoint", x, y, z, options)
}

func (f *fakeCreature) AttackStart(target game.Unit) { f.record("AttackStart", target) }
func (f *fakeCreature) EnterEvadeMode()              { f.record("EnterEvadeMode") }

func (f *fakeCreature) SetHomePosition(x, y, z, o float32) {
	f.record("SetHomePosition", x, y, z, o)
}

func (f *fakeCreature) ForcedDespawn(delayMs uint32) { f.record("ForcedDespawn", delayMs) }

type fakePlayer struct {
	fakeUnit
	addItemOK bool
}

func newFakePlayer() *fakePlayer {
	p := &fakePlayer{addItemOK: true}
	p.objName = "player"
	p.typeID = game.TypeIDPlayer
	p.alive = true
	return p
}

func (f *fakePlayer) ClearGossipMenu() { f.record("ClearGossipMenu") }

func (f *fakePlayer) AreaExploredOrEventHappens(questID uint32) {
	f.record("AreaExploredOrEventHappens", questID)
}

func (f *fakePlayer) FailQuest(questID uint32) { f.record("FailQuest", questID) }

func (f *fakePlayer) KilledMonsterCredit(entry uint32) {
	f.record("KilledMonsterCredit", entry)
}

func (f *fakePlayer) AddItem(entry uint32, amount uint32) bool {
	f.record("AddItem", entry, amount)
	return f.addItemOK
}

func (f *fakePlayer) TeleportTo(mapID uint32, x, y, z, o float32) {
	f.record("TeleportTo", mapID, x, y, z, o)
}

func (f *fakePlayer) ActivateTaxiPath(pathID uint32) { f.record("ActivateTaxiPath", pathID) }

func (f *fakePlayer) SendMeetingStoneQueue(areaID uint32) {
	f.record("SendMeetingStoneQueue", areaID)
}

type fakeGameObject struct {
	fakeObject
	scriptID uint32
	goType   uint32
}

func newFakeGameObject(entry uint32) *fakeGameObject {
	g := &fakeGameObject{}
	g.entry = entry
	g.objName = "gameobject"
	g.typeID = game.TypeIDGameObject
	return g
}

func (f *fakeGameObject) ScriptID() uint32 { return f.scriptID }
func (f *fakeGameObject) GOType() uint32   { return f.goType }

func (f *fakeGameObject) UseDoorOrButton(autoCloseMs uint32) {
	f.record("UseDoorOrButton", autoCloseMs)
}

func (f *fakeGameObject) ResetDoorOrButton()        { f.record("ResetDoorOrButton") }
func (f *fakeGameObject) Respawn()                  { f.record("Respawn") }
func (f *fakeGameObject) SetLootState(state uint32) { f.record("SetLootState", state) }
func (f *fakeGameObject) SetLockState(locked bool)  { f.record("SetLockState", locked) }

func (f *fakeGameObject) SetInteractable(interactable bool) {
	f.record("SetInteractable", interactable)
}

func (f *fakeGameObject) SetActive(active bool) { f.record("SetActive", active) }

type fakeInstanceData struct {
	data   map[uint32]uint32
	data64 map[uint32]uint64
}

func newFakeInstanceData() *fakeInstanceData {
	return &fakeInstanceData{
		data:   make(map[uint32]uint32),
		data64: make(map[uint32]uint64),
	}
}

func (f *fakeInstanceData) SetData(field uint32, value uint32)   { f.data[field] = value }
func (f *fakeInstanceData) SetData64(field uint32, value uint64) { f.data64[field] = value }
func (f *fakeInstanceData) GetData(field uint32) uint32          { return f.data[field] }

type fakeMap struct {
	id   uint32
	inst game.InstanceData

	sounds   []uint32
	yells    []int32
	summoned []uint32
}

func (f *fakeMap) ID() uint32 { return f.id }

func (f *fakeMap) PlayDirectSoundToMap(soundID uint32) {
	f.sounds = append(f.sounds, soundID)
}

func (f *fakeMap) YellToMap(creatureEntry uint32, textID int32, language uint32, target game.Unit) {
	f.yells = append(f.yells, textID)
}

func (f *fakeMap) InstanceData() game.InstanceData { return f.inst }

func (f *fakeMap) SummonCreature(entry uint32, x, y, z, o float32, despawnDelayMs uint32) game.Creature {
	f.summoned = append(f.summoned, entry)
	return nil
}

type fakeWorld struct {
	creaturesNear   map[uint32]game.Creature
	creaturesByGUID map[uint32]game.Creature
	gosNear         map[uint32]game.GameObject
	gosByGUID       map[uint32]game.GameObject
	conditions      map[uint32]bool
}

func newFakeWorld() *fakeWorld {
	return &fakeWorld{
		creaturesNear:   make(map[uint32]game.Creature),
		creaturesByGUID: make(map[uint32]game.Creature),
		gosNear:         make(map[uint32]game.GameObject),
		gosByGUID:       make(map[uint32]game.GameObject),
		conditions:      make(map[uint32]bool),
	}
}

func (f *fakeWorld) FindCreatureNear(origin game.WorldObject, entry uint32, radius float32) game.Creature {
	return f.creaturesNear[entry]
}

func (f *fakeWorld) FindGameObjectNear(origin game.WorldObject, entry uint32, radius float32) game.GameObject {
	return f.gosNear[entry]
}

func (f *fakeWorld) GetCreatureByGUID(guid uint32) game.Creature {
	return f.creaturesByGUID[guid]
}

func (f *fakeWorld) GetGameObjectByGUID(guid uint32) game.GameObject {
	return f.gosByGUID[guid]
}

func (f *fakeWorld) CheckCondition(conditionID uint32, player game.Player, source game.WorldObject) bool {
	return f.conditions[conditionID]
}

type fakeItem struct {
	entry    uint32
	scriptID uint32
	owner    uint64
}

func (f *fakeItem) Entry() uint32     { return f.entry }
func (f *fakeItem) ScriptID() uint32  { return f.scriptID }
func (f *fakeItem) OwnerGUID() uint64 { return f.owner }

type fakeAura struct {
	spellID  uint32
	effIndex int
	target   game.Unit
}

func (f *fakeAura) SpellID() uint32   { return f.spellID }
func (f *fakeAura) EffectIndex() int  { return f.effIndex }
func (f *fakeAura) Target() game.Unit { return f.target }
