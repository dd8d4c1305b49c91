// Package game declares the interfaces the script engine uses to talk to
// the running simulation. The simulation (creatures, players, maps, spell
// system) lives outside this module; everything here is the contract it has
// to satisfy for scripted behavior to act on it.
package game

// TypeID identifies what kind of object a WorldObject is.
type TypeID uint8

const (
	TypeIDObject TypeID = iota
	TypeIDItem
	TypeIDContainer
	TypeIDUnit
	TypeIDPlayer
	TypeIDGameObject
	TypeIDDynObject
	TypeIDCorpse
)

// WorldObject is anything placed on a map that scripted text and commands
// can originate from or act upon.
type WorldObject interface {
	GUID() uint64
	Entry() uint32
	Name() string
	TypeID() TypeID
	Map() Map

	// Position returns the object's map coordinates and orientation.
	Position() (x, y, z, o float32)

	// Speech channels. textID is resolved by the caller; implementations
	// only deliver. target may be nil.
	Say(textID int32, language uint32, target Unit)
	Yell(textID int32, language uint32, target Unit)
	TextEmote(textID int32, target Unit, boss bool)
	Whisper(textID int32, target Unit, boss bool)
	YellToZone(textID int32, language uint32, target Unit)

	PlayDirectSound(soundID uint32)
}

// Unit is a living (or undead) actor: creatures and players.
type Unit interface {
	WorldObject

	IsAlive() bool
	HandleEmote(emoteID uint32)
	CastSpell(target Unit, spellID uint32, triggered bool)
	RemoveAura(spellID uint32)
	SetStandState(state uint8)
	SetFacingTo(orientation float32)
	SetFacing(target Unit)
}

// Creature is an NPC instance.
type Creature interface {
	Unit

	// ScriptID is the handle assigned from the creature template's script
	// name, 0 when the template has none.
	ScriptID() uint32

	SetFaction(factionID uint32)
	RestoreFaction()
	Morph(displayID uint32)
	Demorph()
	Mount(displayID uint32)
	Unmount()
	SetRun(run bool)
	SetNpcFlags(flags uint32, apply bool)
	SetEquipment(slot0, slot1, slot2 int32)
	SetMotion(motionType uint32, param bool)
	MovePoint(x, y, z float32, options uint32)
	AttackStart(target Unit)
	EnterEvadeMode()
	SetHomePosition(x, y, z, o float32)
	ForcedDespawn(delayMs uint32)
}

// Player is a connected player character.
type Player interface {
	Unit

	// ClearGossipMenu drops any pending dialogue menu. Dispatch calls this
	// before every gossip-family hook invocation.
	ClearGossipMenu()

	AreaExploredOrEventHappens(questID uint32)
	FailQuest(questID uint32)
	KilledMonsterCredit(entry uint32)
	AddItem(entry uint32, amount uint32) bool
	TeleportTo(mapID uint32, x, y, z, o float32)
	ActivateTaxiPath(pathID uint32)
	SendMeetingStoneQueue(areaID uint32)
}

// GameObject is a placed world object: doors, chests, buttons and the like.
type GameObject interface {
	WorldObject

	ScriptID() uint32
	GOType() uint32
	UseDoorOrButton(autoCloseMs uint32)
	ResetDoorOrButton()
	Respawn()
	SetLootState(state uint32)
	SetLockState(locked bool)
	SetInteractable(interactable bool)
	SetActive(active bool)
}

// Item is an inventory item instance.
type Item interface {
	Entry() uint32
	ScriptID() uint32
	OwnerGUID() uint64
}

// Map is the spatial container an object lives on.
type Map interface {
	ID() uint32
	PlayDirectSoundToMap(soundID uint32)

	// YellToMap emits a map-wide zone yell attributed to the given creature
	// entry. Used both for live sources and for simulated ones.
	YellToMap(creatureEntry uint32, textID int32, language uint32, target Unit)

	InstanceData() InstanceData
	SummonCreature(entry uint32, x, y, z, o float32, despawnDelayMs uint32) Creature
}

// InstanceData is per-map scripted state.
type InstanceData interface {
	SetData(field uint32, value uint32)
	SetData64(field uint32, value uint64)
	GetData(field uint32) uint32
}

// World provides the entity lookups buddy references resolve through, plus
// condition evaluation for conditional script termination.
type World interface {
	FindCreatureNear(origin WorldObject, entry uint32, radius float32) Creature
	FindGameObjectNear(origin WorldObject, entry uint32, radius float32) GameObject
	GetCreatureByGUID(guid uint32) Creature
	GetGameObjectByGUID(guid uint32) GameObject
	CheckCondition(conditionID uint32, player Player, source WorldObject) bool
}

// Aura is an applied spell aura, passed to dummy-aura hooks.
type Aura interface {
	SpellID() uint32
	EffectIndex() int
	Target() Unit
}

// CreatureAI drives one scripted creature. Returned from hook bundles that
// override AI; the simulation ticks it.
type CreatureAI interface {
	UpdateAI(diffMs uint32)
}

// GameObjectAI drives one scripted gameobject.
type GameObjectAI interface {
	UpdateAI(diffMs uint32)
}

// SpellTargets carries the possible targets of an item-use cast.
type SpellTargets struct {
	Unit       Unit
	GameObject GameObject
	Item       Item
}
