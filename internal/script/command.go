// Package script implements the data-driven script engine: command tables
// loaded from the relational store, the script-name registry with its hook
// bundles, the event dispatch surface the simulation calls into, scripted
// text emission, and the timed step scheduler.
package script

import "fmt"

// Command is the fixed command set for timed script steps. The numeric
// values are the stored opcodes and must not be reordered.
type Command uint32

const (
	CommandTalk Command = iota
	CommandEmote
	CommandFieldSet
	CommandMoveTo
	CommandFlagSet
	CommandFlagRemove
	CommandTeleportTo
	CommandQuestExplored
	CommandKillCredit
	CommandRespawnGameObject
	CommandTempSummonCreature
	CommandOpenDoor
	CommandCloseDoor
	CommandActivateObject
	CommandRemoveAura
	CommandCastSpell
	CommandPlaySound
	CommandCreateItem
	CommandDespawnCreature
	CommandSetEquipment
	CommandMovement
	CommandSetActiveObject
	CommandSetFaction
	CommandMorphToEntryOrModel
	CommandMountToEntryOrModel
	CommandSetRun
	CommandAttackStart
	CommandGoLockState
	CommandStandState
	CommandModifyNpcFlags
	CommandSendTaxiPath
	CommandTerminateScript
	CommandTerminateCondition
	CommandEnterEvadeMode
	CommandSetHomePosition
	CommandTurnTo
	CommandMeetingStone
	CommandSetInstData
	CommandSetInstData64
)

var commandNames = map[Command]string{
	CommandTalk:                "TALK",
	CommandEmote:               "EMOTE",
	CommandFieldSet:            "FIELD_SET",
	CommandMoveTo:              "MOVE_TO",
	CommandFlagSet:             "FLAG_SET",
	CommandFlagRemove:          "FLAG_REMOVE",
	CommandTeleportTo:          "TELEPORT_TO",
	CommandQuestExplored:       "QUEST_EXPLORED",
	CommandKillCredit:          "KILL_CREDIT",
	CommandRespawnGameObject:   "RESPAWN_GAMEOBJECT",
	CommandTempSummonCreature:  "TEMP_SUMMON_CREATURE",
	CommandOpenDoor:            "OPEN_DOOR",
	CommandCloseDoor:           "CLOSE_DOOR",
	CommandActivateObject:      "ACTIVATE_OBJECT",
	CommandRemoveAura:          "REMOVE_AURA",
	CommandCastSpell:           "CAST_SPELL",
	CommandPlaySound:           "PLAY_SOUND",
	CommandCreateItem:          "CREATE_ITEM",
	CommandDespawnCreature:     "DESPAWN_CREATURE",
	CommandSetEquipment:        "SET_EQUIPMENT",
	CommandMovement:            "MOVEMENT",
	CommandSetActiveObject:     "SET_ACTIVEOBJECT",
	CommandSetFaction:          "SET_FACTION",
	CommandMorphToEntryOrModel: "MORPH_TO_ENTRY_OR_MODEL",
	CommandMountToEntryOrModel: "MOUNT_TO_ENTRY_OR_MODEL",
	CommandSetRun:              "SET_RUN",
	CommandAttackStart:         "ATTACK_START",
	CommandGoLockState:         "GO_LOCK_STATE",
	CommandStandState:          "STAND_STATE",
	CommandModifyNpcFlags:      "MODIFY_NPC_FLAGS",
	CommandSendTaxiPath:        "SEND_TAXI_PATH",
	CommandTerminateScript:     "TERMINATE_SCRIPT",
	CommandTerminateCondition:  "TERMINATE_CONDITION",
	CommandEnterEvadeMode:      "ENTER_EVADE_MODE",
	CommandSetHomePosition:     "SET_HOME_POSITION",
	CommandTurnTo:              "TURN_TO",
	CommandMeetingStone:        "MEETINGSTONE",
	CommandSetInstData:         "SET_INST_DATA",
	CommandSetInstData64:       "SET_INST_DATA64",
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return fmt.Sprintf("COMMAND_%d", uint32(c))
}

// ChatType selects the speech channel for TALK steps and text entries.
type ChatType uint32

const (
	ChatTypeSay ChatType = iota
	ChatTypeYell
	ChatTypeTextEmote
	ChatTypeBossEmote
	ChatTypeWhisper
	ChatTypeBossWhisper
	ChatTypeZoneYell
)

// BuddyType declares how a step's auxiliary entity reference resolves.
type BuddyType uint8

const (
	BuddyCreatureEntry BuddyType = iota
	BuddyCreatureGUID
	BuddyGameObjectEntry
	BuddyGameObjectGUID
	BuddyCreatureInstanceData
	BuddyGameObjectInstanceData
)

// Data flags shared by all commands.
const (
	FlagSwapInitialTargets uint32 = 0x01
	FlagSwapFinalTargets   uint32 = 0x02
	FlagBuddyAsTarget      uint32 = 0x04
)

// MOVE_TO coordinate interpretation.
const (
	MoveToCoordsNormal uint32 = iota
	MoveToCoordsRelativeToTarget
	MoveToCoordsRandomPoint
	MoveToCoordsMax
)

// Movement option bits combine into a bitmask no greater than this.
const MaxMovementOptions uint32 = 511

// MOVEMENT motion kinds.
const (
	MotionIdle uint32 = iota
	MotionRandom
	MotionWaypoint
	MotionConfused
	MotionChase
	MotionHome
	MotionFleeing
	MotionDistract
	MotionFollow
	MotionCharge
	motionMax
)

// GO_LOCK_STATE bits. Lock/unlock and no-interact/interact are mutually
// exclusive pairs.
const (
	GoLockStateLock       uint32 = 0x01
	GoLockStateUnlock     uint32 = 0x02
	GoLockStateNoInteract uint32 = 0x04
	GoLockStateInteract   uint32 = 0x08
	goLockStateMax        uint32 = 0x10
)

// MaxStandState bounds the STAND_STATE parameter.
const MaxStandState uint32 = 9

// SET_INST_DATA modes.
const (
	InstDataSet uint32 = iota
	InstDataIncrement
	InstDataDecrement
	instDataMax
)

// SET_INST_DATA64 modes.
const (
	InstData64Set uint32 = iota
	InstData64SourceGUID
	instData64Max
)

// MaxTextIDs is the number of text slots a TALK step may carry.
const MaxTextIDs = 4

// CastSpellFlagsMask bounds CAST_SPELL's flag field.
const CastSpellFlagsMask uint32 = 0x03

// RawRow mirrors one stored command row before payload construction.
type RawRow struct {
	ID          uint32
	Delay       uint32
	Command     uint32
	Datalong    [4]uint32
	BuddyID     uint32
	BuddyRadius uint32
	BuddyType   uint8
	DataFlags   uint32
	Dataint     [4]int32
	X, Y, Z, O  float32
}

// BuddyRef references the auxiliary entity a step acts on or through.
type BuddyRef struct {
	ID     uint32 // template entry or instance guid, per Type
	Radius uint32
	Type   BuddyType
}

// CommandRecord is one validated, timed script step. Payload holds the
// command-specific fields, decoded from the raw columns exactly once at
// load time.
type CommandRecord struct {
	ID      uint32
	Delay   uint32
	Command Command
	Payload Payload
	Buddy   *BuddyRef
	Flags   uint32
	X, Y    float32
	Z, O    float32
}

// HasFlag reports whether the record carries the given data flag.
func (r *CommandRecord) HasFlag(flag uint32) bool {
	return r.Flags&flag != 0
}

// Payload is the command-specific portion of a record. Exactly one
// concrete type applies per command.
type Payload interface {
	payload()
}

type TalkPayload struct {
	ChatType ChatType
	TextIDs  [MaxTextIDs]int32
}

type EmotePayload struct {
	EmoteID uint32
}

type FieldSetPayload struct {
	FieldID uint32
	Value   uint32
}

type MoveToPayload struct {
	CoordsType      uint32
	TravelTime      uint32
	MovementOptions uint32
}

type FlagSetPayload struct {
	FieldID uint32
	Value   uint32
}

type FlagRemovePayload struct {
	FieldID uint32
	Value   uint32
}

type TeleportPayload struct {
	MapID uint32
}

type QuestExploredPayload struct {
	QuestID  uint32
	Distance uint32
}

type KillCreditPayload struct {
	CreatureEntry uint32
}

type RespawnGameObjectPayload struct {
	GOGuid       uint32
	DespawnDelay uint32
}

type SummonCreaturePayload struct {
	CreatureEntry uint32
	DespawnDelay  uint32
}

type DoorPayload struct {
	GOGuid     uint32
	ResetDelay uint32
}

type ActivateObjectPayload struct{}

type RemoveAuraPayload struct {
	SpellID uint32
}

type CastSpellPayload struct {
	SpellID   uint32
	CastFlags uint32
}

type PlaySoundPayload struct {
	SoundID uint32
	Flags   uint32
}

type CreateItemPayload struct {
	ItemEntry uint32
	Amount    uint32
}

type DespawnPayload struct {
	DespawnDelay uint32
}

type SetEquipmentPayload struct {
	ResetDefault uint32
	Slots        [3]int32
}

type MovementPayload struct {
	MotionType uint32
	BoolParam  uint32
}

type SetActiveObjectPayload struct {
	Activate uint32
}

type SetFactionPayload struct {
	FactionID uint32
	Flags     uint32
}

type MorphPayload struct {
	CreatureOrModelEntry uint32
	IsDisplayID          bool
}

type MountPayload struct {
	CreatureOrModelEntry uint32
	IsDisplayID          bool
}

type SetRunPayload struct {
	Run bool
}

type AttackStartPayload struct{}

type GoLockStatePayload struct {
	LockState uint32
}

type StandStatePayload struct {
	StandState uint32
}

type NpcFlagsPayload struct {
	Flags      uint32
	ChangeMode uint32
}

type TaxiPathPayload struct {
	PathID uint32
}

type TerminatePayload struct {
	CreatureEntry uint32
	SearchRadius  uint32
}

type TerminateConditionPayload struct {
	ConditionID uint32
	FailQuest   uint32
}

type EvadePayload struct{}

type HomePositionPayload struct {
	UseCurrent bool
}

type TurnToPayload struct {
	FacingLogic uint32
}

type MeetingStonePayload struct {
	AreaID uint32
}

type SetInstDataPayload struct {
	Field uint32
	Value uint32
	Mode  uint32
}

type SetInstData64Payload struct {
	Field uint32
	Value uint64
	Mode  uint32
}

// RawPayload carries the untouched columns of a command this engine has no
// decoder for. Such rows load and schedule but execute as no-ops.
type RawPayload struct {
	Datalong [4]uint32
	Dataint  [4]int32
}

func (TalkPayload) payload()               {}
func (EmotePayload) payload()              {}
func (FieldSetPayload) payload()           {}
func (MoveToPayload) payload()             {}
func (FlagSetPayload) payload()            {}
func (FlagRemovePayload) payload()         {}
func (TeleportPayload) payload()           {}
func (QuestExploredPayload) payload()      {}
func (KillCreditPayload) payload()         {}
func (RespawnGameObjectPayload) payload()  {}
func (SummonCreaturePayload) payload()     {}
func (DoorPayload) payload()               {}
func (ActivateObjectPayload) payload()     {}
func (RemoveAuraPayload) payload()         {}
func (CastSpellPayload) payload()          {}
func (PlaySoundPayload) payload()          {}
func (CreateItemPayload) payload()         {}
func (DespawnPayload) payload()            {}
func (SetEquipmentPayload) payload()       {}
func (MovementPayload) payload()           {}
func (SetActiveObjectPayload) payload()    {}
func (SetFactionPayload) payload()         {}
func (MorphPayload) payload()              {}
func (MountPayload) payload()              {}
func (SetRunPayload) payload()             {}
func (AttackStartPayload) payload()        {}
func (GoLockStatePayload) payload()        {}
func (StandStatePayload) payload()         {}
func (NpcFlagsPayload) payload()           {}
func (TaxiPathPayload) payload()           {}
func (TerminatePayload) payload()          {}
func (TerminateConditionPayload) payload() {}
func (EvadePayload) payload()              {}
func (HomePositionPayload) payload()       {}
func (TurnToPayload) payload()             {}
func (MeetingStonePayload) payload()       {}
func (SetInstDataPayload) payload()        {}
func (SetInstData64Payload) payload()      {}
func (RawPayload) payload()                {}

// buildPayload decodes the raw columns into the command's payload type.
// Commands outside the known set keep their columns as RawPayload.
func buildPayload(raw *RawRow) Payload {
	switch Command(raw.Command) {
	case CommandTalk:
		return TalkPayload{
			ChatType: ChatType(raw.Datalong[0]),
			TextIDs:  raw.Dataint,
		}
	case CommandEmote:
		return EmotePayload{EmoteID: raw.Datalong[0]}
	case CommandFieldSet:
		return FieldSetPayload{FieldID: raw.Datalong[0], Value: raw.Datalong[1]}
	case CommandMoveTo:
		return MoveToPayload{
			CoordsType:      raw.Datalong[0],
			TravelTime:      raw.Datalong[1],
			MovementOptions: raw.Datalong[2],
		}
	case CommandFlagSet:
		return FlagSetPayload{FieldID: raw.Datalong[0], Value: raw.Datalong[1]}
	case CommandFlagRemove:
		return FlagRemovePayload{FieldID: raw.Datalong[0], Value: raw.Datalong[1]}
	case CommandTeleportTo:
		return TeleportPayload{MapID: raw.Datalong[0]}
	case CommandQuestExplored:
		return QuestExploredPayload{QuestID: raw.Datalong[0], Distance: raw.Datalong[1]}
	case CommandKillCredit:
		return KillCreditPayload{CreatureEntry: raw.Datalong[0]}
	case CommandRespawnGameObject:
		return RespawnGameObjectPayload{GOGuid: raw.Datalong[0], DespawnDelay: raw.Datalong[1]}
	case CommandTempSummonCreature:
		return SummonCreaturePayload{CreatureEntry: raw.Datalong[0], DespawnDelay: raw.Datalong[1]}
	case CommandOpenDoor, CommandCloseDoor:
		return DoorPayload{GOGuid: raw.Datalong[0], ResetDelay: raw.Datalong[1]}
	case CommandActivateObject:
		return ActivateObjectPayload{}
	case CommandRemoveAura:
		return RemoveAuraPayload{SpellID: raw.Datalong[0]}
	case CommandCastSpell:
		return CastSpellPayload{SpellID: raw.Datalong[0], CastFlags: raw.Datalong[1]}
	case CommandPlaySound:
		return PlaySoundPayload{SoundID: raw.Datalong[0], Flags: raw.Datalong[1]}
	case CommandCreateItem:
		return CreateItemPayload{ItemEntry: raw.Datalong[0], Amount: raw.Datalong[1]}
	case CommandDespawnCreature:
		return DespawnPayload{DespawnDelay: raw.Datalong[0]}
	case CommandSetEquipment:
		return SetEquipmentPayload{
			ResetDefault: raw.Datalong[0],
			Slots:        [3]int32{raw.Dataint[0], raw.Dataint[1], raw.Dataint[2]},
		}
	case CommandMovement:
		return MovementPayload{MotionType: raw.Datalong[0], BoolParam: raw.Datalong[1]}
	case CommandSetActiveObject:
		return SetActiveObjectPayload{Activate: raw.Datalong[0]}
	case CommandSetFaction:
		return SetFactionPayload{FactionID: raw.Datalong[0], Flags: raw.Datalong[1]}
	case CommandMorphToEntryOrModel:
		return MorphPayload{CreatureOrModelEntry: raw.Datalong[0], IsDisplayID: raw.Datalong[1] != 0}
	case CommandMountToEntryOrModel:
		return MountPayload{CreatureOrModelEntry: raw.Datalong[0], IsDisplayID: raw.Datalong[1] != 0}
	case CommandSetRun:
		return SetRunPayload{Run: raw.Datalong[0] != 0}
	case CommandAttackStart:
		return AttackStartPayload{}
	case CommandGoLockState:
		return GoLockStatePayload{LockState: raw.Datalong[0]}
	case CommandStandState:
		return StandStatePayload{StandState: raw.Datalong[0]}
	case CommandModifyNpcFlags:
		return NpcFlagsPayload{Flags: raw.Datalong[0], ChangeMode: raw.Datalong[1]}
	case CommandSendTaxiPath:
		return TaxiPathPayload{PathID: raw.Datalong[0]}
	case CommandTerminateScript:
		return TerminatePayload{CreatureEntry: raw.Datalong[0], SearchRadius: raw.Datalong[1]}
	case CommandTerminateCondition:
		return TerminateConditionPayload{ConditionID: raw.Datalong[0], FailQuest: raw.Datalong[1]}
	case CommandEnterEvadeMode:
		return EvadePayload{}
	case CommandSetHomePosition:
		return HomePositionPayload{UseCurrent: raw.Datalong[0] != 0}
	case CommandTurnTo:
		return TurnToPayload{FacingLogic: raw.Datalong[0]}
	case CommandMeetingStone:
		return MeetingStonePayload{AreaID: raw.Datalong[0]}
	case CommandSetInstData:
		return SetInstDataPayload{Field: raw.Datalong[0], Value: raw.Datalong[1], Mode: raw.Datalong[2]}
	case CommandSetInstData64:
		return SetInstData64Payload{Field: raw.Datalong[0], Value: uint64(raw.Datalong[1]), Mode: raw.Datalong[2]}
	default:
		return RawPayload{Datalong: raw.Datalong, Dataint: raw.Dataint}
	}
}
