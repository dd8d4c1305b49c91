package script

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/worldscript/server/internal/data"
	"github.com/worldscript/server/internal/game"
)

// Querier is the read surface the loaders need from the database. It is
// satisfied by *pgxpool.Pool and by pgxmock in tests.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Mgr owns every script-engine table: command tables, the script-name
// registry with its hook bundles, scripted texts, waypoints and escort
// data, and the timed step scheduler state.
//
// Loading happens single-threaded at startup or on an explicit reload;
// dispatch happens from the world tick. Registration of hook bundles is
// guarded so pluggable providers may register concurrently.
type Mgr struct {
	log   *zap.Logger
	store *data.Store
	world game.World

	names   []string  // sorted; index is the script id, index 0 is ""
	scripts []*Script // parallel to names

	mu         sync.Mutex // guards scripts and registered during Register
	registered int

	areaTriggerScripts map[uint32]uint32
	eventIDScripts     map[uint32]uint32

	textData map[int32]StringTextData

	pointMoves map[uint32][]PointMove
	escorts    map[uint32]*EscortData

	gameObjectScripts       *ScriptTable
	questEndScripts         *ScriptTable
	questStartScripts       *ScriptTable
	spellScripts            *ScriptTable
	creatureSpellsScripts   *ScriptTable
	eventScripts            *ScriptTable
	gossipScripts           *ScriptTable
	creatureMovementScripts *ScriptTable

	// scheduled counts queued-but-unexecuted steps. Reloads are refused
	// while it is non-zero.
	scheduled atomic.Int64

	queue stepQueue
}

// NewMgr builds an empty manager over the given catalog store. Tables are
// filled by the Load* methods.
func NewMgr(log *zap.Logger, store *data.Store) *Mgr {
	return &Mgr{
		log:                     log.Named("script"),
		store:                   store,
		areaTriggerScripts:      make(map[uint32]uint32),
		eventIDScripts:          make(map[uint32]uint32),
		textData:                make(map[int32]StringTextData),
		pointMoves:              make(map[uint32][]PointMove),
		escorts:                 make(map[uint32]*EscortData),
		gameObjectScripts:       newScriptTable(TableGameObjectScripts),
		questEndScripts:         newScriptTable(TableQuestEndScripts),
		questStartScripts:       newScriptTable(TableQuestStartScripts),
		spellScripts:            newScriptTable(TableSpellScripts),
		creatureSpellsScripts:   newScriptTable(TableCreatureSpellsScripts),
		eventScripts:            newScriptTable(TableEventScripts),
		gossipScripts:           newScriptTable(TableGossipScripts),
		creatureMovementScripts: newScriptTable(TableCreatureMovementScripts),
	}
}

// AttachWorld wires the live world the scheduler resolves entities
// against. Must be called before the first Update.
func (m *Mgr) AttachWorld(w game.World) {
	m.world = w
}

// Store exposes the catalog store to hook bundles.
func (m *Mgr) Store() *data.Store {
	return m.store
}

// GameObjectScripts returns the gameobject_scripts table.
func (m *Mgr) GameObjectScripts() *ScriptTable { return m.gameObjectScripts }

// QuestEndScripts returns the quest_end_scripts table.
func (m *Mgr) QuestEndScripts() *ScriptTable { return m.questEndScripts }

// QuestStartScripts returns the quest_start_scripts table.
func (m *Mgr) QuestStartScripts() *ScriptTable { return m.questStartScripts }

// SpellScripts returns the spell_scripts table.
func (m *Mgr) SpellScripts() *ScriptTable { return m.spellScripts }

// CreatureSpellsScripts returns the creature_spells_scripts table.
func (m *Mgr) CreatureSpellsScripts() *ScriptTable { return m.creatureSpellsScripts }

// EventScripts returns the event_scripts table.
func (m *Mgr) EventScripts() *ScriptTable { return m.eventScripts }

// GossipScripts returns the gossip_scripts table.
func (m *Mgr) GossipScripts() *ScriptTable { return m.gossipScripts }

// CreatureMovementScripts returns the creature_movement_scripts table.
func (m *Mgr) CreatureMovementScripts() *ScriptTable { return m.creatureMovementScripts }

// ScheduledSteps returns the number of queued steps awaiting execution.
func (m *Mgr) ScheduledSteps() int64 {
	return m.scheduled.Load()
}
