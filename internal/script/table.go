package script

import "sort"

// Table names in load order.
const (
	TableGameObjectScripts       = "gameobject_scripts"
	TableQuestEndScripts         = "quest_end_scripts"
	TableQuestStartScripts       = "quest_start_scripts"
	TableSpellScripts            = "spell_scripts"
	TableCreatureSpellsScripts   = "creature_spells_scripts"
	TableEventScripts            = "event_scripts"
	TableGossipScripts           = "gossip_scripts"
	TableCreatureMovementScripts = "creature_movement_scripts"
)

// ScriptTable holds one command table's validated records, grouped by
// script id and ordered by delay within each id. Tables are rebuilt
// wholesale on load; readers only ever see a complete generation.
type ScriptTable struct {
	name    string
	scripts map[uint32][]*CommandRecord
}

func newScriptTable(name string) *ScriptTable {
	return &ScriptTable{
		name:    name,
		scripts: make(map[uint32][]*CommandRecord),
	}
}

// Name returns the backing table name.
func (t *ScriptTable) Name() string {
	return t.name
}

// Get returns the delay-ordered records for one script id, or nil when the
// id has no records. Callers must not mutate the returned slice.
func (t *ScriptTable) Get(id uint32) []*CommandRecord {
	return t.scripts[id]
}

// Has reports whether any records exist for the given script id.
func (t *ScriptTable) Has(id uint32) bool {
	_, ok := t.scripts[id]
	return ok
}

// IDs returns all script ids present, ascending.
func (t *ScriptTable) IDs() []uint32 {
	ids := make([]uint32, 0, len(t.scripts))
	for id := range t.scripts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Len returns the total record count across all script ids.
func (t *ScriptTable) Len() int {
	n := 0
	for _, recs := range t.scripts {
		n += len(recs)
	}
	return n
}

func (t *ScriptTable) add(rec *CommandRecord) {
	t.scripts[rec.ID] = append(t.scripts[rec.ID], rec)
}

// sortByDelay fixes the within-id execution order after all rows are in.
// The sort is stable so rows sharing a delay keep their load order.
func (t *ScriptTable) sortByDelay() {
	for _, recs := range t.scripts {
		sort.SliceStable(recs, func(i, j int) bool {
			return recs[i].Delay < recs[j].Delay
		})
	}
}
