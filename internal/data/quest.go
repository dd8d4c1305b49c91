package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Quest special flags.
const (
	QuestFlagRepeatable         uint32 = 0x01
	QuestFlagExplorationOrEvent uint32 = 0x02
)

// Quest holds the slice of quest template data the script engine needs.
type Quest struct {
	ID           uint32 `yaml:"id"`
	Title        string `yaml:"title"`
	SpecialFlags uint32 `yaml:"special_flags"`
}

// HasSpecialFlag reports whether the quest carries the given special flag.
func (q *Quest) HasSpecialFlag(flag uint32) bool {
	return q.SpecialFlags&flag != 0
}

// SetSpecialFlag adds a special flag. Used by the loader's quest repair
// when a script references an exploration objective the quest lacks.
func (q *Quest) SetSpecialFlag(flag uint32) {
	q.SpecialFlags |= flag
}

type questListFile struct {
	Quests []Quest `yaml:"quests"`
}

// QuestTable holds quest templates indexed by id.
type QuestTable struct {
	quests map[uint32]*Quest
}

// LoadQuestTable loads quest templates from a YAML file.
func LoadQuestTable(path string) (*QuestTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read quest templates: %w", err)
	}
	var f questListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse quest templates: %w", err)
	}
	t := &QuestTable{quests: make(map[uint32]*Quest, len(f.Quests))}
	for i := range f.Quests {
		q := &f.Quests[i]
		t.quests[q.ID] = q
	}
	return t, nil
}

// Get returns a quest by id, or nil if not found.
func (t *QuestTable) Get(id uint32) *Quest {
	return t.quests[id]
}

// Count returns the number of loaded quests.
func (t *QuestTable) Count() int {
	return len(t.quests)
}
