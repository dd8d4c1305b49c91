package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// BroadcastText is one entry of the shared speech catalog. Broadcast text
// ids occupy the non-negative id space; script-local texts are negative and
// live in the store, not here.
type BroadcastText struct {
	ID       int32  `yaml:"id"`
	Text     string `yaml:"text"`
	ChatType uint32 `yaml:"chat_type"`
	Language uint32 `yaml:"language"`
	EmoteID  uint32 `yaml:"emote"`
	SoundID  uint32 `yaml:"sound"`
}

type broadcastTextFile struct {
	Texts []BroadcastText `yaml:"broadcast_texts"`
}

// BroadcastTextTable holds the broadcast text catalog indexed by id.
type BroadcastTextTable struct {
	texts map[int32]*BroadcastText
}

// LoadBroadcastTextTable loads broadcast texts from a YAML file.
func LoadBroadcastTextTable(path string) (*BroadcastTextTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read broadcast texts: %w", err)
	}
	var f broadcastTextFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse broadcast texts: %w", err)
	}
	t := &BroadcastTextTable{texts: make(map[int32]*BroadcastText, len(f.Texts))}
	for i := range f.Texts {
		bt := &f.Texts[i]
		t.texts[bt.ID] = bt
	}
	return t, nil
}

// Get returns a broadcast text by id, or nil if not found.
func (t *BroadcastTextTable) Get(id int32) *BroadcastText {
	return t.texts[id]
}

// Count returns the number of loaded texts.
func (t *BroadcastTextTable) Count() int {
	return len(t.texts)
}
