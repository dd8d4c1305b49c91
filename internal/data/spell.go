package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Spell effect codes the script engine cares about.
const (
	SpellEffectSendEvent    uint32 = 61
	SpellEffectScriptEffect uint32 = 77
)

// MaxSpellEffects is the number of effect slots per spell.
const MaxSpellEffects = 3

// Spell holds the slice of spell template data the script engine needs.
type Spell struct {
	ID              uint32                 `yaml:"id"`
	Name            string                 `yaml:"name"`
	Effects         [MaxSpellEffects]uint32 `yaml:"effects"`
	EffectMiscValue [MaxSpellEffects]int32  `yaml:"effect_misc_values"`
}

// HasEffect reports whether any effect slot carries the given effect code.
func (s *Spell) HasEffect(effect uint32) bool {
	for _, e := range s.Effects {
		if e == effect {
			return true
		}
	}
	return false
}

type spellListFile struct {
	Spells []Spell `yaml:"spells"`
}

// SpellTable holds spell templates indexed by id.
type SpellTable struct {
	spells map[uint32]*Spell
}

// LoadSpellTable loads spell templates from a YAML file.
func LoadSpellTable(path string) (*SpellTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spell templates: %w", err)
	}
	var f spellListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse spell templates: %w", err)
	}
	t := &SpellTable{spells: make(map[uint32]*Spell, len(f.Spells))}
	for i := range f.Spells {
		s := &f.Spells[i]
		t.spells[s.ID] = s
	}
	return t, nil
}

// Get returns a spell by id, or nil if not found.
func (t *SpellTable) Get(id uint32) *Spell {
	return t.spells[id]
}

// Count returns the number of loaded spells.
func (t *SpellTable) Count() int {
	return len(t.spells)
}

// Each calls fn for every loaded spell.
func (t *SpellTable) Each(fn func(*Spell)) {
	for _, s := range t.spells {
		fn(s)
	}
}
