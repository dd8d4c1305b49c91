package data

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// mapHalfSize bounds valid map coordinates on both axes.
const mapHalfSize float32 = 17066.666

// Script-relevant interaction distances, in yards.
const (
	InteractionDistance       float32 = 5.0
	DefaultVisibilityDistance float32 = 90.0
)

// IsValidMapCoord reports whether a position is finite and inside the
// playable coordinate range.
func IsValidMapCoord(x, y, z, o float32) bool {
	for _, v := range [4]float32{x, y, z, o} {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return false
		}
	}
	return x >= -mapHalfSize && x <= mapHalfSize && y >= -mapHalfSize && y <= mapHalfSize
}

// MapEntry holds metadata for a single map.
type MapEntry struct {
	ID         uint32 `yaml:"id"`
	Name       string `yaml:"name"`
	ScriptName string `yaml:"script_name"`
}

type mapListFile struct {
	Maps []MapEntry `yaml:"maps"`
}

// MapTable holds map entries indexed by id.
type MapTable struct {
	maps map[uint32]*MapEntry
}

// LoadMapTable loads map entries from a YAML file.
func LoadMapTable(path string) (*MapTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read map templates: %w", err)
	}
	var f mapListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse map templates: %w", err)
	}
	t := &MapTable{maps: make(map[uint32]*MapEntry, len(f.Maps))}
	for i := range f.Maps {
		m := &f.Maps[i]
		t.maps[m.ID] = m
	}
	return t, nil
}

// Get returns a map entry by id, or nil if not found.
func (t *MapTable) Get(id uint32) *MapEntry {
	return t.maps[id]
}

// Count returns the number of loaded maps.
func (t *MapTable) Count() int {
	return len(t.maps)
}

// Each calls fn for every loaded map entry.
func (t *MapTable) Each(fn func(*MapEntry)) {
	for _, m := range t.maps {
		fn(m)
	}
}

// AreaTrigger is one trigger volume definition.
type AreaTrigger struct {
	ID    uint32 `yaml:"id"`
	MapID uint32 `yaml:"map_id"`
}

type areaTriggerFile struct {
	Triggers []AreaTrigger `yaml:"area_triggers"`
}

// AreaTriggerTable holds area trigger definitions indexed by id.
type AreaTriggerTable struct {
	triggers map[uint32]*AreaTrigger
}

// LoadAreaTriggerTable loads area triggers from a YAML file.
func LoadAreaTriggerTable(path string) (*AreaTriggerTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read area triggers: %w", err)
	}
	var f areaTriggerFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse area triggers: %w", err)
	}
	t := &AreaTriggerTable{triggers: make(map[uint32]*AreaTrigger, len(f.Triggers))}
	for i := range f.Triggers {
		at := &f.Triggers[i]
		t.triggers[at.ID] = at
	}
	return t, nil
}

// Get returns an area trigger by id, or nil if not found.
func (t *AreaTriggerTable) Get(id uint32) *AreaTrigger {
	return t.triggers[id]
}

// Count returns the number of loaded triggers.
func (t *AreaTriggerTable) Count() int {
	return len(t.triggers)
}

// IDTable is a flat existence catalog: factions, emotes, sounds, taxi
// paths, conditions, languages, creature display ids. The loader only ever
// asks "does this id exist".
type IDTable struct {
	ids map[uint32]struct{}
}

type idListFile struct {
	IDs []uint32 `yaml:"ids"`
}

// LoadIDTable loads an id catalog from a YAML file.
func LoadIDTable(path string) (*IDTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read id catalog %s: %w", path, err)
	}
	var f idListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse id catalog %s: %w", path, err)
	}
	t := &IDTable{ids: make(map[uint32]struct{}, len(f.IDs))}
	for _, id := range f.IDs {
		t.ids[id] = struct{}{}
	}
	return t, nil
}

// Has reports whether the catalog contains the id.
func (t *IDTable) Has(id uint32) bool {
	_, ok := t.ids[id]
	return ok
}

// Count returns the number of ids in the catalog.
func (t *IDTable) Count() int {
	return len(t.ids)
}
