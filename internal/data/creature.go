package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CreatureTemplate holds static data for a creature type.
type CreatureTemplate struct {
	Entry      uint32 `yaml:"entry"`
	Name       string `yaml:"name"`
	DisplayID  uint32 `yaml:"display_id"`
	ScriptName string `yaml:"script_name"`
}

// CreatureSpawn is one placed creature instance.
type CreatureSpawn struct {
	GUID  uint32  `yaml:"guid"`
	Entry uint32  `yaml:"entry"`
	MapID uint32  `yaml:"map_id"`
	X     float32 `yaml:"x"`
	Y     float32 `yaml:"y"`
	Z     float32 `yaml:"z"`
	O     float32 `yaml:"o"`
}

type creatureListFile struct {
	Creatures []CreatureTemplate `yaml:"creatures"`
}

type creatureSpawnFile struct {
	Spawns []CreatureSpawn `yaml:"spawns"`
}

// CreatureTable holds creature templates and spawn placements.
type CreatureTable struct {
	templates map[uint32]*CreatureTemplate
	spawns    map[uint32]*CreatureSpawn
}

// LoadCreatureTable loads creature templates and spawns from YAML files.
func LoadCreatureTable(templatePath, spawnPath string) (*CreatureTable, error) {
	raw, err := os.ReadFile(templatePath)
	if err != nil {
		return nil, fmt.Errorf("read creature templates: %w", err)
	}
	var f creatureListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse creature templates: %w", err)
	}
	t := &CreatureTable{
		templates: make(map[uint32]*CreatureTemplate, len(f.Creatures)),
		spawns:    make(map[uint32]*CreatureSpawn),
	}
	for i := range f.Creatures {
		c := &f.Creatures[i]
		t.templates[c.Entry] = c
	}

	raw, err = os.ReadFile(spawnPath)
	if err != nil {
		return nil, fmt.Errorf("read creature spawns: %w", err)
	}
	var sf creatureSpawnFile
	if err := yaml.Unmarshal(raw, &sf); err != nil {
		return nil, fmt.Errorf("parse creature spawns: %w", err)
	}
	for i := range sf.Spawns {
		s := &sf.Spawns[i]
		t.spawns[s.GUID] = s
	}
	return t, nil
}

// GetTemplate returns a creature template by entry, or nil if not found.
func (t *CreatureTable) GetTemplate(entry uint32) *CreatureTemplate {
	return t.templates[entry]
}

// GetSpawn returns a creature spawn by instance guid, or nil if not found.
func (t *CreatureTable) GetSpawn(guid uint32) *CreatureSpawn {
	return t.spawns[guid]
}

// Count returns the number of loaded templates.
func (t *CreatureTable) Count() int {
	return len(t.templates)
}

// SpawnCount returns the number of loaded spawns.
func (t *CreatureTable) SpawnCount() int {
	return len(t.spawns)
}

// EachTemplate calls fn for every loaded creature template.
func (t *CreatureTable) EachTemplate(fn func(*CreatureTemplate)) {
	for _, c := range t.templates {
		fn(c)
	}
}
