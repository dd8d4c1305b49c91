package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Gameobject type codes, matching the content tables.
const (
	GOTypeDoor         uint32 = 0
	GOTypeButton       uint32 = 1
	GOTypeQuestGiver   uint32 = 2
	GOTypeChest        uint32 = 3
	GOTypeTrap         uint32 = 6
	GOTypeGoober       uint32 = 10
	GOTypeCamera       uint32 = 13
	GOTypeFishingNode  uint32 = 17
	GOTypeFishingHole  uint32 = 25
	GOTypeCapturePoint uint32 = 29
)

// GameObjectTemplate holds static data for a gameobject type. EventID is
// the world-event id raised by goober/chest/camera/capture-point objects,
// 0 when none.
type GameObjectTemplate struct {
	Entry      uint32 `yaml:"entry"`
	Type       uint32 `yaml:"type"`
	Name       string `yaml:"name"`
	ScriptName string `yaml:"script_name"`
	EventID    uint32 `yaml:"event_id"`
}

// GameObjectSpawn is one placed gameobject instance.
type GameObjectSpawn struct {
	GUID  uint32  `yaml:"guid"`
	Entry uint32  `yaml:"entry"`
	MapID uint32  `yaml:"map_id"`
	X     float32 `yaml:"x"`
	Y     float32 `yaml:"y"`
	Z     float32 `yaml:"z"`
	O     float32 `yaml:"o"`
}

type gameObjectListFile struct {
	GameObjects []GameObjectTemplate `yaml:"gameobjects"`
}

type gameObjectSpawnFile struct {
	Spawns []GameObjectSpawn `yaml:"spawns"`
}

// GameObjectTable holds gameobject templates and spawn placements.
type GameObjectTable struct {
	templates map[uint32]*GameObjectTemplate
	spawns    map[uint32]*GameObjectSpawn
}

// LoadGameObjectTable loads gameobject templates and spawns from YAML files.
func LoadGameObjectTable(templatePath, spawnPath string) (*GameObjectTable, error) {
	raw, err := os.ReadFile(templatePath)
	if err != nil {
		return nil, fmt.Errorf("read gameobject templates: %w", err)
	}
	var f gameObjectListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse gameobject templates: %w", err)
	}
	t := &GameObjectTable{
		templates: make(map[uint32]*GameObjectTemplate, len(f.GameObjects)),
		spawns:    make(map[uint32]*GameObjectSpawn),
	}
	for i := range f.GameObjects {
		g := &f.GameObjects[i]
		t.templates[g.Entry] = g
	}

	raw, err = os.ReadFile(spawnPath)
	if err != nil {
		return nil, fmt.Errorf("read gameobject spawns: %w", err)
	}
	var sf gameObjectSpawnFile
	if err := yaml.Unmarshal(raw, &sf); err != nil {
		return nil, fmt.Errorf("parse gameobject spawns: %w", err)
	}
	for i := range sf.Spawns {
		s := &sf.Spawns[i]
		t.spawns[s.GUID] = s
	}
	return t, nil
}

// GetTemplate returns a gameobject template by entry, or nil if not found.
func (t *GameObjectTable) GetTemplate(entry uint32) *GameObjectTemplate {
	return t.templates[entry]
}

// GetSpawn returns a gameobject spawn by instance guid, or nil if not found.
func (t *GameObjectTable) GetSpawn(guid uint32) *GameObjectSpawn {
	return t.spawns[guid]
}

// Count returns the number of loaded templates.
func (t *GameObjectTable) Count() int {
	return len(t.templates)
}

// SpawnCount returns the number of loaded spawns.
func (t *GameObjectTable) SpawnCount() int {
	return len(t.spawns)
}

// EachTemplate calls fn for every loaded gameobject template.
func (t *GameObjectTable) EachTemplate(fn func(*GameObjectTemplate)) {
	for _, g := range t.templates {
		fn(g)
	}
}
