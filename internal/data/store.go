package data

import (
	"fmt"
	"path/filepath"
)

// Store aggregates every content catalog the script engine validates
// against. Populated once at startup, read-only afterwards except for the
// loader's quest flag repair.
type Store struct {
	Creatures      *CreatureTable
	GameObjects    *GameObjectTable
	Items          *ItemTable
	Quests         *QuestTable
	Spells         *SpellTable
	Maps           *MapTable
	AreaTriggers   *AreaTriggerTable
	Factions       *IDTable
	Emotes         *IDTable
	Sounds         *IDTable
	TaxiPaths      *IDTable
	Conditions     *IDTable
	Languages      *IDTable
	Displays       *IDTable
	BroadcastTexts *BroadcastTextTable
}

// LoadStore loads all content catalogs from their conventional filenames
// under dir.
func LoadStore(dir string) (*Store, error) {
	s := &Store{}
	var err error

	if s.Creatures, err = LoadCreatureTable(
		filepath.Join(dir, "creature_templates.yaml"),
		filepath.Join(dir, "creature_spawns.yaml"),
	); err != nil {
		return nil, fmt.Errorf("creature table: %w", err)
	}
	if s.GameObjects, err = LoadGameObjectTable(
		filepath.Join(dir, "gameobject_templates.yaml"),
		filepath.Join(dir, "gameobject_spawns.yaml"),
	); err != nil {
		return nil, fmt.Errorf("gameobject table: %w", err)
	}
	if s.Items, err = LoadItemTable(filepath.Join(dir, "item_templates.yaml")); err != nil {
		return nil, fmt.Errorf("item table: %w", err)
	}
	if s.Quests, err = LoadQuestTable(filepath.Join(dir, "quest_templates.yaml")); err != nil {
		return nil, fmt.Errorf("quest table: %w", err)
	}
	if s.Spells, err = LoadSpellTable(filepath.Join(dir, "spell_templates.yaml")); err != nil {
		return nil, fmt.Errorf("spell table: %w", err)
	}
	if s.Maps, err = LoadMapTable(filepath.Join(dir, "map_templates.yaml")); err != nil {
		return nil, fmt.Errorf("map table: %w", err)
	}
	if s.AreaTriggers, err = LoadAreaTriggerTable(filepath.Join(dir, "area_triggers.yaml")); err != nil {
		return nil, fmt.Errorf("area trigger table: %w", err)
	}
	if s.BroadcastTexts, err = LoadBroadcastTextTable(filepath.Join(dir, "broadcast_texts.yaml")); err != nil {
		return nil, fmt.Errorf("broadcast text table: %w", err)
	}

	idCatalogs := []struct {
		dst  **IDTable
		file string
	}{
		{&s.Factions, "factions.yaml"},
		{&s.Emotes, "emotes.yaml"},
		{&s.Sounds, "sounds.yaml"},
		{&s.TaxiPaths, "taxi_paths.yaml"},
		{&s.Conditions, "conditions.yaml"},
		{&s.Languages, "languages.yaml"},
		{&s.Displays, "creature_displays.yaml"},
	}
	for _, c := range idCatalogs {
		t, err := LoadIDTable(filepath.Join(dir, c.file))
		if err != nil {
			return nil, fmt.Errorf("id catalog %s: %w", c.file, err)
		}
		*c.dst = t
	}

	return s, nil
}
