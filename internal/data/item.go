package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ItemTemplate holds static data for an item type.
type ItemTemplate struct {
	Entry      uint32 `yaml:"entry"`
	Name       string `yaml:"name"`
	ScriptName string `yaml:"script_name"`
}

type itemListFile struct {
	Items []ItemTemplate `yaml:"items"`
}

// ItemTable holds item templates indexed by entry.
type ItemTable struct {
	templates map[uint32]*ItemTemplate
}

// LoadItemTable loads item templates from a YAML file.
func LoadItemTable(path string) (*ItemTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read item templates: %w", err)
	}
	var f itemListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse item templates: %w", err)
	}
	t := &ItemTable{templates: make(map[uint32]*ItemTemplate, len(f.Items))}
	for i := range f.Items {
		it := &f.Items[i]
		t.templates[it.Entry] = it
	}
	return t, nil
}

// Get returns an item template by entry, or nil if not found.
func (t *ItemTable) Get(entry uint32) *ItemTemplate {
	return t.templates[entry]
}

// Count returns the number of loaded templates.
func (t *ItemTable) Count() int {
	return len(t.templates)
}

// EachTemplate calls fn for every loaded item template.
func (t *ItemTable) EachTemplate(fn func(*ItemTemplate)) {
	for _, it := range t.templates {
		fn(it)
	}
}
