package script

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/worldscript/server/internal/data"
)

// LoadScriptNames gathers every script name assigned anywhere: the
// catalog ScriptName columns plus the scripted_areatrigger and
// scripted_event_id tables. The result is a sorted unique list whose
// index is the script id; index 0 is reserved for the empty name so a
// zero id always means "unscripted".
func (m *Mgr) LoadScriptNames(ctx context.Context, q Querier) error {
	seen := map[string]struct{}{}

	collect := func(name string) {
		if name != "" {
			seen[name] = struct{}{}
		}
	}

	m.store.Creatures.EachTemplate(func(t *data.CreatureTemplate) {
		collect(t.ScriptName)
	})
	m.store.GameObjects.EachTemplate(func(t *data.GameObjectTemplate) {
		collect(t.ScriptName)
	})
	m.store.Items.EachTemplate(func(t *data.ItemTemplate) {
		collect(t.ScriptName)
	})
	m.store.Maps.Each(func(e *data.MapEntry) {
		collect(e.ScriptName)
	})

	for _, table := range []string{"scripted_areatrigger", "scripted_event_id"} {
		rows, err := q.Query(ctx, "SELECT script_name FROM "+table)
		if err != nil {
			return fmt.Errorf("load script names from %s: %w", table, err)
		}
		for rows.Next() {
			var name string
			if err := rows.Scan(&name); err != nil {
				rows.Close()
				return fmt.Errorf("scan script name from %s: %w", table, err)
			}
			collect(name)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return fmt.Errorf("read script names from %s: %w", table, err)
		}
	}

	names := make([]string, 0, len(seen)+1)
	names = append(names, "")
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)

	m.names = names
	m.scripts = make([]*Script, len(names))

	m.log.Info("script names loaded", zap.Int("count", len(names)-1))
	return nil
}

// ScriptID resolves a name to its id, or 0 when the name is unknown. Ids
// are stable for the lifetime of one name load.
func (m *Mgr) ScriptID(name string) uint32 {
	if name == "" {
		return 0
	}
	i := sort.SearchStrings(m.names, name)
	if i < len(m.names) && m.names[i] == name {
		return uint32(i)
	}
	return 0
}

// ScriptName resolves an id back to its name.
func (m *Mgr) ScriptName(id uint32) string {
	if int(id) >= len(m.names) {
		return ""
	}
	return m.names[id]
}

// NameCount returns the number of registered names, counting the reserved
// empty slot.
func (m *Mgr) NameCount() int {
	return len(m.names)
}

// LoadAreaTriggerScripts binds area trigger ids to script ids from the
// scripted_areatrigger table. Triggers missing from the catalog and names
// missing from the registry are dropped with a warning.
func (m *Mgr) LoadAreaTriggerScripts(ctx context.Context, q Querier) error {
	rows, err := q.Query(ctx, "SELECT entry, script_name FROM scripted_areatrigger")
	if err != nil {
		return fmt.Errorf("load scripted_areatrigger: %w", err)
	}
	defer rows.Close()

	bound := make(map[uint32]uint32)
	for rows.Next() {
		var (
			entry uint32
			name  string
		)
		if err := rows.Scan(&entry, &name); err != nil {
			return fmt.Errorf("scan scripted_areatrigger: %w", err)
		}
		if m.store.AreaTriggers.Get(entry) == nil {
			m.log.Warn("scripted_areatrigger references missing area trigger",
				zap.Uint32("entry", entry))
			continue
		}
		id := m.ScriptID(name)
		if id == 0 {
			m.log.Warn("scripted_areatrigger references unknown script name",
				zap.Uint32("entry", entry), zap.String("script", name))
			continue
		}
		bound[entry] = id
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("read scripted_areatrigger: %w", err)
	}

	m.areaTriggerScripts = bound
	m.log.Info("area trigger scripts loaded", zap.Int("count", len(bound)))
	return nil
}

// LoadEventIdScripts binds world event ids to script ids from the
// scripted_event_id table. Ids that no game data can ever fire are kept
// but warned about.
func (m *Mgr) LoadEventIdScripts(ctx context.Context, q Querier) error {
	rows, err := q.Query(ctx, "SELECT id, script_name FROM scripted_event_id")
	if err != nil {
		return fmt.Errorf("load scripted_event_id: %w", err)
	}
	defer rows.Close()

	possible := m.collectPossibleEventIDs()

	bound := make(map[uint32]uint32)
	for rows.Next() {
		var (
			eventID uint32
			name    string
		)
		if err := rows.Scan(&eventID, &name); err != nil {
			return fmt.Errorf("scan scripted_event_id: %w", err)
		}
		id := m.ScriptID(name)
		if id == 0 {
			m.log.Warn("scripted_event_id references unknown script name",
				zap.Uint32("event", eventID), zap.String("script", name))
			continue
		}
		if _, ok := possible[eventID]; !ok {
			m.log.Warn("scripted_event_id entry can never trigger from game data",
				zap.Uint32("event", eventID), zap.String("script", name))
		}
		bound[eventID] = id
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("read scripted_event_id: %w", err)
	}

	m.eventIDScripts = bound
	m.log.Info("event id scripts loaded", zap.Int("count", len(bound)))
	return nil
}

// collectPossibleEventIDs walks the catalogs for every event id any game
// content can fire: gameobject template event fields and spell SEND_EVENT
// effects are the known sources.
func (m *Mgr) collectPossibleEventIDs() map[uint32]struct{} {
	possible := make(map[uint32]struct{})

	m.store.GameObjects.EachTemplate(func(t *data.GameObjectTemplate) {
		if t.EventID != 0 {
			possible[t.EventID] = struct{}{}
		}
	})

	m.store.Spells.Each(func(s *data.Spell) {
		for i := 0; i < data.MaxSpellEffects; i++ {
			if s.Effects[i] == data.SpellEffectSendEvent && s.EffectMiscValue[i] > 0 {
				possible[uint32(s.EffectMiscValue[i])] = struct{}{}
			}
		}
	})

	return possible
}

// AreaTriggerScriptID returns the script id bound to an area trigger, or
// 0 when none is.
func (m *Mgr) AreaTriggerScriptID(trigger uint32) uint32 {
	return m.areaTriggerScripts[trigger]
}

// EventIDScriptID returns the script id bound to a world event id, or 0
// when none is.
func (m *Mgr) EventIDScriptID(eventID uint32) uint32 {
	return m.eventIDScripts[eventID]
}
