package script

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// loadTestNames runs the full name collection with the given extra names
// in the scripted_areatrigger and scripted_event_id tables.
func loadTestNames(t *testing.T, m *Mgr, triggerNames, eventNames []string) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	triggerRows := pgxmock.NewRows([]string{"script_name"})
	for _, name := range triggerNames {
		triggerRows.AddRow(name)
	}
	eventRows := pgxmock.NewRows([]string{"script_name"})
	for _, name := range eventNames {
		eventRows.AddRow(name)
	}
	mock.ExpectQuery("FROM scripted_areatrigger").WillReturnRows(triggerRows)
	mock.ExpectQuery("FROM scripted_event_id").WillReturnRows(eventRows)

	require.NoError(t, m.LoadScriptNames(context.Background(), mock))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadScriptNames(t *testing.T) {
	m := newTestMgr(t)
	loadTestNames(t, m, []string{"at_gates"}, []string{"event_beacon"})

	// catalog names plus the two table names, sorted, with the empty
	// reserved slot in front
	require.Equal(t, 8, m.NameCount())
	assert.Equal(t, uint32(0), m.ScriptID(""))
	assert.Equal(t, "", m.ScriptName(0))

	want := []string{
		"at_gates", "dusty_chest", "event_beacon", "instance_shadowfang",
		"item_sealed_letter", "npc_prisoner", "town_crier",
	}
	for i, name := range want {
		id := uint32(i + 1)
		assert.Equal(t, id, m.ScriptID(name), name)
		assert.Equal(t, name, m.ScriptName(id))
	}

	assert.Equal(t, uint32(0), m.ScriptID("no_such_script"))
	assert.Equal(t, "", m.ScriptName(999))
}

func TestRegister(t *testing.T) {
	m := newTestMgr(t)
	loadTestNames(t, m, nil, nil)

	m.Register(nil)
	m.Register(&Script{})
	m.Register(&Script{Name: "no_such_script"})
	assert.Equal(t, 0, m.RegisteredCount())

	// shared helper prefixes drop silently when no data assigns them
	m.Register(&Script{Name: "generic_creature"})
	m.Register(&Script{Name: "npc_escort"})
	assert.Equal(t, 0, m.RegisteredCount())

	first := &Script{Name: "town_crier"}
	m.Register(first)
	assert.Equal(t, 1, m.RegisteredCount())
	assert.Same(t, first, m.script(m.ScriptID("town_crier")))

	// last writer wins, the count stays per name
	second := &Script{Name: "town_crier"}
	m.Register(second)
	assert.Equal(t, 1, m.RegisteredCount())
	assert.Same(t, second, m.script(m.ScriptID("town_crier")))

	assert.Nil(t, m.script(0))
	assert.Nil(t, m.script(9999))
}

func TestCheckRegistry(t *testing.T) {
	m := newTestMgr(t)
	loadTestNames(t, m, nil, nil)
	m.Register(&Script{Name: "town_crier"})

	// must not panic with most names unbound
	m.CheckRegistry()
}

func TestLoadAreaTriggerScripts(t *testing.T) {
	m := newTestMgr(t)
	loadTestNames(t, m, []string{"at_gates"}, nil)

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rows := pgxmock.NewRows([]string{"entry", "script_name"}).
		AddRow(uint32(1000), "at_gates").
		AddRow(uint32(9999), "at_gates"). // trigger not in the catalog
		AddRow(uint32(1000), "no_such_script")
	mock.ExpectQuery("FROM scripted_areatrigger").WillReturnRows(rows)

	require.NoError(t, m.LoadAreaTriggerScripts(context.Background(), mock))

	assert.Equal(t, m.ScriptID("at_gates"), m.AreaTriggerScriptID(1000))
	assert.Equal(t, uint32(0), m.AreaTriggerScriptID(9999))
}

func TestLoadEventIdScripts(t *testing.T) {
	m := newTestMgr(t)
	loadTestNames(t, m, nil, []string{"event_beacon"})

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rows := pgxmock.NewRows([]string{"id", "script_name"}).
		AddRow(uint32(7001), "event_beacon"). // gameobject template source
		AddRow(uint32(7002), "event_beacon"). // spell SEND_EVENT source
		AddRow(uint32(500), "event_beacon").  // unfireable, kept with a warning
		AddRow(uint32(7001), "no_such_script")
	mock.ExpectQuery("FROM scripted_event_id").WillReturnRows(rows)

	require.NoError(t, m.LoadEventIdScripts(context.Background(), mock))

	// the bad name row came last and dropped, the binding from before stays
	assert.Equal(t, m.ScriptID("event_beacon"), m.EventIDScriptID(7001))
	assert.Equal(t, m.ScriptID("event_beacon"), m.EventIDScriptID(7002))
	assert.Equal(t, m.ScriptID("event_beacon"), m.EventIDScriptID(500))
	assert.Equal(t, uint32(0), m.EventIDScriptID(600))
}
