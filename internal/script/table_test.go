package script

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScriptTableDelayOrdering(t *testing.T) {
	tbl := newScriptTable(TableEventScripts)
	tbl.add(&CommandRecord{ID: 1, Delay: 5, Command: CommandEmote})
	tbl.add(&CommandRecord{ID: 1, Delay: 0, Command: CommandTalk})
	tbl.add(&CommandRecord{ID: 1, Delay: 5, Command: CommandSetRun})
	tbl.add(&CommandRecord{ID: 2, Delay: 3, Command: CommandEmote})
	tbl.sortByDelay()

	recs := tbl.Get(1)
	require.Len(t, recs, 3)
	assert.Equal(t, CommandTalk, recs[0].Command)
	// rows sharing a delay keep their load order
	assert.Equal(t, CommandEmote, recs[1].Command)
	assert.Equal(t, CommandSetRun, recs[2].Command)
}

func TestScriptTableLookups(t *testing.T) {
	tbl := newScriptTable(TableGossipScripts)
	tbl.add(&CommandRecord{ID: 7, Delay: 0})
	tbl.add(&CommandRecord{ID: 3, Delay: 0})
	tbl.add(&CommandRecord{ID: 7, Delay: 1})

	assert.Equal(t, TableGossipScripts, tbl.Name())
	assert.Equal(t, []uint32{3, 7}, tbl.IDs())
	assert.Equal(t, 3, tbl.Len())
	assert.True(t, tbl.Has(7))
	assert.False(t, tbl.Has(4))
	assert.Nil(t, tbl.Get(4))
}
