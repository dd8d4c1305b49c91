package script

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var textCols = []string{"entry", "content", "sound", "type", "language", "emote"}

func TestLoadTextTableRanges(t *testing.T) {
	m := newTestMgr(t)
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rows := pgxmock.NewRows(textCols).
		AddRow(int32(-5), "Hear ye, hear ye!", uint32(1150), uint32(1), uint32(7), uint32(2)).
		AddRow(int32(-1000001), "wrong table", uint32(0), uint32(0), uint32(0), uint32(0)).
		AddRow(int32(3), "positive id", uint32(0), uint32(0), uint32(0), uint32(0))
	mock.ExpectQuery("FROM script_texts").WillReturnRows(rows)

	require.NoError(t, m.LoadScriptTexts(context.Background(), mock))

	entry := m.TextEntry(-5)
	require.NotNil(t, entry)
	assert.Equal(t, "Hear ye, hear ye!", entry.Text)
	assert.Equal(t, ChatTypeYell, entry.Type)
	assert.Equal(t, uint32(1150), entry.SoundID)

	assert.Nil(t, m.TextEntry(-1000001))
	assert.Nil(t, m.TextEntry(3))
}

func TestLoadGossipTextsRange(t *testing.T) {
	m := newTestMgr(t)
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rows := pgxmock.NewRows(textCols).
		AddRow(int32(-1000005), "Need a hand?", uint32(0), uint32(0), uint32(0), uint32(0)).
		AddRow(int32(-5), "script range id", uint32(0), uint32(0), uint32(0), uint32(0))
	mock.ExpectQuery("FROM gossip_texts").WillReturnRows(rows)

	require.NoError(t, m.LoadGossipTexts(context.Background(), mock))

	assert.NotNil(t, m.TextEntry(-1000005))
	assert.Nil(t, m.TextEntry(-5))
}

func TestLoadTextTableKeepsBadAttributes(t *testing.T) {
	m := newTestMgr(t)
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	// missing sound, missing emote and an unknown chat type all warn but
	// the entry still loads
	rows := pgxmock.NewRows(textCols).
		AddRow(int32(-7), "mumble", uint32(9999), uint32(9), uint32(999), uint32(9999))
	mock.ExpectQuery("FROM script_texts").WillReturnRows(rows)

	require.NoError(t, m.LoadScriptTexts(context.Background(), mock))
	assert.NotNil(t, m.TextEntry(-7))
}

func TestCheckAllScriptTexts(t *testing.T) {
	m := newTestMgr(t)
	m.eventScripts.add(&CommandRecord{
		ID: 1, Command: CommandTalk,
		Payload: TalkPayload{TextIDs: [MaxTextIDs]int32{50, 51}},
	})

	// the pass only warns for the missing broadcast id 51, nothing is
	// dropped
	m.CheckAllScriptTexts()
	assert.Equal(t, 1, m.eventScripts.Len())
}

func TestDoScriptTextSay(t *testing.T) {
	m := newTestMgr(t)
	m.textData[-5] = StringTextData{
		Text: "Hear ye!", SoundID: 1150, Type: ChatTypeSay, Language: 7, Emote: 2,
	}

	c := newFakeCreature(100)
	m.DoScriptText(-5, c, nil, 0)

	assert.Equal(t, []any{uint32(1150)}, c.called("PlayDirectSound"))
	assert.Equal(t, []any{uint32(2)}, c.called("HandleEmote"))
	assert.Equal(t, []any{int32(-5), uint32(7)}, c.called("Say"))
}

func TestDoScriptTextBroadcast(t *testing.T) {
	m := newTestMgr(t)

	c := newFakeCreature(100)
	m.DoScriptText(50, c, nil, 0)

	assert.Equal(t, []any{uint32(1150)}, c.called("PlayDirectSound"))
	assert.Equal(t, []any{uint32(2)}, c.called("HandleEmote"))
	assert.Equal(t, []any{int32(50), uint32(7)}, c.called("Say"))

	// an id the broadcast catalog does not carry emits nothing
	other := newFakeCreature(100)
	m.DoScriptText(51, other, nil, 0)
	assert.Empty(t, other.calls)
}

func TestDoScriptTextChatTypeOverride(t *testing.T) {
	m := newTestMgr(t)
	m.textData[-5] = StringTextData{Text: "...", Type: ChatTypeSay, Language: 7}

	c := newFakeCreature(100)
	m.DoScriptText(-5, c, nil, ChatTypeYell)

	assert.Nil(t, c.called("Say"))
	assert.Equal(t, []any{int32(-5), uint32(7)}, c.called("Yell"))
}

func TestDoScriptTextZoneYellSoundGoesToMap(t *testing.T) {
	m := newTestMgr(t)
	m.textData[-5] = StringTextData{Text: "!", SoundID: 1151, Type: ChatTypeZoneYell}

	mp := &fakeMap{id: 0}
	c := newFakeCreature(100)
	c.mp = mp
	m.DoScriptText(-5, c, nil, 0)

	assert.Equal(t, []uint32{1151}, mp.sounds)
	assert.Nil(t, c.called("PlayDirectSound"))
	assert.Equal(t, []any{int32(-5), uint32(0)}, c.called("YellToZone"))
}

func TestDoScriptTextSkipsMissingSound(t *testing.T) {
	m := newTestMgr(t)
	m.textData[-5] = StringTextData{Text: "...", SoundID: 9999, Type: ChatTypeSay}

	c := newFakeCreature(100)
	m.DoScriptText(-5, c, nil, 0)

	// the unknown sound is refused but the speech still goes out
	assert.Nil(t, c.called("PlayDirectSound"))
	assert.NotNil(t, c.called("Say"))
}

func TestDoScriptTextChannels(t *testing.T) {
	tests := []struct {
		name       string
		chatType   ChatType
		wantMethod string
		wantArgs   []any
	}{
		{"yell", ChatTypeYell, "Yell", []any{int32(-5), uint32(0)}},
		{"text emote", ChatTypeTextEmote, "TextEmote", []any{int32(-5), false}},
		{"boss emote", ChatTypeBossEmote, "TextEmote", []any{int32(-5), true}},
		{"zone yell", ChatTypeZoneYell, "YellToZone", []any{int32(-5), uint32(0)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMgr(t)
			m.textData[-5] = StringTextData{Text: "...", Type: tt.chatType}

			c := newFakeCreature(100)
			m.DoScriptText(-5, c, nil, 0)
			assert.Equal(t, tt.wantArgs, c.called(tt.wantMethod))
		})
	}
}

func TestDoScriptTextWhisperNeedsPlayerTarget(t *testing.T) {
	m := newTestMgr(t)
	m.textData[-5] = StringTextData{Text: "psst", Type: ChatTypeWhisper}

	c := newFakeCreature(100)
	m.DoScriptText(-5, c, nil, 0)
	assert.Nil(t, c.called("Whisper"))

	other := newFakeCreature(200)
	m.DoScriptText(-5, c, other, 0)
	assert.Nil(t, c.called("Whisper"))

	p := newFakePlayer()
	m.DoScriptText(-5, c, p, 0)
	assert.Equal(t, []any{int32(-5), false}, c.called("Whisper"))
}

func TestDoScriptTextBossWhisper(t *testing.T) {
	m := newTestMgr(t)
	m.textData[-6] = StringTextData{Text: "psst", Type: ChatTypeBossWhisper}

	c := newFakeCreature(100)
	m.DoScriptText(-6, c, newFakePlayer(), 0)
	assert.Equal(t, []any{int32(-6), true}, c.called("Whisper"))
}

func TestDoScriptTextRefusals(t *testing.T) {
	m := newTestMgr(t)
	m.textData[-5] = StringTextData{Text: "...", Type: ChatTypeSay}

	// nil source
	m.DoScriptText(-5, nil, nil, 0)

	c := newFakeCreature(100)

	// unknown local id
	m.DoScriptText(-999, c, nil, 0)
	assert.Empty(t, c.calls)
}

func TestDoScriptTextEmoteNeedsUnitOrPlayerSource(t *testing.T) {
	m := newTestMgr(t)
	m.textData[-5] = StringTextData{Text: "...", Type: ChatTypeSay, Emote: 2}

	g := newFakeGameObject(400)
	m.DoScriptText(-5, g, nil, 0)

	// the emote is refused but the speech still goes out
	assert.Equal(t, []string{"Say"}, g.methods())

	// player sources emote like creatures do
	p := newFakePlayer()
	m.DoScriptText(-5, p, nil, 0)
	assert.Equal(t, []any{uint32(2)}, p.called("HandleEmote"))
}

func TestDoOrSimulateScriptTextForMap(t *testing.T) {
	m := newTestMgr(t)
	m.textData[-5] = StringTextData{Text: "The keep trembles!", SoundID: 1151, Type: ChatTypeZoneYell, Language: 1}
	m.textData[-6] = StringTextData{Text: "quiet", Type: ChatTypeSay}

	mp := &fakeMap{id: 33}

	m.DoOrSimulateScriptTextForMap(-5, 100, mp, nil)
	assert.Equal(t, []uint32{1151}, mp.sounds)
	assert.Equal(t, []int32{-5}, mp.yells)

	// broadcast zone-yell entries qualify too
	m.DoOrSimulateScriptTextForMap(60, 100, mp, nil)
	assert.Equal(t, []int32{-5, 60}, mp.yells)

	// non-zone-yell entries are refused
	m.DoOrSimulateScriptTextForMap(-6, 100, mp, nil)
	assert.Equal(t, []int32{-5, 60}, mp.yells)

	// missing creature template
	m.DoOrSimulateScriptTextForMap(-5, 999, mp, nil)
	assert.Equal(t, []int32{-5, 60}, mp.yells)

	// nil map
	m.DoOrSimulateScriptTextForMap(-5, 100, nil, nil)
}
