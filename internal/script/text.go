package script

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/worldscript/server/internal/game"
)

// Text id ranges for the script-local tables. Local text ids are
// negative; the range picks the backing table. Non-negative ids belong
// to the shared broadcast text catalog and never load here.
const (
	TextIDMax int32 = -1

	ScriptTextIDMin int32 = -999999  // script_texts: -1 .. -999999
	GossipTextIDMax int32 = -1000000 // gossip_texts: -1000000 .. -1999999
	GossipTextIDMin int32 = -1999999
	CustomTextIDMax int32 = -2000000 // custom_texts: -2000000 .. -2999999
	CustomTextIDMin int32 = -2999999

	TextIDMin = CustomTextIDMin
)

// StringTextData is one loaded text entry: what to say, how, and with
// which sound and emote.
type StringTextData struct {
	Text     string
	SoundID  uint32
	Type     ChatType
	Language uint32
	Emote    uint32
}

// LoadScriptTexts loads the script_texts table.
func (m *Mgr) LoadScriptTexts(ctx context.Context, q Querier) error {
	return m.loadTextTable(ctx, q, "script_texts", ScriptTextIDMin, TextIDMax)
}

// LoadGossipTexts loads the gossip_texts table.
func (m *Mgr) LoadGossipTexts(ctx context.Context, q Querier) error {
	return m.loadTextTable(ctx, q, "gossip_texts", GossipTextIDMin, GossipTextIDMax)
}

// LoadCustomTexts loads the custom_texts table.
func (m *Mgr) LoadCustomTexts(ctx context.Context, q Querier) error {
	return m.loadTextTable(ctx, q, "custom_texts", CustomTextIDMin, CustomTextIDMax)
}

// loadTextTable reads one text table into the shared text map. Entries
// outside the table's id range are dropped; bad attributes (missing
// sound, emote or language, unknown chat type) are warned about but the
// entry still loads so the text itself stays usable.
func (m *Mgr) loadTextTable(ctx context.Context, q Querier, table string, min, max int32) error {
	rows, err := q.Query(ctx,
		"SELECT entry, content, sound, type, language, emote FROM "+table)
	if err != nil {
		return fmt.Errorf("load %s: %w", table, err)
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var (
			entry    int32
			text     StringTextData
			chatType uint32
		)
		if err := rows.Scan(&entry, &text.Text, &text.SoundID, &chatType,
			&text.Language, &text.Emote); err != nil {
			return fmt.Errorf("scan %s: %w", table, err)
		}
		text.Type = ChatType(chatType)

		if entry < min || entry > max {
			m.log.Error("text entry outside the table's id range, dropped",
				zap.String("table", table), zap.Int32("entry", entry))
			continue
		}
		if text.SoundID != 0 && !m.store.Sounds.Has(text.SoundID) {
			m.log.Warn("text entry references missing sound",
				zap.String("table", table), zap.Int32("entry", entry),
				zap.Uint32("sound", text.SoundID))
		}
		if text.Emote != 0 && !m.store.Emotes.Has(text.Emote) {
			m.log.Warn("text entry references missing emote",
				zap.String("table", table), zap.Int32("entry", entry),
				zap.Uint32("emote", text.Emote))
		}
		if !m.store.Languages.Has(text.Language) && text.Language != 0 {
			m.log.Warn("text entry uses unknown language",
				zap.String("table", table), zap.Int32("entry", entry),
				zap.Uint32("language", text.Language))
		}
		if text.Type > ChatTypeZoneYell {
			m.log.Warn("text entry has unknown chat type",
				zap.String("table", table), zap.Int32("entry", entry),
				zap.Uint32("type", chatType))
		}

		m.textData[entry] = text
		count++
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("read %s: %w", table, err)
	}

	m.log.Info("text table loaded", zap.String("table", table), zap.Int("count", count))
	return nil
}

// TextEntry returns the loaded text for an id, or nil when unknown.
func (m *Mgr) TextEntry(textID int32) *StringTextData {
	if text, ok := m.textData[textID]; ok {
		return &text
	}
	return nil
}

// DoScriptText emits one scripted text from source, with its sound and
// emote, over the entry's chat channel. Non-negative ids resolve through
// the broadcast text catalog, negative ids through the loaded script text
// tables. A nonzero chatTypeOverride replaces the entry's channel. target
// may be nil except for whispers, which require a player target. Bad ids
// or sources log an error and emit nothing.
func (m *Mgr) DoScriptText(textID int32, source game.WorldObject, target game.Unit, chatTypeOverride ChatType) {
	if source == nil {
		m.log.Error("scripted text with nil source", zap.Int32("text", textID))
		return
	}

	var (
		chatType ChatType
		emote    uint32
		language uint32
		soundID  uint32
	)
	if textID >= 0 {
		bct := m.store.BroadcastTexts.Get(textID)
		if bct == nil {
			m.log.Error("broadcast text id not found",
				zap.Int32("text", textID), zap.String("source", source.Name()))
			return
		}
		chatType = ChatType(bct.ChatType)
		emote = bct.EmoteID
		language = bct.Language
		soundID = bct.SoundID
	} else {
		text, ok := m.textData[textID]
		if !ok {
			m.log.Error("scripted text id not found",
				zap.Int32("text", textID), zap.String("source", source.Name()))
			return
		}
		chatType = text.Type
		emote = text.Emote
		language = text.Language
		soundID = text.SoundID
	}

	if chatTypeOverride != 0 {
		chatType = chatTypeOverride
	}

	if soundID != 0 {
		if !m.store.Sounds.Has(soundID) {
			m.log.Error("scripted text references missing sound",
				zap.Int32("text", textID), zap.Uint32("sound", soundID))
		} else if chatType == ChatTypeZoneYell {
			// zone yells carry their sound to the whole map
			if mp := source.Map(); mp != nil {
				mp.PlayDirectSoundToMap(soundID)
			}
		} else {
			source.PlayDirectSound(soundID)
		}
	}

	if emote != 0 {
		if source.TypeID() == game.TypeIDUnit || source.TypeID() == game.TypeIDPlayer {
			if unit, ok := source.(game.Unit); ok {
				unit.HandleEmote(emote)
			}
		} else {
			m.log.Error("text emote on a source that cannot emote",
				zap.Int32("text", textID), zap.String("source", source.Name()))
		}
	}

	switch chatType {
	case ChatTypeSay:
		source.Say(textID, language, target)
	case ChatTypeYell:
		source.Yell(textID, language, target)
	case ChatTypeTextEmote:
		source.TextEmote(textID, target, false)
	case ChatTypeBossEmote:
		source.TextEmote(textID, target, true)
	case ChatTypeWhisper, ChatTypeBossWhisper:
		if target == nil || target.TypeID() != game.TypeIDPlayer {
			m.log.Error("whisper text without a player target",
				zap.Int32("text", textID), zap.String("source", source.Name()))
			return
		}
		source.Whisper(textID, target, chatType == ChatTypeBossWhisper)
	case ChatTypeZoneYell:
		source.YellToZone(textID, language, target)
	default:
		m.log.Error("scripted text with unknown chat type",
			zap.Int32("text", textID), zap.Uint32("type", uint32(chatType)))
	}
}

// DoOrSimulateScriptTextForMap emits a zone-wide yell on a map attributed
// to a creature entry, whether or not such a creature is currently
// spawned there. Only zone-yell texts qualify; anything else is refused.
func (m *Mgr) DoOrSimulateScriptTextForMap(textID int32, creatureEntry uint32, mp game.Map, target game.Unit) {
	if mp == nil {
		m.log.Error("simulated map text with nil map", zap.Int32("text", textID))
		return
	}
	if m.store.Creatures.GetTemplate(creatureEntry) == nil {
		m.log.Error("simulated map text for missing creature",
			zap.Int32("text", textID), zap.Uint32("entry", creatureEntry))
		return
	}

	var (
		chatType ChatType
		language uint32
		soundID  uint32
	)
	if textID >= 0 {
		bct := m.store.BroadcastTexts.Get(textID)
		if bct == nil {
			m.log.Error("broadcast text id not found", zap.Int32("text", textID))
			return
		}
		chatType = ChatType(bct.ChatType)
		language = bct.Language
		soundID = bct.SoundID
	} else {
		text, ok := m.textData[textID]
		if !ok {
			m.log.Error("scripted text id not found", zap.Int32("text", textID))
			return
		}
		chatType = text.Type
		language = text.Language
		soundID = text.SoundID
	}
	if chatType != ChatTypeZoneYell {
		m.log.Error("simulated map text requires a zone-yell entry",
			zap.Int32("text", textID), zap.Uint32("type", uint32(chatType)))
		return
	}

	if soundID != 0 {
		mp.PlayDirectSoundToMap(soundID)
	}
	mp.YellToMap(creatureEntry, textID, language, target)
}
