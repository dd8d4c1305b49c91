package script

import (
	"strings"

	"go.uber.org/zap"

	"github.com/worldscript/server/internal/data"
	"github.com/worldscript/server/internal/game"
)

// Script is one named bundle of hook implementations. Every field except
// Name is optional; dispatch treats a nil hook as "not handled". Bundles
// come from compiled-in registrations and from pluggable providers alike.
type Script struct {
	Name string

	GetAI           func(c game.Creature) game.CreatureAI
	GetGameObjectAI func(gobj game.GameObject) game.GameObjectAI

	OnGossipHello            func(p game.Player, c game.Creature) bool
	OnGOGossipHello          func(p game.Player, gobj game.GameObject) bool
	OnGossipSelect           func(p game.Player, c game.Creature, sender, action uint32) bool
	OnGossipSelectWithCode   func(p game.Player, c game.Creature, sender, action uint32, code string) bool
	OnGOGossipSelect         func(p game.Player, gobj game.GameObject, sender, action uint32) bool
	OnGOGossipSelectWithCode func(p game.Player, gobj game.GameObject, sender, action uint32, code string) bool

	OnQuestAccept     func(p game.Player, c game.Creature, quest *data.Quest) bool
	OnQuestRewarded   func(p game.Player, c game.Creature, quest *data.Quest) bool
	OnGOQuestAccept   func(p game.Player, gobj game.GameObject, quest *data.Quest) bool
	OnGOQuestRewarded func(p game.Player, gobj game.GameObject, quest *data.Quest) bool
	OnItemQuestAccept func(p game.Player, item game.Item, quest *data.Quest) bool

	NPCDialogStatus func(p game.Player, c game.Creature) uint32
	GODialogStatus  func(p game.Player, gobj game.GameObject) uint32

	OnGOOpen  func(p game.Player, gobj game.GameObject) bool
	OnGOUse   func(p game.Player, gobj game.GameObject) bool
	OnItemUse func(p game.Player, item game.Item, targets game.SpellTargets) bool

	OnAreaTrigger  func(p game.Player, at *data.AreaTrigger) bool
	OnProcessEvent func(eventID uint32, source, target game.WorldObject, isStart bool) bool

	OnEffectDummyCreature   func(caster game.Unit, spellID uint32, effIndex int, target game.Creature) bool
	OnEffectDummyGameObject func(caster game.Unit, spellID uint32, effIndex int, target game.GameObject) bool
	OnEffectDummyItem       func(caster game.Unit, spellID uint32, effIndex int, target game.Item) bool
	OnAuraDummy             func(aura game.Aura, apply bool) bool

	CreateInstanceData func(mp game.Map) game.InstanceData
}

// Shared helper bundles use these prefixes; they are not bound to any
// entity directly, so a missing name assignment is expected for them.
var silentNamePrefixes = []string{"generic", "npc_escort"}

func isSilentName(name string) bool {
	for _, prefix := range silentNamePrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// Register binds a hook bundle to its name. A name nothing in the game
// data assigns is dropped with a warning, except for the shared helper
// prefixes which drop silently. Registering a name twice replaces the
// earlier bundle, last writer wins.
func (m *Mgr) Register(s *Script) {
	if s == nil || s.Name == "" {
		m.log.Warn("hook bundle without a name ignored")
		return
	}
	id := m.ScriptID(s.Name)
	if id == 0 {
		if !isSilentName(s.Name) {
			m.log.Warn("hook bundle registered for a name no game data assigns",
				zap.String("script", s.Name))
		}
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.scripts[id] != nil {
		m.log.Debug("hook bundle replaced", zap.String("script", s.Name))
	} else {
		m.registered++
	}
	m.scripts[id] = s
}

// RegisteredCount returns how many names currently have a bundle bound.
func (m *Mgr) RegisteredCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.registered
}

// script returns the bundle for a script id, nil when none is bound.
func (m *Mgr) script(id uint32) *Script {
	if id == 0 || int(id) >= len(m.scripts) {
		return nil
	}
	return m.scripts[id]
}

// CheckRegistry warns for every assigned script name that no bundle ever
// registered for. Run once after all providers have registered.
func (m *Mgr) CheckRegistry() {
	missing := 0
	for id := 1; id < len(m.names); id++ {
		if m.scripts[id] == nil {
			m.log.Warn("script name assigned in game data but no behavior registered",
				zap.String("script", m.names[id]))
			missing++
		}
	}
	m.log.Info("script registry checked",
		zap.Int("registered", m.registered),
		zap.Int("unbound", missing))
}
