// Package scripting loads Lua hook bundles and registers them with the
// script manager, so entity behavior can ship as data files next to the
// compiled-in bundles.
package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/worldscript/server/internal/data"
	"github.com/worldscript/server/internal/game"
	"github.com/worldscript/server/internal/script"
)

// Engine wraps a single gopher-lua VM hosting hook handlers.
// Single-goroutine access only (world tick); loading and dispatch share
// the goroutine.
type Engine struct {
	vm  *lua.LState
	mgr *script.Mgr
	log *zap.Logger

	loaded int
}

// NewEngine creates a Lua engine and loads every script from the given
// directory tree. Each file calls register_script with a table of
// handlers; registration goes straight to the manager, so script names
// must already be loaded.
func NewEngine(scriptsDir string, mgr *script.Mgr, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, mgr: mgr, log: log}
	vm.SetGlobal("register_script", vm.NewFunction(e.luaRegisterScript))

	if err := e.loadDir(scriptsDir); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load scripts: %w", err)
	}
	for _, sub := range []string{"creature", "gameobject", "item", "world"} {
		if err := e.loadDir(filepath.Join(scriptsDir, sub)); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load %s scripts: %w", sub, err)
		}
	}

	log.Info("lua hook bundles loaded", zap.Int("count", e.loaded))
	return e, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// luaRegisterScript is the register_script global. It takes a table with
// a name field and optional handler functions, wraps the handlers into a
// hook bundle and registers it.
func (e *Engine) luaRegisterScript(L *lua.LState) int {
	t := L.CheckTable(1)

	name := lua.LVAsString(t.RawGetString("name"))
	if name == "" {
		L.RaiseError("register_script: missing name")
		return 0
	}

	s := &script.Script{Name: name}

	if fn := luaFunc(t, "on_gossip_hello"); fn != nil {
		s.OnGossipHello = func(p game.Player, c game.Creature) bool {
			ctx := e.vm.NewTable()
			e.setObject(ctx, "player", p)
			e.setObject(ctx, "creature", c)
			e.addSpeech(ctx, c, p)
			return e.callHandler(name, fn, ctx)
		}
	}
	if fn := luaFunc(t, "on_gossip_select"); fn != nil {
		s.OnGossipSelect = func(p game.Player, c game.Creature, sender, action uint32) bool {
			ctx := e.vm.NewTable()
			e.setObject(ctx, "player", p)
			e.setObject(ctx, "creature", c)
			ctx.RawSetString("sender", lua.LNumber(sender))
			ctx.RawSetString("action", lua.LNumber(action))
			e.addSpeech(ctx, c, p)
			return e.callHandler(name, fn, ctx)
		}
	}
	if fn := luaFunc(t, "on_quest_accept"); fn != nil {
		s.OnQuestAccept = func(p game.Player, c game.Creature, quest *data.Quest) bool {
			ctx := e.vm.NewTable()
			e.setObject(ctx, "player", p)
			e.setObject(ctx, "creature", c)
			ctx.RawSetString("quest", lua.LNumber(quest.ID))
			e.addSpeech(ctx, c, p)
			return e.callHandler(name, fn, ctx)
		}
	}
	if fn := luaFunc(t, "on_quest_rewarded"); fn != nil {
		s.OnQuestRewarded = func(p game.Player, c game.Creature, quest *data.Quest) bool {
			ctx := e.vm.NewTable()
			e.setObject(ctx, "player", p)
			e.setObject(ctx, "creature", c)
			ctx.RawSetString("quest", lua.LNumber(quest.ID))
			e.addSpeech(ctx, c, p)
			return e.callHandler(name, fn, ctx)
		}
	}
	if fn := luaFunc(t, "on_go_open"); fn != nil {
		s.OnGOOpen = func(p game.Player, gobj game.GameObject) bool {
			ctx := e.vm.NewTable()
			e.setObject(ctx, "player", p)
			e.setObject(ctx, "gameobject", gobj)
			return e.callHandler(name, fn, ctx)
		}
	}
	if fn := luaFunc(t, "on_go_use"); fn != nil {
		s.OnGOUse = func(p game.Player, gobj game.GameObject) bool {
			ctx := e.vm.NewTable()
			e.setObject(ctx, "player", p)
			e.setObject(ctx, "gameobject", gobj)
			return e.callHandler(name, fn, ctx)
		}
	}
	if fn := luaFunc(t, "on_area_trigger"); fn != nil {
		s.OnAreaTrigger = func(p game.Player, at *data.AreaTrigger) bool {
			ctx := e.vm.NewTable()
			e.setObject(ctx, "player", p)
			ctx.RawSetString("trigger", lua.LNumber(at.ID))
			ctx.RawSetString("map", lua.LNumber(at.MapID))
			return e.callHandler(name, fn, ctx)
		}
	}
	if fn := luaFunc(t, "on_process_event"); fn != nil {
		s.OnProcessEvent = func(eventID uint32, source, target game.WorldObject, isStart bool) bool {
			ctx := e.vm.NewTable()
			ctx.RawSetString("event", lua.LNumber(eventID))
			e.setObject(ctx, "source", source)
			e.setObject(ctx, "target", target)
			ctx.RawSetString("is_start", lua.LBool(isStart))
			return e.callHandler(name, fn, ctx)
		}
	}
	if fn := luaFunc(t, "dialog_status"); fn != nil {
		s.NPCDialogStatus = func(p game.Player, c game.Creature) uint32 {
			ctx := e.vm.NewTable()
			e.setObject(ctx, "player", p)
			e.setObject(ctx, "creature", c)
			return e.callStatusHandler(name, fn, ctx)
		}
	}

	e.mgr.Register(s)
	e.loaded++
	return 0
}

// setObject adds a world object's identity fields as a sub-table.
func (e *Engine) setObject(ctx *lua.LTable, key string, o game.WorldObject) {
	if o == nil {
		return
	}
	t := e.vm.NewTable()
	t.RawSetString("guid", lua.LNumber(o.GUID()))
	t.RawSetString("entry", lua.LNumber(o.Entry()))
	t.RawSetString("name", lua.LString(o.Name()))
	ctx.RawSetString(key, t)
}

// addSpeech gives the handler a say(text_id) function that emits scripted
// text from the creature toward the player.
func (e *Engine) addSpeech(ctx *lua.LTable, source game.WorldObject, target game.Unit) {
	ctx.RawSetString("say", e.vm.NewFunction(func(L *lua.LState) int {
		textID := int32(L.CheckNumber(1))
		e.mgr.DoScriptText(textID, source, target, 0)
		return 0
	}))
}

// callHandler invokes a boolean Lua handler. Errors log and count as not
// handled so dispatch falls through to default behavior.
func (e *Engine) callHandler(name string, fn *lua.LFunction, ctx *lua.LTable) bool {
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, ctx); err != nil {
		e.log.Error("lua hook error", zap.String("script", name), zap.Error(err))
		return false
	}
	result := e.vm.Get(-1)
	e.vm.Pop(1)
	return result == lua.LTrue
}

// callStatusHandler invokes a dialog status handler. Errors or non-number
// returns yield the undefined sentinel.
func (e *Engine) callStatusHandler(name string, fn *lua.LFunction, ctx *lua.LTable) uint32 {
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, ctx); err != nil {
		e.log.Error("lua dialog status error", zap.String("script", name), zap.Error(err))
		return script.DialogStatusUndefined
	}
	result := e.vm.Get(-1)
	e.vm.Pop(1)
	if n, ok := result.(lua.LNumber); ok {
		return uint32(n)
	}
	return script.DialogStatusUndefined
}

func luaFunc(t *lua.LTable, key string) *lua.LFunction {
	if fn, ok := t.RawGetString(key).(*lua.LFunction); ok {
		return fn
	}
	return nil
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
