package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/worldscript/server/internal/config"
	"github.com/worldscript/server/internal/data"
	"github.com/worldscript/server/internal/persist"
	"github.com/worldscript/server/internal/script"
	"github.com/worldscript/server/internal/scripting"
	"github.com/worldscript/server/internal/scripts"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(serverName string, serverID int) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m           worldscriptd  v0.1.0            \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m      data-driven world script engine      \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mserver:\033[0m %s \033[90m(id: %d)\033[0m\n\n", serverName, serverID)
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main server logic ─────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/server.toml"
	if p := os.Getenv("WORLDSCRIPT_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Server.Name, cfg.Server.ID)

	// 3. Connect to PostgreSQL and run migrations
	printSection("database")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := persist.NewDB(ctx, cfg.Database, log)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer db.Close()
	printOK("PostgreSQL connected")

	if err := persist.RunMigrations(ctx, db.Pool); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	printOK("migrations applied")
	fmt.Println()

	// 4. Load content catalogs
	printSection("content catalogs")

	store, err := data.LoadStore(cfg.Data.Dir)
	if err != nil {
		return fmt.Errorf("load catalogs: %w", err)
	}
	printStat("creature templates", store.Creatures.Count())
	printStat("creature spawns", store.Creatures.SpawnCount())
	printStat("gameobject templates", store.GameObjects.Count())
	printStat("gameobject spawns", store.GameObjects.SpawnCount())
	printStat("item templates", store.Items.Count())
	printStat("quests", store.Quests.Count())
	printStat("spells", store.Spells.Count())
	printStat("maps", store.Maps.Count())
	printStat("area triggers", store.AreaTriggers.Count())
	fmt.Println()

	// 5. Load the script engine tables
	printSection("script engine")

	mgr := script.NewMgr(log, store)
	if err := mgr.LoadScriptNames(ctx, db.Pool); err != nil {
		return fmt.Errorf("script names: %w", err)
	}
	printStat("script names", mgr.NameCount()-1)

	if err := mgr.LoadScriptTexts(ctx, db.Pool); err != nil {
		return fmt.Errorf("script texts: %w", err)
	}
	if err := mgr.LoadGossipTexts(ctx, db.Pool); err != nil {
		return fmt.Errorf("gossip texts: %w", err)
	}
	if err := mgr.LoadCustomTexts(ctx, db.Pool); err != nil {
		return fmt.Errorf("custom texts: %w", err)
	}
	printOK("text tables loaded")

	type tableLoad struct {
		name string
		load func(context.Context, script.Querier) error
		tbl  *script.ScriptTable
	}
	for _, tl := range []tableLoad{
		{"gameobject scripts", mgr.LoadGameObjectScripts, mgr.GameObjectScripts()},
		{"quest end scripts", mgr.LoadQuestEndScripts, mgr.QuestEndScripts()},
		{"quest start scripts", mgr.LoadQuestStartScripts, mgr.QuestStartScripts()},
		{"spell scripts", mgr.LoadSpellScripts, mgr.SpellScripts()},
		{"creature spells scripts", mgr.LoadCreatureSpellsScripts, mgr.CreatureSpellsScripts()},
		{"event scripts", mgr.LoadEventScripts, mgr.EventScripts()},
		{"gossip scripts", mgr.LoadGossipScripts, mgr.GossipScripts()},
		{"creature movement scripts", mgr.LoadCreatureMovementScripts, mgr.CreatureMovementScripts()},
	} {
		if err := tl.load(ctx, db.Pool); err != nil {
			return fmt.Errorf("%s: %w", tl.name, err)
		}
		printStat(tl.name, tl.tbl.Len())
	}
	mgr.CheckAllScriptTexts()

	if err := mgr.LoadAreaTriggerScripts(ctx, db.Pool); err != nil {
		return fmt.Errorf("area trigger scripts: %w", err)
	}
	if err := mgr.LoadEventIdScripts(ctx, db.Pool); err != nil {
		return fmt.Errorf("event id scripts: %w", err)
	}
	if err := mgr.LoadScriptWaypoints(ctx, db.Pool); err != nil {
		return fmt.Errorf("script waypoints: %w", err)
	}
	if err := mgr.LoadEscortData(ctx, db.Pool); err != nil {
		return fmt.Errorf("escort data: %w", err)
	}
	printOK("script data loaded")
	fmt.Println()

	// 6. Register hook bundles: compiled-in first, then Lua providers
	printSection("hook bundles")

	scripts.RegisterAll(mgr)

	if cfg.Scripting.Enabled {
		luaEngine, err := scripting.NewEngine(cfg.Scripting.Dir, mgr, log)
		if err != nil {
			return fmt.Errorf("lua engine: %w", err)
		}
		defer luaEngine.Close()
		printOK("lua bundles loaded")
	}

	mgr.CheckRegistry()
	printStat("registered bundles", mgr.RegisteredCount())
	fmt.Println()

	// 7. Run the tick loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.World.TickRate)
	defer ticker.Stop()

	printSection("server ready")
	printReady(fmt.Sprintf("tick loop started (tick: %s)", cfg.World.TickRate))
	fmt.Println()

	diffMs := uint32(cfg.World.TickRate / time.Millisecond)
	for {
		select {
		case <-ticker.C:
			mgr.Update(diffMs)
		case sig := <-shutdownCh:
			log.Info("shutdown signal received", zap.String("signal", sig.String()))
			log.Info("server stopped",
				zap.Int64("queued steps dropped", mgr.ScheduledSteps()))
			return nil
		}
	}
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
