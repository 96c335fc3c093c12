package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/quarry2d/quarry/internal/config"
	coresys "github.com/quarry2d/quarry/internal/core/system"
	"github.com/quarry2d/quarry/internal/data"
	"github.com/quarry2d/quarry/internal/persist"
	"github.com/quarry2d/quarry/internal/physics"
	"github.com/quarry2d/quarry/internal/scene"
	"github.com/quarry2d/quarry/internal/scripting"
	"github.com/quarry2d/quarry/internal/system"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config
	cfgPath := "config/quarry.toml"
	if p := os.Getenv("QUARRY_CONFIG"); p != "" {
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

	log.Info("starting quarry",
		zap.String("name", cfg.Server.Name),
		zap.Float64("fixed_timestep", cfg.Simulation.FixedTimestep),
		zap.Duration("tick_rate", cfg.Simulation.TickRate))

	// 3. Build the scene
	physCfg := physicsConfig(cfg.Simulation)
	sc := scene.New(physCfg, log)

	sceneDef, err := data.LoadScene(cfg.Server.ScenePath)
	if err != nil {
		return fmt.Errorf("load scene: %w", err)
	}
	sc.Populate(sceneDef)
	log.Info("scene populated",
		zap.String("scene", sceneDef.Name),
		zap.Int("entities", len(sceneDef.Entities)))

	// 4. Lua collision hooks
	luaEngine, err := scripting.NewEngine(cfg.Server.ScriptsDir, sc, log)
	if err != nil {
		return fmt.Errorf("lua engine: %w", err)
	}
	defer luaEngine.Close()
	sc.SetCollisionCallback(luaEngine.CollisionCallback())

	// 5. Systems
	runner := coresys.NewRunner()
	runner.Register(system.NewEventDispatchSystem(sc.Bus()))
	runner.Register(system.NewPhysicsSystem(sc))

	// 6. Optional contact audit log in PostgreSQL
	var recorder *system.RecorderSystem
	if cfg.Database.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		db, err := persist.NewDB(ctx, cfg.Database, log)
		if err != nil {
			cancel()
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		if err := persist.RunMigrations(ctx, db.Pool); err != nil {
			cancel()
			return fmt.Errorf("migrations: %w", err)
		}
		cancel()

		repo := persist.NewContactLogRepo(db)
		recorder = system.NewRecorderSystem(sc.Bus(), repo, sceneDef.Name, cfg.Database.FlushTicks, log)
		runner.Register(recorder)
		log.Info("contact recording enabled", zap.Int("flush_ticks", cfg.Database.FlushTicks))
	}

	// 7. Run
	sc.Play()

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Simulation.TickRate)
	defer ticker.Stop()

	log.Info("simulation loop started")
	for {
		select {
		case <-ticker.C:
			runner.Tick(cfg.Simulation.TickRate)
		case sig := <-shutdownCh:
			log.Info("shutdown signal", zap.String("signal", sig.String()))
			if recorder != nil {
				recorder.Flush()
			}
			sc.Stop()
			log.Info("stopped")
			return nil
		}
	}
}

func physicsConfig(sim config.SimulationConfig) physics.Config {
	cfg := physics.DefaultConfig()
	if sim.FixedTimestep > 0 {
		cfg.FixedTimestep = sim.FixedTimestep
	}
	if sim.MaxStepsPerFrame > 0 {
		cfg.MaxStepsPerFrame = sim.MaxStepsPerFrame
	}
	cfg.Interpolation = sim.Interpolation
	if sim.VelocityIterations > 0 {
		cfg.VelocityIterations = sim.VelocityIterations
	}
	if sim.PositionIterations > 0 {
		cfg.PositionIterations = sim.PositionIterations
	}
	return cfg
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
