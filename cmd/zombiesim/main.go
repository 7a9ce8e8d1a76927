package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/zombieai/internal/ai"
	"github.com/udisondev/zombieai/internal/config"
	"github.com/udisondev/zombieai/internal/db"
	"github.com/udisondev/zombieai/internal/sim"
	"github.com/udisondev/zombieai/internal/storage"
)

const (
	SimConfigPath = "config/zombiesim.yaml"

	saveTimeout = 10 * time.Second
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfgPath := SimConfigPath
	if p := os.Getenv("ZOMBIEAI_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadSimulation(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := parseLogLevel(cfg.LogLevel)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})))
	ai.EnableDebugLogging(logLevel == slog.LevelDebug)

	slog.Info("zombiesim starting",
		"log_level", cfg.LogLevel,
		"scenario", cfg.ScenarioPath,
		"storage", cfg.Storage.Driver)

	scenario, err := config.LoadScenario(cfg.ScenarioPath)
	if err != nil {
		return fmt.Errorf("loading scenario: %w", err)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	scene, err := sim.NewScene(scenario, cfg.Zombie, seed)
	if err != nil {
		return fmt.Errorf("building scene: %w", err)
	}
	slog.Info("scene ready", "seed", seed)

	store, closeStore, err := openStore(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("opening %s storage: %w", cfg.Storage.Driver, err)
	}
	defer closeStore()

	agents := scene.Controllers()
	if store != nil {
		restored, err := ai.RestoreAll(ctx, store, agents)
		if err != nil {
			return fmt.Errorf("restoring agents: %w", err)
		}
		slog.Info("agent state restored", "restored", restored, "agents", len(agents))
	}

	mgr := ai.NewTickManager(cfg.TickInterval, cfg.TimeScale)
	scene.Attach(mgr)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := mgr.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("tick manager: %w", err)
		}
		return nil
	})

	if cfg.Duration > 0 {
		g.Go(func() error {
			ticker := time.NewTicker(cfg.TickInterval)
			defer ticker.Stop()
			for {
				select {
				case <-gctx.Done():
					return nil
				case <-ticker.C:
					if mgr.Elapsed() >= cfg.Duration {
						slog.Info("simulated duration reached", "duration", cfg.Duration)
						mgr.Stop()
						return nil
					}
				}
			}
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("simulation error: %w", err)
	}

	slog.Info("simulation stopped", "elapsed", mgr.Elapsed())
	scene.LogSummary()
	scene.Detach(mgr)

	if store != nil {
		// the run context may already be cancelled by a signal
		saveCtx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		if err := ai.SaveAll(saveCtx, store, agents); err != nil {
			return fmt.Errorf("saving agents: %w", err)
		}
		slog.Info("agent state saved", "agents", len(agents))
	}

	return nil
}

// openStore opens the configured state sink. A nil store means
// persistence is disabled.
func openStore(ctx context.Context, cfg config.Storage) (ai.StateStore, func(), error) {
	noop := func() {}

	switch cfg.Driver {
	case config.DriverNone:
		return nil, noop, nil

	case config.DriverPostgres:
		database, err := db.New(ctx, cfg.Database)
		if err != nil {
			return nil, noop, err
		}
		if err := db.RunMigrations(ctx, cfg.Database.DSN()); err != nil {
			database.Close()
			return nil, noop, fmt.Errorf("running migrations: %w", err)
		}
		return database.AgentStates(), database.Close, nil

	case config.DriverRedis:
		rs, err := storage.NewRedisStore(ctx, cfg.Redis)
		if err != nil {
			return nil, noop, err
		}
		return rs, func() {
			if err := rs.Close(); err != nil {
				slog.Error("closing redis", "err", err)
			}
		}, nil

	case config.DriverSnapshot:
		ss, err := storage.OpenSnapshotStore(cfg.SnapshotPath)
		if err != nil {
			return nil, noop, err
		}
		return ss, noop, nil
	}

	return nil, noop, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}

// parseLogLevel converts string log level to slog.Level.
// Defaults to Info if invalid or empty.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
