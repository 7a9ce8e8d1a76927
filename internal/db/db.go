// Package db is the PostgreSQL sink for agent save records.
package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/zombieai/internal/config"
)

// DB owns the pgx pool the agent state repository runs on.
type DB struct {
	pool *pgxpool.Pool
}

// New opens a pool sized by cfg and checks it within cfg.ConnectTimeout.
func New(ctx context.Context, cfg config.DatabaseConfig) (*DB, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	pingCtx := ctx
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database %s:%d: %w", cfg.Host, cfg.Port, err)
	}

	slog.Info("database connected", "host", cfg.Host, "db", cfg.DBName, "maxConns", poolCfg.MaxConns)
	return &DB{pool: pool}, nil
}

// Close closes the pool.
func (d *DB) Close() {
	d.pool.Close()
}

// AgentStates returns the agent state repository over this pool.
func (d *DB) AgentStates() *AgentStateRepository {
	return NewAgentStateRepository(d.pool)
}
