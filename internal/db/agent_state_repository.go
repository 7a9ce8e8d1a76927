package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/zombieai/internal/model"
)

const upsertAgentState = `
	INSERT INTO npc_states (id, state, dead, updated_at)
	VALUES ($1, $2, $3, now())
	ON CONFLICT (id) DO UPDATE SET
		state = EXCLUDED.state,
		dead = EXCLUDED.dead,
		updated_at = now()`

// AgentStateRepository stores agent save records as JSONB rows keyed by
// the agent's stable ID.
type AgentStateRepository struct {
	pool *pgxpool.Pool
}

// NewAgentStateRepository creates a new agent state repository.
func NewAgentStateRepository(pool *pgxpool.Pool) *AgentStateRepository {
	return &AgentStateRepository{pool: pool}
}

// SaveAgentState inserts or replaces the record of one agent.
func (r *AgentStateRepository) SaveAgentState(ctx context.Context, id string, state model.AgentState) error {
	if _, err := r.pool.Exec(ctx, upsertAgentState, id, state, state.Dead); err != nil {
		return fmt.Errorf("saving state of agent %s: %w", id, err)
	}
	return nil
}

// SaveAgentStates writes many records in one transaction.
func (r *AgentStateRepository) SaveAgentStates(ctx context.Context, states map[string]model.AgentState) error {
	if len(states) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			slog.Error("rollback failed", "error", err)
		}
	}()

	batch := &pgx.Batch{}
	for id, st := range states {
		batch.Queue(upsertAgentState, id, st, st.Dead)
	}
	br := tx.SendBatch(ctx, batch)
	for range states {
		if _, err := br.Exec(); err != nil {
			br.Close() //nolint:errcheck
			return fmt.Errorf("saving agent state batch: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("closing agent state batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit agent states: %w", err)
	}
	return nil
}

// LoadAgentState returns the record of one agent. found is false when the
// agent has never been saved.
func (r *AgentStateRepository) LoadAgentState(ctx context.Context, id string) (model.AgentState, bool, error) {
	var st model.AgentState
	err := r.pool.QueryRow(ctx, `SELECT state FROM npc_states WHERE id = $1`, id).Scan(&st)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.AgentState{}, false, nil
	}
	if err != nil {
		return model.AgentState{}, false, fmt.Errorf("loading state of agent %s: %w", id, err)
	}
	return st, true, nil
}

// DeleteAgentState removes the record of one agent.
func (r *AgentStateRepository) DeleteAgentState(ctx context.Context, id string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM npc_states WHERE id = $1`, id); err != nil {
		return fmt.Errorf("deleting state of agent %s: %w", id, err)
	}
	return nil
}
