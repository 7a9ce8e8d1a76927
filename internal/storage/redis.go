// Package storage holds agent state sinks that live outside PostgreSQL:
// a Redis keyspace and a compressed snapshot file.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/udisondev/zombieai/internal/config"
	"github.com/udisondev/zombieai/internal/model"
)

// RedisStore keeps one JSON value per agent under KeyPrefix+id.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, cfg config.RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", cfg.Addr, err)
	}

	slog.Info("connected to redis", "addr", cfg.Addr, "db", cfg.DB)
	return NewRedisStoreFromClient(client, cfg.KeyPrefix, cfg.TTL), nil
}

// NewRedisStoreFromClient wraps an existing client. ttl == 0 keeps records forever.
func NewRedisStoreFromClient(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *RedisStore) key(id string) string {
	return s.prefix + id
}

// SaveAgentState writes the record of one agent.
func (s *RedisStore) SaveAgentState(ctx context.Context, id string, state model.AgentState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encoding state of agent %s: %w", id, err)
	}
	if err := s.client.Set(ctx, s.key(id), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("saving state of agent %s: %w", id, err)
	}
	slog.Debug("agent state saved to redis", "key", s.key(id))
	return nil
}

// SaveAgentStates writes many records in one pipeline round trip.
func (s *RedisStore) SaveAgentStates(ctx context.Context, states map[string]model.AgentState) error {
	if len(states) == 0 {
		return nil
	}

	pipe := s.client.Pipeline()
	for id, st := range states {
		data, err := json.Marshal(st)
		if err != nil {
			return fmt.Errorf("encoding state of agent %s: %w", id, err)
		}
		pipe.Set(ctx, s.key(id), data, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("saving %d agent states: %w", len(states), err)
	}
	slog.Debug("agent states saved to redis", "count", len(states))
	return nil
}

// LoadAgentState reads the record of one agent. found is false when the key
// is absent or expired.
func (s *RedisStore) LoadAgentState(ctx context.Context, id string) (model.AgentState, bool, error) {
	var state model.AgentState

	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return state, false, nil
	}
	if err != nil {
		return state, false, fmt.Errorf("loading state of agent %s: %w", id, err)
	}

	if err := json.Unmarshal(data, &state); err != nil {
		return state, false, fmt.Errorf("decoding state of agent %s: %w", id, err)
	}
	return state, true, nil
}

// DeleteAgentState removes the record of one agent. Missing keys are not an error.
func (s *RedisStore) DeleteAgentState(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("deleting state of agent %s: %w", id, err)
	}
	return nil
}

// Close closes the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
