package storage

import (
	"bufio"
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/crypto/blake2b"

	"github.com/udisondev/zombieai/internal/model"
)

const snapshotVersion = 1

// ErrSnapshotCorrupt is returned when the snapshot body does not match the
// digest in its header.
var ErrSnapshotCorrupt = errors.New("snapshot digest mismatch")

// snapshotHeader is the first line of the decompressed stream.
type snapshotHeader struct {
	Version int    `json:"version"`
	Count   int    `json:"count"`
	Digest  string `json:"blake2b_256"`
}

// SnapshotStore keeps all agent records in memory and writes them through to
// a single zstd-compressed file on every save. The body is a JSON object
// keyed by agent ID, preceded by a header line with its blake2b-256 digest.
type SnapshotStore struct {
	path string

	mu     sync.Mutex
	states map[string]model.AgentState
}

// OpenSnapshotStore loads the snapshot at path. A missing file yields an
// empty store; the file is created on the first save.
func OpenSnapshotStore(path string) (*SnapshotStore, error) {
	s := &SnapshotStore{
		path:   path,
		states: make(map[string]model.AgentState),
	}

	states, err := readSnapshot(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			slog.Info("no snapshot found, starting empty", "path", path)
			return s, nil
		}
		return nil, fmt.Errorf("reading snapshot %s: %w", path, err)
	}

	s.states = states
	slog.Info("snapshot loaded", "path", path, "agents", len(states))
	return s, nil
}

// SaveAgentState stores one record and rewrites the file.
func (s *SnapshotStore) SaveAgentState(_ context.Context, id string, state model.AgentState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.states[id] = state
	if err := s.writeLocked(); err != nil {
		return fmt.Errorf("saving state of agent %s: %w", id, err)
	}
	return nil
}

// SaveAgentStates stores many records with a single file rewrite.
func (s *SnapshotStore) SaveAgentStates(_ context.Context, states map[string]model.AgentState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, st := range states {
		s.states[id] = st
	}
	if err := s.writeLocked(); err != nil {
		return fmt.Errorf("saving %d agent states: %w", len(states), err)
	}
	return nil
}

// LoadAgentState returns the in-memory record of one agent.
func (s *SnapshotStore) LoadAgentState(_ context.Context, id string) (model.AgentState, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.states[id]
	return st, ok, nil
}

// Len returns the number of stored records.
func (s *SnapshotStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.states)
}

// writeLocked replaces the file atomically: temp file in the same
// directory, then rename.
func (s *SnapshotStore) writeLocked() error {
	body, err := json.Marshal(s.states)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	sum := blake2b.Sum256(body)
	header, err := json.Marshal(snapshotHeader{
		Version: snapshotVersion,
		Count:   len(s.states),
		Digest:  hex.EncodeToString(sum[:]),
	})
	if err != nil {
		return fmt.Errorf("encoding snapshot header: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	enc, err := zstd.NewWriter(tmp, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		tmp.Close()
		return err
	}
	if err := writeSnapshotBody(enc, header, body); err != nil {
		enc.Close()
		tmp.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		tmp.Close()
		return fmt.Errorf("compressing snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replacing snapshot: %w", err)
	}

	slog.Debug("snapshot written", "path", s.path, "agents", len(s.states))
	return nil
}

func writeSnapshotBody(w io.Writer, header, body []byte) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.Write(header); err != nil {
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}
	if _, err := bw.Write(body); err != nil {
		return err
	}
	return bw.Flush()
}

func readSnapshot(path string) (map[string]model.AgentState, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("decompressing: %w", err)
	}

	line, body, ok := bytes.Cut(raw, []byte{'\n'})
	if !ok {
		return nil, fmt.Errorf("missing header line: %w", ErrSnapshotCorrupt)
	}
	var header snapshotHeader
	if err := json.Unmarshal(line, &header); err != nil {
		return nil, fmt.Errorf("decoding header: %w", err)
	}
	if header.Version != snapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", header.Version)
	}

	sum := blake2b.Sum256(body)
	if hex.EncodeToString(sum[:]) != header.Digest {
		return nil, ErrSnapshotCorrupt
	}

	states := make(map[string]model.AgentState, header.Count)
	if err := json.Unmarshal(body, &states); err != nil {
		return nil, fmt.Errorf("decoding body: %w", err)
	}
	return states, nil
}
