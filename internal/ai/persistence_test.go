package ai

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/zombieai/internal/model"
)

type memStore struct {
	states map[string]model.AgentState
	err    error
}

func newMemStore() *memStore {
	return &memStore{states: make(map[string]model.AgentState)}
}

func (s *memStore) SaveAgentState(_ context.Context, id string, st model.AgentState) error {
	if s.err != nil {
		return s.err
	}
	s.states[id] = st
	return nil
}

func (s *memStore) LoadAgentState(_ context.Context, id string) (model.AgentState, bool, error) {
	if s.err != nil {
		return model.AgentState{}, false, s.err
	}
	st, ok := s.states[id]
	return st, ok, nil
}

func sampleRecord() model.AgentState {
	return model.AgentState{
		Position:  model.Vec3{5.5, 0, 7.5},
		Yaw:       90,
		Sleep:     model.SleepNone,
		Primary:   model.PrimaryPatrol,
		Secondary: model.SecondaryReaction,
		Trigger:   model.ReactionSound,
		Reaction: model.Reaction{
			Distance: 12,
			Angle:    -45,
			Position: model.Vec3{1.5, 0, 2.5},
		},
		HungerPoints:    12.5,
		AgonyTime:       3.25,
		LastWaypointPos: model.Vec3{8.5, 0, 8.5},
		LastChasePos:    model.Vec3{2.5, 0, 9.5},
		CanContinue:     true,
		CanScream:       false,
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	rec := sampleRecord()

	data, err := json.Marshal(rec)
	require.NoError(t, err)
	var decoded model.AgentState
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, rec, decoded)

	f := newFixture(t, openGrid(t, 12, 12), testZombie(), model.Vec3{1.5, 0, 1.5}, model.Vec3{})
	f.z.Load(decoded)

	assert.Equal(t, rec, f.z.Save())
	assert.True(t, f.z.agonyWait)
	assert.True(t, f.z.reactionPending)
	assert.False(t, f.z.secondaryPending)

	f.z.Start()
	assert.False(t, f.z.canReact, "pending reaction stays armed after start")
	assert.False(t, f.z.canScream, "cooldown state kept")
}

func TestSaveLoad_ReplaysReactionResolution(t *testing.T) {
	rec := sampleRecord()
	rec.Reaction.Distance = 5 // close sound
	cfg := testZombie()
	cfg.TargetInvisible = true
	f := newFixture(t, openGrid(t, 12, 12), cfg, model.Vec3{1.5, 0, 1.5}, model.Vec3{})
	f.z.Load(rec)
	f.z.Start()

	for i := 0; i < 80 && f.z.CurrentState().Reaction != model.ReactionNone; i++ {
		f.step(0.25)
	}
	assert.Equal(t, model.ReactionNone, f.z.CurrentState().Reaction)
	assert.True(t, f.z.canReact)
}

func TestLoad_NormalizesBrokenLayers(t *testing.T) {
	rec := sampleRecord()
	rec.Secondary = model.SecondaryNormal // trigger without overlay

	f := newFixture(t, openGrid(t, 12, 12), testZombie(), model.Vec3{1.5, 0, 1.5}, model.Vec3{})
	f.z.Load(rec)

	assert.True(t, f.z.CurrentState().Valid())
	assert.Equal(t, model.ReactionNone, f.z.CurrentState().Reaction)
	assert.True(t, f.z.Reaction().IsZero())
	assert.False(t, f.z.reactionPending)
}

func TestLoad_DeadRecordDeactivatesSilently(t *testing.T) {
	rec := sampleRecord()
	rec.Dead = true
	rec.Position = model.Vec3{50, 0, 50} // off the grid is fine for a corpse

	f := newFixture(t, openGrid(t, 12, 12), testZombie(), model.Vec3{1.5, 0, 1.5}, model.Vec3{})
	f.z.Load(rec)

	assert.True(t, f.z.IsDead())
	assert.False(t, f.nav.Enabled())
	assert.True(t, f.anim.disabled)
	assert.True(t, f.collider.disabled)
	assert.Zero(t, f.anim.calls, "no transitional animation")
	assert.Empty(t, f.audio.clips, "no death sound")

	f.z.Start()
	f.run(10, 0.25)
	assert.Zero(t, f.anim.calls)
	assert.Equal(t, rec, f.z.Save())
}

func TestLoad_UnreachablePositionKeepsSpawn(t *testing.T) {
	rec := sampleRecord()
	rec.Position = model.Vec3{50, 0, 50}

	f := newFixture(t, openGrid(t, 12, 12), testZombie(), model.Vec3{1.5, 0, 1.5}, model.Vec3{})
	f.z.Load(rec)

	assert.Equal(t, model.Vec3{1.5, 0, 1.5}, f.z.Position())
}

func TestSaveAllRestoreAll(t *testing.T) {
	ctx := context.Background()
	grid := openGrid(t, 12, 12)
	store := newMemStore()

	a := newFixture(t, grid, testZombie(), model.Vec3{1.5, 0, 1.5}, model.Vec3{})
	a.z.Load(sampleRecord())
	a.z.key = "a"
	b := newFixture(t, grid, testZombie(), model.Vec3{3.5, 0, 3.5}, model.Vec3{})
	b.z.key = "b"

	require.NoError(t, SaveAll(ctx, store, []*ZombieAI{a.z}))
	require.Contains(t, store.states, "a")

	fresh := newFixture(t, grid, testZombie(), model.Vec3{1.5, 0, 1.5}, model.Vec3{})
	fresh.z.key = "a"
	n, err := RestoreAll(ctx, store, []*ZombieAI{fresh.z, b.z})
	require.NoError(t, err)
	assert.Equal(t, 1, n, "b has no record")
	assert.Equal(t, sampleRecord(), fresh.z.Save())
	assert.False(t, b.z.loaded)
}

func TestSaveAllRestoreAll_WrapsErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	store := newMemStore()
	store.err = boom

	f := newFixture(t, openGrid(t, 4, 4), testZombie(), model.Vec3{1.5, 0, 1.5}, model.Vec3{})

	err := SaveAll(ctx, store, []*ZombieAI{f.z})
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "saving agent zombie")

	_, err = RestoreAll(ctx, store, []*ZombieAI{f.z})
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "loading agent zombie")
}

type batchStore struct {
	*memStore
	batches int
}

func (s *batchStore) SaveAgentStates(_ context.Context, states map[string]model.AgentState) error {
	s.batches++
	for id, st := range states {
		s.states[id] = st
	}
	return nil
}

func TestSaveAll_UsesBatch(t *testing.T) {
	grid := openGrid(t, 8, 8)
	store := &batchStore{memStore: newMemStore()}

	var agents []*ZombieAI
	for i, key := range []string{"a", "b", "c"} {
		f := newFixture(t, grid, testZombie(), model.Vec3{1.5 + float64(i), 0, 1.5}, model.Vec3{})
		f.z.key = key
		agents = append(agents, f.z)
	}

	require.NoError(t, SaveAll(context.Background(), store, agents))
	assert.Equal(t, 1, store.batches)
	assert.Len(t, store.states, 3)
	assert.Equal(t, model.Vec3{2.5, 0, 1.5}, store.states["b"].Position)
}
