package ai

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/udisondev/zombieai/internal/config"
	"github.com/udisondev/zombieai/internal/model"
	"github.com/udisondev/zombieai/internal/nav"
	"github.com/udisondev/zombieai/internal/world"
)

// openGrid returns a w x d grid of open floor with 1-unit cells at the origin.
func openGrid(t *testing.T, w, d int) *nav.Grid {
	t.Helper()
	rows := make([]string, d)
	for i := range rows {
		rows[i] = strings.Repeat(".", w)
	}
	g, err := nav.ParseGrid(rows, 1, model.Vec3{})
	require.NoError(t, err)
	return g
}

// scriptedNav is a nav.Agent whose path queries can be forced to fail.
type scriptedNav struct {
	*nav.Agent
	invalid      map[model.Vec3]bool
	destinations []model.Vec3
}

func (n *scriptedNav) CalculatePath(p model.Vec3) model.Path {
	if n.invalid[p] {
		return model.Path{Status: model.PathInvalid}
	}
	return n.Agent.CalculatePath(p)
}

func (n *scriptedNav) SetDestination(p model.Vec3) bool {
	n.destinations = append(n.destinations, p)
	return n.Agent.SetDestination(p)
}

type recordingAnimator struct {
	bools    map[string]bool
	ints     map[string][]int
	floats   map[string]float64
	triggers []string
	calls    int
	disabled bool
}

func newRecordingAnimator() *recordingAnimator {
	return &recordingAnimator{
		bools:  make(map[string]bool),
		ints:   make(map[string][]int),
		floats: make(map[string]float64),
	}
}

func (a *recordingAnimator) SetBool(name string, v bool) {
	a.calls++
	a.bools[name] = v
}

func (a *recordingAnimator) SetTrigger(name string) {
	a.calls++
	a.triggers = append(a.triggers, name)
}

func (a *recordingAnimator) SetInteger(name string, v int) {
	a.calls++
	a.ints[name] = append(a.ints[name], v)
}

func (a *recordingAnimator) SetFloat(name string, v float64) {
	a.calls++
	a.floats[name] = v
}

func (a *recordingAnimator) Disable() { a.disabled = true }

func (a *recordingAnimator) triggered(name string) bool {
	for _, t := range a.triggers {
		if t == name {
			return true
		}
	}
	return false
}

type recordingAudio struct {
	clips []string
}

func (a *recordingAudio) Play(clip string, _ float64) {
	a.clips = append(a.clips, clip)
}

func (a *recordingAudio) played(clip string) bool {
	for _, c := range a.clips {
		if c == clip {
			return true
		}
	}
	return false
}

type fakeTarget struct {
	pos    model.Vec3
	vel    model.Vec3
	dead   bool
	damage float64
	kicks  int
}

func (t *fakeTarget) Position() model.Vec3     { return t.pos }
func (t *fakeTarget) HeadPosition() model.Vec3 { return t.pos.Add(model.Vec3{0, 1.7, 0}) }
func (t *fakeTarget) Velocity() model.Vec3     { return t.vel }
func (t *fakeTarget) IsDead() bool             { return t.dead }
func (t *fakeTarget) ApplyDamage(amount float64) {
	t.damage += amount
}
func (t *fakeTarget) ApplyKickback(model.Vec3, float64) { t.kicks++ }

type fakeHealth struct{ added float64 }

func (h *fakeHealth) AddHealth(amount float64) { h.added += amount }

type fakeCollider struct{ disabled bool }

func (c *fakeCollider) Disable() { c.disabled = true }

type fixture struct {
	z        *ZombieAI
	nav      *scriptedNav
	anim     *recordingAnimator
	audio    *recordingAudio
	target   *fakeTarget
	health   *fakeHealth
	collider *fakeCollider
	registry *world.Registry
}

// testZombie returns a profile that starts awake with named sounds.
func testZombie() config.Zombie {
	cfg := config.DefaultZombie()
	cfg.SleepBehaviour = model.SleepNone
	cfg.Sounds = config.Sounds{
		Scream:     "scream",
		Eating:     "eating",
		Agonize:    "agonize",
		TakeDamage: "take_damage",
		Die:        "die",
		Idle:       []string{"idle_1", "idle_2"},
		Reaction:   []string{"reaction_1", "reaction_2"},
		Attack:     []string{"attack_1", "attack_2", "attack_3"},
	}
	return cfg
}

func newFixture(t *testing.T, grid *nav.Grid, cfg config.Zombie, pos, targetPos model.Vec3) *fixture {
	t.Helper()
	return newFixtureWithRegistry(t, grid, world.NewRegistry(), cfg, pos, targetPos)
}

func newFixtureWithRegistry(t *testing.T, grid *nav.Grid, reg *world.Registry, cfg config.Zombie, pos, targetPos model.Vec3) *fixture {
	t.Helper()

	f := &fixture{
		nav:      &scriptedNav{Agent: nav.NewAgent(grid, pos, 0), invalid: make(map[model.Vec3]bool)},
		anim:     newRecordingAnimator(),
		audio:    &recordingAudio{},
		target:   &fakeTarget{pos: targetPos},
		health:   &fakeHealth{},
		collider: &fakeCollider{},
		registry: reg,
	}

	z, err := NewZombieAI(reg.IDs().NextAgentID(), "zombie", cfg, Deps{
		Nav:         f.nav,
		Animator:    f.anim,
		Obstruction: grid,
		Target:      f.target,
		Registry:    reg,
		Audio:       f.audio,
		Health:      f.health,
		Collider:    f.collider,
		Rand:        rand.New(rand.NewPCG(1, 2)),
	})
	require.NoError(t, err)
	f.z = z
	return f
}

// step moves the navigation agent, then ticks the controller.
func (f *fixture) step(dt float64) {
	f.nav.Step(dt)
	f.z.Tick(dt)
}

// run steps n ticks of dt and returns every distinct state seen in order.
func (f *fixture) run(n int, dt float64) []model.State {
	seen := []model.State{f.z.CurrentState()}
	for range n {
		f.step(dt)
		if s := f.z.CurrentState(); s != seen[len(seen)-1] {
			seen = append(seen, s)
		}
	}
	return seen
}
