package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/zombieai/internal/model"
	"github.com/udisondev/zombieai/internal/nav"
	"github.com/udisondev/zombieai/internal/world"
)

func TestNewZombieAI_RequiresDeps(t *testing.T) {
	grid := openGrid(t, 4, 4)
	reg := world.NewRegistry()
	full := func() Deps {
		return Deps{
			Nav:         nav.NewAgent(grid, model.Vec3{1.5, 0, 1.5}, 1),
			Animator:    newRecordingAnimator(),
			Obstruction: grid,
			Target:      &fakeTarget{},
			Registry:    reg,
		}
	}

	tests := []struct {
		name   string
		id     uint32
		mutate func(*Deps)
	}{
		{"zero object id", 0, func(*Deps) {}},
		{"no nav", 1, func(d *Deps) { d.Nav = nil }},
		{"no animator", 1, func(d *Deps) { d.Animator = nil }},
		{"no obstruction", 1, func(d *Deps) { d.Obstruction = nil }},
		{"no target", 1, func(d *Deps) { d.Target = nil }},
		{"no registry", 1, func(d *Deps) { d.Registry = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := full()
			tt.mutate(&d)
			_, err := NewZombieAI(tt.id, "z", testZombie(), d)
			assert.Error(t, err)
		})
	}

	z, err := NewZombieAI(1, "z", testZombie(), full())
	require.NoError(t, err)
	assert.Equal(t, model.State{Primary: model.PrimaryIdle, Secondary: model.SecondaryNormal}, z.CurrentState())
}

func TestSetAgentDestination_KeepsLastCorrect(t *testing.T) {
	grid := openGrid(t, 20, 20)
	f := newFixture(t, grid, testZombie(), model.Vec3{5.5, 0, 5.5}, model.Vec3{19.5, 0, 19.5})

	bad := model.Vec3{12.5, 0, 5.5}
	f.nav.invalid[bad] = true

	f.z.setAgentDestination(bad, false)
	assert.Empty(t, f.nav.destinations, "no destination before the first valid one")
	_, ok := f.z.LastCorrectDestination()
	assert.False(t, ok)

	for _, p := range []model.Vec3{{8.5, 0, 5.5}, {5.5, 0, 9.5}, {14.5, 0, 14.5}} {
		f.z.setAgentDestination(p, false)
		last, ok := f.z.LastCorrectDestination()
		require.True(t, ok)
		assert.Equal(t, p, last)
		assert.Equal(t, p, f.nav.destinations[len(f.nav.destinations)-1])

		f.z.setAgentDestination(bad, false)
		last, _ = f.z.LastCorrectDestination()
		assert.Equal(t, p, last, "failed query must not change the last correct destination")
		assert.Equal(t, p, f.nav.destinations[len(f.nav.destinations)-1], "agent keeps steering to %v", p)
		assert.Equal(t, p, f.nav.Destination())
	}
}

func TestAttack_NeverRepeatsIndex(t *testing.T) {
	grid := openGrid(t, 10, 10)
	f := newFixture(t, grid, testZombie(), model.Vec3{5.5, 0, 5.5}, model.Vec3{5.5, 0, 7.5})

	for range 500 {
		f.z.attack()
	}

	seq := f.anim.ints[SignalAttackState]
	require.Len(t, seq, 500)
	used := make(map[int]bool)
	for i, v := range seq {
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, f.z.cfg.AttackAnimations)
		if i > 0 {
			require.NotEqual(t, seq[i-1], v, "attack %d repeats the previous index", i)
		}
		used[v] = true
	}
	assert.Len(t, used, f.z.cfg.AttackAnimations)
	assert.False(t, f.z.canAttack)

	f.z.OnStateEnter(0.5, StateAttackIdle)
	assert.True(t, f.z.canAttack)
}

func TestAttack_SingleAnimation(t *testing.T) {
	cfg := testZombie()
	cfg.AttackAnimations = 1
	f := newFixture(t, openGrid(t, 10, 10), cfg, model.Vec3{5.5, 0, 5.5}, model.Vec3{5.5, 0, 7.5})

	for range 10 {
		f.z.attack()
	}
	for _, v := range f.anim.ints[SignalAttackState] {
		assert.Equal(t, 0, v)
	}
}

func TestRandomUnique(t *testing.T) {
	f := newFixture(t, openGrid(t, 4, 4), testZombie(), model.Vec3{1.5, 0, 1.5}, model.Vec3{})

	tests := []struct {
		name       string
		lo, hi     int
		last       int
		wantFixed  bool
		wantResult int
	}{
		{"empty range", 3, 3, -1, true, 3},
		{"single value", 2, 3, 2, true, 2},
		{"last outside range", 0, 5, -1, false, 0},
		{"two values alternate", 0, 2, 0, true, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for range 50 {
				got := f.z.randomUnique(tt.lo, tt.hi, tt.last)
				if tt.wantFixed {
					assert.Equal(t, tt.wantResult, got)
					continue
				}
				assert.GreaterOrEqual(t, got, tt.lo)
				assert.Less(t, got, tt.hi)
			}
		})
	}
}

func TestPlaySoundRandom_NeverRepeats(t *testing.T) {
	f := newFixture(t, openGrid(t, 4, 4), testZombie(), model.Vec3{1.5, 0, 1.5}, model.Vec3{})

	for range 20 {
		f.z.playSoundRandom(f.z.cfg.Sounds.Idle, 1)
	}
	for i := 1; i < len(f.audio.clips); i++ {
		assert.NotEqual(t, f.audio.clips[i-1], f.audio.clips[i])
	}

	f.audio.clips = nil
	f.z.playSound("", 1)
	f.z.playSoundRandom(nil, 1)
	assert.Empty(t, f.audio.clips)
}

func TestStart_NoSurfaceHolds(t *testing.T) {
	grid, err := nav.ParseGrid([]string{
		"....",
		".#..",
		"....",
	}, 1, model.Vec3{})
	require.NoError(t, err)

	f := newFixture(t, grid, testZombie(), model.Vec3{1.5, 0, 1.5}, model.Vec3{1.5, 0, 2.5})
	f.z.Start()
	f.run(10, 0.25)

	assert.True(t, f.z.noSurface)
	assert.Equal(t, model.PrimaryIdle, f.z.CurrentState().Primary)
	assert.Empty(t, f.nav.destinations)
}

func TestSleep_WakesWhenTargetNear(t *testing.T) {
	cfg := testZombie()
	cfg.SleepBehaviour = model.SleepStandUpBack
	f := newFixture(t, openGrid(t, 30, 30), cfg, model.Vec3{5.5, 0, 5.5}, model.Vec3{5.5, 0, 28.5})

	f.z.Start()
	f.run(4, 0.25)

	assert.Equal(t, []int{int(model.SleepStandUpBack)}, f.anim.ints[SignalIdleState])
	assert.True(t, f.anim.bools[SignalIdle])
	assert.Equal(t, model.SleepStandUpBack, f.z.Sleep())

	f.target.pos = model.Vec3{5.5, 0, 12.5}
	f.step(0.25)

	assert.Equal(t, model.SleepNone, f.z.Sleep())
	idle := f.anim.ints[SignalIdleState]
	assert.Equal(t, int(model.SleepNone), idle[len(idle)-1])
	assert.False(t, f.anim.bools[SignalIdle])
	assert.NotEmpty(t, f.audio.clips, "wake plays a reaction sound")
}

// Target in view at distance 8, sights range 15, scream ready:
// IDLE -> CHASE through a one-shot scream, then continuous pursuit.
func TestScenario_ScreamBeforeChase(t *testing.T) {
	f := newFixture(t, openGrid(t, 30, 30), testZombie(), model.Vec3{10.5, 0, 10.5}, model.Vec3{10.5, 0, 18.5})
	require.Equal(t, 15.0, f.z.cfg.SightsDistance)
	require.True(t, f.z.cfg.EnableScream)

	f.z.Start()
	f.step(0.25)

	assert.Equal(t, model.State{Primary: model.PrimaryChase, Secondary: model.SecondaryScream}, f.z.CurrentState())
	assert.True(t, f.audio.played("scream"))
	assert.True(t, f.anim.bools[SignalScream])
	assert.True(t, f.nav.IsStopped(), "agent holds while screaming")
	assert.False(t, f.z.canScream)

	// animator reports the scream clip
	f.z.OnStateEnter(2.0, StateScream)

	states := f.run(7, 0.25)
	assert.Len(t, states, 1, "still screaming before the clip ends")
	assert.Equal(t, model.SecondaryScream, f.z.CurrentState().Secondary)

	f.step(0.25)
	assert.Equal(t, model.State{Primary: model.PrimaryChase, Secondary: model.SecondaryNormal}, f.z.CurrentState())
	assert.Equal(t, 1, f.z.sched.pending(timerCooldown), "scream cooldown starts after the scream")

	f.step(0.25)
	assert.False(t, f.nav.IsStopped())
	assert.True(t, f.anim.bools[SignalRunning])
	assert.Equal(t, f.target.pos, f.nav.Destination())
	assert.False(t, f.anim.bools[SignalScream])
}

func TestScenario_NoScreamChasesAtOnce(t *testing.T) {
	cfg := testZombie()
	cfg.EnableScream = false
	f := newFixture(t, openGrid(t, 30, 30), cfg, model.Vec3{10.5, 0, 10.5}, model.Vec3{14.5, 0, 18.5})

	f.z.Start()
	f.step(0.25)

	assert.Equal(t, model.State{Primary: model.PrimaryChase, Secondary: model.SecondaryNormal}, f.z.CurrentState())
	assert.InDelta(t, model.YawOf(f.target.pos.Sub(f.z.Position())), f.z.Yaw(), 1e-9, "faces the target")
	assert.True(t, f.z.canContinue)
	assert.False(t, f.audio.played("scream"))
}

// Target leaves perception at t=0 with a 2s grace window: detection holds
// through t=2s, then clears and the agent falls back to patrol.
func TestScenario_GraceWindow(t *testing.T) {
	cfg := testZombie()
	cfg.EnableScream = false
	require.Equal(t, 2.0, cfg.ChaseTimeHide)
	f := newFixture(t, openGrid(t, 12, 40), cfg, model.Vec3{5.5, 0, 5.5}, model.Vec3{5.5, 0, 13.5})

	f.z.Start()
	f.step(0.25)
	require.Equal(t, model.PrimaryChase, f.z.CurrentState().Primary)

	// target runs off faster than the agent can follow
	for k := 1; k <= 8; k++ {
		f.target.pos = model.Vec3{5.5, 0, 22.5 + float64(2*k)}
		f.step(0.25)
		assert.Equal(t, f.target.pos, f.z.lastChasePosition, "still detected at t=%.2f", float64(k)*0.25)
	}
	lastSeen := f.z.lastChasePosition

	f.target.pos = model.Vec3{5.5, 0, 60}
	f.step(0.25)
	assert.Equal(t, lastSeen, f.z.lastChasePosition, "detection cleared after the grace window")

	var states []model.State
	for i := 0; i < 120 && f.z.CurrentState().Primary != model.PrimaryPatrol; i++ {
		f.target.pos = f.target.pos.Add(model.Vec3{0, 0, 2})
		states = append(states, f.run(1, 0.25)...)
	}
	assert.Equal(t, model.PrimaryPatrol, f.z.CurrentState().Primary)
	assert.InDelta(t, 0, model.Distance(model.Flat(f.z.Position()), model.Flat(lastSeen)), 0.5, "searched the last seen position")
	for _, s := range states {
		assert.True(t, s.Valid(), "invalid state %v", s)
	}
}

func TestHunger_SeeksAndEats(t *testing.T) {
	cfg := testZombie()
	cfg.TargetInvisible = true
	cfg.EnableAgony = false
	cfg.HungerPoints = 0.1
	reg := world.NewRegistry()
	reg.AddHungerPoint(model.NewHungerPoint("carcass", model.Vec3{5.5, 0, 11.5}, model.HungerPayload{Hunger: 20, Health: 15}))
	f := newFixtureWithRegistry(t, openGrid(t, 30, 30), reg, cfg, model.Vec3{5.5, 0, 5.5}, model.Vec3{})

	f.z.Start()
	for i := 0; i < 60 && f.z.CurrentState().Secondary != model.SecondaryEating; i++ {
		f.step(0.25)
	}

	require.Equal(t, model.SecondaryEating, f.z.CurrentState().Secondary)
	assert.InDelta(t, 15, f.health.added, 1e-9)
	assert.InDelta(t, 20, f.z.hungerPoints, 1e-9)
	assert.True(t, f.anim.triggered(SignalEat))
	assert.True(t, f.audio.played("eating"))

	f.z.OnStateEnter(1.5, StateEat)
	f.run(6, 0.25)
	assert.Equal(t, model.SecondaryNormal, f.z.CurrentState().Secondary)
}

func TestHunger_EatsOnlyWhereItArrives(t *testing.T) {
	cfg := testZombie()
	cfg.TargetInvisible = true
	cfg.EnableAgony = false
	cfg.HungerPoints = 0.1
	near := model.Vec3{5.5, 0, 8.5}
	far := model.Vec3{5.5, 0, 15.5}
	reg := world.NewRegistry()
	reg.AddHungerPoint(model.NewHungerPoint("near", near, model.HungerPayload{Hunger: 5, Health: 3}))
	reg.AddHungerPoint(model.NewHungerPoint("far", far, model.HungerPayload{Hunger: 20, Health: 15}))
	f := newFixtureWithRegistry(t, openGrid(t, 30, 30), reg, cfg, model.Vec3{5.5, 0, 5.5}, model.Vec3{})
	f.nav.invalid[far] = true

	f.z.Start()
	for i := 0; i < 60 && f.z.CurrentState().Secondary != model.SecondaryEating; i++ {
		f.step(0.25)
	}

	require.Equal(t, model.SecondaryEating, f.z.CurrentState().Secondary)
	assert.InDelta(t, 3, f.health.added, 1e-9)
	assert.InDelta(t, 5, f.z.hungerPoints, 1e-9)
	assert.InDelta(t, 0, model.Distance(model.Flat(f.z.Position()), model.Flat(near)), 0.5)
	assert.NotContains(t, f.nav.destinations, far)
}

func TestHunger_NothingReachableKeepsWaiting(t *testing.T) {
	cfg := testZombie()
	cfg.TargetInvisible = true
	cfg.EnableAgony = false
	cfg.HungerPoints = 0.1
	far := model.Vec3{5.5, 0, 15.5}
	reg := world.NewRegistry()
	reg.AddHungerPoint(model.NewHungerPoint("far", far, model.HungerPayload{Hunger: 20, Health: 15}))
	f := newFixtureWithRegistry(t, openGrid(t, 30, 30), reg, cfg, model.Vec3{5.5, 0, 5.5}, model.Vec3{})
	f.nav.invalid[far] = true

	f.z.Start()
	states := f.run(40, 0.25)

	for _, st := range states {
		assert.NotEqual(t, model.SecondaryEating, st.Secondary)
	}
	assert.Zero(t, f.health.added)
	assert.Nil(t, f.z.hungerPoint)
}

func TestAgony_Cycle(t *testing.T) {
	cfg := testZombie()
	cfg.TargetInvisible = true
	cfg.EnableHunger = false
	cfg.AgonyNext.Min, cfg.AgonyNext.Max = 1, 1
	cfg.GeneralBehaviour = model.PatrolWaypointToWaypoint
	f := newFixture(t, openGrid(t, 10, 10), cfg, model.Vec3{5.5, 0, 5.5}, model.Vec3{})

	f.z.Start()
	f.run(6, 0.25)

	require.Equal(t, model.SecondaryAgony, f.z.CurrentState().Secondary)
	assert.True(t, f.anim.triggered(SignalAgonize))
	assert.True(t, f.audio.played("agonize"))
	assert.InDelta(t, cfg.HungerPoints+5, f.z.hungerPoints, 1e-9)

	f.z.OnStateEnter(2, StateAgony)
	f.run(8, 0.25)
	assert.Equal(t, model.SecondaryNormal, f.z.CurrentState().Secondary)
}

func TestOnAnimationEvent_AttackDamagesTarget(t *testing.T) {
	cfg := testZombie()
	cfg.DamageTarget = true
	cfg.DamageValue.Min, cfg.DamageValue.Max = 25, 25

	tests := []struct {
		name       string
		target     model.Vec3
		wantDamage float64
	}{
		{"in front and in reach", model.Vec3{5.5, 0, 8.5}, 25},
		{"out of reach", model.Vec3{5.5, 0, 14.5}, 0},
		{"behind", model.Vec3{5.5, 0, 3.5}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, openGrid(t, 20, 20), cfg, model.Vec3{5.5, 0, 5.5}, tt.target)
			f.z.OnAnimationEvent(AnimationEventAttack)
			assert.InDelta(t, tt.wantDamage, f.target.damage, 1e-9)
			if tt.wantDamage > 0 {
				assert.Equal(t, 1, f.target.kicks)
			}
		})
	}
}

func TestOnAnimationEvent_DelegatedSounds(t *testing.T) {
	cfg := testZombie()
	cfg.EventPlayScreamSound = true
	cfg.EventPlayEatSound = true
	f := newFixture(t, openGrid(t, 10, 10), cfg, model.Vec3{5.5, 0, 5.5}, model.Vec3{})

	f.z.OnAnimationEvent(AnimationEventScream)
	f.z.OnAnimationEvent(AnimationEventEat)
	f.z.OnAnimationEvent(AnimationEventAgony)

	assert.Equal(t, []string{"scream", "eating"}, f.audio.clips)
}

func TestLayerTransitions(t *testing.T) {
	f := newFixture(t, openGrid(t, 4, 4), testZombie(), model.Vec3{1.5, 0, 1.5}, model.Vec3{})

	assert.False(t, f.z.setSecondary(model.SecondaryReaction), "reaction needs a trigger")
	assert.True(t, f.z.setSecondary(model.SecondaryScream))
	assert.False(t, f.z.enterReaction(model.ReactionHit), "SCREAM -> REACTION is not an edge")
	assert.True(t, f.z.setSecondary(model.SecondaryNormal))

	assert.True(t, f.z.enterReaction(model.ReactionSound))
	assert.False(t, f.z.setSecondary(model.SecondaryNormal), "overlay tied to its trigger")
	f.z.clearReaction()
	assert.Equal(t, model.SecondaryNormal, f.z.CurrentState().Secondary)

	assert.True(t, f.z.setPrimary(model.PrimaryChase))
	assert.False(t, f.z.setPrimary(model.PrimaryAttracted))
	assert.False(t, f.z.setPrimary(model.PrimaryIdle))
}
