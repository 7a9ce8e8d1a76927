package ai

import (
	"errors"
	"log/slog"
	"math/rand/v2"
	"sync/atomic"

	"github.com/udisondev/zombieai/internal/config"
	"github.com/udisondev/zombieai/internal/model"
	"github.com/udisondev/zombieai/internal/world"
)

// lateStartDelay is the time after Start when the sleep pose is applied.
const lateStartDelay = 1.0

// Deps are the collaborators of one agent. Nav, Animator, Obstruction,
// Target and Registry are required; the rest may be nil.
type Deps struct {
	Nav         NavAgent
	Animator    Animator
	Obstruction Obstruction
	Target      Target
	Registry    *world.Registry

	Audio    AudioSource
	Health   Health
	Collider Collider

	// Rand drives every random draw. Nil seeds from the runtime source.
	Rand *rand.Rand
}

// ZombieAI is the behaviour controller of one zombie.
//
// Three layers run together: the primary behaviour (where to go), the
// secondary behaviour (what one-shot action plays on top) and the reaction
// trigger (a hit or sound interrupt). Long waits are timers on the agent's
// scheduler, advanced by Tick.
//
// Not safe for concurrent use: Tick, the stimulus entry points and the
// animation callbacks must run on the same goroutine.
type ZombieAI struct {
	objectID uint32
	key      string
	cfg      config.Zombie

	nav         NavAgent
	anim        Animator
	obstruction Obstruction
	target      Target
	registry    *world.Registry
	audio       AudioSource
	health      Health
	collider    Collider
	rng         *rand.Rand

	isRunning atomic.Bool
	sched     scheduler
	dt        float64 // delta of the running tick

	// Last known transform; the position is authoritative once dead
	loc model.Location

	// Behaviour layers
	state    model.State
	sleep    model.SleepPose
	reaction model.Reaction

	// Waypoints
	group       *model.WaypointGroup
	waypoint    *model.Waypoint // currently claimed
	visited     *model.Waypoint // last claimed, kept after release
	hungerPoint *model.HungerPoint

	lastChasePosition      model.Vec3
	lastWaypointPos        model.Vec3
	lastCorrectDestination model.Vec3
	hasCorrectDestination  bool

	// Countdowns (seconds)
	chaseTime    float64
	agonyTime    float64
	hungerPoints float64

	// Speed blending
	speedTarget float64
	speedLerp   bool

	// Root-motion turn in progress
	turnAngle float64 // requested by the last Turn trigger
	turnLeft  float64
	turnRate  float64 // degrees per second

	enableRootMotion   bool
	enableRootRotation bool
	enableSights       bool
	shouldMove         bool

	canContinue  bool
	canAttack    bool
	canScream    bool
	canReact     bool
	canPlaySound bool

	primaryPending   bool
	secondaryPending bool
	reactionPending  bool

	waypointsAssigned bool
	goToLastWaypoint  bool
	chasePatrol       bool
	hasTurned         bool

	patrolWait bool
	agonyWait  bool
	hungerWait bool

	screamCooldownPending bool
	loaded                bool
	noSurface             bool
	dead                  bool

	lastAttack int
	lastSound  int

	reported map[string]struct{}
}

// NewZombieAI creates a controller for agent objectID. key is the stable
// persistence ID of the agent.
func NewZombieAI(objectID uint32, key string, cfg config.Zombie, deps Deps) (*ZombieAI, error) {
	switch {
	case objectID == 0:
		return nil, errors.New("object ID must not be zero")
	case deps.Nav == nil:
		return nil, errors.New("navigation agent is required")
	case deps.Animator == nil:
		return nil, errors.New("animator is required")
	case deps.Obstruction == nil:
		return nil, errors.New("obstruction backend is required")
	case deps.Target == nil:
		return nil, errors.New("target is required")
	case deps.Registry == nil:
		return nil, errors.New("registry is required")
	}

	rng := deps.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	return &ZombieAI{
		objectID:     objectID,
		key:          key,
		cfg:          cfg,
		nav:          deps.Nav,
		anim:         deps.Animator,
		obstruction:  deps.Obstruction,
		target:       deps.Target,
		registry:     deps.Registry,
		audio:        deps.Audio,
		health:       deps.Health,
		collider:     deps.Collider,
		rng:          rng,
		loc:          model.NewLocation(deps.Nav.Position(), 0),
		state:        model.State{Primary: model.PrimaryIdle, Secondary: model.SecondaryNormal},
		sleep:        cfg.SleepBehaviour,
		hungerPoints: cfg.HungerPoints,
		lastAttack:   -1,
		lastSound:    -1,
		reported:     make(map[string]struct{}),
	}, nil
}

// ObjectID returns the runtime object ID used for waypoint claims.
func (z *ZombieAI) ObjectID() uint32 { return z.objectID }

// Key returns the persistence ID.
func (z *ZombieAI) Key() string { return z.key }

// CurrentState returns the behaviour layers.
func (z *ZombieAI) CurrentState() model.State { return z.state }

// Reaction returns the pending stimulus.
func (z *ZombieAI) Reaction() model.Reaction { return z.reaction }

// Sleep returns the current sleep pose.
func (z *ZombieAI) Sleep() model.SleepPose { return z.sleep }

// IsDead reports whether the agent has died.
func (z *ZombieAI) IsDead() bool { return z.dead }

// Yaw returns the facing in degrees.
func (z *ZombieAI) Yaw() float64 { return z.loc.Yaw }

// SetYaw sets the facing in degrees.
func (z *ZombieAI) SetYaw(yaw float64) {
	z.loc = z.loc.WithYaw(yaw)
}

// Position returns the agent position.
func (z *ZombieAI) Position() model.Vec3 {
	if z.dead {
		return z.loc.Position
	}
	return z.nav.Position()
}

// Waypoint returns the waypoint the agent currently holds, if any.
func (z *ZombieAI) Waypoint() *model.Waypoint { return z.waypoint }

// WaypointGroup returns the bound waypoint group, if any.
func (z *ZombieAI) WaypointGroup() *model.WaypointGroup { return z.group }

// Start activates the agent.
func (z *ZombieAI) Start() {
	if z.dead {
		return
	}
	z.isRunning.Store(true)

	z.nav.SetStopped(false)
	z.waypointsAssigned = false
	z.enableSights = true
	z.canAttack = true
	z.canReact = z.state.Reaction == model.ReactionNone
	z.canPlaySound = true
	if !z.loaded {
		z.canScream = true
	}

	if !z.cfg.WaypointsReassign {
		z.bindWaypoints()
	}

	z.sched.after(timerLifecycle, "late-start", lateStartDelay, z.lateStart)

	if !z.nav.IsOnNavMesh() {
		z.noSurface = true
		z.reportOnce("no-surface", "agent is not on a navigable surface, holding position",
			"position", z.nav.Position())
	}

	if IsDebugEnabled() {
		slog.Debug("zombie AI started",
			"agent", z.key,
			"objectID", z.objectID,
			"sleep", z.sleep,
			"state", z.state)
	}
}

// Stop deactivates the agent and releases its waypoint.
func (z *ZombieAI) Stop() {
	z.isRunning.Store(false)
	z.releaseWaypoint()
	z.speedLerp = false
	if !z.dead {
		z.nav.SetStopped(true)
	}
}

// lateStart applies the sleep pose once the scene has settled. An agent
// already chasing is left alone.
func (z *ZombieAI) lateStart() {
	if z.state.Primary == model.PrimaryChase {
		return
	}
	if z.sleep != model.SleepNone {
		z.setPrimary(model.PrimaryIdle)
		z.anim.SetInteger(SignalIdleState, int(z.sleep))
		z.anim.SetBool(SignalIdle, true)
		z.anim.SetBool(SignalPatrol, false)
		return
	}
	z.anim.SetBool(SignalIdle, false)
	z.anim.SetBool(SignalPatrol, true)
	z.canContinue = true
}

// Tick advances the agent by dt seconds.
func (z *ZombieAI) Tick(dt float64) {
	if !z.isRunning.Load() || z.dead {
		return
	}
	z.dt = dt

	z.sched.advance(dt)
	if z.noSurface {
		return
	}

	z.loc = z.loc.WithPosition(z.nav.Position())
	z.blendSpeed(dt)
	z.applyRootTurn(dt)

	z.shouldMove = !z.pathCompleted()

	targetMoving := model.Distance(z.loc.Position, z.target.HeadPosition()) > z.nav.StoppingDistance() &&
		model.Flat(z.target.Velocity()).Len() > 1

	switch {
	case z.sleep != model.SleepNone:
		if z.inDistance(z.cfg.IdleHearRange) {
			z.wake()
			z.playSoundRandom(z.cfg.Sounds.Reaction, z.cfg.Volumes.Reaction)
		}
	case z.searchForTarget(dt):
		z.chaseUpdate(targetMoving)
	case z.canContinue || z.state.Secondary != model.SecondaryScream:
		z.lostUpdate()
	}
}

// wake leaves the sleep pose.
func (z *ZombieAI) wake() {
	if z.sleep == model.SleepNone {
		return
	}
	z.anim.SetInteger(SignalIdleState, int(model.SleepNone))
	z.anim.SetBool(SignalIdle, false)
	z.sleep = model.SleepNone
}

// chaseUpdate runs while the target is detected.
func (z *ZombieAI) chaseUpdate(targetMoving bool) {
	sec := z.state.Secondary
	notAgonyOrEat := sec != model.SecondaryAgony && sec != model.SecondaryEating

	if notAgonyOrEat {
		z.enableRootMotion = !z.cfg.RunToTarget && z.cfg.WalkRootMotion
		z.enableRootRotation = false
		z.primaryPending = false
		z.hungerWait = false
		z.reactionPending = false
		z.canReact = true
		z.canPlaySound = true
		z.waypointsAssigned = false
		z.enableSights = false
		z.releaseWaypoint()
		if z.state.Reaction != model.ReactionNone {
			z.clearReaction()
		}
	}

	switch {
	case z.state.Primary != model.PrimaryChase:
		if z.cfg.EnableScream && z.canScream {
			z.canContinue = false
			z.setPose(pose{})
			z.anim.SetBool(SignalScream, true)

			if notAgonyOrEat {
				z.setAgentDestination(z.lastChasePosition, true)
				// cooldown starts once the scream has played out
				z.screamCooldownPending = true
				if !z.cfg.EventPlayScreamSound {
					z.playSound(z.cfg.Sounds.Scream, z.cfg.Volumes.Scream)
				}
				z.setSecondary(model.SecondaryScream)
				z.canScream = false
			}
		} else {
			z.setPose(z.chasePose())
			if notAgonyOrEat {
				z.faceTarget()
				z.setAgentDestination(z.lastChasePosition, false)
				z.playSoundRandom(z.cfg.Sounds.Reaction, z.cfg.Volumes.Reaction)
				z.canContinue = true
			} else {
				z.canContinue = false
			}
		}

		if z.patrolWait {
			z.goToLastWaypoint = true
			z.patrolWait = false
			z.hungerWait = false
		}

	case z.state.Secondary == model.SecondaryScream && !z.canContinue:
		z.setPose(z.chasePose())
		z.setAgentDestination(z.lastChasePosition, true)
		z.rotateTowards(z.lastChasePosition)

	case z.state.Secondary != model.SecondaryNormal && z.canContinue:
		z.setSecondary(model.SecondaryNormal)

	case z.canContinue:
		z.pursue(targetMoving)
	}

	if notAgonyOrEat {
		z.setPrimary(model.PrimaryChase)
	}
}

// pursue is the continuous chase step.
func (z *ZombieAI) pursue(targetMoving bool) {
	if z.cfg.RunToTarget {
		z.setSpeed(z.cfg.RunSpeed, true)
	} else {
		z.setSpeed(z.cfg.WalkSpeed, true)
	}
	z.setAgentDestination(z.lastChasePosition, false)
	z.rotateTowards(z.nav.SteeringTarget())

	z.setPose(pose{clearScream: true})
	gait := SignalWalking
	if z.cfg.RunToTarget {
		gait = SignalRunning
	}
	z.anim.SetBool(gait, z.shouldMove || targetMoving)
	z.anim.SetBool(SignalPatrol, !z.shouldMove)

	if z.canAttack && z.InFieldOfView(z.target.Position(), z.cfg.AttackFOV) && z.inDistance(z.cfg.AttackDistance) {
		z.attack()
	}
}

// lostUpdate runs while the target is not detected.
func (z *ZombieAI) lostUpdate() {
	if !z.primaryPending && z.shouldMove {
		z.rotateTowards(z.nav.SteeringTarget())
	}

	if z.state.Primary == model.PrimaryChase {
		if z.shouldMove {
			// keep going to where the target was last seen
			z.enableRootMotion = !z.cfg.RunToTarget && z.cfg.WalkRootMotion
			z.setAgentDestination(z.lastChasePosition, false)
			p := z.chasePose()
			p.clearScream = true
			z.setPose(p)
			if z.cfg.RunToTarget {
				z.setSpeed(z.cfg.RunSpeed, true)
			} else {
				z.setSpeed(z.cfg.WalkSpeed, true)
			}
			z.enableSights = false
			z.primaryPending = false
			z.chasePatrol = true
			z.setSecondary(model.SecondaryNormal)
			return
		}
		z.chasePatrol = true
	}

	z.enableSights = true
	if z.reactionPending {
		z.reactionUpdate()
		return
	}
	z.secondaryUpdate(z.dt)
}

// secondaryUpdate runs the patrol, hunger and agony cycle.
func (z *ZombieAI) secondaryUpdate(dt float64) {
	if !z.waypointsAssigned && z.cfg.WaypointsReassign {
		z.bindWaypoints()
	}

	if z.chasePatrol {
		z.playSoundRandom(z.cfg.Sounds.Reaction, z.cfg.Volumes.Reaction)
		z.setPose(pose{patrol: true, clearScream: true})
		z.sched.after(timerWait, "wait-secondary", z.cfg.TargetLostPatrol, z.waitSecondary)
		z.nav.SetStopped(true)
		z.secondaryPending = true
		z.primaryPending = true
		z.setPrimary(model.PrimaryPatrol)
		z.setSecondary(model.SecondaryNormal)
		z.chasePatrol = false
	}

	if z.state.Secondary != model.SecondaryNormal {
		if !z.canContinue {
			z.setPose(pose{patrol: true, clearScream: true})
			z.nav.SetStopped(true)
			z.secondaryPending = true
			z.primaryPending = true
			z.canContinue = true
		}
		return
	}

	if z.secondaryPending {
		if !z.shouldMove && z.hungerWait {
			z.eat()
		}
		return
	}

	z.primaryPending = false

	if z.cfg.EnableHunger {
		if z.hungerPoints > 0 {
			z.hungerPoints -= dt
		} else if z.seekHunger() {
			return
		}
	}

	if z.cfg.EnableAgony {
		if !z.agonyWait {
			z.agonyTime = z.randRange(z.cfg.AgonyNext)
			z.agonyWait = true
		} else if z.agonyTime > 0 {
			z.agonyTime -= dt
		} else {
			z.agonize()
			return
		}
	}

	if z.shouldMove {
		z.setPose(pose{walk: true})
		z.nav.SetStopped(false)
		z.playIdleOnce()
		return
	}

	switch z.cfg.GeneralBehaviour {
	case model.PatrolWaypointToWaypoint:
		z.enableRootMotion = z.cfg.WalkRootMotion
		if next, ok := z.nextWaypoint(); ok {
			z.setAgentDestination(next, false)
		}
		z.setPose(pose{walk: true})
		z.setSpeed(z.cfg.WalkSpeed, true)
		z.setPrimary(model.PrimaryAttracted)

	case model.PatrolStop, model.PatrolStopIdle:
		if !z.patrolWait {
			z.enableRootMotion = z.cfg.WalkRootMotion
			if z.goToLastWaypoint && z.lastWaypointPos != (model.Vec3{}) {
				z.setAgentDestination(z.lastWaypointPos, false)
			} else if next, ok := z.nextWaypoint(); ok {
				z.setAgentDestination(next, false)
			}
			z.setPose(pose{walk: true})
			z.setSpeed(z.cfg.WalkSpeed, true)
			z.secondaryPending = false
			z.patrolWait = true
			z.goToLastWaypoint = false
			z.canPlaySound = true
			z.setPrimary(model.PrimaryAttracted)
			return
		}

		if z.cfg.GeneralBehaviour == model.PatrolStop {
			z.setPose(pose{patrol: true, clearScream: true})
		} else {
			z.setPose(pose{idle: true, clearScream: true})
		}
		z.playIdleOnce()
		z.sched.after(timerWait, "wait-secondary", z.randRange(z.cfg.PatrolTime), z.waitSecondary)
		z.nav.SetStopped(true)
		z.secondaryPending = true
		z.patrolWait = false
		z.setPrimary(model.PrimaryPatrol)
	}
}

// seekHunger heads for the farthest reachable hunger point when it is in
// sight. Returns true if the agent set off.
func (z *ZombieAI) seekHunger() bool {
	hp := z.findHungerPoint()
	if hp == nil || !z.IsVisible(hp.Position, z.cfg.SightsDistance) {
		return false
	}

	if !z.setAgentDestination(hp.Position, false) {
		return false
	}
	z.hungerPoint = hp
	z.enableRootMotion = false
	z.setPose(pose{run: true})
	z.setSpeed(z.cfg.RunSpeed, true)
	z.hungerWait = true
	z.patrolWait = false
	z.goToLastWaypoint = true
	z.secondaryPending = true
	z.hungerPoints = 10

	if IsDebugEnabled() {
		slog.Debug("agent seeks hunger point", "agent", z.key, "point", hp.Name)
	}
	return true
}

// eat consumes the hunger point on arrival.
func (z *ZombieAI) eat() {
	if z.hungerPoint != nil {
		payload := z.hungerPoint.Payload
		z.hungerPoints = payload.Hunger
		if z.cfg.HungerRecoverHealth && z.health != nil {
			z.health.AddHealth(payload.Health)
		}
	}

	z.setPose(pose{})
	if !z.cfg.EventPlayEatSound {
		z.playSound(z.cfg.Sounds.Eating, z.cfg.Volumes.Eating)
	}
	z.anim.SetTrigger(SignalEat)
	z.hungerWait = false
	z.setSecondary(model.SecondaryEating)
}

// agonize plays the agony one-shot.
func (z *ZombieAI) agonize() {
	if !z.cfg.EventPlayAgonySound {
		z.playSound(z.cfg.Sounds.Agonize, z.cfg.Volumes.Agonize)
	}
	z.setPose(pose{clearScream: true})
	z.anim.SetTrigger(SignalAgonize)
	z.nav.SetStopped(true)
	z.secondaryPending = true
	z.agonyWait = false
	z.hungerPoints += 5
	z.setSecondary(model.SecondaryAgony)
}

func (z *ZombieAI) playIdleOnce() {
	if z.canPlaySound && z.cfg.PlayAttractedSounds {
		z.playSoundRandom(z.cfg.Sounds.Idle, z.cfg.Volumes.Idle)
		z.canPlaySound = false
	}
}

// waitSecondary ends a patrol or reaction wait.
func (z *ZombieAI) waitSecondary() {
	if z.state.Primary == model.PrimaryChase {
		return
	}
	z.secondaryPending = false
	// a reaction keeps its overlay until it resolves
	if z.state.Secondary != model.SecondaryReaction {
		z.setSecondary(model.SecondaryNormal)
	}
}

// waitForAnimation ends a one-shot action once its state has played.
func (z *ZombieAI) waitForAnimation(anim model.Secondary, changeBehaviour bool) {
	if z.state.Secondary != anim {
		return
	}
	z.secondaryPending = false
	if changeBehaviour {
		z.setSecondary(model.SecondaryNormal)
	}
}

// waitToContinue re-enables chase movement after a scream or stand-up.
func (z *ZombieAI) waitToContinue() {
	z.canContinue = true
	if z.screamCooldownPending {
		z.screamCooldownPending = false
		z.sched.after(timerCooldown, "scream-cooldown", z.randRange(z.cfg.ScreamNext), func() {
			z.canScream = true
		})
	}
}

// setPrimary applies a primary transition if the table allows it.
func (z *ZombieAI) setPrimary(p model.Primary) bool {
	if !model.CanTransitionPrimary(z.state.Primary, p) {
		if IsDebugEnabled() {
			slog.Debug("primary transition rejected", "agent", z.key, "from", z.state.Primary, "to", p)
		}
		return false
	}
	z.state.Primary = p
	return true
}

// setSecondary applies a secondary transition if the table allows it.
// The REACTION overlay is tied to its trigger and only changes through
// enterReaction and clearReaction.
func (z *ZombieAI) setSecondary(s model.Secondary) bool {
	tied := s == model.SecondaryReaction || z.state.Reaction != model.ReactionNone
	if tied && s != z.state.Secondary || !model.CanTransitionSecondary(z.state.Secondary, s) {
		if IsDebugEnabled() {
			slog.Debug("secondary transition rejected", "agent", z.key, "from", z.state.Secondary, "to", s)
		}
		return false
	}
	z.state.Secondary = s
	return true
}

// enterReaction switches the secondary layer to REACTION for a trigger.
func (z *ZombieAI) enterReaction(trigger model.ReactionTrigger) bool {
	if !model.CanTransitionSecondary(z.state.Secondary, model.SecondaryReaction) {
		if IsDebugEnabled() {
			slog.Debug("reaction rejected", "agent", z.key, "from", z.state.Secondary, "trigger", trigger)
		}
		return false
	}
	z.state.Secondary = model.SecondaryReaction
	z.state.Reaction = trigger
	return true
}

// clearReaction drops the reaction overlay and its stimulus.
func (z *ZombieAI) clearReaction() {
	z.state.Reaction = model.ReactionNone
	z.state.Secondary = model.SecondaryNormal
	z.reaction = model.Reaction{}
}

// reportOnce logs a configuration error the first time key is seen.
func (z *ZombieAI) reportOnce(key, msg string, args ...any) {
	if _, seen := z.reported[key]; seen {
		return
	}
	z.reported[key] = struct{}{}
	slog.Error(msg, append([]any{"agent", z.key}, args...)...)
}

// randRange draws uniformly from r.
func (z *ZombieAI) randRange(r config.Range) float64 {
	return r.Min + z.rng.Float64()*(r.Max-r.Min)
}

// randomUnique returns a random int in [lo, hi) different from last.
// With fewer than two values it returns lo.
func (z *ZombieAI) randomUnique(lo, hi, last int) int {
	n := hi - lo
	if n <= 1 {
		return lo
	}
	if last < lo || last >= hi {
		return lo + z.rng.IntN(n)
	}
	v := lo + z.rng.IntN(n-1)
	if v >= last {
		v++
	}
	return v
}
