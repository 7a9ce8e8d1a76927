package ai

import (
	"log/slog"
	"math"

	"github.com/udisondev/zombieai/internal/model"
)

// HitReaction is called when the agent takes damage.
func (z *ZombieAI) HitReaction() {
	if z.dead {
		return
	}
	z.wake()

	if z.state.Secondary != model.SecondaryEating {
		z.anim.SetTrigger(SignalHit)
	}
	if z.state.Primary == model.PrimaryChase {
		return
	}

	z.playSound(z.cfg.Sounds.TakeDamage, z.cfg.Volumes.TakeDamage)
	if !z.canReact {
		return
	}

	pos := z.Position()
	target := z.target.Position()
	z.react(model.ReactionHit, model.Reaction{
		Distance: model.Distance(pos, target),
		Angle:    model.SignedYawAngle(z.loc.Yaw, pos, target),
		Position: target,
	})
}

// SoundReaction is called when a noise of soundType is heard at pos,
// distance away from the agent. Type 0 draws the agent to the noise
// itself; any other type draws it to the target.
func (z *ZombieAI) SoundReaction(soundType int, distance float64, pos model.Vec3) {
	if z.dead || !z.cfg.SoundReaction {
		return
	}
	z.wake()

	if z.state.Primary == model.PrimaryChase {
		return
	}

	z.playSoundRandom(z.cfg.Sounds.Reaction, z.cfg.Volumes.Reaction)
	if !z.canReact || distance > z.cfg.SoundReactFar {
		return
	}

	goal := z.target.Position()
	if soundType == 0 {
		goal = pos
	}
	z.react(model.ReactionSound, model.Reaction{
		Distance: distance,
		Angle:    model.SignedYawAngle(z.loc.Yaw, z.Position(), pos),
		Position: goal,
	})
}

// react interrupts whatever the agent waits on and arms a reaction.
func (z *ZombieAI) react(trigger model.ReactionTrigger, stimulus model.Reaction) {
	if !model.CanTransitionSecondary(z.state.Secondary, model.SecondaryReaction) {
		if IsDebugEnabled() {
			slog.Debug("reaction ignored", "agent", z.key, "state", z.state, "trigger", trigger)
		}
		return
	}

	if n := z.sched.cancel(timerWait); n > 0 && IsDebugEnabled() {
		slog.Debug("reaction cancelled pending waits", "agent", z.key, "count", n)
	}
	// the stimulus ends the start-up delay
	if z.sched.cancel(timerLifecycle) > 0 {
		z.canContinue = true
	}

	z.nav.ResetPath()
	z.nav.SetStopped(true)
	z.setPose(pose{})

	z.patrolWait = false
	z.hungerWait = false
	z.goToLastWaypoint = true
	z.enableRootMotion = true
	z.enableRootRotation = true
	z.primaryPending = true
	z.hasTurned = false
	z.waypointsAssigned = false
	z.reaction = stimulus

	if math.Abs(float64(stimulus.Angle)) >= float64(z.cfg.ReactionAngleTurn) {
		z.turnAngle = float64(stimulus.Angle)
		z.anim.SetFloat(SignalTurnAngle, z.turnAngle)
		z.anim.SetTrigger(SignalTurn)
		z.secondaryPending = true
	} else {
		z.secondaryPending = false
	}

	z.enterReaction(trigger)
	z.setPrimary(model.PrimaryAttracted)
	z.reactionPending = true
	z.canReact = false

	if IsDebugEnabled() {
		slog.Debug("agent reacts",
			"agent", z.key,
			"trigger", trigger,
			"angle", stimulus.Angle,
			"distance", stimulus.Distance)
	}
}

// reactionUpdate drives an armed reaction while the target is not detected.
func (z *ZombieAI) reactionUpdate() {
	switch z.state.Reaction {
	case model.ReactionHit:
		switch {
		case !z.secondaryPending && !z.hasTurned:
			// turned toward the hit, now look around
			z.sched.after(timerWait, "wait-secondary", z.randRange(z.cfg.PatrolTime), z.waitSecondary)
			z.secondaryPending = true
			z.hasTurned = true
		case !z.secondaryPending:
			z.resolveReaction()
		}

	case model.ReactionSound:
		switch {
		case !z.secondaryPending && z.state.Primary == model.PrimaryAttracted:
			z.investigate()
		case !z.secondaryPending:
			z.resolveReaction()
		}

	default:
		// stale flag without a trigger
		z.reactionPending = false
		z.canReact = true
	}
}

// investigate handles a sound: listen in place when it was close and
// unseen, otherwise run to it and listen there.
func (z *ZombieAI) investigate() {
	r := z.reaction

	if r.Distance <= z.cfg.SoundReactClose && !z.IsVisible(r.Position, z.cfg.SightsDistance) ||
		r.Distance > z.cfg.SoundReactFar || !z.canContinue {
		z.listen()
		return
	}

	if z.shouldMove {
		z.rotateTowards(z.nav.SteeringTarget())
		z.setPose(pose{run: true})
		return
	}

	if z.patrolWait {
		z.listen()
		return
	}

	z.enableRootRotation = false
	z.enableRootMotion = false
	z.setSpeed(z.cfg.RunSpeed, false)
	z.setAgentDestination(r.Position, false)
	z.setPose(pose{run: true})
	z.patrolWait = true
}

// listen stands still in the patrol pose for a patrol wait.
func (z *ZombieAI) listen() {
	z.setPose(pose{patrol: true})
	z.nav.SetStopped(true)
	z.sched.after(timerWait, "wait-secondary", z.randRange(z.cfg.PatrolTime), z.waitSecondary)
	z.setPrimary(model.PrimaryPatrol)
	z.secondaryPending = true
}

// resolveReaction ends the reaction and returns the agent to its patrol.
func (z *ZombieAI) resolveReaction() {
	if !z.waypointsAssigned && z.cfg.WaypointsReassign {
		z.bindWaypoints()
	}

	z.playSoundRandom(z.cfg.Sounds.Idle, z.cfg.Volumes.Idle)
	z.clearReaction()
	z.setPrimary(model.PrimaryAttracted)

	z.patrolWait = false
	z.hasTurned = false
	z.enableRootRotation = false
	z.enableRootMotion = z.cfg.WalkRootMotion
	z.primaryPending = false
	z.reactionPending = false
	z.canReact = true
}

// DeathTrigger kills the agent.
func (z *ZombieAI) DeathTrigger() {
	if z.dead {
		return
	}
	z.playSound(z.cfg.Sounds.Die, z.cfg.Volumes.Die)
	z.loc = z.loc.WithPosition(z.nav.Position())
	z.die(false)
}

// die deactivates the agent for good. silent skips the animator reset.
func (z *ZombieAI) die(silent bool) {
	z.dead = true
	z.isRunning.Store(false)
	z.sched.cancelAll()
	z.releaseWaypoint()
	z.speedLerp = false
	z.turnLeft = 0

	if !silent {
		z.setPose(pose{clearScream: true})
	}
	z.nav.Disable()
	z.anim.Disable()
	if z.collider != nil {
		z.collider.Disable()
	}

	slog.Info("agent died", "agent", z.key, "position", z.loc.Position)
}
