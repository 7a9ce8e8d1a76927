package ai

import (
	"log/slog"
	"math"

	"github.com/udisondev/zombieai/internal/model"
)

// speedSnap is how close a blended speed must get to its target to snap.
const speedSnap = 0.01

// pathCompleted reports whether the agent has arrived and come to rest.
func (z *ZombieAI) pathCompleted() bool {
	v := z.nav.Velocity()
	return z.nav.RemainingDistance() <= z.nav.StoppingDistance() &&
		v.Dot(v) <= 0.1 &&
		!z.nav.PathPending()
}

// setAgentDestination steers to dest when a path to it exists, otherwise
// back to the last destination that had one. Reports whether dest was taken.
func (z *ZombieAI) setAgentDestination(dest model.Vec3, stopped bool) bool {
	z.nav.SetStopped(stopped)

	if z.nav.CalculatePath(dest).Found() {
		z.nav.SetDestination(dest)
		z.lastCorrectDestination = dest
		z.hasCorrectDestination = true
		return true
	}

	if IsDebugEnabled() {
		slog.Debug("destination unreachable, keeping last one",
			"agent", z.key,
			"destination", dest,
			"fallback", z.lastCorrectDestination)
	}
	if z.hasCorrectDestination {
		z.nav.SetDestination(z.lastCorrectDestination)
	}
	return false
}

// LastCorrectDestination returns the last destination a path was found to.
func (z *ZombieAI) LastCorrectDestination() (model.Vec3, bool) {
	return z.lastCorrectDestination, z.hasCorrectDestination
}

// rotateTowards turns the agent toward target at RotationSpeed.
// Nothing happens when target is the agent's own position.
func (z *ZombieAI) rotateTowards(target model.Vec3) {
	dir := model.Flat(target.Sub(z.Position()))
	if dir.Len() < 1e-6 {
		return
	}
	z.loc = z.loc.WithYaw(model.SlerpYaw(z.loc.Yaw, model.YawOf(dir), z.dt*z.cfg.RotationSpeed))
}

// faceTarget snaps the facing onto the target.
func (z *ZombieAI) faceTarget() {
	dir := model.Flat(z.target.Position().Sub(z.Position()))
	if dir.Len() < 1e-6 {
		return
	}
	z.loc = z.loc.WithYaw(model.YawOf(dir))
}

// setSpeed changes travel speed. With root motion the animator gets the
// speed as well; otherwise lerp blends toward it over the next ticks.
func (z *ZombieAI) setSpeed(speed float64, lerp bool) {
	if z.enableRootMotion {
		z.anim.SetFloat(SignalMovementSpeed, speed)
		z.nav.SetSpeed(speed)
		z.speedLerp = false
		return
	}
	if lerp {
		z.speedTarget = speed
		z.speedLerp = true
		return
	}
	z.nav.SetSpeed(speed)
	z.speedLerp = false
}

// blendSpeed moves the agent speed toward its target.
func (z *ZombieAI) blendSpeed(dt float64) {
	if !z.speedLerp {
		return
	}
	cur := z.nav.Speed()
	cur += (z.speedTarget - cur) * min(dt*z.cfg.SpeedChangeSpeed, 1)
	if math.Abs(z.speedTarget-cur) <= speedSnap {
		cur = z.speedTarget
		z.speedLerp = false
	}
	z.nav.SetSpeed(cur)
}

// applyRootTurn rotates the body while a root-motion turn plays.
func (z *ZombieAI) applyRootTurn(dt float64) {
	if z.turnLeft == 0 {
		return
	}
	if !z.enableRootRotation {
		z.turnLeft = 0
		return
	}
	step := z.turnRate * dt
	if math.Abs(step) >= math.Abs(z.turnLeft) {
		step = z.turnLeft
	}
	z.SetYaw(z.loc.Yaw + step)
	z.turnLeft -= step
}

// startRootTurn begins rotating by the last requested turn angle over
// length seconds.
func (z *ZombieAI) startRootTurn(length float64) {
	if !z.enableRootRotation || z.turnAngle == 0 {
		return
	}
	if length <= 0 {
		z.SetYaw(z.loc.Yaw + z.turnAngle)
		z.turnAngle = 0
		return
	}
	z.turnLeft = z.turnAngle
	z.turnRate = z.turnAngle / length
	z.turnAngle = 0
}
