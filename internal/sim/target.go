package sim

import (
	"log/slog"

	"github.com/udisondev/zombieai/internal/config"
	"github.com/udisondev/zombieai/internal/model"
)

// Target walks a fixed route at constant speed. It takes damage and
// kickback from agents and stops when dead or at the end of a non-looping
// route.
type Target struct {
	objectID   uint32
	route      []model.Vec3
	speed      float64
	loop       bool
	headHeight float64

	position model.Vec3
	velocity model.Vec3
	next     int
	finished bool

	health      float64
	damageTaken float64
	dead        bool

	kick     model.Vec3
	kickLeft float64
	kickTime float64
}

// NewTarget creates a target at the first route point.
func NewTarget(objectID uint32, spec config.TargetSpec) *Target {
	t := &Target{
		objectID:   objectID,
		route:      append([]model.Vec3(nil), spec.Route...),
		speed:      spec.Speed,
		loop:       spec.Loop,
		headHeight: spec.HeadHeight,
		health:     spec.Health,
		next:       1,
	}
	if len(t.route) > 0 {
		t.position = t.route[0]
	}
	if len(t.route) < 2 {
		t.finished = true
	}
	return t
}

// ObjectID returns the runtime object ID.
func (t *Target) ObjectID() uint32 { return t.objectID }

// Position implements ai.Target.
func (t *Target) Position() model.Vec3 { return t.position }

// HeadPosition implements ai.Target.
func (t *Target) HeadPosition() model.Vec3 {
	return t.position.Add(model.Vec3{0, t.headHeight, 0})
}

// Velocity implements ai.Target.
func (t *Target) Velocity() model.Vec3 { return t.velocity }

// IsDead implements ai.Target.
func (t *Target) IsDead() bool { return t.dead }

// Health returns the remaining hit points.
func (t *Target) Health() float64 { return t.health }

// DamageTaken returns the total damage applied so far.
func (t *Target) DamageTaken() float64 { return t.damageTaken }

// ApplyDamage implements ai.Target.
func (t *Target) ApplyDamage(amount float64) {
	if t.dead || amount <= 0 {
		return
	}
	t.damageTaken += amount
	t.health -= amount
	slog.Info("target damaged", "amount", amount, "health", t.health)
	if t.health <= 0 {
		t.Kill()
	}
}

// ApplyKickback implements ai.Target. The kick is spread over duration.
func (t *Target) ApplyKickback(kick model.Vec3, duration float64) {
	if t.dead || duration <= 0 {
		return
	}
	t.kick = kick
	t.kickLeft = duration
	t.kickTime = duration
}

// Kill marks the target dead and stops it.
func (t *Target) Kill() {
	if t.dead {
		return
	}
	t.dead = true
	t.velocity = model.Vec3{}
	slog.Info("target died", "position", t.position)
}

// Step advances the target along its route by dt seconds.
func (t *Target) Step(dt float64) {
	if t.dead || dt <= 0 {
		t.velocity = model.Vec3{}
		return
	}

	start := t.position

	if t.kickLeft > 0 {
		step := min(dt, t.kickLeft)
		t.position = t.position.Add(t.kick.Mul(step / t.kickTime))
		t.kickLeft -= step
	}

	budget := t.speed * dt
	// a route of coincident points must not spin forever
	for hops := 0; budget > 0 && !t.finished && hops <= len(t.route); hops++ {
		goal := t.route[t.next]
		seg := goal.Sub(t.position)
		segLen := seg.Len()
		if segLen > budget {
			t.position = t.position.Add(seg.Mul(budget / segLen))
			break
		}
		t.position = goal
		budget -= segLen
		t.advance()
	}

	t.velocity = t.position.Sub(start).Mul(1 / dt)
}

func (t *Target) advance() {
	t.next++
	if t.next < len(t.route) {
		return
	}
	if t.loop {
		t.next = 0
		return
	}
	t.finished = true
}
