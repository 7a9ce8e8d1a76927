package ai

import (
	"context"

	"github.com/udisondev/zombieai/internal/model"
)

// NavAgent plans and follows paths over a navigable surface.
// Implemented by nav.Agent.
type NavAgent interface {
	Position() model.Vec3
	CalculatePath(target model.Vec3) model.Path
	SetDestination(target model.Vec3) bool
	Warp(p model.Vec3) bool
	ResetPath()
	SteeringTarget() model.Vec3
	RemainingDistance() float64
	Velocity() model.Vec3
	StoppingDistance() float64
	Speed() float64
	SetSpeed(speed float64)
	IsStopped() bool
	SetStopped(stopped bool)
	PathPending() bool
	IsOnNavMesh() bool
	Disable()
}

// Animator receives named animation signals. State entries are reported
// back through ZombieAI.OnStateEnter.
type Animator interface {
	SetBool(name string, value bool)
	SetTrigger(name string)
	SetInteger(name string, value int)
	SetFloat(name string, value float64)
	Disable()
}

// Obstruction answers line-of-sight queries. Linecast reports true when
// geometry on a layer in mask blocks the segment. Implemented by nav.Grid.
type Obstruction interface {
	Linecast(from, to model.Vec3, mask uint32) bool
}

// AudioSource plays a named clip.
type AudioSource interface {
	Play(clip string, volume float64)
}

// Target is the entity agents hunt.
type Target interface {
	Position() model.Vec3
	HeadPosition() model.Vec3
	Velocity() model.Vec3
	IsDead() bool
	ApplyDamage(amount float64)
	ApplyKickback(kick model.Vec3, duration float64)
}

// Health is the agent's own hit points.
type Health interface {
	AddHealth(amount float64)
}

// Collider is the agent's physical body.
type Collider interface {
	Disable()
}

// StateStore persists agent records keyed by a stable agent ID.
// LoadAgentState reports found == false when no record exists.
type StateStore interface {
	SaveAgentState(ctx context.Context, id string, state model.AgentState) error
	LoadAgentState(ctx context.Context, id string) (model.AgentState, bool, error)
}

// BatchStateStore is a StateStore that can write many records at once.
type BatchStateStore interface {
	StateStore
	SaveAgentStates(ctx context.Context, states map[string]model.AgentState) error
}
