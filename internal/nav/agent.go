package nav

import (
	"github.com/udisondev/zombieai/internal/model"
)

// Agent steers one body across a Grid along planned paths.
// Movement happens only in Step; path queries are answered synchronously, so
// PathPending is always false. Not safe for concurrent use.
type Agent struct {
	grid *Grid

	position model.Vec3
	velocity model.Vec3

	corners     []model.Vec3
	destination model.Vec3
	hasPath     bool

	speed            float64
	stoppingDistance float64
	stopped          bool
	disabled         bool
}

// NewAgent places an agent on the grid. The position is not validated;
// callers check IsOnNavMesh.
func NewAgent(grid *Grid, position model.Vec3, speed float64) *Agent {
	return &Agent{
		grid:             grid,
		position:         position,
		speed:            speed,
		stoppingDistance: DefaultStoppingDistance,
	}
}

// Position returns the current agent position.
func (a *Agent) Position() model.Vec3 { return a.position }

// Velocity returns the movement of the last Step per second.
func (a *Agent) Velocity() model.Vec3 { return a.velocity }

// Speed returns the maximum travel speed.
func (a *Agent) Speed() float64 { return a.speed }

// SetSpeed changes the maximum travel speed. Negative values clamp to 0.
func (a *Agent) SetSpeed(speed float64) {
	a.speed = max(speed, 0)
}

// StoppingDistance returns the distance from the destination at which the
// agent stops.
func (a *Agent) StoppingDistance() float64 { return a.stoppingDistance }

// SetStoppingDistance changes the stopping distance.
func (a *Agent) SetStoppingDistance(d float64) {
	a.stoppingDistance = max(d, 0)
}

// IsStopped reports whether movement along the path is suspended.
func (a *Agent) IsStopped() bool { return a.stopped }

// SetStopped suspends or resumes movement. The path is kept.
func (a *Agent) SetStopped(stopped bool) {
	a.stopped = stopped
	if stopped {
		a.velocity = model.Vec3{}
	}
}

// PathPending is always false; paths are computed on request.
func (a *Agent) PathPending() bool { return false }

// IsOnNavMesh reports whether the agent stands on walkable floor.
func (a *Agent) IsOnNavMesh() bool {
	return !a.disabled && a.grid.IsNavigable(a.position)
}

// CalculatePath plans a route from the current position without applying it.
func (a *Agent) CalculatePath(target model.Vec3) model.Path {
	if a.disabled {
		return model.Path{Status: model.PathInvalid}
	}
	return a.grid.FindPath(a.position, target)
}

// SetDestination plans and applies a route. Returns false when no route
// exists; the previous path is kept in that case.
func (a *Agent) SetDestination(target model.Vec3) bool {
	path := a.CalculatePath(target)
	if !path.Found() {
		return false
	}
	a.corners = path.Corners
	a.destination = target
	a.hasPath = true
	return true
}

// Destination returns the last accepted destination.
func (a *Agent) Destination() model.Vec3 { return a.destination }

// HasPath reports whether a path is applied.
func (a *Agent) HasPath() bool { return a.hasPath && len(a.corners) > 0 }

// ResetPath clears the current path.
func (a *Agent) ResetPath() {
	a.corners = nil
	a.hasPath = false
	a.velocity = model.Vec3{}
}

// Warp teleports the agent, dropping its path. Returns false when the
// target is not on walkable floor.
func (a *Agent) Warp(p model.Vec3) bool {
	if a.disabled || !a.grid.IsNavigable(p) {
		return false
	}
	a.position = p
	a.ResetPath()
	return true
}

// SteeringTarget returns the next corner of the path, or the current
// position when there is none.
func (a *Agent) SteeringTarget() model.Vec3 {
	if len(a.corners) == 0 {
		return a.position
	}
	return a.corners[0]
}

// RemainingDistance returns the path length left to walk. Zero with no path.
func (a *Agent) RemainingDistance() float64 {
	return model.Path{Corners: a.corners}.Length(a.position)
}

// Disable turns the agent off permanently: it stops moving and answers
// every path query as invalid.
func (a *Agent) Disable() {
	a.disabled = true
	a.ResetPath()
}

// Enabled reports whether the agent is active.
func (a *Agent) Enabled() bool { return !a.disabled }

// Step advances the agent along its path by dt seconds.
func (a *Agent) Step(dt float64) {
	if a.disabled || a.stopped || dt <= 0 || len(a.corners) == 0 {
		a.velocity = model.Vec3{}
		return
	}

	if a.RemainingDistance() <= a.stoppingDistance {
		a.velocity = model.Vec3{}
		return
	}

	start := a.position
	budget := a.speed * dt
	// Never walk past the stopping radius around the final corner
	budget = min(budget, a.RemainingDistance()-a.stoppingDistance)

	for budget > 0 && len(a.corners) > 0 {
		next := a.corners[0]
		seg := next.Sub(a.position)
		segLen := seg.Len()
		if segLen <= budget {
			a.position = next
			budget -= segLen
			a.corners = a.corners[1:]
			continue
		}
		a.position = a.position.Add(seg.Mul(budget / segLen))
		budget = 0
	}

	a.velocity = a.position.Sub(start).Mul(1 / dt)
}
