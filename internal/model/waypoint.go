package model

import "sync/atomic"

// Waypoint is a patrol point that at most one agent may claim at a time.
// Claims are compare-and-swap so they stay exclusive even when agents tick
// on different goroutines.
type Waypoint struct {
	Name     string
	Position Vec3

	owner atomic.Uint32 // objectID of the claiming agent, 0 = free
}

// NewWaypoint creates an unclaimed waypoint.
func NewWaypoint(name string, pos Vec3) *Waypoint {
	return &Waypoint{Name: name, Position: pos}
}

// Claim reserves the waypoint for agentID. Returns true if the agent now
// holds the claim (including when it already did).
func (w *Waypoint) Claim(agentID uint32) bool {
	if agentID == 0 {
		return false
	}
	if w.owner.CompareAndSwap(0, agentID) {
		return true
	}
	return w.owner.Load() == agentID
}

// Release drops the claim if agentID holds it.
func (w *Waypoint) Release(agentID uint32) bool {
	if agentID == 0 {
		return false
	}
	return w.owner.CompareAndSwap(agentID, 0)
}

// IsClaimed reports whether any agent holds the waypoint.
func (w *Waypoint) IsClaimed() bool {
	return w.owner.Load() != 0
}

// Owner returns the claiming agent's objectID, 0 if free.
func (w *Waypoint) Owner() uint32 {
	return w.owner.Load()
}

// WaypointGroup is a set of waypoints covering one region of the scene.
type WaypointGroup struct {
	Name      string
	Waypoints []*Waypoint
}

// NewWaypointGroup creates a group over the given waypoints.
func NewWaypointGroup(name string, waypoints ...*Waypoint) *WaypointGroup {
	return &WaypointGroup{Name: name, Waypoints: waypoints}
}

// ClosestDistance returns the distance from pos to the nearest member.
// Returns false for an empty group.
func (g *WaypointGroup) ClosestDistance(pos Vec3) (float64, bool) {
	if len(g.Waypoints) == 0 {
		return 0, false
	}
	best := Distance(pos, g.Waypoints[0].Position)
	for _, wp := range g.Waypoints[1:] {
		if d := Distance(pos, wp.Position); d < best {
			best = d
		}
	}
	return best, true
}

// HungerPayload is what an agent gains by eating at a hunger point.
type HungerPayload struct {
	Hunger float64 `json:"hunger" yaml:"hunger"`
	Health float64 `json:"health" yaml:"health"`
}

// HungerPoint is a stationary feeding location. Not claimable.
type HungerPoint struct {
	Name     string
	Position Vec3
	Payload  HungerPayload
}

// NewHungerPoint creates a hunger point.
func NewHungerPoint(name string, pos Vec3, payload HungerPayload) *HungerPoint {
	return &HungerPoint{Name: name, Position: pos, Payload: payload}
}
