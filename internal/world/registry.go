package world

import (
	"fmt"
	"sync"

	"github.com/udisondev/zombieai/internal/model"
)

// Registry holds the scene-wide waypoint groups and hunger points.
// It is owned by the scene and handed to every agent explicitly.
// Read access is shared; the only mutable per-entry state is the
// waypoint claim, which is atomic on the waypoint itself.
type Registry struct {
	mu     sync.RWMutex
	groups []*model.WaypointGroup
	hunger []*model.HungerPoint
	ids    *ObjectIDGenerator
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{ids: NewObjectIDGenerator()}
}

// IDs returns the object ID generator of this scene.
func (r *Registry) IDs() *ObjectIDGenerator {
	return r.ids
}

// AddGroup registers a waypoint group. Group names must be unique.
func (r *Registry) AddGroup(g *model.WaypointGroup) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.groups {
		if existing.Name == g.Name {
			return fmt.Errorf("waypoint group %q already registered", g.Name)
		}
	}
	r.groups = append(r.groups, g)
	return nil
}

// AddHungerPoint registers a hunger point.
func (r *Registry) AddHungerPoint(hp *model.HungerPoint) {
	r.mu.Lock()
	r.hunger = append(r.hunger, hp)
	r.mu.Unlock()
}

// Groups returns the groups in registration order.
func (r *Registry) Groups() []*model.WaypointGroup {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*model.WaypointGroup(nil), r.groups...)
}

// Group looks up a group by name.
func (r *Registry) Group(name string) (*model.WaypointGroup, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, g := range r.groups {
		if g.Name == name {
			return g, true
		}
	}
	return nil, false
}

// HungerPoints returns the hunger points in registration order.
func (r *Registry) HungerPoints() []*model.HungerPoint {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*model.HungerPoint(nil), r.hunger...)
}

// ReleaseClaims drops every waypoint claim held by agentID.
// Returns the number of claims released.
func (r *Registry) ReleaseClaims(agentID uint32) int {
	if !IsAgentID(agentID) {
		return 0
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	released := 0
	for _, g := range r.groups {
		for _, wp := range g.Waypoints {
			if wp.Release(agentID) {
				released++
			}
		}
	}
	return released
}

// ClaimedBy returns the waypoints currently held by agentID.
func (r *Registry) ClaimedBy(agentID uint32) []*model.Waypoint {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var held []*model.Waypoint
	for _, g := range r.groups {
		for _, wp := range g.Waypoints {
			if wp.Owner() == agentID {
				held = append(held, wp)
			}
		}
	}
	return held
}
