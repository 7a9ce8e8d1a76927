package ai

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/udisondev/zombieai/internal/model"
)

// bindWaypoints binds the agent to the group whose closest member is
// nearest. Ties go to the group registered first.
func (z *ZombieAI) bindWaypoints() {
	next := z.findClosestGroup()
	if next != z.group {
		z.releaseWaypoint()
		z.group = next
		z.goToLastWaypoint = false

		if next != nil && IsDebugEnabled() {
			slog.Debug("agent bound to waypoint group", "agent", z.key, "group", next.Name)
		}
	}
	z.waypointsAssigned = true
}

func (z *ZombieAI) findClosestGroup() *model.WaypointGroup {
	pos := z.Position()

	var (
		best     *model.WaypointGroup
		bestDist float64
	)
	for _, g := range z.registry.Groups() {
		d, ok := g.ClosestDistance(pos)
		if !ok {
			continue
		}
		if best == nil || d < bestDist {
			best, bestDist = g, d
		}
	}
	return best
}

// nextWaypoint picks, claims and returns the next patrol point. When no
// point qualifies the agent's own position is returned so it holds.
// Returns false when the agent has no usable group at all.
func (z *ZombieAI) nextWaypoint() (model.Vec3, bool) {
	if z.group == nil || len(z.group.Waypoints) < 2 {
		z.reportOnce("no-waypoints", "could not set next waypoint: no waypoint group with at least two points")
		return model.Vec3{}, false
	}

	if z.cfg.RandomWaypoint {
		return z.nextRandomWaypoint()
	}
	return z.nextSequentialWaypoint()
}

// nextRandomWaypoint chooses uniformly among free, reachable points other
// than the last one visited.
func (z *ZombieAI) nextRandomWaypoint() (model.Vec3, bool) {
	candidates := make([]*model.Waypoint, 0, len(z.group.Waypoints))
	for _, wp := range z.group.Waypoints {
		if wp == z.visited || wp.IsClaimed() || !z.isPathPossible(wp.Position) {
			continue
		}
		candidates = append(candidates, wp)
	}

	if len(candidates) == 0 {
		if IsDebugEnabled() {
			slog.Debug("no free waypoint, holding", "agent", z.key, "group", z.group.Name)
		}
		return z.Position(), true
	}

	return z.claimWaypoint(candidates[z.rng.IntN(len(candidates))])
}

// nextSequentialWaypoint walks reachable points in name order, wrapping.
func (z *ZombieAI) nextSequentialWaypoint() (model.Vec3, bool) {
	candidates := make([]*model.Waypoint, 0, len(z.group.Waypoints))
	for _, wp := range z.group.Waypoints {
		owner := wp.Owner()
		if owner != 0 && owner != z.objectID || !z.isPathPossible(wp.Position) {
			continue
		}
		candidates = append(candidates, wp)
	}
	slices.SortStableFunc(candidates, func(a, b *model.Waypoint) int {
		return strings.Compare(a.Name, b.Name)
	})

	if len(candidates) == 0 {
		z.reportOnce("no-reachable-waypoint", "no reachable waypoint, holding position", "group", z.group.Name)
		return z.Position(), true
	}

	next := 0
	if i := slices.Index(candidates, z.visited); i >= 0 && i < len(candidates)-1 {
		next = i + 1
	}
	return z.claimWaypoint(candidates[next])
}

// claimWaypoint moves the agent's claim to wp.
func (z *ZombieAI) claimWaypoint(wp *model.Waypoint) (model.Vec3, bool) {
	prev := z.waypoint
	z.releaseWaypoint()

	if !wp.Claim(z.objectID) {
		// lost the race for it; keep the old claim if still free
		if prev != nil && prev.Claim(z.objectID) {
			z.waypoint = prev
		}
		return z.Position(), true
	}

	z.waypoint = wp
	z.visited = wp
	z.lastWaypointPos = wp.Position
	return wp.Position, true
}

// releaseWaypoint drops the agent's claim, if any.
func (z *ZombieAI) releaseWaypoint() {
	if z.waypoint == nil {
		return
	}
	z.waypoint.Release(z.objectID)
	z.waypoint = nil
}

// isPathPossible reports whether p is fully reachable.
func (z *ZombieAI) isPathPossible(p model.Vec3) bool {
	return z.nav.CalculatePath(p).Reachable()
}

// pathLength returns the walking distance to p: the planned corners plus
// the final leg to p itself.
func (z *ZombieAI) pathLength(p model.Vec3) float64 {
	pos := z.Position()
	path := z.nav.CalculatePath(p)

	last := pos
	if n := len(path.Corners); n > 0 {
		last = path.Corners[n-1]
	}
	return path.Length(pos) + model.Distance(last, p)
}

// findHungerPoint returns the reachable hunger point with the GREATEST
// path length. Nil when none is reachable.
func (z *ZombieAI) findHungerPoint() *model.HungerPoint {
	var (
		best    *model.HungerPoint
		bestLen float64
	)
	for _, hp := range z.registry.HungerPoints() {
		if !z.isPathPossible(hp.Position) {
			continue
		}
		if l := z.pathLength(hp.Position); best == nil || l > bestLen {
			best, bestLen = hp, l
		}
	}
	return best
}
