package model

// PathStatus is the outcome of a path query.
type PathStatus int32

const (
	// PathComplete - the destination is reachable
	PathComplete PathStatus = iota
	// PathPartial - only a point near the destination is reachable
	PathPartial
	// PathInvalid - no path could be computed
	PathInvalid
)

// String returns human-readable status name
func (s PathStatus) String() string {
	switch s {
	case PathComplete:
		return "COMPLETE"
	case PathPartial:
		return "PARTIAL"
	case PathInvalid:
		return "INVALID"
	default:
		return "UNKNOWN"
	}
}

// Path is a planned route. Corners exclude the start point and end at the
// last reachable point.
type Path struct {
	Status  PathStatus
	Corners []Vec3
}

// Found reports whether any route was produced (complete or partial).
func (p Path) Found() bool {
	return p.Status != PathInvalid
}

// Reachable reports whether the destination itself is reachable.
func (p Path) Reachable() bool {
	return p.Status == PathComplete
}

// Length returns the route length from start through every corner.
func (p Path) Length(start Vec3) float64 {
	total := 0.0
	prev := start
	for _, c := range p.Corners {
		total += Distance(prev, c)
		prev = c
	}
	return total
}
