package model

// Reaction describes one hit or sound stimulus relative to the agent.
// Consumed once per reaction cycle, then reset to the zero value.
type Reaction struct {
	Distance float64 `json:"distance"`
	Angle    int     `json:"angle"` // signed horizontal angle, positive to the right
	Position Vec3    `json:"position"`
}

// IsZero reports whether no stimulus is pending.
func (r Reaction) IsZero() bool {
	return r == Reaction{}
}
