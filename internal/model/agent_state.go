package model

// AgentState is the persisted record of one agent, keyed by its stable ID.
type AgentState struct {
	Position        Vec3            `json:"position"`
	Yaw             float64         `json:"rotation_y"`
	Sleep           SleepPose       `json:"sleep_behaviour"`
	Primary         Primary         `json:"primary_behaviour"`
	Secondary       Secondary       `json:"secondary_behaviour"`
	Trigger         ReactionTrigger `json:"reaction_trigger"`
	Reaction        Reaction        `json:"reaction_data"`
	Dead            bool            `json:"npc_dead"`
	HungerPoints    float64         `json:"hunger_points"`
	AgonyTime       float64         `json:"agony_time"`
	LastWaypointPos Vec3            `json:"last_waypoint_pos"`
	LastChasePos    Vec3            `json:"last_chase_pos"`
	CanContinue     bool            `json:"can_continue"`
	CanScream       bool            `json:"can_scream"`
}

// State returns the behaviour layers of the record.
func (s AgentState) State() State {
	return State{Primary: s.Primary, Secondary: s.Secondary, Reaction: s.Trigger}
}
