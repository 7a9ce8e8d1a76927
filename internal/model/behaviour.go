package model

import "fmt"

// Primary is the top-level locomotion mode of an agent.
type Primary int32

const (
	// PrimaryIdle - agent stands in its starting pose
	PrimaryIdle Primary = iota
	// PrimaryChase - agent pursues the target
	PrimaryChase
	// PrimaryPatrol - agent waits at a point (patrol stop, lost target, reaction wait)
	PrimaryPatrol
	// PrimaryAttracted - agent walks toward a waypoint or a stimulus
	PrimaryAttracted
)

var primaryNames = [...]string{"IDLE", "CHASE", "PATROL", "ATTRACTED"}

// String returns human-readable primary behaviour name
func (p Primary) String() string {
	if p < 0 || int(p) >= len(primaryNames) {
		return "UNKNOWN"
	}
	return primaryNames[p]
}

// MarshalText encodes the behaviour by name.
func (p Primary) MarshalText() ([]byte, error) {
	if p.String() == "UNKNOWN" {
		return nil, fmt.Errorf("invalid primary behaviour %d", int32(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText decodes a behaviour name.
func (p *Primary) UnmarshalText(text []byte) error {
	v, err := parseEnum(string(text), primaryNames[:], "primary behaviour")
	if err != nil {
		return err
	}
	*p = Primary(v)
	return nil
}

// Secondary is the momentary action overlay of an agent.
type Secondary int32

const (
	// SecondaryNormal - no overlay
	SecondaryNormal Secondary = iota
	// SecondaryAgony - one-shot agony animation, movement halted
	SecondaryAgony
	// SecondaryScream - one-shot scream before the chase
	SecondaryScream
	// SecondaryEating - eating at a hunger point
	SecondaryEating
	// SecondaryReaction - resolving a hit or sound stimulus
	SecondaryReaction
)

var secondaryNames = [...]string{"NORMAL", "AGONY", "SCREAM", "EATING", "REACTION"}

// String returns human-readable secondary behaviour name
func (s Secondary) String() string {
	if s < 0 || int(s) >= len(secondaryNames) {
		return "UNKNOWN"
	}
	return secondaryNames[s]
}

// MarshalText encodes the behaviour by name.
func (s Secondary) MarshalText() ([]byte, error) {
	if s.String() == "UNKNOWN" {
		return nil, fmt.Errorf("invalid secondary behaviour %d", int32(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText decodes a behaviour name.
func (s *Secondary) UnmarshalText(text []byte) error {
	v, err := parseEnum(string(text), secondaryNames[:], "secondary behaviour")
	if err != nil {
		return err
	}
	*s = Secondary(v)
	return nil
}

// ReactionTrigger classifies the interrupt an agent is reacting to.
type ReactionTrigger int32

const (
	ReactionNone ReactionTrigger = iota
	ReactionHit
	ReactionSound
)

var reactionNames = [...]string{"NONE", "HIT", "SOUND"}

// String returns human-readable trigger name
func (r ReactionTrigger) String() string {
	if r < 0 || int(r) >= len(reactionNames) {
		return "UNKNOWN"
	}
	return reactionNames[r]
}

// MarshalText encodes the trigger by name.
func (r ReactionTrigger) MarshalText() ([]byte, error) {
	if r.String() == "UNKNOWN" {
		return nil, fmt.Errorf("invalid reaction trigger %d", int32(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText decodes a trigger name.
func (r *ReactionTrigger) UnmarshalText(text []byte) error {
	v, err := parseEnum(string(text), reactionNames[:], "reaction trigger")
	if err != nil {
		return err
	}
	*r = ReactionTrigger(v)
	return nil
}

// SleepPose is the starting pose of an agent before it first notices anything.
// The numeric value is sent to the animator as IdleState.
type SleepPose int32

const (
	SleepStandUpBack SleepPose = iota
	SleepStandUpFront
	SleepIdle
	SleepNone
)

var sleepNames = [...]string{"STAND_UP_BACK", "STAND_UP_FRONT", "IDLE", "NONE"}

// String returns human-readable pose name
func (s SleepPose) String() string {
	if s < 0 || int(s) >= len(sleepNames) {
		return "UNKNOWN"
	}
	return sleepNames[s]
}

// MarshalText encodes the pose by name.
func (s SleepPose) MarshalText() ([]byte, error) {
	if s.String() == "UNKNOWN" {
		return nil, fmt.Errorf("invalid sleep pose %d", int32(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText decodes a pose name.
func (s *SleepPose) UnmarshalText(text []byte) error {
	v, err := parseEnum(string(text), sleepNames[:], "sleep pose")
	if err != nil {
		return err
	}
	*s = SleepPose(v)
	return nil
}

// PatrolMode selects how an agent moves between waypoints.
type PatrolMode int32

const (
	// PatrolWaypointToWaypoint walks point to point without stopping
	PatrolWaypointToWaypoint PatrolMode = iota
	// PatrolStop stops at each point in the patrol pose
	PatrolStop
	// PatrolStopIdle stops at each point in the idle pose
	PatrolStopIdle
)

var patrolModeNames = [...]string{"WAYPOINT_TO_WAYPOINT", "PATROL", "PATROL_IDLE"}

// String returns human-readable patrol mode name
func (m PatrolMode) String() string {
	if m < 0 || int(m) >= len(patrolModeNames) {
		return "UNKNOWN"
	}
	return patrolModeNames[m]
}

// UnmarshalText decodes a patrol mode name.
func (m *PatrolMode) UnmarshalText(text []byte) error {
	v, err := parseEnum(string(text), patrolModeNames[:], "patrol mode")
	if err != nil {
		return err
	}
	*m = PatrolMode(v)
	return nil
}

// MarshalText encodes the patrol mode by name.
func (m PatrolMode) MarshalText() ([]byte, error) {
	if m.String() == "UNKNOWN" {
		return nil, fmt.Errorf("invalid patrol mode %d", int32(m))
	}
	return []byte(m.String()), nil
}

func parseEnum(s string, names []string, kind string) (int32, error) {
	for i, n := range names {
		if n == s {
			return int32(i), nil
		}
	}
	return 0, fmt.Errorf("unknown %s %q", kind, s)
}
