package model

// State is the three-layer behaviour state of an agent.
//
// Primary transitions (self-loops always allowed):
//
//	IDLE      -> CHASE, PATROL, ATTRACTED
//	CHASE     -> PATROL
//	PATROL    -> CHASE, ATTRACTED
//	ATTRACTED -> CHASE, PATROL
//
// Secondary transitions (self-loops always allowed):
//
//	NORMAL   -> AGONY, SCREAM, EATING, REACTION
//	AGONY    -> NORMAL, REACTION
//	EATING   -> NORMAL, REACTION
//	SCREAM   -> NORMAL
//	REACTION -> NORMAL, SCREAM
//
// Layer invariant: Reaction != NONE if and only if Secondary == REACTION.
type State struct {
	Primary   Primary
	Secondary Secondary
	Reaction  ReactionTrigger
}

var primaryEdges = map[Primary][]Primary{
	PrimaryIdle:      {PrimaryChase, PrimaryPatrol, PrimaryAttracted},
	PrimaryChase:     {PrimaryPatrol},
	PrimaryPatrol:    {PrimaryChase, PrimaryAttracted},
	PrimaryAttracted: {PrimaryChase, PrimaryPatrol},
}

var secondaryEdges = map[Secondary][]Secondary{
	SecondaryNormal:   {SecondaryAgony, SecondaryScream, SecondaryEating, SecondaryReaction},
	SecondaryAgony:    {SecondaryNormal, SecondaryReaction},
	SecondaryEating:   {SecondaryNormal, SecondaryReaction},
	SecondaryScream:   {SecondaryNormal},
	SecondaryReaction: {SecondaryNormal, SecondaryScream},
}

// CanTransitionPrimary reports whether from -> to is a legal primary edge.
func CanTransitionPrimary(from, to Primary) bool {
	if from == to {
		return true
	}
	for _, p := range primaryEdges[from] {
		if p == to {
			return true
		}
	}
	return false
}

// CanTransitionSecondary reports whether from -> to is a legal secondary edge.
func CanTransitionSecondary(from, to Secondary) bool {
	if from == to {
		return true
	}
	for _, s := range secondaryEdges[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Valid reports whether the layers form a legal combination.
func (s State) Valid() bool {
	if s.Primary.String() == "UNKNOWN" || s.Secondary.String() == "UNKNOWN" || s.Reaction.String() == "UNKNOWN" {
		return false
	}
	if (s.Reaction != ReactionNone) != (s.Secondary == SecondaryReaction) {
		return false
	}
	// A chasing agent never reacts and is never busy agonizing or eating.
	if s.Primary == PrimaryChase {
		switch s.Secondary {
		case SecondaryReaction, SecondaryAgony, SecondaryEating:
			return false
		}
	}
	return true
}

// Normalize repairs a combination restored from storage: a reaction overlay
// without a trigger (or the reverse) falls back to NORMAL / NONE.
func (s State) Normalize() State {
	if s.Secondary == SecondaryReaction && s.Reaction == ReactionNone {
		s.Secondary = SecondaryNormal
	}
	if s.Reaction != ReactionNone && s.Secondary != SecondaryReaction {
		s.Reaction = ReactionNone
	}
	if s.Primary == PrimaryChase && !s.Valid() {
		s.Secondary = SecondaryNormal
		s.Reaction = ReactionNone
	}
	return s
}

func (s State) String() string {
	return s.Primary.String() + "/" + s.Secondary.String() + "/" + s.Reaction.String()
}
