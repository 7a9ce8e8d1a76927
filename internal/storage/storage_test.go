package storage

import (
	"github.com/udisondev/zombieai/internal/ai"
	"github.com/udisondev/zombieai/internal/model"
)

var (
	_ ai.BatchStateStore = (*RedisStore)(nil)
	_ ai.BatchStateStore = (*SnapshotStore)(nil)
)

func sampleState() model.AgentState {
	return model.AgentState{
		Position:  model.Vec3{5.5, 0, 7.5},
		Yaw:       90,
		Sleep:     model.SleepNone,
		Primary:   model.PrimaryPatrol,
		Secondary: model.SecondaryReaction,
		Trigger:   model.ReactionSound,
		Reaction: model.Reaction{
			Distance: 12,
			Angle:    -45,
			Position: model.Vec3{1.5, 0, 2.5},
		},
		HungerPoints:    12.5,
		AgonyTime:       3.25,
		LastWaypointPos: model.Vec3{8.5, 0, 8.5},
		LastChasePos:    model.Vec3{2.5, 0, 9.5},
		CanContinue:     true,
	}
}
