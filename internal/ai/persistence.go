package ai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/udisondev/zombieai/internal/model"
)

// Save captures the agent's persistent state.
func (z *ZombieAI) Save() model.AgentState {
	return model.AgentState{
		Position:        z.Position(),
		Yaw:             z.loc.Yaw,
		Sleep:           z.sleep,
		Primary:         z.state.Primary,
		Secondary:       z.state.Secondary,
		Trigger:         z.state.Reaction,
		Reaction:        z.reaction,
		Dead:            z.dead,
		HungerPoints:    z.hungerPoints,
		AgonyTime:       z.agonyTime,
		LastWaypointPos: z.lastWaypointPos,
		LastChasePos:    z.lastChasePosition,
		CanContinue:     z.canContinue,
		CanScream:       z.canScream,
	}
}

// Load restores a saved record. Call before Start. A dead record
// deactivates the agent at once, without sound or animation.
func (z *ZombieAI) Load(s model.AgentState) {
	z.loaded = true

	z.SetYaw(s.Yaw)
	z.sleep = s.Sleep
	z.state = s.State().Normalize()
	z.reaction = s.Reaction
	if z.state.Reaction == model.ReactionNone {
		z.reaction = model.Reaction{}
	}

	z.hungerPoints = s.HungerPoints
	z.agonyTime = s.AgonyTime
	z.agonyWait = s.AgonyTime > 0
	z.lastWaypointPos = s.LastWaypointPos
	z.lastChasePosition = s.LastChasePos
	z.canContinue = s.CanContinue
	z.canScream = s.CanScream

	if z.state.Reaction != model.ReactionNone {
		// resume the reaction from its resolution step
		z.reactionPending = true
		z.canReact = false
		z.primaryPending = true
		z.secondaryPending = false
		z.hasTurned = false
	}

	if s.Dead {
		z.loc = z.loc.WithPosition(s.Position)
		z.die(true)
		return
	}

	if !z.nav.Warp(s.Position) {
		slog.Warn("saved position is not navigable, keeping spawn", "agent", z.key, "position", s.Position)
	}
	z.loc = z.loc.WithPosition(z.nav.Position())
}

// SaveAll writes every agent to store, in one batch when the store
// supports it.
func SaveAll(ctx context.Context, store StateStore, agents []*ZombieAI) error {
	if bs, ok := store.(BatchStateStore); ok {
		states := make(map[string]model.AgentState, len(agents))
		for _, z := range agents {
			states[z.Key()] = z.Save()
		}
		if err := bs.SaveAgentStates(ctx, states); err != nil {
			return fmt.Errorf("saving %d agents: %w", len(states), err)
		}
		return nil
	}

	for _, z := range agents {
		if err := store.SaveAgentState(ctx, z.Key(), z.Save()); err != nil {
			return fmt.Errorf("saving agent %s: %w", z.Key(), err)
		}
	}
	return nil
}

// RestoreAll loads the saved record of every agent that has one and
// returns how many were restored.
func RestoreAll(ctx context.Context, store StateStore, agents []*ZombieAI) (int, error) {
	restored := 0
	for _, z := range agents {
		s, found, err := store.LoadAgentState(ctx, z.Key())
		if err != nil {
			return restored, fmt.Errorf("loading agent %s: %w", z.Key(), err)
		}
		if !found {
			continue
		}
		z.Load(s)
		restored++
	}
	return restored, nil
}
