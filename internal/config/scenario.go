package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/zombieai/internal/model"
)

// Scripted event kinds.
const (
	EventHit         = "hit"
	EventSound       = "sound"
	EventKill        = "kill"
	EventTargetDeath = "target_death"
)

// Scenario describes one scene: the walkable grid, patrol points, hunger
// points, the target route and the agents.
type Scenario struct {
	Name           string              `yaml:"name"`
	Grid           GridSpec            `yaml:"grid"`
	WaypointGroups []WaypointGroupSpec `yaml:"waypoint_groups"`
	HungerPoints   []HungerPointSpec   `yaml:"hunger_points"`
	Target         TargetSpec          `yaml:"target"`
	Profiles       map[string]Zombie   `yaml:"profiles"`
	Agents         []AgentSpec         `yaml:"agents"`
	Events         []EventSpec         `yaml:"events"`
}

// GridSpec is the navigable surface in text form ('.' floor, '#' wall, '+' prop).
type GridSpec struct {
	CellSize float64    `yaml:"cell_size"`
	Origin   model.Vec3 `yaml:"origin"`
	Rows     []string   `yaml:"rows"`
}

// WaypointGroupSpec is a named set of patrol points.
type WaypointGroupSpec struct {
	Name      string         `yaml:"name"`
	Waypoints []WaypointSpec `yaml:"waypoints"`
}

// WaypointSpec is one patrol point.
type WaypointSpec struct {
	Name     string     `yaml:"name"`
	Position model.Vec3 `yaml:"position"`
}

// HungerPointSpec is one feeding location.
type HungerPointSpec struct {
	Name     string     `yaml:"name"`
	Position model.Vec3 `yaml:"position"`
	Hunger   float64    `yaml:"hunger"`
	Health   float64    `yaml:"health"`
}

// TargetSpec describes the scripted target the agents hunt.
type TargetSpec struct {
	Route      []model.Vec3 `yaml:"route"`
	Speed      float64      `yaml:"speed"`
	Loop       bool         `yaml:"loop"`
	HeadHeight float64      `yaml:"head_height"`
	Health     float64      `yaml:"health"`
}

// AgentSpec places one agent. ID is the persistence key; empty IDs are
// generated at scene build time.
type AgentSpec struct {
	ID       string     `yaml:"id"`
	Position model.Vec3 `yaml:"position"`
	Yaw      float64    `yaml:"yaw"`
	Health   float64    `yaml:"health"`
	Profile  string     `yaml:"profile"`
}

// EventSpec is a stimulus fired at a simulated time.
type EventSpec struct {
	At        float64    `yaml:"at"` // seconds since start
	Kind      string     `yaml:"kind"`
	Agent     string     `yaml:"agent"` // empty = every agent
	SoundType int        `yaml:"sound_type"`
	Position  model.Vec3 `yaml:"position"`
	Damage    float64    `yaml:"damage"`
}

// LoadScenario reads and validates a scenario file.
func LoadScenario(path string) (Scenario, error) {
	var sc Scenario

	data, err := os.ReadFile(path)
	if err != nil {
		return sc, fmt.Errorf("reading scenario %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &sc); err != nil {
		return sc, fmt.Errorf("parsing scenario %s: %w", path, err)
	}

	if err := sc.Validate(); err != nil {
		return sc, fmt.Errorf("validating scenario %s: %w", path, err)
	}

	return sc, nil
}

// Validate checks references and required sections.
func (s Scenario) Validate() error {
	if len(s.Grid.Rows) == 0 {
		return fmt.Errorf("grid has no rows")
	}
	if s.Grid.CellSize <= 0 {
		return fmt.Errorf("grid cell_size must be positive, got %v", s.Grid.CellSize)
	}
	if len(s.Target.Route) == 0 {
		return fmt.Errorf("target route is empty")
	}

	groups := make(map[string]struct{}, len(s.WaypointGroups))
	for _, g := range s.WaypointGroups {
		if _, dup := groups[g.Name]; dup {
			return fmt.Errorf("duplicate waypoint group %q", g.Name)
		}
		groups[g.Name] = struct{}{}
		if len(g.Waypoints) == 0 {
			return fmt.Errorf("waypoint group %q is empty", g.Name)
		}
	}

	for name, p := range s.Profiles {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("profile %q: %w", name, err)
		}
	}

	ids := make(map[string]struct{}, len(s.Agents))
	for i, a := range s.Agents {
		if a.Profile != "" {
			if _, ok := s.Profiles[a.Profile]; !ok {
				return fmt.Errorf("agent %d: unknown profile %q", i, a.Profile)
			}
		}
		if a.ID == "" {
			continue
		}
		if _, dup := ids[a.ID]; dup {
			return fmt.Errorf("duplicate agent id %q", a.ID)
		}
		ids[a.ID] = struct{}{}
	}

	for i, e := range s.Events {
		switch e.Kind {
		case EventHit, EventSound, EventKill, EventTargetDeath:
		default:
			return fmt.Errorf("event %d: unknown kind %q", i, e.Kind)
		}
		if e.At < 0 {
			return fmt.Errorf("event %d: negative time %v", i, e.At)
		}
		if e.Agent != "" {
			if _, ok := ids[e.Agent]; !ok {
				return fmt.Errorf("event %d: unknown agent %q", i, e.Agent)
			}
		}
	}

	return nil
}

// ProfileFor returns the profile an agent runs with, falling back to def.
func (s Scenario) ProfileFor(a AgentSpec, def Zombie) Zombie {
	if p, ok := s.Profiles[a.Profile]; ok {
		return p
	}
	return def
}
