// Package sim runs zombie agents headless: it builds a scene from a
// scenario, steps navigation, animation and the target in simulated time,
// and fires scripted stimuli.
package sim

import (
	"cmp"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"strconv"

	"github.com/google/uuid"

	"github.com/udisondev/zombieai/internal/ai"
	"github.com/udisondev/zombieai/internal/config"
	"github.com/udisondev/zombieai/internal/model"
	"github.com/udisondev/zombieai/internal/nav"
	"github.com/udisondev/zombieai/internal/world"
)

// defaultAgentHealth is used when a scenario agent has no health set.
const defaultAgentHealth = 100

// Agent is one spawned zombie and its simulated body.
type Agent struct {
	ID       string
	Nav      *nav.Agent
	AI       *ai.ZombieAI
	Animator *Animator
	Audio    *AudioLog
	Health   *Health
	Collider *Collider
}

// Scene owns the grid, the registry, the target and the agents of one
// scenario. Not safe for concurrent use; it is driven from the tick loop.
type Scene struct {
	name     string
	grid     *nav.Grid
	registry *world.Registry
	target   *Target

	agents []*Agent
	byID   map[string]*Agent

	events    []config.EventSpec
	nextEvent int
	clock     float64
}

// NewScene builds a scene. def is the profile of agents that name none;
// seed drives every agent's random source.
func NewScene(sc config.Scenario, def config.Zombie, seed uint64) (*Scene, error) {
	grid, err := nav.ParseGrid(sc.Grid.Rows, sc.Grid.CellSize, sc.Grid.Origin)
	if err != nil {
		return nil, fmt.Errorf("building grid: %w", err)
	}

	registry := world.NewRegistry()
	for _, gs := range sc.WaypointGroups {
		wps := make([]*model.Waypoint, 0, len(gs.Waypoints))
		for _, w := range gs.Waypoints {
			wps = append(wps, model.NewWaypoint(w.Name, w.Position))
		}
		if err := registry.AddGroup(model.NewWaypointGroup(gs.Name, wps...)); err != nil {
			return nil, err
		}
	}
	for _, hp := range sc.HungerPoints {
		registry.AddHungerPoint(model.NewHungerPoint(hp.Name, hp.Position, model.HungerPayload{
			Hunger: hp.Hunger,
			Health: hp.Health,
		}))
	}

	s := &Scene{
		name:     sc.Name,
		grid:     grid,
		registry: registry,
		target:   NewTarget(registry.IDs().NextTargetID(), sc.Target),
		byID:     make(map[string]*Agent, len(sc.Agents)),
		events:   append([]config.EventSpec(nil), sc.Events...),
	}
	slices.SortStableFunc(s.events, func(a, b config.EventSpec) int {
		return cmp.Compare(a.At, b.At)
	})

	for i, spec := range sc.Agents {
		if spec.ID == "" {
			spec.ID = generatedAgentID(sc.Name, i)
			slog.Warn("agent has no id, using a generated one", "index", i, "id", spec.ID)
		}
		rng := rand.New(rand.NewPCG(seed, uint64(i)+1))
		agent, err := s.spawnAgent(spec, sc.ProfileFor(spec, def), rng)
		if err != nil {
			return nil, fmt.Errorf("spawning agent %s: %w", spec.ID, err)
		}
		s.agents = append(s.agents, agent)
		s.byID[agent.ID] = agent
	}

	slog.Info("scene built",
		"scenario", sc.Name,
		"grid", fmt.Sprintf("%dx%d", grid.Width(), grid.Depth()),
		"groups", len(sc.WaypointGroups),
		"hungerPoints", len(sc.HungerPoints),
		"agents", len(s.agents),
		"events", len(s.events))

	return s, nil
}

// generatedAgentID derives a stable ID from the scenario name and the
// agent's index, so saved state still matches on the next run.
func generatedAgentID(scenario string, index int) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(scenario+"/agents/"+strconv.Itoa(index))).String()
}

func (s *Scene) spawnAgent(spec config.AgentSpec, profile config.Zombie, rng *rand.Rand) (*Agent, error) {
	hp := spec.Health
	if hp <= 0 {
		hp = defaultAgentHealth
	}

	agent := &Agent{
		ID:       spec.ID,
		Nav:      nav.NewAgent(s.grid, spec.Position, profile.WalkSpeed),
		Animator: NewAnimator(spec.ID, nil),
		Audio:    NewAudioLog(spec.ID),
		Health:   NewHealth(hp),
		Collider: &Collider{},
	}

	zombie, err := ai.NewZombieAI(s.registry.IDs().NextAgentID(), spec.ID, profile, ai.Deps{
		Nav:         agent.Nav,
		Animator:    agent.Animator,
		Obstruction: s.grid,
		Target:      s.target,
		Registry:    s.registry,
		Audio:       agent.Audio,
		Health:      agent.Health,
		Collider:    agent.Collider,
		Rand:        rng,
	})
	if err != nil {
		return nil, err
	}
	zombie.SetYaw(spec.Yaw)
	agent.Animator.Bind(zombie)
	agent.AI = zombie

	return agent, nil
}

// Name returns the scenario name.
func (s *Scene) Name() string { return s.name }

// Grid returns the navigable surface.
func (s *Scene) Grid() *nav.Grid { return s.grid }

// Registry returns the waypoint and hunger point registry.
func (s *Scene) Registry() *world.Registry { return s.registry }

// Target returns the hunted target.
func (s *Scene) Target() *Target { return s.target }

// Agents returns the agents in scenario order.
func (s *Scene) Agents() []*Agent { return s.agents }

// Agent looks up an agent by ID.
func (s *Scene) Agent(id string) (*Agent, bool) {
	a, ok := s.byID[id]
	return a, ok
}

// Controllers returns the agent controllers in scenario order.
func (s *Scene) Controllers() []*ai.ZombieAI {
	out := make([]*ai.ZombieAI, len(s.agents))
	for i, a := range s.agents {
		out[i] = a.AI
	}
	return out
}

// Clock returns the simulated seconds stepped so far.
func (s *Scene) Clock() float64 { return s.clock }

// Attach hooks the scene into m and registers every controller. Saved
// state must be restored before this call.
func (s *Scene) Attach(m *ai.TickManager) {
	m.OnTick(s.Step)
	for _, a := range s.agents {
		m.Register(a.AI.ObjectID(), a.AI)
	}
}

// Detach unregisters every controller from m and drops any waypoint claim
// still held.
func (s *Scene) Detach(m *ai.TickManager) {
	for _, a := range s.agents {
		m.Unregister(a.AI.ObjectID())
		if n := s.registry.ReleaseClaims(a.AI.ObjectID()); n > 0 {
			slog.Warn("stale waypoint claims released", "agent", a.ID, "claims", n)
		}
	}
}

// Step fires due events, then moves the target and advances every agent's
// navigation and animation by dt seconds. Controllers tick afterwards.
func (s *Scene) Step(dt float64) {
	s.clock += dt

	for s.nextEvent < len(s.events) && s.events[s.nextEvent].At <= s.clock {
		s.fire(s.events[s.nextEvent])
		s.nextEvent++
	}

	s.target.Step(dt)
	for _, a := range s.agents {
		a.Nav.Step(dt)
		a.Animator.Step(dt)
	}
}

func (s *Scene) fire(e config.EventSpec) {
	slog.Info("scripted event", "kind", e.Kind, "at", e.At, "agent", e.Agent)

	if e.Kind == config.EventTargetDeath {
		s.target.Kill()
		return
	}

	agents := s.agents
	if e.Agent != "" {
		a, ok := s.byID[e.Agent]
		if !ok {
			slog.Warn("scripted event names unknown agent", "agent", e.Agent)
			return
		}
		agents = []*Agent{a}
	}

	for _, a := range agents {
		if a.AI.IsDead() {
			continue
		}
		switch e.Kind {
		case config.EventHit:
			a.AI.HitReaction()
			if e.Damage > 0 {
				a.Health.AddHealth(-e.Damage)
				if a.Health.Depleted() {
					a.AI.DeathTrigger()
				}
			}
		case config.EventSound:
			a.AI.SoundReaction(e.SoundType, model.Distance(a.AI.Position(), e.Position), e.Position)
		case config.EventKill:
			a.AI.DeathTrigger()
		}
	}
}

// LogSummary logs the final state of every agent and the target.
func (s *Scene) LogSummary() {
	for _, a := range s.agents {
		slog.Info("agent summary",
			"agent", a.ID,
			"state", a.AI.CurrentState(),
			"dead", a.AI.IsDead(),
			"position", a.AI.Position(),
			"health", a.Health.Current(),
			"sounds", len(a.Audio.Played()))
	}
	slog.Info("target summary",
		"dead", s.target.IsDead(),
		"health", s.target.Health(),
		"damageTaken", s.target.DamageTaken(),
		"position", s.target.Position())
}
