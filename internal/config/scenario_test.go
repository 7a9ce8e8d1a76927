package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/zombieai/internal/model"
)

const sampleScenario = `
name: corridor
grid:
  cell_size: 1
  origin: [0, 0, 0]
  rows:
    - "........"
    - "..##...."
    - "........"
waypoint_groups:
  - name: west
    waypoints:
      - {name: w1, position: [0.5, 0, 0.5]}
      - {name: w2, position: [0.5, 0, 2.5]}
hunger_points:
  - {name: carcass, position: [7.5, 0, 2.5], hunger: 40, health: 15}
target:
  route: [[7.5, 0, 0.5], [7.5, 0, 2.5]]
  speed: 1.5
  head_height: 1.7
  health: 100
profiles:
  runner:
    sleep_behaviour: NONE
    run_speed: 7
agents:
  - {id: z1, position: [1.5, 0, 0.5], profile: runner}
  - {position: [2.5, 0, 2.5]}
events:
  - {at: 3, kind: sound, agent: z1, position: [5.5, 0, 0.5]}
  - {at: 9, kind: kill}
`

func TestLoadScenario(t *testing.T) {
	sc, err := LoadScenario(writeFile(t, "scene.yaml", sampleScenario))
	require.NoError(t, err)

	assert.Equal(t, "corridor", sc.Name)
	assert.Len(t, sc.Grid.Rows, 3)
	require.Len(t, sc.WaypointGroups, 1)
	assert.Equal(t, model.Vec3{0.5, 0, 2.5}, sc.WaypointGroups[0].Waypoints[1].Position)
	require.Len(t, sc.HungerPoints, 1)
	assert.Equal(t, 40.0, sc.HungerPoints[0].Hunger)
	assert.Len(t, sc.Target.Route, 2)
	require.Len(t, sc.Agents, 2)
	require.Len(t, sc.Events, 2)
	assert.Equal(t, EventSound, sc.Events[0].Kind)

	runner := sc.ProfileFor(sc.Agents[0], DefaultZombie())
	assert.Equal(t, model.SleepNone, runner.SleepBehaviour)
	assert.Equal(t, 7.0, runner.RunSpeed)
	assert.Equal(t, 0.4, runner.WalkSpeed, "profile keeps stock values")

	def := DefaultZombie()
	def.WalkSpeed = 1
	assert.Equal(t, def, sc.ProfileFor(sc.Agents[1], def))
}

func TestLoadScenarioMissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestScenarioValidate(t *testing.T) {
	valid := func() Scenario {
		return Scenario{
			Grid:   GridSpec{CellSize: 1, Rows: []string{"..."}},
			Target: TargetSpec{Route: []model.Vec3{{0.5, 0, 0.5}}},
			Agents: []AgentSpec{{ID: "a"}},
		}
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(s *Scenario)
	}{
		{"no rows", func(s *Scenario) { s.Grid.Rows = nil }},
		{"zero cell", func(s *Scenario) { s.Grid.CellSize = 0 }},
		{"no route", func(s *Scenario) { s.Target.Route = nil }},
		{"empty group", func(s *Scenario) { s.WaypointGroups = []WaypointGroupSpec{{Name: "g"}} }},
		{"duplicate group", func(s *Scenario) {
			wp := []WaypointSpec{{Name: "p"}}
			s.WaypointGroups = []WaypointGroupSpec{{Name: "g", Waypoints: wp}, {Name: "g", Waypoints: wp}}
		}},
		{"duplicate agent", func(s *Scenario) { s.Agents = append(s.Agents, AgentSpec{ID: "a"}) }},
		{"unknown profile", func(s *Scenario) { s.Agents[0].Profile = "ghost" }},
		{"unknown event kind", func(s *Scenario) { s.Events = []EventSpec{{Kind: "explode"}} }},
		{"unknown event agent", func(s *Scenario) { s.Events = []EventSpec{{Kind: EventHit, Agent: "b"}} }},
		{"negative event time", func(s *Scenario) { s.Events = []EventSpec{{Kind: EventKill, At: -1}} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.mutate(&s)
			assert.Error(t, s.Validate())
		})
	}
}
