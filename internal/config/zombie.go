package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/zombieai/internal/model"
)

// Range is an inclusive [Min, Max] interval for uniform draws.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Valid reports whether Min <= Max.
func (r Range) Valid() bool { return r.Min <= r.Max }

// Sounds names the clips played per slot. Empty names are skipped.
type Sounds struct {
	Scream     string   `yaml:"scream"`
	Eating     string   `yaml:"eating"`
	Agonize    string   `yaml:"agonize"`
	TakeDamage string   `yaml:"take_damage"`
	Die        string   `yaml:"die"`
	Idle       []string `yaml:"idle"`
	Reaction   []string `yaml:"reaction"`
	Attack     []string `yaml:"attack"`
}

// SoundVolumes holds per-slot playback volume in [0, 1].
type SoundVolumes struct {
	Scream     float64 `yaml:"scream"`
	Eating     float64 `yaml:"eating"`
	Agonize    float64 `yaml:"agonize"`
	TakeDamage float64 `yaml:"take_damage"`
	Die        float64 `yaml:"die"`
	Idle       float64 `yaml:"idle"`
	Reaction   float64 `yaml:"reaction"`
	Attack     float64 `yaml:"attack"`
}

// Zombie holds the behaviour tunables of one agent profile.
// Durations are in simulated seconds, angles in degrees.
type Zombie struct {
	// Behaviour main
	SleepBehaviour   model.SleepPose  `yaml:"sleep_behaviour"`
	GeneralBehaviour model.PatrolMode `yaml:"general_behaviour"`

	// Main setup
	AttackAnimations  int    `yaml:"attack_animations"`
	SearchMask        uint32 `yaml:"search_mask"`
	WaypointsReassign bool   `yaml:"waypoints_reassign"`
	TargetInvisible   bool   `yaml:"target_invisible"`

	// Target damage
	DamageValue    Range      `yaml:"damage_value"`
	DamageKickback [2]float64 `yaml:"damage_kickback"`
	KickbackTime   float64    `yaml:"kickback_time"`
	DamageTarget   bool       `yaml:"damage_target"`

	// Behaviour settings
	EnableScream        bool    `yaml:"enable_scream"`
	EnableAgony         bool    `yaml:"enable_agony"`
	EnableHunger        bool    `yaml:"enable_hunger"`
	SoundReaction       bool    `yaml:"sound_reaction"`
	RunToTarget         bool    `yaml:"run_to_target"`
	RandomWaypoint      bool    `yaml:"random_waypoint"`
	HungerRecoverHealth bool    `yaml:"hunger_recover_health"`
	TargetLostPatrol    float64 `yaml:"target_lost_patrol"`
	HungerPoints        float64 `yaml:"hunger_points"`
	PatrolTime          Range   `yaml:"patrol_time"`
	ScreamNext          Range   `yaml:"scream_next"`
	AgonyNext           Range   `yaml:"agony_next"`

	// Sensors
	HeadOffset        model.Vec3 `yaml:"head_offset"`
	ReactionAngleTurn int        `yaml:"reaction_angle_turn"`
	SoundReactClose   float64    `yaml:"sound_react_close"`
	SoundReactFar     float64    `yaml:"sound_react_far"`

	// Sensor settings
	SightsFOV      float64 `yaml:"sights_fov"`
	AttackFOV      float64 `yaml:"attack_fov"`
	SightsDistance float64 `yaml:"sights_distance"`
	AttackDistance float64 `yaml:"attack_distance"`
	IdleHearRange  float64 `yaml:"idle_hear_range"`
	ChaseTimeHide  float64 `yaml:"chase_time_hide"`

	// Locomotion
	WalkSpeed        float64 `yaml:"walk_speed"`
	RunSpeed         float64 `yaml:"run_speed"`
	RotationSpeed    float64 `yaml:"rotation_speed"`
	SpeedChangeSpeed float64 `yaml:"speed_change_speed"`
	WalkRootMotion   bool    `yaml:"walk_root_motion"`

	// Sounds
	Sounds               Sounds       `yaml:"sounds"`
	Volumes              SoundVolumes `yaml:"volumes"`
	PlayAttractedSounds  bool         `yaml:"play_attracted_sounds"`
	EventPlayAttackSound bool         `yaml:"event_play_attack_sound"`
	EventPlayScreamSound bool         `yaml:"event_play_scream_sound"`
	EventPlayAgonySound  bool         `yaml:"event_play_agony_sound"`
	EventPlayEatSound    bool         `yaml:"event_play_eat_sound"`
}

// DefaultZombie returns the stock zombie profile.
func DefaultZombie() Zombie {
	return Zombie{
		SleepBehaviour:      model.SleepStandUpBack,
		GeneralBehaviour:    model.PatrolStop,
		AttackAnimations:    4,
		SearchMask:          1, // walls
		WaypointsReassign:   true,
		DamageValue:         Range{Min: 20, Max: 40},
		EnableScream:        true,
		EnableAgony:         true,
		EnableHunger:        true,
		SoundReaction:       true,
		RunToTarget:         true,
		RandomWaypoint:      true,
		HungerRecoverHealth: true,
		TargetLostPatrol:    5,
		HungerPoints:        30,
		PatrolTime:          Range{Min: 5, Max: 10},
		ScreamNext:          Range{Min: 120, Max: 150},
		AgonyNext:           Range{Min: 60, Max: 120},
		HeadOffset:          model.Vec3{0, 1.6, 0},
		ReactionAngleTurn:   40,
		SoundReactClose:     10,
		SoundReactFar:       20,
		SightsFOV:           110,
		AttackFOV:           30,
		SightsDistance:      15,
		AttackDistance:      5,
		IdleHearRange:       10,
		ChaseTimeHide:       2,
		WalkSpeed:           0.4,
		RunSpeed:            5.5,
		RotationSpeed:       5,
		SpeedChangeSpeed:    1,
		Volumes: SoundVolumes{
			Scream:     1,
			Eating:     1,
			Agonize:    1,
			TakeDamage: 1,
			Die:        1,
			Idle:       1,
			Reaction:   1,
			Attack:     1,
		},
		PlayAttractedSounds: true,
	}
}

// UnmarshalYAML fills unset fields from DefaultZombie, so partial profiles
// in config and scenario files keep the stock values.
func (z *Zombie) UnmarshalYAML(value *yaml.Node) error {
	type plain Zombie
	*z = DefaultZombie()
	return value.Decode((*plain)(z))
}

// Validate checks ranges and limits.
func (z Zombie) Validate() error {
	ranges := []struct {
		name string
		r    Range
	}{
		{"damage_value", z.DamageValue},
		{"patrol_time", z.PatrolTime},
		{"scream_next", z.ScreamNext},
		{"agony_next", z.AgonyNext},
	}
	for _, r := range ranges {
		if !r.r.Valid() {
			return fmt.Errorf("%s: min %v greater than max %v", r.name, r.r.Min, r.r.Max)
		}
	}
	if z.AttackAnimations < 1 {
		return fmt.Errorf("attack_animations must be at least 1, got %d", z.AttackAnimations)
	}
	if z.SightsFOV < 0 || z.SightsFOV > 179 {
		return fmt.Errorf("sights_fov must be in [0, 179], got %v", z.SightsFOV)
	}
	if z.SoundReactClose > z.SoundReactFar {
		return fmt.Errorf("sound_react_close %v greater than sound_react_far %v", z.SoundReactClose, z.SoundReactFar)
	}
	if z.WalkSpeed < 0 || z.RunSpeed < 0 {
		return fmt.Errorf("speeds must not be negative")
	}
	return nil
}
