package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage drivers.
const (
	DriverNone     = "none"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverSnapshot = "snapshot"
)

// Simulation holds all configuration for the headless zombie simulation.
type Simulation struct {
	LogLevel string `yaml:"log_level"`

	// Scene
	ScenarioPath string        `yaml:"scenario_path"`
	TickInterval time.Duration `yaml:"tick_interval"` // wall-clock tick period (default: 50ms)
	TimeScale    float64       `yaml:"time_scale"`    // simulated seconds per wall second
	Duration     time.Duration `yaml:"duration"`      // simulated run length, 0 = until signal
	Seed         uint64        `yaml:"seed"`          // 0 = random

	// Persistence
	Storage Storage `yaml:"storage"`

	// Default agent profile; scenario agents may override it
	Zombie Zombie `yaml:"zombie"`
}

// Storage selects and configures the agent state sink.
type Storage struct {
	Driver       string         `yaml:"driver"`
	Database     DatabaseConfig `yaml:"database"`
	Redis        RedisConfig    `yaml:"redis"`
	SnapshotPath string         `yaml:"snapshot_path"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`

	MaxConns       int32         `yaml:"max_conns"`       // 0 = pgxpool default
	ConnectTimeout time.Duration `yaml:"connect_timeout"` // 0 = no limit
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	Addr      string        `yaml:"addr"`
	Password  string        `yaml:"password"`
	DB        int           `yaml:"db"`
	KeyPrefix string        `yaml:"key_prefix"`
	TTL       time.Duration `yaml:"ttl"` // 0 = no expiry
}

// DefaultSimulation returns Simulation config with sensible defaults.
func DefaultSimulation() Simulation {
	return Simulation{
		LogLevel:     "info",
		ScenarioPath: "config/scenario.yaml",
		TickInterval: 50 * time.Millisecond,
		TimeScale:    1.0,
		Storage: Storage{
			Driver: DriverSnapshot,
			Database: DatabaseConfig{
				Host:     "127.0.0.1",
				Port:     5432,
				User:     "zombieai",
				Password: "zombieai",
				DBName:   "zombieai",
				SSLMode:  "disable",

				MaxConns:       4,
				ConnectTimeout: 5 * time.Second,
			},
			Redis: RedisConfig{
				Addr:      "127.0.0.1:6379",
				KeyPrefix: "zombieai:npc:",
			},
			SnapshotPath: "data/npc_states.zst",
		},
		Zombie: DefaultZombie(),
	}
}

// Validate checks values that have no usable fallback.
func (s Simulation) Validate() error {
	if s.TickInterval <= 0 {
		return fmt.Errorf("tick_interval must be positive, got %s", s.TickInterval)
	}
	if s.TimeScale <= 0 {
		return fmt.Errorf("time_scale must be positive, got %v", s.TimeScale)
	}
	switch s.Storage.Driver {
	case DriverNone, DriverPostgres, DriverRedis, DriverSnapshot:
	default:
		return fmt.Errorf("unknown storage driver %q", s.Storage.Driver)
	}
	if err := s.Zombie.Validate(); err != nil {
		return fmt.Errorf("zombie: %w", err)
	}
	return nil
}

// LoadSimulation loads simulation config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadSimulation(path string) (Simulation, error) {
	cfg := DefaultSimulation()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validating config %s: %w", path, err)
	}

	return cfg, nil
}
