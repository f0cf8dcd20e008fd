// Package config provides Viper-based configuration loading for the hunter simulator.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// SimulationConfig holds the parameters of a simulation run.
type SimulationConfig struct {
	// Repetitions is the number of independent simulation runs to execute.
	Repetitions int `mapstructure:"repetitions"`
	// Workers is the number of repetitions executed concurrently.
	// Zero means one worker per CPU.
	Workers int `mapstructure:"workers"`
	// StageCap is the highest stage a run may reach before it stops. Zero means unbounded.
	StageCap int `mapstructure:"stage_cap"`
	// BossStageInterval is the stage interval at which a boss replaces the
	// regular enemy encounter (a boss spawns on every multiple of it).
	BossStageInterval int `mapstructure:"boss_stage_interval"`
	// EnemiesPerStage is the number of regular enemies fought per non-boss stage.
	EnemiesPerStage int `mapstructure:"enemies_per_stage"`
	// RegenInterval is the simulated seconds between regeneration ticks.
	RegenInterval float64 `mapstructure:"regen_interval"`
	// TimeLimit is the simulated-seconds ceiling for a single run. Zero means unbounded.
	TimeLimit float64 `mapstructure:"time_limit"`
	// Seed seeds the random source for reproducible runs. Zero means use
	// a crypto-backed source instead.
	Seed int64 `mapstructure:"seed"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// Config is the top-level application configuration.
type Config struct {
	Simulation SimulationConfig `mapstructure:"simulation"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateSimulation(c.Simulation); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateSimulation(s SimulationConfig) error {
	var errs []string
	if s.Repetitions < 1 {
		errs = append(errs, fmt.Sprintf("simulation.repetitions must be >= 1, got %d", s.Repetitions))
	}
	if s.Workers < 0 {
		errs = append(errs, fmt.Sprintf("simulation.workers must be >= 0, got %d", s.Workers))
	}
	if s.StageCap < 0 {
		errs = append(errs, fmt.Sprintf("simulation.stage_cap must be >= 0, got %d", s.StageCap))
	}
	if s.BossStageInterval < 1 {
		errs = append(errs, fmt.Sprintf("simulation.boss_stage_interval must be >= 1, got %d", s.BossStageInterval))
	}
	if s.EnemiesPerStage < 1 {
		errs = append(errs, fmt.Sprintf("simulation.enemies_per_stage must be >= 1, got %d", s.EnemiesPerStage))
	}
	if s.RegenInterval <= 0 {
		errs = append(errs, fmt.Sprintf("simulation.regen_interval must be > 0, got %g", s.RegenInterval))
	}
	if s.TimeLimit < 0 {
		errs = append(errs, fmt.Sprintf("simulation.time_limit must be >= 0, got %g", s.TimeLimit))
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with HUNTSIM_ prefix
	v.SetEnvPrefix("HUNTSIM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the built-in configuration used when no file is supplied.
//
// Postcondition: The returned Config passes Validate.
func Default() Config {
	return Config{
		Simulation: SimulationConfig{
			Repetitions:       100,
			Workers:           0,
			StageCap:          0,
			BossStageInterval: 100,
			EnemiesPerStage:   10,
			RegenInterval:     1.0,
			TimeLimit:         0,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("simulation.repetitions", 100)
	v.SetDefault("simulation.workers", 0)
	v.SetDefault("simulation.stage_cap", 0)
	v.SetDefault("simulation.boss_stage_interval", 100)
	v.SetDefault("simulation.enemies_per_stage", 10)
	v.SetDefault("simulation.regen_interval", 1.0)
	v.SetDefault("simulation.time_limit", 0)
	v.SetDefault("simulation.seed", 0)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}
