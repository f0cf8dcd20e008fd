package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func validConfig() Config {
	return Config{
		Simulation: SimulationConfig{
			Repetitions:       100,
			Workers:           4,
			StageCap:          250,
			BossStageInterval: 100,
			EnemiesPerStage:   10,
			RegenInterval:     1.0,
			TimeLimit:         0,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

func TestValidConfig(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())
}

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestValidate_Simulation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero repetitions", func(c *Config) { c.Simulation.Repetitions = 0 }},
		{"negative workers", func(c *Config) { c.Simulation.Workers = -1 }},
		{"negative stage cap", func(c *Config) { c.Simulation.StageCap = -5 }},
		{"zero boss interval", func(c *Config) { c.Simulation.BossStageInterval = 0 }},
		{"zero enemies per stage", func(c *Config) { c.Simulation.EnemiesPerStage = 0 }},
		{"zero regen interval", func(c *Config) { c.Simulation.RegenInterval = 0 }},
		{"negative time limit", func(c *Config) { c.Simulation.TimeLimit = -1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidate_Logging(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Level = "trace"
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Logging.Format = "xml"
	assert.Error(t, cfg.Validate())
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte(`
simulation:
  repetitions: 25
  boss_stage_interval: 50
logging:
  level: debug
  format: console
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 25, cfg.Simulation.Repetitions)
	assert.Equal(t, 50, cfg.Simulation.BossStageInterval)
	// Unset keys fall back to defaults.
	assert.Equal(t, 10, cfg.Simulation.EnemiesPerStage)
	assert.Equal(t, 1.0, cfg.Simulation.RegenInterval)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte(`
simulation:
  repetitions: 0
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

// TestValidate_SimulationProperty: any positive counts and intervals
// validate successfully.
func TestValidate_SimulationProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cfg := validConfig()
		cfg.Simulation.Repetitions = rapid.IntRange(1, 100000).Draw(t, "reps")
		cfg.Simulation.Workers = rapid.IntRange(0, 256).Draw(t, "workers")
		cfg.Simulation.StageCap = rapid.IntRange(0, 10000).Draw(t, "cap")
		cfg.Simulation.BossStageInterval = rapid.IntRange(1, 1000).Draw(t, "interval")
		cfg.Simulation.EnemiesPerStage = rapid.IntRange(1, 100).Draw(t, "enemies")
		cfg.Simulation.RegenInterval = rapid.Float64Range(0.1, 60).Draw(t, "regen")
		cfg.Simulation.TimeLimit = rapid.Float64Range(0, 1e6).Draw(t, "limit")

		if err := cfg.Validate(); err != nil {
			t.Fatalf("expected valid config, got %v", err)
		}
	})
}
