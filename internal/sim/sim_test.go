package sim

import (
	"context"
	"testing"

	"github.com/cory-johannsen/huntsim/internal/config"
	"github.com/cory-johannsen/huntsim/internal/game/hunter"
	"github.com/cory-johannsen/huntsim/internal/game/rng"
)

func testSimConfig() config.SimulationConfig {
	return config.SimulationConfig{
		Repetitions:       1,
		Workers:           1,
		StageCap:          3,
		BossStageInterval: 100,
		EnemiesPerStage:   2,
		RegenInterval:     1.0,
		Seed:              7,
	}
}

// oneShotBuild one-shots every early-stage enemy and acts before they do.
func oneShotBuild() *hunter.Build {
	return &hunter.Build{
		Name:    "one-shot",
		Variant: "borge",
		Stats: hunter.BuildStats{
			HP:            1000,
			Power:         1e6,
			Regen:         5,
			SpecialChance: 0.1,
			SpecialDamage: 1.5,
			Speed:         1.0,
		},
	}
}

// glassBuild cannot hurt anything and dies to the first enemy attack.
func glassBuild() *hunter.Build {
	return &hunter.Build{
		Name:    "glass",
		Variant: "borge",
		Stats: hunter.BuildStats{
			HP:    0.001,
			Power: 0,
			Speed: 100.0,
		},
	}
}

func TestSimulation_ReachesStageCap(t *testing.T) {
	cfg := testSimConfig()
	s, err := New(cfg, oneShotBuild(), rng.NewSeededSource(cfg.Seed), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	res, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if res.FinalStage != 3 {
		t.Errorf("expected final stage 3, got %d", res.FinalStage)
	}
	// Early-stage enemies have no evade chance, so a one-shot hunter kills
	// every encounter regardless of random draws.
	if want := 3 * cfg.EnemiesPerStage; res.Kills != want {
		t.Errorf("expected %d kills, got %d", want, res.Kills)
	}
	if res.HunterDied {
		t.Error("one-shot hunter must not die by stage 3")
	}
	if res.Elapsed <= 0 {
		t.Errorf("expected positive elapsed time, got %v", res.Elapsed)
	}
}

func TestSimulation_HunterDeathEndsRun(t *testing.T) {
	cfg := testSimConfig()
	cfg.StageCap = 0
	s, err := New(cfg, glassBuild(), rng.NewSeededSource(cfg.Seed), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	res, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !res.HunterDied {
		t.Fatal("expected hunter death to end the run")
	}
	if res.FinalStage != 1 {
		t.Errorf("expected death on stage 1, got %d", res.FinalStage)
	}
	if res.Kills != 0 {
		t.Errorf("expected 0 kills, got %d", res.Kills)
	}
}

func TestSimulation_BossStage(t *testing.T) {
	cfg := testSimConfig()
	cfg.StageCap = 1
	cfg.BossStageInterval = 1 // stage 1 is a boss stage
	s, err := New(cfg, oneShotBuild(), rng.NewSeededSource(cfg.Seed), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	res, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if res.Kills != 1 {
		t.Fatalf("expected exactly the boss kill, got %d", res.Kills)
	}
	// The boss died before acting, so its enrage log entry is 0 stacks.
	if len(res.EnrageLog) != 1 || res.EnrageLog[0] != 0 {
		t.Errorf("expected enrage log [0], got %v", res.EnrageLog)
	}
}

func TestSimulation_TimeLimit(t *testing.T) {
	cfg := testSimConfig()
	cfg.StageCap = 0
	cfg.TimeLimit = 50.0
	// A stalemate build: cannot kill, cannot be one-shot at stage 1.
	b := &hunter.Build{
		Name:    "turtle",
		Variant: "borge",
		Stats: hunter.BuildStats{
			HP:    1e9,
			Power: 0,
			Regen: 1e6,
			Speed: 5.0,
		},
	}
	s, err := New(cfg, b, rng.NewSeededSource(cfg.Seed), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	res, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if res.HunterDied {
		t.Error("turtle hunter should outlast the limit")
	}
	if res.Elapsed <= cfg.TimeLimit {
		t.Errorf("expected run to stop past the limit, elapsed %v", res.Elapsed)
	}
}

func TestSimulation_ContextCancellation(t *testing.T) {
	cfg := testSimConfig()
	s, err := New(cfg, oneShotBuild(), rng.NewSeededSource(cfg.Seed), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Run(ctx); err == nil {
		t.Fatal("expected error from cancelled context")
	}
}

func TestSimulation_SeededRunsAreReproducible(t *testing.T) {
	cfg := testSimConfig()
	cfg.StageCap = 5

	run := func() Result {
		s, err := New(cfg, oneShotBuild(), rng.NewSeededSource(42), nil)
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		res, err := s.Run(context.Background())
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		return res
	}

	a, b := run(), run()
	if a.FinalStage != b.FinalStage || a.Kills != b.Kills || a.Elapsed != b.Elapsed {
		t.Fatalf("seeded runs diverged: %+v vs %+v", a, b)
	}
}
