// Package main provides the huntsim binary that runs batches of hunter
// combat simulations and prints an aggregate summary.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/huntsim/internal/config"
	"github.com/cory-johannsen/huntsim/internal/game/hunter"
	"github.com/cory-johannsen/huntsim/internal/observability"
	"github.com/cory-johannsen/huntsim/internal/sim"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "", "path to configuration file; empty = built-in defaults")
	buildPath := flag.String("build", "builds/borge_aggro.yaml", "path to hunter build YAML file")
	reps := flag.Int("reps", 0, "override simulation.repetitions; 0 = use config value")
	seed := flag.Int64("seed", 0, "override simulation.seed for reproducible runs; 0 = use config value")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("loading config: %v", err)
		}
		cfg = loaded
	}
	if *reps > 0 {
		cfg.Simulation.Repetitions = *reps
	}
	if *seed != 0 {
		cfg.Simulation.Seed = *seed
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	build, err := hunter.LoadBuild(*buildPath)
	if err != nil {
		logger.Fatal("loading build", zap.Error(err))
	}

	logger.Info("starting simulation batch",
		zap.String("build", build.Name),
		zap.String("variant", build.Variant),
		zap.Int("repetitions", cfg.Simulation.Repetitions),
		zap.Int64("seed", cfg.Simulation.Seed),
	)

	summary, err := sim.RunRepetitions(ctx, cfg.Simulation, build, logger)
	if err != nil {
		logger.Fatal("running simulations", zap.Error(err))
	}

	logger.Info("simulation batch complete",
		zap.Int("runs", summary.Runs),
		zap.Duration("wall_time", time.Since(start)),
	)

	fmt.Printf("Build:          %s (%s)\n", build.Name, build.Variant)
	fmt.Printf("Runs:           %d\n", summary.Runs)
	fmt.Printf("Avg stage:      %.2f (best %d)\n", summary.AvgStage, summary.MaxStage)
	fmt.Printf("Avg kills:      %.2f\n", summary.AvgKills)
	fmt.Printf("Avg sim time:   %.1fs\n", summary.AvgElapsed)
	fmt.Printf("Hunter deaths:  %d/%d\n", summary.HunterDeaths, summary.Runs)
	if summary.BossKills > 0 {
		fmt.Printf("Boss kills:     %d (avg %.1f enrage stacks)\n", summary.BossKills, summary.AvgEnrage)
	}
}
