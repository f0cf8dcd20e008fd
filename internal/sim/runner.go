package sim

import (
	"context"
	"fmt"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cory-johannsen/huntsim/internal/config"
	"github.com/cory-johannsen/huntsim/internal/game/hunter"
	"github.com/cory-johannsen/huntsim/internal/game/rng"
)

// Summary aggregates the results of a batch of repetitions.
type Summary struct {
	Runs         int
	AvgStage     float64
	MaxStage     int
	AvgKills     float64
	AvgElapsed   float64
	BossKills    int
	AvgEnrage    float64
	HunterDeaths int
	Results      []Result
}

// RunRepetitions executes cfg.Repetitions independent simulation runs of
// the given build and aggregates their results. Runs execute concurrently
// across cfg.Workers goroutines (one per CPU when zero); each run owns its
// own queue, hunter, and random source, so no state is shared between them.
//
// When cfg.Seed is non-zero, run i uses a deterministic source seeded with
// cfg.Seed + i, making the whole batch reproducible.
//
// Postcondition: Returns a Summary over exactly cfg.Repetitions results,
// or the first error encountered.
func RunRepetitions(ctx context.Context, cfg config.SimulationConfig, build *hunter.Build, logger *zap.Logger) (Summary, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]Result, cfg.Repetitions)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := 0; i < cfg.Repetitions; i++ {
		i := i
		g.Go(func() error {
			var src rng.Source
			if cfg.Seed != 0 {
				src = rng.NewSeededSource(cfg.Seed + int64(i))
			} else {
				src = rng.NewCryptoSource()
			}
			s, err := New(cfg, build, src, logger.With(zap.Int("repetition", i)))
			if err != nil {
				return fmt.Errorf("repetition %d: %w", i, err)
			}
			res, err := s.Run(ctx)
			if err != nil {
				return fmt.Errorf("repetition %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	return summarize(results), nil
}

func summarize(results []Result) Summary {
	sum := Summary{Runs: len(results), Results: results}
	var stages, kills, elapsed float64
	var enrageTotal, enrageCount int
	for _, r := range results {
		stages += float64(r.FinalStage)
		kills += float64(r.Kills)
		elapsed += r.Elapsed
		if r.FinalStage > sum.MaxStage {
			sum.MaxStage = r.FinalStage
		}
		if r.HunterDied {
			sum.HunterDeaths++
		}
		for _, stacks := range r.EnrageLog {
			enrageTotal += stacks
			enrageCount++
		}
	}
	if sum.Runs > 0 {
		sum.AvgStage = stages / float64(sum.Runs)
		sum.AvgKills = kills / float64(sum.Runs)
		sum.AvgElapsed = elapsed / float64(sum.Runs)
	}
	sum.BossKills = enrageCount
	if enrageCount > 0 {
		sum.AvgEnrage = float64(enrageTotal) / float64(enrageCount)
	}
	return sum
}
