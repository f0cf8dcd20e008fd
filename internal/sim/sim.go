// Package sim owns the master event queue and the stage-progression loop
// that drives hunter-versus-enemy encounters.
package sim

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/huntsim/internal/config"
	"github.com/cory-johannsen/huntsim/internal/game/event"
	"github.com/cory-johannsen/huntsim/internal/game/hunter"
	"github.com/cory-johannsen/huntsim/internal/game/rng"
	"github.com/cory-johannsen/huntsim/internal/game/unit"
)

// foe is the driver-facing surface of an enemy or boss. Speed is re-read
// before every scheduling decision because a boss's derived speed changes
// with each attack.
type foe interface {
	Name() string
	Attack(h unit.Hunter)
	ReceiveDamage(damage float64, reflected bool)
	RegenHP()
	Stun(duration float64) error
	IsDead() bool
	Speed() float64
}

// Result is the outcome of a single simulation run.
type Result struct {
	// FinalStage is the last stage the hunter fought on.
	FinalStage int
	// Kills is the hunter's total kill count for the run.
	Kills int
	// Elapsed is the simulated seconds the run lasted.
	Elapsed float64
	// EnrageLog holds the final enrage stacks of each boss killed.
	EnrageLog []int
	// HunterDied is true when the run ended with the hunter's death rather
	// than the stage cap or time limit.
	HunterDied bool
}

// Simulation is one single-threaded, strictly sequential discrete-event
// run: every action runs to completion before the next scheduled event is
// popped. The queue is the sole shared mutable structure; units are granted
// stun-reschedule and death-purge rights on it through the Rescheduler
// contract.
type Simulation struct {
	cfg    config.SimulationConfig
	hunter *hunter.Hunter
	queue  *event.Queue
	rng    rng.Source
	logger *zap.Logger

	elapsed float64
	stage   int
}

// New creates a Simulation for one run of the given build.
//
// Precondition: cfg must pass config validation; build must pass Validate;
// src must be non-nil.
// Postcondition: Returns a run-ready Simulation or a non-nil error.
func New(cfg config.SimulationConfig, build *hunter.Build, src rng.Source, logger *zap.Logger) (*Simulation, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	h, err := hunter.New(build, src, logger)
	if err != nil {
		return nil, fmt.Errorf("creating simulation: %w", err)
	}
	return &Simulation{
		cfg:    cfg,
		hunter: h,
		queue:  event.NewQueue(),
		rng:    src,
		logger: logger,
		stage:  1,
	}, nil
}

// Elapsed returns the simulated seconds since the run started.
func (s *Simulation) Elapsed() float64 { return s.elapsed }

// Hunter returns the hunter fighting this run.
func (s *Simulation) Hunter() *hunter.Hunter { return s.hunter }

// Stage returns the current stage.
func (s *Simulation) Stage() int { return s.stage }

// Run executes the stage loop until the hunter dies, the stage cap or time
// limit is reached, or ctx is cancelled.
//
// Postcondition: Returns the run Result, or ctx's error on cancellation.
func (s *Simulation) Run(ctx context.Context) (Result, error) {
	for {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		done, err := s.runStage(ctx)
		if err != nil {
			return Result{}, err
		}
		if done {
			break
		}
		if s.cfg.StageCap > 0 && s.stage >= s.cfg.StageCap {
			break
		}
		s.stage++
	}
	return Result{
		FinalStage: s.stage,
		Kills:      s.hunter.TotalKills(),
		Elapsed:    s.elapsed,
		EnrageLog:  s.hunter.EnrageLog(),
		HunterDied: s.hunter.IsDead(),
	}, nil
}

// runStage fights every encounter of the current stage. It reports done
// when the run should stop (hunter death or time limit).
func (s *Simulation) runStage(ctx context.Context) (bool, error) {
	encounters := s.cfg.EnemiesPerStage
	if s.bossStage() {
		encounters = 1
	}
	for i := 0; i < encounters; i++ {
		f, err := s.spawn(i)
		if err != nil {
			return false, err
		}
		done, err := s.runEncounter(ctx, f)
		if done || err != nil {
			return done, err
		}
	}
	return false, nil
}

// bossStage reports whether the current stage is a boss stage.
func (s *Simulation) bossStage() bool {
	return s.stage%s.cfg.BossStageInterval == 0
}

// spawn creates the i-th encounter of the current stage.
func (s *Simulation) spawn(i int) (foe, error) {
	deps := unit.Deps{
		Hunter:    s.hunter,
		Scheduler: s.queue,
		Clock:     s,
		RNG:       s.rng,
		Logger:    s.logger,
	}
	if s.bossStage() {
		name := fmt.Sprintf("B%d", s.stage)
		b, err := unit.NewBoss(name, s.hunter.Variant(), s.stage, deps)
		if err != nil {
			return nil, fmt.Errorf("spawning boss for stage %d: %w", s.stage, err)
		}
		s.logger.Debug("spawned boss",
			zap.String("unit", name),
			zap.Stringer("unit_id", b.ID()),
			zap.Int("stage", s.stage),
		)
		return b, nil
	}
	name := fmt.Sprintf("E%d.%d", s.stage, i+1)
	e, err := unit.NewEnemy(name, s.hunter.Variant(), s.stage, deps)
	if err != nil {
		return nil, fmt.Errorf("spawning enemy for stage %d: %w", s.stage, err)
	}
	s.logger.Debug("spawned enemy",
		zap.String("unit", name),
		zap.Stringer("unit_id", e.ID()),
		zap.Int("stage", s.stage),
	)
	return e, nil
}

// runEncounter fights a single unit to the death of either side. It seeds
// the queue with the opening actions, then pops strictly in time order.
func (s *Simulation) runEncounter(ctx context.Context, f foe) (bool, error) {
	// Stale entries from the previous encounter (the dead unit's purge
	// leaves hunter and regen entries behind) are discarded wholesale.
	s.queue.RemoveKind(event.KindHunter)
	s.queue.RemoveKind(event.KindRegen)

	s.queue.Push(s.elapsed+s.hunter.Speed(), event.KindHunter)
	s.queue.Push(s.elapsed+f.Speed(), event.KindEnemy)
	s.queue.Push(s.elapsed+s.cfg.RegenInterval, event.KindRegen)

	for {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		// The next event's time is known before it is consumed; a run past
		// the limit stops without dispatching the over-limit action.
		if next, ok := s.queue.Peek(); ok && s.cfg.TimeLimit > 0 && next.Time > s.cfg.TimeLimit {
			s.elapsed = next.Time
			s.logger.Debug("time limit reached", zap.Float64("elapsed", s.elapsed))
			return true, nil
		}
		entry, ok := s.queue.Pop()
		if !ok {
			return false, fmt.Errorf("stage %d: event queue drained mid-encounter", s.stage)
		}
		s.elapsed = entry.Time

		switch entry.Kind {
		case event.KindHunter:
			if err := s.hunter.Attack(f); err != nil {
				return false, err
			}
			if f.IsDead() {
				return false, nil
			}
			s.queue.Push(s.elapsed+s.hunter.Speed(), event.KindHunter)
		case event.KindEnemy:
			f.Attack(s.hunter)
			if s.hunter.IsDead() {
				s.logger.Info("hunter died",
					zap.Int("stage", s.stage),
					zap.Float64("elapsed", s.elapsed),
				)
				return true, nil
			}
			if f.IsDead() {
				// Reflected damage killed the attacker mid-swing.
				return false, nil
			}
			s.queue.Push(s.elapsed+f.Speed(), event.KindEnemy)
		case event.KindRegen:
			s.hunter.RegenHP()
			f.RegenHP()
			if f.IsDead() {
				return false, nil
			}
			s.queue.Push(s.elapsed+s.cfg.RegenInterval, event.KindRegen)
		default:
			return false, fmt.Errorf("stage %d: unknown event kind %q", s.stage, entry.Kind)
		}
	}
}
