package unit

import (
	"go.uber.org/zap"
)

// Enrage thresholds: at maxEnrageStacks the boss latches into its
// max-enraged state with tripled power and guaranteed specials; derived
// speed never drops below minBossSpeed regardless of stacks.
const (
	maxEnrageStacks = 200
	maxEnragePower  = 3.0
	minBossSpeed    = 0.5
)

// Boss is the boss-stage specialization of Enemy. Every attack adds an
// enrage stack; stacks shorten the derived action interval, and at 200
// stacks a one-shot latch permanently amplifies power and special chance.
//
// Invariant: Once maxEnrage is true, power has been multiplied by 3 and
// specialChance set to 1 exactly once; further attacks never re-apply it.
type Boss struct {
	Enemy

	enrageStacks int
	maxEnrage    bool
	enrageEffect float64
}

// NewBoss creates the boss encounter for the given stage. Boss stats come
// from the fixed per-variant table; the stage is recorded only by the
// caller's naming. Creation effects run exactly as for a regular enemy.
//
// Precondition: deps fields must be non-nil as for NewEnemy.
// Postcondition: Returns a combat-ready boss with zero enrage stacks, or
// ErrUnknownVariant.
func NewBoss(name string, v Variant, stage int, deps Deps) (*Boss, error) {
	stats, err := Generate(v, stage, KindBoss)
	if err != nil {
		return nil, err
	}
	effect, err := enrageEffect(v)
	if err != nil {
		return nil, err
	}
	b := &Boss{
		Enemy:        *newFromStats(name, stats, deps),
		enrageEffect: effect,
	}
	b.deathFn = b.OnDeath
	b.applyCreationEffects()
	return b, nil
}

// EnrageStacks returns the number of attacks this boss has performed.
func (b *Boss) EnrageStacks() int { return b.enrageStacks }

// MaxEnrage reports whether the one-shot max-enrage amplification has fired.
func (b *Boss) MaxEnrage() bool { return b.maxEnrage }

// Attack delivers a boss attack and performs enrage bookkeeping: the stack
// counter increments on every attack whether or not the hit was special,
// and the max-enrage latch fires exactly once at 200 stacks.
func (b *Boss) Attack(h Hunter) {
	b.Enemy.Attack(h)
	b.enrageStacks++
	b.logger.Debug("enrage",
		zap.String("unit", b.name),
		zap.Float64("elapsed", b.clock.Elapsed()),
		zap.Int("stacks", b.enrageStacks),
	)
	if b.enrageStacks >= maxEnrageStacks && !b.maxEnrage {
		b.maxEnrage = true
		b.power *= maxEnragePower
		b.specialChance = 1
		b.logger.Debug("max enrage",
			zap.String("unit", b.name),
			zap.Float64("elapsed", b.clock.Elapsed()),
		)
	}
}

// Speed returns the derived action interval: the base interval shortened
// by the enrage effect per stack, floored at 0.5. It is computed on every
// read because it changes with each attack; the scheduler must not cache it.
func (b *Boss) Speed() float64 {
	return max(b.speed-b.enrageEffect*float64(b.enrageStacks), minBossSpeed)
}

// OnDeath records the final enrage stack count in the hunter's enrage log,
// then runs the regular enemy death cleanup.
func (b *Boss) OnDeath() {
	b.Enemy.OnDeath()
	b.hunter.RecordEnrage(b.enrageStacks)
}
