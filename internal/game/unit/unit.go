package unit

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/huntsim/internal/game/event"
	"github.com/cory-johannsen/huntsim/internal/game/rng"
)

// Attacker is the surface a damage recipient sees of the unit that hit it.
// Reflected damage (thorns-style effects) is delivered back through it.
type Attacker interface {
	// Name returns the unit's display name.
	Name() string
	// ReceiveDamage applies incoming damage. Reflected damage skips the
	// evasion check: self-inflicted damage always lands.
	ReceiveDamage(damage float64, reflected bool)
}

// Hunter is the unit-facing surface of the opposing hunter. The concrete
// hunter lives outside this package; units only test capabilities, deliver
// damage, and record kill/enrage bookkeeping through it.
type Hunter interface {
	// HasTalent reports whether the named talent has at least one point.
	HasTalent(name string) bool
	// HasAttribute reports whether the named attribute has at least one point.
	HasAttribute(name string) bool
	// ApplyPog applies the presence-of-god creation effect to e.
	ApplyPog(e *Enemy)
	// ApplyOod applies the omen-of-defeat creation effect to e.
	ApplyOod(e *Enemy)
	// ApplySnek applies the soul-of-snek creation effect to e.
	ApplySnek(e *Enemy)
	// ApplyMedusa applies the gift-of-medusa creation effect to e.
	ApplyMedusa(e *Enemy)
	// ReceiveDamage delivers an attack from source to the hunter. The hunter
	// owns its mitigation; special marks a special (critical) hit.
	ReceiveDamage(source Attacker, damage float64, special bool)
	// RecordKill increments the hunter's kill counter.
	RecordKill()
	// RecordEnrage appends a boss's final enrage stack count to the
	// hunter's per-run enrage log.
	RecordEnrage(stacks int)
}

// Rescheduler is the scheduling contract units hold on the shared event
// queue: slide their own pending action forward (stun) or purge their
// entries (death). The queue itself is owned by the simulation driver.
type Rescheduler interface {
	Reschedule(kind event.Kind, delta float64) error
	RemoveKind(kind event.Kind) int
}

// Clock reports the simulation's elapsed time, for combat tracing only.
type Clock interface {
	Elapsed() float64
}

// Deps are the collaborators a unit is created with. All fields must be
// non-nil except Logger, which defaults to a no-op logger.
type Deps struct {
	Hunter    Hunter
	Scheduler Rescheduler
	Clock     Clock
	RNG       rng.Source
	Logger    *zap.Logger
}

// Enemy is a regular stage encounter. It holds the generated stat bundle
// plus mutable combat state.
//
// Invariant: 0 <= hp <= maxHP except during the instant between lethal
// damage and death processing, where hp may be negative before the death
// hook runs. The death hook is the sole teardown path.
type Enemy struct {
	id   uuid.UUID
	name string

	hp              float64
	maxHP           float64
	power           float64
	regen           float64
	damageReduction float64
	evadeChance     float64
	specialChance   float64
	specialDamage   float64
	speed           float64

	hunter    Hunter
	scheduler Rescheduler
	clock     Clock
	rng       rng.Source
	logger    *zap.Logger

	// deathFn is the death hook invoked when hp drops to or below zero.
	// The boss constructor replaces it so embedded calls dispatch to the
	// boss's extended hook.
	deathFn func()
}

// NewEnemy creates a regular enemy for the given stage, generates its stats,
// and runs the hunter's creation effects exactly once, in fixed order:
// presence-of-god, omen-of-defeat, soul-of-snek, gift-of-medusa.
//
// Precondition: deps.Hunter, deps.Scheduler, deps.Clock, and deps.RNG must
// be non-nil.
// Postcondition: Returns a combat-ready enemy, or ErrUnknownVariant.
func NewEnemy(name string, v Variant, stage int, deps Deps) (*Enemy, error) {
	stats, err := Generate(v, stage, KindEnemy)
	if err != nil {
		return nil, err
	}
	e := newFromStats(name, stats, deps)
	e.deathFn = e.OnDeath
	e.applyCreationEffects()
	return e, nil
}

func newFromStats(name string, stats StatBundle, deps Deps) *Enemy {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	id := uuid.New()
	// Every combat-trace line this unit emits carries its instance id.
	return &Enemy{
		id:              id,
		name:            name,
		hp:              stats.HP,
		maxHP:           stats.HP,
		power:           stats.Power,
		regen:           stats.Regen,
		damageReduction: stats.DamageReduction,
		evadeChance:     stats.EvadeChance,
		specialChance:   stats.SpecialChance,
		specialDamage:   stats.SpecialDamage,
		speed:           stats.Speed,
		hunter:          deps.Hunter,
		scheduler:       deps.Scheduler,
		clock:           deps.Clock,
		rng:             deps.RNG,
		logger:          logger.With(zap.Stringer("unit_id", id)),
	}
}

// applyCreationEffects runs the pre-combat hunter hooks gated on the
// hunter's capability sets. Order is fixed and load-bearing: effects that
// scale a stat must see the stat as earlier effects left it.
func (e *Enemy) applyCreationEffects() {
	if e.hunter.HasTalent("presence_of_god") {
		e.hunter.ApplyPog(e)
	}
	if e.hunter.HasTalent("omen_of_defeat") {
		e.hunter.ApplyOod(e)
	}
	if e.hunter.HasAttribute("soul_of_snek") {
		e.hunter.ApplySnek(e)
	}
	if e.hunter.HasAttribute("gift_of_medusa") {
		e.hunter.ApplyMedusa(e)
	}
}

// ID returns the unit's instance identifier.
func (e *Enemy) ID() uuid.UUID { return e.id }

// Name returns the unit's display name.
func (e *Enemy) Name() string { return e.name }

// HP returns the unit's current hit points.
func (e *Enemy) HP() float64 { return e.hp }

// MaxHP returns the unit's maximum hit points.
func (e *Enemy) MaxHP() float64 { return e.maxHP }

// Power returns the unit's attack power.
func (e *Enemy) Power() float64 { return e.power }

// Regen returns the unit's regeneration per tick. A creation effect may
// leave it negative, in which case regen ticks damage the unit.
func (e *Enemy) Regen() float64 { return e.regen }

// SpecialChance returns the unit's special-hit probability.
func (e *Enemy) SpecialChance() float64 { return e.specialChance }

// SpecialDamage returns the unit's special-hit damage multiplier.
func (e *Enemy) SpecialDamage() float64 { return e.specialDamage }

// EvadeChance returns the unit's chance to fully negate a non-reflected hit.
func (e *Enemy) EvadeChance() float64 { return e.evadeChance }

// DamageReduction returns the fraction of incoming damage mitigated.
func (e *Enemy) DamageReduction() float64 { return e.damageReduction }

// Speed returns the unit's action interval in simulated seconds.
func (e *Enemy) Speed() float64 { return e.speed }

// MissingHP returns maxHP - hp. Derived, never stored.
func (e *Enemy) MissingHP() float64 { return e.maxHP - e.hp }

// IsDead reports whether the unit's hp has reached zero.
func (e *Enemy) IsDead() bool { return e.hp <= 0 }

// ScaleMaxHP multiplies current and maximum hp by factor. Creation-effect
// hooks use this; it is not valid once combat has started.
func (e *Enemy) ScaleMaxHP(factor float64) {
	e.maxHP *= factor
	e.hp *= factor
}

// ScalePower multiplies attack power by factor.
func (e *Enemy) ScalePower(factor float64) { e.power *= factor }

// ScaleRegen multiplies regeneration by factor.
func (e *Enemy) ScaleRegen(factor float64) { e.regen *= factor }

// AdjustRegen adds delta to regeneration. A sufficiently negative delta
// turns regen ticks into damage over time.
func (e *Enemy) AdjustRegen(delta float64) { e.regen += delta }

// Attack rolls one uniform sample for a special hit and delivers the
// resulting damage to the hunter. The hunter owns mitigation.
func (e *Enemy) Attack(h Hunter) {
	damage := e.power
	special := e.rng.Float64() < e.specialChance
	if special {
		damage = e.power * e.specialDamage
	}
	e.logger.Debug("attack",
		zap.String("unit", e.name),
		zap.Float64("elapsed", e.clock.Elapsed()),
		zap.Float64("damage", damage),
		zap.Bool("special", special),
	)
	h.ReceiveDamage(e, damage, special)
}

// ReceiveDamage applies incoming damage. Non-reflected damage may be fully
// evaded; reflected damage always lands. Mitigation is
// damage * (1 - damageReduction). Lethal damage triggers the death hook.
func (e *Enemy) ReceiveDamage(damage float64, reflected bool) {
	if !reflected && e.rng.Float64() < e.evadeChance {
		e.logger.Debug("evade",
			zap.String("unit", e.name),
			zap.Float64("elapsed", e.clock.Elapsed()),
		)
		return
	}
	mitigated := damage * (1 - e.damageReduction)
	e.hp -= mitigated
	e.logger.Debug("take",
		zap.String("unit", e.name),
		zap.Float64("elapsed", e.clock.Elapsed()),
		zap.Float64("damage", mitigated),
		zap.Float64("hp", e.hp),
	)
	if e.IsDead() {
		e.deathFn()
	}
}

// HealHP applies healing from the named source. Overheal is discarded:
// the effective heal is min(value, MissingHP). Healing never triggers
// death processing on its own.
func (e *Enemy) HealHP(value float64, source string) {
	effective := min(value, e.MissingHP())
	e.hp = min(e.hp+effective, e.maxHP)
	e.logger.Debug(source,
		zap.String("unit", e.name),
		zap.Float64("elapsed", e.clock.Elapsed()),
		zap.Float64("healed", effective),
	)
}

// RegenHP applies one regeneration tick, then re-checks death: a creation
// effect can leave regen negative, so the tick itself can be lethal.
func (e *Enemy) RegenHP() {
	e.HealHP(e.regen, "regen")
	if e.IsDead() {
		e.deathFn()
	}
}

// Stun slides this unit's single pending action duration seconds later in
// the shared queue, leaving all other entries unchanged.
//
// Precondition: Exactly one enemy-kind entry exists in the queue. A
// violation is a scheduler programming error and surfaces as an error here.
func (e *Enemy) Stun(duration float64) error {
	if err := e.scheduler.Reschedule(event.KindEnemy, duration); err != nil {
		return fmt.Errorf("stunning %s: %w", e.name, err)
	}
	e.logger.Debug("stunned",
		zap.String("unit", e.name),
		zap.Float64("elapsed", e.clock.Elapsed()),
		zap.Float64("duration", duration),
	)
	return nil
}

// OnDeath runs death cleanup: it increments the hunter's kill counter and
// purges every enemy-kind entry from the shared queue.
func (e *Enemy) OnDeath() {
	e.hunter.RecordKill()
	e.logger.Debug("died",
		zap.String("unit", e.name),
		zap.Float64("elapsed", e.clock.Elapsed()),
	)
	e.scheduler.RemoveKind(event.KindEnemy)
}

// Kill force-sets hp to zero without running the death hook. The unit is
// marked dead for the driver to detect; queue purge and kill-count
// bookkeeping are the driver's responsibility on this path.
func (e *Enemy) Kill() {
	e.hp = 0
}

// String returns the unit's stat line.
func (e *Enemy) String() string {
	return fmt.Sprintf("[%7s]: [HP: %.2f/%.2f] [AP: %.2f] [Regen: %.2f] [DR: %.4f] [Evasion: %.4f] [CHC: %.4f] [CHD: %.2f] [Speed: %.2f]",
		e.name, e.hp, e.maxHP, e.power, e.regen, e.damageReduction, e.evadeChance, e.specialChance, e.specialDamage, e.Speed())
}
