// Package hunter implements the player-controlled hunter: build-derived
// stats, capability sets, damage exchange with enemy units, and the
// creation effects applied to freshly spawned units.
package hunter

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/huntsim/internal/game/rng"
	"github.com/cory-johannsen/huntsim/internal/game/unit"
)

// Capability names recognized by the creation-effect hooks. Talents and
// attributes are separate pools; membership is tested by point count.
const (
	TalentPresenceOfGod = "presence_of_god"
	TalentOmenOfDefeat  = "omen_of_defeat"
	AttributeSoulOfSnek = "soul_of_snek"
	AttributeGiftMedusa = "gift_of_medusa"
)

// Per-point coefficients of the creation effects.
const (
	pogMaxHPPerPoint   = 0.04
	oodPowerPerPoint   = 0.03
	snekRegenPerPoint  = 0.04
	medusaDegenPerTick = 1.5
)

// Target is the hunter-facing surface of an enemy unit.
type Target interface {
	Name() string
	ReceiveDamage(damage float64, reflected bool)
	Stun(duration float64) error
	IsDead() bool
}

// Hunter is one player build in combat. It satisfies unit.Hunter.
type Hunter struct {
	name    string
	variant unit.Variant

	hp              float64
	maxHP           float64
	power           float64
	regen           float64
	damageReduction float64
	evadeChance     float64
	specialChance   float64
	specialDamage   float64
	speed           float64
	lifesteal       float64
	reflect         float64
	stunChance      float64
	stunDuration    float64

	talents    map[string]int
	attributes map[string]int

	totalKills int
	enrageLog  []int

	rng    rng.Source
	logger *zap.Logger
}

// New creates a Hunter from a validated build.
//
// Precondition: b must pass Validate; src must be non-nil.
// Postcondition: Returns a combat-ready hunter at full hp, or an error if
// the build's variant is unknown.
func New(b *Build, src rng.Source, logger *zap.Logger) (*Hunter, error) {
	v, err := unit.ParseVariant(b.Variant)
	if err != nil {
		return nil, fmt.Errorf("creating hunter %q: %w", b.Name, err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	talents := make(map[string]int, len(b.Talents))
	for name, points := range b.Talents {
		talents[name] = points
	}
	attributes := make(map[string]int, len(b.Attributes))
	for name, points := range b.Attributes {
		attributes[name] = points
	}
	return &Hunter{
		name:            b.Name,
		variant:         v,
		hp:              b.Stats.HP,
		maxHP:           b.Stats.HP,
		power:           b.Stats.Power,
		regen:           b.Stats.Regen,
		damageReduction: b.Stats.DamageReduction,
		evadeChance:     b.Stats.EvadeChance,
		specialChance:   b.Stats.SpecialChance,
		specialDamage:   b.Stats.SpecialDamage,
		speed:           b.Stats.Speed,
		lifesteal:       b.Stats.Lifesteal,
		reflect:         b.Stats.Reflect,
		stunChance:      b.Stats.StunChance,
		stunDuration:    b.Stats.StunDuration,
		talents:         talents,
		attributes:      attributes,
		rng:             src,
		logger:          logger,
	}, nil
}

// Name returns the hunter's display name.
func (h *Hunter) Name() string { return h.name }

// Variant returns the hunter's capability profile.
func (h *Hunter) Variant() unit.Variant { return h.variant }

// HP returns current hit points.
func (h *Hunter) HP() float64 { return h.hp }

// MaxHP returns maximum hit points.
func (h *Hunter) MaxHP() float64 { return h.maxHP }

// Speed returns the hunter's action interval in simulated seconds.
func (h *Hunter) Speed() float64 { return h.speed }

// MissingHP returns maxHP - hp.
func (h *Hunter) MissingHP() float64 { return h.maxHP - h.hp }

// IsDead reports whether the hunter's hp has reached zero.
func (h *Hunter) IsDead() bool { return h.hp <= 0 }

// TotalKills returns the number of units this hunter has killed.
func (h *Hunter) TotalKills() int { return h.totalKills }

// EnrageLog returns the final enrage stack counts of bosses killed this run.
func (h *Hunter) EnrageLog() []int { return h.enrageLog }

// HasTalent reports whether the named talent has at least one point.
func (h *Hunter) HasTalent(name string) bool { return h.talents[name] > 0 }

// HasAttribute reports whether the named attribute has at least one point.
func (h *Hunter) HasAttribute(name string) bool { return h.attributes[name] > 0 }

// RecordKill increments the kill counter.
func (h *Hunter) RecordKill() { h.totalKills++ }

// RecordEnrage appends a boss's final enrage stacks to the enrage log.
func (h *Hunter) RecordEnrage(stacks int) { h.enrageLog = append(h.enrageLog, stacks) }

// ApplyPog applies presence-of-god: the fresh unit loses a fraction of its
// current and maximum hp per talent point.
func (h *Hunter) ApplyPog(e *unit.Enemy) {
	factor := max(1-pogMaxHPPerPoint*float64(h.talents[TalentPresenceOfGod]), 0)
	e.ScaleMaxHP(factor)
	h.logger.Debug("presence of god", zap.String("target", e.Name()), zap.Float64("factor", factor))
}

// ApplyOod applies omen-of-defeat: the fresh unit loses a fraction of its
// power per talent point.
func (h *Hunter) ApplyOod(e *unit.Enemy) {
	factor := max(1-oodPowerPerPoint*float64(h.talents[TalentOmenOfDefeat]), 0)
	e.ScalePower(factor)
	h.logger.Debug("omen of defeat", zap.String("target", e.Name()), zap.Float64("factor", factor))
}

// ApplySnek applies soul-of-snek: the fresh unit loses a fraction of its
// regeneration per attribute point.
func (h *Hunter) ApplySnek(e *unit.Enemy) {
	factor := max(1-snekRegenPerPoint*float64(h.attributes[AttributeSoulOfSnek]), 0)
	e.ScaleRegen(factor)
	h.logger.Debug("soul of snek", zap.String("target", e.Name()), zap.Float64("factor", factor))
}

// ApplyMedusa applies gift-of-medusa: a flat per-tick degeneration per
// attribute point. This can push the unit's regen negative, so its own
// regen ticks become damage over time and can kill it.
func (h *Hunter) ApplyMedusa(e *unit.Enemy) {
	degen := medusaDegenPerTick * float64(h.attributes[AttributeGiftMedusa])
	e.AdjustRegen(-degen)
	h.logger.Debug("gift of medusa", zap.String("target", e.Name()), zap.Float64("degen", degen))
}

// Attack rolls one uniform sample for a special hit and delivers the
// resulting damage to target. Lifesteal heals the hunter for a fraction of
// the damage dealt; a special hit may additionally stun a surviving target.
func (h *Hunter) Attack(target Target) error {
	damage := h.power
	special := h.rng.Float64() < h.specialChance
	if special {
		damage = h.power * h.specialDamage
	}
	h.logger.Debug("attack",
		zap.String("unit", h.name),
		zap.String("target", target.Name()),
		zap.Float64("damage", damage),
		zap.Bool("special", special),
	)
	target.ReceiveDamage(damage, false)
	if h.lifesteal > 0 {
		h.HealHP(damage*h.lifesteal, "lifesteal")
	}
	if special && h.stunChance > 0 && !target.IsDead() && h.rng.Float64() < h.stunChance {
		if err := target.Stun(h.stunDuration); err != nil {
			return fmt.Errorf("hunter %s: %w", h.name, err)
		}
	}
	return nil
}

// ReceiveDamage resolves an incoming attack from source: evade check,
// mitigation, reflect-back, death detection. Reflected damage returned to
// the attacker always lands (it skips the attacker's evasion).
func (h *Hunter) ReceiveDamage(source unit.Attacker, damage float64, special bool) {
	if h.rng.Float64() < h.evadeChance {
		h.logger.Debug("evade", zap.String("unit", h.name))
		return
	}
	mitigated := damage * (1 - h.damageReduction)
	h.hp -= mitigated
	h.logger.Debug("take",
		zap.String("unit", h.name),
		zap.String("source", source.Name()),
		zap.Float64("damage", mitigated),
		zap.Bool("special", special),
		zap.Float64("hp", h.hp),
	)
	if h.reflect > 0 {
		source.ReceiveDamage(damage*h.reflect, true)
	}
	if h.IsDead() {
		h.logger.Debug("died", zap.String("unit", h.name))
	}
}

// HealHP applies healing from the named source, discarding overheal.
func (h *Hunter) HealHP(value float64, source string) {
	effective := min(value, h.MissingHP())
	h.hp = min(h.hp+effective, h.maxHP)
	h.logger.Debug(source,
		zap.String("unit", h.name),
		zap.Float64("healed", effective),
	)
}

// RegenHP applies one regeneration tick.
func (h *Hunter) RegenHP() {
	h.HealHP(h.regen, "regen")
}

// String returns the hunter's stat line.
func (h *Hunter) String() string {
	return fmt.Sprintf("[%7s]: [HP: %.2f/%.2f] [AP: %.2f] [Regen: %.2f] [DR: %.4f] [Evasion: %.4f] [CHC: %.4f] [CHD: %.2f] [Speed: %.2f]",
		h.name, h.hp, h.maxHP, h.power, h.regen, h.damageReduction, h.evadeChance, h.specialChance, h.specialDamage, h.speed)
}
