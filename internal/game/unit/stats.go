// Package unit implements the enemy and boss combat units: stat generation,
// attack and damage resolution, healing, stun rescheduling, and death
// cleanup.
package unit

import (
	"errors"
	"fmt"
)

// ErrUnknownVariant is returned when stat generation is asked for a hunter
// variant outside the supported profiles. This indicates a build or
// configuration error upstream and is never retried.
var ErrUnknownVariant = errors.New("unit: unknown hunter variant")

// Variant identifies the hunter capability profile an encounter is scaled
// against. Enemy stats differ per variant.
type Variant int

const (
	VariantBorge Variant = iota
	VariantOzzy
)

// String returns the lowercase variant name.
func (v Variant) String() string {
	switch v {
	case VariantBorge:
		return "borge"
	case VariantOzzy:
		return "ozzy"
	default:
		return "unknown"
	}
}

// ParseVariant converts a build-file variant name into a Variant.
//
// Postcondition: Returns a valid Variant, or ErrUnknownVariant wrapped with
// the offending name.
func ParseVariant(name string) (Variant, error) {
	switch name {
	case "borge":
		return VariantBorge, nil
	case "ozzy":
		return VariantOzzy, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownVariant, name)
	}
}

// Kind distinguishes regular stage enemies from bosses.
type Kind int

const (
	KindEnemy Kind = iota
	KindBoss
)

// StatBundle holds the nine combat stats a unit is created with.
// All fields are non-negative; Speed is the action interval in simulated
// seconds (lower is faster) and stays >= 0.5 for bosses.
type StatBundle struct {
	HP              float64
	Power           float64
	Regen           float64
	DamageReduction float64
	EvadeChance     float64
	SpecialChance   float64
	SpecialDamage   float64
	Speed           float64
}

// Balance caps applied to every generated bundle regardless of variant,
// stage, or kind (2024-01-24 patch: enemies cannot exceed 25% crit chance
// and 250% crit damage).
const (
	maxSpecialChance = 0.25
	maxSpecialDamage = 2.5
)

// Generate computes the stat bundle for a unit of the given kind facing the
// given hunter variant at the given stage. Pure and deterministic.
//
// Regular enemies scale with stage in three regimes: the base polynomial,
// a fixed late-game multiplier for stage > 100, and a compounding
// multiplier for stage >= 150 whose slope re-steepens every 50 stages via
// the integer step (stage-150)/50. Bosses use fixed per-variant tables.
//
// Postcondition: SpecialChance <= 0.25 and SpecialDamage <= 2.5 on every
// returned bundle. Returns ErrUnknownVariant for unsupported variants.
func Generate(v Variant, stage int, kind Kind) (StatBundle, error) {
	var b StatBundle
	var err error
	switch kind {
	case KindBoss:
		b, err = bossStats(v)
	default:
		b, err = enemyStats(v, stage)
	}
	if err != nil {
		return StatBundle{}, err
	}
	b.SpecialChance = min(b.SpecialChance, maxSpecialChance)
	b.SpecialDamage = min(b.SpecialDamage, maxSpecialDamage)
	return b, nil
}

// lateGame reports the stage > 100 multiplier, or 1 below the boundary.
func lateGame(stage int, mult float64) float64 {
	if stage > 100 {
		return mult
	}
	return 1
}

// compounding returns the stage >= 150 multiplier. term is the per-stage
// slope 0.006 + 0.006*step where step = (stage-150)/50 in integer division,
// so the curve re-steepens every 50 stages past 150. hpWeighted scales the
// slope by stage/150 (integer division), which only the hp formula uses.
func compounding(stage int, hpWeighted bool) float64 {
	if stage < 150 {
		return 1
	}
	step := float64((stage - 150) / 50)
	term := float64(stage-149) * (0.006 + 0.006*step)
	if hpWeighted {
		term *= float64(stage / 150)
	}
	return 1 + term
}

func enemyStats(v Variant, stage int) (StatBundle, error) {
	s := float64(stage)
	switch v {
	case VariantBorge:
		regen := 0.0
		if stage > 1 {
			regen = float64(stage-1) * 0.08
		}
		evade := 0.0
		if stage > 100 {
			evade = 0.004
		}
		return StatBundle{
			HP:              (9 + s*4) * lateGame(stage, 2.85) * compounding(stage, true),
			Power:           (2.5 + s*0.7) * lateGame(stage, 2.85) * compounding(stage, false),
			Regen:           regen * lateGame(stage, 1.052) * compounding(stage, false),
			DamageReduction: 0,
			EvadeChance:     evade,
			SpecialChance:   0.0322 + s*0.0004,
			SpecialDamage:   1.21 + s*0.008025,
			Speed:           4.53 - s*0.006,
		}, nil
	case VariantOzzy:
		regen := 0.0
		if stage > 0 {
			regen = 0.02 + float64(stage-1)*0.1
		}
		evade := 0.0
		if stage > 100 {
			evade = 0.01
		}
		return StatBundle{
			HP:              (11 + s*6) * lateGame(stage, 2.9) * compounding(stage, true),
			Power:           (1.35 + s*0.75) * lateGame(stage, 2.7) * compounding(stage, false),
			Regen:           regen * lateGame(stage, 1.25) * compounding(stage, false),
			DamageReduction: 0,
			EvadeChance:     evade,
			SpecialChance:   0.0994 + s*0.0006,
			SpecialDamage:   1.03 + s*0.008,
			Speed:           3.20 - s*0.004,
		}, nil
	default:
		return StatBundle{}, fmt.Errorf("%w: %d", ErrUnknownVariant, v)
	}
}

// bossStats returns the fixed per-variant boss table. Boss stats are
// stage-independent; the boss appears once per boss stage.
func bossStats(v Variant) (StatBundle, error) {
	switch v {
	case VariantBorge:
		return StatBundle{
			HP:              36810,
			Power:           263.18,
			Regen:           15.21,
			DamageReduction: 0.05,
			EvadeChance:     0.004,
			SpecialChance:   0.1122,
			SpecialDamage:   2.26,
			Speed:           9.50,
		}, nil
	case VariantOzzy:
		return StatBundle{
			HP:              29328,
			Power:           229.05,
			Regen:           59.52,
			DamageReduction: 0.05,
			EvadeChance:     0.01,
			SpecialChance:   0.3094,
			SpecialDamage:   1.83,
			Speed:           6.87,
		}, nil
	default:
		return StatBundle{}, fmt.Errorf("%w: %d", ErrUnknownVariant, v)
	}
}

// enrageEffect returns the per-stack action-interval reduction for the boss
// facing the given variant.
func enrageEffect(v Variant) (float64, error) {
	switch v {
	case VariantBorge:
		return 0.0475, nil
	case VariantOzzy:
		return 0.033658536585365856, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnknownVariant, v)
	}
}
