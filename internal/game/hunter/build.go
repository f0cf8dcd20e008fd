package hunter

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/huntsim/internal/game/unit"
)

// BuildStats holds the base combat stats of a hunter build.
type BuildStats struct {
	HP              float64 `yaml:"hp"`
	Power           float64 `yaml:"power"`
	Regen           float64 `yaml:"regen"`
	DamageReduction float64 `yaml:"damage_reduction"`
	EvadeChance     float64 `yaml:"evade_chance"`
	SpecialChance   float64 `yaml:"special_chance"`
	SpecialDamage   float64 `yaml:"special_damage"`
	Speed           float64 `yaml:"speed"`
	Lifesteal       float64 `yaml:"lifesteal"`
	Reflect         float64 `yaml:"reflect"`
	StunChance      float64 `yaml:"stun_chance"`
	StunDuration    float64 `yaml:"stun_duration"`
}

// Build defines a hunter loadout loaded from YAML: variant, base stats, and
// talent/attribute point allocations.
type Build struct {
	Name       string         `yaml:"name"`
	Variant    string         `yaml:"variant"`
	Stats      BuildStats     `yaml:"stats"`
	Talents    map[string]int `yaml:"talents"`
	Attributes map[string]int `yaml:"attributes"`
}

// Validate checks that the build satisfies basic invariants.
//
// Precondition: b must not be nil.
// Postcondition: Returns nil iff Name is non-empty, Variant is a known
// variant, HP and Speed are positive, all chance fields are in [0, 1], and
// no talent or attribute has negative points; returns an error on the first
// violation otherwise.
func (b *Build) Validate() error {
	if b.Name == "" {
		return fmt.Errorf("hunter build: name must not be empty")
	}
	if _, err := unit.ParseVariant(b.Variant); err != nil {
		return fmt.Errorf("hunter build %q: %w", b.Name, err)
	}
	if b.Stats.HP <= 0 {
		return fmt.Errorf("hunter build %q: hp must be > 0", b.Name)
	}
	if b.Stats.Power < 0 {
		return fmt.Errorf("hunter build %q: power must be >= 0", b.Name)
	}
	if b.Stats.Regen < 0 {
		return fmt.Errorf("hunter build %q: regen must be >= 0", b.Name)
	}
	if b.Stats.Speed <= 0 {
		return fmt.Errorf("hunter build %q: speed must be > 0", b.Name)
	}
	chances := map[string]float64{
		"damage_reduction": b.Stats.DamageReduction,
		"evade_chance":     b.Stats.EvadeChance,
		"special_chance":   b.Stats.SpecialChance,
		"lifesteal":        b.Stats.Lifesteal,
		"reflect":          b.Stats.Reflect,
		"stun_chance":      b.Stats.StunChance,
	}
	for field, v := range chances {
		if v < 0 || v > 1 {
			return fmt.Errorf("hunter build %q: %s must be in [0, 1], got %g", b.Name, field, v)
		}
	}
	if b.Stats.SpecialDamage < 0 {
		return fmt.Errorf("hunter build %q: special_damage must be >= 0", b.Name)
	}
	if b.Stats.StunDuration < 0 {
		return fmt.Errorf("hunter build %q: stun_duration must be >= 0", b.Name)
	}
	for name, points := range b.Talents {
		if points < 0 {
			return fmt.Errorf("hunter build %q: talent %q has negative points", b.Name, name)
		}
	}
	for name, points := range b.Attributes {
		if points < 0 {
			return fmt.Errorf("hunter build %q: attribute %q has negative points", b.Name, name)
		}
	}
	return nil
}

// LoadBuildFromBytes parses a single hunter build from raw YAML bytes.
//
// Precondition: data must be valid YAML for a single Build.
// Postcondition: Returns a validated *Build, or an error.
func LoadBuildFromBytes(data []byte) (*Build, error) {
	var b Build
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parsing build YAML: %w", err)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

// LoadBuild reads and parses the hunter build at path.
//
// Precondition: path must be a readable YAML file.
// Postcondition: Returns a validated *Build, or an error.
func LoadBuild(path string) (*Build, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading build file %q: %w", path, err)
	}
	b, err := LoadBuildFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("loading build %q: %w", path, err)
	}
	return b, nil
}
