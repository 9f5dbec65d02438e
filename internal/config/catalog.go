package config

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/Garsondee/skirmish/internal/game"
)

//go:embed defaults/catalog.yaml
var defaultCatalog []byte

// MeleeStats mirrors game.MeleeAbility in catalog form.
type MeleeStats struct {
	Range        float64 `yaml:"range"`
	MotionBuffer float64 `yaml:"motion_buffer"`
	TimeToStrike float64 `yaml:"time_to_strike"`
	Cooldown     float64 `yaml:"cooldown"`
}

// UnitType is one named stat bundle.
type UnitType struct {
	Speed         float64     `yaml:"speed"`
	Radius        float64     `yaml:"radius"`
	MaxHP         int         `yaml:"max_hp"`
	Power         int         `yaml:"power"`
	SeekRange     float64     `yaml:"seek_range"`
	RotationSpeed float64     `yaml:"rotation_speed"`
	Melee         *MeleeStats `yaml:"melee"`
}

// Catalog maps unit type names to their stats.
type Catalog struct {
	Units map[string]UnitType `yaml:"units"`
}

// ParseCatalog decodes and validates a YAML catalog.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadCatalog reads a catalog file; an empty path yields the built-in one.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return ParseCatalog(defaultCatalog)
	}
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the operator
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return ParseCatalog(data)
}

// Names lists the unit types in sorted order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.Units))
	for n := range c.Units {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Validate checks every unit type, reporting the first bad entry by name.
func (c *Catalog) Validate() error {
	if len(c.Units) == 0 {
		return fmt.Errorf("catalog defines no unit types")
	}
	for _, name := range c.Names() {
		if err := c.Units[name].validate(); err != nil {
			return fmt.Errorf("unit type %q: %w", name, err)
		}
	}
	return nil
}

func (u UnitType) validate() error {
	switch {
	case u.Speed < 0:
		return fmt.Errorf("speed must not be negative")
	case u.Radius <= 0:
		return fmt.Errorf("radius must be positive")
	case u.MaxHP <= 0:
		return fmt.Errorf("max_hp must be positive")
	case u.Power < 0:
		return fmt.Errorf("power must not be negative")
	case u.SeekRange < 0:
		return fmt.Errorf("seek_range must not be negative")
	case u.RotationSpeed < 0:
		return fmt.Errorf("rotation_speed must not be negative")
	}
	if m := u.Melee; m != nil {
		if m.Range < 0 || m.MotionBuffer < 0 || m.TimeToStrike < 0 || m.Cooldown < 0 {
			return fmt.Errorf("melee stats must not be negative")
		}
	}
	return nil
}

// Spec builds the UnitSpec for one unit of the named type.
func (c *Catalog) Spec(kind string, team game.Team, pos game.Vec2, ai game.AIUnit) (game.UnitSpec, error) {
	u, ok := c.Units[kind]
	if !ok {
		return game.UnitSpec{}, fmt.Errorf("unknown unit type %q", kind)
	}
	spec := game.UnitSpec{
		Kind:          kind,
		Team:          team,
		Pos:           pos,
		Speed:         u.Speed,
		Radius:        u.Radius,
		MaxHP:         u.MaxHP,
		Power:         u.Power,
		SeekRange:     u.SeekRange,
		RotationSpeed: u.RotationSpeed,
		AI:            ai,
	}
	if m := u.Melee; m != nil {
		spec.Melee = &game.MeleeAbility{
			Range:             m.Range,
			MotionBufferRange: m.MotionBuffer,
			TimeToStrike:      m.TimeToStrike,
			Cooldown:          m.Cooldown,
		}
	}
	return spec, nil
}
