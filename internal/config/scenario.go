package config

import (
	_ "embed"
	"fmt"
	"math"
	"math/rand"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Garsondee/skirmish/internal/game"
)

//go:embed defaults/scenario.yaml
var defaultScenario []byte

// Placement puts Count units of one type on the map. Exactly one of Tile or
// Pos must be set; extra units stack downward one tile apart.
type Placement struct {
	Type    string      `yaml:"type"`
	Team    string      `yaml:"team"`
	Tile    *[2]int     `yaml:"tile"`
	Pos     *[2]float64 `yaml:"pos"`
	AI      string      `yaml:"ai"`
	Count   int         `yaml:"count"`
	Heading float64     `yaml:"heading"` // degrees
}

// Scenario is a map plus its starting units.
type Scenario struct {
	Name     string      `yaml:"name"`
	TileSize float64     `yaml:"tile_size"`
	Jitter   float64     `yaml:"jitter"`
	Map      []string    `yaml:"map"`
	Units    []Placement `yaml:"units"`
}

// ParseScenario decodes a YAML scenario. Unit types are checked later
// against a catalog in Validate.
func ParseScenario(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if len(s.Map) == 0 {
		return nil, fmt.Errorf("scenario %q has no map", s.Name)
	}
	return &s, nil
}

// LoadScenario reads a scenario file; an empty path yields the built-in one.
func LoadScenario(path string) (*Scenario, error) {
	if path == "" {
		return ParseScenario(defaultScenario)
	}
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the operator
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return ParseScenario(data)
}

// Grid parses the scenario map.
func (s *Scenario) Grid() (*game.GridMap, error) {
	g, err := game.ParseGridMap(s.Map)
	if err != nil {
		return nil, fmt.Errorf("scenario %q map: %w", s.Name, err)
	}
	if s.TileSize > 0 {
		g = g.WithTileSize(s.TileSize)
	}
	return g, nil
}

// Validate checks every placement against the map and the catalog.
func (s *Scenario) Validate(cat *Catalog) error {
	g, err := s.Grid()
	if err != nil {
		return err
	}
	if s.TileSize < 0 || s.Jitter < 0 {
		return fmt.Errorf("scenario %q: tile_size and jitter must not be negative", s.Name)
	}
	for i, p := range s.Units {
		if err := p.validate(g, cat); err != nil {
			return fmt.Errorf("scenario %q unit %d (%s): %w", s.Name, i, p.Type, err)
		}
	}
	return nil
}

func (p Placement) validate(g *game.GridMap, cat *Catalog) error {
	if _, ok := cat.Units[p.Type]; !ok {
		return fmt.Errorf("unknown unit type")
	}
	if _, err := game.ParseTeam(p.Team); err != nil {
		return err
	}
	if _, err := ParseAI(p.AI); err != nil {
		return err
	}
	if p.Count < 0 {
		return fmt.Errorf("count must not be negative")
	}
	if (p.Tile == nil) == (p.Pos == nil) {
		return fmt.Errorf("exactly one of tile or pos is required")
	}
	for i := 0; i < p.count(); i++ {
		tile := g.WorldToTile(p.position(g, i))
		if g.IsBlocked(tile.X, tile.Y) {
			return fmt.Errorf("unit %d lands on blocked tile %v", i, tile)
		}
	}
	return nil
}

func (p Placement) count() int {
	if p.Count == 0 {
		return 1
	}
	return p.Count
}

func (p Placement) position(g *game.GridMap, i int) game.Vec2 {
	var base game.Vec2
	if p.Tile != nil {
		base = g.TileToWorld(game.TilePos{X: p.Tile[0], Y: p.Tile[1]})
	} else {
		base = game.Vec2{X: p.Pos[0], Y: p.Pos[1]}
	}
	return base.Add(game.Vec2{Y: float64(i) * g.TileSize()})
}

// ParseAI maps a scenario ai name to its initial state. Attack needs a
// target and cannot be placed from a file.
func ParseAI(name string) (game.AIUnit, error) {
	switch name {
	case "", "passive":
		return game.Passive{}, nil
	case "seek_enemy", "seek":
		return game.SeekEnemy{}, nil
	}
	return nil, fmt.Errorf("unknown ai %q", name)
}

// Build validates the scenario and spawns its units into a new Sim. seed
// drives the spawn jitter so runs are reproducible.
func (s *Scenario) Build(cat *Catalog, seed int64, log *game.SimLog) (*game.Sim, error) {
	if err := s.Validate(cat); err != nil {
		return nil, err
	}
	g, _ := s.Grid()
	sim := game.NewSim(g, log)
	rng := rand.New(rand.NewSource(seed)) // #nosec G404 -- deterministic spawn jitter

	for _, p := range s.Units {
		team, _ := game.ParseTeam(p.Team)
		ai, _ := ParseAI(p.AI)
		for i := 0; i < p.count(); i++ {
			pos := p.position(g, i)
			if s.Jitter > 0 {
				pos.X += (rng.Float64()*2 - 1) * s.Jitter
				pos.Y += (rng.Float64()*2 - 1) * s.Jitter
			}
			spec, err := cat.Spec(p.Type, team, pos, ai)
			if err != nil {
				return nil, err
			}
			spec.Heading = p.Heading * math.Pi / 180
			sim.Spawn(spec)
		}
	}
	return sim, nil
}

// Resolve loads the catalog and scenario cfg points at, falling back to the
// built-in ones, and checks that they fit together.
func (c *Config) Resolve() (*Catalog, *Scenario, error) {
	cat, err := LoadCatalog(c.Catalog)
	if err != nil {
		return nil, nil, err
	}
	sc, err := LoadScenario(c.Scenario)
	if err != nil {
		return nil, nil, err
	}
	if err := sc.Validate(cat); err != nil {
		return nil, nil, err
	}
	return cat, sc, nil
}
