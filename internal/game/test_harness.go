package game

import (
	"fmt"
	"math/rand"

	"github.com/yohamta/donburi"
)

// DefaultTimestep is one 60 Hz tick.
const DefaultTimestep = 1.0 / 60

// TestSim is a headless simulation harness for tests and batch reports. It
// wraps a Sim with deterministic seeding, id-addressed units and a fixed
// timestep.
type TestSim struct {
	Width  int // tiles
	Height int // tiles
	Grid   *GridMap
	Sim    *Sim
	SimLog *SimLog
	DT     float64

	walls   []TilePos
	rows    []string
	tile    float64
	jitter  float64
	rng     *rand.Rand
	physics Physics
	units   map[int]Handle
}

// simOptionKind controls the pass in which an option is applied.
type simOptionKind int

const (
	simOptInfra  simOptionKind = iota // map, seed, verbose, timestep: applied first
	simOptUnit                        // spawn units: applied after the grid is built
	simOptOrders                      // issue orders: applied after all units exist
)

// SimOption is a builder function applied to a TestSim during construction.
type SimOption struct {
	kind simOptionKind
	fn   func(*TestSim)
}

// WithMapSize sets the grid dimensions in tiles.
func WithMapSize(w, h int) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.Width = w
		ts.Height = h
	}}
}

// WithWalls marks tiles as impassable.
func WithWalls(walls ...TilePos) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.walls = append(ts.walls, walls...)
	}}
}

// WithASCIIMap replaces the grid with one parsed from rows ('#' = wall).
func WithASCIIMap(rows ...string) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.rows = rows
	}}
}

// WithTileSize sets the world size of one tile.
func WithTileSize(size float64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.tile = size
	}}
}

// WithSeed sets the RNG seed for deterministic runs.
func WithSeed(seed int64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.rng = rand.New(rand.NewSource(seed)) // #nosec G404 -- test harness
	}}
}

// WithSpawnJitter scatters spawn positions of WithRedUnit/WithBlueUnit by up
// to amount world units on each axis.
func WithSpawnJitter(amount float64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.jitter = amount
	}}
}

// WithVerbose enables per-tick verbose logging.
func WithVerbose(v bool) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.SimLog = NewSimLog(v)
	}}
}

// WithTimestep sets the dt passed to each Step.
func WithTimestep(dt float64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.DT = dt
	}}
}

// WithPhysics replaces the default kinematic integrator.
func WithPhysics(p Physics) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.physics = p
	}}
}

// WithUnit spawns a unit from an explicit spec under the given id.
func WithUnit(id int, spec UnitSpec) SimOption {
	return SimOption{simOptUnit, func(ts *TestSim) {
		ts.units[id] = ts.Sim.Spawn(spec)
	}}
}

// WithRedUnit spawns a default red melee unit at (x,y) with the given AI.
func WithRedUnit(id int, x, y float64, ai AIUnit) SimOption {
	return SimOption{simOptUnit, func(ts *TestSim) {
		ts.units[id] = ts.Sim.Spawn(ts.jittered(DefaultUnitSpec(TeamRed, Vec2{x, y}, ai)))
	}}
}

// WithBlueUnit spawns a default blue melee unit at (x,y) with the given AI.
func WithBlueUnit(id int, x, y float64, ai AIUnit) SimOption {
	return SimOption{simOptUnit, func(ts *TestSim) {
		ts.units[id] = ts.Sim.Spawn(ts.jittered(DefaultUnitSpec(TeamBlue, Vec2{x, y}, ai)))
	}}
}

// WithOrders replaces a unit's orders once every unit exists.
func WithOrders(id int, orders ...Order) SimOption {
	return SimOption{simOptOrders, func(ts *TestSim) {
		ts.Sim.ReplaceOrders(ts.Handle(id), orders...)
	}}
}

// DefaultUnitSpec is a melee infantry stat bundle used by the harness.
func DefaultUnitSpec(team Team, pos Vec2, ai AIUnit) UnitSpec {
	return UnitSpec{
		Kind:      "infantry",
		Team:      team,
		Pos:       pos,
		Speed:     180,
		Radius:    20,
		MaxHP:     20,
		Power:     7,
		SeekRange: 600,
		Melee: &MeleeAbility{
			Range:             20,
			MotionBufferRange: 40,
			TimeToStrike:      0.5,
			Cooldown:          1.0,
		},
		AI: ai,
	}
}

// NewTestSim constructs a TestSim from the given options in ordered passes:
//  1. Infrastructure (map, seed, verbose, timestep)
//  2. Build the grid and Sim
//  3. Units
//  4. Orders
func NewTestSim(opts ...SimOption) *TestSim {
	ts := &TestSim{
		Width:  20,
		Height: 20,
		SimLog: NewSimLog(false),
		DT:     DefaultTimestep,
		rng:    rand.New(rand.NewSource(1)), // #nosec G404 -- test harness default
		units:  map[int]Handle{},
	}
	for _, o := range opts {
		if o.kind == simOptInfra {
			o.fn(ts)
		}
	}
	ts.buildGrid()
	for _, o := range opts {
		if o.kind == simOptUnit {
			o.fn(ts)
		}
	}
	for _, o := range opts {
		if o.kind == simOptOrders {
			o.fn(ts)
		}
	}
	return ts
}

func (ts *TestSim) buildGrid() {
	if len(ts.rows) > 0 {
		g, err := ParseGridMap(ts.rows)
		if err != nil {
			panic(fmt.Sprintf("test sim: %v", err))
		}
		ts.Grid = g
		ts.Width, ts.Height = g.Width(), g.Height()
	} else {
		ts.Grid = NewGridMap(ts.Width, ts.Height, ts.walls...)
	}
	if ts.tile > 0 {
		ts.Grid = ts.Grid.WithTileSize(ts.tile)
	}
	ts.Sim = NewSim(ts.Grid, ts.SimLog)
	if ts.physics != nil {
		ts.Sim.Physics = ts.physics
	}
}

func (ts *TestSim) jittered(spec UnitSpec) UnitSpec {
	if ts.jitter > 0 {
		spec.Pos.X += (ts.rng.Float64()*2 - 1) * ts.jitter
		spec.Pos.Y += (ts.rng.Float64()*2 - 1) * ts.jitter
	}
	return spec
}

// Handle returns the handle registered under id, or NoHandle.
func (ts *TestSim) Handle(id int) Handle {
	h, ok := ts.units[id]
	if !ok {
		return NoHandle
	}
	return h
}

// Entry resolves a unit by id; it fails once the unit is destroyed.
func (ts *TestSim) Entry(id int) (*donburi.Entry, bool) {
	return ts.Sim.Entry(ts.Handle(id))
}

// View returns a read-only copy of a unit's state.
func (ts *TestSim) View(id int) (UnitView, bool) {
	return ts.Sim.Unit(ts.Handle(id))
}

// Tick is the number of ticks run so far.
func (ts *TestSim) Tick() int { return ts.Sim.Tick() }

// RunTicks advances the simulation n ticks.
func (ts *TestSim) RunTicks(n int) {
	for i := 0; i < n; i++ {
		ts.Sim.Step(ts.DT)
	}
}

// RunUntil advances the simulation up to maxTicks, stopping early if predicate
// returns true. Returns the tick at which the predicate was satisfied, or -1.
func (ts *TestSim) RunUntil(predicate func(*TestSim) bool, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		ts.Sim.Step(ts.DT)
		if predicate(ts) {
			return ts.Sim.Tick()
		}
	}
	return -1
}
