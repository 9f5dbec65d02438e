package game

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

const deg = math.Pi / 180

func TestRotateStep(t *testing.T) {
	if _, needed := rotateStep(0, 4*deg, 10*deg); needed {
		t.Fatal("4 degrees off should be within facing tolerance")
	}
	turn, needed := rotateStep(0, 90*deg, 10*deg)
	if !needed || math.Abs(turn-10*deg) > 1e-12 {
		t.Fatalf("expected clamped +10deg turn, got %v (needed=%v)", turn/deg, needed)
	}
	turn, _ = rotateStep(0, -90*deg, 10*deg)
	if math.Abs(turn+10*deg) > 1e-12 {
		t.Fatalf("expected clamped -10deg turn, got %v", turn/deg)
	}
	// Shortest way round across the +-pi seam.
	turn, _ = rotateStep(170*deg, -170*deg, 45*deg)
	if math.Abs(turn-20*deg) > 1e-9 {
		t.Fatalf("expected +20deg across the seam, got %v", turn/deg)
	}
}

func TestMovement_RotateBeforeMoveTurnsFirst(t *testing.T) {
	spec := DefaultUnitSpec(TeamRed, Vec2{0, 0}, Passive{})
	spec.RotationSpeed = 90 // 22.5 degrees per 0.25s tick
	ts := NewTestSim(WithTimestep(0.25), WithUnit(0, spec))
	ts.Sim.ReplaceOrders(ts.Handle(0), OrderMove(Vec2{0, 200}))

	for i := 1; i <= 4; i++ {
		ts.RunTicks(1)
		v, _ := ts.View(0)
		assert.Equal(t, Vec2{0, 0}, v.Pos, "tick %d: must not move while turning", i)
		assert.InDelta(t, float64(i)*22.5*deg, v.Heading, 1e-9)
	}

	ts.RunTicks(1)
	v, _ := ts.View(0)
	assert.InDelta(t, 0, v.Pos.X, 1e-9)
	assert.InDelta(t, 180*0.25, v.Pos.Y, 1e-9)
}

func TestMovement_StrikeHoldsPosition(t *testing.T) {
	ts := NewTestSim(
		WithRedUnit(0, 0, 0, Passive{}),
		WithBlueUnit(1, 40, 0, Passive{}),
	)
	ts.Sim.ReplaceOrders(ts.Handle(0), OrderMove(Vec2{-300, 0}))
	ts.RunTicks(1)
	e, _ := ts.Entry(0)
	CompAbility.Get(e).State = WillAttack{StartTime: ts.Sim.Now(), Target: ts.Handle(1)}
	before, _ := ts.View(0)

	ts.RunTicks(10)

	after, _ := ts.View(0)
	assert.Equal(t, before.Pos, after.Pos)
}

func TestMovement_StrikeTurnsTowardTarget(t *testing.T) {
	spec := DefaultUnitSpec(TeamRed, Vec2{0, 0}, Passive{})
	spec.RotationSpeed = 90
	ts := NewTestSim(
		WithTimestep(0.25),
		WithUnit(0, spec),
		WithBlueUnit(1, 0, 40, Passive{}),
	)
	e, _ := ts.Entry(0)
	CompAbility.Get(e).State = WillAttack{StartTime: 0, Target: ts.Handle(1)}

	ts.RunTicks(1)

	v, _ := ts.View(0)
	assert.InDelta(t, 22.5*deg, v.Heading, 1e-9)
	assert.Equal(t, Vec2{0, 0}, v.Pos)
}

func TestMovement_FinalStepLandsOnTarget(t *testing.T) {
	ts := NewTestSim(WithTimestep(0.25), WithRedUnit(0, 0, 0, Passive{}))
	ts.Sim.ReplaceOrders(ts.Handle(0), OrderMove(Vec2{10, 0}))

	ts.RunTicks(1)
	v, _ := ts.View(0)
	assert.InDelta(t, 10, v.Pos.X, 1e-9, "speed*dt=45 must not overshoot a 10 unit gap")

	ts.RunTicks(1)
	assert.True(t, moverOf(t, ts, 0).Reached)
}

func TestMovement_ArrivalEpsilonSetsReached(t *testing.T) {
	ts := NewTestSim(WithRedUnit(0, 0, 0, Passive{}))
	ts.Sim.ReplaceOrders(ts.Handle(0), OrderMove(Vec2{1.5, 0}))

	ts.RunTicks(1)

	assert.True(t, moverOf(t, ts, 0).Reached)
	v, _ := ts.View(0)
	assert.Equal(t, Vec2{0, 0}, v.Pos)
}

func TestMovement_ZeroSpeedStaysPut(t *testing.T) {
	spec := DefaultUnitSpec(TeamRed, Vec2{0, 0}, Passive{})
	spec.Speed = 0
	ts := NewTestSim(WithUnit(0, spec))
	ts.Sim.ReplaceOrders(ts.Handle(0), OrderMove(Vec2{100, 0}))

	ts.RunTicks(30)

	v, _ := ts.View(0)
	assert.Equal(t, Vec2{0, 0}, v.Pos)
	assert.False(t, moverOf(t, ts, 0).Reached)
}

func TestKinematicPhysics_SlidesAlongWall(t *testing.T) {
	// Unit at tile (2,2), wall at (3,2); the straight line to tile (4,3)
	// clips the wall, so the body slides along it instead.
	ts := NewTestSim(
		WithMapSize(5, 5),
		WithWalls(TilePos{3, 2}),
		WithTileSize(100),
		WithRedUnit(0, -50, -50, Passive{}),
	)
	target := ts.Grid.TileToWorld(TilePos{4, 3})
	ts.Sim.ReplaceOrders(ts.Handle(0), OrderMove(target))

	for i := 0; i < 240; i++ {
		ts.RunTicks(1)
		v, _ := ts.View(0)
		tile := ts.Grid.WorldToTile(v.Pos)
		if ts.Grid.IsBlocked(tile.X, tile.Y) {
			t.Fatalf("tick %d: unit entered wall tile %v at %v", i, tile, v.Pos)
		}
	}
	assert.True(t, moverOf(t, ts, 0).Reached)
}
