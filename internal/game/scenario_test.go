package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dumpLog prints every SimLog entry; call it before failing a scenario.
func dumpLog(t *testing.T, ts *TestSim) {
	t.Helper()
	entries := ts.SimLog.Entries()
	if len(entries) == 0 {
		t.Log("(no log entries)")
		return
	}
	for _, e := range entries {
		t.Log(e.String())
	}
}

// dumpSummary prints the scenario summary block.
func dumpSummary(t *testing.T, ts *TestSim) {
	t.Helper()
	t.Log(ts.SimLog.Summary(ts.Tick(), ts.Sim.Units()))
}

func TestScenario_SeekerKillsPassiveTarget(t *testing.T) {
	ts := NewTestSim(
		WithRedUnit(0, -100, 0, SeekEnemy{}),
		WithBlueUnit(1, 100, 0, Passive{}),
	)

	tick := ts.RunUntil(func(ts *TestSim) bool { return !ts.Sim.Alive(ts.Handle(1)) }, 600)
	if tick < 0 {
		dumpLog(t, ts)
		t.Fatal("blue should have been destroyed within 600 ticks")
	}
	dumpSummary(t, ts)

	assert.Equal(t, 3, ts.SimLog.CountCategory("ability", "strike"))
	out := DetermineBattleOutcome(ts.Sim)
	assert.Equal(t, OutcomeRedVictory, out.Outcome)
	assert.Equal(t, 1, out.RedSurvivors)

	ts.RunTicks(2)
	assert.Equal(t, SeekEnemy{}, aiOf(t, ts, 0), "attacker should return to seeking once its target dies")
}

func TestScenario_MirroredSeekersTrade(t *testing.T) {
	ts := NewTestSim(
		WithRedUnit(0, -100, 0, SeekEnemy{}),
		WithBlueUnit(1, 100, 0, SeekEnemy{}),
	)

	tick := ts.RunUntil(func(ts *TestSim) bool { return len(ts.Sim.Units()) == 0 }, 600)
	if tick < 0 {
		dumpLog(t, ts)
		t.Fatal("mirrored duel should end within 600 ticks")
	}
	assert.Equal(t, OutcomeDraw, DetermineBattleOutcome(ts.Sim).Outcome)
	assert.Equal(t, 6, ts.SimLog.CountCategory("ability", "strike"))
}

func TestScenario_AttackMoveEngagesThenArrives(t *testing.T) {
	ts := NewTestSim(
		WithRedUnit(0, -600, 0, Passive{}),
		WithBlueUnit(1, 0, 0, Passive{}),
	)
	dest := Vec2{600, 0}
	ts.Sim.CommandMove([]Handle{ts.Handle(0)}, dest, true, false)

	tick := ts.RunUntil(func(ts *TestSim) bool {
		v, ok := ts.View(0)
		return ok && !ts.Sim.Alive(ts.Handle(1)) && v.Pos.Near(dest, arrivalEpsilon)
	}, 1800)
	if tick < 0 {
		dumpLog(t, ts)
		dumpSummary(t, ts)
		t.Fatal("attack-move should kill the blocker and still reach the destination")
	}
	assert.Equal(t, SeekEnemy{}, aiOf(t, ts, 0))
}

func TestScenario_PlainMoveIgnoresEnemies(t *testing.T) {
	ts := NewTestSim(
		WithRedUnit(0, -600, 0, Passive{}),
		WithBlueUnit(1, 0, 60, Passive{}),
	)
	dest := Vec2{600, 0}
	ts.Sim.CommandMove([]Handle{ts.Handle(0)}, dest, false, false)

	tick := ts.RunUntil(func(ts *TestSim) bool {
		v, _ := ts.View(0)
		return v.Pos.Near(dest, arrivalEpsilon)
	}, 1200)
	require.Greater(t, tick, 0)
	assert.Zero(t, ts.SimLog.CountCategory("ability", "strike"))
}

func TestScenario_PlayerOrderBreaksOffChase(t *testing.T) {
	ts := NewTestSim(
		WithRedUnit(0, 0, 0, Passive{}),
		WithBlueUnit(1, 500, 0, Passive{}),
	)
	ts.Sim.CommandAttack([]Handle{ts.Handle(0)}, ts.Handle(1), false)
	ts.RunTicks(20)
	_, chasing := ordersOf(t, ts, 0).Override()
	require.True(t, chasing)

	ts.Sim.CommandMove([]Handle{ts.Handle(0)}, Vec2{-600, 0}, false, false)
	_, chasing = ordersOf(t, ts, 0).Override()
	assert.False(t, chasing, "replace_orders must clear the chase override")

	ts.RunTicks(1)
	assert.Equal(t, Passive{}, aiOf(t, ts, 0))
	before, _ := ts.View(0)
	ts.RunTicks(30)
	after, _ := ts.View(0)
	assert.Less(t, after.Pos.X, before.Pos.X)
}

func TestScenario_RoutesAroundWall(t *testing.T) {
	ts := NewTestSim(WithASCIIMap(
		".......",
		"...#...",
		"...#...",
		"...#...",
		".......",
	))
	start := ts.Grid.TileToWorld(TilePos{1, 2})
	dest := ts.Grid.TileToWorld(TilePos{5, 2})
	h := ts.Sim.Spawn(DefaultUnitSpec(TeamRed, start, Passive{}))
	ts.Sim.CommandMove([]Handle{h}, dest, false, false)

	for i := 0; i < 900; i++ {
		ts.RunTicks(1)
		v, _ := ts.Sim.Unit(h)
		tile := ts.Grid.WorldToTile(v.Pos)
		if ts.Grid.IsBlocked(tile.X, tile.Y) {
			t.Fatalf("tick %d: unit inside wall tile %v", i, tile)
		}
		if v.Pos.Near(dest, arrivalEpsilon) {
			return
		}
	}
	dumpLog(t, ts)
	t.Fatal("unit never reached the far side of the wall")
}

func TestScenario_ShiftQueueRunsAfterCurrentMove(t *testing.T) {
	ts := NewTestSim(WithVerbose(true), WithRedUnit(0, 0, 0, Passive{}))
	h := ts.Handle(0)
	first, second := Vec2{240, 0}, Vec2{240, 240}
	ts.Sim.CommandMove([]Handle{h}, first, false, false)
	ts.Sim.CommandMove([]Handle{h}, second, false, true)

	reachedFirst := -1
	tick := ts.RunUntil(func(ts *TestSim) bool {
		v, _ := ts.View(0)
		if reachedFirst < 0 && v.Pos.Near(first, arrivalEpsilon) {
			reachedFirst = ts.Tick()
		}
		return v.Pos.Near(second, arrivalEpsilon)
	}, 600)
	require.Greater(t, tick, 0)
	require.Greater(t, reachedFirst, 0, "first destination skipped")
	assert.Less(t, reachedFirst, tick)
}
