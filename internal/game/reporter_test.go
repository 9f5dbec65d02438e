package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimReporter_CollectTalliesTeams(t *testing.T) {
	ts := NewTestSim(
		WithRedUnit(0, -100, 0, SeekEnemy{}),
		WithRedUnit(1, -100, 300, Passive{}),
		WithBlueUnit(2, 100, 0, Passive{}),
	)
	r := NewSimReporter(0)
	r.Collect(ts.Sim)

	rpt := r.Latest()
	require.NotNil(t, rpt)
	assert.Equal(t, 2, rpt.Red.Alive)
	assert.Equal(t, 1, rpt.Red.Seeking)
	assert.Equal(t, 1, rpt.Red.Passive)
	assert.Equal(t, 1, rpt.Blue.Alive)
	assert.Equal(t, 0, rpt.Blue.Injured)
	assert.Equal(t, 3*DefaultUnitSpec(TeamRed, Vec2{}, Passive{}).MaxHP, rpt.Red.HP+rpt.Blue.HP)
}

func TestSimReporter_TracksDamageAndDeath(t *testing.T) {
	ts := NewTestSim(
		WithRedUnit(0, -100, 0, SeekEnemy{}),
		WithBlueUnit(1, 100, 0, Passive{}),
	)
	r := NewSimReporter(0)
	sawInjured := false
	for i := 0; i < 600 && ts.Sim.Alive(ts.Handle(1)); i++ {
		ts.RunTicks(1)
		r.Collect(ts.Sim)
		if r.Latest().Blue.Injured > 0 {
			sawInjured = true
		}
	}
	require.False(t, ts.Sim.Alive(ts.Handle(1)))
	assert.True(t, sawInjured, "blue should be injured before it dies")

	last := r.Latest()
	assert.Equal(t, 0, last.Blue.Alive)
	assert.Equal(t, 1, last.Blue.Dead)
	assert.Equal(t, 1, last.Red.Alive)
}

func TestSimReporter_WindowSummary(t *testing.T) {
	r := NewSimReporter(120)
	assert.Nil(t, r.WindowSummary())
	assert.Equal(t, "No data collected yet.\n", r.WindowSummary().Format())
	assert.Equal(t, "No data.\n", r.FormatLatest())

	// Hand-built history: only the last three samples fall in the window.
	r.history = []SimReport{
		{Tick: 0, Red: TeamReport{Alive: 9}},
		{Tick: 60, Red: TeamReport{Alive: 4, Seeking: 4}, Blue: TeamReport{Alive: 2}},
		{Tick: 120, Red: TeamReport{Alive: 3, Seeking: 2, Attacking: 1}, Blue: TeamReport{Alive: 2, Winding: 1}},
		{Tick: 180, Red: TeamReport{Alive: 2, Attacking: 2, Dead: 2}, Blue: TeamReport{Alive: 1, Dead: 1}},
	}
	wr := r.WindowSummary()
	require.NotNil(t, wr)
	assert.Equal(t, 60, wr.FromTick)
	assert.Equal(t, 180, wr.ToTick)
	assert.Equal(t, 3, wr.SampleCount)
	assert.InDelta(t, 3.0, wr.Red.Alive, 1e-9)
	assert.InDelta(t, 2.0, wr.Red.Seeking, 1e-9)
	assert.InDelta(t, 1.0, wr.Red.Attacking, 1e-9)
	assert.InDelta(t, 5.0/3, wr.Blue.Alive, 1e-9)
	assert.Equal(t, 2, wr.Red.Dead)
	assert.Equal(t, 1, wr.Blue.Dead)
	assert.Contains(t, wr.Format(), "T=60..180, 3 samples")
	assert.Contains(t, r.FormatLatest(), "--- Snapshot T=180 ---")
}

func TestSimReporter_PrunesHistory(t *testing.T) {
	ts := NewTestSim(WithRedUnit(0, 0, 0, Passive{}))
	r := NewSimReporter(60)
	for i := 0; i < 150; i++ {
		r.Collect(ts.Sim)
	}
	assert.Len(t, r.History(), 100)
}
