package viewer

import (
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Garsondee/skirmish/internal/game"
	"github.com/Garsondee/skirmish/internal/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func newTestViewer(t *testing.T) (*Game, game.Handle, game.Handle) {
	t.Helper()
	sim := game.NewSim(game.NewGridMap(10, 10), nil)
	red := sim.Spawn(game.UnitSpec{Kind: "infantry", Team: game.TeamRed, Pos: game.Vec2{X: -100}, Speed: 100, Radius: 20, MaxHP: 10})
	blue := sim.Spawn(game.UnitSpec{Kind: "infantry", Team: game.TeamBlue, Pos: game.Vec2{X: 200}, Speed: 100, Radius: 20, MaxHP: 10})
	return New(sim, 1.0/60), red, blue
}

func TestFeed_RingKeepsNewest(t *testing.T) {
	f := NewFeed()
	for i := 0; i < feedMaxEntries+5; i++ {
		f.Add(game.SimLogEntry{Tick: i})
	}
	recent := f.Recent()
	require.Len(t, recent, feedMaxEntries)
	assert.Equal(t, 5, recent[0].Tick)
	assert.Equal(t, feedMaxEntries+4, recent[len(recent)-1].Tick)
}

func TestFeed_TailsSimLog(t *testing.T) {
	g, _, _ := newTestViewer(t)
	recent := g.feed.Recent()
	require.Empty(t, recent)

	g.Sim.SimLog.Add(3, "R0", "red", "ai", "state", "seek_enemy", 0)
	recent = g.feed.Recent()
	require.Len(t, recent, 1)
	assert.Contains(t, feedLine(recent[0]), "ai/state seek_enemy")
}

func TestCamera_RoundTrip(t *testing.T) {
	g, _, _ := newTestViewer(t)
	g.camX, g.camY, g.camZoom = 50, -30, 1.5

	p := game.Vec2{X: 123, Y: -45}
	sx, sy := g.worldToScreen(p)
	back := g.screenToWorld(float64(sx), float64(sy))
	assert.InDelta(t, p.X, back.X, 1e-3)
	assert.InDelta(t, p.Y, back.Y, 1e-3)
}

func TestFitCamera_CentresMap(t *testing.T) {
	g, _, _ := newTestViewer(t)
	minP, maxP := g.Sim.Grid.Bounds()
	assert.InDelta(t, (minP.X+maxP.X)/2, g.camX, 1e-9)
	assert.InDelta(t, (minP.Y+maxP.Y)/2, g.camY, 1e-9)
	assert.GreaterOrEqual(t, g.camZoom, zoomMin)
	assert.LessOrEqual(t, g.camZoom, zoomMax)
}

func TestCycleSpeedAndPause(t *testing.T) {
	g, _, _ := newTestViewer(t)
	g.CycleSpeed(+1)
	assert.Equal(t, 2.0, g.simSpeed)
	g.CycleSpeed(+1)
	g.CycleSpeed(+1)
	assert.Equal(t, 4.0, g.simSpeed, "top speed is sticky")
	g.CycleSpeed(-1)
	assert.Equal(t, 2.0, g.simSpeed)

	g.TogglePause()
	assert.Equal(t, "PAUSED", g.speedLabel())
	g.TogglePause()
	assert.Equal(t, 1.0, g.simSpeed)
}

func TestSelectBox_OnlyPlayerTeam(t *testing.T) {
	g, red, _ := newTestViewer(t)
	g.SelectBox(game.Vec2{X: -500, Y: -500}, game.Vec2{X: 500, Y: 500})
	assert.Equal(t, []game.Handle{red}, g.Selected())
}

func TestFinishSelect_ClickPicksSingleUnit(t *testing.T) {
	g, red, _ := newTestViewer(t)
	g.dragStart, g.dragEnd = game.Vec2{X: -95}, game.Vec2{X: -95}
	g.finishSelect()
	assert.Equal(t, []game.Handle{red}, g.Selected())

	g.dragStart, g.dragEnd = game.Vec2{X: 200}, game.Vec2{X: 200}
	g.finishSelect()
	assert.Empty(t, g.Selected(), "enemy units cannot be selected")
}

func TestCommand_RightClickOnEnemyAttacks(t *testing.T) {
	g, red, blue := newTestViewer(t)
	g.selected = []game.Handle{red}

	g.Command(game.Vec2{X: 205}, false, false)
	e, ok := g.Sim.Entry(red)
	require.True(t, ok)
	q := game.CompOrders.Get(e).Queue()
	require.Len(t, q, 1)
	assert.Equal(t, game.OrderAI(game.Attack{Target: blue, ChaseWhenTargetTooFar: true}), q[0])
}

func TestCommand_RightClickOnGroundMoves(t *testing.T) {
	g, red, _ := newTestViewer(t)
	g.selected = []game.Handle{red}

	g.Command(game.Vec2{X: -100, Y: 300}, true, false)
	e, _ := g.Sim.Entry(red)
	q := game.CompOrders.Get(e).Queue()
	require.NotEmpty(t, q)
	assert.Equal(t, game.OrderAI(game.SeekEnemy{}), q[0], "attack-move leads with seek")
	assert.Equal(t, game.OrderMove(game.Vec2{X: -100, Y: 300}), q[len(q)-2])
}

func TestCommand_NoSelectionIsNoop(t *testing.T) {
	g, red, _ := newTestViewer(t)
	g.Command(game.Vec2{X: 0, Y: 0}, false, false)
	e, _ := g.Sim.Entry(red)
	assert.Zero(t, game.CompOrders.Get(e).Len())
}

func TestStateDump_ListsSelectedUnit(t *testing.T) {
	g, red, _ := newTestViewer(t)
	g.Sim.Step(1.0 / 60)

	dump := StateDump(g.Sim, []game.Handle{red})
	assert.Contains(t, dump, "skirmish state T=1")
	assert.Contains(t, dump, "== R0 (infantry, red) ==")
	assert.Contains(t, dump, "Alive: red=1  blue=1")
	assert.NotContains(t, dump, "== B0")
	assert.Contains(t, dump, fmt.Sprintf("--- events T=0..%d ---", g.Sim.Tick()))
}

func TestPruneSelection_DropsDestroyed(t *testing.T) {
	g, red, blue := newTestViewer(t)
	g.selected = []game.Handle{red, blue}
	g.Sim.World.Remove(blue)
	g.pruneSelection()
	assert.Equal(t, []game.Handle{red}, g.Selected())
}
