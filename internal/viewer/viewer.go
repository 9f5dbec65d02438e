// Package viewer renders a running Sim with ebiten and turns mouse and
// keyboard input into player commands.
package viewer

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/sirupsen/logrus"

	"github.com/Garsondee/skirmish/internal/game"
	"github.com/Garsondee/skirmish/internal/logger"
)

const (
	viewWidth  = 1280
	viewHeight = 800

	zoomMin, zoomMax = 0.25, 4.0
)

var simSpeeds = []float64{0, 0.5, 1, 2, 4}

// Game adapts a Sim to ebiten.Game. The player controls PlayerTeam.
type Game struct {
	Sim        *game.Sim
	PlayerTeam game.Team

	dt        float64
	simSpeed  float64
	tickAccum float64

	camX, camY float64
	camZoom    float64

	selected  []game.Handle
	dragging  bool
	dragStart game.Vec2
	dragEnd   game.Vec2

	feed    *Feed
	showHUD bool
	status  string

	hudBuf *ebiten.Image
	log    *logrus.Entry
}

// New wraps sim. dt is the fixed tick length in seconds.
func New(sim *game.Sim, dt float64) *Game {
	g := &Game{
		Sim:        sim,
		PlayerTeam: game.TeamRed,
		dt:         dt,
		simSpeed:   1,
		camZoom:    1,
		feed:       NewFeed(),
		showHUD:    true,
		log:        logger.For("viewer"),
	}
	g.feed.Attach(sim.SimLog)
	g.fitCamera()
	return g
}

// fitCamera centres the map and picks a zoom that shows all of it.
func (g *Game) fitCamera() {
	minP, maxP := g.Sim.Grid.Bounds()
	g.camX = (minP.X + maxP.X) / 2
	g.camY = (minP.Y + maxP.Y) / 2
	w, h := maxP.X-minP.X, maxP.Y-minP.Y
	if w <= 0 || h <= 0 {
		return
	}
	zoom := float64(viewWidth) / w
	if z := float64(viewHeight) / h; z < zoom {
		zoom = z
	}
	g.camZoom = clamp(zoom, zoomMin, zoomMax)
}

func (g *Game) Update() error {
	g.handleInput()

	if g.simSpeed <= 0 {
		return nil
	}
	g.tickAccum += g.simSpeed
	for g.tickAccum >= 1.0 {
		g.tickAccum -= 1.0
		g.Sim.Step(g.dt)
	}
	g.pruneSelection()
	return nil
}

func (g *Game) Layout(_, _ int) (int, int) {
	return viewWidth + feedPanelWidth, viewHeight
}

// WindowSize is the natural window size for Layout.
func WindowSize() (int, int) {
	return viewWidth + feedPanelWidth, viewHeight
}

func (g *Game) screenToWorld(sx, sy float64) game.Vec2 {
	return game.Vec2{
		X: (sx-viewWidth/2)/g.camZoom + g.camX,
		Y: (sy-viewHeight/2)/g.camZoom + g.camY,
	}
}

func (g *Game) worldToScreen(p game.Vec2) (float32, float32) {
	return float32((p.X-g.camX)*g.camZoom + viewWidth/2),
		float32((p.Y-g.camY)*g.camZoom + viewHeight/2)
}

// pruneSelection drops handles of destroyed units.
func (g *Game) pruneSelection() {
	live := g.selected[:0]
	for _, h := range g.selected {
		if g.Sim.Alive(h) {
			live = append(live, h)
		}
	}
	g.selected = live
}

// Selected returns the current selection.
func (g *Game) Selected() []game.Handle {
	return append([]game.Handle(nil), g.selected...)
}

// SelectBox replaces the selection with the player's units inside the box.
func (g *Game) SelectBox(a, b game.Vec2) {
	g.selected = g.Sim.SelectInRect(a, b, g.PlayerTeam)
}

// Command issues the right-click action at world point p: attack when an
// enemy is under the cursor, otherwise a move.
func (g *Game) Command(p game.Vec2, attackMove, queue bool) {
	if len(g.selected) == 0 {
		return
	}
	if v, ok := g.Sim.UnitAt(p); ok && v.Team != g.PlayerTeam {
		g.Sim.CommandAttack(g.selected, v.Handle, queue)
		g.log.WithFields(logrus.Fields{"target": v.Label, "units": len(g.selected)}).Debug("attack command")
		return
	}
	g.Sim.CommandMove(g.selected, p, attackMove, queue)
}

// CycleSpeed moves one step through simSpeeds; dir is +1 or -1.
func (g *Game) CycleSpeed(dir int) {
	idx := 0
	for i, s := range simSpeeds {
		if s <= g.simSpeed {
			idx = i
		}
	}
	idx += dir
	if idx < 0 || idx >= len(simSpeeds) {
		return
	}
	g.simSpeed = simSpeeds[idx]
}

// TogglePause stops or resumes the simulation at normal speed.
func (g *Game) TogglePause() {
	if g.simSpeed > 0 {
		g.simSpeed = 0
	} else {
		g.simSpeed = 1
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
