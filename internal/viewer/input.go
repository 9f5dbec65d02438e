package viewer

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// dragThreshold is the screen distance a left press must travel to count
// as a box select rather than a click.
const dragThreshold = 4.0

// handleInput processes keys and mouse every frame, independent of sim
// speed. A is the attack-move modifier, so the camera pans with W/S/D and
// the arrow keys.
func (g *Game) handleInput() {
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.TogglePause()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyComma) {
		g.CycleSpeed(-1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyPeriod) {
		g.CycleSpeed(+1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.showHUD = !g.showHUD
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.copyState()
	}

	g.handleCamera()
	g.handleMouse()
}

func (g *Game) handleCamera() {
	pan := 8.0 / g.camZoom
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		g.camY -= pan
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		g.camY += pan
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		g.camX -= pan
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		g.camX += pan
	}

	if _, wy := ebiten.Wheel(); wy != 0 {
		g.camZoom = clamp(g.camZoom*math.Pow(1.12, wy), zoomMin, zoomMax)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) {
		g.camZoom = clamp(g.camZoom*1.25, zoomMin, zoomMax)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) {
		g.camZoom = clamp(g.camZoom/1.25, zoomMin, zoomMax)
	}
}

func (g *Game) handleMouse() {
	mx, my := ebiten.CursorPosition()
	if mx >= viewWidth {
		return // over the event panel
	}
	cursor := g.screenToWorld(float64(mx), float64(my))

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.dragging = true
		g.dragStart, g.dragEnd = cursor, cursor
	}
	if g.dragging {
		g.dragEnd = cursor
		if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
			g.dragging = false
			g.finishSelect()
		}
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		attackMove := ebiten.IsKeyPressed(ebiten.KeyA)
		queue := ebiten.IsKeyPressed(ebiten.KeyShift)
		g.Command(cursor, attackMove, queue)
	}
}

// finishSelect turns a short drag into a click on a single unit.
func (g *Game) finishSelect() {
	if g.dragStart.Dist(g.dragEnd)*g.camZoom >= dragThreshold {
		g.SelectBox(g.dragStart, g.dragEnd)
		return
	}
	g.selected = g.selected[:0]
	if v, ok := g.Sim.UnitAt(g.dragEnd); ok && v.Team == g.PlayerTeam {
		g.selected = append(g.selected, v.Handle)
	}
}
