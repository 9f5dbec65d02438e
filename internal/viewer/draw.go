package viewer

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/Garsondee/skirmish/internal/game"
)

// hudScale is the integer upscale applied to HUD text.
const hudScale = 2

var (
	hudFace = text.NewGoXFace(basicfont.Face7x13)

	colBackground = color.RGBA{R: 12, G: 14, B: 12, A: 255}
	colFloor      = color.RGBA{R: 28, G: 42, B: 28, A: 255}
	colWall       = color.RGBA{R: 70, G: 66, B: 60, A: 255}
	colGrid       = color.RGBA{R: 40, G: 56, B: 40, A: 120}
	colSelect     = color.RGBA{R: 230, G: 230, B: 230, A: 255}
	colPath       = color.RGBA{R: 120, G: 200, B: 120, A: 150}
	colHPBack     = color.RGBA{R: 60, G: 20, B: 20, A: 220}
	colHPFront    = color.RGBA{R: 80, G: 210, B: 80, A: 230}
)

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colBackground)
	g.drawMap(screen)
	g.drawPaths(screen)
	g.drawUnits(screen)
	g.drawSelectionBox(screen)
	g.feed.Draw(screen, viewWidth, viewHeight)
	if g.showHUD {
		g.drawHUD(screen)
	}
}

func (g *Game) drawMap(screen *ebiten.Image) {
	grid := g.Sim.Grid
	ts := grid.TileSize()
	side := float32(ts * g.camZoom)
	for y := 0; y < grid.Height(); y++ {
		for x := 0; x < grid.Width(); x++ {
			c := grid.TileToWorld(game.TilePos{X: x, Y: y})
			sx, sy := g.worldToScreen(game.Vec2{X: c.X - ts/2, Y: c.Y - ts/2})
			fill := colFloor
			if grid.IsBlocked(x, y) {
				fill = colWall
			}
			vector.FillRect(screen, sx, sy, side, side, fill, false)
			vector.StrokeRect(screen, sx, sy, side, side, 1.0, colGrid, false)
		}
	}
}

// drawPaths shows each player unit's pending waypoints, override first.
func (g *Game) drawPaths(screen *ebiten.Image) {
	for _, u := range g.Sim.Units() {
		if u.Team != g.PlayerTeam || len(u.Waypoints) == 0 {
			continue
		}
		px, py := g.worldToScreen(u.Pos)
		for _, wp := range u.Waypoints {
			wx, wy := g.worldToScreen(wp)
			vector.StrokeLine(screen, px, py, wx, wy, 1.0, colPath, true)
			vector.FillCircle(screen, wx, wy, 2.5, colPath, true)
			px, py = wx, wy
		}
	}
}

func (g *Game) drawUnits(screen *ebiten.Image) {
	selected := map[game.Handle]bool{}
	for _, h := range g.selected {
		selected[h] = true
	}

	for _, u := range g.Sim.Units() {
		cx, cy := g.worldToScreen(u.Pos)
		r := float32(u.Radius * g.camZoom)

		vector.FillCircle(screen, cx, cy, r, teamColor(u.Team.String()), true)
		if ring, ok := abilityColor(u.Ability); ok {
			vector.StrokeCircle(screen, cx, cy, r+3, 2.0, ring, true)
		}
		if selected[u.Handle] {
			vector.StrokeCircle(screen, cx, cy, r+6, 1.0, colSelect, true)
		}

		hx := cx + r*float32(math.Cos(u.Heading))
		hy := cy + r*float32(math.Sin(u.Heading))
		vector.StrokeLine(screen, cx, cy, hx, hy, 2.0, colSelect, true)

		if u.MaxHP > 0 {
			frac := float32(math.Max(0, float64(u.HP)) / float64(u.MaxHP))
			bw := 2 * r
			vector.FillRect(screen, cx-r, cy-r-7, bw, 3, colHPBack, false)
			vector.FillRect(screen, cx-r, cy-r-7, bw*frac, 3, colHPFront, false)
		}
	}
}

// abilityColor picks the ring drawn around a unit for its melee state.
func abilityColor(st game.MeleeAbilityState) (color.RGBA, bool) {
	switch st.(type) {
	case game.WillAttack:
		return color.RGBA{R: 255, G: 170, B: 0, A: 255}, true
	case game.AttackCooldown:
		return color.RGBA{R: 140, G: 140, B: 140, A: 200}, true
	case game.MotionBufferExceeded:
		return color.RGBA{R: 200, G: 0, B: 200, A: 220}, true
	}
	return color.RGBA{}, false
}

func (g *Game) drawSelectionBox(screen *ebiten.Image) {
	if !g.dragging {
		return
	}
	ax, ay := g.worldToScreen(g.dragStart)
	bx, by := g.worldToScreen(g.dragEnd)
	x, y := min(ax, bx), min(ay, by)
	w, h := max(ax, bx)-x, max(ay, by)-y
	vector.FillRect(screen, x, y, w, h, color.RGBA{R: 200, G: 200, B: 200, A: 30}, false)
	vector.StrokeRect(screen, x, y, w, h, 1.0, colSelect, false)
}

func (g *Game) speedLabel() string {
	switch g.simSpeed {
	case 0:
		return "PAUSED"
	case 1:
		return "1x"
	}
	return fmt.Sprintf("%gx", g.simSpeed)
}

func (g *Game) hudLines() []string {
	red, redDead := g.Sim.TeamCounts(game.TeamRed)
	blue, blueDead := g.Sim.TeamCounts(game.TeamBlue)
	lines := []string{
		fmt.Sprintf("T=%d  %s  P=pause  ,/. speed", g.Sim.Tick(), g.speedLabel()),
		fmt.Sprintf("red %d/%d  blue %d/%d  selected %d", red-redDead, red, blue-blueDead, blue, len(g.selected)),
		"drag=select  right=move/attack  A+right=attack-move  shift=queue",
		"WSD/arrows=pan  scroll=zoom  C=copy state  H=hud",
	}
	if g.status != "" {
		lines = append(lines, g.status)
	}
	return lines
}

// drawHUD renders at 1x into hudBuf and blits it scaled up.
func (g *Game) drawHUD(screen *ebiten.Image) {
	if g.hudBuf == nil {
		g.hudBuf = ebiten.NewImage(viewWidth/hudScale, viewHeight/hudScale)
	}
	const lineH = 14
	const pad = 5

	lines := g.hudLines()
	maxLen := 0
	for _, l := range lines {
		maxLen = max(maxLen, len(l))
	}
	boxW := float32(maxLen*7 + pad*2)
	boxH := float32(len(lines)*lineH + pad*2)
	bx := float32(4)
	by := float32(viewHeight/hudScale) - boxH - 4

	g.hudBuf.Clear()
	vector.FillRect(g.hudBuf, bx, by, boxW, boxH, color.RGBA{R: 6, G: 10, B: 6, A: 210}, false)
	vector.StrokeRect(g.hudBuf, bx, by, boxW, boxH, 1.0, color.RGBA{R: 60, G: 100, B: 60, A: 180}, false)

	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(bx)+pad, float64(by)+pad)
	op.LineSpacing = lineH
	text.Draw(g.hudBuf, strings.Join(lines, "\n"), hudFace, op)

	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Scale(hudScale, hudScale)
	screen.DrawImage(g.hudBuf, opts)
}
