package viewer

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/skirmish/internal/game"
)

const (
	feedPanelWidth = 320
	feedMaxEntries = 80
	feedLineHeight = 11
)

// Feed is a ring buffer of recent SimLog entries rendered beside the map.
type Feed struct {
	entries []game.SimLogEntry
	head    int
	count   int
}

func NewFeed() *Feed {
	return &Feed{entries: make([]game.SimLogEntry, feedMaxEntries)}
}

// Attach makes f tail log.
func (f *Feed) Attach(log *game.SimLog) {
	log.OnAdd(f.Add)
}

func (f *Feed) Add(e game.SimLogEntry) {
	f.entries[f.head] = e
	f.head = (f.head + 1) % feedMaxEntries
	if f.count < feedMaxEntries {
		f.count++
	}
}

// Recent returns entries oldest first.
func (f *Feed) Recent() []game.SimLogEntry {
	out := make([]game.SimLogEntry, f.count)
	for i := 0; i < f.count; i++ {
		out[i] = f.entries[(f.head-f.count+i+feedMaxEntries)%feedMaxEntries]
	}
	return out
}

func feedLine(e game.SimLogEntry) string {
	return fmt.Sprintf("%5d %-4s %s/%s %s", e.Tick, e.Unit, e.Category, e.Key, e.Value)
}

// Draw renders the panel with its left edge at panelX.
func (f *Feed) Draw(screen *ebiten.Image, panelX, panelH int) {
	px := float32(panelX)
	vector.FillRect(screen, px, 0, feedPanelWidth, float32(panelH), color.RGBA{R: 10, G: 12, B: 14, A: 248}, false)
	vector.StrokeLine(screen, px, 0, px, float32(panelH), 1.0, color.RGBA{R: 50, G: 60, B: 70, A: 255}, false)
	vector.FillRect(screen, px, 0, feedPanelWidth, 16, color.RGBA{R: 20, G: 26, B: 32, A: 255}, false)
	ebitenutil.DebugPrintAt(screen, "EVENTS", panelX+8, 2)

	entries := f.Recent()
	maxVisible := (panelH - 24) / feedLineHeight
	if len(entries) > maxVisible {
		entries = entries[len(entries)-maxVisible:]
	}

	y := 20
	for i, e := range entries {
		if i >= len(entries)-3 {
			vector.FillRect(screen, px+2, float32(y), feedPanelWidth-4, feedLineHeight, color.RGBA{R: 30, G: 36, B: 44, A: 160}, false)
		}
		vector.FillRect(screen, px+5, float32(y+3), 3, 5, teamColor(e.Team), false)
		ebitenutil.DebugPrintAt(screen, feedLine(e), panelX+12, y)
		y += feedLineHeight
	}
}

func teamColor(team string) color.RGBA {
	switch team {
	case "red":
		return color.RGBA{R: 210, G: 70, B: 70, A: 255}
	case "blue":
		return color.RGBA{R: 70, G: 110, B: 210, A: 255}
	default:
		return color.RGBA{R: 150, G: 150, B: 150, A: 255}
	}
}
