package viewer

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/Garsondee/skirmish/internal/game"
)

// dumpTicks is how much recent history a state dump includes.
const dumpTicks = 180

// StateDump renders the sim state plus recent events as plain text. The
// selected units' orders are listed in detail.
func StateDump(sim *game.Sim, selected []game.Handle) string {
	var b strings.Builder
	fmt.Fprintf(&b, "--- skirmish state T=%d t=%.2fs ---\n", sim.Tick(), sim.Now())
	b.WriteString(sim.SimLog.Summary(sim.Tick(), sim.Units()))

	for _, h := range selected {
		v, ok := sim.Unit(h)
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "\n== %s (%s, %s) ==\n", v.Label, v.Kind, v.Team)
		fmt.Fprintf(&b, "pos=(%.1f,%.1f) heading=%.2f target=(%.1f,%.1f) reached=%v\n",
			v.Pos.X, v.Pos.Y, v.Heading, v.Target.X, v.Target.Y, v.Reached)
		for i, wp := range v.Waypoints {
			fmt.Fprintf(&b, "  wp%d (%.0f,%.0f)\n", i, wp.X, wp.Y)
		}
		for _, e := range sim.SimLog.FilterUnit(v.Label) {
			if e.Tick > sim.Tick()-dumpTicks {
				b.WriteString("  " + e.String() + "\n")
			}
		}
	}

	from := sim.Tick() - dumpTicks + 1
	fmt.Fprintf(&b, "\n--- events T=%d..%d ---\n", max(from, 0), sim.Tick())
	b.WriteString(sim.SimLog.FormatRange(from, sim.Tick()))
	return b.String()
}

// copyState puts a StateDump on the system clipboard.
func (g *Game) copyState() {
	dump := StateDump(g.Sim, g.selected)
	if err := clipboard.WriteAll(dump); err != nil {
		g.status = "copy failed: " + err.Error()
		g.log.WithError(err).Warn("clipboard write failed")
		return
	}
	g.status = fmt.Sprintf("copied state (%d bytes)", len(dump))
	g.log.WithField("bytes", len(dump)).Info("state copied to clipboard")
}
