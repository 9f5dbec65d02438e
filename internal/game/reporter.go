package game

import (
	"fmt"
	"strings"
)

// reportWindowTicks is the default sliding window for recent-behaviour reports (~10s at 60TPS).
const reportWindowTicks = 600

// TeamReport captures one side's state at one point in time.
type TeamReport struct {
	Alive   int
	Dead    int
	Injured int // hp below max
	HP      int

	Passive   int
	Seeking   int
	Attacking int

	Winding    int // WillAttack
	Cooldown   int
	OutOfReach int // MotionBufferExceeded
}

// SimReport is a snapshot of the simulation at one tick.
type SimReport struct {
	Tick int
	Red  TeamReport
	Blue TeamReport
}

// Team returns the report for t.
func (r *SimReport) Team(t Team) *TeamReport {
	if t == TeamBlue {
		return &r.Blue
	}
	return &r.Red
}

// SimReporter collects periodic reports from the simulation and can produce
// summaries over sliding time windows.
type SimReporter struct {
	history     []SimReport
	windowTicks int
}

// NewSimReporter creates a reporter with the given window size.
func NewSimReporter(windowTicks int) *SimReporter {
	if windowTicks <= 0 {
		windowTicks = reportWindowTicks
	}
	return &SimReporter{windowTicks: windowTicks}
}

// Collect gathers a snapshot from the current simulation state.
// Call this periodically (e.g. every 60 ticks / 1s).
func (r *SimReporter) Collect(s *Sim) {
	report := SimReport{Tick: s.Tick()}
	for _, t := range []Team{TeamRed, TeamBlue} {
		_, dead := s.TeamCounts(t)
		report.Team(t).Dead = dead
	}
	for _, u := range s.Units() {
		tallyUnit(u, report.Team(u.Team))
	}

	r.history = append(r.history, report)

	// Keep at most two windows of one-per-second samples.
	maxKeep := r.windowTicks / 60 * 2
	if maxKeep < 100 {
		maxKeep = 100
	}
	if len(r.history) > maxKeep {
		r.history = r.history[len(r.history)-maxKeep:]
	}
}

func tallyUnit(u UnitView, tr *TeamReport) {
	tr.Alive++
	tr.HP += u.HP
	if u.HP < u.MaxHP {
		tr.Injured++
	}
	switch u.AI.(type) {
	case SeekEnemy:
		tr.Seeking++
	case Attack:
		tr.Attacking++
	case Passive:
		tr.Passive++
	}
	switch u.Ability.(type) {
	case WillAttack:
		tr.Winding++
	case AttackCooldown:
		tr.Cooldown++
	case MotionBufferExceeded:
		tr.OutOfReach++
	}
}

// Latest returns the most recent report, or nil if none collected yet.
func (r *SimReporter) Latest() *SimReport {
	if len(r.history) == 0 {
		return nil
	}
	return &r.history[len(r.history)-1]
}

// History returns all retained reports.
func (r *SimReporter) History() []SimReport {
	return r.history
}

// TeamAverages is one side's mean state over a window.
type TeamAverages struct {
	Alive, Injured, HP          float64
	Seeking, Attacking, Passive float64
	Winding, Cooldown           float64
	OutOfReach                  float64
	Dead                        int // at the end of the window
}

// WindowReport is an aggregated summary over a time window.
type WindowReport struct {
	FromTick, ToTick int
	SampleCount      int
	Red, Blue        TeamAverages
}

// WindowSummary averages every report in the recent window.
func (r *SimReporter) WindowSummary() *WindowReport {
	if len(r.history) == 0 {
		return nil
	}

	latest := r.history[len(r.history)-1]
	cutoff := latest.Tick - r.windowTicks
	var window []SimReport
	for i := len(r.history) - 1; i >= 0; i-- {
		if r.history[i].Tick < cutoff {
			break
		}
		window = append(window, r.history[i])
	}

	wr := &WindowReport{
		FromTick:    window[len(window)-1].Tick,
		ToTick:      latest.Tick,
		SampleCount: len(window),
	}
	for _, rpt := range window {
		accumulate(&wr.Red, rpt.Red)
		accumulate(&wr.Blue, rpt.Blue)
	}
	n := float64(len(window))
	for _, avg := range []*TeamAverages{&wr.Red, &wr.Blue} {
		avg.Alive /= n
		avg.Injured /= n
		avg.HP /= n
		avg.Seeking /= n
		avg.Attacking /= n
		avg.Passive /= n
		avg.Winding /= n
		avg.Cooldown /= n
		avg.OutOfReach /= n
	}
	wr.Red.Dead = latest.Red.Dead
	wr.Blue.Dead = latest.Blue.Dead
	return wr
}

func accumulate(avg *TeamAverages, tr TeamReport) {
	avg.Alive += float64(tr.Alive)
	avg.Injured += float64(tr.Injured)
	avg.HP += float64(tr.HP)
	avg.Seeking += float64(tr.Seeking)
	avg.Attacking += float64(tr.Attacking)
	avg.Passive += float64(tr.Passive)
	avg.Winding += float64(tr.Winding)
	avg.Cooldown += float64(tr.Cooldown)
	avg.OutOfReach += float64(tr.OutOfReach)
}

// Format returns a human-readable multi-line string of the window summary.
func (wr *WindowReport) Format() string {
	if wr == nil {
		return "No data collected yet.\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "=== Behaviour Report (T=%d..%d, %d samples) ===\n",
		wr.FromTick, wr.ToTick, wr.SampleCount)

	sb.WriteString("--- Casualties & Health ---\n")
	fmt.Fprintf(&sb, "  Red:  alive=%.1f  injured=%.1f  hp=%.1f  dead=%d\n",
		wr.Red.Alive, wr.Red.Injured, wr.Red.HP, wr.Red.Dead)
	fmt.Fprintf(&sb, "  Blue: alive=%.1f  injured=%.1f  hp=%.1f  dead=%d\n",
		wr.Blue.Alive, wr.Blue.Injured, wr.Blue.HP, wr.Blue.Dead)

	sb.WriteString("--- AI ---\n")
	fmt.Fprintf(&sb, "  Red:  seeking=%.1f  attacking=%.1f  passive=%.1f\n",
		wr.Red.Seeking, wr.Red.Attacking, wr.Red.Passive)
	fmt.Fprintf(&sb, "  Blue: seeking=%.1f  attacking=%.1f  passive=%.1f\n",
		wr.Blue.Seeking, wr.Blue.Attacking, wr.Blue.Passive)

	sb.WriteString("--- Melee ---\n")
	fmt.Fprintf(&sb, "  Red:  winding=%.1f  cooldown=%.1f  out_of_reach=%.1f\n",
		wr.Red.Winding, wr.Red.Cooldown, wr.Red.OutOfReach)
	fmt.Fprintf(&sb, "  Blue: winding=%.1f  cooldown=%.1f  out_of_reach=%.1f\n",
		wr.Blue.Winding, wr.Blue.Cooldown, wr.Blue.OutOfReach)
	return sb.String()
}

// FormatLatest returns a concise snapshot of the most recent collected report.
func (r *SimReporter) FormatLatest() string {
	rpt := r.Latest()
	if rpt == nil {
		return "No data.\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Snapshot T=%d ---\n", rpt.Tick)
	for _, side := range []struct {
		name string
		tr   TeamReport
	}{{"Red: ", rpt.Red}, {"Blue:", rpt.Blue}} {
		fmt.Fprintf(&sb, "%s alive=%d dead=%d injured=%d hp=%d  seek=%d attack=%d  winding=%d cooldown=%d\n",
			side.name, side.tr.Alive, side.tr.Dead, side.tr.Injured, side.tr.HP,
			side.tr.Seeking, side.tr.Attacking, side.tr.Winding, side.tr.Cooldown)
	}
	return sb.String()
}
