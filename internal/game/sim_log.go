package game

import (
	"fmt"
	"sort"
	"strings"
)

// SimLogEntry is one recorded simulation event.
type SimLogEntry struct {
	Tick     int
	Unit     string  // "R0", "B3", or "--"
	Team     string  // "red", "blue", or "--"
	Category string  // spawn, order, ai, ability, move, health
	Key      string  // event within the category
	Value    string  // free-form detail, usually the other unit's label
	NumVal   float64 // damage dealt, hp left, distance...
}

// String formats the entry as a fixed-width log line.
//
//	[T=042] R0   ability   strike           B1
func (e SimLogEntry) String() string {
	return fmt.Sprintf("[T=%03d] %-4s %-9s %-16s %s",
		e.Tick, e.Unit, e.Category, e.Key, e.Value)
}

// LogQuery selects entries. Empty fields match anything.
type LogQuery struct {
	Category string
	Key      string
	Unit     string
	Contains string // substring of Value
}

func (q LogQuery) match(e SimLogEntry) bool {
	switch {
	case q.Category != "" && e.Category != q.Category:
		return false
	case q.Key != "" && e.Key != q.Key:
		return false
	case q.Unit != "" && e.Unit != q.Unit:
		return false
	case q.Contains != "" && !strings.Contains(e.Value, q.Contains):
		return false
	}
	return true
}

// SimLog is the append-only event record of one Sim. Entries are in tick
// order. Reports and tests read it; the viewer tails it through OnAdd.
type SimLog struct {
	entries []SimLogEntry
	verbose bool
	onAdd   func(SimLogEntry)
}

// NewSimLog creates a SimLog. Verbose logs also keep arrival, override and
// ability-transition entries.
func NewSimLog(verbose bool) *SimLog {
	return &SimLog{verbose: verbose}
}

func (sl *SimLog) Add(tick int, unit, team, category, key, value string, numVal float64) {
	e := SimLogEntry{Tick: tick, Unit: unit, Team: team, Category: category, Key: key, Value: value, NumVal: numVal}
	sl.entries = append(sl.entries, e)
	if sl.onAdd != nil {
		sl.onAdd(e)
	}
}

// AddVerbose is Add for per-tick chatter; it is dropped unless verbose.
func (sl *SimLog) AddVerbose(tick int, unit, team, category, key, value string, numVal float64) {
	if sl.verbose {
		sl.Add(tick, unit, team, category, key, value, numVal)
	}
}

// OnAdd registers the single observer called for every new entry.
func (sl *SimLog) OnAdd(fn func(SimLogEntry)) { sl.onAdd = fn }

func (sl *SimLog) Entries() []SimLogEntry { return sl.entries }

// Select returns the entries matching q.
func (sl *SimLog) Select(q LogQuery) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if q.match(e) {
			out = append(out, e)
		}
	}
	return out
}

func (sl *SimLog) Filter(category, key string) []SimLogEntry {
	return sl.Select(LogQuery{Category: category, Key: key})
}

func (sl *SimLog) FilterUnit(label string) []SimLogEntry {
	return sl.Select(LogQuery{Unit: label})
}

// FilterTickRange returns entries within [fromTick, toTick].
func (sl *SimLog) FilterTickRange(fromTick, toTick int) []SimLogEntry {
	lo := sort.Search(len(sl.entries), func(i int) bool { return sl.entries[i].Tick >= fromTick })
	hi := sort.Search(len(sl.entries), func(i int) bool { return sl.entries[i].Tick > toTick })
	if lo >= hi {
		return nil
	}
	return sl.entries[lo:hi]
}

func (sl *SimLog) CountCategory(category, key string) int {
	n := 0
	q := LogQuery{Category: category, Key: key}
	for _, e := range sl.entries {
		if q.match(e) {
			n++
		}
	}
	return n
}

// LastOf returns the newest entry with the given category and key.
func (sl *SimLog) LastOf(category, key string) (SimLogEntry, bool) {
	q := LogQuery{Category: category, Key: key}
	for i := len(sl.entries) - 1; i >= 0; i-- {
		if q.match(sl.entries[i]) {
			return sl.entries[i], true
		}
	}
	return SimLogEntry{}, false
}

// HasEntry reports whether any entry matches; valueSubstr is matched
// against Value.
func (sl *SimLog) HasEntry(category, key, valueSubstr string) bool {
	q := LogQuery{Category: category, Key: key, Contains: valueSubstr}
	for _, e := range sl.entries {
		if q.match(e) {
			return true
		}
	}
	return false
}

func (sl *SimLog) Format() string {
	return formatEntries(sl.entries)
}

func (sl *SimLog) FormatRange(fromTick, toTick int) string {
	return formatEntries(sl.FilterTickRange(fromTick, toTick))
}

func formatEntries(entries []SimLogEntry) string {
	var sb strings.Builder
	for _, e := range entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Summary lists the live units with their AI and ability state, then the
// strike and death totals.
func (sl *SimLog) Summary(tick int, units []UnitView) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Summary at T=%03d ---\n", tick)

	alive := map[Team]int{}
	for _, u := range units {
		alive[u.Team]++
		fmt.Fprintf(&sb, "%-4s hp=%3d/%-3d ai=%-18s ability=%-24s pos=(%.0f,%.0f)\n",
			u.Label, u.HP, u.MaxHP, u.AI, stateName(u.Ability), u.Pos.X, u.Pos.Y)
	}
	fmt.Fprintf(&sb, "Alive: red=%d  blue=%d\n", alive[TeamRed], alive[TeamBlue])
	fmt.Fprintf(&sb, "Strikes: %d  Destroyed: %d\n",
		sl.CountCategory("ability", "strike"), sl.CountCategory("health", "destroyed"))
	return sb.String()
}

func stateName(st MeleeAbilityState) string {
	if st == nil {
		return "-"
	}
	return st.String()
}
