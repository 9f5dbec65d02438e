package game

import "fmt"

// Team identifies a side. Only equality is meaningful.
type Team int

const (
	TeamRed Team = iota
	TeamBlue
)

func (t Team) String() string {
	switch t {
	case TeamRed:
		return "red"
	case TeamBlue:
		return "blue"
	default:
		return fmt.Sprintf("team%d", int(t))
	}
}

// Prefix is the single-letter label prefix used in logs ("R0", "B3").
func (t Team) Prefix() string {
	switch t {
	case TeamRed:
		return "R"
	case TeamBlue:
		return "B"
	default:
		return fmt.Sprintf("T%d.", int(t))
	}
}

// ParseTeam maps "red"/"blue" (or a numeric id) to a Team.
func ParseTeam(s string) (Team, error) {
	switch s {
	case "red", "R", "r":
		return TeamRed, nil
	case "blue", "B", "b":
		return TeamBlue, nil
	}
	var n int
	if _, err := fmt.Sscanf(s, "%d", &n); err != nil {
		return 0, fmt.Errorf("unknown team %q", s)
	}
	return Team(n), nil
}
