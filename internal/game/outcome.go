package game

import "fmt"

type BattleOutcome int

const (
	OutcomeInconclusive BattleOutcome = iota
	OutcomeRedVictory
	OutcomeBlueVictory
	OutcomeDraw
)

func (o BattleOutcome) String() string {
	switch o {
	case OutcomeRedVictory:
		return "red_victory"
	case OutcomeBlueVictory:
		return "blue_victory"
	case OutcomeDraw:
		return "draw"
	case OutcomeInconclusive:
		return "inconclusive"
	default:
		return "unknown"
	}
}

type BattleOutcomeReason struct {
	Outcome       BattleOutcome
	RedSurvivors  int
	RedTotal      int
	BlueSurvivors int
	BlueTotal     int
	Description   string
}

// DetermineBattleOutcome scores the current state of a sim. A side wins when
// the other has no units left; mutual annihilation is a draw; anything else
// is inconclusive.
func DetermineBattleOutcome(s *Sim) BattleOutcomeReason {
	redTotal, redDead := s.TeamCounts(TeamRed)
	blueTotal, blueDead := s.TeamCounts(TeamBlue)
	r := BattleOutcomeReason{
		RedTotal:      redTotal,
		RedSurvivors:  redTotal - redDead,
		BlueTotal:     blueTotal,
		BlueSurvivors: blueTotal - blueDead,
	}

	switch {
	case r.RedSurvivors == 0 && r.BlueSurvivors == 0:
		r.Outcome = OutcomeDraw
		r.Description = "both sides destroyed"
	case r.BlueSurvivors == 0 && blueTotal > 0:
		r.Outcome = OutcomeRedVictory
		r.Description = fmt.Sprintf("red holds with %d/%d", r.RedSurvivors, redTotal)
	case r.RedSurvivors == 0 && redTotal > 0:
		r.Outcome = OutcomeBlueVictory
		r.Description = fmt.Sprintf("blue holds with %d/%d", r.BlueSurvivors, blueTotal)
	default:
		r.Outcome = OutcomeInconclusive
		r.Description = fmt.Sprintf("red %d/%d, blue %d/%d still standing",
			r.RedSurvivors, redTotal, r.BlueSurvivors, blueTotal)
	}
	return r
}
