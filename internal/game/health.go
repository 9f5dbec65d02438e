package game

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/yohamta/donburi"
)

// runHealth drains every unit's pending damage exactly once and destroys
// units at or below zero hit points.
func (s *Sim) runHealth() {
	var dead []Handle
	queryHealth.Each(s.World, func(e *donburi.Entry) {
		hp := CompHealth.Get(e)
		if e.HasComponent(CompSufferDamage) {
			dmg := CompSufferDamage.Get(e)
			for _, amount := range dmg.Pending {
				hp.Current -= amount
				s.SimLog.Add(s.tick, labelOf(e), teamOf(e), "health", "damage",
					fmt.Sprintf("-%d -> %d/%d", amount, hp.Current, hp.Max), float64(hp.Current))
			}
			dmg.Pending = dmg.Pending[:0]
		}
		if hp.Current <= 0 {
			dead = append(dead, e.Entity())
		}
	})

	for _, h := range dead {
		e := s.World.Entry(h)
		label, team := labelOf(e), teamOf(e)
		s.deaths[teamValue(e)]++
		s.SimLog.Add(s.tick, label, team, "health", "destroyed", "", float64(CompHealth.Get(e).Current))
		s.log.WithFields(logrus.Fields{"unit": label, "team": team, "tick": s.tick}).Info("unit destroyed")
		s.World.Remove(h)
	}
}

// teamValue returns the unit's team, or TeamRed without one.
func teamValue(e *donburi.Entry) Team {
	if !e.HasComponent(CompTeam) {
		return TeamRed
	}
	return *CompTeam.Get(e)
}
