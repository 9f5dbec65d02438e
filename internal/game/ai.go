package game

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"github.com/yohamta/donburi"
)

// AIUnit is a unit's autonomous behaviour. Implementations: Passive,
// SeekEnemy, Attack.
type AIUnit interface {
	isAIUnit()
	String() string
}

// Passive units only follow orders.
type Passive struct{}

// SeekEnemy units attack the closest enemy inside their SeekEnemyRange.
type SeekEnemy struct{}

// Attack engages Target. Without ChaseWhenTargetTooFar the unit gives up
// once the target leaves its seek range.
type Attack struct {
	Target                Handle
	ChaseWhenTargetTooFar bool
}

func (Passive) isAIUnit()   {}
func (SeekEnemy) isAIUnit() {}
func (Attack) isAIUnit()    {}

func (Passive) String() string   { return "passive" }
func (SeekEnemy) String() string { return "seek_enemy" }
func (a Attack) String() string {
	if a.ChaseWhenTargetTooFar {
		return fmt.Sprintf("attack(%d,chase)", a.Target.Id())
	}
	return fmt.Sprintf("attack(%d)", a.Target.Id())
}

func sameAIUnit(a, b AIUnit) bool {
	switch x := a.(type) {
	case Passive:
		_, ok := b.(Passive)
		return ok
	case SeekEnemy:
		_, ok := b.(SeekEnemy)
		return ok
	case Attack:
		y, ok := b.(Attack)
		return ok && x == y
	}
	return false
}

// AI is the component wrapper around the current AIUnit.
type AI struct {
	State AIUnit
}

// attackable is a read-only view of a unit taken at the start of the AI phase.
type attackable struct {
	handle Handle
	team   Team
	pos    Vec2
	radius float64
}

type attackSnapshot struct {
	units []attackable
	index map[Handle]int
}

func (s *Sim) snapshotAttackables() attackSnapshot {
	snap := attackSnapshot{index: map[Handle]int{}}
	queryAttackable.Each(s.World, func(e *donburi.Entry) {
		snap.index[e.Entity()] = len(snap.units)
		snap.units = append(snap.units, attackable{
			handle: e.Entity(),
			team:   *CompTeam.Get(e),
			pos:    CompTransform.Get(e).Pos,
			radius: radiusOf(e),
		})
	})
	return snap
}

func (snap attackSnapshot) lookup(h Handle) (attackable, bool) {
	i, ok := snap.index[h]
	if !ok {
		return attackable{}, false
	}
	return snap.units[i], true
}

func (s *Sim) setAIState(e *donburi.Entry, state AIUnit) {
	if !e.HasComponent(CompAI) {
		return
	}
	ai := CompAI.Get(e)
	if ai.State != nil && sameAIUnit(ai.State, state) {
		return
	}
	s.SimLog.Add(s.tick, labelOf(e), teamOf(e), "ai", "state", fmt.Sprintf("%s -> %s", ai.State, state), 0)
	ai.State = state
}

// runAI is the AI Decision Cycle. Positions and teams are read from a
// snapshot taken before any unit decides.
func (s *Sim) runAI() {
	snap := s.snapshotAttackables()
	queryAI.Each(s.World, func(e *donburi.Entry) {
		ai := CompAI.Get(e)
		if _, busy := abilityStateOf(e).(WillAttack); busy {
			return
		}
		switch st := ai.State.(type) {
		case SeekEnemy:
			s.seekEnemy(e, snap)
		case Attack:
			s.attack(e, st, snap)
		}
	})
}

func (s *Sim) seekEnemy(e *donburi.Entry, snap attackSnapshot) {
	if !e.HasComponent(CompSeekRange) {
		return
	}
	self := e.Entity()
	team := *CompTeam.Get(e)
	pos := CompTransform.Get(e).Pos
	rng := CompSeekRange.Get(e).Range

	best := -1
	bestDist := math.Inf(1)
	for i, u := range snap.units {
		if u.handle == self || u.team == team {
			continue
		}
		d := pos.Dist(u.pos)
		if d <= rng && d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return
	}
	target := snap.units[best].handle
	s.setAIState(e, Attack{Target: target})
	s.log.WithFields(logrus.Fields{"unit": labelOf(e), "target": target.Id(), "dist": bestDist}).Debug("enemy acquired")
}

func (s *Sim) attack(e *donburi.Entry, st Attack, snap attackSnapshot) {
	target, ok := snap.lookup(st.Target)
	if !ok {
		s.SimLog.Add(s.tick, labelOf(e), teamOf(e), "ai", "target_lost", st.String(), 0)
		s.setAIState(e, SeekEnemy{})
		return
	}

	pos := CompTransform.Get(e).Pos
	dist := pos.Dist(target.pos)

	if !st.ChaseWhenTargetTooFar {
		seek := 0.0
		if e.HasComponent(CompSeekRange) {
			seek = CompSeekRange.Get(e).Range
		}
		if dist > seek {
			s.setAIState(e, SeekEnemy{})
			return
		}
		if _, exceeded := abilityStateOf(e).(MotionBufferExceeded); exceeded {
			s.setAIState(e, SeekEnemy{})
			return
		}
	}

	if e.HasComponent(CompMelee) && e.HasComponent(CompAbility) {
		melee := CompMelee.Get(e)
		if dist <= melee.Range+radiusOf(e)+target.radius {
			ability := CompAbility.Get(e)
			if _, ready := ability.State.(Ready); ready {
				s.issueOverride(e, OrderMove(pos))
				s.setAbilityState(e, ability, WillAttack{StartTime: s.now, Target: st.Target})
			}
			return
		}
	}

	s.issueOverride(e, OrderMove(target.pos))
}
