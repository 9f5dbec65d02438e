package game

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/yohamta/donburi"
)

// timeEpsilon absorbs float drift when accumulated sim time is compared with
// a deadline.
const timeEpsilon = 1e-9

// MeleeAbilityState is the melee attack lifecycle. Implementations: Ready,
// WillAttack, AttackCooldown, MotionBufferExceeded.
type MeleeAbilityState interface {
	isAbilityState()
	String() string
}

type Ready struct{}

// WillAttack is a strike in progress; damage lands at StartTime+TimeToStrike.
type WillAttack struct {
	StartTime float64
	Target    Handle
}

type AttackCooldown struct {
	StartTime float64
}

// MotionBufferExceeded lasts one tick and tells the AI its target slipped
// away mid-strike.
type MotionBufferExceeded struct{}

func (Ready) isAbilityState()                {}
func (WillAttack) isAbilityState()           {}
func (AttackCooldown) isAbilityState()       {}
func (MotionBufferExceeded) isAbilityState() {}

func (Ready) String() string                { return "ready" }
func (w WillAttack) String() string         { return fmt.Sprintf("will_attack(%d@%.2f)", w.Target.Id(), w.StartTime) }
func (c AttackCooldown) String() string     { return fmt.Sprintf("cooldown(@%.2f)", c.StartTime) }
func (MotionBufferExceeded) String() string { return "motion_buffer_exceeded" }

// AbilityState is the component wrapper around the current melee state.
type AbilityState struct {
	State MeleeAbilityState
}

// Interrupt cancels a strike in progress. Other states are unaffected.
// It reports whether anything changed.
func (a *AbilityState) Interrupt() bool {
	if _, striking := a.State.(WillAttack); !striking {
		return false
	}
	a.State = Ready{}
	return true
}

func (s *Sim) setAbilityState(e *donburi.Entry, a *AbilityState, next MeleeAbilityState) {
	s.SimLog.AddVerbose(s.tick, labelOf(e), teamOf(e), "ability", "state", fmt.Sprintf("%s -> %s", a.State, next), 0)
	a.State = next
}

func (s *Sim) interruptAbility(e *donburi.Entry) {
	if !e.HasComponent(CompAbility) {
		return
	}
	if CompAbility.Get(e).Interrupt() {
		s.SimLog.Add(s.tick, labelOf(e), teamOf(e), "ability", "interrupt", "strike cancelled", 0)
	}
}

// runAbilities advances every melee state machine by one tick.
func (s *Sim) runAbilities() {
	queryAbility.Each(s.World, func(e *donburi.Entry) {
		ability := CompAbility.Get(e)
		melee := CompMelee.Get(e)

		switch st := ability.State.(type) {
		case WillAttack:
			s.advanceStrike(e, ability, melee, st)
		case MotionBufferExceeded:
			s.setAbilityState(e, ability, Ready{})
		case AttackCooldown:
			if s.now+timeEpsilon >= st.StartTime+melee.Cooldown {
				s.setAbilityState(e, ability, Ready{})
			}
		case Ready:
		default:
			ability.State = Ready{}
		}
	})
}

func (s *Sim) advanceStrike(e *donburi.Entry, ability *AbilityState, melee *MeleeAbility, st WillAttack) {
	target, ok := s.Entry(st.Target)
	if !ok || !target.HasComponent(CompTransform) {
		s.SimLog.Add(s.tick, labelOf(e), teamOf(e), "ability", "abandon", "target gone", 0)
		s.setAbilityState(e, ability, Ready{})
		return
	}

	reach := melee.Range + melee.MotionBufferRange + radiusOf(e) + radiusOf(target)
	dist := CompTransform.Get(e).Pos.Dist(CompTransform.Get(target).Pos)
	if dist > reach {
		s.SimLog.Add(s.tick, labelOf(e), teamOf(e), "ability", "motion_buffer_exceeded", labelOf(target), dist)
		s.setAbilityState(e, ability, MotionBufferExceeded{})
		return
	}

	if s.now+timeEpsilon < st.StartTime+melee.TimeToStrike {
		return
	}

	if !target.HasComponent(CompSufferDamage) {
		s.setAbilityState(e, ability, Ready{})
		return
	}
	power := 0
	if e.HasComponent(CompOffense) {
		power = CompOffense.Get(e).Power
	}
	dmg := CompSufferDamage.Get(target)
	dmg.Pending = append(dmg.Pending, power)

	s.SimLog.Add(s.tick, labelOf(e), teamOf(e), "ability", "strike", labelOf(target), float64(power))
	s.log.WithFields(logrus.Fields{"unit": labelOf(e), "target": labelOf(target), "power": power}).Debug("strike landed")
	s.setAbilityState(e, ability, AttackCooldown{StartTime: s.now})
}
