package game

import (
	"math"

	"github.com/yohamta/donburi"
)

const (
	// arrivalEpsilon is how close a unit must get to its Mover target.
	arrivalEpsilon = 2.0
	// facingTolerance is how far off its heading a RotateBeforeMove unit may
	// be and still translate.
	facingTolerance = 5 * math.Pi / 180
)

// rotateStep returns the heading delta that turns current toward desired by
// at most maxStep radians. needed is false when already within
// facingTolerance.
func rotateStep(current, desired, maxStep float64) (turn float64, needed bool) {
	diff := normalizeAngle(desired - current)
	if math.Abs(diff) <= facingTolerance {
		return 0, false
	}
	if diff > maxStep {
		return maxStep, true
	}
	if diff < -maxStep {
		return -maxStep, true
	}
	return diff, true
}

// runMovement is the Movement Integrator. It writes Velocity for every mover
// and never touches Transform.
func (s *Sim) runMovement(dt float64) {
	queryMovers.Each(s.World, func(e *donburi.Entry) {
		vel := CompVelocity.Get(e)
		*vel = Velocity{}

		tr := CompTransform.Get(e)
		mover := CompMover.Get(e)

		var maxTurn float64
		rotates := e.HasComponent(CompRotateBeforeMove)
		if rotates {
			maxTurn = CompRotateBeforeMove.Get(e).RotationSpeed * math.Pi / 180 * dt
		}

		if st, striking := abilityStateOf(e).(WillAttack); striking {
			if !rotates {
				return
			}
			if target, ok := s.Entry(st.Target); ok && target.HasComponent(CompTransform) {
				dir := CompTransform.Get(target).Pos.Sub(tr.Pos)
				vel.Turn, _ = rotateStep(tr.Heading, dir.Angle(), maxTurn)
			}
			return
		}

		if mover.Reached {
			return
		}

		offset := mover.Target.Sub(tr.Pos)
		dist := offset.Len()
		if dist < arrivalEpsilon {
			mover.Reached = true
			s.SimLog.AddVerbose(s.tick, labelOf(e), teamOf(e), "move", "arrived", "", dist)
			return
		}

		if rotates {
			if turn, needed := rotateStep(tr.Heading, offset.Angle(), maxTurn); needed {
				vel.Turn = turn
				return
			}
		} else {
			vel.Turn = normalizeAngle(offset.Angle() - tr.Heading)
		}

		speed := CompSpeed.Get(e).Value
		if speed <= 0 {
			return
		}
		// Cap so the step lands on the target instead of overshooting it.
		mag := speed
		if dt > 0 && dist < speed*dt {
			mag = dist / dt
		}
		vel.Linear = offset.Normalize().Scale(mag)
	})
}
