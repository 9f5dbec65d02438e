package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeker(team Team, pos Vec2, seekRange float64) UnitSpec {
	spec := DefaultUnitSpec(team, pos, SeekEnemy{})
	spec.SeekRange = seekRange
	return spec
}

func aiOf(t *testing.T, ts *TestSim, id int) AIUnit {
	t.Helper()
	v, ok := ts.View(id)
	require.True(t, ok, "unit %d not alive", id)
	return v.AI
}

func abilityOf(t *testing.T, ts *TestSim, id int) MeleeAbilityState {
	t.Helper()
	v, ok := ts.View(id)
	require.True(t, ok, "unit %d not alive", id)
	return v.Ability
}

func TestAI_SeekEnemyPicksClosestInRange(t *testing.T) {
	ts := NewTestSim(
		WithUnit(0, seeker(TeamRed, Vec2{0, 0}, 100)),
		WithBlueUnit(1, 80, 0, Passive{}),
		WithBlueUnit(2, 50, 0, Passive{}),
	)

	ts.RunTicks(1)

	assert.Equal(t, Attack{Target: ts.Handle(2), ChaseWhenTargetTooFar: false}, aiOf(t, ts, 0))
}

func TestAI_SeekEnemyIgnoresFriendsAndDistantEnemies(t *testing.T) {
	ts := NewTestSim(
		WithUnit(0, seeker(TeamRed, Vec2{0, 0}, 100)),
		WithRedUnit(1, 30, 0, Passive{}),
		WithBlueUnit(2, 150, 0, Passive{}),
	)

	ts.RunTicks(5)

	assert.Equal(t, SeekEnemy{}, aiOf(t, ts, 0))
}

func TestAI_PassiveUnitsDoNotDecide(t *testing.T) {
	ts := NewTestSim(
		WithRedUnit(0, 0, 0, Passive{}),
		WithBlueUnit(1, 50, 0, Passive{}),
	)
	ts.RunTicks(10)
	assert.Equal(t, Passive{}, aiOf(t, ts, 0))
	assert.Equal(t, Ready{}, abilityOf(t, ts, 0))
}

func TestAI_AttackInRangeStartsStrikeAndHolds(t *testing.T) {
	ts := NewTestSim(
		WithRedUnit(0, 0, 0, Passive{}),
		WithBlueUnit(1, 50, 0, Passive{}),
	)
	ts.Sim.ReplaceOrders(ts.Handle(0), OrderAI(Attack{Target: ts.Handle(1)}))

	ts.RunTicks(1)

	assert.Equal(t, WillAttack{StartTime: ts.Sim.Now(), Target: ts.Handle(1)}, abilityOf(t, ts, 0))
	ov, has := ordersOf(t, ts, 0).Override()
	require.True(t, has, "expected a hold override")
	assert.Equal(t, MoveOrder{Stage: Awaiting, Target: Vec2{0, 0}}, ov)
	v, _ := ts.View(0)
	assert.Equal(t, Vec2{0, 0}, v.Pos)
}

func TestAI_AttackChasesOutOfMeleeRange(t *testing.T) {
	ts := NewTestSim(
		WithRedUnit(0, 0, 0, Passive{}),
		WithBlueUnit(1, 300, 0, Passive{}),
	)
	ts.Sim.ReplaceOrders(ts.Handle(0), OrderAI(Attack{Target: ts.Handle(1)}))

	ts.RunTicks(1)

	ov, has := ordersOf(t, ts, 0).Override()
	require.True(t, has)
	assert.Equal(t, MoveOrder{Stage: Awaiting, Target: Vec2{300, 0}}, ov)
	v, _ := ts.View(0)
	assert.InDelta(t, 180*DefaultTimestep, v.Pos.X, 1e-9, "override should move the unit in the tick it was issued")
	assert.Equal(t, Ready{}, v.Ability)
}

func TestAI_ChaseOverrideIsNotReissuedForStillTarget(t *testing.T) {
	ts := NewTestSim(
		WithVerbose(true),
		WithRedUnit(0, 0, 0, Passive{}),
		WithBlueUnit(1, 300, 0, Passive{}),
	)
	ts.Sim.ReplaceOrders(ts.Handle(0), OrderAI(Attack{Target: ts.Handle(1)}))

	ts.RunTicks(5)

	assert.Equal(t, 1, ts.SimLog.CountCategory("order", "override"))
}

func TestAI_ChaseFollowsMovingTarget(t *testing.T) {
	ts := NewTestSim(
		WithRedUnit(0, 0, 0, Passive{}),
		WithBlueUnit(1, 400, 0, Passive{}),
	)
	ts.Sim.ReplaceOrders(ts.Handle(0), OrderAI(Attack{Target: ts.Handle(1)}))
	ts.Sim.ReplaceOrders(ts.Handle(1), OrderMove(Vec2{400, 300}))

	ts.RunTicks(10)

	ov, has := ordersOf(t, ts, 0).Override()
	require.True(t, has)
	blue, _ := ts.View(1)
	assert.InDelta(t, blue.Pos.Y, ov.(MoveOrder).Target.Y, 180*DefaultTimestep+1e-9)
	assert.Greater(t, ov.(MoveOrder).Target.Y, 0.0)
}

func TestAI_TargetDestroyedRevertsToSeek(t *testing.T) {
	ts := NewTestSim(
		WithRedUnit(0, 0, 0, Passive{}),
		WithBlueUnit(1, 300, 0, Passive{}),
	)
	ts.Sim.ReplaceOrders(ts.Handle(0), OrderAI(Attack{Target: ts.Handle(1)}))
	ts.RunTicks(1)

	ts.Sim.World.Remove(ts.Handle(1))
	ts.RunTicks(1)

	assert.Equal(t, SeekEnemy{}, aiOf(t, ts, 0))
	assert.True(t, ts.SimLog.HasEntry("ai", "target_lost", ""))
}

func TestAI_TooFarWithoutChaseRevertsToSeek(t *testing.T) {
	ts := NewTestSim(
		WithRedUnit(0, 0, 0, Passive{}),
		WithBlueUnit(1, 700, 0, Passive{}),
	)
	ts.Sim.ReplaceOrders(ts.Handle(0), OrderAI(Attack{Target: ts.Handle(1)}))

	ts.RunTicks(1)

	assert.Equal(t, SeekEnemy{}, aiOf(t, ts, 0))
}

func TestAI_TooFarWithChaseKeepsChasing(t *testing.T) {
	ts := NewTestSim(
		WithRedUnit(0, 0, 0, Passive{}),
		WithBlueUnit(1, 700, 0, Passive{}),
	)
	attack := Attack{Target: ts.Handle(1), ChaseWhenTargetTooFar: true}
	ts.Sim.ReplaceOrders(ts.Handle(0), OrderAI(attack))

	ts.RunTicks(1)

	assert.Equal(t, attack, aiOf(t, ts, 0))
	assert.Equal(t, Vec2{700, 0}, moverOf(t, ts, 0).Target)
}

func TestAI_MotionBufferExceededWithoutChaseRevertsToSeek(t *testing.T) {
	ts := NewTestSim(
		WithRedUnit(0, 0, 0, Passive{}),
		WithBlueUnit(1, 300, 0, Passive{}),
	)
	ts.Sim.ReplaceOrders(ts.Handle(0), OrderAI(Attack{Target: ts.Handle(1)}))
	e, _ := ts.Entry(0)
	CompAbility.Get(e).State = MotionBufferExceeded{}

	ts.RunTicks(1)

	assert.Equal(t, SeekEnemy{}, aiOf(t, ts, 0))
	assert.Equal(t, Ready{}, abilityOf(t, ts, 0))
}

func TestAI_MidStrikeUnitDoesNotRedecide(t *testing.T) {
	ts := NewTestSim(
		WithUnit(0, seeker(TeamRed, Vec2{0, 0}, 100)),
		WithBlueUnit(1, 50, 0, Passive{}),
	)
	e, _ := ts.Entry(0)
	strike := WillAttack{StartTime: 0, Target: ts.Handle(1)}
	CompAbility.Get(e).State = strike

	ts.RunTicks(1)

	assert.Equal(t, SeekEnemy{}, aiOf(t, ts, 0))
}
