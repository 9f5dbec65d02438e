package game

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"
)

// Handle is a generation-checked reference to a unit. A handle to a destroyed
// unit never resolves again, even if its slot is reused.
type Handle = donburi.Entity

// NoHandle never resolves.
var NoHandle Handle = donburi.Null

// UnitInfo carries display data only.
type UnitInfo struct {
	Label string // "R0", "B3"
	Kind  string // catalog unit type
}

// Transform is owned by the physics collaborator; the core only reads it.
type Transform struct {
	Pos     Vec2
	Heading float64 // radians
}

// Velocity is the Movement Integrator's output for the current tick.
type Velocity struct {
	Linear Vec2    // world units per second
	Turn   float64 // heading delta in radians to apply this tick
}

type Speed struct {
	Value float64
}

// UnitSize is the collision radius used in every melee range test.
type UnitSize struct {
	Radius float64
}

// Mover holds the current movement target.
type Mover struct {
	Target  Vec2
	Reached bool
}

// RotateBeforeMove makes a unit finish turning before it translates.
type RotateBeforeMove struct {
	RotationSpeed float64 // degrees per second
}

// SeekEnemyRange is the detection radius used while seeking.
type SeekEnemyRange struct {
	Range float64
}

// MeleeAbility holds the per-type melee constants.
type MeleeAbility struct {
	Range             float64
	MotionBufferRange float64 // slack beyond Range before a strike is abandoned
	TimeToStrike      float64 // seconds
	Cooldown          float64 // seconds
}

type OffensiveStats struct {
	Power int
}

type Health struct {
	Max     int
	Current int
}

// SufferDamage is drained once per tick by health resolution.
type SufferDamage struct {
	Pending []int
}

var (
	CompInfo             = donburi.NewComponentType[UnitInfo]()
	CompTeam             = donburi.NewComponentType[Team]()
	CompTransform        = donburi.NewComponentType[Transform]()
	CompVelocity         = donburi.NewComponentType[Velocity]()
	CompSpeed            = donburi.NewComponentType[Speed]()
	CompSize             = donburi.NewComponentType[UnitSize]()
	CompMover            = donburi.NewComponentType[Mover]()
	CompRotateBeforeMove = donburi.NewComponentType[RotateBeforeMove]()
	CompOrders           = donburi.NewComponentType[Orders]()
	CompAI               = donburi.NewComponentType[AI]()
	CompSeekRange        = donburi.NewComponentType[SeekEnemyRange]()
	CompMelee            = donburi.NewComponentType[MeleeAbility]()
	CompAbility          = donburi.NewComponentType[AbilityState]()
	CompOffense          = donburi.NewComponentType[OffensiveStats]()
	CompHealth           = donburi.NewComponentType[Health]()
	CompSufferDamage     = donburi.NewComponentType[SufferDamage]()
)

var (
	queryOrders     = donburi.NewQuery(filter.Contains(CompOrders))
	queryAI         = donburi.NewQuery(filter.Contains(CompAI, CompTeam, CompTransform))
	queryAbility    = donburi.NewQuery(filter.Contains(CompMelee, CompAbility))
	queryMovers     = donburi.NewQuery(filter.Contains(CompMover, CompSpeed, CompTransform, CompVelocity))
	queryAttackable = donburi.NewQuery(filter.Contains(CompTeam, CompTransform))
	queryHealth     = donburi.NewQuery(filter.Contains(CompHealth))
	queryBodies     = donburi.NewQuery(filter.Contains(CompTransform, CompVelocity))
	queryUnits      = donburi.NewQuery(filter.Contains(CompInfo, CompTeam, CompTransform))
)

// radiusOf returns the unit's collision radius, or 0 without a UnitSize.
func radiusOf(e *donburi.Entry) float64 {
	if !e.HasComponent(CompSize) {
		return 0
	}
	return CompSize.Get(e).Radius
}

// abilityStateOf returns the unit's melee state, or nil without one.
func abilityStateOf(e *donburi.Entry) MeleeAbilityState {
	if !e.HasComponent(CompAbility) {
		return nil
	}
	return CompAbility.Get(e).State
}

func labelOf(e *donburi.Entry) string {
	if e.HasComponent(CompInfo) {
		return CompInfo.Get(e).Label
	}
	return "--"
}

func teamOf(e *donburi.Entry) string {
	if e.HasComponent(CompTeam) {
		return CompTeam.Get(e).String()
	}
	return "--"
}
