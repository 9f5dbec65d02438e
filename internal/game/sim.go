package game

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/component"

	"github.com/Garsondee/skirmish/internal/logger"
)

// UnitSpec is the immutable stat bundle a unit is created from.
type UnitSpec struct {
	Kind    string
	Team    Team
	Pos     Vec2
	Heading float64 // radians

	Speed  float64
	Radius float64
	MaxHP  int
	Power  int

	// SeekRange is the SeekEnemy detection radius.
	SeekRange float64
	// RotationSpeed in degrees per second; zero means the unit turns freely
	// while moving.
	RotationSpeed float64
	// Melee is optional; units without it never strike.
	Melee *MeleeAbility
	// AI is the initial behaviour; nil means Passive.
	AI AIUnit
}

// Sim owns the unit registry and advances it one tick at a time. It is not
// safe for concurrent use.
type Sim struct {
	World   donburi.World
	Grid    *GridMap
	Physics Physics
	SimLog  *SimLog

	now  float64
	tick int

	labels  map[Team]int
	spawned map[Team]int
	deaths  map[Team]int

	log *logrus.Entry
}

// NewSim creates an empty simulation over grid. A nil log gets a quiet
// SimLog; physics defaults to KinematicPhysics on the same grid.
func NewSim(grid *GridMap, log *SimLog) *Sim {
	if log == nil {
		log = NewSimLog(false)
	}
	return &Sim{
		World:   donburi.NewWorld(),
		Grid:    grid,
		Physics: KinematicPhysics{Grid: grid},
		SimLog:  log,
		labels:  map[Team]int{},
		spawned: map[Team]int{},
		deaths:  map[Team]int{},
		log:     logger.For("sim"),
	}
}

// Now is the accumulated simulation time in seconds.
func (s *Sim) Now() float64 { return s.now }

// Tick is the number of completed Step calls.
func (s *Sim) Tick() int { return s.tick }

// Step advances the simulation by dt seconds. Phase order is fixed: orders,
// AI, abilities, movement, physics, health.
func (s *Sim) Step(dt float64) {
	s.tick++
	s.now += dt

	s.runOrders()
	s.runAI()
	s.runAbilities()
	s.runMovement(dt)
	if s.Physics != nil {
		s.Physics.Integrate(s.World, dt)
	}
	s.runHealth()
}

// Entry resolves a handle. It fails for destroyed units.
func (s *Sim) Entry(h Handle) (*donburi.Entry, bool) {
	if h == NoHandle || !s.World.Valid(h) {
		return nil, false
	}
	return s.World.Entry(h), true
}

// Alive reports whether h still refers to a unit.
func (s *Sim) Alive(h Handle) bool {
	_, ok := s.Entry(h)
	return ok
}

// Spawn creates a unit from spec and returns its handle.
func (s *Sim) Spawn(spec UnitSpec) Handle {
	comps := []component.IComponentType{
		CompInfo, CompTeam, CompTransform, CompVelocity, CompSpeed, CompSize,
		CompMover, CompOrders, CompAI, CompSeekRange, CompOffense,
		CompHealth, CompSufferDamage,
	}
	if spec.Melee != nil {
		comps = append(comps, CompMelee, CompAbility)
	}
	if spec.RotationSpeed > 0 {
		comps = append(comps, CompRotateBeforeMove)
	}

	h := s.World.Create(comps...)
	e := s.World.Entry(h)

	label := fmt.Sprintf("%s%d", spec.Team.Prefix(), s.labels[spec.Team])
	s.labels[spec.Team]++
	s.spawned[spec.Team]++

	ai := spec.AI
	if ai == nil {
		ai = Passive{}
	}

	CompInfo.SetValue(e, UnitInfo{Label: label, Kind: spec.Kind})
	CompTeam.SetValue(e, spec.Team)
	CompTransform.SetValue(e, Transform{Pos: spec.Pos, Heading: spec.Heading})
	CompSpeed.SetValue(e, Speed{Value: spec.Speed})
	CompSize.SetValue(e, UnitSize{Radius: spec.Radius})
	CompMover.SetValue(e, Mover{Target: spec.Pos, Reached: true})
	CompAI.SetValue(e, AI{State: ai})
	CompSeekRange.SetValue(e, SeekEnemyRange{Range: spec.SeekRange})
	CompOffense.SetValue(e, OffensiveStats{Power: spec.Power})
	CompHealth.SetValue(e, Health{Max: spec.MaxHP, Current: spec.MaxHP})
	if spec.Melee != nil {
		CompMelee.SetValue(e, *spec.Melee)
		CompAbility.SetValue(e, AbilityState{State: Ready{}})
	}
	if spec.RotationSpeed > 0 {
		CompRotateBeforeMove.SetValue(e, RotateBeforeMove{RotationSpeed: spec.RotationSpeed})
	}

	s.SimLog.Add(s.tick, label, spec.Team.String(), "spawn", spec.Kind,
		fmt.Sprintf("(%.0f,%.0f) hp=%d", spec.Pos.X, spec.Pos.Y, spec.MaxHP), float64(spec.MaxHP))
	s.log.WithFields(logrus.Fields{"unit": label, "kind": spec.Kind, "team": spec.Team.String()}).Debug("unit spawned")
	return h
}

// UnitView is a read-only copy of a unit's state for reports and rendering.
type UnitView struct {
	Handle    Handle
	Label     string
	Kind      string
	Team      Team
	Pos       Vec2
	Heading   float64
	Radius    float64
	HP        int
	MaxHP     int
	AI        AIUnit
	Ability   MeleeAbilityState
	Target    Vec2
	Reached   bool
	Waypoints []Vec2
}

// Units returns a view of every live unit in registry order.
func (s *Sim) Units() []UnitView {
	var out []UnitView
	queryUnits.Each(s.World, func(e *donburi.Entry) {
		out = append(out, viewOf(e))
	})
	return out
}

// Unit returns the view of a single unit.
func (s *Sim) Unit(h Handle) (UnitView, bool) {
	e, ok := s.Entry(h)
	if !ok || !e.HasComponent(CompInfo) {
		return UnitView{}, false
	}
	return viewOf(e), true
}

func viewOf(e *donburi.Entry) UnitView {
	info := CompInfo.Get(e)
	tr := CompTransform.Get(e)
	v := UnitView{
		Handle:  e.Entity(),
		Label:   info.Label,
		Kind:    info.Kind,
		Team:    *CompTeam.Get(e),
		Pos:     tr.Pos,
		Heading: tr.Heading,
		Radius:  radiusOf(e),
		Ability: abilityStateOf(e),
	}
	if e.HasComponent(CompHealth) {
		hp := CompHealth.Get(e)
		v.HP, v.MaxHP = hp.Current, hp.Max
	}
	if e.HasComponent(CompAI) {
		v.AI = CompAI.Get(e).State
	}
	if e.HasComponent(CompMover) {
		m := CompMover.Get(e)
		v.Target, v.Reached = m.Target, m.Reached
	}
	if e.HasComponent(CompOrders) {
		v.Waypoints = CompOrders.Get(e).Waypoints()
	}
	return v
}

// TeamCounts reports how many units each team spawned and lost.
func (s *Sim) TeamCounts(t Team) (spawned, dead int) {
	return s.spawned[t], s.deaths[t]
}
