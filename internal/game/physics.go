package game

import (
	"github.com/yohamta/donburi"
)

// Physics advances positions from the velocities the Movement Integrator
// wrote. Collision response belongs to the implementation.
type Physics interface {
	Integrate(w donburi.World, dt float64)
}

// KinematicPhysics applies velocities directly. With a Grid set, a step that
// would end inside a wall is retried along each axis and dropped if both
// are blocked.
type KinematicPhysics struct {
	Grid *GridMap
}

func (p KinematicPhysics) Integrate(w donburi.World, dt float64) {
	queryBodies.Each(w, func(e *donburi.Entry) {
		tr := CompTransform.Get(e)
		vel := CompVelocity.Get(e)

		tr.Heading = normalizeAngle(tr.Heading + vel.Turn)
		if vel.Linear == (Vec2{}) {
			return
		}
		tr.Pos = p.step(tr.Pos, vel.Linear.Scale(dt))
	})
}

func (p KinematicPhysics) step(from, delta Vec2) Vec2 {
	to := from.Add(delta)
	if p.Grid == nil || p.walkable(to) {
		return to
	}
	if alongX := from.Add(Vec2{X: delta.X}); p.walkable(alongX) {
		return alongX
	}
	if alongY := from.Add(Vec2{Y: delta.Y}); p.walkable(alongY) {
		return alongY
	}
	return from
}

// walkable treats positions off the grid as open so units spawned outside
// the map are not frozen.
func (p KinematicPhysics) walkable(pos Vec2) bool {
	t := p.Grid.WorldToTile(pos)
	tile, ok := p.Grid.At(t.X, t.Y)
	return !ok || tile == TileFloor
}
