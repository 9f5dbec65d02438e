package game

import (
	"errors"
	"math"

	"github.com/sirupsen/logrus"
)

// skipWaypoints is how many leading path tiles are dropped when a path
// becomes move orders: the tile the unit stands on and its nearest
// neighbour, which often sits behind the unit.
const skipWaypoints = 2

// CommandMove orders units to target. With attackMove they engage enemies
// met on the way. With queue the orders are appended rather than replacing
// the current ones, and the path is planned from the last queued waypoint.
// A group ordered outside its own bounding box keeps its
// formation.
func (s *Sim) CommandMove(units []Handle, target Vec2, attackMove, queue bool) {
	live := s.liveUnits(units)
	if len(live) == 0 {
		return
	}

	offsets := s.formationOffsets(live, target)
	for i, h := range live {
		e, _ := s.Entry(h)
		from := CompTransform.Get(e).Pos
		if queue {
			// Queued legs start where the previous leg ends.
			if pts := CompOrders.Get(e).Waypoints(); len(pts) > 0 {
				from = pts[len(pts)-1]
			}
		}
		orders := s.MoveOrders(from, target.Add(offsets[i]), attackMove)
		if queue {
			s.AddOrders(h, orders...)
		} else {
			s.ReplaceOrders(h, orders...)
		}
	}
	s.log.WithFields(logrus.Fields{
		"units":       len(live),
		"target":      target,
		"attack_move": attackMove,
		"queued":      queue,
	}).Debug("move command")
}

// CommandAttack orders units to chase and attack target. Units on the
// target's own team ignore the command.
func (s *Sim) CommandAttack(units []Handle, target Handle, queue bool) {
	te, ok := s.Entry(target)
	if !ok || !te.HasComponent(CompTeam) {
		return
	}
	targetTeam := *CompTeam.Get(te)
	for _, h := range s.liveUnits(units) {
		e, _ := s.Entry(h)
		if *CompTeam.Get(e) == targetTeam {
			continue
		}
		ord := OrderAI(Attack{Target: target, ChaseWhenTargetTooFar: true})
		if queue {
			s.AddOrders(h, ord)
		} else {
			s.ReplaceOrders(h, ord)
		}
	}
}

// MoveOrders builds the order list for one unit walking from from to target:
// an AI order (SeekEnemy for attack-moves, Passive otherwise), one move per
// path tile minus the first two, a final move onto the exact target and a
// closing SeekEnemy. When no path exists the unit is sent straight there.
func (s *Sim) MoveOrders(from, target Vec2, attackMove bool) []Order {
	var lead AIUnit = Passive{}
	if attackMove {
		lead = SeekEnemy{}
	}
	orders := []Order{OrderAI(lead)}

	path, err := s.path(from, target)
	switch {
	case err == nil:
		if len(path) > skipWaypoints {
			for _, p := range s.Grid.PathToWorld(path[skipWaypoints:]) {
				orders = append(orders, OrderMove(p))
			}
		}
	case errors.Is(err, ErrPathNotFound):
		s.log.WithError(err).Debug("no path, moving directly")
	}
	orders = append(orders, OrderMove(target), OrderAI(SeekEnemy{}))
	return orders
}

func (s *Sim) path(from, to Vec2) ([]TilePos, error) {
	if s.Grid == nil {
		return nil, ErrPathNotFound
	}
	return s.Grid.Dijkstra(s.Grid.WorldToTile(from), s.Grid.WorldToTile(to))
}

func (s *Sim) liveUnits(units []Handle) []Handle {
	var live []Handle
	for _, h := range units {
		if e, ok := s.Entry(h); ok && e.HasComponent(CompOrders) && e.HasComponent(CompTransform) {
			live = append(live, h)
		}
	}
	return live
}

// formationOffsets returns, per unit, the offset added to the shared target.
// Offsets are zero for a single unit or when target lies inside the group's
// bounding box.
func (s *Sim) formationOffsets(units []Handle, target Vec2) []Vec2 {
	offsets := make([]Vec2, len(units))
	if len(units) < 2 {
		return offsets
	}
	pos := make([]Vec2, len(units))
	minP := Vec2{math.Inf(1), math.Inf(1)}
	maxP := Vec2{math.Inf(-1), math.Inf(-1)}
	for i, h := range units {
		e, _ := s.Entry(h)
		pos[i] = CompTransform.Get(e).Pos
		minP = Vec2{math.Min(minP.X, pos[i].X), math.Min(minP.Y, pos[i].Y)}
		maxP = Vec2{math.Max(maxP.X, pos[i].X), math.Max(maxP.Y, pos[i].Y)}
	}
	if InRect(target, minP, maxP) {
		return offsets
	}
	center := minP.Add(maxP).Scale(0.5)
	for i := range units {
		offsets[i] = pos[i].Sub(center)
	}
	return offsets
}

// InRect reports whether p lies in the rectangle spanned by corners a and b,
// in any corner order.
func InRect(p, a, b Vec2) bool {
	return p.X >= math.Min(a.X, b.X) && p.X <= math.Max(a.X, b.X) &&
		p.Y >= math.Min(a.Y, b.Y) && p.Y <= math.Max(a.Y, b.Y)
}

// SelectInRect returns team's units whose centre lies in the rectangle a-b.
func (s *Sim) SelectInRect(a, b Vec2, team Team) []Handle {
	var out []Handle
	for _, u := range s.Units() {
		if u.Team == team && InRect(u.Pos, a, b) {
			out = append(out, u.Handle)
		}
	}
	return out
}

// UnitAt returns the unit whose body contains p, preferring the closest.
func (s *Sim) UnitAt(p Vec2) (UnitView, bool) {
	var best UnitView
	bestDist := math.Inf(1)
	for _, u := range s.Units() {
		d := u.Pos.Dist(p)
		if d <= u.Radius && d < bestDist {
			best, bestDist = u, d
		}
	}
	return best, !math.IsInf(bestDist, 1)
}
