package game

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/yohamta/donburi"
)

// overrideEpsilon is the distance under which two override move targets are
// considered the same order.
const overrideEpsilon = 0.5

// Awaitable marks whether an order's effect has been applied yet.
type Awaitable uint8

const (
	Queued   Awaitable = iota // not yet applied
	Awaiting                  // applied, waiting for completion
)

func (a Awaitable) String() string {
	switch a {
	case Queued:
		return "queued"
	case Awaiting:
		return "awaiting"
	default:
		return "unknown"
	}
}

// Order is a single queued command. The set of implementations is closed:
// AIOrder and MoveOrder.
type Order interface {
	isOrder()
	String() string
}

// AIOrder replaces the unit's AI state and completes immediately.
type AIOrder struct {
	State AIUnit
}

// MoveOrder points the unit's Mover at Target and completes on arrival.
type MoveOrder struct {
	Stage  Awaitable
	Target Vec2
}

func (AIOrder) isOrder()   {}
func (MoveOrder) isOrder() {}

func (o AIOrder) String() string { return fmt.Sprintf("ai(%s)", o.State) }
func (o MoveOrder) String() string {
	return fmt.Sprintf("move[%s](%.1f,%.1f)", o.Stage, o.Target.X, o.Target.Y)
}

// OrderAI builds an instant AI-state order.
func OrderAI(state AIUnit) Order { return AIOrder{State: state} }

// OrderMove builds a move order toward target. The unit travels at its own
// Speed.
func OrderMove(target Vec2) Order { return MoveOrder{Stage: Queued, Target: target} }

// sameOrder reports whether b would have no effect if it replaced a.
func sameOrder(a, b Order) bool {
	switch x := a.(type) {
	case MoveOrder:
		y, ok := b.(MoveOrder)
		return ok && x.Target.Near(y.Target, overrideEpsilon)
	case AIOrder:
		y, ok := b.(AIOrder)
		return ok && sameAIUnit(x.State, y.State)
	}
	return false
}

// Orders is a unit's FIFO command queue plus a single override slot that
// preempts it.
type Orders struct {
	queue    []Order
	override Order
}

// ReplaceOrders discards the queue and any override and installs orders.
func (o *Orders) ReplaceOrders(orders ...Order) {
	o.queue = append([]Order(nil), orders...)
	o.override = nil
}

// AddOrders appends to the queue without touching the override.
func (o *Orders) AddOrders(orders ...Order) {
	o.queue = append(o.queue, orders...)
}

// SetOverride installs ord in the override slot. It returns false and leaves
// the slot alone when ord is equivalent to the current override.
func (o *Orders) SetOverride(ord Order) bool {
	if o.override != nil && sameOrder(o.override, ord) {
		return false
	}
	o.override = ord
	return true
}

// Override returns the override order, if any.
func (o *Orders) Override() (Order, bool) {
	return o.override, o.override != nil
}

// Queue returns a copy of the pending queue, head first.
func (o *Orders) Queue() []Order {
	return append([]Order(nil), o.queue...)
}

// Len is the number of pending orders including the override.
func (o *Orders) Len() int {
	n := len(o.queue)
	if o.override != nil {
		n++
	}
	return n
}

// Waypoints lists the move targets the unit will visit, override first.
func (o *Orders) Waypoints() []Vec2 {
	var pts []Vec2
	if mv, ok := o.override.(MoveOrder); ok {
		pts = append(pts, mv.Target)
	}
	for _, ord := range o.queue {
		if mv, ok := ord.(MoveOrder); ok {
			pts = append(pts, mv.Target)
		}
	}
	return pts
}

// orderResult is the outcome of executing one order for one tick. A nil next
// with done=false means "still running, unchanged".
type orderResult struct {
	done bool
	next Order
}

// executeOrder applies ord to the unit and reports whether it completed.
func (s *Sim) executeOrder(e *donburi.Entry, ord Order) orderResult {
	switch o := ord.(type) {
	case AIOrder:
		s.setAIState(e, o.State)
		if _, passive := o.State.(Passive); passive {
			s.interruptAbility(e)
		}
		return orderResult{done: true}

	case MoveOrder:
		if !e.HasComponent(CompMover) {
			s.log.WithField("unit", labelOf(e)).Warn("move order for unit without mover dropped")
			return orderResult{done: true}
		}
		mover := CompMover.Get(e)
		switch o.Stage {
		case Queued:
			mover.Target = o.Target
			mover.Reached = false
			return orderResult{next: MoveOrder{Stage: Awaiting, Target: o.Target}}
		case Awaiting:
			// An override may have borrowed the mover; steer back first.
			if !mover.Target.Near(o.Target, overrideEpsilon) {
				mover.Target = o.Target
				mover.Reached = false
				return orderResult{}
			}
			return orderResult{done: mover.Reached}
		}
	}
	return orderResult{done: true}
}

// serviceOverride runs the override slot for one unit. It returns true when
// the override is still pending, in which case the queue must not run.
func (s *Sim) serviceOverride(e *donburi.Entry, orders *Orders) bool {
	if orders.override == nil {
		return false
	}
	r := s.executeOrder(e, orders.override)
	if r.done {
		s.SimLog.Add(s.tick, labelOf(e), teamOf(e), "order", "override_done", orders.override.String(), 0)
		orders.override = nil
		return false
	}
	if r.next != nil {
		orders.override = r.next
	}
	return true
}

// runOrders is the Order Execution Cycle.
func (s *Sim) runOrders() {
	queryOrders.Each(s.World, func(e *donburi.Entry) {
		orders := CompOrders.Get(e)
		if s.serviceOverride(e, orders) {
			return
		}
		for len(orders.queue) > 0 {
			head := orders.queue[0]
			r := s.executeOrder(e, head)
			if r.done {
				orders.queue = orders.queue[1:]
				s.SimLog.AddVerbose(s.tick, labelOf(e), teamOf(e), "order", "complete", head.String(), float64(len(orders.queue)))
				continue
			}
			if r.next != nil {
				orders.queue[0] = r.next
			}
			break
		}
	})
}

// issueOverride installs an AI-driven override and applies it at once, so
// the Movement Integrator sees it this tick.
func (s *Sim) issueOverride(e *donburi.Entry, ord Order) {
	if !e.HasComponent(CompOrders) {
		return
	}
	orders := CompOrders.Get(e)
	if !orders.SetOverride(ord) {
		return
	}
	s.SimLog.AddVerbose(s.tick, labelOf(e), teamOf(e), "order", "override", ord.String(), 0)
	s.log.WithFields(logrus.Fields{"unit": labelOf(e), "order": ord.String()}).Trace("override installed")
	s.serviceOverride(e, orders)
}

// ReplaceOrders is the player-facing replace_orders for a single unit.
// It returns false if the handle does not resolve.
func (s *Sim) ReplaceOrders(h Handle, orders ...Order) bool {
	e, ok := s.Entry(h)
	if !ok || !e.HasComponent(CompOrders) {
		return false
	}
	CompOrders.Get(e).ReplaceOrders(orders...)
	s.SimLog.Add(s.tick, labelOf(e), teamOf(e), "order", "replace", fmt.Sprintf("%d orders", len(orders)), float64(len(orders)))
	return true
}

// AddOrders is the player-facing add_orders for a single unit.
func (s *Sim) AddOrders(h Handle, orders ...Order) bool {
	e, ok := s.Entry(h)
	if !ok || !e.HasComponent(CompOrders) {
		return false
	}
	CompOrders.Get(e).AddOrders(orders...)
	s.SimLog.Add(s.tick, labelOf(e), teamOf(e), "order", "append", fmt.Sprintf("%d orders", len(orders)), float64(len(orders)))
	return true
}
