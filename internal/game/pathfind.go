package game

import (
	"container/heap"
	"errors"
	"fmt"
)

var (
	// ErrPathNotFound is returned when the destination cannot be reached.
	ErrPathNotFound = errors.New("path not found")
	// ErrOutOfBounds is returned for coordinates outside the grid. It wraps
	// ErrPathNotFound so callers can treat both the same way.
	ErrOutOfBounds = fmt.Errorf("%w: coordinate out of bounds", ErrPathNotFound)
)

// Neighbour expansion order. Together with the insertion-order tie-break this
// fixes which of several equal-cost paths is returned.
var neighbourDirs = [4]TilePos{{0, 1}, {1, 0}, {0, -1}, {-1, 0}}

// --- Dijkstra (uniform cost) ---

type frontierItem struct {
	pos   TilePos
	cost  int
	seq   int // insertion order, breaks cost ties
	index int // heap index
}

type frontier []*frontierItem

func (f frontier) Len() int { return len(f) }
func (f frontier) Less(i, j int) bool {
	if f[i].cost != f[j].cost {
		return f[i].cost < f[j].cost
	}
	return f[i].seq < f[j].seq
}
func (f frontier) Swap(i, j int)       { f[i], f[j] = f[j], f[i]; f[i].index = i; f[j].index = j }
func (f *frontier) Push(x interface{}) { it := x.(*frontierItem); it.index = len(*f); *f = append(*f, it) }
func (f *frontier) Pop() interface{} {
	old := *f
	it := old[len(old)-1]
	old[len(old)-1] = nil
	*f = old[:len(old)-1]
	return it
}

// Dijkstra finds a shortest 4-connected path from start to end, stepping only
// onto floor tiles at cost 1 per step. The returned path includes both
// endpoints. Equal-cost candidates are expanded in insertion order.
func (g *GridMap) Dijkstra(start, end TilePos) ([]TilePos, error) {
	if !g.InBounds(start.X, start.Y) {
		return nil, fmt.Errorf("start %v: %w", start, ErrOutOfBounds)
	}
	if !g.InBounds(end.X, end.Y) {
		return nil, fmt.Errorf("end %v: %w", end, ErrOutOfBounds)
	}
	if start == end {
		return []TilePos{start}, nil
	}

	cameFrom := map[TilePos]TilePos{}
	costSoFar := map[TilePos]int{start: 0}

	seq := 0
	open := &frontier{{pos: start}}
	heap.Init(open)

	for open.Len() > 0 {
		cur := heap.Pop(open).(*frontierItem)
		if cur.pos == end {
			return reconstructPath(cameFrom, start, end), nil
		}
		if cur.cost > costSoFar[cur.pos] {
			continue // stale
		}

		for _, d := range neighbourDirs {
			next := TilePos{cur.pos.X + d.X, cur.pos.Y + d.Y}
			if g.IsBlocked(next.X, next.Y) {
				continue
			}
			newCost := cur.cost + 1
			if prev, seen := costSoFar[next]; seen && newCost >= prev {
				continue
			}
			costSoFar[next] = newCost
			cameFrom[next] = cur.pos
			seq++
			heap.Push(open, &frontierItem{pos: next, cost: newCost, seq: seq})
		}
	}
	return nil, fmt.Errorf("%v -> %v: %w", start, end, ErrPathNotFound)
}

func reconstructPath(cameFrom map[TilePos]TilePos, start, end TilePos) []TilePos {
	path := []TilePos{end}
	for cur := end; cur != start; {
		cur = cameFrom[cur]
		path = append(path, cur)
	}
	// Reverse
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// PathToWorld converts a tile path to world-space tile centres.
func (g *GridMap) PathToWorld(path []TilePos) []Vec2 {
	out := make([]Vec2, len(path))
	for i, p := range path {
		out[i] = g.TileToWorld(p)
	}
	return out
}
