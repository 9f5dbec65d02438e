package game

import (
	"fmt"
	"math"
	"strings"
)

// DefaultTileSize is the world-space edge length of one grid tile.
const DefaultTileSize = 120.0

// Tile is the terrain type of a grid cell.
type Tile uint8

const (
	TileFloor Tile = iota // passable
	TileWall              // impassable
)

func (t Tile) String() string {
	switch t {
	case TileFloor:
		return "floor"
	case TileWall:
		return "wall"
	default:
		return "unknown"
	}
}

// TilePos is an integer grid coordinate.
type TilePos struct {
	X, Y int
}

func (p TilePos) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// GridMap is a fixed-size walkable/blocked tile grid. It is built once before
// any unit spawns and has no mutators, so it can be shared freely.
type GridMap struct {
	width    int
	height   int
	tileSize float64
	tiles    []Tile
}

// NewGridMap builds a width x height grid of floor tiles with the given walls.
// Wall coordinates outside the grid are ignored.
func NewGridMap(width, height int, walls ...TilePos) *GridMap {
	g := &GridMap{
		width:    width,
		height:   height,
		tileSize: DefaultTileSize,
		tiles:    make([]Tile, width*height),
	}
	for _, w := range walls {
		if g.InBounds(w.X, w.Y) {
			g.tiles[w.Y*width+w.X] = TileWall
		}
	}
	return g
}

// ParseGridMap builds a grid from ASCII rows: '#' is a wall, '.' (or space) is
// floor. Row i is y=i. All rows must have the same length.
func ParseGridMap(rows []string) (*GridMap, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("grid map: no rows")
	}
	width := len(rows[0])
	if width == 0 {
		return nil, fmt.Errorf("grid map: empty first row")
	}
	var walls []TilePos
	for y, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("grid map: row %d has width %d, want %d", y, len(row), width)
		}
		for x, c := range row {
			switch c {
			case '#':
				walls = append(walls, TilePos{x, y})
			case '.', ' ':
			default:
				return nil, fmt.Errorf("grid map: row %d col %d: unexpected %q", y, x, c)
			}
		}
	}
	return NewGridMap(width, len(rows), walls...), nil
}

// WithTileSize returns a copy of g using a different world tile size.
func (g *GridMap) WithTileSize(size float64) *GridMap {
	cp := *g
	cp.tiles = append([]Tile(nil), g.tiles...)
	if size > 0 {
		cp.tileSize = size
	}
	return &cp
}

func (g *GridMap) Width() int        { return g.width }
func (g *GridMap) Height() int       { return g.height }
func (g *GridMap) TileSize() float64 { return g.tileSize }

// InBounds reports whether (x, y) lies inside the grid.
func (g *GridMap) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.width && y < g.height
}

// At returns the tile at (x, y), or false when out of bounds.
func (g *GridMap) At(x, y int) (Tile, bool) {
	if !g.InBounds(x, y) {
		return TileWall, false
	}
	return g.tiles[y*g.width+x], true
}

// IsBlocked returns true if (x, y) is a wall or outside the grid.
func (g *GridMap) IsBlocked(x, y int) bool {
	t, ok := g.At(x, y)
	return !ok || t == TileWall
}

// origin is the world position of tile (0,0)'s centre relative to the map
// centre; the map is centred on the world origin.
func (g *GridMap) origin() Vec2 {
	return Vec2{
		X: float64(g.width) * g.tileSize / 2,
		Y: float64(g.height) * g.tileSize / 2,
	}
}

// TileToWorld converts a tile coordinate to its world-space centre.
func (g *GridMap) TileToWorld(p TilePos) Vec2 {
	o := g.origin()
	return Vec2{
		X: float64(p.X)*g.tileSize - o.X,
		Y: float64(p.Y)*g.tileSize - o.Y,
	}
}

// WorldToTile converts a world position to the nearest tile coordinate. The
// result may be out of bounds.
func (g *GridMap) WorldToTile(w Vec2) TilePos {
	o := g.origin()
	return TilePos{
		X: int(math.Round((w.X + o.X) / g.tileSize)),
		Y: int(math.Round((w.Y + o.Y) / g.tileSize)),
	}
}

// Bounds returns the world-space rectangle covered by the grid's tiles.
func (g *GridMap) Bounds() (min, max Vec2) {
	half := g.tileSize / 2
	min = g.TileToWorld(TilePos{0, 0}).Sub(Vec2{half, half})
	max = g.TileToWorld(TilePos{g.width - 1, g.height - 1}).Add(Vec2{half, half})
	return min, max
}

// String renders the grid in the same ASCII form ParseGridMap reads.
func (g *GridMap) String() string {
	var sb strings.Builder
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			if g.tiles[y*g.width+x] == TileWall {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
