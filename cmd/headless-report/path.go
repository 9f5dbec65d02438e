package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Garsondee/skirmish/internal/game"
)

var pathCmd = &cobra.Command{
	Use:   "path FROM TO",
	Short: "Print the shortest tile path between two tiles on the scenario map",
	Long:  `FROM and TO are tiles written as x,y. The map is printed with the path marked '*'.`,
	Args:  cobra.ExactArgs(2),
	RunE:  runPath,
}

func runPath(_ *cobra.Command, args []string) error {
	from, err := parseTile(args[0])
	if err != nil {
		return err
	}
	to, err := parseTile(args[1])
	if err != nil {
		return err
	}
	_, _, sc, err := setup()
	if err != nil {
		return err
	}
	grid, err := sc.Grid()
	if err != nil {
		return err
	}

	path, err := grid.Dijkstra(from, to)
	switch {
	case errors.Is(err, game.ErrOutOfBounds):
		return fmt.Errorf("%v -> %v: %w", from, to, err)
	case errors.Is(err, game.ErrPathNotFound):
		fmt.Printf("no path from %v to %v\n", from, to)
		fmt.Print(grid)
		return nil
	}

	fmt.Printf("path %v -> %v: %d tiles, cost %d\n", from, to, len(path), len(path)-1)
	for i, wp := range grid.PathToWorld(path) {
		fmt.Printf("  %2d %v world=(%.0f,%.0f)\n", i, path[i], wp.X, wp.Y)
	}
	fmt.Print(renderPath(grid, path))
	return nil
}

func parseTile(s string) (game.TilePos, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return game.TilePos{}, fmt.Errorf("tile %q: want x,y", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return game.TilePos{}, fmt.Errorf("tile %q: %w", s, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return game.TilePos{}, fmt.Errorf("tile %q: %w", s, err)
	}
	return game.TilePos{X: x, Y: y}, nil
}

// renderPath draws the grid as ASCII with path tiles marked.
func renderPath(grid *game.GridMap, path []game.TilePos) string {
	on := make(map[game.TilePos]bool, len(path))
	for _, p := range path {
		on[p] = true
	}
	var b strings.Builder
	for y := 0; y < grid.Height(); y++ {
		for x := 0; x < grid.Width(); x++ {
			switch {
			case on[game.TilePos{X: x, Y: y}]:
				b.WriteByte('*')
			case grid.IsBlocked(x, y):
				b.WriteByte('#')
			default:
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
