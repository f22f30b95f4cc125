// Package pathfind searches tile-to-tile routes over an implicit 8-way grid.
//
// The frontier is ordered only by straight-line distance to the destination,
// with no accumulated path cost, so the search is greedy best-first. Ties are
// broken by ascending y, then ascending x, which keeps results reproducible.
package pathfind

import (
	"container/heap"
	"log/slog"

	"github.com/talgya/landmass/internal/grid"
)

// Traversable decides whether an agent may enter a tile. It must answer for
// any coordinate, including ones outside the map.
type Traversable interface {
	CanEnterTile(c grid.Coord) bool
}

// TraversableFunc adapts a plain function to Traversable.
type TraversableFunc func(c grid.Coord) bool

// CanEnterTile implements Traversable.
func (f TraversableFunc) CanEnterTile(c grid.Coord) bool { return f(c) }

// Result is the outcome of a search.
type Result struct {
	// Path runs from the destination back toward the source. The source
	// itself is not included, so Path[len(Path)-1] is the first step.
	Path     []grid.Coord
	Found    bool
	Explored int // tiles recorded in the explored map, source included
}

// ComputeGotoPath returns the reversed path from src to dst, or false when no
// path exists. Reverse the slice for walking order.
func ComputeGotoPath(t Traversable, src, dst grid.Coord) ([]grid.Coord, bool) {
	res := Search(t, src, dst)
	return res.Path, res.Found
}

// Search runs the search and reports how much of the grid it touched.
func Search(t Traversable, src, dst grid.Coord) Result {
	if !t.CanEnterTile(dst) {
		slog.Debug("path search", "src", src.String(), "dst", dst.String(), "explored", 0, "found", false)
		return Result{}
	}

	explored := map[grid.Coord]grid.Coord{src: src}
	frontier := &frontierQueue{}
	heap.Push(frontier, frontierItem{tile: src, priority: dst.Sub(src).Pythagorean()})

	found := false
	for frontier.Len() > 0 {
		current := heap.Pop(frontier).(frontierItem).tile
		if current == dst {
			found = true
			break
		}
		for _, d := range grid.Directions {
			next := current.Moved(d)
			if _, seen := explored[next]; seen {
				continue
			}
			if !t.CanEnterTile(next) {
				continue
			}
			explored[next] = current
			heap.Push(frontier, frontierItem{tile: next, priority: dst.Sub(next).Pythagorean()})
		}
	}

	slog.Debug("path search", "src", src.String(), "dst", dst.String(), "explored", len(explored), "found", found)
	if !found {
		return Result{Explored: len(explored)}
	}

	path := []grid.Coord{}
	for p := dst; p != src; p = explored[p] {
		path = append(path, p)
	}
	return Result{Path: path, Found: true, Explored: len(explored)}
}

// Forward returns a copy of a reversed path in walking order.
func Forward(path []grid.Coord) []grid.Coord {
	out := make([]grid.Coord, len(path))
	for i, c := range path {
		out[len(path)-1-i] = c
	}
	return out
}
