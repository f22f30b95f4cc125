package grid

import "fmt"

// Grid stores one value per tile in row-major order.
type Grid[T any] struct {
	size  Size
	cells []T
}

// New allocates a grid of zero values. Negative dimensions are treated as zero.
func New[T any](size Size) *Grid[T] {
	if size.W < 0 {
		size.W = 0
	}
	if size.H < 0 {
		size.H = 0
	}
	return &Grid[T]{size: size, cells: make([]T, size.W*size.H)}
}

// NewFilled allocates a grid with every tile set to v.
func NewFilled[T any](size Size, v T) *Grid[T] {
	g := New[T](size)
	for i := range g.cells {
		g.cells[i] = v
	}
	return g
}

// Size returns the grid dimensions.
func (g *Grid[T]) Size() Size { return g.size }

// Cells exposes the backing slice so callers can scan values directly.
func (g *Grid[T]) Cells() []T { return g.cells }

// Index returns the linear slice index for c.
func (g *Grid[T]) Index(c Coord) int { return c.Y*g.size.W + c.X }

// Contains reports whether c is inside the grid.
func (g *Grid[T]) Contains(c Coord) bool { return g.size.Contains(c) }

// At returns the value at c. It panics when c is out of bounds.
func (g *Grid[T]) At(c Coord) T {
	g.mustContain(c)
	return g.cells[g.Index(c)]
}

// Get returns the value at c and whether c was in bounds.
func (g *Grid[T]) Get(c Coord) (T, bool) {
	if !g.size.Contains(c) {
		var zero T
		return zero, false
	}
	return g.cells[g.Index(c)], true
}

// Set stores v at c. It panics when c is out of bounds.
func (g *Grid[T]) Set(c Coord, v T) {
	g.mustContain(c)
	g.cells[g.Index(c)] = v
}

// Ptr returns a pointer to the value at c for in-place updates.
func (g *Grid[T]) Ptr(c Coord) *T {
	g.mustContain(c)
	return &g.cells[g.Index(c)]
}

// Row returns the slice backing row y.
func (g *Grid[T]) Row(y int) []T {
	if y < 0 || y >= g.size.H {
		panic(fmt.Sprintf("grid: row %d outside %s", y, g.size))
	}
	return g.cells[y*g.size.W : (y+1)*g.size.W]
}

// Each calls fn for every tile in row-major order.
func (g *Grid[T]) Each(fn func(c Coord, v T)) {
	for y := 0; y < g.size.H; y++ {
		for x := 0; x < g.size.W; x++ {
			c := Coord{X: x, Y: y}
			fn(c, g.cells[g.Index(c)])
		}
	}
}

// Map builds a new grid of the same size by converting every tile.
func Map[T, U any](g *Grid[T], fn func(c Coord, v T) U) *Grid[U] {
	out := New[U](g.size)
	g.Each(func(c Coord, v T) {
		out.cells[out.Index(c)] = fn(c, v)
	})
	return out
}

func (g *Grid[T]) mustContain(c Coord) {
	if !g.size.Contains(c) {
		panic(fmt.Sprintf("grid: %s outside %s", c, g.size))
	}
}
