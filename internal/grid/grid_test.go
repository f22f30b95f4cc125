package grid_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/talgya/landmass/internal/grid"
)

func TestGrid_RowMajor(t *testing.T) {
	g := grid.New[int](grid.Size{W: 3, H: 2})
	g.Set(grid.Coord{X: 2, Y: 0}, 7)
	g.Set(grid.Coord{X: 0, Y: 1}, 9)

	assert.Equal(t, []int{0, 0, 7, 9, 0, 0}, g.Cells())
	assert.Equal(t, []int{9, 0, 0}, g.Row(1))
	assert.Equal(t, 5, g.Index(grid.Coord{X: 2, Y: 1}))
}

func TestGrid_BoundsChecked(t *testing.T) {
	g := grid.NewFilled(grid.Size{W: 2, H: 2}, "x")

	v, ok := g.Get(grid.Coord{X: 1, Y: 1})
	assert.True(t, ok)
	assert.Equal(t, "x", v)

	_, ok = g.Get(grid.Coord{X: 2, Y: 0})
	assert.False(t, ok)
	_, ok = g.Get(grid.Coord{X: 0, Y: -1})
	assert.False(t, ok)

	assert.Panics(t, func() { g.At(grid.Coord{X: -1, Y: 0}) })
	assert.Panics(t, func() { g.Set(grid.Coord{X: 0, Y: 2}, "y") })
	assert.Panics(t, func() { g.Row(2) })
}

func TestGrid_EachOrder(t *testing.T) {
	g := grid.New[int](grid.Size{W: 2, H: 2})
	var seen []grid.Coord
	g.Each(func(c grid.Coord, _ int) { seen = append(seen, c) })
	assert.Equal(t, []grid.Coord{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}}, seen)
}

func TestGrid_Map(t *testing.T) {
	g := grid.New[int](grid.Size{W: 2, H: 1})
	*g.Ptr(grid.Coord{X: 1, Y: 0}) = 4
	doubled := grid.Map(g, func(_ grid.Coord, v int) int { return v * 2 })
	assert.Equal(t, []int{0, 8}, doubled.Cells())
	assert.Equal(t, g.Size(), doubled.Size())
}

func TestDirections(t *testing.T) {
	diagonals := 0
	seen := make(map[grid.Coord]bool)
	for _, d := range grid.Directions {
		o := d.Offset()
		assert.False(t, o == grid.Coord{}, "direction %s has zero offset", d)
		assert.False(t, seen[o], "duplicate offset for %s", d)
		seen[o] = true
		if d.Diagonal() {
			diagonals++
		}
	}
	assert.Equal(t, 4, diagonals)
	assert.Equal(t, grid.Coord{X: 4, Y: 2}, grid.Coord{X: 3, Y: 3}.Moved(grid.NE))
}

func TestCoord_Pythagorean(t *testing.T) {
	assert.Equal(t, 5.0, grid.Coord{X: 3, Y: -4}.Pythagorean())
	assert.InDelta(t, math.Sqrt2, grid.Coord{X: 2, Y: 2}.Sub(grid.Coord{X: 1, Y: 1}).Pythagorean(), 1e-12)
}
