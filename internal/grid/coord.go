// Package grid provides the rectangular tile grid shared by generation and pathfinding.
// Coordinates are zero-based; x grows rightward and y grows downward.
package grid

import (
	"fmt"
	"math"
)

// Coord is a tile position (or an offset between two tiles).
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns c translated by d.
func (c Coord) Add(d Coord) Coord {
	return Coord{X: c.X + d.X, Y: c.Y + d.Y}
}

// Sub returns the offset from d to c.
func (c Coord) Sub(d Coord) Coord {
	return Coord{X: c.X - d.X, Y: c.Y - d.Y}
}

// Pythagorean returns the Euclidean length of c treated as an offset.
func (c Coord) Pythagorean() float64 {
	return math.Sqrt(float64(c.X*c.X + c.Y*c.Y))
}

// Moved returns the neighbouring coordinate in direction d.
func (c Coord) Moved(d Direction) Coord {
	return c.Add(d.Offset())
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Size is a grid extent. Both dimensions are non-negative.
type Size struct {
	W int `json:"w"`
	H int `json:"h"`
}

// Area returns the number of tiles covered by the size.
func (s Size) Area() int {
	return s.W * s.H
}

// Contains reports whether c lies within [0,W)×[0,H).
func (s Size) Contains(c Coord) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < s.W && c.Y < s.H
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.W, s.H)
}

// Direction enumerates the eight compass neighbours of a tile.
type Direction uint8

const (
	NW Direction = iota
	N
	NE
	W
	E
	SW
	S
	SE
)

// Directions lists every direction in enumeration order.
var Directions = [8]Direction{NW, N, NE, W, E, SW, S, SE}

var directionOffsets = [8]Coord{
	NW: {X: -1, Y: -1},
	N:  {X: 0, Y: -1},
	NE: {X: 1, Y: -1},
	W:  {X: -1, Y: 0},
	E:  {X: 1, Y: 0},
	SW: {X: -1, Y: 1},
	S:  {X: 0, Y: 1},
	SE: {X: 1, Y: 1},
}

var directionNames = [8]string{"nw", "n", "ne", "w", "e", "sw", "s", "se"}

// Offset returns the unit step for the direction.
func (d Direction) Offset() Coord {
	return directionOffsets[d]
}

// Diagonal reports whether the direction moves along both axes.
func (d Direction) Diagonal() bool {
	o := directionOffsets[d]
	return o.X != 0 && o.Y != 0
}

func (d Direction) String() string {
	if int(d) < len(directionNames) {
		return directionNames[d]
	}
	return "unknown"
}
