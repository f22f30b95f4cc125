// Package terrain defines the per-tile classifications produced by world generation.
package terrain

import "fmt"

// Surface says whether a tile is land or water.
type Surface uint8

const (
	Water Surface = iota
	Land
)

func (s Surface) String() string {
	if s == Land {
		return "land"
	}
	return "water"
}

// Ground is the biome of a land tile. The zero value means no ground has been
// assigned, which is always the case on water.
type Ground uint8

const (
	GroundNone Ground = iota
	GroundArctic
	GroundDesert
	GroundGrassland
	GroundMarsh
	GroundPlains
	GroundPrairie
	GroundSavannah
	GroundSwamp
	GroundTundra
)

// NumGrounds is the number of assignable ground categories.
const NumGrounds = int(GroundTundra)

// Grounds lists the assignable categories in enumeration order.
var Grounds = [NumGrounds]Ground{
	GroundArctic,
	GroundDesert,
	GroundGrassland,
	GroundMarsh,
	GroundPlains,
	GroundPrairie,
	GroundSavannah,
	GroundSwamp,
	GroundTundra,
}

var groundNames = [...]string{
	GroundNone:      "none",
	GroundArctic:    "arctic",
	GroundDesert:    "desert",
	GroundGrassland: "grassland",
	GroundMarsh:     "marsh",
	GroundPlains:    "plains",
	GroundPrairie:   "prairie",
	GroundSavannah:  "savannah",
	GroundSwamp:     "swamp",
	GroundTundra:    "tundra",
}

// Index returns the ground's position in Grounds. It panics for GroundNone.
func (g Ground) Index() int {
	if !g.Valid() {
		panic(fmt.Sprintf("terrain: %d is not an assignable ground", uint8(g)))
	}
	return int(g) - 1
}

// Valid reports whether g is one of the assignable categories.
func (g Ground) Valid() bool {
	return g > GroundNone && g <= GroundTundra
}

func (g Ground) String() string {
	if int(g) < len(groundNames) {
		return groundNames[g]
	}
	return "unknown"
}

// Code returns a one-letter tag used in compact map dumps.
func (g Ground) Code() byte {
	switch g {
	case GroundArctic:
		return 'A'
	case GroundDesert:
		return 'D'
	case GroundGrassland:
		return 'G'
	case GroundMarsh:
		return 'M'
	case GroundPlains:
		return 'P'
	case GroundPrairie:
		return 'R'
	case GroundSavannah:
		return 'V'
	case GroundSwamp:
		return 'S'
	case GroundTundra:
		return 'T'
	default:
		return '?'
	}
}

// MarshalText lets grounds key JSON objects by name.
func (g Ground) MarshalText() ([]byte, error) {
	if int(g) >= len(groundNames) {
		return nil, fmt.Errorf("terrain: unknown ground %d", uint8(g))
	}
	return []byte(groundNames[g]), nil
}

// UnmarshalText parses a ground name.
func (g *Ground) UnmarshalText(b []byte) error {
	p, err := ParseGround(string(b))
	if err != nil {
		return err
	}
	*g = p
	return nil
}

// ParseGround maps a name back to its ground.
func ParseGround(name string) (Ground, error) {
	for i, n := range groundNames {
		if n == name {
			return Ground(i), nil
		}
	}
	return GroundNone, fmt.Errorf("terrain: unknown ground %q", name)
}

// Tile is one cell of a generated map.
type Tile struct {
	Surface Surface `json:"surface"`
	Ground  Ground  `json:"ground"`
}
