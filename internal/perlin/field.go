// Package perlin synthesizes land masses from coherent noise.
// A noise field is sampled over the map, dampened toward the edges, and
// thresholded at the sea level that yields the requested land fraction.
package perlin

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/talgya/landmass/internal/grid"
	"github.com/talgya/landmass/internal/terrain"
)

// ErrDensitySearchFailed is returned when no sea level brings the land
// fraction within DensityTolerance of the target.
var ErrDensitySearchFailed = errors.New("perlin: density search failed")

// Sea-level search constants.
const (
	DensityTolerance = 1e-3
	MaxIterations    = 1000
	seaLevelMin      = -100000.0
	seaLevelMax      = 100000.0
)

// Edge suppression weakens on maps larger than these reference dimensions.
const (
	edgeWidthRef  = 56.0
	edgeHeightRef = 70.0
	edgeExponent  = 6.0
)

// LandForm shapes the noise itself.
type LandForm struct {
	Scale   float64 `json:"scale"`   // tiles per noise unit
	Octaves int     `json:"octaves"` // fractal layers
}

// Vec2 is a per-axis pair of factors.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// EdgeSuppression pushes map borders toward water.
type EdgeSuppression struct {
	Enabled  bool `json:"enabled"`
	Strength Vec2 `json:"strength"`
}

// Settings holds everything that determines a surface besides the target density.
type Settings struct {
	LandForm        LandForm        `json:"land_form"`
	EdgeSuppression EdgeSuppression `json:"edge_suppression"`
	Seed            Seed            `json:"seed"`
	Algorithm       Algorithm       `json:"algorithm,omitempty"`
}

// Stats describes the outcome of a sea-level search.
type Stats struct {
	SeaLevel   float64       `json:"sea_level"`
	Density    float64       `json:"density"`
	Iterations int           `json:"iterations"`
	Elapsed    time.Duration `json:"elapsed"`
}

// Generate produces a land/water surface whose land fraction is within
// DensityTolerance of targetDensity. Invalid settings or dimensions panic;
// the only runtime failure is ErrDensitySearchFailed.
func Generate(settings Settings, targetDensity float64, size grid.Size) (*grid.Grid[terrain.Surface], Stats, error) {
	checkPreconditions(settings, targetDensity, size)
	start := time.Now()

	noise, err := NewNoise(settings.Algorithm, settings.LandForm.Octaves, settings.Seed.Base)
	if err != nil {
		panic(fmt.Sprintf("perlin: %v", err))
	}

	field := SampleField(noise, settings, size)
	if settings.EdgeSuppression.Enabled {
		SuppressEdges(field, settings.EdgeSuppression.Strength)
	}

	stats, err := SearchSeaLevel(field, targetDensity)
	stats.Elapsed = time.Since(start)
	if err != nil {
		slog.Debug("sea level search failed",
			"size", size.String(),
			"target", targetDensity,
			"iterations", stats.Iterations,
		)
		return nil, stats, err
	}

	slog.Debug("sea level found",
		"size", size.String(),
		"sea_level", stats.SeaLevel,
		"density", stats.Density,
		"iterations", stats.Iterations,
		"elapsed", stats.Elapsed,
	)
	return Classify(field, stats.SeaLevel), stats, nil
}

func checkPreconditions(settings Settings, targetDensity float64, size grid.Size) {
	if size.W < 1 || size.H < 2 || size.H%2 != 0 {
		panic(fmt.Sprintf("perlin: world size %s must have width >= 1 and an even height >= 2", size))
	}
	if !(settings.LandForm.Scale > 0) || math.IsInf(settings.LandForm.Scale, 1) {
		panic(fmt.Sprintf("perlin: land form scale %v must be positive", settings.LandForm.Scale))
	}
	if settings.LandForm.Octaves < 1 {
		panic(fmt.Sprintf("perlin: land form octaves %d must be at least 1", settings.LandForm.Octaves))
	}
	if !(targetDensity > 0 && targetDensity < 1) {
		panic(fmt.Sprintf("perlin: target density %v outside (0,1)", targetDensity))
	}
}

// SampleField evaluates the noise at every tile. The result is a pure function
// of the noise, the settings, and the tile position.
func SampleField(noise Noise2D, settings Settings, size grid.Size) *grid.Grid[float64] {
	field := grid.New[float64](size)
	scale := settings.LandForm.Scale
	offX := float64(settings.Seed.OffsetX)
	offY := float64(settings.Seed.OffsetY)
	for y := 0; y < size.H; y++ {
		row := field.Row(y)
		sy := wrap(float64(y)/scale + offY)
		for x := range row {
			v := noise.Eval2(wrap(float64(x)/scale+offX), sy)
			if settings.Seed.Flip {
				v = -v
			}
			row[x] = v
		}
	}
	return field
}

// EdgeScale returns the per-axis dampening factor for a map of the given size.
// It is 1 on small maps and shrinks slowly as the map grows.
func EdgeScale(size grid.Size) Vec2 {
	return Vec2{
		X: math.Min(math.Pow(edgeWidthRef/float64(size.W), 0.125), 1.0),
		Y: math.Min(math.Pow(edgeHeightRef/float64(size.H), 0.125), 1.0),
	}
}

// EdgePenalty is the amount subtracted from the noise at c.
func EdgePenalty(c grid.Coord, size grid.Size, strength Vec2) float64 {
	scale := EdgeScale(size)
	halfW := float64(size.W) / 2
	halfH := float64(size.H) / 2
	dx := math.Abs(float64(c.X)-halfW) / halfW * scale.X
	dy := math.Abs(float64(c.Y)-halfH) / halfH * scale.Y
	px := math.Pow(dx, edgeExponent) * strength.X
	py := math.Pow(dy, edgeExponent) * strength.Y
	return math.Hypot(px, py)
}

// SuppressEdges lowers the field toward the map borders.
func SuppressEdges(field *grid.Grid[float64], strength Vec2) {
	size := field.Size()
	for y := 0; y < size.H; y++ {
		row := field.Row(y)
		for x := range row {
			row[x] -= EdgePenalty(grid.Coord{X: x, Y: y}, size, strength)
		}
	}
}

// LandDensity returns the fraction of tiles strictly above seaLevel.
func LandDensity(field *grid.Grid[float64], seaLevel float64) float64 {
	cells := field.Cells()
	if len(cells) == 0 {
		return 0
	}
	land := 0
	for _, v := range cells {
		if v > seaLevel {
			land++
		}
	}
	return float64(land) / float64(len(cells))
}

type searchResult int

const (
	searchGood searchResult = iota
	// The sea level is too low: there is too much land.
	searchTooLow
	// The sea level is too high: there is too little land.
	searchTooHigh
)

func classifyDensity(density, target float64) searchResult {
	switch {
	case math.Abs(density-target) <= DensityTolerance:
		return searchGood
	case density > target:
		return searchTooLow
	default:
		return searchTooHigh
	}
}

// SearchSeaLevel bisects for a sea level whose land density is within
// DensityTolerance of target, giving up after MaxIterations midpoints.
func SearchSeaLevel(field *grid.Grid[float64], target float64) (Stats, error) {
	lo, hi := seaLevelMin, seaLevelMax
	var stats Stats
	for i := 0; i < MaxIterations; i++ {
		mid := (lo + hi) / 2
		density := LandDensity(field, mid)
		stats = Stats{SeaLevel: mid, Density: density, Iterations: i + 1}
		switch classifyDensity(density, target) {
		case searchGood:
			return stats, nil
		case searchTooLow:
			lo = mid
		case searchTooHigh:
			hi = mid
		}
	}
	return stats, fmt.Errorf("%w: target %.4f, last density %.4f after %d iterations",
		ErrDensitySearchFailed, target, stats.Density, stats.Iterations)
}

// Classify turns the field into a surface: tiles at or below seaLevel are water.
func Classify(field *grid.Grid[float64], seaLevel float64) *grid.Grid[terrain.Surface] {
	return grid.Map(field, func(_ grid.Coord, v float64) terrain.Surface {
		if v <= seaLevel {
			return terrain.Water
		}
		return terrain.Land
	})
}
