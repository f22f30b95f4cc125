// Package biome assigns ground categories to land tiles.
// Each ground has a latitude curve; per row the curves are clamped,
// normalized, and sampled for every land tile in that row.
package biome

import (
	"fmt"
	"log/slog"

	"github.com/talgya/landmass/internal/grid"
	"github.com/talgya/landmass/internal/terrain"
)

// Sampler draws an index proportionally to a weight vector.
type Sampler interface {
	PickWeighted(weights []float64) (int, bool)
}

// ZeroWeightError reports a row where no ground has positive weight.
type ZeroWeightError struct {
	Row int
}

func (e *ZeroWeightError) Error() string {
	return fmt.Sprintf("biome: no ground has positive weight on row %d", e.Row)
}

// RowWeights returns the normalized per-ground weights for row y of a map
// with the given height. If every clamped curve value is zero, all weights
// are zero.
func RowWeights(curves *[terrain.NumGrounds]Curve, y, height int) [terrain.NumGrounds]float64 {
	var weights [terrain.NumGrounds]float64
	o := float64(y) / float64(height)
	total := 0.0
	for i := range curves {
		v := curves[i].Eval(o)
		if v < 0 {
			v = 0
		}
		weights[i] = v
		total += v
	}
	if total > 0 {
		for i := range weights {
			weights[i] /= total
		}
	} else {
		weights = [terrain.NumGrounds]float64{}
	}
	return weights
}

// Assign writes a ground to every land tile of tiles. Water tiles are left untouched.
// Temperature and climate are clamped to [-100,100]. Draws come from r in
// row-major order.
func Assign(r Sampler, tiles *grid.Grid[terrain.Tile], temperature, climate int, cfg Config) error {
	curves, err := Curves(cfg, temperature, climate)
	if err != nil {
		return fmt.Errorf("create curves: %w", err)
	}

	size := tiles.Size()
	for y := 0; y < size.H; y++ {
		weights := RowWeights(&curves, y, size.H)
		row := tiles.Row(y)
		for x := range row {
			if row[x].Surface != terrain.Land {
				continue
			}
			i, ok := r.PickWeighted(weights[:])
			if !ok {
				for gi, g := range terrain.Grounds {
					slog.Warn("biome row weight", "row", y, "ground", g.String(), "weight", weights[gi])
				}
				return &ZeroWeightError{Row: y}
			}
			row[x].Ground = terrain.Grounds[i]
		}
	}
	return nil
}
