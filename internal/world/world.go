// Package world ties the surface generator, biome assignment and path search
// into a single generated map.
package world

import (
	"fmt"
	"log/slog"

	"github.com/talgya/landmass/internal/biome"
	"github.com/talgya/landmass/internal/entropy"
	"github.com/talgya/landmass/internal/grid"
	"github.com/talgya/landmass/internal/pathfind"
	"github.com/talgya/landmass/internal/perlin"
	"github.com/talgya/landmass/internal/rng"
	"github.com/talgya/landmass/internal/terrain"
)

// World is a generated map together with what produced it.
type World struct {
	Tiles  *grid.Grid[terrain.Tile]
	Seed   perlin.Seed
	Config Config
	Noise  perlin.Stats
}

// Generate builds the surface for seed, then draws grounds for every land
// tile from r. The same config, seed and sampler state always yield the
// same world.
func Generate(cfg Config, seed perlin.Seed, r biome.Sampler) (*World, error) {
	surface, stats, err := perlin.Generate(cfg.Settings(seed), cfg.Density, cfg.Size)
	if err != nil {
		return nil, fmt.Errorf("generate surface: %w", err)
	}

	tiles := grid.Map(surface, func(_ grid.Coord, s terrain.Surface) terrain.Tile {
		return terrain.Tile{Surface: s}
	})
	if err := biome.Assign(r, tiles, cfg.Temperature, cfg.Climate, cfg.Biomes); err != nil {
		return nil, fmt.Errorf("assign biomes: %w", err)
	}

	w := &World{Tiles: tiles, Seed: seed, Config: cfg, Noise: stats}
	slog.Info("world generated",
		"size", cfg.Size.String(),
		"seed", seed.String(),
		"density", stats.Density,
		"sea_level", stats.SeaLevel,
		"iterations", stats.Iterations,
	)
	return w, nil
}

// SeedFromInt64 derives a surface seed from a single integer.
func SeedFromInt64(n int64) perlin.Seed {
	return perlin.NewSeed(entropy.Deterministic(n))
}

// Seeds pairs a surface seed with the seed of the biome sampler.
type Seeds struct {
	Surface perlin.Seed `json:"surface"`
	Biome   int64       `json:"biome"`
}

// SeedsFromInt64 derives both seeds from one integer.
func SeedsFromInt64(n int64) Seeds {
	return Seeds{Surface: SeedFromInt64(n), Biome: n + 100}
}

// DrawSeeds takes the surface seed then two more words for the biome seed.
func DrawSeeds(src perlin.Uint32Source) Seeds {
	s := Seeds{Surface: perlin.NewSeed(src)}
	s.Biome = int64(src.Uint32())<<32 | int64(src.Uint32())
	return s
}

// New generates a world with a fresh biome sampler seeded from seeds.
func New(cfg Config, seeds Seeds) (*World, error) {
	return Generate(cfg, seeds.Surface, rng.New(seeds.Biome))
}

// Size returns the map dimensions.
func (w *World) Size() grid.Size { return w.Tiles.Size() }

// Tile returns the tile at c, or false outside the map.
func (w *World) Tile(c grid.Coord) (terrain.Tile, bool) {
	return w.Tiles.Get(c)
}

// Counts tallies a world's tiles.
type Counts struct {
	Land    int                    `json:"land"`
	Water   int                    `json:"water"`
	Coastal int                    `json:"coastal"`
	Grounds map[terrain.Ground]int `json:"grounds"`
}

// TerrainCounts tallies land, water, coastal land and each ground.
func (w *World) TerrainCounts() Counts {
	counts := Counts{Grounds: make(map[terrain.Ground]int)}
	w.Tiles.Each(func(c grid.Coord, t terrain.Tile) {
		if t.Surface != terrain.Land {
			counts.Water++
			return
		}
		counts.Land++
		counts.Grounds[t.Ground]++
		if w.IsCoastal(c) {
			counts.Coastal++
		}
	})
	return counts
}

// LandFraction is the realized share of land tiles.
func (w *World) LandFraction() float64 {
	return float64(w.TerrainCounts().Land) / float64(w.Size().Area())
}

// IsCoastal reports whether c is land with at least one water neighbour.
// Tiles beyond the map edge do not count as water.
func (w *World) IsCoastal(c grid.Coord) bool {
	t, ok := w.Tiles.Get(c)
	if !ok || t.Surface != terrain.Land {
		return false
	}
	for _, d := range grid.Directions {
		if n, ok := w.Tiles.Get(c.Moved(d)); ok && n.Surface == terrain.Water {
			return true
		}
	}
	return false
}

// Mode selects which surface a route may cross.
type Mode string

const (
	ModeLand Mode = "land"
	ModeSea  Mode = "sea"
)

// ParseMode accepts "land" or "sea".
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeLand, ModeSea:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown traversal mode %q", s)
}

// LandTraversal admits in-bounds land tiles.
func (w *World) LandTraversal() pathfind.Traversable {
	return w.surfaceTraversal(terrain.Land)
}

// SeaTraversal admits in-bounds water tiles.
func (w *World) SeaTraversal() pathfind.Traversable {
	return w.surfaceTraversal(terrain.Water)
}

func (w *World) surfaceTraversal(s terrain.Surface) pathfind.Traversable {
	return pathfind.TraversableFunc(func(c grid.Coord) bool {
		t, ok := w.Tiles.Get(c)
		return ok && t.Surface == s
	})
}

// Path searches a route from src to dst in walking order, excluding src.
func (w *World) Path(mode Mode, src, dst grid.Coord) ([]grid.Coord, bool) {
	var t pathfind.Traversable
	switch mode {
	case ModeLand:
		t = w.LandTraversal()
	case ModeSea:
		t = w.SeaTraversal()
	default:
		panic(fmt.Sprintf("world: unknown traversal mode %q", mode))
	}
	path, ok := pathfind.ComputeGotoPath(t, src, dst)
	if !ok {
		return nil, false
	}
	return pathfind.Forward(path), true
}
