package world

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/talgya/landmass/internal/biome"
	"github.com/talgya/landmass/internal/grid"
	"github.com/talgya/landmass/internal/perlin"
)

// Config holds world generation parameters.
type Config struct {
	Size            grid.Size              `json:"size"`
	Density         float64                `json:"density"`     // target land fraction, exclusive (0,1)
	Temperature     int                    `json:"temperature"` // -100 (cold) .. 100 (hot)
	Climate         int                    `json:"climate"`     // -100 (dry) .. 100 (wet)
	LandForm        perlin.LandForm        `json:"land_form"`
	EdgeSuppression perlin.EdgeSuppression `json:"edge_suppression"`
	Algorithm       perlin.Algorithm       `json:"algorithm,omitempty"`
	Biomes          biome.Config           `json:"biomes"`
}

// DefaultConfig returns the standard playable map.
func DefaultConfig() Config {
	return Config{
		Size:        grid.Size{W: 56, H: 70},
		Density:     0.35,
		Temperature: 0,
		Climate:     0,
		LandForm:    perlin.LandForm{Scale: 14.7, Octaves: 4},
		EdgeSuppression: perlin.EdgeSuppression{
			Enabled:  true,
			Strength: perlin.Vec2{X: 2.0, Y: 1.5},
		},
		Algorithm: perlin.AlgorithmPerlin,
		Biomes:    biome.DefaultConfig(),
	}
}

// SmallTestConfig returns a tiny world for rapid iteration.
func SmallTestConfig() Config {
	cfg := DefaultConfig()
	cfg.Size = grid.Size{W: 24, H: 16}
	cfg.Density = 0.375
	cfg.LandForm = perlin.LandForm{Scale: 7.3, Octaves: 3}
	return cfg
}

// LoadConfig reads a JSON file over DefaultConfig. Fields absent from the file
// keep their defaults; a ground listed under a biome table replaces that
// ground's whole entry.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate reports every problem that would make Generate panic or fail
// before any noise is sampled.
func (c Config) Validate() error {
	var errs []error
	if c.Size.W < 1 || c.Size.H < 2 || c.Size.H%2 != 0 {
		errs = append(errs, fmt.Errorf("size %s needs width >= 1 and an even height >= 2", c.Size))
	}
	if !(c.Density > 0 && c.Density < 1) {
		errs = append(errs, fmt.Errorf("density %v outside (0,1)", c.Density))
	}
	if !(c.LandForm.Scale > 0) {
		errs = append(errs, fmt.Errorf("land form scale %v must be positive", c.LandForm.Scale))
	}
	if c.LandForm.Octaves < 1 {
		errs = append(errs, fmt.Errorf("land form octaves %d must be at least 1", c.LandForm.Octaves))
	}
	if _, err := perlin.NewNoise(c.Algorithm, 1, 0); err != nil {
		errs = append(errs, err)
	}
	if err := c.Biomes.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("world config: %w", errors.Join(errs...))
}

// Settings returns the surface settings for one seed.
func (c Config) Settings(seed perlin.Seed) perlin.Settings {
	return perlin.Settings{
		LandForm:        c.LandForm,
		EdgeSuppression: c.EdgeSuppression,
		Seed:            seed,
		Algorithm:       c.Algorithm,
	}
}
