package biome

import (
	"errors"
	"fmt"

	"github.com/talgya/landmass/internal/terrain"
)

// Config holds the per-ground lobes and how temperature and climate bend them.
// A positive gradient grows the parameter in cold (or dry) worlds.
type Config struct {
	Exponent            float64                        `json:"exponent"`
	Curves              map[terrain.Ground]CurveParams `json:"curves"`
	TemperatureGradient map[terrain.Ground]CurveParams `json:"temperature_gradient"`
	ClimateGradient     map[terrain.Ground]CurveParams `json:"climate_gradient"`
}

// DefaultConfig returns a plausible Earth-like latitude distribution.
func DefaultConfig() Config {
	return Config{
		Exponent: 2,
		Curves: map[terrain.Ground]CurveParams{
			terrain.GroundArctic:    {Weight: 1.0, Center: 1.0, Stddev: 0.12},
			terrain.GroundTundra:    {Weight: 1.0, Center: 0.8, Stddev: 0.16},
			terrain.GroundPlains:    {Weight: 1.0, Center: 0.5, Stddev: 0.3},
			terrain.GroundPrairie:   {Weight: 0.8, Center: 0.45, Stddev: 0.25},
			terrain.GroundGrassland: {Weight: 1.0, Center: 0.3, Stddev: 0.35},
			terrain.GroundMarsh:     {Weight: 0.4, Center: 0.55, Stddev: 0.4, Sub: 0.05},
			terrain.GroundSwamp:     {Weight: 0.5, Center: 0.1, Stddev: 0.25, Sub: 0.05},
			terrain.GroundSavannah:  {Weight: 0.8, Center: 0.15, Stddev: 0.25},
			terrain.GroundDesert:    {Weight: 0.9, Center: 0.25, Stddev: 0.2},
		},
		TemperatureGradient: map[terrain.Ground]CurveParams{
			terrain.GroundArctic:    {Weight: 0.8, Stddev: 0.5},
			terrain.GroundTundra:    {Weight: 0.6, Stddev: 0.3},
			terrain.GroundPlains:    {},
			terrain.GroundPrairie:   {Weight: 0.1},
			terrain.GroundGrassland: {Weight: -0.1},
			terrain.GroundMarsh:     {Weight: -0.2},
			terrain.GroundSwamp:     {Weight: -0.3},
			terrain.GroundSavannah:  {Weight: -0.5, Stddev: -0.2},
			terrain.GroundDesert:    {Weight: -0.7, Stddev: -0.2},
		},
		ClimateGradient: map[terrain.Ground]CurveParams{
			terrain.GroundArctic:    {},
			terrain.GroundTundra:    {Weight: 0.1},
			terrain.GroundPlains:    {Weight: 0.1},
			terrain.GroundPrairie:   {Weight: 0.2},
			terrain.GroundGrassland: {Weight: -0.1},
			terrain.GroundMarsh:     {Weight: -0.6},
			terrain.GroundSwamp:     {Weight: -0.6},
			terrain.GroundSavannah:  {Weight: 0.3},
			terrain.GroundDesert:    {Weight: 0.7, Stddev: 0.3},
		},
	}
}

// Validate checks that every ground has a curve and both gradients.
func (c Config) Validate() error {
	var errs []error
	if !(c.Exponent > 0) {
		errs = append(errs, fmt.Errorf("exponent %v must be positive", c.Exponent))
	}
	for _, g := range terrain.Grounds {
		if _, ok := c.Curves[g]; !ok {
			errs = append(errs, fmt.Errorf("no curve for %s", g))
		}
		if _, ok := c.TemperatureGradient[g]; !ok {
			errs = append(errs, fmt.Errorf("no temperature gradient for %s", g))
		}
		if _, ok := c.ClimateGradient[g]; !ok {
			errs = append(errs, fmt.Errorf("no climate gradient for %s", g))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("biome config: %w", errors.Join(errs...))
	}
	return nil
}

// Curves derives the adjusted curve of every ground. A ground missing from
// cfg is a programming error and panics; run Validate at startup.
func Curves(cfg Config, temperature, climate int) ([terrain.NumGrounds]Curve, error) {
	var curves [terrain.NumGrounds]Curve
	for i, g := range terrain.Grounds {
		base, ok := cfg.Curves[g]
		tg, ok2 := cfg.TemperatureGradient[g]
		cg, ok3 := cfg.ClimateGradient[g]
		if !ok || !ok2 || !ok3 {
			panic(fmt.Sprintf("biome: configuration incomplete for %s", g))
		}
		c, err := NewCurve(g, base, tg, cg, temperature, climate, cfg.Exponent)
		if err != nil {
			return curves, err
		}
		curves[i] = c
	}
	return curves, nil
}
