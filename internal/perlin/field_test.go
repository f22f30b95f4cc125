package perlin

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/landmass/internal/grid"
	"github.com/talgya/landmass/internal/rng"
	"github.com/talgya/landmass/internal/terrain"
)

func testSettings(seed int64) Settings {
	return Settings{
		LandForm: LandForm{Scale: 17.3, Octaves: 4},
		Seed:     NewSeed(rng.New(seed)),
	}
}

func landFraction(surface *grid.Grid[terrain.Surface]) float64 {
	land := 0
	for _, s := range surface.Cells() {
		if s == terrain.Land {
			land++
		}
	}
	return float64(land) / float64(len(surface.Cells()))
}

type fixedWords []uint32

func (f *fixedWords) Uint32() uint32 {
	v := (*f)[0]
	*f = (*f)[1:]
	return v
}

func TestNewSeed_DrawOrder(t *testing.T) {
	words := fixedWords{11, 22, 33, 5}
	s := NewSeed(&words)
	assert.Equal(t, Seed{OffsetX: 11, OffsetY: 22, Base: 33, Flip: true}, s)
	assert.Empty(t, words)

	words = fixedWords{1, 2, 3, 4}
	assert.False(t, NewSeed(&words).Flip)
}

func TestGenerate_Deterministic(t *testing.T) {
	settings := testSettings(42)
	settings.EdgeSuppression = EdgeSuppression{Enabled: true, Strength: Vec2{X: 1, Y: 1}}
	size := grid.Size{W: 48, H: 32}

	a, statsA, err := Generate(settings, 0.4, size)
	require.NoError(t, err)
	b, statsB, err := Generate(settings, 0.4, size)
	require.NoError(t, err)

	assert.Equal(t, a.Cells(), b.Cells())
	assert.Equal(t, statsA.SeaLevel, statsB.SeaLevel)
	assert.Equal(t, statsA.Iterations, statsB.Iterations)
}

func TestGenerate_DensityWithinTolerance(t *testing.T) {
	size := grid.Size{W: 64, H: 64}
	for _, alg := range []Algorithm{AlgorithmPerlin, AlgorithmSimplex} {
		for _, target := range []float64{0.1, 0.3, 0.5, 0.7, 0.9} {
			settings := testSettings(7)
			settings.Algorithm = alg
			surface, stats, err := Generate(settings, target, size)
			if err != nil {
				assert.True(t, errors.Is(err, ErrDensitySearchFailed), "%s target %.1f: %v", alg, target, err)
				continue
			}
			got := landFraction(surface)
			assert.InDelta(t, target, got, DensityTolerance, "%s target %.1f", alg, target)
			assert.Equal(t, stats.Density, got)
			assert.LessOrEqual(t, stats.Iterations, MaxIterations)
		}
	}
}

func TestGenerate_EdgeSuppressionDrownsCorners(t *testing.T) {
	size := grid.Size{W: 64, H: 64}
	corners := []grid.Coord{{X: 0, Y: 0}, {X: 63, Y: 0}, {X: 0, Y: 63}, {X: 63, Y: 63}}

	countWater := func(suppress bool) int {
		water := 0
		for seed := int64(1); seed <= 8; seed++ {
			settings := testSettings(seed)
			settings.EdgeSuppression = EdgeSuppression{Enabled: suppress, Strength: Vec2{X: 4, Y: 4}}
			surface, _, err := Generate(settings, 0.4, size)
			require.NoError(t, err)
			for _, c := range corners {
				if surface.At(c) == terrain.Water {
					water++
				}
			}
		}
		return water
	}

	on, off := countWater(true), countWater(false)
	assert.GreaterOrEqual(t, on, off)
	assert.Equal(t, 8*len(corners), on)
}

func TestGenerate_Preconditions(t *testing.T) {
	settings := testSettings(1)
	assert.Panics(t, func() { Generate(settings, 0.5, grid.Size{W: 8, H: 7}) })
	assert.Panics(t, func() { Generate(settings, 0.5, grid.Size{W: 8, H: 0}) })
	assert.Panics(t, func() { Generate(settings, 1.0, grid.Size{W: 8, H: 8}) })

	bad := settings
	bad.LandForm.Scale = 0
	assert.Panics(t, func() { Generate(bad, 0.5, grid.Size{W: 8, H: 8}) })

	bad = settings
	bad.LandForm.Octaves = 0
	assert.Panics(t, func() { Generate(bad, 0.5, grid.Size{W: 8, H: 8}) })

	bad = settings
	bad.Algorithm = "value"
	assert.Panics(t, func() { Generate(bad, 0.5, grid.Size{W: 8, H: 8}) })
}

func TestSampleField_Flip(t *testing.T) {
	settings := testSettings(3)
	size := grid.Size{W: 10, H: 6}
	noise, err := NewNoise(settings.Algorithm, settings.LandForm.Octaves, settings.Seed.Base)
	require.NoError(t, err)

	settings.Seed.Flip = false
	plain := SampleField(noise, settings, size)
	settings.Seed.Flip = true
	flipped := SampleField(noise, settings, size)

	for i, v := range plain.Cells() {
		assert.Equal(t, -v, flipped.Cells()[i])
	}
}

func TestEdgeScale(t *testing.T) {
	assert.Equal(t, Vec2{X: 1, Y: 1}, EdgeScale(grid.Size{W: 40, H: 40}))
	s := EdgeScale(grid.Size{W: 112, H: 140})
	assert.InDelta(t, math.Pow(0.5, 0.125), s.X, 1e-12)
	assert.InDelta(t, math.Pow(0.5, 0.125), s.Y, 1e-12)
}

func TestEdgePenalty(t *testing.T) {
	size := grid.Size{W: 40, H: 40}
	strength := Vec2{X: 2, Y: 3}
	assert.Equal(t, 0.0, EdgePenalty(grid.Coord{X: 20, Y: 20}, size, strength))
	// Left edge of the centre row: distance 1 on x only.
	assert.InDelta(t, 2.0, EdgePenalty(grid.Coord{X: 0, Y: 20}, size, strength), 1e-12)
	assert.InDelta(t, math.Hypot(2, 3), EdgePenalty(grid.Coord{X: 0, Y: 0}, size, strength), 1e-12)
	assert.Less(t,
		EdgePenalty(grid.Coord{X: 10, Y: 20}, size, strength),
		EdgePenalty(grid.Coord{X: 5, Y: 20}, size, strength))
}

func rampField(n int) *grid.Grid[float64] {
	field := grid.New[float64](grid.Size{W: n, H: 1})
	for i := range field.Cells() {
		field.Cells()[i] = float64(i)
	}
	return field
}

func TestSearchSeaLevel_Ramp(t *testing.T) {
	field := rampField(10)
	stats, err := SearchSeaLevel(field, 0.3)
	require.NoError(t, err)
	assert.Equal(t, 0.3, stats.Density)
	// Exactly the three highest values lie strictly above the sea level.
	assert.GreaterOrEqual(t, stats.SeaLevel, 6.0)
	assert.Less(t, stats.SeaLevel, 7.0)

	surface := Classify(field, stats.SeaLevel)
	assert.Equal(t, terrain.Water, surface.At(grid.Coord{X: 6, Y: 0}))
	assert.Equal(t, terrain.Land, surface.At(grid.Coord{X: 7, Y: 0}))
}

func TestSearchSeaLevel_Unreachable(t *testing.T) {
	// Four tiles can only produce densities in steps of 0.25.
	stats, err := SearchSeaLevel(rampField(4), 0.3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDensitySearchFailed))
	assert.Equal(t, MaxIterations, stats.Iterations)
}

func TestSearchSeaLevel_StrictComparison(t *testing.T) {
	field := grid.NewFilled(grid.Size{W: 4, H: 1}, 1.0)
	field.Cells()[0] = 0
	assert.Equal(t, 0.75, LandDensity(field, 0))
	assert.Equal(t, 0.0, LandDensity(field, 1))
}

func TestClassifyDensity(t *testing.T) {
	assert.Equal(t, searchGood, classifyDensity(0.5004, 0.5))
	assert.Equal(t, searchTooLow, classifyDensity(0.6, 0.5))
	assert.Equal(t, searchTooHigh, classifyDensity(0.4, 0.5))
}
