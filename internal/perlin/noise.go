package perlin

import (
	"fmt"
	"math"

	goperlin "github.com/aquilax/go-perlin"
	opensimplex "github.com/ojrac/opensimplex-go"
)

// Algorithm selects the coherent-noise backend.
type Algorithm string

const (
	AlgorithmPerlin  Algorithm = "perlin"
	AlgorithmSimplex Algorithm = "simplex"
)

// Period after which sample coordinates wrap. Far larger than any map.
const noRepeatPeriod = 100_000_000.0

// Octave persistence and lacunarity for both backends.
const (
	persistence = 0.5
	lacunarity  = 2.0
)

// Noise2D is a smooth scalar field over the plane.
type Noise2D interface {
	Eval2(x, y float64) float64
}

type perlinNoise struct {
	p *goperlin.Perlin
}

// go-perlin divides octave i by alpha^i, so alpha is the inverse persistence.
func newPerlinNoise(octaves int, base uint32) perlinNoise {
	return perlinNoise{p: goperlin.NewPerlin(1/persistence, lacunarity, int32(octaves), int64(base))}
}

func (n perlinNoise) Eval2(x, y float64) float64 {
	return n.p.Noise2D(x, y)
}

type simplexNoise struct {
	os      opensimplex.Noise
	octaves int
}

func newSimplexNoise(octaves int, base uint32) simplexNoise {
	return simplexNoise{os: opensimplex.New(int64(base)), octaves: octaves}
}

// Eval2 layers octaves the same way go-perlin does: frequency doubles and
// amplitude halves each octave, with no renormalization.
func (n simplexNoise) Eval2(x, y float64) float64 {
	total := 0.0
	amplitude := 1.0
	frequency := 1.0
	for i := 0; i < n.octaves; i++ {
		total += n.os.Eval2(x*frequency, y*frequency) * amplitude
		amplitude *= persistence
		frequency *= lacunarity
	}
	return total
}

// NewNoise builds the backend named by alg for the given octave count and base seed.
func NewNoise(alg Algorithm, octaves int, base uint32) (Noise2D, error) {
	switch alg {
	case "", AlgorithmPerlin:
		return newPerlinNoise(octaves, base), nil
	case AlgorithmSimplex:
		return newSimplexNoise(octaves, base), nil
	default:
		return nil, fmt.Errorf("unknown noise algorithm %q", alg)
	}
}

func wrap(v float64) float64 {
	return math.Mod(v, noRepeatPeriod)
}
