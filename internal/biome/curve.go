package biome

import (
	"fmt"
	"math"

	"github.com/talgya/landmass/internal/terrain"
)

// CurveParams describes one latitude lobe. Center 0 places the lobe on the
// equator and center 1 on the poles; Stddev is its width in the same units.
// When used as a gradient, each field is a fractional adjustment instead.
type CurveParams struct {
	Weight float64 `json:"weight"`
	Center float64 `json:"center"`
	Stddev float64 `json:"stddev"`
	Sub    float64 `json:"sub"`
}

// Curve is a validated lobe after temperature and climate adjustments.
type Curve struct {
	Ground   terrain.Ground
	Params   CurveParams
	Exponent float64
}

// CurveError reports a curve parameter that failed validation.
type CurveError struct {
	Ground terrain.Ground
	Param  string
	Value  float64
}

func (e *CurveError) Error() string {
	return fmt.Sprintf("biome: %s curve has invalid %s %v", e.Ground, e.Param, e.Value)
}

// modifier maps an environment input in [-100,100] to [-1,1]. Higher inputs
// produce a lower modifier.
func modifier(v int) float64 {
	if v < -100 {
		v = -100
	}
	if v > 100 {
		v = 100
	}
	return -float64(v) / 100
}

func (p CurveParams) adjusted(gradient CurveParams, d float64) CurveParams {
	return CurveParams{
		Weight: p.Weight * (1 + gradient.Weight*d),
		Center: p.Center * (1 + gradient.Center*d),
		Stddev: p.Stddev * (1 + gradient.Stddev*d),
		Sub:    p.Sub * (1 + gradient.Sub*d),
	}
}

// NewCurve applies the temperature gradient and then the climate gradient to
// base, and validates the result.
func NewCurve(g terrain.Ground, base, temperatureGradient, climateGradient CurveParams, temperature, climate int, exponent float64) (Curve, error) {
	p := base.adjusted(temperatureGradient, modifier(temperature))
	p = p.adjusted(climateGradient, modifier(climate))

	c := Curve{Ground: g, Params: p, Exponent: exponent}
	if err := c.validate(); err != nil {
		return Curve{}, err
	}
	return c, nil
}

func (c Curve) validate() error {
	fields := []struct {
		name string
		v    float64
	}{
		{"weight", c.Params.Weight},
		{"center", c.Params.Center},
		{"stddev", c.Params.Stddev},
		{"sub", c.Params.Sub},
		{"exponent", c.Exponent},
	}
	for _, f := range fields {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return &CurveError{Ground: c.Ground, Param: f.name, Value: f.v}
		}
	}
	if c.Params.Weight < 0 {
		return &CurveError{Ground: c.Ground, Param: "weight", Value: c.Params.Weight}
	}
	if c.Params.Stddev <= 0 {
		return &CurveError{Ground: c.Ground, Param: "stddev", Value: c.Params.Stddev}
	}
	if c.Exponent <= 0 {
		return &CurveError{Ground: c.Ground, Param: "exponent", Value: c.Exponent}
	}
	return nil
}

func (c Curve) lobe(x float64) float64 {
	mean := c.Params.Center/2 + 0.5
	stddev := c.Params.Stddev / 2
	z := math.Abs(x-mean) / (stddev * math.Sqrt2)
	return c.Params.Weight * (math.Exp(-math.Pow(z, c.Exponent)) - c.Params.Sub)
}

// Eval returns the unclamped curve value at normalized latitude o, mirrored
// about the equator.
func (c Curve) Eval(o float64) float64 {
	return c.lobe(o) + c.lobe(1-o)
}
