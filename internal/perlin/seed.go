package perlin

import "fmt"

// Seed fully determines a noise field.
type Seed struct {
	OffsetX uint32 `json:"offset_x"`
	OffsetY uint32 `json:"offset_y"`
	Base    uint32 `json:"base"`
	Flip    bool   `json:"flip"`
}

// Uint32Source yields uniformly distributed 32-bit values.
type Uint32Source interface {
	Uint32() uint32
}

// NewSeed consumes four 32-bit draws: offset x, offset y, base, then the
// word whose low bit becomes Flip.
func NewSeed(src Uint32Source) Seed {
	s := Seed{
		OffsetX: src.Uint32(),
		OffsetY: src.Uint32(),
		Base:    src.Uint32(),
	}
	s.Flip = src.Uint32()&1 == 1
	return s
}

func (s Seed) String() string {
	return fmt.Sprintf("%08x-%08x-%08x-%t", s.OffsetX, s.OffsetY, s.Base, s.Flip)
}
