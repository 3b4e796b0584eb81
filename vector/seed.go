package vector

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// Seeder is a source of uniform samples in [0, 1]. Graphs draw initial node positions
// from one, so a seeded source makes a whole layout run reproducible.
type Seeder interface {
	Float64() float64
}

const defaultXorShiftState uint32 = 1234567890

// XorShift is a small xorshift32 generator.
type XorShift struct {
	state uint32
}

// NewXorShift returns a generator for seed. A zero seed is replaced by a fixed non-zero
// state since xorshift never leaves zero.
func NewXorShift(seed int64) *XorShift {
	state := uint32(seed) ^ uint32(seed>>32)
	if state == 0 {
		state = defaultXorShiftState
	}
	return &XorShift{state: state}
}

// Float64 returns the next sample in [0, 1].
func (x *XorShift) Float64() float64 {
	x.state ^= x.state << 13
	x.state ^= x.state >> 17
	x.state ^= x.state << 5
	return float64(x.state) / float64(math.MaxUint32)
}

// noiseStride spaces successive samples far enough apart along the noise field that
// neighbouring values are effectively uncorrelated.
const noiseStride = 7.31

// NoiseSeeder walks a 2D simplex noise field. Successive samples are smooth in the
// seed, which makes it handy for placements that should shift gradually between runs.
type NoiseSeeder struct {
	noise opensimplex.Noise
	t     float64
	row   float64
}

// NewNoiseSeeder returns a noise-backed seeder for seed.
func NewNoiseSeeder(seed int64) *NoiseSeeder {
	return &NoiseSeeder{
		noise: opensimplex.NewNormalized(seed),
		row:   float64(seed%1000) * 0.5,
	}
}

// Float64 returns the next sample in [0, 1].
func (n *NoiseSeeder) Float64() float64 {
	v := n.noise.Eval2(n.t, n.row)
	n.t += noiseStride
	return math.Max(0, math.Min(1, v))
}
