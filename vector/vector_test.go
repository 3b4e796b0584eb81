package vector

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArithmetic(t *testing.T) {
	a := New(1, 2, 3)
	b := New(4, -1, 0.5)

	assert.Equal(t, New(5, 1, 3.5), a.Add(b))
	assert.Equal(t, New(-3, 3, 2.5), a.Sub(b))
	assert.Equal(t, New(2, 4, 6), a.Scale(2))
	assert.Equal(t, New(0.5, 1, 1.5), a.Divide(2))
	assert.InDelta(t, 5.0, New(3, 4, 0).Magnitude(), 1e-12)
	assert.InDelta(t, 5.5, b.Abs1(), 1e-12)
	assert.InDelta(t, 5.0, New(3, 0, 0).Distance(New(0, 4, 0)), 1e-12)
}

func TestDivideByZero(t *testing.T) {
	assert.Equal(t, Zero, New(1, 2, 3).Divide(0))
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   Vector
		want Vector
	}{
		{"axis", New(0, 0, 7), New(0, 0, 1)},
		{"diagonal", New(3, 4, 0), New(0.6, 0.8, 0)},
		{"zero", Zero, Zero},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Normalize()
			assert.InDelta(t, tt.want.X, got.X, 1e-12)
			assert.InDelta(t, tt.want.Y, got.Y, 1e-12)
			assert.InDelta(t, tt.want.Z, got.Z, 1e-12)
			assert.False(t, math.IsNaN(got.X))
		})
	}
}

func TestRandomStaysInSpace(t *testing.T) {
	for _, src := range []Seeder{NewXorShift(42), NewNoiseSeeder(42)} {
		for i := 0; i < 500; i++ {
			v := Random(src)
			for _, c := range []float64{v.X, v.Y, v.Z} {
				assert.LessOrEqual(t, math.Abs(c), SpaceSize/2)
			}
		}
	}
}

func TestSeedersAreReproducible(t *testing.T) {
	a, b := NewXorShift(7), NewXorShift(7)
	n1, n2 := NewNoiseSeeder(7), NewNoiseSeeder(7)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Float64(), b.Float64())
		assert.Equal(t, n1.Float64(), n2.Float64())
	}
}

func TestXorShiftZeroSeed(t *testing.T) {
	x := NewXorShift(0)
	assert.NotZero(t, x.Float64())
}
