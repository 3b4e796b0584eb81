// Package vector provides the 3D value type used for positions, velocities and forces,
// together with the random sources that seed initial node placement.
package vector

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// SpaceSize is the edge length of the cube random positions are drawn from.
const SpaceSize = 10.0

// Vector is a 3D vector with value semantics.
type Vector r3.Vec

// Zero is the zero vector.
var Zero = Vector{}

// New returns the vector (x, y, z).
func New(x, y, z float64) Vector {
	return Vector{X: x, Y: y, Z: z}
}

// Random draws each component uniformly from [-SpaceSize/2, SpaceSize/2].
func Random(src Seeder) Vector {
	return Vector{
		X: SpaceSize * (src.Float64() - 0.5),
		Y: SpaceSize * (src.Float64() - 0.5),
		Z: SpaceSize * (src.Float64() - 0.5),
	}
}

// Add returns v + o.
func (v Vector) Add(o Vector) Vector {
	return Vector(r3.Add(r3.Vec(v), r3.Vec(o)))
}

// Sub returns v - o.
func (v Vector) Sub(o Vector) Vector {
	return Vector(r3.Sub(r3.Vec(v), r3.Vec(o)))
}

// Scale returns v * f.
func (v Vector) Scale(f float64) Vector {
	return Vector(r3.Scale(f, r3.Vec(v)))
}

// Divide returns v / f. Dividing by zero yields the zero vector.
func (v Vector) Divide(f float64) Vector {
	if f == 0 {
		return Zero
	}
	return v.Scale(1 / f)
}

// Magnitude returns the Euclidean norm of v.
func (v Vector) Magnitude() float64 {
	return r3.Norm(r3.Vec(v))
}

// Normalize returns the unit vector in the direction of v, or the zero vector when v
// has no length.
func (v Vector) Normalize() Vector {
	return v.Divide(v.Magnitude())
}

// Abs1 returns |x| + |y| + |z|.
func (v Vector) Abs1() float64 {
	return math.Abs(v.X) + math.Abs(v.Y) + math.Abs(v.Z)
}

// IsZero reports whether every component is zero.
func (v Vector) IsZero() bool {
	return v == Zero
}

// Distance returns the Euclidean distance between v and o.
func (v Vector) Distance(o Vector) float64 {
	return v.Sub(o).Magnitude()
}
