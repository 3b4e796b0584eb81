package physics

import (
	"github.com/TFMV/springy/models"
	"github.com/TFMV/springy/vector"
)

// Point is the physical particle standing in for a node
type Point struct {
	Position     vector.Vector
	Velocity     vector.Vector
	Acceleration vector.Vector // force accumulator, cleared every step
	Mass         float64
	Fixed        bool // fixed points never move
}

// ApplyForce accumulates f into the point's acceleration
func (p *Point) ApplyForce(f vector.Vector) {
	p.Acceleration = p.Acceleration.Add(f.Divide(p.Mass))
}

// Speed returns the magnitude of the velocity
func (p *Point) Speed() float64 {
	return p.Velocity.Magnitude()
}

// Spring pulls two points toward a rest length. Its endpoints are node ids, which are
// the handles into the layout's point cache.
type Spring struct {
	Source int64
	Target int64
	Length float64
	K      float64 // stiffness; zero means present but inert
}

// Inert reports whether the spring exerts no force
func (s *Spring) Inert() bool {
	return s.K == 0
}

// Builder creates the physical representation of nodes and edges. Layouts call it once
// per node and once per edge; the results are cached. A spring's Source and Target are
// always reset to the edge's endpoint ids.
type Builder interface {
	MakePoint(node *models.Node) *Point
	MakeSpring(edge *models.Edge, stiffness float64) *Spring
}

// DefaultBuilder seeds points from the node's position, mass and fixed flag, and gives
// springs the edge's rest length.
type DefaultBuilder struct{}

// MakePoint implements Builder.
func (DefaultBuilder) MakePoint(node *models.Node) *Point {
	mass := node.Mass
	if mass <= 0 {
		mass = 1.0
	}
	return &Point{Position: node.Position, Mass: mass, Fixed: node.Fixed}
}

// MakeSpring implements Builder.
func (DefaultBuilder) MakeSpring(edge *models.Edge, stiffness float64) *Spring {
	return &Spring{
		Source: edge.Source.ID,
		Target: edge.Target.ID,
		Length: edge.Length,
		K:      stiffness,
	}
}
