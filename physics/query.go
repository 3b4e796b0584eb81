package physics

import (
	"math"

	"cogentcore.org/core/math32/minmax"

	"github.com/TFMV/springy/models"
	"github.com/TFMV/springy/vector"
)

// Bounds is the axis-aligned bounding box of a layout
type Bounds struct {
	X, Y, Z minmax.F64
}

// IsValid reports whether the box holds at least one point
func (b Bounds) IsValid() bool {
	return b.X.IsValid() && b.Y.IsValid() && b.Z.IsValid()
}

// Min returns the low corner
func (b Bounds) Min() vector.Vector {
	return vector.New(b.X.Min, b.Y.Min, b.Z.Min)
}

// Max returns the high corner
func (b Bounds) Max() vector.Vector {
	return vector.New(b.X.Max, b.Y.Max, b.Z.Max)
}

// Center returns the midpoint of the box
func (b Bounds) Center() vector.Vector {
	return vector.New(b.X.Midpoint(), b.Y.Midpoint(), b.Z.Midpoint())
}

// Nearest returns the node whose point is closest to position. ok is false when the
// graph has no nodes.
func (l *Layout) Nearest(position vector.Vector) (node *models.Node, point *Point, ok bool) {
	best := math.Inf(1)
	for _, n := range l.graph.Nodes() {
		p := l.nodePoint(n)
		if distance := p.Position.Distance(position); distance < best {
			best = distance
			node, point, ok = n, p, true
		}
	}
	return node, point, ok
}

// CalcRange widens lo and hi to enclose every point. It never shrinks the box, so
// seed lo with +Inf and hi with -Inf before an independent measurement.
func (l *Layout) CalcRange(lo, hi *vector.Vector) {
	for _, node := range l.graph.Nodes() {
		p := l.nodePoint(node).Position
		lo.X = math.Min(lo.X, p.X)
		lo.Y = math.Min(lo.Y, p.Y)
		lo.Z = math.Min(lo.Z, p.Z)
		hi.X = math.Max(hi.X, p.X)
		hi.Y = math.Max(hi.Y, p.Y)
		hi.Z = math.Max(hi.Z, p.Z)
	}
}

// Bounds measures the current bounding box from scratch
func (l *Layout) Bounds() Bounds {
	var b Bounds
	b.X.SetInfinity()
	b.Y.SetInfinity()
	b.Z.SetInfinity()
	for _, node := range l.graph.Nodes() {
		p := l.nodePoint(node).Position
		b.X.FitValInRange(p.X)
		b.Y.FitValInRange(p.Y)
		b.Z.FitValInRange(p.Z)
	}
	return b
}

// ResetNodes scatters the graph's nodes again and moves the cached points with them
func (l *Layout) ResetNodes() {
	l.graph.ResetNodes()
	for _, node := range l.graph.Nodes() {
		if point, ok := l.points[node.ID]; ok {
			point.Position = node.Position
		}
	}
}

// TotalEnergy returns the kinetic energy of all points, 0.5 * m * v² summed
func (l *Layout) TotalEnergy() float64 {
	energy := 0.0
	for _, node := range l.graph.Nodes() {
		point := l.nodePoint(node)
		speed := point.Speed()
		energy += 0.5 * point.Mass * speed * speed
	}
	return energy
}
