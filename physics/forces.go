package physics

import (
	"github.com/TFMV/springy/vector"
)

// coulombEpsilon keeps the repulsion finite for points that sit on top of each other
const coulombEpsilon = 0.1

// separationAxis is the direction coincident points are pushed apart along
var separationAxis = vector.New(1, 0, 0)

// Step advances the simulation by dt and returns the total displacement of all points,
// measured as the sum of absolute per-axis moves. Callers stop stepping once the
// returned value falls below a threshold of their choosing.
//
// Forces are accumulated first (repulsion, springs, center pull), then velocities and
// finally positions are integrated.
func (l *Layout) Step(dt float64) float64 {
	nodes := l.graph.Nodes()
	points := make([]*Point, len(nodes))
	for i, node := range nodes {
		points[i] = l.nodePoint(node)
	}

	l.applyCoulombsLaw(points)
	l.applyHookesLaw()
	l.attractToCenter(points)
	l.updateVelocity(points, dt)
	return l.updatePosition(points, dt)
}

// applyCoulombsLaw pushes every pair of points apart with a force falling off with the
// square of their distance.
func (l *Layout) applyCoulombsLaw(points []*Point) {
	if l.repulsion == 0 {
		return
	}
	for i, p1 := range points {
		for _, p2 := range points[i+1:] {
			d := p1.Position.Sub(p2.Position)
			distance := d.Magnitude() + coulombEpsilon
			direction := d.Normalize()
			if direction.IsZero() {
				direction = separationAxis
			}

			force := direction.Scale(l.repulsion)
			p1.ApplyForce(force.Divide(distance * distance * 0.5))
			p2.ApplyForce(force.Divide(distance * distance * -0.5))
		}
	}
}

// applyHookesLaw pulls or pushes the endpoints of every spring toward its rest length
func (l *Layout) applyHookesLaw() {
	for _, edge := range l.graph.Edges() {
		spring := l.edgeSpring(edge)
		if spring.Inert() {
			continue
		}
		p1 := l.points[spring.Source]
		p2 := l.points[spring.Target]

		d := p2.Position.Sub(p1.Position)
		displacement := spring.Length - d.Magnitude()
		direction := d.Normalize()

		p1.ApplyForce(direction.Scale(spring.K * displacement * -0.5))
		p2.ApplyForce(direction.Scale(spring.K * displacement * 0.5))
	}
}

func (l *Layout) attractToCenter(points []*Point) {
	if l.centerAttract == 0 {
		return
	}
	strength := l.repulsion / l.centerAttract
	for _, point := range points {
		point.ApplyForce(point.Position.Scale(-strength))
	}
}

// updateVelocity integrates acceleration into velocity and clears the accumulator.
// Fixed points are held at rest.
func (l *Layout) updateVelocity(points []*Point, dt float64) {
	for _, point := range points {
		if point.Fixed {
			point.Velocity = vector.Zero
		} else {
			point.Velocity = point.Velocity.Add(point.Acceleration.Scale(dt)).Scale(l.damping)
		}
		point.Acceleration = vector.Zero
	}
}

func (l *Layout) updatePosition(points []*Point, dt float64) float64 {
	delta := 0.0
	for _, point := range points {
		if point.Fixed {
			continue
		}
		move := point.Velocity.Scale(dt)
		point.Position = point.Position.Add(move)
		delta += move.Abs1()
	}
	return delta
}
