// Package physics lays out a graph by simulating it: nodes are charged particles that
// repel each other, edges are springs, and a weak pull toward the origin keeps
// disconnected components from drifting apart.
//
// A Layout is not safe for concurrent use. Step, NodePoint and EdgeSpring all populate
// caches in place.
package physics

import (
	"math"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/TFMV/springy/logger"
	"github.com/TFMV/springy/models"
)

// Default tunables
const (
	DefaultStiffness     = 400.0
	DefaultRepulsion     = 400.0
	DefaultDamping       = 0.5
	DefaultCenterAttract = 50.0
	DefaultTimeStep      = 0.03
)

// Layout is a force-directed layout bound to a single graph. It owns one Point per node
// and one Spring per edge, both created on first use and keyed by id.
type Layout struct {
	graph *models.Graph

	stiffness     float64
	repulsion     float64
	damping       float64
	centerAttract float64

	points  map[int64]*Point  // node id -> point
	springs map[int64]*Spring // edge id -> spring

	builder Builder
	log     *zap.SugaredLogger
}

// Option configures a Layout
type Option func(*Layout)

// WithStiffness sets the spring constant given to new springs. Negative or NaN values
// are clamped to 0, which leaves every spring inert.
func WithStiffness(k float64) Option {
	return func(l *Layout) { l.stiffness = clampStiffness(k) }
}

// WithRepulsion sets the Coulomb repulsion strength
func WithRepulsion(r float64) Option {
	return func(l *Layout) { l.repulsion = r }
}

// WithDamping sets the per-step velocity damping, normally in (0, 1)
func WithDamping(d float64) Option {
	return func(l *Layout) { l.damping = d }
}

// WithCenterAttract sets the divisor of the pull toward the origin. Larger values mean
// a weaker pull; zero disables it.
func WithCenterAttract(c float64) Option {
	return func(l *Layout) { l.centerAttract = c }
}

// WithBuilder replaces how points and springs are created
func WithBuilder(b Builder) Option {
	return func(l *Layout) {
		if b != nil {
			l.builder = b
		}
	}
}

// WithLogger sets the logger
func WithLogger(log *zap.SugaredLogger) Option {
	return func(l *Layout) {
		if log != nil {
			l.log = log
		}
	}
}

// NewLayout binds a layout to g. The layout subscribes to g and drops cached points
// and springs when their node or edge is removed.
func NewLayout(g *models.Graph, opts ...Option) *Layout {
	l := &Layout{
		graph:         g,
		stiffness:     DefaultStiffness,
		repulsion:     DefaultRepulsion,
		damping:       DefaultDamping,
		centerAttract: DefaultCenterAttract,
		points:        make(map[int64]*Point),
		springs:       make(map[int64]*Spring),
		builder:       DefaultBuilder{},
		log:           logger.Named("layout"),
	}
	for _, opt := range opts {
		opt(l)
	}
	g.Subscribe(l)
	return l
}

// Graph returns the graph being laid out
func (l *Layout) Graph() *models.Graph {
	return l.graph
}

// Stiffness returns the spring constant
func (l *Layout) Stiffness() float64 { return l.stiffness }

// SetStiffness changes the spring constant and rewrites it on every cached spring.
// Negative or NaN values are clamped to 0.
func (l *Layout) SetStiffness(k float64) {
	k = clampStiffness(k)
	l.stiffness = k
	for _, spring := range l.springs {
		spring.K = k
	}
	l.log.Debugw("Stiffness updated", "k", k, "springs", len(l.springs))
}

// Repulsion returns the Coulomb repulsion strength
func (l *Layout) Repulsion() float64 { return l.repulsion }

// SetRepulsion changes the repulsion strength
func (l *Layout) SetRepulsion(r float64) { l.repulsion = r }

// Damping returns the velocity damping
func (l *Layout) Damping() float64 { return l.damping }

// SetDamping changes the velocity damping
func (l *Layout) SetDamping(d float64) { l.damping = d }

// CenterAttract returns the center attraction divisor
func (l *Layout) CenterAttract() float64 { return l.centerAttract }

// SetCenterAttract changes the center attraction divisor
func (l *Layout) SetCenterAttract(c float64) { l.centerAttract = c }

// NodePoint returns the point for node, creating it from the node's position, mass and
// fixed flag if this is the first request.
func (l *Layout) NodePoint(node *models.Node) (*Point, error) {
	if !l.graph.HasNode(node) {
		return nil, errors.Wrapf(models.ErrUnknownNode, "node point for node %v", nodeRef(node))
	}
	return l.nodePoint(node), nil
}

func (l *Layout) nodePoint(node *models.Node) *Point {
	if point, ok := l.points[node.ID]; ok {
		return point
	}
	point := l.builder.MakePoint(node)
	l.points[node.ID] = point
	return point
}

// EdgeSpring returns the spring for edge, creating it on first request.
//
// An edge whose node pair (in either direction) already has a cached spring gets a
// fresh, uncached spring with zero length and zero stiffness over the same points, so
// parallel edges pull only once.
func (l *Layout) EdgeSpring(edge *models.Edge) (*Spring, error) {
	if !l.graph.HasEdge(edge) {
		return nil, errors.Wrapf(models.ErrUnknownEdge, "edge spring for edge %v", edgeRef(edge))
	}
	return l.edgeSpring(edge), nil
}

func (l *Layout) edgeSpring(edge *models.Edge) *Spring {
	if spring, ok := l.springs[edge.ID]; ok {
		return spring
	}

	parallel := append(
		l.graph.EdgesBetween(edge.Source, edge.Target),
		l.graph.EdgesBetween(edge.Target, edge.Source)...,
	)
	for _, other := range parallel {
		if other.ID == edge.ID {
			continue
		}
		if existing, ok := l.springs[other.ID]; ok {
			return &Spring{Source: existing.Source, Target: existing.Target}
		}
	}

	l.nodePoint(edge.Source)
	l.nodePoint(edge.Target)
	spring := l.builder.MakeSpring(edge, l.stiffness)
	// the step loop resolves handles through the point cache
	spring.Source, spring.Target = edge.Source.ID, edge.Target.ID
	l.springs[edge.ID] = spring
	return spring
}

// Point returns the cached point for a node id without creating one
func (l *Layout) Point(nodeID int64) (*Point, error) {
	point, ok := l.points[nodeID]
	if !ok {
		return nil, errors.Wrapf(models.ErrMissingCacheEntry, "point for node %d", nodeID)
	}
	return point, nil
}

// Spring returns the cached spring for an edge id without creating one
func (l *Layout) Spring(edgeID int64) (*Spring, error) {
	spring, ok := l.springs[edgeID]
	if !ok {
		return nil, errors.Wrapf(models.ErrMissingCacheEntry, "spring for edge %d", edgeID)
	}
	return spring, nil
}

// NodeRemoved implements models.Listener.
func (l *Layout) NodeRemoved(node *models.Node) {
	if _, ok := l.points[node.ID]; ok {
		delete(l.points, node.ID)
		l.log.Debugw("Dropped point", "node", node.ID)
	}
}

// EdgeRemoved implements models.Listener.
func (l *Layout) EdgeRemoved(edge *models.Edge) {
	if _, ok := l.springs[edge.ID]; ok {
		delete(l.springs, edge.ID)
		l.log.Debugw("Dropped spring", "edge", edge.ID)
	}
}

func clampStiffness(k float64) float64 {
	if k < 0 || math.IsNaN(k) {
		return 0
	}
	return k
}

func nodeRef(node *models.Node) any {
	if node == nil {
		return "<nil>"
	}
	return node.ID
}

func edgeRef(edge *models.Edge) any {
	if edge == nil {
		return "<nil>"
	}
	return edge.ID
}
