package physics

import (
	"math"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TFMV/springy/models"
	"github.com/TFMV/springy/vector"
)

const testStep = DefaultTimeStep

// placedGraph builds a graph whose nodes sit at the given positions
func placedGraph(t *testing.T, positions ...vector.Vector) (*models.Graph, []*models.Node) {
	t.Helper()
	g := models.NewGraph("test", models.WithSeed(1))
	nodes := make([]*models.Node, len(positions))
	for i, pos := range positions {
		nodes[i] = &models.Node{ID: int64(i), Position: pos, Mass: 1}
		require.NoError(t, g.AddNode(nodes[i]))
	}
	return g, nodes
}

func ringGraph(t *testing.T, n int, seed int64) *models.Graph {
	t.Helper()
	g := models.NewGraph("ring", models.WithSeed(seed))
	nodes := make([]*models.Node, n)
	for i := range nodes {
		nodes[i] = g.NewNode()
	}
	for i := range nodes {
		_, err := g.NewEdge(nodes[i], nodes[(i+1)%n])
		require.NoError(t, err)
	}
	return g
}

func positions(t *testing.T, l *Layout) []vector.Vector {
	t.Helper()
	var out []vector.Vector
	for _, node := range l.Graph().Nodes() {
		p, err := l.NodePoint(node)
		require.NoError(t, err)
		out = append(out, p.Position)
	}
	return out
}

func TestStepIsDeterministic(t *testing.T) {
	a := NewLayout(ringGraph(t, 8, 99))
	b := NewLayout(ringGraph(t, 8, 99))

	for i := 0; i < 50; i++ {
		assert.Equal(t, a.Step(testStep), b.Step(testStep))
	}
	assert.Equal(t, positions(t, a), positions(t, b))
}

func TestFixedNodesDoNotMove(t *testing.T) {
	g := ringGraph(t, 5, 3)
	anchor := g.Nodes()[2]
	anchor.Fixed = true
	start := anchor.Position

	l := NewLayout(g)
	for i := 0; i < 100; i++ {
		l.Step(testStep)
	}

	p, err := l.NodePoint(anchor)
	require.NoError(t, err)
	assert.Equal(t, start, p.Position)
	assert.Equal(t, vector.Zero, p.Velocity)
}

func TestZeroDisplacementAtEquilibrium(t *testing.T) {
	g, n := placedGraph(t, vector.New(0, 0, 0), vector.New(1, 0, 0))
	_, err := g.NewEdge(n[0], n[1])
	require.NoError(t, err)

	l := NewLayout(g, WithRepulsion(0))

	assert.InDelta(t, 0.0, l.Step(testStep), 1e-12)
}

func TestRepulsionSeparatesCoincidentNodes(t *testing.T) {
	g, n := placedGraph(t, vector.New(1, 1, 1), vector.New(1, 1, 1))
	l := NewLayout(g)

	l.Step(testStep)

	p0, err := l.NodePoint(n[0])
	require.NoError(t, err)
	p1, err := l.NodePoint(n[1])
	require.NoError(t, err)
	distance := p0.Position.Distance(p1.Position)
	assert.Greater(t, distance, 0.0)
	assert.False(t, math.IsNaN(distance))
}

func TestRepulsionPushesApart(t *testing.T) {
	g, n := placedGraph(t, vector.New(-0.5, 0, 0), vector.New(0.5, 0, 0))
	l := NewLayout(g, WithCenterAttract(0))

	l.Step(testStep)

	p0, _ := l.NodePoint(n[0])
	p1, _ := l.NodePoint(n[1])
	assert.Greater(t, p0.Position.Distance(p1.Position), 1.0)
	assert.InDelta(t, 0.0, p0.Position.X+p1.Position.X, 1e-9, "equal and opposite")
}

func TestSpringPullsTowardRestLength(t *testing.T) {
	g, n := placedGraph(t, vector.New(-2, 0, 0), vector.New(2, 0, 0))
	_, err := g.NewEdge(n[0], n[1])
	require.NoError(t, err)
	l := NewLayout(g, WithRepulsion(0))

	l.Step(testStep)

	p0, _ := l.NodePoint(n[0])
	p1, _ := l.NodePoint(n[1])
	assert.Less(t, p0.Position.Distance(p1.Position), 4.0)
}

func TestParallelEdgesShareOneSpring(t *testing.T) {
	g, n := placedGraph(t, vector.New(0, 0, 0), vector.New(3, 0, 0))
	first, _ := g.NewEdge(n[0], n[1])
	second, _ := g.NewEdge(n[0], n[1])
	reverse, _ := g.NewEdge(n[1], n[0])

	l := NewLayout(g)

	s1, err := l.EdgeSpring(first)
	require.NoError(t, err)
	assert.Equal(t, l.Stiffness(), s1.K)
	assert.Equal(t, 1.0, s1.Length)

	for _, dup := range []*models.Edge{second, reverse} {
		s, err := l.EdgeSpring(dup)
		require.NoError(t, err)
		assert.Zero(t, s.K)
		assert.Zero(t, s.Length)
		assert.Equal(t, s1.Source, s.Source)
		assert.Equal(t, s1.Target, s.Target)

		_, err = l.Spring(dup.ID)
		assert.True(t, errors.Is(err, models.ErrMissingCacheEntry), "placeholders are not cached")
	}
}

func TestParallelEdgesDoNotDoubleForce(t *testing.T) {
	single, sn := placedGraph(t, vector.New(0, 0, 0), vector.New(3, 1, 0))
	_, _ = single.NewEdge(sn[0], sn[1])

	multi, mn := placedGraph(t, vector.New(0, 0, 0), vector.New(3, 1, 0))
	_, _ = multi.NewEdge(mn[0], mn[1])
	_, _ = multi.NewEdge(mn[0], mn[1])
	_, _ = multi.NewEdge(mn[1], mn[0])

	a := NewLayout(single)
	b := NewLayout(multi)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Step(testStep), b.Step(testStep))
	}
	assert.Equal(t, positions(t, a), positions(t, b))
}

func TestSetStiffnessRewritesCachedSprings(t *testing.T) {
	g, n := placedGraph(t, vector.New(0, 0, 0), vector.New(1, 0, 0))
	first, _ := g.NewEdge(n[0], n[1])
	second, _ := g.NewEdge(n[1], n[0])
	l := NewLayout(g)

	s1, _ := l.EdgeSpring(first)
	l.SetStiffness(12)

	assert.Equal(t, 12.0, s1.K)
	s2, _ := l.EdgeSpring(second)
	assert.Zero(t, s2.K)
}

func TestNodePointSeedsFromNodeOnce(t *testing.T) {
	g, n := placedGraph(t, vector.New(1, 2, 3))
	n[0].Mass = 4
	n[0].Fixed = true
	l := NewLayout(g)

	p, err := l.NodePoint(n[0])
	require.NoError(t, err)
	assert.Equal(t, vector.New(1, 2, 3), p.Position)
	assert.Equal(t, 4.0, p.Mass)
	assert.True(t, p.Fixed)

	n[0].Position = vector.New(9, 9, 9)
	again, _ := l.NodePoint(n[0])
	assert.Same(t, p, again)
	assert.Equal(t, vector.New(1, 2, 3), again.Position)
}

func TestUnknownNodeAndEdge(t *testing.T) {
	g, n := placedGraph(t, vector.Zero, vector.Zero)
	other, on := placedGraph(t, vector.Zero, vector.Zero)
	foreignEdge, _ := other.NewEdge(on[0], on[1])
	l := NewLayout(g)

	_, err := l.NodePoint(on[0])
	assert.True(t, errors.Is(err, models.ErrUnknownNode))
	_, err = l.NodePoint(nil)
	assert.True(t, errors.Is(err, models.ErrUnknownNode))

	_, err = l.EdgeSpring(foreignEdge)
	assert.True(t, errors.Is(err, models.ErrUnknownEdge))

	_, err = l.Point(n[0].ID)
	assert.True(t, errors.Is(err, models.ErrMissingCacheEntry))
	_, err = l.Spring(0)
	assert.True(t, errors.Is(err, models.ErrMissingCacheEntry))
}

func TestRemovalPrunesCaches(t *testing.T) {
	g, n := placedGraph(t, vector.New(0, 0, 0), vector.New(2, 0, 0), vector.New(0, 2, 0))
	ab, _ := g.NewEdge(n[0], n[1])
	ab2, _ := g.NewEdge(n[0], n[1])
	bc, _ := g.NewEdge(n[1], n[2])
	l := NewLayout(g)
	l.Step(testStep)

	g.RemoveEdge(ab)
	_, err := l.Spring(ab.ID)
	assert.True(t, errors.Is(err, models.ErrMissingCacheEntry))

	promoted, err := l.EdgeSpring(ab2)
	require.NoError(t, err)
	assert.Equal(t, l.Stiffness(), promoted.K, "surviving parallel edge gets a real spring")

	g.RemoveNode(n[2])
	_, err = l.Point(n[2].ID)
	assert.True(t, errors.Is(err, models.ErrMissingCacheEntry))
	_, err = l.Spring(bc.ID)
	assert.True(t, errors.Is(err, models.ErrMissingCacheEntry))

	assert.NotPanics(t, func() { l.Step(testStep) })
}

func TestCalcRange(t *testing.T) {
	g, _ := placedGraph(t, vector.New(1, 0, 0), vector.New(-1, 0, 0), vector.New(0, 2, 0))
	l := NewLayout(g)

	inf := math.Inf(1)
	lo := vector.New(inf, inf, inf)
	hi := vector.New(-inf, -inf, -inf)
	l.CalcRange(&lo, &hi)

	assert.Equal(t, vector.New(-1, 0, 0), lo)
	assert.Equal(t, vector.New(1, 2, 0), hi)

	// a pre-seeded box only grows
	lo, hi = vector.New(-5, -5, -5), vector.New(0, 0, 0)
	l.CalcRange(&lo, &hi)
	assert.Equal(t, vector.New(-5, -5, -5), lo)
	assert.Equal(t, vector.New(1, 2, 0), hi)

	b := l.Bounds()
	require.True(t, b.IsValid())
	assert.Equal(t, vector.New(-1, 0, 0), b.Min())
	assert.Equal(t, vector.New(1, 2, 0), b.Max())
	assert.Equal(t, vector.New(0, 1, 0), b.Center())
}

func TestBoundsOfEmptyGraph(t *testing.T) {
	l := NewLayout(models.NewGraph("empty"))
	assert.False(t, l.Bounds().IsValid())
}

func TestNearest(t *testing.T) {
	g, n := placedGraph(t, vector.New(1, 0, 0), vector.New(-1, 0, 0), vector.New(0, 2, 0))
	l := NewLayout(g)

	node, point, ok := l.Nearest(vector.New(0.1, 1.6, 0))
	require.True(t, ok)
	assert.Same(t, n[2], node)
	assert.Equal(t, vector.New(0, 2, 0), point.Position)

	_, _, ok = NewLayout(models.NewGraph("empty")).Nearest(vector.Zero)
	assert.False(t, ok)
}

func TestResetNodesMovesCachedPoints(t *testing.T) {
	g := ringGraph(t, 4, 11)
	l := NewLayout(g)
	l.Step(testStep)

	l.ResetNodes()

	for _, node := range g.Nodes() {
		p, err := l.NodePoint(node)
		require.NoError(t, err)
		assert.Equal(t, node.Position, p.Position)
	}
}

func TestTotalEnergy(t *testing.T) {
	g, n := placedGraph(t, vector.Zero, vector.New(5, 0, 0))
	n[0].Mass = 2
	l := NewLayout(g)

	assert.Zero(t, l.TotalEnergy())

	p, _ := l.NodePoint(n[0])
	p.Velocity = vector.New(3, 4, 0)
	assert.InDelta(t, 25.0, l.TotalEnergy(), 1e-12)
}

func TestLayoutSettles(t *testing.T) {
	l := NewLayout(ringGraph(t, 6, 5))

	first := l.Step(testStep)
	last := first
	for i := 0; i < 1000; i++ {
		last = l.Step(testStep)
	}
	assert.Less(t, last, first)
}

func TestOptions(t *testing.T) {
	l := NewLayout(models.NewGraph("opts"),
		WithStiffness(1), WithRepulsion(2), WithDamping(0.3), WithCenterAttract(4))

	assert.Equal(t, 1.0, l.Stiffness())
	assert.Equal(t, 2.0, l.Repulsion())
	assert.Equal(t, 0.3, l.Damping())
	assert.Equal(t, 4.0, l.CenterAttract())

	l.SetRepulsion(5)
	l.SetDamping(0.6)
	l.SetCenterAttract(7)
	assert.Equal(t, 5.0, l.Repulsion())
	assert.Equal(t, 0.6, l.Damping())
	assert.Equal(t, 7.0, l.CenterAttract())
}

// strayBuilder hands out springs whose handles point at a node that does not exist
type strayBuilder struct{ DefaultBuilder }

func (strayBuilder) MakeSpring(edge *models.Edge, stiffness float64) *Spring {
	return &Spring{Source: 42, Target: 43, Length: edge.Length, K: stiffness}
}

func TestSpringHandlesFollowEdgeEndpoints(t *testing.T) {
	g, n := placedGraph(t, vector.New(0, 0, 0), vector.New(3, 0, 0))
	edge, err := g.NewEdge(n[0], n[1])
	require.NoError(t, err)
	l := NewLayout(g, WithBuilder(strayBuilder{}))

	spring, err := l.EdgeSpring(edge)
	require.NoError(t, err)
	assert.Equal(t, n[0].ID, spring.Source)
	assert.Equal(t, n[1].ID, spring.Target)
	assert.NotPanics(t, func() { l.Step(testStep) })
}

func TestNegativeStiffnessIsClamped(t *testing.T) {
	g, n := placedGraph(t, vector.New(0, 0, 0), vector.New(3, 0, 0))
	edge, _ := g.NewEdge(n[0], n[1])

	l := NewLayout(g, WithStiffness(-10))
	assert.Zero(t, l.Stiffness())
	spring, err := l.EdgeSpring(edge)
	require.NoError(t, err)
	assert.True(t, spring.Inert())

	l.SetStiffness(8)
	assert.Equal(t, 8.0, spring.K)
	l.SetStiffness(math.NaN())
	assert.Zero(t, l.Stiffness())
	assert.Zero(t, spring.K)
}
