// Package demo builds small hard-coded graphs to lay out: rings, grids, trees, cliques
// and random graphs.
package demo

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/TFMV/springy/models"
	"github.com/TFMV/springy/vector"
)

// ErrUnknownShape is returned by Build for an unsupported shape name
var ErrUnknownShape = errors.New("unknown graph shape")

// MaxTreeDepth bounds Tree, whose node count grows as fanout^depth
const MaxTreeDepth = 16

// Shapes lists the names Build accepts
var Shapes = []string{"ring", "grid", "tree", "complete", "random"}

// builder collects the first error so generators can link nodes without checking
// every call.
type builder struct {
	g   *models.Graph
	err error
}

// newBuilder seeds node placement with seed; opts are applied afterwards and may
// replace the seeder.
func newBuilder(name string, seed int64, opts []models.Option) *builder {
	opts = append([]models.Option{models.WithSeed(seed)}, opts...)
	return &builder{g: models.NewGraph(name, opts...)}
}

func (b *builder) node(label string) *models.Node {
	n := b.g.NewNode()
	n.Label = label
	return n
}

func (b *builder) link(source, target *models.Node) {
	if b.err != nil {
		return
	}
	_, b.err = b.g.NewEdge(source, target)
}

func (b *builder) done() (*models.Graph, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.g, nil
}

// Ring connects n nodes in a cycle
func Ring(n int, seed int64, opts ...models.Option) (*models.Graph, error) {
	b := newBuilder("ring", seed, opts)
	nodes := make([]*models.Node, n)
	for i := range nodes {
		nodes[i] = b.node(fmt.Sprintf("r%d", i))
	}
	if n > 1 {
		for i := range nodes {
			b.link(nodes[i], nodes[(i+1)%n])
		}
	}
	return b.done()
}

// Grid connects a w by h lattice of nodes to their right and lower neighbours
func Grid(w, h int, seed int64, opts ...models.Option) (*models.Graph, error) {
	b := newBuilder("grid", seed, opts)
	cells := make([][]*models.Node, h)
	for y := range cells {
		cells[y] = make([]*models.Node, w)
		for x := range cells[y] {
			cells[y][x] = b.node(fmt.Sprintf("g%d_%d", x, y))
		}
	}
	for y := range cells {
		for x := range cells[y] {
			if x+1 < w {
				b.link(cells[y][x], cells[y][x+1])
			}
			if y+1 < h {
				b.link(cells[y][x], cells[y+1][x])
			}
		}
	}
	return b.done()
}

// Tree builds a complete tree with the given depth and fanout. Depth 0 is a lone root.
// Depths above MaxTreeDepth are rejected.
func Tree(depth, fanout int, seed int64, opts ...models.Option) (*models.Graph, error) {
	if depth > MaxTreeDepth {
		return nil, errors.WithHintf(
			errors.Newf("tree depth %d exceeds the maximum of %d", depth, MaxTreeDepth),
			"a binary tree of depth d has 2^(d+1)-1 nodes")
	}
	b := newBuilder("tree", seed, opts)
	level := []*models.Node{b.node("t")}
	for d := 0; d < depth; d++ {
		var next []*models.Node
		for _, parent := range level {
			for c := 0; c < fanout; c++ {
				child := b.node(fmt.Sprintf("%s.%d", parent.Label, c))
				b.link(parent, child)
				next = append(next, child)
			}
		}
		level = next
	}
	return b.done()
}

// Complete connects every pair of n nodes once
func Complete(n int, seed int64, opts ...models.Option) (*models.Graph, error) {
	b := newBuilder("complete", seed, opts)
	nodes := make([]*models.Node, n)
	for i := range nodes {
		nodes[i] = b.node(fmt.Sprintf("k%d", i))
	}
	for i := range nodes {
		for j := i + 1; j < n; j++ {
			b.link(nodes[i], nodes[j])
		}
	}
	return b.done()
}

// Random adds edges between uniformly chosen node pairs. Parallel edges and self
// loops are kept, which exercises the layout's handling of both.
func Random(n, edges int, seed int64, opts ...models.Option) (*models.Graph, error) {
	b := newBuilder("random", seed, opts)
	nodes := make([]*models.Node, n)
	for i := range nodes {
		nodes[i] = b.node(fmt.Sprintf("x%d", i))
	}
	if n == 0 {
		return b.done()
	}
	pick := vector.NewXorShift(seed + 1)
	index := func() int {
		return min(int(pick.Float64()*float64(n)), n-1)
	}
	for i := 0; i < edges; i++ {
		b.link(nodes[index()], nodes[index()])
	}
	return b.done()
}

// Build returns the named shape sized by size. For ring, complete and random, size is
// the node count; grid is size by size; tree is a binary tree of depth size, so
// its node count doubles with each step and size is capped at MaxTreeDepth.
func Build(shape string, size int, seed int64, opts ...models.Option) (*models.Graph, error) {
	if size < 0 {
		return nil, errors.Newf("size must not be negative, got %d", size)
	}
	switch strings.ToLower(shape) {
	case "ring":
		return Ring(size, seed, opts...)
	case "grid":
		return Grid(size, size, seed, opts...)
	case "tree":
		return Tree(size, 2, seed, opts...)
	case "complete":
		return Complete(size, seed, opts...)
	case "random":
		return Random(size, 2*size, seed, opts...)
	default:
		return nil, errors.WithHintf(
			errors.Wrapf(ErrUnknownShape, "%q", shape),
			"supported shapes: %s", strings.Join(Shapes, ", "))
	}
}
