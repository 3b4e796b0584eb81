package models

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/TFMV/springy/vector"
)

// Option configures a Graph
type Option func(*Graph)

// WithFactory replaces the node and edge factory
func WithFactory(f Factory) Option {
	return func(g *Graph) {
		if f != nil {
			g.factory = f
		}
	}
}

// WithSeeder sets the random source used for node placement
func WithSeeder(s vector.Seeder) Option {
	return func(g *Graph) {
		if s != nil {
			g.seeder = s
		}
	}
}

// WithSeed makes node placement reproducible
func WithSeed(seed int64) Option {
	return WithSeeder(vector.NewXorShift(seed))
}

// NewGraph creates an empty graph with a unique ID and timestamps
func NewGraph(name string, opts ...Option) *Graph {
	now := time.Now()
	g := &Graph{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
		nodeIndex: make(map[int64]*Node),
		edgeIndex: make(map[int64]*Edge),
		adjacency: make(map[int64]map[int64][]*Edge),
		factory:   DefaultFactory{},
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.seeder == nil {
		g.seeder = vector.NewXorShift(now.UnixNano())
	}
	return g
}

// Subscribe registers l for removal notifications
func (g *Graph) Subscribe(l Listener) {
	g.listeners = append(g.listeners, l)
}

// NewNode allocates a node with a fresh id and a random position and adds it to the graph
func (g *Graph) NewNode() *Node {
	id := g.nextNodeID
	node := g.factory.MakeNode(id, vector.Random(g.seeder))
	node.ID = id
	g.nextNodeID++
	g.insertNode(node)
	return node
}

// AddNode inserts an externally constructed node. A zero mass is replaced by 1.
func (g *Graph) AddNode(node *Node) error {
	if node == nil {
		return errors.Wrap(ErrUnknownNode, "cannot add nil node")
	}
	if _, exists := g.nodeIndex[node.ID]; exists {
		return errors.Wrapf(ErrDuplicateNodeID, "node %d", node.ID)
	}
	if node.Mass <= 0 {
		node.Mass = 1.0
	}
	if node.ID >= g.nextNodeID {
		g.nextNodeID = node.ID + 1
	}
	g.insertNode(node)
	return nil
}

func (g *Graph) insertNode(node *Node) {
	g.nodes = append(g.nodes, node)
	g.nodeIndex[node.ID] = node
	g.UpdatedAt = time.Now()
}

// NewEdge allocates an edge from source to target. Both endpoints must already belong
// to the graph.
func (g *Graph) NewEdge(source, target *Node) (*Edge, error) {
	if err := g.checkEndpoints(source, target); err != nil {
		return nil, err
	}
	id := g.nextEdgeID
	edge := g.factory.MakeEdge(id, source, target)
	edge.ID, edge.Source, edge.Target = id, source, target
	if err := checkLength(edge); err != nil {
		return nil, err
	}
	g.nextEdgeID++
	g.insertEdge(edge)
	return edge, nil
}

// AddEdge inserts an externally constructed edge. Its rest length must not be negative.
func (g *Graph) AddEdge(edge *Edge) error {
	if edge == nil {
		return errors.Wrap(ErrUnknownEdge, "cannot add nil edge")
	}
	if _, exists := g.edgeIndex[edge.ID]; exists {
		return errors.Wrapf(ErrDuplicateEdgeID, "edge %d", edge.ID)
	}
	if err := g.checkEndpoints(edge.Source, edge.Target); err != nil {
		return errors.Wrapf(err, "edge %d", edge.ID)
	}
	if err := checkLength(edge); err != nil {
		return err
	}
	if edge.ID >= g.nextEdgeID {
		g.nextEdgeID = edge.ID + 1
	}
	g.insertEdge(edge)
	return nil
}

func (g *Graph) checkEndpoints(source, target *Node) error {
	if !g.HasNode(source) {
		return errors.Wrapf(ErrUnknownEndpoint, "source %s", describe(source))
	}
	if !g.HasNode(target) {
		return errors.Wrapf(ErrUnknownEndpoint, "target %s", describe(target))
	}
	return nil
}

func checkLength(edge *Edge) error {
	if edge.Length < 0 || math.IsNaN(edge.Length) {
		return errors.Wrapf(ErrInvalidLength, "edge %d has length %g", edge.ID, edge.Length)
	}
	return nil
}

func describe(node *Node) string {
	if node == nil {
		return "<nil>"
	}
	return fmt.Sprintf("node %d", node.ID)
}

func (g *Graph) insertEdge(edge *Edge) {
	g.edges = append(g.edges, edge)
	g.edgeIndex[edge.ID] = edge

	row, ok := g.adjacency[edge.Source.ID]
	if !ok {
		row = make(map[int64][]*Edge)
		g.adjacency[edge.Source.ID] = row
	}
	bucket := row[edge.Target.ID]
	if !slices.ContainsFunc(bucket, func(e *Edge) bool { return e.ID == edge.ID }) {
		row[edge.Target.ID] = append(bucket, edge)
	}
	g.UpdatedAt = time.Now()
}

// RemoveNode removes a node and every edge touching it. Removing a node the graph does
// not own is a no-op.
func (g *Graph) RemoveNode(node *Node) {
	if !g.HasNode(node) {
		return
	}
	g.nodes = slices.DeleteFunc(g.nodes, func(n *Node) bool { return n == node })
	delete(g.nodeIndex, node.ID)
	g.detachNode(node)
	g.UpdatedAt = time.Now()

	for _, l := range g.listeners {
		l.NodeRemoved(node)
	}
}

// detachNode removes every edge where node is the source or the target
func (g *Graph) detachNode(node *Node) {
	incident := g.FilterEdges(func(e *Edge) bool {
		return e.Source.ID == node.ID || e.Target.ID == node.ID
	})
	for _, edge := range incident {
		g.RemoveEdge(edge)
	}
}

// RemoveEdge removes an edge from the edge list and the adjacency index. Emptied
// adjacency buckets are deleted.
func (g *Graph) RemoveEdge(edge *Edge) {
	if !g.HasEdge(edge) {
		return
	}
	g.edges = slices.DeleteFunc(g.edges, func(e *Edge) bool { return e == edge })
	delete(g.edgeIndex, edge.ID)

	if row, ok := g.adjacency[edge.Source.ID]; ok {
		bucket := slices.DeleteFunc(row[edge.Target.ID], func(e *Edge) bool { return e.ID == edge.ID })
		if len(bucket) == 0 {
			delete(row, edge.Target.ID)
		} else {
			row[edge.Target.ID] = bucket
		}
		if len(row) == 0 {
			delete(g.adjacency, edge.Source.ID)
		}
	}
	g.UpdatedAt = time.Now()

	for _, l := range g.listeners {
		l.EdgeRemoved(edge)
	}
}

// ResetNodes gives every node a fresh random position
func (g *Graph) ResetNodes() {
	for _, node := range g.nodes {
		node.Position = vector.Random(g.seeder)
	}
	g.UpdatedAt = time.Now()
}
