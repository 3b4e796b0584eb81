// Package models provides the graph vocabulary laid out by the physics engine: nodes,
// edges and the Graph that owns them.
package models

import (
	"time"

	"github.com/TFMV/springy/vector"
)

// Node represents a vertex in the graph
type Node struct {
	ID       int64          `json:"id"`
	Label    string         `json:"label,omitempty"`
	Position vector.Vector  `json:"position"` // starting position, copied into the layout on first use
	Mass     float64        `json:"mass"`
	Fixed    bool           `json:"fixed,omitempty"`
	Value    *float64       `json:"value,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

// Edge represents a directed edge between two nodes of the same graph
type Edge struct {
	ID     int64    `json:"id"`
	Source *Node    `json:"-"`
	Target *Node    `json:"-"`
	Length float64  `json:"length"` // rest length of the spring
	Label  string   `json:"label,omitempty"`
	Value  *float64 `json:"value,omitempty"`
}

// Graph owns a set of nodes and the edges between them.
//
// Node and edge ids come from counters that only ever move forward, so an id is never
// handed out twice even after its node or edge is removed. Caches keyed by id (such as
// the layout's point and spring caches) therefore never alias a stale entry.
type Graph struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	nodes     []*Node
	nodeIndex map[int64]*Node
	edges     []*Edge
	edgeIndex map[int64]*Edge
	// sourceID -> targetID -> edges
	adjacency map[int64]map[int64][]*Edge

	nextNodeID int64
	nextEdgeID int64

	factory   Factory
	seeder    vector.Seeder
	listeners []Listener
}

// Factory builds the nodes and edges a Graph hands out from NewNode and NewEdge.
// Install a custom one with WithFactory to attach extra defaults.
//
// The graph assigns ids and endpoints itself: whatever a factory puts in Node.ID,
// Edge.ID, Edge.Source or Edge.Target is overwritten.
type Factory interface {
	MakeNode(id int64, position vector.Vector) *Node
	MakeEdge(id int64, source, target *Node) *Edge
}

// Listener is notified when the graph drops a node or an edge. Notifications fire after
// the removal is complete.
type Listener interface {
	NodeRemoved(node *Node)
	EdgeRemoved(edge *Edge)
}

// NodeFilter is a function type used to filter nodes in queries
type NodeFilter func(node *Node) bool

// EdgeFilter is a function type used to filter edges in queries
type EdgeFilter func(edge *Edge) bool

// DefaultFactory creates nodes with unit mass and edges with unit rest length.
type DefaultFactory struct{}

// MakeNode implements Factory.
func (DefaultFactory) MakeNode(id int64, position vector.Vector) *Node {
	return &Node{ID: id, Position: position, Mass: 1.0}
}

// MakeEdge implements Factory.
func (DefaultFactory) MakeEdge(id int64, source, target *Node) *Edge {
	return &Edge{ID: id, Source: source, Target: target, Length: 1.0}
}
