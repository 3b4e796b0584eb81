package models

import (
	"maps"
	"slices"
)

// Nodes returns the graph's nodes in insertion order
func (g *Graph) Nodes() []*Node {
	return slices.Clone(g.nodes)
}

// Edges returns the graph's edges in insertion order
func (g *Graph) Edges() []*Edge {
	return slices.Clone(g.edges)
}

// NodeCount returns the number of nodes
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// Node returns the node with the given id
func (g *Graph) Node(id int64) (*Node, bool) {
	node, ok := g.nodeIndex[id]
	return node, ok
}

// Edge returns the edge with the given id
func (g *Graph) Edge(id int64) (*Edge, bool) {
	edge, ok := g.edgeIndex[id]
	return edge, ok
}

// HasNode reports whether node is owned by this graph
func (g *Graph) HasNode(node *Node) bool {
	if node == nil {
		return false
	}
	owned, ok := g.nodeIndex[node.ID]
	return ok && owned == node
}

// HasEdge reports whether edge is owned by this graph
func (g *Graph) HasEdge(edge *Edge) bool {
	if edge == nil {
		return false
	}
	owned, ok := g.edgeIndex[edge.ID]
	return ok && owned == edge
}

// EdgesFrom returns every edge whose source is node, ordered by target id and then by
// insertion.
func (g *Graph) EdgesFrom(node *Node) []*Edge {
	if node == nil {
		return nil
	}
	row := g.adjacency[node.ID]
	var result []*Edge
	for _, targetID := range slices.Sorted(maps.Keys(row)) {
		result = append(result, row[targetID]...)
	}
	return result
}

// EdgesBetween returns the edges from source to target. Direction matters: callers
// wanting both directions query twice.
func (g *Graph) EdgesBetween(source, target *Node) []*Edge {
	if source == nil || target == nil {
		return nil
	}
	return slices.Clone(g.adjacency[source.ID][target.ID])
}

// Neighbors returns the nodes connected to node in either direction, in graph order
func (g *Graph) Neighbors(node *Node) []*Node {
	if node == nil {
		return nil
	}
	linked := make(map[int64]bool)
	for _, edge := range g.edges {
		if edge.Source.ID == node.ID {
			linked[edge.Target.ID] = true
		}
		if edge.Target.ID == node.ID {
			linked[edge.Source.ID] = true
		}
	}
	return g.FilterNodes(func(n *Node) bool { return linked[n.ID] })
}

// FilterNodes returns nodes that match the provided filter function
func (g *Graph) FilterNodes(filter NodeFilter) []*Node {
	var result []*Node
	for _, node := range g.nodes {
		if filter(node) {
			result = append(result, node)
		}
	}
	return result
}

// FilterEdges returns edges that match the provided filter function
func (g *Graph) FilterEdges(filter EdgeFilter) []*Edge {
	var result []*Edge
	for _, edge := range g.edges {
		if filter(edge) {
			result = append(result, edge)
		}
	}
	return result
}
