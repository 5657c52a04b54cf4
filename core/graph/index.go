package graph

import (
	"sort"

	"github.com/siherrmann/depmatch/model"
)

// Index holds the incoming and outgoing edges of every node of one
// dependency graph so they can be looked up without rescanning all edges.
type Index struct {
	Graph    *model.DependencyGraph
	incoming map[int][]model.Edge
	outgoing map[int][]model.Edge
}

// NewIndex builds the adjacency lists of a graph. Duplicate edges are kept.
func NewIndex(g *model.DependencyGraph) *Index {
	idx := &Index{
		Graph:    g,
		incoming: make(map[int][]model.Edge),
		outgoing: make(map[int][]model.Edge),
	}
	if g == nil {
		return idx
	}

	for _, edge := range g.Edges {
		idx.outgoing[edge.Governor] = append(idx.outgoing[edge.Governor], edge)
		idx.incoming[edge.Dependent] = append(idx.incoming[edge.Dependent], edge)
	}

	return idx
}

// Incoming returns the edges whose dependent is the node.
func (idx *Index) Incoming(node int) []model.Edge {
	return idx.incoming[node]
}

// Outgoing returns the edges whose governor is the node.
func (idx *Index) Outgoing(node int) []model.Edge {
	return idx.outgoing[node]
}

// Word returns the surface text of a node.
func (idx *Index) Word(node int) string {
	if idx.Graph == nil {
		return ""
	}
	return idx.Graph.Word(node)
}

// Vertices returns the indices of all nodes in ascending order.
func (idx *Index) Vertices() []int {
	if idx.Graph == nil {
		return nil
	}
	vertices := make([]int, 0, len(idx.Graph.Nodes))
	for _, n := range idx.Graph.Nodes {
		vertices = append(vertices, n.Index)
	}
	sort.Ints(vertices)
	return vertices
}

// Find returns the indices of all nodes whose word satisfies match, in
// ascending order.
func (idx *Index) Find(match func(word string) bool) []int {
	var found []int
	for _, v := range idx.Vertices() {
		if match(idx.Graph.Word(v)) {
			found = append(found, v)
		}
	}
	return found
}

// IndexAll builds an index for every graph, keeping their order.
func IndexAll(graphs []*model.DependencyGraph) []*Index {
	indices := make([]*Index, 0, len(graphs))
	for _, g := range graphs {
		indices = append(indices, NewIndex(g))
	}
	return indices
}
