package model

import (
	"fmt"
	"strings"
)

// RootIndex is the governor index CoreNLP and CoNLL-U use for the artificial ROOT node.
const RootIndex = 0

// Node is a word occurrence within one sentence.
type Node struct {
	Index int    `json:"index"` // 1-based position in the sentence
	Word  string `json:"word"`
	Lemma string `json:"lemma,omitempty"`
	Tag   string `json:"tag,omitempty"` // part of speech
	NER   string `json:"ner,omitempty"`
	Begin int    `json:"begin"` // character offsets into the annotated text
	End   int    `json:"end"`
}

// Edge is a labeled governor -> dependent relation.
type Edge struct {
	Governor  int    `json:"governor"`
	Dependent int    `json:"dependent"`
	Relation  string `json:"relation"`
}

// ShortRelation returns the canonical short name of the edge relation.
func (e Edge) ShortRelation() string {
	return ShortRelation(e.Relation)
}

// DependencyGraph is the dependency parse of one sentence. It is built once
// by an annotation provider and only read afterwards.
type DependencyGraph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
	Roots []int  `json:"roots,omitempty"`
}

// NewDependencyGraph creates a graph from nodes and edges. Edges attached to
// ROOT are not stored as edges; their dependents become roots.
func NewDependencyGraph(nodes []Node, edges []Edge) *DependencyGraph {
	g := &DependencyGraph{
		Nodes: nodes,
		Edges: make([]Edge, 0, len(edges)),
	}
	for _, e := range edges {
		if e.Governor == RootIndex {
			g.Roots = append(g.Roots, e.Dependent)
			continue
		}
		g.Edges = append(g.Edges, e)
	}
	return g
}

// Node returns the node with the given 1-based index.
func (g *DependencyGraph) Node(index int) (Node, bool) {
	if index >= 1 && index <= len(g.Nodes) && g.Nodes[index-1].Index == index {
		return g.Nodes[index-1], true
	}
	for _, n := range g.Nodes {
		if n.Index == index {
			return n, true
		}
	}
	return Node{}, false
}

// Word returns the surface text of a node, "ROOT" for index 0 and an empty
// string for unknown indices.
func (g *DependencyGraph) Word(index int) string {
	if index == RootIndex {
		return "ROOT"
	}
	n, ok := g.Node(index)
	if !ok {
		return ""
	}
	return n.Word
}

// IncomingEdges returns the edges whose dependent is the given node.
func (g *DependencyGraph) IncomingEdges(index int) []Edge {
	var edges []Edge
	for _, e := range g.Edges {
		if e.Dependent == index {
			edges = append(edges, e)
		}
	}
	return edges
}

// OutgoingEdges returns the edges whose governor is the given node.
func (g *DependencyGraph) OutgoingEdges(index int) []Edge {
	var edges []Edge
	for _, e := range g.Edges {
		if e.Governor == index {
			edges = append(edges, e)
		}
	}
	return edges
}

// FormatEdge renders an edge as rel(governor-i, dependent-j).
func (g *DependencyGraph) FormatEdge(e Edge) string {
	return fmt.Sprintf("%s(%s-%d, %s-%d)", e.Relation, g.Word(e.Governor), e.Governor, g.Word(e.Dependent), e.Dependent)
}

// String lists the root and all edges, one per line.
func (g *DependencyGraph) String() string {
	var sb strings.Builder
	for _, r := range g.Roots {
		sb.WriteString(fmt.Sprintf("root(ROOT-0, %s-%d)\n", g.Word(r), r))
	}
	for _, e := range g.Edges {
		sb.WriteString(g.FormatEdge(e))
		sb.WriteString("\n")
	}
	return sb.String()
}
