package matcher

import (
	"github.com/siherrmann/depmatch/core/graph"
	"github.com/siherrmann/depmatch/model"
)

// SignatureEdge is one placeholder edge seen from the placeholder: the
// relation label and the word at the other end (the governor for incoming
// edges, the dependent for outgoing edges).
type SignatureEdge struct {
	Relation string
	Word     string
}

// Signature is the grammatical context of the placeholder.
type Signature struct {
	Incoming []SignatureEdge
	Outgoing []SignatureEdge
}

// IsEmpty reports whether the signature has no edge at all.
func (s Signature) IsEmpty() bool {
	return len(s.Incoming) == 0 && len(s.Outgoing) == 0
}

// ExtractSignature collects the edges of the placeholder node from the
// question graphs. If the placeholder occurs more than once, the last
// occurrence in sentence and node order wins. Without a placeholder the
// signature is empty.
func ExtractSignature(question []*model.DependencyGraph, placeholder string, mode model.SignatureMode) Signature {
	var signature Signature

	for _, idx := range graph.IndexAll(question) {
		for _, node := range idx.Find(func(word string) bool { return word == placeholder }) {
			signature = nodeSignature(idx, node, mode)
		}
	}

	return signature
}

func nodeSignature(idx *graph.Index, node int, mode model.SignatureMode) Signature {
	var incoming, outgoing []SignatureEdge
	for _, e := range idx.Incoming(node) {
		incoming = append(incoming, SignatureEdge{Relation: e.Relation, Word: idx.Word(e.Governor)})
	}
	for _, e := range idx.Outgoing(node) {
		outgoing = append(outgoing, SignatureEdge{Relation: e.Relation, Word: idx.Word(e.Dependent)})
	}

	if mode == model.SignatureCollapsed {
		incoming = collapse(incoming)
		outgoing = collapse(outgoing)
	}

	return Signature{Incoming: incoming, Outgoing: outgoing}
}

// collapse keeps one edge per short relation, the last one seen. Relations
// stay in the order they first appeared.
func collapse(edges []SignatureEdge) []SignatureEdge {
	position := make(map[string]int)
	var collapsed []SignatureEdge
	for _, e := range edges {
		short := model.ShortRelation(e.Relation)
		if i, ok := position[short]; ok {
			collapsed[i] = e
			continue
		}
		position[short] = len(collapsed)
		collapsed = append(collapsed, e)
	}
	return collapsed
}
