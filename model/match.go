package model

import "fmt"

// Direction tells on which side of the placeholder an edge was matched.
type Direction string

const (
	// DirectionIn matches an incoming edge: Word is the governor.
	DirectionIn Direction = "in"
	// DirectionOut matches an outgoing edge: Word is the dependent.
	DirectionOut Direction = "out"
)

// MatchResult is a structural correspondence between an entity marker and
// the placeholder: the marker has an edge with the same short relation and
// the same other-endpoint word as one of the placeholder edges. Relation is
// the label of the placeholder edge.
type MatchResult struct {
	Marker    string    `json:"marker"`
	Direction Direction `json:"direction"`
	Relation  string    `json:"relation"`
	Word      string    `json:"word"`
}

// Triple returns (governor, relation, dependent) with the marker in its
// endpoint slot, e.g. ("won", "nsubj", "@entity3").
func (m MatchResult) Triple() (string, string, string) {
	if m.Direction == DirectionOut {
		return m.Marker, m.Relation, m.Word
	}
	return m.Word, m.Relation, m.Marker
}

// EdgeKey identifies the placeholder edge that was matched.
func (m MatchResult) EdgeKey() string {
	return fmt.Sprintf("%s|%s|%s", m.Direction, m.Relation, m.Word)
}

// Key identifies the (marker, placeholder edge) pair.
func (m MatchResult) Key() string {
	return m.Marker + "|" + m.EdgeKey()
}

// String renders the triple as relation(governor, dependent).
func (m MatchResult) String() string {
	gov, rel, dep := m.Triple()
	return fmt.Sprintf("%s(%s, %s)", rel, gov, dep)
}

// Candidate is an entity marker ranked by how many matches it produced.
type Candidate struct {
	Marker string `json:"marker"`
	Entity string `json:"entity"`
	Count  int    `json:"count"`
}
