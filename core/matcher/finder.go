package matcher

import (
	"sort"

	"github.com/siherrmann/depmatch/core/graph"
	"github.com/siherrmann/depmatch/helper"
	"github.com/siherrmann/depmatch/model"
)

// DependencyMatchFinder reports the passage entity markers whose edges
// structurally match the edges of the question placeholder. It holds no
// state besides its configuration and is safe for concurrent use.
type DependencyMatchFinder struct {
	config model.MatchConfig
}

// NewDependencyMatchFinder creates a finder for a validated configuration.
func NewDependencyMatchFinder(config model.MatchConfig) (*DependencyMatchFinder, error) {
	if err := config.Validate(); err != nil {
		return nil, helper.NewError("validate match config", err)
	}
	return &DependencyMatchFinder{config: config}, nil
}

// Config returns the configuration of the finder.
func (f *DependencyMatchFinder) Config() model.MatchConfig {
	return f.config
}

// FindExampleMatches runs FindMatches on the annotations of an example.
func (f *DependencyMatchFinder) FindExampleMatches(example *model.Example) []model.MatchResult {
	return f.FindMatches(example.QuestionAnnotation.Graphs(), example.PassageAnnotation.Graphs(), example.EntityMarkers)
}

// FindMatches extracts the placeholder signature from the question graphs
// and matches it against every declared entity marker node of the passage
// graphs. The result is a set sorted by marker and edge.
func (f *DependencyMatchFinder) FindMatches(question []*model.DependencyGraph, passage []*model.DependencyGraph, markers map[string]string) []model.MatchResult {
	signature := ExtractSignature(question, f.config.Placeholder, f.config.SignatureMode)
	return f.Match(signature, passage, markers)
}

// Match matches a precomputed signature against the passage graphs.
func (f *DependencyMatchFinder) Match(signature Signature, passage []*model.DependencyGraph, markers map[string]string) []model.MatchResult {
	if signature.IsEmpty() || len(markers) == 0 {
		return []model.MatchResult{}
	}

	incoming := lookup(signature.Incoming)
	outgoing := lookup(signature.Outgoing)
	results := newResultSet(f.config.DedupMode)

	for _, idx := range graph.IndexAll(passage) {
		for _, node := range idx.Vertices() {
			marker := idx.Word(node)
			if _, declared := markers[marker]; !declared {
				continue
			}

			for _, e := range idx.Incoming(node) {
				governor := idx.Word(e.Governor)
				for _, se := range incoming[lookupKey(e.Relation, governor)] {
					results.add(model.MatchResult{Marker: marker, Direction: model.DirectionIn, Relation: se.Relation, Word: governor})
				}
			}

			for _, e := range idx.Outgoing(node) {
				dependent := idx.Word(e.Dependent)
				for _, se := range outgoing[lookupKey(e.Relation, dependent)] {
					results.add(model.MatchResult{Marker: marker, Direction: model.DirectionOut, Relation: se.Relation, Word: dependent})
				}
			}
		}
	}

	return results.sorted()
}

// lookup groups signature edges by short relation and endpoint word.
func lookup(edges []SignatureEdge) map[string][]SignatureEdge {
	m := make(map[string][]SignatureEdge, len(edges))
	for _, e := range edges {
		key := lookupKey(e.Relation, e.Word)
		m[key] = append(m[key], e)
	}
	return m
}

func lookupKey(relation string, word string) string {
	return model.ShortRelation(relation) + "\x00" + word
}

type resultSet struct {
	mode    model.DedupMode
	results map[string]model.MatchResult
}

func newResultSet(mode model.DedupMode) *resultSet {
	return &resultSet{
		mode:    mode,
		results: make(map[string]model.MatchResult),
	}
}

func (s *resultSet) add(r model.MatchResult) {
	key := r.Key()
	if s.mode == model.DedupPerEdge {
		key = r.EdgeKey()
		if existing, ok := s.results[key]; ok && existing.Marker <= r.Marker {
			return
		}
	}
	s.results[key] = r
}

func (s *resultSet) sorted() []model.MatchResult {
	results := make([]model.MatchResult, 0, len(s.results))
	for _, r := range s.results {
		results = append(results, r)
	}
	SortMatches(results)
	return results
}

// SortMatches orders results by marker, then direction, relation and word.
func SortMatches(results []model.MatchResult) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].Marker != results[j].Marker {
			return results[i].Marker < results[j].Marker
		}
		return results[i].EdgeKey() < results[j].EdgeKey()
	})
}
