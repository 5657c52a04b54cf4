package matcher

import (
	"testing"

	"github.com/siherrmann/depmatch/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sentenceGraph builds a graph from words (1-based indices) and edges given
// as {governor, dependent, relation}.
func sentenceGraph(words []string, edges ...edgeSpec) *model.DependencyGraph {
	nodes := make([]model.Node, 0, len(words))
	for i, w := range words {
		nodes = append(nodes, model.Node{Index: i + 1, Word: w})
	}
	modelEdges := make([]model.Edge, 0, len(edges))
	for _, e := range edges {
		modelEdges = append(modelEdges, model.Edge{Governor: e.gov, Dependent: e.dep, Relation: e.rel})
	}
	return model.NewDependencyGraph(nodes, modelEdges)
}

type edgeSpec struct {
	gov int
	dep int
	rel string
}

func graphs(g ...*model.DependencyGraph) []*model.DependencyGraph {
	return g
}

func newFinder(t *testing.T, signature model.SignatureMode, dedup model.DedupMode) *DependencyMatchFinder {
	config := model.DefaultMatchConfig()
	config.SignatureMode = signature
	config.DedupMode = dedup
	finder, err := NewDependencyMatchFinder(config)
	require.NoError(t, err, "Expected NewDependencyMatchFinder to not return an error")
	return finder
}

var markers = map[string]string{
	"@entity1": "London",
	"@entity3": "Roger Federer",
	"@entity7": "Rafael Nadal",
}

// "@placeholder won the final"
func wonQuestion() []*model.DependencyGraph {
	return graphs(sentenceGraph(
		[]string{"@placeholder", "won", "the", "final"},
		edgeSpec{0, 2, "root"},
		edgeSpec{2, 1, "nsubj"},
		edgeSpec{4, 3, "det"},
		edgeSpec{2, 4, "dobj"},
	))
}

func TestNewDependencyMatchFinder(t *testing.T) {
	t.Run("Valid config", func(t *testing.T) {
		finder, err := NewDependencyMatchFinder(model.DefaultMatchConfig())
		require.NoError(t, err)
		assert.Equal(t, model.SignatureMulti, finder.Config().SignatureMode)
	})

	t.Run("Invalid config", func(t *testing.T) {
		config := model.DefaultMatchConfig()
		config.DedupMode = "never"
		_, err := NewDependencyMatchFinder(config)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "validate match config")
	})
}

func TestFindMatches(t *testing.T) {
	finder := newFinder(t, model.SignatureMulti, model.DedupPerMarker)

	t.Run("Same governor and relation matches", func(t *testing.T) {
		passage := graphs(sentenceGraph(
			[]string{"@entity3", "won"},
			edgeSpec{0, 2, "root"},
			edgeSpec{2, 1, "nsubj"},
		))

		results := finder.FindMatches(wonQuestion(), passage, markers)
		require.Len(t, results, 1)
		gov, rel, dep := results[0].Triple()
		assert.Equal(t, "won", gov)
		assert.Equal(t, "nsubj", rel)
		assert.Equal(t, "@entity3", dep)
		assert.Equal(t, model.DirectionIn, results[0].Direction)
	})

	t.Run("Different relation does not match", func(t *testing.T) {
		passage := graphs(sentenceGraph(
			[]string{"they", "won", "@entity3"},
			edgeSpec{2, 1, "nsubj"},
			edgeSpec{2, 3, "dobj"},
		))

		results := finder.FindMatches(wonQuestion(), passage, markers)
		assert.Empty(t, results, "Expected dobj not to match the nsubj placeholder edge")
	})

	t.Run("Different governor word does not match", func(t *testing.T) {
		passage := graphs(sentenceGraph(
			[]string{"@entity3", "lost"},
			edgeSpec{2, 1, "nsubj"},
		))

		assert.Empty(t, finder.FindMatches(wonQuestion(), passage, markers))
	})

	t.Run("Outgoing edges match on dependent word", func(t *testing.T) {
		question := graphs(sentenceGraph(
			[]string{"former", "champion", "@placeholder"},
			edgeSpec{3, 1, "amod"},
			edgeSpec{3, 2, "compound"},
		))
		passage := graphs(sentenceGraph(
			[]string{"former", "@entity7", "beat", "former", "@entity1"},
			edgeSpec{2, 1, "amod"},
			edgeSpec{3, 2, "nsubj"},
			edgeSpec{5, 4, "amod"},
			edgeSpec{3, 5, "dobj"},
		))

		results := finder.FindMatches(question, passage, markers)
		require.Len(t, results, 2)
		assert.Equal(t, "@entity1", results[0].Marker, "Expected results sorted by marker")
		assert.Equal(t, "@entity7", results[1].Marker)
		for _, r := range results {
			assert.Equal(t, model.DirectionOut, r.Direction)
			gov, rel, dep := r.Triple()
			assert.Equal(t, r.Marker, gov)
			assert.Equal(t, "amod", rel)
			assert.Equal(t, "former", dep)
		}
	})

	t.Run("Relation subtypes compare by short name", func(t *testing.T) {
		question := graphs(sentenceGraph(
			[]string{"born", "in", "@placeholder"},
			edgeSpec{1, 3, "prep_in"},
		))
		passage := graphs(sentenceGraph(
			[]string{"born", "on", "@entity1"},
			edgeSpec{1, 3, "prep_on"},
		))

		results := finder.FindMatches(question, passage, markers)
		require.Len(t, results, 1)
		assert.Equal(t, "prep_in", results[0].Relation, "Expected the placeholder edge label to be reported")
	})

	t.Run("Matches across several passage sentences", func(t *testing.T) {
		passage := graphs(
			sentenceGraph([]string{"@entity3", "won"}, edgeSpec{2, 1, "nsubj"}),
			sentenceGraph([]string{"@entity7", "won", "too"}, edgeSpec{2, 1, "nsubj"}, edgeSpec{2, 3, "advmod"}),
		)

		results := finder.FindMatches(wonQuestion(), passage, markers)
		require.Len(t, results, 2)
		assert.Equal(t, "@entity3", results[0].Marker)
		assert.Equal(t, "@entity7", results[1].Marker)
	})

	t.Run("Placeholder in a later question sentence", func(t *testing.T) {
		question := graphs(
			sentenceGraph([]string{"it", "rained"}, edgeSpec{2, 1, "nsubj"}),
			wonQuestion()[0],
		)
		passage := graphs(sentenceGraph([]string{"@entity3", "won"}, edgeSpec{2, 1, "nsubj"}))

		assert.Len(t, finder.FindMatches(question, passage, markers), 1)
	})
}

func TestFindMatchesProperties(t *testing.T) {
	finder := newFinder(t, model.SignatureMulti, model.DedupPerMarker)

	passage := graphs(sentenceGraph(
		[]string{"@entity3", "won", "@entity7", "won", "@entity9"},
		edgeSpec{2, 1, "nsubj"},
		edgeSpec{4, 3, "nsubj"},
		edgeSpec{4, 5, "nsubj"},
	))

	t.Run("No placeholder yields an empty set", func(t *testing.T) {
		question := graphs(sentenceGraph([]string{"nobody", "won"}, edgeSpec{2, 1, "nsubj"}))

		results := finder.FindMatches(question, passage, markers)
		assert.NotNil(t, results)
		assert.Empty(t, results)
	})

	t.Run("No question graphs yields an empty set", func(t *testing.T) {
		assert.Empty(t, finder.FindMatches(nil, passage, markers))
	})

	t.Run("Undeclared marker-like words are skipped", func(t *testing.T) {
		results := finder.FindMatches(wonQuestion(), passage, markers)
		for _, r := range results {
			_, declared := markers[r.Marker]
			assert.True(t, declared, "Expected only declared markers, got %s", r.Marker)
		}
		assert.Len(t, results, 2, "Expected @entity9 to be ignored")
	})

	t.Run("Every result is backed by a placeholder edge and a marker edge", func(t *testing.T) {
		signature := ExtractSignature(wonQuestion(), model.Placeholder, model.SignatureMulti)
		for _, r := range finder.FindMatches(wonQuestion(), passage, markers) {
			found := false
			for _, se := range signature.Incoming {
				if se.Relation == r.Relation && se.Word == r.Word {
					found = true
				}
			}
			assert.True(t, found, "Expected %s to come from a placeholder edge", r)
		}
	})

	t.Run("Deterministic", func(t *testing.T) {
		first := finder.FindMatches(wonQuestion(), passage, markers)
		second := finder.FindMatches(wonQuestion(), passage, markers)
		assert.Equal(t, first, second)
	})

	t.Run("Duplicate passage edges are reported once", func(t *testing.T) {
		duplicated := graphs(sentenceGraph(
			[]string{"@entity3", "won"},
			edgeSpec{2, 1, "nsubj"},
			edgeSpec{2, 1, "nsubj"},
		))

		assert.Len(t, finder.FindMatches(wonQuestion(), duplicated, markers), 1)
	})

	t.Run("Degenerate graphs", func(t *testing.T) {
		degenerate := graphs(
			model.NewDependencyGraph(nil, nil),
			sentenceGraph([]string{"@entity3"}),
			nil,
		)

		assert.Empty(t, finder.FindMatches(wonQuestion(), degenerate, markers))
	})

	t.Run("Empty marker map", func(t *testing.T) {
		assert.Empty(t, finder.FindMatches(wonQuestion(), passage, nil))
	})
}

func TestFindMatchesDedupModes(t *testing.T) {
	passage := graphs(sentenceGraph(
		[]string{"@entity7", "won", "@entity3", "won"},
		edgeSpec{2, 1, "nsubj"},
		edgeSpec{4, 3, "nsubj"},
	))

	t.Run("Per marker reports one placeholder edge for each marker", func(t *testing.T) {
		finder := newFinder(t, model.SignatureMulti, model.DedupPerMarker)

		results := finder.FindMatches(wonQuestion(), passage, markers)
		require.Len(t, results, 2)
		assert.Equal(t, results[0].EdgeKey(), results[1].EdgeKey())
	})

	t.Run("Per edge keeps the smallest marker", func(t *testing.T) {
		finder := newFinder(t, model.SignatureMulti, model.DedupPerEdge)

		results := finder.FindMatches(wonQuestion(), passage, markers)
		require.Len(t, results, 1)
		assert.Equal(t, "@entity3", results[0].Marker)
	})

	t.Run("Per edge representative is the lexicographically smallest marker", func(t *testing.T) {
		finder := newFinder(t, model.SignatureMulti, model.DedupPerEdge)
		passage := graphs(sentenceGraph(
			[]string{"@entity3", "won", "@entity10", "won"},
			edgeSpec{2, 1, "nsubj"},
			edgeSpec{4, 3, "nsubj"},
		))
		declared := map[string]string{"@entity3": "Federer", "@entity10": "Nadal"}

		results := finder.FindMatches(wonQuestion(), passage, declared)
		require.Len(t, results, 1)
		assert.Equal(t, "@entity10", results[0].Marker, "Expected string order, not numeric order")

		candidates := RankCandidates(results, declared)
		require.Len(t, candidates, 1, "Expected only the representative to be credited")
		assert.Equal(t, "@entity10", candidates[0].Marker)
	})
}

func TestFindMatchesSignatureModes(t *testing.T) {
	// "@placeholder met in Paris and in Rome"
	question := graphs(sentenceGraph(
		[]string{"@placeholder", "met", "Paris", "Rome"},
		edgeSpec{1, 3, "prep_in"},
		edgeSpec{1, 4, "prep_in"},
		edgeSpec{2, 1, "nsubj"},
	))
	passage := graphs(sentenceGraph(
		[]string{"@entity1", "Paris", "@entity7", "Rome"},
		edgeSpec{1, 2, "prep_in"},
		edgeSpec{3, 4, "prep_in"},
	))

	t.Run("Multi keeps every edge of a relation", func(t *testing.T) {
		finder := newFinder(t, model.SignatureMulti, model.DedupPerMarker)

		results := finder.FindMatches(question, passage, markers)
		require.Len(t, results, 2)
		assert.Equal(t, "Paris", results[0].Word)
		assert.Equal(t, "Rome", results[1].Word)
	})

	t.Run("Collapsed keeps the last edge of a relation", func(t *testing.T) {
		finder := newFinder(t, model.SignatureCollapsed, model.DedupPerMarker)

		results := finder.FindMatches(question, passage, markers)
		require.Len(t, results, 1)
		assert.Equal(t, "@entity7", results[0].Marker)
		assert.Equal(t, "Rome", results[0].Word)
	})
}

func TestFindExampleMatches(t *testing.T) {
	finder := newFinder(t, model.SignatureMulti, model.DedupPerMarker)

	t.Run("Uses the example annotations and markers", func(t *testing.T) {
		example := &model.Example{
			EntityMarkers:      markers,
			QuestionAnnotation: &model.Annotation{Sentences: []*model.Sentence{{Graph: wonQuestion()[0]}}},
			PassageAnnotation: &model.Annotation{Sentences: []*model.Sentence{{
				Graph: sentenceGraph([]string{"@entity1", "won"}, edgeSpec{2, 1, "nsubj"}),
			}}},
		}

		results := finder.FindExampleMatches(example)
		require.Len(t, results, 1)
		assert.Equal(t, "@entity1", results[0].Marker)
	})

	t.Run("Example without annotations", func(t *testing.T) {
		assert.Empty(t, finder.FindExampleMatches(&model.Example{EntityMarkers: markers}))
	})
}
