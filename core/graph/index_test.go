package graph

import (
	"testing"

	"github.com/siherrmann/depmatch/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sentence() *model.DependencyGraph {
	return model.NewDependencyGraph(
		[]model.Node{
			{Index: 3, Word: "sunday"},
			{Index: 1, Word: "@entity3"},
			{Index: 2, Word: "won"},
		},
		[]model.Edge{
			{Governor: 0, Dependent: 2, Relation: "root"},
			{Governor: 2, Dependent: 1, Relation: "nsubj"},
			{Governor: 2, Dependent: 1, Relation: "nsubj"},
			{Governor: 2, Dependent: 3, Relation: "nmod:tmod"},
		},
	)
}

func TestNewIndex(t *testing.T) {
	idx := NewIndex(sentence())

	t.Run("Incoming keeps duplicate edges", func(t *testing.T) {
		in := idx.Incoming(1)
		assert.Len(t, in, 2, "Expected both identical nsubj edges")
	})

	t.Run("Outgoing", func(t *testing.T) {
		out := idx.Outgoing(2)
		require.Len(t, out, 3)
		assert.Equal(t, "nmod:tmod", out[2].Relation)
	})

	t.Run("ROOT is not an incoming edge", func(t *testing.T) {
		assert.Empty(t, idx.Incoming(2))
	})

	t.Run("Vertices are sorted", func(t *testing.T) {
		assert.Equal(t, []int{1, 2, 3}, idx.Vertices())
	})

	t.Run("Find by word", func(t *testing.T) {
		found := idx.Find(model.IsEntityMarker)
		assert.Equal(t, []int{1}, found)
		assert.Equal(t, "@entity3", idx.Word(found[0]))
	})
}

func TestNilGraphIndex(t *testing.T) {
	idx := NewIndex(nil)
	assert.Empty(t, idx.Vertices())
	assert.Empty(t, idx.Incoming(1))
	assert.Equal(t, "", idx.Word(1))
	assert.Empty(t, idx.Find(func(string) bool { return true }))
}

func TestIndexAll(t *testing.T) {
	indices := IndexAll([]*model.DependencyGraph{sentence(), model.NewDependencyGraph(nil, nil)})
	assert.Len(t, indices, 2)
	assert.Empty(t, indices[1].Vertices())
}
