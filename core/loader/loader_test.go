package loader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/siherrmann/depmatch/cache"
	"github.com/siherrmann/depmatch/core/pipeline"
	"github.com/siherrmann/depmatch/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const record = `http://example.com/story

@entity1 beat @entity2 in the final .

@placeholder won the title

@entity1

@entity1:Roger Federer
@entity2:Rafael Nadal
`

// wordAnnotator builds one flat sentence per text: every word depends on
// the first one with relation "dep".
func wordAnnotator(calls *atomic.Int32) pipeline.AnnotateFunc {
	return func(ctx context.Context, text string) (*model.Annotation, error) {
		calls.Add(1)
		words := strings.Fields(text)
		nodes := make([]model.Node, 0, len(words))
		edges := []model.Edge{}
		for i, w := range words {
			nodes = append(nodes, model.Node{Index: i + 1, Word: w})
			if i > 0 {
				edges = append(edges, model.Edge{Governor: 1, Dependent: i + 1, Relation: "dep"})
			}
		}
		return &model.Annotation{Text: text, Sentences: []*model.Sentence{{Graph: model.NewDependencyGraph(nodes, edges)}}}, nil
	}
}

func writeRecord(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "0001.question")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("Annotate and cache", func(t *testing.T) {
		var calls atomic.Int32
		path := writeRecord(t, record)
		l := NewLoader(pipeline.NewPipeline(wordAnnotator(&calls)), cache.NewFileCache(), nil)

		example, err := l.Load(ctx, path)
		require.NoError(t, err, "Expected Load to not return an error")
		assert.Equal(t, "0001", example.ID)
		assert.Equal(t, "@entity1", example.Answer)
		assert.True(t, example.IsAnnotated())
		assert.Equal(t, int32(2), calls.Load(), "Expected passage and question to be annotated")
		assert.FileExists(t, cache.PassageKey(path))
		assert.FileExists(t, cache.QuestionKey(path))
	})

	t.Run("Second load uses the cache", func(t *testing.T) {
		var calls atomic.Int32
		path := writeRecord(t, record)
		l := NewLoader(pipeline.NewPipeline(wordAnnotator(&calls)), cache.NewFileCache(), nil)

		first, err := l.Load(ctx, path)
		require.NoError(t, err)
		second, err := l.Load(ctx, path)
		require.NoError(t, err)

		assert.Equal(t, int32(2), calls.Load(), "Expected no annotation on the second load")
		assert.Equal(t, first.PassageAnnotation, second.PassageAnnotation)
		assert.Equal(t, first.QuestionAnnotation, second.QuestionAnnotation)
	})

	t.Run("Partial cache is annotated again", func(t *testing.T) {
		var calls atomic.Int32
		path := writeRecord(t, record)
		l := NewLoader(pipeline.NewPipeline(wordAnnotator(&calls)), cache.NewFileCache(), nil)

		_, err := l.Load(ctx, path)
		require.NoError(t, err)
		require.NoError(t, os.Remove(cache.QuestionKey(path)))

		_, err = l.Load(ctx, path)
		require.NoError(t, err)
		assert.Equal(t, int32(4), calls.Load())
	})

	t.Run("Without cache", func(t *testing.T) {
		var calls atomic.Int32
		path := writeRecord(t, record)
		l := NewLoader(pipeline.NewPipeline(wordAnnotator(&calls)), nil, nil)

		example, err := l.Load(ctx, path)
		require.NoError(t, err)
		assert.True(t, example.IsAnnotated())
		assert.NoFileExists(t, cache.PassageKey(path))
	})

	t.Run("Malformed record fails before annotation", func(t *testing.T) {
		var calls atomic.Int32
		path := writeRecord(t, "only\nthree\nlines\n")
		l := NewLoader(pipeline.NewPipeline(wordAnnotator(&calls)), cache.NewFileCache(), nil)

		_, err := l.Load(ctx, path)
		assert.ErrorIs(t, err, model.ErrRecordTooShort)
		assert.Equal(t, int32(0), calls.Load())
	})

	t.Run("Missing file", func(t *testing.T) {
		l := NewLoader(nil, nil, nil)
		_, err := l.Load(ctx, filepath.Join(t.TempDir(), "missing.question"))
		assert.Error(t, err)
	})

	t.Run("Annotator error", func(t *testing.T) {
		path := writeRecord(t, record)
		failing := func(ctx context.Context, text string) (*model.Annotation, error) {
			return nil, errors.New("server down")
		}
		l := NewLoader(pipeline.NewPipeline(failing), cache.NewFileCache(), nil)

		_, err := l.Load(ctx, path)
		assert.ErrorContains(t, err, "server down")
		assert.NoFileExists(t, cache.PassageKey(path))
	})

	t.Run("No pipeline and nothing cached", func(t *testing.T) {
		path := writeRecord(t, record)
		l := NewLoader(nil, cache.NewFileCache(), nil)

		_, err := l.Load(ctx, path)
		assert.ErrorContains(t, err, "pipeline not set")
	})
}
