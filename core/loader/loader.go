package loader

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/siherrmann/depmatch/cache"
	"github.com/siherrmann/depmatch/core/pipeline"
	"github.com/siherrmann/depmatch/helper"
	"github.com/siherrmann/depmatch/model"
)

// Loader reads question records and attaches passage and question
// annotations, from the cache if possible.
type Loader struct {
	pipeline *pipeline.Pipeline
	cache    cache.Cache // Optional
	log      *slog.Logger
}

// NewLoader creates a new loader. The cache may be nil.
func NewLoader(p *pipeline.Pipeline, c cache.Cache, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		pipeline: p,
		cache:    c,
		log:      logger,
	}
}

// Load reads the record at path and annotates it. Malformed records fail
// before any annotation is requested.
func (l *Loader) Load(ctx context.Context, path string) (*model.Example, error) {
	example, err := model.NewExampleFromFile(path)
	if err != nil {
		return nil, helper.NewError("read example "+path, err)
	}

	err = l.Annotate(ctx, example)
	if err != nil {
		return nil, err
	}

	return example, nil
}

// Annotate attaches both annotations to an example. Cached annotations are
// used only if both are present, otherwise both texts are annotated again
// and written to the cache.
func (l *Loader) Annotate(ctx context.Context, example *model.Example) error {
	if example.Path != "" && l.cache != nil {
		passage, question, ok, err := l.cached(ctx, example.Path)
		if err != nil {
			return err
		}
		if ok {
			example.PassageAnnotation = passage
			example.QuestionAnnotation = question
			l.log.Debug("Loaded annotations from cache", slog.String("example", example.ID))
			return nil
		}
	}

	if l.pipeline == nil {
		return helper.NewError("annotate example", fmt.Errorf("pipeline not set and annotations not cached"))
	}

	passage, err := l.pipeline.Process(ctx, example.Passage)
	if err != nil {
		return helper.NewError("annotate passage of "+example.ID, err)
	}
	question, err := l.pipeline.Process(ctx, example.Question)
	if err != nil {
		return helper.NewError("annotate question of "+example.ID, err)
	}
	example.PassageAnnotation = passage
	example.QuestionAnnotation = question

	l.log.Debug("Annotated example",
		slog.String("example", example.ID),
		slog.Int("passage_sentences", len(passage.Sentences)),
		slog.Int("question_sentences", len(question.Sentences)),
	)

	if example.Path != "" && l.cache != nil {
		if err := l.cache.Put(ctx, cache.PassageKey(example.Path), passage); err != nil {
			return helper.NewError("cache passage annotation", err)
		}
		if err := l.cache.Put(ctx, cache.QuestionKey(example.Path), question); err != nil {
			return helper.NewError("cache question annotation", err)
		}
	}

	return nil
}

func (l *Loader) cached(ctx context.Context, path string) (*model.Annotation, *model.Annotation, bool, error) {
	passage, ok, err := l.cache.Get(ctx, cache.PassageKey(path))
	if err != nil {
		return nil, nil, false, helper.NewError("get cached passage", err)
	}
	if !ok {
		return nil, nil, false, nil
	}

	question, ok, err := l.cache.Get(ctx, cache.QuestionKey(path))
	if err != nil {
		return nil, nil, false, helper.NewError("get cached question", err)
	}
	if !ok {
		return nil, nil, false, nil
	}

	return passage, question, true, nil
}
