package cache

import (
	"context"

	"github.com/siherrmann/depmatch/model"
)

const (
	passageSuffix  = ".passage.ann"
	questionSuffix = ".question.ann"
)

// Cache stores annotations under string keys. Get reports false without
// error when the key is not cached.
type Cache interface {
	Get(ctx context.Context, key string) (*model.Annotation, bool, error)
	Put(ctx context.Context, key string, annotation *model.Annotation) error
}

// PassageKey returns the cache key of the passage annotation of an example file.
func PassageKey(path string) string {
	return path + passageSuffix
}

// QuestionKey returns the cache key of the question annotation of an example file.
func QuestionKey(path string) string {
	return path + questionSuffix
}
