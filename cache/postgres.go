package cache

import (
	"context"
	"database/sql"
	"errors"

	"github.com/siherrmann/depmatch/database"
	"github.com/siherrmann/depmatch/helper"
	"github.com/siherrmann/depmatch/model"
)

// PostgresCache stores encoded annotations in the annotations table.
type PostgresCache struct {
	handler database.AnnotationsDBHandlerFunctions
}

// NewPostgresCache creates a cache on top of an annotations handler.
func NewPostgresCache(handler database.AnnotationsDBHandlerFunctions) *PostgresCache {
	return &PostgresCache{handler: handler}
}

// Get selects and decodes the annotation stored under key.
func (c *PostgresCache) Get(ctx context.Context, key string) (*model.Annotation, bool, error) {
	record, err := c.handler.SelectAnnotation(ctx, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, helper.NewError("select annotation", err)
	}

	annotation, err := Decode(record.Data)
	if err != nil {
		return nil, false, helper.NewError("decode annotation "+key, err)
	}

	return annotation, true, nil
}

// Put encodes and upserts the annotation under key.
func (c *PostgresCache) Put(ctx context.Context, key string, annotation *model.Annotation) error {
	data, err := Encode(annotation)
	if err != nil {
		return helper.NewError("encode annotation", err)
	}

	err = c.handler.InsertAnnotation(ctx, &model.AnnotationRecord{Key: key, Data: data})
	if err != nil {
		return helper.NewError("insert annotation", err)
	}

	return nil
}
