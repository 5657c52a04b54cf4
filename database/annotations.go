package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/siherrmann/depmatch/helper"
	"github.com/siherrmann/depmatch/model"
	"github.com/siherrmann/depmatch/sql"
)

// AnnotationsDBHandlerFunctions defines the interface for annotation cache database operations.
type AnnotationsDBHandlerFunctions interface {
	InsertAnnotation(ctx context.Context, record *model.AnnotationRecord) error
	SelectAnnotation(ctx context.Context, key string) (*model.AnnotationRecord, error)
	DeleteAnnotation(ctx context.Context, key string) error
}

// AnnotationsDBHandler handles annotation cache database operations
type AnnotationsDBHandler struct {
	db *helper.Database
}

// NewAnnotationsDBHandler creates a new annotations database handler.
// It loads the annotation SQL functions and creates the table.
// If force is true, it will reload the SQL functions even if they already exist.
func NewAnnotationsDBHandler(db *helper.Database, force bool) (*AnnotationsDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	annotationsDbHandler := &AnnotationsDBHandler{
		db: db,
	}

	err := sql.Init(db.Instance)
	if err != nil {
		return nil, helper.NewError("init database", err)
	}

	err = sql.LoadAnnotationsSql(db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load annotations sql", err)
	}

	err = annotationsDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized AnnotationsDBHandler")

	return annotationsDbHandler, nil
}

// CreateTable creates the 'annotations' table if it does not exist.
func (h *AnnotationsDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_annotations();`)
	if err != nil {
		log.Panicf("error initializing annotations table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table annotations")

	return nil
}

// InsertAnnotation inserts an annotation record or replaces the data stored
// under the same key.
func (h *AnnotationsDBHandler) InsertAnnotation(ctx context.Context, record *model.AnnotationRecord) error {
	row := h.db.Instance.QueryRowContext(
		ctx,
		`SELECT * FROM insert_annotation($1, $2)`,
		record.Key,
		record.Data,
	)

	err := row.Scan(
		&record.ID,
		&record.Key,
		&record.Data,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// SelectAnnotation retrieves an annotation record by key. A missing key
// returns an error wrapping sql.ErrNoRows.
func (h *AnnotationsDBHandler) SelectAnnotation(ctx context.Context, key string) (*model.AnnotationRecord, error) {
	record := &model.AnnotationRecord{}
	row := h.db.Instance.QueryRowContext(
		ctx,
		`SELECT * FROM select_annotation($1)`,
		key,
	)

	err := row.Scan(
		&record.ID,
		&record.Key,
		&record.Data,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	return record, nil
}

// DeleteAnnotation deletes an annotation record by key
func (h *AnnotationsDBHandler) DeleteAnnotation(ctx context.Context, key string) error {
	_, err := h.db.Instance.ExecContext(
		ctx,
		`SELECT delete_annotation($1)`,
		key,
	)
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}
