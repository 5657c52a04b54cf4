package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/siherrmann/depmatch/helper"
	"github.com/siherrmann/depmatch/model"
	"github.com/siherrmann/depmatch/sql"
)

// MatchesDBHandlerFunctions defines the interface for match store database operations.
type MatchesDBHandlerFunctions interface {
	InsertMatches(ctx context.Context, exampleID string, runID uuid.UUID, results []model.MatchResult) error
	SelectMatchesByExample(ctx context.Context, exampleID string) ([]*model.StoredMatch, error)
	DeleteMatchesByExample(ctx context.Context, exampleID string) (int64, error)
}

// MatchesDBHandler handles match store database operations
type MatchesDBHandler struct {
	db *helper.Database
}

// NewMatchesDBHandler creates a new matches database handler.
// If force is true, it will reload the SQL functions even if they already exist.
func NewMatchesDBHandler(db *helper.Database, force bool) (*MatchesDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	matchesDbHandler := &MatchesDBHandler{
		db: db,
	}

	err := sql.Init(db.Instance)
	if err != nil {
		return nil, helper.NewError("init database", err)
	}

	err = sql.LoadMatchesSql(db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load matches sql", err)
	}

	err = matchesDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized MatchesDBHandler")

	return matchesDbHandler, nil
}

// CreateTable creates the 'matches' table and its indexes if they do not exist.
func (h *MatchesDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_matches();`)
	if err != nil {
		log.Panicf("error initializing matches table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table matches")

	return nil
}

// InsertMatches stores the match results of one example in a single
// transaction. Storing the same result twice for a run is a no-op.
func (h *MatchesDBHandler) InsertMatches(ctx context.Context, exampleID string, runID uuid.UUID, results []model.MatchResult) error {
	if exampleID == "" {
		return helper.NewError("validate example id", fmt.Errorf("example id is empty"))
	}

	tx, err := h.db.Instance.BeginTx(ctx, nil)
	if err != nil {
		return helper.NewError("begin transaction", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, r := range results {
		var id int64
		var createdAt time.Time
		err = tx.QueryRowContext(
			ctx,
			`SELECT * FROM insert_match($1, $2, $3, $4, $5, $6)`,
			runID,
			exampleID,
			r.Marker,
			string(r.Direction),
			r.Relation,
			r.Word,
		).Scan(&id, &createdAt)
		if err != nil {
			return helper.NewError("insert match", err)
		}
	}

	err = tx.Commit()
	if err != nil {
		return helper.NewError("commit", err)
	}

	h.db.Logger.Debug("Stored matches", "example", exampleID, "run", runID.String(), "count", len(results))

	return nil
}

// SelectMatchesByExample retrieves all stored matches of an example over all runs
func (h *MatchesDBHandler) SelectMatchesByExample(ctx context.Context, exampleID string) ([]*model.StoredMatch, error) {
	rows, err := h.db.Instance.QueryContext(
		ctx,
		`SELECT * FROM select_matches_by_example($1)`,
		exampleID,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var matches []*model.StoredMatch
	for rows.Next() {
		match := &model.StoredMatch{ExampleID: exampleID}
		var direction string
		err := rows.Scan(
			&match.RunID,
			&match.Match.Marker,
			&direction,
			&match.Match.Relation,
			&match.Match.Word,
			&match.CreatedAt,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}
		match.Match.Direction = model.Direction(direction)

		matches = append(matches, match)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return matches, nil
}

// DeleteMatchesByExample deletes all stored matches of an example and
// returns the number of deleted rows.
func (h *MatchesDBHandler) DeleteMatchesByExample(ctx context.Context, exampleID string) (int64, error) {
	var deleted int64
	err := h.db.Instance.QueryRowContext(
		ctx,
		`SELECT delete_matches_by_example($1)`,
		exampleID,
	).Scan(&deleted)
	if err != nil {
		return 0, helper.NewError("scan", err)
	}
	return deleted, nil
}
