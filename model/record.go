package model

import (
	"time"

	"github.com/google/uuid"
)

// AnnotationRecord is an encoded annotation stored under a cache key.
type AnnotationRecord struct {
	ID        int64     `json:"id"`
	Key       string    `json:"key"`
	Data      []byte    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StoredMatch is a match result persisted for one example of one run.
type StoredMatch struct {
	RunID     uuid.UUID   `json:"run_id"`
	ExampleID string      `json:"example_id"`
	Match     MatchResult `json:"match"`
	CreatedAt time.Time   `json:"created_at"`
}
