package store

import (
	"context"
	"errors"

	"verigate/internal/verification/models"
)

// ErrNotFound is returned when no decision record exists for a session id.
var ErrNotFound = errors.New("decision not found")

// DecisionStore persists decision records keyed by session id.
//
// Put must atomically replace the whole record for its session id so readers
// never observe a partially written record. Last write wins for concurrent
// writes to the same session. Records are never deleted here; retention is an
// external concern.
type DecisionStore interface {
	Put(ctx context.Context, record *models.DecisionRecord) error
	Get(ctx context.Context, sessionID string) (*models.DecisionRecord, error)
}
