package memory

import (
	"context"
	"sync"

	"verigate/internal/verification/models"
	"verigate/internal/verification/store"
)

// ErrNotFound is returned when a decision record is not found.
var ErrNotFound = store.ErrNotFound

// InMemory stores decision records in memory.
//
// The mutex makes each Put an atomic whole-record replacement; both Put and
// Get work on copies so callers can never mutate shared state or observe a
// half-written record.
type InMemory struct {
	mu        sync.RWMutex
	decisions map[string]models.DecisionRecord
}

// Ensure InMemory implements DecisionStore
var _ store.DecisionStore = (*InMemory)(nil)

// NewInMemory creates an in-memory decision store.
func NewInMemory() *InMemory {
	return &InMemory{
		decisions: make(map[string]models.DecisionRecord),
	}
}

// Put stores the record, overwriting any prior record for the same session id.
func (s *InMemory) Put(_ context.Context, record *models.DecisionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.decisions[record.SessionID] = *record
	return nil
}

// Get retrieves the record for a session id.
func (s *InMemory) Get(_ context.Context, sessionID string) (*models.DecisionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if record, ok := s.decisions[sessionID]; ok {
		return &record, nil
	}
	return nil, ErrNotFound
}
