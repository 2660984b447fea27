package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sjperalta/billing-api/internal/models"
)

// ErrStoreIO matches every load/save failure against a backend
var ErrStoreIO = errors.New("record store I/O failure")

// StoreError describes a failed load or save against a backend
type StoreError struct {
	Backend string
	Op      string
	Err     error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s store: %s failed: %v", e.Backend, e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func (e *StoreError) Is(target error) bool { return target == ErrStoreIO }

// RecordStore loads and persists the whole billing table.
//
// Load returns an empty, non-nil table together with a *StoreError when the
// backend cannot be read. Save overwrites the stored table wholesale; two
// concurrent savers race and the last one wins.
type RecordStore interface {
	Load(ctx context.Context) (models.Table, error)
	Save(ctx context.Context, table models.Table) error
}

// MemoryStore keeps the table in process. Used by tests and the CLI dry runs.
type MemoryStore struct {
	mu      sync.Mutex
	table   models.Table
	saves   int
	LoadErr error
	SaveErr error
}

func NewMemoryStore(table models.Table) *MemoryStore {
	return &MemoryStore{table: table.Clone()}
}

func (s *MemoryStore) Load(ctx context.Context) (models.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.LoadErr != nil {
		return models.Table{}, &StoreError{Backend: "memory", Op: "load", Err: s.LoadErr}
	}
	return s.table.Clone(), nil
}

func (s *MemoryStore) Save(ctx context.Context, table models.Table) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SaveErr != nil {
		return &StoreError{Backend: "memory", Op: "save", Err: s.SaveErr}
	}
	s.table = table.Clone()
	s.saves++
	return nil
}

// Saves returns how many successful saves the store has seen
func (s *MemoryStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}
