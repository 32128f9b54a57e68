package records

import (
	"context"
	"fmt"
	"sync"

	"github.com/kitchenbook/kitchenbook/internal/ledger"
	"github.com/kitchenbook/kitchenbook/internal/model"
)

// MemoryStore keeps records in process memory.
type MemoryStore struct {
	mu   sync.Mutex
	recs []model.Record
}

// NewMemoryStore returns a store seeded with recs.
func NewMemoryStore(recs ...model.Record) *MemoryStore {
	return &MemoryStore{recs: append([]model.Record(nil), recs...)}
}

// Load returns copies of the records dated within rng.
func (s *MemoryStore) Load(_ context.Context, rng ledger.DateRange) ([]model.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !rng.Valid() {
		return nil, nil
	}
	var out []model.Record
	for _, rec := range s.recs {
		if rng.Contains(rec.Date) {
			out = append(out, rec)
		}
	}
	sortByID(out)
	return out, nil
}

// LoadMonth returns the records whose IDs are filed under year/month.
func (s *MemoryStore) LoadMonth(_ context.Context, year, month int) ([]model.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.Record
	for _, rec := range s.recs {
		if y, m := rec.Month(); y == year && m == month {
			out = append(out, rec)
		}
	}
	sortByID(out)
	return out, nil
}

// Append stores recs.
func (s *MemoryStore) Append(_ context.Context, recs ...model.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs = append(s.recs, recs...)
	return nil
}

// Delete removes one record by ID.
func (s *MemoryStore) Delete(_ context.Context, recordID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, rec := range s.recs {
		if rec.ID == recordID {
			s.recs = append(s.recs[:i], s.recs[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrNotFound, recordID)
}
