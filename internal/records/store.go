package records

import (
	"context"
	"errors"

	"github.com/kitchenbook/kitchenbook/internal/ledger"
	"github.com/kitchenbook/kitchenbook/internal/model"
)

var (
	// ErrNotFound is returned when a record ID does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrValidation wraps every rejected write.
	ErrValidation = errors.New("validation failed")
)

// Store persists records. Implementations never compute VAT; they only hold
// what they are given.
type Store interface {
	// Load returns the records dated within rng, ordered by ID.
	Load(ctx context.Context, rng ledger.DateRange) ([]model.Record, error)
	// Append stores records that already carry their IDs.
	Append(ctx context.Context, recs ...model.Record) error
	// Delete removes one record by ID.
	Delete(ctx context.Context, recordID string) error
	// LoadMonth returns every record filed under year/month.
	LoadMonth(ctx context.Context, year, month int) ([]model.Record, error)
}
