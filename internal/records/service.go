package records

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kitchenbook/kitchenbook/internal/id"
	"github.com/kitchenbook/kitchenbook/internal/ledger"
	"github.com/kitchenbook/kitchenbook/internal/log"
	"github.com/kitchenbook/kitchenbook/internal/model"
)

// Service validates records and assigns their IDs before they reach a Store.
type Service struct {
	store  Store
	cats   CategoryChecker
	logger *log.Logger
	mu     sync.Mutex
}

// NewService creates a record Service. cats may be nil to skip category checks.
func NewService(store Store, cats CategoryChecker, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Discard()
	}
	return &Service{store: store, cats: cats, logger: logger.WithComponent(log.ComponentRecords)}
}

// AddParams holds the fields of a new record; the ID is assigned by Add.
type AddParams struct {
	Date         time.Time
	Kind         model.Kind
	Description  string
	Category     string
	Gross        decimal.Decimal
	VATRate      int
	Counterparty string
	Source       model.Source
	Reference    string
	Notes        string
}

func (p AddParams) record() model.Record {
	return model.Record{
		Date:         ledger.Day(p.Date),
		Kind:         p.Kind,
		Description:  p.Description,
		Category:     p.Category,
		Gross:        p.Gross,
		VATRate:      p.VATRate,
		Counterparty: p.Counterparty,
		Source:       p.Source,
		Reference:    p.Reference,
		Notes:        p.Notes,
	}
}

// Add validates and stores one record, returning it with its ID.
func (s *Service) Add(ctx context.Context, params AddParams) (model.Record, error) {
	recs, err := s.AddBatch(ctx, []AddParams{params})
	if err != nil {
		return model.Record{}, err
	}
	return recs[0], nil
}

// AddBatch validates every record first and stores none of them if any is
// rejected. IDs continue each month's sequence in input order.
func (s *Service) AddBatch(ctx context.Context, params []AddParams) ([]model.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var verrs []ValidationError
	recs := make([]model.Record, len(params))
	for i, p := range params {
		recs[i] = p.record()
		verrs = append(verrs, ValidateRecord(recs[i], s.cats)...)
	}
	if len(verrs) > 0 {
		return nil, joinErrors(verrs)
	}

	type ym struct{ year, month int }
	existing := make(map[ym][]model.Record)
	next := make(map[ym]int)
	var order []ym
	for i := range recs {
		year, month := recs[i].Month()
		key := ym{year, month}
		if _, ok := next[key]; !ok {
			monthRecs, err := s.store.LoadMonth(ctx, year, month)
			if err != nil {
				return nil, fmt.Errorf("loading %04d-%02d: %w", year, month, err)
			}
			existing[key] = monthRecs
			next[key] = nextSeq(monthRecs)
			order = append(order, key)
		}
		recs[i].ID = id.FormatRecordID(year, month, next[key])
		next[key]++
		existing[key] = append(existing[key], recs[i])
	}

	for _, key := range order {
		if verrs := ValidateMonth(existing[key], key.year, key.month); len(verrs) > 0 {
			return nil, joinErrors(verrs)
		}
	}

	if err := s.store.Append(ctx, recs...); err != nil {
		return nil, fmt.Errorf("storing records: %w", err)
	}

	for _, rec := range recs {
		s.logger.InfoContext(ctx, "record added",
			log.FieldOperation, log.OpAppend,
			log.FieldRecordID, rec.ID,
			log.FieldKind, string(rec.Kind),
			log.FieldGross, rec.Gross.StringFixed(2),
			log.FieldVATRate, rec.VATRate,
			log.FieldCategory, rec.Category)
	}
	return recs, nil
}

// Delete removes a record by ID.
func (s *Service) Delete(ctx context.Context, recordID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Delete(ctx, recordID); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "record deleted", log.FieldOperation, log.OpDelete, log.FieldRecordID, recordID)
	return nil
}

// List returns the records dated within rng.
func (s *Service) List(ctx context.Context, rng ledger.DateRange) ([]model.Record, error) {
	recs, err := s.store.Load(ctx, rng)
	if err != nil {
		return nil, fmt.Errorf("loading records: %w", err)
	}
	return recs, nil
}

// NextSeq returns the next free sequence number for year/month.
func (s *Service) NextSeq(ctx context.Context, year, month int) (int, error) {
	recs, err := s.store.LoadMonth(ctx, year, month)
	if err != nil {
		return 0, err
	}
	return nextSeq(recs), nil
}

func nextSeq(recs []model.Record) int {
	maxSeq := 0
	for _, rec := range recs {
		_, _, seq, err := id.ParseRecordID(rec.ID)
		if err != nil {
			continue
		}
		if seq > maxSeq {
			maxSeq = seq
		}
	}
	return maxSeq + 1
}
