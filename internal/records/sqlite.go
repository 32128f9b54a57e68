package records

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kitchenbook/kitchenbook/internal/ledger"
	"github.com/kitchenbook/kitchenbook/internal/log"
	"github.com/kitchenbook/kitchenbook/internal/model"

	_ "modernc.org/sqlite"
)

const recordColumns = "id, date, kind, description, category, gross, vat_rate, counterparty, source, reference, notes"

// SQLiteStore keeps records in a SQLite database. Amounts are stored as
// decimal text and dates as ISO-8601 text, so range queries compare strings.
type SQLiteStore struct {
	db     *sql.DB
	logger *log.Logger
}

// NewSQLiteStore opens (creating if needed) the database at dbPath and
// migrates it.
func NewSQLiteStore(dbPath string, logger *log.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentStorage)

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Debug("sqlite store ready", log.FieldOperation, log.OpMigrate, log.FieldPath, dbPath)

	return &SQLiteStore{db: db, logger: logger}, nil
}

// idOrder sorts IDs numerically by sequence within each month.
const idOrder = "substr(id, 1, 8), length(id), id"

// Close releases the database.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Load returns the records dated within rng.
func (s *SQLiteStore) Load(ctx context.Context, rng ledger.DateRange) ([]model.Record, error) {
	if !rng.Valid() {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+recordColumns+" FROM records WHERE date >= ? AND date <= ? ORDER BY "+idOrder,
		rng.Start.Format(ledger.DateFormat), rng.End.Format(ledger.DateFormat))
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	recs, err := scanRecords(rows)
	if err != nil {
		return nil, err
	}
	s.logger.DebugContext(ctx, "loaded records",
		log.FieldOperation, log.OpLoad,
		log.FieldRange, rng.String(),
		log.FieldCount, len(recs))
	return recs, nil
}

// LoadMonth returns every record filed under year/month.
func (s *SQLiteStore) LoadMonth(ctx context.Context, year, month int) ([]model.Record, error) {
	prefix := fmt.Sprintf("%04d-%02d-", year, month)
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+recordColumns+" FROM records WHERE substr(id, 1, 8) = ? ORDER BY "+idOrder, prefix)
	if err != nil {
		return nil, fmt.Errorf("query month %s: %w", prefix, err)
	}
	return scanRecords(rows)
}

// Append inserts records in one transaction.
func (s *SQLiteStore) Append(ctx context.Context, recs ...model.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO records ("+recordColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range recs {
		if _, err := stmt.ExecContext(ctx,
			rec.ID,
			rec.Date.Format(ledger.DateFormat),
			string(rec.Kind),
			rec.Description,
			rec.Category,
			rec.Gross.StringFixed(2),
			rec.VATRate,
			rec.Counterparty,
			string(rec.Source),
			rec.Reference,
			rec.Notes,
		); err != nil {
			return fmt.Errorf("insert record %s: %w", rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	s.logger.DebugContext(ctx, "appended records", log.FieldOperation, log.OpAppend, log.FieldCount, len(recs))
	return nil
}

// Delete removes one record by ID.
func (s *SQLiteStore) Delete(ctx context.Context, recordID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM records WHERE id = ?", recordID)
	if err != nil {
		return fmt.Errorf("delete record %s: %w", recordID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete record %s: %w", recordID, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, recordID)
	}
	s.logger.DebugContext(ctx, "deleted record", log.FieldOperation, log.OpDelete, log.FieldRecordID, recordID)
	return nil
}

func scanRecords(rows *sql.Rows) ([]model.Record, error) {
	defer rows.Close()

	var recs []model.Record
	for rows.Next() {
		var rec model.Record
		var date, kind, gross, src string
		if err := rows.Scan(&rec.ID, &date, &kind, &rec.Description, &rec.Category, &gross,
			&rec.VATRate, &rec.Counterparty, &src, &rec.Reference, &rec.Notes); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}

		d, err := time.Parse(ledger.DateFormat, date)
		if err != nil {
			return nil, fmt.Errorf("record %s: parsing date %q: %w", rec.ID, date, err)
		}
		g, err := decimal.NewFromString(gross)
		if err != nil {
			return nil, fmt.Errorf("record %s: parsing gross %q: %w", rec.ID, gross, err)
		}

		rec.Date = d
		rec.Kind = model.Kind(kind)
		rec.Gross = g
		rec.Source = model.Source(src)
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return recs, nil
}

