package records

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kitchenbook/kitchenbook/internal/ledger"
	"github.com/kitchenbook/kitchenbook/internal/model"
)

// Header is the CSV header for records.csv.
const Header = "id,date,kind,description,category,gross,vat_rate,counterparty,source,reference,notes"

const (
	numFields = 11
	colID     = 0
	colDate   = 1
	colKind   = 2
	colDesc   = 3
	colCat    = 4
	colGross  = 5
	colRate   = 6
	colCparty = 7
	colSource = 8
	colRef    = 9
	colNotes  = 10
)

// ReadRecords reads all records from a records.csv reader.
func ReadRecords(r io.Reader) ([]model.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading records CSV: %w", err)
	}

	if len(rows) == 0 {
		return nil, nil
	}

	// Skip header row.
	var recs []model.Record
	for i, row := range rows[1:] {
		rec, err := UnmarshalRecord(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// WriteRecords writes records to a records.csv writer (including header).
func WriteRecords(w io.Writer, recs []model.Record) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, rec := range recs {
		if err := cw.Write(MarshalRecord(rec)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// AppendRecords appends records to an existing records.csv writer (no header).
func AppendRecords(w io.Writer, recs []model.Record) error {
	cw := csv.NewWriter(w)

	for i, rec := range recs {
		if err := cw.Write(MarshalRecord(rec)); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalRecord converts a Record to a CSV row.
func MarshalRecord(rec model.Record) []string {
	row := make([]string, numFields)
	row[colID] = rec.ID
	row[colDate] = rec.Date.Format(ledger.DateFormat)
	row[colKind] = string(rec.Kind)
	row[colDesc] = rec.Description
	row[colCat] = rec.Category
	row[colGross] = rec.Gross.StringFixed(2)
	row[colRate] = strconv.Itoa(rec.VATRate)
	row[colCparty] = rec.Counterparty
	row[colSource] = string(rec.Source)
	row[colRef] = rec.Reference
	row[colNotes] = rec.Notes
	return row
}

// UnmarshalRecord converts a CSV row to a Record.
func UnmarshalRecord(row []string) (model.Record, error) {
	if len(row) != numFields {
		return model.Record{}, fmt.Errorf("expected %d fields, got %d", numFields, len(row))
	}

	date, err := time.Parse(ledger.DateFormat, row[colDate])
	if err != nil {
		return model.Record{}, fmt.Errorf("parsing date %q: %w", row[colDate], err)
	}

	gross, err := decimal.NewFromString(row[colGross])
	if err != nil {
		return model.Record{}, fmt.Errorf("parsing gross %q: %w", row[colGross], err)
	}

	rate, err := strconv.Atoi(row[colRate])
	if err != nil {
		return model.Record{}, fmt.Errorf("parsing vat_rate %q: %w", row[colRate], err)
	}

	return model.Record{
		ID:           row[colID],
		Date:         date,
		Kind:         model.Kind(row[colKind]),
		Description:  row[colDesc],
		Category:     row[colCat],
		Gross:        gross,
		VATRate:      rate,
		Counterparty: row[colCparty],
		Source:       model.Source(row[colSource]),
		Reference:    row[colRef],
		Notes:        row[colNotes],
	}, nil
}
