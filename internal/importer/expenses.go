package importer

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
	"github.com/kitchenbook/kitchenbook/internal/records"
)

// ExpensesParser parses a supplier purchase export:
// date,supplier,invoice,description,category,total,vat_rate
type ExpensesParser struct{}

const (
	expensesNumFields   = 7
	expensesColDate     = 0
	expensesColSupplier = 1
	expensesColInvoice  = 2
	expensesColDesc     = 3
	expensesColCategory = 4
	expensesColTotal    = 5
	expensesColRate     = 6

	expensesFallbackCategory = "other"
)

// Format returns the parser name.
func (p *ExpensesParser) Format() string { return "expenses" }

// Parse reads a supplier purchases CSV.
func (p *ExpensesParser) Parse(r io.Reader) ([]records.AddParams, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = expensesNumFields
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading expenses CSV: %w", err)
	}

	if len(rows) <= 1 {
		return nil, nil
	}

	var out []records.AddParams
	for i, row := range rows[1:] {
		params, err := parseExpenseRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		out = append(out, params)
	}
	return out, nil
}

func parseExpenseRow(row []string) (records.AddParams, error) {
	date, err := time.Parse(ledger.DateFormat, row[expensesColDate])
	if err != nil {
		return records.AddParams{}, fmt.Errorf("parsing date %q: %w", row[expensesColDate], err)
	}

	total, err := decimal.NewFromString(row[expensesColTotal])
	if err != nil {
		return records.AddParams{}, fmt.Errorf("parsing total %q: %w", row[expensesColTotal], err)
	}

	rate, err := strconv.Atoi(row[expensesColRate])
	if err != nil {
		return records.AddParams{}, fmt.Errorf("parsing vat_rate %q: %w", row[expensesColRate], err)
	}

	category := strings.ToLower(strings.TrimSpace(row[expensesColCategory]))
	if category == "" {
		category = expensesFallbackCategory
	}

	supplier := strings.TrimSpace(row[expensesColSupplier])
	return records.AddParams{
		Date:         date,
		Kind:         model.KindExpense,
		Description:  strings.TrimSpace(row[expensesColDesc]),
		Category:     category,
		Gross:        total,
		VATRate:      rate,
		Counterparty: supplier,
		Source:       model.SourceImport,
		Reference:    makeExpenseRef(date, supplier, row[expensesColInvoice], total),
	}, nil
}

// makeExpenseRef creates a reference like exp_20231025_Wholesaler_4500_F1042.
// A purchase without a supplier invoice number has nothing stable to match on
// and gets no reference, so import never treats it as a duplicate.
func makeExpenseRef(date time.Time, supplier, invoice string, total decimal.Decimal) string {
	clean := func(s string, n int) string {
		s = strings.Map(func(r rune) rune {
			if r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
				return r
			}
			return -1
		}, s)
		if len(s) > n {
			s = s[:n]
		}
		return s
	}
	inv := clean(invoice, 16)
	if inv == "" {
		return ""
	}
	cents := total.Shift(2).Round(0).String()
	return fmt.Sprintf("exp_%s_%s_%s_%s", date.Format("20060102"), clean(supplier, 24), cents, inv)
}
