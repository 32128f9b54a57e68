// Package receipt validates receipt-scanner output before it becomes an
// expense record. The scanner answers with a small JSON object; anything that
// does not fit the expected shape is rejected here.
package receipt

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kitchenbook/kitchenbook/internal/ledger"
	"github.com/kitchenbook/kitchenbook/internal/model"
	"github.com/kitchenbook/kitchenbook/internal/records"
)

// ErrMalformedScan is returned for scanner output that cannot be trusted.
var ErrMalformedScan = errors.New("malformed receipt scan")

// DefaultRate applies when the scanner reports no VAT rate.
const DefaultRate = 21

// DefaultCategory applies when the scanner reports no category.
const DefaultCategory = "other"

// ReferencePrefix starts every scan reference.
const ReferencePrefix = "scan_"

// Scan is a validated scanner result.
type Scan struct {
	Amount      decimal.Decimal
	VATRate     int
	Description string
	Category    string
	// Date is zero when the scanner could not read one.
	Date time.Time
}

type rawScan struct {
	Amount      json.Number `json:"amount"`
	VATRate     json.Number `json:"vatRate"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	Date        string      `json:"date"`
}

// Parse decodes and validates a scanner response.
func Parse(data []byte) (Scan, error) {
	var raw rawScan
	if err := json.Unmarshal(data, &raw); err != nil {
		return Scan{}, fmt.Errorf("%w: %v", ErrMalformedScan, err)
	}

	if raw.Amount == "" {
		return Scan{}, fmt.Errorf("%w: amount is missing", ErrMalformedScan)
	}
	amount, err := decimal.NewFromString(raw.Amount.String())
	if err != nil {
		return Scan{}, fmt.Errorf("%w: amount %q: %v", ErrMalformedScan, raw.Amount, err)
	}
	if amount.IsNegative() {
		return Scan{}, fmt.Errorf("%w: amount %s is negative", ErrMalformedScan, amount)
	}
	if !amount.Equal(amount.Truncate(2)) {
		return Scan{}, fmt.Errorf("%w: amount %s has more than 2 decimal places", ErrMalformedScan, amount)
	}

	rate, err := parseRate(raw.VATRate)
	if err != nil {
		return Scan{}, err
	}

	var date time.Time
	if s := strings.TrimSpace(raw.Date); s != "" {
		date, err = time.Parse(ledger.DateFormat, s)
		if err != nil {
			return Scan{}, fmt.Errorf("%w: date %q: %v", ErrMalformedScan, s, err)
		}
	}

	return Scan{
		Amount:      amount,
		VATRate:     rate,
		Description: strings.TrimSpace(raw.Description),
		Category:    normalizeCategory(raw.Category),
		Date:        date,
	}, nil
}

// parseRate accepts whole-number rates, including float forms like 9.0.
func parseRate(n json.Number) (int, error) {
	if n == "" {
		return DefaultRate, nil
	}
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return 0, fmt.Errorf("%w: vatRate %q: %v", ErrMalformedScan, n, err)
	}
	if !d.IsInteger() {
		return 0, fmt.Errorf("%w: vatRate %s is not a whole number", ErrMalformedScan, d)
	}
	rate := int(d.IntPart())
	if err := ledger.CheckRate(rate); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrMalformedScan, err)
	}
	return rate, nil
}

// normalizeCategory maps scanner labels like "Platform Fees" onto category
// names like platform-fees.
func normalizeCategory(s string) string {
	s = strings.Join(strings.Fields(strings.ToLower(s)), "-")
	if s == "" {
		return DefaultCategory
	}
	return s
}

// VAT returns the VAT included in the scanned amount.
func (s Scan) VAT() decimal.Decimal {
	v, _ := ledger.VATPortion(s.Amount, s.VATRate)
	return v
}

// Record turns the scan into expense params. today is used when the receipt
// carried no date.
func (s Scan) Record(today time.Time) records.AddParams {
	date := s.Date
	if date.IsZero() {
		date = today
	}
	desc := s.Description
	if desc == "" {
		desc = "Scanned receipt"
	}
	return records.AddParams{
		Date:        date,
		Kind:        model.KindExpense,
		Description: desc,
		Category:    s.Category,
		Gross:       s.Amount,
		VATRate:     s.VATRate,
		Source:      model.SourceScan,
		Reference:   NewReference(),
	}
}

// NewReference returns a unique scan reference.
func NewReference() string {
	return ReferencePrefix + uuid.NewString()
}
