package records

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/kitchenbook/kitchenbook/internal/id"
	"github.com/kitchenbook/kitchenbook/internal/ledger"
	"github.com/kitchenbook/kitchenbook/internal/model"
)

// Rule names a record check.
type Rule string

const (
	RuleKind      Rule = "kind"
	RuleDate      Rule = "date"
	RuleAmount    Rule = "amount"
	RuleRate      Rule = "vat_rate"
	RuleCategory  Rule = "category"
	RuleID        Rule = "id"
	RuleDuplicate Rule = "duplicate"
)

// ValidationError describes a single failed check.
type ValidationError struct {
	Rule        Rule
	RecordID    string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s [%s]: %s", e.Rule, e.RecordID, e.Description)
}

// CategoryChecker tests whether a category exists for a kind of record.
type CategoryChecker interface {
	Allows(name string, kind model.Kind) bool
}

var hundred = decimal.NewFromInt(100)

// ValidateRecord checks one record before it is stored.
func ValidateRecord(rec model.Record, cats CategoryChecker) []ValidationError {
	var errs []ValidationError
	add := func(rule Rule, format string, args ...any) {
		errs = append(errs, ValidationError{Rule: rule, RecordID: rec.ID, Description: fmt.Sprintf(format, args...)})
	}

	if !rec.Kind.Valid() {
		add(RuleKind, "unknown kind %q", rec.Kind)
	}

	if rec.Date.IsZero() {
		add(RuleDate, "date is required")
	}

	if rec.Gross.IsNegative() {
		add(RuleAmount, "gross %s is negative", rec.Gross)
	}
	// Currency amounts carry at most 2 decimal places.
	if !rec.Gross.Mul(hundred).Equal(rec.Gross.Mul(hundred).Floor()) {
		add(RuleAmount, "gross %s has more than 2 decimal places", rec.Gross)
	}

	if err := ledger.CheckRate(rec.VATRate); err != nil {
		add(RuleRate, "%v", err)
	}

	if strings.TrimSpace(rec.Category) == "" {
		add(RuleCategory, "category is required")
	} else if cats != nil && rec.Kind.Valid() && !cats.Allows(rec.Category, rec.Kind) {
		add(RuleCategory, "unknown %s category %q", rec.Kind, rec.Category)
	}

	return errs
}

// ValidateMonth checks that a month's records carry unique IDs that belong to
// year/month and match their dates.
func ValidateMonth(recs []model.Record, year, month int) []ValidationError {
	var errs []ValidationError
	seen := make(map[string]bool, len(recs))
	for _, rec := range recs {
		if seen[rec.ID] {
			errs = append(errs, ValidationError{Rule: RuleDuplicate, RecordID: rec.ID, Description: "duplicate record ID"})
		}
		seen[rec.ID] = true

		y, m, _, err := id.ParseRecordID(rec.ID)
		if err != nil {
			errs = append(errs, ValidationError{Rule: RuleID, RecordID: rec.ID, Description: err.Error()})
			continue
		}
		if y != year || m != month {
			errs = append(errs, ValidationError{
				Rule:        RuleID,
				RecordID:    rec.ID,
				Description: fmt.Sprintf("ID not in %04d-%02d", year, month),
			})
		}
		if rec.Date.Year() != year || int(rec.Date.Month()) != month {
			errs = append(errs, ValidationError{
				Rule:        RuleDate,
				RecordID:    rec.ID,
				Description: fmt.Sprintf("date %s not in %04d-%02d", rec.Date.Format(ledger.DateFormat), year, month),
			})
		}
	}
	return errs
}

func joinErrors(errs []ValidationError) error {
	msgs := make([]string, len(errs))
	for i, ve := range errs {
		msgs[i] = ve.Error()
	}
	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(msgs, "; "))
}
