package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/kitchenbook/kitchenbook/internal/ledger"
)

// rangeFlags selects a date range by explicit dates, a fiscal quarter, a
// year or a month. At most one selector may be used.
type rangeFlags struct {
	from    string
	to      string
	quarter string
	year    int
	month   string
}

func (f *rangeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.from, "from", "", "first day of the range (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.to, "to", "", "last day of the range (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.quarter, "quarter", "", "fiscal quarter, e.g. 2023-Q4")
	cmd.Flags().IntVar(&f.year, "year", 0, "calendar year")
	cmd.Flags().StringVar(&f.month, "month", "", "calendar month (YYYY-MM)")
}

// resolve returns the selected range, or fallback when nothing was set.
func (f *rangeFlags) resolve(fallback ledger.DateRange) (ledger.DateRange, error) {
	selectors := 0
	if f.from != "" || f.to != "" {
		selectors++
	}
	if f.quarter != "" {
		selectors++
	}
	if f.year != 0 {
		selectors++
	}
	if f.month != "" {
		selectors++
	}
	if selectors > 1 {
		return ledger.DateRange{}, errors.New("use only one of --from/--to, --quarter, --year, --month")
	}

	switch {
	case f.quarter != "":
		q, err := ledger.ParseFiscalQuarter(f.quarter)
		if err != nil {
			return ledger.DateRange{}, err
		}
		return q.Range(), nil
	case f.year != 0:
		return ledger.YearRange(f.year), nil
	case f.month != "":
		t, err := time.Parse("2006-01", f.month)
		if err != nil {
			return ledger.DateRange{}, fmt.Errorf("invalid month %q: want YYYY-MM", f.month)
		}
		return ledger.MonthRange(t.Year(), int(t.Month())), nil
	case f.from != "" || f.to != "":
		from, to := f.from, f.to
		if from == "" {
			from = fallback.Start.Format(ledger.DateFormat)
		}
		if to == "" {
			to = fallback.End.Format(ledger.DateFormat)
		}
		return ledger.ParseDateRange(from, to)
	default:
		return fallback, nil
	}
}

// parseDate parses a --date flag value; empty means today.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return ledger.Day(time.Now()), nil
	}
	t, err := time.Parse(ledger.DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	return t, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid amount %q", s)
	}
	return d, nil
}

func money(d decimal.Decimal) string {
	return ledger.RoundCents(d).StringFixed(2)
}
