package ledger

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var quarterMonths = [4]string{"Jan-Mar", "Apr-Jun", "Jul-Sep", "Oct-Dec"}

var quarterPattern = regexp.MustCompile(`^(\d{4})-?Q([1-4])$`)

// FiscalQuarter is a three-month VAT filing period.
type FiscalQuarter struct {
	Year     int
	Number   int       // 1-4
	Deadline time.Time // last day of the month after the quarter ends
}

// CurrentFiscalQuarter returns the quarter containing ref. Months are
// 1-indexed: January-March is Q1, October-December is Q4, whose deadline
// falls in January of the following year.
func CurrentFiscalQuarter(ref time.Time) FiscalQuarter {
	n := (int(ref.Month())-1)/3 + 1
	q, _ := NewFiscalQuarter(ref.Year(), n)
	return q
}

// NewFiscalQuarter returns quarter n (1-4) of year.
func NewFiscalQuarter(year, n int) (FiscalQuarter, error) {
	if n < 1 || n > 4 {
		return FiscalQuarter{}, fmt.Errorf("quarter %d out of range 1-4", n)
	}
	// Day 0 of month 3n+2 is the last day of month 3n+1; month 14 rolls
	// over into the next year, giving January 31 for Q4.
	deadline := time.Date(year, time.Month(3*n+2), 0, 0, 0, 0, 0, time.UTC)
	return FiscalQuarter{Year: year, Number: n, Deadline: deadline}, nil
}

// ParseFiscalQuarter accepts "2023-Q4" or "2023Q4".
func ParseFiscalQuarter(s string) (FiscalQuarter, error) {
	m := quarterPattern.FindStringSubmatch(strings.ToUpper(strings.TrimSpace(s)))
	if m == nil {
		return FiscalQuarter{}, fmt.Errorf("invalid quarter %q: want YYYY-QN", s)
	}
	year, _ := strconv.Atoi(m[1])
	n, _ := strconv.Atoi(m[2])
	return NewFiscalQuarter(year, n)
}

// Label is the human-readable name, e.g. "Q4 (Oct-Dec)".
func (q FiscalQuarter) Label() string {
	return fmt.Sprintf("Q%d (%s)", q.Number, quarterMonths[q.Number-1])
}

// DeadlineString formats the filing deadline, e.g. "January 31, 2024".
func (q FiscalQuarter) DeadlineString() string {
	return q.Deadline.Format("January 2, 2006")
}

// Range is the inclusive set of days the quarter covers.
func (q FiscalQuarter) Range() DateRange {
	start := time.Date(q.Year, time.Month(3*(q.Number-1)+1), 1, 0, 0, 0, 0, time.UTC)
	return DateRange{Start: start, End: start.AddDate(0, 3, -1)}
}

func (q FiscalQuarter) String() string {
	return fmt.Sprintf("%d-Q%d", q.Year, q.Number)
}
