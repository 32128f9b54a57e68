package ledger

import (
	"errors"
	"fmt"
	"time"
)

// DateFormat is the ISO-8601 calendar date layout used on every boundary.
const DateFormat = "2006-01-02"

// ErrInvalidRange is returned by DateRange.Validate when start is after end.
var ErrInvalidRange = errors.New("invalid date range")

// DateRange is an inclusive range of calendar days.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange truncates both bounds to whole days.
func NewDateRange(start, end time.Time) DateRange {
	return DateRange{Start: Day(start), End: Day(end)}
}

// ParseDateRange parses two "YYYY-MM-DD" bounds.
func ParseDateRange(start, end string) (DateRange, error) {
	s, err := time.Parse(DateFormat, start)
	if err != nil {
		return DateRange{}, fmt.Errorf("parsing start date %q: %w", start, err)
	}
	e, err := time.Parse(DateFormat, end)
	if err != nil {
		return DateRange{}, fmt.Errorf("parsing end date %q: %w", end, err)
	}
	return NewDateRange(s, e), nil
}

// MonthRange returns the range covering one calendar month.
func MonthRange(year, month int) DateRange {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return DateRange{Start: start, End: start.AddDate(0, 1, -1)}
}

// YearRange returns the range covering one calendar year.
func YearRange(year int) DateRange {
	return DateRange{
		Start: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC),
	}
}

// AllTime covers every date a record can reasonably carry.
func AllTime() DateRange {
	return DateRange{
		Start: time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC),
	}
}

// Valid reports whether Start is not after End.
func (r DateRange) Valid() bool {
	return !r.Start.After(r.End)
}

// Validate returns ErrInvalidRange for an inverted range.
func (r DateRange) Validate() error {
	if !r.Valid() {
		return fmt.Errorf("%w: %s is after %s", ErrInvalidRange, r.Start.Format(DateFormat), r.End.Format(DateFormat))
	}
	return nil
}

// Contains reports whether the day of t lies within the range, bounds included.
func (r DateRange) Contains(t time.Time) bool {
	d := Day(t)
	return !d.Before(Day(r.Start)) && !d.After(Day(r.End))
}

// OverlapsMonth reports whether any day of year/month lies in the range.
func (r DateRange) OverlapsMonth(year, month int) bool {
	m := MonthRange(year, month)
	return !m.Start.After(Day(r.End)) && !m.End.Before(Day(r.Start))
}

func (r DateRange) String() string {
	return r.Start.Format(DateFormat) + ".." + r.End.Format(DateFormat)
}

// Day drops the time of day, keeping the calendar date in UTC.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
