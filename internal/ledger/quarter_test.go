package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrentFiscalQuarter(t *testing.T) {
	tests := []struct {
		month        int
		wantLabel    string
		wantDeadline string
	}{
		{1, "Q1 (Jan-Mar)", "April 30, 2023"},
		{3, "Q1 (Jan-Mar)", "April 30, 2023"},
		{4, "Q2 (Apr-Jun)", "July 31, 2023"},
		{6, "Q2 (Apr-Jun)", "July 31, 2023"},
		{7, "Q3 (Jul-Sep)", "October 31, 2023"},
		{9, "Q3 (Jul-Sep)", "October 31, 2023"},
		{10, "Q4 (Oct-Dec)", "January 31, 2024"},
		{12, "Q4 (Oct-Dec)", "January 31, 2024"},
	}
	for _, tt := range tests {
		q := CurrentFiscalQuarter(date(2023, tt.month, 15))
		assert.Equal(t, tt.wantLabel, q.Label(), "month %d", tt.month)
		assert.Equal(t, tt.wantDeadline, q.DeadlineString(), "month %d", tt.month)
	}
}

func TestCurrentFiscalQuarter_DecemberDeadlineNextYear(t *testing.T) {
	q := CurrentFiscalQuarter(date(2023, 12, 31))
	assert.Equal(t, 4, q.Number)
	assert.Equal(t, 2023, q.Year)
	assert.Equal(t, date(2024, 1, 31), q.Deadline)
}

func TestCurrentFiscalQuarter_JanuarySameYear(t *testing.T) {
	q := CurrentFiscalQuarter(date(2024, 1, 1))
	assert.Equal(t, "Q1 (Jan-Mar)", q.Label())
	assert.Equal(t, date(2024, 4, 30), q.Deadline)
}

func TestFiscalQuarter_Range(t *testing.T) {
	q, err := NewFiscalQuarter(2023, 4)
	require.NoError(t, err)
	rng := q.Range()
	assert.Equal(t, date(2023, 10, 1), rng.Start)
	assert.Equal(t, date(2023, 12, 31), rng.End)

	q1, err := NewFiscalQuarter(2024, 1)
	require.NoError(t, err)
	assert.Equal(t, date(2024, 3, 31), q1.Range().End)
}

func TestParseFiscalQuarter(t *testing.T) {
	for _, in := range []string{"2023-Q4", "2023Q4", "2023-q4", " 2023-Q4 "} {
		q, err := ParseFiscalQuarter(in)
		require.NoError(t, err, "input %q", in)
		assert.Equal(t, "2023-Q4", q.String())
	}

	for _, in := range []string{"", "2023", "2023-Q5", "Q4-2023", "23-Q1"} {
		_, err := ParseFiscalQuarter(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestNewFiscalQuarter_OutOfRange(t *testing.T) {
	_, err := NewFiscalQuarter(2023, 0)
	assert.Error(t, err)
	_, err = NewFiscalQuarter(2023, 5)
	assert.Error(t, err)
}
