package id

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatRecordID(t *testing.T) {
	tests := []struct {
		year, month, seq int
		want             string
	}{
		{2023, 10, 1, "2023-10-001"},
		{2023, 12, 99, "2023-12-099"},
		{2024, 1, 123, "2024-01-123"},
	}
	for _, tt := range tests {
		got := FormatRecordID(tt.year, tt.month, tt.seq)
		assert.Equal(t, tt.want, got)
	}
}

func TestParseRecordID(t *testing.T) {
	year, month, seq, err := ParseRecordID("2023-10-042")
	require.NoError(t, err)
	assert.Equal(t, 2023, year)
	assert.Equal(t, 10, month)
	assert.Equal(t, 42, seq)
}

func TestParseRecordID_Invalid(t *testing.T) {
	for _, in := range []string{"", "2023-10", "abcd-10-001", "2023-xx-001", "2023-13-001", "2023-10-abc"} {
		_, _, _, err := ParseRecordID(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestRecordIDRoundTrip(t *testing.T) {
	got := FormatRecordID(2023, 7, 5)
	year, month, seq, err := ParseRecordID(got)
	require.NoError(t, err)
	assert.Equal(t, []int{2023, 7, 5}, []int{year, month, seq})
}

func TestInvoiceNumber(t *testing.T) {
	n := FormatInvoiceNumber(2023, 4)
	assert.Equal(t, "INV-2023-004", n)

	year, seq, err := ParseInvoiceNumber(n)
	require.NoError(t, err)
	assert.Equal(t, 2023, year)
	assert.Equal(t, 4, seq)

	for _, bad := range []string{"2023-004", "INV-2023", "INV-x-1", "INV-2023-x"} {
		_, _, err := ParseInvoiceNumber(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestCompareRecordIDs(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"2023-10-999", "2023-10-1000", -1},
		{"2023-10-1000", "2023-10-999", 1},
		{"2023-10-002", "2023-10-002", 0},
		{"2023-10-1000", "2023-11-001", -1},
		{"2022-12-050", "2023-01-001", -1},
		{"bogus", "2023-10-001", 1},
		{"2023-10-001", "bogus", -1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CompareRecordIDs(tt.a, tt.b), "%s vs %s", tt.a, tt.b)
	}
}
