package id

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"
)

// InvoicePrefix starts every outgoing invoice number.
const InvoicePrefix = "INV-"

// FormatRecordID returns a record ID like "2023-10-001".
func FormatRecordID(year, month, seq int) string {
	return fmt.Sprintf("%04d-%02d-%03d", year, month, seq)
}

// ParseRecordID parses "2023-10-001" into year, month, seq.
func ParseRecordID(id string) (year, month, seq int, err error) {
	parts := strings.SplitN(id, "-", 3)
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("invalid record ID format: %q", id)
	}

	year, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid year in record ID %q: %w", id, err)
	}

	month, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid month in record ID %q: %w", id, err)
	}
	if month < 1 || month > 12 {
		return 0, 0, 0, fmt.Errorf("month %d out of range in record ID %q", month, id)
	}

	seq, err = strconv.Atoi(parts[2])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid sequence in record ID %q: %w", id, err)
	}

	return year, month, seq, nil
}

// CompareRecordIDs orders record IDs by year, month and sequence, so
// "2023-10-1000" sorts after "2023-10-999". IDs that do not parse sort after
// valid ones, in string order.
func CompareRecordIDs(a, b string) int {
	ay, am, as, aerr := ParseRecordID(a)
	by, bm, bs, berr := ParseRecordID(b)
	switch {
	case aerr != nil && berr != nil:
		return strings.Compare(a, b)
	case aerr != nil:
		return 1
	case berr != nil:
		return -1
	}
	if c := cmp.Compare(ay, by); c != 0 {
		return c
	}
	if c := cmp.Compare(am, bm); c != 0 {
		return c
	}
	return cmp.Compare(as, bs)
}

// FormatInvoiceNumber returns an invoice number like "INV-2023-004".
func FormatInvoiceNumber(year, seq int) string {
	return fmt.Sprintf("%s%04d-%03d", InvoicePrefix, year, seq)
}

// ParseInvoiceNumber parses "INV-2023-004" into year and seq.
func ParseInvoiceNumber(number string) (year, seq int, err error) {
	rest, ok := strings.CutPrefix(number, InvoicePrefix)
	if !ok {
		return 0, 0, fmt.Errorf("invalid invoice number %q", number)
	}
	parts := strings.SplitN(rest, "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid invoice number %q", number)
	}
	year, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid year in invoice number %q: %w", number, err)
	}
	seq, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid sequence in invoice number %q: %w", number, err)
	}
	return year, seq, nil
}
