package invoice

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEntry(t *testing.T, number string) Entry {
	t.Helper()
	inv, err := Build(number, "Corporate Event A", oct20,
		[]LineItem{{Description: "Catering Service", Quantity: dec("1"), UnitPrice: dec("450")}}, 21, 14)
	require.NoError(t, err)
	return inv.Entry("2023-10-001")
}

func TestRegister_EmptyWhenMissing(t *testing.T) {
	entries, err := NewRegister(t.TempDir()).List()
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestRegister_AddAndList(t *testing.T) {
	root := t.TempDir()
	reg := NewRegister(root)

	require.NoError(t, reg.Add(sampleEntry(t, "INV-2023-001")))
	require.NoError(t, reg.Add(sampleEntry(t, "INV-2023-002")))

	entries, err := reg.List()
	require.NoError(t, err)
	require.Len(t, entries, 2)

	e := entries[0]
	assert.Equal(t, "INV-2023-001", e.Number)
	assert.Equal(t, "Corporate Event A", e.Client)
	assert.Equal(t, StatusDraft, e.Status)
	assert.Equal(t, 21, e.VATRate)
	assert.Equal(t, "450.00", e.Subtotal.StringFixed(2))
	assert.Equal(t, "94.50", e.VAT.StringFixed(2))
	assert.Equal(t, "544.50", e.Total.StringFixed(2))
	assert.True(t, e.DueDate.Equal(time.Date(2023, 11, 3, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2023-10-001", e.RecordID)

	_, err = os.Stat(filepath.Join(root, "invoices", "invoices.csv"))
	assert.NoError(t, err)
}

func TestRegister_DuplicateNumber(t *testing.T) {
	reg := NewRegister(t.TempDir())
	require.NoError(t, reg.Add(sampleEntry(t, "INV-2023-001")))

	err := reg.Add(sampleEntry(t, "INV-2023-001"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestRegister_SetStatus(t *testing.T) {
	reg := NewRegister(t.TempDir())
	require.NoError(t, reg.Add(sampleEntry(t, "INV-2023-001")))
	require.NoError(t, reg.Add(sampleEntry(t, "INV-2023-002")))

	e, err := reg.SetStatus("INV-2023-002", StatusPaid)
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, e.Status)

	entries, err := reg.List()
	require.NoError(t, err)
	assert.Equal(t, StatusDraft, entries[0].Status)
	assert.Equal(t, StatusPaid, entries[1].Status)

	_, err = reg.SetStatus("INV-2023-009", StatusSent)
	assert.True(t, errors.Is(err, ErrUnknownInvoice))
}

func TestEntry_Overdue(t *testing.T) {
	e := sampleEntry(t, "INV-2023-001")
	due := e.DueDate
	assert.False(t, e.Overdue(due.AddDate(0, 0, 30)), "drafts are never overdue")

	e.Status = StatusSent
	assert.False(t, e.Overdue(due), "due date itself is not overdue")
	assert.True(t, e.Overdue(due.AddDate(0, 0, 1)))

	e.Status = StatusPaid
	assert.False(t, e.Overdue(due.AddDate(0, 0, 30)))
}

func TestParseStatus(t *testing.T) {
	for in, want := range map[string]Status{"draft": StatusDraft, "Sent": StatusSent, " PAID ": StatusPaid} {
		got, err := ParseStatus(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseStatus("cancelled")
	assert.Error(t, err)

	assert.True(t, StatusSent.Outstanding())
	assert.False(t, StatusPaid.Outstanding())
}

func TestUnmarshalEntry_Errors(t *testing.T) {
	good := MarshalEntry(sampleEntry(t, "INV-2023-001"))

	tests := []struct {
		name string
		col  int
		val  string
		want string
	}{
		{"bad date", colDate, "20/10/2023", "parsing date"},
		{"bad due", colDueDate, "soon", "parsing due_date"},
		{"bad rate", colRate, "x", "parsing vat_rate"},
		{"bad total", colTotal, "lots", "parsing total"},
		{"bad status", colStatus, "lost", "unknown invoice status"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := append([]string(nil), good...)
			row[tt.col] = tt.val
			_, err := UnmarshalEntry(row)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	_, err := UnmarshalEntry(good[:3])
	assert.Error(t, err)
}
