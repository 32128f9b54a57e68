package commands_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kitchenbook/kitchenbook/internal/auditlog"
)

func TestInvoiceAdd(t *testing.T) {
	dir := initProject(t)

	out := mustRun(t, dir, "invoice", "add", "--client", "Corporate Event A", "--date", "2023-10-20",
		"--item", "Catering Service:1:450", "--rate", "21")
	assert.Contains(t, out, "Invoice INV-2023-001 for Corporate Event A")
	assert.Contains(t, out, "due 2023-11-03")
	assert.Contains(t, out, "94.50")
	assert.Contains(t, out, "544.50")
	assert.Contains(t, out, "Recorded as 2023-10-001")

	out = mustRun(t, dir, "invoice", "add", "--client", "Office BV", "--date", "2023-11-02",
		"--item", "Buffet:40:12.50", "--item", "Delivery:15")
	assert.Contains(t, out, "Invoice INV-2023-002")
	// catering defaults to 9%
	assert.Contains(t, out, "VAT 9%")
	assert.Contains(t, out, "561.35")

	out = mustRun(t, dir, "record", "list", "--kind", "sale")
	assert.Contains(t, out, "2 records")

	out = mustRun(t, dir, "vat", "quarter", "--date", "2023-11-30")
	// 94.50 + 46.35
	assert.Contains(t, out, "140.85 to pay")

	entries, err := auditlog.Read(dir)
	require.NoError(t, err)
	assert.Equal(t, auditlog.ActionInvoice, entries[len(entries)-1].Action)
}

func TestInvoiceListAndMark(t *testing.T) {
	dir := initProject(t)

	out := mustRun(t, dir, "invoice", "list")
	assert.Contains(t, out, "No invoices.")

	mustRun(t, dir, "invoice", "add", "--client", "Corporate Event A", "--date", "2023-10-20",
		"--item", "Catering Service:1:450", "--rate", "21")
	mustRun(t, dir, "invoice", "add", "--client", "Office BV", "--date", "2023-11-02",
		"--item", "Lunch:80", "--status", "sent")

	out = mustRun(t, dir, "invoice", "list")
	assert.Contains(t, out, "INV-2023-001")
	assert.Contains(t, out, "draft")
	assert.NotContains(t, out, "draft (overdue)")
	assert.Contains(t, out, "INV-2023-002")
	assert.Contains(t, out, "sent (overdue)")
	assert.Contains(t, out, "2 invoices")

	out = mustRun(t, dir, "invoice", "mark", "INV-2023-002", "paid")
	assert.Contains(t, out, "INV-2023-002 is now paid")

	out = mustRun(t, dir, "invoice", "list", "--outstanding")
	assert.Contains(t, out, "INV-2023-001")
	assert.NotContains(t, out, "INV-2023-002")
	assert.Contains(t, out, "1 invoices")

	entries, err := auditlog.Read(dir)
	require.NoError(t, err)
	last := entries[len(entries)-1]
	assert.Equal(t, auditlog.ActionInvoice, last.Action)
	assert.Equal(t, "2023-11-001", last.RecordID)
	assert.Contains(t, last.Details, "marked paid")
}

func TestInvoiceMark_Errors(t *testing.T) {
	dir := initProject(t)

	_, err := runKitchenbook(t, "--repo", dir, "invoice", "mark", "INV-2023-001", "paid")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invoice not found")

	_, err = runKitchenbook(t, "--repo", dir, "invoice", "mark", "INV-2023-001", "lost")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown invoice status")
}

func TestInvoiceAdd_NumberingPerYear(t *testing.T) {
	dir := initProject(t)
	mustRun(t, dir, "invoice", "add", "--client", "A", "--date", "2023-12-20", "--item", "Dinner:100")

	out := mustRun(t, dir, "invoice", "add", "--client", "B", "--date", "2024-01-05", "--item", "Lunch:50")
	assert.Contains(t, out, "INV-2024-001")
}

func TestInvoiceAdd_Errors(t *testing.T) {
	dir := initProject(t)

	_, err := runKitchenbook(t, "--repo", dir, "invoice", "add", "--client", "A", "--item", "bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid line item")

	_, err = runKitchenbook(t, "--repo", dir, "invoice", "add", "--client", "A")
	require.Error(t, err)

	_, err = runKitchenbook(t, "--repo", dir, "invoice", "add", "--client", "A", "--item", "x:10", "--rate", "5")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid VAT rate")
}
