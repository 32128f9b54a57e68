package commands_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kitchenbook/kitchenbook/internal/auditlog"
	"github.com/kitchenbook/kitchenbook/internal/receipt"
)

func TestReceiptAdd_File(t *testing.T) {
	dir := initProject(t)
	scan := `{"amount": 45.00, "vatRate": 9, "description": "Basmati Rice", "category": "ingredients", "date": "2023-10-25"}`
	path := filepath.Join(dir, "receipts", "rice.json")
	require.NoError(t, os.WriteFile(path, []byte(scan), 0o644))

	out := mustRun(t, dir, "receipt", "add", path, "--supplier", "Wholesaler")
	assert.Contains(t, out, "Added 2023-10-001: expense 45.00 EUR @ 9% (VAT 3.72) ingredients")

	entries, err := auditlog.Read(dir)
	require.NoError(t, err)
	last := entries[len(entries)-1]
	assert.Equal(t, auditlog.ActionScan, last.Action)
	assert.Contains(t, last.Details, receipt.ReferencePrefix)
}

func TestReceiptAdd_Stdin(t *testing.T) {
	dir := initProject(t)

	out, err := runWithInput(t, `{"amount": "120.00", "category": "packaging"}`,
		"--repo", dir, "receipt", "add", "-", "--date", "2023-10-26")
	require.NoError(t, err)
	assert.Contains(t, out, "Added 2023-10-001")
	// No rate in the scan: 21% applies.
	assert.Contains(t, out, "@ 21% (VAT 20.83)")
}

func TestReceiptAdd_Malformed(t *testing.T) {
	dir := initProject(t)

	_, err := runWithInput(t, "Total: 12 EUR", "--repo", dir, "receipt", "add", "-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed receipt scan")

	out := mustRun(t, dir, "record", "list")
	assert.True(t, strings.Contains(out, "No records."))
}

func TestReceiptAdd_UnknownCategory(t *testing.T) {
	dir := initProject(t)

	_, err := runWithInput(t, `{"amount": 10, "category": "fireworks", "date": "2023-10-01"}`,
		"--repo", dir, "receipt", "add", "-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown expense category")

	out, err := runWithInput(t, `{"amount": 10, "category": "fireworks", "date": "2023-10-01"}`,
		"--repo", dir, "receipt", "add", "-", "--category", "other")
	require.NoError(t, err)
	assert.Contains(t, out, "other")
}
