package commands_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVATQuarter_Scenario(t *testing.T) {
	dir := initProject(t)
	seedOctober(t, dir)

	out := mustRun(t, dir, "vat", "quarter", "--date", "2023-12-15")
	assert.Contains(t, out, "Q4 (Oct-Dec) 2023")
	assert.Contains(t, out, "January 31, 2024")
	assert.Contains(t, out, "94.50")
	assert.Contains(t, out, "3.72")
	assert.Contains(t, out, "90.78 to pay")
}

func TestVATQuarter_EmptyQuarter(t *testing.T) {
	dir := initProject(t)
	seedOctober(t, dir)

	out := mustRun(t, dir, "vat", "quarter", "--date", "2024-01-10")
	assert.Contains(t, out, "Q1 (Jan-Mar) 2024")
	assert.Contains(t, out, "April 30, 2024")
	assert.Contains(t, out, "Net position:    0.00")
}

func TestVATReport_Refund(t *testing.T) {
	dir := initProject(t)
	mustRun(t, dir, "expense", "add", "--date", "2023-07-03", "--amount", "1210", "--category", "equipment")

	out := mustRun(t, dir, "vat", "report", "--quarter", "2023-Q3")
	assert.Contains(t, out, "210.00 refund")
}

func TestVATReport_Month(t *testing.T) {
	dir := initProject(t)
	seedOctober(t, dir)
	mustRun(t, dir, "expense", "add", "--date", "2023-10-26", "--amount", "120.00", "--category", "packaging")

	out := mustRun(t, dir, "vat", "report", "--month", "2023-10")
	assert.Contains(t, out, "VAT report 2023-10-01..2023-10-31 (3 records)")
	assert.Contains(t, out, "544.50")
	// 94.50 - (3.72 + 20.83)
	assert.Contains(t, out, "69.96 to pay")
	assert.Contains(t, out, "Expenses by category:")
	assert.Contains(t, out, "packaging")
	assert.NotContains(t, out, "KOR")
}

func TestVATReport_KOR(t *testing.T) {
	dir := initProject(t)
	seedOctober(t, dir)

	out := mustRun(t, dir, "vat", "report", "--year", "2023")
	assert.Contains(t, out, "KOR: eligible (turnover 450.00, threshold 20000.00)")
}

func TestVATReport_BadQuarter(t *testing.T) {
	dir := initProject(t)
	_, err := runKitchenbook(t, "--repo", dir, "vat", "report", "--quarter", "2023-Q5")
	assert.Error(t, err)
}
