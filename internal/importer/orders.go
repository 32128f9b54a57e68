package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kitchenbook/kitchenbook/internal/ledger"
	"github.com/kitchenbook/kitchenbook/internal/model"
	"github.com/kitchenbook/kitchenbook/internal/records"
)

// OrdersParser parses an order-platform export into sale records. A row with
// a platform fee also yields a fee expense.
type OrdersParser struct{}

const (
	ordersNumFields   = 7
	ordersColDate     = 0
	ordersColOrderID  = 1
	ordersColCustomer = 2
	ordersColTotal    = 3
	ordersColRate     = 4
	ordersColSource   = 5
	ordersColFee      = 6

	ordersSaleCategory = "food-sales"
	ordersFeeCategory  = "platform-fees"
	ordersFeeRate      = 21
)

// Format returns the parser name.
func (p *OrdersParser) Format() string { return "orders" }

// Parse reads an orders CSV.
func (p *OrdersParser) Parse(r io.Reader) ([]records.AddParams, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = ordersNumFields
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading orders CSV: %w", err)
	}

	if len(rows) <= 1 {
		return nil, nil
	}

	var out []records.AddParams
	for i, row := range rows[1:] {
		params, err := parseOrderRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		out = append(out, params...)
	}
	return out, nil
}

func parseOrderRow(row []string) ([]records.AddParams, error) {
	date, err := time.Parse(ledger.DateFormat, row[ordersColDate])
	if err != nil {
		return nil, fmt.Errorf("parsing date %q: %w", row[ordersColDate], err)
	}

	total, err := decimal.NewFromString(row[ordersColTotal])
	if err != nil {
		return nil, fmt.Errorf("parsing total %q: %w", row[ordersColTotal], err)
	}

	rate, err := strconv.Atoi(row[ordersColRate])
	if err != nil {
		return nil, fmt.Errorf("parsing vat_rate %q: %w", row[ordersColRate], err)
	}

	source, err := parseOrderSource(row[ordersColSource])
	if err != nil {
		return nil, err
	}

	orderID := strings.TrimSpace(row[ordersColOrderID])
	if orderID == "" {
		return nil, errors.New("order_id is empty")
	}
	customer := strings.TrimSpace(row[ordersColCustomer])
	ref := "order_" + orderID

	out := []records.AddParams{{
		Date:         date,
		Kind:         model.KindSale,
		Description:  "Order " + orderID,
		Category:     ordersSaleCategory,
		Gross:        total,
		VATRate:      rate,
		Counterparty: customer,
		Source:       source,
		Reference:    ref,
	}}

	if fee := strings.TrimSpace(row[ordersColFee]); fee != "" {
		amount, err := decimal.NewFromString(fee)
		if err != nil {
			return nil, fmt.Errorf("parsing platform_fee %q: %w", fee, err)
		}
		if amount.IsPositive() {
			out = append(out, records.AddParams{
				Date:        date,
				Kind:        model.KindExpense,
				Description: "Platform fee order " + orderID,
				Category:    ordersFeeCategory,
				Gross:       amount,
				VATRate:     ordersFeeRate,
				Source:      model.SourceImport,
				Reference:   ref,
			})
		}
	}
	return out, nil
}

func parseOrderSource(s string) (model.Source, error) {
	switch src := model.Source(strings.ToLower(strings.TrimSpace(s))); src {
	case model.SourceCall, model.SourceWebsite, model.SourceWhatsApp, model.SourcePlatform:
		return src, nil
	case "":
		return model.SourcePlatform, nil
	default:
		return "", fmt.Errorf("unknown order source %q", s)
	}
}
