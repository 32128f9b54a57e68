package invoice

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kitchenbook/kitchenbook/internal/id"
	"github.com/kitchenbook/kitchenbook/internal/ledger"
	"github.com/kitchenbook/kitchenbook/internal/model"
	"github.com/kitchenbook/kitchenbook/internal/records"
)

// DefaultCategory is the sale category invoices are booked under.
const DefaultCategory = "catering"

// ErrNoItems is returned for an invoice without line items.
var ErrNoItems = errors.New("invoice has no line items")

// LineItem is one VAT-exclusive invoice line.
type LineItem struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
}

// Amount returns quantity * unit price.
func (li LineItem) Amount() decimal.Decimal {
	return li.Quantity.Mul(li.UnitPrice)
}

// Invoice is an outgoing invoice. Subtotal and VAT are derived from the items.
type Invoice struct {
	Number   string
	Client   string
	Date     time.Time
	DueDate  time.Time
	Items    []LineItem
	VATRate  int
	Subtotal decimal.Decimal
	VAT      decimal.Decimal
	Total    decimal.Decimal
	Status   Status
}

// Build prices items at rate. The subtotal is rounded to cents before VAT is
// added on top. New invoices start as drafts.
func Build(number, client string, date time.Time, items []LineItem, rate, termDays int) (Invoice, error) {
	if len(items) == 0 {
		return Invoice{}, ErrNoItems
	}
	if strings.TrimSpace(client) == "" {
		return Invoice{}, errors.New("invoice client is required")
	}

	subtotal := decimal.Zero
	for i, li := range items {
		if !li.Quantity.IsPositive() {
			return Invoice{}, fmt.Errorf("item %d: quantity must be positive", i+1)
		}
		if li.UnitPrice.IsNegative() {
			return Invoice{}, fmt.Errorf("item %d: unit price must not be negative", i+1)
		}
		subtotal = subtotal.Add(li.Amount())
	}
	subtotal = ledger.RoundCents(subtotal)

	vat, total, err := ledger.AddVAT(subtotal, rate)
	if err != nil {
		return Invoice{}, err
	}

	day := ledger.Day(date)
	return Invoice{
		Number:   number,
		Client:   client,
		Date:     day,
		DueDate:  day.AddDate(0, 0, termDays),
		Items:    items,
		VATRate:  rate,
		Subtotal: subtotal,
		VAT:      vat,
		Total:    total,
		Status:   StatusDraft,
	}, nil
}

// Record returns the sale booked for the invoice.
func (inv Invoice) Record(category string) records.AddParams {
	if category == "" {
		category = DefaultCategory
	}
	desc := inv.Items[0].Description
	if len(inv.Items) > 1 {
		desc = fmt.Sprintf("%s (+%d more)", desc, len(inv.Items)-1)
	}
	return records.AddParams{
		Date:         inv.Date,
		Kind:         model.KindSale,
		Description:  desc,
		Category:     category,
		Gross:        inv.Total,
		VATRate:      inv.VATRate,
		Counterparty: inv.Client,
		Source:       model.SourceInvoice,
		Reference:    inv.Number,
	}
}

// NextNumber returns the next invoice number for year, continuing the highest
// number referenced by recs.
func NextNumber(recs []model.Record, year int) string {
	maxSeq := 0
	for _, rec := range recs {
		y, seq, err := id.ParseInvoiceNumber(rec.Reference)
		if err != nil || y != year {
			continue
		}
		if seq > maxSeq {
			maxSeq = seq
		}
	}
	return id.FormatInvoiceNumber(year, maxSeq+1)
}

// ParseLineItem parses "description:quantity:unit_price", for example
// "Catering buffet:40:12.50". Quantity may be omitted: "Delivery:15.00".
func ParseLineItem(s string) (LineItem, error) {
	parts := strings.Split(s, ":")
	var desc, qty, price string
	switch len(parts) {
	case 2:
		desc, qty, price = parts[0], "1", parts[1]
	case 3:
		desc, qty, price = parts[0], parts[1], parts[2]
	default:
		return LineItem{}, fmt.Errorf("invalid line item %q: want description:quantity:unit_price", s)
	}

	desc = strings.TrimSpace(desc)
	if desc == "" {
		return LineItem{}, fmt.Errorf("invalid line item %q: description is empty", s)
	}
	q, err := decimal.NewFromString(strings.TrimSpace(qty))
	if err != nil {
		return LineItem{}, fmt.Errorf("invalid quantity in %q: %w", s, err)
	}
	p, err := decimal.NewFromString(strings.TrimSpace(price))
	if err != nil {
		return LineItem{}, fmt.Errorf("invalid unit price in %q: %w", s, err)
	}
	return LineItem{Description: desc, Quantity: q, UnitPrice: p}, nil
}
