package ledger

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/kitchenbook/kitchenbook/internal/model"
)

// Direction of a net VAT position.
const (
	DirectionPay    = "pay"
	DirectionRefund = "refund"
	DirectionNil    = "nil"
)

// Position is the VAT owed and reclaimable over a date range.
type Position struct {
	VATOutput decimal.Decimal // VAT in sales, owed
	VATInput  decimal.Decimal // VAT in expenses, reclaimable
	Net       decimal.Decimal // VATOutput - VATInput
}

// Rounded returns the position rounded to cents for display. Net is rounded
// from the unrounded difference, not recomputed from the rounded parts.
func (p Position) Rounded() Position {
	return Position{
		VATOutput: RoundCents(p.VATOutput),
		VATInput:  RoundCents(p.VATInput),
		Net:       RoundCents(p.Net),
	}
}

// Direction says whether the net position must be paid or will be refunded.
func (p Position) Direction() string {
	switch RoundCents(p.Net).Sign() {
	case 1:
		return DirectionPay
	case -1:
		return DirectionRefund
	default:
		return DirectionNil
	}
}

// Aggregate sums the VAT portions of the records dated within rng. An
// inverted range yields the zero position. Portions are summed unrounded.
func Aggregate(records []model.Record, rng DateRange) (Position, error) {
	pos := Position{VATOutput: decimal.Zero, VATInput: decimal.Zero, Net: decimal.Zero}
	if !rng.Valid() {
		return pos, nil
	}

	for _, r := range records {
		if !rng.Contains(r.Date) {
			continue
		}
		portion, err := VATPortion(r.Gross, r.VATRate)
		if err != nil {
			return Position{}, fmt.Errorf("record %s: %w", r.ID, err)
		}
		switch r.Kind {
		case model.KindSale:
			pos.VATOutput = pos.VATOutput.Add(portion)
		case model.KindExpense:
			pos.VATInput = pos.VATInput.Add(portion)
		}
	}

	pos.Net = pos.VATOutput.Sub(pos.VATInput)
	return pos, nil
}

// CategoryTotal is the spend booked against one expense category.
type CategoryTotal struct {
	Category string
	Gross    decimal.Decimal
	VAT      decimal.Decimal
}

// Summary is the financial overview of a date range.
type Summary struct {
	Range              DateRange
	Records            int
	SalesGross         decimal.Decimal
	SalesNet           decimal.Decimal
	ExpensesGross      decimal.Decimal
	ExpensesNet        decimal.Decimal
	Position           Position
	Profit             decimal.Decimal // SalesNet - ExpensesNet
	ExpensesByCategory []CategoryTotal // largest first
}

// Summarize computes totals, the VAT position and an estimated profit over
// the records dated within rng.
func Summarize(records []model.Record, rng DateRange) (Summary, error) {
	pos, err := Aggregate(records, rng)
	if err != nil {
		return Summary{}, err
	}

	s := Summary{
		Range:         rng,
		SalesGross:    decimal.Zero,
		SalesNet:      decimal.Zero,
		ExpensesGross: decimal.Zero,
		ExpensesNet:   decimal.Zero,
		Position:      pos,
	}
	if !rng.Valid() {
		s.Profit = decimal.Zero
		return s, nil
	}

	byCat := make(map[string]*CategoryTotal)
	for _, r := range records {
		if !rng.Contains(r.Date) {
			continue
		}
		// Rates were checked by Aggregate above.
		net, _ := NetAmount(r.Gross, r.VATRate)
		s.Records++
		switch r.Kind {
		case model.KindSale:
			s.SalesGross = s.SalesGross.Add(r.Gross)
			s.SalesNet = s.SalesNet.Add(net)
		case model.KindExpense:
			s.ExpensesGross = s.ExpensesGross.Add(r.Gross)
			s.ExpensesNet = s.ExpensesNet.Add(net)
			ct, ok := byCat[r.Category]
			if !ok {
				ct = &CategoryTotal{Category: r.Category, Gross: decimal.Zero, VAT: decimal.Zero}
				byCat[r.Category] = ct
			}
			ct.Gross = ct.Gross.Add(r.Gross)
			ct.VAT = ct.VAT.Add(r.Gross.Sub(net))
		}
	}

	s.Profit = s.SalesNet.Sub(s.ExpensesNet)
	for _, ct := range byCat {
		s.ExpensesByCategory = append(s.ExpensesByCategory, *ct)
	}
	sort.Slice(s.ExpensesByCategory, func(i, j int) bool {
		a, b := s.ExpensesByCategory[i], s.ExpensesByCategory[j]
		if c := a.Gross.Cmp(b.Gross); c != 0 {
			return c > 0
		}
		return a.Category < b.Category
	})
	return s, nil
}
