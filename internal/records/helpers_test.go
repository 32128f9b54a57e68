package records

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/kitchenbook/kitchenbook/internal/model"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

type mockCategories struct {
	kinds map[string]model.Kind
}

func (m *mockCategories) Allows(name string, kind model.Kind) bool {
	k, ok := m.kinds[name]
	return ok && k == kind
}

func newMockCategories() *mockCategories {
	return &mockCategories{kinds: map[string]model.Kind{
		"ingredients": model.KindExpense,
		"packaging":   model.KindExpense,
		"rent":        model.KindExpense,
		"catering":    model.KindSale,
		"food-sales":  model.KindSale,
	}}
}

func sampleRecord(recordID string, d time.Time, kind model.Kind, category, gross string, rate int) model.Record {
	return model.Record{
		ID:       recordID,
		Date:     d,
		Kind:     kind,
		Category: category,
		Gross:    dec(gross),
		VATRate:  rate,
		Source:   model.SourceManual,
	}
}
