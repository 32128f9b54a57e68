package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind says which side of the VAT return a record lands on.
type Kind string

const (
	KindExpense Kind = "expense" // VAT is reclaimable
	KindSale    Kind = "sale"    // VAT is payable
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == KindExpense || k == KindSale
}

// Source identifies where a record came from.
type Source string

const (
	SourceManual   Source = "manual"
	SourceScan     Source = "scan"
	SourceImport   Source = "import"
	SourceInvoice  Source = "invoice"
	SourceCall     Source = "call"
	SourceWebsite  Source = "website"
	SourceWhatsApp Source = "whatsapp"
	SourcePlatform Source = "platform"
)

// Record is one VAT-inclusive expense or sale, a row in records.csv.
type Record struct {
	ID           string          // "YYYY-MM-NNN"
	Date         time.Time       //nolint:revive // plain field name is clearest
	Kind         Kind            //nolint:revive
	Description  string          //nolint:revive
	Category     string          //nolint:revive
	Gross        decimal.Decimal // VAT included
	VATRate      int             // percent: 0, 9 or 21
	Counterparty string
	Source       Source
	Reference    string
	Notes        string
}

// Month returns the year and month the record is filed under.
func (r Record) Month() (int, int) {
	return r.Date.Year(), int(r.Date.Month())
}

