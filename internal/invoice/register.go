package invoice

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kitchenbook/kitchenbook/internal/ledger"
)

const (
	registerDir  = "invoices"
	registerFile = "invoices.csv"
)

// ErrUnknownInvoice is returned when a number is not in the register.
var ErrUnknownInvoice = errors.New("invoice not found")

// Entry is one issued invoice as kept in invoices/invoices.csv. The sale it
// was booked as is RecordID.
type Entry struct {
	Number   string
	Client   string
	Date     time.Time
	DueDate  time.Time
	VATRate  int
	Subtotal decimal.Decimal
	VAT      decimal.Decimal
	Total    decimal.Decimal
	Status   Status
	RecordID string
}

// Overdue reports whether a sent invoice is still unpaid after its due date.
func (e Entry) Overdue(today time.Time) bool {
	return e.Status == StatusSent && ledger.Day(today).After(e.DueDate)
}

// Entry returns the register line for inv booked as recordID.
func (inv Invoice) Entry(recordID string) Entry {
	return Entry{
		Number:   inv.Number,
		Client:   inv.Client,
		Date:     inv.Date,
		DueDate:  inv.DueDate,
		VATRate:  inv.VATRate,
		Subtotal: inv.Subtotal,
		VAT:      inv.VAT,
		Total:    inv.Total,
		Status:   inv.Status,
		RecordID: recordID,
	}
}

const (
	numFields   = 10
	colNumber   = 0
	colClient   = 1
	colDate     = 2
	colDueDate  = 3
	colRate     = 4
	colSubtotal = 5
	colVAT      = 6
	colTotal    = 7
	colStatus   = 8
	colRecordID = 9
)

var header = []string{"number", "client", "date", "due_date", "vat_rate", "subtotal", "vat", "total", "status", "record_id"}

// Register is the list of issued invoices under a project root.
type Register struct {
	root string
}

// NewRegister returns the register for the project at root.
func NewRegister(root string) *Register {
	return &Register{root: root}
}

func (r *Register) path() string {
	return filepath.Join(r.root, registerDir, registerFile)
}

// List returns every invoice in issue order, or nil when none were issued.
func (r *Register) List() ([]Entry, error) {
	f, err := os.Open(r.path())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening invoice register: %w", err)
	}
	defer f.Close()
	return ReadEntries(f)
}

// Add appends an invoice. Numbers are unique.
func (r *Register) Add(e Entry) error {
	entries, err := r.List()
	if err != nil {
		return err
	}
	for _, existing := range entries {
		if existing.Number == e.Number {
			return fmt.Errorf("invoice %s already registered", e.Number)
		}
	}
	return r.save(append(entries, e))
}

// SetStatus changes the status of invoice number and returns the updated entry.
func (r *Register) SetStatus(number string, status Status) (Entry, error) {
	entries, err := r.List()
	if err != nil {
		return Entry{}, err
	}
	for i := range entries {
		if entries[i].Number != number {
			continue
		}
		entries[i].Status = status
		if err := r.save(entries); err != nil {
			return Entry{}, err
		}
		return entries[i], nil
	}
	return Entry{}, fmt.Errorf("%w: %s", ErrUnknownInvoice, number)
}

// save rewrites the register through a temp file so a failed write leaves
// the old file intact.
func (r *Register) save(entries []Entry) error {
	path := r.path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating invoices dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), registerFile+".*")
	if err != nil {
		return fmt.Errorf("creating temp register: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteEntries(tmp, entries); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp register: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing invoice register: %w", err)
	}
	return nil
}

// ReadEntries reads an invoice register CSV.
func ReadEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading invoice register: %w", err)
	}
	if len(rows) <= 1 {
		return nil, nil
	}

	entries := make([]Entry, 0, len(rows)-1)
	for i, row := range rows[1:] {
		e, err := UnmarshalEntry(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// WriteEntries writes an invoice register CSV with header.
func WriteEntries(w io.Writer, entries []Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colNumber] = e.Number
	row[colClient] = e.Client
	row[colDate] = e.Date.Format(ledger.DateFormat)
	row[colDueDate] = e.DueDate.Format(ledger.DateFormat)
	row[colRate] = strconv.Itoa(e.VATRate)
	row[colSubtotal] = e.Subtotal.StringFixed(2)
	row[colVAT] = e.VAT.StringFixed(2)
	row[colTotal] = e.Total.StringFixed(2)
	row[colStatus] = string(e.Status)
	row[colRecordID] = e.RecordID
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(row []string) (Entry, error) {
	if len(row) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(row))
	}

	date, err := time.Parse(ledger.DateFormat, row[colDate])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing date %q: %w", row[colDate], err)
	}
	due, err := time.Parse(ledger.DateFormat, row[colDueDate])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing due_date %q: %w", row[colDueDate], err)
	}
	rate, err := strconv.Atoi(row[colRate])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing vat_rate %q: %w", row[colRate], err)
	}

	amounts := make([]decimal.Decimal, 3)
	for i, col := range []int{colSubtotal, colVAT, colTotal} {
		amounts[i], err = decimal.NewFromString(row[col])
		if err != nil {
			return Entry{}, fmt.Errorf("parsing %s %q: %w", header[col], row[col], err)
		}
	}

	status, err := ParseStatus(row[colStatus])
	if err != nil {
		return Entry{}, err
	}

	return Entry{
		Number:   row[colNumber],
		Client:   row[colClient],
		Date:     date,
		DueDate:  due,
		VATRate:  rate,
		Subtotal: amounts[0],
		VAT:      amounts[1],
		Total:    amounts[2],
		Status:   status,
		RecordID: row[colRecordID],
	}, nil
}
