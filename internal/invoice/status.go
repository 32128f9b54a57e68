package invoice

import (
	"fmt"
	"strings"
)

// Status tracks an invoice from creation to payment.
type Status string

const (
	StatusDraft Status = "draft"
	StatusSent  Status = "sent"
	StatusPaid  Status = "paid"
)

// ParseStatus accepts a status name in any case.
func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusDraft, StatusSent, StatusPaid:
		return st, nil
	default:
		return "", fmt.Errorf("unknown invoice status %q (want draft, sent or paid)", s)
	}
}

// Outstanding reports whether the invoice still awaits payment.
func (s Status) Outstanding() bool {
	return s != StatusPaid
}
