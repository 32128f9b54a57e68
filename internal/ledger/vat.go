// Package ledger derives Dutch VAT (BTW) figures from VAT-inclusive records.
//
// Every function here is pure: records are read, never modified, and no
// state is kept between calls.
package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Rates are the VAT percentages a record may carry: exempt, low and high.
var Rates = []int{0, 9, 21}

// ErrInvalidRate matches any *InvalidRateError.
var ErrInvalidRate = errors.New("invalid VAT rate")

// InvalidRateError reports a rate outside Rates.
type InvalidRateError struct {
	Rate int
}

func (e *InvalidRateError) Error() string {
	return fmt.Sprintf("invalid VAT rate %d%%: must be one of 0, 9, 21", e.Rate)
}

// Is lets errors.Is(err, ErrInvalidRate) match.
func (e *InvalidRateError) Is(target error) bool {
	return target == ErrInvalidRate
}

// DefaultKORThreshold is the yearly turnover below which the small-business
// scheme (KOR) can be used.
var DefaultKORThreshold = decimal.NewFromInt(20000)

var hundred = decimal.NewFromInt(100)

// ValidRate reports whether rate is one of Rates.
func ValidRate(rate int) bool {
	for _, r := range Rates {
		if r == rate {
			return true
		}
	}
	return false
}

// CheckRate returns an *InvalidRateError when rate is not one of Rates.
func CheckRate(rate int) error {
	if !ValidRate(rate) {
		return &InvalidRateError{Rate: rate}
	}
	return nil
}

// VATPortion returns the VAT contained in a VAT-inclusive gross amount:
// gross - gross/(1+rate/100). The result is not rounded.
func VATPortion(gross decimal.Decimal, rate int) (decimal.Decimal, error) {
	net, err := NetAmount(gross, rate)
	if err != nil {
		return decimal.Zero, err
	}
	return gross.Sub(net), nil
}

// NetAmount returns the VAT-exclusive part of a gross amount, unrounded.
func NetAmount(gross decimal.Decimal, rate int) (decimal.Decimal, error) {
	if err := CheckRate(rate); err != nil {
		return decimal.Zero, err
	}
	if rate == 0 {
		return gross, nil
	}
	// gross*100/(100+rate) keeps exact results for round numbers like 109 @ 9%.
	return gross.Mul(hundred).Div(decimal.NewFromInt(int64(100 + rate))), nil
}

// AddVAT puts VAT on top of an exclusive amount, the way an outgoing invoice
// is built. The VAT is rounded to cents and gross is net + vat.
func AddVAT(net decimal.Decimal, rate int) (vat, gross decimal.Decimal, err error) {
	if err := CheckRate(rate); err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	vat = RoundCents(net.Mul(decimal.NewFromInt(int64(rate))).Div(hundred))
	return vat, net.Add(vat), nil
}

// RoundCents rounds half-up to the currency minor unit.
func RoundCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// KOREligible reports whether a yearly VAT-exclusive turnover stays under
// the KOR threshold.
func KOREligible(annualNetRevenue, threshold decimal.Decimal) bool {
	return annualNetRevenue.LessThan(threshold)
}
