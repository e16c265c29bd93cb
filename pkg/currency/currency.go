// Package currency converts amounts between USD and the local currency at a
// given exchange rate. No rounding is applied; formatting belongs to callers.
package currency

import (
	"errors"

	"github.com/shopspring/decimal"
)

var ErrInvalidRate = errors.New("exchange rate must be greater than zero")

// ValidateRate rejects zero and negative rates.
func ValidateRate(rate decimal.Decimal) error {
	if !rate.IsPositive() {
		return ErrInvalidRate
	}
	return nil
}

// ToLocal converts a USD amount to local currency.
func ToLocal(amountUSD, rate decimal.Decimal) (decimal.Decimal, error) {
	if err := ValidateRate(rate); err != nil {
		return decimal.Zero, err
	}
	return amountUSD.Mul(rate), nil
}

// ToUSD converts a local currency amount to USD.
func ToUSD(amountLocal, rate decimal.Decimal) (decimal.Decimal, error) {
	if err := ValidateRate(rate); err != nil {
		return decimal.Zero, err
	}
	return amountLocal.Div(rate), nil
}

// Format renders an amount with two decimals and "." thousands separators,
// the way amounts are shown on receipts ("1.234,50").
func Format(amount decimal.Decimal) string {
	fixed := amount.Abs().StringFixed(2)
	intPart, frac := fixed[:len(fixed)-3], fixed[len(fixed)-2:]

	var out []byte
	for i, ch := range []byte(intPart) {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			out = append(out, '.')
		}
		out = append(out, ch)
	}
	res := string(out) + "," + frac
	if amount.IsNegative() && !amount.Round(2).IsZero() {
		res = "-" + res
	}
	return res
}
