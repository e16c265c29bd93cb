package service

import (
	"fmt"
	"strings"

	"go-pos-ledger/internal/model"
	"go-pos-ledger/pkg/currency"

	"github.com/shopspring/decimal"
)

// normalizePayment fills whichever amount is missing from the other one at
// rate and checks the per-type fields.
func normalizePayment(p model.PaymentMethod, rate decimal.Decimal) (model.PaymentMethod, error) {
	p.Reference = strings.TrimSpace(p.Reference)
	p.Bank = strings.TrimSpace(p.Bank)
	p.CardLastDigits = strings.TrimSpace(p.CardLastDigits)

	var err error
	switch {
	case p.AmountUSD.IsZero() && p.AmountLocal.IsPositive():
		p.AmountUSD, err = currency.ToUSD(p.AmountLocal, rate)
	case p.AmountLocal.IsZero() && p.AmountUSD.IsPositive():
		p.AmountLocal, err = currency.ToLocal(p.AmountUSD, rate)
	}
	if err != nil {
		return p, preconditionf("%v", err)
	}

	if err := validateStruct(&p); err != nil {
		return p, err
	}
	if !p.AmountUSD.IsPositive() {
		return p, preconditionf("payment amount must be greater than zero")
	}
	if p.Type == model.PaymentTransfer && (p.Reference == "" || p.Bank == "") {
		return p, fmt.Errorf("%w: transfer payments need a reference and a bank", ErrValidation)
	}
	return p, nil
}
