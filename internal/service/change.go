package service

import (
	"strings"

	"go-pos-ledger/internal/model"
	"go-pos-ledger/pkg/currency"

	"github.com/shopspring/decimal"
)

// ChangeRequest is the operator's choice of how an overpayment is returned.
type ChangeRequest struct {
	Method    model.ChangeMethod `json:"method"`
	Reference string             `json:"reference,omitempty"`
	Bank      string             `json:"bank,omitempty"`
}

// ChangeQuote is the excess owed back to the customer.
type ChangeQuote struct {
	Amount      decimal.Decimal `json:"amount"`
	AmountLocal decimal.Decimal `json:"amount_local"`
}

// QuoteChange returns nil when the payments do not exceed the total.
func QuoteChange(total, totalPaid, rate decimal.Decimal) (*ChangeQuote, error) {
	if !totalPaid.GreaterThan(total) {
		return nil, nil
	}
	amount := totalPaid.Sub(total)
	local, err := currency.ToLocal(amount, rate)
	if err != nil {
		return nil, preconditionf("%v", err)
	}
	return &ChangeQuote{Amount: amount, AmountLocal: local}, nil
}

// Confirm turns the quote into the ChangeInfo stored on the sale. A transfer
// needs both a reference and a bank.
func (q ChangeQuote) Confirm(req ChangeRequest) (*model.ChangeInfo, error) {
	info := &model.ChangeInfo{
		Amount:      q.Amount,
		AmountLocal: q.AmountLocal,
		Method:      req.Method,
	}
	switch req.Method {
	case model.ChangeCash:
	case model.ChangeTransfer:
		info.Reference = strings.TrimSpace(req.Reference)
		info.Bank = strings.TrimSpace(req.Bank)
		if info.Reference == "" || info.Bank == "" {
			return nil, ErrIncompleteChangeInfo
		}
	default:
		return nil, preconditionf("unknown change method %q", req.Method)
	}
	return info, nil
}
