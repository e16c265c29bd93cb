package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type SaleStatus string

const (
	SalePending SaleStatus = "pending"
	SalePaid    SaleStatus = "paid"
	SaleVoided  SaleStatus = "voided"
)

func (s SaleStatus) Valid() bool {
	switch s {
	case SalePending, SalePaid, SaleVoided:
		return true
	}
	return false
}

// CanTransition lists the only moves allowed once a sale is persisted.
func (s SaleStatus) CanTransition(to SaleStatus) bool {
	return to == SaleVoided && (s == SalePending || s == SalePaid)
}

type PaymentType string

const (
	PaymentCash     PaymentType = "cash"
	PaymentCard     PaymentType = "card"
	PaymentTransfer PaymentType = "transfer"
)

type ChangeMethod string

const (
	ChangeCash     ChangeMethod = "cash"
	ChangeTransfer ChangeMethod = "transfer"
)

// SaleLine is a product row on a sale. Unit value and quantity are decimals
// and serialize as JSON strings.
type SaleLine struct {
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name,omitempty"`
	ProductSKU  string          `json:"product_sku,omitempty"`
	UnitValue   decimal.Decimal `json:"unit_value"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// Subtotal is UnitValue × Quantity, never cached.
func (l SaleLine) Subtotal() decimal.Decimal {
	return l.UnitValue.Mul(l.Quantity)
}

type PaymentMethod struct {
	Type           PaymentType     `json:"type" validate:"required,oneof=cash card transfer"`
	AmountUSD      decimal.Decimal `json:"amount_usd" validate:"decimal_gte0"`
	AmountLocal    decimal.Decimal `json:"amount_local" validate:"decimal_gte0"`
	Reference      string          `json:"reference,omitempty"`
	Bank           string          `json:"bank,omitempty"`
	CardLastDigits string          `json:"card_last_digits,omitempty" validate:"omitempty,len=4,numeric"`
}

type ChangeInfo struct {
	Amount      decimal.Decimal `json:"amount"`
	AmountLocal decimal.Decimal `json:"amount_local"`
	Method      ChangeMethod    `json:"method"`
	Reference   string          `json:"reference,omitempty"`
	Bank        string          `json:"bank,omitempty"`
}

type Sale struct {
	ID           int64           `json:"id"`
	Date         time.Time       `json:"date"`
	ClientID     int64           `json:"client_id"`
	ClientName   string          `json:"client_name"`
	Products     []SaleLine      `json:"products"`
	Total        decimal.Decimal `json:"total"`
	TotalLocal   decimal.Decimal `json:"total_local"`
	Debt         decimal.Decimal `json:"debt"`
	DebtLocal    decimal.Decimal `json:"debt_local"`
	CurrencyRate decimal.Decimal `json:"currency_rate"`
	Status       SaleStatus      `json:"status"`
	CreatedBy    string          `json:"created_by"`
	Payments     []PaymentMethod `json:"payments"`
	Change       *ChangeInfo     `json:"change,omitempty"`
}

func (s Sale) EntityID() int64 { return s.ID }

func (s Sale) CreatedTime() time.Time { return s.Date }

// SumLines totals the product lines.
func SumLines(lines []SaleLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// SumPayments returns the USD and local totals of the payments.
func SumPayments(payments []PaymentMethod) (usd, local decimal.Decimal) {
	usd, local = decimal.Zero, decimal.Zero
	for _, p := range payments {
		usd = usd.Add(p.AmountUSD)
		local = local.Add(p.AmountLocal)
	}
	return usd, local
}

// UnitsSold sums the line quantities.
func (s Sale) UnitsSold() decimal.Decimal {
	units := decimal.Zero
	for _, l := range s.Products {
		units = units.Add(l.Quantity)
	}
	return units
}
