package service

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"go-pos-ledger/internal/model"
	"go-pos-ledger/pkg/currency"

	"github.com/shopspring/decimal"
)

// Invoice is the printable form of a sale. Amounts are already formatted.
type Invoice struct {
	SaleID         int64            `json:"sale_id"`
	Date           time.Time        `json:"date"`
	Status         model.SaleStatus `json:"status"`
	ClientName     string           `json:"client_name"`
	ClientID       string           `json:"client_identification,omitempty"`
	Rate           string           `json:"currency_rate"`
	Seller         string           `json:"seller"`
	Lines          []InvoiceLine    `json:"lines"`
	Total          string           `json:"total"`
	TotalLocal     string           `json:"total_local"`
	Payments       []InvoicePayment `json:"payments"`
	TotalPaid      string           `json:"total_paid"`
	TotalPaidLocal string           `json:"total_paid_local"`
	Debt           string           `json:"debt"`
	DebtLocal      string           `json:"debt_local"`
	Change         *InvoicePayment  `json:"change,omitempty"`
}

type InvoiceLine struct {
	Name      string `json:"name"`
	SKU       string `json:"sku"`
	UnitValue string `json:"unit_value"`
	Quantity  string `json:"quantity"`
	Subtotal  string `json:"subtotal"`
}

// InvoicePayment is a payment row, or the change returned to the client.
type InvoicePayment struct {
	Method      string `json:"method"`
	Details     string `json:"details,omitempty"`
	AmountUSD   string `json:"amount_usd"`
	AmountLocal string `json:"amount_local"`
}

// BuildInvoice formats a sale. identification is the client's document
// number and may be empty when the client no longer exists.
func BuildInvoice(sale model.Sale, identification string) Invoice {
	inv := Invoice{
		SaleID:     sale.ID,
		Date:       sale.Date,
		Status:     sale.Status,
		ClientName: sale.ClientName,
		ClientID:   identification,
		Rate:       currency.Format(sale.CurrencyRate),
		Seller:     sale.CreatedBy,
		Total:      currency.Format(sale.Total),
		TotalLocal: currency.Format(sale.TotalLocal),
		Debt:       currency.Format(decimal.Max(sale.Debt, decimal.Zero)),
		DebtLocal:  currency.Format(decimal.Max(sale.DebtLocal, decimal.Zero)),
	}

	for _, l := range sale.Products {
		inv.Lines = append(inv.Lines, InvoiceLine{
			Name:      l.ProductName,
			SKU:       l.ProductSKU,
			UnitValue: currency.Format(l.UnitValue),
			Quantity:  l.Quantity.String(),
			Subtotal:  currency.Format(l.Subtotal()),
		})
	}

	for _, p := range sale.Payments {
		inv.Payments = append(inv.Payments, InvoicePayment{
			Method:      string(p.Type),
			Details:     paymentDetails(p),
			AmountUSD:   currency.Format(p.AmountUSD),
			AmountLocal: currency.Format(p.AmountLocal),
		})
	}
	paidUSD, paidLocal := model.SumPayments(sale.Payments)
	inv.TotalPaid = currency.Format(paidUSD)
	inv.TotalPaidLocal = currency.Format(paidLocal)

	if c := sale.Change; c != nil && c.Amount.IsPositive() {
		change := InvoicePayment{
			Method:      string(c.Method),
			AmountUSD:   currency.Format(c.Amount),
			AmountLocal: currency.Format(c.AmountLocal),
		}
		if c.Method == model.ChangeTransfer {
			change.Details = transferDetails(c.Reference, c.Bank)
		}
		inv.Change = &change
	}
	return inv
}

func paymentDetails(p model.PaymentMethod) string {
	switch p.Type {
	case model.PaymentCard:
		if p.CardLastDigits != "" {
			return "**** " + p.CardLastDigits
		}
	case model.PaymentTransfer:
		return transferDetails(p.Reference, p.Bank)
	}
	return ""
}

func transferDetails(reference, bank string) string {
	switch {
	case reference != "" && bank != "":
		return fmt.Sprintf("Ref: %s (%s)", reference, bank)
	case reference != "":
		return "Ref: " + reference
	}
	return bank
}

// WriteText renders the invoice as a plain-text receipt.
func (inv Invoice) WriteText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "Invoice #%d\t%s\t%s\n", inv.SaleID, inv.Date.Format("2006-01-02 15:04"), strings.ToUpper(string(inv.Status)))
	fmt.Fprintf(tw, "Client:\t%s\t%s\n", inv.ClientName, inv.ClientID)
	fmt.Fprintf(tw, "Rate:\t%s\tSeller: %s\n", inv.Rate, inv.Seller)
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "PRODUCT\tSKU\tPRICE\tQTY\tSUBTOTAL")
	for _, l := range inv.Lines {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", l.Name, l.SKU, l.UnitValue, l.Quantity, l.Subtotal)
	}
	fmt.Fprintf(tw, "\t\t\tTOTAL USD\t%s\n", inv.Total)
	fmt.Fprintf(tw, "\t\t\tTOTAL LOCAL\t%s\n", inv.TotalLocal)
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "PAYMENT\tDETAILS\tUSD\tLOCAL")
	for _, p := range inv.Payments {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.Method, p.Details, p.AmountUSD, p.AmountLocal)
	}
	fmt.Fprintf(tw, "TOTAL PAID\t\t%s\t%s\n", inv.TotalPaid, inv.TotalPaidLocal)
	if inv.Change != nil {
		fmt.Fprintf(tw, "CHANGE (%s)\t%s\t%s\t%s\n", inv.Change.Method, inv.Change.Details, inv.Change.AmountUSD, inv.Change.AmountLocal)
	}
	if inv.Debt != currency.Format(decimal.Zero) {
		fmt.Fprintf(tw, "DEBT\t\t%s\t%s\n", inv.Debt, inv.DebtLocal)
	}
	return tw.Flush()
}
