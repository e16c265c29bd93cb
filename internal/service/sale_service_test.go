package service

import (
	"errors"
	"testing"

	"go-pos-ledger/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestFinalize_IncompleteClientInfo(t *testing.T) {
	// Arrange
	f := newFixture(t, false)
	item := f.item(t, "cable", "10", 5)
	client := testClient()
	client.Surname = "  "

	// Act
	sale, err := f.sales.Finalize(&CheckoutRequest{
		Client:   client,
		Lines:    []model.SaleLine{line(item, 1)},
		Payments: []model.PaymentMethod{cash("10")},
	}, "tester")

	// Assert
	assert.Nil(t, sale)
	assert.ErrorIs(t, err, ErrIncompleteClientInfo)
	assert.Empty(t, f.sales.ListSales())
	assert.Empty(t, f.clients.SearchClients(""))
	stored, _ := f.inventory.GetItem(item.ID)
	assert.Equal(t, 5, stored.Quantity)
}

func TestFinalize_InsufficientInventory(t *testing.T) {
	// Arrange
	f := newFixture(t, false)
	item := f.item(t, "cable", "10", 5)

	// Act
	_, err := f.sales.Finalize(&CheckoutRequest{
		Client:   testClient(),
		Lines:    []model.SaleLine{line(item, 10)},
		Payments: []model.PaymentMethod{cash("100")},
	}, "tester")

	// Assert
	assert.ErrorIs(t, err, ErrInsufficientInventory)
	var saleErr *SaleError
	require.True(t, errors.As(err, &saleErr))
	assert.Equal(t, 0, saleErr.Line)
	assert.Empty(t, f.sales.ListSales())
	stored, _ := f.inventory.GetItem(item.ID)
	assert.Equal(t, 5, stored.Quantity)
}

func TestFinalize_RepeatedProductLinesAreCountedTogether(t *testing.T) {
	// Arrange
	f := newFixture(t, false)
	other := f.item(t, "plug", "1", 50)
	item := f.item(t, "cable", "10", 5)

	// Act
	_, err := f.sales.Finalize(&CheckoutRequest{
		Client:   testClient(),
		Lines:    []model.SaleLine{line(other, 1), line(item, 3), line(item, 3)},
		Payments: []model.PaymentMethod{cash("61")},
	}, "tester")

	// Assert
	assert.ErrorIs(t, err, ErrInsufficientInventory)
	var saleErr *SaleError
	require.True(t, errors.As(err, &saleErr))
	assert.Equal(t, 1, saleErr.Line)
}

func TestFinalize_InvalidProductLines(t *testing.T) {
	f := newFixture(t, false)
	item := f.item(t, "cable", "10", 5)

	tests := []struct {
		name    string
		line    model.SaleLine
		wantErr error
	}{
		{name: "no product selected", line: model.SaleLine{UnitValue: dec("10"), Quantity: dec("1")}, wantErr: ErrInvalidProductLine},
		{name: "zero unit value", line: model.SaleLine{ProductID: item.ID, UnitValue: dec("0"), Quantity: dec("1")}, wantErr: ErrInvalidProductLine},
		{name: "zero quantity", line: model.SaleLine{ProductID: item.ID, UnitValue: dec("10"), Quantity: dec("0")}, wantErr: ErrInvalidProductLine},
		{name: "fractional quantity", line: model.SaleLine{ProductID: item.ID, UnitValue: dec("10"), Quantity: dec("1.5")}, wantErr: ErrInvalidProductLine},
		{name: "unknown product", line: model.SaleLine{ProductID: 999, UnitValue: dec("10"), Quantity: dec("1")}, wantErr: ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.sales.Finalize(&CheckoutRequest{
				Client:   testClient(),
				Lines:    []model.SaleLine{tt.line},
				Payments: []model.PaymentMethod{cash("100")},
			}, "tester")

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Empty(t, f.sales.ListSales())
}

func TestFinalize_RejectsIncompletePayment(t *testing.T) {
	// Arrange
	f := newFixture(t, false)
	item := f.item(t, "cable", "10", 5)
	req := &CheckoutRequest{
		Client:   testClient(),
		Lines:    []model.SaleLine{line(item, 2)},
		Payments: []model.PaymentMethod{cash("15")},
	}

	// Act
	quote, quoteErr := f.sales.Quote(req)
	_, err := f.sales.Finalize(req, "tester")

	// Assert
	assert.ErrorIs(t, quoteErr, ErrIncompletePayment)
	require.NotNil(t, quote)
	assert.Equal(t, "5", quote.Debt.String())
	assert.Equal(t, "50", quote.DebtLocal.String())
	assert.ErrorIs(t, err, ErrIncompletePayment)
	assert.Empty(t, f.sales.ListSales())
}

func TestFinalize_ExactPayment(t *testing.T) {
	// Arrange
	f := newFixture(t, false)
	item := f.item(t, "cable", "25.00", 10)

	// Act
	sale, err := f.sales.Finalize(&CheckoutRequest{
		Client:   testClient(),
		Lines:    []model.SaleLine{line(item, 4)},
		Payments: []model.PaymentMethod{cash("100.00")},
	}, "cashier-1")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(1), sale.ID)
	assert.Equal(t, model.SalePaid, sale.Status)
	assert.Equal(t, "100", sale.Total.String())
	assert.Equal(t, "1000", sale.TotalLocal.String())
	assert.True(t, sale.Debt.IsZero())
	assert.True(t, sale.DebtLocal.IsZero())
	assert.Equal(t, "10", sale.CurrencyRate.String())
	assert.Nil(t, sale.Change)
	assert.Equal(t, "Ana Perez", sale.ClientName)
	assert.Equal(t, "cable", sale.Products[0].ProductName)
	assert.Equal(t, "1000", sale.Payments[0].AmountLocal.String())

	stored, err := f.inventory.GetItem(item.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, stored.Quantity)

	history, err := f.inventory.History(item.ID)
	require.NoError(t, err)
	sales := ledgerOf(history, model.TxSale)
	require.Len(t, sales, 1)
	assert.Equal(t, -4, sales[0].Quantity)
	assert.Equal(t, 10, sales[0].PreviousQuantity)
	assert.Equal(t, 6, sales[0].NewQuantity)
	assert.Equal(t, "cashier-1", sales[0].CreatedBy)

	client, err := f.clients.GetByIdentification("V-12345678", model.IDNationalID)
	require.NoError(t, err)
	assert.Equal(t, client.ID, sale.ClientID)
	assert.Contains(t, f.notifier.types(), "sale_created")
}

func TestFinalize_ReturningClientIsMergedNotDuplicated(t *testing.T) {
	// Arrange
	f := newFixture(t, false)
	item := f.item(t, "cable", "10", 10)
	first := testClient()
	second := testClient()
	second.Email = ""
	second.Phone = "555-0101"

	// Act
	s1, err := f.sales.Finalize(&CheckoutRequest{Client: first, Lines: []model.SaleLine{line(item, 1)}, Payments: []model.PaymentMethod{cash("10")}}, "tester")
	require.NoError(t, err)
	s2, err := f.sales.Finalize(&CheckoutRequest{Client: second, Lines: []model.SaleLine{line(item, 1)}, Payments: []model.PaymentMethod{cash("10")}}, "tester")
	require.NoError(t, err)

	// Assert
	assert.Equal(t, s1.ClientID, s2.ClientID)
	clients := f.clients.SearchClients("")
	require.Len(t, clients, 1)
	assert.Equal(t, "ana@example.com", clients[0].Email)
	assert.Equal(t, "555-0101", clients[0].Phone)
}

func TestFinalize_ChangeSettlement(t *testing.T) {
	// Arrange
	f := newFixture(t, false)
	item := f.item(t, "cable", "25", 10)
	req := &CheckoutRequest{
		Client:   testClient(),
		Lines:    []model.SaleLine{line(item, 2)},
		Payments: []model.PaymentMethod{cash("70")},
	}

	// Quote shows the change
	quote, err := f.sales.Quote(req)
	require.NoError(t, err)
	require.NotNil(t, quote.Change)
	assert.Equal(t, "20", quote.Change.Amount.String())
	assert.Equal(t, "200", quote.Change.AmountLocal.String())

	// No method chosen yet
	_, err = f.sales.Finalize(req, "tester")
	assert.ErrorIs(t, err, ErrChangeSettlementRequired)

	// Transfer without a bank
	req.Change = &ChangeRequest{Method: model.ChangeTransfer, Reference: "REF-1"}
	_, err = f.sales.Finalize(req, "tester")
	assert.ErrorIs(t, err, ErrIncompleteChangeInfo)

	assert.Empty(t, f.sales.ListSales())
	stored, _ := f.inventory.GetItem(item.ID)
	assert.Equal(t, 10, stored.Quantity)

	// Cash
	req.Change = &ChangeRequest{Method: model.ChangeCash}
	sale, err := f.sales.Finalize(req, "tester")

	require.NoError(t, err)
	assert.Equal(t, model.SalePaid, sale.Status)
	assert.True(t, sale.Debt.IsZero())
	require.NotNil(t, sale.Change)
	assert.Equal(t, model.ChangeCash, sale.Change.Method)
	assert.Equal(t, "20", sale.Change.Amount.String())
	assert.Equal(t, "200", sale.Change.AmountLocal.String())

	paid, _ := model.SumPayments(sale.Payments)
	assert.True(t, sale.Debt.Equal(sale.Total.Sub(paid).Add(sale.Change.Amount)))
}

func TestFinalize_MergesAndClearsStagedPayments(t *testing.T) {
	// Arrange
	f := newFixture(t, false)
	item := f.item(t, "cable", "25", 10)
	draft, err := f.staging.OpenDraft()
	require.NoError(t, err)
	_, err = f.staging.StagePayment(draft.DraftID, model.PaymentMethod{Type: model.PaymentCash, AmountLocal: dec("300")})
	require.NoError(t, err)

	// Act
	sale, err := f.sales.Finalize(&CheckoutRequest{
		DraftID: draft.DraftID,
		Client:  testClient(),
		Lines:   []model.SaleLine{line(item, 2)},
		Payments: []model.PaymentMethod{{
			Type: model.PaymentTransfer, AmountUSD: dec("20"), Reference: "0042", Bank: "Banco Uno",
		}},
	}, "tester")

	// Assert
	require.NoError(t, err)
	require.Len(t, sale.Payments, 2)
	assert.Equal(t, "30", sale.Payments[0].AmountUSD.String())
	assert.Equal(t, model.PaymentTransfer, sale.Payments[1].Type)
	_, err = f.staging.StagedPayments(draft.DraftID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFinalize_StockChangedAfterValidation(t *testing.T) {
	// Arrange
	f := newFixture(t, false)
	item := f.item(t, "cable", "10", 5)
	racing := &shrinkingInventory{InventoryService: f.inventory, itemID: item.ID, quantity: 1}
	sales := NewSaleService(f.saleRepo, f.stagingRepo, f.clients, racing, f.rates, f.notifier, false)

	// Act
	sale, err := sales.Finalize(&CheckoutRequest{
		Client:   testClient(),
		Lines:    []model.SaleLine{line(item, 5)},
		Payments: []model.PaymentMethod{cash("50")},
	}, "tester")

	// Assert
	assert.Nil(t, sale)
	assert.ErrorIs(t, err, ErrInsufficientInventory)
	assert.Empty(t, f.saleRepo.FindAll())
	assert.Empty(t, f.clients.SearchClients(""))
	stored, _ := f.inventory.GetItem(item.ID)
	assert.Equal(t, 1, stored.Quantity)
	history, _ := f.inventory.History(item.ID)
	assert.Empty(t, ledgerOf(history, model.TxSale))
}

func TestFinalize_RestoresStockWhenSaleCannotBeSaved(t *testing.T) {
	// Arrange
	f := newFixture(t, false)
	a := f.item(t, "cable", "10", 5)
	b := f.item(t, "plug", "2", 3)
	saleRepo := new(MockSaleRepo)
	saleRepo.On("Create", mock.AnythingOfType("model.Sale")).Return(nil, errors.New("disk full")).Once()
	sales := NewSaleService(saleRepo, f.stagingRepo, f.clients, f.inventory, f.rates, f.notifier, false)

	// Act
	sale, err := sales.Finalize(&CheckoutRequest{
		Client:   testClient(),
		Lines:    []model.SaleLine{line(a, 2), line(b, 3)},
		Payments: []model.PaymentMethod{cash("26")},
	}, "tester")

	// Assert
	assert.Nil(t, sale)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	saleRepo.AssertExpectations(t)
	saleRepo.AssertNumberOfCalls(t, "Create", 1)

	storedA, _ := f.inventory.GetItem(a.ID)
	storedB, _ := f.inventory.GetItem(b.ID)
	assert.Equal(t, 5, storedA.Quantity)
	assert.Equal(t, 3, storedB.Quantity)
	assert.Equal(t, model.ItemActive, storedB.Status)

	returns := ledgerOf(f.inventory.AllHistory(), model.TxReturn)
	require.Len(t, returns, 2)
	byItem := map[int64]int{}
	for _, e := range returns {
		byItem[e.ItemID] = e.Quantity
		assert.True(t, e.Balanced())
	}
	assert.Equal(t, map[int64]int{a.ID: 2, b.ID: 3}, byItem)
}

func TestFinalize_StagedPaymentsPricedAtFinalizeRate(t *testing.T) {
	// Arrange
	f := newFixture(t, false)
	item := f.item(t, "cable", "10", 5)
	draft, err := f.staging.OpenDraft()
	require.NoError(t, err)
	_, err = f.staging.StagePayment(draft.DraftID, cash("10"))
	require.NoError(t, err)
	_, err = f.rates.SetRate(dec("20"), "tester")
	require.NoError(t, err)

	// Act
	sale, err := f.sales.Finalize(&CheckoutRequest{
		DraftID: draft.DraftID,
		Client:  testClient(),
		Lines:   []model.SaleLine{line(item, 1)},
	}, "tester")

	// Assert
	require.NoError(t, err)
	require.Len(t, sale.Payments, 1)
	assert.Equal(t, "20", sale.CurrencyRate.String())
	assert.Equal(t, "200", sale.TotalLocal.String())
	assert.Equal(t, "200", sale.Payments[0].AmountLocal.String())
	_, paidLocal := model.SumPayments(sale.Payments)
	assert.True(t, paidLocal.Equal(sale.TotalLocal))
}

func TestFinalize_UnknownDraft(t *testing.T) {
	f := newFixture(t, false)
	item := f.item(t, "cable", "10", 10)

	_, err := f.sales.Finalize(&CheckoutRequest{
		DraftID:  "missing",
		Client:   testClient(),
		Lines:    []model.SaleLine{line(item, 1)},
		Payments: []model.PaymentMethod{cash("10")},
	}, "tester")

	assert.ErrorIs(t, err, ErrNotFound)
}

// pendingSale stores a sale with outstanding debt, the shape legacy data and
// seeded records can have.
func pendingSale(t *testing.T, f *fixture, total string) *model.Sale {
	t.Helper()
	sale, err := f.saleRepo.Create(model.Sale{
		ClientName:   "Ana Perez",
		Total:        dec(total),
		TotalLocal:   dec(total).Mul(dec("10")),
		Debt:         dec(total),
		DebtLocal:    dec(total).Mul(dec("10")),
		CurrencyRate: dec("10"),
		Status:       model.SalePending,
		Payments:     []model.PaymentMethod{},
	})
	require.NoError(t, err)
	return sale
}

func TestAddPayment_DebtDecreasesUntilPaid(t *testing.T) {
	// Arrange
	f := newFixture(t, false)
	sale := pendingSale(t, f, "100")

	steps := []struct {
		payment    model.PaymentMethod
		wantDebt   string
		wantLocal  string
		wantStatus model.SaleStatus
	}{
		{payment: cash("40"), wantDebt: "60", wantLocal: "600", wantStatus: model.SalePending},
		{payment: model.PaymentMethod{Type: model.PaymentCard, AmountLocal: dec("500"), CardLastDigits: "4242"}, wantDebt: "10", wantLocal: "100", wantStatus: model.SalePending},
		{payment: cash("10"), wantDebt: "0", wantLocal: "0", wantStatus: model.SalePaid},
	}

	for _, step := range steps {
		// Act
		updated, err := f.sales.AddPayment(sale.ID, step.payment, "tester")

		// Assert
		require.NoError(t, err)
		assert.Equal(t, step.wantDebt, updated.Debt.String())
		assert.Equal(t, step.wantLocal, updated.DebtLocal.String())
		assert.Equal(t, step.wantStatus, updated.Status)

		paid, _ := model.SumPayments(updated.Payments)
		assert.True(t, updated.Debt.Equal(updated.Total.Sub(paid)))
		assert.Equal(t, updated.Status == model.SalePaid, !updated.Debt.IsPositive())
	}
}

func TestAddPayment_Rejections(t *testing.T) {
	// Arrange
	f := newFixture(t, false)
	sale := pendingSale(t, f, "100")
	voided := pendingSale(t, f, "50")
	_, err := f.sales.SetStatus(voided.ID, model.SaleVoided, "tester")
	require.NoError(t, err)

	tests := []struct {
		name    string
		saleID  int64
		payment model.PaymentMethod
		wantErr error
	}{
		{name: "voided sale", saleID: voided.ID, payment: cash("10"), wantErr: ErrInvalidTransition},
		{name: "unknown sale", saleID: 99, payment: cash("10"), wantErr: ErrNotFound},
		{name: "zero amount", saleID: sale.ID, payment: cash("0"), wantErr: ErrPreconditionViolation},
		{name: "bad card digits", saleID: sale.ID, payment: model.PaymentMethod{Type: model.PaymentCard, AmountUSD: dec("5"), CardLastDigits: "42"}, wantErr: ErrValidation},
		{name: "transfer without bank", saleID: sale.ID, payment: model.PaymentMethod{Type: model.PaymentTransfer, AmountUSD: dec("5"), Reference: "1"}, wantErr: ErrValidation},
		{name: "unknown type", saleID: sale.ID, payment: model.PaymentMethod{Type: "barter", AmountUSD: dec("5")}, wantErr: ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			_, err := f.sales.AddPayment(tt.saleID, tt.payment, "tester")

			// Assert
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	stored, err := f.sales.GetSale(sale.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Payments)
	assert.Equal(t, "100", stored.Debt.String())
}

func TestSetStatus_Transitions(t *testing.T) {
	f := newFixture(t, false)
	pending := pendingSale(t, f, "10")

	tests := []struct {
		name    string
		to      model.SaleStatus
		wantErr error
	}{
		{name: "pending to paid is not a manual move", to: model.SalePaid, wantErr: ErrInvalidTransition},
		{name: "pending to pending", to: model.SalePending, wantErr: ErrInvalidTransition},
		{name: "unknown status", to: "archived", wantErr: ErrPreconditionViolation},
		{name: "pending to voided", to: model.SaleVoided},
		{name: "voided to voided", to: model.SaleVoided, wantErr: ErrInvalidTransition},
		{name: "voided to pending", to: model.SalePending, wantErr: ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.sales.SetStatus(pending.ID, tt.to, "tester")
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSetStatus_VoidIsIdempotentAndRestocksOnce(t *testing.T) {
	// Arrange
	f := newFixture(t, true)
	item := f.item(t, "cable", "10", 10)
	sale, err := f.sales.Finalize(&CheckoutRequest{
		Client:   testClient(),
		Lines:    []model.SaleLine{line(item, 3)},
		Payments: []model.PaymentMethod{cash("30")},
	}, "tester")
	require.NoError(t, err)

	// Act
	first, err := f.sales.SetStatus(sale.ID, model.SaleVoided, "tester")
	require.NoError(t, err)
	_, secondErr := f.sales.SetStatus(sale.ID, model.SaleVoided, "tester")

	// Assert
	assert.ErrorIs(t, secondErr, ErrInvalidTransition)
	after, err := f.sales.GetSale(sale.ID)
	require.NoError(t, err)
	assert.Equal(t, first, after)

	stored, _ := f.inventory.GetItem(item.ID)
	assert.Equal(t, 10, stored.Quantity)
	history, err := f.inventory.History(item.ID)
	require.NoError(t, err)
	returns := ledgerOf(history, model.TxReturn)
	require.Len(t, returns, 1)
	assert.Equal(t, 3, returns[0].Quantity)
}

func TestSetStatus_VoidWithoutRestockLeavesInventory(t *testing.T) {
	f := newFixture(t, false)
	item := f.item(t, "cable", "10", 10)
	sale, err := f.sales.Finalize(&CheckoutRequest{
		Client:   testClient(),
		Lines:    []model.SaleLine{line(item, 3)},
		Payments: []model.PaymentMethod{cash("30")},
	}, "tester")
	require.NoError(t, err)

	voided, err := f.sales.SetStatus(sale.ID, model.SaleVoided, "tester")

	require.NoError(t, err)
	assert.Equal(t, model.SaleVoided, voided.Status)
	stored, _ := f.inventory.GetItem(item.ID)
	assert.Equal(t, 7, stored.Quantity)
}

func TestBuildLine(t *testing.T) {
	// Arrange
	f := newFixture(t, false)
	item := f.item(t, "cable", "12.50", 3)

	// Act
	built, err := f.sales.BuildLine(item.ID, decimal.NewFromInt(2))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "cable", built.ProductName)
	assert.Equal(t, "SKU-cable", built.ProductSKU)
	assert.Equal(t, "25", built.Subtotal().String())

	_, err = f.sales.BuildLine(item.ID, decimal.NewFromInt(4))
	assert.ErrorIs(t, err, ErrInsufficientInventory)
	_, err = f.sales.BuildLine(404, decimal.NewFromInt(1))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaleError_Message(t *testing.T) {
	err := lineError("validate", 2, ErrInvalidProductLine)

	assert.EqualError(t, err, "sale: validate failed on line 3: invalid product line")
	assert.ErrorIs(t, err, ErrInvalidProductLine)
	assert.EqualError(t, saleError("persist", errors.New("disk full")), "sale: persist failed: disk full")
}
