package service

import (
	"testing"
	"time"

	"go-pos-ledger/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDashboardStats_ExcludesVoidedSales(t *testing.T) {
	// Arrange
	f := newFixture(t, false)
	cable := f.item(t, "cable", "10", 20)
	f.item(t, "plug", "2.5", 4)
	for _, qty := range []int64{1, 2, 3} {
		_, err := f.sales.Finalize(&CheckoutRequest{
			Client:   testClient(),
			Lines:    []model.SaleLine{line(cable, qty)},
			Payments: []model.PaymentMethod{cash(decimal.NewFromInt(10 * qty).String())},
		}, "tester")
		require.NoError(t, err)
	}
	_, err := f.sales.SetStatus(3, model.SaleVoided, "tester")
	require.NoError(t, err)
	pendingSale(t, f, "40")

	// Act
	stats, err := f.dashboard.GetDashboardStats()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Inventory.TotalProducts)
	assert.Equal(t, 1, stats.Inventory.LowStockCount)
	assert.Equal(t, "150", stats.Inventory.TotalValuation.String())
	assert.Equal(t, "10", stats.CurrencyRate.String())

	assert.Equal(t, 3, stats.Sales.SalesCount)
	assert.Equal(t, "70", stats.Sales.TotalSold.String())
	assert.Equal(t, "700", stats.Sales.TotalSoldLocal.String())
	assert.Equal(t, "3", stats.Sales.UnitsSold.String())
	assert.Equal(t, "23.33", stats.Sales.AverageSale.String())
	assert.Equal(t, "40", stats.Sales.OutstandingDebt.String())
	assert.Equal(t, 2, stats.Sales.StatusCounts[model.SalePaid])
	assert.Equal(t, 1, stats.Sales.StatusCounts[model.SaleVoided])
	assert.Equal(t, 1, stats.Sales.StatusCounts[model.SalePending])
}

func TestGetStockMovement(t *testing.T) {
	// Arrange
	f := newFixture(t, false)
	item := f.item(t, "cable", "10", 8)
	_, err := f.inventory.ApplySaleDeduction(item.ID, 3, "", "tester")
	require.NoError(t, err)
	_, err = f.inventory.Adjust(item.ID, 6, "", "tester")
	require.NoError(t, err)

	// Act
	data, err := f.dashboard.GetStockMovement(7)

	// Assert
	require.NoError(t, err)
	require.Len(t, data, 7)
	today := data[6]
	assert.Equal(t, time.Now().Format(time.DateOnly), today.Date)
	assert.Equal(t, 9, today.Inbound)
	assert.Equal(t, 3, today.Outbound)
	assert.Zero(t, data[0].Inbound)

	_, err = f.dashboard.GetStockMovement(0)
	assert.ErrorIs(t, err, ErrPreconditionViolation)
}
