package service

import (
	"time"

	"go-pos-ledger/internal/model"
	"go-pos-ledger/internal/repository"

	"github.com/shopspring/decimal"
)

// StockMovementData is one day of ledger activity for charts
type StockMovementData struct {
	Date     string `json:"date"`
	Inbound  int    `json:"inbound"`
	Outbound int    `json:"outbound"`
}

// InventoryStats summarizes the stock on hand
type InventoryStats struct {
	TotalProducts   int             `json:"total_products"`
	LowStockCount   int             `json:"low_stock_count"`
	OutOfStockCount int             `json:"out_of_stock_count"`
	TotalValuation  decimal.Decimal `json:"total_valuation"`
}

// SalesSummary excludes voided sales from every amount
type SalesSummary struct {
	TotalSold       decimal.Decimal          `json:"total_sold"`
	TotalSoldLocal  decimal.Decimal          `json:"total_sold_local"`
	SalesCount      int                      `json:"sales_count"`
	UnitsSold       decimal.Decimal          `json:"units_sold"`
	AverageSale     decimal.Decimal          `json:"average_sale"`
	OutstandingDebt decimal.Decimal          `json:"outstanding_debt"`
	StatusCounts    map[model.SaleStatus]int `json:"status_counts"`
}

type DashboardStats struct {
	Inventory    InventoryStats  `json:"inventory"`
	Sales        SalesSummary    `json:"sales"`
	CurrencyRate decimal.Decimal `json:"currency_rate"`
}

type DashboardService interface {
	GetStockMovement(days int) ([]StockMovementData, error)
	GetDashboardStats() (*DashboardStats, error)
	GetSalesSummary() SalesSummary
}

type dashboardService struct {
	saleRepo          repository.SaleRepository
	inventoryRepo     repository.InventoryRepository
	rates             RateService
	lowStockThreshold int
}

func NewDashboardService(saleRepo repository.SaleRepository, inventoryRepo repository.InventoryRepository, rates RateService, lowStockThreshold int) DashboardService {
	return &dashboardService{
		saleRepo:          saleRepo,
		inventoryRepo:     inventoryRepo,
		rates:             rates,
		lowStockThreshold: lowStockThreshold,
	}
}

// GetStockMovement aggregates ledger deltas per day, oldest day first, with
// every day of the window present.
func (s *dashboardService) GetStockMovement(days int) ([]StockMovementData, error) {
	if days <= 0 {
		return nil, preconditionf("days must be positive")
	}
	endDate := time.Now()
	startDay := time.Date(endDate.Year(), endDate.Month(), endDate.Day(), 0, 0, 0, 0, endDate.Location()).
		AddDate(0, 0, -(days - 1))

	results := make([]StockMovementData, days)
	index := make(map[string]int, days)
	for i := range results {
		date := startDay.AddDate(0, 0, i).Format(time.DateOnly)
		results[i].Date = date
		index[date] = i
	}

	for _, e := range s.inventoryRepo.AllHistory() {
		i, ok := index[e.Date.In(endDate.Location()).Format(time.DateOnly)]
		if !ok {
			continue
		}
		if e.Quantity > 0 {
			results[i].Inbound += e.Quantity
		} else {
			results[i].Outbound -= e.Quantity
		}
	}
	return results, nil
}

func (s *dashboardService) GetDashboardStats() (*DashboardStats, error) {
	var stats DashboardStats

	rate, err := s.rates.CurrentRate()
	if err != nil {
		return nil, err
	}
	stats.CurrencyRate = rate

	stats.Inventory.TotalValuation = decimal.Zero
	for _, item := range s.inventoryRepo.FindAll() {
		stats.Inventory.TotalProducts++
		if item.Quantity < s.lowStockThreshold {
			stats.Inventory.LowStockCount++
		}
		if item.Quantity == 0 {
			stats.Inventory.OutOfStockCount++
		}
		stats.Inventory.TotalValuation = stats.Inventory.TotalValuation.Add(item.UnitValue.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	stats.Sales = s.GetSalesSummary()
	return &stats, nil
}

func (s *dashboardService) GetSalesSummary() SalesSummary {
	summary := SalesSummary{
		TotalSold:       decimal.Zero,
		TotalSoldLocal:  decimal.Zero,
		UnitsSold:       decimal.Zero,
		AverageSale:     decimal.Zero,
		OutstandingDebt: decimal.Zero,
		StatusCounts: map[model.SaleStatus]int{
			model.SalePending: 0,
			model.SalePaid:    0,
			model.SaleVoided:  0,
		},
	}

	for _, sale := range s.saleRepo.FindAll() {
		summary.StatusCounts[sale.Status]++
		if sale.Status == model.SaleVoided {
			continue
		}
		summary.SalesCount++
		summary.TotalSold = summary.TotalSold.Add(sale.Total)
		summary.TotalSoldLocal = summary.TotalSoldLocal.Add(sale.TotalLocal)
		summary.UnitsSold = summary.UnitsSold.Add(sale.UnitsSold())
		if sale.Status == model.SalePending && sale.Debt.IsPositive() {
			summary.OutstandingDebt = summary.OutstandingDebt.Add(sale.Debt)
		}
	}
	if summary.SalesCount > 0 {
		summary.AverageSale = summary.TotalSold.Div(decimal.NewFromInt(int64(summary.SalesCount))).Round(2)
	}
	return summary
}
