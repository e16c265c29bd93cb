package service

import (
	"sync"
	"testing"

	"go-pos-ledger/internal/model"
	"go-pos-ledger/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// recordingNotifier keeps every published event.
type recordingNotifier struct {
	mu     sync.Mutex
	events []event
}

func (n *recordingNotifier) Publish(payload interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if e, ok := payload.(event); ok {
		n.events = append(n.events, e)
	}
}

func (n *recordingNotifier) types() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []string
	for _, e := range n.events {
		out = append(out, e["type"].(string))
	}
	return out
}

type fixture struct {
	notifier *recordingNotifier

	saleRepo      repository.SaleRepository
	inventoryRepo repository.InventoryRepository
	stagingRepo   repository.StagingRepository

	rates     RateService
	clients   ClientService
	suppliers SupplierService
	inventory InventoryService
	staging   StagingService
	sales     SaleService
	dashboard DashboardService
	reports   ReportService
	seed      SeedService
}

// newFixture wires every service over an in-memory snapshot store with an
// exchange rate of 10 so that local amounts are easy to read.
func newFixture(t *testing.T, restockOnVoid bool) *fixture {
	t.Helper()

	snap := repository.NewMemorySnapshotRepo()
	clientRepo, err := repository.NewClientRepo(snap)
	require.NoError(t, err)
	supplierRepo, err := repository.NewSupplierRepo(snap)
	require.NoError(t, err)
	inventoryRepo, err := repository.NewInventoryRepo(snap)
	require.NoError(t, err)
	saleRepo, err := repository.NewSaleRepo(snap)
	require.NoError(t, err)
	rateRepo, err := repository.NewRateRepo(snap)
	require.NoError(t, err)
	stagingRepo, err := repository.NewStagingRepo(snap)
	require.NoError(t, err)

	f := &fixture{
		notifier:      &recordingNotifier{},
		saleRepo:      saleRepo,
		inventoryRepo: inventoryRepo,
		stagingRepo:   stagingRepo,
	}
	f.rates = NewRateService(rateRepo, decimal.NewFromInt(10), f.notifier)
	f.clients = NewClientService(clientRepo, f.notifier)
	f.suppliers = NewSupplierService(supplierRepo, f.notifier)
	f.inventory = NewInventoryService(inventoryRepo, supplierRepo, f.notifier)
	f.staging = NewStagingService(stagingRepo, f.rates)
	f.sales = NewSaleService(saleRepo, stagingRepo, f.clients, f.inventory, f.rates, f.notifier, restockOnVoid)
	f.dashboard = NewDashboardService(saleRepo, inventoryRepo, f.rates, 10)
	f.reports = NewReportService(saleRepo, inventoryRepo)
	f.seed = NewSeedService(f.suppliers, f.inventory, f.clients, f.rates)
	return f
}

func (f *fixture) item(t *testing.T, name string, unitValue string, qty int) *model.InventoryItem {
	t.Helper()
	item, err := f.inventory.CreateItem(&model.InventoryItem{
		Name:      name,
		UnitValue: decimal.RequireFromString(unitValue),
		Quantity:  qty,
		SKU:       "SKU-" + name,
	}, "tester")
	require.NoError(t, err)
	return item
}

func (f *fixture) supplier(t *testing.T, name string) *model.Supplier {
	t.Helper()
	supplier, err := f.suppliers.CreateSupplier(&model.Supplier{Name: name, Active: true}, "tester")
	require.NoError(t, err)
	return supplier
}

func testClient() model.Client {
	return model.Client{
		Name:               "Ana",
		Surname:            "Perez",
		Identification:     "V-12345678",
		IdentificationType: model.IDNationalID,
		Email:              "ana@example.com",
	}
}

func line(item *model.InventoryItem, qty int64) model.SaleLine {
	return model.SaleLine{ProductID: item.ID, UnitValue: item.UnitValue, Quantity: decimal.NewFromInt(qty)}
}

func cash(usd string) model.PaymentMethod {
	return model.PaymentMethod{Type: model.PaymentCash, AmountUSD: decimal.RequireFromString(usd)}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ledgerOf(entries []model.InventoryHistoryEntry, tx model.TransactionType) []model.InventoryHistoryEntry {
	var out []model.InventoryHistoryEntry
	for _, e := range entries {
		if e.TransactionType == tx {
			out = append(out, e)
		}
	}
	return out
}
