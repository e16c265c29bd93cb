package app

import (
	"go-pos-ledger/internal/config"
	"go-pos-ledger/internal/handler"
	"go-pos-ledger/internal/repository"
	"go-pos-ledger/internal/service"
)

// Services holds every wired service of the till.
type Services struct {
	Rates     service.RateService
	Clients   service.ClientService
	Suppliers service.SupplierService
	Inventory service.InventoryService
	Staging   service.StagingService
	Sales     service.SaleService
	Dashboard service.DashboardService
	Reports   service.ReportService
	Seed      service.SeedService
}

// Build loads every store from snap and wires the services on top of it.
// notifier may be nil.
func Build(snap repository.SnapshotRepository, cfg *config.Config, notifier service.Notifier) (*Services, error) {
	// 1. Repositories (each one loads its snapshot eagerly)
	clientRepo, err := repository.NewClientRepo(snap)
	if err != nil {
		return nil, err
	}
	supplierRepo, err := repository.NewSupplierRepo(snap)
	if err != nil {
		return nil, err
	}
	inventoryRepo, err := repository.NewInventoryRepo(snap)
	if err != nil {
		return nil, err
	}
	saleRepo, err := repository.NewSaleRepo(snap)
	if err != nil {
		return nil, err
	}
	rateRepo, err := repository.NewRateRepo(snap)
	if err != nil {
		return nil, err
	}
	stagingRepo, err := repository.NewStagingRepo(snap)
	if err != nil {
		return nil, err
	}

	// 2. Services
	s := &Services{}
	s.Rates = service.NewRateService(rateRepo, cfg.DefaultCurrencyRate, notifier)
	s.Clients = service.NewClientService(clientRepo, notifier)
	s.Suppliers = service.NewSupplierService(supplierRepo, notifier)
	s.Inventory = service.NewInventoryService(inventoryRepo, supplierRepo, notifier)
	s.Staging = service.NewStagingService(stagingRepo, s.Rates)
	s.Sales = service.NewSaleService(saleRepo, stagingRepo, s.Clients, s.Inventory, s.Rates, notifier, cfg.RestockOnVoid)
	s.Dashboard = service.NewDashboardService(saleRepo, inventoryRepo, s.Rates, cfg.LowStockThreshold)
	s.Reports = service.NewReportService(saleRepo, inventoryRepo)
	s.Seed = service.NewSeedService(s.Suppliers, s.Inventory, s.Clients, s.Rates)
	return s, nil
}

// Handlers wraps the services in their HTTP handlers.
func (s *Services) Handlers() *handler.Handlers {
	return &handler.Handlers{
		Clients:   handler.NewClientHandler(s.Clients),
		Suppliers: handler.NewSupplierHandler(s.Suppliers),
		Inventory: handler.NewInventoryHandler(s.Inventory),
		Sales:     handler.NewSaleHandler(s.Sales),
		Drafts:    handler.NewDraftHandler(s.Staging),
		Rate:      handler.NewRateHandler(s.Rates),
		Dashboard: handler.NewDashboardHandler(s.Dashboard),
		Reports:   handler.NewReportHandler(s.Reports),
	}
}
