package handler

import "github.com/gofiber/fiber/v2"

// Handlers groups every HTTP handler exposed under /api/v1.
type Handlers struct {
	Clients   *ClientHandler
	Suppliers *SupplierHandler
	Inventory *InventoryHandler
	Sales     *SaleHandler
	Drafts    *DraftHandler
	Rate      *RateHandler
	Dashboard *DashboardHandler
	Reports   *ReportHandler
}

// Register mounts the routes on router.
func (h *Handlers) Register(router fiber.Router) {
	// Dashboard Routes
	router.Get("/dashboard/stats", h.Dashboard.GetDashboardStats)
	router.Get("/dashboard/sales", h.Dashboard.GetSalesSummary)
	router.Get("/dashboard/stock-movement", h.Dashboard.GetStockMovement)

	// Client Routes
	router.Get("/clients", h.Clients.GetClients)
	router.Get("/clients/:id", h.Clients.GetClient)
	router.Post("/clients", h.Clients.CreateClient)
	router.Put("/clients/:id", h.Clients.UpdateClient)
	router.Delete("/clients/:id", h.Clients.DeleteClient)

	// Supplier Routes
	router.Get("/suppliers", h.Suppliers.GetSuppliers)
	router.Get("/suppliers/:id", h.Suppliers.GetSupplier)
	router.Post("/suppliers", h.Suppliers.CreateSupplier)
	router.Put("/suppliers/:id", h.Suppliers.UpdateSupplier)
	router.Delete("/suppliers/:id", h.Suppliers.DeleteSupplier)

	// Inventory Routes
	router.Get("/inventory", h.Inventory.GetItems)
	router.Get("/inventory/history", h.Inventory.GetAllHistory)
	router.Get("/inventory/:id", h.Inventory.GetItem)
	router.Post("/inventory", h.Inventory.CreateItem)
	router.Put("/inventory/:id", h.Inventory.UpdateItem)
	router.Delete("/inventory/:id", h.Inventory.DeleteItem)
	router.Post("/inventory/:id/stock", h.Inventory.AddStock)
	router.Post("/inventory/:id/adjust", h.Inventory.Adjust)
	router.Get("/inventory/:id/history", h.Inventory.GetHistory)

	// Sale Routes
	router.Get("/sales", h.Sales.GetSales)
	router.Post("/sales/quote", h.Sales.Quote)
	router.Post("/sales/lines", h.Sales.BuildLine)
	router.Get("/sales/:id", h.Sales.GetSale)
	router.Get("/sales/:id/invoice", h.Sales.GetInvoice)
	router.Post("/sales", h.Sales.CreateSale)
	router.Post("/sales/:id/payments", h.Sales.AddPayment)
	router.Put("/sales/:id/status", h.Sales.SetStatus)

	// Draft payment staging
	router.Post("/drafts", h.Drafts.OpenDraft)
	router.Get("/drafts/:id/payments", h.Drafts.GetPayments)
	router.Post("/drafts/:id/payments", h.Drafts.StagePayment)
	router.Delete("/drafts/:id/payments/:index", h.Drafts.RemovePayment)
	router.Delete("/drafts/:id", h.Drafts.DiscardDraft)

	// Currency rate
	router.Get("/rate", h.Rate.GetRate)
	router.Put("/rate", h.Rate.SetRate)

	// Reports
	router.Get("/reports/workbook.xlsx", h.Reports.DownloadWorkbook)
}
