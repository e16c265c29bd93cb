package service

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go-pos-ledger/internal/logger"
	"go-pos-ledger/internal/model"
	"go-pos-ledger/internal/repository"
	"go-pos-ledger/pkg/currency"

	"github.com/shopspring/decimal"
)

// CheckoutRequest is everything the sell page submits for one sale.
type CheckoutRequest struct {
	DraftID  string                `json:"draft_id,omitempty"`
	Client   model.Client          `json:"client"`
	Lines    []model.SaleLine      `json:"products"`
	Payments []model.PaymentMethod `json:"payments"`
	Change   *ChangeRequest        `json:"change,omitempty"`
}

// SaleQuote is the computed view of a checkout request. Debt is never
// negative here; an overpayment shows up as Change.
type SaleQuote struct {
	Lines          []model.SaleLine      `json:"products"`
	Payments       []model.PaymentMethod `json:"payments"`
	Total          decimal.Decimal       `json:"total"`
	TotalLocal     decimal.Decimal       `json:"total_local"`
	TotalPaid      decimal.Decimal       `json:"total_paid"`
	TotalPaidLocal decimal.Decimal       `json:"total_paid_local"`
	Debt           decimal.Decimal       `json:"debt"`
	DebtLocal      decimal.Decimal       `json:"debt_local"`
	CurrencyRate   decimal.Decimal       `json:"currency_rate"`
	Change         *ChangeQuote          `json:"change,omitempty"`

	client *model.Client
	stock  []StockChange
	staged int
}

type SaleService interface {
	// Quote validates and prices a request without side effects. On
	// ErrIncompletePayment the quote is still returned so the remaining debt
	// can be shown.
	Quote(req *CheckoutRequest) (*SaleQuote, error)
	Finalize(req *CheckoutRequest, operator string) (*model.Sale, error)
	AddPayment(saleID int64, payment model.PaymentMethod, operator string) (*model.Sale, error)
	SetStatus(saleID int64, status model.SaleStatus, operator string) (*model.Sale, error)
	BuildLine(productID int64, quantity decimal.Decimal) (*model.SaleLine, error)
	ListSales() []model.Sale
	GetSale(id int64) (*model.Sale, error)
	// Invoice formats a stored sale for printing.
	Invoice(id int64) (*Invoice, error)
}

type saleService struct {
	// mu serializes checkouts. Stock itself is re-checked under the inventory
	// lock when the deduction is applied.
	mu            sync.Mutex
	repo          repository.SaleRepository
	staging       repository.StagingRepository
	clients       ClientService
	inventory     InventoryService
	rates         RateService
	notifier      Notifier
	restockOnVoid bool
}

func NewSaleService(
	repo repository.SaleRepository,
	staging repository.StagingRepository,
	clients ClientService,
	inventory InventoryService,
	rates RateService,
	notifier Notifier,
	restockOnVoid bool,
) SaleService {
	return &saleService{
		repo:          repo,
		staging:       staging,
		clients:       clients,
		inventory:     inventory,
		rates:         rates,
		notifier:      notifier,
		restockOnVoid: restockOnVoid,
	}
}

func (s *saleService) Quote(req *CheckoutRequest) (*SaleQuote, error) {
	rate, err := s.rates.CurrentRate()
	if err != nil {
		return nil, err
	}
	return s.quote(req, rate)
}

func (s *saleService) quote(req *CheckoutRequest, rate decimal.Decimal) (*SaleQuote, error) {
	const op = "validate"

	// 1. Client
	client := req.Client
	normalizeClient(&client)
	if err := checkClient(&client); err != nil {
		return nil, saleError(op, err)
	}

	// 2. Product lines
	if len(req.Lines) == 0 {
		return nil, saleError(op, fmt.Errorf("%w: no products selected", ErrInvalidProductLine))
	}
	lines := make([]model.SaleLine, 0, len(req.Lines))
	items := make(map[int64]*model.InventoryItem)
	requested := make(map[int64]decimal.Decimal)
	var order []int64
	firstLine := make(map[int64]int)
	for i, line := range req.Lines {
		if line.ProductID <= 0 {
			return nil, lineError(op, i, fmt.Errorf("%w: no product selected", ErrInvalidProductLine))
		}
		item, ok := items[line.ProductID]
		if !ok {
			found, err := s.inventory.GetItem(line.ProductID)
			if err != nil {
				return nil, lineError(op, i, fmt.Errorf("product %d: %w", line.ProductID, err))
			}
			item = found
			items[line.ProductID] = item
			firstLine[item.ID] = i
			order = append(order, item.ID)
		}
		if item.Status == model.ItemInactive {
			return nil, lineError(op, i, fmt.Errorf("%w: %s is inactive", ErrInvalidProductLine, item.Name))
		}
		if !line.UnitValue.IsPositive() {
			return nil, lineError(op, i, fmt.Errorf("%w: unit value must be greater than zero", ErrInvalidProductLine))
		}
		if !line.Quantity.IsPositive() || !line.Quantity.IsInteger() {
			return nil, lineError(op, i, fmt.Errorf("%w: quantity must be a positive whole number", ErrInvalidProductLine))
		}
		if line.ProductName == "" {
			line.ProductName = item.Name
		}
		if line.ProductSKU == "" {
			line.ProductSKU = item.SKU
		}
		lines = append(lines, line)
		requested[item.ID] = requested[item.ID].Add(line.Quantity)
	}

	// 3. Inventory, with repeated products counted together
	stock := make([]StockChange, 0, len(order))
	for _, id := range order {
		item := items[id]
		if requested[id].GreaterThan(decimal.NewFromInt(int64(item.Quantity))) {
			return nil, lineError(op, firstLine[id], fmt.Errorf("%w: %s requested %s, %d available",
				ErrInsufficientInventory, item.Name, requested[id].String(), item.Quantity))
		}
		stock = append(stock, StockChange{ItemID: id, Quantity: int(requested[id].IntPart())})
	}

	// 4. Payments, staged ones first, all priced at this rate
	var payments []model.PaymentMethod
	staged := 0
	if req.DraftID != "" {
		draft, err := s.staging.Get(req.DraftID)
		if err != nil {
			return nil, saleError(op, fmt.Errorf("draft %s: %w", req.DraftID, err))
		}
		for i, p := range draft.Payments {
			normalized, err := normalizePayment(p, rate)
			if err != nil {
				return nil, saleError(op, fmt.Errorf("staged payment %d: %w", i+1, err))
			}
			payments = append(payments, normalized)
		}
		staged = len(draft.Payments)
	}
	for i, p := range req.Payments {
		normalized, err := normalizePayment(p, rate)
		if err != nil {
			return nil, saleError(op, fmt.Errorf("payment %d: %w", i+1, err))
		}
		payments = append(payments, normalized)
	}

	// 5. Totals
	total := model.SumLines(lines)
	totalLocal, err := currency.ToLocal(total, rate)
	if err != nil {
		return nil, saleError(op, preconditionf("%v", err))
	}
	paid, paidLocal := model.SumPayments(payments)
	debt := decimal.Max(decimal.Zero, total.Sub(paid))
	debtLocal, _ := currency.ToLocal(debt, rate)
	change, err := QuoteChange(total, paid, rate)
	if err != nil {
		return nil, saleError(op, err)
	}

	quote := &SaleQuote{
		Lines:          lines,
		Payments:       payments,
		Total:          total,
		TotalLocal:     totalLocal,
		TotalPaid:      paid,
		TotalPaidLocal: paidLocal,
		Debt:           debt,
		DebtLocal:      debtLocal,
		CurrencyRate:   rate,
		Change:         change,
		client:         &client,
		stock:          stock,
		staged:         staged,
	}
	if paid.LessThan(total) {
		return quote, saleError(op, ErrIncompletePayment)
	}
	return quote, nil
}

func (s *saleService) Finalize(req *CheckoutRequest, operator string) (*model.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := logger.WithComponent("sales")

	rate, err := s.rates.CurrentRate()
	if err != nil {
		return nil, err
	}

	// 1. Validate everything before the first write
	quote, err := s.quote(req, rate)
	if err != nil {
		log.Warn().Err(err).Str("operator", operator).Msg("sale rejected")
		return nil, err
	}

	// 2. Settle change when overpaid
	var change *model.ChangeInfo
	if quote.Change != nil {
		if req.Change == nil {
			return nil, saleError("settle_change", ErrChangeSettlementRequired)
		}
		change, err = quote.Change.Confirm(*req.Change)
		if err != nil {
			log.Warn().Err(err).Str("operator", operator).Msg("change settlement rejected")
			return nil, saleError("settle_change", err)
		}
	}

	// 3. Inventory deductions, rejected if stock moved since validation
	notes := fmt.Sprintf("sale to %s", quote.client.FullName())
	if _, err := s.inventory.ApplySaleDeductions(quote.stock, notes, operator); err != nil {
		log.Warn().Err(err).Str("operator", operator).Msg("sale rejected at deduction")
		return nil, saleError("deduct_inventory", err)
	}

	// 4. Client upsert
	client, _, err := s.clients.AddClient(quote.client, operator)
	if err != nil {
		s.revertDeductions(quote.stock, "reverted: client could not be saved", operator)
		return nil, saleError("save_client", err)
	}

	// 5. Sale record
	debt := quote.Total.Sub(quote.TotalPaid)
	if change != nil {
		debt = debt.Add(change.Amount)
	}
	debtLocal, _ := currency.ToLocal(debt, rate)
	sale, err := s.repo.Create(model.Sale{
		Date:         time.Now(),
		ClientID:     client.ID,
		ClientName:   client.FullName(),
		Products:     quote.Lines,
		Total:        quote.Total,
		TotalLocal:   quote.TotalLocal,
		Debt:         debt,
		DebtLocal:    debtLocal,
		CurrencyRate: rate,
		Status:       statusForDebt(debt),
		CreatedBy:    operator,
		Payments:     quote.Payments,
		Change:       change,
	})
	if err != nil {
		s.revertDeductions(quote.stock, "reverted: sale could not be saved", operator)
		return nil, saleError("persist", err)
	}

	// 6. Staged payments are now part of the sale; later ones stay staged
	if req.DraftID != "" {
		if err := s.staging.DropFirst(req.DraftID, quote.staged); err != nil {
			log.Warn().Err(err).Str("draft_id", req.DraftID).Msg("failed to clear staged payments")
		}
	}

	log.Info().
		Str("operator", operator).
		Int64("sale_id", sale.ID).
		Str("total", sale.Total.String()).
		Bool("change", change != nil).
		Msg("sale created")

	s.broadcast("sale_created", sale, operator)
	return sale, nil
}

func (s *saleService) AddPayment(saleID int64, payment model.PaymentMethod, operator string) (*model.Sale, error) {
	const op = "add_payment"

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.repo.FindByID(saleID)
	if err != nil {
		return nil, saleError(op, err)
	}
	if existing.Status == model.SaleVoided {
		return nil, saleError(op, fmt.Errorf("%w: sale %d is voided", ErrInvalidTransition, saleID))
	}

	// Later payments convert at the rate snapshotted on the sale.
	rate := existing.CurrencyRate
	if !rate.IsPositive() {
		if rate, err = s.rates.CurrentRate(); err != nil {
			return nil, saleError(op, err)
		}
	}
	p, err := normalizePayment(payment, rate)
	if err != nil {
		return nil, saleError(op, err)
	}

	sale, err := s.repo.Update(saleID, func(sale *model.Sale) error {
		if sale.Status == model.SaleVoided {
			return fmt.Errorf("%w: sale %d is voided", ErrInvalidTransition, saleID)
		}
		sale.Payments = append(sale.Payments, p)
		sale.Debt = sale.Debt.Sub(p.AmountUSD)
		sale.DebtLocal = sale.DebtLocal.Sub(p.AmountLocal)
		if !sale.Debt.IsPositive() {
			sale.Status = model.SalePaid
		}
		return nil
	})
	if err != nil {
		return nil, saleError(op, err)
	}

	log := logger.WithComponent("sales")
	log.Info().
		Str("operator", operator).
		Int64("sale_id", saleID).
		Str("amount_usd", p.AmountUSD.String()).
		Str("debt", sale.Debt.String()).
		Msg("payment added")

	s.broadcast("payment_added", sale, operator)
	return sale, nil
}

func (s *saleService) SetStatus(saleID int64, status model.SaleStatus, operator string) (*model.Sale, error) {
	const op = "set_status"
	if !status.Valid() {
		return nil, saleError(op, preconditionf("unknown status %q", status))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	log := logger.WithComponent("sales")

	sale, err := s.repo.Update(saleID, func(sale *model.Sale) error {
		if !sale.Status.CanTransition(status) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, sale.Status, status)
		}
		sale.Status = status
		return nil
	})
	if err != nil {
		log.Warn().Err(err).Int64("sale_id", saleID).Str("status", string(status)).Msg("status change rejected")
		return nil, saleError(op, err)
	}

	if status == model.SaleVoided && s.restockOnVoid {
		s.restock(sale, operator)
	}

	log.Info().Str("operator", operator).Int64("sale_id", saleID).Str("status", string(status)).Msg("sale status changed")

	s.broadcast("status_changed", sale, operator)
	return sale, nil
}

// revertDeductions puts back stock taken by a checkout that could not be
// completed.
func (s *saleService) revertDeductions(stock []StockChange, notes, operator string) {
	if _, err := s.inventory.ApplyReturns(stock, notes, operator); err != nil {
		log := logger.WithComponent("sales")
		log.Error().Err(err).Msg("failed to restore inventory after aborted sale")
	}
}

// restock returns the voided sale's units to items that still exist. The void
// stands even if the return cannot be recorded.
func (s *saleService) restock(sale *model.Sale, operator string) {
	log := logger.WithComponent("sales")

	var changes []StockChange
	for _, line := range sale.Products {
		if _, err := s.inventory.GetItem(line.ProductID); err != nil {
			if !errors.Is(err, ErrNotFound) {
				log.Error().Err(err).Int64("item_id", line.ProductID).Msg("restock lookup failed")
			}
			continue
		}
		changes = append(changes, StockChange{ItemID: line.ProductID, Quantity: int(line.Quantity.IntPart())})
	}
	if len(changes) == 0 {
		return
	}
	notes := fmt.Sprintf("voided sale #%d", sale.ID)
	if _, err := s.inventory.ApplyReturns(changes, notes, operator); err != nil {
		log.Error().Err(err).Int64("sale_id", sale.ID).Msg("restock after void failed")
	}
}

func (s *saleService) BuildLine(productID int64, quantity decimal.Decimal) (*model.SaleLine, error) {
	const op = "build_line"

	item, err := s.inventory.GetItem(productID)
	if err != nil {
		return nil, saleError(op, fmt.Errorf("product %d: %w", productID, err))
	}
	if item.Status == model.ItemInactive {
		return nil, saleError(op, fmt.Errorf("%w: %s is inactive", ErrInvalidProductLine, item.Name))
	}
	if !quantity.IsPositive() || !quantity.IsInteger() {
		return nil, saleError(op, fmt.Errorf("%w: quantity must be a positive whole number", ErrInvalidProductLine))
	}
	if quantity.GreaterThan(decimal.NewFromInt(int64(item.Quantity))) {
		return nil, saleError(op, fmt.Errorf("%w: %s has %d available", ErrInsufficientInventory, item.Name, item.Quantity))
	}
	return &model.SaleLine{
		ProductID:   item.ID,
		ProductName: item.Name,
		ProductSKU:  item.SKU,
		UnitValue:   item.UnitValue,
		Quantity:    quantity,
	}, nil
}

func (s *saleService) ListSales() []model.Sale {
	return s.repo.FindAll()
}

func (s *saleService) GetSale(id int64) (*model.Sale, error) {
	return s.repo.FindByID(id)
}

func (s *saleService) Invoice(id int64) (*Invoice, error) {
	sale, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	var identification string
	if client, err := s.clients.GetClient(sale.ClientID); err == nil {
		identification = client.Identification
	}
	inv := BuildInvoice(*sale, identification)
	return &inv, nil
}

func (s *saleService) broadcast(action string, sale *model.Sale, operator string) {
	kind := "sale_updated"
	if action == "sale_created" {
		kind = "sale_created"
	}
	publish(s.notifier, event{
		"type":   kind,
		"action": action,
		"sale": event{
			"id":          sale.ID,
			"client_name": sale.ClientName,
			"total":       sale.Total,
			"total_local": sale.TotalLocal,
			"debt":        sale.Debt,
			"status":      sale.Status,
		},
		"message": fmt.Sprintf("%s: sale #%d is %s", operator, sale.ID, sale.Status),
	})
}

func statusForDebt(debt decimal.Decimal) model.SaleStatus {
	if debt.IsPositive() {
		return model.SalePending
	}
	return model.SalePaid
}
