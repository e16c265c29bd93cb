package service

import (
	"errors"
	"fmt"
	"strings"

	"go-pos-ledger/internal/logger"
	"go-pos-ledger/internal/model"
	"go-pos-ledger/internal/repository"
)

// StockChange is a positive quantity applied to one item.
type StockChange struct {
	ItemID   int64
	Quantity int
}

// InventoryService is the inventory ledger. Every quantity change goes through
// it and is paired with exactly one history entry.
type InventoryService interface {
	CreateItem(req *model.InventoryItem, operator string) (*model.InventoryItem, error)
	UpdateItem(id int64, update model.ItemUpdate, operator string) (*model.InventoryItem, error)
	DeleteItem(id int64, operator string) error
	GetItem(id int64) (*model.InventoryItem, error)
	SearchItems(term string) []model.InventoryItem

	AddStock(itemID int64, delta int, supplierID int64, notes, operator string) (*model.InventoryItem, error)
	ApplySaleDeduction(itemID int64, delta int, notes, operator string) (*model.InventoryItem, error)
	// ApplySaleDeductions deducts every change or none of them. Unlike
	// ApplySaleDeduction it never clamps: an item holding less than requested
	// fails the whole batch with ErrInsufficientInventory.
	ApplySaleDeductions(changes []StockChange, notes, operator string) ([]model.InventoryItem, error)
	Adjust(itemID int64, newQuantity int, notes, operator string) (*model.InventoryItem, error)
	ApplyReturn(itemID int64, delta int, notes, operator string) (*model.InventoryItem, error)
	ApplyReturns(changes []StockChange, notes, operator string) ([]model.InventoryItem, error)

	History(itemID int64) ([]model.InventoryHistoryEntry, error)
	AllHistory() []model.InventoryHistoryEntry
}

type inventoryService struct {
	repo         repository.InventoryRepository
	supplierRepo repository.SupplierRepository
	notifier     Notifier
}

func NewInventoryService(repo repository.InventoryRepository, supplierRepo repository.SupplierRepository, notifier Notifier) InventoryService {
	return &inventoryService{repo: repo, supplierRepo: supplierRepo, notifier: notifier}
}

func (s *inventoryService) checkSupplier(id int64) error {
	if id == 0 {
		return nil
	}
	if _, err := s.supplierRepo.FindByID(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("supplier %d: %w", id, ErrNotFound)
		}
		return err
	}
	return nil
}

func (s *inventoryService) CreateItem(req *model.InventoryItem, operator string) (*model.InventoryItem, error) {
	// 1. Validate
	req.Name = strings.TrimSpace(req.Name)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if req.Status != "" && !req.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, req.Status)
	}
	if err := s.checkSupplier(req.SupplierID); err != nil {
		return nil, err
	}

	// 2. Derive status
	switch {
	case req.Status == model.ItemInactive:
	case req.Quantity == 0:
		req.Status = model.ItemOutOfStock
	default:
		req.Status = model.ItemActive
	}
	req.CreatedBy = operator

	// 3. Opening stock is recorded as a purchase
	var initial *model.InventoryHistoryEntry
	if req.Quantity > 0 {
		initial = &model.InventoryHistoryEntry{
			Quantity:         req.Quantity,
			PreviousQuantity: 0,
			NewQuantity:      req.Quantity,
			SupplierID:       req.SupplierID,
			TransactionType:  model.TxPurchase,
			Notes:            "initial stock",
			CreatedBy:        operator,
		}
	}

	item, err := s.repo.Create(*req, initial)
	if err != nil {
		return nil, err
	}

	log := logger.WithComponent("inventory")
	log.Info().Str("operator", operator).Int64("item_id", item.ID).Int("quantity", item.Quantity).Msg("item created")

	s.broadcast("item_created", item, nil, operator)
	return item, nil
}

func (s *inventoryService) UpdateItem(id int64, update model.ItemUpdate, operator string) (*model.InventoryItem, error) {
	// 1. Validate the merged record
	existing, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	merged := *existing
	update.Apply(&merged)
	merged.Name = strings.TrimSpace(merged.Name)
	if err := validateStruct(&merged); err != nil {
		return nil, err
	}
	if !merged.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, merged.Status)
	}
	if update.Quantity != nil && *update.Quantity < 0 {
		return nil, preconditionf("quantity cannot be negative")
	}
	if update.Status != nil {
		quantity := existing.Quantity
		if update.Quantity != nil {
			quantity = *update.Quantity
		}
		if err := checkStatusForQuantity(*update.Status, quantity); err != nil {
			return nil, err
		}
	}
	if update.SupplierID != nil && *update.SupplierID != existing.SupplierID {
		if err := s.checkSupplier(*update.SupplierID); err != nil {
			return nil, err
		}
	}

	// 2. Descriptive fields
	item, err := s.repo.Update(id, update)
	if err != nil {
		return nil, err
	}

	// 3. Quantity goes through the ledger
	if update.Quantity != nil && *update.Quantity != item.Quantity {
		return s.Adjust(id, *update.Quantity, "edited from item form", operator)
	}

	log := logger.WithComponent("inventory")
	log.Info().Str("operator", operator).Int64("item_id", id).Msg("item updated")

	s.broadcast("item_updated", item, nil, operator)
	return item, nil
}

func (s *inventoryService) DeleteItem(id int64, operator string) error {
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	log := logger.WithComponent("inventory")
	log.Info().Str("operator", operator).Int64("item_id", id).Msg("item deleted")

	publish(s.notifier, event{
		"type":    "stock_update",
		"action":  "item_deleted",
		"item_id": id,
		"message": fmt.Sprintf("%s deleted item #%d", operator, id),
	})
	return nil
}

func (s *inventoryService) GetItem(id int64) (*model.InventoryItem, error) {
	return s.repo.FindByID(id)
}

func (s *inventoryService) SearchItems(term string) []model.InventoryItem {
	return s.repo.Search(term)
}

func (s *inventoryService) AddStock(itemID int64, delta int, supplierID int64, notes, operator string) (*model.InventoryItem, error) {
	if delta <= 0 {
		return nil, preconditionf("stock addition must be positive, got %d", delta)
	}
	if err := s.checkSupplier(supplierID); err != nil {
		return nil, err
	}
	return s.moveOne("stock_added", repository.Movement{ItemID: itemID, Apply: purchase(delta, supplierID, notes, operator)}, operator)
}

func (s *inventoryService) ApplySaleDeduction(itemID int64, delta int, notes, operator string) (*model.InventoryItem, error) {
	items, err := s.deduct([]StockChange{{ItemID: itemID, Quantity: delta}}, false, notes, operator)
	if err != nil {
		return nil, err
	}
	return &items[0], nil
}

func (s *inventoryService) ApplySaleDeductions(changes []StockChange, notes, operator string) ([]model.InventoryItem, error) {
	return s.deduct(changes, true, notes, operator)
}

func (s *inventoryService) deduct(changes []StockChange, strict bool, notes, operator string) ([]model.InventoryItem, error) {
	moves := make([]repository.Movement, 0, len(changes))
	for _, c := range changes {
		if c.Quantity <= 0 {
			return nil, preconditionf("sale deduction must be positive, got %d", c.Quantity)
		}
		moves = append(moves, repository.Movement{ItemID: c.ItemID, Apply: saleDeduction(c.Quantity, strict, notes, operator)})
	}
	return s.move("sale_deduction", moves, operator)
}

func (s *inventoryService) Adjust(itemID int64, newQuantity int, notes, operator string) (*model.InventoryItem, error) {
	if newQuantity < 0 {
		return nil, preconditionf("quantity cannot be negative, got %d", newQuantity)
	}
	return s.moveOne("stock_adjusted", repository.Movement{ItemID: itemID, Apply: adjustment(newQuantity, notes, operator)}, operator)
}

func (s *inventoryService) ApplyReturn(itemID int64, delta int, notes, operator string) (*model.InventoryItem, error) {
	items, err := s.ApplyReturns([]StockChange{{ItemID: itemID, Quantity: delta}}, notes, operator)
	if err != nil {
		return nil, err
	}
	return &items[0], nil
}

func (s *inventoryService) ApplyReturns(changes []StockChange, notes, operator string) ([]model.InventoryItem, error) {
	moves := make([]repository.Movement, 0, len(changes))
	for _, c := range changes {
		if c.Quantity <= 0 {
			return nil, preconditionf("return must be positive, got %d", c.Quantity)
		}
		moves = append(moves, repository.Movement{ItemID: c.ItemID, Apply: stockReturn(c.Quantity, notes, operator)})
	}
	return s.move("stock_returned", moves, operator)
}

// History returns the item's ledger, newest first. Entries outlive deleted
// items; NotFound is reported only when neither exists.
func (s *inventoryService) History(itemID int64) ([]model.InventoryHistoryEntry, error) {
	entries := s.repo.History(itemID)
	if len(entries) == 0 {
		if _, err := s.repo.FindByID(itemID); err != nil {
			return nil, err
		}
	}
	return entries, nil
}

func (s *inventoryService) AllHistory() []model.InventoryHistoryEntry {
	return s.repo.AllHistory()
}

func (s *inventoryService) moveOne(action string, mv repository.Movement, operator string) (*model.InventoryItem, error) {
	items, err := s.move(action, []repository.Movement{mv}, operator)
	if err != nil {
		return nil, err
	}
	return &items[0], nil
}

func (s *inventoryService) move(action string, moves []repository.Movement, operator string) ([]model.InventoryItem, error) {
	log := logger.WithComponent("inventory")

	items, entries, err := s.repo.Move(moves...)
	if err != nil {
		log.Warn().Err(err).Str("operator", operator).Str("action", action).Msg("stock movement rejected")
		return nil, err
	}

	for i := range entries {
		log.Info().
			Str("operator", operator).
			Int64("item_id", entries[i].ItemID).
			Str("type", string(entries[i].TransactionType)).
			Int("delta", entries[i].Quantity).
			Int("new_quantity", entries[i].NewQuantity).
			Msg("stock moved")
	}
	for i := range items {
		var entry *model.InventoryHistoryEntry
		for j := range entries {
			if entries[j].ItemID == items[i].ID {
				entry = &entries[j]
			}
		}
		s.broadcast(action, &items[i], entry, operator)
	}
	return items, nil
}

func (s *inventoryService) broadcast(action string, item *model.InventoryItem, entry *model.InventoryHistoryEntry, operator string) {
	payload := event{
		"type":   "stock_update",
		"action": action,
		"item": event{
			"id":         item.ID,
			"sku":        item.SKU,
			"name":       item.Name,
			"quantity":   item.Quantity,
			"status":     item.Status,
			"unit_value": item.UnitValue,
		},
		"message": fmt.Sprintf("%s: %s '%s'", operator, strings.ReplaceAll(action, "_", " "), item.Name),
	}
	if entry != nil {
		payload["entry"] = entry
	}
	publish(s.notifier, payload)
}

// purchase adds stock, re-attributes the supplier and clears OutOfStock.
func purchase(delta int, supplierID int64, notes, operator string) func(*model.InventoryItem) (*model.InventoryHistoryEntry, error) {
	return func(item *model.InventoryItem) (*model.InventoryHistoryEntry, error) {
		prev := item.Quantity
		item.Quantity = prev + delta
		if supplierID != 0 {
			item.SupplierID = supplierID
		}
		if item.Status == model.ItemOutOfStock && item.Quantity > 0 {
			item.Status = model.ItemActive
		}
		return &model.InventoryHistoryEntry{
			Quantity:         delta,
			PreviousQuantity: prev,
			NewQuantity:      item.Quantity,
			SupplierID:       item.SupplierID,
			TransactionType:  model.TxPurchase,
			Notes:            notes,
			CreatedBy:        operator,
		}, nil
	}
}

// checkStatusForQuantity keeps a manually chosen status consistent with stock:
// OutOfStock only at zero, Active only above zero. Inactive is always allowed.
func checkStatusForQuantity(status model.ItemStatus, quantity int) error {
	switch {
	case status == model.ItemOutOfStock && quantity > 0:
		return fmt.Errorf("%w: OutOfStock requires quantity 0, got %d", ErrValidation, quantity)
	case status == model.ItemActive && quantity == 0:
		return fmt.Errorf("%w: Active requires stock, quantity is 0", ErrValidation)
	}
	return nil
}

// saleDeduction never drives quantity below zero. Reaching zero forces
// OutOfStock unless the item is Inactive. In strict mode a short item is an
// error instead of being clamped.
func saleDeduction(delta int, strict bool, notes, operator string) func(*model.InventoryItem) (*model.InventoryHistoryEntry, error) {
	return func(item *model.InventoryItem) (*model.InventoryHistoryEntry, error) {
		prev := item.Quantity
		if strict && prev < delta {
			return nil, fmt.Errorf("%w: %s requested %d, %d available", ErrInsufficientInventory, item.Name, delta, prev)
		}
		item.Quantity = max(0, prev-delta)
		if item.Quantity == 0 && item.Status != model.ItemInactive {
			item.Status = model.ItemOutOfStock
		}
		return &model.InventoryHistoryEntry{
			Quantity:         item.Quantity - prev,
			PreviousQuantity: prev,
			NewQuantity:      item.Quantity,
			SupplierID:       item.SupplierID,
			TransactionType:  model.TxSale,
			Notes:            notes,
			CreatedBy:        operator,
		}, nil
	}
}

// adjustment records nothing when the quantity is unchanged.
func adjustment(newQuantity int, notes, operator string) func(*model.InventoryItem) (*model.InventoryHistoryEntry, error) {
	return func(item *model.InventoryItem) (*model.InventoryHistoryEntry, error) {
		prev := item.Quantity
		if newQuantity == prev {
			return nil, nil
		}
		item.Quantity = newQuantity
		switch {
		case newQuantity == 0 && item.Status == model.ItemActive:
			item.Status = model.ItemOutOfStock
		case newQuantity > 0 && item.Status == model.ItemOutOfStock:
			item.Status = model.ItemActive
		}
		return &model.InventoryHistoryEntry{
			Quantity:         newQuantity - prev,
			PreviousQuantity: prev,
			NewQuantity:      newQuantity,
			SupplierID:       item.SupplierID,
			TransactionType:  model.TxAdjustment,
			Notes:            notes,
			CreatedBy:        operator,
		}, nil
	}
}

func stockReturn(delta int, notes, operator string) func(*model.InventoryItem) (*model.InventoryHistoryEntry, error) {
	return func(item *model.InventoryItem) (*model.InventoryHistoryEntry, error) {
		prev := item.Quantity
		item.Quantity = prev + delta
		if item.Status == model.ItemOutOfStock {
			item.Status = model.ItemActive
		}
		return &model.InventoryHistoryEntry{
			Quantity:         delta,
			PreviousQuantity: prev,
			NewQuantity:      item.Quantity,
			SupplierID:       item.SupplierID,
			TransactionType:  model.TxReturn,
			Notes:            notes,
			CreatedBy:        operator,
		}, nil
	}
}
