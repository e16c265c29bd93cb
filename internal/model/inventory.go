package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type ItemStatus string

const (
	ItemActive     ItemStatus = "Active"
	ItemInactive   ItemStatus = "Inactive"
	ItemOutOfStock ItemStatus = "OutOfStock"
)

func (s ItemStatus) Valid() bool {
	switch s {
	case ItemActive, ItemInactive, ItemOutOfStock:
		return true
	}
	return false
}

type TransactionType string

const (
	TxPurchase   TransactionType = "Purchase"
	TxSale       TransactionType = "Sale"
	TxReturn     TransactionType = "Return"
	TxAdjustment TransactionType = "Adjustment"
)

type InventoryItem struct {
	BaseModel
	Name        string          `json:"name" validate:"required"`
	UnitValue   decimal.Decimal `json:"unit_value" validate:"decimal_gte0"`
	Quantity    int             `json:"quantity" validate:"gte=0"`
	Status      ItemStatus      `json:"status"`
	SupplierID  int64           `json:"supplier_id"`
	Location    string          `json:"location,omitempty"`
	Category    string          `json:"category,omitempty"`
	SKU         string          `json:"sku,omitempty"`
	Description string          `json:"description,omitempty"`
	CreatedBy   string          `json:"created_by"`
}

// ItemUpdate is the edit-form payload. Quantity changes are not applied by
// Apply; they are routed through the ledger so that a history entry is written.
type ItemUpdate struct {
	Name        *string          `json:"name"`
	UnitValue   *decimal.Decimal `json:"unit_value"`
	Quantity    *int             `json:"quantity"`
	Status      *ItemStatus      `json:"status"`
	SupplierID  *int64           `json:"supplier_id"`
	Location    *string          `json:"location"`
	Category    *string          `json:"category"`
	SKU         *string          `json:"sku"`
	Description *string          `json:"description"`
}

func (u ItemUpdate) Apply(item *InventoryItem) {
	setIfPresent(&item.Name, u.Name)
	setIfPresent(&item.UnitValue, u.UnitValue)
	setIfPresent(&item.Status, u.Status)
	setIfPresent(&item.SupplierID, u.SupplierID)
	setIfPresent(&item.Location, u.Location)
	setIfPresent(&item.Category, u.Category)
	setIfPresent(&item.SKU, u.SKU)
	setIfPresent(&item.Description, u.Description)
}

// InventoryHistoryEntry is one append-only ledger row.
// NewQuantity == PreviousQuantity + Quantity always holds.
type InventoryHistoryEntry struct {
	ID               int64           `json:"id"`
	ItemID           int64           `json:"item_id"`
	Date             time.Time       `json:"date"`
	Quantity         int             `json:"quantity"`
	PreviousQuantity int             `json:"previous_quantity"`
	NewQuantity      int             `json:"new_quantity"`
	SupplierID       int64           `json:"supplier_id"`
	TransactionType  TransactionType `json:"transaction_type"`
	Notes            string          `json:"notes,omitempty"`
	CreatedBy        string          `json:"created_by"`
}

func (e InventoryHistoryEntry) EntityID() int64 { return e.ID }

func (e InventoryHistoryEntry) CreatedTime() time.Time { return e.Date }

// Balanced checks the ledger invariant for this row.
func (e InventoryHistoryEntry) Balanced() bool {
	return e.NewQuantity == e.PreviousQuantity+e.Quantity
}
