package model

import (
	"time"

	"gorm.io/datatypes"
)

// Store names. Each one is persisted as a single JSON document.
const (
	StoreClients          = "clients"
	StoreInventory        = "inventory"
	StoreInventoryHistory = "inventory_history"
	StoreSuppliers        = "suppliers"
	StoreSales            = "sales"
	StoreCurrencyRate     = "currency_rate"
	StorePaymentStaging   = "payment_staging"
)

// Snapshot is the persisted form of one named store. Writes replace the whole
// document (last write wins).
type Snapshot struct {
	Name      string         `gorm:"type:varchar(64);primaryKey" json:"name"`
	Payload   datatypes.JSON `json:"payload"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Snapshot) TableName() string {
	return "pos_snapshots"
}

// StagedPayments holds payments collected for a sale that is still a draft.
type StagedPayments struct {
	DraftID   string          `json:"draft_id"`
	Payments  []PaymentMethod `json:"payments"`
	OpenedAt  time.Time       `json:"opened_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
