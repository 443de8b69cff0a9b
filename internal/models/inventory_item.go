package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Inventory item statuses. Listing statuses live on Listing and move
// independently of these.
const (
	ItemStatusInStock   = "in_stock"
	ItemStatusListed    = "listed"
	ItemStatusSold      = "sold"
	ItemStatusConsigned = "consigned"
)

// InventoryItem is a single purchased unit.
type InventoryItem struct {
	ID      uint64 `gorm:"primaryKey;autoIncrement"`
	StyleID string `gorm:"type:varchar(64);not null;index"`
	SizeKey string `gorm:"type:varchar(20);not null"`

	Condition string `gorm:"type:varchar(20);not null;default:'new'"`

	PurchasePrice decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	Tax           decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0"`
	Shipping      decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0"`
	Currency      string          `gorm:"type:varchar(3);not null;default:'GBP'"`

	PurchaseDate    *time.Time `gorm:"type:date"`
	PlaceOfPurchase *string    `gorm:"type:varchar(120)"`

	Status string  `gorm:"type:varchar(20);not null;default:'in_stock';index"`
	Notes  *string `gorm:"type:text"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (InventoryItem) TableName() string {
	return "inventory_items"
}

// CostBasis is the all-in acquisition cost for the unit.
func (i InventoryItem) CostBasis() decimal.Decimal {
	return i.PurchasePrice.Add(i.Tax).Add(i.Shipping)
}
