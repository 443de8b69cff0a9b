package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	ListingStatusActive    = "active"
	ListingStatusPaused    = "paused"
	ListingStatusSold      = "sold"
	ListingStatusExpired   = "expired"
	ListingStatusCancelled = "cancelled"
)

// Listing is an external marketplace listing for an inventory item. Its
// status is independent of the item status: an item can be sold locally
// while a stale listing is still "active" on the marketplace.
type Listing struct {
	ID              uint64 `gorm:"primaryKey;autoIncrement"`
	InventoryItemID uint64 `gorm:"not null;index"`
	Provider        string `gorm:"type:varchar(20);not null;index"`

	ExternalID *string `gorm:"type:varchar(120);index"`

	AskPrice decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	Currency string          `gorm:"type:varchar(3);not null;default:'GBP'"`
	IsFlex   bool            `gorm:"not null;default:false"`

	Status string `gorm:"type:varchar(20);not null;default:'active';index"`

	ListedAt  *time.Time `gorm:"type:timestamptz"`
	CreatedAt time.Time  `gorm:"type:timestamptz;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"type:timestamptz;autoUpdateTime"`
}

func (Listing) TableName() string {
	return "listings"
}
