package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale records the disposal of an inventory item.
type Sale struct {
	ID              uint64 `gorm:"primaryKey;autoIncrement"`
	InventoryItemID uint64 `gorm:"not null;uniqueIndex"`
	StyleID         string `gorm:"type:varchar(64);not null;index"`
	SizeKey         string `gorm:"type:varchar(20);not null"`

	Platform string `gorm:"type:varchar(20);index"`

	SoldPrice   decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	Fees        decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0"`
	ShippingOut decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0"`
	Payout      decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	Margin      decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	Currency    string          `gorm:"type:varchar(3);not null;default:'GBP'"`

	SoldAt    time.Time `gorm:"type:timestamptz;not null;index"`
	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
}

func (Sale) TableName() string {
	return "sales"
}
