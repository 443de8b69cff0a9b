package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ValuationSnapshot is a periodic mark-to-market of the unsold inventory
// against the latest_prices view, plus realized profit to date.
type ValuationSnapshot struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement"`
	SnapshotAt time.Time `gorm:"type:timestamptz;not null;uniqueIndex"`

	TotalItems  int `gorm:"not null"`
	PricedItems int `gorm:"not null"`

	TotalCostBasis   decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	TotalMarketValue decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	UnrealizedProfit decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	RealizedProfit   decimal.Decimal `gorm:"type:numeric(20,2);not null"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
}

func (ValuationSnapshot) TableName() string {
	return "valuation_snapshots"
}
