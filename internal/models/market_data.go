package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Provider identifiers used across market data rows and raw snapshots.
const (
	ProviderStockX = "stockx"
	ProviderAlias  = "alias"
)

// MarketData is one normalized pricing observation for a (provider, style,
// size, currency, tier, region) combination. Monetary values are always in
// major currency units; Alias cent strings are converted at normalization.
//
// SnapshotMinute is SnapshotAt truncated to the minute and participates in
// the uniqueness constraint, so re-ingesting within the same minute updates
// the existing row instead of growing the table.
type MarketData struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"`

	Provider     string `gorm:"type:varchar(20);not null;uniqueIndex:ux_market_data_key,priority:1;index"`
	StyleID      string `gorm:"type:varchar(64);not null;uniqueIndex:ux_market_data_key,priority:2;index"`
	SizeKey      string `gorm:"type:varchar(20);not null;uniqueIndex:ux_market_data_key,priority:3"`
	CurrencyCode string `gorm:"type:varchar(3);not null;uniqueIndex:ux_market_data_key,priority:4"`
	IsFlex       bool   `gorm:"not null;default:false;uniqueIndex:ux_market_data_key,priority:5"`
	IsConsigned  bool   `gorm:"not null;default:false;uniqueIndex:ux_market_data_key,priority:6"`
	Region       string `gorm:"type:varchar(8);not null;default:'US';uniqueIndex:ux_market_data_key,priority:7"`

	LowestAsk     *decimal.Decimal `gorm:"type:numeric(20,2)"`
	HighestBid    *decimal.Decimal `gorm:"type:numeric(20,2)"`
	LastSalePrice *decimal.Decimal `gorm:"type:numeric(20,2)"`

	// Volume metrics come from a secondary call and may be absent.
	Sales72h        *int             `gorm:""`
	AvgSalePrice72h *decimal.Decimal `gorm:"type:numeric(20,2)"`

	SnapshotAt     time.Time `gorm:"type:timestamptz;not null;index"`
	SnapshotMinute time.Time `gorm:"type:timestamptz;not null;uniqueIndex:ux_market_data_key,priority:8"`

	RawSnapshotID *uint64 `gorm:"index"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (MarketData) TableName() string {
	return "market_data"
}
