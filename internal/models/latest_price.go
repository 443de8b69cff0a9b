package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LatestPrice maps the latest_prices materialized view: the newest market
// data row per (provider, style, size, currency, tier, region). The view is
// created and refreshed by internal/db; gorm never migrates or writes it.
type LatestPrice struct {
	Provider     string `gorm:"column:provider"`
	StyleID      string `gorm:"column:style_id"`
	SizeKey      string `gorm:"column:size_key"`
	CurrencyCode string `gorm:"column:currency_code"`
	IsFlex       bool   `gorm:"column:is_flex"`
	IsConsigned  bool   `gorm:"column:is_consigned"`
	Region       string `gorm:"column:region"`

	LowestAsk     *decimal.Decimal `gorm:"column:lowest_ask"`
	HighestBid    *decimal.Decimal `gorm:"column:highest_bid"`
	LastSalePrice *decimal.Decimal `gorm:"column:last_sale_price"`

	SnapshotAt time.Time `gorm:"column:snapshot_at"`
}

func (LatestPrice) TableName() string {
	return "latest_prices"
}
