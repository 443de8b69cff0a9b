package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry keyed by the manufacturer style ID, e.g. "DD1391-100".
type Product struct {
	ID       uint64 `gorm:"primaryKey;autoIncrement"`
	StyleID  string `gorm:"type:varchar(64);not null;uniqueIndex"`
	Title    string `gorm:"type:text;not null"`
	Brand    string `gorm:"type:varchar(64);index"`
	Colorway string `gorm:"type:varchar(120)"`

	RetailPrice *decimal.Decimal `gorm:"type:numeric(20,2)"`
	Currency    string           `gorm:"type:varchar(3);not null;default:'GBP'"`

	ReleaseDate *time.Time `gorm:"type:date"`
	ImageURL    *string    `gorm:"type:text"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (Product) TableName() string {
	return "products"
}
