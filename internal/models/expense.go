package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is a business cost not attached to a specific item, e.g. shipping
// supplies or a subscription.
type Expense struct {
	ID       uint64          `gorm:"primaryKey;autoIncrement"`
	Label    string          `gorm:"type:varchar(200);not null"`
	Category string          `gorm:"type:varchar(40);index"`
	Amount   decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	Currency string          `gorm:"type:varchar(3);not null;default:'GBP'"`

	IncurredAt time.Time `gorm:"type:date;not null;index"`
	CreatedAt  time.Time `gorm:"type:timestamptz;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (Expense) TableName() string {
	return "expenses"
}
