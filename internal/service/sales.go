package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"soletrack/internal/models"
	"soletrack/internal/repository"
)

var (
	ErrItemNotFound    = fmt.Errorf("inventory item not found")
	ErrItemAlreadySold = fmt.Errorf("inventory item already sold")
)

type SalesService struct {
	Repo repository.Repository
}

type SellItemInput struct {
	SoldPrice   decimal.Decimal
	Fees        decimal.Decimal
	ShippingOut decimal.Decimal
	Platform    string
	Currency    string
	SoldAt      time.Time
}

// SellItem converts an inventory item into a sale. Margin is computed
// against the all-in cost basis:
//
//	payout = sold_price - fees - shipping_out
//	margin = payout - (purchase_price + tax + shipping)
//
// The sale insert and the status flip happen in one transaction; the unique
// index on sales.inventory_item_id blocks double-selling.
func (s *SalesService) SellItem(ctx context.Context, itemID uint64, input SellItemInput) (*models.Sale, error) {
	if s == nil || s.Repo == nil {
		return nil, fmt.Errorf("sales service not configured")
	}
	item, err := s.Repo.GetInventoryItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrItemNotFound
	}
	if item.Status == models.ItemStatusSold {
		return nil, ErrItemAlreadySold
	}

	soldAt := input.SoldAt
	if soldAt.IsZero() {
		soldAt = time.Now().UTC()
	}
	currency := input.Currency
	if currency == "" {
		currency = item.Currency
	}

	payout := input.SoldPrice.Sub(input.Fees).Sub(input.ShippingOut)
	margin := payout.Sub(item.CostBasis())

	sale := &models.Sale{
		InventoryItemID: item.ID,
		StyleID:         item.StyleID,
		SizeKey:         item.SizeKey,
		Platform:        input.Platform,
		SoldPrice:       input.SoldPrice,
		Fees:            input.Fees,
		ShippingOut:     input.ShippingOut,
		Payout:          payout,
		Margin:          margin,
		Currency:        currency,
		SoldAt:          soldAt,
	}

	err = s.Repo.InTx(ctx, func(tx *gorm.DB) error {
		if err := s.Repo.InsertSaleTx(ctx, tx, sale); err != nil {
			return err
		}
		return s.Repo.UpdateInventoryItemStatusTx(ctx, tx, item.ID, models.ItemStatusSold)
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

// SummaryForTaxYear aggregates sales and expenses over a UK tax year
// (6 April to 5 April).
func (s *SalesService) SummaryForTaxYear(ctx context.Context, startYear int) (repository.SalesSummary, decimal.Decimal, error) {
	since, until := TaxYearBounds(startYear)
	summary, err := s.Repo.SalesSummary(ctx, &since, &until)
	if err != nil {
		return repository.SalesSummary{}, decimal.Zero, err
	}
	expenses, err := s.Repo.SumExpenses(ctx, &since, &until)
	if err != nil {
		return repository.SalesSummary{}, decimal.Zero, err
	}
	return summary, expenses, nil
}

// TaxYearBounds returns [6 April startYear, 6 April startYear+1) in UTC.
func TaxYearBounds(startYear int) (time.Time, time.Time) {
	since := time.Date(startYear, time.April, 6, 0, 0, 0, 0, time.UTC)
	until := time.Date(startYear+1, time.April, 6, 0, 0, 0, 0, time.UTC)
	return since, until
}

// TaxYearFor returns the start year of the UK tax year containing t.
func TaxYearFor(t time.Time) int {
	t = t.UTC()
	boundary := time.Date(t.Year(), time.April, 6, 0, 0, 0, 0, time.UTC)
	if t.Before(boundary) {
		return t.Year() - 1
	}
	return t.Year()
}
