package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"soletrack/internal/models"
	"soletrack/internal/repository"
)

// ValuationService marks unsold inventory to market against the
// latest_prices view.
type ValuationService struct {
	Repo   repository.Repository
	Logger *zap.Logger

	// ProviderPreference is the lookup order when several providers have a
	// price for the same size.
	ProviderPreference []string
}

func (s *ValuationService) providerOrder() []string {
	if len(s.ProviderPreference) > 0 {
		return s.ProviderPreference
	}
	return []string{models.ProviderStockX, models.ProviderAlias}
}

// Snapshot values every unsold item at its best available latest price and
// persists the result. Items with no price contribute cost basis only.
func (s *ValuationService) Snapshot(ctx context.Context, at time.Time) (*models.ValuationSnapshot, error) {
	if s == nil || s.Repo == nil {
		return nil, fmt.Errorf("valuation service not configured")
	}
	if at.IsZero() {
		at = time.Now().UTC()
	}
	at = at.UTC().Truncate(time.Minute)

	items, err := s.Repo.ListInventoryItems(ctx, repository.ListInventoryParams{
		Statuses: []string{models.ItemStatusInStock, models.ItemStatusListed, models.ItemStatusConsigned},
		Limit:    1000,
	})
	if err != nil {
		return nil, err
	}

	snapshot := &models.ValuationSnapshot{
		SnapshotAt:       at,
		TotalItems:       len(items),
		TotalCostBasis:   decimal.Zero,
		TotalMarketValue: decimal.Zero,
		UnrealizedProfit: decimal.Zero,
	}

	for _, item := range items {
		snapshot.TotalCostBasis = snapshot.TotalCostBasis.Add(item.CostBasis())
		price := s.lookupPrice(ctx, item.StyleID, item.SizeKey)
		if price == nil {
			continue
		}
		snapshot.PricedItems++
		snapshot.TotalMarketValue = snapshot.TotalMarketValue.Add(*price)
		snapshot.UnrealizedProfit = snapshot.UnrealizedProfit.Add(price.Sub(item.CostBasis()))
	}

	realized, err := s.Repo.SumRealizedMargin(ctx)
	if err != nil {
		return nil, err
	}
	snapshot.RealizedProfit = realized

	if err := s.Repo.InsertValuationSnapshot(ctx, snapshot); err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("valuation snapshot",
			zap.Time("at", at),
			zap.Int("items", snapshot.TotalItems),
			zap.Int("priced", snapshot.PricedItems),
			zap.String("market_value", snapshot.TotalMarketValue.String()))
	}
	return snapshot, nil
}

// lookupPrice returns the mark for one size: lowest ask preferred, last sale
// as fallback, first provider in preference order wins.
func (s *ValuationService) lookupPrice(ctx context.Context, styleID, sizeKey string) *decimal.Decimal {
	for _, providerName := range s.providerOrder() {
		price, err := s.Repo.GetLatestPrice(ctx, providerName, styleID, sizeKey)
		if err != nil {
			if s.Logger != nil {
				s.Logger.Warn("latest price lookup failed",
					zap.String("provider", providerName),
					zap.String("style_id", styleID),
					zap.Error(err))
			}
			continue
		}
		if price == nil {
			continue
		}
		if price.LowestAsk != nil {
			return price.LowestAsk
		}
		if price.LastSalePrice != nil {
			return price.LastSalePrice
		}
	}
	return nil
}
