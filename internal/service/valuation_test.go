package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"soletrack/internal/models"
)

func decPtr(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func TestValuationSnapshot(t *testing.T) {
	repo := newStubRepo()
	priced := &models.InventoryItem{
		StyleID:       "DD1391-100",
		SizeKey:       "US 9",
		PurchasePrice: decimal.NewFromInt(100),
		Tax:           decimal.NewFromInt(10),
		Shipping:      decimal.NewFromInt(5),
		Status:        models.ItemStatusInStock,
	}
	unpriced := &models.InventoryItem{
		StyleID:       "CT8532-104",
		SizeKey:       "US 10",
		PurchasePrice: decimal.NewFromInt(80),
		Status:        models.ItemStatusListed,
	}
	sold := &models.InventoryItem{
		StyleID:       "DZ5485-612",
		SizeKey:       "US 8",
		PurchasePrice: decimal.NewFromInt(50),
		Status:        models.ItemStatusSold,
	}
	for _, item := range []*models.InventoryItem{priced, unpriced, sold} {
		if err := repo.InsertInventoryItem(context.Background(), item); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	repo.setLatestPrice("stockx", "DD1391-100", "US 9", models.LatestPrice{
		LowestAsk: decPtr("180"),
	})
	repo.realizedMargin = decimal.NewFromInt(42)

	svc := &ValuationService{Repo: repo}
	at := time.Date(2026, 8, 20, 12, 30, 45, 0, time.UTC)
	snapshot, err := svc.Snapshot(context.Background(), at)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	if !snapshot.SnapshotAt.Equal(at.Truncate(time.Minute)) {
		t.Fatalf("snapshot_at=%v", snapshot.SnapshotAt)
	}
	if snapshot.TotalItems != 2 {
		t.Fatalf("total_items=%d want 2 (sold excluded)", snapshot.TotalItems)
	}
	if snapshot.PricedItems != 1 {
		t.Fatalf("priced_items=%d want 1", snapshot.PricedItems)
	}
	// cost basis = 115 + 80; market value = 180; unrealized = 180 - 115
	if snapshot.TotalCostBasis.String() != "195" {
		t.Fatalf("cost_basis=%s", snapshot.TotalCostBasis)
	}
	if snapshot.TotalMarketValue.String() != "180" {
		t.Fatalf("market_value=%s", snapshot.TotalMarketValue)
	}
	if snapshot.UnrealizedProfit.String() != "65" {
		t.Fatalf("unrealized=%s", snapshot.UnrealizedProfit)
	}
	if snapshot.RealizedProfit.String() != "42" {
		t.Fatalf("realized=%s", snapshot.RealizedProfit)
	}
	if len(repo.valuations) != 1 {
		t.Fatalf("snapshot should be persisted")
	}
}

func TestValuationLookup_ProviderPreference(t *testing.T) {
	repo := newStubRepo()
	repo.setLatestPrice("stockx", "DD1391-100", "US 9", models.LatestPrice{LowestAsk: decPtr("180")})
	repo.setLatestPrice("alias", "DD1391-100", "US 9", models.LatestPrice{LowestAsk: decPtr("170")})

	svc := &ValuationService{Repo: repo}
	price := svc.lookupPrice(context.Background(), "DD1391-100", "US 9")
	if price == nil || price.String() != "180" {
		t.Fatalf("price=%v, stockx should win by default", price)
	}

	svc.ProviderPreference = []string{"alias", "stockx"}
	price = svc.lookupPrice(context.Background(), "DD1391-100", "US 9")
	if price == nil || price.String() != "170" {
		t.Fatalf("price=%v, preference order should flip the winner", price)
	}
}

func TestValuationLookup_LastSaleFallback(t *testing.T) {
	repo := newStubRepo()
	repo.setLatestPrice("stockx", "DD1391-100", "US 9", models.LatestPrice{LastSalePrice: decPtr("165")})

	svc := &ValuationService{Repo: repo}
	price := svc.lookupPrice(context.Background(), "DD1391-100", "US 9")
	if price == nil || price.String() != "165" {
		t.Fatalf("price=%v want last sale fallback 165", price)
	}
}
