package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"soletrack/internal/models"
)

func TestSellItem_MarginAgainstCostBasis(t *testing.T) {
	repo := newStubRepo()
	item := &models.InventoryItem{
		StyleID:       "DD1391-100",
		SizeKey:       "US 9",
		PurchasePrice: decimal.NewFromInt(100),
		Tax:           decimal.NewFromInt(10),
		Shipping:      decimal.NewFromInt(5),
		Currency:      "GBP",
		Status:        models.ItemStatusInStock,
	}
	if err := repo.InsertInventoryItem(context.Background(), item); err != nil {
		t.Fatalf("insert: %v", err)
	}

	svc := &SalesService{Repo: repo}
	sale, err := svc.SellItem(context.Background(), item.ID, SellItemInput{
		SoldPrice:   decimal.NewFromInt(200),
		Fees:        decimal.NewFromInt(18),
		ShippingOut: decimal.NewFromInt(0),
		Platform:    "stockx",
	})
	if err != nil {
		t.Fatalf("sell: %v", err)
	}

	// payout = 200 - 18 - 0 = 182; cost basis = 100 + 10 + 5 = 115
	if sale.Payout.String() != "182" {
		t.Fatalf("payout=%s want 182", sale.Payout)
	}
	if sale.Margin.String() != "67" {
		t.Fatalf("margin=%s want 67", sale.Margin)
	}
	if sale.Currency != "GBP" {
		t.Fatalf("currency=%q, should inherit from the item", sale.Currency)
	}
	if sale.SoldAt.IsZero() {
		t.Fatalf("sold_at should default to now")
	}

	stored := repo.items[item.ID]
	if stored.Status != models.ItemStatusSold {
		t.Fatalf("status=%q want sold", stored.Status)
	}
}

func TestSellItem_NotFound(t *testing.T) {
	svc := &SalesService{Repo: newStubRepo()}
	_, err := svc.SellItem(context.Background(), 42, SellItemInput{SoldPrice: decimal.NewFromInt(100)})
	if err != ErrItemNotFound {
		t.Fatalf("err=%v want ErrItemNotFound", err)
	}
}

func TestSellItem_AlreadySold(t *testing.T) {
	repo := newStubRepo()
	item := &models.InventoryItem{
		StyleID:       "DD1391-100",
		SizeKey:       "US 9",
		PurchasePrice: decimal.NewFromInt(100),
		Status:        models.ItemStatusSold,
	}
	if err := repo.InsertInventoryItem(context.Background(), item); err != nil {
		t.Fatalf("insert: %v", err)
	}

	svc := &SalesService{Repo: repo}
	_, err := svc.SellItem(context.Background(), item.ID, SellItemInput{SoldPrice: decimal.NewFromInt(100)})
	if err != ErrItemAlreadySold {
		t.Fatalf("err=%v want ErrItemAlreadySold", err)
	}
}

func TestTaxYearBounds(t *testing.T) {
	since, until := TaxYearBounds(2025)
	if !since.Equal(time.Date(2025, time.April, 6, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("since=%v", since)
	}
	if !until.Equal(time.Date(2026, time.April, 6, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("until=%v", until)
	}
}

func TestTaxYearFor(t *testing.T) {
	cases := []struct {
		at   time.Time
		want int
	}{
		{time.Date(2026, time.April, 5, 23, 59, 59, 0, time.UTC), 2025},
		{time.Date(2026, time.April, 6, 0, 0, 0, 0, time.UTC), 2026},
		{time.Date(2026, time.January, 15, 12, 0, 0, 0, time.UTC), 2025},
		{time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC), 2025},
	}
	for _, tc := range cases {
		if got := TaxYearFor(tc.at); got != tc.want {
			t.Fatalf("TaxYearFor(%v)=%d want %d", tc.at, got, tc.want)
		}
	}
}
