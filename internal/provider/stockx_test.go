package provider

import (
	"testing"
	"time"

	"soletrack/internal/models"
)

func TestMajorUnits(t *testing.T) {
	v := 179.999
	got := majorUnits(&v)
	if got == nil || got.String() != "180" {
		t.Fatalf("got %v want 180", got)
	}

	negative := -5.0
	if majorUnits(&negative) != nil {
		t.Fatalf("negative price should map to nil")
	}

	if majorUnits(nil) != nil {
		t.Fatalf("nil price should map to nil")
	}
}

func TestStockXNormalize(t *testing.T) {
	fetchedAt := time.Date(2026, 8, 20, 9, 15, 30, 0, time.UTC)
	pricing := []byte(`{
		"productId": "9a2f",
		"styleId": "DD1391-100",
		"market": {
			"variants": [
				{
					"variantId": "v1",
					"size": "9",
					"currencyCode": "GBP",
					"lowestAsk": 180.0,
					"highestBid": 150.0,
					"lastSale": 172.5,
					"salesLast72Hours": 7,
					"averageSalePrice72Hours": 168.42,
					"flexLowestAsk": 175.0
				},
				{
					"variantId": "v2",
					"size": "",
					"currencyCode": "GBP",
					"lowestAsk": 90.0
				}
			]
		}
	}`)

	p := &StockXProvider{CurrencyCode: "GBP", Region: "UK"}
	result, err := p.Normalize(&RawPayload{
		Provider:  models.ProviderStockX,
		StyleID:   "DD1391-100",
		FetchedAt: fetchedAt,
		Pricing:   pricing,
	})
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if result.Rejected != 1 {
		t.Fatalf("rejected=%d want 1 (blank size)", result.Rejected)
	}
	if len(result.Rows) != 2 {
		t.Fatalf("rows=%d want 2 (standard plus flex)", len(result.Rows))
	}

	standard := result.Rows[0]
	if standard.IsFlex {
		t.Fatalf("first row should be the standard tier")
	}
	if standard.SizeKey != "US 9" {
		t.Fatalf("size_key=%q want US 9", standard.SizeKey)
	}
	if standard.CurrencyCode != "GBP" || standard.Region != "UK" {
		t.Fatalf("currency=%q region=%q", standard.CurrencyCode, standard.Region)
	}
	if standard.LowestAsk == nil || standard.LowestAsk.String() != "180" {
		t.Fatalf("lowest_ask=%v want 180", standard.LowestAsk)
	}
	if standard.LastSalePrice == nil || standard.LastSalePrice.String() != "172.5" {
		t.Fatalf("last_sale=%v want 172.5", standard.LastSalePrice)
	}
	if standard.Sales72h == nil || *standard.Sales72h != 7 {
		t.Fatalf("sales72h=%v want 7", standard.Sales72h)
	}
	if standard.AvgSalePrice72h == nil || standard.AvgSalePrice72h.String() != "168.42" {
		t.Fatalf("avg=%v want 168.42", standard.AvgSalePrice72h)
	}
	if !standard.SnapshotMinute.Equal(fetchedAt.Truncate(time.Minute)) {
		t.Fatalf("snapshot_minute=%v", standard.SnapshotMinute)
	}

	flex := result.Rows[1]
	if !flex.IsFlex {
		t.Fatalf("second row should be the flex tier")
	}
	if flex.LowestAsk == nil || flex.LowestAsk.String() != "175" {
		t.Fatalf("flex lowest_ask=%v want 175", flex.LowestAsk)
	}
	if flex.HighestBid != nil || flex.Sales72h != nil {
		t.Fatalf("flex row must not carry bid or volume fields")
	}
}

func TestStockXNormalize_EmptyPayload(t *testing.T) {
	p := &StockXProvider{}
	if _, err := p.Normalize(&RawPayload{}); err == nil {
		t.Fatalf("expected error for empty payload")
	}
}
