package provider

import (
	"encoding/json"
	"testing"
	"time"

	"soletrack/internal/client/alias"
	"soletrack/internal/models"
)

func TestCentsToMajor(t *testing.T) {
	val := "12500"
	got := centsToMajor(&val)
	if got == nil || got.String() != "125" {
		t.Fatalf("got %v want 125", got)
	}

	negative := "-100"
	if centsToMajor(&negative) != nil {
		t.Fatalf("negative cents should map to nil")
	}

	garbage := "12,500"
	if centsToMajor(&garbage) != nil {
		t.Fatalf("unparseable cents should map to nil")
	}

	if centsToMajor(nil) != nil {
		t.Fatalf("nil cents should map to nil")
	}
}

func TestAliasNormalize_TierRows(t *testing.T) {
	fetchedAt := time.Date(2026, 8, 20, 12, 30, 45, 0, time.UTC)
	pricing := []byte(`{
		"catalog_id": "air-force-1-low",
		"sku": "DD1391-100",
		"availability": [
			{
				"size": "9",
				"size_unit": "us",
				"currency": "USD",
				"region": "US",
				"lowest_price_cents": "12500",
				"highest_offer_cents": "11000",
				"last_sold_price_cents": "12000",
				"flex_lowest_price_cents": "11800",
				"consigned_lowest_price_cents": "13100"
			}
		]
	}`)

	p := &AliasProvider{Region: "US"}
	result, err := p.Normalize(&RawPayload{
		Provider:  models.ProviderAlias,
		StyleID:   "DD1391-100",
		FetchedAt: fetchedAt,
		Pricing:   pricing,
	})
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if len(result.Rows) != 3 {
		t.Fatalf("rows=%d want 3 (standard, flex, consigned)", len(result.Rows))
	}

	standard := result.Rows[0]
	if standard.IsFlex || standard.IsConsigned {
		t.Fatalf("first row should be the standard tier")
	}
	if standard.SizeKey != "US 9" {
		t.Fatalf("size_key=%q want US 9", standard.SizeKey)
	}
	if standard.LowestAsk == nil || standard.LowestAsk.String() != "125" {
		t.Fatalf("lowest_ask=%v want 125", standard.LowestAsk)
	}
	if standard.HighestBid == nil || standard.HighestBid.String() != "110" {
		t.Fatalf("highest_bid=%v want 110", standard.HighestBid)
	}
	if !standard.SnapshotMinute.Equal(fetchedAt.Truncate(time.Minute)) {
		t.Fatalf("snapshot_minute=%v", standard.SnapshotMinute)
	}

	flex := result.Rows[1]
	if !flex.IsFlex || flex.IsConsigned {
		t.Fatalf("second row should be the flex tier")
	}
	if flex.LowestAsk == nil || flex.LowestAsk.String() != "118" {
		t.Fatalf("flex lowest_ask=%v want 118", flex.LowestAsk)
	}
	if flex.HighestBid != nil || flex.LastSalePrice != nil {
		t.Fatalf("flex row must not carry bid or last sale")
	}

	consigned := result.Rows[2]
	if !consigned.IsConsigned || consigned.IsFlex {
		t.Fatalf("third row should be the consigned tier")
	}
	if consigned.LowestAsk == nil || consigned.LowestAsk.String() != "131" {
		t.Fatalf("consigned lowest_ask=%v want 131", consigned.LowestAsk)
	}
}

func TestAliasNormalize_MissingVolumeStaysNil(t *testing.T) {
	pricing := []byte(`{
		"availability": [
			{"size": "10", "size_unit": "us", "currency": "USD", "lowest_price_cents": "9000"}
		]
	}`)
	p := &AliasProvider{Region: "US"}
	result, err := p.Normalize(&RawPayload{
		Provider:  models.ProviderAlias,
		StyleID:   "DD1391-100",
		FetchedAt: time.Now().UTC(),
		Pricing:   pricing,
	})
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if len(result.Rows) != 1 {
		t.Fatalf("rows=%d want 1", len(result.Rows))
	}
	if result.Rows[0].Sales72h != nil || result.Rows[0].AvgSalePrice72h != nil {
		t.Fatalf("volume fields should stay nil without recent sales data")
	}
}

func TestAliasNormalize_AttachesRecentSales(t *testing.T) {
	asOf := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	pricing := []byte(`{
		"availability": [
			{"size": "9", "size_unit": "us", "currency": "USD", "lowest_price_cents": "12500"}
		]
	}`)
	salesBody, _ := json.Marshal(map[string]json.RawMessage{
		"9": json.RawMessage(`{
			"size": "9",
			"sales": [
				{"price_cents": "10000", "sold_at": "2026-08-19T12:00:00Z"},
				{"price_cents": "11000", "sold_at": "2026-08-18T12:00:00Z"},
				{"price_cents": "50000", "sold_at": "2026-08-10T12:00:00Z"}
			]
		}`),
	})

	p := &AliasProvider{Region: "US"}
	result, err := p.Normalize(&RawPayload{
		Provider:  models.ProviderAlias,
		StyleID:   "DD1391-100",
		FetchedAt: asOf,
		Pricing:   pricing,
		Sales:     salesBody,
	})
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	row := result.Rows[0]
	if row.Sales72h == nil || *row.Sales72h != 2 {
		t.Fatalf("sales72h=%v want 2 (the 10-day-old sale is outside the window)", row.Sales72h)
	}
	if row.AvgSalePrice72h == nil || row.AvgSalePrice72h.String() != "105" {
		t.Fatalf("avg=%v want 105", row.AvgSalePrice72h)
	}
}

func TestSummarizeRecentSales_Empty(t *testing.T) {
	count, avg := summarizeRecentSales(alias.RecentSalesResponse{}, time.Now().UTC())
	if count != 0 || avg != nil {
		t.Fatalf("count=%d avg=%v want 0, nil", count, avg)
	}
}

func TestAliasNormalize_RejectsBlankSize(t *testing.T) {
	pricing := []byte(`{
		"availability": [
			{"size": "", "size_unit": "us", "currency": "USD", "lowest_price_cents": "9000"},
			{"size": "10", "size_unit": "us", "currency": "USD", "lowest_price_cents": "9000"}
		]
	}`)
	p := &AliasProvider{Region: "US"}
	result, err := p.Normalize(&RawPayload{
		Provider:  models.ProviderAlias,
		StyleID:   "DD1391-100",
		FetchedAt: time.Now().UTC(),
		Pricing:   pricing,
	})
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if result.Rejected != 1 {
		t.Fatalf("rejected=%d want 1", result.Rejected)
	}
	if len(result.Rows) != 1 {
		t.Fatalf("rows=%d want 1", len(result.Rows))
	}
}
