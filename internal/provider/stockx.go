package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"soletrack/internal/client/stockx"
	"soletrack/internal/models"
)

// StockXProvider ingests StockX pricing. Prices arrive pre-converted to
// major units, and volume metrics ride along in the same market payload, so
// Fetch is a single call per style.
type StockXProvider struct {
	Client       *stockx.Client
	CurrencyCode string
	Region       string
}

func (p *StockXProvider) Name() string {
	return models.ProviderStockX
}

func (p *StockXProvider) Fetch(ctx context.Context, styleID string) (*RawPayload, error) {
	if p.Client == nil {
		return nil, fmt.Errorf("stockx client is nil")
	}
	fetchedAt := time.Now().UTC()
	body, _, err := p.Client.GetMarketRaw(ctx, styleID, p.CurrencyCode)
	if err != nil {
		return nil, err
	}
	return &RawPayload{
		Provider:  models.ProviderStockX,
		StyleID:   styleID,
		FetchedAt: fetchedAt,
		Pricing:   body,
	}, nil
}

func (p *StockXProvider) Normalize(payload *RawPayload) (NormalizeResult, error) {
	if payload == nil || len(payload.Pricing) == 0 {
		return NormalizeResult{}, fmt.Errorf("empty stockx payload")
	}
	var market stockx.MarketResponse
	if err := json.Unmarshal(payload.Pricing, &market); err != nil {
		return NormalizeResult{}, fmt.Errorf("failed to decode stockx market: %w", err)
	}

	region := p.Region
	if region == "" {
		region = "US"
	}
	minute := payload.FetchedAt.Truncate(time.Minute)
	result := NormalizeResult{}
	for _, variant := range market.Market.Variants {
		sizeKey := NormalizeSizeKey("us", variant.Size)
		currency := variant.CurrencyCode
		if currency == "" {
			currency = p.CurrencyCode
		}
		if sizeKey == "" || currency == "" || payload.StyleID == "" {
			result.Rejected++
			continue
		}

		row := models.MarketData{
			Provider:        models.ProviderStockX,
			StyleID:         payload.StyleID,
			SizeKey:         sizeKey,
			CurrencyCode:    currency,
			Region:          region,
			LowestAsk:       majorUnits(variant.LowestAsk),
			HighestBid:      majorUnits(variant.HighestBid),
			LastSalePrice:   majorUnits(variant.LastSale),
			Sales72h:        variant.SalesLast72H,
			AvgSalePrice72h: majorUnits(variant.AvgSalePrice72H),
			SnapshotAt:      payload.FetchedAt,
			SnapshotMinute:  minute,
		}
		result.Rows = append(result.Rows, row)

		if variant.FlexLowestAsk != nil {
			flex := row
			flex.IsFlex = true
			flex.LowestAsk = majorUnits(variant.FlexLowestAsk)
			flex.HighestBid = nil
			flex.LastSalePrice = nil
			flex.Sales72h = nil
			flex.AvgSalePrice72h = nil
			result.Rows = append(result.Rows, flex)
		}
	}

	return result, nil
}

func majorUnits(v *float64) *decimal.Decimal {
	if v == nil || *v < 0 {
		return nil
	}
	d := decimal.NewFromFloat(*v).Round(2)
	return &d
}
