package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"soletrack/internal/client/alias"
	"soletrack/internal/models"
)

// AliasProvider ingests Alias (GOAT) pricing. All Alias prices arrive as
// cent-denominated strings and are converted to major units here.
type AliasProvider struct {
	Client *alias.Client
	Region string
	Logger *zap.Logger

	// MaxSalesSizes caps the per-size recent-sales calls for one style;
	// zero means no cap. Alias only serves recent sales per size.
	MaxSalesSizes int
}

func (p *AliasProvider) Name() string {
	return models.ProviderAlias
}

func (p *AliasProvider) Fetch(ctx context.Context, styleID string) (*RawPayload, error) {
	if p.Client == nil {
		return nil, fmt.Errorf("alias client is nil")
	}
	fetchedAt := time.Now().UTC()

	pricing, parsed, err := p.Client.GetAvailabilityRaw(ctx, styleID, p.Region)
	if err != nil {
		return nil, err
	}

	payload := &RawPayload{
		Provider:  models.ProviderAlias,
		StyleID:   styleID,
		FetchedAt: fetchedAt,
		Pricing:   pricing,
	}

	salesBySize := make(map[string]json.RawMessage)
	calls := 0
	for _, av := range parsed.Availability {
		if p.MaxSalesSizes > 0 && calls >= p.MaxSalesSizes {
			break
		}
		calls++
		body, _, err := p.Client.GetRecentSalesRaw(ctx, styleID, av.Size)
		if err != nil {
			// Volume metrics are best-effort; the row keeps null volume fields.
			if p.Logger != nil {
				p.Logger.Debug("alias recent sales fetch failed",
					zap.String("style_id", styleID),
					zap.String("size", av.Size),
					zap.Error(err),
				)
			}
			continue
		}
		salesBySize[av.Size] = body
	}
	if len(salesBySize) > 0 {
		if raw, err := json.Marshal(salesBySize); err == nil {
			payload.Sales = raw
		}
	}

	return payload, nil
}

func (p *AliasProvider) Normalize(payload *RawPayload) (NormalizeResult, error) {
	if payload == nil || len(payload.Pricing) == 0 {
		return NormalizeResult{}, fmt.Errorf("empty alias payload")
	}
	var avail alias.AvailabilityResponse
	if err := json.Unmarshal(payload.Pricing, &avail); err != nil {
		return NormalizeResult{}, fmt.Errorf("failed to decode alias availability: %w", err)
	}

	salesBySize := map[string]alias.RecentSalesResponse{}
	if len(payload.Sales) > 0 {
		var rawBySize map[string]json.RawMessage
		if err := json.Unmarshal(payload.Sales, &rawBySize); err == nil {
			for size, raw := range rawBySize {
				var sales alias.RecentSalesResponse
				if err := json.Unmarshal(raw, &sales); err == nil {
					salesBySize[size] = sales
				}
			}
		}
	}

	minute := payload.FetchedAt.Truncate(time.Minute)
	result := NormalizeResult{}
	for _, av := range avail.Availability {
		sizeKey := NormalizeSizeKey(av.SizeUnit, av.Size)
		currency := av.Currency
		if currency == "" {
			currency = "USD"
		}
		region := av.Region
		if region == "" {
			region = p.Region
		}
		if region == "" {
			region = "US"
		}
		if sizeKey == "" || payload.StyleID == "" {
			result.Rejected++
			continue
		}

		base := models.MarketData{
			Provider:       models.ProviderAlias,
			StyleID:        payload.StyleID,
			SizeKey:        sizeKey,
			CurrencyCode:   currency,
			Region:         region,
			LowestAsk:      centsToMajor(av.LowestPriceCents),
			HighestBid:     centsToMajor(av.HighestOfferCents),
			LastSalePrice:  centsToMajor(av.LastSoldPriceCents),
			SnapshotAt:     payload.FetchedAt,
			SnapshotMinute: minute,
		}
		if sales, ok := salesBySize[av.Size]; ok {
			count, avg := summarizeRecentSales(sales, payload.FetchedAt)
			base.Sales72h = &count
			base.AvgSalePrice72h = avg
		}
		result.Rows = append(result.Rows, base)

		if av.FlexLowestPriceCents != nil {
			flex := base
			flex.IsFlex = true
			flex.LowestAsk = centsToMajor(av.FlexLowestPriceCents)
			flex.HighestBid = nil
			flex.LastSalePrice = nil
			flex.Sales72h = nil
			flex.AvgSalePrice72h = nil
			result.Rows = append(result.Rows, flex)
		}
		if av.ConsignedLowestPriceCents != nil {
			consigned := base
			consigned.IsConsigned = true
			consigned.LowestAsk = centsToMajor(av.ConsignedLowestPriceCents)
			consigned.HighestBid = nil
			consigned.LastSalePrice = nil
			consigned.Sales72h = nil
			consigned.AvgSalePrice72h = nil
			result.Rows = append(result.Rows, consigned)
		}
	}

	return result, nil
}

// centsToMajor converts an Alias cent string to major units: "12500" → 125.
// Unparseable or negative values map to nil rather than poisoning the row.
func centsToMajor(cents *string) *decimal.Decimal {
	if cents == nil || *cents == "" {
		return nil
	}
	d, err := decimal.NewFromString(*cents)
	if err != nil {
		return nil
	}
	if d.IsNegative() {
		return nil
	}
	major := d.Shift(-2)
	return &major
}

func summarizeRecentSales(sales alias.RecentSalesResponse, asOf time.Time) (int, *decimal.Decimal) {
	cutoff := asOf.Add(-72 * time.Hour)
	count := 0
	sum := decimal.Zero
	for _, sale := range sales.Sales {
		if sale.SoldAt.Before(cutoff) {
			continue
		}
		price := sale.PriceCents
		major := centsToMajor(&price)
		if major == nil {
			continue
		}
		count++
		sum = sum.Add(*major)
	}
	if count == 0 {
		return 0, nil
	}
	avg := sum.Div(decimal.NewFromInt(int64(count))).Round(2)
	return count, &avg
}
