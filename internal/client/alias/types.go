package alias

import (
	"encoding/json"
	"fmt"
	"time"
)

// AvailabilityResponse carries per-size pricing. Alias reports every price
// as a cent-denominated string ("12500" == 125.00 major units).
type AvailabilityResponse struct {
	CatalogID    string             `json:"catalog_id"`
	Sku          string             `json:"sku"`
	Availability []SizeAvailability `json:"availability"`
}

type SizeAvailability struct {
	Size                      string  `json:"size"`
	SizeUnit                  string  `json:"size_unit"`
	Currency                  string  `json:"currency"`
	Region                    string  `json:"region"`
	LowestPriceCents          *string `json:"lowest_price_cents"`
	HighestOfferCents         *string `json:"highest_offer_cents"`
	LastSoldPriceCents        *string `json:"last_sold_price_cents"`
	FlexLowestPriceCents      *string `json:"flex_lowest_price_cents"`
	ConsignedLowestPriceCents *string `json:"consigned_lowest_price_cents"`
}

type RecentSalesResponse struct {
	Sku   string       `json:"sku"`
	Size  string       `json:"size"`
	Sales []RecentSale `json:"sales"`
}

type RecentSale struct {
	PriceCents string    `json:"price_cents"`
	SoldAt     time.Time `json:"sold_at"`
	IsFlex     bool      `json:"is_flex"`
}

func parseAvailability(body []byte) (*AvailabilityResponse, error) {
	var out AvailabilityResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to parse availability response: %w", err)
	}
	return &out, nil
}

func parseRecentSales(body []byte) (*RecentSalesResponse, error) {
	var out RecentSalesResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to parse recent sales response: %w", err)
	}
	return &out, nil
}
