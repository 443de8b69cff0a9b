package stockx

import (
	"encoding/json"
	"fmt"
)

// MarketResponse is the subset of the StockX market-data payload the mapper
// consumes. Prices arrive in major currency units.
type MarketResponse struct {
	ProductID string          `json:"productId"`
	StyleID   string          `json:"styleId"`
	Title     string          `json:"title"`
	Brand     string          `json:"brand"`
	Market    MarketContainer `json:"market"`
}

type MarketContainer struct {
	Variants []Variant `json:"variants"`
}

type Variant struct {
	VariantID       string   `json:"variantId"`
	Size            string   `json:"size"`
	CurrencyCode    string   `json:"currencyCode"`
	LowestAsk       *float64 `json:"lowestAsk"`
	HighestBid      *float64 `json:"highestBid"`
	LastSale        *float64 `json:"lastSale"`
	SalesLast72H    *int     `json:"salesLast72Hours"`
	AvgSalePrice72H *float64 `json:"averageSalePrice72Hours"`
	FlexLowestAsk   *float64 `json:"flexLowestAsk"`
}

func parseMarket(body []byte) (*MarketResponse, error) {
	var out MarketResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to parse market response: %w", err)
	}
	return &out, nil
}
