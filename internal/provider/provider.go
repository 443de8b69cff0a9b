package provider

import (
	"context"
	"encoding/json"
	"time"

	"soletrack/internal/models"
)

// RawPayload is what a provider fetch produces before normalization. Pricing
// holds the primary response body; Sales holds the optional volume-metrics
// body and is nil when that call failed (non-fatal per the ingest contract).
type RawPayload struct {
	Provider  string
	StyleID   string
	FetchedAt time.Time
	Pricing   json.RawMessage
	Sales     json.RawMessage
}

// NormalizeResult reports what the mapper produced. Rejected counts input
// entries dropped for missing required fields; rejection is never fatal.
type NormalizeResult struct {
	Rows     []models.MarketData
	Rejected int
}

// Provider is one marketplace pricing source. Fetch errors on the primary
// pricing call abort ingestion for the style; Normalize is pure and never
// touches the network.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, styleID string) (*RawPayload, error)
	Normalize(p *RawPayload) (NormalizeResult, error)
}
