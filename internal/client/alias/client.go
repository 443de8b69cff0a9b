package alias

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

type Client struct {
	host       string
	apiKey     string
	httpClient *http.Client
}

type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("alias API error (%d): %s", e.Status, e.Body)
}

type AuthError struct {
	Status int
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("alias auth failed (%d): check api key", e.Status)
}

func NewClient(httpClient *http.Client, host, apiKey string) *Client {
	if host == "" {
		host = "https://sell-api.goat.com/api/v1"
	}
	host = strings.TrimRight(host, "/")
	return &Client{
		host:       host,
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	fullURL := c.host + path
	if len(query) > 0 {
		fullURL = fullURL + "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, &AuthError{Status: resp.StatusCode}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{Status: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

// GetAvailabilityRaw fetches per-size pricing for a style. This is the
// primary call: a failure here aborts ingestion for the style.
func (c *Client) GetAvailabilityRaw(ctx context.Context, styleID, region string) ([]byte, *AvailabilityResponse, error) {
	if strings.TrimSpace(styleID) == "" {
		return nil, nil, fmt.Errorf("style_id is required")
	}
	query := url.Values{}
	query.Set("sku", styleID)
	if region != "" {
		query.Set("region", region)
	}
	body, err := c.doRequest(ctx, "/pricing-insights/availabilities", query)
	if err != nil {
		return nil, nil, err
	}
	parsed, err := parseAvailability(body)
	if err != nil {
		return body, nil, err
	}
	return body, parsed, nil
}

// GetRecentSalesRaw fetches recent sales for one size of a style. Alias only
// serves this per size, so a full refresh makes one call per size. Failures
// are non-fatal to ingestion: volume fields just stay null.
func (c *Client) GetRecentSalesRaw(ctx context.Context, styleID, size string) ([]byte, *RecentSalesResponse, error) {
	if strings.TrimSpace(styleID) == "" {
		return nil, nil, fmt.Errorf("style_id is required")
	}
	if strings.TrimSpace(size) == "" {
		return nil, nil, fmt.Errorf("size is required")
	}
	query := url.Values{}
	query.Set("sku", styleID)
	query.Set("size", size)
	body, err := c.doRequest(ctx, "/pricing-insights/recent-sales", query)
	if err != nil {
		return nil, nil, err
	}
	parsed, err := parseRecentSales(body)
	if err != nil {
		return body, nil, err
	}
	return body, parsed, nil
}
