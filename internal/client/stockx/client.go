package stockx

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
	jwt        string
	httpClient *http.Client
}

type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("stockx API error (%d): %s", e.Status, e.Body)
}

// AuthError is returned for 401/403 so callers can distinguish expired
// credentials from transient API failures.
type AuthError struct {
	Status int
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("stockx auth failed (%d): check api key / jwt", e.Status)
}

func NewClient(httpClient *http.Client, host, apiKey, jwt string) *Client {
	if host == "" {
		host = "https://api.stockx.com/v2"
	}
	host = strings.TrimRight(host, "/")
	return &Client{
		host:       host,
		apiKey:     apiKey,
		jwt:        jwt,
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
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.jwt)
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

// GetMarketRaw fetches marketplace pricing for a style and returns both the
// raw body (for snapshot logging) and the parsed response.
func (c *Client) GetMarketRaw(ctx context.Context, styleID, currencyCode string) ([]byte, *MarketResponse, error) {
	if strings.TrimSpace(styleID) == "" {
		return nil, nil, fmt.Errorf("style_id is required")
	}
	query := url.Values{}
	query.Set("styleId", styleID)
	if currencyCode != "" {
		query.Set("currencyCode", currencyCode)
	}
	body, err := c.doRequest(ctx, "/catalog/products/market-data", query)
	if err != nil {
		return nil, nil, err
	}
	parsed, err := parseMarket(body)
	if err != nil {
		return body, nil, err
	}
	return body, parsed, nil
}
