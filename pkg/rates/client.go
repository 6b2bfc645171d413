package rates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/loyafu/storefront-backend/pkg/errors"
)

const (
	apiKeyHeader                = "X-Api-Key"
	responseBodyReadLimit int64 = 1024
)

var errBaseURLRequired = errors.New("exchange rate source url is required")

// Client fetches the USD to local currency rate from an external source.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	now        func() time.Time
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the source URL passed to NewClient.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient builds a rate client for the given source. The API key is optional.
func NewClient(sourceURL, apiKey string, opts ...Option) (*Client, error) {
	client := &Client{
		baseURL:    strings.TrimSpace(sourceURL),
		apiKey:     strings.TrimSpace(apiKey),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		now:        time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	if client.baseURL == "" {
		return nil, errBaseURLRequired
	}
	return client, nil
}

// Quote is one observation returned by the source.
type Quote struct {
	Rate      decimal.Decimal
	Source    string
	FetchedAt time.Time
}

// Fetch requests the current rate.
func (c *Client) Fetch(ctx context.Context) (Quote, error) {
	if c == nil {
		return Quote{}, pkgerrors.New(pkgerrors.CodeDependency, "exchange rate client not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return Quote{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build exchange rate request")
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Quote{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute exchange rate request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return Quote{}, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "exchange rate request failed")
	}

	var payload struct {
		Rate     json.RawMessage `json:"rate"`
		Price    json.RawMessage `json:"price"`
		Promedio json.RawMessage `json:"promedio"`
		Source   string          `json:"source"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Quote{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode exchange rate response")
	}

	var rate decimal.Decimal
	found := false
	for _, raw := range []json.RawMessage{payload.Rate, payload.Price, payload.Promedio} {
		value, ok, err := parseNumber(raw)
		if err != nil {
			return Quote{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "parse exchange rate")
		}
		if ok {
			rate, found = value, true
			break
		}
	}
	if !found {
		return Quote{}, pkgerrors.New(pkgerrors.CodeDependency, "exchange rate missing from response")
	}
	if !rate.IsPositive() {
		return Quote{}, pkgerrors.Newf(pkgerrors.CodeDependency, "exchange rate must be positive, got %s", rate)
	}

	source := strings.TrimSpace(payload.Source)
	if source == "" {
		source = req.URL.Host
	}
	return Quote{Rate: rate, Source: source, FetchedAt: c.now().UTC()}, nil
}

// parseNumber accepts a JSON number or a numeric string. Absent or null values report ok=false.
func parseNumber(raw json.RawMessage) (decimal.Decimal, bool, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return decimal.Zero, false, nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return decimal.Zero, false, err
		}
		s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
		if s == "" {
			return decimal.Zero, false, nil
		}
		value, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, false, fmt.Errorf("invalid rate %q: %w", s, err)
		}
		return value, true, nil
	}
	value, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("invalid rate %s: %w", trimmed, err)
	}
	return value, true, nil
}
