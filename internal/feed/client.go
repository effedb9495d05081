// Package feed fetches dashboard data from public market endpoints.
// Quotes and news go through provider fallback chains (Yahoo → Stooq →
// TwelveData, Finnhub → NewsAPI → Yahoo search) so the dashboard keeps
// rendering when an individual provider is down or unkeyed. Every
// failure is a typed *Error; callers decide whether to degrade or log.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Config holds provider endpoints and credentials. Endpoint fields
// exist so tests can point the client at local fakes.
type Config struct {
	YahooQuoteURL  string
	YahooSearchURL string
	StooqQuoteURL  string
	StooqDailyURL  string
	TwelveDataURL  string
	FinnhubURL     string
	NewsAPIURL     string
	CalendarURL    string
	MacroURL       string
	WorldMapURL    string

	FinnhubKey    string
	NewsAPIKey    string
	TwelveDataKey string

	Timeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.YahooQuoteURL == "" {
		c.YahooQuoteURL = "https://query1.finance.yahoo.com/v7/finance/quote"
	}
	if c.YahooSearchURL == "" {
		c.YahooSearchURL = "https://query1.finance.yahoo.com/v1/finance/search"
	}
	if c.StooqQuoteURL == "" {
		c.StooqQuoteURL = "https://stooq.com/q/l/"
	}
	if c.StooqDailyURL == "" {
		c.StooqDailyURL = "https://stooq.com/q/d/l/"
	}
	if c.TwelveDataURL == "" {
		c.TwelveDataURL = "https://api.twelvedata.com/quote"
	}
	if c.FinnhubURL == "" {
		c.FinnhubURL = "https://finnhub.io/api/v1"
	}
	if c.NewsAPIURL == "" {
		c.NewsAPIURL = "https://newsapi.org/v2"
	}
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	return c
}

// Client fetches market data. Safe for concurrent use.
type Client struct {
	cfg  Config
	http *http.Client

	cache *ttlCache
}

// NewClient creates a feed client.
func NewClient(cfg Config) *Client {
	cfg = cfg.withDefaults()
	return &Client{
		cfg:   cfg,
		http:  &http.Client{Timeout: cfg.Timeout},
		cache: newTTLCache(),
	}
}

// get issues a GET with browser-ish headers. A transport failure or a
// non-200 status becomes a typed *Error for resource.
func (c *Client) get(ctx context.Context, resource, rawURL string, params url.Values) ([]byte, error) {
	u := rawURL
	if len(params) > 0 {
		u = rawURL + "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &Error{Resource: resource, Kind: KindTransport, Err: err}
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{Resource: resource, Kind: KindTransport, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{Resource: resource, Kind: KindStatus, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Resource: resource, Kind: KindTransport, Err: err}
	}
	return body, nil
}

// getJSON fetches and decodes a JSON document into out.
func (c *Client) getJSON(ctx context.Context, resource, rawURL string, params url.Values, out any) error {
	body, err := c.get(ctx, resource, rawURL, params)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &Error{Resource: resource, Kind: KindShape, Err: err}
	}
	return nil
}

func round2(x float64) float64 {
	if x >= 0 {
		return float64(int64(x*100+0.5)) / 100
	}
	return float64(int64(x*100-0.5)) / 100
}

func ptr(x float64) *float64 { return &x }
