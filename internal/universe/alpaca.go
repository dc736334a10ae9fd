package universe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	alpacaBaseURL = "https://api.alpaca.markets"

	// Refresh merges at most this many symbols beyond the curated list.
	maxNewTickers = 200
)

// ErrNoCredentials means the broker keys are not configured.
var ErrNoCredentials = errors.New("universe: broker credentials not configured")

// AlpacaClient fetches the active US-equity asset list from the broker.
type AlpacaClient struct {
	httpClient *http.Client
	baseURL    string
	key        string
	secret     string
}

// NewAlpacaClient creates a broker client. An empty baseURL uses the
// production API.
func NewAlpacaClient(baseURL, key, secret string) *AlpacaClient {
	if baseURL == "" {
		baseURL = alpacaBaseURL
	}
	return &AlpacaClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		key:        key,
		secret:     secret,
	}
}

type alpacaAsset struct {
	Symbol       string `json:"symbol"`
	Tradable     bool   `json:"tradable"`
	Fractionable bool   `json:"fractionable"`
}

// TradeableSymbols returns active US-equity symbols that pass the
// liquidity filter: tradeable, fractionable, at most five characters, and
// not a warrant.
func (c *AlpacaClient) TradeableSymbols(ctx context.Context) ([]string, error) {
	if c.key == "" || c.secret == "" {
		return nil, ErrNoCredentials
	}

	query := url.Values{}
	query.Set("status", "active")
	query.Set("asset_class", "us_equity")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/v2/assets?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("APCA-API-KEY-ID", c.key)
	req.Header.Set("APCA-API-SECRET-KEY", c.secret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("assets request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return nil, fmt.Errorf("assets request: HTTP %d: %s", resp.StatusCode, body)
	}

	var assets []alpacaAsset
	if err := json.NewDecoder(resp.Body).Decode(&assets); err != nil {
		return nil, fmt.Errorf("failed to decode assets: %w", err)
	}

	var symbols []string
	for _, a := range assets {
		if !a.Tradable || !a.Fractionable {
			continue
		}
		if len(a.Symbol) > 5 || strings.HasSuffix(a.Symbol, "W") {
			continue
		}
		symbols = append(symbols, a.Symbol)
	}
	return symbols, nil
}

// Refresh pulls the broker's tradeable symbols, merges them on top of the
// curated list, and writes the provider's cache. Returns the cache that
// was written.
func Refresh(ctx context.Context, client *AlpacaClient, provider *Provider) (Cache, error) {
	tradeable, err := client.TradeableSymbols(ctx)
	if err != nil {
		return Cache{}, fmt.Errorf("refresh universe: %w", err)
	}

	existing := make(map[string]bool)
	tickers := Curated()
	for _, t := range tickers {
		existing[t] = true
	}

	added := 0
	for _, t := range tradeable {
		if existing[t] || added == maxNewTickers {
			continue
		}
		existing[t] = true
		tickers = append(tickers, t)
		added++
	}

	cache := Cache{
		UpdatedAt:      time.Now(),
		Source:         "alpaca",
		Tickers:        tickers,
		TotalAvailable: len(tradeable),
	}
	if err := provider.SaveCache(cache); err != nil {
		return Cache{}, err
	}
	return cache, nil
}
