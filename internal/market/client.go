package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/pi5dash/evescan/internal/models"
)

// Client provides market-data API access with rate limiting and circuit
// breaking. All endpoints return JSON documents under a shared base URL.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
}

// Config holds market client configuration.
type Config struct {
	BaseURL        string        `json:"base_url"`
	RequestTimeout time.Duration `json:"request_timeout"`
	RateLimitRPS   float64       `json:"rate_limit_rps"`
	Burst          int           `json:"burst"`
	UserAgent      string        `json:"user_agent"`
}

// NewClient creates a market-data client.
func NewClient(config Config) *Client {
	if config.RequestTimeout == 0 {
		config.RequestTimeout = 30 * time.Second
	}
	if config.RateLimitRPS == 0 {
		config.RateLimitRPS = 5.0
	}
	if config.Burst == 0 {
		config.Burst = 10
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:     "market-data",
		Interval: 60 * time.Second,
		Timeout:  30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &Client{
		httpClient: &http.Client{
			Timeout: config.RequestTimeout,
			Transport: &http.Transport{
				MaxIdleConns:    10,
				IdleConnTimeout: 30 * time.Second,
			},
		},
		baseURL: config.BaseURL,
		limiter: rate.NewLimiter(rate.Limit(config.RateLimitRPS), config.Burst),
		breaker: breaker,
	}
}

// History retrieves roughly one month of daily OHLCV bars.
func (c *Client) History(ctx context.Context, symbol string) ([]Bar, error) {
	var resp struct {
		Bars []Bar `json:"bars"`
	}
	q := url.Values{"range": {"1mo"}, "interval": {"1d"}}
	if err := c.getJSON(ctx, "/v1/history/"+url.PathEscape(symbol), q, &resp); err != nil {
		return nil, err
	}
	if len(resp.Bars) == 0 {
		return nil, fmt.Errorf("%w: %s history empty", ErrNoData, symbol)
	}
	return resp.Bars, nil
}

// OptionExpirations lists available expiration dates, nearest first.
func (c *Client) OptionExpirations(ctx context.Context, symbol string) ([]string, error) {
	var resp struct {
		Expirations []string `json:"expirations"`
	}
	if err := c.getJSON(ctx, "/v1/options/"+url.PathEscape(symbol), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Expirations, nil
}

// OptionChain retrieves the call/put tables for one expiration.
func (c *Client) OptionChain(ctx context.Context, symbol, expiration string) (*Chain, error) {
	var resp struct {
		Calls []ChainQuote `json:"calls"`
		Puts  []ChainQuote `json:"puts"`
	}
	q := url.Values{"date": {expiration}}
	if err := c.getJSON(ctx, "/v1/options/"+url.PathEscape(symbol), q, &resp); err != nil {
		return nil, err
	}
	return &Chain{Calls: resp.Calls, Puts: resp.Puts}, nil
}

// EarningsDate looks up the next earnings date. Best effort: an empty
// result comes back as ErrNoData.
func (c *Client) EarningsDate(ctx context.Context, symbol string) (string, error) {
	var resp struct {
		EarningsDate string `json:"earnings_date"`
	}
	if err := c.getJSON(ctx, "/v1/calendar/"+url.PathEscape(symbol), nil, &resp); err != nil {
		return "", err
	}
	if resp.EarningsDate == "" {
		return "", fmt.Errorf("%w: %s has no earnings date", ErrNoData, symbol)
	}
	return resp.EarningsDate, nil
}

// News retrieves the most recent headlines for a symbol.
func (c *Client) News(ctx context.Context, symbol string, limit int) ([]models.NewsItem, error) {
	var resp struct {
		Items []models.NewsItem `json:"items"`
	}
	q := url.Values{"limit": {strconv.Itoa(limit)}}
	if err := c.getJSON(ctx, "/v1/news/"+url.PathEscape(symbol), q, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// getJSON performs a rate-limited, circuit-broken GET and decodes the
// response body into out.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait failed: %w", err)
	}

	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	body, err := c.breaker.Execute(func() (interface{}, error) {
		return c.doGet(ctx, reqURL)
	})
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body.([]byte), out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}

func (c *Client) doGet(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "evescan/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrNoData, reqURL)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}
