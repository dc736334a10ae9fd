package market

import (
	"context"
	"errors"

	"github.com/pi5dash/evescan/internal/models"
)

// ErrNoData marks a symbol the provider has nothing for. Callers treat it
// as "no signal", not as a fault.
var ErrNoData = errors.New("market: no data")

// Bar is one daily OHLCV candle.
type Bar struct {
	Date   string  `json:"date"` // YYYY-MM-DD
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// ChainQuote is one strike row of an option chain table.
type ChainQuote struct {
	Strike            float64 `json:"strike"`
	LastPrice         float64 `json:"lastPrice"`
	ImpliedVolatility float64 `json:"impliedVolatility"` // fraction, e.g. 0.45
	Volume            int64   `json:"volume"`
	OpenInterest      int64   `json:"openInterest"`
}

// Chain is the call/put tables for one expiration.
type Chain struct {
	Calls []ChainQuote `json:"calls"`
	Puts  []ChainQuote `json:"puts"`
}

// Provider supplies daily history, option chains, earnings dates, and news
// for a ticker. Each method fails independently; the signal extractor
// degrades to absent data rather than aborting.
type Provider interface {
	History(ctx context.Context, symbol string) ([]Bar, error)
	OptionExpirations(ctx context.Context, symbol string) ([]string, error)
	OptionChain(ctx context.Context, symbol, expiration string) (*Chain, error)
	EarningsDate(ctx context.Context, symbol string) (string, error)
	News(ctx context.Context, symbol string, limit int) ([]models.NewsItem, error)
}
