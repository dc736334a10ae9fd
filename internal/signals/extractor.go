package signals

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pi5dash/evescan/internal/config"
	"github.com/pi5dash/evescan/internal/market"
	"github.com/pi5dash/evescan/internal/models"
)

// Exclusion reasons. The orchestrator treats both as "no signal" rather
// than a fault.
var (
	ErrInsufficientHistory = errors.New("signals: insufficient history")
	ErrPriceFiltered       = errors.New("signals: price above filter")
)

// Extractor builds a TickerSignal for one symbol from provider data.
type Extractor struct {
	provider market.Provider
	cfg      config.Config
	now      func() time.Time
}

// NewExtractor creates a signal extractor.
func NewExtractor(provider market.Provider, cfg config.Config) *Extractor {
	return &Extractor{provider: provider, cfg: cfg, now: time.Now}
}

// SetClock overrides the clock, for tests.
func (e *Extractor) SetClock(now func() time.Time) { e.now = now }

// Extract fetches history, options, earnings, and news for one ticker and
// derives its signal. Price history is mandatory; everything else degrades
// to absent data. A returned error always means "exclude this ticker".
func (e *Extractor) Extract(ctx context.Context, ticker string) (*models.TickerSignal, error) {
	bars, err := e.provider.History(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("history for %s: %w", ticker, err)
	}
	if len(bars) < 5 {
		return nil, fmt.Errorf("%w: %s has %d bars", ErrInsufficientHistory, ticker, len(bars))
	}

	current := bars[len(bars)-1]
	prev := bars[len(bars)-2]
	price := current.Close

	if price > e.cfg.MaxStockPrice {
		return nil, fmt.Errorf("%w: %s at %.2f", ErrPriceFiltered, ticker, price)
	}

	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}

	changePct := 0.0
	if prev.Close != 0 {
		changePct = (price - prev.Close) / prev.Close * 100
	}

	support, resistance := SupportResistance(bars)

	sig := &models.TickerSignal{
		Ticker:     ticker,
		Price:      round2(price),
		ChangePct:  round2(changePct),
		Volume:     current.Volume,
		VolSurge:   round2(VolumeSurge(bars)),
		Momentum5d: round2(Momentum5d(closes)),
		Trend:      ClassifyTrend(price, closes),
		Support:    round2(support),
		Resistance: round2(resistance),
		Sentiment:  models.PendingSentiment(),
	}

	if rsi := RSI(closes, rsiPeriod); rsi != nil {
		v := round1(*rsi)
		sig.RSI = &v
	}

	e.attachEarnings(ctx, sig)
	e.attachOptions(ctx, sig, price)
	e.attachNews(ctx, sig)

	return sig, nil
}

func (e *Extractor) attachEarnings(ctx context.Context, sig *models.TickerSignal) {
	dateStr, err := e.provider.EarningsDate(ctx, sig.Ticker)
	if err != nil {
		if !errors.Is(err, market.ErrNoData) {
			log.Debug().Err(err).Str("ticker", sig.Ticker).Msg("earnings lookup failed")
		}
		return
	}
	ed, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return
	}
	days := int(math.Floor(ed.Sub(e.now()).Hours() / 24))
	sig.EarningsDate = &dateStr
	sig.DaysToEarnings = &days
}

func (e *Extractor) attachOptions(ctx context.Context, sig *models.TickerSignal, price float64) {
	expirations, err := e.provider.OptionExpirations(ctx, sig.Ticker)
	if err != nil || len(expirations) == 0 {
		return
	}

	today := e.today()
	target := SelectExpiration(expirations, today)
	if target == "" {
		return
	}

	chain, err := e.provider.OptionChain(ctx, sig.Ticker, target)
	if err != nil {
		log.Debug().Err(err).Str("ticker", sig.Ticker).Str("expiration", target).Msg("option chain fetch failed")
		return
	}

	sig.Options = OptionsSnapshot(chain, price, target, today, e.cfg.MaxOptionPremium)
}

func (e *Extractor) attachNews(ctx context.Context, sig *models.TickerSignal) {
	items, err := e.provider.News(ctx, sig.Ticker, 5)
	if err != nil {
		return
	}
	for _, item := range items {
		if item.Title == "" {
			continue
		}
		sig.News = append(sig.News, item)
		if len(sig.News) == 3 {
			break
		}
	}
}

func (e *Extractor) today() time.Time {
	now := e.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
