package scan

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pi5dash/evescan/internal/config"
	"github.com/pi5dash/evescan/internal/models"
	"github.com/pi5dash/evescan/internal/signals"
)

// fakeSource returns canned signals or errors per ticker and records
// concurrency.
type fakeSource struct {
	mu         sync.Mutex
	signals    map[string]*models.TickerSignal
	errs       map[string]error
	inFlight   int
	maxSeen    int
	calls      []string
	perCallLag time.Duration
}

func (f *fakeSource) Extract(ctx context.Context, ticker string) (*models.TickerSignal, error) {
	f.mu.Lock()
	f.inFlight++
	if f.inFlight > f.maxSeen {
		f.maxSeen = f.inFlight
	}
	f.calls = append(f.calls, ticker)
	f.mu.Unlock()

	if f.perCallLag > 0 {
		time.Sleep(f.perCallLag)
	}

	f.mu.Lock()
	f.inFlight--
	f.mu.Unlock()

	if err, ok := f.errs[ticker]; ok {
		return nil, err
	}
	if sig, ok := f.signals[ticker]; ok {
		return sig, nil
	}
	return nil, fmt.Errorf("history for %s: %w", ticker, errors.New("unknown ticker"))
}

func strongSignal(ticker string) *models.TickerSignal {
	rsi := 28.0
	return &models.TickerSignal{
		Ticker:     ticker,
		Price:      20,
		Momentum5d: 12,
		VolSurge:   2.5,
		RSI:        &rsi,
		Sentiment:  models.PendingSentiment(),
	}
}

func weakSignal(ticker string) *models.TickerSignal {
	return &models.TickerSignal{
		Ticker:    ticker,
		Price:     20,
		VolSurge:  1.0,
		Sentiment: models.PendingSentiment(),
	}
}

func fastOrchestrator(source SignalSource) *Orchestrator {
	o := NewOrchestrator(source, config.Default())
	o.batchPause = 0
	return o
}

func TestScanCollectsScoredOpportunities(t *testing.T) {
	source := &fakeSource{signals: map[string]*models.TickerSignal{
		"AAA": strongSignal("AAA"),
		"BBB": weakSignal("BBB"),
		"CCC": strongSignal("CCC"),
	}}

	results := fastOrchestrator(source).Scan(context.Background(), []string{"AAA", "BBB", "CCC"})

	require.Len(t, results, 2)
	tickers := []string{results[0].Ticker, results[1].Ticker}
	assert.ElementsMatch(t, []string{"AAA", "CCC"}, tickers)

	for _, r := range results {
		assert.GreaterOrEqual(t, r.Score, 5.5)
		assert.NotEmpty(t, r.Reasons)
		assert.Equal(t, models.DirectionCall, r.TradeIdea.Direction)
	}
}

func TestScanMinScoreFilter(t *testing.T) {
	source := &fakeSource{signals: map[string]*models.TickerSignal{
		"AAA": weakSignal("AAA"),
	}}

	results := fastOrchestrator(source).Scan(context.Background(), []string{"AAA"})
	assert.Empty(t, results)
}

func TestScanOneFailureDoesNotAbortBatch(t *testing.T) {
	source := &fakeSource{
		signals: map[string]*models.TickerSignal{
			"AAA": strongSignal("AAA"),
			"CCC": strongSignal("CCC"),
		},
		errs: map[string]error{
			"BBB": errors.New("provider exploded"),
			"DDD": fmt.Errorf("%w: DDD has 2 bars", signals.ErrInsufficientHistory),
			"EEE": fmt.Errorf("%w: EEE at 120.00", signals.ErrPriceFiltered),
		},
	}

	results := fastOrchestrator(source).Scan(context.Background(),
		[]string{"AAA", "BBB", "CCC", "DDD", "EEE"})

	require.Len(t, results, 2)
	assert.Len(t, source.calls, 5)
}

func TestScanBoundedConcurrency(t *testing.T) {
	source := &fakeSource{
		signals:    map[string]*models.TickerSignal{},
		perCallLag: 20 * time.Millisecond,
	}
	universe := make([]string, 10)
	for i := range universe {
		universe[i] = fmt.Sprintf("T%02d", i)
		source.signals[universe[i]] = weakSignal(universe[i])
	}

	fastOrchestrator(source).Scan(context.Background(), universe)

	assert.LessOrEqual(t, source.maxSeen, 3)
	assert.Len(t, source.calls, 10)
}

func TestScanBatchesSequentially(t *testing.T) {
	source := &fakeSource{signals: map[string]*models.TickerSignal{}}
	universe := make([]string, 7)
	for i := range universe {
		universe[i] = fmt.Sprintf("T%02d", i)
		source.signals[universe[i]] = weakSignal(universe[i])
	}

	o := fastOrchestrator(source)
	o.Scan(context.Background(), universe)

	// First batch of five completes before the second starts.
	first := source.calls[:5]
	assert.ElementsMatch(t, universe[:5], first)
	assert.ElementsMatch(t, universe[5:], source.calls[5:])
}

func TestScanContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	source := &fakeSource{signals: map[string]*models.TickerSignal{
		"AAA": strongSignal("AAA"),
	}}
	o := NewOrchestrator(source, config.Default())

	results := o.Scan(ctx, []string{"AAA", "BBB", "CCC", "DDD", "EEE", "FFF"})
	// The run winds down without panicking; whatever completed is kept.
	assert.LessOrEqual(t, len(results), 1)
}

func TestScanEmptyUniverse(t *testing.T) {
	results := fastOrchestrator(&fakeSource{}).Scan(context.Background(), nil)
	assert.Empty(t, results)
}
