// Package scan drives the ticker universe through signal extraction and
// scoring with bounded parallelism.
package scan

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pi5dash/evescan/internal/config"
	"github.com/pi5dash/evescan/internal/models"
	"github.com/pi5dash/evescan/internal/score"
	"github.com/pi5dash/evescan/internal/signals"
)

// SignalSource extracts one ticker's signal. An error means "no signal".
type SignalSource interface {
	Extract(ctx context.Context, ticker string) (*models.TickerSignal, error)
}

// Orchestrator processes the universe in fixed-size sequential batches,
// fanning each batch out to a bounded worker pool. One ticker's failure
// never aborts the batch or the run.
type Orchestrator struct {
	source SignalSource
	cfg    config.Config

	batchSize  int
	workers    int
	batchPause time.Duration
}

// NewOrchestrator creates a scan orchestrator with the standard batching
// parameters: batches of 5, 3 workers, 500ms between batches.
func NewOrchestrator(source SignalSource, cfg config.Config) *Orchestrator {
	return &Orchestrator{
		source:     source,
		cfg:        cfg,
		batchSize:  5,
		workers:    3,
		batchPause: 500 * time.Millisecond,
	}
}

// outcome is one worker's tagged result.
type outcome struct {
	ticker string
	signal *models.TickerSignal
	err    error
}

// Scan runs the full universe and returns the opportunities that met the
// minimum score, in completion order. Final ordering is imposed later by
// the report assembler.
func (o *Orchestrator) Scan(ctx context.Context, universe []string) []*models.Opportunity {
	var results []*models.Opportunity

	for start := 0; start < len(universe); start += o.batchSize {
		end := start + o.batchSize
		if end > len(universe) {
			end = len(universe)
		}
		batch := universe[start:end]

		for _, out := range o.scanBatch(ctx, batch) {
			if out.err != nil {
				o.logExclusion(out.ticker, out.err)
				continue
			}
			if opp := o.scoreSignal(out.signal); opp != nil {
				results = append(results, opp)
			}
		}

		// Courtesy pause between batches for the upstream provider
		if end < len(universe) {
			select {
			case <-time.After(o.batchPause):
			case <-ctx.Done():
				return results
			}
		}
	}

	return results
}

// scanBatch fans one batch out to the worker pool and gathers every
// ticker's tagged outcome.
func (o *Orchestrator) scanBatch(ctx context.Context, batch []string) []outcome {
	sem := make(chan struct{}, o.workers)
	outcomes := make(chan outcome, len(batch))

	var wg sync.WaitGroup
	for _, ticker := range batch {
		wg.Add(1)
		go func(ticker string) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				outcomes <- outcome{ticker: ticker, err: ctx.Err()}
				return
			}

			sig, err := o.source.Extract(ctx, ticker)
			outcomes <- outcome{ticker: ticker, signal: sig, err: err}
		}(ticker)
	}

	wg.Wait()
	close(outcomes)

	collected := make([]outcome, 0, len(batch))
	for out := range outcomes {
		collected = append(collected, out)
	}
	return collected
}

// scoreSignal scores a signal and attaches a trade idea when it clears
// the minimum-score filter.
func (o *Orchestrator) scoreSignal(sig *models.TickerSignal) *models.Opportunity {
	total, reasons := score.Score(sig)
	if total < o.cfg.MinScore {
		return nil
	}

	return &models.Opportunity{
		TickerSignal: *sig,
		Score:        total,
		Reasons:      reasons,
		TradeIdea:    score.GenerateTradeIdea(sig, reasons),
	}
}

func (o *Orchestrator) logExclusion(ticker string, err error) {
	if errors.Is(err, signals.ErrPriceFiltered) || errors.Is(err, signals.ErrInsufficientHistory) {
		log.Debug().Str("ticker", ticker).Err(err).Msg("ticker excluded")
		return
	}
	log.Warn().Str("ticker", ticker).Err(err).Msg("ticker fetch failed")
}
