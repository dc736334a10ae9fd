// Package app wires the components together and drives one research run:
// universe, scan, enrichment, report, journal.
package app

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/pi5dash/evescan/internal/atomicio"
	"github.com/pi5dash/evescan/internal/config"
	"github.com/pi5dash/evescan/internal/journal"
	"github.com/pi5dash/evescan/internal/market"
	"github.com/pi5dash/evescan/internal/models"
	"github.com/pi5dash/evescan/internal/report"
	"github.com/pi5dash/evescan/internal/scan"
	"github.com/pi5dash/evescan/internal/sentiment"
	"github.com/pi5dash/evescan/internal/signals"
	"github.com/pi5dash/evescan/internal/universe"
)

// UniverseSource yields the tickers a run scans.
type UniverseSource interface {
	Tickers() []string
}

// Scanner turns a universe into scored opportunities.
type Scanner interface {
	Scan(ctx context.Context, universe []string) []*models.Opportunity
}

// Enricher applies AI sentiment to results and authors the journal note.
type Enricher interface {
	EnrichTop(ctx context.Context, results []*models.Opportunity)
	GenerateNarrative(ctx context.Context, r *models.Report) (*models.Narrative, string, error)
}

// App is one fully wired scanner instance.
type App struct {
	cfg       config.Config
	universe  UniverseSource
	scanner   Scanner
	enricher  Enricher
	assembler *report.Assembler
	journal   *journal.Persister
}

// New wires the production components from configuration.
func New(cfg config.Config) *App {
	marketClient := market.NewClient(market.Config{
		BaseURL: cfg.Providers.MarketBaseURL,
	})
	extractor := signals.NewExtractor(marketClient, cfg)

	aiClient := sentiment.NewClient(sentiment.Config{
		BaseURL: cfg.Providers.OpenAIBaseURL,
		APIKey:  cfg.Providers.OpenAIKey,
		Model:   cfg.Providers.OpenAIModel,
		Style:   cfg.Providers.OpenAIStyle,
	})
	analyzer := sentiment.NewAnalyzer(aiClient, sentiment.AnalyzerConfig{
		TopN:     cfg.AITopN,
		Delay:    cfg.AIRateLimitDelay,
		ForceAll: cfg.ForceAIAll,
		Enabled:  cfg.UseAISentiment,
	})

	return &App{
		cfg:       cfg,
		universe:  universe.NewProvider(cfg.UniversePath(), cfg.MaxTickers),
		scanner:   scan.NewOrchestrator(extractor, cfg),
		enricher:  analyzer,
		assembler: report.New(&cfg),
		journal:   journal.NewPersister(cfg.JournalPath(), cfg.JournalMaxEntries),
	}
}

// Run executes one research pass and returns the report it persisted.
// A failure to write the report or the journal is fatal; AI failures only
// degrade the output.
func (a *App) Run(ctx context.Context) (*models.Report, error) {
	tickers := a.universe.Tickers()
	log.Info().Int("universe", len(tickers)).Msg("starting research run")

	results := a.scanner.Scan(ctx, tickers)
	log.Info().Int("passed", len(results)).Msg("scan complete")

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	a.enricher.EnrichTop(ctx, results)

	rep := a.assembler.Build(len(tickers), results)
	if err := atomicio.WriteJSONAtomic(a.cfg.ReportPath(), rep); err != nil {
		return nil, fmt.Errorf("write report: %w", err)
	}
	log.Info().
		Str("run_id", rep.RunID).
		Int("opportunities", rep.Summary.OpportunitiesFound).
		Str("path", a.cfg.ReportPath()).
		Msg("report written")

	entry := journal.BuildEntry(rep)
	narrative, model, err := a.enricher.GenerateNarrative(ctx, rep)
	if err != nil {
		log.Warn().Err(err).Msg("journal narrative unavailable")
	} else if narrative != nil {
		entry.AIJournal = narrative
		entry.Model = model
	}

	if err := a.journal.Append(entry); err != nil {
		return nil, fmt.Errorf("append journal: %w", err)
	}

	return rep, nil
}

// UpdateUniverse refreshes the broker-derived universe cache.
func UpdateUniverse(ctx context.Context, cfg config.Config) error {
	client := universe.NewAlpacaClient("", cfg.Providers.AlpacaKey, cfg.Providers.AlpacaSecret)
	provider := universe.NewProvider(cfg.UniversePath(), 0)

	cache, err := universe.Refresh(ctx, client, provider)
	if err != nil {
		return err
	}
	log.Info().
		Int("tickers", len(cache.Tickers)).
		Int("total_available", cache.TotalAvailable).
		Msg("universe updated")
	return nil
}
