// Package journal maintains the append-only research journal: one entry
// per run, newest first, deduplicated on timestamp and capped in length.
package journal

import (
	"fmt"
	"math"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/pi5dash/evescan/internal/atomicio"
	"github.com/pi5dash/evescan/internal/models"
)

const pickLimit = 5

// Persister reads and rewrites the journal file.
type Persister struct {
	path       string
	maxEntries int
}

// NewPersister creates a persister for the journal at path. maxEntries
// bounds the file; zero or negative falls back to 30.
func NewPersister(path string, maxEntries int) *Persister {
	if maxEntries <= 0 {
		maxEntries = 30
	}
	return &Persister{path: path, maxEntries: maxEntries}
}

// BuildEntry condenses a report into its journal record. The AI narrative
// is attached separately by the caller when one was generated.
func BuildEntry(report *models.Report) models.JournalEntry {
	s := report.Summary

	picks := make([]models.JournalPick, 0, pickLimit)
	for i, p := range report.TopPicks {
		if i == pickLimit {
			break
		}
		picks = append(picks, models.JournalPick{
			Ticker:    p.Ticker,
			Score:     math.Round(p.Score*10) / 10,
			Direction: p.TradeIdea.Direction,
			AISummary: p.Sentiment.Summary,
		})
	}

	return models.JournalEntry{
		CreatedAt: report.GeneratedAt,
		RunID:     report.RunID,
		Title: fmt.Sprintf("Scan: %d opportunities (4+) | Earnings: %d | Oversold: %d",
			s.OpportunitiesFound, s.EarningsUpcoming, s.OversoldCount),
		Summary:  fmt.Sprintf("Scanned %d tickers; %d passed filters.", s.TotalScanned, s.PassedFilters),
		TopPicks: picks,
	}
}

// Append inserts the entry at the head of the journal and rewrites the
// file atomically. A re-run carrying the head entry's timestamp replaces
// it instead of stacking a duplicate.
func (p *Persister) Append(entry models.JournalEntry) error {
	entries := p.load()

	if len(entries) > 0 && entries[0].CreatedAt.Equal(entry.CreatedAt) {
		entries[0] = entry
	} else {
		entries = append([]models.JournalEntry{entry}, entries...)
	}

	if len(entries) > p.maxEntries {
		entries = entries[:p.maxEntries]
	}

	if err := atomicio.WriteJSONAtomic(p.path, entries); err != nil {
		return fmt.Errorf("write journal: %w", err)
	}
	return nil
}

// load reads the existing journal. A missing or unreadable file yields an
// empty journal rather than an error; the next write recreates it.
func (p *Persister) load() []models.JournalEntry {
	var entries []models.JournalEntry
	if err := atomicio.ReadJSON(p.path, &entries); err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", p.path).Msg("journal unreadable, starting fresh")
		}
		return nil
	}
	return entries
}
