// Package universe selects the tickers each run scans: the curated list
// merged with any broker-refreshed cache on disk, capped for the host.
package universe

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pi5dash/evescan/internal/atomicio"
)

// Cache is the on-disk universe document a refresh produces.
type Cache struct {
	UpdatedAt      time.Time `json:"updated_at"`
	Source         string    `json:"source"`
	Tickers        []string  `json:"tickers"`
	TotalAvailable int       `json:"total_available"`
}

// Provider resolves the scan universe.
type Provider struct {
	cachePath  string
	maxTickers int
}

// NewProvider creates a provider reading the cache at cachePath.
// maxTickers bounds the returned list; zero or negative means no cap.
func NewProvider(cachePath string, maxTickers int) *Provider {
	return &Provider{cachePath: cachePath, maxTickers: maxTickers}
}

// Tickers returns the curated list with cached symbols appended, deduped
// in first-seen order. A missing or unreadable cache falls back to the
// curated list alone.
func (p *Provider) Tickers() []string {
	tickers := Curated()

	var cache Cache
	if err := atomicio.ReadJSON(p.cachePath, &cache); err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", p.cachePath).Msg("universe cache unreadable, using curated list")
		}
	} else {
		seen := make(map[string]bool, len(tickers))
		for _, t := range tickers {
			seen[t] = true
		}
		for _, t := range cache.Tickers {
			if !seen[t] {
				seen[t] = true
				tickers = append(tickers, t)
			}
		}
	}

	if p.maxTickers > 0 && len(tickers) > p.maxTickers {
		tickers = tickers[:p.maxTickers]
	}
	return tickers
}

// SaveCache writes the refreshed universe document atomically.
func (p *Provider) SaveCache(cache Cache) error {
	if err := atomicio.WriteJSONAtomic(p.cachePath, cache); err != nil {
		return fmt.Errorf("write universe cache: %w", err)
	}
	return nil
}
