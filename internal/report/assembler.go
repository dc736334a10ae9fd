// Package report assembles the run's output document: ranked results,
// category tags, headline counts, and a forward earnings calendar.
package report

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/pi5dash/evescan/internal/config"
	"github.com/pi5dash/evescan/internal/models"
)

const (
	topPicksLimit = 10
	categoryLimit = 5
	calendarDays  = 7
)

// Assembler builds the report document for one run.
type Assembler struct {
	cfg *config.Config
	now func() time.Time
}

// New creates an assembler against the run configuration.
func New(cfg *config.Config) *Assembler {
	return &Assembler{cfg: cfg, now: time.Now}
}

// SetClock overrides the time source. Tests only.
func (a *Assembler) SetClock(now func() time.Time) { a.now = now }

// Build sorts results by score, tags category membership, and produces the
// complete report. Results are mutated in place (sort order and category
// flags); the returned document shares their backing objects.
func (a *Assembler) Build(universeSize int, results []*models.Opportunity) *models.Report {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	var earnings, momentum, oversold []*models.Opportunity
	for _, r := range results {
		if r.DaysToEarnings != nil && *r.DaysToEarnings >= 0 && *r.DaysToEarnings <= calendarDays {
			r.EarningsPlay = true
			earnings = append(earnings, r)
			continue
		}
		if abs(r.Momentum5d) >= 5 {
			r.MomentumPlay = true
			momentum = append(momentum, r)
		}
		if r.RSI != nil && *r.RSI <= 35 {
			r.OversoldPlay = true
			oversold = append(oversold, r)
		}
	}

	opportunities := 0
	for _, r := range results {
		if r.Score >= 4 {
			opportunities++
		}
	}

	now := a.now()
	return &models.Report{
		RunID:       uuid.NewString(),
		GeneratedAt: now,
		NextUpdate:  "7:00 PM HST tomorrow",
		Config: models.ConfigSnapshot{
			MaxStockPrice:    a.cfg.MaxStockPrice,
			MaxOptionPremium: a.cfg.MaxOptionPremium,
			MinScore:         a.cfg.MinScore,
		},
		Descriptions: descriptions(),
		Summary: models.Summary{
			TotalScanned:       universeSize,
			PassedFilters:      len(results),
			OpportunitiesFound: opportunities,
			EarningsUpcoming:   len(earnings),
			OversoldCount:      len(oversold),
		},
		TopPicks: takeTop(results, topPicksLimit),
		Categories: models.Categories{
			EarningsPlays: takeTop(earnings, categoryLimit),
			MomentumPlays: takeTop(momentum, categoryLimit),
			OversoldPlays: takeTop(oversold, categoryLimit),
		},
		EarningsCalendar: buildCalendar(now, results),
		AllResults:       results,
	}
}

// buildCalendar lays the next seven days out with any results whose
// earnings date lands on each day.
func buildCalendar(now time.Time, results []*models.Opportunity) []models.CalendarDay {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	calendar := make([]models.CalendarDay, 0, calendarDays)

	for i := 0; i < calendarDays; i++ {
		day := today.AddDate(0, 0, i)
		dayStr := day.Format("2006-01-02")

		var entries []models.CalendarEntry
		for _, r := range results {
			if r.EarningsDate != nil && *r.EarningsDate == dayStr {
				entries = append(entries, models.CalendarEntry{
					Ticker: r.Ticker,
					Price:  r.Price,
					Score:  r.Score,
				})
			}
		}

		calendar = append(calendar, models.CalendarDay{
			Date:     dayStr,
			Day:      day.Format("Mon 01/02"),
			IsToday:  i == 0,
			Earnings: entries,
		})
	}

	return calendar
}

func descriptions() models.Descriptions {
	return models.Descriptions{
		ScoreGuide: map[string]string{
			"6+":    "🔥 Excellent - Multiple strong catalysts aligned. High conviction play.",
			"4-5.9": "✅ Good - Solid setup with clear catalyst. Worth considering.",
			"2-3.9": "👀 Watchlist - Some positive signals. Monitor for better entry.",
			"0-1.9": "⏸️ Weak - Limited catalyst. Wait for better setup.",
		},
		Sections: map[string]string{
			"top_picks":      "Highest-scoring opportunities across all categories. These have multiple bullish/bearish signals aligned.",
			"earnings_plays": "Stocks with earnings in the next 7 days. High risk/reward due to potential big moves. Consider straddles if direction unclear.",
			"momentum_plays": "Stocks moving 5%+ in the past 5 days with elevated volume. Trend followers.",
			"oversold_plays": "RSI under 35 - potentially oversold and due for a bounce. Contrarian plays.",
		},
		EntryExit: "Entry prices are suggested limit orders. Targets are based on expected move. Stops protect against adverse moves.",
	}
}

func takeTop(list []*models.Opportunity, n int) []*models.Opportunity {
	if len(list) > n {
		return list[:n]
	}
	return list
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
