package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pi5dash/evescan/internal/config"
	"github.com/pi5dash/evescan/internal/models"
)

func fixedClock() time.Time {
	return time.Date(2025, 3, 10, 19, 0, 0, 0, time.UTC) // a Monday
}

func testAssembler() *Assembler {
	cfg := config.Default()
	a := New(&cfg)
	a.SetClock(fixedClock)
	return a
}

func opp(ticker string, s float64) *models.Opportunity {
	o := &models.Opportunity{Score: s}
	o.Ticker = ticker
	o.Price = 20.0
	return o
}

func withEarnings(o *models.Opportunity, days int) *models.Opportunity {
	date := fixedClock().AddDate(0, 0, days).Format("2006-01-02")
	o.EarningsDate = &date
	o.DaysToEarnings = &days
	return o
}

func withRSI(o *models.Opportunity, rsi float64) *models.Opportunity {
	o.RSI = &rsi
	return o
}

func TestBuildSortsByScoreDescending(t *testing.T) {
	results := []*models.Opportunity{opp("LOW", 2.5), opp("HIGH", 6.0), opp("MID", 4.0)}

	report := testAssembler().Build(10, results)

	require.Len(t, report.AllResults, 3)
	assert.Equal(t, "HIGH", report.AllResults[0].Ticker)
	assert.Equal(t, "MID", report.AllResults[1].Ticker)
	assert.Equal(t, "LOW", report.AllResults[2].Ticker)
	assert.Equal(t, report.AllResults[:3], report.TopPicks)
}

func TestBuildSortIsStable(t *testing.T) {
	results := []*models.Opportunity{opp("FIRST", 4.0), opp("SECOND", 4.0), opp("THIRD", 4.0)}

	report := testAssembler().Build(3, results)

	assert.Equal(t, "FIRST", report.AllResults[0].Ticker)
	assert.Equal(t, "SECOND", report.AllResults[1].Ticker)
	assert.Equal(t, "THIRD", report.AllResults[2].Ticker)
}

func TestBuildCategoryTags(t *testing.T) {
	earningsSoon := withEarnings(opp("ERN", 5.0), 2)
	earningsToday := withEarnings(opp("TOD", 4.5), 0)
	// Earnings membership wins over the other categories.
	earningsAndHot := withRSI(withEarnings(opp("BOTH", 4.0), 3), 30)
	earningsAndHot.Momentum5d = 8

	mover := opp("MOV", 3.5)
	mover.Momentum5d = -6.2
	dip := withRSI(opp("DIP", 3.0), 28)
	plain := opp("PLN", 2.5)
	farOut := withEarnings(opp("FAR", 2.0), 12)

	report := testAssembler().Build(20, []*models.Opportunity{
		earningsSoon, earningsToday, earningsAndHot, mover, dip, plain, farOut,
	})

	assert.ElementsMatch(t,
		[]*models.Opportunity{earningsSoon, earningsToday, earningsAndHot},
		report.Categories.EarningsPlays)
	assert.ElementsMatch(t, []*models.Opportunity{mover}, report.Categories.MomentumPlays)
	assert.ElementsMatch(t, []*models.Opportunity{dip}, report.Categories.OversoldPlays)

	assert.True(t, earningsToday.EarningsPlay)
	assert.False(t, earningsAndHot.MomentumPlay)
	assert.False(t, earningsAndHot.OversoldPlay)
	assert.False(t, farOut.EarningsPlay)
	assert.True(t, mover.MomentumPlay)
	assert.True(t, dip.OversoldPlay)
	assert.False(t, plain.MomentumPlay)
}

func TestBuildSummaryCounts(t *testing.T) {
	results := []*models.Opportunity{
		withEarnings(opp("A", 6.0), 1),
		withRSI(opp("B", 4.0), 30),
		opp("C", 2.5),
	}

	report := testAssembler().Build(50, results)

	assert.Equal(t, 50, report.Summary.TotalScanned)
	assert.Equal(t, 3, report.Summary.PassedFilters)
	assert.Equal(t, 2, report.Summary.OpportunitiesFound)
	assert.Equal(t, 1, report.Summary.EarningsUpcoming)
	assert.Equal(t, 1, report.Summary.OversoldCount)
}

func TestBuildCategoryCaps(t *testing.T) {
	var results []*models.Opportunity
	for i := 0; i < 12; i++ {
		o := opp("T", float64(12-i))
		o.Momentum5d = 7
		results = append(results, o)
	}

	report := testAssembler().Build(12, results)

	assert.Len(t, report.TopPicks, 10)
	assert.Len(t, report.Categories.MomentumPlays, 5)
	assert.Len(t, report.AllResults, 12)
}

func TestBuildEarningsCalendar(t *testing.T) {
	tomorrow := withEarnings(opp("TMW", 5.0), 1)
	today := withEarnings(opp("TOD", 4.0), 0)
	nextWeek := withEarnings(opp("FAR", 3.0), 9)

	report := testAssembler().Build(3, []*models.Opportunity{tomorrow, today, nextWeek})

	require.Len(t, report.EarningsCalendar, 7)

	first := report.EarningsCalendar[0]
	assert.Equal(t, "2025-03-10", first.Date)
	assert.Equal(t, "Mon 03/10", first.Day)
	assert.True(t, first.IsToday)
	require.Len(t, first.Earnings, 1)
	assert.Equal(t, "TOD", first.Earnings[0].Ticker)

	second := report.EarningsCalendar[1]
	assert.Equal(t, "Tue 03/11", second.Day)
	assert.False(t, second.IsToday)
	require.Len(t, second.Earnings, 1)
	assert.Equal(t, "TMW", second.Earnings[0].Ticker)

	// Nine days out is beyond the calendar window.
	for _, day := range report.EarningsCalendar {
		for _, e := range day.Earnings {
			assert.NotEqual(t, "FAR", e.Ticker)
		}
	}
}

func TestBuildCarriesConfigAndDescriptions(t *testing.T) {
	report := testAssembler().Build(0, nil)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, 50.0, report.Config.MaxStockPrice)
	assert.Equal(t, 2.0, report.Config.MaxOptionPremium)
	assert.Equal(t, 2.0, report.Config.MinScore)
	assert.Equal(t, "7:00 PM HST tomorrow", report.NextUpdate)
	assert.Contains(t, report.Descriptions.Sections, "top_picks")
	assert.NotEmpty(t, report.Descriptions.ScoreGuide["6+"])
	assert.NotEmpty(t, report.Descriptions.EntryExit)
}
