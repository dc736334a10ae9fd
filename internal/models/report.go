package models

import "time"

// ConfigSnapshot records the filter settings a report was produced under.
type ConfigSnapshot struct {
	MaxStockPrice    float64 `json:"max_stock_price"`
	MaxOptionPremium float64 `json:"max_option_premium"`
	MinScore         float64 `json:"min_score"`
}

// Summary holds the headline counts for one run.
type Summary struct {
	TotalScanned       int `json:"total_scanned"`
	PassedFilters      int `json:"passed_filters"`
	OpportunitiesFound int `json:"opportunities_found"`
	EarningsUpcoming   int `json:"earnings_upcoming"`
	OversoldCount      int `json:"oversold_count"`
}

// CalendarEntry is one ticker reporting earnings on a calendar day.
type CalendarEntry struct {
	Ticker string  `json:"ticker"`
	Price  float64 `json:"price"`
	Score  float64 `json:"score"`
}

// CalendarDay is one day of the 7-day forward earnings calendar.
type CalendarDay struct {
	Date     string          `json:"date"` // YYYY-MM-DD
	Day      string          `json:"day"`  // "Mon 01/02"
	IsToday  bool            `json:"is_today"`
	Earnings []CalendarEntry `json:"earnings"`
}

// Categories partitions results into themed sub-lists, capped at 5 each.
type Categories struct {
	EarningsPlays []*Opportunity `json:"earnings_plays"`
	MomentumPlays []*Opportunity `json:"momentum_plays"`
	OversoldPlays []*Opportunity `json:"oversold_plays"`
}

// Descriptions is the static explanatory copy carried in every report so
// the dashboard can render it without hardcoding.
type Descriptions struct {
	ScoreGuide map[string]string `json:"score_guide"`
	Sections   map[string]string `json:"sections"`
	EntryExit  string            `json:"entry_exit"`
}

// Report is the full output document of one run. Immutable once written;
// the report store keeps only the latest.
type Report struct {
	RunID            string         `json:"run_id"`
	GeneratedAt      time.Time      `json:"generated_at"`
	NextUpdate       string         `json:"next_update"`
	Config           ConfigSnapshot `json:"config"`
	Descriptions     Descriptions   `json:"descriptions"`
	Summary          Summary        `json:"summary"`
	TopPicks         []*Opportunity `json:"top_picks"`
	Categories       Categories     `json:"categories"`
	EarningsCalendar []CalendarDay  `json:"earnings_calendar"`
	AllResults       []*Opportunity `json:"all_results"`
}
