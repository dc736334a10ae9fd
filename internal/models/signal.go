package models

// Trend classifies price relative to its short moving averages.
type Trend string

const (
	TrendBullish Trend = "bullish"
	TrendBearish Trend = "bearish"
	TrendNeutral Trend = "neutral"
)

// NewsItem is one headline kept on a signal.
type NewsItem struct {
	Title     string `json:"title"`
	Publisher string `json:"publisher"`
	Link      string `json:"link"`
}

// TickerSignal holds one ticker's derived state for a single run.
// It is immutable after extraction except for Sentiment, which the
// enrichment stage overwrites at most once.
type TickerSignal struct {
	Ticker         string           `json:"ticker"`
	Price          float64          `json:"price"`
	ChangePct      float64          `json:"change_pct"`
	Volume         int64            `json:"volume"`
	VolSurge       float64          `json:"vol_surge"`
	Momentum5d     float64          `json:"momentum_5d"`
	RSI            *float64         `json:"rsi"`
	Trend          Trend            `json:"trend"`
	Support        float64          `json:"support"`
	Resistance     float64          `json:"resistance"`
	EarningsDate   *string          `json:"earnings_date"`
	DaysToEarnings *int             `json:"days_to_earnings"`
	Options        *OptionsSnapshot `json:"options"`
	News           []NewsItem       `json:"news"`
	Sentiment      Sentiment        `json:"ai_sentiment"`
}

// Headlines returns the non-empty titles of the signal's news items.
func (s *TickerSignal) Headlines() []string {
	var out []string
	for _, n := range s.News {
		if n.Title != "" {
			out = append(out, n.Title)
		}
	}
	return out
}
