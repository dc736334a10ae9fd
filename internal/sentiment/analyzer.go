package sentiment

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pi5dash/evescan/internal/models"
	"github.com/pi5dash/evescan/internal/score"
)

// Analyzer applies AI sentiment to scan results. Calls are serialized and
// spaced out by a fixed delay so a burst of tickers does not trip provider
// rate limits.
type Analyzer struct {
	client *Client

	topN     int
	delay    time.Duration
	forceAll bool
	enabled  bool
	sleep    func(context.Context, time.Duration) error
}

// AnalyzerConfig tunes the enrichment stage.
type AnalyzerConfig struct {
	TopN     int
	Delay    time.Duration
	ForceAll bool
	Enabled  bool
}

// NewAnalyzer wires a completion client into an enrichment stage.
func NewAnalyzer(client *Client, cfg AnalyzerConfig) *Analyzer {
	if cfg.TopN <= 0 {
		cfg.TopN = 5
	}
	return &Analyzer{
		client:   client,
		topN:     cfg.TopN,
		delay:    cfg.Delay,
		forceAll: cfg.ForceAll,
		enabled:  cfg.Enabled,
		sleep:    sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// EnrichTop runs sentiment analysis over the leading results, folds the
// sentiment bonus into their scores and regenerates their trade ideas.
// Results must already be sorted by score descending. Per-ticker failures
// are logged and leave the default pending sentiment in place.
func (a *Analyzer) EnrichTop(ctx context.Context, results []*models.Opportunity) {
	if !a.enabled || !a.client.Configured() || len(results) == 0 {
		return
	}

	n := a.topN
	if a.forceAll {
		n = len(results)
	}
	if n > len(results) {
		n = len(results)
	}
	log.Info().Int("count", n).Msg("enriching top results with AI sentiment")

	for i := 0; i < n; i++ {
		r := results[i]
		headlines := r.Headlines()
		if len(headlines) == 0 {
			continue
		}

		sent, err := a.SentimentFor(ctx, r.Ticker, headlines)
		if err != nil {
			log.Warn().Err(err).Str("ticker", r.Ticker).Msg("sentiment analysis failed")
			continue
		}

		r.Sentiment = sent
		if bonus, reason, ok := score.SentimentContribution(sent); ok {
			r.Score += bonus
			r.Reasons = append(r.Reasons, reason)
		}
		r.TradeIdea = score.GenerateTradeIdea(&r.TickerSignal, r.Reasons)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
}

// SentimentFor scores the headline set for one ticker.
func (a *Analyzer) SentimentFor(ctx context.Context, ticker string, headlines []string) (models.Sentiment, error) {
	if err := a.sleep(ctx, a.delay); err != nil {
		return models.Sentiment{}, err
	}

	if len(headlines) > 5 {
		headlines = headlines[:5]
	}

	temp := 0.3
	raw, err := a.client.GenerateObject(ctx, sentimentPrompt(ticker, headlines), genOptions{
		maxOutputTokens: 600,
		temperature:     &temp,
	})
	if err != nil {
		return models.Sentiment{}, fmt.Errorf("sentiment for %s: %w", ticker, err)
	}

	var sent models.Sentiment
	if err := json.Unmarshal(raw, &sent); err != nil {
		return models.Sentiment{}, fmt.Errorf("sentiment for %s: decode: %w", ticker, err)
	}
	if sent.Confidence == "" {
		sent.Confidence = models.ConfidenceLow
	}
	return sent, nil
}

func sentimentPrompt(ticker string, headlines []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Analyze the sentiment of these recent news headlines for stock %s:\n\n", ticker)
	for i, h := range headlines {
		fmt.Fprintf(&b, "%d. %s\n", i+1, h)
	}
	b.WriteString(`
Respond with ONLY a JSON object, no other text:
{"score": <integer from -5 (very bearish) to +5 (very bullish)>, "summary": "<one sentence takeaway>", "confidence": "<low|medium|high>", "catalysts": ["<short catalyst>", ...]}`)
	return b.String()
}

// GenerateNarrative asks the model for a journal write-up of the run,
// built from the report's summary, top picks, and category lists.
func (a *Analyzer) GenerateNarrative(ctx context.Context, report *models.Report) (*models.Narrative, string, error) {
	if !a.enabled || !a.client.Configured() {
		return nil, "", nil
	}

	if err := a.sleep(ctx, a.delay); err != nil {
		return nil, "", err
	}

	prompt, err := narrativePrompt(report)
	if err != nil {
		return nil, "", fmt.Errorf("journal narrative: %w", err)
	}

	raw, err := a.client.GenerateObject(ctx, prompt, genOptions{
		maxOutputTokens: 700,
	})
	if err != nil {
		return nil, "", fmt.Errorf("journal narrative: %w", err)
	}

	var narrative models.Narrative
	if err := json.Unmarshal(raw, &narrative); err != nil {
		return nil, "", fmt.Errorf("journal narrative: decode: %w", err)
	}
	return &narrative, a.client.Model(), nil
}

type narrativePick struct {
	Ticker    string           `json:"ticker"`
	Price     float64          `json:"price"`
	Score     float64          `json:"score"`
	Direction models.Direction `json:"direction"`
	Reasons   []string         `json:"reasons"`
	Sentiment models.Sentiment `json:"ai_sentiment"`
}

type narrativeCategoryPick struct {
	Ticker         string           `json:"ticker"`
	DaysToEarnings *int             `json:"days_to_earnings,omitempty"`
	Momentum5d     *float64         `json:"momentum_5d,omitempty"`
	RSI            *float64         `json:"rsi,omitempty"`
	Direction      models.Direction `json:"direction"`
}

// narrativePrompt condenses the report into a scan-context JSON document
// the model writes against.
func narrativePrompt(report *models.Report) (string, error) {
	var picks []narrativePick
	for _, p := range limit(report.TopPicks, 5) {
		reasons := p.Reasons
		if len(reasons) > 6 {
			reasons = reasons[:6]
		}
		picks = append(picks, narrativePick{
			Ticker:    p.Ticker,
			Price:     p.Price,
			Score:     p.Score,
			Direction: p.TradeIdea.Direction,
			Reasons:   reasons,
			Sentiment: p.Sentiment,
		})
	}

	context := map[string]any{
		"generated_at": report.GeneratedAt,
		"summary":      report.Summary,
		"top_picks":    picks,
		"earnings_plays": categoryPicks(report.Categories.EarningsPlays, func(p *models.Opportunity, c *narrativeCategoryPick) {
			c.DaysToEarnings = p.DaysToEarnings
		}),
		"momentum_plays": categoryPicks(report.Categories.MomentumPlays, func(p *models.Opportunity, c *narrativeCategoryPick) {
			c.Momentum5d = &p.Momentum5d
		}),
		"oversold_plays": categoryPicks(report.Categories.OversoldPlays, func(p *models.Opportunity, c *narrativeCategoryPick) {
			c.RSI = p.RSI
		}),
	}

	data, err := json.Marshal(context)
	if err != nil {
		return "", fmt.Errorf("marshal scan context: %w", err)
	}

	return "Write a short daily research journal entry for my private stock/options dashboard. " +
		"Use the scan context JSON below. " +
		"Return valid JSON only (no markdown) with this schema:\n" +
		"{\n" +
		"  \"headline\": \"short headline\",\n" +
		"  \"tone\": \"bullish|bearish|mixed|neutral\",\n" +
		"  \"themes\": [\"theme 1\", \"theme 2\"],\n" +
		"  \"watchlist\": [{\"ticker\": \"AAPL\", \"direction\": \"CALL|PUT|NEUTRAL\", \"why\": \"one line\"}],\n" +
		"  \"notes\": \"2-5 sentences max, plain text\"\n" +
		"}\n\n" +
		"Scan context JSON:\n" + string(data), nil
}

func categoryPicks(list []*models.Opportunity, fill func(*models.Opportunity, *narrativeCategoryPick)) []narrativeCategoryPick {
	out := make([]narrativeCategoryPick, 0, len(list))
	for _, p := range limit(list, 5) {
		c := narrativeCategoryPick{Ticker: p.Ticker, Direction: p.TradeIdea.Direction}
		fill(p, &c)
		out = append(out, c)
	}
	return out
}

func limit(list []*models.Opportunity, n int) []*models.Opportunity {
	if len(list) > n {
		return list[:n]
	}
	return list
}
