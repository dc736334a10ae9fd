// Package score turns a ticker signal into an opportunity score with
// ordered reason tags, and derives a directional trade idea from it. Both
// are pure functions of their inputs.
package score

import (
	"fmt"
	"math"

	"github.com/pi5dash/evescan/internal/models"
)

// Score applies the fixed weighted rules to a signal. Reasons come back in
// rule-evaluation order: earnings, volume, momentum, RSI, IV, affordable
// options, sentiment.
func Score(sig *models.TickerSignal) (float64, []string) {
	total := 0.0
	var reasons []string

	if sig.DaysToEarnings != nil {
		d := *sig.DaysToEarnings
		switch {
		case d >= 1 && d <= 3:
			total += 3
			reasons = append(reasons, fmt.Sprintf("⚡ Earnings in %dd", d))
		case d >= 4 && d <= 7:
			total += 2
			reasons = append(reasons, fmt.Sprintf("📅 Earnings in %dd", d))
		case d == 0:
			total += 1
			reasons = append(reasons, "📅 Earnings today")
		}
	}

	switch {
	case sig.VolSurge >= 2:
		total += 2
		reasons = append(reasons, fmt.Sprintf("📊 Volume %.1fx", sig.VolSurge))
	case sig.VolSurge >= 1.5:
		total += 1
		reasons = append(reasons, fmt.Sprintf("📊 Volume %.1fx", sig.VolSurge))
	}

	mom := sig.Momentum5d
	switch {
	case math.Abs(mom) >= 10:
		total += 2
		reasons = append(reasons, fmt.Sprintf("%s %.1f%% move", upDown(mom, "🚀", "📉"), math.Abs(mom)))
	case math.Abs(mom) >= 5:
		total += 1
		reasons = append(reasons, fmt.Sprintf("%s %.1f%% move", upDown(mom, "📈", "📉"), math.Abs(mom)))
	}

	if sig.RSI != nil {
		rsi := *sig.RSI
		switch {
		case rsi >= 70:
			total += 1
			reasons = append(reasons, fmt.Sprintf("🔥 Overbought RSI %.0f", rsi))
		case rsi <= 30:
			// Oversold is often the better opportunity
			total += 1.5
			reasons = append(reasons, fmt.Sprintf("💎 Oversold RSI %.0f", rsi))
		}
	}

	if opt := sig.Options; opt != nil {
		switch {
		case opt.IVAvg >= 80:
			total += 1
			reasons = append(reasons, fmt.Sprintf("🌡️ High IV %.0f%%", opt.IVAvg))
		case opt.IVAvg > 0 && opt.IVAvg <= 30:
			// Low IV = cheap options
			total += 1.5
			reasons = append(reasons, fmt.Sprintf("💰 Low IV %.0f%%", opt.IVAvg))
		}

		if opt.CallSuggestion != nil || opt.PutSuggestion != nil {
			total += 0.5
			reasons = append(reasons, "✅ Affordable options")
		}
	}

	if bonus, reason, ok := SentimentContribution(sig.Sentiment); ok {
		total += bonus
		reasons = append(reasons, reason)
	}

	return total, reasons
}

// SentimentContribution returns the sentiment rule's bonus and reason tag.
// The enrichment stage re-applies this rule additively after overwriting a
// signal's sentiment.
func SentimentContribution(sent models.Sentiment) (float64, string, bool) {
	abs := math.Abs(sent.Score)
	marker := upDown(sent.Score, "🟢", "🔴")
	switch {
	case abs >= 3:
		summary := "Strong signal"
		if sent.Summary != nil && *sent.Summary != "" {
			summary = truncate(*sent.Summary, 30)
		}
		return 1.5, fmt.Sprintf("%s AI: %s", marker, summary), true
	case abs >= 2:
		return 1, fmt.Sprintf("%s AI sentiment", marker), true
	default:
		return 0, "", false
	}
}

func upDown(v float64, up, down string) string {
	if v > 0 {
		return up
	}
	return down
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
