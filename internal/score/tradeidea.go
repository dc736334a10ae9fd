package score

import (
	"fmt"
	"math"

	"github.com/pi5dash/evescan/internal/models"
)

// GenerateTradeIdea derives direction, expiry framing, and entry/exit
// levels from a signal and its reasons. Recomputed whole whenever score or
// sentiment change.
func GenerateTradeIdea(sig *models.TickerSignal, reasons []string) models.TradeIdea {
	direction, bias := voteDirection(sig)

	idea := models.TradeIdea{
		Direction: direction,
		Bias:      bias,
		Expiry:    expiryText(sig),
		Reasons:   append([]string(nil), reasons...),
		EntryExit: entryExit(sig, direction),
	}

	if opt := sig.Options; opt != nil {
		if direction == models.DirectionCall {
			idea.SuggestedOption = opt.CallSuggestion
		} else {
			idea.SuggestedOption = opt.PutSuggestion
		}
	}

	return idea
}

// voteDirection tallies one bullish or bearish vote each from momentum,
// trend, sentiment sign, and RSI extremes. Ties (including zero votes)
// fall to a straddle.
func voteDirection(sig *models.TickerSignal) (models.Direction, models.Trend) {
	bullish, bearish := 0, 0

	if sig.Momentum5d > 3 {
		bullish++
	} else if sig.Momentum5d < -3 {
		bearish++
	}

	switch sig.Trend {
	case models.TrendBullish:
		bullish++
	case models.TrendBearish:
		bearish++
	}

	if sig.Sentiment.Score > 0 {
		bullish++
	} else if sig.Sentiment.Score < 0 {
		bearish++
	}

	if sig.RSI != nil {
		if *sig.RSI < 35 {
			bullish++
		} else if *sig.RSI > 65 {
			bearish++
		}
	}

	switch {
	case bullish > bearish:
		return models.DirectionCall, models.TrendBullish
	case bearish > bullish:
		return models.DirectionPut, models.TrendBearish
	default:
		return models.DirectionStraddle, models.TrendNeutral
	}
}

// expiryText prefers a through-earnings framing, then the selected chain
// expiration, then a generic window.
func expiryText(sig *models.TickerSignal) string {
	if sig.DaysToEarnings != nil && sig.EarningsDate != nil {
		if d := *sig.DaysToEarnings; d >= 1 && d <= 7 {
			return fmt.Sprintf("Through earnings (%s)", *sig.EarningsDate)
		}
	}
	if sig.Options != nil {
		return fmt.Sprintf("%s (%d DTE)", sig.Options.Expiration, sig.Options.DTE)
	}
	return "1-2 weeks out"
}

// entryExit derives limit-order levels from the expected move. Without an
// options snapshot the expected move defaults to 5%.
func entryExit(sig *models.TickerSignal, direction models.Direction) models.EntryExit {
	price := sig.Price
	expectedMove := 5.0
	if sig.Options != nil {
		expectedMove = sig.Options.ExpectedMovePct
	}
	rsi := 50.0
	if sig.RSI != nil {
		rsi = *sig.RSI
	}

	var entryPct, targetPct, stopPct float64
	switch direction {
	case models.DirectionCall:
		// Buy the dip, take profit into the expected move
		entryPct = -0.5
		if rsi > 50 {
			entryPct = -1.5
		}
		targetPct = expectedMove * 0.7
		stopPct = -expectedMove * 0.5
	case models.DirectionPut:
		// Enter on a bounce, profit on the drop
		entryPct = 0.5
		if rsi < 50 {
			entryPct = 1.5
		}
		targetPct = -expectedMove * 0.7
		stopPct = expectedMove * 0.5
	default: // STRADDLE
		return models.EntryExit{
			Direction:    direction,
			StockEntry:   price,
			StockTarget:  roundTo(price*(1+expectedMove/100), 2),
			StockStop:    roundTo(price*(1-expectedMove/200), 2),
			OptionEntry:  "At or below suggested premium",
			OptionTarget: "50-100% gain on premium",
			OptionStop:   "50% loss on premium",
		}
	}

	return models.EntryExit{
		Direction:    direction,
		StockEntry:   roundTo(price*(1+entryPct/100), 2),
		StockTarget:  roundTo(price*(1+targetPct/100), 2),
		StockStop:    roundTo(price*(1+stopPct/100), 2),
		OptionEntry:  "At or below suggested premium",
		OptionTarget: "50-100% gain on premium",
		OptionStop:   "50% loss on premium",
	}
}

func roundTo(v float64, places int) float64 {
	shift := math.Pow(10, float64(places))
	return math.Round(v*shift) / shift
}
