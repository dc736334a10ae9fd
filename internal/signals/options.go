package signals

import (
	"math"
	"sort"
	"time"

	"github.com/pi5dash/evescan/internal/market"
	"github.com/pi5dash/evescan/internal/models"
)

const dateLayout = "2006-01-02"

// SelectExpiration picks the target expiration from the first five listed
// dates: a weekly 5-10 days out wins, else the nearest future date.
// Returns "" when no expiration lies in the future.
func SelectExpiration(expirations []string, today time.Time) string {
	var nearest, weekly string

	limit := len(expirations)
	if limit > 5 {
		limit = 5
	}
	for _, expStr := range expirations[:limit] {
		expDate, err := time.Parse(dateLayout, expStr)
		if err != nil {
			continue
		}
		daysOut := daysBetween(today, expDate)
		if daysOut < 1 {
			continue
		}
		if nearest == "" {
			nearest = expStr
		}
		if weekly == "" && daysOut >= 5 && daysOut <= 10 {
			weekly = expStr
		}
	}

	if weekly != "" {
		return weekly
	}
	return nearest
}

// OptionsSnapshot derives IV, expected move, and affordable strike
// suggestions from one expiration's chain. Returns nil when either side of
// the chain is empty.
func OptionsSnapshot(chain *market.Chain, price float64, expiration string, today time.Time, maxPremium float64) *models.OptionsSnapshot {
	if chain == nil || len(chain.Calls) == 0 || len(chain.Puts) == 0 {
		return nil
	}

	expDate, err := time.Parse(dateLayout, expiration)
	if err != nil {
		return nil
	}
	dte := daysBetween(today, expDate)

	atmStrike := math.Round(price)
	callATM := nearestStrike(chain.Calls, atmStrike)
	putATM := nearestStrike(chain.Puts, atmStrike)

	avgIV := (callATM.ImpliedVolatility + putATM.ImpliedVolatility) / 2

	// Expected move = price x IV x sqrt(DTE/365)
	expectedMovePct := avgIV * math.Sqrt(float64(dte)/365) * 100
	expectedMoveDollars := price * expectedMovePct / 100

	atmCall := round2(callATM.LastPrice)
	atmPut := round2(putATM.LastPrice)

	return &models.OptionsSnapshot{
		Expiration:          expiration,
		DTE:                 dte,
		IVAvg:               round1(avgIV * 100),
		ExpectedMovePct:     round1(expectedMovePct),
		ExpectedMoveDollars: round2(expectedMoveDollars),
		CallSuggestion:      suggestCall(chain.Calls, price, maxPremium),
		PutSuggestion:       suggestPut(chain.Puts, price, maxPremium),
		ATMCallPrice:        &atmCall,
		ATMPutPrice:         &atmPut,
	}
}

// suggestCall picks the lowest affordable strike at or above the market:
// the first slightly-OTM call under the premium cap.
func suggestCall(calls []market.ChainQuote, price, maxPremium float64) *models.StrikeSuggestion {
	affordable := filterAffordable(calls, maxPremium)
	sort.Slice(affordable, func(i, j int) bool { return affordable[i].Strike < affordable[j].Strike })
	for _, q := range affordable {
		if q.Strike >= price {
			return toSuggestion(q, q.Strike+q.LastPrice)
		}
	}
	return nil
}

// suggestPut mirrors suggestCall: the highest affordable strike at or
// below the market.
func suggestPut(puts []market.ChainQuote, price, maxPremium float64) *models.StrikeSuggestion {
	affordable := filterAffordable(puts, maxPremium)
	sort.Slice(affordable, func(i, j int) bool { return affordable[i].Strike > affordable[j].Strike })
	for _, q := range affordable {
		if q.Strike <= price {
			return toSuggestion(q, q.Strike-q.LastPrice)
		}
	}
	return nil
}

func filterAffordable(quotes []market.ChainQuote, maxPremium float64) []market.ChainQuote {
	out := make([]market.ChainQuote, 0, len(quotes))
	for _, q := range quotes {
		if q.LastPrice <= maxPremium {
			out = append(out, q)
		}
	}
	return out
}

func toSuggestion(q market.ChainQuote, breakEven float64) *models.StrikeSuggestion {
	return &models.StrikeSuggestion{
		Strike:       q.Strike,
		Premium:      round2(q.LastPrice),
		IV:           round1(q.ImpliedVolatility * 100),
		Volume:       q.Volume,
		OpenInterest: q.OpenInterest,
		BreakEven:    round2(breakEven),
	}
}

func nearestStrike(quotes []market.ChainQuote, target float64) market.ChainQuote {
	best := quotes[0]
	bestDist := math.Abs(best.Strike - target)
	for _, q := range quotes[1:] {
		if d := math.Abs(q.Strike - target); d < bestDist {
			best, bestDist = q, d
		}
	}
	return best
}

// daysBetween counts whole days from a to b, flooring partial days the
// way an end-of-day run expects.
func daysBetween(a, b time.Time) int {
	return int(math.Floor(b.Sub(a).Hours() / 24))
}
