package signals

import (
	"math"

	"github.com/pi5dash/evescan/internal/market"
	"github.com/pi5dash/evescan/internal/models"
)

const rsiPeriod = 14

// RSI computes the Relative Strength Index over the closing prices using a
// rolling mean of gains and losses. Returns nil when fewer than period+1
// closes are available.
func RSI(closes []float64, period int) *float64 {
	if len(closes) < period+1 {
		return nil
	}

	var gains, losses float64
	for i := len(closes) - period; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gains += delta
		} else {
			losses += -delta
		}
	}
	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)

	if avgLoss == 0 {
		if avgGain == 0 {
			return nil
		}
		v := 100.0
		return &v
	}

	rs := avgGain / avgLoss
	v := 100 - 100/(1+rs)
	return &v
}

// SMA averages the last n values, or all of them if fewer.
func SMA(values []float64, n int) float64 {
	if len(values) == 0 {
		return 0
	}
	if n > len(values) {
		n = len(values)
	}
	sum := 0.0
	for _, v := range values[len(values)-n:] {
		sum += v
	}
	return sum / float64(n)
}

// ClassifyTrend compares price against the 10- and 20-bar simple moving
// averages. With fewer than 20 bars SMA20 collapses to SMA10, which can
// never satisfy a strict inequality, so the trend stays neutral.
func ClassifyTrend(price float64, closes []float64) models.Trend {
	sma10 := SMA(closes, 10)
	sma20 := sma10
	if len(closes) >= 20 {
		sma20 = SMA(closes, 20)
	}
	switch {
	case price > sma10 && sma10 > sma20:
		return models.TrendBullish
	case price < sma10 && sma10 < sma20:
		return models.TrendBearish
	default:
		return models.TrendNeutral
	}
}

// Momentum5d is the percentage change against the close five bars back.
func Momentum5d(closes []float64) float64 {
	if len(closes) < 5 {
		return 0
	}
	base := closes[len(closes)-5]
	if base == 0 {
		return 0
	}
	return (closes[len(closes)-1] - base) / base * 100
}

// VolumeSurge is the latest volume over the mean volume of the window.
func VolumeSurge(bars []market.Bar) float64 {
	if len(bars) == 0 {
		return 1
	}
	var sum float64
	for _, b := range bars {
		sum += float64(b.Volume)
	}
	avg := sum / float64(len(bars))
	if avg == 0 {
		return 1
	}
	return float64(bars[len(bars)-1].Volume) / avg
}

// SupportResistance is the 10-bar rolling low and high.
func SupportResistance(bars []market.Bar) (support, resistance float64) {
	n := 10
	if n > len(bars) {
		n = len(bars)
	}
	window := bars[len(bars)-n:]
	support = window[0].Low
	resistance = window[0].High
	for _, b := range window[1:] {
		support = math.Min(support, b.Low)
		resistance = math.Max(resistance, b.High)
	}
	return support, resistance
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round1(v float64) float64 { return math.Round(v*10) / 10 }
