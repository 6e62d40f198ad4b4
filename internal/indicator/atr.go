package indicator

import "math"

// trueRange computes max(high−low, |high−prevClose|, |low−prevClose|).
func trueRange(high, low, prevClose float64) float64 {
	tr := high - low
	if d := math.Abs(high - prevClose); d > tr {
		tr = d
	}
	if d := math.Abs(low - prevClose); d > tr {
		tr = d
	}
	return tr
}

// ATR calculates the Average True Range.
//
// The first ATR (at index period) is the simple mean of true range over the
// first period bars with a previous close; later bars use Wilder smoothing
// atr[i] = (atr[i-1]·(period-1) + tr[i])/period.
func ATR(highs, lows, closes []float64, period int) []float64 {
	n := len(closes)
	out := nans(n)
	if period <= 0 || n < period+1 {
		return out
	}

	sum := 0.0
	for i := 1; i <= period; i++ {
		sum += trueRange(highs[i], lows[i], closes[i-1])
	}
	out[period] = sum / float64(period)

	p := float64(period)
	for i := period + 1; i < n; i++ {
		tr := trueRange(highs[i], lows[i], closes[i-1])
		out[i] = (out[i-1]*(p-1) + tr) / p
	}
	return out
}
