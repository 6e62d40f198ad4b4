package indicator

import "math"

// CCI calculates the Commodity Channel Index over typical price (H+L+C)/3:
// (TP − SMA(TP)) / (0.015 × meanAbsoluteDeviation(TP)), zero when the mean
// deviation is zero.
func CCI(highs, lows, closes []float64, period int) []float64 {
	n := len(closes)
	out := nans(n)
	if period <= 0 || n < period {
		return out
	}

	tp := make([]float64, n)
	for i := 0; i < n; i++ {
		tp[i] = (highs[i] + lows[i] + closes[i]) / 3
	}

	for i := period - 1; i < n; i++ {
		window := tp[i-period+1 : i+1]
		mean := 0.0
		for _, v := range window {
			mean += v
		}
		mean /= float64(period)

		meanDev := 0.0
		for _, v := range window {
			meanDev += math.Abs(v - mean)
		}
		meanDev /= float64(period)

		if meanDev == 0 {
			out[i] = 0
		} else {
			out[i] = (tp[i] - mean) / (0.015 * meanDev)
		}
	}
	return out
}
