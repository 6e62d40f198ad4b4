package indicator

import "math"

// BollingerBands calculates the rolling mean band ± mult × rolling
// population standard deviation.
func BollingerBands(prices []float64, period int, mult float64) (upper, middle, lower []float64) {
	n := len(prices)
	upper = nans(n)
	middle = nans(n)
	lower = nans(n)
	if period <= 0 || n < period {
		return upper, middle, lower
	}

	for i := period - 1; i < n; i++ {
		window := prices[i-period+1 : i+1]
		mean := 0.0
		for _, v := range window {
			mean += v
		}
		mean /= float64(period)

		variance := 0.0
		for _, v := range window {
			d := v - mean
			variance += d * d
		}
		sd := math.Sqrt(variance / float64(period))

		middle[i] = mean
		upper[i] = mean + mult*sd
		lower[i] = mean - mult*sd
	}
	return upper, middle, lower
}
