package indicator

// epsilon substitutes for a zero average loss so RSI never divides by zero.
const epsilon = 1e-10

// RSI calculates the Relative Strength Index using Wilder's smoothing.
//
// The initial average gain/loss is the simple mean of up/down moves over the
// first period changes; each later bar updates
// avgGain = (avgGain·(period-1) + gain)/period (same for loss).
// Output is bounded to [0,100] by construction.
func RSI(prices []float64, period int) []float64 {
	out := nans(len(prices))
	if period <= 0 || len(prices) < period+1 {
		return out
	}

	avgGain := 0.0
	avgLoss := 0.0
	for i := 1; i <= period; i++ {
		delta := prices[i] - prices[i-1]
		if delta > 0 {
			avgGain += delta
		} else {
			avgLoss -= delta
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	out[period] = rsiValue(avgGain, avgLoss)

	n := float64(period)
	for i := period + 1; i < len(prices); i++ {
		delta := prices[i] - prices[i-1]
		gain := 0.0
		loss := 0.0
		if delta > 0 {
			gain = delta
		} else {
			loss = -delta
		}
		avgGain = (avgGain*(n-1) + gain) / n
		avgLoss = (avgLoss*(n-1) + loss) / n
		out[i] = rsiValue(avgGain, avgLoss)
	}
	return out
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		avgLoss = epsilon
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}
