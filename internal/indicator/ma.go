package indicator

// EMA calculates the Exponential Moving Average.
//
// The seed at index period-1 is the simple average of the first period
// values; subsequent values follow
// ema[i] = (price[i]-ema[i-1])·k + ema[i-1] with k = 2/(period+1).
// Returns an all-NaN array when len(prices) < period.
func EMA(prices []float64, period int) []float64 {
	out := nans(len(prices))
	if period <= 0 || len(prices) < period {
		return out
	}

	k := 2.0 / float64(period+1)

	sum := 0.0
	for i := 0; i < period; i++ {
		sum += prices[i]
	}
	out[period-1] = sum / float64(period)

	for i := period; i < len(prices); i++ {
		out[i] = (prices[i]-out[i-1])*k + out[i-1]
	}
	return out
}

// SMA calculates the Simple Moving Average over a trailing window.
// Rolling sum, O(n) for the whole column.
func SMA(prices []float64, period int) []float64 {
	out := nans(len(prices))
	if period <= 0 || len(prices) < period {
		return out
	}

	sum := 0.0
	for i, p := range prices {
		sum += p
		if i >= period {
			sum -= prices[i-period]
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		}
	}
	return out
}
