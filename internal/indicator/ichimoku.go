package indicator

// Ichimoku lookback periods and forward displacement (standard settings).
const (
	tenkanPeriod = 9
	kijunPeriod  = 26
	spanBPeriod  = 52
	displacement = 26
)

// midpoint returns (highestHigh + lowestLow)/2 over the trailing window
// ending at i (inclusive).
func midpoint(highs, lows []float64, i, period int) float64 {
	hh := highs[i]
	ll := lows[i]
	for j := i - period + 1; j < i; j++ {
		if highs[j] > hh {
			hh = highs[j]
		}
		if lows[j] < ll {
			ll = lows[j]
		}
	}
	return (hh + ll) / 2
}

// Ichimoku calculates the tenkan/kijun conversion lines and the two leading
// spans. Spans are projected forward by the standard displacement: the value
// stored at index i is the cloud boundary in effect at bar i, computed from
// bar i−displacement.
func Ichimoku(highs, lows []float64) (tenkan, kijun, spanA, spanB []float64) {
	n := len(highs)
	tenkan = nans(n)
	kijun = nans(n)
	spanA = nans(n)
	spanB = nans(n)

	for i := tenkanPeriod - 1; i < n; i++ {
		tenkan[i] = midpoint(highs, lows, i, tenkanPeriod)
	}
	for i := kijunPeriod - 1; i < n; i++ {
		kijun[i] = midpoint(highs, lows, i, kijunPeriod)
	}

	for i := kijunPeriod - 1; i < n; i++ {
		if i+displacement < n {
			spanA[i+displacement] = (tenkan[i] + kijun[i]) / 2
		}
	}
	for i := spanBPeriod - 1; i < n; i++ {
		if i+displacement < n {
			spanB[i+displacement] = midpoint(highs, lows, i, spanBPeriod)
		}
	}
	return tenkan, kijun, spanA, spanB
}
