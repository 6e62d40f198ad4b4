package indicator

// MACD calculates macd = EMA12 − EMA26, its EMA-9 signal line, and the
// histogram macd − signal.
//
// The signal line is the EMA-9 of the dense sequence of defined MACD values
// (EMA-warmup gaps removed before smoothing), then mapped back onto the
// original index positions. The dense index advances for every defined MACD
// value even while the signal itself is still warming up; otherwise the
// mapping drifts and histogram values land on the wrong bars.
func MACD(prices []float64) (macd, signal, hist []float64) {
	n := len(prices)
	macd = nans(n)
	signal = nans(n)
	hist = nans(n)

	ema12 := EMA(prices, 12)
	ema26 := EMA(prices, 26)

	dense := make([]float64, 0, n)
	positions := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if Defined(ema12[i]) && Defined(ema26[i]) {
			macd[i] = ema12[i] - ema26[i]
			dense = append(dense, macd[i])
			positions = append(positions, i)
		}
	}

	denseSignal := EMA(dense, 9)
	for j, pos := range positions {
		if Defined(denseSignal[j]) {
			signal[pos] = denseSignal[j]
			hist[pos] = macd[pos] - signal[pos]
		}
	}
	return macd, signal, hist
}
