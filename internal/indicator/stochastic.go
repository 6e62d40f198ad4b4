package indicator

// Stochastic calculates the %K/%D oscillator.
//
// %K = (close − lowestLow)/(highestHigh − lowestLow) × 100 over the trailing
// kPeriod window, fixed at 50 when the range is zero. %D is the SMA of %K
// over dPeriod, aligned so its warmup follows %K's.
func Stochastic(highs, lows, closes []float64, kPeriod, dPeriod int) (k, d []float64) {
	n := len(closes)
	k = nans(n)
	d = nans(n)
	if kPeriod <= 0 || n < kPeriod {
		return k, d
	}

	for i := kPeriod - 1; i < n; i++ {
		hh := highs[i]
		ll := lows[i]
		for j := i - kPeriod + 1; j < i; j++ {
			if highs[j] > hh {
				hh = highs[j]
			}
			if lows[j] < ll {
				ll = lows[j]
			}
		}
		if hh == ll {
			k[i] = 50
		} else {
			k[i] = (closes[i] - ll) / (hh - ll) * 100
		}
	}

	// %D: SMA of the defined %K values, mapped back onto bar indices.
	for i := kPeriod - 1 + dPeriod - 1; i < n; i++ {
		sum := 0.0
		for j := i - dPeriod + 1; j <= i; j++ {
			sum += k[j]
		}
		d[i] = sum / float64(dPeriod)
	}
	return k, d
}
