package indicator

// ADX calculates the Average Directional Index with +DI/−DI.
//
// Directional movement per bar: only the larger of the up-move (high delta)
// and down-move (low delta) counts, and only when positive. TR, +DM and −DM
// are Wilder-smoothed with the running-sum adjustment
// smoothed = smoothed − smoothed/period + new. DX is Wilder-smoothed into
// ADX, seeded at the first computable DX. Output bounded to [0,100].
func ADX(highs, lows, closes []float64, period int) (adx, plusDI, minusDI []float64) {
	n := len(closes)
	adx = nans(n)
	plusDI = nans(n)
	minusDI = nans(n)
	if period <= 0 || n < period+1 {
		return adx, plusDI, minusDI
	}

	var smTR, smPlusDM, smMinusDM float64
	p := float64(period)

	dm := func(i int) (tr, plusDM, minusDM float64) {
		upMove := highs[i] - highs[i-1]
		downMove := lows[i-1] - lows[i]
		if upMove > downMove && upMove > 0 {
			plusDM = upMove
		}
		if downMove > upMove && downMove > 0 {
			minusDM = downMove
		}
		return trueRange(highs[i], lows[i], closes[i-1]), plusDM, minusDM
	}

	for i := 1; i <= period; i++ {
		tr, pd, md := dm(i)
		smTR += tr
		smPlusDM += pd
		smMinusDM += md
	}

	var prevADX float64
	adxSeeded := false

	for i := period; i < n; i++ {
		if i > period {
			tr, pd, md := dm(i)
			smTR = smTR - smTR/p + tr
			smPlusDM = smPlusDM - smPlusDM/p + pd
			smMinusDM = smMinusDM - smMinusDM/p + md
		}

		if smTR == 0 {
			plusDI[i] = 0
			minusDI[i] = 0
		} else {
			plusDI[i] = smPlusDM / smTR * 100
			minusDI[i] = smMinusDM / smTR * 100
		}

		diSum := plusDI[i] + minusDI[i]
		dx := 0.0
		if diSum > 0 {
			diff := plusDI[i] - minusDI[i]
			if diff < 0 {
				diff = -diff
			}
			dx = diff / diSum * 100
		}

		if !adxSeeded {
			prevADX = dx
			adxSeeded = true
		} else {
			prevADX = (prevADX*(p-1) + dx) / p
		}
		adx[i] = prevADX
	}
	return adx, plusDI, minusDI
}
