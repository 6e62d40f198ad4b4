package engine

// Trade forensics: post-hoc excursion stats from the high/low path between
// entry and exit (inclusive).

import "marketscanner-backtest/internal/model"

// Enrich attaches MFE/MAE to each trade, as a percentage of entry price.
// MFE is always >= 0 and MAE always <= 0; for shorts the sign convention
// flips (favorable = price falling below entry).
func Enrich(trades []model.Trade, bars []model.Bar) {
	for ti := range trades {
		t := &trades[ti]
		if t.EntryPrice <= 0 {
			continue
		}

		mfe := 0.0
		mae := 0.0
		for i := t.EntryBarIndex; i <= t.ExitBarIndex && i < len(bars); i++ {
			var favorable, adverse float64
			if t.Side == model.SideLong {
				favorable = (bars[i].High - t.EntryPrice) / t.EntryPrice * 100
				adverse = (bars[i].Low - t.EntryPrice) / t.EntryPrice * 100
			} else {
				favorable = (t.EntryPrice - bars[i].Low) / t.EntryPrice * 100
				adverse = (t.EntryPrice - bars[i].High) / t.EntryPrice * 100
			}
			if favorable > mfe {
				mfe = favorable
			}
			if adverse < mae {
				mae = adverse
			}
		}
		t.MFE = mfe
		t.MAE = mae
	}
}
