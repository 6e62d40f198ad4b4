package registry

import (
	"marketscanner-backtest/internal/indicator"
	"marketscanner-backtest/internal/model"
	"marketscanner-backtest/internal/timeframe"
)

// ────────────────────────────────────────────────────────────
// Rule helpers
// ────────────────────────────────────────────────────────────

func def(vs ...float64) bool {
	for _, v := range vs {
		if !indicator.Defined(v) {
			return false
		}
	}
	return true
}

// crossAbove fires when a crosses above b between bars i-1 and i.
// All four values must be defined.
func crossAbove(a, b []float64, i int) bool {
	if i < 1 || !def(a[i-1], b[i-1], a[i], b[i]) {
		return false
	}
	return a[i-1] <= b[i-1] && a[i] > b[i]
}

func crossBelow(a, b []float64, i int) bool {
	if i < 1 || !def(a[i-1], b[i-1], a[i], b[i]) {
		return false
	}
	return a[i-1] >= b[i-1] && a[i] < b[i]
}

// crossUpLevel fires when a rises through a fixed level.
func crossUpLevel(a []float64, level float64, i int) bool {
	if i < 1 || !def(a[i-1], a[i]) {
		return false
	}
	return a[i-1] <= level && a[i] > level
}

func crossDownLevel(a []float64, level float64, i int) bool {
	if i < 1 || !def(a[i-1], a[i]) {
		return false
	}
	return a[i-1] >= level && a[i] < level
}

// leavesZone fires when a climbs back out of a zone below the level
// (e.g. RSI recovering from oversold).
func leavesZone(a []float64, level float64, i int) bool {
	if i < 1 || !def(a[i-1], a[i]) {
		return false
	}
	return a[i-1] < level && a[i] >= level
}

func above(a []float64, v float64, i int) bool {
	return def(a[i]) && a[i] > v
}

func below(a []float64, v float64, i int) bool {
	return def(a[i]) && a[i] < v
}

func closes(c Ctx) float64 { return c.Bars[c.I].Close }

// highestHigh returns the maximum high over the lookback bars before i.
func highestHigh(bars []model.Bar, i, lookback int) float64 {
	hh := bars[i-1].High
	for j := i - lookback; j < i; j++ {
		if j >= 0 && bars[j].High > hh {
			hh = bars[j].High
		}
	}
	return hh
}

func lowestLow(bars []model.Bar, i, lookback int) float64 {
	ll := bars[i-1].Low
	for j := i - lookback; j < i; j++ {
		if j >= 0 && bars[j].Low < ll {
			ll = bars[j].Low
		}
	}
	return ll
}

// cloudTop/cloudBottom are the Ichimoku cloud boundaries at i.
func cloudTop(ind *indicator.Set, i int) (float64, bool) {
	if !def(ind.SpanA[i], ind.SpanB[i]) {
		return 0, false
	}
	if ind.SpanA[i] > ind.SpanB[i] {
		return ind.SpanA[i], true
	}
	return ind.SpanB[i], true
}

func cloudBottom(ind *indicator.Set, i int) (float64, bool) {
	if !def(ind.SpanA[i], ind.SpanB[i]) {
		return 0, false
	}
	if ind.SpanA[i] < ind.SpanB[i] {
		return ind.SpanA[i], true
	}
	return ind.SpanB[i], true
}

// confluenceScore counts how many bullish conditions hold at i.
func confluenceScore(c Ctx) int {
	ind := c.Ind
	i := c.I
	price := closes(c)
	score := 0
	if def(ind.EMA21[i]) && price > ind.EMA21[i] {
		score++
	}
	if def(ind.EMA21[i], ind.EMA55[i]) && ind.EMA21[i] > ind.EMA55[i] {
		score++
	}
	if above(ind.RSI14, 50, i) {
		score++
	}
	if def(ind.MACD[i], ind.MACDSignal[i]) && ind.MACD[i] > ind.MACDSignal[i] {
		score++
	}
	if def(ind.BBMiddle[i]) && price > ind.BBMiddle[i] {
		score++
	}
	return score
}

// ────────────────────────────────────────────────────────────
// Catalog
// ────────────────────────────────────────────────────────────

var (
	bothTF     = timeframe.Support{Daily: true, Intraday: true}
	dailyOnly  = timeframe.Support{Daily: true}
	intradayTF = timeframe.Support{Intraday: true}
)

func trend(id, name string, entry, exit Rule) Spec {
	return Spec{
		ID: id, Name: name, Family: FamilyDefault, Support: bothTF,
		Direction: model.SideLong,
		StopATR:   2.0, TargetATR: 3.0, TimeoutBars: 20,
		Entry: entry, Exit: exit,
	}
}

func scalp(id, name string, entry, exit Rule) Spec {
	return Spec{
		ID: id, Name: name, Family: FamilyScalp, Support: intradayTF,
		Direction: model.SideLong,
		StopATR:   1.0, TargetATR: 1.5, TimeoutBars: 10,
		Entry: entry, Exit: exit,
	}
}

func swing(id, name string, entry, exit Rule) Spec {
	return Spec{
		ID: id, Name: name, Family: FamilySwing, Support: bothTF,
		Direction: model.SideLong,
		StopATR:   2.5, TargetATR: 4.0, TimeoutBars: 30,
		Entry: entry, Exit: exit,
	}
}

func longterm(id, name string, entry, exit Rule) Spec {
	return Spec{
		ID: id, Name: name, Family: FamilyLongTerm, Support: dailyOnly,
		Direction: model.SideLong,
		StopATR:   3.0, TargetATR: 5.0, TimeoutBars: 60,
		Entry: entry, Exit: exit,
	}
}

func replayOnly(id, name string) Spec {
	return Spec{
		ID: id, Name: name, Family: FamilyDefault, Support: bothTF,
		Direction: model.SideLong, SignalReplay: true,
	}
}

func init() {
	// ── default family ──
	register(trend("ema_crossover", "EMA 9/21 Crossover",
		func(c Ctx) bool { return crossAbove(c.Ind.EMA9, c.Ind.EMA21, c.I) },
		func(c Ctx) bool { return crossBelow(c.Ind.EMA9, c.Ind.EMA21, c.I) }))

	register(trend("sma_trend", "SMA 50 Trend",
		func(c Ctx) bool {
			return c.I >= 1 && def(c.Ind.SMA50[c.I-1], c.Ind.SMA50[c.I]) &&
				c.Bars[c.I-1].Close <= c.Ind.SMA50[c.I-1] && closes(c) > c.Ind.SMA50[c.I]
		},
		func(c Ctx) bool { return def(c.Ind.SMA50[c.I]) && closes(c) < c.Ind.SMA50[c.I] }))

	register(trend("macd_signal", "MACD Signal Cross",
		func(c Ctx) bool { return crossAbove(c.Ind.MACD, c.Ind.MACDSignal, c.I) },
		func(c Ctx) bool { return crossBelow(c.Ind.MACD, c.Ind.MACDSignal, c.I) }))

	register(trend("macd_zero", "MACD Zero-Line Cross",
		func(c Ctx) bool { return crossUpLevel(c.Ind.MACD, 0, c.I) },
		func(c Ctx) bool { return crossDownLevel(c.Ind.MACD, 0, c.I) }))

	register(trend("rsi_reversal", "RSI Oversold Reversal",
		func(c Ctx) bool { return leavesZone(c.Ind.RSI14, 30, c.I) },
		func(c Ctx) bool { return above(c.Ind.RSI14, 70, c.I) }))

	shortRSI := trend("rsi_overbought_short", "RSI Overbought Short",
		func(c Ctx) bool {
			return c.I >= 1 && def(c.Ind.RSI14[c.I-1], c.Ind.RSI14[c.I]) &&
				c.Ind.RSI14[c.I-1] > 70 && c.Ind.RSI14[c.I] <= 70
		},
		func(c Ctx) bool { return below(c.Ind.RSI14, 30, c.I) })
	shortRSI.Direction = model.SideShort
	register(shortRSI)

	register(trend("bollinger_breakout", "Bollinger Breakout",
		func(c Ctx) bool {
			return c.I >= 1 && def(c.Ind.BBUpper[c.I-1], c.Ind.BBUpper[c.I]) &&
				c.Bars[c.I-1].Close <= c.Ind.BBUpper[c.I-1] && closes(c) > c.Ind.BBUpper[c.I]
		},
		func(c Ctx) bool { return def(c.Ind.BBMiddle[c.I]) && closes(c) < c.Ind.BBMiddle[c.I] }))

	register(trend("bollinger_reversion", "Bollinger Band Reversion",
		func(c Ctx) bool {
			return c.I >= 1 && def(c.Ind.BBLower[c.I-1], c.Ind.BBLower[c.I]) &&
				c.Bars[c.I-1].Close < c.Ind.BBLower[c.I-1] && closes(c) > c.Ind.BBLower[c.I]
		},
		func(c Ctx) bool { return def(c.Ind.BBMiddle[c.I]) && closes(c) >= c.Ind.BBMiddle[c.I] }))

	register(trend("stochastic_cross", "Stochastic %K/%D Cross",
		func(c Ctx) bool {
			return crossAbove(c.Ind.StochK, c.Ind.StochD, c.I) && below(c.Ind.StochK, 40, c.I)
		},
		func(c Ctx) bool { return crossBelow(c.Ind.StochK, c.Ind.StochD, c.I) }))

	register(trend("stochastic_extremes", "Stochastic Oversold Exit",
		func(c Ctx) bool { return leavesZone(c.Ind.StochK, 20, c.I) },
		func(c Ctx) bool { return above(c.Ind.StochK, 80, c.I) }))

	register(trend("cci_breakout", "CCI +100 Breakout",
		func(c Ctx) bool { return crossUpLevel(c.Ind.CCI, 100, c.I) },
		func(c Ctx) bool { return crossDownLevel(c.Ind.CCI, 100, c.I) }))

	register(trend("cci_reversion", "CCI Oversold Reversion",
		func(c Ctx) bool { return leavesZone(c.Ind.CCI, -100, c.I) },
		func(c Ctx) bool { return above(c.Ind.CCI, 100, c.I) }))

	register(trend("adx_trend", "ADX Directional Trend",
		func(c Ctx) bool {
			return above(c.Ind.ADX, 25, c.I) && crossAbove(c.Ind.PlusDI, c.Ind.MinusDI, c.I)
		},
		func(c Ctx) bool { return crossBelow(c.Ind.PlusDI, c.Ind.MinusDI, c.I) }))

	register(trend("obv_trend", "OBV Accumulation Trend",
		func(c Ctx) bool {
			return c.I >= 1 && c.Ind.OBV[c.I] > c.Ind.OBV[c.I-1] &&
				def(c.Ind.EMA21[c.I]) && closes(c) > c.Ind.EMA21[c.I]
		},
		func(c Ctx) bool { return def(c.Ind.EMA21[c.I]) && closes(c) < c.Ind.EMA21[c.I] }))

	register(trend("ichimoku_breakout", "Ichimoku Cloud Breakout",
		func(c Ctx) bool {
			if c.I < 1 {
				return false
			}
			top, ok := cloudTop(c.Ind, c.I)
			prevTop, ok2 := cloudTop(c.Ind, c.I-1)
			return ok && ok2 && c.Bars[c.I-1].Close <= prevTop && closes(c) > top
		},
		func(c Ctx) bool {
			bottom, ok := cloudBottom(c.Ind, c.I)
			return ok && closes(c) < bottom
		}))

	register(trend("ichimoku_tk_cross", "Ichimoku Tenkan/Kijun Cross",
		func(c Ctx) bool { return crossAbove(c.Ind.Tenkan, c.Ind.Kijun, c.I) },
		func(c Ctx) bool { return crossBelow(c.Ind.Tenkan, c.Ind.Kijun, c.I) }))

	register(trend("atr_breakout", "ATR Range Breakout",
		func(c Ctx) bool {
			return c.I >= 1 && def(c.Ind.ATR14[c.I-1]) &&
				closes(c) > c.Bars[c.I-1].Close+c.Ind.ATR14[c.I-1]
		},
		func(c Ctx) bool {
			return c.I >= 1 && def(c.Ind.ATR14[c.I-1]) &&
				closes(c) < c.Bars[c.I-1].Close-c.Ind.ATR14[c.I-1]
		}))

	register(trend("volume_surge", "Volume Surge Momentum",
		func(c Ctx) bool {
			b := c.Bars[c.I]
			return def(c.Ind.VolSMA20[c.I]) && b.Volume > 2*c.Ind.VolSMA20[c.I] && b.Close > b.Open
		},
		func(c Ctx) bool { return def(c.Ind.EMA9[c.I]) && closes(c) < c.Ind.EMA9[c.I] }))

	register(trend("trend_rider", "EMA Pullback Rider",
		func(c Ctx) bool {
			i := c.I
			if !def(c.Ind.EMA21[i], c.Ind.EMA55[i]) {
				return false
			}
			b := c.Bars[i]
			return c.Ind.EMA21[i] > c.Ind.EMA55[i] && b.Low <= c.Ind.EMA21[i] && b.Close > c.Ind.EMA21[i]
		},
		func(c Ctx) bool { return crossBelow(c.Ind.EMA21, c.Ind.EMA55, c.I) }))

	register(trend("mean_reversion", "Middle-Band Mean Reversion",
		func(c Ctx) bool {
			return c.I >= 1 && def(c.Ind.BBMiddle[c.I-1], c.Ind.BBMiddle[c.I]) &&
				below(c.Ind.RSI14, 50, c.I) &&
				c.Bars[c.I-1].Close < c.Ind.BBMiddle[c.I-1] && closes(c) > c.Ind.BBMiddle[c.I]
		},
		func(c Ctx) bool { return def(c.Ind.BBUpper[c.I]) && closes(c) > c.Ind.BBUpper[c.I] }))

	// ── 200-period family ──
	register(longterm("golden_cross", "Golden Cross",
		func(c Ctx) bool { return crossAbove(c.Ind.SMA50, c.Ind.SMA200, c.I) },
		func(c Ctx) bool { return crossBelow(c.Ind.SMA50, c.Ind.SMA200, c.I) }))

	death := longterm("death_cross", "Death Cross Short",
		func(c Ctx) bool { return crossBelow(c.Ind.SMA50, c.Ind.SMA200, c.I) },
		func(c Ctx) bool { return crossAbove(c.Ind.SMA50, c.Ind.SMA200, c.I) })
	death.Direction = model.SideShort
	register(death)

	register(longterm("ema200_trend", "EMA 200 Trend",
		func(c Ctx) bool {
			return c.I >= 1 && def(c.Ind.EMA200[c.I-1], c.Ind.EMA200[c.I]) &&
				c.Bars[c.I-1].Close <= c.Ind.EMA200[c.I-1] && closes(c) > c.Ind.EMA200[c.I]
		},
		func(c Ctx) bool { return def(c.Ind.EMA200[c.I]) && closes(c) < c.Ind.EMA200[c.I] }))

	register(longterm("macro_trend", "Macro Trend Filter",
		func(c Ctx) bool {
			return def(c.Ind.SMA200[c.I]) && closes(c) > c.Ind.SMA200[c.I] &&
				crossUpLevel(c.Ind.RSI14, 50, c.I)
		},
		func(c Ctx) bool { return def(c.Ind.SMA200[c.I]) && closes(c) < c.Ind.SMA200[c.I] }))

	register(longterm("macro_pullback", "Macro Pullback Entry",
		func(c Ctx) bool {
			return def(c.Ind.SMA200[c.I]) && closes(c) > c.Ind.SMA200[c.I] &&
				leavesZone(c.Ind.RSI14, 40, c.I)
		},
		func(c Ctx) bool { return above(c.Ind.RSI14, 70, c.I) }))

	// ── scalp family ──
	register(scalp("scalp_ema", "Scalp EMA Cross",
		func(c Ctx) bool { return crossAbove(c.Ind.EMA9, c.Ind.EMA21, c.I) },
		func(c Ctx) bool { return crossBelow(c.Ind.EMA9, c.Ind.EMA21, c.I) }))

	register(scalp("scalp_rsi", "Scalp RSI Midline",
		func(c Ctx) bool { return crossUpLevel(c.Ind.RSI14, 50, c.I) },
		func(c Ctx) bool { return crossDownLevel(c.Ind.RSI14, 50, c.I) }))

	register(scalp("scalp_stoch", "Scalp Stochastic Cross",
		func(c Ctx) bool { return crossAbove(c.Ind.StochK, c.Ind.StochD, c.I) },
		func(c Ctx) bool { return crossBelow(c.Ind.StochK, c.Ind.StochD, c.I) }))

	register(scalp("scalp_bollinger", "Scalp Middle-Band Cross",
		func(c Ctx) bool {
			return c.I >= 1 && def(c.Ind.BBMiddle[c.I-1], c.Ind.BBMiddle[c.I]) &&
				c.Bars[c.I-1].Close <= c.Ind.BBMiddle[c.I-1] && closes(c) > c.Ind.BBMiddle[c.I]
		},
		func(c Ctx) bool { return def(c.Ind.BBMiddle[c.I]) && closes(c) < c.Ind.BBMiddle[c.I] }))

	register(scalp("scalp_cci", "Scalp CCI Zero Cross",
		func(c Ctx) bool { return crossUpLevel(c.Ind.CCI, 0, c.I) },
		func(c Ctx) bool { return crossDownLevel(c.Ind.CCI, 0, c.I) }))

	register(scalp("scalp_momentum", "Scalp Bar Momentum",
		func(c Ctx) bool { return c.I >= 1 && closes(c) > c.Bars[c.I-1].High },
		func(c Ctx) bool { return c.I >= 1 && closes(c) < c.Bars[c.I-1].Low }))

	// ── swing / MSP family ──
	register(swing("swing_trend", "Swing EMA Trend",
		func(c Ctx) bool {
			return crossAbove(c.Ind.EMA21, c.Ind.EMA55, c.I) && above(c.Ind.ADX, 20, c.I)
		},
		func(c Ctx) bool { return crossBelow(c.Ind.EMA21, c.Ind.EMA55, c.I) }))

	register(swing("swing_breakout", "Swing Channel Breakout",
		func(c Ctx) bool { return c.I >= 20 && closes(c) > highestHigh(c.Bars, c.I, 20) },
		func(c Ctx) bool { return c.I >= 10 && closes(c) < lowestLow(c.Bars, c.I, 10) }))

	register(swing("swing_pullback", "Swing Trend Pullback",
		func(c Ctx) bool {
			return def(c.Ind.EMA21[c.I], c.Ind.EMA55[c.I]) &&
				c.Ind.EMA21[c.I] > c.Ind.EMA55[c.I] && leavesZone(c.Ind.RSI14, 45, c.I)
		},
		func(c Ctx) bool { return above(c.Ind.RSI14, 70, c.I) }))

	register(swing("swing_rsi", "Swing RSI 21 Midline",
		func(c Ctx) bool { return crossUpLevel(c.Ind.RSI21, 50, c.I) },
		func(c Ctx) bool { return crossDownLevel(c.Ind.RSI21, 50, c.I) }))

	register(swing("swing_macd", "Swing Histogram Flip",
		func(c Ctx) bool {
			return c.I >= 1 && def(c.Ind.MACDHist[c.I-1], c.Ind.MACDHist[c.I]) &&
				c.Ind.MACDHist[c.I-1] < 0 && c.Ind.MACDHist[c.I] >= 0
		},
		func(c Ctx) bool { return below(c.Ind.MACDHist, 0, c.I) }))

	register(swing("msp_confluence", "MSP Confluence Score",
		func(c Ctx) bool { return confluenceScore(c) >= 3 },
		func(c Ctx) bool { return confluenceScore(c) <= 1 }))

	register(swing("msp_momentum", "MSP Momentum Stack",
		func(c Ctx) bool {
			return above(c.Ind.RSI14, 60, c.I) &&
				def(c.Ind.MACD[c.I], c.Ind.MACDSignal[c.I]) && c.Ind.MACD[c.I] > c.Ind.MACDSignal[c.I] &&
				def(c.Ind.EMA9[c.I]) && closes(c) > c.Ind.EMA9[c.I]
		},
		func(c Ctx) bool { return below(c.Ind.RSI14, 50, c.I) }))

	register(swing("msp_trend", "MSP Directional Trend",
		func(c Ctx) bool {
			return def(c.Ind.EMA55[c.I], c.Ind.PlusDI[c.I], c.Ind.MinusDI[c.I]) &&
				closes(c) > c.Ind.EMA55[c.I] && c.Ind.PlusDI[c.I] > c.Ind.MinusDI[c.I] &&
				above(c.Ind.ADX, 20, c.I)
		},
		func(c Ctx) bool { return def(c.Ind.EMA55[c.I]) && closes(c) < c.Ind.EMA55[c.I] }))

	register(swing("msp_reversal", "MSP Oversold Reversal",
		func(c Ctx) bool {
			b := c.Bars[c.I]
			return leavesZone(c.Ind.RSI14, 30, c.I) && b.Close > b.Open
		},
		func(c Ctx) bool { return above(c.Ind.RSI14, 60, c.I) }))

	register(swing("msp_volume", "MSP Volume Confirmation",
		func(c Ctx) bool {
			b := c.Bars[c.I]
			return c.I >= 1 && def(c.Ind.VolSMA20[c.I], c.Ind.EMA21[c.I]) &&
				b.Volume > 1.5*c.Ind.VolSMA20[c.I] &&
				c.Ind.OBV[c.I] > c.Ind.OBV[c.I-1] && b.Close > c.Ind.EMA21[c.I]
		},
		func(c Ctx) bool {
			return c.I >= 1 && def(c.Ind.EMA21[c.I]) &&
				c.Ind.OBV[c.I] < c.Ind.OBV[c.I-1] && closes(c) < c.Ind.EMA21[c.I]
		}))

	// ── signal-replay ids: registered so lookups succeed, never executed ──
	register(replayOnly("live_signal_replay", "Live Signal Replay"))
	register(replayOnly("msp_live", "MSP Live Decisions"))
	register(replayOnly("options_flow_live", "Options Flow Live"))
	register(replayOnly("ai_signal_live", "AI Signal Live"))
}
