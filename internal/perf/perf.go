// Package perf converts a trade list and bar date sequence into an equity
// curve and the fixed set of risk/return ratios.
package perf

import (
	"math"
	"time"

	"marketscanner-backtest/internal/model"
)

const (
	// annualization is applied uniformly regardless of bar timeframe.
	// Kept fixed for compatibility with existing downstream comparisons.
	annualization = 252

	// profitFactorCap stands in for an infinite profit factor when there
	// are profits but zero gross loss.
	profitFactorCap = 999
)

// round2 implements the 2-decimal presentation contract on every monetary
// and ratio output.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Compute aggregates trades over the applied date range into a result.
// Zero trades yields an all-zero result with an empty curve, not an error.
func Compute(trades []model.Trade, dates []time.Time, initialCapital float64) model.BacktestResult {
	res := model.BacktestResult{
		InitialCapital: initialCapital,
		FinalEquity:    round2(initialCapital),
		Trades:         []model.Trade{},
		EquityCurve:    []model.EquityPoint{},
	}
	if len(trades) == 0 {
		return res
	}
	res.Trades = trades

	// Realized returns keyed by exit date; several trades may share one.
	exitSum := make(map[int64]float64, len(trades))
	for _, t := range trades {
		exitSum[t.ExitDate.Unix()] += t.ReturnAmount
	}

	// Equity walk over every bar date, not just trade dates. The peak never
	// decreases, so drawdown is never negative.
	equity := initialCapital
	peak := initialCapital
	maxDD := 0.0
	curve := make([]model.EquityPoint, 0, len(dates))
	raw := make([]float64, 0, len(dates))
	for _, d := range dates {
		if v, ok := exitSum[d.Unix()]; ok {
			equity += v
		}
		if equity > peak {
			peak = equity
		}
		dd := 0.0
		if peak > 0 {
			dd = (peak - equity) / peak * 100
		}
		if dd > maxDD {
			maxDD = dd
		}
		raw = append(raw, equity)
		curve = append(curve, model.EquityPoint{
			Date:            d,
			Equity:          round2(equity),
			DrawdownPercent: round2(dd),
		})
	}
	res.EquityCurve = curve
	res.MaxDrawdown = round2(maxDD)

	// Daily-equivalent returns between consecutive curve points.
	returns := make([]float64, 0, len(raw))
	for i := 1; i < len(raw); i++ {
		if raw[i-1] != 0 {
			returns = append(returns, (raw[i]-raw[i-1])/raw[i-1])
		}
	}

	meanRet := mean(returns)
	sd := stdDev(returns)
	if sd > 0 {
		res.SharpeRatio = round2(meanRet / sd * math.Sqrt(annualization))
	}
	res.Volatility = round2(sd * math.Sqrt(annualization) * 100)

	var downside []float64
	for _, r := range returns {
		if r < 0 {
			downside = append(downside, r)
		}
	}
	if dsd := stdDev(downside); dsd > 0 {
		res.SortinoRatio = round2(meanRet / dsd * math.Sqrt(annualization))
	}

	// Trade accounting. A zero-return trade counts as a loss.
	var grossProfit, grossLoss, total float64
	wins := 0
	for _, t := range trades {
		total += t.ReturnAmount
		if t.ReturnAmount > 0 {
			wins++
			grossProfit += t.ReturnAmount
		} else {
			grossLoss += -t.ReturnAmount
		}
	}
	losses := len(trades) - wins

	res.TotalTrades = len(trades)
	res.WinningTrades = wins
	res.LosingTrades = losses
	res.WinRate = round2(float64(wins) / float64(len(trades)) * 100)
	res.TotalReturn = round2(total)
	res.TotalReturnPercent = round2(total / initialCapital * 100)
	res.FinalEquity = round2(initialCapital + total)

	switch {
	case grossLoss == 0 && grossProfit > 0:
		res.ProfitFactor = profitFactorCap
	case grossLoss == 0:
		res.ProfitFactor = 0
	default:
		res.ProfitFactor = round2(grossProfit / grossLoss)
	}

	if wins > 0 {
		res.AvgWin = round2(grossProfit / float64(wins))
	}
	if losses > 0 {
		res.AvgLoss = round2(-grossLoss / float64(losses))
	}

	holding := 0
	for _, t := range trades {
		holding += t.HoldingBars
	}
	if len(dates) > 0 {
		res.TimeInMarket = round2(float64(holding) / float64(len(dates)) * 100)
	}

	ending := initialCapital + total
	if len(dates) > 0 && ending > 0 {
		cagr := math.Pow(ending/initialCapital, annualization/float64(len(dates))) - 1
		res.CAGR = round2(cagr * 100)
	}
	if res.MaxDrawdown != 0 {
		res.CalmarRatio = round2(res.CAGR / res.MaxDrawdown)
	}

	best := 0
	worst := 0
	for i, t := range trades {
		if t.ReturnPercent > trades[best].ReturnPercent {
			best = i
		}
		if t.ReturnPercent < trades[worst].ReturnPercent {
			worst = i
		}
	}
	b := trades[best]
	w := trades[worst]
	res.BestTrade = &b
	res.WorstTrade = &w

	return res
}

func mean(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}

// stdDev is the population standard deviation.
func stdDev(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	m := mean(vs)
	variance := 0.0
	for _, v := range vs {
		d := v - m
		variance += d * d
	}
	return math.Sqrt(variance / float64(len(vs)))
}
