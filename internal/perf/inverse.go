package perf

// Inverse scenario comparator: "what if every position had been flipped".
// Diagnostic only: it ignores transaction costs and the asymmetric fill
// assumptions of actually shorting.

import (
	"time"

	"marketscanner-backtest/internal/model"
)

// inverseSeed is the notional starting equity for the mirrored curve.
const inverseSeed = 100

// BuildInverse derives the mirrored result from a completed one: every
// trade's side is flipped and its return negated; counts, profit factor,
// averages and a fresh equity curve are recomputed from the flipped trades;
// sign-like ratios (Sharpe, Sortino, CAGR, Calmar) are negated from the
// original rather than recomputed bar-by-bar.
func BuildInverse(r *model.BacktestResult) model.InverseComparison {
	flipped := make([]model.Trade, len(r.Trades))
	for i, t := range r.Trades {
		f := t
		f.Side = t.Side.Flip()
		f.ReturnAmount = -t.ReturnAmount
		f.ReturnPercent = -t.ReturnPercent
		// Excursions mirror: the adverse path becomes the favorable one.
		f.MFE = -t.MAE
		f.MAE = -t.MFE
		flipped[i] = f
	}

	dates := make([]time.Time, len(r.EquityCurve))
	for i, p := range r.EquityCurve {
		dates[i] = p.Date
	}

	inv := Compute(flipped, dates, inverseSeed)
	inv.Symbol = r.Symbol
	inv.StrategyID = r.StrategyID
	inv.Timeframe = r.Timeframe
	inv.Source = r.Source
	inv.Coverage = r.Coverage

	// Negated, not recomputed: the originals were computed against the real
	// initial capital and a bar-by-bar rebuild at a notional seed would not
	// be comparable anyway.
	inv.SharpeRatio = round2(-r.SharpeRatio)
	inv.SortinoRatio = round2(-r.SortinoRatio)
	inv.CAGR = round2(-r.CAGR)
	inv.CalmarRatio = round2(-r.CalmarRatio)

	return model.InverseComparison{
		Inverse: inv,
		Delta: model.InverseDelta{
			TotalReturn:  round2(inv.TotalReturnPercent - r.TotalReturnPercent),
			WinRate:      round2(inv.WinRate - r.WinRate),
			MaxDrawdown:  round2(inv.MaxDrawdown - r.MaxDrawdown),
			ProfitFactor: round2(inv.ProfitFactor - r.ProfitFactor),
		},
	}
}
