// Package engine runs the per-bar backtest simulation: a single-position
// state machine over a price series with precomputed indicators.
//
// A run is synchronous and owns no shared state, so concurrent runs are
// isolated by construction. The indicator set is computed once up front and
// never recomputed inside the per-bar loop.
package engine

import (
	"fmt"
	"time"

	"marketscanner-backtest/internal/indicator"
	"marketscanner-backtest/internal/model"
	"marketscanner-backtest/internal/perf"
	"marketscanner-backtest/internal/registry"
	"marketscanner-backtest/internal/timeframe"
)

// positionFraction is the fixed sizing rule: 95% of running equity,
// converted to shares at the entry price.
const positionFraction = 0.95

// Request is the engine's input boundary: plain data, already fetched.
type Request struct {
	Symbol         string
	StrategyID     string
	Start          time.Time
	End            time.Time
	Timeframe      string
	InitialCapital float64
	Series         model.Series
}

// Run validates the request, normalizes the series to the requested
// timeframe, simulates the strategy bar by bar, and aggregates the result.
func Run(req Request) (*model.BacktestResult, error) {
	if !req.Start.Before(req.End) {
		return nil, fmt.Errorf("%w: start date %s must be before end date %s",
			ErrInvalidRequest, req.Start.Format(model.DateLayout), req.End.Format(model.DateLayout))
	}
	if req.InitialCapital <= 0 {
		return nil, fmt.Errorf("%w: initial capital must be positive, got %.2f",
			ErrInvalidRequest, req.InitialCapital)
	}

	spec, ok := registry.Lookup(req.StrategyID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, req.StrategyID)
	}
	if spec.SignalReplay {
		return nil, fmt.Errorf("%w: %q depends on live decision packets unavailable in historical replay",
			ErrSignalReplayStrategy, req.StrategyID)
	}

	tf, err := timeframe.Parse(req.Timeframe)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedTimeframe, err)
	}
	if !timeframe.Compatible(spec.Support, tf) {
		return nil, fmt.Errorf("%w: strategy %q does not support %s resolution",
			ErrIncompatibleTimeframe, req.StrategyID, tf.Kind)
	}

	series := req.Series
	tf = tf.ApplySource(series.Meta.ResolutionMinutes)
	if tf.NeedsResample {
		series = timeframe.Resample(&series, tf.Minutes, tf.SourceResolutionMinutes)
	}

	coverage, lo, hi := timeframe.ComputeCoverage(&series, req.Start, req.End)
	applied := series.Slice(lo, hi)

	required := minBars(tf.Minutes)
	if applied.Len() < required {
		return nil, fmt.Errorf("%w: %d bars available for %s, need at least %d",
			ErrInsufficientData, applied.Len(), tf.NormalizedLabel, required)
	}

	trades := simulate(spec, &applied, req.InitialCapital)
	Enrich(trades, applied.Bars)

	dates := make([]time.Time, applied.Len())
	for i := range applied.Bars {
		dates[i] = applied.Bars[i].TS
	}

	result := perf.Compute(trades, dates, req.InitialCapital)
	result.Symbol = req.Symbol
	result.StrategyID = req.StrategyID
	result.Timeframe = tf.NormalizedLabel
	result.Source = applied.Meta
	result.Coverage = coverage
	return &result, nil
}

// minBars is the minimum bar count by timeframe scale. The exact numbers
// are a tested contract.
func minBars(minutes int) int {
	switch {
	case minutes >= timeframe.MinutesPerYear:
		return 3
	case minutes >= timeframe.MinutesPerMonth:
		return 24
	case minutes >= timeframe.MinutesPerWeek:
		return 52
	case minutes >= timeframe.MinutesPerDay:
		return 100
	default:
		return 50
	}
}

// simulate walks the series through the two-state machine:
// flat → entry rule each bar → in-position → exit rule each bar → flat,
// with a forced close at the final bar if still open.
func simulate(spec registry.Spec, series *model.Series, initialCapital float64) []model.Trade {
	bars := series.Bars
	n := len(bars)
	ind := indicator.ComputeAll(series)

	start := spec.Family.StartIndex(n)
	if start < 1 {
		start = 1
	}

	equity := initialCapital
	trades := []model.Trade{}
	var pos *model.Position

	closePosition := func(i int, price float64, reason model.ExitReason) {
		t := closeTrade(series.Symbol, pos, i, bars[i].TS, price, reason)
		equity += t.ReturnAmount
		trades = append(trades, t)
		pos = nil
	}

	for i := start; i < n; i++ {
		c := registry.Ctx{Bars: bars, Ind: ind, I: i}

		if pos == nil {
			if !spec.Entry(c) {
				continue
			}
			entry := bars[i].Close
			if entry <= 0 || equity <= 0 {
				continue
			}
			pos = openPosition(spec, ind, i, bars[i].TS, entry, equity)
			continue
		}

		bar := bars[i]
		// Stop/target first, pinned to the level, tested against the bar's
		// extremes. The close alone would misstate realized P&L.
		if pos.Side == model.SideLong {
			if pos.StopPrice > 0 && bar.Low <= pos.StopPrice {
				closePosition(i, pos.StopPrice, model.ExitStop)
				continue
			}
			if pos.TargetPrice > 0 && bar.High >= pos.TargetPrice {
				closePosition(i, pos.TargetPrice, model.ExitTarget)
				continue
			}
		} else {
			if pos.StopPrice > 0 && bar.High >= pos.StopPrice {
				closePosition(i, pos.StopPrice, model.ExitStop)
				continue
			}
			if pos.TargetPrice > 0 && bar.Low <= pos.TargetPrice {
				closePosition(i, pos.TargetPrice, model.ExitTarget)
				continue
			}
		}

		if spec.Exit(c) {
			closePosition(i, bar.Close, model.ExitSignalFlip)
			continue
		}
		if spec.TimeoutBars > 0 && i-pos.EntryBarIndex >= spec.TimeoutBars {
			closePosition(i, bar.Close, model.ExitTimeout)
		}
	}

	if pos != nil {
		last := n - 1
		closePosition(last, bars[last].Close, model.ExitEndOfData)
	}
	return trades
}

// openPosition sizes and opens a position at the bar close, with stop and
// target levels derived from ATR multiples around the entry price. When ATR
// is still warming up the levels are left unset and only signal/timeout
// exits apply.
func openPosition(spec registry.Spec, ind *indicator.Set, i int, ts time.Time, entry, equity float64) *model.Position {
	pos := &model.Position{
		Side:          spec.Direction,
		EntryPrice:    entry,
		EntryBarIndex: i,
		EntryDate:     ts,
		Shares:        equity * positionFraction / entry,
	}

	if atr := ind.ATR14[i]; indicator.Defined(atr) && atr > 0 {
		if pos.Side == model.SideLong {
			pos.StopPrice = entry - spec.StopATR*atr
			pos.TargetPrice = entry + spec.TargetATR*atr
		} else {
			pos.StopPrice = entry + spec.StopATR*atr
			pos.TargetPrice = entry - spec.TargetATR*atr
		}
	}
	return pos
}

// closeTrade books the round trip. Long: return = (exit−entry)·shares;
// short mirrored. Percent mirrors the amount with a division by entry
// price instead of multiplication by shares.
func closeTrade(symbol string, pos *model.Position, exitIdx int, exitTS time.Time, exitPrice float64, reason model.ExitReason) model.Trade {
	var amount, pct float64
	if pos.Side == model.SideLong {
		amount = (exitPrice - pos.EntryPrice) * pos.Shares
		pct = (exitPrice - pos.EntryPrice) / pos.EntryPrice * 100
	} else {
		amount = (pos.EntryPrice - exitPrice) * pos.Shares
		pct = (pos.EntryPrice - exitPrice) / pos.EntryPrice * 100
	}

	return model.Trade{
		Symbol:        symbol,
		Side:          pos.Side,
		EntryDate:     pos.EntryDate,
		ExitDate:      exitTS,
		EntryPrice:    pos.EntryPrice,
		ExitPrice:     exitPrice,
		Shares:        pos.Shares,
		ReturnAmount:  amount,
		ReturnPercent: pct,
		HoldingBars:   exitIdx - pos.EntryBarIndex,
		ExitReason:    reason,
		EntryBarIndex: pos.EntryBarIndex,
		ExitBarIndex:  exitIdx,
	}
}
