package perf

import (
	"testing"

	"marketscanner-backtest/internal/model"
)

func sampleResult(t *testing.T) *model.BacktestResult {
	t.Helper()
	dates := tradingDays(20)
	trades := []model.Trade{
		tradeOn(dates, 5, 150, 6, 3),
		tradeOn(dates, 11, -80, -4, 2),
		tradeOn(dates, 17, 40, 2, 4),
	}
	trades[0].MFE = 8.5
	trades[0].MAE = -1.2
	trades[1].MFE = 1.0
	trades[1].MAE = -5.5
	res := Compute(trades, dates, 1000)
	res.Symbol = "TEST"
	res.StrategyID = "ema_crossover"
	res.Timeframe = "1D"
	return &res
}

func TestBuildInverse_FlipsTradesAndMirrorsExcursions(t *testing.T) {
	orig := sampleResult(t)
	cmp := BuildInverse(orig)
	inv := cmp.Inverse

	if inv.TotalTrades != orig.TotalTrades {
		t.Fatalf("trade count changed: %d vs %d", inv.TotalTrades, orig.TotalTrades)
	}
	for i, it := range inv.Trades {
		ot := orig.Trades[i]
		if it.Side != ot.Side.Flip() {
			t.Errorf("trade %d: side %s not flipped from %s", i, it.Side, ot.Side)
		}
		assertClose(t, "negated amount", it.ReturnAmount, -ot.ReturnAmount, 1e-9)
		assertClose(t, "negated percent", it.ReturnPercent, -ot.ReturnPercent, 1e-9)
		assertClose(t, "MFE from -MAE", it.MFE, -ot.MAE, 1e-9)
		assertClose(t, "MAE from -MFE", it.MAE, -ot.MFE, 1e-9)
	}

	// Counts swap: original 2 wins / 1 loss → inverse 1 win / 2 losses.
	if inv.WinningTrades != orig.LosingTrades || inv.LosingTrades != orig.WinningTrades {
		t.Errorf("win/loss swap: inverse %d/%d vs original %d/%d",
			inv.WinningTrades, inv.LosingTrades, orig.WinningTrades, orig.LosingTrades)
	}

	// Mirrored curve is rebuilt at the notional seed, not the original capital.
	if len(inv.EquityCurve) != len(orig.EquityCurve) {
		t.Fatalf("curve length: %d vs %d", len(inv.EquityCurve), len(orig.EquityCurve))
	}
	assertClose(t, "inverse seed", inv.InitialCapital, 100, 1e-9)

	// Sign-like ratios are negated, not recomputed.
	assertClose(t, "Sharpe negated", inv.SharpeRatio, -orig.SharpeRatio, 1e-9)
	assertClose(t, "Sortino negated", inv.SortinoRatio, -orig.SortinoRatio, 1e-9)
	assertClose(t, "CAGR negated", inv.CAGR, -orig.CAGR, 1e-9)
	assertClose(t, "Calmar negated", inv.CalmarRatio, -orig.CalmarRatio, 1e-9)

	// Provenance passes through.
	if inv.Symbol != "TEST" || inv.StrategyID != "ema_crossover" || inv.Timeframe != "1D" {
		t.Error("inverse result must carry the original identifiers")
	}

	assertClose(t, "delta total return", cmp.Delta.TotalReturn,
		inv.TotalReturnPercent-orig.TotalReturnPercent, 0.011)
	assertClose(t, "delta win rate", cmp.Delta.WinRate, inv.WinRate-orig.WinRate, 0.011)
}

func TestBuildInverse_DoubleInversionRestoresShape(t *testing.T) {
	orig := sampleResult(t)
	once := BuildInverse(orig)
	twice := BuildInverse(&once.Inverse).Inverse

	if twice.TotalTrades != orig.TotalTrades {
		t.Fatalf("trade count drifted: %d vs %d", twice.TotalTrades, orig.TotalTrades)
	}
	for i := range twice.Trades {
		if twice.Trades[i].Side != orig.Trades[i].Side {
			t.Errorf("trade %d: side drifted after double inversion", i)
		}
		assertClose(t, "amount restored", twice.Trades[i].ReturnAmount, orig.Trades[i].ReturnAmount, 1e-9)
		assertClose(t, "MFE restored", twice.Trades[i].MFE, orig.Trades[i].MFE, 1e-9)
		assertClose(t, "MAE restored", twice.Trades[i].MAE, orig.Trades[i].MAE, 1e-9)
	}
	if twice.WinningTrades != orig.WinningTrades || twice.LosingTrades != orig.LosingTrades {
		t.Error("win/loss counts drifted after double inversion")
	}
	assertClose(t, "Sharpe restored", twice.SharpeRatio, orig.SharpeRatio, 1e-9)
	assertClose(t, "CAGR restored", twice.CAGR, orig.CAGR, 1e-9)
}

func TestBuildInverse_ZeroTrades(t *testing.T) {
	empty := Compute(nil, tradingDays(10), 5000)
	cmp := BuildInverse(&empty)
	if cmp.Inverse.TotalTrades != 0 || cmp.Inverse.ProfitFactor != 0 {
		t.Error("inverse of an empty run must stay empty")
	}
	if cmp.Delta.TotalReturn != 0 || cmp.Delta.WinRate != 0 {
		t.Error("delta of an empty run must be zero")
	}
}
