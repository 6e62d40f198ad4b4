package registry

import (
	"math"
	"testing"

	"marketscanner-backtest/internal/indicator"
	"marketscanner-backtest/internal/model"
)

func TestCatalog_EveryIDResolves(t *testing.T) {
	ids := IDs()
	if len(ids) < 40 {
		t.Fatalf("catalog size: got %d strategies, want at least 40", len(ids))
	}
	for _, id := range ids {
		spec, ok := Lookup(id)
		if !ok {
			t.Errorf("Lookup(%q) failed for a listed id", id)
			continue
		}
		if spec.ID != id {
			t.Errorf("spec id mismatch: %q vs %q", spec.ID, id)
		}
		if spec.Name == "" {
			t.Errorf("%s: empty display name", id)
		}
		if !spec.Support.Daily && !spec.Support.Intraday {
			t.Errorf("%s: supports no resolution at all", id)
		}
		if spec.SignalReplay {
			continue
		}
		if spec.Entry == nil || spec.Exit == nil {
			t.Errorf("%s: executable strategy missing entry/exit rule", id)
		}
		if spec.StopATR <= 0 || spec.TargetATR <= 0 || spec.TimeoutBars <= 0 {
			t.Errorf("%s: risk parameters unset (%v/%v/%d)",
				id, spec.StopATR, spec.TargetATR, spec.TimeoutBars)
		}
	}
}

func TestCatalog_ReplayOnlyIDsAreFlagged(t *testing.T) {
	for _, id := range []string{"live_signal_replay", "msp_live", "options_flow_live", "ai_signal_live"} {
		spec, ok := Lookup(id)
		if !ok {
			t.Errorf("replay id %q not registered", id)
			continue
		}
		if !spec.SignalReplay {
			t.Errorf("%s: must carry the replay flag", id)
		}
	}
}

func TestLookup_UnknownID(t *testing.T) {
	if _, ok := Lookup("definitely_not_registered"); ok {
		t.Error("unknown id must not resolve")
	}
}

func TestFamily_StartIndex(t *testing.T) {
	cases := []struct {
		family Family
		n      int
		want   int
	}{
		{FamilyDefault, 500, 30},
		{FamilyScalp, 500, 25},
		{FamilySwing, 500, 60},
		{FamilySwing, 100, 20},  // 20% of short series
		{FamilyLongTerm, 1000, 200},
		{FamilyLongTerm, 250, 100}, // 40% of short series
	}
	for _, c := range cases {
		if got := c.family.StartIndex(c.n); got != c.want {
			t.Errorf("%s.StartIndex(%d) = %d, want %d", c.family, c.n, got, c.want)
		}
	}
}

// ────────────────────────────────────────────────────────────
// Rule semantics
// ────────────────────────────────────────────────────────────

func TestCrossAbove_RequiresActualCross(t *testing.T) {
	nan := math.NaN()
	a := []float64{nan, 1, 3, 4}
	b := []float64{nan, 2, 2, 2}

	if crossAbove(a, b, 1) {
		t.Error("undefined previous values must not fire")
	}
	if !crossAbove(a, b, 2) {
		t.Error("1<=2 then 3>2 is a cross")
	}
	if crossAbove(a, b, 3) {
		t.Error("already above: staying above is not a cross")
	}
}

func TestCrossBelow_RequiresActualCross(t *testing.T) {
	a := []float64{3, 1, 1}
	b := []float64{2, 2, 2}
	if !crossBelow(a, b, 1) {
		t.Error("3>=2 then 1<2 is a cross")
	}
	if crossBelow(a, b, 2) {
		t.Error("staying below is not a cross")
	}
}

func TestLeavesZone(t *testing.T) {
	rsi := []float64{25, 32, 35}
	if !leavesZone(rsi, 30, 1) {
		t.Error("25→32 leaves the sub-30 zone")
	}
	if leavesZone(rsi, 30, 2) {
		t.Error("32→35 never re-entered the zone")
	}
}

func TestEMACrossoverRule_EndToEnd(t *testing.T) {
	spec, ok := Lookup("ema_crossover")
	if !ok {
		t.Fatal("ema_crossover not registered")
	}
	set := &indicator.Set{
		EMA9:  []float64{1.0, 1.5, 2.5},
		EMA21: []float64{2.0, 2.0, 2.0},
	}
	if spec.Entry(Ctx{Ind: set, I: 1}) {
		t.Error("no cross yet at index 1")
	}
	if !spec.Entry(Ctx{Ind: set, I: 2}) {
		t.Error("fast EMA crossed above slow at index 2")
	}
	down := &indicator.Set{
		EMA9:  []float64{2.5, 1.5},
		EMA21: []float64{2.0, 2.0},
	}
	if !spec.Exit(Ctx{Ind: down, I: 1}) {
		t.Error("fast EMA crossing back below should exit")
	}
}

func TestConfluenceScore(t *testing.T) {
	// Price above EMA21, EMA21 above EMA55, RSI above 50, MACD above
	// signal, price above middle band: all five conditions hold.
	set := &indicator.Set{
		EMA21:      []float64{90},
		EMA55:      []float64{85},
		RSI14:      []float64{60},
		MACD:       []float64{1.0},
		MACDSignal: []float64{0.5},
		BBMiddle:   []float64{95},
	}
	bull := Ctx{Bars: []model.Bar{{Close: 100}}, Ind: set, I: 0}
	if got := confluenceScore(bull); got != 5 {
		t.Errorf("all-bullish score: got %d, want 5", got)
	}

	bear := Ctx{Bars: []model.Bar{{Close: 80}}, Ind: set, I: 0}
	// Price below EMA21 and middle band drops two conditions; the EMA
	// stack, RSI and MACD still count.
	if got := confluenceScore(bear); got != 3 {
		t.Errorf("weaker score: got %d, want 3", got)
	}

	undefined := Ctx{Bars: []model.Bar{{Close: 100}}, Ind: &indicator.Set{
		EMA21: []float64{math.NaN()}, EMA55: []float64{math.NaN()},
		RSI14: []float64{math.NaN()}, MACD: []float64{math.NaN()},
		MACDSignal: []float64{math.NaN()}, BBMiddle: []float64{math.NaN()},
	}, I: 0}
	if got := confluenceScore(undefined); got != 0 {
		t.Errorf("undefined indicators score: got %d, want 0", got)
	}
}
