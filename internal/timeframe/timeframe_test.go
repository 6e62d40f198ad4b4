package timeframe

import (
	"testing"
	"time"

	"marketscanner-backtest/internal/model"
)

// ────────────────────────────────────────────────────────────
// Parsing
// ────────────────────────────────────────────────────────────

func TestParse_KnownFormats(t *testing.T) {
	cases := []struct {
		raw     string
		minutes int
		kind    Kind
		label   string
	}{
		{"15m", 15, KindIntraday, "15m"},
		{"4h", 240, KindIntraday, "4h"},
		{"1D", 1440, KindDaily, "1D"},
		{"1d", 1440, KindDaily, "1D"},
		{"1W", 10080, KindDaily, "1W"},
		{"1M", 43200, KindDaily, "1M"},
		{"1Y", 525600, KindDaily, "1Y"},
		{"daily", 1440, KindDaily, "1D"},
		{"weekly", 10080, KindDaily, "1W"},
		{"monthly", 43200, KindDaily, "1M"},
		{"yearly", 525600, KindDaily, "1Y"},
		{"60", 60, KindIntraday, "1h"},
		{"90", 90, KindIntraday, "90m"},
		{"  5m ", 5, KindIntraday, "5m"},
	}
	for _, c := range cases {
		p, err := Parse(c.raw)
		if err != nil {
			t.Errorf("Parse(%q): unexpected error %v", c.raw, err)
			continue
		}
		if p.Minutes != c.minutes {
			t.Errorf("Parse(%q).Minutes = %d, want %d", c.raw, p.Minutes, c.minutes)
		}
		if p.Kind != c.kind {
			t.Errorf("Parse(%q).Kind = %s, want %s", c.raw, p.Kind, c.kind)
		}
		if p.NormalizedLabel != c.label {
			t.Errorf("Parse(%q).NormalizedLabel = %s, want %s", c.raw, p.NormalizedLabel, c.label)
		}
	}
}

func TestParse_MonthMinuteCaseDistinction(t *testing.T) {
	month, err := Parse("2M")
	if err != nil || month.Minutes != 2*MinutesPerMonth {
		t.Fatalf("Parse(2M) = %d, %v; want %d months", month.Minutes, err, 2*MinutesPerMonth)
	}
	minute, err := Parse("2m")
	if err != nil || minute.Minutes != 2 {
		t.Fatalf("Parse(2m) = %d, %v; want 2 minutes", minute.Minutes, err)
	}
}

func TestParse_Failures(t *testing.T) {
	for _, raw := range []string{"", "0", "-5", "abc", "5q", "21y", "1000000000"} {
		if _, err := Parse(raw); err == nil {
			t.Errorf("Parse(%q): expected error, got none", raw)
		}
	}
}

func TestApplySource_ResampleFlag(t *testing.T) {
	p, _ := Parse("1h")
	if got := p.ApplySource(1); !got.NeedsResample {
		t.Error("1h target from 1m source should need resampling")
	}
	if got := p.ApplySource(60); got.NeedsResample {
		t.Error("1h target from 1h source should not need resampling")
	}
	if got := p.ApplySource(1440); got.NeedsResample {
		t.Error("cannot upsample; finer target from coarser source must not resample")
	}
}

func TestCompatible(t *testing.T) {
	daily, _ := Parse("1D")
	intraday, _ := Parse("15m")

	dailyOnly := Support{Daily: true}
	intradayOnly := Support{Intraday: true}
	both := Support{Daily: true, Intraday: true}

	if !Compatible(dailyOnly, daily) || Compatible(dailyOnly, intraday) {
		t.Error("daily-only support mismatch")
	}
	if Compatible(intradayOnly, daily) || !Compatible(intradayOnly, intraday) {
		t.Error("intraday-only support mismatch")
	}
	if !Compatible(both, daily) || !Compatible(both, intraday) {
		t.Error("dual support mismatch")
	}
}

// ────────────────────────────────────────────────────────────
// Resampling
// ────────────────────────────────────────────────────────────

func minuteBars(start time.Time, ohlcv ...[5]float64) []model.Bar {
	bars := make([]model.Bar, len(ohlcv))
	for i, v := range ohlcv {
		bars[i] = model.Bar{
			TS: start.Add(time.Duration(i) * time.Minute),
			Open: v[0], High: v[1], Low: v[2], Close: v[3], Volume: v[4],
		}
	}
	return bars
}

func TestResample_NoOpWhenTargetNotCoarser(t *testing.T) {
	start := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)
	s := model.Series{Symbol: "TEST", Bars: minuteBars(start,
		[5]float64{10, 11, 9, 10.5, 100},
		[5]float64{10.5, 12, 10, 11, 200},
	)}
	out := Resample(&s, 1, 1)
	if len(out.Bars) != 2 {
		t.Fatalf("identity resample changed bar count: %d", len(out.Bars))
	}
	if out.Bars[0] != s.Bars[0] || out.Bars[1] != s.Bars[1] {
		t.Error("identity resample mutated bars")
	}
}

func TestResample_FiveOneMinuteIntoOneFiveMinute(t *testing.T) {
	// 10:00–10:04 all land in the 10:00 five-minute bucket.
	start := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)
	s := model.Series{Symbol: "TEST", Bars: minuteBars(start,
		[5]float64{10.0, 10.2, 9.9, 10.1, 100},
		[5]float64{10.1, 10.6, 10.0, 10.5, 150},
		[5]float64{10.5, 10.5, 9.5, 9.8, 120},
		[5]float64{9.8, 10.0, 9.7, 9.9, 130},
		[5]float64{9.9, 10.3, 9.8, 10.2, 110},
	)}
	out := Resample(&s, 5, 1)

	if len(out.Bars) != 1 {
		t.Fatalf("bucket count: got %d, want 1", len(out.Bars))
	}
	b := out.Bars[0]
	if !b.TS.Equal(start) {
		t.Errorf("bucket timestamp: got %v, want %v", b.TS, start)
	}
	if b.Open != 10.0 {
		t.Errorf("open: got %.2f, want first bar's open 10.00", b.Open)
	}
	if b.High != 10.6 {
		t.Errorf("high: got %.2f, want max 10.60", b.High)
	}
	if b.Low != 9.5 {
		t.Errorf("low: got %.2f, want min 9.50", b.Low)
	}
	if b.Close != 10.2 {
		t.Errorf("close: got %.2f, want last bar's close 10.20", b.Close)
	}
	if b.Volume != 610 {
		t.Errorf("volume: got %.0f, want sum 610", b.Volume)
	}
	if out.Meta.ResolutionMinutes != 5 {
		t.Errorf("meta resolution: got %d, want 5", out.Meta.ResolutionMinutes)
	}
}

func TestResample_SplitsAcrossBuckets(t *testing.T) {
	start := time.Date(2024, 3, 4, 10, 3, 0, 0, time.UTC)
	s := model.Series{Symbol: "TEST", Bars: minuteBars(start,
		[5]float64{10, 10, 10, 10, 1}, // 10:03 → bucket 10:00
		[5]float64{11, 11, 11, 11, 1}, // 10:04 → bucket 10:00
		[5]float64{12, 12, 12, 12, 1}, // 10:05 → bucket 10:05
	)}
	out := Resample(&s, 5, 1)
	if len(out.Bars) != 2 {
		t.Fatalf("bucket count: got %d, want 2", len(out.Bars))
	}
	if out.Bars[0].Close != 11 || out.Bars[1].Open != 12 {
		t.Errorf("bucket boundary wrong: close=%.0f open=%.0f", out.Bars[0].Close, out.Bars[1].Open)
	}
}

// ────────────────────────────────────────────────────────────
// Coverage
// ────────────────────────────────────────────────────────────

func dailySeries(start time.Time, n int) model.Series {
	bars := make([]model.Bar, n)
	for i := 0; i < n; i++ {
		c := 100 + float64(i)
		bars[i] = model.Bar{TS: start.AddDate(0, 0, i), Open: c, High: c + 1, Low: c - 1, Close: c, Volume: 1000}
	}
	return model.Series{Symbol: "TEST", Bars: bars}
}

func TestComputeCoverage_ClampsWiderRequest(t *testing.T) {
	first := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	s := dailySeries(first, 100)
	last := s.Bars[99].TS

	cov, lo, hi := ComputeCoverage(&s, first.AddDate(-1, 0, 0), last.AddDate(1, 0, 0))
	if !cov.AppliedStart.Equal(first) || !cov.AppliedEnd.Equal(last) {
		t.Errorf("applied range not clamped to data: %v – %v", cov.AppliedStart, cov.AppliedEnd)
	}
	if cov.BarCount != 100 || lo != 0 || hi != 100 {
		t.Errorf("bars: count=%d lo=%d hi=%d, want 100/0/100", cov.BarCount, lo, hi)
	}
}

func TestComputeCoverage_InteriorRequest(t *testing.T) {
	first := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	s := dailySeries(first, 100)

	reqStart := first.AddDate(0, 0, 10)
	reqEnd := first.AddDate(0, 0, 19)
	cov, lo, hi := ComputeCoverage(&s, reqStart, reqEnd)
	if cov.BarCount != 10 || lo != 10 || hi != 20 {
		t.Errorf("interior range: count=%d lo=%d hi=%d, want 10/10/20", cov.BarCount, lo, hi)
	}
	if !cov.AppliedStart.Equal(reqStart) || !cov.AppliedEnd.Equal(reqEnd) {
		t.Error("interior request should pass through unclamped")
	}
}

func TestComputeCoverage_RequestEntirelyBeforeData(t *testing.T) {
	first := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	s := dailySeries(first, 100)

	cov, _, _ := ComputeCoverage(&s, first.AddDate(-2, 0, 0), first.AddDate(-1, 0, 0))
	if !cov.AppliedStart.Equal(first) || !cov.AppliedEnd.Equal(first) {
		t.Errorf("out-of-range request should clamp both ends to first bar: %v – %v",
			cov.AppliedStart, cov.AppliedEnd)
	}
	if cov.AppliedEnd.Before(cov.AppliedStart) {
		t.Error("applied end must never precede applied start")
	}
}

func TestComputeCoverage_EmptySeries(t *testing.T) {
	s := model.Series{Symbol: "TEST"}
	cov, lo, hi := ComputeCoverage(&s, time.Now(), time.Now())
	if cov.BarCount != 0 || lo != 0 || hi != 0 {
		t.Errorf("empty series: count=%d lo=%d hi=%d, want zeros", cov.BarCount, lo, hi)
	}
}
