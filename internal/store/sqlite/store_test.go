package sqlite

import (
	"path/filepath"
	"testing"
	"time"

	"marketscanner-backtest/internal/model"
)

func openPair(t *testing.T) (*Writer, *Reader) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "backtest.db")
	w, err := New(WriterConfig{DBPath: path})
	if err != nil {
		t.Fatalf("writer open: %v", err)
	}
	r, err := NewReader(path)
	if err != nil {
		t.Fatalf("reader open: %v", err)
	}
	t.Cleanup(func() {
		r.Close()
		w.Close()
	})
	return w, r
}

func TestBars_RoundTrip(t *testing.T) {
	w, r := openPair(t)

	start := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := []model.Bar{
		{TS: start, Open: 100, High: 102, Low: 99, Close: 101, Volume: 50000},
		{TS: start.AddDate(0, 0, 1), Open: 101, High: 104, Low: 100, Close: 103, Volume: 61000},
		{TS: start.AddDate(0, 0, 2), Open: 103, High: 105, Low: 102, Close: 104, Volume: 47000},
	}
	if err := w.SaveBars("AAPL", 1440, bars, "yfinance"); err != nil {
		t.Fatalf("save bars: %v", err)
	}

	got, source, err := r.ReadBars("AAPL", 1440, start, start.AddDate(0, 0, 2))
	if err != nil {
		t.Fatalf("read bars: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("bars: got %d, want 3", len(got))
	}
	if source != "yfinance" {
		t.Errorf("source: got %q, want yfinance", source)
	}
	if !got[0].TS.Equal(start) || got[0].Close != 101 || got[2].Close != 104 {
		t.Errorf("bar values wrong: first=%+v last=%+v", got[0], got[2])
	}

	// Range query trims to [from, to].
	mid, _, err := r.ReadBars("AAPL", 1440, start.AddDate(0, 0, 1), start.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("read mid: %v", err)
	}
	if len(mid) != 1 || mid[0].Close != 103 {
		t.Errorf("range read: got %d bars", len(mid))
	}

	// Upsert: re-saving the same timestamps must not duplicate rows.
	if err := w.SaveBars("AAPL", 1440, bars, "yfinance"); err != nil {
		t.Fatalf("re-save bars: %v", err)
	}
	again, _, _ := r.ReadBars("AAPL", 1440, start, start.AddDate(0, 0, 2))
	if len(again) != 3 {
		t.Errorf("upsert duplicated rows: got %d, want 3", len(again))
	}
}

func TestBars_ScopedBySymbolAndResolution(t *testing.T) {
	w, r := openPair(t)
	ts := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	bar := []model.Bar{{TS: ts, Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 10}}

	if err := w.SaveBars("AAPL", 1440, bar, "csv"); err != nil {
		t.Fatal(err)
	}
	if err := w.SaveBars("AAPL", 15, bar, "csv"); err != nil {
		t.Fatal(err)
	}

	other, _, err := r.ReadBars("MSFT", 1440, ts, ts)
	if err != nil {
		t.Fatal(err)
	}
	if len(other) != 0 {
		t.Errorf("wrong symbol returned %d bars", len(other))
	}
	daily, _, _ := r.ReadBars("AAPL", 1440, ts, ts)
	if len(daily) != 1 {
		t.Errorf("daily scope: got %d bars, want 1", len(daily))
	}
}

func TestResults_JournalRoundTrip(t *testing.T) {
	w, r := openPair(t)

	res := &model.BacktestResult{
		Symbol: "AAPL", StrategyID: "ema_crossover", Timeframe: "1D",
		InitialCapital: 10000, FinalEquity: 11250.50,
		TotalTrades: 7, WinningTrades: 4, LosingTrades: 3,
		WinRate: 57.14, TotalReturn: 1250.50, TotalReturnPercent: 12.51,
		MaxDrawdown: 6.3, SharpeRatio: 1.42,
		EquityCurve: []model.EquityPoint{
			{Date: time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC), Equity: 10000},
			{Date: time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC), Equity: 10100, DrawdownPercent: 0},
		},
		Trades: []model.Trade{},
	}

	id, err := w.SaveResult(res)
	if err != nil {
		t.Fatalf("save result: %v", err)
	}
	if id <= 0 {
		t.Fatalf("journal id: got %d, want positive", id)
	}

	list, err := r.ListResults(10)
	if err != nil {
		t.Fatalf("list results: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("listing: got %d rows, want 1", len(list))
	}
	s := list[0]
	if s.ID != id || s.Symbol != "AAPL" || s.StrategyID != "ema_crossover" ||
		s.TotalTrades != 7 || s.WinRate != 57.14 {
		t.Errorf("summary row wrong: %+v", s)
	}

	loaded, err := r.ReadResult(id)
	if err != nil {
		t.Fatalf("read result: %v", err)
	}
	if loaded == nil {
		t.Fatal("saved result not found")
	}
	if loaded.FinalEquity != 11250.50 || loaded.MaxDrawdown != 6.3 {
		t.Errorf("loaded result drifted: %+v", loaded)
	}
	if len(loaded.EquityCurve) != 2 {
		t.Errorf("curve length: got %d, want 2", len(loaded.EquityCurve))
	}
}

func TestReadResult_MissingIDIsNil(t *testing.T) {
	_, r := openPair(t)
	res, err := r.ReadResult(424242)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res != nil {
		t.Error("missing id should return nil, not a result")
	}
}
