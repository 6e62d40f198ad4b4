// cmd/backtest runs a single historical simulation from stored or exported
// bar data and prints the trade log and summary statistics.
//
// Usage:
//
//	go run ./cmd/backtest --symbol=AAPL --strategy=ema_crossover \
//	    --from=2023-01-01 --to=2024-01-01 --tf=1D --csv=data/aapl.csv
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"marketscanner-backtest/internal/engine"
	"marketscanner-backtest/internal/model"
	"marketscanner-backtest/internal/perf"
	"marketscanner-backtest/internal/provider"
	sqlitestore "marketscanner-backtest/internal/store/sqlite"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)

	// Flags
	symbol := flag.String("symbol", "", "Symbol to simulate")
	strategyID := flag.String("strategy", "ema_crossover", "Strategy id (see /api/strategies)")
	fromStr := flag.String("from", "", "Start date (YYYY-MM-DD)")
	toStr := flag.String("to", "", "End date (YYYY-MM-DD)")
	tfStr := flag.String("tf", "1D", "Target timeframe (e.g. 15m, 4h, 1D, 1W)")
	capital := flag.Float64("capital", 10000, "Initial capital")
	csvPath := flag.String("csv", "", "CSV bar file (date,open,high,low,close,volume)")
	dbPath := flag.String("db", "data/backtest.db", "Path to SQLite database")
	sourceTF := flag.Int("source-tf", 1440, "Native resolution of stored bars, in minutes")
	save := flag.Bool("save", false, "Journal the result to SQLite")
	inverse := flag.Bool("inverse", false, "Print the inverse-scenario comparison")
	flag.Parse()

	if *symbol == "" || *fromStr == "" || *toStr == "" {
		log.Fatal("[backtest] --symbol, --from and --to are required")
	}
	from, err := time.Parse(model.DateLayout, *fromStr)
	if err != nil {
		log.Fatalf("[backtest] bad --from: %v", err)
	}
	to, err := time.Parse(model.DateLayout, *toStr)
	if err != nil {
		log.Fatalf("[backtest] bad --to: %v", err)
	}

	series, err := loadSeries(*csvPath, *dbPath, *symbol, *sourceTF, from, to)
	if err != nil {
		log.Fatalf("[backtest] load series: %v", err)
	}
	log.Printf("[backtest] loaded %d bars for %s from %s", series.Len(), *symbol, series.Meta.Source)

	result, err := engine.Run(engine.Request{
		Symbol:         *symbol,
		StrategyID:     *strategyID,
		Start:          from,
		End:            to,
		Timeframe:      *tfStr,
		InitialCapital: *capital,
		Series:         series,
	})
	if err != nil {
		log.Fatalf("[backtest] run failed: %v", err)
	}

	printTrades(result)
	printSummary(result)

	if *inverse {
		cmp := perf.BuildInverse(result)
		fmt.Printf("\nInverse scenario: return %.2f%% (Δ%.2f), win rate %.2f%% (Δ%.2f), max DD %.2f%% (Δ%.2f), PF %.2f (Δ%.2f)\n",
			cmp.Inverse.TotalReturnPercent, cmp.Delta.TotalReturn,
			cmp.Inverse.WinRate, cmp.Delta.WinRate,
			cmp.Inverse.MaxDrawdown, cmp.Delta.MaxDrawdown,
			cmp.Inverse.ProfitFactor, cmp.Delta.ProfitFactor)
	}

	if *save {
		writer, err := sqlitestore.New(sqlitestore.WriterConfig{DBPath: *dbPath})
		if err != nil {
			log.Fatalf("[backtest] sqlite open failed: %v", err)
		}
		defer writer.Close()
		id, err := writer.SaveResult(result)
		if err != nil {
			log.Fatalf("[backtest] save failed: %v", err)
		}
		log.Printf("[backtest] journaled result id=%d", id)
	}
}

func loadSeries(csvPath, dbPath, symbol string, sourceTF int, from, to time.Time) (model.Series, error) {
	if csvPath != "" {
		return provider.LoadCSV(csvPath, symbol, sourceTF)
	}
	reader, err := sqlitestore.NewReader(dbPath)
	if err != nil {
		return model.Series{}, err
	}
	defer reader.Close()
	svc := provider.NewService(reader, nil) // no cache for one-shot CLI runs
	return svc.Fetch(context.Background(), symbol, sourceTF, from, to)
}

func printTrades(res *model.BacktestResult) {
	if len(res.Trades) == 0 {
		return
	}
	fmt.Println()
	for i, t := range res.Trades {
		fmt.Printf("  #%-3d %-5s %s → %s  entry %.2f exit %.2f  %+.2f (%+.2f%%)  %s  mfe %+.2f%% mae %+.2f%%\n",
			i+1, t.Side,
			t.EntryDate.Format(model.DateLayout), t.ExitDate.Format(model.DateLayout),
			t.EntryPrice, t.ExitPrice, t.ReturnAmount, t.ReturnPercent, t.ExitReason, t.MFE, t.MAE)
	}
}

func printSummary(res *model.BacktestResult) {
	fmt.Println()
	fmt.Println("╔══════════════════════════════════════╗")
	fmt.Println("║        BACKTEST COMPLETE             ║")
	fmt.Println("╠══════════════════════════════════════╣")
	fmt.Printf("║  Symbol / strategy: %-16s ║\n", res.Symbol+" "+res.StrategyID)
	fmt.Printf("║  Applied range:     %s – %s ║\n",
		res.Coverage.AppliedStart.Format(model.DateLayout),
		res.Coverage.AppliedEnd.Format(model.DateLayout))
	fmt.Printf("║  Bars / trades:     %-6d / %-7d ║\n", res.Coverage.BarCount, res.TotalTrades)
	fmt.Printf("║  Win rate:          %-15.2f%% ║\n", res.WinRate)
	fmt.Printf("║  Total return:      %-15.2f%% ║\n", res.TotalReturnPercent)
	fmt.Printf("║  Max drawdown:      %-15.2f%% ║\n", res.MaxDrawdown)
	fmt.Printf("║  Sharpe / Sortino:  %-6.2f / %-6.2f  ║\n", res.SharpeRatio, res.SortinoRatio)
	fmt.Printf("║  Profit factor:     %-16.2f ║\n", res.ProfitFactor)
	fmt.Printf("║  Final equity:      %-16.2f ║\n", res.FinalEquity)
	fmt.Println("╚══════════════════════════════════════╝")
}
