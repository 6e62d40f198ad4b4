package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"marketscanner-backtest/internal/model"

	_ "github.com/mattn/go-sqlite3"
)

// Reader provides read-only access to SQLite for bar history and the
// result journal.
type Reader struct {
	db *sql.DB
}

// NewReader opens a SQLite connection for reading.
func NewReader(dbPath string) (*Reader, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("sqlite open reader: %w", err)
	}
	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(2)

	log.Printf("[sqlite-reader] opened %s", dbPath)
	return &Reader{db: db}, nil
}

// ReadBars reads bar history for one symbol and native resolution within
// [from, to], ordered by timestamp ascending.
func (r *Reader) ReadBars(symbol string, tfMinutes int, from, to time.Time) ([]model.Bar, string, error) {
	rows, err := r.db.Query(`
		SELECT ts, open, high, low, close, volume, COALESCE(source, '')
		FROM bars
		WHERE symbol = ? AND tf_minutes = ? AND ts >= ? AND ts <= ?
		ORDER BY ts ASC
	`, symbol, tfMinutes, from.Unix(), to.Unix())
	if err != nil {
		return nil, "", fmt.Errorf("sqlite query bars: %w", err)
	}
	defer rows.Close()

	var bars []model.Bar
	source := ""
	for rows.Next() {
		var b model.Bar
		var tsUnix int64
		if err := rows.Scan(&tsUnix, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume, &source); err != nil {
			return nil, "", fmt.Errorf("sqlite scan bars: %w", err)
		}
		b.TS = time.Unix(tsUnix, 0).UTC()
		bars = append(bars, b)
	}
	return bars, source, rows.Err()
}

// ResultSummary is one row of the saved-result listing.
type ResultSummary struct {
	ID          int64     `json:"id"`
	Symbol      string    `json:"symbol"`
	StrategyID  string    `json:"strategy_id"`
	Timeframe   string    `json:"timeframe"`
	TotalTrades int       `json:"total_trades"`
	WinRate     float64   `json:"win_rate"`
	TotalReturn float64   `json:"total_return"`
	MaxDrawdown float64   `json:"max_drawdown"`
	SharpeRatio float64   `json:"sharpe_ratio"`
	CreatedAt   time.Time `json:"created_at"`
}

// ListResults returns recent saved runs, newest first.
func (r *Reader) ListResults(limit int) ([]ResultSummary, error) {
	rows, err := r.db.Query(`
		SELECT id, symbol, strategy_id, timeframe, total_trades, win_rate, total_return, max_drawdown, sharpe_ratio, created_at
		FROM backtest_results
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("sqlite query results: %w", err)
	}
	defer rows.Close()

	var out []ResultSummary
	for rows.Next() {
		var s ResultSummary
		var createdUnix int64
		if err := rows.Scan(&s.ID, &s.Symbol, &s.StrategyID, &s.Timeframe,
			&s.TotalTrades, &s.WinRate, &s.TotalReturn, &s.MaxDrawdown, &s.SharpeRatio, &createdUnix); err != nil {
			return nil, fmt.Errorf("sqlite scan results: %w", err)
		}
		s.CreatedAt = time.Unix(createdUnix, 0).UTC()
		out = append(out, s)
	}
	return out, rows.Err()
}

// ReadResult loads one full saved result by id. Returns nil when not found.
func (r *Reader) ReadResult(id int64) (*model.BacktestResult, error) {
	var data string
	err := r.db.QueryRow(`SELECT result_json FROM backtest_results WHERE id = ?`, id).Scan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("sqlite read result: %w", err)
	}

	var res model.BacktestResult
	if err := json.Unmarshal([]byte(data), &res); err != nil {
		return nil, fmt.Errorf("unmarshal result: %w", err)
	}
	return &res, nil
}

// Close closes the reader.
func (r *Reader) Close() error {
	return r.db.Close()
}
