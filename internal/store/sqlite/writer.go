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

// WriterConfig configures the SQLite writer.
type WriterConfig struct {
	DBPath string // path to SQLite database file, e.g. "data/backtest.db"
}

// Writer persists bar history and the backtest result journal.
type Writer struct {
	db *sql.DB
}

// DB returns the underlying sql.DB for health checks.
func (w *Writer) DB() *sql.DB { return w.db }

// New creates a new SQLite Writer, initializes the database with WAL mode and schema.
func New(cfg WriterConfig) (*Writer, error) {
	db, err := sql.Open("sqlite3", cfg.DBPath+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}

	// Set connection pool for single-writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := createSchema(db); err != nil {
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}

	log.Printf("[sqlite] opened database at %s", cfg.DBPath)
	return &Writer{db: db}, nil
}

func createSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS bars (
			symbol     TEXT    NOT NULL,
			tf_minutes INTEGER NOT NULL,
			ts         INTEGER NOT NULL,
			open       REAL    NOT NULL,
			high       REAL    NOT NULL,
			low        REAL    NOT NULL,
			close      REAL    NOT NULL,
			volume     REAL,
			source     TEXT,
			PRIMARY KEY (symbol, tf_minutes, ts)
		);

		CREATE TABLE IF NOT EXISTS backtest_results (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			symbol      TEXT    NOT NULL,
			strategy_id TEXT    NOT NULL,
			timeframe   TEXT    NOT NULL,
			total_trades  INTEGER NOT NULL,
			win_rate      REAL    NOT NULL,
			total_return  REAL    NOT NULL,
			max_drawdown  REAL    NOT NULL,
			sharpe_ratio  REAL    NOT NULL,
			result_json   TEXT    NOT NULL,
			created_at    INTEGER NOT NULL
		);
	`)
	return err
}

// SaveBars upserts a batch of bars in a single transaction.
func (w *Writer) SaveBars(symbol string, tfMinutes int, bars []model.Bar, source string) error {
	tx, err := w.db.Begin()
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO bars (symbol, tf_minutes, ts, open, high, low, close, volume, source)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, b := range bars {
		_, err := stmt.Exec(symbol, tfMinutes, b.TS.Unix(), b.Open, b.High, b.Low, b.Close, b.Volume, source)
		if err != nil {
			tx.Rollback()
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	log.Printf("[sqlite] committed %d bars for %s tf=%dm", len(bars), symbol, tfMinutes)
	return nil
}

// SaveResult journals a completed backtest run: summary columns for listing,
// full result as JSON.
func (w *Writer) SaveResult(res *model.BacktestResult) (int64, error) {
	data, err := json.Marshal(res)
	if err != nil {
		return 0, fmt.Errorf("marshal result: %w", err)
	}

	r, err := w.db.Exec(`
		INSERT INTO backtest_results
			(symbol, strategy_id, timeframe, total_trades, win_rate, total_return, max_drawdown, sharpe_ratio, result_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, res.Symbol, res.StrategyID, res.Timeframe,
		res.TotalTrades, res.WinRate, res.TotalReturn, res.MaxDrawdown, res.SharpeRatio,
		string(data), time.Now().Unix())
	if err != nil {
		return 0, fmt.Errorf("sqlite insert result: %w", err)
	}
	return r.LastInsertId()
}

// Close closes the database.
func (w *Writer) Close() error {
	return w.db.Close()
}
