package model

import "time"

// EquityPoint is one point of the equity curve, one per bar in the applied
// range. DrawdownPercent is always >= 0; the running peak is non-decreasing.
type EquityPoint struct {
	Date            time.Time `json:"date"`
	Equity          float64   `json:"equity"`
	DrawdownPercent float64   `json:"drawdown_percent"`
}

// Coverage describes how a requested date range was clamped to the
// available bar history. Callers must surface both ranges; the engine
// simulates over the applied range only.
type Coverage struct {
	RequestedStart time.Time `json:"requested_start"`
	RequestedEnd   time.Time `json:"requested_end"`
	AppliedStart   time.Time `json:"applied_start"`
	AppliedEnd     time.Time `json:"applied_end"`
	BarCount       int       `json:"bar_count"`
}

// BacktestResult aggregates a completed simulation. All monetary and ratio
// fields are rounded to 2 decimal places (presentation contract).
type BacktestResult struct {
	Symbol     string     `json:"symbol"`
	StrategyID string     `json:"strategy_id"`
	Timeframe  string     `json:"timeframe"`
	Source     SeriesMeta `json:"source"`
	Coverage   Coverage   `json:"coverage"`

	InitialCapital float64 `json:"initial_capital"`
	FinalEquity    float64 `json:"final_equity"`

	TotalTrades   int     `json:"total_trades"`
	WinningTrades int     `json:"winning_trades"`
	LosingTrades  int     `json:"losing_trades"`
	WinRate       float64 `json:"win_rate"`

	TotalReturn        float64 `json:"total_return"`
	TotalReturnPercent float64 `json:"total_return_percent"`
	MaxDrawdown        float64 `json:"max_drawdown"`
	SharpeRatio        float64 `json:"sharpe_ratio"`
	SortinoRatio       float64 `json:"sortino_ratio"`
	CAGR               float64 `json:"cagr"`
	Volatility         float64 `json:"volatility"`
	CalmarRatio        float64 `json:"calmar_ratio"`
	ProfitFactor       float64 `json:"profit_factor"`
	AvgWin             float64 `json:"avg_win"`
	AvgLoss            float64 `json:"avg_loss"`
	TimeInMarket       float64 `json:"time_in_market"`

	BestTrade  *Trade `json:"best_trade"`  // nil only when zero trades
	WorstTrade *Trade `json:"worst_trade"` // nil only when zero trades

	EquityCurve []EquityPoint `json:"equity_curve"`
	Trades      []Trade       `json:"trades"`
}

// InverseDelta compares headline numbers between a result and its mirror.
type InverseDelta struct {
	TotalReturn  float64 `json:"total_return"`
	WinRate      float64 `json:"win_rate"`
	MaxDrawdown  float64 `json:"max_drawdown"`
	ProfitFactor float64 `json:"profit_factor"`
}

// InverseComparison is the mirrored what-if result plus the delta block.
// Diagnostic only: it ignores transaction costs and short-fill asymmetry.
type InverseComparison struct {
	Inverse BacktestResult `json:"inverse"`
	Delta   InverseDelta   `json:"delta"`
}
