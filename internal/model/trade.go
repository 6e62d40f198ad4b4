package model

import "time"

// Side is the direction of a position or trade.
type Side string

const (
	SideLong  Side = "long"
	SideShort Side = "short"
)

// Flip returns the opposite side.
func (s Side) Flip() Side {
	if s == SideLong {
		return SideShort
	}
	return SideLong
}

// ExitReason explains why a position was closed.
type ExitReason string

const (
	ExitStop       ExitReason = "stop"
	ExitTarget     ExitReason = "target"
	ExitTimeout    ExitReason = "timeout"
	ExitSignalFlip ExitReason = "signal_flip"
	ExitManual     ExitReason = "manual"
	ExitEndOfData  ExitReason = "end_of_data"
)

// Position is the single open position owned by the engine during a run.
// At most one exists at a time; it is created on an entry signal and
// destroyed on exit or forced end-of-data close.
type Position struct {
	Side          Side
	EntryPrice    float64
	EntryBarIndex int
	EntryDate     time.Time
	Shares        float64
	StopPrice     float64
	TargetPrice   float64
}

// Trade is one closed round trip. Immutable once appended, except that
// forensics attaches MFE/MAE after the run.
type Trade struct {
	Symbol        string     `json:"symbol"`
	Side          Side       `json:"side"`
	EntryDate     time.Time  `json:"entry_date"`
	ExitDate      time.Time  `json:"exit_date"`
	EntryPrice    float64    `json:"entry_price"`
	ExitPrice     float64    `json:"exit_price"`
	Shares        float64    `json:"shares"`
	ReturnAmount  float64    `json:"return_amount"`
	ReturnPercent float64    `json:"return_percent"`
	HoldingBars   int        `json:"holding_period_bars"`
	ExitReason    ExitReason `json:"exit_reason"`
	EntryBarIndex int        `json:"entry_bar_index"`
	ExitBarIndex  int        `json:"exit_bar_index"`

	// Excursion stats, percent of entry price. MFE >= 0, MAE <= 0.
	MFE float64 `json:"mfe"`
	MAE float64 `json:"mae"`
}
