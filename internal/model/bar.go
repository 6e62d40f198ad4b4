// Package model defines the core data types shared across the backtest
// engine: OHLCV bars, price series, trades, and result aggregates.
package model

import "time"

// DateLayout is the bar key format for daily-or-larger buckets.
const DateLayout = "2006-01-02"

// DateTimeLayout is the bar key format for intraday buckets.
const DateTimeLayout = "2006-01-02 15:04"

// Bar represents one OHLCV bucket of trading activity.
// All prices are non-negative; Volume may be 0 when the serving provider
// cannot supply it (see SeriesMeta.VolumeUnavailable).
type Bar struct {
	TS     time.Time `json:"ts"` // bucket start time (UTC)
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Key returns the bar's series key: date-only for daily-or-larger buckets,
// date+time otherwise.
func (b *Bar) Key(daily bool) string {
	if daily {
		return b.TS.Format(DateLayout)
	}
	return b.TS.Format(DateTimeLayout)
}

// SeriesMeta carries provider-adapter provenance for a fetched series.
// The engine passes it through to the result untouched.
type SeriesMeta struct {
	Source            string `json:"source"`             // e.g. "sqlite", "cache", "csv"
	VolumeUnavailable bool   `json:"volume_unavailable"` // provider cannot supply volume
	CloseType         string `json:"close_type"`         // "adjusted" or "raw"
	ResolutionMinutes int    `json:"resolution_minutes"` // native bar duration
}

// Series is an ordered OHLCV history for one symbol. Bars are unique by
// timestamp and must be in ascending chronological order; spacing is not
// uniform across gaps (weekends, holidays).
type Series struct {
	Symbol string     `json:"symbol"`
	Bars   []Bar      `json:"bars"`
	Meta   SeriesMeta `json:"meta"`
}

// Len returns the number of bars in the series.
func (s *Series) Len() int { return len(s.Bars) }

// Closes extracts the close column.
func (s *Series) Closes() []float64 {
	out := make([]float64, len(s.Bars))
	for i := range s.Bars {
		out[i] = s.Bars[i].Close
	}
	return out
}

// Highs extracts the high column.
func (s *Series) Highs() []float64 {
	out := make([]float64, len(s.Bars))
	for i := range s.Bars {
		out[i] = s.Bars[i].High
	}
	return out
}

// Lows extracts the low column.
func (s *Series) Lows() []float64 {
	out := make([]float64, len(s.Bars))
	for i := range s.Bars {
		out[i] = s.Bars[i].Low
	}
	return out
}

// Volumes extracts the volume column.
func (s *Series) Volumes() []float64 {
	out := make([]float64, len(s.Bars))
	for i := range s.Bars {
		out[i] = s.Bars[i].Volume
	}
	return out
}

// Slice returns a sub-series covering bars[from:to] (to exclusive),
// sharing the underlying array.
func (s *Series) Slice(from, to int) Series {
	return Series{Symbol: s.Symbol, Bars: s.Bars[from:to], Meta: s.Meta}
}
