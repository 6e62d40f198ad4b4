// Package indicator provides technical indicator calculations over OHLCV
// arrays.
//
// Every function takes aligned input columns and returns output arrays of
// identical length. Entries before an indicator's warmup period are NaN:
// "not yet computable", never "flat". Callers must check Defined before
// consuming a value.
package indicator

import (
	"math"

	"marketscanner-backtest/internal/model"
)

// Defined reports whether an indicator value is past its warmup.
func Defined(v float64) bool { return !math.IsNaN(v) }

// nans returns a slice of n NaN values.
func nans(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// Set is the columnar indicator snapshot for one series: one array per
// indicator, aligned by bar index. Computed once per run, before the
// per-bar strategy loop, never recomputed inside it.
type Set struct {
	EMA9   []float64
	EMA21  []float64
	EMA55  []float64
	EMA200 []float64
	SMA50  []float64
	SMA200 []float64

	RSI14 []float64
	RSI21 []float64

	MACD       []float64
	MACDSignal []float64
	MACDHist   []float64

	BBUpper  []float64
	BBMiddle []float64
	BBLower  []float64

	ADX     []float64
	PlusDI  []float64
	MinusDI []float64

	ATR14 []float64

	VolSMA20 []float64

	StochK []float64
	StochD []float64

	CCI []float64
	OBV []float64

	Tenkan []float64
	Kijun  []float64
	SpanA  []float64
	SpanB  []float64
}

// ComputeAll builds the full indicator set for a series.
// O(n·window) worst case per indicator.
func ComputeAll(s *model.Series) *Set {
	closes := s.Closes()
	highs := s.Highs()
	lows := s.Lows()
	volumes := s.Volumes()

	macd, signal, hist := MACD(closes)
	bbUpper, bbMiddle, bbLower := BollingerBands(closes, 20, 2)
	adx, plusDI, minusDI := ADX(highs, lows, closes, 14)
	stochK, stochD := Stochastic(highs, lows, closes, 14, 3)
	tenkan, kijun, spanA, spanB := Ichimoku(highs, lows)

	return &Set{
		EMA9:   EMA(closes, 9),
		EMA21:  EMA(closes, 21),
		EMA55:  EMA(closes, 55),
		EMA200: EMA(closes, 200),
		SMA50:  SMA(closes, 50),
		SMA200: SMA(closes, 200),

		RSI14: RSI(closes, 14),
		RSI21: RSI(closes, 21),

		MACD:       macd,
		MACDSignal: signal,
		MACDHist:   hist,

		BBUpper:  bbUpper,
		BBMiddle: bbMiddle,
		BBLower:  bbLower,

		ADX:     adx,
		PlusDI:  plusDI,
		MinusDI: minusDI,

		ATR14: ATR(highs, lows, closes, 14),

		VolSMA20: SMA(volumes, 20),

		StochK: stochK,
		StochD: stochD,

		CCI: CCI(highs, lows, closes, 20),
		OBV: OBV(closes, volumes),

		Tenkan: tenkan,
		Kijun:  kijun,
		SpanA:  spanA,
		SpanB:  spanB,
	}
}
