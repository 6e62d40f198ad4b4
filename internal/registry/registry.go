// Package registry is the strategy catalog: a dispatch table of pure
// entry/exit predicate pairs keyed by strategy id, plus per-strategy risk
// parameters and supported resolutions.
//
// Keeping each rule set as an independent predicate pair (instead of one
// long conditional chain in the engine) keeps them individually testable.
package registry

import (
	"sort"

	"marketscanner-backtest/internal/indicator"
	"marketscanner-backtest/internal/model"
	"marketscanner-backtest/internal/timeframe"
)

// Family groups strategies that share a warmup/start-index policy.
type Family string

const (
	// FamilyDefault starts at bar 30.
	FamilyDefault Family = "default"
	// FamilyScalp starts near bar 25; short intraday series still trade.
	FamilyScalp Family = "scalp"
	// FamilySwing (incl. the MSP multi-signal sets) starts at
	// min(60, 20% of series length).
	FamilySwing Family = "swing"
	// FamilyLongTerm (200-period dependent) starts at
	// min(200, 40% of series length).
	FamilyLongTerm Family = "longterm"
)

// StartIndex returns the first evaluated bar index for a series of n bars.
// The percentage scaling lets short intraday series produce trades instead
// of erroring out purely on absolute bar count.
func (f Family) StartIndex(n int) int {
	switch f {
	case FamilyScalp:
		return 25
	case FamilySwing:
		return min(60, n*20/100)
	case FamilyLongTerm:
		return min(200, n*40/100)
	default:
		return 30
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Ctx is the read-only per-bar view a rule evaluates: the bar history, the
// precomputed indicator set, and the current index. Crossover rules consult
// I and I-1 and must find both defined before firing.
type Ctx struct {
	Bars []model.Bar
	Ind  *indicator.Set
	I    int
}

// Rule is a pure per-bar predicate.
type Rule func(c Ctx) bool

// Spec describes one registered strategy.
type Spec struct {
	ID        string
	Name      string
	Family    Family
	Support   timeframe.Support
	Direction model.Side

	// Risk parameters: stop/target as ATR multiples of entry, timeout in bars.
	StopATR     float64
	TargetATR   float64
	TimeoutBars int

	// SignalReplay marks strategies that depend on live decision packets;
	// they are rejected before simulation, never executed.
	SignalReplay bool

	Entry Rule
	Exit  Rule
}

var catalog = map[string]Spec{}

func register(s Spec) {
	catalog[s.ID] = s
}

// Lookup returns the spec for a strategy id.
func Lookup(id string) (Spec, bool) {
	s, ok := catalog[id]
	return s, ok
}

// IDs returns all registered strategy ids, sorted.
func IDs() []string {
	out := make([]string, 0, len(catalog))
	for id := range catalog {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// All returns every registered spec, sorted by id.
func All() []Spec {
	out := make([]Spec, 0, len(catalog))
	for _, id := range IDs() {
		out = append(out, catalog[id])
	}
	return out
}
