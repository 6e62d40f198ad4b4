// Package timeframe normalizes bar durations, validates strategy/timeframe
// pairings, resamples fine bars into coarser buckets, and clamps requested
// date ranges to the available history.
package timeframe

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind classifies a parsed timeframe.
type Kind string

const (
	KindDaily    Kind = "daily" // minutes >= one day
	KindIntraday Kind = "intraday"
)

// Bar-duration constants in minutes.
const (
	MinutesPerDay   = 1440
	MinutesPerWeek  = 7 * MinutesPerDay
	MinutesPerMonth = 30 * MinutesPerDay
	MinutesPerYear  = 365 * MinutesPerDay

	// Sanity bound: reject durations beyond ~20 years.
	maxMinutes = 20 * MinutesPerYear
)

// Parsed is a validated, normalized bar duration.
type Parsed struct {
	Kind            Kind
	Minutes         int
	NormalizedLabel string

	// Set by ApplySource once the serving series' native resolution is known.
	SourceResolutionMinutes int
	NeedsResample           bool
}

// Support declares which resolutions a strategy can run on.
type Support struct {
	Daily    bool
	Intraday bool
}

// Parse normalizes a raw timeframe string ("15m", "4h", "1D", "1W", "1M",
// "1Y", "daily", or a bare minute count) into a Parsed timeframe.
// Fails for non-positive or absurdly large durations.
func Parse(raw string) (Parsed, error) {
	minutes, err := toMinutes(strings.TrimSpace(raw))
	if err != nil {
		return Parsed{}, err
	}
	if minutes <= 0 {
		return Parsed{}, fmt.Errorf("timeframe %q: duration must be positive", raw)
	}
	if minutes > maxMinutes {
		return Parsed{}, fmt.Errorf("timeframe %q: duration exceeds %d minutes", raw, maxMinutes)
	}

	kind := KindIntraday
	if minutes >= MinutesPerDay {
		kind = KindDaily
	}
	return Parsed{
		Kind:            kind,
		Minutes:         minutes,
		NormalizedLabel: Label(minutes),
	}, nil
}

// ApplySource records the native resolution of the fetched series and
// whether aggregation is required to reach the target duration.
func (p Parsed) ApplySource(sourceMinutes int) Parsed {
	p.SourceResolutionMinutes = sourceMinutes
	p.NeedsResample = sourceMinutes > 0 && p.Minutes > sourceMinutes
	return p
}

// Compatible reports whether a strategy's declared support covers the
// parsed resolution.
func Compatible(s Support, p Parsed) bool {
	if p.Kind == KindDaily {
		return s.Daily
	}
	return s.Intraday
}

// Label renders a minute count as a normalized timeframe label.
func Label(minutes int) string {
	switch {
	case minutes >= MinutesPerYear && minutes%MinutesPerYear == 0:
		return fmt.Sprintf("%dY", minutes/MinutesPerYear)
	case minutes >= MinutesPerMonth && minutes%MinutesPerMonth == 0:
		return fmt.Sprintf("%dM", minutes/MinutesPerMonth)
	case minutes >= MinutesPerWeek && minutes%MinutesPerWeek == 0:
		return fmt.Sprintf("%dW", minutes/MinutesPerWeek)
	case minutes >= MinutesPerDay && minutes%MinutesPerDay == 0:
		return fmt.Sprintf("%dD", minutes/MinutesPerDay)
	case minutes >= 60 && minutes%60 == 0:
		return fmt.Sprintf("%dh", minutes/60)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}

// toMinutes converts the raw string into minutes. "M" (month) and "m"
// (minute) are distinguished by case; named aliases are accepted.
func toMinutes(raw string) (int, error) {
	if raw == "" {
		return 0, fmt.Errorf("timeframe is empty")
	}

	switch strings.ToLower(raw) {
	case "d", "daily":
		return MinutesPerDay, nil
	case "w", "weekly":
		return MinutesPerWeek, nil
	case "monthly":
		return MinutesPerMonth, nil
	case "y", "yearly":
		return MinutesPerYear, nil
	}

	// Bare integer = minutes.
	if n, err := strconv.Atoi(raw); err == nil {
		return n, nil
	}

	unit := raw[len(raw)-1:]
	n, err := strconv.Atoi(raw[:len(raw)-1])
	if err != nil {
		return 0, fmt.Errorf("timeframe %q: unrecognized format", raw)
	}

	switch unit {
	case "m":
		return n, nil
	case "h", "H":
		return n * 60, nil
	case "d", "D":
		return n * MinutesPerDay, nil
	case "w", "W":
		return n * MinutesPerWeek, nil
	case "M":
		return n * MinutesPerMonth, nil
	case "y", "Y":
		return n * MinutesPerYear, nil
	default:
		return 0, fmt.Errorf("timeframe %q: unrecognized unit %q", raw, unit)
	}
}
