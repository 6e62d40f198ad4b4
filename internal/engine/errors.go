package engine

import "errors"

// Failure taxonomy. Every failure the engine surfaces wraps one of these
// sentinels with human-readable detail; nothing is silently swallowed.
var (
	// ErrInsufficientData: bar count below the strategy/timeframe minimum.
	// The wrapped message includes actual vs required counts.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrUnsupportedTimeframe: unparseable or out-of-bound duration string.
	ErrUnsupportedTimeframe = errors.New("unsupported timeframe")

	// ErrIncompatibleTimeframe: the strategy does not declare support for
	// the requested resolution.
	ErrIncompatibleTimeframe = errors.New("incompatible strategy/timeframe pairing")

	// ErrSignalReplayStrategy: the strategy depends on live decision
	// packets and cannot run in historical replay.
	ErrSignalReplayStrategy = errors.New("signal-replay strategy unsupported in backtest")

	// ErrUnknownStrategy: the id is not in the registry.
	ErrUnknownStrategy = errors.New("unknown strategy")

	// ErrInvalidRequest: malformed inputs (inverted date range,
	// non-positive capital).
	ErrInvalidRequest = errors.New("invalid request")
)
