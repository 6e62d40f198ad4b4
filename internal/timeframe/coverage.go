package timeframe

import (
	"time"

	"marketscanner-backtest/internal/model"
)

// ComputeCoverage clamps the requested date range to the available bar
// history and counts the bars inside the applied range. If the request falls
// entirely outside the available data, both ends clamp to the nearest
// boundary. Returns the coverage plus the [lo, hi) bar index range that the
// engine should simulate over.
func ComputeCoverage(s *model.Series, reqStart, reqEnd time.Time) (model.Coverage, int, int) {
	cov := model.Coverage{RequestedStart: reqStart, RequestedEnd: reqEnd}
	if len(s.Bars) == 0 {
		return cov, 0, 0
	}

	first := s.Bars[0].TS
	last := s.Bars[len(s.Bars)-1].TS

	appliedStart := clamp(reqStart, first, last)
	appliedEnd := clamp(reqEnd, first, last)
	if appliedEnd.Before(appliedStart) {
		appliedEnd = appliedStart
	}

	lo := 0
	for lo < len(s.Bars) && s.Bars[lo].TS.Before(appliedStart) {
		lo++
	}
	hi := lo
	for hi < len(s.Bars) && !s.Bars[hi].TS.After(appliedEnd) {
		hi++
	}

	cov.AppliedStart = appliedStart
	cov.AppliedEnd = appliedEnd
	cov.BarCount = hi - lo
	return cov, lo, hi
}

func clamp(t, lo, hi time.Time) time.Time {
	if t.Before(lo) {
		return lo
	}
	if t.After(hi) {
		return hi
	}
	return t
}
