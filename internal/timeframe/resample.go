package timeframe

import (
	"time"

	"marketscanner-backtest/internal/model"
)

// Resample aggregates finer source bars into target-duration buckets.
// No-op when target <= source. Each source bar lands in the bucket
// floor(ts/target)·target; within a bucket open = first bar's open,
// high = max, low = min, close = last bar's close, volume = sum.
// Input order is preserved, so output bars stay chronologically ascending.
func Resample(s *model.Series, targetMinutes, sourceMinutes int) model.Series {
	if targetMinutes <= sourceMinutes || len(s.Bars) == 0 {
		return *s
	}

	bucketSec := int64(targetMinutes) * 60
	out := make([]model.Bar, 0, len(s.Bars)/2+1)

	var cur *model.Bar
	var curBucket int64

	for _, b := range s.Bars {
		bucket := b.TS.Unix() / bucketSec * bucketSec
		if cur == nil || bucket != curBucket {
			out = append(out, model.Bar{
				TS:     time.Unix(bucket, 0).UTC(),
				Open:   b.Open,
				High:   b.High,
				Low:    b.Low,
				Close:  b.Close,
				Volume: b.Volume,
			})
			cur = &out[len(out)-1]
			curBucket = bucket
			continue
		}

		if b.High > cur.High {
			cur.High = b.High
		}
		if b.Low < cur.Low {
			cur.Low = b.Low
		}
		cur.Close = b.Close
		cur.Volume += b.Volume
	}

	res := model.Series{Symbol: s.Symbol, Bars: out, Meta: s.Meta}
	res.Meta.ResolutionMinutes = targetMinutes
	return res
}
