package provider

import (
	"context"
	"fmt"
	"time"

	"marketscanner-backtest/internal/model"
	"marketscanner-backtest/internal/store/sqlite"
)

// Service serves price series through an ordered fallback chain:
// Redis cache, then the SQLite bar history. The serving source is recorded
// in the series' provenance tag.
type Service struct {
	cache  *Cache // optional
	reader *sqlite.Reader

	// Hooks for cache observability (optional).
	OnCacheHit  func()
	OnCacheMiss func()
}

// NewService creates a provider over the given store, with an optional
// cache in front (nil disables caching).
func NewService(reader *sqlite.Reader, cache *Cache) *Service {
	return &Service{cache: cache, reader: reader}
}

// Fetch returns the series for one symbol at its native resolution within
// [from, to].
func (s *Service) Fetch(ctx context.Context, symbol string, tfMinutes int, from, to time.Time) (model.Series, error) {
	if s.cache != nil {
		if cached := s.cache.Get(ctx, symbol, tfMinutes, from, to); cached != nil {
			if s.OnCacheHit != nil {
				s.OnCacheHit()
			}
			cached.Meta.Source = "cache"
			return *cached, nil
		}
		if s.OnCacheMiss != nil {
			s.OnCacheMiss()
		}
	}

	bars, source, err := s.reader.ReadBars(symbol, tfMinutes, from, to)
	if err != nil {
		return model.Series{}, fmt.Errorf("fetch %s: %w", symbol, err)
	}
	if source == "" {
		source = "sqlite"
	}

	series := model.Series{
		Symbol: symbol,
		Bars:   bars,
		Meta: model.SeriesMeta{
			Source:            source,
			ResolutionMinutes: tfMinutes,
			VolumeUnavailable: allZeroVolume(bars),
			CloseType:         "raw",
		},
	}

	if s.cache != nil && len(bars) > 0 {
		s.cache.Put(ctx, &series, tfMinutes, from, to)
	}
	return series, nil
}

// allZeroVolume flags providers that cannot supply volume at all.
func allZeroVolume(bars []model.Bar) bool {
	if len(bars) == 0 {
		return false
	}
	for _, b := range bars {
		if b.Volume != 0 {
			return false
		}
	}
	return true
}
