// Package provider is the provider-adapter boundary: it serves
// already-fetched OHLCV series to the engine, with a Redis read-through
// cache in front of the SQLite bar history and CSV files as a manual
// fallback. Whichever source serves the data stamps the series' provenance
// tag, which flows through the engine's result unchanged.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	goredis "github.com/go-redis/redis/v8"

	"marketscanner-backtest/internal/model"
)

// CacheConfig configures the Redis series cache.
type CacheConfig struct {
	Addr     string // Redis address, e.g. "localhost:6379"
	Password string
	DB       int
	TTL      time.Duration
}

// Cache is a TTL'd read-through cache of fetched series.
type Cache struct {
	client *goredis.Client
	ttl    time.Duration
}

// Client returns the underlying Redis client for health checks.
func (c *Cache) Client() *goredis.Client { return c.client }

// NewCache creates a series cache and pings the server.
func NewCache(cfg CacheConfig) (*Cache, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	log.Printf("[cache] connected to %s", cfg.Addr)
	return &Cache{client: client, ttl: cfg.TTL}, nil
}

// key builds the cache key for one (symbol, resolution, range) request.
func key(symbol string, tfMinutes int, from, to time.Time) string {
	return fmt.Sprintf("series:%s:%dm:%d:%d", symbol, tfMinutes, from.Unix(), to.Unix())
}

// Get returns the cached series, or nil on a miss. Cache errors degrade to
// a miss; the caller falls through to the underlying store.
func (c *Cache) Get(ctx context.Context, symbol string, tfMinutes int, from, to time.Time) *model.Series {
	data, err := c.client.Get(ctx, key(symbol, tfMinutes, from, to)).Bytes()
	if err != nil {
		if err != goredis.Nil {
			log.Printf("[cache] get error: %v", err)
		}
		return nil
	}

	var s model.Series
	if err := json.Unmarshal(data, &s); err != nil {
		log.Printf("[cache] corrupt entry for %s, dropping: %v", symbol, err)
		return nil
	}
	return &s
}

// Put stores a fetched series with the configured TTL. Best-effort.
func (c *Cache) Put(ctx context.Context, s *model.Series, tfMinutes int, from, to time.Time) {
	data, err := json.Marshal(s)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key(s.Symbol, tfMinutes, from, to), data, c.ttl).Err(); err != nil {
		log.Printf("[cache] set error: %v", err)
	}
}

// Close closes the Redis connection.
func (c *Cache) Close() error {
	return c.client.Close()
}
