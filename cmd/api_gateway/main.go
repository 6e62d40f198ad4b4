// cmd/api_gateway serves the backtest HTTP API: strategy catalog, run
// endpoint, result journal, equity streaming, and Prometheus metrics.
package main

import (
	"log"
	"log/slog"
	"net/http"
	"time"

	"marketscanner-backtest/config"
	"marketscanner-backtest/internal/gateway"
	"marketscanner-backtest/internal/logger"
	"marketscanner-backtest/internal/metrics"
	"marketscanner-backtest/internal/provider"
	sqlitestore "marketscanner-backtest/internal/store/sqlite"
)

func main() {
	cfg := config.Load()
	slogger := logger.Init("api_gateway", slog.LevelInfo)

	writer, err := sqlitestore.New(sqlitestore.WriterConfig{DBPath: cfg.SQLitePath})
	if err != nil {
		log.Fatalf("[api_gateway] sqlite open failed: %v", err)
	}
	defer writer.Close()

	reader, err := sqlitestore.NewReader(cfg.SQLitePath)
	if err != nil {
		log.Fatalf("[api_gateway] sqlite reader failed: %v", err)
	}
	defer reader.Close()

	// Redis cache is best-effort: without it every fetch hits SQLite.
	var cache *provider.Cache
	if c, err := provider.NewCache(provider.CacheConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		TTL:      time.Duration(cfg.CacheTTLSeconds) * time.Second,
	}); err != nil {
		log.Printf("[api_gateway] redis unavailable, running uncached: %v", err)
	} else {
		cache = c
		defer cache.Close()
	}

	m := metrics.NewMetrics()
	go metrics.ServeMetrics(cfg.MetricsAddr)

	svc := provider.NewService(reader, cache)
	svc.OnCacheHit = func() { m.SeriesCacheHits.Inc() }
	svc.OnCacheMiss = func() { m.SeriesCacheMiss.Inc() }

	gw := &gateway.Gateway{
		Provider: svc,
		Writer:   writer,
		Reader:   reader,
		Metrics:  m,
		Log:      slogger,
	}

	mux := http.NewServeMux()
	gw.RegisterRoutes(mux)

	slogger.Info("listening", "addr", cfg.APIAddr)
	if err := http.ListenAndServe(cfg.APIAddr, mux); err != nil {
		log.Fatalf("[api_gateway] server error: %v", err)
	}
}
