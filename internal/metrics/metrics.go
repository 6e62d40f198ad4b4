package metrics

import (
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the backtest service.
type Metrics struct {
	BacktestsTotal  *prometheus.CounterVec // labels: strategy
	BacktestFailed  *prometheus.CounterVec // labels: reason
	BacktestDur     prometheus.Histogram
	BarsSimulated   prometheus.Counter
	TradesProduced  prometheus.Counter
	SeriesCacheHits prometheus.Counter
	SeriesCacheMiss prometheus.Counter
	ResultSaveDur   prometheus.Histogram
}

// NewMetrics registers and returns all Prometheus metrics.
func NewMetrics() *Metrics {
	m := &Metrics{
		BacktestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "backtest_runs_total",
			Help: "Completed backtest runs by strategy",
		}, []string{"strategy"}),
		BacktestFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "backtest_failures_total",
			Help: "Failed backtest runs by failure reason",
		}, []string{"reason"}),
		BacktestDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "backtest_run_duration_seconds",
			Help:    "End-to-end backtest run latency",
			Buckets: prometheus.DefBuckets,
		}),
		BarsSimulated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "backtest_bars_simulated_total",
			Help: "Total bars walked by the strategy loop",
		}),
		TradesProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "backtest_trades_total",
			Help: "Total closed trades produced",
		}),
		SeriesCacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "backtest_series_cache_hits_total",
			Help: "Price series served from the Redis cache",
		}),
		SeriesCacheMiss: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "backtest_series_cache_misses_total",
			Help: "Price series fetched past the Redis cache",
		}),
		ResultSaveDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "backtest_result_save_duration_seconds",
			Help:    "SQLite result journal write latency",
			Buckets: prometheus.DefBuckets,
		}),
	}

	prometheus.MustRegister(
		m.BacktestsTotal,
		m.BacktestFailed,
		m.BacktestDur,
		m.BarsSimulated,
		m.TradesProduced,
		m.SeriesCacheHits,
		m.SeriesCacheMiss,
		m.ResultSaveDur,
	)

	return m
}

// ServeMetrics starts the Prometheus /metrics endpoint on addr.
// Blocks; run in a goroutine.
func ServeMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	log.Printf("[metrics] serving /metrics on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Printf("[metrics] server error: %v", err)
	}
}
