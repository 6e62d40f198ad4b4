// Package gateway is the thin HTTP layer around the engine: request
// decoding, strategy listing, the result journal, and WebSocket equity
// streaming. Auth, billing and rate limiting live in front of it.
package gateway

import (
	"encoding/json"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"marketscanner-backtest/internal/engine"
	"marketscanner-backtest/internal/logger"
	"marketscanner-backtest/internal/metrics"
	"marketscanner-backtest/internal/model"
	"marketscanner-backtest/internal/perf"
	"marketscanner-backtest/internal/provider"
	"marketscanner-backtest/internal/registry"
	"marketscanner-backtest/internal/store/sqlite"
)

var upgrader = websocket.Upgrader{
	CheckOrigin:       func(r *http.Request) bool { return true },
	EnableCompression: true,
}

// SetCORS sets CORS headers for REST endpoints.
func SetCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

// Gateway wires the engine to its collaborators.
type Gateway struct {
	Provider *provider.Service
	Writer   *sqlite.Writer
	Reader   *sqlite.Reader
	Metrics  *metrics.Metrics
	Log      *slog.Logger
}

// BacktestRequest is the POST /api/backtest body.
type BacktestRequest struct {
	Symbol         string  `json:"symbol"`
	StrategyID     string  `json:"strategy_id"`
	Start          string  `json:"start"` // YYYY-MM-DD
	End            string  `json:"end"`
	Timeframe      string  `json:"timeframe"`
	InitialCapital float64 `json:"initial_capital"`

	// Native resolution of the stored bars to fetch, in minutes.
	SourceMinutes int `json:"source_minutes"`
}

// BacktestResponse wraps the engine result with journal id and optional
// inverse comparison.
type BacktestResponse struct {
	ID      int64                    `json:"id"`
	Result  *model.BacktestResult    `json:"result"`
	Inverse *model.InverseComparison `json:"inverse,omitempty"`
}

type strategyInfo struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Family       string `json:"family"`
	Direction    string `json:"direction"`
	Daily        bool   `json:"daily"`
	Intraday     bool   `json:"intraday"`
	SignalReplay bool   `json:"signal_replay"`
}

// RegisterRoutes registers all HTTP routes on the provided mux.
func (g *Gateway) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		SetCORS(w)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	mux.HandleFunc("/api/strategies", func(w http.ResponseWriter, r *http.Request) {
		SetCORS(w)
		w.Header().Set("Content-Type", "application/json")
		specs := registry.All()
		out := make([]strategyInfo, len(specs))
		for i, s := range specs {
			out[i] = strategyInfo{
				ID: s.ID, Name: s.Name, Family: string(s.Family),
				Direction: string(s.Direction),
				Daily:     s.Support.Daily, Intraday: s.Support.Intraday,
				SignalReplay: s.SignalReplay,
			}
		}
		json.NewEncoder(w).Encode(out)
	})

	mux.HandleFunc("/api/results", func(w http.ResponseWriter, r *http.Request) {
		SetCORS(w)
		w.Header().Set("Content-Type", "application/json")
		limit := 50
		if v := r.URL.Query().Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				limit = n
			}
		}
		results, err := g.Reader.ListResults(limit)
		if err != nil {
			http.Error(w, `{"error":"journal read failed"}`, http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(results)
	})

	mux.HandleFunc("/api/backtest", g.handleBacktest)
	mux.HandleFunc("/ws/equity", g.handleEquityStream)
}

func (g *Gateway) handleBacktest(w http.ResponseWriter, r *http.Request) {
	SetCORS(w)
	w.Header().Set("Content-Type", "application/json")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != "POST" {
		http.Error(w, `{"error":"POST only"}`, http.StatusMethodNotAllowed)
		return
	}

	var req BacktestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}

	start, err1 := time.Parse(model.DateLayout, req.Start)
	end, err2 := time.Parse(model.DateLayout, req.End)
	if err1 != nil || err2 != nil {
		http.Error(w, `{"error":"dates must be YYYY-MM-DD"}`, http.StatusBadRequest)
		return
	}

	ctx := logger.WithRunID(r.Context(), logger.GenerateRunID(req.Symbol, time.Now()))

	sourceMinutes := req.SourceMinutes
	if sourceMinutes <= 0 {
		sourceMinutes = 1440
	}
	series, err := g.Provider.Fetch(ctx, req.Symbol, sourceMinutes, start, end)
	if err != nil {
		g.Log.Error("series fetch failed", append(logger.LogWithRun(ctx), "err", err)...)
		http.Error(w, `{"error":"price data unavailable"}`, http.StatusBadGateway)
		return
	}

	began := time.Now()
	result, err := engine.Run(engine.Request{
		Symbol:         req.Symbol,
		StrategyID:     req.StrategyID,
		Start:          start,
		End:            end,
		Timeframe:      req.Timeframe,
		InitialCapital: req.InitialCapital,
		Series:         series,
	})
	if err != nil {
		g.Metrics.BacktestFailed.WithLabelValues(failureReason(err)).Inc()
		status := http.StatusUnprocessableEntity
		if errors.Is(err, engine.ErrUnknownStrategy) {
			status = http.StatusNotFound
		}
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}

	g.Metrics.BacktestsTotal.WithLabelValues(req.StrategyID).Inc()
	g.Metrics.BacktestDur.Observe(time.Since(began).Seconds())
	g.Metrics.BarsSimulated.Add(float64(result.Coverage.BarCount))
	g.Metrics.TradesProduced.Add(float64(result.TotalTrades))

	saveStart := time.Now()
	id, err := g.Writer.SaveResult(result)
	if err != nil {
		g.Log.Error("result save failed", append(logger.LogWithRun(ctx), "err", err)...)
	}
	g.Metrics.ResultSaveDur.Observe(time.Since(saveStart).Seconds())

	resp := BacktestResponse{ID: id, Result: result}
	if r.URL.Query().Get("inverse") == "1" {
		cmp := perf.BuildInverse(result)
		resp.Inverse = &cmp
	}

	g.Log.Info("backtest complete", append(logger.LogWithRun(ctx),
		"symbol", req.Symbol, "strategy", req.StrategyID,
		"trades", result.TotalTrades, "bars", result.Coverage.BarCount,
		"elapsed", time.Since(began).String())...)

	json.NewEncoder(w).Encode(resp)
}

// handleEquityStream replays a saved run's equity curve point-by-point over
// a WebSocket, for chart animation in the UI.
func (g *Gateway) handleEquityStream(w http.ResponseWriter, r *http.Request) {
	idStr := r.URL.Query().Get("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		http.Error(w, `{"error":"missing or invalid id"}`, http.StatusBadRequest)
		return
	}

	result, err := g.Reader.ReadResult(id)
	if err != nil || result == nil {
		http.Error(w, `{"error":"result not found"}`, http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[gateway] ws upgrade error: %v", err)
		return
	}
	defer conn.Close()

	for _, point := range result.EquityCurve {
		if err := conn.WriteJSON(point); err != nil {
			return
		}
	}
	conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "done"))
}

// failureReason maps engine errors onto the bounded metric label set.
func failureReason(err error) string {
	switch {
	case errors.Is(err, engine.ErrInsufficientData):
		return "insufficient_data"
	case errors.Is(err, engine.ErrUnsupportedTimeframe):
		return "unsupported_timeframe"
	case errors.Is(err, engine.ErrIncompatibleTimeframe):
		return "incompatible_timeframe"
	case errors.Is(err, engine.ErrSignalReplayStrategy):
		return "signal_replay"
	case errors.Is(err, engine.ErrUnknownStrategy):
		return "unknown_strategy"
	case errors.Is(err, engine.ErrInvalidRequest):
		return "invalid_request"
	default:
		return "internal"
	}
}
