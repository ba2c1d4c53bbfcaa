package api

import (
	"bufio"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wonny/qscreen/internal/api/handlers"
	"github.com/wonny/qscreen/pkg/logger"
	"github.com/wonny/qscreen/pkg/metrics"
)

// Handlers groups the endpoint handlers served by the router
type Handlers struct {
	Data   *handlers.DataHandler
	Stock  *handlers.StockHandler
	Screen *handlers.ScreenHandler
	Feed   *handlers.FeedHandler
}

// NewRouter creates and configures the HTTP router.
// /metrics is served only when m is non-nil.
// ⭐ SSOT: 라우팅 설정은 이 함수에서만
func NewRouter(h Handlers, m *metrics.Metrics, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", h.Data.Health).Methods("GET")

	if m != nil {
		r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	}

	// Snapshot feed
	r.HandleFunc("/ws/snapshot", h.Feed.ServeSnapshotFeed).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	// Stock endpoints (static paths before {symbol})
	api.HandleFunc("/stocks", h.Stock.ListStocks).Methods("GET")
	api.HandleFunc("/stocks/search", h.Stock.SearchStocks).Methods("GET")
	api.HandleFunc("/stocks/isin/{isin}", h.Stock.GetStockByISIN).Methods("GET")
	api.HandleFunc("/stocks/{symbol}", h.Stock.GetStockBySymbol).Methods("GET")

	// Screening endpoints
	api.HandleFunc("/screen/quality", h.Screen.GetQualityStocks).Methods("GET")
	api.HandleFunc("/screen", h.Screen.Screen).Methods("POST")
	api.HandleFunc("/screen/runs/latest", h.Screen.GetLatestRun).Methods("GET")

	// Snapshot endpoints
	api.HandleFunc("/snapshot/reload", h.Data.Reload).Methods("POST")
	api.HandleFunc("/stats", h.Data.GetStats).Methods("GET")

	// Apply middleware
	r.Use(loggingMiddleware(log, m))
	r.Use(recoveryMiddleware(log))

	return r
}

// statusRecorder captures the response status for logging and metrics
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Hijack lets the websocket upgrader take over the connection
func (s *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := s.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	s.status = http.StatusSwitchingProtocols
	return hj.Hijack()
}

// loggingMiddleware logs HTTP requests and records request metrics
func loggingMiddleware(log *logger.Logger, m *metrics.Metrics) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			// Call next handler
			next.ServeHTTP(rec, r)

			route := r.URL.Path
			if cur := mux.CurrentRoute(r); cur != nil {
				if tpl, err := cur.GetPathTemplate(); err == nil {
					route = tpl
				}
			}
			duration := time.Since(start)
			m.RecordHTTPRequest(r.Method, route, strconv.Itoa(rec.status), duration)

			// Log request
			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"status":   rec.status,
				"duration": duration,
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
