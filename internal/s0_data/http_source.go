package s0_data

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/wonny/qscreen/internal/contracts"
	"github.com/wonny/qscreen/pkg/httputil"
	"github.com/wonny/qscreen/pkg/logger"
	"github.com/wonny/qscreen/pkg/metrics"
)

// BreakerName labels the snapshot download breaker in logs and metrics
const BreakerName = "snapshot_http"

// ErrSourceUnavailable is returned while the circuit breaker rejects downloads
var ErrSourceUnavailable = errors.New("snapshot source unavailable")

// BreakerConfig holds circuit breaker settings
type BreakerConfig struct {
	MaxRequests uint32        // max requests allowed in half-open state
	Interval    time.Duration // cyclic period of the closed state to clear counts
	Timeout     time.Duration // period of the open state before half-open
	MinRequests uint32        // requests needed before the failure ratio counts
}

// DefaultBreakerConfig returns the download breaker defaults
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests: 1,
		Interval:    10 * time.Minute,
		Timeout:     time.Minute,
		MinRequests: 3,
	}
}

// HTTPSource downloads an export over HTTP
type HTTPSource struct {
	url     string
	format  string
	client  *httputil.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
	logger  *logger.Logger
}

// NewHTTPSource creates an HTTP source guarded by a circuit breaker
func NewHTTPSource(url, format string, client *httputil.Client, cfg BreakerConfig, m *metrics.Metrics, log *logger.Logger) *HTTPSource {
	settings := gobreaker.Settings{
		Name:        BreakerName,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= cfg.MinRequests && failureRatio >= 0.5
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.WithFields(map[string]interface{}{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Circuit breaker state change")

			m.SetCircuitBreakerState(name, stateToInt(to))
			if to == gobreaker.StateOpen {
				m.RecordCircuitBreakerTrip(name)
			}
		},
	}

	if format == "" {
		format = FormatCSV
	}

	return &HTTPSource{
		url:     url,
		format:  format,
		client:  client,
		breaker: gobreaker.NewCircuitBreaker[[]byte](settings),
		logger:  log,
	}
}

// Name returns the source name
func (s *HTTPSource) Name() string {
	return "http"
}

// Load downloads and parses the export
func (s *HTTPSource) Load(ctx context.Context) ([]contracts.StockRecord, error) {
	body, err := s.breaker.Execute(func() ([]byte, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return s.client.GetBytes(ctx, s.url)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			s.logger.WithField("breaker", BreakerName).Warn("Circuit breaker rejecting download")
			return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
		}
		return nil, fmt.Errorf("failed to download snapshot: %w", err)
	}

	header, rows, err := readTable(bytes.NewReader(body), s.format)
	if err != nil {
		return nil, fmt.Errorf("failed to read downloaded snapshot: %w", err)
	}

	return recordsFromTable(s.Name(), header, rows, s.logger)
}

// BreakerState returns the breaker state name
func (s *HTTPSource) BreakerState() string {
	return s.breaker.State().String()
}

// stateToInt converts a breaker state for metrics
// 0=closed, 1=half-open, 2=open
func stateToInt(state gobreaker.State) int {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
