package s0_data

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/wonny/qscreen/internal/contracts"
	"github.com/wonny/qscreen/internal/s0_data/quality"
	"github.com/wonny/qscreen/pkg/logger"
	"github.com/wonny/qscreen/pkg/metrics"
)

// RefreshResult summarises one refresh
type RefreshResult struct {
	Generation uint64          `json:"generation"`
	Source     string          `json:"source"`
	Loaded     int             `json:"loaded"`
	Accepted   int             `json:"accepted"`
	Rejected   int             `json:"rejected"` // failed identity validation
	Quality    *quality.Report `json:"quality,omitempty"`
	Duration   time.Duration   `json:"duration"`
}

// RefreshStatus is the outcome of the most recent refresh attempt
type RefreshStatus struct {
	LastAttempt time.Time      `json:"last_attempt"`
	LastSuccess time.Time      `json:"last_success"`
	LastError   string         `json:"last_error,omitempty"`
	LastResult  *RefreshResult `json:"last_result,omitempty"`
}

// Refresher loads a source, builds the next snapshot and installs it
// ⭐ SSOT: 스냅샷 갱신 흐름은 여기서만
//
// A failed refresh leaves the current snapshot in place.
type Refresher struct {
	source  contracts.SnapshotSource
	store   *Store
	gate    *quality.Gate
	index   *SearchIndex
	metrics *metrics.Metrics
	logger  *logger.Logger

	mu       sync.Mutex // one refresh at a time
	statusMu sync.RWMutex
	status   RefreshStatus
}

// RefresherOption configures optional collaborators
type RefresherOption func(*Refresher)

// WithQualityGate rejects snapshots that fail the gate
func WithQualityGate(gate *quality.Gate) RefresherOption {
	return func(r *Refresher) { r.gate = gate }
}

// WithSearchIndex rebuilds the index after every install
func WithSearchIndex(index *SearchIndex) RefresherOption {
	return func(r *Refresher) { r.index = index }
}

// WithMetrics records refresh metrics
func WithMetrics(m *metrics.Metrics) RefresherOption {
	return func(r *Refresher) { r.metrics = m }
}

// NewRefresher creates a new refresher
func NewRefresher(source contracts.SnapshotSource, store *Store, log *logger.Logger, opts ...RefresherOption) *Refresher {
	r := &Refresher{
		source: source,
		store:  store,
		logger: log.WithStage("S0"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Refresh performs one load-validate-install cycle
func (r *Refresher) Refresh(ctx context.Context) (*RefreshResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	start := time.Now()
	result, err := r.refresh(ctx)
	duration := time.Since(start)

	r.statusMu.Lock()
	r.status.LastAttempt = start
	if err != nil {
		r.status.LastError = err.Error()
	} else {
		result.Duration = duration
		r.status.LastSuccess = time.Now()
		r.status.LastError = ""
		r.status.LastResult = result
	}
	r.statusMu.Unlock()

	if err != nil {
		r.metrics.RecordRefresh(r.source.Name(), "error", duration)
		r.logger.WithError(err).WithFields(map[string]interface{}{
			"source":     r.source.Name(),
			"generation": r.store.Generation(),
		}).Error("Snapshot refresh failed, keeping previous snapshot")
		return nil, err
	}

	r.metrics.RecordRefresh(r.source.Name(), "ok", duration)
	r.metrics.SetSnapshot(result.Generation, result.Accepted)

	r.logger.WithFields(map[string]interface{}{
		"source":     result.Source,
		"generation": result.Generation,
		"loaded":     result.Loaded,
		"accepted":   result.Accepted,
		"rejected":   result.Rejected,
		"duration":   duration.String(),
	}).Info("Snapshot refreshed")

	return result, nil
}

func (r *Refresher) refresh(ctx context.Context) (*RefreshResult, error) {
	raw, err := r.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot from %s: %w", r.source.Name(), err)
	}

	records, rejected := r.prepare(raw)

	result := &RefreshResult{
		Source:   r.source.Name(),
		Loaded:   len(raw),
		Accepted: len(records),
		Rejected: rejected,
	}

	if r.gate != nil {
		report, err := r.gate.Check(records)
		result.Quality = report
		if err != nil {
			return nil, err
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snap := r.store.Install(records, r.source.Name())
	result.Generation = snap.Generation

	if r.index != nil {
		if err := r.index.Rebuild(snap); err != nil {
			// 검색 실패는 스냅샷 교체를 막지 않음
			r.logger.WithError(err).Warn("Search index rebuild failed")
		}
	}

	return result, nil
}

// prepare normalizes every record and drops those without identity
func (r *Refresher) prepare(raw []contracts.StockRecord) ([]contracts.StockRecord, int) {
	records := make([]contracts.StockRecord, 0, len(raw))
	rejected := 0
	for i := range raw {
		rec := raw[i].Normalize()
		if err := rec.Validate(); err != nil {
			rejected++
			if rejected <= 3 {
				r.logger.WithError(err).WithFields(map[string]interface{}{
					"row":    i,
					"name":   rec.Name,
					"symbol": rec.Symbol,
				}).Warn("Skipping record")
			}
			continue
		}
		records = append(records, rec)
	}
	if rejected > 3 {
		r.logger.WithField("rejected", rejected).Warn("Skipped records without identity")
	}
	return records, rejected
}

// Status returns the outcome of the most recent attempt
func (r *Refresher) Status() RefreshStatus {
	r.statusMu.RLock()
	defer r.statusMu.RUnlock()
	return r.status
}

// SourceName returns the configured source name
func (r *Refresher) SourceName() string {
	return r.source.Name()
}
