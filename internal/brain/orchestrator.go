package brain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wonny/qscreen/internal/contracts"
	"github.com/wonny/qscreen/internal/selection"
	"github.com/wonny/qscreen/pkg/logger"
	"github.com/wonny/qscreen/pkg/metrics"
	"github.com/wonny/qscreen/pkg/redis"
)

// ErrNoSnapshot is returned when no snapshot has been installed yet
var ErrNoSnapshot = errors.New("no snapshot loaded")

// RunStore persists screening runs
type RunStore interface {
	SaveRun(ctx context.Context, run *selection.Run) error
}

// Orchestrator runs the screening pipeline against the current snapshot
// ⭐ SSOT: 파이프라인 조율은 여기서만
type Orchestrator struct {
	snapshots contracts.SnapshotProvider

	cache    *redis.Cache
	cacheTTL time.Duration
	runs     RunStore
	metrics  *metrics.Metrics

	logger *logger.Logger
}

// Option configures an Orchestrator
type Option func(*Orchestrator)

// WithCache caches results per snapshot generation and params hash
func WithCache(cache *redis.Cache, ttl time.Duration) Option {
	return func(o *Orchestrator) {
		o.cache = cache
		o.cacheTTL = ttl
	}
}

// WithRunStore persists runs requested with RunConfig.Persist
func WithRunStore(store RunStore) Option {
	return func(o *Orchestrator) {
		o.runs = store
	}
}

// WithMetrics records pipeline metrics
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *Orchestrator) {
		o.metrics = m
	}
}

// NewOrchestrator creates a new orchestrator
func NewOrchestrator(snapshots contracts.SnapshotProvider, log *logger.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		snapshots: snapshots,
		cacheTTL:  redis.TTLMedium,
		logger:    log,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// RunConfig holds configuration for a pipeline run
type RunConfig struct {
	Params  Params
	Origin  string // api, cli, scheduler
	Persist bool   // save to the run store
	NoCache bool
}

// RunResult holds the results of a complete pipeline run
type RunResult struct {
	RunID      uuid.UUID `json:"run_id"`
	ParamsHash string    `json:"params_hash"`
	Cached     bool      `json:"cached"`
	Persisted  bool      `json:"persisted"`
	CreatedAt  time.Time `json:"created_at"`
	PipelineResult
}

// Run screens the current snapshot
func (o *Orchestrator) Run(ctx context.Context, config RunConfig) (result *RunResult, err error) {
	start := time.Now()
	cacheHit := false
	defer func() {
		status := "success"
		if err != nil {
			status = "error"
		}
		o.metrics.RecordScreen(config.Origin, cacheHit, status, time.Since(start))
	}()

	snap := o.snapshots.Current()
	if snap == nil {
		return nil, ErrNoSnapshot
	}

	hash, err := config.Params.Hash()
	if err != nil {
		return nil, err
	}
	key := redis.ScreenResultKey(snap.Generation, hash)

	if o.cache != nil && !config.NoCache {
		var cached RunResult
		hit, cerr := o.cache.Get(ctx, key, &cached)
		if cerr != nil {
			o.logger.WithError(cerr).Warn("Screen cache read failed")
		}
		if hit {
			cacheHit = true
			cached.Cached = true
			return &cached, nil
		}
	}

	o.logger.WithFields(map[string]interface{}{
		"generation":  snap.Generation,
		"records":     snap.Len(),
		"params_hash": hash[:12],
		"origin":      config.Origin,
	}).Info("Starting screening run")

	pipeline, err := RunPipeline(snap, config.Params, o.logger)
	if err != nil {
		return nil, fmt.Errorf("screening pipeline: %w", err)
	}

	result = &RunResult{
		RunID:          uuid.New(),
		ParamsHash:     hash,
		CreatedAt:      time.Now(),
		PipelineResult: *pipeline,
	}

	o.recordStages(result)

	if config.Persist && o.runs != nil {
		if err := o.runs.SaveRun(ctx, result.ToRun()); err != nil {
			// 저장 실패는 결과 반환을 막지 않음
			o.logger.WithError(err).Warn("Failed to persist screening run")
		} else {
			result.Persisted = true
		}
	}

	if o.cache != nil {
		if err := o.cache.Set(ctx, key, result, o.cacheTTL); err != nil {
			o.logger.WithError(err).Warn("Screen cache write failed")
		}
	}

	fields := map[string]interface{}{
		"run_id":   result.RunID.String(),
		"duration": result.Duration.Seconds(),
		"passed":   result.Screen.Passed,
		"returned": result.Rank.Returned,
	}
	if len(result.Results) > 0 {
		fields["top_symbol"] = result.Results[0].Record.Key()
		fields["top_score"] = result.Results[0].FinalScore
	}
	o.logger.WithFields(fields).Info("Screening run completed")

	return result, nil
}

func (o *Orchestrator) recordStages(r *RunResult) {
	o.metrics.RecordStageSize("input", r.Screen.TotalInput)
	o.metrics.RecordStageSize("filtered", r.Screen.Passed)
	o.metrics.RecordStageSize("qualified", r.Rank.Qualified)
	o.metrics.RecordStageSize("returned", r.Rank.Returned)
	o.metrics.RecordFilterRejections(r.Screen.Filtered)
	for _, s := range r.Results {
		o.metrics.RecordFinalScore(s.FinalScore)
	}
}

// ToRun converts a result into its persisted form
func (r *RunResult) ToRun() *selection.Run {
	return &selection.Run{
		ID:           r.RunID,
		CreatedAt:    r.CreatedAt,
		Generation:   r.Generation,
		StrategyHash: r.ParamsHash,
		Screen:       r.Screen,
		Rank:         r.Rank,
		Results:      r.Results,
	}
}

