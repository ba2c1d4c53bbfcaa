package brain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/wonny/qscreen/internal/contracts"
	"github.com/wonny/qscreen/internal/s2_signals"
	"github.com/wonny/qscreen/internal/selection"
	"github.com/wonny/qscreen/internal/strategyconfig"
	"github.com/wonny/qscreen/pkg/logger"
)

// Params is everything that determines a screening result besides the snapshot
type Params struct {
	Filter  selection.FilterConfig  `json:"filter"`
	Scorer  s2_signals.ScorerConfig `json:"scorer"`
	Weights selection.WeightConfig  `json:"weights"`
	Rank    selection.RankConfig    `json:"rank"`
	SortBy  selection.SortKey       `json:"sort_by,omitempty"`
}

// DefaultParams returns the built-in quality screen
func DefaultParams() Params {
	return ParamsFromStrategy(strategyconfig.Default())
}

// ParamsFromStrategy resolves a validated strategy into pipeline params
func ParamsFromStrategy(cfg *strategyconfig.Config) Params {
	stages := cfg.ToStageConfigs()
	return Params{
		Filter:  stages.Filter,
		Scorer:  stages.Scorer,
		Weights: stages.Weights,
		Rank:    stages.Rank,
		SortBy:  stages.SortBy,
	}
}

// Hash identifies params for caching (sha256 of canonical JSON)
func (p Params) Hash() (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("marshal params: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// PipelineResult holds one S1 → S4 pass over a snapshot
type PipelineResult struct {
	Generation      uint64                   `json:"generation"`
	Source          string                   `json:"source"`
	Screen          selection.ScreenStats    `json:"screen"`
	Rank            selection.RankStats      `json:"rank"`
	Results         []contracts.ScoredRecord `json:"results"`
	CompletedStages []string                 `json:"completed_stages"`
	Duration        time.Duration            `json:"duration"`
}

// Screen runs hard filters, component scorers, aggregation and ranking over one snapshot.
// An empty snapshot or a fully filtered one yields an empty result and no error.
func Screen(
	snap *contracts.Snapshot,
	filter selection.FilterConfig,
	scorer s2_signals.ScorerConfig,
	weights selection.WeightConfig,
	minScore float64,
	limit int,
) ([]contracts.ScoredRecord, error) {
	params := Params{
		Filter:  filter,
		Scorer:  scorer,
		Weights: weights,
		Rank:    selection.RankConfig{MinScore: minScore, Limit: limit},
	}
	result, err := RunPipeline(snap, params, logger.NewNop())
	if err != nil {
		return nil, err
	}
	return result.Results, nil
}

// RunPipeline executes S1 → S2 → S3 → S4. It has no side effects beyond logging.
func RunPipeline(snap *contracts.Snapshot, params Params, log *logger.Logger) (*PipelineResult, error) {
	start := time.Now()

	// 가중치 오류는 점수 계산 전에 실패
	aggregator, err := selection.NewAggregator(params.Weights, log.WithStage("S3"))
	if err != nil {
		return nil, err
	}

	result := &PipelineResult{
		Results:         make([]contracts.ScoredRecord, 0),
		CompletedStages: make([]string, 0, 4),
	}
	if snap != nil {
		result.Generation = snap.Generation
		result.Source = snap.Source
	}

	// S1: Hard Filter
	screener := selection.NewScreener(params.Filter, log.WithStage("S1"))
	passed, screenStats := screener.Screen(snap.Records())
	result.Screen = screenStats
	result.CompletedStages = append(result.CompletedStages, "S1:Screener")

	// S2: Component Scores
	// the trailing P/E scorer threshold follows the hard-filter bound unless set on its own
	if params.Scorer.MaxPETTM == nil {
		params.Scorer.MaxPETTM = params.Filter.MaxPETTM
	}
	scored := s2_signals.NewBuilder(params.Scorer, log.WithStage("S2")).Build(passed)
	result.CompletedStages = append(result.CompletedStages, "S2:Scorers")

	// S3: Final Score
	aggregator.Apply(scored)
	result.CompletedStages = append(result.CompletedStages, "S3:Aggregator")

	// S4: Ranking
	ranked, rankStats := selection.NewRanker(params.Rank, log.WithStage("S4")).Rank(scored)
	if params.SortBy != "" && params.SortBy != selection.SortByScore {
		ranked = selection.Reorder(ranked, params.SortBy)
	}
	result.Results = ranked
	result.Rank = rankStats
	result.CompletedStages = append(result.CompletedStages, "S4:Ranker")

	result.Duration = time.Since(start)
	return result, nil
}
