package s2_signals

import (
	"github.com/wonny/qscreen/internal/contracts"
	"github.com/wonny/qscreen/pkg/logger"
)

// Builder runs all component scorers over a set of records
// ⭐ SSOT: 컴포넌트 점수 생성 오케스트레이션은 여기서만
type Builder struct {
	scorers []contracts.ComponentScorer
	logger  *logger.Logger
}

// NewBuilder creates a builder with the four standard scorers
func NewBuilder(cfg ScorerConfig, log *logger.Logger) *Builder {
	return NewBuilderWithScorers(log,
		NewValuationScorer(cfg),
		NewProfitabilityScorer(cfg),
		NewGrowthScorer(cfg),
		NewQualityIndexScorer(),
	)
}

// NewBuilderWithScorers creates a builder from explicit scorers
func NewBuilderWithScorers(log *logger.Logger, scorers ...contracts.ComponentScorer) *Builder {
	return &Builder{
		scorers: scorers,
		logger:  log,
	}
}

// ScoreRecord computes every component score for one record
func (b *Builder) ScoreRecord(rec *contracts.StockRecord) contracts.ComponentSet {
	var set contracts.ComponentSet
	for _, c := range contracts.Components {
		set.Set(contracts.ComponentScore{Component: c, NoData: true})
	}
	for _, scorer := range b.scorers {
		set.Set(scorer.Score(rec))
	}
	return set
}

// Build scores records in order. FinalScore is left for the aggregator.
func (b *Builder) Build(records []contracts.StockRecord) []contracts.ScoredRecord {
	out := make([]contracts.ScoredRecord, len(records))
	noData := 0

	for i := range records {
		out[i] = contracts.ScoredRecord{
			Record:     records[i],
			Components: b.ScoreRecord(&records[i]),
			Ordinal:    i,
		}
		if out[i].Components.AllNoData() {
			noData++
		}
	}

	b.logger.WithFields(map[string]interface{}{
		"records": len(records),
		"no_data": noData,
	}).Debug("Computed component scores")

	return out
}
