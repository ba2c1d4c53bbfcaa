package selection

import (
	"sort"

	"github.com/wonny/qscreen/internal/contracts"
	"github.com/wonny/qscreen/pkg/logger"
)

// Ranking defaults
const (
	DefaultMinScore = 70.0
	DefaultLimit    = 30
)

// RankConfig controls the cutoff and result size
type RankConfig struct {
	MinScore float64 `json:"min_score"` // records below are dropped
	Limit    int     `json:"limit"`     // ≤ 0 means DefaultLimit
}

// DefaultRankConfig returns min score 70, limit 30
func DefaultRankConfig() RankConfig {
	return RankConfig{
		MinScore: DefaultMinScore,
		Limit:    DefaultLimit,
	}
}

// RankStats summarises one ranking pass
type RankStats struct {
	NoData    int `json:"no_data"`   // excluded, all four components without data
	BelowMin  int `json:"below_min"` // excluded by the score cutoff
	Qualified int `json:"qualified"` // survived the cutoff
	Returned  int `json:"returned"`  // after truncation
}

// Ranker implements S4: cutoff, ordering and truncation
// ⭐ SSOT: S4 랭킹 로직은 여기서만
type Ranker struct {
	config RankConfig
	logger *logger.Logger
}

// NewRanker creates a new ranker
func NewRanker(config RankConfig, logger *logger.Logger) *Ranker {
	if config.Limit <= 0 {
		config.Limit = DefaultLimit
	}
	return &Ranker{
		config: config,
		logger: logger,
	}
}

// Rank filters, sorts and truncates scored records and assigns 1-based ranks.
// The input slice is not reordered.
func (r *Ranker) Rank(scored []contracts.ScoredRecord) ([]contracts.ScoredRecord, RankStats) {
	var stats RankStats
	ranked := make([]contracts.ScoredRecord, 0, len(scored))

	for _, s := range scored {
		if s.Components.AllNoData() {
			stats.NoData++
			continue
		}
		if s.FinalScore < r.config.MinScore {
			stats.BelowMin++
			continue
		}
		ranked = append(ranked, s)
	}
	stats.Qualified = len(ranked)

	SortRanked(ranked)

	if len(ranked) > r.config.Limit {
		ranked = ranked[:r.config.Limit]
	}
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	stats.Returned = len(ranked)

	fields := map[string]interface{}{
		"qualified": stats.Qualified,
		"returned":  stats.Returned,
		"below_min": stats.BelowMin,
		"no_data":   stats.NoData,
		"min_score": r.config.MinScore,
	}
	if len(ranked) > 0 {
		fields["top_score"] = ranked[0].FinalScore
		fields["top_symbol"] = ranked[0].Record.Key()
	}
	r.logger.WithFields(fields).Info("Ranking completed")

	return ranked, stats
}

// SortRanked orders records by final score desc, market cap desc, then snapshot order
func SortRanked(ranked []contracts.ScoredRecord) {
	sort.SliceStable(ranked, func(i, j int) bool {
		return Less(&ranked[i], &ranked[j])
	})
}

// Less is the ranking comparator. Unknown market cap sorts after any known one.
func Less(a, b *contracts.ScoredRecord) bool {
	if a.FinalScore != b.FinalScore {
		return a.FinalScore > b.FinalScore
	}
	if c := compareDesc(a.Record.MarketCap, b.Record.MarketCap); c != 0 {
		return c < 0
	}
	return a.Ordinal < b.Ordinal
}

// compareDesc returns -1 when a sorts first, 1 when b sorts first, 0 when tied.
// Larger values sort first; unknown values sort last.
func compareDesc(a, b *float64) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case *a > *b:
		return -1
	case *a < *b:
		return 1
	default:
		return 0
	}
}
