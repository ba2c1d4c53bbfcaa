package s2_signals

import "github.com/wonny/qscreen/internal/contracts"

// QualityIndexScorer averages the third-party analytical scores
// ⭐ SSOT: 퀄리티 지수 점수 계산은 여기서만
//
// Momentum is averaged here even though it is never a hard filter.
type QualityIndexScorer struct{}

// NewQualityIndexScorer creates a new quality-index scorer
func NewQualityIndexScorer() *QualityIndexScorer {
	return &QualityIndexScorer{}
}

// Component implements contracts.ComponentScorer
func (s *QualityIndexScorer) Component() contracts.Component {
	return contracts.ComponentQuality
}

// Score implements contracts.ComponentScorer
func (s *QualityIndexScorer) Score(rec *contracts.StockRecord) contracts.ComponentScore {
	// pass-through metrics have no threshold, so the shortfall policy never applies
	acc := newAccumulator(contracts.ComponentQuality, ShortfallExclude)

	acc.scaled("durability", rec.Durability, contracts.AnalyticalScoreMax)
	acc.scaled("valuation_score", rec.ValuationScore, contracts.AnalyticalScoreMax)
	acc.scaled("momentum", rec.Momentum, contracts.AnalyticalScoreMax)

	return acc.result()
}
