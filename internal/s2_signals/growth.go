package s2_signals

import "github.com/wonny/qscreen/internal/contracts"

// GrowthScorer scores revenue, profit and EPS growth
// ⭐ SSOT: 성장성 점수 계산은 여기서만
type GrowthScorer struct {
	cfg ScorerConfig
}

// NewGrowthScorer creates a new growth scorer
func NewGrowthScorer(cfg ScorerConfig) *GrowthScorer {
	return &GrowthScorer{cfg: cfg}
}

// Component implements contracts.ComponentScorer
func (s *GrowthScorer) Component() contracts.Component {
	return contracts.ComponentGrowth
}

// Score implements contracts.ComponentScorer
func (s *GrowthScorer) Score(rec *contracts.StockRecord) contracts.ComponentScore {
	acc := newAccumulator(contracts.ComponentGrowth, s.cfg.shortfall())

	acc.higher("revenue_growth", rec.RevenueGrowth, s.cfg.MinRevenueGrowth)
	acc.higher("profit_growth", rec.ProfitGrowth, s.cfg.MinProfitGrowth)
	acc.higher("revenue_growth_qtr_yoy", rec.RevenueGrowthQtrYoY, s.cfg.MinRevenueGrowthQtrYoY)
	acc.higher("profit_growth_qtr_yoy", rec.ProfitGrowthQtrYoY, s.cfg.MinProfitGrowthQtrYoY)
	acc.higher("revenue_growth_qoq", rec.RevenueGrowthQoQ, s.cfg.MinRevenueGrowthQoQ)
	acc.higher("eps_growth_ttm", rec.EPSGrowthTTM, s.cfg.MinEPSGrowthTTM)

	return acc.result()
}
