package s2_signals

import "github.com/wonny/qscreen/internal/contracts"

// ProfitabilityScorer scores returns, margins and financial health
// ⭐ SSOT: 수익성 점수 계산은 여기서만
type ProfitabilityScorer struct {
	cfg ScorerConfig
}

// NewProfitabilityScorer creates a new profitability scorer
func NewProfitabilityScorer(cfg ScorerConfig) *ProfitabilityScorer {
	return &ProfitabilityScorer{cfg: cfg}
}

// Component implements contracts.ComponentScorer
func (s *ProfitabilityScorer) Component() contracts.Component {
	return contracts.ComponentProfitability
}

// Score implements contracts.ComponentScorer
func (s *ProfitabilityScorer) Score(rec *contracts.StockRecord) contracts.ComponentScore {
	acc := newAccumulator(contracts.ComponentProfitability, s.cfg.shortfall())

	acc.higher("roe", rec.ROE, s.cfg.MinROE)
	acc.higher("roa", rec.ROA, s.cfg.MinROA)
	acc.higher("net_margin", rec.NetMargin, s.cfg.MinNetMargin)
	acc.higher("operating_margin", rec.OperatingMargin, s.cfg.MinOperatingMargin)
	acc.higher("operating_margin_qtr", rec.OperatingMarginQtr, s.cfg.MinOperatingMarginQtr)
	acc.scaled("financial_health", rec.FinancialHealth, contracts.FinancialHealthMax)

	return acc.result()
}
