package s2_signals

import "github.com/wonny/qscreen/internal/contracts"

// ValuationScorer scores how cheaply a record trades
// ⭐ SSOT: 밸류에이션 점수 계산은 여기서만
type ValuationScorer struct {
	cfg ScorerConfig
}

// NewValuationScorer creates a new valuation scorer
func NewValuationScorer(cfg ScorerConfig) *ValuationScorer {
	return &ValuationScorer{cfg: cfg}
}

// Component implements contracts.ComponentScorer
func (s *ValuationScorer) Component() contracts.Component {
	return contracts.ComponentValuation
}

// Score implements contracts.ComponentScorer
func (s *ValuationScorer) Score(rec *contracts.StockRecord) contracts.ComponentScore {
	acc := newAccumulator(contracts.ComponentValuation, s.cfg.shortfall())

	acc.lower("pe_ttm", rec.PETTM, s.cfg.MaxPETTM)
	acc.lower("pe_current", rec.PECurrent, s.cfg.MaxPECurrent)
	acc.lowerCapped("peg", rec.PEG, s.cfg.MaxPEG)
	acc.lower("pb", rec.PB, s.cfg.MaxPB)
	acc.lower("ps", rec.PS, s.cfg.MaxPS)
	// more days below the current P/E means the stock trades cheap vs its own history
	acc.ratioTo("pct_days_below_pe", rec.PctDaysBelowPE, s.cfg.MaxPctDaysBelowPE)

	return acc.result()
}
