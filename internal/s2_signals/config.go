package s2_signals

import "github.com/wonny/qscreen/internal/contracts"

// ShortfallPolicy decides how a present metric that misses its threshold is scored
type ShortfallPolicy string

const (
	// ShortfallZero counts the metric with a score of 0
	ShortfallZero ShortfallPolicy = "zero"
	// ShortfallExclude drops the metric from the average
	ShortfallExclude ShortfallPolicy = "exclude"
)

// ScorerConfig holds per-metric thresholds for the four component scorers
// ⭐ SSOT: 스코어러 임계값은 여기서만 정의
//
// A nil threshold makes the metric inapplicable.
type ScorerConfig struct {
	// Valuation (lower is better, except PctDaysBelowPE)
	MaxPETTM          *float64 `json:"max_pe_ttm,omitempty"`
	MaxPECurrent      *float64 `json:"max_pe_current,omitempty"`
	MaxPEG            *float64 `json:"max_peg,omitempty"`
	MaxPB             *float64 `json:"max_pb,omitempty"`
	MaxPS             *float64 `json:"max_ps,omitempty"`
	MaxPctDaysBelowPE *float64 `json:"max_pct_days_below_pe,omitempty"`

	// Profitability (higher is better, capped at 2× minimum)
	MinROE                *float64 `json:"min_roe,omitempty"`
	MinROA                *float64 `json:"min_roa,omitempty"`
	MinNetMargin          *float64 `json:"min_net_margin,omitempty"`
	MinOperatingMargin    *float64 `json:"min_operating_margin,omitempty"`
	MinOperatingMarginQtr *float64 `json:"min_operating_margin_qtr,omitempty"`

	// Growth (higher is better, capped at 2× minimum)
	MinRevenueGrowth       *float64 `json:"min_revenue_growth,omitempty"`
	MinProfitGrowth        *float64 `json:"min_profit_growth,omitempty"`
	MinRevenueGrowthQtrYoY *float64 `json:"min_revenue_growth_qtr_yoy,omitempty"`
	MinProfitGrowthQtrYoY  *float64 `json:"min_profit_growth_qtr_yoy,omitempty"`
	MinRevenueGrowthQoQ    *float64 `json:"min_revenue_growth_qoq,omitempty"`
	MinEPSGrowthTTM        *float64 `json:"min_eps_growth_ttm,omitempty"`

	Shortfall ShortfallPolicy `json:"shortfall,omitempty"`
}

// DefaultScorerConfig returns the thresholds implied by the default hard filters.
// Metrics without a default filter stay unset until a strategy configures them.
func DefaultScorerConfig() ScorerConfig {
	return ScorerConfig{
		MaxPETTM:               contracts.Metric(30),
		MinROE:                 contracts.Metric(12),
		MinRevenueGrowth:       contracts.Metric(10),
		MinProfitGrowth:        contracts.Metric(12),
		MinRevenueGrowthQtrYoY: contracts.Metric(8),
		Shortfall:              ShortfallZero,
	}
}

func (c ScorerConfig) shortfall() ShortfallPolicy {
	if c.Shortfall == ShortfallExclude {
		return ShortfallExclude
	}
	return ShortfallZero
}
