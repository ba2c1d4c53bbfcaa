package selection

import (
	"github.com/wonny/qscreen/internal/contracts"
	"github.com/wonny/qscreen/pkg/logger"
)

// MissingPolicy decides what a filter does when its metric is unknown
type MissingPolicy string

const (
	// MissingRetain lets unknown metrics pass the filter (default)
	MissingRetain MissingPolicy = "retain"
	// MissingReject treats an unknown metric as a failed filter
	MissingReject MissingPolicy = "reject"
)

// Filter names reported in screening stats
const (
	FilterMinMarketCap       = "min_market_cap"
	FilterMaxMarketCap       = "max_market_cap"
	FilterMaxPETTM           = "max_pe_ttm"
	FilterMaxPEVsSector      = "max_pe_vs_sector"
	FilterMaxPEVsIndustry    = "max_pe_vs_industry"
	FilterMinROE             = "min_roe"
	FilterMinFinancialHealth = "min_financial_health"
	FilterMinRevenueGrowth   = "min_revenue_growth"
	FilterMinProfitGrowth    = "min_profit_growth"
	FilterMinRevenueQtrYoY   = "min_revenue_growth_qtr_yoy"
	FilterMinGrowthVsSector  = "min_growth_vs_sector"
	FilterMinProfitVsSector  = "min_profit_growth_vs_sector"
	FilterMinDurability      = "min_durability"
	FilterMinValuationScore  = "min_valuation_score"
)

// Screener implements S1: hard filtering
// ⭐ SSOT: 하드 필터 로직은 여기서만
type Screener struct {
	config FilterConfig
	rules  []filterRule
	logger *logger.Logger
}

// FilterConfig defines hard cut conditions. A nil bound disables that filter.
// Momentum is deliberately not filterable.
type FilterConfig struct {
	MinMarketCap *float64 `json:"min_market_cap,omitempty"`
	MaxMarketCap *float64 `json:"max_market_cap,omitempty"`

	// Valuation
	MaxPETTM        *float64 `json:"max_pe_ttm,omitempty"`         // 30
	MaxPEVsSector   *float64 `json:"max_pe_vs_sector,omitempty"`   // 1.2 = 120% of sector P/E
	MaxPEVsIndustry *float64 `json:"max_pe_vs_industry,omitempty"` // off

	// Profitability
	MinROE             *float64 `json:"min_roe,omitempty"`              // 12%
	MinFinancialHealth *float64 `json:"min_financial_health,omitempty"` // 6 of 9

	// Growth
	MinRevenueGrowth        *float64 `json:"min_revenue_growth,omitempty"`          // 10%
	MinProfitGrowth         *float64 `json:"min_profit_growth,omitempty"`           // 12%
	MinRevenueGrowthQtrYoY  *float64 `json:"min_revenue_growth_qtr_yoy,omitempty"`  // 8%
	MinGrowthVsSector       *float64 `json:"min_growth_vs_sector,omitempty"`        // 1.1 = 110% of sector growth
	MinProfitGrowthVsSector *float64 `json:"min_profit_growth_vs_sector,omitempty"` // off

	// Analytical scores
	MinDurability     *float64 `json:"min_durability,omitempty"`      // 65
	MinValuationScore *float64 `json:"min_valuation_score,omitempty"` // 60

	Missing MissingPolicy `json:"missing,omitempty"`
}

// DefaultFilterConfig returns the quality screen defaults
func DefaultFilterConfig() FilterConfig {
	return FilterConfig{
		MaxPETTM:               contracts.Metric(30),
		MaxPEVsSector:          contracts.Metric(1.2),
		MinROE:                 contracts.Metric(12),
		MinFinancialHealth:     contracts.Metric(6),
		MinRevenueGrowth:       contracts.Metric(10),
		MinProfitGrowth:        contracts.Metric(12),
		MinRevenueGrowthQtrYoY: contracts.Metric(8),
		MinGrowthVsSector:      contracts.Metric(1.1),
		MinDurability:          contracts.Metric(65),
		MinValuationScore:      contracts.Metric(60),
		Missing:                MissingRetain,
	}
}

// filterRule is one bound check against one (possibly derived) metric
type filterRule struct {
	name   string
	bound  *float64
	upper  bool // true: value ≤ bound, false: value ≥ bound
	metric func(r *contracts.StockRecord) *float64
}

// ScreenStats summarises one screening pass
type ScreenStats struct {
	TotalInput int            `json:"total_input"`
	Passed     int            `json:"passed"`
	Filtered   map[string]int `json:"filtered"` // filter name -> rejected count
}

// NewScreener creates a new screener
func NewScreener(config FilterConfig, logger *logger.Logger) *Screener {
	return &Screener{
		config: config,
		rules:  buildRules(config),
		logger: logger,
	}
}

func buildRules(c FilterConfig) []filterRule {
	all := []filterRule{
		{FilterMinMarketCap, c.MinMarketCap, false, func(r *contracts.StockRecord) *float64 { return r.MarketCap }},
		{FilterMaxMarketCap, c.MaxMarketCap, true, func(r *contracts.StockRecord) *float64 { return r.MarketCap }},
		{FilterMaxPETTM, c.MaxPETTM, true, func(r *contracts.StockRecord) *float64 { return r.PETTM }},
		{FilterMaxPEVsSector, c.MaxPEVsSector, true, func(r *contracts.StockRecord) *float64 {
			return contracts.Ratio(r.PETTM, r.SectorPE)
		}},
		{FilterMaxPEVsIndustry, c.MaxPEVsIndustry, true, func(r *contracts.StockRecord) *float64 {
			return contracts.Ratio(r.PETTM, r.IndustryPE)
		}},
		{FilterMinROE, c.MinROE, false, func(r *contracts.StockRecord) *float64 { return r.ROE }},
		{FilterMinFinancialHealth, c.MinFinancialHealth, false, func(r *contracts.StockRecord) *float64 { return r.FinancialHealth }},
		{FilterMinRevenueGrowth, c.MinRevenueGrowth, false, func(r *contracts.StockRecord) *float64 { return r.RevenueGrowth }},
		{FilterMinProfitGrowth, c.MinProfitGrowth, false, func(r *contracts.StockRecord) *float64 { return r.ProfitGrowth }},
		{FilterMinRevenueQtrYoY, c.MinRevenueGrowthQtrYoY, false, func(r *contracts.StockRecord) *float64 { return r.RevenueGrowthQtrYoY }},
		{FilterMinGrowthVsSector, c.MinGrowthVsSector, false, func(r *contracts.StockRecord) *float64 {
			return contracts.Ratio(r.RevenueGrowth, r.SectorRevenueGrowth)
		}},
		{FilterMinProfitVsSector, c.MinProfitGrowthVsSector, false, func(r *contracts.StockRecord) *float64 {
			return contracts.Ratio(r.ProfitGrowth, r.SectorProfitGrowth)
		}},
		{FilterMinDurability, c.MinDurability, false, func(r *contracts.StockRecord) *float64 { return r.Durability }},
		{FilterMinValuationScore, c.MinValuationScore, false, func(r *contracts.StockRecord) *float64 { return r.ValuationScore }},
	}

	active := make([]filterRule, 0, len(all))
	for _, rule := range all {
		if rule.bound != nil {
			active = append(active, rule)
		}
	}
	return active
}

// Screen applies the hard filters and returns the survivors in input order.
// The input slice is never modified.
func (s *Screener) Screen(records []contracts.StockRecord) ([]contracts.StockRecord, ScreenStats) {
	passed := make([]contracts.StockRecord, 0, len(records))
	filtered := make(map[string]int)

	for i := range records {
		if reason := s.checkConditions(&records[i]); reason != "" {
			filtered[reason]++
			continue
		}
		passed = append(passed, records[i])
	}

	stats := ScreenStats{
		TotalInput: len(records),
		Passed:     len(passed),
		Filtered:   filtered,
	}

	s.logger.WithFields(map[string]interface{}{
		"total_input":  stats.TotalInput,
		"passed":       stats.Passed,
		"filtered_out": stats.TotalInput - stats.Passed,
		"filters":      filtered,
		"missing":      s.missingPolicy(),
	}).Info("Screening completed")

	return passed, stats
}

// Passes reports whether a single record survives every filter
func (s *Screener) Passes(rec *contracts.StockRecord) bool {
	return s.checkConditions(rec) == ""
}

// checkConditions returns "" if the record passes, otherwise the first failed filter name
func (s *Screener) checkConditions(rec *contracts.StockRecord) string {
	for _, rule := range s.rules {
		v := rule.metric(rec)
		if v == nil {
			if s.missingPolicy() == MissingReject {
				return rule.name
			}
			continue
		}
		if rule.upper && *v > *rule.bound {
			return rule.name
		}
		if !rule.upper && *v < *rule.bound {
			return rule.name
		}
	}
	return ""
}

func (s *Screener) missingPolicy() MissingPolicy {
	if s.config.Missing == MissingReject {
		return MissingReject
	}
	return MissingRetain
}
