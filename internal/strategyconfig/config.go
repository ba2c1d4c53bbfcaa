package strategyconfig

import "time"

// Config는 품질 스크리닝 전략의 전체 설정
// A nil threshold disables the corresponding filter or scored metric.
type Config struct {
	Meta        Meta        `yaml:"meta" json:"meta"`
	Filters     Filters     `yaml:"filters" json:"filters"`
	Scoring     Scoring     `yaml:"scoring" json:"scoring"`
	Weights     Weights     `yaml:"weights" json:"weights"`
	Ranking     Ranking     `yaml:"ranking" json:"ranking"`
	QualityGate QualityGate `yaml:"quality_gate" json:"quality_gate"`
}

// Meta 메타 정보
type Meta struct {
	StrategyID  string `yaml:"strategy_id" json:"strategy_id"`
	Version     string `yaml:"version" json:"version"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Filters S1: Hard Cut
type Filters struct {
	MissingPolicy string `yaml:"missing_policy" json:"missing_policy"` // retain | reject

	MinMarketCap *float64 `yaml:"min_market_cap,omitempty" json:"min_market_cap,omitempty"`
	MaxMarketCap *float64 `yaml:"max_market_cap,omitempty" json:"max_market_cap,omitempty"`

	MaxPETTM        *float64 `yaml:"max_pe_ttm,omitempty" json:"max_pe_ttm,omitempty"`
	MaxPEVsSector   *float64 `yaml:"max_pe_vs_sector,omitempty" json:"max_pe_vs_sector,omitempty"`
	MaxPEVsIndustry *float64 `yaml:"max_pe_vs_industry,omitempty" json:"max_pe_vs_industry,omitempty"`

	MinROE             *float64 `yaml:"min_roe,omitempty" json:"min_roe,omitempty"`
	MinFinancialHealth *float64 `yaml:"min_financial_health,omitempty" json:"min_financial_health,omitempty"`

	MinRevenueGrowth        *float64 `yaml:"min_revenue_growth,omitempty" json:"min_revenue_growth,omitempty"`
	MinProfitGrowth         *float64 `yaml:"min_profit_growth,omitempty" json:"min_profit_growth,omitempty"`
	MinRevenueGrowthQtrYoY  *float64 `yaml:"min_revenue_growth_qtr_yoy,omitempty" json:"min_revenue_growth_qtr_yoy,omitempty"`
	MinGrowthVsSector       *float64 `yaml:"min_growth_vs_sector,omitempty" json:"min_growth_vs_sector,omitempty"`
	MinProfitGrowthVsSector *float64 `yaml:"min_profit_growth_vs_sector,omitempty" json:"min_profit_growth_vs_sector,omitempty"`

	MinDurability     *float64 `yaml:"min_durability,omitempty" json:"min_durability,omitempty"`
	MinValuationScore *float64 `yaml:"min_valuation_score,omitempty" json:"min_valuation_score,omitempty"`
}

// Scoring S2: 컴포넌트 스코어러 임계값
type Scoring struct {
	ShortfallPolicy string        `yaml:"shortfall_policy" json:"shortfall_policy"` // zero | exclude
	Valuation       Valuation     `yaml:"valuation" json:"valuation"`
	Profitability   Profitability `yaml:"profitability" json:"profitability"`
	Growth          Growth        `yaml:"growth" json:"growth"`
}

type Valuation struct {
	MaxPETTM          *float64 `yaml:"max_pe_ttm,omitempty" json:"max_pe_ttm,omitempty"`
	MaxPECurrent      *float64 `yaml:"max_pe_current,omitempty" json:"max_pe_current,omitempty"`
	MaxPEG            *float64 `yaml:"max_peg,omitempty" json:"max_peg,omitempty"`
	MaxPB             *float64 `yaml:"max_pb,omitempty" json:"max_pb,omitempty"`
	MaxPS             *float64 `yaml:"max_ps,omitempty" json:"max_ps,omitempty"`
	MaxPctDaysBelowPE *float64 `yaml:"max_pct_days_below_pe,omitempty" json:"max_pct_days_below_pe,omitempty"`
}

type Profitability struct {
	MinROE                *float64 `yaml:"min_roe,omitempty" json:"min_roe,omitempty"`
	MinROA                *float64 `yaml:"min_roa,omitempty" json:"min_roa,omitempty"`
	MinNetMargin          *float64 `yaml:"min_net_margin,omitempty" json:"min_net_margin,omitempty"`
	MinOperatingMargin    *float64 `yaml:"min_operating_margin,omitempty" json:"min_operating_margin,omitempty"`
	MinOperatingMarginQtr *float64 `yaml:"min_operating_margin_qtr,omitempty" json:"min_operating_margin_qtr,omitempty"`
}

type Growth struct {
	MinRevenueGrowth       *float64 `yaml:"min_revenue_growth,omitempty" json:"min_revenue_growth,omitempty"`
	MinProfitGrowth        *float64 `yaml:"min_profit_growth,omitempty" json:"min_profit_growth,omitempty"`
	MinRevenueGrowthQtrYoY *float64 `yaml:"min_revenue_growth_qtr_yoy,omitempty" json:"min_revenue_growth_qtr_yoy,omitempty"`
	MinProfitGrowthQtrYoY  *float64 `yaml:"min_profit_growth_qtr_yoy,omitempty" json:"min_profit_growth_qtr_yoy,omitempty"`
	MinRevenueGrowthQoQ    *float64 `yaml:"min_revenue_growth_qoq,omitempty" json:"min_revenue_growth_qoq,omitempty"`
	MinEPSGrowthTTM        *float64 `yaml:"min_eps_growth_ttm,omitempty" json:"min_eps_growth_ttm,omitempty"`
}

// Weights S3: 컴포넌트 가중치 (합이 1일 필요 없음, 합으로 정규화)
type Weights struct {
	Valuation             float64 `yaml:"valuation" json:"valuation"`
	Profitability         float64 `yaml:"profitability" json:"profitability"`
	Growth                float64 `yaml:"growth" json:"growth"`
	Quality               float64 `yaml:"quality" json:"quality"`
	SkipMissingComponents bool    `yaml:"skip_missing_components" json:"skip_missing_components"`
}

// Sum returns the sum of all weights
func (w Weights) Sum() float64 {
	return w.Valuation + w.Profitability + w.Growth + w.Quality
}

// Ranking S4
type Ranking struct {
	MinScore float64 `yaml:"min_score" json:"min_score"`
	Limit    int     `yaml:"limit" json:"limit"`
	SortBy   string  `yaml:"sort_by,omitempty" json:"sort_by,omitempty"`
}

// QualityGate S0: 스냅샷 커버리지 기준
type QualityGate struct {
	MinRecords           int     `yaml:"min_records" json:"min_records"`
	MinScore             float64 `yaml:"min_score" json:"min_score"`
	MinValuationCoverage float64 `yaml:"min_valuation_coverage,omitempty" json:"min_valuation_coverage,omitempty"`
}

// DecisionSnapshot 의사결정 스냅샷 (재현성용)
type DecisionSnapshot struct {
	ConfigHash         string    `json:"config_hash"`
	ConfigYAML         string    `json:"config_yaml"`
	StrategyID         string    `json:"strategy_id"`
	SnapshotGeneration uint64    `json:"snapshot_generation"`
	CreatedAt          time.Time `json:"created_at"`
}
