package strategyconfig

import (
	"errors"
	"fmt"
	"math"

	"github.com/wonny/qscreen/internal/s2_signals"
	"github.com/wonny/qscreen/internal/selection"
)

// ValidationError 검증 실패 (프로그램 중단)
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Warning 권장 위반 (경고만)
type Warning struct {
	Code    string
	Message string
}

// Validate checks all required constraints
// 실패 시 error 반환 (프로그램 중단)
func Validate(cfg *Config) error {
	// === Meta ===
	if cfg.Meta.StrategyID == "" {
		return ValidationError{"meta.strategy_id", "required"}
	}

	// === Filters ===
	switch selection.MissingPolicy(cfg.Filters.MissingPolicy) {
	case "", selection.MissingRetain, selection.MissingReject:
	default:
		return ValidationError{"filters.missing_policy", "must be retain or reject"}
	}

	f := cfg.Filters
	if f.MinMarketCap != nil && f.MaxMarketCap != nil && *f.MinMarketCap > *f.MaxMarketCap {
		return ValidationError{"filters", "min_market_cap must be <= max_market_cap"}
	}
	for _, r := range []struct {
		field string
		v     *float64
	}{
		{"filters.max_pe_vs_sector", f.MaxPEVsSector},
		{"filters.max_pe_vs_industry", f.MaxPEVsIndustry},
		{"filters.min_growth_vs_sector", f.MinGrowthVsSector},
		{"filters.min_profit_growth_vs_sector", f.MinProfitGrowthVsSector},
	} {
		if r.v != nil && *r.v <= 0 {
			return ValidationError{r.field, "ratio must be > 0"}
		}
	}
	if err := validateScoreRange(f.MinFinancialHealth, 0, 9, "filters.min_financial_health"); err != nil {
		return err
	}
	if err := validateScoreRange(f.MinDurability, 0, 100, "filters.min_durability"); err != nil {
		return err
	}
	if err := validateScoreRange(f.MinValuationScore, 0, 100, "filters.min_valuation_score"); err != nil {
		return err
	}

	// === Scoring ===
	switch s2_signals.ShortfallPolicy(cfg.Scoring.ShortfallPolicy) {
	case "", s2_signals.ShortfallZero, s2_signals.ShortfallExclude:
	default:
		return ValidationError{"scoring.shortfall_policy", "must be zero or exclude"}
	}

	// 0 이하 임계값은 스코어 공식이 정의되지 않음
	for field, v := range scoringThresholds(cfg) {
		if v != nil && (*v <= 0 || math.IsInf(*v, 0) || math.IsNaN(*v)) {
			return ValidationError{field, "must be > 0"}
		}
	}

	// === Weights ===
	if err := validateWeights(cfg.Weights); err != nil {
		return ValidationError{"weights", err.Error()}
	}

	// === Ranking ===
	if cfg.Ranking.MinScore < 0 || cfg.Ranking.MinScore > 100 {
		return ValidationError{"ranking.min_score", "must be in range [0, 100]"}
	}
	if cfg.Ranking.Limit < 0 {
		return ValidationError{"ranking.limit", "must be >= 0"}
	}
	if _, err := selection.ParseSortKey(cfg.Ranking.SortBy); err != nil {
		return ValidationError{"ranking.sort_by", err.Error()}
	}

	// === QualityGate ===
	if cfg.QualityGate.MinRecords < 0 {
		return ValidationError{"quality_gate.min_records", "must be >= 0"}
	}
	if err := validatePctRange(cfg.QualityGate.MinScore, "quality_gate.min_score"); err != nil {
		return err
	}
	if err := validatePctRange(cfg.QualityGate.MinValuationCoverage, "quality_gate.min_valuation_coverage"); err != nil {
		return err
	}

	return nil
}

// Warn checks recommended constraints (non-fatal)
func Warn(cfg *Config) []Warning {
	var warnings []Warning

	// 가중치 합이 1이 아니면 정규화됨
	if math.Abs(cfg.Weights.Sum()-1.0) > 1e-6 {
		warnings = append(warnings, Warning{
			Code:    "WEIGHTS_NOT_NORMALIZED",
			Message: fmt.Sprintf("weights sum to %.4f; final score is divided by the sum", cfg.Weights.Sum()),
		})
	}

	if cfg.Weights.SkipMissingComponents {
		warnings = append(warnings, Warning{
			Code:    "SKIP_MISSING_COMPONENTS",
			Message: "components without data are dropped from the weighted mean; sparse records can score high",
		})
	}

	if cfg.Filters.MaxPETTM == nil && cfg.Filters.MaxPEVsSector == nil && cfg.Filters.MaxPEVsIndustry == nil {
		warnings = append(warnings, Warning{
			Code:    "NO_VALUATION_FILTER",
			Message: "no P/E filter configured: expensive stocks are only penalised by the valuation score",
		})
	}

	if selection.MissingPolicy(cfg.Filters.MissingPolicy) == selection.MissingReject {
		warnings = append(warnings, Warning{
			Code:    "REJECT_MISSING",
			Message: "missing_policy=reject: sparse snapshots may return no results",
		})
	}

	// 스코어 임계값이 필터와 어긋나면 통과 종목도 0점이 될 수 있음
	if th, fl := cfg.Scoring.Profitability.MinROE, cfg.Filters.MinROE; th != nil && fl != nil && *th > 2**fl {
		warnings = append(warnings, Warning{
			Code:    "ROE_THRESHOLD_MISMATCH",
			Message: fmt.Sprintf("scoring min_roe=%.2f is more than twice the filter min_roe=%.2f", *th, *fl),
		})
	}

	if cfg.Ranking.MinScore < 50 {
		warnings = append(warnings, Warning{
			Code:    "LOW_MIN_SCORE",
			Message: fmt.Sprintf("ranking.min_score=%.1f: weak candidates will be ranked", cfg.Ranking.MinScore),
		})
	}

	return warnings
}

// === Helper Functions ===

func scoringThresholds(cfg *Config) map[string]*float64 {
	v := cfg.Scoring.Valuation
	p := cfg.Scoring.Profitability
	g := cfg.Scoring.Growth
	return map[string]*float64{
		"scoring.valuation.max_pe_ttm":                   v.MaxPETTM,
		"scoring.valuation.max_pe_current":               v.MaxPECurrent,
		"scoring.valuation.max_peg":                      v.MaxPEG,
		"scoring.valuation.max_pb":                       v.MaxPB,
		"scoring.valuation.max_ps":                       v.MaxPS,
		"scoring.valuation.max_pct_days_below_pe":        v.MaxPctDaysBelowPE,
		"scoring.profitability.min_roe":                  p.MinROE,
		"scoring.profitability.min_roa":                  p.MinROA,
		"scoring.profitability.min_net_margin":           p.MinNetMargin,
		"scoring.profitability.min_operating_margin":     p.MinOperatingMargin,
		"scoring.profitability.min_operating_margin_qtr": p.MinOperatingMarginQtr,
		"scoring.growth.min_revenue_growth":              g.MinRevenueGrowth,
		"scoring.growth.min_profit_growth":               g.MinProfitGrowth,
		"scoring.growth.min_revenue_growth_qtr_yoy":      g.MinRevenueGrowthQtrYoY,
		"scoring.growth.min_profit_growth_qtr_yoy":       g.MinProfitGrowthQtrYoY,
		"scoring.growth.min_revenue_growth_qoq":          g.MinRevenueGrowthQoQ,
		"scoring.growth.min_eps_growth_ttm":              g.MinEPSGrowthTTM,
	}
}

func validateWeights(w Weights) error {
	for name, v := range map[string]float64{
		"valuation":     w.Valuation,
		"profitability": w.Profitability,
		"growth":        w.Growth,
		"quality":       w.Quality,
	} {
		if v < 0 {
			return fmt.Errorf("%s must be >= 0, got %.4f", name, v)
		}
	}
	if w.Sum() <= 0 {
		return errors.New("must sum to > 0")
	}
	return nil
}

func validateScoreRange(v *float64, lo, hi float64, field string) error {
	if v == nil {
		return nil
	}
	if *v < lo || *v > hi {
		return ValidationError{field, fmt.Sprintf("must be in range [%g, %g]", lo, hi)}
	}
	return nil
}

// validatePctRange는 퍼센트 값이 0~1 범위인지 검증
func validatePctRange(pct float64, field string) error {
	if pct < 0 || pct > 1 {
		return ValidationError{field, "must be in range [0, 1]"}
	}
	return nil
}
