package quality

import (
	"errors"
	"fmt"

	"github.com/wonny/qscreen/internal/contracts"
)

// ErrQualityGate is returned when a snapshot fails the gate
var ErrQualityGate = errors.New("snapshot failed quality gate")

// Config holds quality gate thresholds. Zero disables a threshold.
type Config struct {
	MinRecords           int     `yaml:"min_records"`            // 1
	MinScore             float64 `yaml:"min_score"`              // 0.30
	MinValuationCoverage float64 `yaml:"min_valuation_coverage"` // 0
}

// DefaultConfig rejects only empty or metric-free snapshots
func DefaultConfig() Config {
	return Config{
		MinRecords: 1,
		MinScore:   0.30,
	}
}

// Report describes metric coverage of one snapshot
type Report struct {
	TotalRecords int                `json:"total_records"`
	Coverage     map[string]float64 `json:"coverage"` // group -> fraction of records with any metric
	Score        float64            `json:"score"`    // weighted coverage 0..1
	Passed       bool               `json:"passed"`
	Reason       string             `json:"reason,omitempty"`
}

// group is one coverage dimension and the metrics that count towards it
type group struct {
	name    string
	weight  float64
	metrics func(r *contracts.StockRecord) []*float64
}

// 가중치 (합계 = 1.0)
var groups = []group{
	{"market_cap", 0.10, func(r *contracts.StockRecord) []*float64 {
		return []*float64{r.MarketCap}
	}},
	{"valuation", 0.20, func(r *contracts.StockRecord) []*float64 {
		return []*float64{r.PETTM, r.PECurrent, r.PEG, r.PB, r.PS, r.PctDaysBelowPE}
	}},
	{"profitability", 0.25, func(r *contracts.StockRecord) []*float64 {
		return []*float64{r.ROE, r.ROA, r.NetMargin, r.OperatingMargin, r.OperatingMarginQtr}
	}},
	{"growth", 0.25, func(r *contracts.StockRecord) []*float64 {
		return []*float64{r.RevenueGrowth, r.RevenueGrowthQtrYoY, r.RevenueGrowthQoQ,
			r.ProfitGrowth, r.ProfitGrowthQtrYoY, r.EPSGrowthTTM}
	}},
	{"quality_index", 0.20, func(r *contracts.StockRecord) []*float64 {
		return []*float64{r.FinancialHealth, r.Durability, r.ValuationScore, r.Momentum}
	}},
}

// Gate validates snapshot coverage before it is installed
// ⭐ SSOT: S0 스냅샷 품질 검증
type Gate struct {
	config Config
}

// NewGate creates a new gate
func NewGate(config Config) *Gate {
	return &Gate{config: config}
}

// Check computes coverage and returns ErrQualityGate when a threshold is missed.
// The report is returned in both cases.
func (g *Gate) Check(records []contracts.StockRecord) (*Report, error) {
	report := Measure(records)

	switch {
	case report.TotalRecords < g.config.MinRecords:
		report.Reason = fmt.Sprintf("records %d < %d", report.TotalRecords, g.config.MinRecords)
	case report.Score < g.config.MinScore:
		report.Reason = fmt.Sprintf("score %.2f < %.2f", report.Score, g.config.MinScore)
	case report.Coverage["valuation"] < g.config.MinValuationCoverage:
		report.Reason = fmt.Sprintf("valuation coverage %.2f < %.2f",
			report.Coverage["valuation"], g.config.MinValuationCoverage)
	default:
		report.Passed = true
		return report, nil
	}

	return report, fmt.Errorf("%w: %s", ErrQualityGate, report.Reason)
}

// Measure computes coverage without judging it
func Measure(records []contracts.StockRecord) *Report {
	report := &Report{
		TotalRecords: len(records),
		Coverage:     make(map[string]float64, len(groups)),
	}

	for _, grp := range groups {
		covered := 0
		for i := range records {
			if anyKnown(grp.metrics(&records[i])) {
				covered++
			}
		}
		cov := 0.0
		if len(records) > 0 {
			cov = float64(covered) / float64(len(records))
		}
		report.Coverage[grp.name] = cov
		report.Score += cov * grp.weight
	}

	return report
}

func anyKnown(metrics []*float64) bool {
	for _, m := range metrics {
		if m != nil {
			return true
		}
	}
	return false
}
