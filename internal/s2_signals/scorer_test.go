package s2_signals

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/qscreen/internal/contracts"
	"github.com/wonny/qscreen/pkg/logger"
)

var m = contracts.Metric

// workedExample is the reference record used across the scoring tests
func workedExample() contracts.StockRecord {
	return contracts.StockRecord{
		Name:            "Worked Example Ltd",
		Symbol:          "WEX",
		PETTM:           m(22),
		ROE:             m(18),
		FinancialHealth: m(7),
		RevenueGrowth:   m(20),
		Durability:      m(75),
		ValuationScore:  m(70),
		Momentum:        m(60),
	}
}

func TestPrimitives_Boundaries(t *testing.T) {
	assert.Equal(t, 0.0, LowerIsBetter(30, 30), "at the cap scores 0")
	assert.Equal(t, 1.0, LowerIsBetter(0, 30))
	assert.InDelta(t, 0.5, LowerIsBetter(15, 30), 1e-9)
	assert.Equal(t, 1.0, LowerIsBetter(-5, 30), "clamped to 1")

	assert.Equal(t, 0.5, HigherIsBetter(12, 12), "at the minimum scores 0.5")
	assert.Equal(t, 1.0, HigherIsBetter(24, 12), "2× minimum scores 1.0")
	assert.Equal(t, 1.0, HigherIsBetter(100, 12), "capped above 2×")

	assert.InDelta(t, 7.0/9.0, BoundedScale(7, 9), 1e-9)
	assert.Equal(t, 1.0, BoundedScale(100, 100))
}

func TestWorkedExample_Components(t *testing.T) {
	rec := workedExample()
	b := NewBuilder(DefaultScorerConfig(), logger.NewNop())

	set := b.ScoreRecord(&rec)

	assert.InDelta(t, 26.7, set.Valuation.Normalized, 0.05)
	assert.Equal(t, 1, set.Valuation.Applicable)
	assert.InDelta(t, 76.4, set.Profitability.Normalized, 0.1)
	assert.Equal(t, 2, set.Profitability.Applicable)
	assert.InDelta(t, 100.0, set.Growth.Normalized, 1e-9)
	assert.Equal(t, 1, set.Growth.Applicable)
	assert.InDelta(t, 68.3, set.Quality.Normalized, 0.05)
	assert.Equal(t, 3, set.Quality.Applicable)

	assert.InDelta(t, 0.75, set.Profitability.Metrics["roe"], 1e-9)
	assert.False(t, set.AllNoData())
}

func TestValuationScorer(t *testing.T) {
	cfg := ScorerConfig{
		MaxPETTM:          m(30),
		MaxPEG:            m(2),
		MaxPctDaysBelowPE: m(50),
	}
	s := NewValuationScorer(cfg)

	tests := []struct {
		name           string
		rec            contracts.StockRecord
		wantNormalized float64
		wantApplicable int
		wantNoData     bool
	}{
		{
			name:           "pe at the cap scores zero",
			rec:            contracts.StockRecord{PETTM: m(30)},
			wantNormalized: 0,
			wantApplicable: 1,
		},
		{
			name:           "peg ratio capped at one",
			rec:            contracts.StockRecord{PEG: m(1)},
			wantNormalized: 50,
			wantApplicable: 1,
		},
		{
			name:           "pct days below pe is min(1, v/t)",
			rec:            contracts.StockRecord{PctDaysBelowPE: m(80)},
			wantNormalized: 100,
			wantApplicable: 1,
		},
		{
			name:           "unconfigured threshold is inapplicable",
			rec:            contracts.StockRecord{PB: m(1)},
			wantApplicable: 0,
			wantNoData:     true,
		},
		{
			name:           "pe over the cap counts as zero",
			rec:            contracts.StockRecord{PETTM: m(45), PEG: m(0)},
			wantNormalized: 50,
			wantApplicable: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Score(&tt.rec)
			assert.InDelta(t, tt.wantNormalized, got.Normalized, 1e-9)
			assert.Equal(t, tt.wantApplicable, got.Applicable)
			assert.Equal(t, tt.wantNoData, got.NoData)
		})
	}
}

func TestShortfallPolicy(t *testing.T) {
	rec := contracts.StockRecord{ROE: m(6), FinancialHealth: m(9)}

	zero := NewProfitabilityScorer(ScorerConfig{MinROE: m(12), Shortfall: ShortfallZero}).Score(&rec)
	assert.Equal(t, 2, zero.Applicable)
	assert.InDelta(t, 50.0, zero.Normalized, 1e-9)

	excl := NewProfitabilityScorer(ScorerConfig{MinROE: m(12), Shortfall: ShortfallExclude}).Score(&rec)
	assert.Equal(t, 1, excl.Applicable)
	assert.InDelta(t, 100.0, excl.Normalized, 1e-9)
	_, counted := excl.Metrics["roe"]
	assert.False(t, counted)
}

func TestGrowthScorer_AllMetrics(t *testing.T) {
	cfg := ScorerConfig{
		MinRevenueGrowth:       m(10),
		MinProfitGrowth:        m(10),
		MinRevenueGrowthQtrYoY: m(10),
		MinProfitGrowthQtrYoY:  m(10),
		MinRevenueGrowthQoQ:    m(10),
		MinEPSGrowthTTM:        m(10),
	}
	rec := contracts.StockRecord{
		RevenueGrowth:       m(20),
		ProfitGrowth:        m(10),
		RevenueGrowthQtrYoY: m(20),
		ProfitGrowthQtrYoY:  m(10),
		RevenueGrowthQoQ:    m(20),
		EPSGrowthTTM:        m(10),
	}

	got := NewGrowthScorer(cfg).Score(&rec)
	assert.Equal(t, 6, got.Applicable)
	assert.InDelta(t, 75.0, got.Normalized, 1e-9)
}

func TestQualityIndexScorer_NoData(t *testing.T) {
	got := NewQualityIndexScorer().Score(&contracts.StockRecord{})
	assert.True(t, got.NoData)
	assert.Equal(t, 0.0, got.Normalized)
	assert.Equal(t, 0, got.Applicable)
}

func TestMonotonicity(t *testing.T) {
	cfg := DefaultScorerConfig()
	cfg.MinROA = m(8)
	b := NewBuilder(cfg, logger.NewNop())

	higherIsBetter := []struct {
		name      string
		component contracts.Component
		set       func(r *contracts.StockRecord, v float64)
	}{
		{"roe", contracts.ComponentProfitability, func(r *contracts.StockRecord, v float64) { r.ROE = m(v) }},
		{"roa", contracts.ComponentProfitability, func(r *contracts.StockRecord, v float64) { r.ROA = m(v) }},
		{"revenue growth", contracts.ComponentGrowth, func(r *contracts.StockRecord, v float64) { r.RevenueGrowth = m(v) }},
		{"momentum", contracts.ComponentQuality, func(r *contracts.StockRecord, v float64) { r.Momentum = m(v) }},
	}

	for _, tt := range higherIsBetter {
		t.Run(tt.name, func(t *testing.T) {
			prev := -1.0
			for v := -10.0; v <= 100; v += 0.5 {
				rec := workedExample()
				tt.set(&rec, v)
				got := b.ScoreRecord(&rec).Get(tt.component).Normalized
				require.GreaterOrEqual(t, got, prev, "value %v", v)
				prev = got
			}
		})
	}

	t.Run("pe lower is better", func(t *testing.T) {
		prev := -1.0
		for v := 60.0; v >= 0; v -= 0.5 {
			rec := workedExample()
			rec.PETTM = m(v)
			got := b.ScoreRecord(&rec).Valuation.Normalized
			require.GreaterOrEqual(t, got, prev, "pe %v", v)
			prev = got
		}
	})
}

func TestBuilder_Build(t *testing.T) {
	records := []contracts.StockRecord{workedExample(), {Name: "Empty", Symbol: "EMP"}}
	out := NewBuilder(DefaultScorerConfig(), logger.NewNop()).Build(records)

	require.Len(t, out, 2)
	assert.Equal(t, 0, out[0].Ordinal)
	assert.Equal(t, 1, out[1].Ordinal)
	assert.False(t, out[0].Components.AllNoData())
	assert.True(t, out[1].Components.AllNoData())
	assert.Equal(t, 0.0, out[0].FinalScore, "final score is the aggregator's job")
}
