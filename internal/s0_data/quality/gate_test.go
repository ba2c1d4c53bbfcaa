package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/qscreen/internal/contracts"
)

func fullRecord() contracts.StockRecord {
	m := contracts.Metric
	return contracts.StockRecord{
		Name:            "Alpha",
		Symbol:          "ALPHA",
		MarketCap:       m(1000),
		PETTM:           m(20),
		ROE:             m(15),
		RevenueGrowth:   m(12),
		FinancialHealth: m(7),
	}
}

func TestMeasure_FullCoverage(t *testing.T) {
	report := Measure([]contracts.StockRecord{fullRecord(), fullRecord()})

	assert.Equal(t, 2, report.TotalRecords)
	assert.InDelta(t, 1.0, report.Score, 1e-9)
	for name, cov := range report.Coverage {
		assert.InDelta(t, 1.0, cov, 1e-9, name)
	}
}

func TestMeasure_PartialCoverage(t *testing.T) {
	bare := contracts.StockRecord{Name: "Bare", Symbol: "BARE"}
	report := Measure([]contracts.StockRecord{fullRecord(), bare})

	assert.InDelta(t, 0.5, report.Coverage["valuation"], 1e-9)
	assert.InDelta(t, 0.5, report.Score, 1e-9)
}

func TestMeasure_Empty(t *testing.T) {
	report := Measure(nil)

	assert.Zero(t, report.TotalRecords)
	assert.Zero(t, report.Score)
}

func TestGate_Check(t *testing.T) {
	bare := contracts.StockRecord{Name: "Bare", Symbol: "BARE"}

	tests := []struct {
		name    string
		config  Config
		records []contracts.StockRecord
		passed  bool
	}{
		{"full snapshot passes defaults", DefaultConfig(), []contracts.StockRecord{fullRecord()}, true},
		{"empty snapshot fails min records", DefaultConfig(), nil, false},
		{"metric-free snapshot fails min score", DefaultConfig(), []contracts.StockRecord{bare, bare}, false},
		{"valuation coverage threshold", Config{MinValuationCoverage: 0.9}, []contracts.StockRecord{fullRecord(), bare}, false},
		{"zero config accepts anything", Config{}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := NewGate(tt.config).Check(tt.records)
			require.NotNil(t, report)
			assert.Equal(t, tt.passed, report.Passed)
			if tt.passed {
				assert.NoError(t, err)
				assert.Empty(t, report.Reason)
			} else {
				assert.ErrorIs(t, err, ErrQualityGate)
				assert.NotEmpty(t, report.Reason)
			}
		})
	}
}
