package strategyconfig

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/qscreen/internal/contracts"
	"github.com/wonny/qscreen/internal/s0_data/quality"
	"github.com/wonny/qscreen/internal/s2_signals"
	"github.com/wonny/qscreen/internal/selection"
)

const bundledStrategy = "../../config/strategy/quality_v1.yaml"

func TestLoad(t *testing.T) {
	if _, err := os.Stat(bundledStrategy); os.IsNotExist(err) {
		t.Skip("config file not found")
	}

	cfg, yamlData, err := Load(bundledStrategy)
	require.NoError(t, err)
	assert.NotEmpty(t, yamlData)

	assert.Equal(t, "quality_v1", cfg.Meta.StrategyID)
	require.NotNil(t, cfg.Filters.MinROE)
	assert.Equal(t, 12.0, *cfg.Filters.MinROE)
	assert.Equal(t, 0.35, cfg.Weights.Quality)

	// 동일 설정 → 동일 해시
	hash, err := Hash(cfg)
	require.NoError(t, err)
	assert.Len(t, hash, 64)

	hash2, err := Hash(cfg)
	require.NoError(t, err)
	assert.Equal(t, hash, hash2)

	// 번들 YAML은 내장 기본값과 같아야 함
	defaultHash, err := Hash(Default())
	require.NoError(t, err)
	assert.Equal(t, defaultHash, hash)
}

func TestParse_UnknownFieldFails(t *testing.T) {
	yamlData := []byte(`
meta:
  strategy_id: typo
weights:
  valuation: 1
  qualty: 1
`)
	_, err := Parse(yamlData)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "qualty")
}

func TestParse_Minimal(t *testing.T) {
	yamlData := []byte(`
meta:
  strategy_id: minimal
weights:
  quality: 1
ranking:
  min_score: 50
`)
	cfg, err := Parse(yamlData)
	require.NoError(t, err)

	stages := cfg.ToStageConfigs()
	assert.Nil(t, stages.Filter.MinROE, "omitted filter stays disabled")
	assert.Equal(t, selection.SortByScore, stages.SortBy)
	assert.Equal(t, 0, stages.Rank.Limit)
	assert.Equal(t, s2_signals.ShortfallPolicy(""), stages.Scorer.Shortfall)
}

func TestLoadOrDefault_EmptyPath(t *testing.T) {
	cfg, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, DefaultStrategyID, cfg.Meta.StrategyID)
	assert.NoError(t, Validate(cfg))
}

func TestLoad_MissingFile(t *testing.T) {
	_, _, err := Load("does-not-exist.yaml")
	assert.Error(t, err)
}

func TestHash_ChangesWithConfig(t *testing.T) {
	a := Default()
	b := Default()
	b.Weights.Quality = 0.5

	ha, err := Hash(a)
	require.NoError(t, err)
	hb, err := Hash(b)
	require.NoError(t, err)
	assert.NotEqual(t, ha, hb)
}

func TestDefault_MatchesStageDefaults(t *testing.T) {
	stages := Default().ToStageConfigs()

	assert.Equal(t, selection.DefaultFilterConfig(), stages.Filter)
	assert.Equal(t, s2_signals.DefaultScorerConfig(), stages.Scorer)
	assert.Equal(t, selection.DefaultWeightConfig(), stages.Weights)
	assert.Equal(t, selection.DefaultRankConfig(), stages.Rank)
	assert.Equal(t, quality.DefaultConfig(), stages.Gate)
	assert.Equal(t, selection.SortByScore, stages.SortBy)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		field  string
	}{
		{"valid default", func(c *Config) {}, ""},
		{"missing strategy id", func(c *Config) { c.Meta.StrategyID = "" }, "meta.strategy_id"},
		{"bad missing policy", func(c *Config) { c.Filters.MissingPolicy = "drop" }, "filters.missing_policy"},
		{"empty missing policy", func(c *Config) { c.Filters.MissingPolicy = "" }, ""},
		{"market cap bounds inverted", func(c *Config) {
			c.Filters.MinMarketCap = contracts.Metric(100)
			c.Filters.MaxMarketCap = contracts.Metric(10)
		}, "filters"},
		{"zero sector ratio", func(c *Config) { c.Filters.MaxPEVsSector = contracts.Metric(0) }, "filters.max_pe_vs_sector"},
		{"health above 9", func(c *Config) { c.Filters.MinFinancialHealth = contracts.Metric(10) }, "filters.min_financial_health"},
		{"durability above 100", func(c *Config) { c.Filters.MinDurability = contracts.Metric(101) }, "filters.min_durability"},
		{"bad shortfall", func(c *Config) { c.Scoring.ShortfallPolicy = "clip" }, "scoring.shortfall_policy"},
		{"zero scoring threshold", func(c *Config) { c.Scoring.Valuation.MaxPETTM = contracts.Metric(0) }, "scoring.valuation.max_pe_ttm"},
		{"negative growth threshold", func(c *Config) { c.Scoring.Growth.MinProfitGrowth = contracts.Metric(-5) }, "scoring.growth.min_profit_growth"},
		{"negative weight", func(c *Config) { c.Weights.Growth = -0.1 }, "weights"},
		{"zero weights", func(c *Config) { c.Weights = Weights{} }, "weights"},
		{"unnormalised weights", func(c *Config) { c.Weights = Weights{Valuation: 1, Profitability: 1, Growth: 1, Quality: 1} }, ""},
		{"min score above 100", func(c *Config) { c.Ranking.MinScore = 101 }, "ranking.min_score"},
		{"negative limit", func(c *Config) { c.Ranking.Limit = -1 }, "ranking.limit"},
		{"unknown sort key", func(c *Config) { c.Ranking.SortBy = "price" }, "ranking.sort_by"},
		{"gate score above 1", func(c *Config) { c.QualityGate.MinScore = 1.5 }, "quality_gate.min_score"},
		{"negative gate records", func(c *Config) { c.QualityGate.MinRecords = -1 }, "quality_gate.min_records"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := Validate(cfg)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}

			var verr ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestWarn(t *testing.T) {
	assert.Empty(t, Warn(Default()))

	cfg := Default()
	cfg.Weights = Weights{Valuation: 1, Profitability: 1, Growth: 1, Quality: 1, SkipMissingComponents: true}
	cfg.Filters.MaxPETTM = nil
	cfg.Filters.MaxPEVsSector = nil
	cfg.Filters.MissingPolicy = string(selection.MissingReject)
	cfg.Scoring.Profitability.MinROE = contracts.Metric(30)
	cfg.Ranking.MinScore = 40

	codes := make([]string, 0)
	for _, w := range Warn(cfg) {
		codes = append(codes, w.Code)
	}
	assert.ElementsMatch(t, []string{
		"WEIGHTS_NOT_NORMALIZED",
		"SKIP_MISSING_COMPONENTS",
		"NO_VALUATION_FILTER",
		"REJECT_MISSING",
		"ROE_THRESHOLD_MISMATCH",
		"LOW_MIN_SCORE",
	}, codes)
}

func TestNewDecisionSnapshot(t *testing.T) {
	cfg := Default()
	snap, err := NewDecisionSnapshot(cfg, []byte("meta: {}"), 7)
	require.NoError(t, err)

	hash, _ := Hash(cfg)
	assert.Equal(t, hash, snap.ConfigHash)
	assert.Equal(t, DefaultStrategyID, snap.StrategyID)
	assert.Equal(t, uint64(7), snap.SnapshotGeneration)
	assert.False(t, snap.CreatedAt.IsZero())
}

func TestFromStageConfigs_RoundTrip(t *testing.T) {
	stages := DefaultStageConfigs()
	stages.Weights.SkipMissingComponents = true
	stages.Filter.Missing = selection.MissingReject

	got := FromStageConfigs(stages).ToStageConfigs()
	assert.Equal(t, stages, got)
}
