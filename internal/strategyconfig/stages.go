package strategyconfig

import (
	"github.com/wonny/qscreen/internal/s0_data/quality"
	"github.com/wonny/qscreen/internal/s2_signals"
	"github.com/wonny/qscreen/internal/selection"
)

// DefaultStrategyID names the built-in strategy
const DefaultStrategyID = "quality_v1"

// StageConfigs are the per-stage configs a strategy resolves to
type StageConfigs struct {
	Filter  selection.FilterConfig
	Scorer  s2_signals.ScorerConfig
	Weights selection.WeightConfig
	Rank    selection.RankConfig
	SortBy  selection.SortKey
	Gate    quality.Config
}

// DefaultStageConfigs returns every stage's defaults
func DefaultStageConfigs() StageConfigs {
	return StageConfigs{
		Filter:  selection.DefaultFilterConfig(),
		Scorer:  s2_signals.DefaultScorerConfig(),
		Weights: selection.DefaultWeightConfig(),
		Rank:    selection.DefaultRankConfig(),
		SortBy:  selection.SortByScore,
		Gate:    quality.DefaultConfig(),
	}
}

// Default returns the built-in strategy
func Default() *Config {
	cfg := FromStageConfigs(DefaultStageConfigs())
	cfg.Meta = Meta{
		StrategyID:  DefaultStrategyID,
		Version:     "1.0.0",
		Description: "Quality-focused screen: hard filters, four component scores, weighted final score",
	}
	return cfg
}

// FromStageConfigs is the inverse of ToStageConfigs
func FromStageConfigs(s StageConfigs) *Config {
	f := s.Filter
	sc := s.Scorer
	return &Config{
		Filters: Filters{
			MissingPolicy:           string(f.Missing),
			MinMarketCap:            f.MinMarketCap,
			MaxMarketCap:            f.MaxMarketCap,
			MaxPETTM:                f.MaxPETTM,
			MaxPEVsSector:           f.MaxPEVsSector,
			MaxPEVsIndustry:         f.MaxPEVsIndustry,
			MinROE:                  f.MinROE,
			MinFinancialHealth:      f.MinFinancialHealth,
			MinRevenueGrowth:        f.MinRevenueGrowth,
			MinProfitGrowth:         f.MinProfitGrowth,
			MinRevenueGrowthQtrYoY:  f.MinRevenueGrowthQtrYoY,
			MinGrowthVsSector:       f.MinGrowthVsSector,
			MinProfitGrowthVsSector: f.MinProfitGrowthVsSector,
			MinDurability:           f.MinDurability,
			MinValuationScore:       f.MinValuationScore,
		},
		Scoring: Scoring{
			ShortfallPolicy: string(sc.Shortfall),
			Valuation: Valuation{
				MaxPETTM:          sc.MaxPETTM,
				MaxPECurrent:      sc.MaxPECurrent,
				MaxPEG:            sc.MaxPEG,
				MaxPB:             sc.MaxPB,
				MaxPS:             sc.MaxPS,
				MaxPctDaysBelowPE: sc.MaxPctDaysBelowPE,
			},
			Profitability: Profitability{
				MinROE:                sc.MinROE,
				MinROA:                sc.MinROA,
				MinNetMargin:          sc.MinNetMargin,
				MinOperatingMargin:    sc.MinOperatingMargin,
				MinOperatingMarginQtr: sc.MinOperatingMarginQtr,
			},
			Growth: Growth{
				MinRevenueGrowth:       sc.MinRevenueGrowth,
				MinProfitGrowth:        sc.MinProfitGrowth,
				MinRevenueGrowthQtrYoY: sc.MinRevenueGrowthQtrYoY,
				MinProfitGrowthQtrYoY:  sc.MinProfitGrowthQtrYoY,
				MinRevenueGrowthQoQ:    sc.MinRevenueGrowthQoQ,
				MinEPSGrowthTTM:        sc.MinEPSGrowthTTM,
			},
		},
		Weights: Weights{
			Valuation:             s.Weights.Valuation,
			Profitability:         s.Weights.Profitability,
			Growth:                s.Weights.Growth,
			Quality:               s.Weights.Quality,
			SkipMissingComponents: s.Weights.SkipMissingComponents,
		},
		Ranking: Ranking{
			MinScore: s.Rank.MinScore,
			Limit:    s.Rank.Limit,
			SortBy:   string(s.SortBy),
		},
		QualityGate: QualityGate{
			MinRecords:           s.Gate.MinRecords,
			MinScore:             s.Gate.MinScore,
			MinValuationCoverage: s.Gate.MinValuationCoverage,
		},
	}
}

// ToStageConfigs converts a validated config into per-stage configs
func (c *Config) ToStageConfigs() StageConfigs {
	f := c.Filters
	v := c.Scoring.Valuation
	p := c.Scoring.Profitability
	g := c.Scoring.Growth

	// Validate already rejected unknown sort keys
	sortBy, _ := selection.ParseSortKey(c.Ranking.SortBy)

	return StageConfigs{
		Filter: selection.FilterConfig{
			MinMarketCap:            f.MinMarketCap,
			MaxMarketCap:            f.MaxMarketCap,
			MaxPETTM:                f.MaxPETTM,
			MaxPEVsSector:           f.MaxPEVsSector,
			MaxPEVsIndustry:         f.MaxPEVsIndustry,
			MinROE:                  f.MinROE,
			MinFinancialHealth:      f.MinFinancialHealth,
			MinRevenueGrowth:        f.MinRevenueGrowth,
			MinProfitGrowth:         f.MinProfitGrowth,
			MinRevenueGrowthQtrYoY:  f.MinRevenueGrowthQtrYoY,
			MinGrowthVsSector:       f.MinGrowthVsSector,
			MinProfitGrowthVsSector: f.MinProfitGrowthVsSector,
			MinDurability:           f.MinDurability,
			MinValuationScore:       f.MinValuationScore,
			Missing:                 selection.MissingPolicy(f.MissingPolicy),
		},
		Scorer: s2_signals.ScorerConfig{
			MaxPETTM:               v.MaxPETTM,
			MaxPECurrent:           v.MaxPECurrent,
			MaxPEG:                 v.MaxPEG,
			MaxPB:                  v.MaxPB,
			MaxPS:                  v.MaxPS,
			MaxPctDaysBelowPE:      v.MaxPctDaysBelowPE,
			MinROE:                 p.MinROE,
			MinROA:                 p.MinROA,
			MinNetMargin:           p.MinNetMargin,
			MinOperatingMargin:     p.MinOperatingMargin,
			MinOperatingMarginQtr:  p.MinOperatingMarginQtr,
			MinRevenueGrowth:       g.MinRevenueGrowth,
			MinProfitGrowth:        g.MinProfitGrowth,
			MinRevenueGrowthQtrYoY: g.MinRevenueGrowthQtrYoY,
			MinProfitGrowthQtrYoY:  g.MinProfitGrowthQtrYoY,
			MinRevenueGrowthQoQ:    g.MinRevenueGrowthQoQ,
			MinEPSGrowthTTM:        g.MinEPSGrowthTTM,
			Shortfall:              s2_signals.ShortfallPolicy(c.Scoring.ShortfallPolicy),
		},
		Weights: selection.WeightConfig{
			Valuation:             c.Weights.Valuation,
			Profitability:         c.Weights.Profitability,
			Growth:                c.Weights.Growth,
			Quality:               c.Weights.Quality,
			SkipMissingComponents: c.Weights.SkipMissingComponents,
		},
		Rank: selection.RankConfig{
			MinScore: c.Ranking.MinScore,
			Limit:    c.Ranking.Limit,
		},
		SortBy: sortBy,
		Gate: quality.Config{
			MinRecords:           c.QualityGate.MinRecords,
			MinScore:             c.QualityGate.MinScore,
			MinValuationCoverage: c.QualityGate.MinValuationCoverage,
		},
	}
}
