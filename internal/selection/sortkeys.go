package selection

import (
	"fmt"
	"sort"
	"strings"

	"github.com/wonny/qscreen/internal/contracts"
)

// SortKey is a presentation ordering applied after ranking
type SortKey string

const (
	SortByScore           SortKey = "score"
	SortByMarketCap       SortKey = "market_cap"
	SortByPE              SortKey = "pe_ttm"
	SortByROE             SortKey = "roe"
	SortByRevenueGrowth   SortKey = "revenue_growth"
	SortByDurability      SortKey = "durability"
	SortByValuationScore  SortKey = "valuation_score"
	SortByMomentum        SortKey = "momentum"
	SortByFinancialHealth SortKey = "financial_health"
)

var sortKeyMetric = map[SortKey]func(r *contracts.StockRecord) *float64{
	SortByMarketCap:       func(r *contracts.StockRecord) *float64 { return r.MarketCap },
	SortByPE:              func(r *contracts.StockRecord) *float64 { return r.PETTM },
	SortByROE:             func(r *contracts.StockRecord) *float64 { return r.ROE },
	SortByRevenueGrowth:   func(r *contracts.StockRecord) *float64 { return r.RevenueGrowth },
	SortByDurability:      func(r *contracts.StockRecord) *float64 { return r.Durability },
	SortByValuationScore:  func(r *contracts.StockRecord) *float64 { return r.ValuationScore },
	SortByMomentum:        func(r *contracts.StockRecord) *float64 { return r.Momentum },
	SortByFinancialHealth: func(r *contracts.StockRecord) *float64 { return r.FinancialHealth },
}

// ParseSortKey validates a sort key; empty means score
func ParseSortKey(s string) (SortKey, error) {
	key := SortKey(strings.ToLower(strings.TrimSpace(s)))
	if key == "" || key == SortByScore {
		return SortByScore, nil
	}
	if _, ok := sortKeyMetric[key]; !ok {
		return "", fmt.Errorf("unknown sort key %q", s)
	}
	return key, nil
}

// Reorder returns a copy of ranked ordered by key. Ranks are kept as assigned by
// the ranker; unknown values sort last and P/E sorts ascending.
func Reorder(ranked []contracts.ScoredRecord, key SortKey) []contracts.ScoredRecord {
	out := make([]contracts.ScoredRecord, len(ranked))
	copy(out, ranked)

	metric, ok := sortKeyMetric[key]
	if !ok {
		SortRanked(out)
		return out
	}

	ascending := key == SortByPE
	sort.SliceStable(out, func(i, j int) bool {
		a, b := metric(&out[i].Record), metric(&out[j].Record)
		c := compareDesc(a, b)
		if ascending && a != nil && b != nil {
			c = -c
		}
		if c != 0 {
			return c < 0
		}
		return out[i].Rank < out[j].Rank
	})
	return out
}
