package s0_data

import (
	"strings"

	"github.com/wonny/qscreen/internal/contracts"
)

// List defaults
const (
	DefaultListLimit = 100
	MaxListLimit     = 1000
)

// ListFilter selects records for browsing. Unlike the hard filters,
// a set bound excludes records whose metric is unknown.
type ListFilter struct {
	Symbol       string   // case-insensitive substring
	Sector       string   // case-insensitive substring
	MinMarketCap *float64 // inclusive
	MaxMarketCap *float64
	MinPE        *float64
	MaxPE        *float64
	Limit        int // ≤ 0 means DefaultListLimit, capped at MaxListLimit
}

// List returns matching records in snapshot order
func List(snap *contracts.Snapshot, f ListFilter) []contracts.StockRecord {
	limit := f.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	symbol := strings.ToUpper(strings.TrimSpace(f.Symbol))
	sector := strings.ToLower(strings.TrimSpace(f.Sector))

	out := make([]contracts.StockRecord, 0)
	for i := 0; i < snap.Len() && len(out) < limit; i++ {
		r := snap.At(i)
		if symbol != "" && !strings.Contains(strings.ToUpper(r.Symbol), symbol) {
			continue
		}
		if sector != "" && !strings.Contains(strings.ToLower(r.Sector), sector) {
			continue
		}
		if !within(r.MarketCap, f.MinMarketCap, f.MaxMarketCap) || !within(r.PETTM, f.MinPE, f.MaxPE) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func within(v, lo, hi *float64) bool {
	if lo == nil && hi == nil {
		return true
	}
	if v == nil {
		return false
	}
	if lo != nil && *v < *lo {
		return false
	}
	if hi != nil && *v > *hi {
		return false
	}
	return true
}
