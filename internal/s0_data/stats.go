package s0_data

import (
	"sort"

	"github.com/wonny/qscreen/internal/contracts"
	"github.com/wonny/qscreen/internal/s0_data/quality"
)

// topSectors limits the sector distribution
const topSectors = 10

// SectorCount is one entry of the sector distribution
type SectorCount struct {
	Sector string `json:"sector"`
	Count  int    `json:"count"`
}

// MetricStats summarises the known values of one metric
type MetricStats struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Avg   float64 `json:"avg"`
	Count int     `json:"count"`
}

// Stats describes one snapshot
type Stats struct {
	Generation  uint64          `json:"generation"`
	TotalStocks int             `json:"total_stocks"`
	Sectors     []SectorCount   `json:"sectors"`
	MarketCap   *MetricStats    `json:"market_cap_stats,omitempty"`
	PETTM       *MetricStats    `json:"pe_ratio_stats,omitempty"`
	ROE         *MetricStats    `json:"roe_stats,omitempty"`
	Quality     *quality.Report `json:"quality"`
}

// ComputeStats summarises a snapshot. P/E only counts positive values.
func ComputeStats(snap *contracts.Snapshot) *Stats {
	records := snap.Records()
	stats := &Stats{
		TotalStocks: len(records),
		Sectors:     sectorDistribution(records),
		Quality:     quality.Measure(records),
	}
	if snap != nil {
		stats.Generation = snap.Generation
	}

	stats.MarketCap = summarise(records, func(r *contracts.StockRecord) *float64 { return r.MarketCap })
	stats.PETTM = summarise(records, func(r *contracts.StockRecord) *float64 {
		if r.PETTM != nil && *r.PETTM > 0 {
			return r.PETTM
		}
		return nil
	})
	stats.ROE = summarise(records, func(r *contracts.StockRecord) *float64 { return r.ROE })

	return stats
}

func sectorDistribution(records []contracts.StockRecord) []SectorCount {
	counts := make(map[string]int)
	for i := range records {
		if records[i].Sector != "" {
			counts[records[i].Sector]++
		}
	}

	out := make([]SectorCount, 0, len(counts))
	for sector, n := range counts {
		out = append(out, SectorCount{Sector: sector, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Sector < out[j].Sector
	})

	if len(out) > topSectors {
		out = out[:topSectors]
	}
	return out
}

func summarise(records []contracts.StockRecord, metric func(r *contracts.StockRecord) *float64) *MetricStats {
	var s MetricStats
	var sum float64
	for i := range records {
		v := metric(&records[i])
		if v == nil {
			continue
		}
		if s.Count == 0 || *v < s.Min {
			s.Min = *v
		}
		if s.Count == 0 || *v > s.Max {
			s.Max = *v
		}
		sum += *v
		s.Count++
	}
	if s.Count == 0 {
		return nil
	}
	s.Avg = sum / float64(s.Count)
	return &s
}
