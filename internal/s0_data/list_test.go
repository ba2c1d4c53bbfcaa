package s0_data

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/qscreen/internal/contracts"
)

func TestList(t *testing.T) {
	snap := contracts.NewSnapshot([]contracts.StockRecord{
		{Name: "Tata Consultancy", Symbol: "TCS", Sector: "Software & Services", MarketCap: contracts.Metric(1200000), PETTM: contracts.Metric(28)},
		{Name: "Tata Motors", Symbol: "TATAMOTORS", Sector: "Automobiles", MarketCap: contracts.Metric(300000), PETTM: contracts.Metric(9)},
		{Name: "Infosys", Symbol: "INFY", Sector: "Software & Services", PETTM: contracts.Metric(24)},
		{Name: "Unknown PE", Symbol: "UNK", Sector: "Banks", MarketCap: contracts.Metric(5000)},
	}, 1, "test", time.Now())

	symbols := func(records []contracts.StockRecord) []string {
		out := make([]string, len(records))
		for i, r := range records {
			out[i] = r.Symbol
		}
		return out
	}

	tests := []struct {
		name   string
		filter ListFilter
		want   []string
	}{
		{"no filter", ListFilter{}, []string{"TCS", "TATAMOTORS", "INFY", "UNK"}},
		{"symbol substring", ListFilter{Symbol: "ta"}, []string{"TATAMOTORS"}},
		{"sector substring", ListFilter{Sector: "software"}, []string{"TCS", "INFY"}},
		{"max pe drops unknown", ListFilter{MaxPE: contracts.Metric(25)}, []string{"TATAMOTORS", "INFY"}},
		{"market cap range", ListFilter{MinMarketCap: contracts.Metric(10000), MaxMarketCap: contracts.Metric(500000)}, []string{"TATAMOTORS"}},
		{"limit", ListFilter{Limit: 2}, []string{"TCS", "TATAMOTORS"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, symbols(List(snap, tt.filter)))
		})
	}
}

func TestList_NilSnapshot(t *testing.T) {
	assert.Empty(t, List(nil, ListFilter{}))
}
