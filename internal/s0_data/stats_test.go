package s0_data

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/qscreen/internal/contracts"
)

var testTime = time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC)

func TestComputeStats(t *testing.T) {
	m := contracts.Metric
	snap := contracts.NewSnapshot([]contracts.StockRecord{
		{Name: "A", Symbol: "A", Sector: "Banks", MarketCap: m(100), PETTM: m(10), ROE: m(20)},
		{Name: "B", Symbol: "B", Sector: "Banks", MarketCap: m(300), PETTM: m(-4), ROE: m(10)},
		{Name: "C", Symbol: "C", Sector: "Software", PETTM: m(30)},
		{Name: "D", Symbol: "D"},
	}, 7, "test", testTime)

	stats := ComputeStats(snap)

	assert.Equal(t, uint64(7), stats.Generation)
	assert.Equal(t, 4, stats.TotalStocks)
	assert.Equal(t, []SectorCount{{"Banks", 2}, {"Software", 1}}, stats.Sectors)

	require.NotNil(t, stats.MarketCap)
	assert.Equal(t, MetricStats{Min: 100, Max: 300, Avg: 200, Count: 2}, *stats.MarketCap)

	require.NotNil(t, stats.PETTM)
	assert.Equal(t, 2, stats.PETTM.Count, "non-positive P/E excluded")
	assert.InDelta(t, 20, stats.PETTM.Avg, 1e-9)

	require.NotNil(t, stats.ROE)
	assert.InDelta(t, 15, stats.ROE.Avg, 1e-9)
	require.NotNil(t, stats.Quality)
}

func TestComputeStats_NilSnapshot(t *testing.T) {
	stats := ComputeStats(nil)

	assert.Zero(t, stats.TotalStocks)
	assert.Empty(t, stats.Sectors)
	assert.Nil(t, stats.MarketCap)
}
