package contracts

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStockRecord_Normalize(t *testing.T) {
	rec := StockRecord{
		Name:            "  Acme Ltd ",
		Symbol:          "ACME",
		MarketCap:       Metric(-5),
		PETTM:           Metric(math.NaN()),
		ROE:             Metric(math.Inf(1)),
		FinancialHealth: Metric(10),
		Durability:      Metric(101),
		ValuationScore:  Metric(-1),
		Momentum:        Metric(100),
		PctDaysBelowPE:  Metric(55),
		RevenueGrowth:   Metric(0),
	}

	got := rec.Normalize()

	assert.Equal(t, "Acme Ltd", got.Name)
	assert.Nil(t, got.MarketCap, "negative market cap is unknown")
	assert.Nil(t, got.PETTM, "NaN is unknown")
	assert.Nil(t, got.ROE, "Inf is unknown")
	assert.Nil(t, got.FinancialHealth, "health above 9 is unknown")
	assert.Nil(t, got.Durability, "analytical score above 100 is unknown")
	assert.Nil(t, got.ValuationScore, "negative analytical score is unknown")
	require.NotNil(t, got.Momentum)
	assert.Equal(t, 100.0, *got.Momentum)
	require.NotNil(t, got.RevenueGrowth, "zero is known, not unknown")
	assert.Equal(t, 0.0, *got.RevenueGrowth)

	// the copy does not alias the original
	*got.Momentum = 1
	assert.Equal(t, 100.0, *rec.Momentum)
}

func TestStockRecord_Validate(t *testing.T) {
	tests := []struct {
		name    string
		rec     StockRecord
		wantErr bool
	}{
		{"symbol only", StockRecord{Name: "A", Symbol: "A"}, false},
		{"isin only", StockRecord{Name: "A", ISIN: "INE000A01010"}, false},
		{"no name", StockRecord{Symbol: "A"}, true},
		{"no identifiers", StockRecord{Name: "A"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rec.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMissingIdentity)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRatio(t *testing.T) {
	assert.Nil(t, Ratio(Metric(10), nil))
	assert.Nil(t, Ratio(nil, Metric(10)))
	assert.Nil(t, Ratio(Metric(10), Metric(0)), "zero denominator is unknown")

	got := Ratio(Metric(24), Metric(20))
	require.NotNil(t, got)
	assert.InDelta(t, 1.2, *got, 1e-9)
}

func TestSnapshot_Lookup(t *testing.T) {
	records := []StockRecord{
		{Name: "Alpha", Symbol: "ALPHA", ISIN: "INE001"},
		{Name: "Beta", Symbol: "beta", ISIN: "ine002"},
	}
	snap := NewSnapshot(records, 3, "test", time.Unix(0, 0))

	assert.Equal(t, 2, snap.Len())
	assert.Equal(t, uint64(3), snap.Generation)

	rec, ok := snap.FindBySymbol("Beta")
	require.True(t, ok)
	assert.Equal(t, "Beta", rec.Name)

	rec, ok = snap.FindByISIN("INE001")
	require.True(t, ok)
	assert.Equal(t, "Alpha", rec.Name)

	_, ok = snap.FindBySymbol("GAMMA")
	assert.False(t, ok)

	// callers cannot reach the snapshot's backing slice
	records[0].Name = "changed"
	all := snap.Records()
	all[1].Name = "changed"
	assert.Equal(t, "Alpha", snap.At(0).Name)
	assert.Equal(t, "Beta", snap.At(1).Name)
}

func TestSnapshot_MetricsAreImmutable(t *testing.T) {
	records := []StockRecord{{Name: "Alpha", Symbol: "ALPHA", ROE: Metric(18), PETTM: Metric(22)}}
	snap := NewSnapshot(records, 1, "test", time.Unix(0, 0))

	*records[0].ROE = 99
	*snap.Records()[0].ROE = 99
	got := snap.At(0)
	*got.PETTM = 99
	found, ok := snap.FindBySymbol("ALPHA")
	require.True(t, ok)
	*found.PETTM = 99

	rec := snap.At(0)
	require.NotNil(t, rec.ROE)
	assert.Equal(t, 18.0, *rec.ROE)
	assert.Equal(t, 22.0, *rec.PETTM)
	assert.Nil(t, rec.ROA, "unknown stays unknown")
}

func TestStockRecord_Clone(t *testing.T) {
	r := StockRecord{Name: "Alpha", MarketCap: Metric(500), SectorProfitGrowth: Metric(11)}
	c := r.Clone()

	assert.Equal(t, r, c)
	*c.MarketCap = 1
	*c.SectorProfitGrowth = 1
	assert.Equal(t, 500.0, *r.MarketCap)
	assert.Equal(t, 11.0, *r.SectorProfitGrowth)
}

func TestSnapshot_Nil(t *testing.T) {
	var snap *Snapshot
	assert.Equal(t, 0, snap.Len())
	assert.Nil(t, snap.Records())
	_, ok := snap.FindBySymbol("X")
	assert.False(t, ok)
}

func TestComponentSet_AllNoData(t *testing.T) {
	var set ComponentSet
	for _, c := range Components {
		set.Set(ComponentScore{Component: c, NoData: true})
	}
	assert.True(t, set.AllNoData())

	set.Set(ComponentScore{Component: ComponentGrowth, Normalized: 50, Applicable: 1})
	assert.False(t, set.AllNoData())
	assert.Equal(t, 50.0, set.Get(ComponentGrowth).Normalized)
}

func TestComponentSet_GetOnValue(t *testing.T) {
	build := func() ComponentSet {
		var set ComponentSet
		set.Set(ComponentScore{Component: ComponentQuality, Normalized: 68.3, Applicable: 4})
		return set
	}

	assert.Equal(t, 68.3, build().Get(ComponentQuality).Normalized)
	assert.True(t, build().Get(Component("unknown")).NoData)
	assert.False(t, build().AllNoData())
}
