package s0_data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/qscreen/internal/contracts"
	"github.com/wonny/qscreen/pkg/logger"
)

func searchFixture(t *testing.T) *SearchIndex {
	t.Helper()
	snap := contracts.NewSnapshot([]contracts.StockRecord{
		{Name: "Reliance Industries Ltd", Symbol: "RELIANCE", ISIN: "INE002A01018", Sector: "Energy"},
		{Name: "Infosys Ltd", Symbol: "INFY", ISIN: "INE009A01021", Sector: "Software"},
		{Name: "HDFC Bank Ltd", Symbol: "HDFCBANK", ISIN: "INE040A01034", Sector: "Banks"},
	}, 1, "test", testTime)

	index := NewSearchIndex(logger.NewNop())
	require.NoError(t, index.Rebuild(snap))
	t.Cleanup(func() { index.Close() })
	return index
}

func TestSearchIndex_SymbolFirst(t *testing.T) {
	index := searchFixture(t)

	got, err := index.Search("infy", 10)
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, "INFY", got[0].Symbol)
}

func TestSearchIndex_NameAndPrefix(t *testing.T) {
	index := searchFixture(t)

	got, err := index.Search("relia", 10)
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, "RELIANCE", got[0].Symbol)

	got, err = index.Search("bank", 10)
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, "HDFCBANK", got[0].Symbol)
}

func TestSearchIndex_ISIN(t *testing.T) {
	index := searchFixture(t)

	got, err := index.Search("INE009A01021", 10)
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, "INFY", got[0].Symbol)
}

func TestSearchIndex_EmptyQueryAndIndex(t *testing.T) {
	got, err := NewSearchIndex(logger.NewNop()).Search("infy", 10)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = searchFixture(t).Search("   ", 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}
