package s0_data

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/qscreen/internal/contracts"
	"github.com/wonny/qscreen/internal/s0_data/quality"
	"github.com/wonny/qscreen/pkg/logger"
	"github.com/wonny/qscreen/pkg/metrics"
)

// stubSource returns canned records or an error
type stubSource struct {
	records []contracts.StockRecord
	err     error
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) Load(ctx context.Context) ([]contracts.StockRecord, error) {
	return s.records, s.err
}

func TestRefresher_Refresh(t *testing.T) {
	m := contracts.Metric
	src := &stubSource{records: []contracts.StockRecord{
		{Name: " Alpha ", Symbol: "ALPHA", ROE: m(20), MarketCap: m(-5)},
		{Name: "", Symbol: "NONAME"},
		{Name: "Beta", ISIN: "INE000B01001", ROE: m(12)},
	}}
	store := NewStore(logger.NewNop())
	index := NewSearchIndex(logger.NewNop())
	defer index.Close()
	met := metrics.New(prometheus.NewRegistry())

	r := NewRefresher(src, store, logger.NewNop(), WithSearchIndex(index), WithMetrics(met))

	result, err := r.Refresh(context.Background())
	require.NoError(t, err)

	assert.Equal(t, uint64(1), result.Generation)
	assert.Equal(t, 3, result.Loaded)
	assert.Equal(t, 2, result.Accepted)
	assert.Equal(t, 1, result.Rejected)

	snap := store.Current()
	require.Equal(t, 2, snap.Len())
	assert.Equal(t, "Alpha", snap.At(0).Name)
	assert.Nil(t, snap.At(0).MarketCap, "negative market cap is unknown")

	assert.Equal(t, uint64(1), index.Generation())
	assert.Equal(t, 1.0, testutil.ToFloat64(met.SnapshotGeneration))
	assert.Empty(t, r.Status().LastError)
}

func TestRefresher_FailureKeepsPreviousSnapshot(t *testing.T) {
	src := &stubSource{records: records("A", "B")}
	store := NewStore(logger.NewNop())
	r := NewRefresher(src, store, logger.NewNop())

	_, err := r.Refresh(context.Background())
	require.NoError(t, err)
	before := store.Current()

	src.err = errors.New("upstream down")
	_, err = r.Refresh(context.Background())
	require.Error(t, err)

	assert.Same(t, before, store.Current())
	assert.Contains(t, r.Status().LastError, "upstream down")
	assert.False(t, r.Status().LastSuccess.IsZero())
}

func TestRefresher_QualityGateRejects(t *testing.T) {
	src := &stubSource{records: records("A", "B")} // identity only, no metrics
	store := NewStore(logger.NewNop())
	r := NewRefresher(src, store, logger.NewNop(), WithQualityGate(quality.NewGate(quality.DefaultConfig())))

	_, err := r.Refresh(context.Background())
	assert.ErrorIs(t, err, quality.ErrQualityGate)
	assert.Nil(t, store.Current())
}

func TestRefresher_CancelledContext(t *testing.T) {
	store := NewStore(logger.NewNop())
	r := NewRefresher(&stubSource{records: records("A")}, store, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Refresh(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, store.Current())
}
