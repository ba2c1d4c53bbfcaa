package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/qscreen/internal/brain"
	"github.com/wonny/qscreen/internal/contracts"
	"github.com/wonny/qscreen/internal/s0_data"
	"github.com/wonny/qscreen/pkg/logger"
)

type stubRefresher struct {
	err error
}

func (s stubRefresher) Refresh(context.Context) (*s0_data.RefreshResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &s0_data.RefreshResult{Generation: 2, Accepted: 10}, nil
}

func (s stubRefresher) SourceName() string { return "stub" }

func TestRefreshJob(t *testing.T) {
	job := NewRefreshJob(stubRefresher{}, "", logger.NewNop())
	assert.Equal(t, "snapshot_refresh", job.Name())
	assert.Equal(t, DefaultRefreshSchedule, job.Schedule())
	assert.NoError(t, job.Run(context.Background()))

	failing := NewRefreshJob(stubRefresher{err: errors.New("timeout")}, "@hourly", logger.NewNop())
	assert.Equal(t, "@hourly", failing.Schedule())
	err := failing.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout")
}

type staticProvider struct {
	snap *contracts.Snapshot
}

func (p staticProvider) Current() *contracts.Snapshot { return p.snap }

func TestScreenJob(t *testing.T) {
	record := contracts.StockRecord{
		Name: "Alpha", Symbol: "ALP", ISIN: "INE000A01010",
		PETTM: contracts.Metric(22), ROE: contracts.Metric(18), FinancialHealth: contracts.Metric(7),
		RevenueGrowth: contracts.Metric(20), Durability: contracts.Metric(75),
		ValuationScore: contracts.Metric(70), Momentum: contracts.Metric(60),
	}
	snap := contracts.NewSnapshot([]contracts.StockRecord{record}, 1, "test", time.Now())
	orchestrator := brain.NewOrchestrator(staticProvider{snap: snap}, logger.NewNop())

	job := NewScreenJob(orchestrator, brain.DefaultParams(), "", logger.NewNop())
	assert.Equal(t, DefaultScreenSchedule, job.Schedule())
	assert.NoError(t, job.Run(context.Background()))

	empty := NewScreenJob(brain.NewOrchestrator(staticProvider{}, logger.NewNop()), brain.DefaultParams(), "", logger.NewNop())
	assert.ErrorIs(t, empty.Run(context.Background()), brain.ErrNoSnapshot)
}
