package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/qscreen/internal/s0_data"
	"github.com/wonny/qscreen/pkg/logger"
)

// DefaultRefreshSchedule reloads the snapshot every 6 hours
const DefaultRefreshSchedule = "0 0 */6 * * *"

// Refresher performs one snapshot refresh
type Refresher interface {
	Refresh(ctx context.Context) (*s0_data.RefreshResult, error)
	SourceName() string
}

// RefreshJob reloads the snapshot from its source
// ⭐ SSOT: 스냅샷 갱신 스케줄은 이 Job에서만
type RefreshJob struct {
	refresher Refresher
	schedule  string
	logger    *logger.Logger
}

// NewRefreshJob creates a new refresh job. An empty schedule uses DefaultRefreshSchedule.
func NewRefreshJob(refresher Refresher, schedule string, log *logger.Logger) *RefreshJob {
	if schedule == "" {
		schedule = DefaultRefreshSchedule
	}
	return &RefreshJob{
		refresher: refresher,
		schedule:  schedule,
		logger:    log,
	}
}

// Name returns the job name
func (j *RefreshJob) Name() string {
	return "snapshot_refresh"
}

// Schedule returns the cron schedule
func (j *RefreshJob) Schedule() string {
	return j.schedule
}

// Run executes one refresh. A failure leaves the previous snapshot in place.
func (j *RefreshJob) Run(ctx context.Context) error {
	j.logger.WithField("source", j.refresher.SourceName()).Info("Starting scheduled snapshot refresh")

	result, err := j.refresher.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("refresh snapshot: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"generation": result.Generation,
		"accepted":   result.Accepted,
		"rejected":   result.Rejected,
	}).Info("Scheduled snapshot refresh completed")

	return nil
}
