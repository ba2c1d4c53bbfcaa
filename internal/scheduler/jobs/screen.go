package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/qscreen/internal/brain"
	"github.com/wonny/qscreen/pkg/logger"
)

// DefaultScreenSchedule runs the strategy screen shortly after each refresh
const DefaultScreenSchedule = "0 5 */6 * * *"

// Screener runs the screening pipeline
type Screener interface {
	Run(ctx context.Context, config brain.RunConfig) (*brain.RunResult, error)
}

// ScreenJob runs the configured strategy and persists the run
type ScreenJob struct {
	screener Screener
	params   brain.Params
	schedule string
	logger   *logger.Logger
}

// NewScreenJob creates a new screen job. An empty schedule uses DefaultScreenSchedule.
func NewScreenJob(screener Screener, params brain.Params, schedule string, log *logger.Logger) *ScreenJob {
	if schedule == "" {
		schedule = DefaultScreenSchedule
	}
	return &ScreenJob{
		screener: screener,
		params:   params,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name
func (j *ScreenJob) Name() string {
	return "strategy_screen"
}

// Schedule returns the cron schedule
func (j *ScreenJob) Schedule() string {
	return j.schedule
}

// Run screens the current snapshot. It also warms the result cache for the API.
func (j *ScreenJob) Run(ctx context.Context) error {
	result, err := j.screener.Run(ctx, brain.RunConfig{
		Params:  j.params,
		Origin:  "scheduler",
		Persist: true,
		NoCache: true,
	})
	if err != nil {
		return fmt.Errorf("strategy screen: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"run_id":     result.RunID.String(),
		"generation": result.Generation,
		"returned":   result.Rank.Returned,
		"persisted":  result.Persisted,
	}).Info("Scheduled screen completed")

	return nil
}
