package jobs

import (
	"inventrack-backend/internal/config"
	"inventrack-backend/internal/logger"
	"inventrack-backend/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	alerts service.AlertService
	config *config.Config
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(alerts service.AlertService, cfg *config.Config) *JobRunner {
	return &JobRunner{
		alerts: alerts,
		config: cfg,
	}
}

// Config exposes the loaded configuration to the scheduler.
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func() error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	if err := jobFunc(); err != nil {
		logger.Error("Job failed", "job", jobName, "error", err)
		return
	}
	logger.Info("Job completed", "job", jobName)
}

// RunAllSweeps runs every sweep once (for manual execution)
func (jr *JobRunner) RunAllSweeps() {
	jr.OverdueSweep()
	jr.LowStockSweep()
	jr.MaintenanceSweep()
	jr.DailySummary()
}
