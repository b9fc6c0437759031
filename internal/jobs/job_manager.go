package jobs

import (
	"fmt"
	"log/slog"
	"time"

	"freight/internal/core/ports"
)

// Schedules holds the cron expressions (with seconds) of every job.
type Schedules struct {
	OnHoldLegs       string
	StrandedWaybills string
}

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	onHoldLegsJob      *OnHoldLegsJob
	strandedWaybillJob *StrandedWaybillJob
}

func NewJobManager(
	lister OnHoldLister,
	publisher ports.EventPublisher,
	finder ports.StrandedIdentifierFinder,
	strandedAfter time.Duration,
	schedules Schedules,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		onHoldLegsJob:      NewOnHoldLegsJob(lister, publisher, schedules.OnHoldLegs, logger),
		strandedWaybillJob: NewStrandedWaybillJob(finder, strandedAfter, schedules.StrandedWaybills, logger),
	}
}

// StartAll starts all scheduled jobs. Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.onHoldLegsJob.Start(); err != nil {
		return fmt.Errorf("failed to start on-hold legs job: %w", err)
	}

	if err := jm.strandedWaybillJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.onHoldLegsJob.Stop()
		return fmt.Errorf("failed to start stranded waybill job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs and waits for running passes to finish.
func (jm *JobManager) StopAll() {
	jm.strandedWaybillJob.Stop()
	jm.onHoldLegsJob.Stop()
}
