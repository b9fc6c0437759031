package jobs

import (
	"context"
	"log/slog"
	"time"

	"freight/internal/core/ports"
	"freight/internal/metrics"

	"github.com/robfig/cron/v3"
)

// StrandedWaybillJob reports waybill reservations that were neither consumed nor
// released within the threshold. It never returns them to the pool: whether the
// carrier already received the booking has to be checked by an operator.
type StrandedWaybillJob struct {
	finder    ports.StrandedIdentifierFinder
	threshold time.Duration
	schedule  string
	cron      *cron.Cron
	now       func() time.Time
	logger    *slog.Logger
}

func NewStrandedWaybillJob(
	finder ports.StrandedIdentifierFinder,
	threshold time.Duration,
	schedule string,
	logger *slog.Logger,
) *StrandedWaybillJob {
	return &StrandedWaybillJob{
		finder:    finder,
		threshold: threshold,
		schedule:  schedule,
		cron:      cron.New(cron.WithSeconds()),
		now:       time.Now,
		logger:    logger.With("component", "stranded_waybill_job"),
	}
}

func (j *StrandedWaybillJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()
		if err := j.Run(ctx); err != nil {
			j.logger.ErrorContext(ctx, "Stranded waybill job failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Stranded waybill job started",
		"schedule", j.schedule, "threshold", j.threshold.String())
	return nil
}

func (j *StrandedWaybillJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Stranded waybill job stopped")
}

func (j *StrandedWaybillJob) Run(ctx context.Context) error {
	stranded, err := j.finder.FindStranded(ctx, j.now().Add(-j.threshold))
	if err != nil {
		return err
	}
	metrics.StrandedWaybills.Set(float64(len(stranded)))

	for _, r := range stranded {
		j.logger.WarnContext(ctx, "Waybill reservation stranded",
			"carrier", r.Carrier,
			"waybill", r.Waybill,
			"reserved_at", r.ReservedAt)
	}
	return nil
}
