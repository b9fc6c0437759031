package jobs

import (
	"context"
	"log/slog"
	"time"

	"freight/internal/core/application/usecases/queries"
	"freight/internal/core/domain/model/shipment"
	"freight/internal/core/ports"
	"freight/internal/metrics"

	"github.com/robfig/cron/v3"
)

// OnHoldLister is satisfied by queries.GetLegsOnHoldQueryHandler.
type OnHoldLister interface {
	Handle(ctx context.Context, query queries.GetLegsOnHoldQuery) ([]queries.GetLegsOnHoldQueryResponse, error)
}

// OnHoldLegsJob reminds operators of legs that still have to be booked by hand.
// Every run republishes a LegOnHold event per waiting leg and refreshes the gauge.
type OnHoldLegsJob struct {
	lister    OnHoldLister
	publisher ports.EventPublisher
	schedule  string
	cron      *cron.Cron
	now       func() time.Time
	logger    *slog.Logger
}

func NewOnHoldLegsJob(
	lister OnHoldLister,
	publisher ports.EventPublisher,
	schedule string,
	logger *slog.Logger,
) *OnHoldLegsJob {
	return &OnHoldLegsJob{
		lister:    lister,
		publisher: publisher,
		schedule:  schedule,
		cron:      cron.New(cron.WithSeconds()),
		now:       time.Now,
		logger:    logger.With("component", "on_hold_legs_job"),
	}
}

func (j *OnHoldLegsJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()
		if err := j.Run(ctx); err != nil {
			j.logger.ErrorContext(ctx, "On-hold legs job failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "On-hold legs job started", "schedule", j.schedule)
	return nil
}

func (j *OnHoldLegsJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "On-hold legs job stopped")
}

// Run performs one reminder pass. A failed publish is logged and does not fail the run.
func (j *OnHoldLegsJob) Run(ctx context.Context) error {
	legs, err := j.lister.Handle(ctx, queries.NewGetLegsOnHoldQuery())
	if err != nil {
		return err
	}
	metrics.LegsOnHold.Set(float64(len(legs)))
	if len(legs) == 0 {
		return nil
	}

	now := j.now()
	events := make([]shipment.Event, 0, len(legs))
	for _, l := range legs {
		j.logger.WarnContext(ctx, "Leg waiting for manual booking",
			"shipment_id", l.ShipmentID.String(),
			"leg_id", l.LegID.String(),
			"role", l.Role.String(),
			"carrier", l.Carrier,
			"waiting", now.Sub(l.BookedAt).Round(time.Minute).String(),
			"reason", l.HoldReason)

		events = append(events, shipment.LegOnHold{
			ShipmentID: l.ShipmentID,
			LegID:      l.LegID,
			Role:       l.Role,
			Carrier:    l.Carrier,
			Reason:     l.HoldReason,
			OccurredAt: now,
		})
	}

	if err = j.publisher.Publish(ctx, events...); err != nil {
		j.logger.ErrorContext(ctx, "Failed to publish on-hold reminders", "legs", len(legs), "error", err)
	}
	return nil
}
