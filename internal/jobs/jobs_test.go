package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"freight/internal/core/application/usecases/queries"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/shipment"
	"freight/internal/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOnHoldLister struct{ mock.Mock }

func (m *MockOnHoldLister) Handle(ctx context.Context, query queries.GetLegsOnHoldQuery) ([]queries.GetLegsOnHoldQueryResponse, error) {
	args := m.Called(ctx, query)
	legs, _ := args.Get(0).([]queries.GetLegsOnHoldQueryResponse)
	return legs, args.Error(1)
}

type MockEventPublisher struct{ mock.Mock }

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shipment.Event) error {
	return m.Called(ctx, events).Error(0)
}

type MockStrandedFinder struct{ mock.Mock }

func (m *MockStrandedFinder) FindStranded(ctx context.Context, reservedBefore time.Time) ([]shipment.Reservation, error) {
	args := m.Called(ctx, reservedBefore)
	found, _ := args.Get(0).([]shipment.Reservation)
	return found, args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var fixedNow = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func TestOnHoldLegsJob_RepublishesReminders(t *testing.T) {
	lister := new(MockOnHoldLister)
	publisher := new(MockEventPublisher)
	shipmentID, legID := kernel.NewUUID(), kernel.NewUUID()

	lister.On("Handle", mock.Anything, mock.Anything).Return([]queries.GetLegsOnHoldQueryResponse{{
		LegID:      legID,
		ShipmentID: shipmentID,
		Role:       shipment.Delivery,
		Carrier:    9,
		HoldReason: "sealift leg is booked by an operator",
		BookedAt:   fixedNow.Add(-3 * time.Hour),
	}}, nil)
	publisher.On("Publish", mock.Anything, []shipment.Event{shipment.LegOnHold{
		ShipmentID: shipmentID,
		LegID:      legID,
		Role:       shipment.Delivery,
		Carrier:    9,
		Reason:     "sealift leg is booked by an operator",
		OccurredAt: fixedNow,
	}}).Return(nil)

	job := NewOnHoldLegsJob(lister, publisher, "@every 1m", discardLogger())
	job.now = func() time.Time { return fixedNow }

	require.NoError(t, job.Run(context.Background()))

	publisher.AssertExpectations(t)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.LegsOnHold), 0)
}

func TestOnHoldLegsJob_NothingOnHold(t *testing.T) {
	lister := new(MockOnHoldLister)
	publisher := new(MockEventPublisher)
	lister.On("Handle", mock.Anything, mock.Anything).Return([]queries.GetLegsOnHoldQueryResponse{}, nil)

	job := NewOnHoldLegsJob(lister, publisher, "@every 1m", discardLogger())

	require.NoError(t, job.Run(context.Background()))

	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	assert.InDelta(t, 0, testutil.ToFloat64(metrics.LegsOnHold), 0)
}

func TestOnHoldLegsJob_PublishFailureIsLogged(t *testing.T) {
	lister := new(MockOnHoldLister)
	publisher := new(MockEventPublisher)
	lister.On("Handle", mock.Anything, mock.Anything).Return([]queries.GetLegsOnHoldQueryResponse{{
		LegID:      kernel.NewUUID(),
		ShipmentID: kernel.NewUUID(),
		Role:       shipment.Pickup,
		Carrier:    3,
	}}, nil)
	publisher.On("Publish", mock.Anything, mock.Anything).Return(errors.New("broker unavailable"))

	job := NewOnHoldLegsJob(lister, publisher, "@every 1m", discardLogger())

	assert.NoError(t, job.Run(context.Background()))
	publisher.AssertExpectations(t)
}

func TestOnHoldLegsJob_ListerFailure(t *testing.T) {
	lister := new(MockOnHoldLister)
	publisher := new(MockEventPublisher)
	lister.On("Handle", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

	job := NewOnHoldLegsJob(lister, publisher, "@every 1m", discardLogger())

	require.EqualError(t, job.Run(context.Background()), "db down")
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestStrandedWaybillJob_UsesThreshold(t *testing.T) {
	finder := new(MockStrandedFinder)
	finder.On("FindStranded", mock.Anything, fixedNow.Add(-2*time.Hour)).Return([]shipment.Reservation{
		{Carrier: 7, Waybill: "WB-1", ReservedAt: fixedNow.Add(-5 * time.Hour)},
		{Carrier: 7, Waybill: "WB-2", ReservedAt: fixedNow.Add(-3 * time.Hour)},
	}, nil)

	job := NewStrandedWaybillJob(finder, 2*time.Hour, "@every 1m", discardLogger())
	job.now = func() time.Time { return fixedNow }

	require.NoError(t, job.Run(context.Background()))

	finder.AssertExpectations(t)
	assert.InDelta(t, 2, testutil.ToFloat64(metrics.StrandedWaybills), 0)
}

func TestStrandedWaybillJob_FinderFailure(t *testing.T) {
	finder := new(MockStrandedFinder)
	finder.On("FindStranded", mock.Anything, mock.Anything).Return(nil, errors.New("redis down"))

	job := NewStrandedWaybillJob(finder, time.Hour, "@every 1m", discardLogger())

	require.EqualError(t, job.Run(context.Background()), "redis down")
}

func TestJobManager_StartAndStop(t *testing.T) {
	manager := NewJobManager(new(MockOnHoldLister), new(MockEventPublisher), new(MockStrandedFinder),
		time.Hour, Schedules{OnHoldLegs: "0 */15 * * * *", StrandedWaybills: "0 0 * * * *"}, discardLogger())

	require.NoError(t, manager.StartAll())
	manager.StopAll()
}

func TestJobManager_InvalidSchedule(t *testing.T) {
	manager := NewJobManager(new(MockOnHoldLister), new(MockEventPublisher), new(MockStrandedFinder),
		time.Hour, Schedules{OnHoldLegs: "0 */15 * * * *", StrandedWaybills: "not a schedule"}, discardLogger())

	err := manager.StartAll()

	require.ErrorContains(t, err, "failed to start stranded waybill job")
}
