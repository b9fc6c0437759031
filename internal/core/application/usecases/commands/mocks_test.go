package commands_test

import (
	"context"

	"freight/internal/core/domain/model/carrier"
	"freight/internal/core/domain/model/dangerousgoods"
	"freight/internal/core/domain/model/shipment"
	"freight/internal/core/domain/services/orchestration"

	"github.com/stretchr/testify/mock"
)

type MockRequestParser struct{ mock.Mock }

func (m *MockRequestParser) Parse(
	ctx context.Context,
	req shipment.Request,
) (shipment.Request, carrier.Catalog, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(shipment.Request), args.Get(1).(carrier.Catalog), args.Error(2)
}

type MockShipmentPlanner struct{ mock.Mock }

func (m *MockShipmentPlanner) Plan(
	ctx context.Context,
	catalog carrier.Catalog,
	b orchestration.Booking,
) (orchestration.Plan, error) {
	args := m.Called(ctx, catalog, b)
	return args.Get(0).(orchestration.Plan), args.Error(1)
}

type MockShipmentDispatcher struct{ mock.Mock }

func (m *MockShipmentDispatcher) Dispatch(ctx context.Context, plan orchestration.Plan) (*shipment.Shipment, error) {
	args := m.Called(ctx, plan)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipment.Shipment), args.Error(1)
}

type MockDocumentRenderer struct{ mock.Mock }

func (m *MockDocumentRenderer) Render(
	ctx context.Context,
	doc dangerousgoods.Document,
) (dangerousgoods.RenderedDocument, error) {
	args := m.Called(ctx, doc)
	return args.Get(0).(dangerousgoods.RenderedDocument), args.Error(1)
}

type MockEventPublisher struct{ mock.Mock }

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shipment.Event) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

type MockIdentifierLoader struct{ mock.Mock }

func (m *MockIdentifierLoader) Load(ctx context.Context, carrierCode int, identifiers ...string) (int64, error) {
	args := m.Called(ctx, carrierCode, identifiers)
	return args.Get(0).(int64), args.Error(1)
}
