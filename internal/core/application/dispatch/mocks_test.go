package dispatch_test

import (
	"context"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/shipment"
	"freight/internal/core/ports"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockShipmentRepository struct{ mock.Mock }

func (m *MockShipmentRepository) Add(ctx context.Context, s *shipment.Shipment) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockShipmentRepository) Update(ctx context.Context, s *shipment.Shipment) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockShipmentRepository) Get(ctx context.Context, id kernel.UUID) (*shipment.Shipment, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*shipment.Shipment)
	return s, args.Error(1)
}

func (m *MockShipmentRepository) Delete(ctx context.Context, id kernel.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockShipmentRepository) SumLegs(ctx context.Context, id kernel.UUID) (shipment.Totals, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(shipment.Totals), args.Error(1)
}

type MockUnitOfWork struct{ mock.Mock }

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockUnitOfWork) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockUnitOfWork) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) ShipmentRepository() ports.ShipmentRepository {
	args := m.Called()
	return args.Get(0).(ports.ShipmentRepository)
}

type MockUnitOfWorkFactory struct{ mock.Mock }

func (m *MockUnitOfWorkFactory) Create() ports.UnitOfWork {
	args := m.Called()
	return args.Get(0).(ports.UnitOfWork)
}

type MockCarrierAdapter struct{ mock.Mock }

func (m *MockCarrierAdapter) Rate(ctx context.Context, req shipment.Request) ([]shipment.Quote, error) {
	args := m.Called(ctx, req)
	quotes, _ := args.Get(0).([]shipment.Quote)
	return quotes, args.Error(1)
}

func (m *MockCarrierAdapter) Ship(
	ctx context.Context,
	orderNumber string,
	leg shipment.LegRequest,
) (shipment.LegResult, error) {
	args := m.Called(ctx, orderNumber, leg)
	return args.Get(0).(shipment.LegResult), args.Error(1)
}

type MockCarrierRegistry struct{ mock.Mock }

func (m *MockCarrierRegistry) Adapter(code int) (ports.CarrierAdapter, error) {
	args := m.Called(code)
	adapter, _ := args.Get(0).(ports.CarrierAdapter)
	return adapter, args.Error(1)
}

type MockMarkupRepository struct{ mock.Mock }

func (m *MockMarkupRepository) CarrierMarkup(ctx context.Context, carrierCode int) (decimal.Decimal, error) {
	args := m.Called(ctx, carrierCode)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

type MockIdentifierPool struct{ mock.Mock }

func (m *MockIdentifierPool) Reserve(ctx context.Context, carrierCode int) (shipment.Reservation, error) {
	args := m.Called(ctx, carrierCode)
	return args.Get(0).(shipment.Reservation), args.Error(1)
}

func (m *MockIdentifierPool) Release(ctx context.Context, r shipment.Reservation) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockIdentifierPool) Consume(ctx context.Context, r shipment.Reservation) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}
