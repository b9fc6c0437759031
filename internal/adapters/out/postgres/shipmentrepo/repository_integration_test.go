package shipmentrepo_test

import (
	"context"
	"testing"
	"time"

	"freight/internal/adapters/out/postgres/shipmentrepo"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/shipment"
	"freight/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

type ShipmentRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *shipmentrepo.GormShipmentRepository
	tracker    *MockAggregateTracker
}

func (suite *ShipmentRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&shipmentrepo.ShipmentDTO{}, &shipmentrepo.LegDTO{}))
}

func (suite *ShipmentRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE shipment_legs, shipments CASCADE").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything).Maybe()
	suite.repository = shipmentrepo.NewGormShipmentRepository(suite.db, suite.tracker)
}

func (suite *ShipmentRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *ShipmentRepositoryIntegrationTestSuite) TestAdd_TracksAndPersistsLegs() {
	ctx := context.Background()
	s := suite.newShipment(true)

	tracker := new(MockAggregateTracker)
	tracker.On("TrackAggregate", s.ID(), s).Once()
	repo := shipmentrepo.NewGormShipmentRepository(suite.db, tracker)

	suite.Require().NoError(repo.Add(ctx, s))

	suite.assertCount(&shipmentrepo.ShipmentDTO{}, 1)
	suite.assertCount(&shipmentrepo.LegDTO{}, 2)
	tracker.AssertExpectations(suite.T())
}

func (suite *ShipmentRepositoryIntegrationTestSuite) TestAdd_UnconstructedShipment_Fails() {
	err := suite.repository.Add(context.Background(), &shipment.Shipment{})

	suite.Require().ErrorIs(err, shipment.ErrShipmentIsNotConstructed)
	suite.assertCount(&shipmentrepo.ShipmentDTO{}, 0)
}

func (suite *ShipmentRepositoryIntegrationTestSuite) TestGet_RoundTripsAddressesAndLegOrder() {
	ctx := context.Background()
	s := suite.newShipment(true)
	suite.Require().NoError(suite.repository.Add(ctx, s))

	loaded, err := suite.repository.Get(ctx, s.ID())
	suite.Require().NoError(err)

	suite.Equal("acct-1", loaded.AccountID())
	suite.Equal("air", loaded.Strategy())
	suite.True(loaded.IsDangerous())
	suite.Equal(s.Origin(), loaded.Origin())
	suite.Equal(s.Destination(), loaded.Destination())
	suite.Require().Len(loaded.Legs(), 2)
	suite.Equal(shipment.Pickup, loaded.Legs()[0].Role())
	suite.Equal(shipment.Main, loaded.Legs()[1].Role())
	suite.Equal("WB-100", loaded.MainLeg().Waybill())
	suite.Equal(shipment.Pending, loaded.MainLeg().Status())
}

func (suite *ShipmentRepositoryIntegrationTestSuite) TestGet_Missing_ReturnsNotFound() {
	_, err := suite.repository.Get(context.Background(), kernel.NewUUID())

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *ShipmentRepositoryIntegrationTestSuite) TestUpdate_PersistsSettledLegsAndTotals() {
	ctx := context.Background()
	s := suite.newShipment(true)
	suite.Require().NoError(suite.repository.Add(ctx, s))

	pickup, _ := s.Leg(shipment.Pickup)
	suite.Require().NoError(pickup.Hold("manual booking required", decimal.RequireFromString("1.15")))
	suite.Require().NoError(s.MainLeg().Book(shipment.LegResult{
		Charges:        charges("92.00", "0.00", "23.00", "115.00"),
		Base:           charges("80.00", "0.00", "20.00", "100.00"),
		Multiplier:     decimal.RequireFromString("1.15"),
		TransitDays:    2,
		TrackingNumber: "TRK-1",
	}))
	pickupDay := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	suite.Require().NoError(s.MainLeg().Schedule(pickupDay, pickupDay.AddDate(0, 0, 2)))
	suite.Require().NoError(suite.repository.Update(ctx, s))

	totals, err := suite.repository.SumLegs(ctx, s.ID())
	suite.Require().NoError(err)
	suite.True(decimal.RequireFromString("100.00").Equal(totals.Cost))
	suite.True(decimal.RequireFromString("92.00").Equal(totals.Freight))
	suite.True(decimal.RequireFromString("23.00").Equal(totals.Tax))
	suite.True(decimal.RequireFromString("115.00").Equal(totals.Total))

	s.SetTotals(totals)
	suite.Require().NoError(suite.repository.Update(ctx, s))

	loaded, err := suite.repository.Get(ctx, s.ID())
	suite.Require().NoError(err)
	suite.True(decimal.RequireFromString("115.00").Equal(loaded.Totals().Total))

	mainLeg := loaded.MainLeg()
	suite.Equal(shipment.Booked, mainLeg.Status())
	suite.Equal("TRK-1", mainLeg.Result().TrackingNumber)
	suite.Equal(2, mainLeg.Result().TransitDays)
	suite.True(decimal.RequireFromString("1.15").Equal(mainLeg.Result().Multiplier))
	suite.True(decimal.RequireFromString("100.00").Equal(mainLeg.Result().Base.Total))
	suite.Equal(pickupDay.Format(time.DateOnly), mainLeg.PickupDate().Format(time.DateOnly))

	held := loaded.LegsOnHold()
	suite.Require().Len(held, 1)
	suite.Equal("manual booking required", held[0].HoldReason())
}

func (suite *ShipmentRepositoryIntegrationTestSuite) TestUpdate_Missing_ReturnsRecordNotFound() {
	err := suite.repository.Update(context.Background(), suite.newShipment(false))

	suite.Require().ErrorIs(err, gorm.ErrRecordNotFound)
}

func (suite *ShipmentRepositoryIntegrationTestSuite) TestSumLegs_NoLegs_IsZero() {
	totals, err := suite.repository.SumLegs(context.Background(), kernel.NewUUID())

	suite.Require().NoError(err)
	suite.True(totals.Total.IsZero())
	suite.True(totals.Cost.IsZero())
}

func (suite *ShipmentRepositoryIntegrationTestSuite) TestDelete_RemovesShipmentAndLegs() {
	ctx := context.Background()
	s := suite.newShipment(true)
	suite.Require().NoError(suite.repository.Add(ctx, s))

	suite.Require().NoError(suite.repository.Delete(ctx, s.ID()))

	suite.assertCount(&shipmentrepo.ShipmentDTO{}, 0)
	suite.assertCount(&shipmentrepo.LegDTO{}, 0)

	err := suite.repository.Delete(ctx, s.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *ShipmentRepositoryIntegrationTestSuite) newShipment(withPickup bool) *shipment.Shipment {
	origin := kernel.Address{Company: "Acme", Street: "1 Main St", City: "Montreal", Province: "QC", Country: "CA", PostalCode: "H1A1A1", HasLoadingDock: true}
	airbase := kernel.Address{Street: "Airport Rd", City: "Montreal", Province: "QC", Country: "CA"}
	destination := kernel.Address{Contact: "Jane", City: "Iqaluit", Province: "NU", Country: "CA", PostalCode: "X0A0H0", IsResidential: true}

	legs := []*shipment.Leg{}
	if withPickup {
		legs = append(legs, suite.newLeg(shipment.LegRequest{Role: shipment.Pickup, Carrier: 2, Service: "STD", Origin: origin, Destination: airbase}))
	}
	legs = append(legs, suite.newLeg(shipment.LegRequest{Role: shipment.Main, Carrier: 1, Service: "AIR", Origin: airbase, Destination: destination, Waybill: "WB-100"}))

	s, err := shipment.NewShipment(kernel.NewUUID(), "acct-1", "air", origin, destination, true, legs, time.Now().UTC())
	suite.Require().NoError(err)
	return s
}

func (suite *ShipmentRepositoryIntegrationTestSuite) newLeg(req shipment.LegRequest) *shipment.Leg {
	l, err := shipment.NewLeg(kernel.NewUUID(), req)
	suite.Require().NoError(err)
	return l
}

func (suite *ShipmentRepositoryIntegrationTestSuite) assertCount(model any, expected int64) {
	var count int64
	suite.Require().NoError(suite.db.Model(model).Count(&count).Error)
	suite.Equal(expected, count)
}

func charges(freight, surcharge, tax, total string) shipment.Charges {
	return shipment.Charges{
		Freight:   decimal.RequireFromString(freight),
		Surcharge: decimal.RequireFromString(surcharge),
		Tax:       decimal.RequireFromString(tax),
		Total:     decimal.RequireFromString(total),
	}
}

func TestShipmentRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(ShipmentRepositoryIntegrationTestSuite))
}
