package orchestration

import (
	"context"
	"fmt"

	"freight/internal/core/domain/model/hub"
	"freight/internal/core/domain/model/shipment"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

const (
	GroundStrategy    = "ground"
	AirStrategy       = "air"
	SealiftStrategy   = "sealift"
	InterlineStrategy = "interline"
)

// Strategy builds the legs of one kind of shipment. Implementations do no carrier I/O.
type Strategy interface {
	Name() string
	BuildLegs(ctx context.Context, booking Booking) (Plan, error)
}

// Ground moves the shipment door to door with the main carrier.
type Ground struct{}

func (Ground) Name() string { return GroundStrategy }

func (Ground) BuildLegs(_ context.Context, b Booking) (Plan, error) {
	if b.PickupCarrier != 0 || b.DeliveryCarrier != 0 {
		return Plan{}, errs.NewFieldValidationError("unexpected_leg", "pickup_carrier",
			"ground shipments are moved by the main carrier alone")
	}

	req := b.Request
	return Plan{
		Booking:  b,
		Strategy: GroundStrategy,
		Legs:     []shipment.LegRequest{newLeg(shipment.Main, b.MainCarrier, b.Service, req.Origin, req.Destination, req)},
	}, nil
}

// Air flies between the main carrier's airbases nearest to each end. Optional
// pickup and delivery legs connect the doors to those airbases.
type Air struct {
	hubs ports.HubDirectory
}

func NewAir(hubs ports.HubDirectory) Air {
	return Air{hubs: hubs}
}

func (Air) Name() string { return AirStrategy }

func (s Air) BuildLegs(ctx context.Context, b Booking) (Plan, error) {
	airbases, err := s.hubs.Airbases(ctx, b.MainCarrier)
	if err != nil {
		return Plan{}, fmt.Errorf("load airbases of carrier %d: %w", b.MainCarrier, err)
	}

	req := b.Request
	from, to := req.Origin, req.Destination
	var legs []shipment.LegRequest

	if b.PickupCarrier != 0 {
		base, ok := hub.NearestAirbase(airbases, req.Origin)
		if !ok {
			return Plan{}, errs.NewFieldValidationError("airbase_not_found", "origin",
				"carrier %d has no airbase serving %s, %s", b.MainCarrier, req.Origin.City, req.Origin.Province)
		}
		legs = append(legs, newLeg(shipment.Pickup, b.PickupCarrier, b.PickupService, req.Origin, base.Address, req))
		from = base.Address
	}

	var delivery *shipment.LegRequest
	if b.DeliveryCarrier != 0 {
		base, ok := hub.NearestAirbase(airbases, req.Destination)
		if !ok {
			return Plan{}, errs.NewFieldValidationError("airbase_not_found", "destination",
				"carrier %d has no airbase serving %s, %s", b.MainCarrier, req.Destination.City, req.Destination.Province)
		}
		leg := newLeg(shipment.Delivery, b.DeliveryCarrier, b.DeliveryService, base.Address, req.Destination, req)
		delivery = &leg
		to = base.Address
	}

	legs = append(legs, newLeg(shipment.Main, b.MainCarrier, b.Service, from, to, req))
	if delivery != nil {
		legs = append(legs, *delivery)
	}

	return Plan{Booking: b, Strategy: AirStrategy, Legs: legs}, nil
}

// Sealift ships from the sailing's port. Pickup goes to the carrier's packing
// station and delivery leaves from the destination port; both are booked by hand.
type Sealift struct {
	hubs ports.HubDirectory
}

func NewSealift(hubs ports.HubDirectory) Sealift {
	return Sealift{hubs: hubs}
}

func (Sealift) Name() string { return SealiftStrategy }

func (s Sealift) BuildLegs(ctx context.Context, b Booking) (Plan, error) {
	if b.Sailing == "" {
		return Plan{}, errs.NewFieldValidationError("sailing_required", "sailing",
			"sealift bookings must name a sailing")
	}
	sailing, err := s.hubs.Sailing(ctx, b.MainCarrier, b.Sailing)
	if err != nil {
		return Plan{}, fmt.Errorf("load sailing %q: %w", b.Sailing, err)
	}

	req := b.Request
	to := req.Destination
	var legs []shipment.LegRequest

	if b.PickupCarrier != 0 {
		station, stationErr := s.hubs.PackingStation(ctx, b.MainCarrier)
		if stationErr != nil {
			return Plan{}, fmt.Errorf("load packing station of carrier %d: %w", b.MainCarrier, stationErr)
		}
		pickup := newLeg(shipment.Pickup, b.PickupCarrier, b.PickupService, req.Origin, station.Address, req)
		pickup.ManualBooking = true
		legs = append(legs, pickup)
	}
	if b.DeliveryCarrier != 0 {
		to = sailing.DestinationPort
	}

	legs = append(legs, newLeg(shipment.Main, b.MainCarrier, b.Service, sailing.Port, to, req))

	if b.DeliveryCarrier != 0 {
		delivery := newLeg(shipment.Delivery, b.DeliveryCarrier, b.DeliveryService, sailing.DestinationPort, req.Destination, req)
		delivery.ManualBooking = true
		legs = append(legs, delivery)
	}

	return Plan{Booking: b, Strategy: SealiftStrategy, Legs: legs}, nil
}

// Interline hands freight between two carriers at their shared middle location.
// The first carrier's leg is the main leg and carries the cross-dock fee.
type Interline struct {
	hubs         ports.HubDirectory
	crossDockFee decimal.Decimal
}

func NewInterline(hubs ports.HubDirectory, crossDockFee decimal.Decimal) Interline {
	return Interline{hubs: hubs, crossDockFee: crossDockFee}
}

func (Interline) Name() string { return InterlineStrategy }

func (s Interline) BuildLegs(ctx context.Context, b Booking) (Plan, error) {
	if b.DeliveryCarrier == 0 {
		return Plan{}, errs.NewFieldValidationError("second_carrier_required", "delivery_carrier",
			"interline bookings need a second carrier")
	}
	if b.PickupCarrier != 0 {
		return Plan{}, errs.NewFieldValidationError("unexpected_leg", "pickup_carrier",
			"interline bookings have no pickup leg")
	}

	middle, err := s.hubs.MiddleLocation(ctx, b.MainCarrier, b.DeliveryCarrier)
	if err != nil {
		return Plan{}, fmt.Errorf("load middle location of carriers %d and %d: %w", b.MainCarrier, b.DeliveryCarrier, err)
	}

	req := b.Request
	return Plan{
		Booking:  b,
		Strategy: InterlineStrategy,
		Legs: []shipment.LegRequest{
			newLeg(shipment.Main, b.MainCarrier, b.Service, req.Origin, middle.Address, req),
			newLeg(shipment.Delivery, b.DeliveryCarrier, b.DeliveryService, middle.Address, req.Destination, req),
		},
		CrossDockFee: s.crossDockFee,
	}, nil
}
