package orchestration

import (
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/shipment"

	"github.com/shopspring/decimal"
)

// Booking is the customer's choice among the quotes of a parsed request.
// Zero carrier codes mean the leg is not wanted.
type Booking struct {
	Request shipment.Request

	MainCarrier int
	Service     string

	PickupCarrier int
	PickupService string

	DeliveryCarrier int
	DeliveryService string

	// Sailing names the voyage for sealift bookings.
	Sailing string
	// Interline hands the freight from MainCarrier to DeliveryCarrier at a shared hub.
	Interline bool
}

// Plan is what the dispatcher executes.
type Plan struct {
	Booking      Booking
	Strategy     string
	Legs         []shipment.LegRequest
	Reservations []shipment.Reservation
	// CrossDockFee is charged on the main leg before markup.
	CrossDockFee decimal.Decimal
}

// Leg returns the leg request for role.
func (p Plan) Leg(role shipment.Role) (shipment.LegRequest, bool) {
	for _, l := range p.Legs {
		if l.Role == role {
			return l, true
		}
	}
	return shipment.LegRequest{}, false
}

func newLeg(
	role shipment.Role,
	carrierCode int,
	service string,
	from, to kernel.Address,
	req shipment.Request,
) shipment.LegRequest {
	legReq := req.Clone()
	legReq.Origin = from
	legReq.Destination = to
	legReq.Carriers = []int{carrierCode}

	return shipment.LegRequest{
		Role:                role,
		Carrier:             carrierCode,
		Service:             service,
		Origin:              from,
		Destination:         to,
		UltimateOrigin:      req.Origin,
		UltimateDestination: req.Destination,
		Request:             legReq,
	}
}
