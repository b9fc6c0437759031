package queries

import (
	"errors"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/shipment"
	"freight/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrGetShipmentQueryIsNotConstructed = errors.New(
	"GetShipmentQuery must be created via NewGetShipmentQuery constructor",
)

// GetShipmentQuery loads one shipment with its legs for display.
//
// Example:
//
//	query, err := NewGetShipmentQuery(id)
//	if err != nil {
//	    return err
//	}
//	resp, err := handler.Handle(ctx, query)
//	if errors.Is(err, errs.ErrObjectNotFound) {
//	    // unknown shipment
//	}
type GetShipmentQuery struct {
	shipmentID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetShipmentQuery(shipmentID kernel.UUID) (GetShipmentQuery, error) {
	if err := shipmentID.Validate(); err != nil {
		return GetShipmentQuery{}, err
	}
	return GetShipmentQuery{shipmentID: shipmentID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetShipmentQuery) Validate() error {
	return q.guard.Validate(ErrGetShipmentQueryIsNotConstructed)
}

func (q GetShipmentQuery) ShipmentID() kernel.UUID {
	return q.shipmentID
}

// PlaceView is the part of an address shown in listings.
type PlaceView struct {
	City       string
	Province   string
	Country    string
	PostalCode string
}

// LegView is one leg as stored. Base* amounts are the carrier's own prices.
type LegView struct {
	ID               kernel.UUID
	Role             shipment.Role
	Carrier          int
	Service          string
	Status           shipment.LegStatus
	Origin           PlaceView
	Destination      PlaceView
	Waybill          string
	TrackingNumber   string
	BookingReference string
	Total            decimal.Decimal
	BaseTotal        decimal.Decimal
	Multiplier       decimal.Decimal
	TransitDays      int
	PickupDate       *time.Time
	DeliveryDate     *time.Time
	HoldReason       string
}

type GetShipmentQueryResponse struct {
	ID          kernel.UUID
	AccountID   string
	Strategy    string
	Origin      PlaceView
	Destination PlaceView
	Dangerous   bool
	Totals      shipment.Totals
	CreatedAt   time.Time
	Legs        []LegView
}
