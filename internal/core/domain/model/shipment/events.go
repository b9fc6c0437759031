package shipment

import (
	"time"

	"freight/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
)

// Event is a domain event raised by the Shipment aggregate.
type Event interface {
	EventName() string
	AggregateID() kernel.UUID
}

// ShipmentBooked is raised once every leg of a shipment has settled.
type ShipmentBooked struct {
	ShipmentID  kernel.UUID
	AccountID   string
	Strategy    string
	MainCarrier int
	Legs        int
	LegsOnHold  int
	Total       decimal.Decimal
	OccurredAt  time.Time
}

func (e ShipmentBooked) EventName() string        { return "shipment.booked" }
func (e ShipmentBooked) AggregateID() kernel.UUID { return e.ShipmentID }

// LegOnHold is raised for every leg that needs an operator.
type LegOnHold struct {
	ShipmentID kernel.UUID
	LegID      kernel.UUID
	Role       Role
	Carrier    int
	Reason     string
	OccurredAt time.Time
}

func (e LegOnHold) EventName() string        { return "leg.on_hold" }
func (e LegOnHold) AggregateID() kernel.UUID { return e.ShipmentID }
