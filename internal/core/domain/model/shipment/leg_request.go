package shipment

import (
	"time"

	"freight/internal/core/domain/model/carrier"
	"freight/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
)

// LegRequest is one carrier-facing unit of work. Origin and Destination may be a
// hub; the Ultimate fields always carry the shipment's true endpoints for labels.
type LegRequest struct {
	Role    Role
	Carrier int
	Service string

	Origin              kernel.Address
	Destination         kernel.Address
	UltimateOrigin      kernel.Address
	UltimateDestination kernel.Address

	Request Request

	// Waybill is a pre-assigned identifier reserved from the carrier's pool.
	Waybill string
	// ManualBooking legs are never sent to the carrier and go straight on hold.
	ManualBooking bool
}

// Charges are the monetary fields of a carrier answer.
type Charges struct {
	Freight   decimal.Decimal
	Surcharge decimal.Decimal
	Tax       decimal.Decimal
	Total     decimal.Decimal
}

func (c Charges) Add(other Charges) Charges {
	return Charges{
		Freight:   c.Freight.Add(other.Freight),
		Surcharge: c.Surcharge.Add(other.Surcharge),
		Tax:       c.Tax.Add(other.Tax),
		Total:     c.Total.Add(other.Total),
	}
}

// WithSurcharge adds fee to both the surcharge and the total.
func (c Charges) WithSurcharge(fee decimal.Decimal) Charges {
	c.Surcharge = c.Surcharge.Add(fee)
	c.Total = c.Total.Add(fee)
	return c
}

// LegResult is a carrier's answer to a booking. Charges hold the marked-up amounts
// once markup has been applied; Base keeps what the carrier quoted.
type LegResult struct {
	Charges
	Base       Charges
	Multiplier decimal.Decimal

	TransitDays       int
	TrackingNumber    string
	BookingReference  string
	EstimatedDelivery time.Time
}

// IsMarkedUp reports whether markup has already been applied.
func (r LegResult) IsMarkedUp() bool {
	return !r.Multiplier.IsZero()
}

// Quote is one priced service offered by a carrier for a rate request.
type Quote struct {
	Carrier     int
	CarrierName string
	Mode        carrier.Mode
	Service     string
	ServiceName string
	TransitDays int

	Charges
	Base       Charges
	Multiplier decimal.Decimal
}

// Reservation is a pre-assigned identifier checked out of a carrier's pool.
type Reservation struct {
	Carrier    int
	Waybill    string
	ReservedAt time.Time
}
