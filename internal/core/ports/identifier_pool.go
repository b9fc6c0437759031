package ports

import (
	"context"
	"errors"
	"time"

	"freight/internal/core/domain/model/shipment"
)

// ErrIdentifierPoolExhausted is returned by Reserve when a carrier has no free identifier.
var ErrIdentifierPoolExhausted = errors.New("identifier pool exhausted")

// IdentifierPool hands out carrier-issued identifiers (waybill numbers) that must be
// assigned before a booking is sent. Reserve and Release are atomic per identifier.
type IdentifierPool interface {
	// Reserve checks out the next available identifier for the carrier.
	Reserve(ctx context.Context, carrierCode int) (shipment.Reservation, error)

	// Release makes a reserved identifier available again.
	Release(ctx context.Context, reservation shipment.Reservation) error

	// Consume marks a reserved identifier as used by a booked leg.
	Consume(ctx context.Context, reservation shipment.Reservation) error
}

// StrandedIdentifierFinder lists reservations that were never consumed or released,
// typically because the process stopped between reservation and booking.
type StrandedIdentifierFinder interface {
	FindStranded(ctx context.Context, reservedBefore time.Time) ([]shipment.Reservation, error)
}

// IdentifierLoader adds carrier-issued identifiers to the pool. Identifiers already
// known for the carrier are skipped; the count of newly added ones is returned.
type IdentifierLoader interface {
	Load(ctx context.Context, carrierCode int, identifiers ...string) (int64, error)
}
