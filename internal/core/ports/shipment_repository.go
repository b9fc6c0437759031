package ports

import (
	"context"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/shipment"
)

// ShipmentRepository persists Shipment aggregates together with their legs.
type ShipmentRepository interface {
	// Add persists a new shipment and its legs.
	Add(ctx context.Context, aggregate *shipment.Shipment) error

	// Update persists the shipment row and every leg.
	Update(ctx context.Context, aggregate *shipment.Shipment) error

	// Get loads a shipment with its legs. Missing shipments yield errs.ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UUID) (*shipment.Shipment, error)

	// Delete removes a shipment and its legs. Used as the compensating action when
	// the main leg cannot be booked.
	Delete(ctx context.Context, id kernel.UUID) error

	// SumLegs aggregates pre-markup cost and marked-up freight, surcharge, tax and
	// total across the shipment's persisted legs.
	SumLegs(ctx context.Context, id kernel.UUID) (shipment.Totals, error)
}
