package ports

import (
	"context"

	"freight/internal/core/domain/model/carrier"
	"freight/internal/core/domain/model/shipment"
)

// CarrierAdapter talks to one carrier. Implementations own wire formats and any retries.
type CarrierAdapter interface {
	// Rate returns the services the carrier offers for the request.
	Rate(ctx context.Context, req shipment.Request) ([]shipment.Quote, error)

	// Ship books one leg under the shipment's order number.
	Ship(ctx context.Context, orderNumber string, leg shipment.LegRequest) (shipment.LegResult, error)
}

// CarrierRegistry resolves the adapter for a carrier code.
type CarrierRegistry interface {
	Adapter(code int) (CarrierAdapter, error)
}

// CarrierCatalog loads the configured carriers.
type CarrierCatalog interface {
	Catalog(ctx context.Context) (carrier.Catalog, error)
}
