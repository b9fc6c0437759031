// Package commands contains business operations that modify system state.
// Every handler follows the same pattern: validate the command, call the domain
// services in order, and let the collaborators below own persistence and I/O.
package commands

import (
	"context"

	"freight/internal/core/domain/model/carrier"
	"freight/internal/core/domain/model/shipment"
	"freight/internal/core/domain/services/orchestration"
)

// Collaborators of the booking handler. The concrete types live in the domain
// services and the dispatch package; handlers depend on these narrow views.
type (
	// RequestParser normalizes a request and narrows its candidate carriers.
	RequestParser interface {
		Parse(ctx context.Context, req shipment.Request) (shipment.Request, carrier.Catalog, error)
	}

	// ShipmentPlanner turns a booking into leg requests, reserving waybills
	// for pre-assigned carriers.
	ShipmentPlanner interface {
		Plan(ctx context.Context, catalog carrier.Catalog, b orchestration.Booking) (orchestration.Plan, error)
	}

	// ShipmentDispatcher books every planned leg and returns the settled aggregate.
	ShipmentDispatcher interface {
		Dispatch(ctx context.Context, plan orchestration.Plan) (*shipment.Shipment, error)
	}
)
