// Package queries contains read operations. Rating talks to carriers but
// changes no state; the shipment and on-hold leg queries read straight from
// the database with raw SQL.
package queries

import (
	"context"

	"freight/internal/core/domain/model/carrier"
	"freight/internal/core/domain/model/shipment"
)

// RequestParser normalizes a request and narrows its candidate carriers.
type RequestParser interface {
	Parse(ctx context.Context, req shipment.Request) (shipment.Request, carrier.Catalog, error)
}
