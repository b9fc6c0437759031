package ports

import (
	"context"

	"freight/internal/core/domain/model/hub"
)

// HubDirectory reads the intermediate locations used to split shipments.
// Single-record lookups yield errs.ObjectNotFoundError when nothing matches.
type HubDirectory interface {
	Airbases(ctx context.Context, carrierCode int) ([]hub.Airbase, error)
	Sailing(ctx context.Context, carrierCode int, name string) (hub.Sailing, error)
	PackingStation(ctx context.Context, carrierCode int) (hub.PackingStation, error)
	MiddleLocation(ctx context.Context, firstCarrier, secondCarrier int) (hub.MiddleLocation, error)
}
