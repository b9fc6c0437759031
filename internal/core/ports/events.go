package ports

import (
	"context"

	"freight/internal/core/domain/model/shipment"
)

// EventPublisher delivers domain events to other services.
type EventPublisher interface {
	Publish(ctx context.Context, events ...shipment.Event) error
}
