package queries

import (
	"errors"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/shipment"
	"freight/internal/pkg/guard"
)

var ErrGetLegsOnHoldQueryIsNotConstructed = errors.New(
	"GetLegsOnHoldQuery must be created via NewGetLegsOnHoldQuery constructor",
)

// GetLegsOnHoldQuery lists the legs that wait for an operator to book them by hand.
//
// Example:
//
//	legs, err := handler.Handle(ctx, NewGetLegsOnHoldQuery())
//	if err != nil {
//	    return err
//	}
//	for _, l := range legs {
//	    fmt.Printf("%s leg of %s: %s\n", l.Role, l.ShipmentID, l.HoldReason)
//	}
type GetLegsOnHoldQuery struct {
	guard guard.ConstructorGuard
}

func NewGetLegsOnHoldQuery() GetLegsOnHoldQuery {
	return GetLegsOnHoldQuery{guard: guard.NewConstructorGuard()}
}

func (q GetLegsOnHoldQuery) Validate() error {
	return q.guard.Validate(ErrGetLegsOnHoldQueryIsNotConstructed)
}

type GetLegsOnHoldQueryResponse struct {
	LegID       kernel.UUID
	ShipmentID  kernel.UUID
	AccountID   string
	Role        shipment.Role
	Carrier     int
	Service     string
	Origin      PlaceView
	Destination PlaceView
	HoldReason  string
	BookedAt    time.Time
}
