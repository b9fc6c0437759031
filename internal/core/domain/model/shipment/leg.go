package shipment

import (
	"errors"
	"fmt"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrLegIsNotConstructed = errors.New("Leg must be created via NewLeg or RestoreLeg")

// Leg is one carrier-serviced segment of a shipment. It starts Pending and settles
// exactly once, either Booked with the carrier's result or OnHold for an operator.
type Leg struct {
	id          kernel.UUID
	role        Role
	carrier     int
	service     string
	origin      kernel.Address
	destination kernel.Address
	waybill     string
	status      LegStatus
	result      LegResult
	pickupDate  time.Time
	delivery    time.Time
	holdReason  string
	guard       guard.ConstructorGuard
}

// LegSnapshot is the full persisted state of a leg.
type LegSnapshot struct {
	ID           kernel.UUID
	Role         Role
	Carrier      int
	Service      string
	Origin       kernel.Address
	Destination  kernel.Address
	Waybill      string
	Status       LegStatus
	Result       LegResult
	PickupDate   time.Time
	DeliveryDate time.Time
	HoldReason   string
}

// NewLeg creates a Pending leg for a leg request.
func NewLeg(id kernel.UUID, req LegRequest) (*Leg, error) {
	return RestoreLeg(LegSnapshot{
		ID:          id,
		Role:        req.Role,
		Carrier:     req.Carrier,
		Service:     req.Service,
		Origin:      req.Origin,
		Destination: req.Destination,
		Waybill:     req.Waybill,
		Status:      Pending,
	})
}

// RestoreLeg rebuilds a leg from storage.
func RestoreLeg(s LegSnapshot) (*Leg, error) {
	var carrierErr error
	if s.Carrier <= 0 {
		carrierErr = errs.NewValueIsOutOfRangeError("carrier", s.Carrier, 1, "unbounded")
	}
	if err := errors.Join(s.ID.Validate(), s.Role.Validate(), s.Status.Validate(), carrierErr); err != nil {
		return nil, err
	}

	return &Leg{
		id:          s.ID,
		role:        s.Role,
		carrier:     s.Carrier,
		service:     s.Service,
		origin:      s.Origin,
		destination: s.Destination,
		waybill:     s.Waybill,
		status:      s.Status,
		result:      s.Result,
		pickupDate:  s.PickupDate,
		delivery:    s.DeliveryDate,
		holdReason:  s.HoldReason,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (l *Leg) Validate() error {
	if l == nil {
		return ErrLegIsNotConstructed
	}
	return l.guard.Validate(ErrLegIsNotConstructed)
}

func (l *Leg) ID() kernel.UUID             { return l.id }
func (l *Leg) Role() Role                  { return l.role }
func (l *Leg) Carrier() int                { return l.carrier }
func (l *Leg) Service() string             { return l.service }
func (l *Leg) Origin() kernel.Address      { return l.origin }
func (l *Leg) Destination() kernel.Address { return l.destination }
func (l *Leg) Waybill() string             { return l.waybill }
func (l *Leg) Status() LegStatus           { return l.status }
func (l *Leg) Result() LegResult           { return l.result }
func (l *Leg) PickupDate() time.Time       { return l.pickupDate }
func (l *Leg) DeliveryDate() time.Time     { return l.delivery }
func (l *Leg) HoldReason() string          { return l.holdReason }
func (l *Leg) IsEqual(other *Leg) bool     { return other != nil && l.id.IsEqual(other.id) }

// Snapshot exports the leg state for persistence.
func (l *Leg) Snapshot() LegSnapshot {
	return LegSnapshot{
		ID:           l.id,
		Role:         l.role,
		Carrier:      l.carrier,
		Service:      l.service,
		Origin:       l.origin,
		Destination:  l.destination,
		Waybill:      l.waybill,
		Status:       l.status,
		Result:       l.result,
		PickupDate:   l.pickupDate,
		DeliveryDate: l.delivery,
		HoldReason:   l.holdReason,
	}
}

// Book settles the leg with a marked-up carrier result.
func (l *Leg) Book(result LegResult) error {
	if !result.IsMarkedUp() {
		return errs.NewValueIsInvalidErrorWithCause("result", errors.New("markup must be applied before booking"))
	}

	status, err := l.status.Book()
	if err != nil {
		return err
	}

	l.status = status
	l.result = result
	if result.TrackingNumber != "" && l.waybill == "" {
		l.waybill = result.TrackingNumber
	}
	return nil
}

// Hold parks the leg for manual follow-up. Its amounts stay zero but carry the
// multiplier that would have applied.
func (l *Leg) Hold(reason string, multiplier decimal.Decimal) error {
	if reason == "" {
		return errs.NewValueIsRequiredError("reason")
	}
	if !multiplier.IsPositive() {
		return errs.NewValueIsOutOfRangeError("multiplier", multiplier.String(), "0 (exclusive)", "unbounded")
	}

	status, err := l.status.Hold()
	if err != nil {
		return err
	}

	l.status = status
	l.holdReason = reason
	l.result = LegResult{Multiplier: multiplier}
	return nil
}

// Schedule records the leg's estimated pickup and delivery days.
func (l *Leg) Schedule(pickup, delivery time.Time) error {
	if delivery.Before(pickup) {
		return errs.NewValueIsInvalidErrorWithCause(
			"delivery date",
			fmt.Errorf("%s is before pickup %s", delivery.Format(time.DateOnly), pickup.Format(time.DateOnly)),
		)
	}
	l.pickupDate = pickup
	l.delivery = delivery
	return nil
}
