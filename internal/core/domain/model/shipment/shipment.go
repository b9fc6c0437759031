package shipment

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrShipmentIsNotConstructed = errors.New("Shipment must be created via NewShipment or RestoreShipment")

// Totals are the monetary sums over a shipment's legs. Cost is the pre-markup
// total; the other fields are marked up.
type Totals struct {
	Cost      decimal.Decimal
	Freight   decimal.Decimal
	Surcharge decimal.Decimal
	Tax       decimal.Decimal
	Total     decimal.Decimal
}

// Shipment is the aggregate root of a booking. It owns one to three legs ordered
// pickup, main, delivery.
//
// Invariants:
//   - exactly one main leg
//   - at most one pickup leg and one delivery leg
//   - totals are the sum of the legs as computed by storage
type Shipment struct {
	id          kernel.UUID
	accountID   string
	strategy    string
	origin      kernel.Address
	destination kernel.Address
	dangerous   bool
	legs        []*Leg
	totals      Totals
	createdAt   time.Time
	events      []Event
	guard       guard.ConstructorGuard
}

// Snapshot is the persisted state of a shipment, legs excluded.
type Snapshot struct {
	ID          kernel.UUID
	AccountID   string
	Strategy    string
	Origin      kernel.Address
	Destination kernel.Address
	Dangerous   bool
	Totals      Totals
	CreatedAt   time.Time
}

// NewShipment creates a shipment whose legs are still Pending.
func NewShipment(
	id kernel.UUID,
	accountID string,
	strategy string,
	origin, destination kernel.Address,
	dangerous bool,
	legs []*Leg,
	createdAt time.Time,
) (*Shipment, error) {
	return RestoreShipment(Snapshot{
		ID:          id,
		AccountID:   accountID,
		Strategy:    strategy,
		Origin:      origin,
		Destination: destination,
		Dangerous:   dangerous,
		CreatedAt:   createdAt,
	}, legs)
}

// RestoreShipment rebuilds a shipment from storage and re-checks the leg invariants.
func RestoreShipment(s Snapshot, legs []*Leg) (*Shipment, error) {
	var accountErr error
	if s.AccountID == "" {
		accountErr = errs.NewValueIsRequiredError("account")
	}
	if err := errors.Join(s.ID.Validate(), accountErr, validateLegs(legs)); err != nil {
		return nil, err
	}

	ordered := slices.Clone(legs)
	slices.SortStableFunc(ordered, func(a, b *Leg) int { return int(a.Role()) - int(b.Role()) })

	return &Shipment{
		id:          s.ID,
		accountID:   s.AccountID,
		strategy:    s.Strategy,
		origin:      s.Origin,
		destination: s.Destination,
		dangerous:   s.Dangerous,
		legs:        ordered,
		totals:      s.Totals,
		createdAt:   s.CreatedAt,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func validateLegs(legs []*Leg) error {
	counts := make(map[Role]int, 3)
	for i, l := range legs {
		if err := l.Validate(); err != nil {
			return fmt.Errorf("leg %d: %w", i, err)
		}
		counts[l.Role()]++
	}

	var err error
	if counts[Main] != 1 {
		err = errors.Join(err, errs.NewValueIsOutOfRangeError("main legs", counts[Main], 1, 1))
	}
	for _, r := range []Role{Pickup, Delivery} {
		if counts[r] > 1 {
			err = errors.Join(err, errs.NewValueIsOutOfRangeError(r.String()+" legs", counts[r], 0, 1))
		}
	}
	return err
}

func (s *Shipment) Validate() error {
	if s == nil {
		return ErrShipmentIsNotConstructed
	}
	return s.guard.Validate(ErrShipmentIsNotConstructed)
}

func (s *Shipment) ID() kernel.UUID { return s.id }

// OrderNumber is the reference sent to carriers with every leg.
func (s *Shipment) OrderNumber() string { return s.id.String() }

func (s *Shipment) AccountID() string           { return s.accountID }
func (s *Shipment) Strategy() string            { return s.strategy }
func (s *Shipment) Origin() kernel.Address      { return s.origin }
func (s *Shipment) Destination() kernel.Address { return s.destination }
func (s *Shipment) IsDangerous() bool           { return s.dangerous }
func (s *Shipment) Totals() Totals              { return s.totals }
func (s *Shipment) CreatedAt() time.Time        { return s.createdAt }

// Legs returns the legs in travel order. The slice is a copy; the legs are shared.
func (s *Shipment) Legs() []*Leg {
	return slices.Clone(s.legs)
}

// Leg returns the leg playing role.
func (s *Shipment) Leg(role Role) (*Leg, bool) {
	for _, l := range s.legs {
		if l.Role() == role {
			return l, true
		}
	}
	return nil, false
}

func (s *Shipment) MainLeg() *Leg {
	l, _ := s.Leg(Main)
	return l
}

func (s *Shipment) LegsOnHold() []*Leg {
	var out []*Leg
	for _, l := range s.legs {
		if l.Status() == OnHold {
			out = append(out, l)
		}
	}
	return out
}

func (s *Shipment) Snapshot() Snapshot {
	return Snapshot{
		ID:          s.id,
		AccountID:   s.accountID,
		Strategy:    s.strategy,
		Origin:      s.origin,
		Destination: s.destination,
		Dangerous:   s.dangerous,
		Totals:      s.totals,
		CreatedAt:   s.createdAt,
	}
}

// SetTotals stores the sums computed by storage.
func (s *Shipment) SetTotals(t Totals) {
	s.totals = t
}

// MarkBooked raises the booking events once every leg has settled.
func (s *Shipment) MarkBooked(at time.Time) error {
	for _, l := range s.legs {
		if !l.Status().IsSettled() {
			return errs.NewValueIsInvalidErrorWithCause(
				"shipment",
				fmt.Errorf("%s leg is still %s", l.Role(), l.Status()),
			)
		}
	}

	held := s.LegsOnHold()
	for _, l := range held {
		s.events = append(s.events, LegOnHold{
			ShipmentID: s.id,
			LegID:      l.ID(),
			Role:       l.Role(),
			Carrier:    l.Carrier(),
			Reason:     l.HoldReason(),
			OccurredAt: at,
		})
	}
	s.events = append(s.events, ShipmentBooked{
		ShipmentID:  s.id,
		AccountID:   s.accountID,
		Strategy:    s.strategy,
		MainCarrier: s.MainLeg().Carrier(),
		Legs:        len(s.legs),
		LegsOnHold:  len(held),
		Total:       s.totals.Total,
		OccurredAt:  at,
	})
	return nil
}

// Events returns the events raised since the last ClearEvents.
func (s *Shipment) Events() []Event {
	return slices.Clone(s.events)
}

func (s *Shipment) ClearEvents() {
	s.events = nil
}
