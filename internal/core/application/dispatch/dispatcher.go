// Package dispatch books the legs of a planned shipment with their carriers.
//
// The shipment is stored before any carrier is called, every non-manual leg is
// booked concurrently, and only the main leg's outcome decides whether the
// shipment survives. A failed pickup or delivery leg is parked on hold for an
// operator. Nothing is retried.
//
// Markups are resolved before the shipment is stored, so no lookup can fail once
// a carrier holds the booking. Reservations are settled from the carrier answers
// as soon as the main leg succeeds.
//
// A process crash after a carrier accepted a booking but before the result is
// stored leaves a booked leg the shipment does not know about. The leg's
// reserved waybill stays unconsumed, which the stranded waybill job reports. A
// storage failure at the same point is returned and logged with the shipment id;
// the stored shipment keeps its pending legs for an operator.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/shipment"
	"freight/internal/core/domain/services/markup"
	"freight/internal/core/domain/services/orchestration"
	"freight/internal/core/ports"
	"freight/internal/metrics"
	"freight/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// ManualBookingReason is recorded on legs that are never sent to a carrier.
const ManualBookingReason = "manual booking required"

type legOutcome struct {
	result shipment.LegResult
	err    error
	called bool
}

func (o legOutcome) accepted() bool {
	return o.called && o.err == nil
}

type Dispatcher struct {
	uowFactory ports.UnitOfWorkFactory
	carriers   ports.CarrierRegistry
	markups    ports.MarkupRepository
	pool       ports.IdentifierPool
	logger     *slog.Logger
	now        func() time.Time
}

func NewDispatcher(
	uowFactory ports.UnitOfWorkFactory,
	carriers ports.CarrierRegistry,
	markups ports.MarkupRepository,
	pool ports.IdentifierPool,
	logger *slog.Logger,
) *Dispatcher {
	return &Dispatcher{
		uowFactory: uowFactory,
		carriers:   carriers,
		markups:    markups,
		pool:       pool,
		logger:     logger.With("component", "leg_dispatcher"),
		now:        time.Now,
	}
}

// Dispatch stores the shipment, books its legs and returns the settled aggregate
// with booking events raised. When the main leg fails the shipment is deleted,
// reservations are released and a *errs.CarrierDispatchError is returned.
func (d *Dispatcher) Dispatch(ctx context.Context, plan orchestration.Plan) (*shipment.Shipment, error) {
	multipliers, err := d.multipliers(ctx, plan)
	if err != nil {
		d.releaseAll(ctx, plan.Reservations)
		return nil, err
	}

	agg, err := d.create(ctx, plan)
	if err != nil {
		d.releaseAll(ctx, plan.Reservations)
		return nil, err
	}
	log := d.logger.With("shipment_id", agg.ID().String(), "strategy", plan.Strategy)

	outcomes := d.bookLegs(ctx, agg.OrderNumber(), plan.Legs)

	mainIdx := indexOfRole(plan.Legs, shipment.Main)
	if mainOutcome := outcomes[mainIdx]; !mainOutcome.accepted() {
		log.Warn("main leg failed, rolling back", "carrier", plan.Legs[mainIdx].Carrier, "error", mainOutcome.err)
		return nil, d.rollback(ctx, agg, plan, mainIdx, mainOutcome.err)
	}

	d.settleReservations(ctx, plan, outcomes)

	if err = d.settle(agg, plan, outcomes, multipliers); err == nil {
		err = d.persist(ctx, agg)
	}
	if err != nil {
		log.Error("carriers accepted the shipment but it was not recorded", "error", err)
		return nil, fmt.Errorf("record booked shipment %s: %w", agg.ID(), err)
	}
	if err = agg.MarkBooked(d.now()); err != nil {
		return nil, err
	}

	log.Info("shipment booked", "legs", len(plan.Legs), "on_hold", len(agg.LegsOnHold()),
		"total", agg.Totals().Total.String())
	return agg, nil
}

// multipliers returns the markup multiplier of every planned leg, by leg index.
func (d *Dispatcher) multipliers(ctx context.Context, plan orchestration.Plan) ([]decimal.Decimal, error) {
	accountPercent := plan.Booking.Request.Account.MarkupPercent
	byCarrier := make(map[int]decimal.Decimal, len(plan.Legs))

	out := make([]decimal.Decimal, len(plan.Legs))
	for i, lr := range plan.Legs {
		m, ok := byCarrier[lr.Carrier]
		if !ok {
			carrierPercent, err := d.markups.CarrierMarkup(ctx, lr.Carrier)
			if err != nil {
				return nil, fmt.Errorf("load markup of carrier %d: %w", lr.Carrier, err)
			}
			m = markup.Multiplier(accountPercent, carrierPercent)
			byCarrier[lr.Carrier] = m
		}
		out[i] = m
	}
	return out, nil
}

func (d *Dispatcher) create(ctx context.Context, plan orchestration.Plan) (*shipment.Shipment, error) {
	legs := make([]*shipment.Leg, 0, len(plan.Legs))
	for _, lr := range plan.Legs {
		leg, err := shipment.NewLeg(kernel.NewUUID(), lr)
		if err != nil {
			return nil, fmt.Errorf("%s leg: %w", lr.Role, err)
		}
		legs = append(legs, leg)
	}

	req := plan.Booking.Request
	agg, err := shipment.NewShipment(kernel.NewUUID(), req.Account.ID, plan.Strategy,
		req.Origin, req.Destination, req.HasDangerousGoods(), legs, d.now())
	if err != nil {
		return nil, err
	}

	uow := d.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.ShipmentRepository().Add(ctx, agg); err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	return agg, nil
}

// bookLegs issues every carrier call before any result is read. Calls run with
// a context that is never cancelled, so one leg cannot abort another.
func (d *Dispatcher) bookLegs(ctx context.Context, orderNumber string, legs []shipment.LegRequest) []legOutcome {
	outcomes := make([]legOutcome, len(legs))
	callCtx := context.WithoutCancel(ctx)

	var g errgroup.Group
	for i, lr := range legs {
		if lr.ManualBooking {
			continue
		}
		g.Go(func() error {
			start := time.Now()
			result, err := d.ship(callCtx, orderNumber, lr)
			outcomes[i] = legOutcome{result: result, err: err, called: true}

			outcome := "booked"
			if err != nil {
				outcome = "failed"
			}
			metrics.RecordLegDispatch(lr.Carrier, lr.Role.String(), outcome, time.Since(start))
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

func (d *Dispatcher) ship(ctx context.Context, orderNumber string, lr shipment.LegRequest) (shipment.LegResult, error) {
	adapter, err := d.carriers.Adapter(lr.Carrier)
	if err != nil {
		return shipment.LegResult{}, err
	}
	return adapter.Ship(ctx, orderNumber, lr)
}

func (d *Dispatcher) rollback(
	ctx context.Context,
	agg *shipment.Shipment,
	plan orchestration.Plan,
	mainIdx int,
	cause error,
) error {
	metrics.RecordRollback()
	mainLeg := plan.Legs[mainIdx]
	dispatchErr := errs.NewCarrierDispatchError(mainLeg.Carrier, mainLeg.Role.String(), cause)

	// Pickup or delivery legs the carriers did accept are not cancelled; they
	// stay with the carrier under the deleted shipment's order number.
	uow := d.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return errors.Join(dispatchErr, err)
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	cleanupErr := uow.ShipmentRepository().Delete(ctx, agg.ID())
	if cleanupErr == nil {
		cleanupErr = uow.Commit(ctx)
	}
	d.releaseAll(ctx, plan.Reservations)

	if cleanupErr != nil {
		return errors.Join(dispatchErr, fmt.Errorf("delete shipment %s: %w", agg.ID(), cleanupErr))
	}
	return dispatchErr
}

// settle applies the cross-dock fee and markup, books or holds every leg and
// chains the leg dates.
func (d *Dispatcher) settle(
	agg *shipment.Shipment,
	plan orchestration.Plan,
	outcomes []legOutcome,
	multipliers []decimal.Decimal,
) error {
	requested := plan.Booking.Request.PickupDate
	if requested.IsZero() {
		requested = d.now()
	}

	var previousDelivery time.Time
	for n, leg := range agg.Legs() {
		i := indexOfRole(plan.Legs, leg.Role())
		if i < 0 {
			return errs.NewValueIsRequiredError(fmt.Sprintf("%s leg request", leg.Role()))
		}
		lr, outcome, multiplier := plan.Legs[i], outcomes[i], multipliers[i]

		var err error
		transit := 0
		switch {
		case outcome.accepted():
			result := outcome.result
			if lr.Role == shipment.Main && plan.CrossDockFee.IsPositive() {
				result.Charges = result.Charges.WithSurcharge(plan.CrossDockFee)
			}
			if err = leg.Book(markup.Apply(result, multiplier)); err != nil {
				return err
			}
			transit = result.TransitDays
		default:
			reason := ManualBookingReason
			if outcome.err != nil {
				reason = errs.NewCarrierDispatchError(lr.Carrier, lr.Role.String(), outcome.err).Error()
				d.logger.Warn("leg put on hold", "role", lr.Role.String(), "carrier", lr.Carrier, "error", outcome.err)
			}
			if err = leg.Hold(reason, multiplier); err != nil {
				return err
			}
		}

		var pickup, delivery time.Time
		if n == 0 {
			pickup, delivery = kernel.FirstLegDates(requested, transit)
		} else {
			pickup, delivery = kernel.ChainLegDates(previousDelivery, transit)
		}
		if err = leg.Schedule(pickup, delivery); err != nil {
			return err
		}
		previousDelivery = delivery
	}
	return nil
}

func (d *Dispatcher) persist(ctx context.Context, agg *shipment.Shipment) error {
	uow := d.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.ShipmentRepository()
	if err := repo.Update(ctx, agg); err != nil {
		return err
	}

	totals, err := repo.SumLegs(ctx, agg.ID())
	if err != nil {
		return err
	}
	agg.SetTotals(totals)

	if err = repo.Update(ctx, agg); err != nil {
		return err
	}
	return uow.Commit(ctx)
}

// settleReservations consumes the waybills of legs a carrier accepted and returns
// the rest. Failures are logged; the stranded waybill job picks up what is left behind.
func (d *Dispatcher) settleReservations(ctx context.Context, plan orchestration.Plan, outcomes []legOutcome) {
	for _, r := range plan.Reservations {
		booked := false
		for i, lr := range plan.Legs {
			if lr.Carrier == r.Carrier && lr.Waybill == r.Waybill && outcomes[i].accepted() {
				booked = true
			}
		}

		var err error
		if booked {
			err = d.pool.Consume(ctx, r)
		} else {
			err = d.pool.Release(ctx, r)
		}
		if err != nil {
			d.logger.Error("waybill reservation not settled", "carrier", r.Carrier, "waybill", r.Waybill,
				"consume", booked, "error", err)
		}
	}
}

func (d *Dispatcher) releaseAll(ctx context.Context, reservations []shipment.Reservation) {
	for _, r := range reservations {
		if err := d.pool.Release(ctx, r); err != nil {
			d.logger.Error("waybill not released", "carrier", r.Carrier, "waybill", r.Waybill, "error", err)
		}
	}
}

func indexOfRole(legs []shipment.LegRequest, role shipment.Role) int {
	for i, lr := range legs {
		if lr.Role == role {
			return i
		}
	}
	return -1
}
