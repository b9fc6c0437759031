package orchestration

import (
	"context"
	"errors"
	"fmt"

	"freight/internal/core/domain/model/carrier"
	"freight/internal/core/domain/model/shipment"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// DefaultCrossDockFee is charged on interline shipments when no fee is configured.
var DefaultCrossDockFee = decimal.RequireFromString("50.00")

type Config struct {
	// PreassignedWaybillCarriers need a waybill from the identifier pool before booking.
	PreassignedWaybillCarriers carrier.Candidates
	CrossDockFee               decimal.Decimal
}

type Orchestrator struct {
	cfg       Config
	pool      ports.IdentifierPool
	ground    Strategy
	air       Strategy
	sealift   Strategy
	interline Strategy
}

func NewOrchestrator(cfg Config, hubs ports.HubDirectory, pool ports.IdentifierPool) *Orchestrator {
	if !cfg.CrossDockFee.IsPositive() {
		cfg.CrossDockFee = DefaultCrossDockFee
	}
	return &Orchestrator{
		cfg:       cfg,
		pool:      pool,
		ground:    Ground{},
		air:       NewAir(hubs),
		sealift:   NewSealift(hubs),
		interline: NewInterline(hubs, cfg.CrossDockFee),
	}
}

// StrategyFor picks the strategy for a booking.
func (o *Orchestrator) StrategyFor(catalog carrier.Catalog, b Booking) (Strategy, error) {
	if b.Interline {
		return o.interline, nil
	}
	mainCarrier, ok := catalog.Get(b.MainCarrier)
	if !ok {
		return nil, errs.NewFieldValidationError("carrier_not_eligible", "main_carrier",
			"carrier %d is not in the catalog", b.MainCarrier)
	}
	switch mainCarrier.Mode() {
	case carrier.Air:
		return o.air, nil
	case carrier.Sealift:
		return o.sealift, nil
	default:
		return o.ground, nil
	}
}

// Plan checks that every chosen carrier survived filtering, builds the legs and
// reserves pre-assigned waybills. Reservations are released if any step fails.
func (o *Orchestrator) Plan(ctx context.Context, catalog carrier.Catalog, b Booking) (Plan, error) {
	if err := checkEligible(b); err != nil {
		return Plan{}, err
	}

	strategy, err := o.StrategyFor(catalog, b)
	if err != nil {
		return Plan{}, err
	}

	plan, err := strategy.BuildLegs(ctx, b)
	if err != nil {
		return Plan{}, err
	}

	for i := range plan.Legs {
		leg := &plan.Legs[i]
		if leg.ManualBooking || leg.Waybill != "" || !o.cfg.PreassignedWaybillCarriers.Contains(leg.Carrier) {
			continue
		}

		reservation, reserveErr := o.pool.Reserve(ctx, leg.Carrier)
		if reserveErr != nil {
			return Plan{}, errors.Join(
				fmt.Errorf("reserve waybill for carrier %d: %w", leg.Carrier, reserveErr),
				o.Release(ctx, plan.Reservations),
			)
		}
		leg.Waybill = reservation.Waybill
		plan.Reservations = append(plan.Reservations, reservation)
	}

	return plan, nil
}

// Release returns every reservation to the pool and joins the failures.
func (o *Orchestrator) Release(ctx context.Context, reservations []shipment.Reservation) error {
	var err error
	for _, r := range reservations {
		if releaseErr := o.pool.Release(ctx, r); releaseErr != nil {
			err = errors.Join(err, fmt.Errorf("release waybill %s: %w", r.Waybill, releaseErr))
		}
	}
	return err
}

func checkEligible(b Booking) error {
	var fields []errs.FieldError
	check := func(path string, code int) {
		if code != 0 && !b.Request.Carriers.Contains(code) {
			fields = append(fields, errs.FieldError{
				Path:    path,
				Message: fmt.Sprintf("carrier %d is not eligible for this shipment", code),
			})
		}
	}

	if b.MainCarrier == 0 {
		fields = append(fields, errs.FieldError{Path: "main_carrier", Message: "is required"})
	}
	check("main_carrier", b.MainCarrier)
	check("pickup_carrier", b.PickupCarrier)
	check("delivery_carrier", b.DeliveryCarrier)

	if len(fields) > 0 {
		return errs.NewValidationError("carrier_not_eligible", fields...)
	}
	return nil
}
