package commands

import (
	"context"
	"fmt"
	"log/slog"

	"freight/internal/core/domain/model/dangerousgoods"
	"freight/internal/core/domain/model/shipment"
	"freight/internal/core/domain/services/compliance"
	"freight/internal/core/ports"
	"freight/internal/metrics"
	"freight/internal/pkg/errs"
)

// BookShipmentResult is the booked aggregate and the dangerous goods paperwork
// printed for it. Documents is empty for shipments without regulated goods.
type BookShipmentResult struct {
	Shipment   *shipment.Shipment
	Compliance *compliance.Result
	Documents  []dangerousgoods.RenderedDocument
}

// BookShipmentCommandHandler runs a booking end to end: parse, compliance for
// every regime present among the candidates, plan, dispatch. Paperwork and events follow a
// successful dispatch; their failures are logged because the carriers already
// hold the booking.
//
// Example:
//
//	handler := NewBookShipmentCommandHandler(parser, engines, orchestrator, dispatcher, renderer, publisher, logger)
//	result, err := handler.Handle(ctx, cmd)
//	var dispatchErr *errs.CarrierDispatchError
//	if errors.As(err, &dispatchErr) {
//	    // the main carrier refused; nothing was kept
//	}
type BookShipmentCommandHandler struct {
	parser     RequestParser
	engines    compliance.Engines
	planner    ShipmentPlanner
	dispatcher ShipmentDispatcher
	renderer   ports.DocumentRenderer
	publisher  ports.EventPublisher
	logger     *slog.Logger
}

func NewBookShipmentCommandHandler(
	parser RequestParser,
	engines compliance.Engines,
	planner ShipmentPlanner,
	dispatcher ShipmentDispatcher,
	renderer ports.DocumentRenderer,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) BookShipmentCommandHandler {
	return BookShipmentCommandHandler{
		parser:     parser,
		engines:    engines,
		planner:    planner,
		dispatcher: dispatcher,
		renderer:   renderer,
		publisher:  publisher,
		logger:     logger.With("component", "book_shipment"),
	}
}

func (h BookShipmentCommandHandler) Handle(ctx context.Context, cmd BookShipmentCommand) (BookShipmentResult, error) {
	if err := cmd.Validate(); err != nil {
		return BookShipmentResult{}, err
	}

	parsed, catalog, err := h.parser.Parse(ctx, cmd.Request())
	if err != nil {
		return BookShipmentResult{}, err
	}

	mainCode := cmd.Selection().MainCarrier
	mainCarrier, ok := catalog.Get(mainCode)
	if !ok || !parsed.Carriers.Contains(mainCode) {
		return BookShipmentResult{}, errs.NewFieldValidationError("carrier_not_eligible", "main_carrier",
			"carrier %d is not eligible for this shipment", mainCode)
	}

	var result BookShipmentResult
	if parsed.HasDangerousGoods() {
		engine := h.engines.For(mainCarrier.Mode())
		if engine == nil {
			return BookShipmentResult{}, fmt.Errorf("no compliance rules for %s carriers", mainCarrier.Mode())
		}
		results, evalErr := h.engines.Evaluate(ctx, catalog, parsed)
		if evalErr != nil {
			return BookShipmentResult{}, evalErr
		}
		if len(results) > 0 {
			res := mainRegime(results, engine.Rules().Name())
			for _, r := range results {
				recordClassifications(r)
			}
			res.Request.Carriers = results[len(results)-1].Request.Carriers
			parsed = res.Request
			result.Compliance = &res
		}
		if !parsed.Carriers.Contains(mainCode) {
			return BookShipmentResult{}, errs.NewFieldValidationError("carrier_not_eligible", "main_carrier",
				"carrier %d is not eligible for these dangerous goods", mainCode)
		}
	}

	plan, err := h.planner.Plan(ctx, catalog, cmd.Booking(parsed))
	if err != nil {
		return BookShipmentResult{}, err
	}

	agg, err := h.dispatcher.Dispatch(ctx, plan)
	if err != nil {
		metrics.RecordShipment(plan.Strategy, "failed")
		return BookShipmentResult{}, err
	}
	metrics.RecordShipment(plan.Strategy, "booked")
	result.Shipment = agg

	log := h.logger.With("shipment_id", agg.ID().String())

	if result.Compliance != nil && h.renderer != nil {
		docs, renderErr := compliance.RenderDocuments(ctx, h.renderer, *result.Compliance)
		if renderErr != nil {
			log.Error("render dangerous goods documents", "error", renderErr)
		}
		result.Documents = docs
	}

	if events := agg.Events(); len(events) > 0 && h.publisher != nil {
		if pubErr := h.publisher.Publish(ctx, events...); pubErr != nil {
			log.Error("publish shipment events", "events", len(events), "error", pubErr)
		} else {
			agg.ClearEvents()
		}
	}

	return result, nil
}

// mainRegime picks the result of the rules covering the main carrier. Every
// regime narrows the same candidate set, so its carriers are replaced by the
// last result's.
func mainRegime(results []compliance.Result, rules string) compliance.Result {
	for _, r := range results {
		if r.Rules == rules {
			return r
		}
	}
	return results[len(results)-1]
}

func recordClassifications(res compliance.Result) {
	for _, o := range res.Outcomes {
		metrics.RecordClassification(res.Rules, o.Tier.String(), o.State.String())
	}
}
