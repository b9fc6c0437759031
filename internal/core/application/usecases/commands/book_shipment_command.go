package commands

import (
	"errors"
	"strings"

	"freight/internal/core/domain/model/shipment"
	"freight/internal/core/domain/services/orchestration"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

var ErrBookShipmentCommandIsNotConstructed = errors.New(
	"BookShipmentCommand must be created via NewBookShipmentCommand constructor",
)

// CarrierSelection is the quote the caller picked, plus the optional secondary
// carriers that move the shipment to and from the main carrier.
type CarrierSelection struct {
	MainCarrier int
	Service     string

	PickupCarrier int
	PickupService string

	DeliveryCarrier int
	DeliveryService string

	// Sailing names the voyage for sealift bookings.
	Sailing string
	// Interline hands the shipment from the main carrier to DeliveryCarrier at
	// their shared middle location.
	Interline bool
}

// BookShipmentCommand books a shipment with the carriers the caller selected
// from a previous quote.
//
// Example:
//
//	cmd, err := NewBookShipmentCommand(req, CarrierSelection{MainCarrier: 12, Service: "EXP"})
//	if err != nil {
//	    return fmt.Errorf("invalid booking: %w", err)
//	}
//
//	result, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("booking failed: %w", err)
//	}
//	fmt.Printf("shipment %s booked, total %s\n", result.Shipment.ID(), result.Shipment.Totals().Total)
type BookShipmentCommand struct { //nolint:recvcheck //using for validation
	request   shipment.Request
	selection CarrierSelection

	guard guard.ConstructorGuard
}

// NewBookShipmentCommand checks the shape of the selection. The request itself is
// validated by the parser, which reports every problem at once.
func NewBookShipmentCommand(req shipment.Request, selection CarrierSelection) (BookShipmentCommand, error) {
	cmd := BookShipmentCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setSelection(selection); err != nil {
		return BookShipmentCommand{}, err
	}
	cmd.request = req.Clone()

	return cmd, nil
}

func (c BookShipmentCommand) Validate() error {
	return c.guard.Validate(ErrBookShipmentCommandIsNotConstructed)
}

func (c BookShipmentCommand) Request() shipment.Request {
	return c.request.Clone()
}

func (c BookShipmentCommand) Selection() CarrierSelection {
	return c.selection
}

// Booking combines a parsed request with the selection for the orchestrator.
func (c BookShipmentCommand) Booking(parsed shipment.Request) orchestration.Booking {
	return orchestration.Booking{
		Request:         parsed,
		MainCarrier:     c.selection.MainCarrier,
		Service:         c.selection.Service,
		PickupCarrier:   c.selection.PickupCarrier,
		PickupService:   c.selection.PickupService,
		DeliveryCarrier: c.selection.DeliveryCarrier,
		DeliveryService: c.selection.DeliveryService,
		Sailing:         c.selection.Sailing,
		Interline:       c.selection.Interline,
	}
}

func (c *BookShipmentCommand) setSelection(s CarrierSelection) error {
	var fields []errs.FieldError
	if s.MainCarrier <= 0 {
		fields = append(fields, errs.FieldError{Path: "main_carrier", Message: "is required"})
	}
	if s.PickupCarrier < 0 {
		fields = append(fields, errs.FieldError{Path: "pickup_carrier", Message: "must not be negative"})
	}
	if s.DeliveryCarrier < 0 {
		fields = append(fields, errs.FieldError{Path: "delivery_carrier", Message: "must not be negative"})
	}
	if len(fields) > 0 {
		return errs.NewValidationError("invalid_selection", fields...)
	}

	s.Service = strings.TrimSpace(s.Service)
	s.PickupService = strings.TrimSpace(s.PickupService)
	s.DeliveryService = strings.TrimSpace(s.DeliveryService)
	s.Sailing = strings.TrimSpace(s.Sailing)
	c.selection = s
	return nil
}
