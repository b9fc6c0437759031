package queries

import (
	"errors"

	"freight/internal/core/domain/model/carrier"
	"freight/internal/core/domain/model/shipment"
	"freight/internal/core/domain/services/compliance"
	"freight/internal/pkg/guard"
)

var ErrRateShipmentQueryIsNotConstructed = errors.New(
	"RateShipmentQuery must be created via NewRateShipmentQuery constructor",
)

// RateShipmentQuery asks every eligible carrier for prices.
//
// Example:
//
//	query := NewRateShipmentQuery(req)
//	resp, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("rating failed: %w", err)
//	}
//	for _, q := range resp.Quotes {
//	    fmt.Printf("%s %s: %s\n", q.CarrierName, q.ServiceName, q.Total)
//	}
type RateShipmentQuery struct {
	request shipment.Request

	guard guard.ConstructorGuard
}

func NewRateShipmentQuery(req shipment.Request) RateShipmentQuery {
	return RateShipmentQuery{request: req.Clone(), guard: guard.NewConstructorGuard()}
}

func (q RateShipmentQuery) Validate() error {
	return q.guard.Validate(ErrRateShipmentQueryIsNotConstructed)
}

func (q RateShipmentQuery) Request() shipment.Request {
	return q.request.Clone()
}

// CarrierFailure is a carrier that could not be rated. It does not fail the query.
type CarrierFailure struct {
	Carrier int
	Error   string
}

// RateShipmentQueryResponse lists marked-up quotes, cheapest first.
type RateShipmentQueryResponse struct {
	Quotes     []shipment.Quote
	Failures   []CarrierFailure
	Candidates carrier.Candidates
	Compliance []compliance.Result
}
