package queries

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"freight/internal/core/domain/model/carrier"
	"freight/internal/core/domain/model/shipment"
	"freight/internal/core/domain/services/compliance"
	"freight/internal/core/domain/services/markup"
	"freight/internal/core/ports"
	"freight/internal/metrics"

	"golang.org/x/sync/errgroup"
)

// RateShipmentQueryHandler parses the request, applies the compliance engines
// and fans out one Rate call per surviving carrier. Each call gets its own
// timeout; a failing carrier is reported next to the quotes of the others.
type RateShipmentQueryHandler struct {
	parser   RequestParser
	engines  compliance.Engines
	carriers ports.CarrierRegistry
	markups  ports.MarkupRepository
	timeout  time.Duration
	logger   *slog.Logger
}

func NewRateShipmentQueryHandler(
	parser RequestParser,
	engines compliance.Engines,
	carriers ports.CarrierRegistry,
	markups ports.MarkupRepository,
	timeout time.Duration,
	logger *slog.Logger,
) RateShipmentQueryHandler {
	return RateShipmentQueryHandler{
		parser:   parser,
		engines:  engines,
		carriers: carriers,
		markups:  markups,
		timeout:  timeout,
		logger:   logger.With("component", "rate_shipment"),
	}
}

type rateOutcome struct {
	quotes []shipment.Quote
	err    error
}

func (h RateShipmentQueryHandler) Handle(
	ctx context.Context,
	query RateShipmentQuery,
) (RateShipmentQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return RateShipmentQueryResponse{}, err
	}

	parsed, catalog, err := h.parser.Parse(ctx, query.Request())
	if err != nil {
		return RateShipmentQueryResponse{}, err
	}

	var results []compliance.Result
	if parsed.HasDangerousGoods() {
		if results, err = h.engines.Evaluate(ctx, catalog, parsed); err != nil {
			return RateShipmentQueryResponse{}, err
		}
		for _, res := range results {
			for _, o := range res.Outcomes {
				metrics.RecordClassification(res.Rules, o.Tier.String(), o.State.String())
			}
		}
	}

	candidates := parsed.Carriers
	if len(results) > 0 {
		candidates = results[len(results)-1].Request.Carriers
	}

	outcomes := make([]rateOutcome, len(candidates))
	var g errgroup.Group
	for i, code := range candidates {
		req := h.requestFor(catalog, code, parsed, results)
		g.Go(func() error {
			outcomes[i] = h.rate(ctx, code, req)
			return nil
		})
	}
	_ = g.Wait()

	resp := RateShipmentQueryResponse{Candidates: candidates, Compliance: results}
	for i, code := range candidates {
		out := outcomes[i]
		if out.err != nil {
			h.logger.Warn("carrier rate failed", "carrier", code, "error", out.err)
			resp.Failures = append(resp.Failures, CarrierFailure{Carrier: code, Error: out.err.Error()})
			continue
		}
		resp.Quotes = append(resp.Quotes, out.quotes...)
	}

	slices.SortStableFunc(resp.Quotes, func(a, b shipment.Quote) int {
		return cmp.Or(
			a.Total.Cmp(b.Total),
			cmp.Compare(a.TransitDays, b.TransitDays),
			cmp.Compare(a.Carrier, b.Carrier),
		)
	})
	return resp, nil
}

// requestFor hands each carrier the request as narrowed by its own regime, so
// exempted packages are rated as ordinary freight.
func (h RateShipmentQueryHandler) requestFor(
	catalog carrier.Catalog,
	code int,
	parsed shipment.Request,
	results []compliance.Result,
) shipment.Request {
	c, ok := catalog.Get(code)
	if !ok {
		return parsed
	}
	engine := h.engines.For(c.Mode())
	if engine == nil {
		return parsed
	}
	for _, res := range results {
		if res.Rules == engine.Rules().Name() {
			return res.Request
		}
	}
	return parsed
}

func (h RateShipmentQueryHandler) rate(ctx context.Context, code int, req shipment.Request) rateOutcome {
	adapter, err := h.carriers.Adapter(code)
	if err != nil {
		metrics.RecordRate(code, "unavailable")
		return rateOutcome{err: err}
	}

	carrierPercent, err := h.markups.CarrierMarkup(ctx, code)
	if err != nil {
		metrics.RecordRate(code, "error")
		return rateOutcome{err: fmt.Errorf("carrier markup: %w", err)}
	}
	multiplier := markup.Multiplier(req.Account.MarkupPercent, carrierPercent)

	callCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	quotes, err := adapter.Rate(callCtx, req)
	if err != nil {
		metrics.RecordRate(code, "error")
		return rateOutcome{err: err}
	}
	metrics.RecordRate(code, "success")

	out := make([]shipment.Quote, 0, len(quotes))
	for _, q := range quotes {
		q.Carrier = code
		out = append(out, markup.ApplyQuote(q, multiplier))
	}
	return rateOutcome{quotes: out}
}
