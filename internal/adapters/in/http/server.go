package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/application/usecases/queries"
	"freight/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Rater interface {
	Handle(ctx context.Context, query queries.RateShipmentQuery) (queries.RateShipmentQueryResponse, error)
}

type Booker interface {
	Handle(ctx context.Context, cmd commands.BookShipmentCommand) (commands.BookShipmentResult, error)
}

type ShipmentReader interface {
	Handle(ctx context.Context, query queries.GetShipmentQuery) (queries.GetShipmentQueryResponse, error)
}

type OnHoldLister interface {
	Handle(ctx context.Context, query queries.GetLegsOnHoldQuery) ([]queries.GetLegsOnHoldQueryResponse, error)
}

type WaybillLoader interface {
	Handle(ctx context.Context, cmd commands.LoadWaybillsCommand) (int64, error)
}

// Server exposes rating, booking and the operator endpoints over JSON.
type Server struct {
	rater    Rater
	booker   Booker
	reader   ShipmentReader
	onHold   OnHoldLister
	waybills WaybillLoader

	// strictDangerousGoods is used when a request does not choose.
	strictDangerousGoods bool
	logger               *slog.Logger
}

func NewServer(
	rater Rater,
	booker Booker,
	reader ShipmentReader,
	onHold OnHoldLister,
	waybills WaybillLoader,
	strictDangerousGoods bool,
	logger *slog.Logger,
) *Server {
	return &Server{
		rater:                rater,
		booker:               booker,
		reader:               reader,
		onHold:               onHold,
		waybills:             waybills,
		strictDangerousGoods: strictDangerousGoods,
		logger:               logger.With("component", "http"),
	}
}

// Register mounts every route on e.
func (s *Server) Register(e *echo.Echo) {
	e.GET("/health", s.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api/v1")
	api.POST("/rates", s.RateShipment)
	api.POST("/shipments", s.BookShipment)
	api.GET("/shipments/:id", s.GetShipment)
	api.GET("/legs/on-hold", s.GetLegsOnHold)
	api.POST("/carriers/:code/waybills", s.LoadWaybills)
}

func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// RateShipment handles POST /api/v1/rates.
func (s *Server) RateShipment(ctx echo.Context) error {
	var body ShipmentRequest
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	req, err := body.toDomain(s.strictDangerousGoods)
	if err != nil {
		return s.fail(ctx, err)
	}

	resp, err := s.rater.Handle(ctx.Request().Context(), queries.NewRateShipmentQuery(req))
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, rateResponseFrom(resp))
}

// BookShipment handles POST /api/v1/shipments.
func (s *Server) BookShipment(ctx echo.Context) error {
	var body BookingRequest
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	req, err := body.toDomain(s.strictDangerousGoods)
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewBookShipmentCommand(req, body.selection())
	if err != nil {
		return s.fail(ctx, err)
	}

	result, err := s.booker.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, shipmentFrom(result.Shipment, result.Documents))
}

// GetShipment handles GET /api/v1/shipments/:id.
func (s *Server) GetShipment(ctx echo.Context) error {
	id, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid shipment id")
	}

	query, err := queries.NewGetShipmentQuery(id)
	if err != nil {
		return s.fail(ctx, err)
	}

	view, err := s.reader.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, shipmentFromView(view))
}

// GetLegsOnHold handles GET /api/v1/legs/on-hold.
func (s *Server) GetLegsOnHold(ctx echo.Context) error {
	legs, err := s.onHold.Handle(ctx.Request().Context(), queries.NewGetLegsOnHoldQuery())
	if err != nil {
		return s.fail(ctx, err)
	}

	response := make([]LegOnHold, len(legs))
	for i, l := range legs {
		response[i] = legOnHoldFrom(l)
	}
	return ctx.JSON(http.StatusOK, response)
}

// LoadWaybills handles POST /api/v1/carriers/:code/waybills.
func (s *Server) LoadWaybills(ctx echo.Context) error {
	code, err := strconv.Atoi(ctx.Param("code"))
	if err != nil {
		return badRequest(ctx, "Invalid carrier code")
	}

	var body WaybillBatch
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewLoadWaybillsCommand(code, body.Waybills)
	if err != nil {
		return s.fail(ctx, err)
	}

	added, err := s.waybills.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, WaybillBatchResult{
		Carrier:   code,
		Submitted: len(cmd.Waybills()),
		Added:     added,
	})
}
