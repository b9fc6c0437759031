package commands

import (
	"context"
	"log/slog"

	"freight/internal/core/ports"
)

// LoadWaybillsCommandHandler stores waybill batches. It returns how many of the
// submitted numbers were new to the pool.
type LoadWaybillsCommandHandler struct {
	loader ports.IdentifierLoader
	logger *slog.Logger
}

func NewLoadWaybillsCommandHandler(loader ports.IdentifierLoader, logger *slog.Logger) LoadWaybillsCommandHandler {
	return LoadWaybillsCommandHandler{
		loader: loader,
		logger: logger.With("component", "load_waybills"),
	}
}

func (h LoadWaybillsCommandHandler) Handle(ctx context.Context, cmd LoadWaybillsCommand) (int64, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	added, err := h.loader.Load(ctx, cmd.CarrierCode(), cmd.Waybills()...)
	if err != nil {
		return 0, err
	}

	h.logger.Info("waybills loaded", "carrier", cmd.CarrierCode(),
		"submitted", len(cmd.Waybills()), "added", added)
	return added, nil
}
