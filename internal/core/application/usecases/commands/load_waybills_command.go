package commands

import (
	"errors"
	"strings"

	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

var (
	ErrLoadWaybillsCommandIsNotConstructed = errors.New(
		"LoadWaybillsCommand must be created via NewLoadWaybillsCommand constructor",
	)
	ErrWaybillsAreRequired = errs.NewValueIsRequiredError("waybills")
)

// LoadWaybillsCommand adds a batch of carrier-issued waybill numbers to the pool
// used for pre-assigned carriers. Blank entries and duplicates within the batch are dropped.
type LoadWaybillsCommand struct { //nolint:recvcheck //using for validation
	carrierCode int
	waybills    []string

	guard guard.ConstructorGuard
}

func NewLoadWaybillsCommand(carrierCode int, waybills []string) (LoadWaybillsCommand, error) {
	cmd := LoadWaybillsCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setCarrierCode(carrierCode),
		cmd.setWaybills(waybills),
	); err != nil {
		return LoadWaybillsCommand{}, err
	}

	return cmd, nil
}

func (c LoadWaybillsCommand) Validate() error {
	return c.guard.Validate(ErrLoadWaybillsCommandIsNotConstructed)
}

func (c LoadWaybillsCommand) CarrierCode() int {
	return c.carrierCode
}

func (c LoadWaybillsCommand) Waybills() []string {
	return append([]string(nil), c.waybills...)
}

func (c *LoadWaybillsCommand) setCarrierCode(code int) error {
	if code <= 0 {
		return errs.NewValueIsOutOfRangeError("carrier code", code, 1, "unbounded")
	}
	c.carrierCode = code
	return nil
}

func (c *LoadWaybillsCommand) setWaybills(waybills []string) error {
	seen := make(map[string]struct{}, len(waybills))
	for _, w := range waybills {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		c.waybills = append(c.waybills, w)
	}

	if len(c.waybills) == 0 {
		return ErrWaybillsAreRequired
	}
	return nil
}
