package shipment

import (
	"fmt"

	"freight/internal/pkg/errs"
)

// LegStatus is the booking state of a leg.
//
//	Pending ──┬──> Booked
//	          └──> OnHold
//
// OnHold legs wait for an operator; the core never moves them further.
type LegStatus int

const (
	UnknownLegStatus LegStatus = iota
	Pending
	Booked
	OnHold
)

func getLegStatusStrings() map[LegStatus]string {
	return map[LegStatus]string{
		UnknownLegStatus: "Unknown",
		Pending:          "Pending",
		Booked:           "Booked",
		OnHold:           "OnHold",
	}
}

func (s LegStatus) Validate() error {
	if s < Pending || s > OnHold {
		return errs.NewValueIsInvalidErrorWithCause("leg status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s LegStatus) String() string {
	if str, ok := getLegStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// Book transitions Pending to Booked.
func (s LegStatus) Book() (LegStatus, error) {
	if s != Pending {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"leg status is invalid",
			fmt.Errorf("%s is not a valid status to book", s),
		)
	}
	return Booked, nil
}

// Hold transitions Pending to OnHold.
func (s LegStatus) Hold() (LegStatus, error) {
	if s != Pending {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"leg status is invalid",
			fmt.Errorf("%s is not a valid status to hold", s),
		)
	}
	return OnHold, nil
}

// IsSettled reports whether the leg left Pending.
func (s LegStatus) IsSettled() bool {
	return s == Booked || s == OnHold
}
