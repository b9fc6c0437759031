package shipment

import (
	"fmt"
	"strings"

	"freight/internal/pkg/errs"
)

// Role is a leg's position in the physical movement. Roles sort in travel order.
type Role int

const (
	UnknownRole Role = iota
	Pickup
	Main
	Delivery
)

func getRoleStrings() map[Role]string {
	return map[Role]string{
		UnknownRole: "unknown",
		Pickup:      "pickup",
		Main:        "main",
		Delivery:    "delivery",
	}
}

func ParseRole(s string) (Role, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for r, name := range getRoleStrings() {
		if r != UnknownRole && name == s {
			return r, nil
		}
	}
	return UnknownRole, errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a leg role", s))
}

func (r Role) Validate() error {
	if r < Pickup || r > Delivery {
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%d is not a valid role", r))
	}
	return nil
}

func (r Role) String() string {
	if s, ok := getRoleStrings()[r]; ok {
		return s
	}
	return "unknown"
}
