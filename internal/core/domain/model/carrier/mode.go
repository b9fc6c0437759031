package carrier

import (
	"fmt"
	"strings"

	"freight/internal/pkg/errs"
)

// Mode is the transport mode a carrier operates.
type Mode int

const (
	UnknownMode Mode = iota
	Air
	Courier
	LTL
	FTL
	Sealift
)

func getModeStrings() map[Mode]string {
	return map[Mode]string{
		UnknownMode: "unknown",
		Air:         "air",
		Courier:     "courier",
		LTL:         "ltl",
		FTL:         "ftl",
		Sealift:     "sealift",
	}
}

// AllModes lists the valid modes in declaration order.
func AllModes() []Mode {
	return []Mode{Air, Courier, LTL, FTL, Sealift}
}

// ParseMode accepts the lower-case names returned by String, case-insensitively.
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for m, name := range getModeStrings() {
		if m != UnknownMode && name == s {
			return m, nil
		}
	}
	return UnknownMode, errs.NewValueIsInvalidErrorWithCause("mode", fmt.Errorf("%q is not a transport mode", s))
}

func (m Mode) Validate() error {
	if m <= UnknownMode || m > Sealift {
		return errs.NewValueIsInvalidErrorWithCause("mode", fmt.Errorf("%d is not a valid mode", m))
	}
	return nil
}

func (m Mode) String() string {
	if s, ok := getModeStrings()[m]; ok {
		return s
	}
	return "unknown"
}

// IsAir reports whether dangerous goods on this mode follow air regulations.
// Every other mode is regulated as ground transport.
func (m Mode) IsAir() bool {
	return m == Air
}
