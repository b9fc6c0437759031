package dangerousgoods

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"freight/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Key identifies a classification record. Lookups match all three fields exactly.
type Key struct {
	UNNumber           int
	PackingGroup       string
	ProperShippingName string
}

// NewKey normalizes the packing group (upper case roman numeral) and the proper
// shipping name (trimmed, upper case, single spaces).
func NewKey(unNumber int, packingGroup, properShippingName string) Key {
	return Key{
		UNNumber:           unNumber,
		PackingGroup:       strings.ToUpper(strings.TrimSpace(packingGroup)),
		ProperShippingName: strings.ToUpper(strings.Join(strings.Fields(properShippingName), " ")),
	}
}

func (k Key) String() string {
	return fmt.Sprintf("UN%04d/%s/%s", k.UNNumber, k.PackingGroup, k.ProperShippingName)
}

// PackingInstruction is a regulatory packaging code. An empty PackagingTypes list
// places no restriction on the outer packaging.
type PackingInstruction struct {
	Code           string
	PackagingTypes []string
}

func (p PackingInstruction) Allows(packaging string) bool {
	if len(p.PackagingTypes) == 0 {
		return true
	}
	packaging = strings.ToUpper(strings.TrimSpace(packaging))
	return slices.ContainsFunc(p.PackagingTypes, func(t string) bool {
		return strings.ToUpper(strings.TrimSpace(t)) == packaging
	})
}

// Cutoff is the maximum quantity accepted under one tier and the instruction that applies.
type Cutoff struct {
	Limit       decimal.Decimal
	Instruction PackingInstruction
}

// Available reports whether the tier can be used at all.
func (c Cutoff) Available() bool {
	return c.Limit.IsPositive()
}

// Covers reports quantity <= limit for an available tier.
func (c Cutoff) Covers(quantity decimal.Decimal) bool {
	return c.Available() && quantity.LessThanOrEqual(c.Limit)
}

type AirCutoffs struct {
	Limited   Cutoff
	Passenger Cutoff
	CargoOnly Cutoff
}

func (a AirCutoffs) AllZero() bool {
	return !a.Limited.Available() && !a.Passenger.Available() && !a.CargoOnly.Available()
}

type GroundCutoffs struct {
	Limited Cutoff
	Maximum Cutoff
	// Exempt substances travel by ground with no restriction.
	Exempt bool
}

func (g GroundCutoffs) AllZero() bool {
	return !g.Limited.Available() && !g.Maximum.Available()
}

// Classification is the reference record for one Key.
type Classification struct {
	Key              Key
	PackingGroupText string
	ClassDivision    string
	Subrisks         []string
	MeasurementUnit  string
	// ExceptedQuantity is the quantity at or below which the item ships as
	// ordinary cargo. Zero disables the exemption.
	ExceptedQuantity decimal.Decimal
	Air              AirCutoffs
	Ground           GroundCutoffs
}

func (c Classification) Validate() error {
	var err error
	if c.Key.UNNumber <= 0 || c.Key.UNNumber > 9999 {
		err = errors.Join(err, errs.NewValueIsOutOfRangeError("un_number", c.Key.UNNumber, 1, 9999))
	}
	if c.Key.ProperShippingName == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("proper_shipping_name"))
	}
	if c.ClassDivision == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("class_division"))
	}
	for _, cut := range []Cutoff{c.Air.Limited, c.Air.Passenger, c.Air.CargoOnly, c.Ground.Limited, c.Ground.Maximum} {
		if cut.Limit.IsNegative() {
			err = errors.Join(err, errs.NewValueIsOutOfRangeError("cutoff", cut.Limit.String(), 0, "unbounded"))
		}
	}
	return err
}

// HazardClasses returns the primary class followed by the subrisks, in order,
// without duplicates.
func (c Classification) HazardClasses() []string {
	out := make([]string, 0, 1+len(c.Subrisks))
	for _, cls := range append([]string{c.ClassDivision}, c.Subrisks...) {
		cls = strings.TrimSpace(cls)
		if cls != "" && !slices.Contains(out, cls) {
			out = append(out, cls)
		}
	}
	return out
}
