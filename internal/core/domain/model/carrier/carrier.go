package carrier

import (
	"errors"
	"slices"
	"strings"

	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrCarrierIsNotConstructed = errors.New("Carrier must be created via NewCarrier constructor")

// Capabilities describe what a carrier accepts.
type Capabilities struct {
	// DangerousGoods marks carriers certified to move regulated cargo.
	DangerousGoods bool
	// RemoteOnly carriers only serve shipments touching a remote region.
	RemoteOnly bool
	// Options are the accessorial option codes the carrier supports.
	Options []string
}

// Limits cap what a carrier will move. Zero values mean unlimited.
type Limits struct {
	MaxPackageWeightKG  decimal.Decimal
	MaxPackageLengthCM  decimal.Decimal
	MaxShipmentWeightKG decimal.Decimal
	MaxShipmentWeightLB decimal.Decimal
}

// Carrier is one entry of the carrier catalog.
type Carrier struct {
	code    int
	name    string
	mode    Mode
	caps    Capabilities
	limits  Limits
	options map[string]struct{}
	guard   guard.ConstructorGuard
}

func NewCarrier(code int, name string, mode Mode, caps Capabilities, limits Limits) (*Carrier, error) {
	c := &Carrier{
		code:    code,
		name:    strings.TrimSpace(name),
		mode:    mode,
		limits:  limits,
		options: make(map[string]struct{}, len(caps.Options)),
		guard:   guard.NewConstructorGuard(),
	}

	var err error
	if code <= 0 {
		err = errors.Join(err, errs.NewValueIsOutOfRangeError("code", code, 1, "unbounded"))
	}
	if c.name == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("name"))
	}
	err = errors.Join(err, mode.Validate())
	for _, l := range []decimal.Decimal{
		limits.MaxPackageWeightKG, limits.MaxPackageLengthCM, limits.MaxShipmentWeightKG, limits.MaxShipmentWeightLB,
	} {
		if l.IsNegative() {
			err = errors.Join(err, errs.NewValueIsOutOfRangeError("limit", l.String(), 0, "unbounded"))
		}
	}
	if err != nil {
		return nil, err
	}

	for _, o := range caps.Options {
		o = normalizeOption(o)
		if o != "" {
			c.options[o] = struct{}{}
		}
	}
	c.caps = Capabilities{
		DangerousGoods: caps.DangerousGoods,
		RemoteOnly:     caps.RemoteOnly,
		Options:        c.sortedOptions(),
	}

	return c, nil
}

func (c *Carrier) Validate() error {
	if c == nil {
		return ErrCarrierIsNotConstructed
	}
	return c.guard.Validate(ErrCarrierIsNotConstructed)
}

func (c *Carrier) Code() int                   { return c.code }
func (c *Carrier) Name() string                { return c.name }
func (c *Carrier) Mode() Mode                  { return c.mode }
func (c *Carrier) Limits() Limits              { return c.limits }
func (c *Carrier) HandlesDangerousGoods() bool { return c.caps.DangerousGoods }
func (c *Carrier) IsRemoteOnly() bool          { return c.caps.RemoteOnly }

// Options returns a copy of the supported option codes, sorted.
func (c *Carrier) Options() []string {
	return slices.Clone(c.caps.Options)
}

func (c *Carrier) SupportsOption(option string) bool {
	_, ok := c.options[normalizeOption(option)]
	return ok
}

// AcceptsPackage checks the per-package weight and longest-side limits.
func (c *Carrier) AcceptsPackage(weightKG, longestSideCM decimal.Decimal) bool {
	if exceeds(weightKG, c.limits.MaxPackageWeightKG) {
		return false
	}
	return !exceeds(longestSideCM, c.limits.MaxPackageLengthCM)
}

// AcceptsShipmentWeight checks the cumulative ceilings. Either unit crossing its
// ceiling rejects the shipment.
func (c *Carrier) AcceptsShipmentWeight(totalKG, totalLB decimal.Decimal) bool {
	if exceeds(totalKG, c.limits.MaxShipmentWeightKG) {
		return false
	}
	return !exceeds(totalLB, c.limits.MaxShipmentWeightLB)
}

func (c *Carrier) sortedOptions() []string {
	out := make([]string, 0, len(c.options))
	for o := range c.options {
		out = append(out, o)
	}
	slices.Sort(out)
	return out
}

func exceeds(v, ceiling decimal.Decimal) bool {
	return ceiling.IsPositive() && v.GreaterThan(ceiling)
}

func normalizeOption(o string) string {
	return strings.ToUpper(strings.TrimSpace(o))
}
