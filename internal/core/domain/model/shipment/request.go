package shipment

import (
	"fmt"
	"slices"
	"time"

	"freight/internal/core/domain/model/carrier"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Account is the customer context a request is priced for.
type Account struct {
	ID            string
	MarkupPercent decimal.Decimal
	IsMetric      bool
}

// Request is the normalized shipment input. Strategies derive per-leg copies with
// Clone; the fields below the blank line are filled in by the rate request parser.
type Request struct {
	Account     Account
	Origin      kernel.Address
	Destination kernel.Address
	Packages    []Package
	ServiceCode string
	Dangerous   bool
	Options     []string
	// Modes restricts the transport modes considered. Empty means every mode.
	Modes []carrier.Mode
	// Carriers is the working candidate set. Empty on input means the whole catalog.
	Carriers   carrier.Candidates
	PickupDate time.Time
	// StrictDangerousGoods turns an absolutely forbidden item into an error instead
	// of removing the carriers that would have moved it.
	StrictDangerousGoods bool

	IsInternational bool
	IsRemote        bool
	TotalWeightKG   decimal.Decimal
	TotalVolumeM3   decimal.Decimal
}

// Clone returns a deep copy safe to modify independently.
func (r Request) Clone() Request {
	out := r
	out.Packages = make([]Package, len(r.Packages))
	for i, p := range r.Packages {
		out.Packages[i] = p.clone()
	}
	out.Options = slices.Clone(r.Options)
	out.Modes = slices.Clone(r.Modes)
	out.Carriers = slices.Clone(r.Carriers)
	return out
}

// HasDangerousGoods reports whether the flag is set or any package declares DG content.
func (r Request) HasDangerousGoods() bool {
	return r.Dangerous || slices.ContainsFunc(r.Packages, Package.IsDangerous)
}

// WantsMode reports whether carriers of mode m are requested.
func (r Request) WantsMode(m carrier.Mode) bool {
	return len(r.Modes) == 0 || slices.Contains(r.Modes, m)
}

// Validate checks the request shape before any carrier filtering.
func (r Request) Validate() error {
	var fields []errs.FieldError
	if r.Account.ID == "" {
		fields = append(fields, errs.FieldError{Path: "account.id", Message: "is required"})
	}
	if r.Account.MarkupPercent.IsNegative() {
		fields = append(fields, errs.FieldError{Path: "account.markup_percent", Message: "must not be negative"})
	}
	if err := r.Origin.Validate(); err != nil {
		fields = append(fields, errs.FieldError{Path: "origin", Message: err.Error()})
	}
	if err := r.Destination.Validate(); err != nil {
		fields = append(fields, errs.FieldError{Path: "destination", Message: err.Error()})
	}
	if len(r.Packages) == 0 {
		fields = append(fields, errs.FieldError{Path: "packages", Message: "at least one package is required"})
	}
	for i, p := range r.Packages {
		if p.PackageType == "" {
			fields = append(fields, errs.FieldError{
				Path: fmt.Sprintf("packages[%d].package_type", i), Message: "is required",
			})
		}
		if p.Quantity < 0 {
			fields = append(fields, errs.FieldError{
				Path: fmt.Sprintf("packages[%d].quantity", i), Message: "must not be negative",
			})
		}
	}
	for _, m := range r.Modes {
		if err := m.Validate(); err != nil {
			fields = append(fields, errs.FieldError{Path: "modes", Message: err.Error()})
		}
	}
	if len(fields) > 0 {
		return errs.NewValidationError("invalid_request", fields...)
	}
	return nil
}
