package shipment

import (
	"slices"
	"strings"

	"freight/internal/core/domain/model/carrier"
	"freight/internal/core/domain/model/dangerousgoods"
	"freight/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
)

// Package is one physical item of a shipment. Length, Width, Height and Weight are
// declared in the account's units; Dimensions holds the metric values once parsed.
type Package struct {
	PackageType string
	// Packaging is the outer packaging code resolved from the package type catalog.
	Packaging string
	Quantity  int

	Length decimal.Decimal
	Width  decimal.Decimal
	Height decimal.Decimal
	Weight decimal.Decimal

	Dimensions kernel.Dimensions

	DangerousGood *DangerousGood
}

func (p Package) IsDangerous() bool {
	return p.DangerousGood != nil
}

// Pieces is Quantity with a floor of one.
func (p Package) Pieces() int {
	return max(p.Quantity, 1)
}

func (p Package) clone() Package {
	if p.DangerousGood != nil {
		dg := p.DangerousGood.clone()
		p.DangerousGood = &dg
	}
	return p
}

// DangerousGood carries the declared regulatory attributes of a package and the
// fields derived during classification.
type DangerousGood struct {
	UNNumber           int
	PackingGroup       string
	ProperShippingName string
	Quantity           decimal.Decimal
	State              string

	// Classification is attached by the rate request parser once the record is found.
	Classification *dangerousgoods.Classification

	PackingInstruction string
	MeasurementUnit    string
	ClassDivision      string
	Subrisks           []string
	Tier               string
	Labels             []string
}

func (d DangerousGood) Key() dangerousgoods.Key {
	return dangerousgoods.NewKey(d.UNNumber, d.PackingGroup, d.ProperShippingName)
}

func (d DangerousGood) clone() DangerousGood {
	d.Subrisks = slices.Clone(d.Subrisks)
	d.Labels = slices.Clone(d.Labels)
	return d
}

// PackageType is an entry of an account's package catalog.
type PackageType struct {
	Code      string
	Name      string
	Packaging string
	// AllowedCarriers restricts which carriers may move this package type.
	// An empty set means no restriction.
	AllowedCarriers carrier.Candidates
}

func NormalizePackageTypeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
