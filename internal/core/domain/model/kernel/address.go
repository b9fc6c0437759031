package kernel

import (
	"errors"
	"strings"

	"freight/internal/pkg/errs"
)

// Address is a pickup, delivery or hub location together with the contact reached there.
// Province and Country hold ISO style codes; comparisons on them are case-insensitive.
type Address struct {
	Company    string
	Contact    string
	Phone      string
	Email      string
	Street     string
	City       string
	Province   string
	Country    string
	PostalCode string

	HasLoadingDock bool
	IsResidential  bool
}

// Normalize trims and collapses whitespace in every field, upper-cases the
// province, country and postal code, and strips spaces from the postal code.
func (a Address) Normalize() Address {
	a.Company = collapse(a.Company)
	a.Contact = collapse(a.Contact)
	a.Phone = collapse(a.Phone)
	a.Email = strings.ToLower(collapse(a.Email))
	a.Street = collapse(a.Street)
	a.City = collapse(a.City)
	a.Province = strings.ToUpper(collapse(a.Province))
	a.Country = strings.ToUpper(collapse(a.Country))
	a.PostalCode = strings.ToUpper(strings.ReplaceAll(collapse(a.PostalCode), " ", ""))
	return a
}

// Validate checks the fields every carrier needs to route a leg.
func (a Address) Validate() error {
	var err error
	if strings.TrimSpace(a.City) == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("city"))
	}
	if strings.TrimSpace(a.Province) == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("province"))
	}
	if strings.TrimSpace(a.Country) == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("country"))
	}
	return err
}

func (a Address) SameCountry(other Address) bool {
	return strings.EqualFold(a.Country, other.Country)
}

func (a Address) SameProvince(other Address) bool {
	return a.SameCountry(other) && strings.EqualFold(a.Province, other.Province)
}

func (a Address) SameCity(other Address) bool {
	return a.SameProvince(other) && strings.EqualFold(a.City, other.City)
}

// HasPostalPrefix reports whether the normalized postal code starts with prefix.
func (a Address) HasPostalPrefix(prefix string) bool {
	prefix = strings.ToUpper(strings.ReplaceAll(prefix, " ", ""))
	if prefix == "" {
		return false
	}
	return strings.HasPrefix(strings.ToUpper(strings.ReplaceAll(a.PostalCode, " ", "")), prefix)
}

func (a Address) IsZero() bool {
	return a.City == "" && a.Province == "" && a.Country == "" && a.Street == ""
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
