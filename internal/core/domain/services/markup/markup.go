// Package markup prices carrier answers for the customer.
//
// The multiplier combines the account-level and carrier-level markup percentages:
//
//	multiplier = account/100 + carrier/100 + 1
//
// Freight, tax and total are multiplied and rounded to cents; the surcharge is
// passed through. The carrier's own amounts are kept next to the marked-up ones.
package markup

import (
	"freight/internal/core/domain/model/shipment"

	"github.com/shopspring/decimal"
)

// CurrencyPlaces is the precision of every marked-up amount.
const CurrencyPlaces = 2

var hundred = decimal.NewFromInt(100)

// Multiplier returns the price factor for the given percentages. Multiplier(0, 0) is 1.
func Multiplier(accountPercent, carrierPercent decimal.Decimal) decimal.Decimal {
	return accountPercent.Div(hundred).Add(carrierPercent.Div(hundred)).Add(decimal.NewFromInt(1))
}

// Round quantizes an amount to currency precision, halves rounded away from zero.
func Round(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(CurrencyPlaces)
}

// ApplyCharges multiplies freight, tax and total by multiplier.
func ApplyCharges(base shipment.Charges, multiplier decimal.Decimal) shipment.Charges {
	return shipment.Charges{
		Freight:   Round(base.Freight.Mul(multiplier)),
		Surcharge: base.Surcharge,
		Tax:       Round(base.Tax.Mul(multiplier)),
		Total:     Round(base.Total.Mul(multiplier)),
	}
}

// Apply marks up a leg result. Applying again with another multiplier starts from
// the carrier's original amounts, never from already marked-up ones.
func Apply(result shipment.LegResult, multiplier decimal.Decimal) shipment.LegResult {
	base := result.Charges
	if result.IsMarkedUp() {
		base = result.Base
	}
	result.Base = base
	result.Multiplier = multiplier
	result.Charges = ApplyCharges(base, multiplier)
	return result
}

// ApplyQuote marks up a rate quote the same way.
func ApplyQuote(q shipment.Quote, multiplier decimal.Decimal) shipment.Quote {
	base := q.Charges
	if !q.Multiplier.IsZero() {
		base = q.Base
	}
	q.Base = base
	q.Multiplier = multiplier
	q.Charges = ApplyCharges(base, multiplier)
	return q
}
