package ports

import (
	"context"

	"freight/internal/core/domain/model/dangerousgoods"
	"freight/internal/core/domain/model/shipment"

	"github.com/shopspring/decimal"
)

// ClassificationRepository looks up dangerous goods reference data.
type ClassificationRepository interface {
	// Find matches all three key fields exactly. Missing records yield errs.ObjectNotFoundError.
	Find(ctx context.Context, key dangerousgoods.Key) (dangerousgoods.Classification, error)
}

// PackageTypeRepository reads an account's package catalog.
type PackageTypeRepository interface {
	// Get returns errs.ObjectNotFoundError when the account has no such package type.
	Get(ctx context.Context, accountID, code string) (shipment.PackageType, error)
}

// MarkupRepository reads carrier-level markup percentages.
type MarkupRepository interface {
	// CarrierMarkup returns zero when no markup is configured for the carrier.
	CarrierMarkup(ctx context.Context, carrierCode int) (decimal.Decimal, error)
}

// CityAliasRepository maps alternative city spellings to the canonical name.
type CityAliasRepository interface {
	// Canonical returns city unchanged when no alias exists.
	Canonical(ctx context.Context, country, province, city string) (string, error)
}
