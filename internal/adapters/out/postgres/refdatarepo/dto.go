// Package refdatarepo reads the reference data the freight core consults while
// parsing and pricing: the carrier catalog, dangerous goods classifications,
// account package types, carrier markups and city aliases.
//
// Everything here is read-only for the core. Rows are maintained by back-office
// tooling; tests seed them directly through the DTOs.
package refdatarepo

import (
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// CarrierDTO is one row of the carrier catalog. Zero limits mean unlimited.
type CarrierDTO struct {
	Code                int             `gorm:"primaryKey;autoIncrement:false"`
	Name                string          `gorm:"type:varchar(128);not null"`
	Mode                string          `gorm:"type:varchar(16);not null"`
	DangerousGoods      bool            `gorm:"not null;default:false"`
	RemoteOnly          bool            `gorm:"not null;default:false"`
	Options             pq.StringArray  `gorm:"type:text[]"`
	MaxPackageWeightKG  decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0"`
	MaxPackageLengthCM  decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0"`
	MaxShipmentWeightKG decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	MaxShipmentWeightLB decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	Active              bool            `gorm:"not null"`
}

func (CarrierDTO) TableName() string {
	return "carriers"
}

// ClassificationDTO is one dangerous goods reference record. Each cutoff column
// is paired with its packing instruction code and the outer packagings it allows.
type ClassificationDTO struct {
	UNNumber           int    `gorm:"primaryKey;autoIncrement:false"`
	PackingGroup       string `gorm:"primaryKey;type:varchar(8)"`
	ProperShippingName string `gorm:"primaryKey;type:varchar(255)"`

	PackingGroupText string          `gorm:"type:varchar(32)"`
	ClassDivision    string          `gorm:"type:varchar(16);not null"`
	Subrisks         pq.StringArray  `gorm:"type:text[]"`
	MeasurementUnit  string          `gorm:"type:varchar(8)"`
	ExceptedQuantity decimal.Decimal `gorm:"type:numeric(10,3);not null;default:0"`

	AirLimited               decimal.Decimal `gorm:"type:numeric(10,3);not null;default:0"`
	AirLimitedInstruction    string          `gorm:"type:varchar(16)"`
	AirLimitedPackaging      pq.StringArray  `gorm:"type:text[]"`
	AirPassenger             decimal.Decimal `gorm:"type:numeric(10,3);not null;default:0"`
	AirPassengerInstruction  string          `gorm:"type:varchar(16)"`
	AirPassengerPackaging    pq.StringArray  `gorm:"type:text[]"`
	AirCargoOnly             decimal.Decimal `gorm:"type:numeric(10,3);not null;default:0"`
	AirCargoOnlyInstruction  string          `gorm:"type:varchar(16)"`
	AirCargoOnlyPackaging    pq.StringArray  `gorm:"type:text[]"`
	GroundLimited            decimal.Decimal `gorm:"type:numeric(10,3);not null;default:0"`
	GroundLimitedInstruction string          `gorm:"type:varchar(16)"`
	GroundLimitedPackaging   pq.StringArray  `gorm:"type:text[]"`
	GroundMaximum            decimal.Decimal `gorm:"type:numeric(10,3);not null;default:0"`
	GroundMaximumInstruction string          `gorm:"type:varchar(16)"`
	GroundMaximumPackaging   pq.StringArray  `gorm:"type:text[]"`
	GroundExempt             bool            `gorm:"not null;default:false"`
}

func (ClassificationDTO) TableName() string {
	return "dg_classifications"
}

// PackageTypeDTO is one entry of an account's package catalog. An empty
// AllowedCarriers array places no restriction.
type PackageTypeDTO struct {
	AccountID       string        `gorm:"primaryKey;type:varchar(64)"`
	Code            string        `gorm:"primaryKey;type:varchar(32)"`
	Name            string        `gorm:"type:varchar(128)"`
	Packaging       string        `gorm:"type:varchar(32)"`
	AllowedCarriers pq.Int64Array `gorm:"type:bigint[]"`
}

func (PackageTypeDTO) TableName() string {
	return "package_types"
}

type CarrierMarkupDTO struct {
	CarrierCode int             `gorm:"primaryKey;autoIncrement:false"`
	Percent     decimal.Decimal `gorm:"type:numeric(6,2);not null;default:0"`
}

func (CarrierMarkupDTO) TableName() string {
	return "carrier_markups"
}

// CityAliasDTO maps an alternative spelling to the canonical city name within a province.
type CityAliasDTO struct {
	Country   string `gorm:"primaryKey;type:varchar(8)"`
	Province  string `gorm:"primaryKey;type:varchar(16)"`
	Alias     string `gorm:"primaryKey;type:varchar(128)"`
	Canonical string `gorm:"type:varchar(128);not null"`
}

func (CityAliasDTO) TableName() string {
	return "city_aliases"
}
