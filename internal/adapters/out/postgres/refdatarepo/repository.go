package refdatarepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"freight/internal/core/domain/model/carrier"
	"freight/internal/core/domain/model/dangerousgoods"
	"freight/internal/core/domain/model/shipment"
	"freight/internal/pkg/errs"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormCarrierCatalog loads the active carriers.
type GormCarrierCatalog struct {
	db *gorm.DB
}

func NewGormCarrierCatalog(db *gorm.DB) *GormCarrierCatalog {
	return &GormCarrierCatalog{db: db}
}

// Catalog fails on the first row that does not make a valid carrier, so a
// misconfigured catalog is noticed instead of silently shrinking.
func (r *GormCarrierCatalog) Catalog(ctx context.Context) (carrier.Catalog, error) {
	var dtos []CarrierDTO
	if err := r.db.WithContext(ctx).Where("active = ?", true).Order("code").Find(&dtos).Error; err != nil {
		return carrier.Catalog{}, err
	}

	carriers := make([]*carrier.Carrier, 0, len(dtos))
	for _, dto := range dtos {
		c, err := dto.toDomain()
		if err != nil {
			return carrier.Catalog{}, fmt.Errorf("carrier %d: %w", dto.Code, err)
		}
		carriers = append(carriers, c)
	}
	return carrier.NewCatalog(carriers...), nil
}

func (dto CarrierDTO) toDomain() (*carrier.Carrier, error) {
	mode, err := carrier.ParseMode(dto.Mode)
	if err != nil {
		return nil, err
	}
	return carrier.NewCarrier(dto.Code, dto.Name, mode,
		carrier.Capabilities{
			DangerousGoods: dto.DangerousGoods,
			RemoteOnly:     dto.RemoteOnly,
			Options:        []string(dto.Options),
		},
		carrier.Limits{
			MaxPackageWeightKG:  dto.MaxPackageWeightKG,
			MaxPackageLengthCM:  dto.MaxPackageLengthCM,
			MaxShipmentWeightKG: dto.MaxShipmentWeightKG,
			MaxShipmentWeightLB: dto.MaxShipmentWeightLB,
		},
	)
}

// GormClassificationRepository reads dangerous goods classifications.
type GormClassificationRepository struct {
	db *gorm.DB
}

func NewGormClassificationRepository(db *gorm.DB) *GormClassificationRepository {
	return &GormClassificationRepository{db: db}
}

// Find matches the normalized key exactly. Rows are expected to be stored normalized.
func (r *GormClassificationRepository) Find(
	ctx context.Context,
	key dangerousgoods.Key,
) (dangerousgoods.Classification, error) {
	key = dangerousgoods.NewKey(key.UNNumber, key.PackingGroup, key.ProperShippingName)

	var dto ClassificationDTO
	err := r.db.WithContext(ctx).
		Where("un_number = ? AND packing_group = ? AND proper_shipping_name = ?",
			key.UNNumber, key.PackingGroup, key.ProperShippingName).
		First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dangerousgoods.Classification{}, errs.NewObjectNotFoundError("classification", key.String())
		}
		return dangerousgoods.Classification{}, err
	}

	return dto.toDomain(), nil
}

func (dto ClassificationDTO) toDomain() dangerousgoods.Classification {
	return dangerousgoods.Classification{
		Key:              dangerousgoods.NewKey(dto.UNNumber, dto.PackingGroup, dto.ProperShippingName),
		PackingGroupText: dto.PackingGroupText,
		ClassDivision:    dto.ClassDivision,
		Subrisks:         []string(dto.Subrisks),
		MeasurementUnit:  dto.MeasurementUnit,
		ExceptedQuantity: dto.ExceptedQuantity,
		Air: dangerousgoods.AirCutoffs{
			Limited:   cutoff(dto.AirLimited, dto.AirLimitedInstruction, dto.AirLimitedPackaging),
			Passenger: cutoff(dto.AirPassenger, dto.AirPassengerInstruction, dto.AirPassengerPackaging),
			CargoOnly: cutoff(dto.AirCargoOnly, dto.AirCargoOnlyInstruction, dto.AirCargoOnlyPackaging),
		},
		Ground: dangerousgoods.GroundCutoffs{
			Limited: cutoff(dto.GroundLimited, dto.GroundLimitedInstruction, dto.GroundLimitedPackaging),
			Maximum: cutoff(dto.GroundMaximum, dto.GroundMaximumInstruction, dto.GroundMaximumPackaging),
			Exempt:  dto.GroundExempt,
		},
	}
}

func cutoff(limit decimal.Decimal, instruction string, packaging pq.StringArray) dangerousgoods.Cutoff {
	return dangerousgoods.Cutoff{
		Limit: limit,
		Instruction: dangerousgoods.PackingInstruction{
			Code:           instruction,
			PackagingTypes: []string(packaging),
		},
	}
}

// GormPackageTypeRepository reads account package catalogs.
type GormPackageTypeRepository struct {
	db *gorm.DB
}

func NewGormPackageTypeRepository(db *gorm.DB) *GormPackageTypeRepository {
	return &GormPackageTypeRepository{db: db}
}

func (r *GormPackageTypeRepository) Get(ctx context.Context, accountID, code string) (shipment.PackageType, error) {
	code = shipment.NormalizePackageTypeCode(code)

	var dto PackageTypeDTO
	err := r.db.WithContext(ctx).
		Where("account_id = ? AND code = ?", accountID, code).
		First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return shipment.PackageType{}, errs.NewObjectNotFoundError("package type", code)
		}
		return shipment.PackageType{}, err
	}

	allowed := make([]int, 0, len(dto.AllowedCarriers))
	for _, c := range dto.AllowedCarriers {
		allowed = append(allowed, int(c))
	}
	return shipment.PackageType{
		Code:            dto.Code,
		Name:            dto.Name,
		Packaging:       dto.Packaging,
		AllowedCarriers: carrier.NewCandidates(allowed...),
	}, nil
}

// GormMarkupRepository reads carrier markup percentages.
type GormMarkupRepository struct {
	db *gorm.DB
}

func NewGormMarkupRepository(db *gorm.DB) *GormMarkupRepository {
	return &GormMarkupRepository{db: db}
}

func (r *GormMarkupRepository) CarrierMarkup(ctx context.Context, carrierCode int) (decimal.Decimal, error) {
	var dtos []CarrierMarkupDTO
	if err := r.db.WithContext(ctx).Where("carrier_code = ?", carrierCode).Limit(1).Find(&dtos).Error; err != nil {
		return decimal.Zero, err
	}
	if len(dtos) == 0 {
		return decimal.Zero, nil
	}
	return dtos[0].Percent, nil
}

// GormCityAliasRepository resolves alternative city spellings.
type GormCityAliasRepository struct {
	db *gorm.DB
}

func NewGormCityAliasRepository(db *gorm.DB) *GormCityAliasRepository {
	return &GormCityAliasRepository{db: db}
}

// Canonical compares the alias case-insensitively and returns city unchanged when
// there is no alias for it.
func (r *GormCityAliasRepository) Canonical(ctx context.Context, country, province, city string) (string, error) {
	var dtos []CityAliasDTO
	err := r.db.WithContext(ctx).
		Where("country = ? AND province = ? AND LOWER(alias) = ?",
			strings.ToUpper(country), strings.ToUpper(province), strings.ToLower(city)).
		Limit(1).
		Find(&dtos).Error
	if err != nil {
		return "", err
	}
	if len(dtos) == 0 {
		return city, nil
	}
	return dtos[0].Canonical, nil
}
