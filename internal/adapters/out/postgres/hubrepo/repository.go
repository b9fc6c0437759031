package hubrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"freight/internal/core/domain/model/hub"
	"freight/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormHubDirectory implements ports.HubDirectory using GORM.
type GormHubDirectory struct {
	db *gorm.DB
}

func NewGormHubDirectory(db *gorm.DB) *GormHubDirectory {
	return &GormHubDirectory{db: db}
}

// Airbases returns the carrier's airbases in their configured order.
func (r *GormHubDirectory) Airbases(ctx context.Context, carrierCode int) ([]hub.Airbase, error) {
	var dtos []AirbaseDTO
	err := r.db.WithContext(ctx).
		Where("carrier_code = ?", carrierCode).
		Order("position, code").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	airbases := make([]hub.Airbase, 0, len(dtos))
	for _, dto := range dtos {
		airbases = append(airbases, dto.toDomain())
	}
	return airbases, nil
}

// Sailing matches the sailing name case-insensitively.
func (r *GormHubDirectory) Sailing(ctx context.Context, carrierCode int, name string) (hub.Sailing, error) {
	var dto SailingDTO
	err := r.db.WithContext(ctx).
		Where("carrier_code = ? AND LOWER(name) = ?", carrierCode, strings.ToLower(strings.TrimSpace(name))).
		First(&dto).Error
	if err != nil {
		return hub.Sailing{}, notFound(err, "sailing", fmt.Sprintf("%d/%s", carrierCode, name))
	}
	return dto.toDomain(), nil
}

func (r *GormHubDirectory) PackingStation(ctx context.Context, carrierCode int) (hub.PackingStation, error) {
	var dto PackingStationDTO
	if err := r.db.WithContext(ctx).First(&dto, "carrier_code = ?", carrierCode).Error; err != nil {
		return hub.PackingStation{}, notFound(err, "packing station", carrierCode)
	}
	return hub.PackingStation{Carrier: dto.CarrierCode, Address: dto.Address.ToDomain()}, nil
}

// MiddleLocation looks the pair up in the given order only.
func (r *GormHubDirectory) MiddleLocation(
	ctx context.Context,
	firstCarrier, secondCarrier int,
) (hub.MiddleLocation, error) {
	var dto MiddleLocationDTO
	err := r.db.WithContext(ctx).
		First(&dto, "first_carrier = ? AND second_carrier = ?", firstCarrier, secondCarrier).Error
	if err != nil {
		return hub.MiddleLocation{}, notFound(err, "middle location", fmt.Sprintf("%d/%d", firstCarrier, secondCarrier))
	}
	return hub.MiddleLocation{
		FirstCarrier:  dto.FirstCarrier,
		SecondCarrier: dto.SecondCarrier,
		Address:       dto.Address.ToDomain(),
	}, nil
}

func notFound(err error, param string, id any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NewObjectNotFoundError(param, id)
	}
	return err
}
