package shipmentrepo

import (
	"context"
	"errors"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/shipment"
	"freight/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormShipmentRepository implements ports.ShipmentRepository using GORM.
type GormShipmentRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormShipmentRepository(db *gorm.DB, tracker aggregateTracker) *GormShipmentRepository {
	return &GormShipmentRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts the shipment row and its legs in one statement batch.
func (r *GormShipmentRepository) Add(ctx context.Context, aggregate *shipment.Shipment) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update rewrites every column of the shipment row and of each leg, zero values included.
// Legs are never added after Add, so a leg that no longer exists is reported as not found.
func (r *GormShipmentRepository) Update(ctx context.Context, aggregate *shipment.Shipment) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	legs := dto.Legs
	dto.Legs = nil

	result := r.db.WithContext(ctx).Model(&dto).Select("*").Omit("ID", "CreatedAt", "Legs").Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	for i := range legs {
		leg := legs[i]
		result = r.db.WithContext(ctx).Model(&leg).Select("*").Omit("ID", "ShipmentID").Updates(&leg)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get loads a shipment with its legs.
func (r *GormShipmentRepository) Get(ctx context.Context, id kernel.UUID) (*shipment.Shipment, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ShipmentDTO
	if err := r.db.WithContext(ctx).Preload("Legs").First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("shipment", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// Delete removes the legs first and then the shipment row.
func (r *GormShipmentRepository) Delete(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	if err := r.db.WithContext(ctx).Where("shipment_id = ?", id.Bytes()).Delete(&LegDTO{}).Error; err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Delete(&ShipmentDTO{}, "id = ?", id.Bytes())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("shipment", id.String())
	}
	return nil
}

// SumLegs computes the totals in the database. Cost is the sum of the carriers'
// pre-markup totals; the other fields sum the marked-up charges.
func (r *GormShipmentRepository) SumLegs(ctx context.Context, id kernel.UUID) (shipment.Totals, error) {
	if err := id.Validate(); err != nil {
		return shipment.Totals{}, err
	}

	var sums struct {
		Cost      decimal.Decimal
		Freight   decimal.Decimal
		Surcharge decimal.Decimal
		Tax       decimal.Decimal
		Total     decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&LegDTO{}).
		Select(`COALESCE(SUM(base_total), 0) AS cost,
			COALESCE(SUM(freight), 0) AS freight,
			COALESCE(SUM(surcharge), 0) AS surcharge,
			COALESCE(SUM(tax), 0) AS tax,
			COALESCE(SUM(total), 0) AS total`).
		Where("shipment_id = ?", id.Bytes()).
		Scan(&sums).Error
	if err != nil {
		return shipment.Totals{}, err
	}

	return shipment.Totals{
		Cost:      sums.Cost,
		Freight:   sums.Freight,
		Surcharge: sums.Surcharge,
		Tax:       sums.Tax,
		Total:     sums.Total,
	}, nil
}
