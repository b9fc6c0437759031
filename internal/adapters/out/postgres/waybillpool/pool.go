// Package waybillpool keeps carrier-issued waybill numbers in PostgreSQL and hands
// them out one at a time. Concurrent reservations never block each other: a row
// locked by one transaction is skipped by the others.
package waybillpool

import (
	"context"
	"fmt"
	"time"

	"freight/internal/core/domain/model/shipment"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	StatusAvailable = iota + 1
	StatusReserved
	StatusConsumed
)

// WaybillDTO is one pre-assigned identifier.
type WaybillDTO struct {
	ID          int64      `gorm:"primaryKey"`
	CarrierCode int        `gorm:"not null;uniqueIndex:idx_waybill_carrier_number;index:idx_waybill_carrier_status"`
	Waybill     string     `gorm:"type:varchar(64);not null;uniqueIndex:idx_waybill_carrier_number"`
	Status      int        `gorm:"type:smallint;not null;index:idx_waybill_carrier_status"`
	ReservedAt  *time.Time `gorm:"index"`
	ConsumedAt  *time.Time
}

func (WaybillDTO) TableName() string {
	return "waybill_pool"
}

// GormPool implements ports.IdentifierPool and ports.StrandedIdentifierFinder.
type GormPool struct {
	db  *gorm.DB
	now func() time.Time
}

func NewGormPool(db *gorm.DB) *GormPool {
	return &GormPool{db: db, now: time.Now}
}

// Reserve takes the oldest available waybill of the carrier.
func (p *GormPool) Reserve(ctx context.Context, carrierCode int) (shipment.Reservation, error) {
	var reservation shipment.Reservation
	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var dto WaybillDTO
		err := tx.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
			Where("carrier_code = ? AND status = ?", carrierCode, StatusAvailable).
			Order("id").
			Limit(1).
			Find(&dto).Error
		if err != nil {
			return err
		}
		if dto.ID == 0 {
			return fmt.Errorf("carrier %d: %w", carrierCode, ports.ErrIdentifierPoolExhausted)
		}

		reservedAt := p.now().UTC()
		err = tx.Model(&dto).Updates(map[string]any{
			"status":      StatusReserved,
			"reserved_at": reservedAt,
		}).Error
		if err != nil {
			return err
		}

		reservation = shipment.Reservation{Carrier: carrierCode, Waybill: dto.Waybill, ReservedAt: reservedAt}
		return nil
	})
	return reservation, err
}

// Release puts a reserved waybill back. Waybills that are not reserved are left untouched.
func (p *GormPool) Release(ctx context.Context, reservation shipment.Reservation) error {
	return p.transition(ctx, reservation, map[string]any{
		"status":      StatusAvailable,
		"reserved_at": nil,
	})
}

// Consume marks a reserved waybill as used by a booked leg.
func (p *GormPool) Consume(ctx context.Context, reservation shipment.Reservation) error {
	return p.transition(ctx, reservation, map[string]any{
		"status":      StatusConsumed,
		"consumed_at": p.now().UTC(),
	})
}

func (p *GormPool) transition(ctx context.Context, reservation shipment.Reservation, changes map[string]any) error {
	result := p.db.WithContext(ctx).
		Model(&WaybillDTO{}).
		Where("carrier_code = ? AND waybill = ? AND status = ?",
			reservation.Carrier, reservation.Waybill, StatusReserved).
		Updates(changes)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("reservation", fmt.Sprintf("%d/%s", reservation.Carrier, reservation.Waybill))
	}
	return nil
}

// FindStranded lists reservations older than reservedBefore, oldest first.
func (p *GormPool) FindStranded(ctx context.Context, reservedBefore time.Time) ([]shipment.Reservation, error) {
	var dtos []WaybillDTO
	err := p.db.WithContext(ctx).
		Where("status = ? AND reserved_at < ?", StatusReserved, reservedBefore).
		Order("reserved_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	out := make([]shipment.Reservation, 0, len(dtos))
	for _, dto := range dtos {
		var reservedAt time.Time
		if dto.ReservedAt != nil {
			reservedAt = *dto.ReservedAt
		}
		out = append(out, shipment.Reservation{Carrier: dto.CarrierCode, Waybill: dto.Waybill, ReservedAt: reservedAt})
	}
	return out, nil
}

// Load adds new available waybills for a carrier. Numbers already in the pool are skipped.
func (p *GormPool) Load(ctx context.Context, carrierCode int, waybills ...string) (int64, error) {
	if len(waybills) == 0 {
		return 0, nil
	}

	dtos := make([]WaybillDTO, 0, len(waybills))
	for _, w := range waybills {
		if w == "" {
			return 0, errs.NewValueIsRequiredError("waybill")
		}
		dtos = append(dtos, WaybillDTO{CarrierCode: carrierCode, Waybill: w, Status: StatusAvailable})
	}

	result := p.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&dtos)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
