// Package shipmentrepo persists the shipment aggregate and its legs.
// Shipments live in "shipments", legs in "shipment_legs"; addresses are embedded
// column groups and money columns are NUMERIC backed by shopspring/decimal.
package shipmentrepo

import (
	"time"

	"freight/internal/adapters/out/postgres/embedded"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/shipment"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ShipmentDTO is the row of a shipment. Totals are written from the aggregate after
// SumLegs has recomputed them.
type ShipmentDTO struct {
	ID          uuid.UUID        `gorm:"type:uuid;primaryKey"`
	AccountID   string           `gorm:"type:varchar(64);not null;index"`
	Strategy    string           `gorm:"type:varchar(32);not null"`
	Origin      embedded.Address `gorm:"embedded;embeddedPrefix:origin_"`
	Destination embedded.Address `gorm:"embedded;embeddedPrefix:destination_"`
	Dangerous   bool             `gorm:"not null;default:false"`
	Cost        decimal.Decimal  `gorm:"type:numeric(14,2);not null;default:0"`
	Freight     decimal.Decimal  `gorm:"type:numeric(14,2);not null;default:0"`
	Surcharge   decimal.Decimal  `gorm:"type:numeric(14,2);not null;default:0"`
	Tax         decimal.Decimal  `gorm:"type:numeric(14,2);not null;default:0"`
	Total       decimal.Decimal  `gorm:"type:numeric(14,2);not null;default:0"`
	CreatedAt   time.Time        `gorm:"not null"`
	Legs        []LegDTO         `gorm:"foreignKey:ShipmentID;constraint:OnDelete:CASCADE"`
}

func (ShipmentDTO) TableName() string {
	return "shipments"
}

// LegDTO is the row of one leg. Base* columns keep the carrier's pre-markup answer.
type LegDTO struct {
	ID                uuid.UUID        `gorm:"type:uuid;primaryKey"`
	ShipmentID        uuid.UUID        `gorm:"type:uuid;not null;index"`
	Role              int              `gorm:"type:smallint;not null"`
	Carrier           int              `gorm:"not null;index"`
	Service           string           `gorm:"type:varchar(64)"`
	Origin            embedded.Address `gorm:"embedded;embeddedPrefix:origin_"`
	Destination       embedded.Address `gorm:"embedded;embeddedPrefix:destination_"`
	Waybill           string           `gorm:"type:varchar(64)"`
	Status            int              `gorm:"type:smallint;not null;index"`
	Freight           decimal.Decimal  `gorm:"type:numeric(14,2);not null;default:0"`
	Surcharge         decimal.Decimal  `gorm:"type:numeric(14,2);not null;default:0"`
	Tax               decimal.Decimal  `gorm:"type:numeric(14,2);not null;default:0"`
	Total             decimal.Decimal  `gorm:"type:numeric(14,2);not null;default:0"`
	BaseFreight       decimal.Decimal  `gorm:"type:numeric(14,2);not null;default:0"`
	BaseSurcharge     decimal.Decimal  `gorm:"type:numeric(14,2);not null;default:0"`
	BaseTax           decimal.Decimal  `gorm:"type:numeric(14,2);not null;default:0"`
	BaseTotal         decimal.Decimal  `gorm:"type:numeric(14,2);not null;default:0"`
	Multiplier        decimal.Decimal  `gorm:"type:numeric(8,4);not null;default:0"`
	TransitDays       int              `gorm:"not null;default:0"`
	TrackingNumber    string           `gorm:"type:varchar(64)"`
	BookingReference  string           `gorm:"type:varchar(64)"`
	EstimatedDelivery *time.Time
	PickupDate        *time.Time `gorm:"type:date"`
	DeliveryDate      *time.Time `gorm:"type:date"`
	HoldReason        string     `gorm:"type:text"`
}

func (LegDTO) TableName() string {
	return "shipment_legs"
}

// fromDomain maps the aggregate and all of its legs.
func fromDomain(s *shipment.Shipment) ShipmentDTO {
	snap := s.Snapshot()
	shipmentID := snap.ID.Bytes()

	legs := make([]LegDTO, 0, len(s.Legs()))
	for _, l := range s.Legs() {
		legs = append(legs, legFromDomain(shipmentID, l.Snapshot()))
	}

	return ShipmentDTO{
		ID:          shipmentID,
		AccountID:   snap.AccountID,
		Strategy:    snap.Strategy,
		Origin:      embedded.FromAddress(snap.Origin),
		Destination: embedded.FromAddress(snap.Destination),
		Dangerous:   snap.Dangerous,
		Cost:        snap.Totals.Cost,
		Freight:     snap.Totals.Freight,
		Surcharge:   snap.Totals.Surcharge,
		Tax:         snap.Totals.Tax,
		Total:       snap.Totals.Total,
		CreatedAt:   snap.CreatedAt,
		Legs:        legs,
	}
}

func legFromDomain(shipmentID uuid.UUID, l shipment.LegSnapshot) LegDTO {
	return LegDTO{
		ID:                l.ID.Bytes(),
		ShipmentID:        shipmentID,
		Role:              int(l.Role),
		Carrier:           l.Carrier,
		Service:           l.Service,
		Origin:            embedded.FromAddress(l.Origin),
		Destination:       embedded.FromAddress(l.Destination),
		Waybill:           l.Waybill,
		Status:            int(l.Status),
		Freight:           l.Result.Freight,
		Surcharge:         l.Result.Surcharge,
		Tax:               l.Result.Tax,
		Total:             l.Result.Total,
		BaseFreight:       l.Result.Base.Freight,
		BaseSurcharge:     l.Result.Base.Surcharge,
		BaseTax:           l.Result.Base.Tax,
		BaseTotal:         l.Result.Base.Total,
		Multiplier:        l.Result.Multiplier,
		TransitDays:       l.Result.TransitDays,
		TrackingNumber:    l.Result.TrackingNumber,
		BookingReference:  l.Result.BookingReference,
		EstimatedDelivery: optionalTime(l.Result.EstimatedDelivery),
		PickupDate:        optionalTime(l.PickupDate),
		DeliveryDate:      optionalTime(l.DeliveryDate),
		HoldReason:        l.HoldReason,
	}
}

// toDomain rebuilds the aggregate through RestoreShipment so leg invariants are re-checked.
func toDomain(dto ShipmentDTO) (*shipment.Shipment, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	legs := make([]*shipment.Leg, 0, len(dto.Legs))
	for _, l := range dto.Legs {
		leg, legErr := legToDomain(l)
		if legErr != nil {
			return nil, legErr
		}
		legs = append(legs, leg)
	}

	return shipment.RestoreShipment(shipment.Snapshot{
		ID:          id,
		AccountID:   dto.AccountID,
		Strategy:    dto.Strategy,
		Origin:      dto.Origin.ToDomain(),
		Destination: dto.Destination.ToDomain(),
		Dangerous:   dto.Dangerous,
		Totals: shipment.Totals{
			Cost:      dto.Cost,
			Freight:   dto.Freight,
			Surcharge: dto.Surcharge,
			Tax:       dto.Tax,
			Total:     dto.Total,
		},
		CreatedAt: dto.CreatedAt,
	}, legs)
}

func legToDomain(dto LegDTO) (*shipment.Leg, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	return shipment.RestoreLeg(shipment.LegSnapshot{
		ID:          id,
		Role:        shipment.Role(dto.Role),
		Carrier:     dto.Carrier,
		Service:     dto.Service,
		Origin:      dto.Origin.ToDomain(),
		Destination: dto.Destination.ToDomain(),
		Waybill:     dto.Waybill,
		Status:      shipment.LegStatus(dto.Status),
		Result: shipment.LegResult{
			Charges: shipment.Charges{
				Freight:   dto.Freight,
				Surcharge: dto.Surcharge,
				Tax:       dto.Tax,
				Total:     dto.Total,
			},
			Base: shipment.Charges{
				Freight:   dto.BaseFreight,
				Surcharge: dto.BaseSurcharge,
				Tax:       dto.BaseTax,
				Total:     dto.BaseTotal,
			},
			Multiplier:        dto.Multiplier,
			TransitDays:       dto.TransitDays,
			TrackingNumber:    dto.TrackingNumber,
			BookingReference:  dto.BookingReference,
			EstimatedDelivery: derefTime(dto.EstimatedDelivery),
		},
		PickupDate:   derefTime(dto.PickupDate),
		DeliveryDate: derefTime(dto.DeliveryDate),
		HoldReason:   dto.HoldReason,
	})
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
