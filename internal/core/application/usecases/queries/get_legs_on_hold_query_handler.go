package queries

import (
	"context"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/shipment"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GetLegsOnHoldQueryHandler struct {
	db *gorm.DB
}

func NewGetLegsOnHoldQueryHandler(db *gorm.DB) GetLegsOnHoldQueryHandler {
	return GetLegsOnHoldQueryHandler{db: db}
}

// Handle returns the oldest shipments first.
func (h GetLegsOnHoldQueryHandler) Handle(
	ctx context.Context,
	query GetLegsOnHoldQuery,
) ([]GetLegsOnHoldQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	legs := make([]GetLegsOnHoldQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			l.id,
			l.shipment_id,
			s.account_id,
			l.role,
			l.carrier,
			l.service,
			l.origin_city, l.origin_province, l.origin_country, l.origin_postal_code,
			l.destination_city, l.destination_province, l.destination_country, l.destination_postal_code,
			l.hold_reason,
			s.created_at
		FROM shipment_legs l
		JOIN shipments s ON s.id = l.shipment_id
		WHERE l.status = ?
		ORDER BY s.created_at, l.shipment_id, l.role
	`, int(shipment.OnHold)).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			leg               GetLegsOnHoldQueryResponse
			legID, shipmentID uuid.UUID
			role              int
		)
		err = rows.Scan(
			&legID,
			&shipmentID,
			&leg.AccountID,
			&role,
			&leg.Carrier,
			&leg.Service,
			&leg.Origin.City, &leg.Origin.Province, &leg.Origin.Country, &leg.Origin.PostalCode,
			&leg.Destination.City, &leg.Destination.Province, &leg.Destination.Country, &leg.Destination.PostalCode,
			&leg.HoldReason,
			&leg.BookedAt,
		)
		if err != nil {
			return nil, err
		}

		if leg.LegID, err = kernel.UUIDFromBytes(legID[:]); err != nil {
			return nil, err
		}
		if leg.ShipmentID, err = kernel.UUIDFromBytes(shipmentID[:]); err != nil {
			return nil, err
		}
		leg.Role = shipment.Role(role)
		legs = append(legs, leg)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return legs, nil
}
