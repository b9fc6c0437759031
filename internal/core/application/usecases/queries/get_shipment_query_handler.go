package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/shipment"
	"freight/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GetShipmentQueryHandler struct {
	db *gorm.DB
}

func NewGetShipmentQueryHandler(db *gorm.DB) GetShipmentQueryHandler {
	return GetShipmentQueryHandler{db: db}
}

// Handle returns errs.ObjectNotFoundError for unknown shipments. Legs come back
// in travel order.
func (h GetShipmentQueryHandler) Handle(ctx context.Context, query GetShipmentQuery) (GetShipmentQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetShipmentQueryResponse{}, err
	}

	db := h.db.WithContext(ctx)
	id := query.ShipmentID()

	resp := GetShipmentQueryResponse{ID: id}
	row := db.Raw(`
		SELECT
			account_id,
			strategy,
			origin_city, origin_province, origin_country, origin_postal_code,
			destination_city, destination_province, destination_country, destination_postal_code,
			dangerous,
			cost, freight, surcharge, tax, total,
			created_at
		FROM shipments
		WHERE id = ?
	`, id.String()).Row()

	err := row.Scan(
		&resp.AccountID,
		&resp.Strategy,
		&resp.Origin.City, &resp.Origin.Province, &resp.Origin.Country, &resp.Origin.PostalCode,
		&resp.Destination.City, &resp.Destination.Province, &resp.Destination.Country, &resp.Destination.PostalCode,
		&resp.Dangerous,
		&resp.Totals.Cost, &resp.Totals.Freight, &resp.Totals.Surcharge, &resp.Totals.Tax, &resp.Totals.Total,
		&resp.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return GetShipmentQueryResponse{}, errs.NewObjectNotFoundError("shipment", id.String())
	}
	if err != nil {
		return GetShipmentQueryResponse{}, err
	}

	rows, err := db.Raw(`
		SELECT
			id,
			role,
			carrier,
			service,
			status,
			origin_city, origin_province, origin_country, origin_postal_code,
			destination_city, destination_province, destination_country, destination_postal_code,
			waybill,
			tracking_number,
			booking_reference,
			total,
			base_total,
			multiplier,
			transit_days,
			pickup_date,
			delivery_date,
			hold_reason
		FROM shipment_legs
		WHERE shipment_id = ?
		ORDER BY role
	`, id.String()).Rows()
	if err != nil {
		return GetShipmentQueryResponse{}, err
	}
	defer rows.Close()

	resp.Legs = make([]LegView, 0, 3)
	for rows.Next() {
		var (
			leg            LegView
			legID          uuid.UUID
			role, status   int
			pickup, arrive sql.NullTime
		)
		err = rows.Scan(
			&legID,
			&role,
			&leg.Carrier,
			&leg.Service,
			&status,
			&leg.Origin.City, &leg.Origin.Province, &leg.Origin.Country, &leg.Origin.PostalCode,
			&leg.Destination.City, &leg.Destination.Province, &leg.Destination.Country, &leg.Destination.PostalCode,
			&leg.Waybill,
			&leg.TrackingNumber,
			&leg.BookingReference,
			&leg.Total,
			&leg.BaseTotal,
			&leg.Multiplier,
			&leg.TransitDays,
			&pickup,
			&arrive,
			&leg.HoldReason,
		)
		if err != nil {
			return GetShipmentQueryResponse{}, err
		}

		if leg.ID, err = kernel.UUIDFromBytes(legID[:]); err != nil {
			return GetShipmentQueryResponse{}, err
		}
		leg.Role = shipment.Role(role)
		leg.Status = shipment.LegStatus(status)
		leg.PickupDate = nullTime(pickup)
		leg.DeliveryDate = nullTime(arrive)
		resp.Legs = append(resp.Legs, leg)
	}

	if err = rows.Err(); err != nil {
		return GetShipmentQueryResponse{}, err
	}
	return resp, nil
}

func nullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	return &t.Time
}
