package carriers

import (
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/shipment"

	"github.com/shopspring/decimal"
)

type addressJSON struct {
	Company     string `json:"company,omitempty"`
	Contact     string `json:"contact,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Email       string `json:"email,omitempty"`
	Street      string `json:"street,omitempty"`
	City        string `json:"city"`
	Province    string `json:"province"`
	Country     string `json:"country"`
	PostalCode  string `json:"postal_code,omitempty"`
	LoadingDock bool   `json:"loading_dock"`
	Residential bool   `json:"residential"`
}

type dangerousGoodJSON struct {
	UNNumber           int             `json:"un_number"`
	PackingGroup       string          `json:"packing_group"`
	ProperShippingName string          `json:"proper_shipping_name"`
	ClassDivision      string          `json:"class_division,omitempty"`
	Quantity           decimal.Decimal `json:"quantity"`
	Unit               string          `json:"unit,omitempty"`
	PackingInstruction string          `json:"packing_instruction,omitempty"`
}

type packageJSON struct {
	Quantity      int                `json:"quantity"`
	Packaging     string             `json:"packaging,omitempty"`
	LengthCM      decimal.Decimal    `json:"length_cm"`
	WidthCM       decimal.Decimal    `json:"width_cm"`
	HeightCM      decimal.Decimal    `json:"height_cm"`
	WeightKG      decimal.Decimal    `json:"weight_kg"`
	DangerousGood *dangerousGoodJSON `json:"dangerous_good,omitempty"`
}

type rateRequestJSON struct {
	Origin      addressJSON   `json:"origin"`
	Destination addressJSON   `json:"destination"`
	Packages    []packageJSON `json:"packages"`
	Service     string        `json:"service,omitempty"`
	Options     []string      `json:"options,omitempty"`
	PickupDate  string        `json:"pickup_date,omitempty"`
}

type shipRequestJSON struct {
	OrderNumber         string        `json:"order_number"`
	Role                string        `json:"role"`
	Service             string        `json:"service,omitempty"`
	Waybill             string        `json:"waybill,omitempty"`
	Origin              addressJSON   `json:"origin"`
	Destination         addressJSON   `json:"destination"`
	UltimateOrigin      addressJSON   `json:"ultimate_origin"`
	UltimateDestination addressJSON   `json:"ultimate_destination"`
	Packages            []packageJSON `json:"packages"`
	Options             []string      `json:"options,omitempty"`
	PickupDate          string        `json:"pickup_date,omitempty"`
}

type chargesJSON struct {
	Freight   decimal.Decimal `json:"freight"`
	Surcharge decimal.Decimal `json:"surcharge"`
	Tax       decimal.Decimal `json:"tax"`
	Total     decimal.Decimal `json:"total"`
}

type quoteJSON struct {
	chargesJSON
	Service     string `json:"service"`
	ServiceName string `json:"service_name"`
	TransitDays int    `json:"transit_days"`
}

type rateResponseJSON struct {
	Quotes []quoteJSON `json:"quotes"`
}

type shipResponseJSON struct {
	chargesJSON
	TrackingNumber    string     `json:"tracking_number"`
	BookingReference  string     `json:"booking_reference"`
	TransitDays       int        `json:"transit_days"`
	EstimatedDelivery *time.Time `json:"estimated_delivery,omitempty"`
}

func toAddressJSON(a kernel.Address) addressJSON {
	return addressJSON{
		Company:     a.Company,
		Contact:     a.Contact,
		Phone:       a.Phone,
		Email:       a.Email,
		Street:      a.Street,
		City:        a.City,
		Province:    a.Province,
		Country:     a.Country,
		PostalCode:  a.PostalCode,
		LoadingDock: a.HasLoadingDock,
		Residential: a.IsResidential,
	}
}

func toPackagesJSON(pkgs []shipment.Package) []packageJSON {
	out := make([]packageJSON, 0, len(pkgs))
	for _, p := range pkgs {
		pj := packageJSON{
			Quantity:  p.Pieces(),
			Packaging: p.Packaging,
			LengthCM:  p.Dimensions.LengthCM(),
			WidthCM:   p.Dimensions.WidthCM(),
			HeightCM:  p.Dimensions.HeightCM(),
			WeightKG:  p.Dimensions.WeightKG(),
		}
		if dg := p.DangerousGood; dg != nil {
			pj.DangerousGood = &dangerousGoodJSON{
				UNNumber:           dg.UNNumber,
				PackingGroup:       dg.PackingGroup,
				ProperShippingName: dg.ProperShippingName,
				ClassDivision:      dg.ClassDivision,
				Quantity:           dg.Quantity,
				Unit:               dg.MeasurementUnit,
				PackingInstruction: dg.PackingInstruction,
			}
		}
		out = append(out, pj)
	}
	return out
}

func pickupDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.DateOnly)
}

func (c chargesJSON) toDomain() shipment.Charges {
	return shipment.Charges{Freight: c.Freight, Surcharge: c.Surcharge, Tax: c.Tax, Total: c.Total}
}
