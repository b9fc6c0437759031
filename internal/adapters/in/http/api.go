package http

import (
	"fmt"
	"strings"
	"time"

	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/application/usecases/queries"
	"freight/internal/core/domain/model/carrier"
	"freight/internal/core/domain/model/dangerousgoods"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/shipment"
	"freight/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Error is the body of every non-2xx answer.
type Error struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Reason  string       `json:"reason,omitempty"`
	Fields  []FieldError `json:"fields,omitempty"`
}

type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

type Address struct {
	Company     string `json:"company"`
	Contact     string `json:"contact"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Street      string `json:"street"`
	City        string `json:"city"`
	Province    string `json:"province"`
	Country     string `json:"country"`
	PostalCode  string `json:"postal_code"`
	LoadingDock bool   `json:"loading_dock"`
	Residential bool   `json:"residential"`
}

type DangerousGood struct {
	UNNumber           int             `json:"un_number"`
	PackingGroup       string          `json:"packing_group"`
	ProperShippingName string          `json:"proper_shipping_name"`
	Quantity           decimal.Decimal `json:"quantity"`
	State              string          `json:"state"`
}

type Package struct {
	PackageType   string          `json:"package_type"`
	Quantity      int             `json:"quantity"`
	Length        decimal.Decimal `json:"length"`
	Width         decimal.Decimal `json:"width"`
	Height        decimal.Decimal `json:"height"`
	Weight        decimal.Decimal `json:"weight"`
	DangerousGood *DangerousGood  `json:"dangerous_good,omitempty"`
}

type Account struct {
	ID            string          `json:"id"`
	MarkupPercent decimal.Decimal `json:"markup_percent"`
	Metric        bool            `json:"metric"`
}

// ShipmentRequest is the body of POST /api/v1/rates.
type ShipmentRequest struct {
	Account     Account   `json:"account"`
	Origin      Address   `json:"origin"`
	Destination Address   `json:"destination"`
	Packages    []Package `json:"packages"`
	ServiceCode string    `json:"service_code"`
	Dangerous   bool      `json:"dangerous"`
	Options     []string  `json:"options"`
	Modes       []string  `json:"modes"`
	Carriers    []int     `json:"carriers"`
	// PickupDate is YYYY-MM-DD. Empty means as soon as possible.
	PickupDate string `json:"pickup_date"`
	// StrictDangerousGoods overrides the service default when set.
	StrictDangerousGoods *bool `json:"strict_dangerous_goods"`
}

// BookingRequest is the body of POST /api/v1/shipments.
type BookingRequest struct {
	ShipmentRequest
	MainCarrier     int    `json:"main_carrier"`
	Service         string `json:"service"`
	PickupCarrier   int    `json:"pickup_carrier"`
	PickupService   string `json:"pickup_service"`
	DeliveryCarrier int    `json:"delivery_carrier"`
	DeliveryService string `json:"delivery_service"`
	Sailing         string `json:"sailing"`
	Interline       bool   `json:"interline"`
}

type WaybillBatch struct {
	Waybills []string `json:"waybills"`
}

type WaybillBatchResult struct {
	Carrier   int   `json:"carrier"`
	Submitted int   `json:"submitted"`
	Added     int64 `json:"added"`
}

type Charges struct {
	Freight   string `json:"freight"`
	Surcharge string `json:"surcharge"`
	Tax       string `json:"tax"`
	Total     string `json:"total"`
}

type Quote struct {
	Carrier     int     `json:"carrier"`
	CarrierName string  `json:"carrier_name"`
	Mode        string  `json:"mode"`
	Service     string  `json:"service"`
	ServiceName string  `json:"service_name"`
	TransitDays int     `json:"transit_days"`
	Charges     Charges `json:"charges"`
	Base        Charges `json:"base"`
	Multiplier  string  `json:"multiplier"`
}

type CarrierFailure struct {
	Carrier int    `json:"carrier"`
	Error   string `json:"error"`
}

type RateResponse struct {
	Quotes     []Quote          `json:"quotes"`
	Failures   []CarrierFailure `json:"failures"`
	Statements []string         `json:"statements,omitempty"`
}

type Place struct {
	City       string `json:"city"`
	Province   string `json:"province"`
	Country    string `json:"country"`
	PostalCode string `json:"postal_code"`
}

type Leg struct {
	ID               uuid.UUID `json:"id"`
	Role             string    `json:"role"`
	Carrier          int       `json:"carrier"`
	Service          string    `json:"service,omitempty"`
	Status           string    `json:"status"`
	Origin           Place     `json:"origin"`
	Destination      Place     `json:"destination"`
	Waybill          string    `json:"waybill,omitempty"`
	TrackingNumber   string    `json:"tracking_number,omitempty"`
	BookingReference string    `json:"booking_reference,omitempty"`
	Total            string    `json:"total"`
	BaseTotal        string    `json:"base_total"`
	Multiplier       string    `json:"multiplier"`
	TransitDays      int       `json:"transit_days"`
	PickupDate       string    `json:"pickup_date,omitempty"`
	DeliveryDate     string    `json:"delivery_date,omitempty"`
	HoldReason       string    `json:"hold_reason,omitempty"`
}

type Totals struct {
	Cost      string `json:"cost"`
	Freight   string `json:"freight"`
	Surcharge string `json:"surcharge"`
	Tax       string `json:"tax"`
	Total     string `json:"total"`
}

type Document struct {
	Kind        string `json:"kind"`
	Title       string `json:"title"`
	ContentType string `json:"content_type"`
	Content     []byte `json:"content"`
}

type Shipment struct {
	ID          uuid.UUID  `json:"id"`
	AccountID   string     `json:"account_id"`
	Strategy    string     `json:"strategy"`
	Origin      Place      `json:"origin"`
	Destination Place      `json:"destination"`
	Dangerous   bool       `json:"dangerous"`
	Totals      Totals     `json:"totals"`
	CreatedAt   time.Time  `json:"created_at"`
	Legs        []Leg      `json:"legs"`
	Documents   []Document `json:"documents,omitempty"`
}

type LegOnHold struct {
	LegID       uuid.UUID `json:"leg_id"`
	ShipmentID  uuid.UUID `json:"shipment_id"`
	AccountID   string    `json:"account_id"`
	Role        string    `json:"role"`
	Carrier     int       `json:"carrier"`
	Service     string    `json:"service,omitempty"`
	Origin      Place     `json:"origin"`
	Destination Place     `json:"destination"`
	HoldReason  string    `json:"hold_reason"`
	BookedAt    time.Time `json:"booked_at"`
}

func (a Address) toDomain() kernel.Address {
	return kernel.Address{
		Company:        a.Company,
		Contact:        a.Contact,
		Phone:          a.Phone,
		Email:          a.Email,
		Street:         a.Street,
		City:           a.City,
		Province:       a.Province,
		Country:        a.Country,
		PostalCode:     a.PostalCode,
		HasLoadingDock: a.LoadingDock,
		IsResidential:  a.Residential,
	}
}

// toDomain reports malformed modes and dates together; everything else is
// checked by the parser.
func (r ShipmentRequest) toDomain(strictDefault bool) (shipment.Request, error) {
	req := shipment.Request{
		Account: shipment.Account{
			ID:            strings.TrimSpace(r.Account.ID),
			MarkupPercent: r.Account.MarkupPercent,
			IsMetric:      r.Account.Metric,
		},
		Origin:               r.Origin.toDomain(),
		Destination:          r.Destination.toDomain(),
		ServiceCode:          r.ServiceCode,
		Dangerous:            r.Dangerous,
		Options:              r.Options,
		Carriers:             carrier.NewCandidates(r.Carriers...),
		StrictDangerousGoods: strictDefault,
	}
	if r.StrictDangerousGoods != nil {
		req.StrictDangerousGoods = *r.StrictDangerousGoods
	}

	var fields []errs.FieldError
	for _, m := range r.Modes {
		mode, err := carrier.ParseMode(m)
		if err != nil {
			fields = append(fields, errs.FieldError{Path: "modes", Message: fmt.Sprintf("unknown mode %q", m)})
			continue
		}
		req.Modes = append(req.Modes, mode)
	}
	if r.PickupDate != "" {
		pickup, err := time.Parse(time.DateOnly, r.PickupDate)
		if err != nil {
			fields = append(fields, errs.FieldError{Path: "pickup_date", Message: "must be YYYY-MM-DD"})
		}
		req.PickupDate = pickup
	}
	if len(fields) > 0 {
		return shipment.Request{}, errs.NewValidationError("invalid_request", fields...)
	}

	for _, p := range r.Packages {
		pkg := shipment.Package{
			PackageType: p.PackageType,
			Quantity:    p.Quantity,
			Length:      p.Length,
			Width:       p.Width,
			Height:      p.Height,
			Weight:      p.Weight,
		}
		if dg := p.DangerousGood; dg != nil {
			pkg.DangerousGood = &shipment.DangerousGood{
				UNNumber:           dg.UNNumber,
				PackingGroup:       dg.PackingGroup,
				ProperShippingName: dg.ProperShippingName,
				Quantity:           dg.Quantity,
				State:              dg.State,
			}
		}
		req.Packages = append(req.Packages, pkg)
	}
	return req, nil
}

func legOnHoldFrom(v queries.GetLegsOnHoldQueryResponse) LegOnHold {
	return LegOnHold{
		LegID:       v.LegID.Bytes(),
		ShipmentID:  v.ShipmentID.Bytes(),
		AccountID:   v.AccountID,
		Role:        v.Role.String(),
		Carrier:     v.Carrier,
		Service:     v.Service,
		Origin:      placeFromView(v.Origin),
		Destination: placeFromView(v.Destination),
		HoldReason:  v.HoldReason,
		BookedAt:    v.BookedAt,
	}
}

func (r BookingRequest) selection() commands.CarrierSelection {
	return commands.CarrierSelection{
		MainCarrier:     r.MainCarrier,
		Service:         r.Service,
		PickupCarrier:   r.PickupCarrier,
		PickupService:   r.PickupService,
		DeliveryCarrier: r.DeliveryCarrier,
		DeliveryService: r.DeliveryService,
		Sailing:         r.Sailing,
		Interline:       r.Interline,
	}
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func chargesFrom(c shipment.Charges) Charges {
	return Charges{Freight: money(c.Freight), Surcharge: money(c.Surcharge), Tax: money(c.Tax), Total: money(c.Total)}
}

func totalsFrom(t shipment.Totals) Totals {
	return Totals{
		Cost:      money(t.Cost),
		Freight:   money(t.Freight),
		Surcharge: money(t.Surcharge),
		Tax:       money(t.Tax),
		Total:     money(t.Total),
	}
}

func date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.DateOnly)
}

func optionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return date(*t)
}

func placeFrom(a kernel.Address) Place {
	return Place{City: a.City, Province: a.Province, Country: a.Country, PostalCode: a.PostalCode}
}

func placeFromView(v queries.PlaceView) Place {
	return Place(v)
}

func rateResponseFrom(resp queries.RateShipmentQueryResponse) RateResponse {
	out := RateResponse{
		Quotes:   make([]Quote, 0, len(resp.Quotes)),
		Failures: make([]CarrierFailure, 0, len(resp.Failures)),
	}
	for _, q := range resp.Quotes {
		out.Quotes = append(out.Quotes, Quote{
			Carrier:     q.Carrier,
			CarrierName: q.CarrierName,
			Mode:        q.Mode.String(),
			Service:     q.Service,
			ServiceName: q.ServiceName,
			TransitDays: q.TransitDays,
			Charges:     chargesFrom(q.Charges),
			Base:        chargesFrom(q.Base),
			Multiplier:  q.Multiplier.String(),
		})
	}
	for _, f := range resp.Failures {
		out.Failures = append(out.Failures, CarrierFailure(f))
	}
	for _, res := range resp.Compliance {
		for _, s := range res.Statements {
			if !containsString(out.Statements, s) {
				out.Statements = append(out.Statements, s)
			}
		}
	}
	return out
}

func shipmentFrom(agg *shipment.Shipment, docs []dangerousgoods.RenderedDocument) Shipment {
	out := Shipment{
		ID:          agg.ID().Bytes(),
		AccountID:   agg.AccountID(),
		Strategy:    agg.Strategy(),
		Origin:      placeFrom(agg.Origin()),
		Destination: placeFrom(agg.Destination()),
		Dangerous:   agg.IsDangerous(),
		Totals:      totalsFrom(agg.Totals()),
		CreatedAt:   agg.CreatedAt(),
		Legs:        make([]Leg, 0, len(agg.Legs())),
	}
	for _, l := range agg.Legs() {
		res := l.Result()
		out.Legs = append(out.Legs, Leg{
			ID:               l.ID().Bytes(),
			Role:             l.Role().String(),
			Carrier:          l.Carrier(),
			Service:          l.Service(),
			Status:           l.Status().String(),
			Origin:           placeFrom(l.Origin()),
			Destination:      placeFrom(l.Destination()),
			Waybill:          l.Waybill(),
			TrackingNumber:   res.TrackingNumber,
			BookingReference: res.BookingReference,
			Total:            money(res.Total),
			BaseTotal:        money(res.Base.Total),
			Multiplier:       res.Multiplier.String(),
			TransitDays:      res.TransitDays,
			PickupDate:       date(l.PickupDate()),
			DeliveryDate:     date(l.DeliveryDate()),
			HoldReason:       l.HoldReason(),
		})
	}
	for _, d := range docs {
		out.Documents = append(out.Documents, Document{
			Kind:        d.Kind.String(),
			Title:       d.Title,
			ContentType: d.ContentType,
			Content:     d.Content,
		})
	}
	return out
}

func shipmentFromView(v queries.GetShipmentQueryResponse) Shipment {
	out := Shipment{
		ID:          v.ID.Bytes(),
		AccountID:   v.AccountID,
		Strategy:    v.Strategy,
		Origin:      placeFromView(v.Origin),
		Destination: placeFromView(v.Destination),
		Dangerous:   v.Dangerous,
		Totals:      totalsFrom(v.Totals),
		CreatedAt:   v.CreatedAt,
		Legs:        make([]Leg, 0, len(v.Legs)),
	}
	for _, l := range v.Legs {
		out.Legs = append(out.Legs, Leg{
			ID:               l.ID.Bytes(),
			Role:             l.Role.String(),
			Carrier:          l.Carrier,
			Service:          l.Service,
			Status:           l.Status.String(),
			Origin:           placeFromView(l.Origin),
			Destination:      placeFromView(l.Destination),
			Waybill:          l.Waybill,
			TrackingNumber:   l.TrackingNumber,
			BookingReference: l.BookingReference,
			Total:            money(l.Total),
			BaseTotal:        money(l.BaseTotal),
			Multiplier:       l.Multiplier.String(),
			TransitDays:      l.TransitDays,
			PickupDate:       optionalDate(l.PickupDate),
			DeliveryDate:     optionalDate(l.DeliveryDate),
			HoldReason:       l.HoldReason,
		})
	}
	return out
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
