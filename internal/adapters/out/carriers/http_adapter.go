// Package carriers holds the outbound carrier integrations and the registry the
// core resolves them from.
package carriers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"freight/internal/core/domain/model/carrier"
	"freight/internal/core/domain/model/shipment"
)

const maxErrorBody = 512

// HTTPAdapter talks to a carrier exposing the generic JSON booking API:
//
//	POST {base}/rates      -> {"quotes": [...]}
//	POST {base}/shipments  -> {"tracking_number": ..., "total": ...}
//
// Any non-2xx answer is an error carrying the status and the start of the body.
type HTTPAdapter struct {
	code    int
	name    string
	mode    carrier.Mode
	baseURL string
	token   string
	client  *http.Client
}

func NewHTTPAdapter(c *carrier.Carrier, baseURL, token string, timeout time.Duration) *HTTPAdapter {
	return &HTTPAdapter{
		code:    c.Code(),
		name:    c.Name(),
		mode:    c.Mode(),
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: timeout},
	}
}

func (a *HTTPAdapter) Rate(ctx context.Context, req shipment.Request) ([]shipment.Quote, error) {
	body := rateRequestJSON{
		Origin:      toAddressJSON(req.Origin),
		Destination: toAddressJSON(req.Destination),
		Packages:    toPackagesJSON(req.Packages),
		Service:     req.ServiceCode,
		Options:     req.Options,
		PickupDate:  pickupDate(req.PickupDate),
	}

	var resp rateResponseJSON
	if err := a.post(ctx, "/rates", body, &resp); err != nil {
		return nil, err
	}

	quotes := make([]shipment.Quote, 0, len(resp.Quotes))
	for _, q := range resp.Quotes {
		quotes = append(quotes, shipment.Quote{
			Carrier:     a.code,
			CarrierName: a.name,
			Mode:        a.mode,
			Service:     q.Service,
			ServiceName: q.ServiceName,
			TransitDays: q.TransitDays,
			Charges:     q.toDomain(),
		})
	}
	return quotes, nil
}

func (a *HTTPAdapter) Ship(ctx context.Context, orderNumber string, leg shipment.LegRequest) (shipment.LegResult, error) {
	body := shipRequestJSON{
		OrderNumber:         orderNumber,
		Role:                leg.Role.String(),
		Service:             leg.Service,
		Waybill:             leg.Waybill,
		Origin:              toAddressJSON(leg.Origin),
		Destination:         toAddressJSON(leg.Destination),
		UltimateOrigin:      toAddressJSON(leg.UltimateOrigin),
		UltimateDestination: toAddressJSON(leg.UltimateDestination),
		Packages:            toPackagesJSON(leg.Request.Packages),
		Options:             leg.Request.Options,
		PickupDate:          pickupDate(leg.Request.PickupDate),
	}

	var resp shipResponseJSON
	if err := a.post(ctx, "/shipments", body, &resp); err != nil {
		return shipment.LegResult{}, err
	}

	result := shipment.LegResult{
		Charges:          resp.toDomain(),
		TransitDays:      resp.TransitDays,
		TrackingNumber:   resp.TrackingNumber,
		BookingReference: resp.BookingReference,
	}
	if resp.EstimatedDelivery != nil {
		result.EstimatedDelivery = *resp.EstimatedDelivery
	}
	return result, nil
}

func (a *HTTPAdapter) post(ctx context.Context, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("carrier %d: marshal request: %w", a.code, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("carrier %d: build request: %w", a.code, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("carrier %d: %w", a.code, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("carrier %d: %s %s: status %d: %s",
			a.code, http.MethodPost, path, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("carrier %d: decode response: %w", a.code, err)
	}
	return nil
}
