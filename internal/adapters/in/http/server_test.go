package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/application/usecases/queries"
	"freight/internal/core/domain/model/carrier"
	"freight/internal/core/domain/model/dangerousgoods"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/shipment"
	"freight/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRater struct{ mock.Mock }

func (m *MockRater) Handle(ctx context.Context, query queries.RateShipmentQuery) (queries.RateShipmentQueryResponse, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(queries.RateShipmentQueryResponse), args.Error(1)
}

type MockBooker struct{ mock.Mock }

func (m *MockBooker) Handle(ctx context.Context, cmd commands.BookShipmentCommand) (commands.BookShipmentResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.BookShipmentResult), args.Error(1)
}

type MockShipmentReader struct{ mock.Mock }

func (m *MockShipmentReader) Handle(ctx context.Context, query queries.GetShipmentQuery) (queries.GetShipmentQueryResponse, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(queries.GetShipmentQueryResponse), args.Error(1)
}

type MockOnHoldLister struct{ mock.Mock }

func (m *MockOnHoldLister) Handle(ctx context.Context, query queries.GetLegsOnHoldQuery) ([]queries.GetLegsOnHoldQueryResponse, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]queries.GetLegsOnHoldQueryResponse), args.Error(1)
}

type MockWaybillLoader struct{ mock.Mock }

func (m *MockWaybillLoader) Handle(ctx context.Context, cmd commands.LoadWaybillsCommand) (int64, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(int64), args.Error(1)
}

type fixture struct {
	rater    *MockRater
	booker   *MockBooker
	reader   *MockShipmentReader
	onHold   *MockOnHoldLister
	waybills *MockWaybillLoader
	echo     *echo.Echo
}

func newFixture() *fixture {
	f := &fixture{
		rater:    new(MockRater),
		booker:   new(MockBooker),
		reader:   new(MockShipmentReader),
		onHold:   new(MockOnHoldLister),
		waybills: new(MockWaybillLoader),
		echo:     echo.New(),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	NewServer(f.rater, f.booker, f.reader, f.onHold, f.waybills, true, logger).Register(f.echo)
	return f
}

func (f *fixture) do(method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	f.echo.ServeHTTP(rec, req)
	return rec
}

const rateBody = `{
	"account": {"id": "acct-1", "markup_percent": "15", "metric": true},
	"origin": {"city": "Montreal", "province": "QC", "country": "CA", "postal_code": "H3B 1A7"},
	"destination": {"city": "Iqaluit", "province": "NU", "country": "CA", "postal_code": "X0A 0H0"},
	"packages": [{"package_type": "BOX", "quantity": 1, "length": "40", "width": "30", "height": "20", "weight": "12.5"}],
	"modes": ["air"],
	"pickup_date": "2026-03-02"
}`

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestServer_Health(t *testing.T) {
	f := newFixture()

	rec := f.do(http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestServer_RateShipment(t *testing.T) {
	f := newFixture()
	f.rater.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.RateShipmentQuery) bool {
		req := q.Request()
		return req.Account.ID == "acct-1" &&
			req.StrictDangerousGoods &&
			len(req.Modes) == 1 && req.Modes[0] == carrier.Air &&
			req.PickupDate.Equal(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)) &&
			req.Packages[0].Weight.Equal(decimal.RequireFromString("12.5"))
	})).Return(queries.RateShipmentQueryResponse{
		Quotes: []shipment.Quote{{
			Carrier:     1,
			CarrierName: "Polar Air",
			Mode:        carrier.Air,
			Service:     "STD",
			TransitDays: 2,
			Charges:     shipment.Charges{Total: decimal.RequireFromString("115")},
			Base:        shipment.Charges{Total: decimal.RequireFromString("100")},
			Multiplier:  decimal.RequireFromString("1.15"),
		}},
		Failures: []queries.CarrierFailure{{Carrier: 2, Error: "timeout"}},
	}, nil)

	rec := f.do(http.MethodPost, "/api/v1/rates", rateBody)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[RateResponse](t, rec)
	require.Len(t, resp.Quotes, 1)
	assert.Equal(t, "115.00", resp.Quotes[0].Charges.Total)
	assert.Equal(t, "100.00", resp.Quotes[0].Base.Total)
	assert.Equal(t, "air", resp.Quotes[0].Mode)
	assert.Equal(t, []CarrierFailure{{Carrier: 2, Error: "timeout"}}, resp.Failures)
	f.rater.AssertExpectations(t)
}

func TestServer_RateShipment_RequestOverridesStrictness(t *testing.T) {
	f := newFixture()
	f.rater.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.RateShipmentQuery) bool {
		return !q.Request().StrictDangerousGoods
	})).Return(queries.RateShipmentQueryResponse{}, nil)

	body := strings.Replace(rateBody, `"modes"`, `"strict_dangerous_goods": false, "modes"`, 1)
	rec := f.do(http.MethodPost, "/api/v1/rates", body)

	assert.Equal(t, http.StatusOK, rec.Code)
	f.rater.AssertExpectations(t)
}

func TestServer_RateShipment_MalformedFields(t *testing.T) {
	f := newFixture()
	body := strings.Replace(rateBody, `"air"`, `"rail"`, 1)
	body = strings.Replace(body, `"2026-03-02"`, `"02/03/2026"`, 1)

	rec := f.do(http.MethodPost, "/api/v1/rates", body)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decode[Error](t, rec)
	assert.Equal(t, "invalid_request", resp.Message)
	assert.Equal(t, []FieldError{
		{Path: "modes", Message: `unknown mode "rail"`},
		{Path: "pickup_date", Message: "must be YYYY-MM-DD"},
	}, resp.Fields)
	f.rater.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestServer_RateShipment_InvalidJSON(t *testing.T) {
	f := newFixture()

	rec := f.do(http.MethodPost, "/api/v1/rates", `{"packages": "nope"`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", errs.NewFieldValidationError("missing_packages", "packages", "at least one package is required"), http.StatusBadRequest},
		{"value required", errs.NewValueIsRequiredError("city"), http.StatusBadRequest},
		{"compliance", errs.NewComplianceError(1230, "forbidden on air"), http.StatusUnprocessableEntity},
		{"dispatch", errs.NewCarrierDispatchError(1, "main", io.ErrUnexpectedEOF), http.StatusBadGateway},
		{"not found", errs.NewObjectNotFoundError("package type", "PALLET"), http.StatusNotFound},
		{"unexpected", io.ErrClosedPipe, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.rater.On("Handle", mock.Anything, mock.Anything).Return(queries.RateShipmentQueryResponse{}, tt.err)

			rec := f.do(http.MethodPost, "/api/v1/rates", rateBody)

			require.Equal(t, tt.status, rec.Code)
			resp := decode[Error](t, rec)
			assert.Equal(t, tt.status, resp.Code)
			if tt.status == http.StatusInternalServerError {
				assert.Empty(t, resp.Reason)
			} else {
				assert.Equal(t, tt.err.Error(), resp.Reason)
			}
		})
	}
}

func bookedShipment(t *testing.T) *shipment.Shipment {
	t.Helper()
	origin := kernel.Address{City: "Montreal", Province: "QC", Country: "CA"}
	destination := kernel.Address{City: "Iqaluit", Province: "NU", Country: "CA"}

	leg, err := shipment.NewLeg(kernel.NewUUID(), shipment.LegRequest{
		Role:        shipment.Main,
		Carrier:     1,
		Service:     "STD",
		Origin:      origin,
		Destination: destination,
	})
	require.NoError(t, err)
	require.NoError(t, leg.Book(shipment.LegResult{
		Charges:        shipment.Charges{Total: decimal.RequireFromString("115")},
		Base:           shipment.Charges{Total: decimal.RequireFromString("100")},
		Multiplier:     decimal.RequireFromString("1.15"),
		TransitDays:    2,
		TrackingNumber: "TRK-1",
	}))
	require.NoError(t, leg.Schedule(
		time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC),
	))

	agg, err := shipment.NewShipment(kernel.NewUUID(), "acct-1", "direct",
		origin, destination, true, []*shipment.Leg{leg}, time.Now())
	require.NoError(t, err)
	agg.SetTotals(shipment.Totals{Cost: decimal.RequireFromString("100"), Total: decimal.RequireFromString("115")})
	return agg
}

func TestServer_BookShipment(t *testing.T) {
	f := newFixture()
	agg := bookedShipment(t)
	f.booker.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.BookShipmentCommand) bool {
		return cmd.Selection().MainCarrier == 1 && cmd.Selection().Service == "STD"
	})).Return(commands.BookShipmentResult{
		Shipment: agg,
		Documents: []dangerousgoods.RenderedDocument{{
			Document:    dangerousgoods.Document{Kind: dangerousgoods.Declaration, Title: "Shipper's Declaration"},
			ContentType: "text/plain",
			Content:     []byte("UN1230"),
		}},
	}, nil)

	body := strings.Replace(rateBody, `"modes"`, `"main_carrier": 1, "service": " STD ", "modes"`, 1)
	rec := f.do(http.MethodPost, "/api/v1/shipments", body)

	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decode[Shipment](t, rec)
	assert.Equal(t, agg.ID().Bytes(), resp.ID)
	assert.Equal(t, "115.00", resp.Totals.Total)
	assert.Equal(t, "100.00", resp.Totals.Cost)
	require.Len(t, resp.Legs, 1)
	assert.Equal(t, "main", resp.Legs[0].Role)
	assert.Equal(t, "Booked", resp.Legs[0].Status)
	assert.Equal(t, "2026-03-02", resp.Legs[0].PickupDate)
	assert.Equal(t, "2026-03-04", resp.Legs[0].DeliveryDate)
	require.Len(t, resp.Documents, 1)
	assert.Equal(t, "declaration", resp.Documents[0].Kind)
	assert.Equal(t, []byte("UN1230"), resp.Documents[0].Content)
	assert.Contains(t, rec.Body.String(), `"content":"VU4xMjMw"`)
}

func TestServer_BookShipment_InvalidSelection(t *testing.T) {
	f := newFixture()

	rec := f.do(http.MethodPost, "/api/v1/shipments", rateBody)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	f.booker.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestServer_GetShipment(t *testing.T) {
	f := newFixture()
	id := kernel.NewUUID()
	f.reader.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.GetShipmentQuery) bool {
		return q.ShipmentID().IsEqual(id)
	})).Return(queries.GetShipmentQueryResponse{
		ID:        id,
		AccountID: "acct-1",
		Strategy:  "direct",
		Legs: []queries.LegView{{
			ID:         kernel.NewUUID(),
			Role:       shipment.Delivery,
			Carrier:    4,
			Status:     shipment.OnHold,
			Total:      decimal.RequireFromString("40"),
			BaseTotal:  decimal.RequireFromString("40"),
			Multiplier: decimal.RequireFromString("1"),
			HoldReason: "manual booking required",
		}},
	}, nil)

	rec := f.do(http.MethodGet, "/api/v1/shipments/"+id.String(), "")

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[Shipment](t, rec)
	require.Len(t, resp.Legs, 1)
	assert.Equal(t, "OnHold", resp.Legs[0].Status)
	assert.Equal(t, "delivery", resp.Legs[0].Role)
	assert.Empty(t, resp.Legs[0].PickupDate)
}

func TestServer_GetShipment_NotFound(t *testing.T) {
	f := newFixture()
	f.reader.On("Handle", mock.Anything, mock.Anything).
		Return(queries.GetShipmentQueryResponse{}, errs.NewObjectNotFoundError("shipment", "x"))

	rec := f.do(http.MethodGet, "/api/v1/shipments/"+kernel.NewUUID().String(), "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_GetShipment_BadID(t *testing.T) {
	f := newFixture()

	rec := f.do(http.MethodGet, "/api/v1/shipments/not-a-uuid", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_GetLegsOnHold(t *testing.T) {
	f := newFixture()
	f.onHold.On("Handle", mock.Anything, mock.Anything).Return([]queries.GetLegsOnHoldQueryResponse{{
		LegID:      kernel.NewUUID(),
		ShipmentID: kernel.NewUUID(),
		AccountID:  "acct-1",
		Role:       shipment.Pickup,
		Carrier:    9,
		HoldReason: "sealift leg is booked by an operator",
	}}, nil)

	rec := f.do(http.MethodGet, "/api/v1/legs/on-hold", "")

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[[]LegOnHold](t, rec)
	require.Len(t, resp, 1)
	assert.Equal(t, "pickup", resp[0].Role)
	assert.Equal(t, 9, resp[0].Carrier)
}

func TestServer_LoadWaybills(t *testing.T) {
	f := newFixture()
	f.waybills.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.LoadWaybillsCommand) bool {
		return cmd.CarrierCode() == 7 && assert.ObjectsAreEqual([]string{"WB-1", "WB-2"}, cmd.Waybills())
	})).Return(int64(1), nil)

	rec := f.do(http.MethodPost, "/api/v1/carriers/7/waybills", `{"waybills": ["WB-1", " WB-2 ", "WB-1", ""]}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, WaybillBatchResult{Carrier: 7, Submitted: 2, Added: 1}, decode[WaybillBatchResult](t, rec))
}

func TestServer_LoadWaybills_Rejected(t *testing.T) {
	tests := []struct {
		name   string
		target string
		body   string
	}{
		{"non numeric code", "/api/v1/carriers/abc/waybills", `{"waybills": ["WB-1"]}`},
		{"zero code", "/api/v1/carriers/0/waybills", `{"waybills": ["WB-1"]}`},
		{"empty batch", "/api/v1/carriers/7/waybills", `{"waybills": [" "]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()

			rec := f.do(http.MethodPost, tt.target, tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			f.waybills.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
		})
	}
}
