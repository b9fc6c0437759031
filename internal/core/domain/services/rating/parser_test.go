package rating_test

import (
	"context"
	"testing"

	"freight/internal/core/domain/model/carrier"
	"freight/internal/core/domain/model/dangerousgoods"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/shipment"
	"freight/internal/core/domain/services/rating"
	"freight/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCarrierCatalog struct{ mock.Mock }

func (m *MockCarrierCatalog) Catalog(ctx context.Context) (carrier.Catalog, error) {
	args := m.Called(ctx)
	return args.Get(0).(carrier.Catalog), args.Error(1)
}

type MockCityAliasRepository struct{ mock.Mock }

func (m *MockCityAliasRepository) Canonical(ctx context.Context, country, province, city string) (string, error) {
	args := m.Called(ctx, country, province, city)
	return args.String(0), args.Error(1)
}

type MockPackageTypeRepository struct{ mock.Mock }

func (m *MockPackageTypeRepository) Get(ctx context.Context, accountID, code string) (shipment.PackageType, error) {
	args := m.Called(ctx, accountID, code)
	return args.Get(0).(shipment.PackageType), args.Error(1)
}

type MockClassificationRepository struct{ mock.Mock }

func (m *MockClassificationRepository) Find(
	ctx context.Context,
	key dangerousgoods.Key,
) (dangerousgoods.Classification, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(dangerousgoods.Classification), args.Error(1)
}

const (
	airDG        = 1
	courierNorth = 2
	ltlDG        = 3
	ftlPlain     = 4
	sealiftDG    = 5
)

type fixture struct {
	catalog         *MockCarrierCatalog
	cities          *MockCityAliasRepository
	packageTypes    *MockPackageTypeRepository
	classifications *MockClassificationRepository
	parser          *rating.Parser
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	mustCarrier := func(code int, mode carrier.Mode, caps carrier.Capabilities, limits carrier.Limits) *carrier.Carrier {
		c, err := carrier.NewCarrier(code, "carrier", mode, caps, limits)
		require.NoError(t, err)
		return c
	}
	catalog := carrier.NewCatalog(
		mustCarrier(airDG, carrier.Air,
			carrier.Capabilities{DangerousGoods: true, Options: []string{"tailgate"}},
			carrier.Limits{MaxPackageWeightKG: decimal.NewFromInt(30)}),
		mustCarrier(courierNorth, carrier.Courier,
			carrier.Capabilities{RemoteOnly: true}, carrier.Limits{}),
		mustCarrier(ltlDG, carrier.LTL,
			carrier.Capabilities{DangerousGoods: true, Options: []string{"TAILGATE", "APPOINTMENT"}},
			carrier.Limits{MaxShipmentWeightKG: decimal.NewFromInt(100)}),
		mustCarrier(ftlPlain, carrier.FTL, carrier.Capabilities{}, carrier.Limits{}),
		mustCarrier(sealiftDG, carrier.Sealift, carrier.Capabilities{DangerousGoods: true}, carrier.Limits{}),
	)

	f := &fixture{
		catalog:         new(MockCarrierCatalog),
		cities:          new(MockCityAliasRepository),
		packageTypes:    new(MockPackageTypeRepository),
		classifications: new(MockClassificationRepository),
	}
	f.catalog.On("Catalog", mock.Anything).Return(catalog, nil)
	f.cities.On("Canonical", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", nil)
	f.packageTypes.On("Get", mock.Anything, "acct-1", "BOX").
		Return(shipment.PackageType{Code: "BOX", Packaging: "BOX"}, nil)

	f.parser = rating.NewParser(rating.Config{
		NorthernProvinces:    []string{"nu", "NT", "YT"},
		RemotePostalPrefixes: []string{"P0V"},
		OptionExemptCarriers: carrier.NewCandidates(ftlPlain),
	}, f.catalog, f.cities, f.packageTypes, f.classifications)
	return f
}

func baseRequest() shipment.Request {
	return shipment.Request{
		Account:     shipment.Account{ID: "acct-1", IsMetric: true},
		Origin:      kernel.Address{City: "Toronto", Province: "on", Country: "ca", PostalCode: "m5v 2t6"},
		Destination: kernel.Address{City: "Montreal", Province: "QC", Country: "CA"},
		Packages: []shipment.Package{{
			PackageType: " box ",
			Quantity:    2,
			Length:      decimal.NewFromInt(50),
			Width:       decimal.NewFromInt(40),
			Height:      decimal.NewFromInt(30),
			Weight:      decimal.NewFromInt(10),
		}},
	}
}

func TestParser_Parse(t *testing.T) {
	t.Run("starts from the full catalog and normalizes the request", func(t *testing.T) {
		f := newFixture(t)

		out, catalog, err := f.parser.Parse(t.Context(), baseRequest())

		require.NoError(t, err)
		assert.Equal(t, 5, catalog.Len())
		assert.Equal(t, carrier.NewCandidates(airDG, ltlDG, ftlPlain, sealiftDG), out.Carriers)
		assert.Equal(t, "ON", out.Origin.Province)
		assert.Equal(t, "M5V2T6", out.Origin.PostalCode)
		assert.Equal(t, "BOX", out.Packages[0].PackageType)
		assert.Equal(t, "BOX", out.Packages[0].Packaging)
		assert.True(t, decimal.NewFromInt(20).Equal(out.TotalWeightKG))
		assert.True(t, decimal.RequireFromString("0.12").Equal(out.TotalVolumeM3))
		assert.False(t, out.IsInternational)
		assert.False(t, out.IsRemote)
	})

	t.Run("mode filter keeps only requested modes", func(t *testing.T) {
		f := newFixture(t)
		req := baseRequest()
		req.Modes = []carrier.Mode{carrier.LTL, carrier.Courier}

		out, _, err := f.parser.Parse(t.Context(), req)

		require.NoError(t, err)
		assert.Equal(t, carrier.NewCandidates(ltlDG), out.Carriers)
	})

	t.Run("explicit carriers are intersected with the catalog", func(t *testing.T) {
		f := newFixture(t)
		req := baseRequest()
		req.Carriers = carrier.Candidates{99, ftlPlain, airDG}

		out, _, err := f.parser.Parse(t.Context(), req)

		require.NoError(t, err)
		assert.Equal(t, carrier.NewCandidates(airDG, ftlPlain), out.Carriers)
	})

	t.Run("city aliases resolve to the canonical name", func(t *testing.T) {
		f := newFixture(t)
		f.cities.ExpectedCalls = nil
		f.cities.On("Canonical", mock.Anything, "CA", "QC", "Montreal").Return("Montréal", nil)
		f.cities.On("Canonical", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", nil)

		out, _, err := f.parser.Parse(t.Context(), baseRequest())

		require.NoError(t, err)
		assert.Equal(t, "Montréal", out.Destination.City)
		assert.Equal(t, "Toronto", out.Origin.City)
	})
}

func TestParser_Remote(t *testing.T) {
	tests := []struct {
		name          string
		destination   kernel.Address
		remote        bool
		international bool
		keepsCourier  bool
	}{
		{
			name:        "southern domestic drops remote-only carriers",
			destination: kernel.Address{City: "Montreal", Province: "QC", Country: "CA"},
		},
		{
			name:         "northern province is remote",
			destination:  kernel.Address{City: "Iqaluit", Province: "NU", Country: "CA"},
			remote:       true,
			keepsCourier: true,
		},
		{
			name:         "postal prefix carve-out is remote",
			destination:  kernel.Address{City: "Moosonee", Province: "ON", Country: "CA", PostalCode: "p0v 1a0"},
			remote:       true,
			keepsCourier: true,
		},
		{
			name:          "international keeps remote-only carriers",
			destination:   kernel.Address{City: "Buffalo", Province: "NY", Country: "US"},
			international: true,
			keepsCourier:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			req := baseRequest()
			req.Destination = tt.destination

			out, _, err := f.parser.Parse(t.Context(), req)

			require.NoError(t, err)
			assert.Equal(t, tt.remote, out.IsRemote)
			assert.Equal(t, tt.international, out.IsInternational)
			assert.Equal(t, tt.keepsCourier, out.Carriers.Contains(courierNorth))
		})
	}
}

func TestParser_Packages(t *testing.T) {
	t.Run("unknown package types are reported together", func(t *testing.T) {
		f := newFixture(t)
		f.packageTypes.On("Get", mock.Anything, "acct-1", mock.Anything).
			Return(shipment.PackageType{}, errs.NewObjectNotFoundError("package_type", "x"))
		req := baseRequest()
		req.Packages = append(req.Packages, req.Packages[0], req.Packages[0])
		req.Packages[0].PackageType = "CRATE"
		req.Packages[2].PackageType = "PALLET"

		_, _, err := f.parser.Parse(t.Context(), req)

		var validationErr *errs.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "package_type_not_found", validationErr.Code)
		require.Len(t, validationErr.Fields, 2)
		assert.Equal(t, "packages[0].package_type", validationErr.Fields[0].Path)
		assert.Equal(t, "packages[2].package_type", validationErr.Fields[1].Path)
	})

	t.Run("per-package weight limit drops the carrier", func(t *testing.T) {
		f := newFixture(t)
		req := baseRequest()
		req.Packages[0].Quantity = 1
		req.Packages[0].Weight = decimal.NewFromInt(31)

		out, _, err := f.parser.Parse(t.Context(), req)

		require.NoError(t, err)
		assert.False(t, out.Carriers.Contains(airDG))
		assert.True(t, out.Carriers.Contains(ltlDG))
	})

	t.Run("allowed carriers intersect across packages", func(t *testing.T) {
		f := newFixture(t)
		f.packageTypes.On("Get", mock.Anything, "acct-1", "DRUM").
			Return(shipment.PackageType{Code: "DRUM", AllowedCarriers: carrier.NewCandidates(ltlDG, ftlPlain)}, nil)
		f.packageTypes.On("Get", mock.Anything, "acct-1", "TOTE").
			Return(shipment.PackageType{Code: "TOTE", AllowedCarriers: carrier.NewCandidates(ftlPlain, sealiftDG)}, nil)
		req := baseRequest()
		req.Packages = append(req.Packages, req.Packages[0], req.Packages[0])
		req.Packages[1].PackageType = "DRUM"
		req.Packages[2].PackageType = "TOTE"

		out, _, err := f.parser.Parse(t.Context(), req)

		require.NoError(t, err)
		assert.Equal(t, carrier.NewCandidates(ftlPlain), out.Carriers)
	})

	t.Run("imperial input is converted", func(t *testing.T) {
		f := newFixture(t)
		req := baseRequest()
		req.Account.IsMetric = false
		req.Packages[0].Quantity = 1
		req.Packages[0].Weight = decimal.NewFromInt(10)

		out, _, err := f.parser.Parse(t.Context(), req)

		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("4.5359237").Equal(out.TotalWeightKG), out.TotalWeightKG.String())
		assert.True(t, decimal.RequireFromString("127").Equal(out.Packages[0].Dimensions.LengthCM()))
	})

	t.Run("shipment weight ceiling drops the carrier", func(t *testing.T) {
		f := newFixture(t)
		req := baseRequest()
		req.Packages[0].Quantity = 11

		out, _, err := f.parser.Parse(t.Context(), req)

		require.NoError(t, err)
		assert.False(t, out.Carriers.Contains(ltlDG), "110 kg exceeds the 100 kg ceiling")
		assert.True(t, out.Carriers.Contains(ftlPlain))
	})
}

func TestParser_Options(t *testing.T) {
	f := newFixture(t)
	req := baseRequest()
	req.Options = []string{"Tailgate"}

	out, _, err := f.parser.Parse(t.Context(), req)

	require.NoError(t, err)
	assert.Equal(t, carrier.NewCandidates(airDG, ltlDG, ftlPlain), out.Carriers)
}

func TestParser_DangerousGoods(t *testing.T) {
	key := dangerousgoods.NewKey(1234, "II", "Methanol")

	t.Run("keeps only dangerous goods carriers and attaches the record", func(t *testing.T) {
		f := newFixture(t)
		f.classifications.On("Find", mock.Anything, key).
			Return(dangerousgoods.Classification{Key: key, ClassDivision: "3"}, nil)
		req := baseRequest()
		req.Packages[0].DangerousGood = &shipment.DangerousGood{
			UNNumber: 1234, PackingGroup: "ii", ProperShippingName: "methanol", Quantity: decimal.NewFromInt(1),
		}

		out, _, err := f.parser.Parse(t.Context(), req)

		require.NoError(t, err)
		assert.True(t, out.Dangerous)
		assert.Equal(t, carrier.NewCandidates(airDG, ltlDG, sealiftDG), out.Carriers)
		require.NotNil(t, out.Packages[0].DangerousGood.Classification)
		assert.Nil(t, req.Packages[0].DangerousGood.Classification)
	})

	t.Run("dangerous flag alone narrows the set", func(t *testing.T) {
		f := newFixture(t)
		req := baseRequest()
		req.Dangerous = true

		out, _, err := f.parser.Parse(t.Context(), req)

		require.NoError(t, err)
		assert.Equal(t, carrier.NewCandidates(airDG, ltlDG, sealiftDG), out.Carriers)
	})

	t.Run("missing classification names the triple", func(t *testing.T) {
		f := newFixture(t)
		f.classifications.On("Find", mock.Anything, key).
			Return(dangerousgoods.Classification{}, errs.NewObjectNotFoundError("classification", key))
		req := baseRequest()
		req.Packages[0].DangerousGood = &shipment.DangerousGood{
			UNNumber: 1234, PackingGroup: "II", ProperShippingName: "Methanol", Quantity: decimal.NewFromInt(1),
		}

		_, _, err := f.parser.Parse(t.Context(), req)

		var validationErr *errs.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "dangerous_good_not_found", validationErr.Code)
		assert.Equal(t, "packages[0].dangerous_good", validationErr.Fields[0].Path)
		assert.Contains(t, validationErr.Fields[0].Message, "UN1234/II/METHANOL")
	})

	t.Run("radioactive material is refused without a lookup", func(t *testing.T) {
		f := newFixture(t)
		req := baseRequest()
		req.Packages[0].DangerousGood = &shipment.DangerousGood{
			UNNumber: 2915, PackingGroup: "I", ProperShippingName: "Radioactive material", Quantity: decimal.NewFromInt(1),
		}

		_, _, err := f.parser.Parse(t.Context(), req)

		var complianceErr *errs.ComplianceError
		require.ErrorAs(t, err, &complianceErr)
		assert.Equal(t, 2915, complianceErr.UNNumber)
		f.classifications.AssertNotCalled(t, "Find", mock.Anything, mock.Anything)
	})
}

func TestParser_InvalidRequest(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.parser.Parse(t.Context(), shipment.Request{})

	var validationErr *errs.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "invalid_request", validationErr.Code)
	f.catalog.AssertNotCalled(t, "Catalog", mock.Anything)
}
