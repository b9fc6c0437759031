package carrier_test

import (
	"testing"

	"freight/internal/core/domain/model/carrier"
	"freight/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCarrier(t *testing.T) {
	t.Run("valid carrier normalizes options", func(t *testing.T) {
		c, err := carrier.NewCarrier(12, " Polar Air ", carrier.Air,
			carrier.Capabilities{DangerousGoods: true, Options: []string{"tailgate", " APPT ", "TAILGATE", ""}},
			carrier.Limits{MaxPackageWeightKG: decimal.NewFromInt(70)},
		)

		require.NoError(t, err)
		require.NoError(t, c.Validate())
		assert.Equal(t, 12, c.Code())
		assert.Equal(t, "Polar Air", c.Name())
		assert.Equal(t, carrier.Air, c.Mode())
		assert.True(t, c.HandlesDangerousGoods())
		assert.Equal(t, []string{"APPT", "TAILGATE"}, c.Options())
		assert.True(t, c.SupportsOption("appt"))
		assert.False(t, c.SupportsOption("LIFTGATE"))
	})

	t.Run("invalid input is reported together", func(t *testing.T) {
		_, err := carrier.NewCarrier(0, "", carrier.UnknownMode, carrier.Capabilities{},
			carrier.Limits{MaxShipmentWeightKG: decimal.NewFromInt(-1)})

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("zero value is not constructed", func(t *testing.T) {
		var c carrier.Carrier
		require.ErrorIs(t, c.Validate(), carrier.ErrCarrierIsNotConstructed)
	})
}

func TestCarrier_Limits(t *testing.T) {
	c, err := carrier.NewCarrier(3, "Parcel Express", carrier.Courier, carrier.Capabilities{}, carrier.Limits{
		MaxPackageWeightKG:  decimal.NewFromInt(30),
		MaxPackageLengthCM:  decimal.NewFromInt(150),
		MaxShipmentWeightKG: decimal.NewFromInt(70),
		MaxShipmentWeightLB: decimal.NewFromInt(150),
	})
	require.NoError(t, err)

	t.Run("package at the limit is accepted", func(t *testing.T) {
		assert.True(t, c.AcceptsPackage(decimal.NewFromInt(30), decimal.NewFromInt(150)))
	})

	t.Run("package above either limit is rejected", func(t *testing.T) {
		assert.False(t, c.AcceptsPackage(decimal.NewFromFloat(30.1), decimal.NewFromInt(10)))
		assert.False(t, c.AcceptsPackage(decimal.NewFromInt(1), decimal.NewFromInt(151)))
	})

	t.Run("either shipment ceiling rejects", func(t *testing.T) {
		assert.True(t, c.AcceptsShipmentWeight(decimal.NewFromInt(68), decimal.NewFromInt(149)))
		assert.False(t, c.AcceptsShipmentWeight(decimal.NewFromInt(71), decimal.NewFromInt(10)))
		assert.False(t, c.AcceptsShipmentWeight(decimal.NewFromInt(60), decimal.NewFromInt(151)))
	})

	t.Run("zero limits mean unlimited", func(t *testing.T) {
		ltl, err := carrier.NewCarrier(9, "Line Haul", carrier.LTL, carrier.Capabilities{}, carrier.Limits{})
		require.NoError(t, err)

		assert.True(t, ltl.AcceptsPackage(decimal.NewFromInt(5000), decimal.NewFromInt(1200)))
		assert.True(t, ltl.AcceptsShipmentWeight(decimal.NewFromInt(20000), decimal.NewFromInt(44000)))
	})
}

func TestMode(t *testing.T) {
	m, err := carrier.ParseMode(" Sealift ")
	require.NoError(t, err)
	assert.Equal(t, carrier.Sealift, m)
	assert.Equal(t, "sealift", m.String())

	_, err = carrier.ParseMode("rail")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	assert.True(t, carrier.Air.IsAir())
	assert.False(t, carrier.FTL.IsAir())
	require.Error(t, carrier.Mode(42).Validate())
	assert.Equal(t, "unknown", carrier.Mode(42).String())
	assert.Len(t, carrier.AllModes(), 5)
}
