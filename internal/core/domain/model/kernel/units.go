package kernel

import (
	"errors"

	"freight/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var (
	kilogramsPerPound     = decimal.RequireFromString("0.45359237")
	centimetersPerInch    = decimal.RequireFromString("2.54")
	cubicCentimetersPerM3 = decimal.NewFromInt(1_000_000)
)

func PoundsToKilograms(lb decimal.Decimal) decimal.Decimal {
	return lb.Mul(kilogramsPerPound)
}

func KilogramsToPounds(kg decimal.Decimal) decimal.Decimal {
	return kg.Div(kilogramsPerPound)
}

func InchesToCentimeters(in decimal.Decimal) decimal.Decimal {
	return in.Mul(centimetersPerInch)
}

func CentimetersToInches(cm decimal.Decimal) decimal.Decimal {
	return cm.Div(centimetersPerInch)
}

// Dimensions holds one package's measurements in centimetres and kilograms.
// Imperial values are derived on read.
type Dimensions struct {
	lengthCM decimal.Decimal
	widthCM  decimal.Decimal
	heightCM decimal.Decimal
	weightKG decimal.Decimal
}

// NewDimensions builds Dimensions from declared values. When metric is false the
// values are read as inches and pounds and converted.
func NewDimensions(length, width, height, weight decimal.Decimal, metric bool) (Dimensions, error) {
	if err := errors.Join(
		positive("length", length),
		positive("width", width),
		positive("height", height),
		positive("weight", weight),
	); err != nil {
		return Dimensions{}, err
	}

	if !metric {
		length = InchesToCentimeters(length)
		width = InchesToCentimeters(width)
		height = InchesToCentimeters(height)
		weight = PoundsToKilograms(weight)
	}

	return Dimensions{lengthCM: length, widthCM: width, heightCM: height, weightKG: weight}, nil
}

func (d Dimensions) LengthCM() decimal.Decimal { return d.lengthCM }
func (d Dimensions) WidthCM() decimal.Decimal  { return d.widthCM }
func (d Dimensions) HeightCM() decimal.Decimal { return d.heightCM }
func (d Dimensions) WeightKG() decimal.Decimal { return d.weightKG }

func (d Dimensions) WeightLB() decimal.Decimal {
	return KilogramsToPounds(d.weightKG)
}

// LongestSideCM is the largest of length, width and height.
func (d Dimensions) LongestSideCM() decimal.Decimal {
	return decimal.Max(d.lengthCM, d.widthCM, d.heightCM)
}

func (d Dimensions) VolumeM3() decimal.Decimal {
	return d.lengthCM.Mul(d.widthCM).Mul(d.heightCM).Div(cubicCentimetersPerM3)
}

func (d Dimensions) IsZero() bool {
	return d.weightKG.IsZero() && d.lengthCM.IsZero()
}

func positive(name string, v decimal.Decimal) error {
	if !v.IsPositive() {
		return errs.NewValueIsOutOfRangeError(name, v.String(), "0 (exclusive)", "unbounded")
	}
	return nil
}
