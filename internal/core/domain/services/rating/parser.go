package rating

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"freight/internal/core/domain/model/carrier"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/shipment"
	"freight/internal/core/domain/services/compliance"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Config holds the region and carrier lists the filters consult.
type Config struct {
	// NorthernProvinces are province codes treated as remote in their entirety.
	NorthernProvinces []string
	// RemotePostalPrefixes mark remote pockets of otherwise southern provinces.
	RemotePostalPrefixes []string
	// OptionExemptCarriers skip the carrier-option filter.
	OptionExemptCarriers carrier.Candidates
}

type Parser struct {
	cfg             Config
	catalog         ports.CarrierCatalog
	cities          ports.CityAliasRepository
	packageTypes    ports.PackageTypeRepository
	classifications ports.ClassificationRepository
}

func NewParser(
	cfg Config,
	catalog ports.CarrierCatalog,
	cities ports.CityAliasRepository,
	packageTypes ports.PackageTypeRepository,
	classifications ports.ClassificationRepository,
) *Parser {
	cfg.NorthernProvinces = upper(cfg.NorthernProvinces)
	cfg.RemotePostalPrefixes = upper(cfg.RemotePostalPrefixes)
	return &Parser{
		cfg:             cfg,
		catalog:         catalog,
		cities:          cities,
		packageTypes:    packageTypes,
		classifications: classifications,
	}
}

// Parse validates req and returns a normalized copy whose Carriers field holds
// the surviving candidates. An empty result set is not an error.
func (p *Parser) Parse(ctx context.Context, req shipment.Request) (shipment.Request, carrier.Catalog, error) {
	if err := req.Validate(); err != nil {
		return shipment.Request{}, carrier.Catalog{}, err
	}

	catalog, err := p.catalog.Catalog(ctx)
	if err != nil {
		return shipment.Request{}, carrier.Catalog{}, fmt.Errorf("load carrier catalog: %w", err)
	}

	out := req.Clone()
	if len(out.Carriers) == 0 {
		out.Carriers = catalog.Codes()
	} else {
		out.Carriers = carrier.NewCandidates(out.Carriers...).Intersect(catalog.Codes())
	}

	p.filterModes(catalog, &out)

	if err = p.filterAddresses(ctx, catalog, &out); err != nil {
		return shipment.Request{}, carrier.Catalog{}, err
	}
	if err = p.filterPackages(ctx, catalog, &out); err != nil {
		return shipment.Request{}, carrier.Catalog{}, err
	}

	p.filterTotalWeight(catalog, &out)
	p.filterOptions(catalog, &out)
	p.filterDangerousGoods(catalog, &out)

	return out, catalog, nil
}

func (p *Parser) filterModes(catalog carrier.Catalog, req *shipment.Request) {
	req.Carriers = req.Carriers.Filter(func(code int) bool {
		c, _ := catalog.Get(code)
		return req.WantsMode(c.Mode())
	})
}

func (p *Parser) filterAddresses(ctx context.Context, catalog carrier.Catalog, req *shipment.Request) error {
	var err error
	if req.Origin, err = p.resolve(ctx, req.Origin); err != nil {
		return err
	}
	if req.Destination, err = p.resolve(ctx, req.Destination); err != nil {
		return err
	}

	req.IsInternational = !req.Origin.SameCountry(req.Destination)
	req.IsRemote = p.isRemote(req.Origin) || p.isRemote(req.Destination)

	if !req.IsInternational && !req.IsRemote {
		req.Carriers = req.Carriers.Filter(func(code int) bool {
			c, _ := catalog.Get(code)
			return !c.IsRemoteOnly()
		})
	}
	return nil
}

func (p *Parser) resolve(ctx context.Context, addr kernel.Address) (kernel.Address, error) {
	addr = addr.Normalize()
	city, err := p.cities.Canonical(ctx, addr.Country, addr.Province, addr.City)
	if err != nil {
		return kernel.Address{}, fmt.Errorf("resolve city alias: %w", err)
	}
	if city != "" {
		addr.City = city
	}
	return addr, nil
}

func (p *Parser) isRemote(addr kernel.Address) bool {
	if slices.Contains(p.cfg.NorthernProvinces, addr.Province) {
		return true
	}
	return slices.ContainsFunc(p.cfg.RemotePostalPrefixes, addr.HasPostalPrefix)
}

func (p *Parser) filterPackages(ctx context.Context, catalog carrier.Catalog, req *shipment.Request) error {
	var missingTypes, badSizes []errs.FieldError
	totalKG, totalM3 := decimal.Zero, decimal.Zero

	for i := range req.Packages {
		pkg := &req.Packages[i]
		path := fmt.Sprintf("packages[%d]", i)

		pkg.PackageType = shipment.NormalizePackageTypeCode(pkg.PackageType)
		pt, err := p.packageTypes.Get(ctx, req.Account.ID, pkg.PackageType)
		switch {
		case errors.Is(err, errs.ErrObjectNotFound):
			missingTypes = append(missingTypes, errs.FieldError{
				Path:    path + ".package_type",
				Message: fmt.Sprintf("%s is not in the account catalog", pkg.PackageType),
			})
			continue
		case err != nil:
			return fmt.Errorf("load package type %s: %w", pkg.PackageType, err)
		}
		pkg.Packaging = pt.Packaging

		dims, err := kernel.NewDimensions(pkg.Length, pkg.Width, pkg.Height, pkg.Weight, req.Account.IsMetric)
		if err != nil {
			badSizes = append(badSizes, errs.FieldError{Path: path, Message: err.Error()})
			continue
		}
		pkg.Dimensions = dims

		pieces := decimal.NewFromInt(int64(pkg.Pieces()))
		totalKG = totalKG.Add(dims.WeightKG().Mul(pieces))
		totalM3 = totalM3.Add(dims.VolumeM3().Mul(pieces))

		if pkg.DangerousGood != nil {
			if err = p.attachClassification(ctx, path, pkg.DangerousGood); err != nil {
				return err
			}
		}

		req.Carriers = req.Carriers.Filter(func(code int) bool {
			c, _ := catalog.Get(code)
			return c.AcceptsPackage(dims.WeightKG(), dims.LongestSideCM())
		})
		if len(pt.AllowedCarriers) > 0 {
			req.Carriers = req.Carriers.Intersect(pt.AllowedCarriers)
		}
	}

	if len(missingTypes) > 0 {
		return errs.NewValidationError("package_type_not_found", missingTypes...)
	}
	if len(badSizes) > 0 {
		return errs.NewValidationError("invalid_dimensions", badSizes...)
	}

	req.TotalWeightKG = totalKG
	req.TotalVolumeM3 = totalM3
	return nil
}

// attachClassification refuses radioactive entries before the lookup; they carry
// no reference record.
func (p *Parser) attachClassification(ctx context.Context, path string, dg *shipment.DangerousGood) error {
	if compliance.IsRadioactive(dg.UNNumber) {
		return errs.NewComplianceError(dg.UNNumber, "radioactive material is not accepted")
	}

	key := dg.Key()
	dg.PackingGroup = key.PackingGroup
	dg.ProperShippingName = key.ProperShippingName

	cls, err := p.classifications.Find(ctx, key)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return errs.NewFieldValidationError("dangerous_good_not_found", path+".dangerous_good",
			"no classification for %s", key)
	}
	if err != nil {
		return fmt.Errorf("load classification %s: %w", key, err)
	}
	dg.Classification = &cls
	return nil
}

func (p *Parser) filterTotalWeight(catalog carrier.Catalog, req *shipment.Request) {
	totalLB := kernel.KilogramsToPounds(req.TotalWeightKG)
	req.Carriers = req.Carriers.Filter(func(code int) bool {
		c, _ := catalog.Get(code)
		return c.AcceptsShipmentWeight(req.TotalWeightKG, totalLB)
	})
}

func (p *Parser) filterOptions(catalog carrier.Catalog, req *shipment.Request) {
	if len(req.Options) == 0 {
		return
	}
	req.Carriers = req.Carriers.Filter(func(code int) bool {
		if p.cfg.OptionExemptCarriers.Contains(code) {
			return true
		}
		c, _ := catalog.Get(code)
		for _, o := range req.Options {
			if !c.SupportsOption(o) {
				return false
			}
		}
		return true
	})
}

func (p *Parser) filterDangerousGoods(catalog carrier.Catalog, req *shipment.Request) {
	if !req.HasDangerousGoods() {
		return
	}
	req.Dangerous = true
	req.Carriers = req.Carriers.Filter(func(code int) bool {
		c, _ := catalog.Get(code)
		return c.HandlesDangerousGoods()
	})
}

func upper(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.ToUpper(strings.TrimSpace(v)); v != "" {
			out = append(out, v)
		}
	}
	return out
}
