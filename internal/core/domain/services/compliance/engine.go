package compliance

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"freight/internal/core/domain/model/carrier"
	"freight/internal/core/domain/model/dangerousgoods"
	"freight/internal/core/domain/model/shipment"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"
)

// Outcome records how one dangerous package was classified.
type Outcome struct {
	Package   int
	Key       dangerousgoods.Key
	Quantity  string
	State     State
	Tier      Tier
	Statement string
	// Tolerated is set for an absolutely forbidden package accepted in lenient mode.
	Tolerated bool
}

// Result is the engine's view of a shipment after classification.
type Result struct {
	// Request is an annotated copy: classified packages carry their derived
	// fields, exempted packages lost their DG attributes, and Carriers is narrowed.
	Request        shipment.Request
	Rules          string
	Outcomes       []Outcome
	BatteryPresent bool
	Statements     []string
	Labels         []string
	Placards       []string
	Removed        carrier.Candidates
}

// RequiresDeclaration reports whether at least one package still travels as
// regulated dangerous goods.
func (r Result) RequiresDeclaration() bool {
	return slices.ContainsFunc(r.Outcomes, func(o Outcome) bool {
		return o.State == Accepted && o.Tier.IsRegulated()
	})
}

// Engine runs the classification template for one set of Rules.
type Engine struct {
	rules           Rules
	classifications ports.ClassificationRepository
}

func NewEngine(rules Rules, classifications ports.ClassificationRepository) *Engine {
	return &Engine{rules: rules, classifications: classifications}
}

func (e *Engine) Rules() Rules {
	return e.rules
}

// Engines holds one engine per regulatory regime.
type Engines struct {
	Air    *Engine
	Ground *Engine
}

// For returns the engine whose rules cover carriers of mode m.
func (e Engines) For(m carrier.Mode) *Engine {
	if m.IsAir() {
		return e.Air
	}
	return e.Ground
}

// Evaluate runs every engine whose mode is present among the candidate carriers,
// feeding the narrowed request of one into the next. Outcomes are kept per engine.
func (e Engines) Evaluate(ctx context.Context, catalog carrier.Catalog, req shipment.Request) ([]Result, error) {
	var results []Result
	for _, engine := range []*Engine{e.Air, e.Ground} {
		if engine == nil || !engine.appliesTo(catalog, req.Carriers) {
			continue
		}
		res, err := engine.Evaluate(ctx, catalog, req)
		if err != nil {
			return nil, err
		}
		// Exempted packages are stripped only in the engine's own result; the
		// next engine classifies from the declared goods again.
		req.Carriers = res.Request.Carriers
		results = append(results, res)
	}
	return results, nil
}

func (e *Engine) appliesTo(catalog carrier.Catalog, candidates carrier.Candidates) bool {
	for _, code := range candidates {
		if c, ok := catalog.Get(code); ok && e.rules.Covers(c.Mode()) {
			return true
		}
	}
	return false
}

// Evaluate classifies every dangerous package of req and filters the candidate
// carriers of the engine's mode. The input request is not modified.
func (e *Engine) Evaluate(ctx context.Context, catalog carrier.Catalog, req shipment.Request) (Result, error) {
	res := Result{Request: req.Clone(), Rules: e.rules.name}
	before := res.Request.Carriers

	for i := range res.Request.Packages {
		pkg := &res.Request.Packages[i]
		if pkg.DangerousGood == nil {
			continue
		}

		outcome, err := e.classifyPackage(ctx, catalog, &res, i, pkg)
		if err != nil {
			return Result{}, err
		}
		res.Outcomes = append(res.Outcomes, outcome)
	}

	res.Request.Carriers = res.Request.Carriers.Filter(func(code int) bool {
		c, ok := catalog.Get(code)
		if !ok || !e.rules.Covers(c.Mode()) || e.rules.carrierRule == nil {
			return true
		}
		return e.rules.carrierRule(code, res.Outcomes)
	})
	res.Removed = before.Filter(func(code int) bool { return !res.Request.Carriers.Contains(code) })

	return res, nil
}

func (e *Engine) classifyPackage(
	ctx context.Context,
	catalog carrier.Catalog,
	res *Result,
	index int,
	pkg *shipment.Package,
) (Outcome, error) {
	dg := pkg.DangerousGood
	outcome := Outcome{Package: index, Key: dg.Key(), Quantity: dg.Quantity.String(), State: Unclassified}

	cls, err := e.preProcess(ctx, index, dg)
	if err != nil {
		return Outcome{}, err
	}
	if outcome.State, err = outcome.State.PreProcess(); err != nil {
		return Outcome{}, err
	}
	if outcome.State, err = outcome.State.Classify(); err != nil {
		return Outcome{}, err
	}

	switch {
	case e.rules.groundExempt && cls.Ground.Exempt:
		outcome.Tier = GroundExempted
		annotate(dg, cls, dangerousgoods.PackingInstruction{}, GroundExempted)
		outcome.State, err = outcome.State.Accept()
		return outcome, err

	case e.rules.allZero(cls):
		outcome.State, err = outcome.State.Forbid()
		if err != nil {
			return Outcome{}, err
		}
		if res.Request.StrictDangerousGoods {
			return Outcome{}, errs.NewComplianceError(dg.UNNumber,
				fmt.Sprintf("%s is forbidden for %s transport", cls.Key.ProperShippingName, e.rules.name))
		}
		res.Request.Carriers = res.Request.Carriers.Filter(func(code int) bool {
			c, ok := catalog.Get(code)
			return !ok || !c.HandlesDangerousGoods() || !e.rules.Covers(c.Mode())
		})
		outcome.Tolerated = true
		return outcome, nil

	case cls.ExceptedQuantity.IsPositive() && dg.Quantity.LessThanOrEqual(cls.ExceptedQuantity):
		outcome.Tier = Exempted
		outcome.Statement = e.rules.statement
		if IsLithiumBattery(dg.UNNumber) {
			res.BatteryPresent = true
			outcome.Statement = "Lithium batteries in compliance with Section II"
		}
		res.Statements = appendUnique(res.Statements, outcome.Statement)
		pkg.DangerousGood = nil
		outcome.State, err = outcome.State.Accept()
		return outcome, err
	}

	selected, ok := e.selectTier(cls, dg)
	if !ok {
		outcome.State, err = outcome.State.Forbid()
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{}, errs.NewComplianceError(dg.UNNumber,
			fmt.Sprintf("quantity %s exceeds every %s cutoff", dg.Quantity, e.rules.name))
	}

	instruction := selected.Cutoff.Instruction
	if !instruction.Allows(pkg.Packaging) {
		return Outcome{}, errs.NewFieldValidationError("packaging_not_allowed",
			fmt.Sprintf("packages[%d].package_type", index),
			"packaging %q is not allowed by packing instruction %s for %s",
			pkg.Packaging, instruction.Code, cls.Key)
	}

	outcome.Tier = selected.Tier
	annotate(dg, cls, instruction, selected.Tier)
	if label := selected.Tier.Label(); label != "" {
		res.Labels = appendUnique(res.Labels, label)
	}
	for _, hc := range cls.HazardClasses() {
		res.Placards = appendUnique(res.Placards, hc)
	}

	outcome.State, err = outcome.State.Accept()
	return outcome, err
}

func (e *Engine) preProcess(
	ctx context.Context,
	index int,
	dg *shipment.DangerousGood,
) (dangerousgoods.Classification, error) {
	if IsRadioactive(dg.UNNumber) {
		return dangerousgoods.Classification{}, errs.NewComplianceError(dg.UNNumber, "radioactive material is not accepted")
	}

	path := fmt.Sprintf("packages[%d].dangerous_good", index)
	var fields []errs.FieldError
	if dg.UNNumber <= 0 {
		fields = append(fields, errs.FieldError{Path: path + ".un_number", Message: "is required"})
	}
	if dg.PackingGroup == "" {
		fields = append(fields, errs.FieldError{Path: path + ".packing_group", Message: "is required"})
	}
	if dg.ProperShippingName == "" {
		fields = append(fields, errs.FieldError{Path: path + ".proper_shipping_name", Message: "is required"})
	}
	if !dg.Quantity.IsPositive() {
		fields = append(fields, errs.FieldError{Path: path + ".quantity", Message: "must be positive"})
	}
	if len(fields) > 0 {
		return dangerousgoods.Classification{}, errs.NewValidationError("dangerous_good_incomplete", fields...)
	}

	if dg.Classification != nil && dg.Classification.Key == dg.Key() {
		return *dg.Classification, nil
	}

	key := dg.Key()
	cls, err := e.classifications.Find(ctx, key)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return dangerousgoods.Classification{}, errs.NewFieldValidationError("dangerous_good_not_found", path,
			"no classification for %s", key)
	}
	if err != nil {
		return dangerousgoods.Classification{}, err
	}
	dg.Classification = &cls
	return cls, nil
}

func (e *Engine) selectTier(cls dangerousgoods.Classification, dg *shipment.DangerousGood) (TierCutoff, bool) {
	for _, tc := range e.rules.tiers(cls) {
		if tc.Cutoff.Covers(dg.Quantity) {
			return tc, true
		}
	}
	return TierCutoff{}, false
}

func annotate(
	dg *shipment.DangerousGood,
	cls dangerousgoods.Classification,
	instruction dangerousgoods.PackingInstruction,
	tier Tier,
) {
	dg.PackingInstruction = instruction.Code
	dg.MeasurementUnit = cls.MeasurementUnit
	dg.ClassDivision = cls.ClassDivision
	dg.Subrisks = slices.Clone(cls.Subrisks)
	dg.Tier = tier.String()
	dg.Labels = nil
	if label := tier.Label(); label != "" {
		dg.Labels = []string{label}
	}
}

func appendUnique(list []string, v string) []string {
	if v == "" || slices.Contains(list, v) {
		return list
	}
	return append(list, v)
}
