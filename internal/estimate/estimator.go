// Package estimate turns idler inputs into priced estimates and ledger records.
//
// Weights come from the geometry package, costs are rolled up by the pricing
// package, and bought-out and conversion costs are resolved through a
// CostSource so that manual entry and reference-table reuse share one path.
package estimate

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/steadfast/idlerest/internal/geometry"
	"github.com/steadfast/idlerest/internal/ledger"
	"github.com/steadfast/idlerest/internal/metrics"
	"github.com/steadfast/idlerest/internal/pricing"
)

// DefaultCompany is written on every record unless the estimator overrides it.
const DefaultCompany = "STEADFAST"

// Estimator computes estimates. The zero value uses manual costs,
// output-only rounding and the default company.
type Estimator struct {
	Source  CostSource
	Mode    pricing.RoundingMode
	Company string
	Now     func() time.Time
}

// Estimate is a computed but not yet confirmed estimate.
type Estimate struct {
	Input       Input
	PipeWeight  float64
	ShaftWeight float64
	Components  pricing.CostComponents
	Resolution  Resolution
	Result      pricing.Result
}

// Label names the idler the way it appears on quotations. Whole dimensions
// print without a decimal point.
func (e Estimate) Label() string {
	return fmt.Sprintf("%gmmOD x %gLG %s Idler (%s)", e.Input.PipeOD, e.Input.PipeLength, e.Input.IdlerType, e.Input.Material)
}

// Preview computes an estimate without touching durable state.
func (s *Estimator) Preview(ctx context.Context, in Input) (Estimate, error) {
	return s.compute(ctx, in, false)
}

// Add computes an estimate, stores newly entered reference costs when the
// lookup missed, and appends the record to l.
func (s *Estimator) Add(ctx context.Context, in Input, l *ledger.Ledger) (ledger.Record, error) {
	est, err := s.compute(ctx, in, true)
	if err != nil {
		return ledger.Record{}, err
	}
	rec := s.record(est)
	l.Append(rec)
	metrics.IncreaseEstimatesAdded(rec.IdlerType)
	return rec, nil
}

func (s *Estimator) compute(ctx context.Context, in Input, commit bool) (Estimate, error) {
	if err := in.Validate(); err != nil {
		return Estimate{}, err
	}
	in = in.normalized()

	density, err := geometry.Density(geometry.Material(in.Material))
	if err != nil {
		return Estimate{}, err
	}
	pipeWeight, err := geometry.PipeWeight(in.PipeOD, in.PipeThickness, in.PipeLength, density)
	if err != nil {
		return Estimate{}, err
	}
	shaftWeight, err := geometry.ShaftWeight(in.ShaftDia, in.ShaftLength, density)
	if err != nil {
		return Estimate{}, err
	}

	res, err := s.source().Resolve(ctx, in, commit)
	if err != nil {
		return Estimate{}, err
	}

	components := pricing.CostComponents{
		PipeCost:         pipeWeight * in.PipePrice,
		ShaftCost:        shaftWeight * in.ShaftPrice,
		BoughtOut:        res.BoughtOut,
		RubberRingCost:   float64(in.RubberRings) * in.CostPerRing,
		RubberFixingCost: in.RubberFixingCost,
		Conversion:       res.Conversion,
	}
	result := pricing.Calculate(components, pricing.IdlerType(in.IdlerType), float64(in.ProfitPercent), s.Mode)

	return Estimate{
		Input:       in,
		PipeWeight:  pipeWeight,
		ShaftWeight: shaftWeight,
		Components:  components,
		Resolution:  res,
		Result:      result,
	}, nil
}

func (s *Estimator) record(e Estimate) ledger.Record {
	b := e.Result.Breakdown
	return ledger.Record{
		ID:               uuid.New(),
		CreatedAt:        s.now(),
		Company:          s.company(),
		Material:         e.Input.Material,
		IdlerType:        e.Input.IdlerType,
		PipeOD:           e.Input.PipeOD,
		PipeThickness:    e.Input.PipeThickness,
		PipeLength:       e.Input.PipeLength,
		ShaftDia:         e.Input.ShaftDia,
		ShaftLength:      e.Input.ShaftLength,
		PipeWeight:       e.PipeWeight,
		ShaftWeight:      e.ShaftWeight,
		PipeCost:         b.PipeCost,
		ShaftCost:        b.ShaftCost,
		BoughtOutCost:    b.BoughtOutCost,
		RubberRingCost:   b.RubberRingCost,
		RubberFixingCost: b.RubberFixingCost,
		ConversionCost:   b.ConversionCost,
		BaseCost:         b.BaseCost,
		Overhead:         b.Overhead,
		ProfitPercent:    b.ProfitPercent,
		ProfitCost:       b.Profit,
		FinalCost:        e.Result.Totals.Total,
		Label:            e.Label(),
		LookupUsed:       e.Input.UseReferenceTable,
	}
}

func (s *Estimator) source() CostSource {
	if s.Source == nil {
		return ManualSource{}
	}
	return s.Source
}

func (s *Estimator) company() string {
	if s.Company == "" {
		return DefaultCompany
	}
	return s.Company
}

func (s *Estimator) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now()
}
