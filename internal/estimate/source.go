package estimate

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/steadfast/idlerest/internal/metrics"
	"github.com/steadfast/idlerest/internal/pricing"
	"github.com/steadfast/idlerest/internal/reference"
)

// Resolution is the outcome of resolving the bought-out and conversion costs
// of an input.
type Resolution struct {
	BoughtOut  pricing.BoughtOut
	Conversion pricing.Conversion
	// FromReference reports that the costs were reused from the reference table.
	FromReference bool
	// Persisted reports that the typed costs were stored as a new reference row.
	Persisted bool
}

// CostSource decides where bought-out and conversion costs come from.
// commit is false for previews, which must not change durable state.
type CostSource interface {
	Resolve(ctx context.Context, in Input, commit bool) (Resolution, error)
}

// ManualSource uses the costs typed by the user.
type ManualSource struct{}

func (ManualSource) Resolve(_ context.Context, in Input, _ bool) (Resolution, error) {
	return Resolution{BoughtOut: in.BoughtOut, Conversion: in.Conversion}, nil
}

// ReferenceSource reuses costs stored for the same pipe OD and shaft
// diameter. On a miss it falls back to the typed costs and, on commit,
// stores them for the next estimate.
type ReferenceSource struct {
	Table reference.Table
	Log   zerolog.Logger
}

func (s ReferenceSource) Resolve(ctx context.Context, in Input, commit bool) (Resolution, error) {
	if !in.UseReferenceTable {
		return ManualSource{}.Resolve(ctx, in, commit)
	}

	key := reference.Key{PipeOD: in.PipeOD, ShaftDia: in.ShaftDia}
	row, ok, err := s.Table.Lookup(ctx, key)
	if err != nil {
		metrics.IncreaseReferenceLookups(metrics.LookupError)
		return Resolution{}, fmt.Errorf("lookup reference costs: %w", err)
	}
	if ok {
		metrics.IncreaseReferenceLookups(metrics.LookupHit)
		s.Log.Debug().Float64("pipe_od", key.PipeOD).Float64("shaft_dia", key.ShaftDia).Msg("reference hit")
		return Resolution{BoughtOut: row.BoughtOut, Conversion: row.Conversion, FromReference: true}, nil
	}

	metrics.IncreaseReferenceLookups(metrics.LookupMiss)
	s.Log.Info().Float64("pipe_od", key.PipeOD).Float64("shaft_dia", key.ShaftDia).Msg("pipe size not found, using entered costs")

	res := Resolution{BoughtOut: in.BoughtOut, Conversion: in.Conversion}
	if !commit {
		return res, nil
	}
	err = s.Table.Persist(ctx, reference.Row{Key: key, BoughtOut: in.BoughtOut, Conversion: in.Conversion})
	if errors.Is(err, reference.ErrDuplicateKey) {
		// Another estimate stored this size between the lookup and now.
		s.Log.Warn().Err(err).Msg("reference row already stored")
		return res, nil
	}
	if err != nil {
		return Resolution{}, fmt.Errorf("persist reference costs: %w", err)
	}
	res.Persisted = true
	return res, nil
}
