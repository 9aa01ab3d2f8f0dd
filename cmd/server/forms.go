package main

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/steadfast/idlerest/internal/estimate"
	"github.com/steadfast/idlerest/internal/geometry"
	"github.com/steadfast/idlerest/internal/pricing"
	"github.com/steadfast/idlerest/internal/specsheet"
)

type floatField struct {
	name string
	dst  func(in *estimate.Input) *float64
}

var floatFields = []floatField{
	{"pipe_od", func(in *estimate.Input) *float64 { return &in.PipeOD }},
	{"pipe_thickness", func(in *estimate.Input) *float64 { return &in.PipeThickness }},
	{"pipe_length", func(in *estimate.Input) *float64 { return &in.PipeLength }},
	{"shaft_dia", func(in *estimate.Input) *float64 { return &in.ShaftDia }},
	{"shaft_length", func(in *estimate.Input) *float64 { return &in.ShaftLength }},
	{"pipe_price", func(in *estimate.Input) *float64 { return &in.PipePrice }},
	{"shaft_price", func(in *estimate.Input) *float64 { return &in.ShaftPrice }},
	{"bearing", func(in *estimate.Input) *float64 { return &in.BoughtOut.Bearing }},
	{"cup", func(in *estimate.Input) *float64 { return &in.BoughtOut.Cup }},
	{"dust_cover", func(in *estimate.Input) *float64 { return &in.BoughtOut.DustCover }},
	{"seal", func(in *estimate.Input) *float64 { return &in.BoughtOut.Seal }},
	{"circlip", func(in *estimate.Input) *float64 { return &in.BoughtOut.Circlip }},
	{"machining", func(in *estimate.Input) *float64 { return &in.Conversion.Machining }},
	{"painting", func(in *estimate.Input) *float64 { return &in.Conversion.Painting }},
	{"testing", func(in *estimate.Input) *float64 { return &in.Conversion.Testing }},
	{"welding", func(in *estimate.Input) *float64 { return &in.Conversion.Welding }},
	{"handling", func(in *estimate.Input) *float64 { return &in.Conversion.Handling }},
	{"pipe_machining", func(in *estimate.Input) *float64 { return &in.Conversion.PipeMachining }},
	{"rod_machining", func(in *estimate.Input) *float64 { return &in.Conversion.RodMachining }},
	{"rod_milling", func(in *estimate.Input) *float64 { return &in.Conversion.RodMilling }},
	{"assembly", func(in *estimate.Input) *float64 { return &in.Conversion.Assembly }},
	{"cost_per_ring", func(in *estimate.Input) *float64 { return &in.CostPerRing }},
	{"rubber_fixing_cost", func(in *estimate.Input) *float64 { return &in.RubberFixingCost }},
}

// defaultInput mirrors the minimum values of the estimate form.
func defaultInput() estimate.Input {
	return estimate.Input{
		Variant:       estimate.Simple,
		Material:      string(geometry.MildSteel),
		IdlerType:     string(pricing.Carrying),
		PipeOD:        10,
		PipeThickness: 1,
		PipeLength:    50,
		ShaftDia:      10,
		ShaftLength:   50,
		PipePrice:     1,
		ShaftPrice:    1,
		ProfitPercent: pricing.MinProfitPercent,
	}
}

// parseEstimateForm reads the estimate form. It only checks that numbers
// parse; range checks belong to estimate.Input.Validate. The form is returned
// even on error so it can be shown again.
func parseEstimateForm(r *http.Request) (estimate.Input, error) {
	in := estimate.Input{
		Variant:           estimate.Variant(strings.TrimSpace(r.FormValue("variant"))),
		Material:          strings.TrimSpace(r.FormValue("material")),
		IdlerType:         strings.TrimSpace(r.FormValue("idler_type")),
		UseReferenceTable: isChecked(r.FormValue("use_reference")),
	}
	if in.Variant == "" {
		in.Variant = estimate.Simple
	}

	for _, f := range floatFields {
		v, err := parseOptionalFloat(r.FormValue(f.name), f.name)
		if err != nil {
			return in, err
		}
		*f.dst(&in) = v
	}

	var err error
	if in.RubberRings, err = parseOptionalInt(r.FormValue("rubber_rings"), "rubber_rings"); err != nil {
		return in, err
	}
	if in.ProfitPercent, err = parseOptionalInt(r.FormValue("profit_percent"), "profit_percent"); err != nil {
		return in, err
	}

	return in, nil
}

func parseOptionalFloat(raw, field string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("%s must be numeric", field)
	}
	return value, nil
}

func parseOptionalInt(raw, field string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a whole number", field)
	}
	return value, nil
}

func isChecked(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "on", "true", "yes":
		return true
	}
	return false
}

// applyPrefill copies the values found in a spec sheet over in.
func applyPrefill(in estimate.Input, p specsheet.Prefill) estimate.Input {
	if p.Material != "" {
		in.Material = p.Material
	}
	if p.IdlerType != "" {
		in.IdlerType = p.IdlerType
	}
	for _, v := range []struct {
		src float64
		dst *float64
	}{
		{p.PipeOD, &in.PipeOD},
		{p.PipeThickness, &in.PipeThickness},
		{p.PipeLength, &in.PipeLength},
		{p.ShaftDia, &in.ShaftDia},
		{p.ShaftLength, &in.ShaftLength},
	} {
		if v.src != 0 {
			*v.dst = v.src
		}
	}
	return in
}
