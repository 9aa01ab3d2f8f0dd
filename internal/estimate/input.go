package estimate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/steadfast/idlerest/internal/pricing"
)

// Variant selects which bought-out and conversion fields an estimate uses.
type Variant string

const (
	// Simple covers bearing, cup, dust cover, seal and circlip plus
	// machining, painting and testing.
	Simple Variant = "simple"
	// Assisted covers bearing, cup, seal and circlip plus painting, welding,
	// handling, pipe machining, rod machining, rod milling and assembly. Its
	// costs can come from the reference table.
	Assisted Variant = "assisted"
)

// Input is everything a user enters for one idler. Lengths are mm, material
// prices currency/kg, all other prices currency.
type Input struct {
	Variant   Variant `validate:"oneof=simple assisted"`
	Material  string  `validate:"oneof='Mild Steel' 'Stainless Steel'"`
	IdlerType string  `validate:"oneof=Carrying Return Impact"`

	PipeOD        float64 `validate:"gte=10"`
	PipeThickness float64 `validate:"gte=1"`
	PipeLength    float64 `validate:"gte=50"`
	ShaftDia      float64 `validate:"gte=10"`
	ShaftLength   float64 `validate:"gte=50"`

	PipePrice  float64 `validate:"gte=1"`
	ShaftPrice float64 `validate:"gte=1"`

	BoughtOut  pricing.BoughtOut
	Conversion pricing.Conversion

	RubberRings       int     `validate:"gte=0"`
	CostPerRing       float64 `validate:"gte=0"`
	RubberFixingCost  float64 `validate:"gte=0"`
	ProfitPercent     int     `validate:"min=15,max=20"`
	UseReferenceTable bool
}

// ValidationError lists every invalid field of an Input.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, name := range fieldOrder {
		if msg, ok := e.Fields[name]; ok {
			parts = append(parts, name+": "+msg)
		}
	}
	return "invalid estimate input: " + strings.Join(parts, "; ")
}

var fieldOrder = []string{
	"Variant", "Material", "IdlerType",
	"PipeOD", "PipeThickness", "PipeLength", "ShaftDia", "ShaftLength",
	"PipePrice", "ShaftPrice",
	"Bearing", "Cup", "DustCover", "Seal", "Circlip",
	"Machining", "Painting", "Testing", "Welding", "Handling",
	"PipeMachining", "RodMachining", "RodMilling", "Assembly",
	"RubberRings", "CostPerRing", "RubberFixingCost", "ProfitPercent",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterStructValidation(nonNegativeBoughtOut, pricing.BoughtOut{})
	v.RegisterStructValidation(nonNegativeConversion, pricing.Conversion{})
	return v
}

func nonNegativeBoughtOut(sl validator.StructLevel) {
	b := sl.Current().Interface().(pricing.BoughtOut)
	for name, v := range map[string]float64{
		"Bearing": b.Bearing, "Cup": b.Cup, "DustCover": b.DustCover, "Seal": b.Seal, "Circlip": b.Circlip,
	} {
		if v < 0 {
			sl.ReportError(v, name, name, "gte", "0")
		}
	}
}

func nonNegativeConversion(sl validator.StructLevel) {
	c := sl.Current().Interface().(pricing.Conversion)
	for name, v := range map[string]float64{
		"Machining": c.Machining, "Painting": c.Painting, "Testing": c.Testing,
		"Welding": c.Welding, "Handling": c.Handling, "PipeMachining": c.PipeMachining,
		"RodMachining": c.RodMachining, "RodMilling": c.RodMilling, "Assembly": c.Assembly,
	} {
		if v < 0 {
			sl.ReportError(v, name, name, "gte", "0")
		}
	}
}

// Validate checks the minimum values the input form enforces.
func (in Input) Validate() error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate estimate input: %w", err)
	}

	out := &ValidationError{Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		out.Fields[fe.Field()] = describe(fe)
	}
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "gte", "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of " + fe.Param()
	default:
		return "is invalid"
	}
}

// normalized zeroes fields the variant and idler type do not use, so they
// cannot leak into the rollup.
func (in Input) normalized() Input {
	switch in.Variant {
	case Assisted:
		in.BoughtOut.DustCover = 0
		in.Conversion.Machining = 0
		in.Conversion.Testing = 0
	default:
		in.Conversion.Welding = 0
		in.Conversion.Handling = 0
		in.Conversion.PipeMachining = 0
		in.Conversion.RodMachining = 0
		in.Conversion.RodMilling = 0
		in.Conversion.Assembly = 0
		in.UseReferenceTable = false
	}
	if pricing.IdlerType(in.IdlerType) != pricing.Impact {
		in.RubberRings = 0
		in.CostPerRing = 0
		in.RubberFixingCost = 0
	}
	return in
}
