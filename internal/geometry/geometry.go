// Package geometry turns idler dimensions into component masses.
//
// Lengths are millimetres, densities g/cm³ and masses kilograms. Every mass is
// rounded to 2 decimals, the precision the estimates have always been kept at.
package geometry

import (
	"errors"
	"fmt"
	"math"
)

// Material is the steel grade a pipe and shaft are cut from.
type Material string

const (
	MildSteel      Material = "Mild Steel"
	StainlessSteel Material = "Stainless Steel"
)

var densities = map[Material]float64{
	MildSteel:      7.85,
	StainlessSteel: 8.0,
}

// ErrUnknownMaterial is returned for a material outside the density table.
var ErrUnknownMaterial = errors.New("unknown material")

// Materials lists the supported materials in display order.
func Materials() []Material {
	return []Material{MildSteel, StainlessSteel}
}

// Density returns the density of m in g/cm³.
func Density(m Material) (float64, error) {
	d, ok := densities[m]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownMaterial, string(m))
	}
	return d, nil
}

// GeometryError reports a dimension that cannot describe a real part.
type GeometryError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("invalid %s %g: %s", e.Field, e.Value, e.Reason)
}

// PipeWeight returns the mass of a tube with outer diameter od, wall
// thickness and length.
func PipeWeight(od, thickness, length, density float64) (float64, error) {
	if err := positive("pipe outer diameter", od); err != nil {
		return 0, err
	}
	if err := positive("pipe thickness", thickness); err != nil {
		return 0, err
	}
	if err := positive("pipe length", length); err != nil {
		return 0, err
	}
	if err := positive("density", density); err != nil {
		return 0, err
	}

	outer := od / 2
	if thickness >= outer {
		return 0, &GeometryError{Field: "pipe thickness", Value: thickness, Reason: fmt.Sprintf("must be less than the outer radius %g", outer)}
	}
	inner := outer - thickness

	volumeMM3 := math.Pi * (outer*outer - inner*inner) * length
	return massKg(volumeMM3, density), nil
}

// ShaftWeight returns the mass of a solid round bar.
func ShaftWeight(dia, length, density float64) (float64, error) {
	if err := positive("shaft diameter", dia); err != nil {
		return 0, err
	}
	if err := positive("shaft length", length); err != nil {
		return 0, err
	}
	if err := positive("density", density); err != nil {
		return 0, err
	}

	radius := dia / 2
	volumeMM3 := math.Pi * radius * radius * length
	return massKg(volumeMM3, density), nil
}

// Round2 rounds v to 2 decimals, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// mm³ -> cm³ -> grams -> kg.
func massKg(volumeMM3, density float64) float64 {
	volumeCM3 := volumeMM3 / 1000
	return Round2(volumeCM3 * density / 1000)
}

func positive(field string, v float64) error {
	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return &GeometryError{Field: field, Value: v, Reason: "must be a positive number"}
	}
	return nil
}
