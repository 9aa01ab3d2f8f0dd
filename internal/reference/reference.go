// Package reference stores bought-out and conversion costs of idlers that
// were estimated before, keyed by pipe outer diameter and shaft diameter.
//
// The table only grows. Rows are never updated or deleted, and a key can be
// stored once: Persist rejects a second row for an existing key with
// ErrDuplicateKey. Tables that already contain duplicates (older master
// files) resolve lookups to the first matching row.
package reference

import (
	"context"
	"errors"

	"github.com/steadfast/idlerest/internal/pricing"
)

// ErrDuplicateKey is returned by Persist when the key is already stored.
var ErrDuplicateKey = errors.New("reference row already exists for pipe OD and shaft diameter")

// Key identifies a reference row. Matching is exact.
type Key struct {
	PipeOD   float64
	ShaftDia float64
}

// Row is one stored cost set. Bought-out prices are per piece.
type Row struct {
	Key
	BoughtOut  pricing.BoughtOut
	Conversion pricing.Conversion
}

// Table is a durable reference store.
type Table interface {
	// Lookup returns the first row stored for key. A miss is reported with
	// ok=false and a nil error.
	Lookup(ctx context.Context, key Key) (row Row, ok bool, err error)
	// Persist appends row.
	Persist(ctx context.Context, row Row) error
	// All returns every row in storage order.
	All(ctx context.Context) ([]Row, error)
}

// Column headers of the master spreadsheet.
const (
	ColPipeOD        = "Pipe OD"
	ColShaftDia      = "Shaft Dia"
	ColBearing       = "Bearing Cost"
	ColCup           = "Cup Cost"
	ColSeal          = "Seal Cost"
	ColCirclip       = "Circlip Cost"
	ColPainting      = "Painting"
	ColWelding       = "Welding"
	ColHandling      = "Handling"
	ColPipeMachining = "Pipe Machining"
	ColRodMachining  = "Rod Machining"
	ColRodMilling    = "Rod Milling"
	ColAssembly      = "Assembly"
)

// Columns returns the master spreadsheet headers in order.
func Columns() []string {
	return []string{
		ColPipeOD, ColShaftDia,
		ColBearing, ColCup, ColSeal, ColCirclip,
		ColPainting, ColWelding, ColHandling,
		ColPipeMachining, ColRodMachining, ColRodMilling, ColAssembly,
	}
}

func (r Row) values() []float64 {
	return []float64{
		r.PipeOD, r.ShaftDia,
		r.BoughtOut.Bearing, r.BoughtOut.Cup, r.BoughtOut.Seal, r.BoughtOut.Circlip,
		r.Conversion.Painting, r.Conversion.Welding, r.Conversion.Handling,
		r.Conversion.PipeMachining, r.Conversion.RodMachining, r.Conversion.RodMilling, r.Conversion.Assembly,
	}
}

func rowFromValues(v map[string]float64) Row {
	return Row{
		Key: Key{PipeOD: v[ColPipeOD], ShaftDia: v[ColShaftDia]},
		BoughtOut: pricing.BoughtOut{
			Bearing: v[ColBearing],
			Cup:     v[ColCup],
			Seal:    v[ColSeal],
			Circlip: v[ColCirclip],
		},
		Conversion: pricing.Conversion{
			Painting:      v[ColPainting],
			Welding:       v[ColWelding],
			Handling:      v[ColHandling],
			PipeMachining: v[ColPipeMachining],
			RodMachining:  v[ColRodMachining],
			RodMilling:    v[ColRodMilling],
			Assembly:      v[ColAssembly],
		},
	}
}

func firstMatch(rows []Row, key Key) (Row, bool) {
	for _, r := range rows {
		if r.Key == key {
			return r, true
		}
	}
	return Row{}, false
}
