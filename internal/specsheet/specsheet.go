// Package specsheet reads the key/value spec sheets customers send with an
// enquiry. The sheets carry no header row: column B holds the field name and
// column C its value.
package specsheet

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Prefill holds the values found in a spec sheet. Fields that the sheet does
// not mention stay zero.
type Prefill struct {
	Material      string
	IdlerType     string
	PipeOD        float64
	PipeThickness float64
	PipeLength    float64
	ShaftDia      float64
	ShaftLength   float64
}

const (
	keyCol   = 1
	valueCol = 2
)

// Parse reads the first sheet of an xlsx workbook.
func Parse(r io.Reader) (Prefill, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Prefill{}, fmt.Errorf("open spec sheet: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return Prefill{}, fmt.Errorf("read spec sheet: %w", err)
	}

	var p Prefill
	for _, cells := range rows {
		if len(cells) <= valueCol {
			continue
		}
		key := normalize(cells[keyCol])
		value := strings.TrimSpace(cells[valueCol])
		if key == "" || value == "" {
			continue
		}

		switch key {
		case "material":
			p.Material = value
		case "idler type":
			p.IdlerType = value
		default:
			target := p.numeric(key)
			if target == nil {
				continue
			}
			v, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return Prefill{}, fmt.Errorf("spec sheet %q: %q is not a number", cells[keyCol], value)
			}
			*target = v
		}
	}
	return p, nil
}

func (p *Prefill) numeric(key string) *float64 {
	switch key {
	case "pipe od":
		return &p.PipeOD
	case "pipe thickness":
		return &p.PipeThickness
	case "pipe length":
		return &p.PipeLength
	case "shaft dia", "shaft diameter":
		return &p.ShaftDia
	case "shaft length":
		return &p.ShaftLength
	}
	return nil
}

// normalize lowercases a key and drops a trailing unit such as "(mm)".
func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if i := strings.Index(s, "("); i > 0 {
		s = strings.TrimSpace(s[:i])
	}
	return strings.Join(strings.Fields(s), " ")
}
