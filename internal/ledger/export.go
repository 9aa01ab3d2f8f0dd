package ledger

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"
)

// SheetName is the single sheet of an exported ledger.
const SheetName = "Estimates"

type column struct {
	header string
	value  func(Record) any
}

var columns = []column{
	{"Company", func(r Record) any { return r.Company }},
	{"Material", func(r Record) any { return r.Material }},
	{"Idler Type", func(r Record) any { return r.IdlerType }},
	{"Pipe OD", func(r Record) any { return r.PipeOD }},
	{"Pipe Thickness", func(r Record) any { return r.PipeThickness }},
	{"Pipe Length", func(r Record) any { return r.PipeLength }},
	{"Shaft Dia", func(r Record) any { return r.ShaftDia }},
	{"Shaft Length", func(r Record) any { return r.ShaftLength }},
	{"Pipe Weight (kg)", func(r Record) any { return r.PipeWeight }},
	{"Shaft Weight (kg)", func(r Record) any { return r.ShaftWeight }},
	{"Pipe Cost (₹)", func(r Record) any { return r.PipeCost }},
	{"Shaft Cost (₹)", func(r Record) any { return r.ShaftCost }},
	{"Bought-out Cost (₹)", func(r Record) any { return r.BoughtOutCost }},
	{"Rubber Ring Cost (₹)", func(r Record) any { return r.RubberRingCost }},
	{"Rubber Fixing Cost (₹)", func(r Record) any { return r.RubberFixingCost }},
	{"Conversion Cost (₹)", func(r Record) any { return r.ConversionCost }},
	{"Base Cost (₹)", func(r Record) any { return r.BaseCost }},
	{"Overhead (10%) (₹)", func(r Record) any { return r.Overhead }},
	{"Profit Margin (%)", func(r Record) any { return r.ProfitPercent }},
	{"Profit Cost (₹)", func(r Record) any { return r.ProfitCost }},
	{"Final Cost (₹)", func(r Record) any { return r.FinalCost }},
	{"Idler Label", func(r Record) any { return r.Label }},
	{"Lookup Used", func(r Record) any { return r.LookupUsed }},
	{"Created At", func(r Record) any { return r.CreatedAt.UTC().Format(time.RFC3339) }},
	{"ID", func(r Record) any { return r.ID.String() }},
}

// Columns returns the export headers in order.
func Columns() []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = c.header
	}
	return out
}

// Row returns the cell values of r in Columns order.
func Row(r Record) []any {
	out := make([]any, len(columns))
	for i, c := range columns {
		v := c.value(r)
		if s, ok := v.(string); ok {
			v = sanitizeCell(s)
		}
		out[i] = v
	}
	return out
}

// ExportXLSX renders records as a workbook with one sheet.
func ExportXLSX(records []Record) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	headers := Columns()
	headerRow := make([]any, len(headers))
	for i, h := range headers {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &headerRow); err != nil {
		return nil, fmt.Errorf("write header row: %w", err)
	}
	lastCol, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return nil, fmt.Errorf("resolve last column: %w", err)
	}
	if err := f.SetCellStyle(SheetName, "A1", lastCol+"1", headerStyle); err != nil {
		return nil, fmt.Errorf("style header row: %w", err)
	}
	if err := f.SetColWidth(SheetName, "A", lastCol, 16); err != nil {
		return nil, fmt.Errorf("set column width: %w", err)
	}

	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("resolve row %d: %w", i+2, err)
		}
		row := Row(r)
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportCSV writes records as CSV with the same columns as ExportXLSX.
func ExportCSV(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns()); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range records {
		row := Row(r)
		fields := make([]string, len(row))
		for i, v := range row {
			fields[i] = formatCSV(v)
		}
		if err := cw.Write(fields); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatCSV(v any) string {
	switch x := v.(type) {
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}

// sanitizeCell prevents formula injection by prefixing dangerous leading
// characters with a single quote.
func sanitizeCell(s string) string {
	if s == "" {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}
