package ledger

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleRecord(label string, final float64) Record {
	return Record{
		ID:             uuid.New(),
		CreatedAt:      time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC),
		Company:        "STEADFAST",
		Material:       "Mild Steel",
		IdlerType:      "Carrying",
		PipeOD:         114,
		PipeThickness:  4,
		PipeLength:     600,
		ShaftDia:       25,
		ShaftLength:    650,
		PipeWeight:     6.51,
		ShaftWeight:    2.5,
		PipeCost:       390.6,
		ShaftCost:      137.5,
		BoughtOutCost:  1000,
		ConversionCost: 350,
		BaseCost:       1878.1,
		Overhead:       187.81,
		ProfitPercent:  15,
		ProfitCost:     309.89,
		FinalCost:      final,
		Label:          label,
	}
}

func TestLedger_ListKeepsInsertionOrder(t *testing.T) {
	l := New()
	first := sampleRecord("first", 100)
	second := sampleRecord("second", 200)
	third := sampleRecord("third", 300)

	l.Append(first)
	l.Append(second)
	l.Append(third)

	got := l.List()
	require.Len(t, got, 3)
	assert.Equal(t, []Record{first, second, third}, got)
	assert.Equal(t, 3, l.Len())
}

func TestLedger_ListReturnsCopy(t *testing.T) {
	l := New()
	l.Append(sampleRecord("only", 100))

	got := l.List()
	got[0].Label = "changed"

	assert.Equal(t, "only", l.List()[0].Label)
}

func TestLedger_Totals(t *testing.T) {
	l := New()
	l.Append(sampleRecord("a", 100.25))
	l.Append(sampleRecord("b", 200.5))

	s := l.Totals()
	assert.Equal(t, 2, s.Count)
	assert.InDelta(t, 300.75, s.FinalCost, 1e-9)
}

func TestLedger_ConcurrentAppend(t *testing.T) {
	l := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Append(sampleRecord("x", 1))
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, l.Len())
}

func TestExportXLSX_OneSheetWithNamedColumns(t *testing.T) {
	records := []Record{sampleRecord("114mmOD x 600LG Carrying Idler (Mild Steel)", 2375.8), sampleRecord("second", 10)}

	data, err := ExportXLSX(records)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, Columns(), rows[0])

	byHeader := map[string]string{}
	for i, h := range rows[0] {
		byHeader[h] = rows[1][i]
	}
	assert.Equal(t, "STEADFAST", byHeader["Company"])
	assert.Equal(t, "114mmOD x 600LG Carrying Idler (Mild Steel)", byHeader["Idler Label"])
	assert.Equal(t, records[0].ID.String(), byHeader["ID"])

	final, err := strconv.ParseFloat(byHeader["Final Cost (₹)"], 64)
	require.NoError(t, err)
	assert.InDelta(t, 2375.8, final, 1e-9)

	weight, err := strconv.ParseFloat(byHeader["Pipe Weight (kg)"], 64)
	require.NoError(t, err)
	assert.InDelta(t, 6.51, weight, 1e-9)
}

func TestExportXLSX_EmptyLedgerHasHeaderOnly(t *testing.T) {
	data, err := ExportXLSX(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestExportCSV_MatchesColumns(t *testing.T) {
	rec := sampleRecord("=HYPERLINK(\"x\")", 42.5)
	rec.LookupUsed = true

	var buf bytes.Buffer
	require.NoError(t, ExportCSV(&buf, []Record{rec}))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, Columns(), rows[0])

	byHeader := map[string]string{}
	for i, h := range rows[0] {
		byHeader[h] = rows[1][i]
	}
	assert.Equal(t, "42.5", byHeader["Final Cost (₹)"])
	assert.Equal(t, "true", byHeader["Lookup Used"])
	assert.Equal(t, "'=HYPERLINK(\"x\")", byHeader["Idler Label"])
}
