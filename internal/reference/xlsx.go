package reference

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

const masterSheet = "Sheet1"

// XLSXTable keeps the reference table in a single spreadsheet. The file is
// read in full on every lookup and rewritten in full on every persist.
type XLSXTable struct {
	path string
	log  zerolog.Logger
	mu   sync.Mutex
}

// NewXLSXTable returns a table backed by the spreadsheet at path. The file
// does not need to exist yet.
func NewXLSXTable(path string, log zerolog.Logger) *XLSXTable {
	return &XLSXTable{path: path, log: log.With().Str("component", "reference").Str("path", path).Logger()}
}

// Path returns the spreadsheet location.
func (t *XLSXTable) Path() string {
	return t.path
}

// Lookup reads the whole file and returns the first row matching key. A
// missing or unreadable file behaves like an empty table.
func (t *XLSXTable) Lookup(ctx context.Context, key Key) (Row, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rows, err := t.read()
	if err != nil {
		t.log.Warn().Err(err).Msg("reference file unreadable, treating as empty")
		return Row{}, false, nil
	}
	row, ok := firstMatch(rows, key)
	return row, ok, nil
}

// All returns every row in file order. A missing file yields no rows.
func (t *XLSXTable) All(ctx context.Context) ([]Row, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.read()
}

// Persist appends row and rewrites the file. An unreadable existing file is
// an error so that it is never overwritten.
func (t *XLSXTable) Persist(ctx context.Context, row Row) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	rows, err := t.read()
	if err != nil {
		return fmt.Errorf("read reference file: %w", err)
	}
	if _, ok := firstMatch(rows, row.Key); ok {
		return fmt.Errorf("pipe OD %g, shaft dia %g: %w", row.PipeOD, row.ShaftDia, ErrDuplicateKey)
	}
	rows = append(rows, row)

	if err := t.write(rows); err != nil {
		return fmt.Errorf("write reference file: %w", err)
	}
	t.log.Info().Float64("pipe_od", row.PipeOD).Float64("shaft_dia", row.ShaftDia).Int("rows", len(rows)).Msg("reference row persisted")
	return nil
}

func (t *XLSXTable) read() ([]Row, error) {
	f, err := excelize.OpenFile(t.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	raw, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	return parseRows(raw)
}

// parseRows maps a header row plus data rows onto reference rows. Columns are
// found by header name, so their order in the file does not matter. Blank
// cells read as zero.
func parseRows(raw [][]string) ([]Row, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	index := make(map[string]int, len(raw[0]))
	for i, h := range raw[0] {
		index[strings.TrimSpace(h)] = i
	}
	for _, required := range []string{ColPipeOD, ColShaftDia} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("missing column %q", required)
		}
	}

	rows := make([]Row, 0, len(raw)-1)
	for n, cells := range raw[1:] {
		if blank(cells) {
			continue
		}
		values := make(map[string]float64, len(index))
		for _, col := range Columns() {
			i, ok := index[col]
			if !ok || i >= len(cells) {
				continue
			}
			cell := strings.TrimSpace(cells[i])
			if cell == "" {
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %q: %w", n+2, col, err)
			}
			values[col] = v
		}
		rows = append(rows, rowFromValues(values))
	}
	return rows, nil
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func (t *XLSXTable) write(rows []Row) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), masterSheet); err != nil {
		return fmt.Errorf("set sheet name: %w", err)
	}

	headers := Columns()
	header := make([]any, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(masterSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		vals := r.values()
		out := make([]any, len(vals))
		for j, v := range vals {
			out[j] = v
		}
		if err := f.SetSheetRow(masterSheet, cell, &out); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	dir := filepath.Dir(t.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".reference-*.xlsx")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := f.Write(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("write workbook: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, t.path); err != nil {
		return fmt.Errorf("replace reference file: %w", err)
	}
	return nil
}
