package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/steadfast/idlerest/internal/ledger"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewIdlerCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func scenarioArgs(extra ...string) []string {
	args := []string{
		"estimate",
		"--pipe-od", "114", "--pipe-thickness", "4", "--pipe-length", "600",
		"--shaft-dia", "25", "--shaft-length", "650",
		"--pipe-price", "60", "--shaft-price", "55",
		"--bearing", "100", "--cup", "100", "--dust-cover", "100", "--seal", "100", "--circlip", "100",
		"--machining", "200", "--painting", "100", "--testing", "50",
		"--profit", "15",
	}
	return append(args, extra...)
}

func TestEstimate_PrintsBreakdown(t *testing.T) {
	out, err := run(t, scenarioArgs("--preview")...)
	require.NoError(t, err)

	assert.Contains(t, out, "114mmOD x 600LG Carrying Idler (Mild Steel)")
	for _, want := range []string{"6.51", "2.50", "390.60", "137.50", "1878.10", "187.81", "309.89", "2375.80"} {
		assert.Contains(t, out, want)
	}
}

func TestEstimate_WritesSpreadsheetAndCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "estimate.xlsx")

	out, err := run(t, scenarioArgs("--xlsx", path, "--csv", "--company", "ACME")...)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "Company,"))
	assert.True(t, strings.HasPrefix(lines[1], "ACME,"))
	assert.Contains(t, lines[1], "2375.8")

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(ledger.SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Contains(t, rows[1], "114mmOD x 600LG Carrying Idler (Mild Steel)")
}

func TestEstimate_InvalidInputFails(t *testing.T) {
	_, err := run(t, scenarioArgs("--profit", "30")...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ProfitPercent")
}

func TestEstimate_AssistedStoresReferenceRow(t *testing.T) {
	master := filepath.Join(t.TempDir(), "idler_master.xlsx")
	assisted := scenarioArgs(
		"--variant", "assisted", "--use-reference",
		"--reference-backend", "xlsx", "--reference-file", master,
		"--welding", "60",
	)

	_, err := run(t, assisted...)
	require.NoError(t, err)

	out, err := run(t, "reference", "list", "--reference-backend", "xlsx", "--reference-file", master)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], "114"))

	out, err = run(t, "reference", "lookup", "--pipe-od", "114", "--shaft-dia", "25", "--reference-backend", "xlsx", "--reference-file", master)
	require.NoError(t, err)
	assert.Contains(t, out, "60.00")

	_, err = run(t, "reference", "lookup", "--pipe-od", "89", "--shaft-dia", "25", "--reference-backend", "xlsx", "--reference-file", master)
	require.ErrorIs(t, err, errNotFound)
}

func TestEstimate_SimpleVariantIgnoresReferenceTable(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "idler.db")

	out, err := run(t, scenarioArgs("--variant", "simple", "--use-reference", "--reference-backend", "sqlite", "--db-path", dbPath)...)
	require.NoError(t, err)
	assert.Contains(t, out, "2375.80")

	_, err = os.Stat(dbPath)
	assert.True(t, os.IsNotExist(err), "simple variant opened the reference database")
}

func TestMigrateAndImport(t *testing.T) {
	dir := t.TempDir()
	master := filepath.Join(dir, "idler_master.xlsx")
	dbPath := filepath.Join(dir, "idler.db")

	_, err := run(t, scenarioArgs("--variant", "assisted", "--use-reference", "--reference-backend", "xlsx", "--reference-file", master)...)
	require.NoError(t, err)

	out, err := run(t, "migrate", "--db-path", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "database at version 1")

	out, err = run(t, "reference", "import", master, "--db-path", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "imported 1 rows, skipped 0 existing")

	out, err = run(t, "reference", "import", master, "--db-path", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "imported 0 rows, skipped 1 existing")

	out, err = run(t, "reference", "lookup", "--pipe-od", "114", "--shaft-dia", "25", "--reference-backend", "sqlite", "--db-path", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "114")
}
