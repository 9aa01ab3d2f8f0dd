package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeDotEnv(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}
	return path
}

func TestLoadDotEnv_MissingFileIsIgnored(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.env")

	if err := loadDotEnv(path); err != nil {
		t.Fatalf("loadDotEnv(missing) = %v, want nil", err)
	}
}

func TestLoadDotEnv_UnreadablePathFails(t *testing.T) {
	if err := loadDotEnv(t.TempDir()); err == nil {
		t.Fatalf("expected an error reading a directory as .env")
	}
}

func TestLoadDotEnv_EnvironmentWinsOverFile(t *testing.T) {
	t.Setenv("REFERENCE_FILE", "from_env.xlsx")
	t.Setenv("COMPANY_NAME", "")

	path := writeDotEnv(t, t.TempDir(), "REFERENCE_FILE=from_file.xlsx\nCOMPANY_NAME=ACME\n")
	if err := loadDotEnv(path); err != nil {
		t.Fatalf("loadDotEnv: %v", err)
	}

	if got := os.Getenv("REFERENCE_FILE"); got != "from_env.xlsx" {
		t.Fatalf("REFERENCE_FILE=%q, want %q", got, "from_env.xlsx")
	}
	// An empty variable counts as unset.
	if got := os.Getenv("COMPANY_NAME"); got != "ACME" {
		t.Fatalf("COMPANY_NAME=%q, want %q", got, "ACME")
	}
}

func TestLoad_PicksUpDotEnvInWorkingDir(t *testing.T) {
	for _, k := range []string{"APP_ENV", "PORT", "DB_PATH", "REFERENCE_BACKEND", "REFERENCE_FILE", "ROUNDING_MODE", "COMPANY_NAME"} {
		t.Setenv(k, "")
	}
	t.Setenv("PORT", "9191")

	dir := t.TempDir()
	writeDotEnv(t, dir, `
# reference storage for the shop floor box
REFERENCE_BACKEND=SQLite
ROUNDING_MODE=each_stage
export PORT=7000
`)
	chdir(t, dir)

	cfg := Load()

	if cfg.ReferenceBackend != ReferenceSQLite {
		t.Fatalf("ReferenceBackend=%q, want %q", cfg.ReferenceBackend, ReferenceSQLite)
	}
	if cfg.RoundingMode != "each_stage" {
		t.Fatalf("RoundingMode=%q, want %q", cfg.RoundingMode, "each_stage")
	}
	if cfg.Port != "9191" {
		t.Fatalf("Port=%q, want the environment value %q", cfg.Port, "9191")
	}
	if cfg.ReferenceFile != defaultReferenceFile {
		t.Fatalf("ReferenceFile=%q, want %q", cfg.ReferenceFile, defaultReferenceFile)
	}
}
