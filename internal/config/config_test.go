package config

import (
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"APP_ENV", "PORT", "DB_PATH", "REFERENCE_BACKEND", "REFERENCE_FILE", "ROUNDING_MODE", "COMPANY_NAME"} {
		t.Setenv(k, "")
	}
	chdir(t, t.TempDir())

	cfg := Load()

	if cfg.Port != "8080" {
		t.Fatalf("Port=%q, want %q", cfg.Port, "8080")
	}
	if cfg.DBPath != "./dev.db" {
		t.Fatalf("DBPath=%q, want %q", cfg.DBPath, "./dev.db")
	}
	if cfg.ReferenceBackend != ReferenceXLSX {
		t.Fatalf("ReferenceBackend=%q, want %q", cfg.ReferenceBackend, ReferenceXLSX)
	}
	if cfg.ReferenceFile != "idler_master.xlsx" {
		t.Fatalf("ReferenceFile=%q", cfg.ReferenceFile)
	}
	if !cfg.IsDev() {
		t.Fatalf("expected dev environment by default")
	}
}

func TestLoad_ReadsEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("PORT", "9090")
	t.Setenv("REFERENCE_BACKEND", "SQLite")
	t.Setenv("ROUNDING_MODE", "each_stage")
	t.Setenv("COMPANY_NAME", "ACME")
	chdir(t, t.TempDir())

	cfg := Load()

	if cfg.Port != "9090" {
		t.Fatalf("Port=%q, want %q", cfg.Port, "9090")
	}
	if cfg.ReferenceBackend != ReferenceSQLite {
		t.Fatalf("ReferenceBackend=%q, want %q", cfg.ReferenceBackend, ReferenceSQLite)
	}
	if cfg.RoundingMode != "each_stage" || cfg.CompanyName != "ACME" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.IsDev() {
		t.Fatalf("production must not be dev")
	}
}
