package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/steadfast/idlerest/internal/migrations"
)

func TestOpen_FileDatabaseAcceptsMigrations(t *testing.T) {
	ctx := context.Background()
	database, err := Open(ctx, filepath.Join(t.TempDir(), "estimator.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer database.Close()

	if err := migrations.Up(database); err != nil {
		t.Fatalf("migrations.Up: %v", err)
	}

	version, err := migrations.Version(database)
	if err != nil {
		t.Fatalf("migrations.Version: %v", err)
	}
	if version < 1 {
		t.Fatalf("expected schema version >= 1, got %d", version)
	}

	var count int
	if err := database.QueryRow(`SELECT COUNT(*) FROM reference_costs`).Scan(&count); err != nil {
		t.Fatalf("query reference_costs: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected empty reference_costs, got %d rows", count)
	}
}

func TestOpen_MemoryDatabaseSharesSchema(t *testing.T) {
	ctx := context.Background()
	database, err := Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer database.Close()

	if _, err := database.Exec(`CREATE TABLE scratch (id INTEGER)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	if _, err := database.Exec(`INSERT INTO scratch (id) VALUES (1)`); err != nil {
		t.Fatalf("insert on second statement: %v", err)
	}
}
