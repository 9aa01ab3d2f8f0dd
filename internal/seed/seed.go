// Package seed imports a master reference spreadsheet into the SQLite
// reference table.
package seed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/steadfast/idlerest/internal/reference"
)

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
	Skips   int
}

// Run inserts rows in a single transaction. Rows whose key is already stored
// are skipped, so running the same import twice is a no-op.
func Run(ctx context.Context, db *sql.DB, rows []reference.Row) (Stats, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}
	for _, r := range rows {
		err := reference.InsertTx(ctx, tx, r)
		if errors.Is(err, reference.ErrDuplicateKey) {
			stats.Skips++
			continue
		}
		if err != nil {
			_ = tx.Rollback()
			return Stats{}, err
		}
		stats.Inserts++
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

// ImportFile reads the master spreadsheet at path and seeds its rows.
// A missing file imports nothing.
func ImportFile(ctx context.Context, db *sql.DB, path string, log zerolog.Logger) (Stats, error) {
	rows, err := reference.NewXLSXTable(path, log).All(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("read master file: %w", err)
	}
	stats, err := Run(ctx, db, rows)
	if err != nil {
		return Stats{}, err
	}
	log.Info().Str("path", path).Int("inserts", stats.Inserts).Int("skips", stats.Skips).Msg("reference import finished")
	return stats, nil
}
