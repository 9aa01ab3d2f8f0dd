package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/steadfast/idlerest/internal/config"
	"github.com/steadfast/idlerest/internal/db"
	"github.com/steadfast/idlerest/internal/logging"
	"github.com/steadfast/idlerest/internal/migrations"
	"github.com/steadfast/idlerest/internal/reference"
)

type GlobalOptions struct {
	ReferenceBackend string
	ReferenceFile    string
	DBPath           string
	LogLevel         string
}

func DefaultGlobalOptions(cfg config.Config) GlobalOptions {
	return GlobalOptions{
		ReferenceBackend: cfg.ReferenceBackend,
		ReferenceFile:    cfg.ReferenceFile,
		DBPath:           cfg.DBPath,
		LogLevel:         cfg.LogLevel,
	}
}

func (o *GlobalOptions) Bind(fs *pflag.FlagSet) {
	fs.StringVar(&o.ReferenceBackend, "reference-backend", o.ReferenceBackend, "Reference table storage: xlsx or sqlite")
	fs.StringVar(&o.ReferenceFile, "reference-file", o.ReferenceFile, "Path of the master reference spreadsheet")
	fs.StringVar(&o.DBPath, "db-path", o.DBPath, "Path of the SQLite database")
	fs.StringVar(&o.LogLevel, "log-level", o.LogLevel, "Log level (debug, info, warn, error)")
}

// Logger writes human readable logs to stderr so that stdout stays clean.
func (o *GlobalOptions) Logger() zerolog.Logger {
	return logging.NewWithWriter(o.LogLevel, true, os.Stderr)
}

// OpenDB opens the database and applies pending migrations.
func (o *GlobalOptions) OpenDB(ctx context.Context) (*sql.DB, error) {
	database, err := db.Open(ctx, o.DBPath)
	if err != nil {
		return nil, err
	}
	if err := migrations.Up(database); err != nil {
		database.Close()
		return nil, fmt.Errorf("run database migrations: %w", err)
	}
	return database, nil
}

// OpenTable returns the configured reference table and a function releasing it.
func (o *GlobalOptions) OpenTable(ctx context.Context) (reference.Table, func(), error) {
	switch o.ReferenceBackend {
	case config.ReferenceSQLite:
		database, err := o.OpenDB(ctx)
		if err != nil {
			return nil, nil, err
		}
		return reference.NewSQLTable(database), func() { _ = database.Close() }, nil
	case config.ReferenceXLSX, "":
		return reference.NewXLSXTable(o.ReferenceFile, o.Logger()), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown reference backend %q", o.ReferenceBackend)
	}
}
