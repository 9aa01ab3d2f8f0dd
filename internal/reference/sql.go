package reference

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SQLTable keeps the reference table in the reference_costs table created by
// the migrations.
type SQLTable struct {
	db *sql.DB
}

// NewSQLTable returns a table backed by db.
func NewSQLTable(db *sql.DB) *SQLTable {
	return &SQLTable{db: db}
}

const selectColumns = `
	pipe_od, shaft_dia,
	bearing_cost, cup_cost, seal_cost, circlip_cost,
	painting, welding, handling,
	pipe_machining, rod_machining, rod_milling, assembly
`

func (t *SQLTable) Lookup(ctx context.Context, key Key) (Row, bool, error) {
	row := t.db.QueryRowContext(ctx, `
		SELECT`+selectColumns+`
		FROM reference_costs
		WHERE pipe_od = ? AND shaft_dia = ?
		ORDER BY id
		LIMIT 1
	`, key.PipeOD, key.ShaftDia)

	r, err := scanRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Row{}, false, nil
	}
	if err != nil {
		return Row{}, false, fmt.Errorf("query reference row: %w", err)
	}
	return r, true, nil
}

func (t *SQLTable) Persist(ctx context.Context, r Row) error {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reference transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := insertRow(ctx, tx, r); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reference transaction: %w", err)
	}
	return nil
}

func (t *SQLTable) All(ctx context.Context) ([]Row, error) {
	rows, err := t.db.QueryContext(ctx, `SELECT`+selectColumns+`FROM reference_costs ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query reference rows: %w", err)
	}
	defer rows.Close()

	out := make([]Row, 0)
	for rows.Next() {
		r, err := scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reference row: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reference rows: %w", err)
	}
	return out, nil
}

// InsertTx appends r inside an existing transaction. It is used by bulk
// imports that commit many rows at once.
func InsertTx(ctx context.Context, tx *sql.Tx, r Row) error {
	return insertRow(ctx, tx, r)
}

func insertRow(ctx context.Context, tx *sql.Tx, r Row) error {
	var exists bool
	if err := tx.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM reference_costs WHERE pipe_od = ? AND shaft_dia = ? LIMIT 1)
	`, r.PipeOD, r.ShaftDia).Scan(&exists); err != nil {
		return fmt.Errorf("check reference row existence: %w", err)
	}
	if exists {
		return fmt.Errorf("pipe OD %g, shaft dia %g: %w", r.PipeOD, r.ShaftDia, ErrDuplicateKey)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO reference_costs (
			pipe_od, shaft_dia,
			bearing_cost, cup_cost, seal_cost, circlip_cost,
			painting, welding, handling,
			pipe_machining, rod_machining, rod_milling, assembly
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		r.PipeOD, r.ShaftDia,
		r.BoughtOut.Bearing, r.BoughtOut.Cup, r.BoughtOut.Seal, r.BoughtOut.Circlip,
		r.Conversion.Painting, r.Conversion.Welding, r.Conversion.Handling,
		r.Conversion.PipeMachining, r.Conversion.RodMachining, r.Conversion.RodMilling, r.Conversion.Assembly,
	); err != nil {
		return fmt.Errorf("insert reference row: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRow(s scanner) (Row, error) {
	var r Row
	err := s.Scan(
		&r.PipeOD, &r.ShaftDia,
		&r.BoughtOut.Bearing, &r.BoughtOut.Cup, &r.BoughtOut.Seal, &r.BoughtOut.Circlip,
		&r.Conversion.Painting, &r.Conversion.Welding, &r.Conversion.Handling,
		&r.Conversion.PipeMachining, &r.Conversion.RodMachining, &r.Conversion.RodMilling, &r.Conversion.Assembly,
	)
	return r, err
}
