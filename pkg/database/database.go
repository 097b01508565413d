// Package database adapts a *sql.DB to the raw-query collaborator used by the
// database workflow node.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// Queryer runs raw SQL from workflow node configuration. Results come back as
// generic maps so they can flow into the execution context untyped.
type Queryer struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewQueryer(logger *slog.Logger, db *sql.DB) *Queryer {
	return &Queryer{db: db, logger: logger}
}

// QueryForList runs a SELECT and returns one map per row, keyed by column name.
func (q *Queryer) QueryForList(ctx context.Context, query string) ([]map[string]any, error) {
	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			q.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	results := make([]map[string]any, 0)

	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))

		for i := range values {
			pointers[i] = &values[i]
		}

		if err := rows.Scan(pointers...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make(map[string]any, len(columns))

		for i, column := range columns {
			// lib/pq returns []byte for text columns
			if b, ok := values[i].([]byte); ok {
				row[column] = string(b)
			} else {
				row[column] = values[i]
			}
		}

		results = append(results, row)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return results, nil
}

// Update runs a mutating statement and returns the number of affected rows.
func (q *Queryer) Update(ctx context.Context, query string) (int64, error) {
	result, err := q.db.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("statement failed: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return affected, nil
}
