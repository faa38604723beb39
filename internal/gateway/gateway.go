// Package gateway executes built statements against the pooled
// database connection and maps result rows to ordered records.
package gateway

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"tabula/internal/domain"
	"tabula/internal/query"
)

const execTimeout = 30 * time.Second

// Gateway runs statements on a bounded connection pool. Reads run
// outside transactions; every mutation is a single-statement
// transaction that commits on success and rolls back on any failure.
type Gateway struct {
	db  *sql.DB
	log *slog.Logger
}

// New creates a Gateway.
func New(db *sql.DB, log *slog.Logger) *Gateway {
	return &Gateway{db: db, log: log}
}

// Select executes a read statement and returns all rows in result-set
// column order.
func (g *Gateway) Select(ctx context.Context, table string, stmt *query.Statement) ([]*domain.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, execTimeout)
	defer cancel()

	rows, err := g.db.QueryContext(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return nil, &domain.ExecError{Op: "select", Table: table, Err: err}
	}
	defer rows.Close()

	records, err := scanRecords(rows)
	if err != nil {
		return nil, &domain.ExecError{Op: "select", Table: table, Err: err}
	}
	return records, nil
}

// ExecReturning executes a mutation with a RETURNING clause inside a
// transaction and returns the single resulting row. Zero rows means
// the target record does not exist.
func (g *Gateway) ExecReturning(ctx context.Context, op, table string, stmt *query.Statement) (*domain.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, execTimeout)
	defer cancel()

	tx, err := g.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, &domain.ExecError{Op: op, Table: table, Err: err}
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return nil, &domain.ExecError{Op: op, Table: table, Err: err}
	}
	records, err := scanRecords(rows)
	rows.Close()
	if err != nil {
		return nil, &domain.ExecError{Op: op, Table: table, Err: err}
	}
	if len(records) == 0 {
		return nil, domain.ErrRecordNotFound
	}

	if err := tx.Commit(); err != nil {
		return nil, &domain.ExecError{Op: op, Table: table, Err: err}
	}
	return records[0], nil
}

// ExecAffecting executes a row-less mutation inside a transaction.
// Zero affected rows means the target record does not exist.
func (g *Gateway) ExecAffecting(ctx context.Context, op, table string, stmt *query.Statement) error {
	ctx, cancel := context.WithTimeout(ctx, execTimeout)
	defer cancel()

	tx, err := g.db.BeginTx(ctx, nil)
	if err != nil {
		return &domain.ExecError{Op: op, Table: table, Err: err}
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return &domain.ExecError{Op: op, Table: table, Err: err}
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return &domain.ExecError{Op: op, Table: table, Err: err}
	}
	if affected == 0 {
		return domain.ErrRecordNotFound
	}

	if err := tx.Commit(); err != nil {
		return &domain.ExecError{Op: op, Table: table, Err: err}
	}
	return nil
}

// scanRecords drains rows into ordered records, one per row.
func scanRecords(rows *sql.Rows) ([]*domain.Record, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var records []*domain.Record
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		rec := domain.NewRecord()
		for i, c := range cols {
			rec.Set(c, formatValue(values[i]))
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// formatValue normalizes driver values for JSON serialization.
func formatValue(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case []byte:
		return string(val)
	case time.Time:
		return val.Format(time.RFC3339)
	default:
		return val
	}
}
