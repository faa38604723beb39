// Package catalog introspects managed tables from the database's
// information schema and builds the process-wide schema registry.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"tabula/internal/domain"
)

// columnQuery lists a table's columns in ordinal order and flags
// primary-key membership via the constraint catalog. Only the `public`
// schema is considered.
const columnQuery = `
SELECT
    c.column_name,
    c.data_type,
    c.is_nullable = 'YES',
    (SELECT COUNT(*)
     FROM information_schema.table_constraints tc
     JOIN information_schema.key_column_usage kcu
       ON tc.constraint_name = kcu.constraint_name
     WHERE tc.table_name = c.table_name
       AND tc.constraint_type = 'PRIMARY KEY'
       AND kcu.column_name = c.column_name
    ) = 1
FROM information_schema.columns c
WHERE c.table_name = $1
  AND c.table_schema = 'public'
ORDER BY c.ordinal_position`

// Loader reads column metadata for the configured tables.
type Loader struct {
	db  *sql.DB
	log *slog.Logger
}

// NewLoader creates a Loader.
func NewLoader(db *sql.DB, log *slog.Logger) *Loader {
	return &Loader{db: db, log: log}
}

// Load introspects each named table and returns the registry, in
// configuration order. One bad table name never aborts startup: it is
// logged and skipped, and the remaining tables are still loaded.
func (l *Loader) Load(ctx context.Context, tableNames []string) (*domain.Registry, error) {
	reg := domain.NewRegistry()

	if len(tableNames) == 0 {
		l.log.Warn("no tables configured, nothing to manage")
		return reg, nil
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	for _, name := range tableNames {
		schema, err := l.loadTable(ctx, name)
		if err != nil {
			l.log.Error("schema introspection failed", "table", name, "error", err)
			continue
		}
		if schema == nil {
			l.log.Warn("table not found or has no columns", "table", name)
			continue
		}
		reg.Add(schema)
		l.log.Info("schema loaded",
			"table", name,
			"columns", len(schema.Columns),
			"primaryKey", schema.PrimaryKey)
	}

	return reg, nil
}

// loadTable returns nil (no error) when the table yields zero columns.
func (l *Loader) loadTable(ctx context.Context, name string) (*domain.TableSchema, error) {
	rows, err := l.db.QueryContext(ctx, columnQuery, name)
	if err != nil {
		return nil, fmt.Errorf("query columns: %w", err)
	}
	defer rows.Close()

	var cols []domain.ColumnInfo
	for rows.Next() {
		var ci domain.ColumnInfo
		if err := rows.Scan(&ci.Name, &ci.DataType, &ci.Nullable, &ci.IsPrimaryKey); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		cols = append(cols, ci)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate columns: %w", err)
	}
	if len(cols) == 0 {
		return nil, nil
	}

	schema := &domain.TableSchema{Name: name, Columns: cols}
	// First flagged column wins; composite primary keys are not modeled.
	for _, c := range cols {
		if c.IsPrimaryKey {
			schema.PrimaryKey = c.Name
			break
		}
	}
	return schema, nil
}
