// Package query assembles parameterized SQL for the four CRUD
// operations. User-supplied values are always bound as placeholders;
// only registry-validated identifiers are ever inlined into SQL text.
package query

import (
	"fmt"
	"strings"

	"tabula/internal/domain"
)

// Statement is a ready-to-execute SQL string plus its bind values.
type Statement struct {
	SQL  string
	Args []any
}

// Builder constructs statements against the schema registry.
type Builder struct {
	reg *domain.Registry
}

// NewBuilder creates a Builder for the given registry.
func NewBuilder(reg *domain.Registry) *Builder {
	return &Builder{reg: reg}
}

// quoteIdent wraps an identifier in double quotes, doubling any embedded
// quote. Every identifier that reaches SQL text goes through here.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// Select builds `SELECT * FROM "t" [ORDER BY ...]`.
//
// With no sort column requested, rows are ordered ascending by the
// table's primary key when it has one; otherwise ordering is left to
// the database.
func (b *Builder) Select(table, sortBy, sortOrder string) (*Statement, error) {
	schema, ok := b.reg.Get(table)
	if !ok {
		return nil, domain.ErrUnknownTable
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT * FROM %s", quoteIdent(table))

	switch {
	case sortBy != "":
		if !schema.HasColumn(sortBy) {
			return nil, domain.ErrInvalidSortColumn
		}
		dir := strings.ToUpper(sortOrder)
		if dir == "" {
			dir = "ASC"
		}
		if dir != "ASC" && dir != "DESC" {
			return nil, domain.ErrInvalidSortOrder
		}
		fmt.Fprintf(&sb, " ORDER BY %s %s", quoteIdent(sortBy), dir)
	case schema.PrimaryKey != "":
		fmt.Fprintf(&sb, " ORDER BY %s ASC", quoteIdent(schema.PrimaryKey))
	}

	return &Statement{SQL: sb.String()}, nil
}

// Insert builds `INSERT INTO "t" (...) VALUES ($1..) RETURNING *`.
//
// The column list is taken verbatim from the record's keys: an unknown
// column surfaces as a database error rather than a validation error.
func (b *Builder) Insert(table string, rec *domain.Record) (*Statement, error) {
	if _, ok := b.reg.Get(table); !ok {
		return nil, domain.ErrUnknownTable
	}
	if rec.Len() == 0 {
		return nil, domain.ErrEmptyRecord
	}

	keys := rec.Keys()
	cols := make([]string, len(keys))
	params := make([]string, len(keys))
	for i, k := range keys {
		cols[i] = quoteIdent(k)
		params[i] = fmt.Sprintf("$%d", i+1)
	}

	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING *",
		quoteIdent(table), strings.Join(cols, ", "), strings.Join(params, ", "))
	return &Statement{SQL: sql, Args: rec.Values()}, nil
}

// Update builds `UPDATE "t" SET ... WHERE "pk" = $n RETURNING *`.
//
// A primary-key field in the record is skipped, not applied: the key
// itself is never updatable through this path. The record is left
// untouched.
func (b *Builder) Update(table, id string, rec *domain.Record) (*Statement, error) {
	schema, ok := b.reg.Get(table)
	if !ok {
		return nil, domain.ErrUnknownTable
	}
	if schema.PrimaryKey == "" {
		return nil, domain.ErrMissingPrimaryKey
	}

	var sets []string
	var args []any
	for _, k := range rec.Keys() {
		if k == schema.PrimaryKey {
			continue
		}
		v, _ := rec.Get(k)
		sets = append(sets, fmt.Sprintf("%s = $%d", quoteIdent(k), len(sets)+1))
		args = append(args, v)
	}
	if len(sets) == 0 {
		return nil, domain.ErrEmptyRecord
	}

	sql := fmt.Sprintf("UPDATE %s SET %s WHERE %s = $%d RETURNING *",
		quoteIdent(table), strings.Join(sets, ", "),
		quoteIdent(schema.PrimaryKey), len(sets)+1)
	args = append(args, id)
	return &Statement{SQL: sql, Args: args}, nil
}

// Delete builds `DELETE FROM "t" WHERE "pk" = $1`.
func (b *Builder) Delete(table, id string) (*Statement, error) {
	schema, ok := b.reg.Get(table)
	if !ok {
		return nil, domain.ErrUnknownTable
	}
	if schema.PrimaryKey == "" {
		return nil, domain.ErrMissingPrimaryKey
	}

	sql := fmt.Sprintf("DELETE FROM %s WHERE %s = $1",
		quoteIdent(table), quoteIdent(schema.PrimaryKey))
	return &Statement{SQL: sql, Args: []any{id}}, nil
}
