package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"

	"tabula/internal/domain"
	"tabula/internal/gateway"
	"tabula/internal/query"
)

// ─────────────────────────────────────────────────────────────
// Admin Service — CRUD over the managed tables
// ─────────────────────────────────────────────────────────────

// AdminService composes the schema registry, the query builder, and the
// record gateway behind one API shared by the HTTP and MCP surfaces.
type AdminService struct {
	registry *domain.Registry
	builder  *query.Builder
	gateway  *gateway.Gateway
	log      *slog.Logger
}

// NewAdminService creates an AdminService.
func NewAdminService(reg *domain.Registry, gw *gateway.Gateway, log *slog.Logger) *AdminService {
	return &AdminService{
		registry: reg,
		builder:  query.NewBuilder(reg),
		gateway:  gw,
		log:      log,
	}
}

// Overview is the schema endpoint payload: table names in configuration
// order plus the full schema of each.
type Overview struct {
	Tables  []string                       `json:"tables"`
	Schemas map[string]*domain.TableSchema `json:"schemas"`
}

// Overview returns the registry contents. Nil when no table was loaded.
func (s *AdminService) Overview() *Overview {
	if s.registry.Len() == 0 {
		return nil
	}
	schemas := make(map[string]*domain.TableSchema, s.registry.Len())
	for _, name := range s.registry.Tables() {
		schema, _ := s.registry.Get(name)
		schemas[name] = schema
	}
	return &Overview{Tables: s.registry.Tables(), Schemas: schemas}
}

// ListRows returns all rows of a table, sorted as requested or by the
// primary key ascending when no sort is given.
func (s *AdminService) ListRows(ctx context.Context, table, sortBy, sortOrder string) ([]*domain.Record, error) {
	stmt, err := s.builder.Select(table, sortBy, sortOrder)
	if err != nil {
		return nil, err
	}
	return s.gateway.Select(ctx, table, stmt)
}

// CreateRow inserts a record and returns the row as stored, including
// database-generated values.
func (s *AdminService) CreateRow(ctx context.Context, table string, rec *domain.Record) (*domain.Record, error) {
	stmt, err := s.builder.Insert(table, rec)
	if err != nil {
		return nil, err
	}
	created, err := s.gateway.ExecReturning(ctx, "insert", table, stmt)
	if err != nil {
		return nil, err
	}
	s.log.Info("row created", "table", table)
	return created, nil
}

// UpdateRow updates the record identified by id. A primary-key field in
// the body is ignored, never applied.
func (s *AdminService) UpdateRow(ctx context.Context, table, id string, rec *domain.Record) (*domain.Record, error) {
	stmt, err := s.builder.Update(table, id, rec)
	if err != nil {
		return nil, err
	}
	updated, err := s.gateway.ExecReturning(ctx, "update", table, stmt)
	if err != nil {
		return nil, err
	}
	s.log.Info("row updated", "table", table, "id", id)
	return updated, nil
}

// DeleteRow deletes the record identified by id.
func (s *AdminService) DeleteRow(ctx context.Context, table, id string) error {
	stmt, err := s.builder.Delete(table, id)
	if err != nil {
		return err
	}
	if err := s.gateway.ExecAffecting(ctx, "delete", table, stmt); err != nil {
		return err
	}
	s.log.Info("row deleted", "table", table, "id", id)
	return nil
}

// ExportCSV writes the whole table as CSV, header row first, columns in
// schema order, rows in default (primary key) order.
func (s *AdminService) ExportCSV(ctx context.Context, table string, w io.Writer) error {
	schema, ok := s.registry.Get(table)
	if !ok {
		return domain.ErrUnknownTable
	}
	records, err := s.ListRows(ctx, table, "", "")
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	cols := schema.ColumnNames()
	if err := cw.Write(cols); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	row := make([]string, len(cols))
	for _, rec := range records {
		for i, c := range cols {
			v, _ := rec.Get(c)
			if v == nil {
				row[i] = ""
			} else {
				row[i] = fmt.Sprint(v)
			}
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
