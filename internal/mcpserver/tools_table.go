package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"tabula/internal/domain"
)

func (s *Server) registerTableTools() {
	s.mcp.AddTool(mcp.NewTool("list_tables",
		mcp.WithDescription("List the managed table names"),
	), s.handleListTables)

	s.mcp.AddTool(mcp.NewTool("get_table_schema",
		mcp.WithDescription("Get the column metadata and primary key of a managed table"),
		mcp.WithString("table", mcp.Description("Table name"), mcp.Required()),
	), s.handleGetTableSchema)

	s.mcp.AddTool(mcp.NewTool("list_rows",
		mcp.WithDescription("List all rows of a managed table, optionally sorted"),
		mcp.WithString("table", mcp.Description("Table name"), mcp.Required()),
		mcp.WithString("sortBy", mcp.Description("Column to sort by (optional)")),
		mcp.WithString("sortOrder", mcp.Description("asc or desc (default asc)")),
	), s.handleListRows)

	s.mcp.AddTool(mcp.NewTool("insert_row",
		mcp.WithDescription("Insert a row into a managed table. Returns the stored row including generated values."),
		mcp.WithString("table", mcp.Description("Table name"), mcp.Required()),
		mcp.WithString("row", mcp.Description("Row as a JSON object of column -> value"), mcp.Required()),
	), s.handleInsertRow)

	s.mcp.AddTool(mcp.NewTool("update_row",
		mcp.WithDescription("Update the row with the given primary key value. The primary key itself cannot be changed."),
		mcp.WithString("table", mcp.Description("Table name"), mcp.Required()),
		mcp.WithString("id", mcp.Description("Primary key value of the target row"), mcp.Required()),
		mcp.WithString("row", mcp.Description("Changed fields as a JSON object"), mcp.Required()),
	), s.handleUpdateRow)

	s.mcp.AddTool(mcp.NewTool("delete_row",
		mcp.WithDescription("Delete the row with the given primary key value"),
		mcp.WithString("table", mcp.Description("Table name"), mcp.Required()),
		mcp.WithString("id", mcp.Description("Primary key value of the target row"), mcp.Required()),
	), s.handleDeleteRow)
}

func (s *Server) handleListTables(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	overview := s.admin.Overview()
	if overview == nil {
		return textResult("No tables are managed."), nil
	}
	return jsonResult(overview.Tables)
}

func (s *Server) handleGetTableSchema(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	table := req.GetString("table", "")
	if table == "" {
		return nil, fmt.Errorf("table is required")
	}
	overview := s.admin.Overview()
	if overview == nil {
		return nil, domain.ErrUnknownTable
	}
	schema, ok := overview.Schemas[table]
	if !ok {
		return nil, domain.ErrUnknownTable
	}
	return jsonResult(schema)
}

func (s *Server) handleListRows(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	table := req.GetString("table", "")
	if table == "" {
		return nil, fmt.Errorf("table is required")
	}
	records, err := s.admin.ListRows(ctx, table,
		req.GetString("sortBy", ""), req.GetString("sortOrder", ""))
	if err != nil {
		return nil, fmt.Errorf("list rows: %w", err)
	}
	return jsonResult(records)
}

func (s *Server) handleInsertRow(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	table := req.GetString("table", "")
	rowJSON := req.GetString("row", "")
	if table == "" || rowJSON == "" {
		return nil, fmt.Errorf("table and row are required")
	}
	rec := domain.NewRecord()
	if err := json.Unmarshal([]byte(rowJSON), rec); err != nil {
		return nil, fmt.Errorf("parse row: %w", err)
	}
	created, err := s.admin.CreateRow(ctx, table, rec)
	if err != nil {
		return nil, fmt.Errorf("insert row: %w", err)
	}
	return jsonResult(created)
}

func (s *Server) handleUpdateRow(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	table := req.GetString("table", "")
	id := req.GetString("id", "")
	rowJSON := req.GetString("row", "")
	if table == "" || id == "" || rowJSON == "" {
		return nil, fmt.Errorf("table, id and row are required")
	}
	rec := domain.NewRecord()
	if err := json.Unmarshal([]byte(rowJSON), rec); err != nil {
		return nil, fmt.Errorf("parse row: %w", err)
	}
	updated, err := s.admin.UpdateRow(ctx, table, id, rec)
	if err != nil {
		return nil, fmt.Errorf("update row: %w", err)
	}
	return jsonResult(updated)
}

func (s *Server) handleDeleteRow(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	table := req.GetString("table", "")
	id := req.GetString("id", "")
	if table == "" || id == "" {
		return nil, fmt.Errorf("table and id are required")
	}
	if err := s.admin.DeleteRow(ctx, table, id); err != nil {
		return nil, fmt.Errorf("delete row: %w", err)
	}
	return textResult(fmt.Sprintf("Deleted row %s from %s.", id, table)), nil
}
