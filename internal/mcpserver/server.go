// Package mcpserver exposes the admin service as MCP tools over stdio,
// so AI agents can browse and edit the managed tables.
package mcpserver

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tabula/internal/service"
)

// Server is the MCP server wrapping the admin service.
type Server struct {
	mcp   *server.MCPServer
	admin *service.AdminService
	log   *slog.Logger
}

// New creates and configures the MCP server with all table tools.
func New(admin *service.AdminService, log *slog.Logger) *Server {
	s := &Server{admin: admin, log: log}

	s.mcp = server.NewMCPServer(
		"tabula-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
	)
	s.registerTableTools()

	return s
}

// ServeStdio starts the MCP server on stdin/stdout and blocks.
func (s *Server) ServeStdio() error {
	s.log.Info("mcp: serving on stdio")
	return server.ServeStdio(s.mcp)
}

// textResult creates a simple text tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// jsonResult serializes v to JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}
