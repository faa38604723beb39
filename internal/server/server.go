// Package server exposes the admin service over HTTP: the JSON API,
// the health endpoint, and the embedded static front end.
package server

import (
	"io/fs"
	"log/slog"
	"net/http"

	"tabula/internal/service"
)

// Server holds the HTTP handler dependencies.
type Server struct {
	admin  *service.AdminService
	health *service.HealthService
	log    *slog.Logger
	static fs.FS
}

// New creates a Server. static is the root of the embedded front end
// (index.html and friends); nil disables static serving.
func New(admin *service.AdminService, health *service.HealthService, log *slog.Logger, static fs.FS) *Server {
	return &Server{admin: admin, health: health, log: log, static: static}
}

// Handler builds the route table with logging and request-ID middleware
// applied to the whole tree.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/schema", s.handleSchema)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/data/{table}", s.handleList)
	mux.HandleFunc("GET /api/data/{table}/export", s.handleExport)
	mux.HandleFunc("POST /api/data/{table}", s.handleCreate)
	mux.HandleFunc("PUT /api/data/{table}/{id}", s.handleUpdate)
	mux.HandleFunc("DELETE /api/data/{table}/{id}", s.handleDelete)

	if s.static != nil {
		mux.Handle("GET /", http.FileServerFS(s.static))
	}

	return s.withRequestID(s.withAccessLog(mux))
}
