package service

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// ─────────────────────────────────────────────────────────────
// Health Service — periodic pool reporting + on-demand checks
// ─────────────────────────────────────────────────────────────

// HealthService pings the database on a schedule and logs connection
// pool statistics. The same check backs the health endpoint.
type HealthService struct {
	db   *sql.DB
	log  *slog.Logger
	cron *cron.Cron
}

// NewHealthService creates a HealthService.
func NewHealthService(db *sql.DB, log *slog.Logger) *HealthService {
	return &HealthService{db: db, log: log}
}

// HealthStatus is the health endpoint payload.
type HealthStatus struct {
	Status          string `json:"status"` // "ok" | "degraded"
	Error           string `json:"error,omitempty"`
	OpenConnections int    `json:"openConnections"`
	InUse           int    `json:"inUse"`
	Idle            int    `json:"idle"`
	WaitCount       int64  `json:"waitCount"`
}

// Check pings the database and snapshots pool statistics.
func (s *HealthService) Check(ctx context.Context) *HealthStatus {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	stats := s.db.Stats()
	status := &HealthStatus{
		Status:          "ok",
		OpenConnections: stats.OpenConnections,
		InUse:           stats.InUse,
		Idle:            stats.Idle,
		WaitCount:       stats.WaitCount,
	}
	if err := s.db.PingContext(ctx); err != nil {
		status.Status = "degraded"
		status.Error = err.Error()
	}
	return status
}

// Start schedules the periodic report. Safe to call once.
func (s *HealthService) Start() {
	c := cron.New()
	_, err := c.AddFunc("@every 1m", s.report)
	if err != nil {
		s.log.Error("health cron: schedule failed", "error", err)
		return
	}
	c.Start()
	s.cron = c
}

// Stop tears down the scheduler.
func (s *HealthService) Stop() {
	if s.cron != nil {
		s.cron.Stop()
		s.cron = nil
	}
}

func (s *HealthService) report() {
	status := s.Check(context.Background())
	if status.Status != "ok" {
		s.log.Warn("database unreachable", "error", status.Error)
		return
	}
	s.log.Debug("pool stats",
		"open", status.OpenConnections,
		"inUse", status.InUse,
		"idle", status.Idle,
		"waits", status.WaitCount)
}
