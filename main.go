package main

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"tabula/internal/catalog"
	"tabula/internal/config"
	"tabula/internal/gateway"
	"tabula/internal/logging"
	"tabula/internal/mcpserver"
	"tabula/internal/server"
	"tabula/internal/service"
)

//go:embed all:public
var assets embed.FS

func main() {
	mcpMode := flag.Bool("mcp", false, "serve MCP tools on stdio instead of HTTP")
	flag.Parse()

	if err := run(*mcpMode); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(mcpMode bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, closeLog := logging.Setup(os.Stderr, cfg.SeqURL)
	defer closeLog()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.PoolMax)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(10 * time.Minute)

	pingCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	err = db.PingContext(pingCtx)
	cancel()
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}

	log.Info("loading table schemas", "tables", cfg.Tables)
	registry, err := catalog.NewLoader(db, log).Load(context.Background(), cfg.Tables)
	if err != nil {
		return fmt.Errorf("load schemas: %w", err)
	}

	gw := gateway.New(db, log)
	admin := service.NewAdminService(registry, gw, log)

	if mcpMode {
		return mcpserver.New(admin, log).ServeStdio()
	}

	health := service.NewHealthService(db, log)
	health.Start()
	defer health.Stop()

	if cfg.EnvFile != "" {
		if w, err := config.WatchEnvFile(cfg.EnvFile, log); err != nil {
			log.Warn("config watcher unavailable", "error", err)
		} else {
			defer w.Close()
		}
	}

	static, err := fs.Sub(assets, "public")
	if err != nil {
		return fmt.Errorf("static assets: %w", err)
	}

	srv := server.New(admin, health, log, static)
	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: srv.Handler(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", httpServer.Addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
	}
	return nil
}
