// Package config reads the service configuration from the environment,
// optionally seeded from a .env file.
package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	defaultPort = 8000

	// The connection pool is bounded regardless of configuration.
	minPoolMax = 1
	maxPoolMax = 5
)

// Config is the resolved service configuration.
type Config struct {
	DatabaseURL string
	Tables      []string // configuration order is significant
	Port        int
	PoolMax     int
	SeqURL      string
	EnvFile     string // path of the loaded .env file, empty if none
}

// Load reads .env (when present) and then the environment.
// DATABASE_URL is the only required setting.
func Load() (*Config, error) {
	cfg := &Config{Port: defaultPort, PoolMax: maxPoolMax}

	if err := loadDotEnv(".env"); err == nil {
		cfg.EnvFile = ".env"
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read .env: %w", err)
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	cfg.Tables = splitTables(os.Getenv("TABLES"))
	cfg.SeqURL = os.Getenv("SEQ_URL")

	if v := os.Getenv("PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		cfg.Port = p
	}
	if v := os.Getenv("DB_POOL_MAX"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid DB_POOL_MAX %q: %w", v, err)
		}
		cfg.PoolMax = n
	}
	if cfg.PoolMax < minPoolMax {
		cfg.PoolMax = minPoolMax
	}
	if cfg.PoolMax > maxPoolMax {
		cfg.PoolMax = maxPoolMax
	}

	return cfg, nil
}

// splitTables parses the comma-separated table list, trimming blanks.
func splitTables(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var tables []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tables = append(tables, t)
		}
	}
	return tables
}

// loadDotEnv applies KEY=VALUE lines to the environment. Variables
// already set in the real environment win.
func loadDotEnv(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		value = strings.Trim(value, `"'`)
		if _, exists := os.LookupEnv(key); !exists {
			os.Setenv(key, value)
		}
	}
	return sc.Err()
}
