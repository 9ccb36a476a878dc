// Package config loads runtime configuration from the environment, with
// optional .env file support.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/kimhsiao/promptvault/internal/export/scheduler"
	"github.com/kimhsiao/promptvault/internal/logging"
)

// BackendKind selects the storage backend implementation.
type BackendKind string

const (
	BackendFile   BackendKind = "file"
	BackendSQLite BackendKind = "sqlite"
	BackendMemory BackendKind = "memory"
)

// Config holds the runtime configuration.
type Config struct {
	DataDir         string
	ListenAddr      string
	Backend         BackendKind
	LogLevel        logging.LogLevel
	WatchFiles      bool
	BackupInterval  scheduler.BackupInterval
	BackupRetention int
	BackupDir       string
}

// Load reads configuration from the environment. A .env file in the
// working directory is loaded first when present; real environment
// variables win over it.
func Load() *Config {
	// Ignore the error: a missing .env file just means env-only config.
	_ = godotenv.Load()

	cfg := &Config{
		DataDir:         envOr("PROMPTVAULT_DATA_DIR", "./data"),
		ListenAddr:      envOr("PROMPTVAULT_ADDR", "localhost:8090"),
		Backend:         BackendKind(envOr("PROMPTVAULT_BACKEND", string(BackendFile))),
		LogLevel:        logging.LogLevel(envOr("PROMPTVAULT_LOG_LEVEL", string(logging.LevelInfo))),
		WatchFiles:      envBool("PROMPTVAULT_WATCH", true),
		BackupInterval:  scheduler.BackupInterval(envOr("PROMPTVAULT_BACKUP_INTERVAL", string(scheduler.IntervalManual))),
		BackupRetention: envInt("PROMPTVAULT_BACKUP_RETENTION", 10),
		BackupDir:       envOr("PROMPTVAULT_BACKUP_DIR", "backups"),
	}

	switch cfg.Backend {
	case BackendFile, BackendSQLite, BackendMemory:
	default:
		logging.Warn("unknown backend, falling back to file", map[string]interface{}{
			"backend": string(cfg.Backend),
		})
		cfg.Backend = BackendFile
	}

	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
