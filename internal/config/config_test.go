package config

import (
	"testing"

	"github.com/kimhsiao/promptvault/internal/export/scheduler"
	"github.com/kimhsiao/promptvault/internal/logging"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PROMPTVAULT_DATA_DIR", "PROMPTVAULT_ADDR", "PROMPTVAULT_BACKEND",
		"PROMPTVAULT_LOG_LEVEL", "PROMPTVAULT_WATCH",
		"PROMPTVAULT_BACKUP_INTERVAL", "PROMPTVAULT_BACKUP_RETENTION",
		"PROMPTVAULT_BACKUP_DIR",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.DataDir != "./data" {
		t.Errorf("Expected default data dir, got %q", cfg.DataDir)
	}
	if cfg.ListenAddr != "localhost:8090" {
		t.Errorf("Expected default address, got %q", cfg.ListenAddr)
	}
	if cfg.Backend != BackendFile {
		t.Errorf("Expected file backend, got %q", cfg.Backend)
	}
	if cfg.LogLevel != logging.LevelInfo {
		t.Errorf("Expected info level, got %q", cfg.LogLevel)
	}
	if !cfg.WatchFiles {
		t.Error("Expected watching enabled by default")
	}
	if cfg.BackupInterval != scheduler.IntervalManual {
		t.Errorf("Expected manual backups, got %q", cfg.BackupInterval)
	}
	if cfg.BackupRetention != 10 {
		t.Errorf("Expected retention 10, got %d", cfg.BackupRetention)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PROMPTVAULT_DATA_DIR", "/tmp/vault")
	t.Setenv("PROMPTVAULT_BACKEND", "sqlite")
	t.Setenv("PROMPTVAULT_WATCH", "false")
	t.Setenv("PROMPTVAULT_BACKUP_RETENTION", "3")

	cfg := Load()
	if cfg.DataDir != "/tmp/vault" {
		t.Errorf("Expected override, got %q", cfg.DataDir)
	}
	if cfg.Backend != BackendSQLite {
		t.Errorf("Expected sqlite backend, got %q", cfg.Backend)
	}
	if cfg.WatchFiles {
		t.Error("Expected watching disabled")
	}
	if cfg.BackupRetention != 3 {
		t.Errorf("Expected retention 3, got %d", cfg.BackupRetention)
	}
}

func TestLoadUnknownBackendFallsBack(t *testing.T) {
	t.Setenv("PROMPTVAULT_BACKEND", "redis")

	cfg := Load()
	if cfg.Backend != BackendFile {
		t.Errorf("Expected fallback to file, got %q", cfg.Backend)
	}
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("PROMPTVAULT_TEST_BOOL", "not-a-bool")
	if envBool("PROMPTVAULT_TEST_BOOL", true) != true {
		t.Error("Expected fallback for unparseable bool")
	}

	t.Setenv("PROMPTVAULT_TEST_INT", "abc")
	if envInt("PROMPTVAULT_TEST_INT", 7) != 7 {
		t.Error("Expected fallback for unparseable int")
	}
}
