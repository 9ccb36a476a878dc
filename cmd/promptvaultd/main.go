// Package main runs the PromptVault local daemon: the persistent prompt
// store and its query pipeline behind a localhost REST/WebSocket API.
package main

import (
	"context"
	"net/http"
	"os"

	"github.com/kimhsiao/promptvault/internal/config"
	"github.com/kimhsiao/promptvault/internal/export"
	"github.com/kimhsiao/promptvault/internal/export/scheduler"
	"github.com/kimhsiao/promptvault/internal/logging"
	"github.com/kimhsiao/promptvault/internal/models"
	"github.com/kimhsiao/promptvault/internal/notify"
	"github.com/kimhsiao/promptvault/internal/query"
	"github.com/kimhsiao/promptvault/internal/server"
	"github.com/kimhsiao/promptvault/internal/storage"
	"github.com/kimhsiao/promptvault/internal/store"
)

// Version is set at build time.
var Version = "0.1.0"

func main() {
	cfg := config.Load()
	logging.Init(os.Stdout, cfg.LogLevel)
	logging.Info("PromptVault starting", map[string]interface{}{
		"version": Version,
		"backend": string(cfg.Backend),
		"addr":    cfg.ListenAddr,
	})

	backend, fileBackend, err := openBackend(cfg)
	if err != nil {
		logging.Error("failed to open storage backend", err)
		os.Exit(1)
	}

	prompts := store.NewPromptStore(backend)
	categories := store.NewCategoryStore(backend)
	settings := store.NewSettingsStore(backend)
	exporter := export.NewService(prompts, categories, settings)

	// The server is constructed after the pipeline and queue, so their
	// callbacks close over the variable and reach the hub once it exists.
	var srv *server.Server

	pipeline := query.NewPipeline(func(visible []models.Prompt) {
		if srv == nil {
			return
		}
		srv.Hub().Broadcast(server.EventVisibleSet, map[string]interface{}{
			"prompts": visible,
			"count":   len(visible),
		})
	})
	defer pipeline.Stop()

	notifications := notify.NewQueue(func(entries []notify.Notification) {
		if srv == nil {
			return
		}
		srv.Hub().Broadcast(server.EventNotifications, map[string]interface{}{
			"notifications": entries,
		})
	})

	srv = server.New(server.Options{
		Backend:       backend,
		Prompts:       prompts,
		Categories:    categories,
		Settings:      settings,
		Exporter:      exporter,
		Pipeline:      pipeline,
		Notifications: notifications,
	})

	// Seed the pipeline with the stored collection.
	if initial, err := prompts.GetAll(); err == nil {
		pipeline.SetPrompts(initial)
	}

	// External edits to the data files (another process, a sync tool)
	// flow back into the pipeline.
	if fileBackend != nil && cfg.WatchFiles {
		err := fileBackend.Watch(func(key string) {
			if key != storage.KeyPrompts {
				return
			}
			refreshed, _ := prompts.GetAll()
			pipeline.SetPrompts(refreshed)
		})
		if err != nil {
			logging.Warn("file watching disabled", map[string]interface{}{"error": err.Error()})
		} else {
			defer fileBackend.Close()
		}
	}

	backups := scheduler.New(exporter, &scheduler.Config{
		Interval:       cfg.BackupInterval,
		RetentionCount: cfg.BackupRetention,
		BackupDir:      cfg.BackupDir,
	})
	if err := backups.Start(context.Background()); err != nil {
		logging.Error("failed to start backup scheduler", err)
		os.Exit(1)
	}

	logging.Info("listening", map[string]interface{}{"addr": cfg.ListenAddr})
	if err := http.ListenAndServe(cfg.ListenAddr, srv.Router()); err != nil {
		logging.Error("server exited", err)
		os.Exit(1)
	}
}

// openBackend builds the configured storage backend. The second return is
// non-nil only for the file backend, which supports watching.
func openBackend(cfg *config.Config) (storage.Backend, *storage.File, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		backend, err := storage.OpenSQLite(cfg.DataDir)
		return backend, nil, err
	case config.BackendMemory:
		return storage.NewMemory(), nil, nil
	default:
		backend, err := storage.NewFile(cfg.DataDir)
		return backend, backend, err
	}
}
