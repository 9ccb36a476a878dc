// Package scheduler provides automatic periodic backups of the vault: the
// export document is written to a backups directory on an interval, with
// old archives pruned past a retention count.
package scheduler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/kimhsiao/promptvault/internal/export"
	"github.com/kimhsiao/promptvault/internal/logging"
)

// BackupInterval defines the scheduling frequency.
type BackupInterval string

const (
	IntervalManual BackupInterval = "manual"
	IntervalHourly BackupInterval = "hourly"
	IntervalDaily  BackupInterval = "daily"
	IntervalWeekly BackupInterval = "weekly"
)

// Config holds the scheduler configuration.
type Config struct {
	Interval       BackupInterval // how often to back up
	RetentionCount int            // number of backups to keep (0 = unlimited)
	BackupDir      string         // directory for backup files (default: "backups")
}

// Scheduler manages automatic backups.
type Scheduler struct {
	service *export.Service
	config  *Config
	ticker  *time.Ticker
	stopCh  chan struct{}
}

// New creates a backup scheduler.
func New(service *export.Service, config *Config) *Scheduler {
	if config.BackupDir == "" {
		config.BackupDir = "backups"
	}
	if config.RetentionCount < 0 {
		config.RetentionCount = 0
	}

	return &Scheduler{
		service: service,
		config:  config,
		stopCh:  make(chan struct{}),
	}
}

// Start begins periodic backups. Manual mode disables them.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.config.Interval == IntervalManual {
		logging.Info("backup scheduler in manual mode, automatic backups disabled")
		return nil
	}

	dur, err := s.intervalDuration()
	if err != nil {
		return fmt.Errorf("invalid interval: %w", err)
	}

	s.ticker = time.NewTicker(dur)
	logging.Info("backup scheduler started", map[string]interface{}{
		"interval":  string(s.config.Interval),
		"retention": s.config.RetentionCount,
	})

	go func() {
		for {
			select {
			case <-s.ticker.C:
				if err := s.RunBackup(); err != nil {
					logging.Error("scheduled backup failed", err)
				}
			case <-s.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop halts the scheduler.
func (s *Scheduler) Stop() {
	if s.ticker != nil {
		s.ticker.Stop()
	}
	close(s.stopCh)
}

// RunBackup writes one backup file and prunes old ones.
func (s *Scheduler) RunBackup() error {
	data, err := s.service.Export()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.config.BackupDir, 0755); err != nil {
		return fmt.Errorf("failed to create backup directory: %w", err)
	}

	name := fmt.Sprintf("promptvault_%s.json", time.Now().Format("20060102_150405"))
	path := filepath.Join(s.config.BackupDir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}

	logging.Info("backup written", map[string]interface{}{
		"path": path,
		"size": len(data),
	})

	return s.prune()
}

// prune removes the oldest backups beyond the retention count.
func (s *Scheduler) prune() error {
	if s.config.RetentionCount == 0 {
		return nil
	}

	entries, err := filepath.Glob(filepath.Join(s.config.BackupDir, "promptvault_*.json"))
	if err != nil {
		return err
	}
	if len(entries) <= s.config.RetentionCount {
		return nil
	}

	// Timestamped names sort chronologically.
	sort.Strings(entries)
	for _, stale := range entries[:len(entries)-s.config.RetentionCount] {
		if err := os.Remove(stale); err != nil {
			logging.Warn("failed to prune backup", map[string]interface{}{
				"path":  stale,
				"error": err.Error(),
			})
		}
	}
	return nil
}

func (s *Scheduler) intervalDuration() (time.Duration, error) {
	switch s.config.Interval {
	case IntervalHourly:
		return time.Hour, nil
	case IntervalDaily:
		return 24 * time.Hour, nil
	case IntervalWeekly:
		return 7 * 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("unknown interval: %s", s.config.Interval)
	}
}
