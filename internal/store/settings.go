package store

import (
	"encoding/json"
	"sync"

	"github.com/kimhsiao/promptvault/internal/apperr"
	"github.com/kimhsiao/promptvault/internal/logging"
	"github.com/kimhsiao/promptvault/internal/models"
	"github.com/kimhsiao/promptvault/internal/storage"
)

// SettingsStore owns the settings object, serving defaults when nothing is
// stored yet.
type SettingsStore struct {
	backend storage.Backend
	mu      sync.Mutex
}

// NewSettingsStore creates a settings store on top of backend.
func NewSettingsStore(backend storage.Backend) *SettingsStore {
	return &SettingsStore{backend: backend}
}

// Get returns the current settings, falling back to defaults when the blob
// is absent or corrupt.
func (s *SettingsStore) Get() (models.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *SettingsStore) load() (models.Settings, error) {
	data, ok, err := s.backend.Get(storage.KeySettings)
	if err != nil {
		logging.Error("failed to read settings", err)
		return models.DefaultSettings(), apperr.Wrap(apperr.ErrStorageRead, "failed to read settings", err)
	}
	if !ok {
		return models.DefaultSettings(), nil
	}

	var settings models.Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		logging.Error("corrupt settings payload, falling back to defaults", err)
		return models.DefaultSettings(), apperr.Wrap(apperr.ErrStorageRead, "corrupt settings payload", err)
	}
	return settings, nil
}

func (s *SettingsStore) persist(settings models.Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return apperr.Wrap(apperr.ErrStorageWrite, "failed to encode settings", err)
	}
	if err := s.backend.Set(storage.KeySettings, data); err != nil {
		return apperr.Wrap(apperr.ErrStorageWrite, "failed to write settings", err)
	}
	return nil
}

// Update merges the non-nil fields of updates onto the current settings
// and persists the result.
func (s *SettingsStore) Update(updates models.SettingsUpdate) (models.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings, _ := s.load()
	if updates.Theme != nil {
		settings.Theme = *updates.Theme
	}
	if updates.DefaultCategory != nil {
		settings.DefaultCategory = *updates.DefaultCategory
	}
	if updates.ShowUsageStats != nil {
		settings.ShowUsageStats = *updates.ShowUsageStats
	}
	if updates.EnableKeyboardShortcuts != nil {
		settings.EnableKeyboardShortcuts = *updates.EnableKeyboardShortcuts
	}
	if updates.ConfirmDelete != nil {
		settings.ConfirmDelete = *updates.ConfirmDelete
	}

	if err := s.persist(settings); err != nil {
		return settings, err
	}
	return settings, nil
}

// Replace overwrites the settings object wholesale. Used by import.
func (s *SettingsStore) Replace(settings models.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persist(settings)
}
