// Package store tests for the settings store.
package store

import (
	"testing"

	"github.com/kimhsiao/promptvault/internal/models"
	"github.com/kimhsiao/promptvault/internal/storage"
)

func TestSettingsDefaults(t *testing.T) {
	s := NewSettingsStore(storage.NewMemory())

	settings, err := s.Get()
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if settings != models.DefaultSettings() {
		t.Errorf("Expected defaults, got %+v", settings)
	}
}

func TestSettingsPartialUpdate(t *testing.T) {
	s := NewSettingsStore(storage.NewMemory())

	theme := "light"
	updated, err := s.Update(models.SettingsUpdate{Theme: &theme})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if updated.Theme != "light" {
		t.Errorf("Expected light theme, got %q", updated.Theme)
	}
	if !updated.ConfirmDelete {
		t.Error("Expected untouched fields to keep their values")
	}

	// The merge result is persisted.
	reloaded, _ := s.Get()
	if reloaded != updated {
		t.Errorf("Expected persisted settings %+v, got %+v", updated, reloaded)
	}
}

func TestSettingsCorruptFallsBackToDefaults(t *testing.T) {
	backend := storage.NewMemory()
	backend.Set(storage.KeySettings, []byte("???"))
	s := NewSettingsStore(backend)

	settings, err := s.Get()
	if err == nil {
		t.Error("Expected error for corrupt settings")
	}
	if settings != models.DefaultSettings() {
		t.Errorf("Expected default fallback, got %+v", settings)
	}
}

func TestSettingsReplace(t *testing.T) {
	s := NewSettingsStore(storage.NewMemory())

	imported := models.Settings{Theme: "light", DefaultCategory: "coding"}
	if err := s.Replace(imported); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}

	settings, _ := s.Get()
	if settings != imported {
		t.Errorf("Expected %+v, got %+v", imported, settings)
	}
}
