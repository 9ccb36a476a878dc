// Package export provides versioned snapshot export and atomic import for
// the PromptVault collections.
package export

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/kimhsiao/promptvault/internal/apperr"
	"github.com/kimhsiao/promptvault/internal/logging"
	"github.com/kimhsiao/promptvault/internal/models"
	"github.com/kimhsiao/promptvault/internal/store"
)

// Service produces and consumes the user-facing export document.
type Service struct {
	prompts    *store.PromptStore
	categories *store.CategoryStore
	settings   *store.SettingsStore
	now        func() time.Time
}

// NewService creates an export service over the three stores.
func NewService(prompts *store.PromptStore, categories *store.CategoryStore, settings *store.SettingsStore) *Service {
	return &Service{
		prompts:    prompts,
		categories: categories,
		settings:   settings,
		now:        time.Now,
	}
}

// Export serializes the full prompt collection, category table and settings
// into a single indented JSON document with an export timestamp and the
// format version tag.
func (s *Service) Export() ([]byte, error) {
	prompts, err := s.prompts.GetAll()
	if err != nil {
		// A corrupt prompts blob exports as empty rather than failing the
		// whole backup; the read error has already been logged.
		logging.Warn("exporting with unreadable prompts collection")
	}
	categories, _ := s.categories.GetAll()
	settings, _ := s.settings.Get()

	snapshot := models.Snapshot{
		Prompts:    prompts,
		Categories: categories,
		Settings:   &settings,
		ExportDate: s.now().UTC(),
		Version:    models.SnapshotVersion,
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrExportFailed, "failed to encode snapshot", err)
	}
	return data, nil
}

// importEnvelope mirrors the export document with raw sections so presence
// and well-formedness can be checked per section before anything is
// written. Unknown top-level fields are ignored by json.Unmarshal.
type importEnvelope struct {
	Prompts    json.RawMessage `json:"prompts"`
	Categories json.RawMessage `json:"categories"`
	Settings   json.RawMessage `json:"settings"`
	ExportDate string          `json:"exportDate"`
	Version    string          `json:"version"`
}

// present reports whether a section carries a real value. A literal null
// counts as absent: overwriting a collection with nothing would wipe it.
func present(raw json.RawMessage) bool {
	return raw != nil && string(bytes.TrimSpace(raw)) != "null"
}

// Import parses an export document and overwrites each collection present
// in it. Absent or null sections leave the current state untouched. Any
// parse failure, of the envelope or of a section, aborts before the first
// write so a failed import never leaves the store partially mutated.
func (s *Service) Import(payload []byte) error {
	// First pass rejects anything that is not a JSON object, including a
	// bare "null" that would otherwise decode into an empty envelope.
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(payload, &probe); err != nil || probe == nil {
		return apperr.Wrap(apperr.ErrImportFormat, "payload is not a valid export document", err)
	}

	var envelope importEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return apperr.Wrap(apperr.ErrImportFormat, "payload is not a valid export document", err)
	}

	// Decode every present section up front; nothing is written until all
	// of them parse.
	var prompts []models.Prompt
	if present(envelope.Prompts) {
		if err := json.Unmarshal(envelope.Prompts, &prompts); err != nil {
			return apperr.Wrap(apperr.ErrImportFormat, "prompts section is malformed", err)
		}
	}

	var categories []models.Category
	if present(envelope.Categories) {
		if err := json.Unmarshal(envelope.Categories, &categories); err != nil {
			return apperr.Wrap(apperr.ErrImportFormat, "categories section is malformed", err)
		}
	}

	var settings *models.Settings
	if present(envelope.Settings) {
		settings = &models.Settings{}
		if err := json.Unmarshal(envelope.Settings, settings); err != nil {
			return apperr.Wrap(apperr.ErrImportFormat, "settings section is malformed", err)
		}
	}

	// The version tag is read but not negotiated. An unexpected tag is
	// imported best-effort with a warning; the format has a single version
	// and future ones are assumed additive.
	if envelope.Version != "" && envelope.Version != models.SnapshotVersion {
		logging.Warn("importing snapshot with unexpected version", map[string]interface{}{
			"version":  envelope.Version,
			"expected": models.SnapshotVersion,
		})
	}

	if present(envelope.Prompts) {
		if err := s.prompts.ReplaceAll(prompts); err != nil {
			return err
		}
	}
	if present(envelope.Categories) {
		if err := s.categories.ReplaceAll(categories); err != nil {
			return err
		}
	}
	if settings != nil {
		if err := s.settings.Replace(*settings); err != nil {
			return err
		}
	}

	logging.Info("snapshot imported", map[string]interface{}{
		"prompts":    len(prompts),
		"categories": len(categories),
	})
	return nil
}

// SetClock overrides the time source. Tests only.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}
