package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kimhsiao/promptvault/internal/apperr"
	"github.com/kimhsiao/promptvault/internal/models"
	"github.com/kimhsiao/promptvault/internal/query"
	"github.com/kimhsiao/promptvault/internal/storage"
	"github.com/kimhsiao/promptvault/internal/validate"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "promptvault",
	})
}

// =====================================================
// Prompt handlers
// =====================================================

func (s *Server) handleListPrompts(w http.ResponseWriter, r *http.Request) {
	prompts, err := s.prompts.GetAll()
	if err != nil {
		// Corrupt payload: serve the empty fallback and tell the user.
		s.notifications.Error("Failed to load prompts")
	}
	writeJSON(w, http.StatusOK, prompts)
}

func (s *Server) handleAddPrompt(w http.ResponseWriter, r *http.Request) {
	var input models.NewPrompt
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, apperr.Wrap(apperr.ErrInvalid, "invalid request body", err))
		return
	}

	if result := validate.Prompt(input); !result.Valid {
		writeJSON(w, http.StatusBadRequest, errorBody{
			Error:  "prompt failed validation",
			Code:   string(apperr.ErrValidation),
			Detail: result.Errors,
		})
		return
	}

	prompt, err := s.prompts.Add(input)
	if err != nil {
		s.notifications.Error("Failed to add prompt")
		writeError(w, err)
		return
	}

	s.notifications.Success("Prompt added")
	s.refreshPipeline()
	writeJSON(w, http.StatusCreated, prompt)
}

func (s *Server) handleUpdatePrompt(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var updates models.PromptUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		writeError(w, apperr.Wrap(apperr.ErrInvalid, "invalid request body", err))
		return
	}

	if result := validate.PromptUpdate(updates); !result.Valid {
		writeJSON(w, http.StatusBadRequest, errorBody{
			Error:  "prompt failed validation",
			Code:   string(apperr.ErrValidation),
			Detail: result.Errors,
		})
		return
	}

	prompt, err := s.prompts.Update(id, updates)
	if err != nil {
		if !apperr.Is(err, apperr.ErrPromptNotFound) {
			s.notifications.Error("Failed to update prompt")
		}
		writeError(w, err)
		return
	}

	s.notifications.Success("Prompt updated")
	s.refreshPipeline()
	writeJSON(w, http.StatusOK, prompt)
}

func (s *Server) handleDeletePrompt(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	removed, err := s.prompts.Delete(id)
	if err != nil {
		s.notifications.Error("Failed to delete prompt")
		writeError(w, err)
		return
	}

	if removed {
		s.notifications.Success("Prompt deleted")
		s.refreshPipeline()
	}
	writeJSON(w, http.StatusOK, map[string]bool{"removed": removed})
}

func (s *Server) handleIncrementUsage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.prompts.IncrementUsage(id); err != nil {
		writeError(w, err)
		return
	}

	s.refreshPipeline()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	prompt, err := s.prompts.ToggleFavorite(id)
	if err != nil {
		writeError(w, err)
		return
	}

	s.refreshPipeline()
	writeJSON(w, http.StatusOK, prompt)
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	prompts, _ := s.prompts.GetAll()
	for i := range prompts {
		if prompts[i].ID != id {
			continue
		}
		html, err := s.renderer.Render(prompts[i].Content)
		if err != nil {
			writeError(w, apperr.Wrap(apperr.ErrInternal, "failed to render preview", err))
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"html": html})
		return
	}
	writeError(w, apperr.New(apperr.ErrPromptNotFound, "prompt not found: "+id))
}

// handleSearch evaluates the query synchronously for REST callers. The
// debounced pipeline serves the WebSocket path; a one-shot GET has no burst
// to collapse.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	prompts, err := s.prompts.GetAll()
	if err != nil {
		s.notifications.Error("Failed to load prompts")
	}

	q := r.URL.Query()
	term := q.Get("q")
	category := q.Get("category")
	if category == "" {
		category = models.CategoryFilterAll
	}

	key := query.SortKey(q.Get("sort"))
	if key == "" {
		key = query.DefaultSortKey
	}
	if !query.ValidSortKey(key) {
		writeError(w, apperr.New(apperr.ErrInvalid, "unsupported sort key: "+string(key)))
		return
	}

	order := query.SortOrder(strings.ToLower(q.Get("order")))
	if order != query.OrderAsc {
		order = query.OrderDesc
	}

	writeJSON(w, http.StatusOK, query.Visible(prompts, term, category, key, order))
}

// =====================================================
// Category handlers
// =====================================================

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.categories.GetAll()
	if err != nil {
		s.notifications.Error("Failed to load categories")
	}
	writeJSON(w, http.StatusOK, categories)
}

type categoryPayload struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

func (s *Server) handleAddCategory(w http.ResponseWriter, r *http.Request) {
	var payload categoryPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apperr.Wrap(apperr.ErrInvalid, "invalid request body", err))
		return
	}
	if strings.TrimSpace(payload.Name) == "" {
		writeError(w, apperr.New(apperr.ErrValidation, "category name is required"))
		return
	}

	category, err := s.categories.Add(payload.Name, payload.Color)
	if err != nil {
		s.notifications.Error("Failed to add category")
		writeError(w, err)
		return
	}

	s.notifications.Success("Category added")
	writeJSON(w, http.StatusCreated, category)
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var payload categoryPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apperr.Wrap(apperr.ErrInvalid, "invalid request body", err))
		return
	}

	category, err := s.categories.Update(id, payload.Name, payload.Color)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	removed, err := s.categories.Delete(id)
	if err != nil {
		s.notifications.Error("Failed to delete category")
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"removed": removed})
}

// =====================================================
// Settings handlers
// =====================================================

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, _ := s.settings.Get()
	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var updates models.SettingsUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		writeError(w, apperr.Wrap(apperr.ErrInvalid, "invalid request body", err))
		return
	}

	settings, err := s.settings.Update(updates)
	if err != nil {
		s.notifications.Error("Failed to save settings")
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// =====================================================
// Export / import / maintenance handlers
// =====================================================

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	data, err := s.exporter.Export()
	if err != nil {
		s.notifications.Error("Export failed")
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="promptvault-backup.json"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, apperr.Wrap(apperr.ErrInvalid, "failed to read request body", err))
		return
	}

	if err := s.exporter.Import(payload); err != nil {
		s.notifications.Error("Import failed")
		writeError(w, err)
		return
	}

	s.notifications.Success("Data imported")
	s.refreshPipeline()
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// handleClearData removes every persisted blob. The stores serve their
// defaults afterwards, as on first launch.
func (s *Server) handleClearData(w http.ResponseWriter, r *http.Request) {
	for _, key := range storage.Keys() {
		if err := s.backend.Remove(key); err != nil {
			s.notifications.Error("Failed to clear data")
			writeError(w, apperr.Wrap(apperr.ErrStorageWrite, "failed to remove "+key, err))
			return
		}
	}

	s.notifications.Success("All data cleared")
	s.refreshPipeline()
	w.WriteHeader(http.StatusNoContent)
}

// =====================================================
// Notification handlers
// =====================================================

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.notifications.Entries())
}

func (s *Server) handleDismissNotification(w http.ResponseWriter, r *http.Request) {
	s.notifications.Dismiss(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClearNotifications(w http.ResponseWriter, r *http.Request) {
	s.notifications.Clear()
	w.WriteHeader(http.StatusNoContent)
}
