// Package server exposes the PromptVault core over a localhost REST API
// plus a WebSocket channel that pushes the debounced visible set and
// notification updates to the UI.
package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kimhsiao/promptvault/internal/apperr"
	"github.com/kimhsiao/promptvault/internal/export"
	"github.com/kimhsiao/promptvault/internal/logging"
	"github.com/kimhsiao/promptvault/internal/notify"
	"github.com/kimhsiao/promptvault/internal/preview"
	"github.com/kimhsiao/promptvault/internal/query"
	"github.com/kimhsiao/promptvault/internal/storage"
	"github.com/kimhsiao/promptvault/internal/store"
)

// Server wires the stores, query pipeline and notification queue behind an
// HTTP surface. It is the write-path boundary: validation runs here before
// anything reaches the stores.
type Server struct {
	backend       storage.Backend
	prompts       *store.PromptStore
	categories    *store.CategoryStore
	settings      *store.SettingsStore
	exporter      *export.Service
	pipeline      *query.Pipeline
	notifications *notify.Queue
	renderer      *preview.Renderer
	hub           *Hub
}

// Options collects the collaborators a Server needs.
type Options struct {
	Backend       storage.Backend
	Prompts       *store.PromptStore
	Categories    *store.CategoryStore
	Settings      *store.SettingsStore
	Exporter      *export.Service
	Pipeline      *query.Pipeline
	Notifications *notify.Queue
}

// New creates a server and starts its WebSocket hub.
func New(opts Options) *Server {
	s := &Server{
		backend:       opts.Backend,
		prompts:       opts.Prompts,
		categories:    opts.Categories,
		settings:      opts.Settings,
		exporter:      opts.Exporter,
		pipeline:      opts.Pipeline,
		notifications: opts.Notifications,
		renderer:      preview.NewRenderer(),
		hub:           NewHub(),
	}
	return s
}

// Hub returns the WebSocket hub for event publication.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Router builds the chi route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/api/health", s.handleHealth)

	r.Route("/api/prompts", func(r chi.Router) {
		r.Get("/", s.handleListPrompts)
		r.Post("/", s.handleAddPrompt)
		r.Patch("/{id}", s.handleUpdatePrompt)
		r.Delete("/{id}", s.handleDeletePrompt)
		r.Post("/{id}/use", s.handleIncrementUsage)
		r.Post("/{id}/favorite", s.handleToggleFavorite)
		r.Get("/{id}/preview", s.handlePreview)
	})

	r.Get("/api/search", s.handleSearch)

	r.Route("/api/categories", func(r chi.Router) {
		r.Get("/", s.handleListCategories)
		r.Post("/", s.handleAddCategory)
		r.Patch("/{id}", s.handleUpdateCategory)
		r.Delete("/{id}", s.handleDeleteCategory)
	})

	r.Get("/api/settings", s.handleGetSettings)
	r.Patch("/api/settings", s.handleUpdateSettings)

	r.Get("/api/export", s.handleExport)
	r.Post("/api/import", s.handleImport)
	r.Delete("/api/data", s.handleClearData)

	r.Route("/api/notifications", func(r chi.Router) {
		r.Get("/", s.handleListNotifications)
		r.Delete("/{id}", s.handleDismissNotification)
		r.Delete("/", s.handleClearNotifications)
	})

	r.Get("/ws", s.handleWebSocket)

	return r
}

// refreshPipeline feeds the latest collection snapshot into the query
// pipeline after a mutation; the debounced recompute pushes the new visible
// set to connected clients.
func (s *Server) refreshPipeline() {
	prompts, err := s.prompts.GetAll()
	if err != nil {
		// Already logged by the store; the UI sees an empty set plus the
		// error notification posted by the caller.
		prompts = nil
	}
	s.pipeline.SetPrompts(prompts)
}

// writeJSON writes v as a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("failed to encode response", err)
	}
}

// errorBody is the JSON shape of error responses.
type errorBody struct {
	Error  string   `json:"error"`
	Code   string   `json:"code,omitempty"`
	Detail []string `json:"detail,omitempty"`
}

// writeError maps an application error to a status code and JSON body.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := apperr.ErrInternal

	if appErr, ok := err.(*apperr.AppError); ok {
		code = appErr.Code
		switch appErr.Code {
		case apperr.ErrPromptNotFound, apperr.ErrCategoryNotFound, apperr.ErrNotFound:
			status = http.StatusNotFound
		case apperr.ErrValidation, apperr.ErrInvalid, apperr.ErrImportFormat:
			status = http.StatusBadRequest
		}
	}

	writeJSON(w, status, errorBody{Error: err.Error(), Code: string(code)})
}
