// Package store provides the canonical persisted collections for
// PromptVault: prompts, categories and settings. Every mutation is a full
// read-modify-write of the owning blob; with small personal collections the
// O(n) cost is irrelevant, but two stores writing the same backend
// concurrently are last-write-wins.
package store

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/kimhsiao/promptvault/internal/apperr"
	"github.com/kimhsiao/promptvault/internal/logging"
	"github.com/kimhsiao/promptvault/internal/models"
	"github.com/kimhsiao/promptvault/internal/storage"
	"github.com/kimhsiao/promptvault/internal/uuid"
)

// maxIDAttempts bounds the collision retry loop in Add. UUID v4 collisions
// are vanishingly unlikely; the loop exists so uniqueness is checked, not
// assumed.
const maxIDAttempts = 5

// PromptStore owns the canonical prompt collection. It is the sole writer
// of the prompts blob.
type PromptStore struct {
	backend storage.Backend
	mu      sync.Mutex
	now     func() time.Time
}

// NewPromptStore creates a prompt store on top of backend.
func NewPromptStore(backend storage.Backend) *PromptStore {
	return &PromptStore{
		backend: backend,
		now:     time.Now,
	}
}

// load reads the full collection. A missing blob is an empty collection.
// A corrupt blob is logged and read as empty, preserving availability;
// the error is returned so callers on the read path can surface it.
func (s *PromptStore) load() ([]models.Prompt, error) {
	data, ok, err := s.backend.Get(storage.KeyPrompts)
	if err != nil {
		logging.Error("failed to read prompts", err)
		return []models.Prompt{}, apperr.Wrap(apperr.ErrStorageRead, "failed to read prompts", err)
	}
	if !ok {
		return []models.Prompt{}, nil
	}

	var prompts []models.Prompt
	if err := json.Unmarshal(data, &prompts); err != nil {
		logging.Error("corrupt prompts payload, falling back to empty collection", err)
		return []models.Prompt{}, apperr.Wrap(apperr.ErrStorageRead, "corrupt prompts payload", err)
	}
	if prompts == nil {
		prompts = []models.Prompt{}
	}
	return prompts, nil
}

// persist writes the full collection back to the backend.
func (s *PromptStore) persist(prompts []models.Prompt) error {
	data, err := json.Marshal(prompts)
	if err != nil {
		return apperr.Wrap(apperr.ErrStorageWrite, "failed to encode prompts", err)
	}
	if err := s.backend.Set(storage.KeyPrompts, data); err != nil {
		return apperr.Wrap(apperr.ErrStorageWrite, "failed to write prompts", err)
	}
	return nil
}

// GetAll returns the full prompt collection in insertion order. The
// returned error is non-nil only for a corrupt payload; the collection is
// then empty rather than the process crashing.
func (s *PromptStore) GetAll() ([]models.Prompt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Add creates a new prompt from the caller-supplied fields, assigns a fresh
// unique id and timestamps, appends it to the collection and persists.
func (s *PromptStore) Add(input models.NewPrompt) (*models.Prompt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Write paths operate on the fallback empty collection when the blob is
	// corrupt: availability over correctness of the unreadable data.
	prompts, _ := s.load()

	id, err := s.freshID(prompts)
	if err != nil {
		return nil, err
	}

	category := input.Category
	if category == "" {
		category = models.DefaultCategoryID
	}

	now := s.now()
	prompt := models.Prompt{
		ID:          id,
		Title:       input.Title,
		Content:     input.Content,
		Description: input.Description,
		Tags:        models.NormalizeTags(input.Tags),
		Category:    category,
		IsFavorite:  input.IsFavorite,
		UsageCount:  0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	prompts = append(prompts, prompt)
	if err := s.persist(prompts); err != nil {
		return nil, err
	}

	logging.Debug("prompt added", map[string]interface{}{"id": prompt.ID})
	return &prompt, nil
}

// freshID generates an id that does not collide with any existing prompt.
func (s *PromptStore) freshID(prompts []models.Prompt) (string, error) {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id := uuid.New()
		if !containsID(prompts, id) {
			return id, nil
		}
	}
	return "", apperr.New(apperr.ErrInternal, "could not generate a unique prompt id")
}

func containsID(prompts []models.Prompt, id string) bool {
	for i := range prompts {
		if prompts[i].ID == id {
			return true
		}
	}
	return false
}

// Update merges the non-nil fields of updates onto the prompt with the
// given id, forces updatedAt to now and persists. A missing id yields a
// PROMPT_NOT_FOUND error, not a panic or a hard failure.
func (s *PromptStore) Update(id string, updates models.PromptUpdate) (*models.Prompt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prompts, _ := s.load()
	idx := indexOf(prompts, id)
	if idx < 0 {
		return nil, apperr.New(apperr.ErrPromptNotFound, "prompt not found: "+id)
	}

	p := &prompts[idx]
	if updates.Title != nil {
		p.Title = *updates.Title
	}
	if updates.Content != nil {
		p.Content = *updates.Content
	}
	if updates.Description != nil {
		p.Description = *updates.Description
	}
	if updates.Tags != nil {
		p.Tags = models.NormalizeTags(*updates.Tags)
	}
	if updates.Category != nil {
		p.Category = *updates.Category
	}
	if updates.IsFavorite != nil {
		p.IsFavorite = *updates.IsFavorite
	}
	p.UpdatedAt = s.now()

	if err := s.persist(prompts); err != nil {
		return nil, err
	}

	updated := prompts[idx]
	return &updated, nil
}

// Delete removes the prompt with the given id. Returns false when no such
// prompt exists; the collection is persisted either way.
func (s *PromptStore) Delete(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prompts, _ := s.load()
	filtered := prompts[:0:0]
	removed := false
	for _, p := range prompts {
		if p.ID == id {
			removed = true
			continue
		}
		filtered = append(filtered, p)
	}
	if filtered == nil {
		filtered = []models.Prompt{}
	}

	if err := s.persist(filtered); err != nil {
		return false, err
	}
	return removed, nil
}

// IncrementUsage bumps the usage counter by exactly one and stamps
// lastUsed. updatedAt is deliberately left alone so usage tracking does not
// reorder the default updatedAt sort. No-op when the id is absent.
func (s *PromptStore) IncrementUsage(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prompts, _ := s.load()
	idx := indexOf(prompts, id)
	if idx < 0 {
		return nil
	}

	now := s.now()
	prompts[idx].UsageCount++
	prompts[idx].LastUsed = &now

	return s.persist(prompts)
}

// ToggleFavorite flips the favorite flag and bumps updatedAt, matching the
// merge semantics of Update. The read and the flipped write happen inside
// one critical section so concurrent toggles never collapse into one.
func (s *PromptStore) ToggleFavorite(id string) (*models.Prompt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prompts, _ := s.load()
	idx := indexOf(prompts, id)
	if idx < 0 {
		return nil, apperr.New(apperr.ErrPromptNotFound, "prompt not found: "+id)
	}

	prompts[idx].IsFavorite = !prompts[idx].IsFavorite
	prompts[idx].UpdatedAt = s.now()

	if err := s.persist(prompts); err != nil {
		return nil, err
	}

	updated := prompts[idx]
	return &updated, nil
}

// ReplaceAll overwrites the entire collection. Used by import, which
// replaces rather than merges.
func (s *PromptStore) ReplaceAll(prompts []models.Prompt) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prompts == nil {
		prompts = []models.Prompt{}
	}
	return s.persist(prompts)
}

// SetClock overrides the time source. Tests only.
func (s *PromptStore) SetClock(now func() time.Time) {
	s.now = now
}

func indexOf(prompts []models.Prompt, id string) int {
	for i := range prompts {
		if prompts[i].ID == id {
			return i
		}
	}
	return -1
}
