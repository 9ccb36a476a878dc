package store

import (
	"encoding/json"
	"sync"

	"github.com/kimhsiao/promptvault/internal/apperr"
	"github.com/kimhsiao/promptvault/internal/logging"
	"github.com/kimhsiao/promptvault/internal/models"
	"github.com/kimhsiao/promptvault/internal/storage"
	"github.com/kimhsiao/promptvault/internal/uuid"
)

// CategoryStore owns the category lookup table. When nothing is stored yet
// it serves the fixed seed categories without persisting them.
type CategoryStore struct {
	backend storage.Backend
	mu      sync.Mutex
}

// NewCategoryStore creates a category store on top of backend.
func NewCategoryStore(backend storage.Backend) *CategoryStore {
	return &CategoryStore{backend: backend}
}

func (s *CategoryStore) load() ([]models.Category, error) {
	data, ok, err := s.backend.Get(storage.KeyCategories)
	if err != nil {
		logging.Error("failed to read categories", err)
		return models.SeedCategories(), apperr.Wrap(apperr.ErrStorageRead, "failed to read categories", err)
	}
	if !ok {
		return models.SeedCategories(), nil
	}

	var categories []models.Category
	if err := json.Unmarshal(data, &categories); err != nil {
		logging.Error("corrupt categories payload, falling back to seeds", err)
		return models.SeedCategories(), apperr.Wrap(apperr.ErrStorageRead, "corrupt categories payload", err)
	}
	if categories == nil {
		categories = []models.Category{}
	}
	return categories, nil
}

func (s *CategoryStore) persist(categories []models.Category) error {
	data, err := json.Marshal(categories)
	if err != nil {
		return apperr.Wrap(apperr.ErrStorageWrite, "failed to encode categories", err)
	}
	if err := s.backend.Set(storage.KeyCategories, data); err != nil {
		return apperr.Wrap(apperr.ErrStorageWrite, "failed to write categories", err)
	}
	return nil
}

// GetAll returns all categories, seeding defaults when none are stored.
func (s *CategoryStore) GetAll() ([]models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Add creates a category with a generated id and the default color when
// none is given.
func (s *CategoryStore) Add(name, color string) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	categories, _ := s.load()
	if color == "" {
		color = models.DefaultCategoryColor
	}
	category := models.Category{
		ID:    uuid.New(),
		Name:  name,
		Color: color,
	}
	categories = append(categories, category)
	if err := s.persist(categories); err != nil {
		return nil, err
	}
	return &category, nil
}

// Update merges name/color onto the category with the given id. Empty
// fields are left untouched.
func (s *CategoryStore) Update(id, name, color string) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	categories, _ := s.load()
	for i := range categories {
		if categories[i].ID != id {
			continue
		}
		if name != "" {
			categories[i].Name = name
		}
		if color != "" {
			categories[i].Color = color
		}
		if err := s.persist(categories); err != nil {
			return nil, err
		}
		updated := categories[i]
		return &updated, nil
	}
	return nil, apperr.New(apperr.ErrCategoryNotFound, "category not found: "+id)
}

// Delete removes the category with the given id. Prompts referencing it are
// left alone; the UI treats a dangling reference as uncategorized.
func (s *CategoryStore) Delete(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	categories, _ := s.load()
	filtered := categories[:0:0]
	removed := false
	for _, c := range categories {
		if c.ID == id {
			removed = true
			continue
		}
		filtered = append(filtered, c)
	}
	if filtered == nil {
		filtered = []models.Category{}
	}

	if err := s.persist(filtered); err != nil {
		return false, err
	}
	return removed, nil
}

// ReplaceAll overwrites the entire table. Used by import.
func (s *CategoryStore) ReplaceAll(categories []models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if categories == nil {
		categories = []models.Category{}
	}
	return s.persist(categories)
}
