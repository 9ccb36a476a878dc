package query

import (
	"sync"
	"time"

	"github.com/kimhsiao/promptvault/internal/models"
)

// DebounceDelay is the quiet period after the last input change before the
// visible set is recomputed. Bursts of changes inside the window collapse
// into a single recomputation.
const DebounceDelay = 300 * time.Millisecond

// Pipeline keeps a derived visible set in sync with its inputs: the prompt
// collection, the search term, the category filter and the sort spec. Each
// input change re-arms a single pending timer; the recomputation fires once
// the debounce window elapses with no further input and always reflects the
// latest inputs.
type Pipeline struct {
	mu sync.Mutex

	prompts  []models.Prompt
	term     string
	category string
	sortKey  SortKey
	order    SortOrder

	visible  []models.Prompt
	pending  *time.Timer
	delay    time.Duration
	onUpdate func([]models.Prompt)
}

// NewPipeline creates a pipeline with the default sort (updatedAt
// descending), no filters and the standard debounce delay. onUpdate, if
// non-nil, receives every recomputed visible set.
func NewPipeline(onUpdate func([]models.Prompt)) *Pipeline {
	return &Pipeline{
		category: models.CategoryFilterAll,
		sortKey:  DefaultSortKey,
		order:    DefaultSortOrder,
		visible:  []models.Prompt{},
		delay:    DebounceDelay,
		onUpdate: onUpdate,
	}
}

// SetDelay overrides the debounce window. Tests only.
func (pl *Pipeline) SetDelay(d time.Duration) {
	pl.mu.Lock()
	defer pl.mu.Unlock()
	pl.delay = d
}

// SetPrompts replaces the underlying collection snapshot.
func (pl *Pipeline) SetPrompts(prompts []models.Prompt) {
	pl.mu.Lock()
	defer pl.mu.Unlock()
	pl.prompts = prompts
	pl.schedule()
}

// SetSearchTerm updates the free-text search term.
func (pl *Pipeline) SetSearchTerm(term string) {
	pl.mu.Lock()
	defer pl.mu.Unlock()
	pl.term = term
	pl.schedule()
}

// SetCategoryFilter updates the category filter; "all" disables it.
func (pl *Pipeline) SetCategoryFilter(category string) {
	pl.mu.Lock()
	defer pl.mu.Unlock()
	pl.category = category
	pl.schedule()
}

// SetSort updates the sort key and direction.
func (pl *Pipeline) SetSort(key SortKey, order SortOrder) {
	pl.mu.Lock()
	defer pl.mu.Unlock()
	pl.sortKey = key
	pl.order = order
	pl.schedule()
}

// Reset restores the default search, filter and sort inputs.
func (pl *Pipeline) Reset() {
	pl.mu.Lock()
	defer pl.mu.Unlock()
	pl.term = ""
	pl.category = models.CategoryFilterAll
	pl.sortKey = DefaultSortKey
	pl.order = DefaultSortOrder
	pl.schedule()
}

// schedule re-arms the debounce timer. The caller holds pl.mu.
func (pl *Pipeline) schedule() {
	if pl.pending != nil {
		pl.pending.Stop()
	}
	pl.pending = time.AfterFunc(pl.delay, pl.recompute)
}

// recompute derives the visible set from the current inputs and notifies
// the update callback.
func (pl *Pipeline) recompute() {
	pl.mu.Lock()
	pl.pending = nil
	visible := Visible(pl.prompts, pl.term, pl.category, pl.sortKey, pl.order)
	pl.visible = visible
	callback := pl.onUpdate
	pl.mu.Unlock()

	if callback != nil {
		callback(visible)
	}
}

// Flush cancels any pending timer and recomputes immediately.
func (pl *Pipeline) Flush() []models.Prompt {
	pl.mu.Lock()
	if pl.pending != nil {
		pl.pending.Stop()
		pl.pending = nil
	}
	pl.mu.Unlock()

	pl.recompute()
	return pl.Visible()
}

// Visible returns the last computed visible set.
func (pl *Pipeline) Visible() []models.Prompt {
	pl.mu.Lock()
	defer pl.mu.Unlock()
	return pl.visible
}

// Inputs returns the current search term, category filter and sort spec.
func (pl *Pipeline) Inputs() (term, category string, key SortKey, order SortOrder) {
	pl.mu.Lock()
	defer pl.mu.Unlock()
	return pl.term, pl.category, pl.sortKey, pl.order
}

// Stop cancels any pending recomputation.
func (pl *Pipeline) Stop() {
	pl.mu.Lock()
	defer pl.mu.Unlock()
	if pl.pending != nil {
		pl.pending.Stop()
		pl.pending = nil
	}
}
