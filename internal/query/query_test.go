// Package query tests for filtering and sorting of the visible set.
package query

import (
	"testing"
	"time"

	"github.com/kimhsiao/promptvault/internal/models"
)

func promptAt(id, title, content string, updated time.Time) models.Prompt {
	return models.Prompt{
		ID:        id,
		Title:     title,
		Content:   content,
		Category:  models.DefaultCategoryID,
		CreatedAt: updated,
		UpdatedAt: updated,
	}
}

func ids(prompts []models.Prompt) []string {
	out := make([]string, len(prompts))
	for i, p := range prompts {
		out[i] = p.ID
	}
	return out
}

func TestFilterBySearchTerm(t *testing.T) {
	base := time.Now()
	prompts := []models.Prompt{
		promptAt("a", "Refactor loop", "rewrite the inner loop", base),
		promptAt("b", "Write poem", "a poem about rivers", base),
	}

	matched := Filter(prompts, "loop", models.CategoryFilterAll)
	if len(matched) != 1 || matched[0].ID != "a" {
		t.Errorf("Expected only the loop prompt, got %v", ids(matched))
	}

	matched = Filter(prompts, "", models.CategoryFilterAll)
	if len(matched) != 2 {
		t.Errorf("Expected blank term to match everything, got %v", ids(matched))
	}

	matched = Filter(prompts, "   ", models.CategoryFilterAll)
	if len(matched) != 2 {
		t.Errorf("Expected whitespace term to match everything, got %v", ids(matched))
	}
}

func TestFilterIsCaseInsensitive(t *testing.T) {
	prompts := []models.Prompt{
		promptAt("a", "Refactor LOOP", "x", time.Now()),
	}

	if matched := Filter(prompts, "Loop", models.CategoryFilterAll); len(matched) != 1 {
		t.Error("Expected case-insensitive title match")
	}
}

func TestFilterSearchesAllTextFields(t *testing.T) {
	base := time.Now()
	prompts := []models.Prompt{
		{ID: "title", Title: "needle here", Content: "x", CreatedAt: base, UpdatedAt: base},
		{ID: "content", Title: "t", Content: "the needle is buried", CreatedAt: base, UpdatedAt: base},
		{ID: "desc", Title: "t", Content: "x", Description: "needle in description", CreatedAt: base, UpdatedAt: base},
		{ID: "tag", Title: "t", Content: "x", Tags: []string{"needlework"}, CreatedAt: base, UpdatedAt: base},
		{ID: "none", Title: "t", Content: "x", CreatedAt: base, UpdatedAt: base},
	}

	matched := Filter(prompts, "needle", models.CategoryFilterAll)
	if len(matched) != 4 {
		t.Fatalf("Expected 4 matches across fields, got %v", ids(matched))
	}
	for _, p := range matched {
		if p.ID == "none" {
			t.Error("Expected non-matching prompt to be excluded")
		}
	}
}

func TestFilterByCategory(t *testing.T) {
	base := time.Now()
	prompts := []models.Prompt{
		{ID: "a", Title: "t", Content: "x", Category: "coding", CreatedAt: base, UpdatedAt: base},
		{ID: "b", Title: "t", Content: "x", Category: "writing", Tags: []string{"coding"}, CreatedAt: base, UpdatedAt: base},
		{ID: "c", Title: "t", Content: "x", Category: "writing", CreatedAt: base, UpdatedAt: base},
	}

	// Category match OR literal tag match.
	matched := Filter(prompts, "", "coding")
	if len(matched) != 2 {
		t.Fatalf("Expected category and tag matches, got %v", ids(matched))
	}

	// Sentinel disables the filter.
	if matched := Filter(prompts, "", models.CategoryFilterAll); len(matched) != 3 {
		t.Errorf("Expected all prompts for sentinel, got %v", ids(matched))
	}
}

func TestSortStability(t *testing.T) {
	base := time.Now()
	a := promptAt("A", "a", "x", base)
	a.UsageCount = 5
	b := promptAt("B", "b", "x", base)
	b.UsageCount = 5
	c := promptAt("C", "c", "x", base)
	c.UsageCount = 2

	sorted := Sort([]models.Prompt{a, b, c}, SortByUsageCount, OrderDesc)
	got := ids(sorted)
	want := []string{"A", "B", "C"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Expected stable order %v, got %v", want, got)
		}
	}
}

func TestSortByTitleCaseInsensitive(t *testing.T) {
	base := time.Now()
	prompts := []models.Prompt{
		promptAt("b", "banana", "x", base),
		promptAt("a", "Apple", "x", base),
		promptAt("c", "cherry", "x", base),
	}

	sorted := Sort(prompts, SortByTitle, OrderAsc)
	got := ids(sorted)
	want := []string{"a", "b", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Expected %v, got %v", want, got)
		}
	}
}

func TestSortByUpdatedAtDescendingDefault(t *testing.T) {
	base := time.Now()
	prompts := []models.Prompt{
		promptAt("old", "t", "x", base.Add(-time.Hour)),
		promptAt("new", "t", "x", base),
	}

	sorted := Sort(prompts, DefaultSortKey, DefaultSortOrder)
	if sorted[0].ID != "new" {
		t.Errorf("Expected newest first, got %v", ids(sorted))
	}
}

func TestSortByLastUsedMissingTreatedAsEpoch(t *testing.T) {
	base := time.Now()
	used := promptAt("used", "t", "x", base)
	usedAt := base
	used.LastUsed = &usedAt
	never := promptAt("never", "t", "x", base)

	sorted := Sort([]models.Prompt{never, used}, SortByLastUsed, OrderDesc)
	if sorted[0].ID != "used" {
		t.Errorf("Expected used prompt first, got %v", ids(sorted))
	}

	sorted = Sort([]models.Prompt{used, never}, SortByLastUsed, OrderAsc)
	if sorted[0].ID != "never" {
		t.Errorf("Expected never-used prompt first ascending, got %v", ids(sorted))
	}
}

func TestSortUnknownKeyFallsBackToDefault(t *testing.T) {
	base := time.Now()
	prompts := []models.Prompt{
		promptAt("old", "t", "x", base.Add(-time.Hour)),
		promptAt("new", "t", "x", base),
	}

	sorted := Sort(prompts, SortKey("bogus"), OrderDesc)
	if sorted[0].ID != "new" {
		t.Errorf("Expected updatedAt fallback, got %v", ids(sorted))
	}
}

func TestSortDoesNotMutateInput(t *testing.T) {
	base := time.Now()
	prompts := []models.Prompt{
		promptAt("b", "b", "x", base),
		promptAt("a", "a", "x", base),
	}

	Sort(prompts, SortByTitle, OrderAsc)
	if prompts[0].ID != "b" {
		t.Error("Expected input slice to be left untouched")
	}
}
