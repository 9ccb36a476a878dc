// Package query derives the visible set: the subsequence of the prompt
// collection matching a search term and category filter, sorted by a chosen
// key and direction.
package query

import (
	"sort"
	"strings"

	"github.com/kimhsiao/promptvault/internal/models"
)

// SortKey selects the comparison used when ordering the visible set.
type SortKey string

const (
	SortByTitle      SortKey = "title"
	SortByCreatedAt  SortKey = "createdAt"
	SortByUpdatedAt  SortKey = "updatedAt"
	SortByUsageCount SortKey = "usageCount"
	SortByLastUsed   SortKey = "lastUsed"
)

// SortOrder is the sort direction.
type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// Defaults for a fresh pipeline.
const (
	DefaultSortKey   = SortByUpdatedAt
	DefaultSortOrder = OrderDesc
)

// ValidSortKey reports whether key is one of the supported sort keys.
func ValidSortKey(key SortKey) bool {
	switch key {
	case SortByTitle, SortByCreatedAt, SortByUpdatedAt, SortByUsageCount, SortByLastUsed:
		return true
	}
	return false
}

// Filter returns the prompts matching the search term and category filter.
// The term matches case-insensitively against title, content, description
// and every tag; a blank term matches everything. The category filter keeps
// prompts whose category equals the id or whose tag set contains it
// literally; the sentinel "all" disables it.
func Filter(prompts []models.Prompt, term, category string) []models.Prompt {
	filtered := make([]models.Prompt, 0, len(prompts))

	term = strings.ToLower(strings.TrimSpace(term))
	for _, p := range prompts {
		if term != "" && !matches(&p, term) {
			continue
		}
		if category != "" && category != models.CategoryFilterAll &&
			p.Category != category && !p.HasTag(category) {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered
}

func matches(p *models.Prompt, term string) bool {
	if strings.Contains(strings.ToLower(p.Title), term) ||
		strings.Contains(strings.ToLower(p.Content), term) ||
		strings.Contains(strings.ToLower(p.Description), term) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}
	return false
}

// Sort returns a sorted copy of prompts. The sort is stable so prompts with
// equal keys keep their relative insertion order across recomputations.
func Sort(prompts []models.Prompt, key SortKey, order SortOrder) []models.Prompt {
	sorted := make([]models.Prompt, len(prompts))
	copy(sorted, prompts)

	if !ValidSortKey(key) {
		key = DefaultSortKey
	}

	less := lessFunc(sorted, key)
	if order == OrderAsc {
		sort.SliceStable(sorted, less)
	} else {
		sort.SliceStable(sorted, func(i, j int) bool { return less(j, i) })
	}
	return sorted
}

func lessFunc(prompts []models.Prompt, key SortKey) func(i, j int) bool {
	switch key {
	case SortByTitle:
		return func(i, j int) bool {
			return strings.ToLower(prompts[i].Title) < strings.ToLower(prompts[j].Title)
		}
	case SortByCreatedAt:
		return func(i, j int) bool {
			return prompts[i].CreatedAt.Before(prompts[j].CreatedAt)
		}
	case SortByUsageCount:
		return func(i, j int) bool {
			return prompts[i].UsageCount < prompts[j].UsageCount
		}
	case SortByLastUsed:
		return func(i, j int) bool {
			return prompts[i].LastUsedTime().Before(prompts[j].LastUsedTime())
		}
	default: // SortByUpdatedAt
		return func(i, j int) bool {
			return prompts[i].UpdatedAt.Before(prompts[j].UpdatedAt)
		}
	}
}

// Visible applies Filter then Sort in one call.
func Visible(prompts []models.Prompt, term, category string, key SortKey, order SortOrder) []models.Prompt {
	return Sort(Filter(prompts, term, category), key, order)
}
