// Package models provides data model definitions for PromptVault.
package models

import (
	"strings"
	"time"
)

// Prompt represents a single stored prompt record.
type Prompt struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	Description string     `json:"description,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	Category    string     `json:"category"`
	IsFavorite  bool       `json:"isFavorite"`
	UsageCount  int        `json:"usageCount"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	LastUsed    *time.Time `json:"lastUsed,omitempty"`
}

// NewPrompt holds the caller-supplied fields for creating a prompt.
// The store assigns id, timestamps and the usage counter.
type NewPrompt struct {
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Category    string   `json:"category"`
	IsFavorite  bool     `json:"isFavorite"`
}

// PromptUpdate enumerates the mutable fields of a prompt. Nil fields are
// left untouched. ID, createdAt and the usage counters cannot be set
// through an update.
type PromptUpdate struct {
	Title       *string   `json:"title,omitempty"`
	Content     *string   `json:"content,omitempty"`
	Description *string   `json:"description,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
	Category    *string   `json:"category,omitempty"`
	IsFavorite  *bool     `json:"isFavorite,omitempty"`
}

// LastUsedTime returns LastUsed, or the zero time when the prompt has
// never been used.
func (p *Prompt) LastUsedTime() time.Time {
	if p.LastUsed == nil {
		return time.Time{}
	}
	return *p.LastUsed
}

// HasTag reports whether the prompt carries the given tag.
func (p *Prompt) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// NormalizeTags lowercases, trims and deduplicates a tag list while
// preserving first-seen order. Tags form a set of lowercase strings.
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
