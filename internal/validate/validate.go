// Package validate checks prompt payloads before they reach the store.
// It is invoked at the API boundary on the write path only; the store never
// validates on read, so pre-existing out-of-range records pass through
// rather than being dropped.
package validate

import (
	"strings"

	"github.com/kimhsiao/promptvault/internal/models"
)

// Field length limits, after trimming.
const (
	MaxTitleLength       = 100
	MaxContentLength     = 10000
	MaxDescriptionLength = 300
)

// Result holds the outcome of a validation run.
type Result struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// Prompt validates a candidate prompt payload. All rules run independently
// so every violation is reported at once.
func Prompt(input models.NewPrompt) Result {
	var errs []string

	title := strings.TrimSpace(input.Title)
	if title == "" {
		errs = append(errs, "Title is required")
	} else if len([]rune(title)) > MaxTitleLength {
		errs = append(errs, "Title must be less than 100 characters")
	}

	content := strings.TrimSpace(input.Content)
	if content == "" {
		errs = append(errs, "Content is required")
	} else if len([]rune(content)) > MaxContentLength {
		errs = append(errs, "Content must be less than 10,000 characters")
	}

	if input.Description != "" && len([]rune(input.Description)) > MaxDescriptionLength {
		errs = append(errs, "Description must be less than 300 characters")
	}

	return Result{Valid: len(errs) == 0, Errors: errs}
}

// PromptUpdate validates the fields present in a partial update. Absent
// fields keep their stored value and are not re-checked here.
func PromptUpdate(updates models.PromptUpdate) Result {
	var errs []string

	if updates.Title != nil {
		title := strings.TrimSpace(*updates.Title)
		if title == "" {
			errs = append(errs, "Title is required")
		} else if len([]rune(title)) > MaxTitleLength {
			errs = append(errs, "Title must be less than 100 characters")
		}
	}

	if updates.Content != nil {
		content := strings.TrimSpace(*updates.Content)
		if content == "" {
			errs = append(errs, "Content is required")
		} else if len([]rune(content)) > MaxContentLength {
			errs = append(errs, "Content must be less than 10,000 characters")
		}
	}

	if updates.Description != nil && len([]rune(*updates.Description)) > MaxDescriptionLength {
		errs = append(errs, "Description must be less than 300 characters")
	}

	return Result{Valid: len(errs) == 0, Errors: errs}
}
