// Package validate tests for the write-path validation rules.
package validate

import (
	"strings"
	"testing"

	"github.com/kimhsiao/promptvault/internal/models"
)

func TestPromptValid(t *testing.T) {
	result := Prompt(models.NewPrompt{
		Title:   "Refactor loop",
		Content: "Rewrite this loop without allocations",
	})

	if !result.Valid {
		t.Fatalf("Expected valid, got errors: %v", result.Errors)
	}
	if len(result.Errors) != 0 {
		t.Errorf("Expected no errors, got %v", result.Errors)
	}
}

func TestPromptRules(t *testing.T) {
	tests := []struct {
		name    string
		input   models.NewPrompt
		wantErr string
	}{
		{
			name:    "missing title",
			input:   models.NewPrompt{Title: "", Content: "valid"},
			wantErr: "Title is required",
		},
		{
			name:    "whitespace title",
			input:   models.NewPrompt{Title: "   ", Content: "valid"},
			wantErr: "Title is required",
		},
		{
			name:    "oversized title",
			input:   models.NewPrompt{Title: strings.Repeat("a", 101), Content: "valid"},
			wantErr: "Title must be less than 100 characters",
		},
		{
			name:    "missing content",
			input:   models.NewPrompt{Title: "ok", Content: ""},
			wantErr: "Content is required",
		},
		{
			name:    "oversized content",
			input:   models.NewPrompt{Title: "ok", Content: strings.Repeat("b", 10001)},
			wantErr: "Content must be less than 10,000 characters",
		},
		{
			name:    "oversized description",
			input:   models.NewPrompt{Title: "ok", Content: "ok", Description: strings.Repeat("c", 301)},
			wantErr: "Description must be less than 300 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Prompt(tt.input)
			if result.Valid {
				t.Fatal("Expected validation to fail")
			}
			found := false
			for _, e := range result.Errors {
				if e == tt.wantErr {
					found = true
				}
			}
			if !found {
				t.Errorf("Expected error %q, got %v", tt.wantErr, result.Errors)
			}
		})
	}
}

func TestPromptRulesRunIndependently(t *testing.T) {
	result := Prompt(models.NewPrompt{
		Title:       "",
		Content:     "valid",
		Description: strings.Repeat("d", 301),
	})

	if result.Valid {
		t.Fatal("Expected validation to fail")
	}
	if len(result.Errors) != 2 {
		t.Fatalf("Expected both violations reported, got %v", result.Errors)
	}
}

func TestPromptBoundaries(t *testing.T) {
	result := Prompt(models.NewPrompt{
		Title:       strings.Repeat("a", 100),
		Content:     strings.Repeat("b", 10000),
		Description: strings.Repeat("c", 300),
	})
	if !result.Valid {
		t.Errorf("Expected limits to be inclusive, got %v", result.Errors)
	}
}

func TestPromptTitleTrimmedBeforeLengthCheck(t *testing.T) {
	// 100 characters of title padded with whitespace stays valid.
	result := Prompt(models.NewPrompt{
		Title:   "  " + strings.Repeat("a", 100) + "  ",
		Content: "valid",
	})
	if !result.Valid {
		t.Errorf("Expected trimmed title to pass, got %v", result.Errors)
	}
}

func TestPromptUpdatePartial(t *testing.T) {
	empty := ""
	result := PromptUpdate(models.PromptUpdate{Title: &empty})
	if result.Valid {
		t.Fatal("Expected empty title update to fail")
	}

	// Absent fields are not re-validated.
	fav := true
	result = PromptUpdate(models.PromptUpdate{IsFavorite: &fav})
	if !result.Valid {
		t.Errorf("Expected favorite-only update to pass, got %v", result.Errors)
	}
}
