// Package models provides data model definitions for PromptVault.
package models

// Category represents a user-defined grouping for prompts.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// DefaultCategoryID is the category assigned to prompts created without one.
const DefaultCategoryID = "general"

// CategoryFilterAll is the sentinel filter value that disables category
// filtering in the query pipeline.
const CategoryFilterAll = "all"

// DefaultCategoryColor is assigned to categories created without a color.
const DefaultCategoryColor = "#6b7280"

// SeedCategories returns the fixed categories used when none are stored yet.
func SeedCategories() []Category {
	return []Category{
		{ID: "general", Name: "General", Color: "#6b7280"},
		{ID: "coding", Name: "Coding", Color: "#059669"},
		{ID: "writing", Name: "Writing", Color: "#7c3aed"},
		{ID: "analysis", Name: "Analysis", Color: "#dc2626"},
		{ID: "creative", Name: "Creative", Color: "#ea580c"},
	}
}
