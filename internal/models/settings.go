// Package models provides data model definitions for PromptVault.
package models

// Settings holds user preferences consumed by the UI layer.
type Settings struct {
	Theme                   string `json:"theme"`
	DefaultCategory         string `json:"defaultCategory"`
	ShowUsageStats          bool   `json:"showUsageStats"`
	EnableKeyboardShortcuts bool   `json:"enableKeyboardShortcuts"`
	ConfirmDelete           bool   `json:"confirmDelete"`
}

// SettingsUpdate enumerates the mutable settings fields. Nil fields are
// left untouched.
type SettingsUpdate struct {
	Theme                   *string `json:"theme,omitempty"`
	DefaultCategory         *string `json:"defaultCategory,omitempty"`
	ShowUsageStats          *bool   `json:"showUsageStats,omitempty"`
	EnableKeyboardShortcuts *bool   `json:"enableKeyboardShortcuts,omitempty"`
	ConfirmDelete           *bool   `json:"confirmDelete,omitempty"`
}

// DefaultSettings returns the settings used when none are stored yet.
func DefaultSettings() Settings {
	return Settings{
		Theme:                   "dark",
		DefaultCategory:         DefaultCategoryID,
		ShowUsageStats:          true,
		EnableKeyboardShortcuts: true,
		ConfirmDelete:           true,
	}
}
