// Package models provides data model definitions for PromptVault.
package models

import "time"

// SnapshotVersion is the format version tag written into exports.
const SnapshotVersion = "1.0"

// Snapshot is the user-facing export document: the full prompt collection,
// the category table and the settings object, plus export metadata.
type Snapshot struct {
	Prompts    []Prompt   `json:"prompts"`
	Categories []Category `json:"categories"`
	Settings   *Settings  `json:"settings,omitempty"`
	ExportDate time.Time  `json:"exportDate"`
	Version    string     `json:"version"`
}
