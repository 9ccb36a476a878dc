// Package storage provides the durable key/value backends underlying
// PromptVault persistence. Values are opaque byte blobs keyed by string;
// the stores layered on top decide what goes into them.
package storage

// Storage keys for the persisted blobs.
const (
	KeyPrompts    = "prompts"
	KeyCategories = "categories"
	KeySettings   = "settings"
	KeyTemplates  = "templates" // reserved, unused by the core
)

// Keys lists every storage key the application owns.
func Keys() []string {
	return []string{KeyPrompts, KeyCategories, KeySettings, KeyTemplates}
}

// Backend is the opaque durable key/value medium. Get reports ok=false when
// the key has never been written; that is not an error.
type Backend interface {
	Get(key string) (value []byte, ok bool, err error)
	Set(key string, value []byte) error
	Remove(key string) error
}
