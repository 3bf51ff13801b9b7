// Package core provides the business logic for qi.
// It has zero UI dependencies and is independently testable.
package core

import "time"

// Repository is a registered remote git repository tracked by qi.
type Repository struct {
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	Branch    string    `json:"branch,omitempty"` // empty means the remote default branch
	LocalPath string    `json:"localPath"`
	AddedAt   time.Time `json:"addedAt,omitempty"`
}

// ScriptEntry is a script discovered inside a cached working copy.
// Entries are rebuilt on demand from the cache and never persisted.
type ScriptEntry struct {
	Name     string // file basename without the script extension
	RepoName string // owning repository's registry name
	RepoURL  string // owning repository's source URL (for disambiguation display)
	Path     string // absolute path to the script file
}

// RepoManifest is the optional qi.yaml a repository may carry at its root.
// A missing or malformed manifest is ignored.
type RepoManifest struct {
	Description string `yaml:"description,omitempty"`
	Scripts     string `yaml:"scripts,omitempty"` // restrict scanning to this subdirectory
}
