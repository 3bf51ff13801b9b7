package core

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tailscale/hujson"
)

// registryFile is the on-disk shape of the registry.
type registryFile struct {
	Repositories []Repository `json:"repositories"`
}

// Registry is the durable list of known repositories. It is loaded once at
// startup, mutated in memory, and written back with Save after the
// corresponding filesystem operation has succeeded.
//
// List order is insertion order; script index ordering depends on it.
type Registry struct {
	path  string
	repos []Repository
}

// LoadRegistry reads the registry file. A missing file yields an empty
// registry. The file is parsed as JWCC (JSON with comments and trailing
// commas) so hand edits with comments survive.
func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Registry{path: path}, nil
		}
		return nil, fmt.Errorf("reading registry: %w", err)
	}

	std, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("parsing registry: %w", err)
	}

	var rf registryFile
	if err := json.Unmarshal(std, &rf); err != nil {
		return nil, fmt.Errorf("parsing registry: %w", err)
	}

	return &Registry{path: path, repos: rf.Repositories}, nil
}

// Add registers a repository. It validates the name and URL and rejects
// duplicates, but does not touch disk; callers Save only after the clone
// has succeeded so registry and cache never diverge.
func (r *Registry) Add(name, url, branch, localPath string) (*Repository, error) {
	if err := ValidateRepoName(name); err != nil {
		return nil, err
	}
	if err := ValidateURL(url); err != nil {
		return nil, err
	}
	if _, err := r.Get(name); err == nil {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}

	repo := Repository{
		Name:      name,
		URL:       url,
		Branch:    branch,
		LocalPath: localPath,
		AddedAt:   time.Now().UTC(),
	}
	r.repos = append(r.repos, repo)
	return &repo, nil
}

// Remove drops a repository from the in-memory registry. The caller must
// have deleted the working copy first and must Save afterwards.
func (r *Registry) Remove(name string) error {
	for i, repo := range r.repos {
		if repo.Name == name {
			r.repos = append(r.repos[:i], r.repos[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrNotFound, name)
}

// Get returns the repository registered under name.
func (r *Registry) Get(name string) (*Repository, error) {
	for i := range r.repos {
		if r.repos[i].Name == name {
			repo := r.repos[i]
			return &repo, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
}

// List returns all registered repositories in insertion order.
func (r *Registry) List() []Repository {
	out := make([]Repository, len(r.repos))
	copy(out, r.repos)
	return out
}

// Save writes the registry to disk, creating the directory if needed.
// The write is atomic: temp file then rename.
func (r *Registry) Save() error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(registryFile{Repositories: r.repos}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling registry: %w", err)
	}
	data = append(data, '\n')

	tmpPath := r.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("writing registry: %w", err)
	}
	if err := os.Rename(tmpPath, r.path); err != nil {
		_ = os.Remove(tmpPath) // clean up on failure
		return fmt.Errorf("saving registry: %w", err)
	}

	return nil
}
