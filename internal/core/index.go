package core

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// scriptExt is the extension marking a file as an invocable script.
	scriptExt = ".bash"
	// repoManifestFile is the optional per-repository manifest.
	repoManifestFile = "qi.yaml"
	// gitMetadataDir is skipped during scanning.
	gitMetadataDir = ".git"
)

// Index maps bare script names to their physical locations across all
// cached repositories. It is rebuilt on demand and never persisted.
//
// Ordering is deterministic: repositories in registry order, files in
// lexical path order within a repository. Rebuilding over an unchanged
// cache yields identical output.
type Index struct {
	entries      map[string][]ScriptEntry
	names        []string                 // sorted distinct script names
	descriptions map[string]string        // repo name -> qi.yaml description
}

// BuildIndex scans the working copies of the given repositories, in the
// order given, and returns the resulting index. Repositories without a
// working copy are skipped, not treated as errors.
func BuildIndex(repos []Repository) (*Index, error) {
	ix := &Index{
		entries:      make(map[string][]ScriptEntry),
		descriptions: make(map[string]string),
	}

	for i := range repos {
		repo := &repos[i]
		if !dirExists(repo.LocalPath) {
			continue
		}

		root := repo.LocalPath
		if m := loadRepoManifest(root); m != nil {
			if m.Description != "" {
				ix.descriptions[repo.Name] = m.Description
			}
			if m.Scripts != "" {
				sub := filepath.Join(root, filepath.FromSlash(m.Scripts))
				if dirExists(sub) {
					root = sub
				}
			}
		}

		found, err := scanRepo(root, repo)
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", repo.Name, err)
		}
		for _, entry := range found {
			ix.entries[entry.Name] = append(ix.entries[entry.Name], entry)
		}
	}

	ix.names = make([]string, 0, len(ix.entries))
	for name := range ix.entries {
		ix.names = append(ix.names, name)
	}
	sort.Strings(ix.names)

	return ix, nil
}

// scanRepo walks one working copy and collects its script entries.
// WalkDir visits entries in lexical order, which keeps repeated scans
// over unchanged input stable.
func scanRepo(root string, repo *Repository) ([]ScriptEntry, error) {
	var found []ScriptEntry

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == gitMetadataDir {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), scriptExt) {
			return nil
		}

		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		found = append(found, ScriptEntry{
			Name:     strings.TrimSuffix(d.Name(), scriptExt),
			RepoName: repo.Name,
			RepoURL:  repo.URL,
			Path:     abs,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return found, nil
}

// Lookup returns all entries for a bare script name, in index order.
// An empty result means the script is unknown.
func (ix *Index) Lookup(name string) []ScriptEntry {
	return ix.entries[name]
}

// Names returns all distinct script names, sorted.
func (ix *Index) Names() []string {
	out := make([]string, len(ix.names))
	copy(out, ix.names)
	return out
}

// Description returns the qi.yaml description for a repository, if any.
func (ix *Index) Description(repoName string) string {
	return ix.descriptions[repoName]
}

// loadRepoManifest reads qi.yaml from a working copy root. Missing or
// malformed manifests return nil; they are a convenience, never an error.
func loadRepoManifest(dir string) *RepoManifest {
	data, err := os.ReadFile(filepath.Join(dir, repoManifestFile))
	if err != nil {
		return nil
	}
	var m RepoManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil
	}
	return &m
}
