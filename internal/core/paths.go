package core

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	qiDirName        = ".qi"
	qiHomeEnv        = "QI_HOME"
	registryFileName = "registry.json"
	reposDirName     = "repos"
)

// Paths locates qi's configuration root and the cache directory tree.
// The default root is ~/.qi; QI_HOME overrides it (used by tests).
type Paths struct {
	root string
}

// DefaultPaths resolves the configuration root from QI_HOME or the home directory.
func DefaultPaths() (Paths, error) {
	if override := os.Getenv(qiHomeEnv); override != "" {
		return Paths{root: override}, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return Paths{}, fmt.Errorf("getting home directory: %w", err)
	}
	return Paths{root: filepath.Join(home, qiDirName)}, nil
}

// PathsAt creates Paths rooted at a custom directory. Useful for testing.
func PathsAt(root string) Paths {
	return Paths{root: root}
}

// Root returns the configuration root directory.
func (p Paths) Root() string {
	return p.root
}

// RegistryFile returns the full path to the registry file.
func (p Paths) RegistryFile() string {
	return filepath.Join(p.root, registryFileName)
}

// ReposDir returns the cache root where working copies are stored.
func (p Paths) ReposDir() string {
	return filepath.Join(p.root, reposDirName)
}

// RepoDir returns the working copy directory for a repository name.
func (p Paths) RepoDir(name string) string {
	return filepath.Join(p.ReposDir(), name)
}
