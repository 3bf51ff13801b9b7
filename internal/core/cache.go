package core

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

const (
	cloneTimeout = 60 * time.Second
	syncTimeout  = 30 * time.Second
)

// CacheStore manages the on-disk working copies of registered repositories.
// All git work goes through the git binary as a subprocess; qi never links
// a git implementation.
type CacheStore struct {
	reposDir string // cache root, one subdirectory per repository
}

// NewCacheStore creates a CacheStore rooted at the given cache directory.
func NewCacheStore(reposDir string) *CacheStore {
	return &CacheStore{reposDir: reposDir}
}

// Exists reports whether the repository has a working copy on disk.
func (c *CacheStore) Exists(repo *Repository) bool {
	return dirExists(repo.LocalPath)
}

// Clone creates a fresh working copy at repo.LocalPath.
//
// The clone lands in a temp directory under the cache root and is renamed
// into place only on success, so a failed or interrupted clone never leaves
// a partial directory that the index would mistake for a valid entry.
func (c *CacheStore) Clone(repo *Repository) error {
	if err := os.MkdirAll(c.reposDir, 0o755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	tmpDir, err := os.MkdirTemp(c.reposDir, ".clone-*")
	if err != nil {
		return fmt.Errorf("creating temp dir: %w", err)
	}
	// MkdirTemp creates the directory; git clone wants to create the target
	// itself, so clone into a subdirectory of it.
	target := filepath.Join(tmpDir, "repo")

	args := []string{"clone"}
	if repo.Branch != "" {
		args = append(args, "--branch", repo.Branch)
	}
	args = append(args, repo.URL, target)

	cmd := exec.Command("git", args...)
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")

	output, err := runWithTimeout(cmd, cloneTimeout)
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return classifyGitError(OpClone, repo.URL, formatCloneCommand(repo), output)
	}

	if err := os.Rename(target, repo.LocalPath); err != nil {
		_ = os.RemoveAll(tmpDir)
		return fmt.Errorf("moving clone into place: %w", err)
	}
	_ = os.RemoveAll(tmpDir)

	return nil
}

// Sync refreshes an existing working copy to the latest state of the
// tracked branch via fetch + hard reset. A failed fetch leaves the prior
// working copy byte-for-byte intact; the reset only runs once the fetch
// has fully succeeded.
func (c *CacheStore) Sync(repo *Repository) error {
	if !c.Exists(repo) {
		return fmt.Errorf("%w: %q has no working copy (run update to clone it)", ErrNotFound, repo.Name)
	}

	env := append(os.Environ(), "GIT_TERMINAL_PROMPT=0")

	fetchCmd := exec.Command("git", "-C", repo.LocalPath, "fetch", "--prune", "origin")
	fetchCmd.Env = env
	if output, err := runWithTimeout(fetchCmd, syncTimeout); err != nil {
		return classifyGitError(OpSync, c.remoteURL(repo), "git fetch --prune origin", output)
	}

	// Track the configured branch, or whatever upstream the clone set up.
	target := "@{u}"
	if repo.Branch != "" {
		target = "origin/" + repo.Branch
	}

	resetCmd := exec.Command("git", "-C", repo.LocalPath, "reset", "--hard", target)
	resetCmd.Env = env
	if output, err := runWithTimeout(resetCmd, syncTimeout); err != nil {
		return classifyGitError(OpSync, c.remoteURL(repo), "git reset --hard "+target, output)
	}

	return nil
}

// removeAll is swapped out by tests to simulate filesystem deletion failures.
var removeAll = os.RemoveAll

// Delete removes the working copy. Deleting an already-absent entry is a
// no-op success; any filesystem failure surfaces as ErrDeleteFailed so the
// caller keeps the registry entry in place.
func (c *CacheStore) Delete(repo *Repository) error {
	if !dirExists(repo.LocalPath) {
		return nil
	}
	if err := removeAll(repo.LocalPath); err != nil {
		return fmt.Errorf("%w: %v", ErrDeleteFailed, err)
	}
	return nil
}

// remoteURL reads the origin remote URL from a working copy, falling back
// to the registered URL. Used only for error classification.
func (c *CacheStore) remoteURL(repo *Repository) string {
	cmd := exec.Command("git", "-C", repo.LocalPath, "remote", "get-url", "origin")
	out, err := cmd.Output()
	if err != nil {
		return repo.URL
	}
	return strings.TrimSpace(string(out))
}

// formatCloneCommand renders the clone invocation for error display.
func formatCloneCommand(repo *Repository) string {
	if repo.Branch != "" {
		return fmt.Sprintf("git clone --branch %s %s", repo.Branch, repo.URL)
	}
	return "git clone " + repo.URL
}

// runWithTimeout runs a command, killing it when the timeout expires.
func runWithTimeout(cmd *exec.Cmd, timeout time.Duration) (string, error) {
	done := make(chan struct{})
	var output []byte
	var cmdErr error

	go func() {
		output, cmdErr = cmd.CombinedOutput()
		close(done)
	}()

	select {
	case <-done:
		return string(output), cmdErr
	case <-time.After(timeout):
		if cmd.Process != nil {
			_ = cmd.Process.Kill()
		}
		// The message doubles as git output so classification sees the timeout.
		msg := fmt.Sprintf("command timed out after %s", timeout)
		return msg, fmt.Errorf("%s", msg)
	}
}

// dirExists returns true if the path exists and is a directory.
func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
