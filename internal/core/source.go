package core

import (
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"
)

// repoNamePattern matches names safe to use as a cache subdirectory.
var repoNamePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_.-]*$`)

// ValidateURL checks that a source URL is plausible before handing it to git.
//
// Accepted forms:
//   - "https://host/owner/repo[.git]" (or http)
//   - "git@host:owner/repo.git"
//   - "ssh://git@host/owner/repo.git"
//   - local paths ("/abs/path", "./rel", "~/path") for file-based remotes
//
// Returns ErrInvalidURL for anything empty or obviously malformed. git
// remains the final judge of reachability.
func ValidateURL(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fmt.Errorf("%w: empty URL", ErrInvalidURL)
	}
	if strings.ContainsAny(raw, " \t\n") {
		return fmt.Errorf("%w: %q contains whitespace", ErrInvalidURL, raw)
	}

	// SSH scp-like syntax: git@host:path
	if strings.HasPrefix(raw, "git@") {
		if !strings.Contains(raw, ":") {
			return fmt.Errorf("%w: %q is missing the host:path separator", ErrInvalidURL, raw)
		}
		return nil
	}

	// Scheme URLs must parse and carry a host.
	if strings.Contains(raw, "://") {
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidURL, err)
		}
		if u.Host == "" {
			return fmt.Errorf("%w: %q has no host", ErrInvalidURL, raw)
		}
		return nil
	}

	// Anything else is treated as a local path remote.
	return nil
}

// RepoNameFromURL derives a registry name from a source URL's basename,
// trimming a trailing ".git". Used when the user does not pick a name.
func RepoNameFromURL(raw string) (string, error) {
	raw = strings.TrimSuffix(strings.TrimSuffix(strings.TrimSpace(raw), "/"), ".git")
	if raw == "" {
		return "", fmt.Errorf("%w: empty URL", ErrInvalidURL)
	}

	base := raw
	// SSH scp-like syntax: everything after the last ":" is the path.
	if idx := strings.LastIndex(base, ":"); idx >= 0 && !strings.Contains(base, "://") {
		base = base[idx+1:]
	}
	base = path.Base(strings.ReplaceAll(base, "\\", "/"))

	if err := ValidateRepoName(base); err != nil {
		return "", fmt.Errorf("%w: cannot derive a name from %q", ErrInvalidURL, raw)
	}
	return base, nil
}

// ValidateRepoName checks that a name is usable as a registry key and a
// cache directory name.
func ValidateRepoName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidURL)
	}
	if name == "." || name == ".." || !repoNamePattern.MatchString(name) {
		return fmt.Errorf("%w: %q is not a valid repository name", ErrInvalidURL, name)
	}
	return nil
}
