package core

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for registry and resolution failures. They are wrapped
// with context via fmt.Errorf("%w") and checked with errors.Is at the CLI
// boundary.
var (
	ErrDuplicateName    = errors.New("repository name already registered")
	ErrNotFound         = errors.New("repository not found")
	ErrInvalidURL       = errors.New("invalid repository URL")
	ErrScriptNotFound   = errors.New("script not found")
	ErrInvalidSelection = errors.New("invalid selection")
	ErrDeleteFailed     = errors.New("could not delete cached repository")
	ErrSelectionAborted = errors.New("selection aborted")
)

// GitOp identifies which cache operation invoked git.
type GitOp string

const (
	// OpClone is the initial checkout of a repository.
	OpClone GitOp = "clone"
	// OpSync is a refresh of an existing working copy.
	OpSync GitOp = "sync"
)

// GitErrorKind classifies why a git operation failed.
type GitErrorKind int

const (
	// GitErrUnknown is an unclassified git failure.
	GitErrUnknown GitErrorKind = iota
	// GitErrAuth means authentication failed (credentials missing or invalid).
	GitErrAuth
	// GitErrRepoNotFound means the repository URL is wrong or the user has no access.
	GitErrRepoNotFound
	// GitErrNetwork means the host could not be reached (DNS, connectivity).
	GitErrNetwork
	// GitErrSSHKey means the SSH key was rejected or not found.
	GitErrSSHKey
	// GitErrHostKey means SSH host key verification failed.
	GitErrHostKey
	// GitErrTimeout means the operation timed out.
	GitErrTimeout
)

// String returns a human-readable label for the error kind.
func (k GitErrorKind) String() string {
	switch k {
	case GitErrAuth:
		return "Authentication Required"
	case GitErrRepoNotFound:
		return "Repository Not Found"
	case GitErrNetwork:
		return "Network Error"
	case GitErrSSHKey:
		return "SSH Key Error"
	case GitErrHostKey:
		return "SSH Host Key Error"
	case GitErrTimeout:
		return "Timeout"
	default:
		return "Unknown Error"
	}
}

// GitError is a structured error returned when a git subprocess fails.
// It wraps the raw git output with classification and actionable hints.
type GitError struct {
	Op        GitOp
	Kind      GitErrorKind
	Protocol  string   // "https" or "ssh"
	URL       string   // the remote URL involved
	Command   string   // the git command that was run (for display)
	RawOutput string   // raw stderr/stdout from git
	Hints     []string // actionable suggestions for the user
}

// Error implements the error interface.
func (e *GitError) Error() string {
	return fmt.Sprintf("git %s failed (%s): %s", e.Op, e.Kind, e.firstLine())
}

// firstLine returns the first non-empty line of raw output for a concise message.
func (e *GitError) firstLine() string {
	for _, line := range strings.Split(e.RawOutput, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "Cloning into") {
			return line
		}
	}
	if e.RawOutput != "" {
		return strings.TrimSpace(e.RawOutput)
	}
	return string(e.Op) + " failed"
}

// AsGitError checks whether an error wraps a *GitError and returns it.
func AsGitError(err error) (*GitError, bool) {
	var ge *GitError
	if errors.As(err, &ge) {
		return ge, true
	}
	return nil, false
}

// classifyGitError examines git output and returns a structured GitError.
func classifyGitError(op GitOp, remoteURL, command, rawOutput string) *GitError {
	protocol := detectProtocol(remoteURL)
	kind := classifyOutput(rawOutput)

	return &GitError{
		Op:        op,
		Kind:      kind,
		Protocol:  protocol,
		URL:       remoteURL,
		Command:   command,
		RawOutput: strings.TrimSpace(rawOutput),
		Hints:     hintsForError(kind, protocol, remoteURL),
	}
}

// detectProtocol returns "ssh" or "https" based on the remote URL format.
func detectProtocol(url string) string {
	if strings.HasPrefix(url, "git@") || strings.HasPrefix(url, "ssh://") {
		return "ssh"
	}
	return "https"
}

// classifyOutput pattern-matches git stderr to determine the error kind.
func classifyOutput(output string) GitErrorKind {
	lower := strings.ToLower(output)

	// Timeout (checked first since it's set by us, not git).
	if strings.Contains(lower, "timed out") {
		return GitErrTimeout
	}

	// SSH key errors.
	if strings.Contains(lower, "permission denied (publickey)") ||
		strings.Contains(lower, "no such identity") ||
		strings.Contains(lower, "load key") ||
		strings.Contains(lower, "identity file") {
		return GitErrSSHKey
	}

	// SSH host key verification.
	if strings.Contains(lower, "host key verification failed") ||
		strings.Contains(lower, "known_hosts") {
		return GitErrHostKey
	}

	// HTTPS auth errors.
	if strings.Contains(lower, "could not read username") ||
		strings.Contains(lower, "could not read password") ||
		strings.Contains(lower, "invalid credentials") ||
		strings.Contains(lower, "authentication failed") ||
		strings.Contains(lower, "401") ||
		strings.Contains(lower, "403") ||
		strings.Contains(lower, "logon failed") {
		return GitErrAuth
	}

	// Repository not found (hosts return this for private repos with no access too).
	if strings.Contains(lower, "repository not found") ||
		strings.Contains(lower, "does not appear to be a git repository") ||
		strings.Contains(lower, "not found") ||
		strings.Contains(lower, "project not found") {
		return GitErrRepoNotFound
	}

	// Network errors.
	if strings.Contains(lower, "could not resolve host") ||
		strings.Contains(lower, "connection refused") ||
		strings.Contains(lower, "connection timed out") ||
		strings.Contains(lower, "network is unreachable") ||
		strings.Contains(lower, "no route to host") ||
		strings.Contains(lower, "name or service not known") {
		return GitErrNetwork
	}

	return GitErrUnknown
}

// hintsForError returns actionable suggestions based on the error kind and protocol.
func hintsForError(kind GitErrorKind, protocol, remoteURL string) []string {
	switch kind {
	case GitErrAuth:
		hints := []string{
			"Run `gh auth login` in your terminal to authenticate with GitHub",
			"Or configure a git credential helper: `git config --global credential.helper store`",
		}
		if protocol == "https" {
			if sshURL := httpsToSSH(remoteURL); sshURL != "" {
				hints = append(hints, fmt.Sprintf("Try SSH instead: %s", sshURL))
			}
		}
		return hints

	case GitErrSSHKey:
		hints := []string{
			"Ensure your SSH key is loaded: `ssh-add -l`",
			"If no keys are listed, add one: `ssh-add ~/.ssh/id_ed25519`",
		}
		if protocol == "ssh" {
			if httpsURL := sshToHTTPS(remoteURL); httpsURL != "" {
				hints = append(hints, fmt.Sprintf("Try HTTPS instead: %s", httpsURL))
			}
		}
		return hints

	case GitErrHostKey:
		return []string{
			"The SSH host key is not trusted. Run: `ssh-keyscan github.com >> ~/.ssh/known_hosts`",
			"Or connect once manually: `ssh -T git@github.com` and accept the host key",
		}

	case GitErrRepoNotFound:
		return []string{
			"Verify the repository URL is correct",
			"Ensure you have access to this repository (it may be private)",
		}

	case GitErrNetwork:
		return []string{
			"Check your internet connection",
			"Verify the hostname in the URL is correct",
		}

	case GitErrTimeout:
		return []string{
			"This may indicate a network issue or a very large repository",
			"Try again - the server may have been temporarily unavailable",
		}

	default:
		return []string{
			"Check the error message above for details",
			"Try the git command manually to diagnose the issue",
		}
	}
}

// httpsToSSH converts an HTTPS GitHub/GitLab URL to SSH format.
// Returns empty string if conversion is not possible.
func httpsToSSH(url string) string {
	// https://github.com/owner/repo.git -> git@github.com:owner/repo.git
	for _, host := range []string{"github.com", "gitlab.com"} {
		prefix := "https://" + host + "/"
		if strings.HasPrefix(url, prefix) {
			path := strings.TrimPrefix(url, prefix)
			if !strings.HasSuffix(path, ".git") {
				path += ".git"
			}
			return "git@" + host + ":" + path
		}
	}
	return ""
}

// sshToHTTPS converts an SSH GitHub/GitLab URL to HTTPS format.
// Returns empty string if conversion is not possible.
func sshToHTTPS(url string) string {
	// git@github.com:owner/repo.git -> https://github.com/owner/repo.git
	for _, host := range []string{"github.com", "gitlab.com"} {
		prefix := "git@" + host + ":"
		if strings.HasPrefix(url, prefix) {
			return "https://" + host + "/" + strings.TrimPrefix(url, prefix)
		}
	}
	return ""
}
