package core

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Selector is the injected capability that asks the operator to choose one
// of several script candidates. Select blocks until a choice is made and
// returns the zero-based index of the chosen entry.
//
// Implementations: the stdin prompter below, the bubbletea picker in
// internal/tui, and scripted selectors in tests.
type Selector interface {
	Select(entries []ScriptEntry) (int, error)
}

// Resolver turns an ambiguous index lookup into exactly one entry.
type Resolver struct {
	selector Selector
}

// NewResolver creates a Resolver that consults selector on conflicts.
func NewResolver(selector Selector) *Resolver {
	return &Resolver{selector: selector}
}

// Resolve picks one entry from a non-empty lookup result. A single entry is
// returned directly without consulting the selector; multiple entries go to
// the operator. It never silently defaults to an entry.
func (r *Resolver) Resolve(entries []ScriptEntry) (ScriptEntry, error) {
	switch len(entries) {
	case 0:
		return ScriptEntry{}, ErrScriptNotFound
	case 1:
		return entries[0], nil
	}

	idx, err := r.selector.Select(entries)
	if err != nil {
		return ScriptEntry{}, err
	}
	if idx < 0 || idx >= len(entries) {
		return ScriptEntry{}, fmt.Errorf("%w: index %d out of range", ErrInvalidSelection, idx+1)
	}
	return entries[idx], nil
}

// maxPromptAttempts bounds re-prompting on invalid input before aborting.
const maxPromptAttempts = 3

// StdinSelector prompts for a numeric selection on a plain text stream.
// Used when qi is not attached to a terminal (pipes, scripts, tests).
type StdinSelector struct {
	In  io.Reader
	Out io.Writer
}

// NewStdinSelector creates a StdinSelector reading from in and prompting on out.
func NewStdinSelector(in io.Reader, out io.Writer) *StdinSelector {
	return &StdinSelector{In: in, Out: out}
}

// Select prints the 1-indexed candidates with repository name and source
// URL, then reads a selection. Invalid input re-prompts up to
// maxPromptAttempts times, then aborts with ErrInvalidSelection.
func (s *StdinSelector) Select(entries []ScriptEntry) (int, error) {
	fmt.Fprintf(s.Out, "%q exists in multiple repositories:\n", entries[0].Name)
	for i, e := range entries {
		fmt.Fprintf(s.Out, "  %d. %s (%s)\n", i+1, e.RepoName, e.RepoURL)
	}

	reader := bufio.NewReader(s.In)
	for attempt := 0; attempt < maxPromptAttempts; attempt++ {
		fmt.Fprintf(s.Out, "Select [1-%d]: ", len(entries))

		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return 0, fmt.Errorf("%w: %v", ErrSelectionAborted, err)
		}
		line = strings.TrimSpace(line)

		n, convErr := strconv.Atoi(line)
		if convErr != nil || n < 1 || n > len(entries) {
			fmt.Fprintf(s.Out, "invalid selection %q\n", line)
			continue
		}
		return n - 1, nil
	}

	return 0, fmt.Errorf("%w: no valid selection after %d attempts", ErrInvalidSelection, maxPromptAttempts)
}
