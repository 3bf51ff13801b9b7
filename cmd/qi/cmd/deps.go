package cmd

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/barysiuk/qi/internal/core"
	"github.com/barysiuk/qi/internal/tui"
)

// deps holds shared dependencies for CLI commands. The registry is loaded
// once per invocation and threaded through explicitly; there is no ambient
// global state.
type deps struct {
	paths    core.Paths
	registry *core.Registry
	cache    *core.CacheStore
}

// newDeps creates shared dependencies. Called lazily by commands that need them.
func newDeps() (*deps, error) {
	paths, err := core.DefaultPaths()
	if err != nil {
		return nil, fmt.Errorf("resolving config root: %w", err)
	}

	registry, err := core.LoadRegistry(paths.RegistryFile())
	if err != nil {
		return nil, err
	}

	return &deps{
		paths:    paths,
		registry: registry,
		cache:    core.NewCacheStore(paths.ReposDir()),
	}, nil
}

// buildIndex rebuilds the script index over all registered repositories.
func (d *deps) buildIndex() (*core.Index, error) {
	return core.BuildIndex(d.registry.List())
}

// selector picks the conflict prompt implementation: the interactive picker
// on a terminal, a plain numeric stdin prompt otherwise (pipes, tests).
func selector() core.Selector {
	if isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd()) {
		return tui.Picker{}
	}
	return core.NewStdinSelector(os.Stdin, os.Stderr)
}
