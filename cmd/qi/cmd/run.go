package cmd

import (
	"fmt"

	"github.com/barysiuk/qi/internal/core"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <script> [args...]",
	Short: "Resolve a script by name and execute it",
	Long: `Rebuild the script index, resolve the named script, and execute it
with qi's environment and standard streams. Trailing arguments are passed
to the script, and its exit code becomes qi's exit code.

'qi <script>' is shorthand for 'qi run <script>'.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScriptByName(args[0], args[1:])
	},
}

func init() {
	// Leave flags after the script name for the script itself.
	runCmd.Flags().SetInterspersed(false)
	rootCmd.AddCommand(runCmd)
}

// runScriptByName is the shared path behind 'qi run <name>' and the bare
// 'qi <name>' invocation: rebuild, lookup, resolve, execute.
func runScriptByName(name string, args []string) error {
	entry, err := resolveScript(name)
	if err != nil {
		return err
	}
	return core.RunScript(entry.Path, args)
}

// resolveScript rebuilds the index and resolves one entry for name,
// prompting on conflicts.
func resolveScript(name string) (core.ScriptEntry, error) {
	d, err := newDeps()
	if err != nil {
		return core.ScriptEntry{}, err
	}

	ix, err := d.buildIndex()
	if err != nil {
		return core.ScriptEntry{}, err
	}

	entries := ix.Lookup(name)
	if len(entries) == 0 {
		return core.ScriptEntry{}, fmt.Errorf("%w: %q (try 'qi list')", core.ErrScriptNotFound, name)
	}

	return core.NewResolver(selector()).Resolve(entries)
}
