package cmd

import (
	"fmt"
	"os"

	"github.com/barysiuk/qi/internal/core"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add <url> [name]",
	Short: "Register a script repository",
	Long: `Register a remote git repository and clone it into the cache.

The name defaults to the URL's basename. The registry entry is persisted
only after the clone succeeds, so a failed clone leaves nothing behind.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps()
		if err != nil {
			return err
		}

		url := args[0]
		name := ""
		if len(args) > 1 {
			name = args[1]
		} else {
			name, err = core.RepoNameFromURL(url)
			if err != nil {
				return err
			}
		}

		branch, _ := cmd.Flags().GetString("branch")

		repo, err := d.registry.Add(name, url, branch, d.paths.RepoDir(name))
		if err != nil {
			return err
		}

		fmt.Fprintf(os.Stdout, "Cloning %s...\n", url)
		if err := d.cache.Clone(repo); err != nil {
			printGitHints(err)
			return err
		}

		// Clone succeeded; now the registry entry may hit disk.
		if err := d.registry.Save(); err != nil {
			_ = d.cache.Delete(repo)
			return err
		}

		fmt.Fprintf(os.Stdout, "Added %s (%s)\n", repo.Name, repo.URL)
		return nil
	},
}

func init() {
	addCmd.Flags().StringP("branch", "b", "", "Branch to track (default: the remote default branch)")
	rootCmd.AddCommand(addCmd)
}

// printGitHints surfaces the actionable hints from a classified git error.
func printGitHints(err error) {
	ge, ok := core.AsGitError(err)
	if !ok || len(ge.Hints) == 0 {
		return
	}
	fmt.Fprintln(os.Stderr, "Hints:")
	for _, hint := range ge.Hints {
		fmt.Fprintf(os.Stderr, "  - %s\n", hint)
	}
}
