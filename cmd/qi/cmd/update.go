package cmd

import (
	"fmt"
	"os"

	"github.com/barysiuk/qi/internal/core"
	"github.com/spf13/cobra"
)

var updateCmd = &cobra.Command{
	Use:   "update [name]",
	Short: "Refresh cached repositories",
	Long: `Fetch the latest state of one repository, or of all registered
repositories when no name is given.

Updating all repositories continues past individual failures and prints a
summary; the exit code is non-zero if any repository failed. A registered
repository whose working copy is missing is cloned instead of synced.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps()
		if err != nil {
			return err
		}

		if len(args) > 0 {
			repo, err := d.registry.Get(args[0])
			if err != nil {
				return err
			}
			if err := refreshRepo(d, repo); err != nil {
				printGitHints(err)
				return err
			}
			fmt.Fprintf(os.Stdout, "Updated %s\n", repo.Name)
			return nil
		}

		repos := d.registry.List()
		if len(repos) == 0 {
			fmt.Fprintln(os.Stdout, "No repositories registered. Use 'qi add <url>' to add one.")
			return nil
		}

		updated, failed := 0, 0
		for i := range repos {
			repo := &repos[i]
			if err := refreshRepo(d, repo); err != nil {
				failed++
				fmt.Fprintf(os.Stderr, "  %s: %v\n", repo.Name, err)
				continue
			}
			updated++
			fmt.Fprintf(os.Stdout, "  %s: ok\n", repo.Name)
		}

		fmt.Fprintf(os.Stdout, "%d updated, %d failed\n", updated, failed)
		if failed > 0 {
			return fmt.Errorf("%d repositories failed to update", failed)
		}
		return nil
	},
}

// refreshRepo syncs an existing working copy, or clones when none exists yet.
func refreshRepo(d *deps, repo *core.Repository) error {
	if !d.cache.Exists(repo) {
		return d.cache.Clone(repo)
	}
	return d.cache.Sync(repo)
}

func init() {
	rootCmd.AddCommand(updateCmd)
}
