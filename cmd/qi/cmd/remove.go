package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Unregister a repository and delete its cache",
	Long: `Remove a repository from the registry and delete its working copy.

The working copy is deleted first; if deletion fails the registry entry is
kept so the registry never points at nothing while a directory lingers
unowned.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps()
		if err != nil {
			return err
		}

		repo, err := d.registry.Get(args[0])
		if err != nil {
			return err
		}

		if err := d.cache.Delete(repo); err != nil {
			return fmt.Errorf("%w (registry entry for %q kept)", err, repo.Name)
		}

		if err := d.registry.Remove(repo.Name); err != nil {
			return err
		}
		if err := d.registry.Save(); err != nil {
			return err
		}

		fmt.Fprintf(os.Stdout, "Removed %s\n", repo.Name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(removeCmd)
}
