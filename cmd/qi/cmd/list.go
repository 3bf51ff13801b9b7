package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available scripts",
	Long: `Rebuild the script index and print every distinct script name with
the repositories that provide it. Names present in more than one repository
show all owners.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps()
		if err != nil {
			return err
		}

		ix, err := d.buildIndex()
		if err != nil {
			return err
		}

		names := ix.Names()
		if len(names) == 0 {
			fmt.Fprintln(os.Stdout, "No scripts found. Use 'qi add <url>' to register a repository.")
			return nil
		}

		verbose, _ := cmd.Flags().GetBool("verbose")

		for _, name := range names {
			entries := ix.Lookup(name)
			owners := make([]string, len(entries))
			for i, e := range entries {
				owners[i] = e.RepoName
			}
			fmt.Fprintf(os.Stdout, "%s  (%s)\n", name, strings.Join(owners, ", "))

			if verbose {
				for _, e := range entries {
					fmt.Fprintf(os.Stdout, "    %s\n", e.Path)
				}
			}
		}
		return nil
	},
}

func init() {
	listCmd.Flags().BoolP("verbose", "v", false, "Show script paths")
	rootCmd.AddCommand(listCmd)
}
