package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info <name>",
	Short: "Show details for a registered repository",
	Long: `Show a repository's registration, cache state, and scripts. When the
working copy carries a README.md it is rendered below the summary.`,
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

		branch := repo.Branch
		if branch == "" {
			branch = "(default)"
		}

		fmt.Fprintf(os.Stdout, "Name:    %s\n", repo.Name)
		fmt.Fprintf(os.Stdout, "URL:     %s\n", repo.URL)
		fmt.Fprintf(os.Stdout, "Branch:  %s\n", branch)
		fmt.Fprintf(os.Stdout, "Path:    %s\n", repo.LocalPath)

		if !d.cache.Exists(repo) {
			fmt.Fprintln(os.Stdout, "Cache:   missing (run 'qi update' to clone)")
			return nil
		}

		ix, err := d.buildIndex()
		if err != nil {
			return err
		}

		var scripts []string
		for _, name := range ix.Names() {
			for _, e := range ix.Lookup(name) {
				if e.RepoName == repo.Name {
					scripts = append(scripts, name)
					break
				}
			}
		}
		fmt.Fprintf(os.Stdout, "Scripts: %d\n", len(scripts))
		for _, s := range scripts {
			fmt.Fprintf(os.Stdout, "  - %s\n", s)
		}
		if desc := ix.Description(repo.Name); desc != "" {
			fmt.Fprintf(os.Stdout, "About:   %s\n", desc)
		}

		printReadme(repo.LocalPath)
		return nil
	},
}

// printReadme renders the repository README to the terminal, best-effort.
func printReadme(dir string) {
	data, err := os.ReadFile(filepath.Join(dir, "README.md"))
	if err != nil {
		return
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return
	}

	out, err := r.Render(string(data))
	if err != nil {
		return
	}
	fmt.Fprint(os.Stdout, out)
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
