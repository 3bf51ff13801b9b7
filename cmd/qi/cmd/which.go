package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var whichCmd = &cobra.Command{
	Use:   "which <script>",
	Short: "Print the path a script name resolves to",
	Long: `Resolve a script name exactly as 'qi run' would, including the
conflict prompt, and print the absolute path without executing it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entry, err := resolveScript(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, entry.Path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whichCmd)
}
