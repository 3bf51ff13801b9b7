package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version info set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "qi [script] [args...]",
	Short: "Run scripts from cached git repositories by name",
	Long: `qi keeps a local cache of your script repositories and runs any
script inside them by its bare name, no matter which repository holds it.

Register repositories with 'qi add', keep them fresh with 'qi update',
then invoke any script directly: 'qi backup'.`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Bare invocation: the first argument is a script name.
		if len(args) == 0 {
			return cmd.Help()
		}
		return runScriptByName(args[0], args[1:])
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("qi %s (commit: %s, built: %s)\n", Version, Commit, Date)
	},
}

func init() {
	// Leave flags after the script name for the script itself.
	rootCmd.Flags().SetInterspersed(false)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
