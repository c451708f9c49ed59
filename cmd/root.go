// Package cmd provides the command-line interface for the ob CLI tool.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/danielolaszy/ob/internal/config"
	"github.com/danielolaszy/ob/internal/logging"
)

func newRootCmd(e *env) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ob",
		Short: "ob lists, queries and creates tracker issues from the terminal",
		Long: `ob is a CLI client for a Jira compatible issue tracker. It keeps your
credentials and personal defaults in a config file and offers canned
queries over your home projects.

Run 'ob setup' once to create the config file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				logging.SetupLogger(cmd.ErrOrStderr(), logging.LevelDebug)
			}
		},
	}

	// Add persistent flags that will be available to all commands
	rootCmd.PersistentFlags().StringP("config", "c", config.DefaultPath(), "config file to use")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "log tracker requests to stderr")

	rootCmd.AddCommand(
		newSetupCmd(e),
		newIssueCmd(e),
		newListCmd(e),
		newCurrentCmd(e),
		newNextCmd(e),
		newNewCmd(e),
		newJQLCmd(e),
	)

	return rootCmd
}

// Execute builds the command tree and runs it against os.Args.
func Execute() error {
	return newRootCmd(defaultEnv()).Execute()
}
