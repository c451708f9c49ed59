package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danielolaszy/ob/internal/config"
)

func newSetupCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Create the config file",
		Long: `Ask for the tracker url, your username, an interrupt project key and your
password, then write a config file with sensible defaults. Any existing
file at the --config path is replaced.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := cmd.Flags().GetString("config")
			if err != nil {
				return err
			}

			term := e.terminal()
			defer term.Close()

			if _, err := config.Create(path, term); err != nil {
				return fmt.Errorf("couldn't create config file %s: %w", path, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Please edit %s to include your desired configuration\n", path)
			return nil
		},
	}
}
