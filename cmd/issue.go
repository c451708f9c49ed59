package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danielolaszy/ob/internal/render"
)

// newIssueCmd shows a single issue.
func newIssueCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "issue KEY",
		Short: "Show an issue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			open, err := cmd.Flags().GetBool("open")
			if err != nil {
				return err
			}

			cfg, client, err := e.connect(cmd)
			if err != nil {
				return err
			}

			issue, err := client.GetIssue(cmd.Context(), key)
			if err != nil {
				return fmt.Errorf("error finding issue: %w", err)
			}

			if err := render.Issue(cmd.OutOrStdout(), issue); err != nil {
				return err
			}

			if open {
				return e.openIssue(cfg, issue)
			}
			return nil
		},
	}
	cmd.Flags().BoolP("open", "o", false, "open the issue in the browser")
	return cmd
}
