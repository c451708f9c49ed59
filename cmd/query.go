package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/danielolaszy/ob/internal/apperr"
	"github.com/danielolaszy/ob/internal/jira"
	"github.com/danielolaszy/ob/pkg/models"
)

var (
	listColumns    = []string{"key", "reporter", "assignee", "status", "summary"}
	currentColumns = []string{"key", "reporter", "status", "summary"}
	nextColumns    = []string{"key", "reporter", "summary"}
	urlColumns     = []string{"key", "browse_url"}
)

// newListCmd lists the open issues of every configured project.
func newListCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List unresolved issues in your projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			open, err := cmd.Flags().GetBool("open")
			if err != nil {
				return err
			}

			cfg, client, err := e.connect(cmd)
			if err != nil {
				return err
			}

			return e.queryHelper(cmd, cfg, client, jira.ListJQL(cfg.ProjectKeys), listColumns, open)
		},
	}
	addOpenFlag(cmd)
	return cmd
}

// newCurrentCmd lists the unresolved issues assigned to the configured user.
func newCurrentCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "current",
		Short: "List unresolved issues assigned to you",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			open, err := cmd.Flags().GetBool("open")
			if err != nil {
				return err
			}

			cfg, client, err := e.connect(cmd)
			if err != nil {
				return err
			}

			return e.queryHelper(cmd, cfg, client, jira.CurrentJQL(cfg.ProjectKeys, cfg.Username), currentColumns, open)
		},
	}
	addOpenFlag(cmd)
	return cmd
}

// newNextCmd lists open issues still parked on placeholder users.
func newNextCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "next",
		Short: "List open issues waiting on an NPC user",
		Long: `List open issues in your projects that are assigned to one of the
placeholder users configured under npc_users.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			open, err := cmd.Flags().GetBool("open")
			if err != nil {
				return err
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if !cfg.HasNPCUsers() {
				return apperr.E(apperr.KindInvalidConfig, "next", errors.New("npc_users is empty"))
			}

			client, err := e.newClient(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			return e.queryHelper(cmd, cfg, client, jira.NextJQL(cfg.ProjectKeys, cfg.NPCUserNames), nextColumns, open)
		},
	}
	addOpenFlag(cmd)
	return cmd
}

// newJQLCmd runs a raw JQL query.
func newJQLCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jql QUERY",
		Short: "Run a raw JQL query",
		Example: `  ob jql 'project = FOO AND labels = interrupt'
  ob jql --url 'reporter = currentUser() ORDER BY created DESC'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			open, err := cmd.Flags().GetBool("open")
			if err != nil {
				return err
			}
			urls, err := cmd.Flags().GetBool("url")
			if err != nil {
				return err
			}

			cfg, client, err := e.connect(cmd)
			if err != nil {
				return err
			}

			columns := models.DefaultColumns
			if urls {
				columns = urlColumns
			}
			return e.queryHelper(cmd, cfg, client, args[0], columns, open)
		},
	}
	addOpenFlag(cmd)
	cmd.Flags().BoolP("url", "u", false, "only print issue keys and their browse urls")
	return cmd
}

func addOpenFlag(cmd *cobra.Command) {
	cmd.Flags().BoolP("open", "o", false, "choose an issue to open in the browser")
}
