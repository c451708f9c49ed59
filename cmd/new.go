package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danielolaszy/ob/internal/apperr"
	"github.com/danielolaszy/ob/internal/config"
	"github.com/danielolaszy/ob/internal/jira"
	"github.com/danielolaszy/ob/internal/logging"
	"github.com/danielolaszy/ob/internal/render"
)

// newNewCmd creates an issue from flags merged over the configured defaults.
func newNewCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create an issue",
		Long: `Create an issue. Flags that are not given fall back to the defaults
section of the config file. The created issue is printed and, when
open_in_browser is set, opened in the browser.`,
		Example: `  ob new -s 'Printer on fire' -l interrupt -l hw
  ob new -s 'Rotate certificates' -p OPS -t Task -a bob --long-description
  ob new -s 'VPN down' -f customfield_10100=10201`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			issue, err := newIssueFromFlags(cmd, cfg)
			if err != nil {
				return err
			}

			longDescription, err := cmd.Flags().GetBool("long-description")
			if err != nil {
				return err
			}
			if longDescription {
				issue.Description, err = e.editDescription(fmt.Sprintf("Description for %q.\nLines starting with # are ignored.", issue.Summary))
				if err != nil {
					return fmt.Errorf("failed to get description from editor: %w", err)
				}
			}

			client, err := e.newClient(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			created, err := client.CreateIssue(cmd.Context(), issue)
			if err != nil {
				return fmt.Errorf("issue %q: %w", issue.Summary, err)
			}

			if err := render.Issue(cmd.OutOrStdout(), created); err != nil {
				return err
			}

			if cfg.OpenInBrowser {
				if err := e.openIssue(cfg, created); err != nil {
					logging.Warn("issue created but not opened", "key", created.Key, "error", err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringP("summary", "s", "", "issue summary (required)")
	cmd.Flags().StringP("project", "p", "", "project key (default from config)")
	cmd.Flags().StringP("type", "t", "", "issue type (default from config)")
	cmd.Flags().StringP("assignee", "a", "", "assignee user name (default from config)")
	cmd.Flags().StringArrayP("label", "l", nil, "label to set, repeatable (default from config)")
	cmd.Flags().StringArrayP("field", "f", nil, "custom select field as id=option-id, repeatable")
	cmd.Flags().StringP("description", "D", "", "issue description")
	cmd.Flags().BoolP("long-description", "L", false, "write the description in $EDITOR")

	cmd.MarkFlagRequired("summary")
	cmd.MarkFlagsMutuallyExclusive("description", "long-description")

	return cmd
}

// newIssueFromFlags merges the command's flags over cfg's defaults.
func newIssueFromFlags(cmd *cobra.Command, cfg *config.Config) (jira.NewIssue, error) {
	flags := cmd.Flags()

	summary, _ := flags.GetString("summary")
	description, _ := flags.GetString("description")

	issue := jira.NewIssue{
		ProjectKey:  stringFlagOr(cmd, "project", cfg.Defaults.ProjectKey),
		IssueType:   stringFlagOr(cmd, "type", cfg.Defaults.IssueType),
		Summary:     strings.TrimSpace(summary),
		Description: description,
		Assignee:    stringFlagOr(cmd, "assignee", cfg.Defaults.Assignee),
		Labels:      cfg.Defaults.Labels,
		Extra:       make(map[string]string, len(cfg.Defaults.ExtraFields)),
	}
	if issue.Assignee == "" {
		issue.Assignee = cfg.Username
	}

	if flags.Changed("label") {
		issue.Labels, _ = flags.GetStringArray("label")
	}

	for id, value := range cfg.Defaults.ExtraFields {
		issue.Extra[id] = value
	}
	fields, _ := flags.GetStringArray("field")
	for _, f := range fields {
		id, value, ok := strings.Cut(f, "=")
		id, value = strings.TrimSpace(id), strings.TrimSpace(value)
		if !ok || id == "" || value == "" {
			return jira.NewIssue{}, apperr.E(apperr.KindInvalidConfig, "new",
				fmt.Errorf("field %q must be given as id=value", f))
		}
		issue.Extra[id] = value
	}

	return issue, nil
}

func stringFlagOr(cmd *cobra.Command, name, fallback string) string {
	if !cmd.Flags().Changed(name) {
		return fallback
	}
	value, _ := cmd.Flags().GetString(name)
	return strings.TrimSpace(value)
}
