package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/danielolaszy/ob/internal/browser"
	"github.com/danielolaszy/ob/internal/config"
	"github.com/danielolaszy/ob/internal/editor"
	"github.com/danielolaszy/ob/internal/jira"
	"github.com/danielolaszy/ob/internal/logging"
	"github.com/danielolaszy/ob/internal/prompt"
	"github.com/danielolaszy/ob/internal/render"
	"github.com/danielolaszy/ob/pkg/models"
)

// terminal is an interactive line reader.
type terminal interface {
	config.Prompter
	Close() error
}

// env holds what the commands need from the outside world.
type env struct {
	httpClient      *http.Client
	terminal        func() terminal
	openURL         func(command, url string) error
	editDescription func(hint string) (string, error)
}

func defaultEnv() *env {
	return &env{
		terminal: func() terminal { return prompt.NewTerminal() },
		openURL:  browser.Open,
		editDescription: func(hint string) (string, error) {
			ed, err := editor.Resolve(os.Getenv)
			if err != nil {
				return "", err
			}
			return editor.Edit(ed, hint)
		},
	}
}

// loadConfig reads and validates the file named by --config.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("couldn't open config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	logging.Debug("loaded config",
		"path", path,
		"jira", cfg.JiraURL,
		"username", cfg.Username,
		"auth", logging.MaskSensitive(cfg.Auth),
		"auth_mode", cfg.AuthMode)

	return cfg, nil
}

// newClient logs in once for this invocation.
func (e *env) newClient(ctx context.Context, cfg *config.Config) (*jira.Client, error) {
	opts := []jira.SessionOption{jira.WithHTTPClient(e.httpClient)}
	if cfg.AuthMode == config.AuthModeBasic {
		opts = append(opts, jira.WithBasicAuth())
	}

	session, err := jira.NewSession(ctx, cfg.Auth, cfg.JiraURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("couldn't construct client: %w", err)
	}
	return jira.NewClient(session), nil
}

// connect loads the config and logs in.
func (e *env) connect(cmd *cobra.Command) (*config.Config, *jira.Client, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	client, err := e.newClient(cmd.Context(), cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, client, nil
}

func (e *env) openIssue(cfg *config.Config, issue models.Issue) error {
	if err := e.openURL(cfg.BrowserCmd, issue.BrowseURL); err != nil {
		return fmt.Errorf("couldn't open %s: %w", issue.Key, err)
	}
	return nil
}

// queryHelper runs jql, prints the result projected onto columns and, when
// choose is set, asks which issue to open in the browser.
func (e *env) queryHelper(cmd *cobra.Command, cfg *config.Config, client *jira.Client, jql string, columns []string, choose bool) error {
	logging.Info("running query", "jql", jql)

	issues, err := client.Query(cmd.Context(), jql)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if err := render.Issues(out, issues, columns); err != nil {
		return err
	}

	if !choose || issues.IsEmpty() {
		return nil
	}

	term := e.terminal()
	defer term.Close()

	issue, err := prompt.ChooseIssue(term, out, issues)
	if errors.Is(err, prompt.ErrAborted) {
		return nil
	}
	if err != nil {
		return err
	}
	return e.openIssue(cfg, issue)
}
