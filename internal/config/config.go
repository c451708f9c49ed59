// Package config provides centralized configuration management for the application.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/danielolaszy/ob/internal/apperr"
)

// Auth modes accepted in the auth_mode key.
const (
	AuthModeSession = "session"
	AuthModeBasic   = "basic"
)

// DefaultFileName is the config file looked up in the home directory.
const DefaultFileName = ".ob.yml"

// Config holds all configuration parameters for the application.
type Config struct {
	JiraURL       string
	Username      string
	Auth          string
	AuthMode      string
	ProjectKeys   []string
	NPCUserNames  []string
	OpenInBrowser bool
	BrowserCmd    string
	Defaults      Defaults
}

// Defaults holds the values used by `new` when a flag is not given.
type Defaults struct {
	ProjectKey  string
	IssueType   string
	Assignee    string
	Labels      []string
	ExtraFields map[string]string
}

// DefaultPath returns ~/.ob.yml, or the bare file name when the home
// directory cannot be determined.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultFileName
	}
	return filepath.Join(home, DefaultFileName)
}

// Load reads the YAML config at path. JIRA_URL, JIRA_USERNAME and JIRA_AUTH
// override the file. The result is not validated.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Map specific environment variables
	v.BindEnv("config.jira", "JIRA_URL")
	v.BindEnv("config.username", "JIRA_USERNAME")
	v.BindEnv("config.auth", "JIRA_AUTH")

	v.SetDefault("config.auth_mode", AuthModeSession)
	v.SetDefault("config.open_in_browser", false)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			return nil, apperr.E(apperr.KindInvalidConfig, "load config",
				fmt.Errorf("%s does not exist, run 'ob setup' first", path))
		}
		return nil, apperr.E(apperr.KindInvalidConfig, "load config", fmt.Errorf("%s: %w", path, err))
	}

	config := &Config{
		JiraURL:       strings.TrimSpace(v.GetString("config.jira")),
		Username:      strings.TrimSpace(v.GetString("config.username")),
		Auth:          strings.TrimSpace(v.GetString("config.auth")),
		AuthMode:      strings.ToLower(strings.TrimSpace(v.GetString("config.auth_mode"))),
		ProjectKeys:   v.GetStringSlice("config.projects"),
		NPCUserNames:  v.GetStringSlice("config.npc_users"),
		OpenInBrowser: v.GetBool("config.open_in_browser"),
		BrowserCmd:    strings.TrimSpace(v.GetString("config.browser_command")),
		Defaults: Defaults{
			ProjectKey:  v.GetString("config.defaults.project_key"),
			IssueType:   v.GetString("config.defaults.issue_type"),
			Assignee:    v.GetString("config.defaults.assignee"),
			Labels:      v.GetStringSlice("config.defaults.labels"),
			// viper lowercases map keys; custom field ids already are.
			ExtraFields: v.GetStringMapString("config.defaults.extra_fields"),
		},
	}

	return config, nil
}

// Validate ensures that all required configuration values are provided. Every
// missing key is named in a single error.
func (c *Config) Validate() error {
	var missingVars []string

	if c.JiraURL == "" {
		missingVars = append(missingVars, "jira")
	}
	if c.Auth == "" {
		missingVars = append(missingVars, "auth")
	}
	if c.Username == "" {
		missingVars = append(missingVars, "username")
	}
	if len(nonBlank(c.ProjectKeys)) == 0 {
		missingVars = append(missingVars, "projects")
	}

	if len(missingVars) > 0 {
		return apperr.E(apperr.KindInvalidConfig, "validate config",
			fmt.Errorf("missing required config keys: %s", strings.Join(missingVars, ", ")))
	}

	switch c.AuthMode {
	case "", AuthModeSession, AuthModeBasic:
	default:
		return apperr.E(apperr.KindInvalidConfig, "validate config",
			fmt.Errorf("auth_mode must be %q or %q, got %q", AuthModeSession, AuthModeBasic, c.AuthMode))
	}

	return nil
}

// HasNPCUsers reports whether at least one non-blank placeholder user is configured.
func (c *Config) HasNPCUsers() bool {
	return len(nonBlank(c.NPCUserNames)) > 0
}

func nonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
