package config

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"

	"github.com/danielolaszy/ob/internal/apperr"
	"github.com/danielolaszy/ob/internal/logging"
)

const fileHeader = "# configuration for ob\n"

// Prompter reads answers from the user. *liner.State satisfies it.
type Prompter interface {
	Prompt(prompt string) (string, error)
	PasswordPrompt(prompt string) (string, error)
}

// fileConfig is the on-disk layout of the config file.
type fileConfig struct {
	ConfigVersion int        `yaml:"config_version"`
	Config        fileFields `yaml:"config"`
}

type fileFields struct {
	Jira           string       `yaml:"jira"`
	Username       string       `yaml:"username"`
	Auth           string       `yaml:"auth"`
	AuthMode       string       `yaml:"auth_mode"`
	Projects       []string     `yaml:"projects"`
	NPCUsers       []string     `yaml:"npc_users"`
	OpenInBrowser  bool         `yaml:"open_in_browser"`
	BrowserCommand string       `yaml:"browser_command"`
	Defaults       fileDefaults `yaml:"defaults"`
}

type fileDefaults struct {
	ProjectKey  string            `yaml:"project_key"`
	IssueType   string            `yaml:"issue_type"`
	Assignee    string            `yaml:"assignee"`
	Labels      []string          `yaml:"labels"`
	ExtraFields map[string]string `yaml:"extra_fields,omitempty"`
}

// EncodeCredential returns the stored form of a credential, base64("username:password").
func EncodeCredential(username, password string) string {
	return base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
}

// Create asks for the connection settings, writes a fresh config file to path
// and loads it back.
func Create(path string, p Prompter) (*Config, error) {
	const op = "setup"

	jiraURL, err := ask(p.Prompt, "Jira url: ")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	username, err := ask(p.Prompt, "Username: ")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	projectKey, err := ask(p.Prompt, "Interrupt project key: ")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	password, err := p.PasswordPrompt("Password: ")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var missing []string
	if jiraURL == "" {
		missing = append(missing, "jira url")
	}
	if username == "" {
		missing = append(missing, "username")
	}
	if projectKey == "" {
		missing = append(missing, "project key")
	}
	if len(missing) > 0 {
		return nil, apperr.E(apperr.KindInvalidConfig, op,
			fmt.Errorf("missing %s", strings.Join(missing, ", ")))
	}

	auth := EncodeCredential(username, strings.TrimSpace(password))
	content, err := render(fileConfig{
		ConfigVersion: 1,
		Config: fileFields{
			Jira:           jiraURL,
			Username:       username,
			Auth:           auth,
			AuthMode:       AuthModeSession,
			Projects:       []string{projectKey},
			NPCUsers:       []string{},
			OpenInBrowser:  true,
			BrowserCommand: "xdg-open",
			Defaults: fileDefaults{
				ProjectKey: projectKey,
				IssueType:  "Task",
				Assignee:   username,
				Labels:     []string{"interrupt"},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := atomic.WriteFile(path, bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("%s: write %s: %w", op, path, err)
	}

	logging.Info("wrote config file", "path", path, "username", username, "auth", logging.MaskSensitive(auth))

	return Load(path)
}

func ask(prompt func(string) (string, error), question string) (string, error) {
	answer, err := prompt(question)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(answer), nil
}

func render(fc fileConfig) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(fileHeader)

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fc); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}
