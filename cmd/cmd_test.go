package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
)

func init() {
	color.NoColor = true
}

const (
	searchTwoIssues = `{"startAt": 0, "maxResults": 200, "total": 2, "issues": [
		{"key": "FOO-1", "self": "https://tracker.example.com/rest/api/2/issue/10001", "fields": {
			"summary": "Printer on fire", "status": {"name": "Open"},
			"assignee": {"name": "alice", "displayName": "Alice Adams"},
			"reporter": {"name": "bob", "displayName": "Bob Brown"}, "labels": ["interrupt"]}},
		{"key": "FOO-2", "self": "https://tracker.example.com/rest/api/2/issue/10002", "fields": {
			"summary": "Disk full", "status": {"name": "In Progress"}, "assignee": null}}
	]}`

	searchNothing = `{"startAt": 0, "maxResults": 200, "total": 0, "issues": []}`

	issueFoo3 = `{"key": "FOO-3", "self": "https://tracker.example.com/rest/api/2/issue/10003", "fields": {
		"summary": "New hire laptop", "description": "Needs a dock", "status": {"name": "Open"},
		"assignee": {"name": "alice", "displayName": "Alice Adams"},
		"reporter": {"name": "alice", "displayName": "Alice Adams"},
		"labels": ["interrupt"], "project": {"key": "FOO"}, "issuetype": {"name": "Task"}}}`
)

// tracker is a fake issue tracker that records what the commands ask of it.
type tracker struct {
	*httptest.Server

	mu         sync.Mutex
	requests   int
	queries    []string
	created    []map[string]any
	searchBody string
	loginFails bool
}

func newTracker(t *testing.T) *tracker {
	t.Helper()

	tr := &tracker{searchBody: searchTwoIssues}
	mux := http.NewServeMux()

	mux.HandleFunc("POST /rest/auth/1/session", func(w http.ResponseWriter, r *http.Request) {
		tr.hit()
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body["username"] != "alice" || body["password"] != "secret" || tr.failLogin() {
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, `{"errorMessages": ["Login failed"], "errors": {}}`) // nolint:errcheck
			return
		}
		io.WriteString(w, `{"session": {"name": "JSESSIONID", "value": "abc123"}}`) // nolint:errcheck
	})

	mux.HandleFunc("POST /rest/api/2/search", func(w http.ResponseWriter, r *http.Request) {
		tr.hit()
		if !authenticated(r) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var body struct {
			JQL string `json:"jql"`
		}
		json.NewDecoder(r.Body).Decode(&body) // nolint:errcheck

		tr.mu.Lock()
		tr.queries = append(tr.queries, body.JQL)
		resp := tr.searchBody
		tr.mu.Unlock()

		io.WriteString(w, resp) // nolint:errcheck
	})

	mux.HandleFunc("POST /rest/api/2/issue", func(w http.ResponseWriter, r *http.Request) {
		tr.hit()
		if !authenticated(r) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body) // nolint:errcheck
		if fields, ok := body["fields"].(map[string]any); ok {
			if project, ok := fields["project"].(map[string]any); ok && project["key"] == "NOPE" {
				w.WriteHeader(http.StatusBadRequest)
				io.WriteString(w, `{"errorMessages": [], "errors": {"project": "valid project is required"}}`) // nolint:errcheck
				return
			}
		}

		tr.mu.Lock()
		tr.created = append(tr.created, body)
		tr.mu.Unlock()

		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"id": "10003", "key": "FOO-3"}`) // nolint:errcheck
	})

	mux.HandleFunc("GET /rest/api/2/issue/{key}", func(w http.ResponseWriter, r *http.Request) {
		tr.hit()
		if !authenticated(r) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.PathValue("key") != "FOO-3" {
			w.WriteHeader(http.StatusNotFound)
			io.WriteString(w, `{"errorMessages": ["Issue Does Not Exist"], "errors": {}}`) // nolint:errcheck
			return
		}
		io.WriteString(w, issueFoo3) // nolint:errcheck
	})

	tr.Server = httptest.NewServer(mux)
	t.Cleanup(tr.Close)
	return tr
}

func authenticated(r *http.Request) bool {
	c, err := r.Cookie("JSESSIONID")
	return err == nil && c.Value == "abc123"
}

func (tr *tracker) hit() {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	tr.requests++
}

func (tr *tracker) failLogin() bool {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return tr.loginFails
}

func (tr *tracker) Requests() int {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return tr.requests
}

func (tr *tracker) Queries() []string {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return append([]string(nil), tr.queries...)
}

// fakeTerminal answers prompts from a script.
type fakeTerminal struct {
	answers  []string
	password string
	err      error
	closed   bool
}

func (f *fakeTerminal) Prompt(string) (string, error) {
	if len(f.answers) == 0 {
		if f.err != nil {
			return "", f.err
		}
		return "", io.EOF
	}
	a := f.answers[0]
	f.answers = f.answers[1:]
	return a, nil
}

func (f *fakeTerminal) PasswordPrompt(string) (string, error) {
	return f.password, nil
}

func (f *fakeTerminal) Close() error {
	f.closed = true
	return nil
}

// harness runs commands against a fake tracker with a temporary config file.
type harness struct {
	t          *testing.T
	tracker    *tracker
	env        *env
	term       *fakeTerminal
	configPath string
	opened     []string
	edited     []string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	t.Setenv("JIRA_URL", "")
	t.Setenv("JIRA_USERNAME", "")
	t.Setenv("JIRA_AUTH", "")

	h := &harness{
		t:          t,
		tracker:    newTracker(t),
		term:       &fakeTerminal{},
		configPath: filepath.Join(t.TempDir(), ".ob.yml"),
	}
	h.env = &env{
		httpClient: h.tracker.Client(),
		terminal:   func() terminal { return h.term },
		openURL: func(command, url string) error {
			h.opened = append(h.opened, command+" "+url)
			return nil
		},
		editDescription: func(hint string) (string, error) {
			h.edited = append(h.edited, hint)
			return "From the editor", nil
		},
	}
	h.writeConfig(defaultTestConfig(h.tracker.URL))
	return h
}

func defaultTestConfig(url string) string {
	return fmt.Sprintf(`config_version: 1
config:
  jira: %s
  username: alice
  auth: YWxpY2U6c2VjcmV0
  projects: [FOO, BAR]
  npc_users: [foo-team, foo-oncall]
  open_in_browser: true
  browser_command: firefox
  defaults:
    project_key: FOO
    issue_type: Bug
    assignee: alice
    labels: [interrupt]
    extra_fields:
      customfield_10100: "10201"
`, url)
}

func (h *harness) writeConfig(content string) {
	h.t.Helper()
	require.NoError(h.t, os.WriteFile(h.configPath, []byte(content), 0o600))
}

// run executes ob with args and returns what it printed on stdout.
func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()

	root := newRootCmd(h.env)
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--config", h.configPath}, args...))

	err := root.Execute()
	return out.String(), err
}

func lines(s ...string) string {
	return strings.Join(s, "\n") + "\n"
}
