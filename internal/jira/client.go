package jira

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/danielolaszy/ob/internal/apperr"
	"github.com/danielolaszy/ob/internal/logging"
	"github.com/danielolaszy/ob/pkg/models"
)

const (
	searchPath = "rest/api/2/search"
	issuePath  = "rest/api/2/issue"
)

// Client handles interactions with the tracker's issue API.
type Client struct {
	session *Session
}

// NewClient creates a client that sends every request through session.
func NewClient(session *Session) *Client {
	return &Client{session: session}
}

// NewIssue holds the caller-supplied values of an issue creation.
type NewIssue struct {
	ProjectKey  string
	IssueType   string
	Summary     string
	Description string
	Assignee    string
	Labels      []string
	// Extra maps custom select-list field ids (e.g. "customfield_10100") to option ids.
	Extra map[string]string
}

func (n NewIssue) validate() error {
	var missing []string
	if n.ProjectKey == "" {
		missing = append(missing, "project key")
	}
	if n.IssueType == "" {
		missing = append(missing, "issue type")
	}
	if n.Summary == "" {
		missing = append(missing, "summary")
	}
	if n.Assignee == "" {
		missing = append(missing, "assignee")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing %s", strings.Join(missing, ", "))
	}
	return nil
}

// Query runs a JQL search and returns the matching issues, reversed. An empty
// result is not an error.
func (c *Client) Query(ctx context.Context, jql string) (models.IssueVec, error) {
	const op = "query"

	req, err := c.session.Post(ctx, searchPath, NewQuery(jql))
	if err != nil {
		return models.IssueVec{}, fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.session.Send(req)
	if err != nil {
		return models.IssueVec{}, err
	}
	if resp.Err != nil {
		return models.IssueVec{}, statusFailure(op, resp)
	}

	var list IssueResponseList
	if err := json.Unmarshal(resp.Body, &list); err != nil {
		return models.IssueVec{}, apperr.E(apperr.KindDecode, op, err)
	}

	issues := IssuesFromResponse(list)
	logging.Debug("query complete", "jql", jql, "count", issues.Len())
	return issues, nil
}

// CreateIssue creates an issue and fetches it back. The tracker answers a
// create with the new key only, so a second round trip loads the full issue.
func (c *Client) CreateIssue(ctx context.Context, issue NewIssue) (models.Issue, error) {
	const op = "create issue"

	if err := issue.validate(); err != nil {
		return models.Issue{}, apperr.E(apperr.KindInvalidConfig, op, err)
	}

	body := NewCreateIssueRequest(issue.ProjectKey, issue.IssueType, issue.Summary,
		issue.Description, issue.Assignee, issue.Labels, issue.Extra)

	req, err := c.session.Post(ctx, issuePath, body)
	if err != nil {
		return models.Issue{}, fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.session.Send(req)
	if err != nil {
		return models.Issue{}, err
	}

	var created CreateIssueResponse
	if err := json.Unmarshal(resp.Body, &created); err != nil || created.Key == "" {
		return models.Issue{}, apperr.Unexpected(op,
			fmt.Sprintf("tracker response did not contain new issue key (status %d)", resp.StatusCode),
			string(resp.Body))
	}

	logging.Info("created issue",
		"key", created.Key,
		"project", issue.ProjectKey,
		"type", issue.IssueType)

	return c.GetIssue(ctx, created.Key)
}

// GetIssue fetches a single issue by key.
func (c *Client) GetIssue(ctx context.Context, key string) (models.Issue, error) {
	op := "get issue " + key
	if strings.TrimSpace(key) == "" {
		return models.Issue{}, apperr.E(apperr.KindInvalidConfig, "get issue", errors.New("missing issue key"))
	}

	req, err := c.session.Get(ctx, issuePath+"/"+url.PathEscape(key))
	if err != nil {
		return models.Issue{}, fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.session.Send(req)
	if err != nil {
		return models.Issue{}, err
	}
	if resp.Err != nil {
		return models.Issue{}, statusFailure(op, resp)
	}

	var issue IssueResponse
	if err := json.Unmarshal(resp.Body, &issue); err != nil {
		return models.Issue{}, apperr.E(apperr.KindDecode, op, err)
	}
	return NormalizeIssue(issue), nil
}

// statusFailure reports a non-2xx response with its body.
func statusFailure(op string, resp *Response) error {
	return &apperr.Error{
		Kind: apperr.KindUnexpected,
		Op:   op,
		Body: string(resp.Body),
		Err:  statusError(resp),
	}
}
