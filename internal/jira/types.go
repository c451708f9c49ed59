package jira

import (
	"encoding/json"
	"errors"
)

// DefaultMaxResults caps every search at a single page.
const DefaultMaxResults = 200

// DefaultFields are the issue fields requested by every search.
var DefaultFields = []string{"summary", "status", "assignee", "reporter", "labels"}

const (
	unknownUser = "<unknown>"
	unknown     = "Unknown"
)

// AuthRequest is the login body for rest/auth/1/session.
type AuthRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SessionCookie is the cookie name and value handed out by a login.
type SessionCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// AuthResponse is the login response. The session object is required.
type AuthResponse struct {
	Session SessionCookie `json:"session"`
}

func (r *AuthResponse) UnmarshalJSON(b []byte) error {
	var aux struct {
		Session *SessionCookie `json:"session"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	if aux.Session == nil {
		return errors.New("missing field session")
	}
	r.Session = *aux.Session
	return nil
}

// Query is a JQL search request.
type Query struct {
	JQL        string   `json:"jql"`
	Fields     []string `json:"fields"`
	MaxResults int      `json:"maxResults"`
}

// NewQuery returns a search for jql over DefaultFields, capped at DefaultMaxResults.
func NewQuery(jql string) Query {
	fields := make([]string, len(DefaultFields))
	copy(fields, DefaultFields)
	return Query{
		JQL:        jql,
		Fields:     fields,
		MaxResults: DefaultMaxResults,
	}
}

// UserFields references a tracker user. DisplayName is never sent on create.
type UserFields struct {
	Name        string  `json:"name"`
	DisplayName *string `json:"displayName,omitempty"`
}

// Display returns the display name, or "Unknown".
func (u UserFields) Display() string {
	if u.DisplayName == nil {
		return unknown
	}
	return *u.DisplayName
}

// Status is an issue's workflow status.
type Status struct {
	Name string `json:"name"`
}

// ProjectFields references a project by key.
type ProjectFields struct {
	Key string `json:"key"`
}

// IssueTypeFields references an issue type by name.
type IssueTypeFields struct {
	Name string `json:"name"`
}

// SelectListFields is the value of a custom select-list field.
type SelectListFields struct {
	ID string `json:"id"`
}

// IssueFields is the "fields" object of an issue.
//
// Decoding substitutes sentinels for missing optional fields. Reporter and
// Status are decode-only. Extra holds custom select-list fields; it is
// write-only and flattened into the object on encode.
type IssueFields struct {
	Summary     string
	Description string
	Assignee    UserFields
	Labels      []string
	Project     ProjectFields
	IssueType   IssueTypeFields
	Reporter    *UserFields
	Status      *Status
	Extra       map[string]SelectListFields
}

func (f IssueFields) MarshalJSON() ([]byte, error) {
	labels := f.Labels
	if labels == nil {
		labels = []string{}
	}

	out := make(map[string]any, len(f.Extra)+6)
	for name, value := range f.Extra {
		out[name] = value
	}
	// Standard fields win over extras of the same name.
	out["summary"] = f.Summary
	out["description"] = f.Description
	out["assignee"] = f.Assignee
	out["labels"] = labels
	out["project"] = f.Project
	out["issuetype"] = f.IssueType
	return json.Marshal(out)
}

func (f *IssueFields) UnmarshalJSON(b []byte) error {
	var aux struct {
		Summary     *string          `json:"summary"`
		Description *string          `json:"description"`
		Assignee    *UserFields      `json:"assignee"`
		Labels      []string         `json:"labels"`
		Project     *ProjectFields   `json:"project"`
		IssueType   *IssueTypeFields `json:"issuetype"`
		Reporter    *UserFields      `json:"reporter"`
		Status      *Status          `json:"status"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	if aux.Summary == nil {
		return errors.New("missing field summary")
	}

	fields := IssueFields{
		Summary:     *aux.Summary,
		Description: unknown,
		Assignee:    UserFields{Name: unknownUser},
		Labels:      aux.Labels,
		Project:     ProjectFields{Key: unknown},
		IssueType:   IssueTypeFields{Name: unknown},
		Reporter:    aux.Reporter,
		Status:      aux.Status,
	}
	if aux.Description != nil {
		fields.Description = *aux.Description
	}
	if aux.Assignee != nil {
		fields.Assignee = *aux.Assignee
	}
	if fields.Labels == nil {
		fields.Labels = []string{}
	}
	if aux.Project != nil {
		fields.Project = *aux.Project
	}
	if aux.IssueType != nil {
		fields.IssueType = *aux.IssueType
	}

	*f = fields
	return nil
}

// CreateIssueRequest is the body of an issue creation.
type CreateIssueRequest struct {
	Fields IssueFields `json:"fields"`
}

// NewCreateIssueRequest merges the caller's values into a create body.
// Every extra field value is wrapped as a select-list id.
func NewCreateIssueRequest(projectKey, issueType, summary, description, assignee string, labels []string, extra map[string]string) CreateIssueRequest {
	l := make([]string, len(labels))
	copy(l, labels)

	var selects map[string]SelectListFields
	if len(extra) > 0 {
		selects = make(map[string]SelectListFields, len(extra))
		for name, id := range extra {
			selects[name] = SelectListFields{ID: id}
		}
	}

	return CreateIssueRequest{
		Fields: IssueFields{
			Summary:     summary,
			Description: description,
			Assignee:    UserFields{Name: assignee},
			Labels:      l,
			Project:     ProjectFields{Key: projectKey},
			IssueType:   IssueTypeFields{Name: issueType},
			Extra:       selects,
		},
	}
}

// CreateIssueResponse is the tracker's answer to a create. It carries only the key.
type CreateIssueResponse struct {
	Key string `json:"key"`
}

// IssueResponse is a single issue as returned by get and search.
type IssueResponse struct {
	Fields  IssueFields `json:"fields"`
	Key     string      `json:"key"`
	SelfURL string      `json:"self"`
}

func (r *IssueResponse) UnmarshalJSON(b []byte) error {
	var aux struct {
		Fields  *IssueFields `json:"fields"`
		Key     string       `json:"key"`
		SelfURL string       `json:"self"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	if aux.Key == "" {
		return errors.New("missing field key")
	}
	if aux.Fields == nil {
		return errors.New("missing field fields")
	}

	r.Fields = *aux.Fields
	r.Key = aux.Key
	r.SelfURL = aux.SelfURL
	return nil
}

// IssueResponseList is a search result page. The issues array is required.
type IssueResponseList struct {
	Issues []IssueResponse `json:"issues"`
}

func (l *IssueResponseList) UnmarshalJSON(b []byte) error {
	var aux struct {
		Issues *[]IssueResponse `json:"issues"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	if aux.Issues == nil {
		return errors.New("missing field issues")
	}
	l.Issues = *aux.Issues
	return nil
}
