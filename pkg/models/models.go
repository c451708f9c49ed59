// Package models defines the normalized issue representation shared across the application.
package models

import (
	"fmt"
	"strings"
)

// Unknown is substituted for every optional field the tracker left out.
const Unknown = "Unknown"

// MissingColumn is rendered for a requested column that an Issue does not have.
const MissingColumn = "<key missing>"

// DefaultColumns is the column set of an unfiltered table.
var DefaultColumns = []string{"key", "reporter", "assignee", "status", "summary", "labels"}

// Issue is a tracker issue with every display field populated.
type Issue struct {
	// SelfURL is the REST link the tracker reported for the issue
	SelfURL string

	// Key is the issue identifier (e.g., "ABC-123"), never empty
	Key string

	// Summary is the one-line title
	Summary string

	// Status is the workflow status name, or Unknown
	Status string

	// Assignee is the assignee's display name, or Unknown
	Assignee string

	// Reporter is the reporter's display name, or Unknown
	Reporter string

	// Labels is the ordered label list
	Labels []string

	// BrowseURL is the human-facing page, or "" when SelfURL could not be parsed
	BrowseURL string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s assigned: %s status: %s", i.Key, i.Summary, i.Assignee, i.Status)
}

// Fields returns the issue as a column name to value map.
func (i Issue) Fields() map[string]string {
	return map[string]string{
		"self_url":   i.SelfURL,
		"key":        i.Key,
		"summary":    i.Summary,
		"status":     i.Status,
		"assignee":   i.Assignee,
		"reporter":   i.Reporter,
		"labels":     strings.Join(i.Labels, ", "),
		"browse_url": i.BrowseURL,
	}
}

// IssueVec is an ordered, read-only sequence of issues.
type IssueVec struct {
	issues []Issue
}

// NewIssueVec wraps issues in the order given.
func NewIssueVec(issues []Issue) IssueVec {
	return IssueVec{issues: issues}
}

// IsEmpty reports whether the vec holds no issues.
func (v IssueVec) IsEmpty() bool {
	return len(v.issues) == 0
}

// Len returns the number of issues.
func (v IssueVec) Len() int {
	return len(v.issues)
}

// Get returns the issue at index i, or false if i is out of range.
func (v IssueVec) Get(i int) (Issue, bool) {
	if i < 0 || i >= len(v.issues) {
		return Issue{}, false
	}
	return v.issues[i], true
}

// Issues returns a copy of the underlying issues.
func (v IssueVec) Issues() []Issue {
	out := make([]Issue, len(v.issues))
	copy(out, v.issues)
	return out
}

// Rows projects every issue onto columns, one row per issue.
func (v IssueVec) Rows(columns []string) [][]string {
	rows := make([][]string, 0, len(v.issues))
	for _, issue := range v.issues {
		fields := issue.Fields()
		row := make([]string, len(columns))
		for i, column := range columns {
			value, ok := fields[column]
			if !ok {
				value = MissingColumn
			}
			row[i] = value
		}
		rows = append(rows, row)
	}
	return rows
}

// Table projects every issue onto DefaultColumns.
func (v IssueVec) Table() [][]string {
	return v.Rows(DefaultColumns)
}
