package jira

import (
	"net/url"

	"github.com/danielolaszy/ob/pkg/models"
)

// BrowseURL derives the human-facing page of an issue from its REST self link
// by replacing the path with browse/<key>. It returns "" when selfURL is not
// an absolute URL.
func BrowseURL(selfURL, key string) string {
	u, err := url.Parse(selfURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	u.Path = "/browse/" + key
	u.RawPath = ""
	return u.String()
}

// NormalizeIssue converts a wire issue into its display form.
func NormalizeIssue(resp IssueResponse) models.Issue {
	status := models.Unknown
	if resp.Fields.Status != nil {
		status = resp.Fields.Status.Name
	}

	reporter := models.Unknown
	if resp.Fields.Reporter != nil {
		reporter = resp.Fields.Reporter.Display()
	}

	labels := make([]string, len(resp.Fields.Labels))
	copy(labels, resp.Fields.Labels)

	return models.Issue{
		SelfURL:   resp.SelfURL,
		Key:       resp.Key,
		Summary:   resp.Fields.Summary,
		Status:    status,
		Assignee:  resp.Fields.Assignee.Display(),
		Reporter:  reporter,
		Labels:    labels,
		BrowseURL: BrowseURL(resp.SelfURL, resp.Key),
	}
}

// IssuesFromResponse normalizes a search page in reverse order, so the last
// issue the tracker returned is displayed first.
func IssuesFromResponse(list IssueResponseList) models.IssueVec {
	issues := make([]models.Issue, 0, len(list.Issues))
	for i := len(list.Issues) - 1; i >= 0; i-- {
		issues = append(issues, NormalizeIssue(list.Issues[i]))
	}
	return models.NewIssueVec(issues)
}
