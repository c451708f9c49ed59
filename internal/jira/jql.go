package jira

import (
	"fmt"
	"strings"
)

// ListJQL selects every unresolved issue in projects.
func ListJQL(projects []string) string {
	return fmt.Sprintf("project in (%s) AND status not in (Resolved, Closed)", joinList(projects))
}

// CurrentJQL selects the unresolved issues in projects assigned to username.
func CurrentJQL(projects []string, username string) string {
	return fmt.Sprintf("project in (%s) AND assignee = %s AND status not in (Resolved, Closed)",
		joinList(projects), username)
}

// NextJQL selects open issues in projects parked on one of the NPC users.
func NextJQL(projects, npcUsers []string) string {
	return fmt.Sprintf("project in (%s) AND status = Open AND assignee in (%s)",
		joinList(projects), joinList(npcUsers))
}

func joinList(values []string) string {
	trimmed := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			trimmed = append(trimmed, v)
		}
	}
	return strings.Join(trimmed, ", ")
}
