package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleIssue(key string) Issue {
	return Issue{
		SelfURL:   "https://tracker.example.com/rest/api/2/issue/1",
		Key:       key,
		Summary:   "Fix the thing",
		Status:    "Open",
		Assignee:  "Alice",
		Reporter:  Unknown,
		Labels:    []string{"interrupt", "ops"},
		BrowseURL: "https://tracker.example.com/browse/" + key,
	}
}

func TestEmptyIssueVec(t *testing.T) {
	vec := NewIssueVec(nil)

	assert.True(t, vec.IsEmpty())
	assert.Equal(t, 0, vec.Len())

	_, ok := vec.Get(0)
	assert.False(t, ok)
	assert.Empty(t, vec.Table())
}

func TestIssueVecGet(t *testing.T) {
	vec := NewIssueVec([]Issue{sampleIssue("ABC-1"), sampleIssue("ABC-2")})

	require.False(t, vec.IsEmpty())
	require.Equal(t, 2, vec.Len())

	first, ok := vec.Get(0)
	require.True(t, ok)
	assert.Equal(t, "ABC-1", first.Key)

	_, ok = vec.Get(2)
	assert.False(t, ok)
	_, ok = vec.Get(-1)
	assert.False(t, ok)
}

func TestIssuesReturnsCopy(t *testing.T) {
	vec := NewIssueVec([]Issue{sampleIssue("ABC-1")})

	issues := vec.Issues()
	issues[0].Key = "CHANGED"

	got, _ := vec.Get(0)
	assert.Equal(t, "ABC-1", got.Key)
}

func TestRows(t *testing.T) {
	vec := NewIssueVec([]Issue{sampleIssue("ABC-1"), sampleIssue("ABC-2")})

	testCases := []struct {
		name     string
		columns  []string
		expected [][]string
	}{
		{
			name:    "Filtered columns",
			columns: []string{"key", "status", "summary"},
			expected: [][]string{
				{"ABC-1", "Open", "Fix the thing"},
				{"ABC-2", "Open", "Fix the thing"},
			},
		},
		{
			name:    "Labels are joined and unknown columns get a placeholder",
			columns: []string{"key", "labels", "priority"},
			expected: [][]string{
				{"ABC-1", "interrupt, ops", MissingColumn},
				{"ABC-2", "interrupt, ops", MissingColumn},
			},
		},
		{
			name:    "Browse url",
			columns: []string{"key", "browse_url"},
			expected: [][]string{
				{"ABC-1", "https://tracker.example.com/browse/ABC-1"},
				{"ABC-2", "https://tracker.example.com/browse/ABC-2"},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, vec.Rows(tc.columns))
		})
	}
}

func TestTableUsesDefaultColumns(t *testing.T) {
	vec := NewIssueVec([]Issue{sampleIssue("ABC-1")})

	assert.Equal(t, [][]string{
		{"ABC-1", Unknown, "Alice", "Open", "Fix the thing", "interrupt, ops"},
	}, vec.Table())
}

func TestIssueString(t *testing.T) {
	assert.Equal(t, "ABC-1: Fix the thing assigned: Alice status: Open", sampleIssue("ABC-1").String())
}
