// Package render formats issues for the terminal.
package render

import (
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/danielolaszy/ob/pkg/models"
)

// NoIssues is printed in place of an empty table.
const NoIssues = "no issues found"

const columnGap = "  "

var (
	headerColor  = color.New(color.Bold)
	summaryColor = color.New(color.Bold)
	labelColor   = color.New(color.FgCyan)
)

// Table writes rows left-aligned under a header naming columns. Widths are
// measured in terminal cells so wide runes line up.
func Table(w io.Writer, columns []string, rows [][]string) error {
	widths := make([]int, len(columns))
	for i, column := range columns {
		widths[i] = runewidth.StringWidth(column)
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			if n := runewidth.StringWidth(row[i]); n > widths[i] {
				widths[i] = n
			}
		}
	}

	var b strings.Builder
	writeRow(&b, widths, headerColor, columns)
	for _, row := range rows {
		writeRow(&b, widths, nil, row)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeRow(b *strings.Builder, widths []int, c *color.Color, cells []string) {
	var line strings.Builder
	for i, width := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		if i < len(widths)-1 {
			cell = runewidth.FillRight(cell, width)
		}
		if c != nil {
			cell = c.Sprint(cell)
		}
		if i > 0 {
			line.WriteString(columnGap)
		}
		line.WriteString(cell)
	}
	b.WriteString(strings.TrimRight(line.String(), " "))
	b.WriteString("\n")
}

// Issues writes issues projected onto columns, or NoIssues when there are none.
func Issues(w io.Writer, issues models.IssueVec, columns []string) error {
	if issues.IsEmpty() {
		_, err := io.WriteString(w, NoIssues+"\n")
		return err
	}
	return Table(w, columns, issues.Rows(columns))
}

// Issue writes the detail view of a single issue. Labels are omitted when empty.
func Issue(w io.Writer, issue models.Issue) error {
	type line struct {
		label string
		value string
		style *color.Color
	}

	lines := []line{
		{"Summary", issue.Summary, summaryColor},
		{"Url", issue.BrowseURL, nil},
		{"Key", issue.Key, nil},
		{"Status", issue.Status, nil},
		{"Reporter", issue.Reporter, nil},
		{"Assignee", issue.Assignee, nil},
	}
	if len(issue.Labels) > 0 {
		lines = append(lines, line{"Labels", strings.Join(issue.Labels, ", "), nil})
	}

	width := 0
	for _, l := range lines {
		if n := runewidth.StringWidth(l.label); n > width {
			width = n
		}
	}

	var b strings.Builder
	for _, l := range lines {
		b.WriteString(labelColor.Sprint(runewidth.FillRight(l.label, width)))
		b.WriteString(columnGap)
		value := l.value
		if l.style != nil {
			value = l.style.Sprint(value)
		}
		b.WriteString(value)
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// Choices writes issues as a numbered list for an interactive pick.
func Choices(w io.Writer, issues models.IssueVec) error {
	width := len(strconv.Itoa(issues.Len() - 1))

	var b strings.Builder
	for i, issue := range issues.Issues() {
		b.WriteString(runewidth.FillLeft(strconv.Itoa(i), width))
		b.WriteString(") ")
		b.WriteString(issue.String())
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}
