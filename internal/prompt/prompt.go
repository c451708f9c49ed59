// Package prompt asks the user to pick from a list of issues.
package prompt

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/danielolaszy/ob/internal/render"
	"github.com/danielolaszy/ob/pkg/models"
)

// ErrAborted is returned when the user cancels the prompt.
var ErrAborted = errors.New("selection aborted")

// ErrNoChoices is returned when there is nothing to choose from.
var ErrNoChoices = errors.New("no issues to choose from")

// Prompter reads a line of input. *liner.State satisfies it.
type Prompter interface {
	Prompt(prompt string) (string, error)
}

// NewTerminal returns a line editor on the controlling terminal. Ctrl-C aborts
// the current prompt. Callers must Close it.
func NewTerminal() *liner.State {
	l := liner.NewLiner()
	l.SetCtrlCAborts(true)
	return l
}

// ChooseIssue lists issues on out and asks for the number of one until a valid
// answer is given.
func ChooseIssue(p Prompter, out io.Writer, issues models.IssueVec) (models.Issue, error) {
	if issues.IsEmpty() {
		return models.Issue{}, ErrNoChoices
	}
	if err := render.Choices(out, issues); err != nil {
		return models.Issue{}, err
	}

	question := fmt.Sprintf("Open which issue? [0-%d]: ", issues.Len()-1)
	for {
		answer, err := p.Prompt(question)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				return models.Issue{}, ErrAborted
			}
			return models.Issue{}, fmt.Errorf("read choice: %w", err)
		}

		n, err := strconv.Atoi(strings.TrimSpace(answer))
		if err == nil {
			if issue, ok := issues.Get(n); ok {
				return issue, nil
			}
		}
		fmt.Fprintf(out, "%q is not a number between 0 and %d\n", strings.TrimSpace(answer), issues.Len()-1)
	}
}
