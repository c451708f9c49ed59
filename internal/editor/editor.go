// Package editor collects long text from the user's editor.
package editor

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/danielolaszy/ob/internal/logging"
)

// ErrNoEditor is returned when neither $EDITOR nor a fallback editor is available.
var ErrNoEditor = errors.New("no editor found, set $EDITOR")

const commentPrefix = "#"

// Resolve picks the editor command.
// Priority: $EDITOR -> vi -> nano -> error.
func Resolve(getenv func(string) string) ([]string, error) {
	if fields := strings.Fields(getenv("EDITOR")); len(fields) > 0 {
		if _, err := exec.LookPath(fields[0]); err == nil {
			return fields, nil
		}
		logging.Warn("$EDITOR not found, falling back", "editor", fields[0])
	}

	for _, fallback := range []string{"vi", "nano"} {
		if _, err := exec.LookPath(fallback); err == nil {
			return []string{fallback}, nil
		}
	}

	return nil, ErrNoEditor
}

// Edit opens editor on a temporary file seeded with a comment hint and
// returns what the user saved. Lines starting with "#" are dropped.
func Edit(editor []string, hint string) (string, error) {
	if len(editor) == 0 {
		return "", ErrNoEditor
	}

	f, err := os.CreateTemp("", "ob-description-*.txt")
	if err != nil {
		return "", fmt.Errorf("create description file: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	var seed strings.Builder
	for _, line := range strings.Split(hint, "\n") {
		seed.WriteString(commentPrefix + " " + line + "\n")
	}
	if _, err := f.WriteString(seed.String()); err != nil {
		f.Close()
		return "", fmt.Errorf("write description file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("write description file: %w", err)
	}

	args := append(editor[1:len(editor):len(editor)], path)
	cmd := exec.Command(editor[0], args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("run editor %s: %w", editor[0], err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read description file: %w", err)
	}
	return stripComments(string(data)), nil
}

func stripComments(text string) string {
	var kept []string
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, commentPrefix) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}
