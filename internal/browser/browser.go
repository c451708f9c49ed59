// Package browser opens issue pages with the user's configured browser command.
package browser

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/danielolaszy/ob/internal/apperr"
	"github.com/danielolaszy/ob/internal/logging"
)

// Open runs command with url appended as its last argument. The command may
// carry its own arguments, e.g. "firefox --new-tab". It returns once the
// command has been started; the browser is not waited for.
func Open(command, url string) error {
	const op = "open browser"

	fields := strings.Fields(command)
	if len(fields) == 0 {
		return apperr.E(apperr.KindInvalidConfig, op, errors.New("browser_command is not set"))
	}
	if url == "" {
		return apperr.E(apperr.KindUnexpected, op, errors.New("issue has no browse url"))
	}

	path, err := exec.LookPath(fields[0])
	if err != nil {
		return apperr.E(apperr.KindInvalidConfig, op, fmt.Errorf("browser_command %q: %w", fields[0], err))
	}

	args := append(fields[1:], url)
	cmd := exec.Command(path, args...)
	logging.Debug("opening browser", "command", path, "url", url)

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return cmd.Process.Release()
}
