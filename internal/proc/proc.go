// Package proc holds process-group helpers shared by the supervisor and
// the file watcher, plus exit-code extraction.
package proc

import (
	"errors"
	"os/exec"
)

// ExitCode maps the error from exec.Cmd.Run/Wait to a shell-style exit
// code: 0 on success, 127 when the executable could not be started.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	var execErr *exec.Error
	if errors.As(err, &execErr) {
		return 127
	}
	return 1
}
