package supervisor

import "fmt"

// ExitError reports a command whose failure became terminal.
type ExitError struct {
	Name     string
	Attempts int
	Code     int
	Err      error
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s: exited with code %d after %d attempt(s)", e.Name, e.Code, e.Attempts)
}

func (e *ExitError) Unwrap() error { return e.Err }
