package ui

import (
	"os"

	"golang.org/x/term"
)

// EnvNoColor disables colored output when set to any non-empty value.
const EnvNoColor = "DEVLAUNCH_NO_COLOR"

// ColorEnabled reports whether f is a terminal and colors were not
// disabled through NO_COLOR or DEVLAUNCH_NO_COLOR.
func ColorEnabled(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" || os.Getenv(EnvNoColor) != "" {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
