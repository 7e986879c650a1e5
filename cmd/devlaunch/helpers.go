package main

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/fbkclanna/devlaunch/internal/logging"
	"github.com/fbkclanna/devlaunch/internal/ui"
	"github.com/fbkclanna/devlaunch/internal/workspace"
)

// loadWorkspace loads the workspace named by the persistent --root flag.
// Commands with flag parsing disabled still see a value set on the root.
func loadWorkspace(cmd *cobra.Command) (*workspace.Context, error) {
	root, _ := cmd.Root().PersistentFlags().GetString("root")
	return workspace.Load(root)
}

func newLogger(w io.Writer, prefix string) *log.Logger {
	cfg := logging.FromEnv()
	cfg.Prefix = prefix
	return logging.New(w, cfg)
}

// colorFor reports whether w is a terminal that should get colors.
func colorFor(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && ui.ColorEnabled(f)
}
