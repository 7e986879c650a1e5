package main

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fbkclanna/devlaunch/internal/manifest"
	"github.com/fbkclanna/devlaunch/internal/target"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose the environment for common issues",
		Args:  cobra.NoArgs,
		RunE:  runDoctor,
	}
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	ok := true

	ws, err := loadWorkspace(cmd)
	if err != nil {
		_, _ = fmt.Fprintf(out, "Manifest... ERROR\n  %v\n", err)
		return fmt.Errorf("doctor checks failed")
	}
	if _, statErr := os.Stat(ws.ManifestPath); statErr == nil {
		_, _ = fmt.Fprintf(out, "Manifest: %s\n", ws.ManifestPath)
	} else {
		_, _ = fmt.Fprintf(out, "Manifest: none (using defaults) in %s\n", ws.Root)
	}
	m := ws.Manifest

	// Check the package manager.
	if !checkTool(out, m.PackageManager) {
		ok = false
	}
	if m.Build[0] != m.PackageManager && !checkTool(out, m.Build[0]) {
		ok = false
	}
	if m.AgentWatch.Watcher == manifest.WatcherNodemon && !checkTool(out, "nodemon") {
		_, _ = fmt.Fprintln(out, "  nodemon is required by agent_watch.watcher; install it or use the builtin watcher")
		ok = false
	}

	// Check the packages directory and targets.
	_, _ = fmt.Fprintf(out, "Checking ./%s... ", m.PackagesDir)
	fsys := ws.FS()
	if target.DirExists(fsys, m.PackagesDir) {
		_, _ = fmt.Fprintln(out, "OK")
	} else {
		_, _ = fmt.Fprintln(out, "NOT FOUND")
		ok = false
	}

	targets := target.Discover(fsys, ws.Plan())
	present := target.Present(targets)
	_, _ = fmt.Fprintf(out, "Targets: %d of %d present\n", len(present), len(targets))
	for _, t := range target.Missing(targets) {
		_, _ = fmt.Fprintf(out, "  Warning: %s\n", t.MissingMessage("./"+m.PackagesDir))
	}

	if ok {
		_, _ = fmt.Fprintln(out, "\nAll checks passed.")
		return nil
	}
	_, _ = fmt.Fprintln(out, "\nSome checks failed. See above for details.")
	return fmt.Errorf("doctor checks failed")
}

// checkTool reports whether name resolves through PATH, printing its
// location and version.
func checkTool(out io.Writer, name string) bool {
	_, _ = fmt.Fprintf(out, "Checking %s... ", name)
	p, err := exec.LookPath(name)
	if err != nil {
		_, _ = fmt.Fprintln(out, "NOT FOUND")
		return false
	}
	ver := toolVersion(name)
	if ver == "" {
		_, _ = fmt.Fprintf(out, "found at %s\n", p)
	} else {
		_, _ = fmt.Fprintf(out, "found at %s (%s)\n", p, ver)
	}
	return true
}

func toolVersion(name string) string {
	b, err := exec.Command(name, "--version").Output() //nolint:gosec // name comes from the workspace manifest
	if err != nil {
		return ""
	}
	line, _, _ := strings.Cut(strings.TrimSpace(string(b)), "\n")
	return line
}
