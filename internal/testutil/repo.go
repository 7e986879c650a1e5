package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// CreateMonorepo creates a temp directory containing the given relative
// directories (e.g. "packages/core", "client"). Returns the root path.
func CreateMonorepo(t *testing.T, dirs ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(root, filepath.FromSlash(d)), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

// WriteManifest writes devlaunch.yaml content into root.
func WriteManifest(t *testing.T, root, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(root, "devlaunch.yaml"), []byte(content), 0o600); err != nil {
		t.Fatalf("writing manifest: %v", err)
	}
}

// FakeBin writes an executable shell script named name into a temp bin
// directory and puts that directory first on PATH for the rest of the test.
// The script appends its arguments to the returned log file before running
// body.
func FakeBin(t *testing.T, name, body string) (logPath string) {
	t.Helper()
	bin := t.TempDir()
	logPath = filepath.Join(t.TempDir(), name+".log")

	script := strings.Join([]string{
		"#!/bin/sh",
		`echo "$*" >> ` + shellQuote(logPath),
		body,
		"",
	}, "\n")
	if err := os.WriteFile(filepath.Join(bin, name), []byte(script), 0o755); err != nil { //nolint:gosec // test executable
		t.Fatal(err)
	}
	t.Setenv("PATH", bin+string(os.PathListSeparator)+os.Getenv("PATH"))
	return logPath
}

// ReadLines returns the non-empty lines of a FakeBin log, or nil if the
// fake was never invoked.
func ReadLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path) //nolint:gosec // test file
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatal(err)
	}
	var lines []string
	for _, l := range strings.Split(string(data), "\n") {
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
