package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/fbkclanna/devlaunch/internal/testutil"
)

func TestRunTargets_table(t *testing.T) {
	dir := testutil.CreateMonorepo(t, "packages/core", "client")

	var buf bytes.Buffer
	root := newRootCmd()
	root.SetOut(&buf)
	root.SetArgs([]string{"--root", dir, "targets"})
	if err := root.Execute(); err != nil {
		t.Fatalf("targets failed: %v", err)
	}

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected header + 4 targets, got:\n%s", out)
	}
	if !strings.HasPrefix(lines[0], "TARGET") {
		t.Errorf("header = %q", lines[0])
	}
	for i, want := range []string{"core", "client-direct", "client", "agent"} {
		if f := strings.Fields(lines[i+1]); f[0] != want {
			t.Errorf("row %d = %q, want %s first", i, lines[i+1], want)
		}
	}
	if !strings.Contains(lines[2], "missing") || !strings.Contains(lines[3], "present") {
		t.Errorf("unexpected states:\n%s", out)
	}
}

func TestRunTargets_json(t *testing.T) {
	dir := testutil.CreateMonorepo(t, "packages/core", "agent")
	testutil.WriteManifest(t, dir, "version: 1\nfolders: [plugin-a]\n")

	var buf bytes.Buffer
	root := newRootCmd()
	root.SetOut(&buf)
	root.SetArgs([]string{"--root", dir, "targets", "--json"})
	if err := root.Execute(); err != nil {
		t.Fatalf("targets --json failed: %v", err)
	}

	var got []targetStatus
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if len(got) != 4 {
		t.Fatalf("got %d targets, want 4", len(got))
	}
	if got[1].Name != "plugin-a" || got[1].Path != "packages/plugin-a" || got[1].Present {
		t.Errorf("folder target = %+v", got[1])
	}
	if !got[0].Present || !got[3].Present || got[3].Kind != "agent" {
		t.Errorf("targets = %+v", got)
	}
}

func TestRunTargets_invalidManifest(t *testing.T) {
	dir := testutil.CreateMonorepo(t)
	testutil.WriteManifest(t, dir, "version: 1\npackages_dir: ../outside\n")

	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"--root", dir, "targets"})
	if err := root.Execute(); err == nil {
		t.Fatal("expected error for escaping packages_dir")
	}
}
