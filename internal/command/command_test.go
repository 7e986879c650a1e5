package command

import (
	"strings"
	"testing"
	"time"

	"github.com/fbkclanna/devlaunch/internal/manifest"
	"github.com/fbkclanna/devlaunch/internal/target"
)

var (
	core   = target.Target{Name: "core", Path: "packages/core", Kind: target.KindCore, Exists: true}
	direct = target.Target{Name: "client-direct", Path: "packages/client-direct", Kind: target.KindFolder, Exists: true}
	client = target.Target{Name: "client", Path: "client", Kind: target.KindClient, Exists: true}
	agent  = target.Target{Name: "agent", Path: "agent", Kind: target.KindAgent, Exists: true}
)

func TestDev(t *testing.T) {
	c := Dev(core, "pnpm", []string{"--character=characters/trump.json"})
	want := "pnpm --dir packages/core dev -- --character=characters/trump.json"
	if got := c.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if c.Name != "core" {
		t.Errorf("Name = %q, want core", c.Name)
	}
}

func TestString_quotesRoundTrip(t *testing.T) {
	c := Dev(core, "pnpm", []string{"two words", "it's", "$HOME"})
	back, err := Parse(c.Name, c.String())
	if err != nil {
		t.Fatalf("Parse(String()) error: %v", err)
	}
	if strings.Join(back.Argv(), "|") != strings.Join(c.Argv(), "|") {
		t.Errorf("round trip = %q, want %q", back.Argv(), c.Argv())
	}
}

func TestDev_noArgs(t *testing.T) {
	c := Dev(client, "pnpm", nil)
	if got, want := c.String(), "pnpm --dir client dev --"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestAgent_nodemon(t *testing.T) {
	w := Watch{
		Kind:       manifest.WatcherNodemon,
		Dirs:       WatchDirs("packages", []string{"client-direct"}),
		Extensions: []string{"js", "json", "map"},
		Delay:      2 * time.Second,
	}
	c := Agent(agent, "pnpm", w, []string{"--x"})
	if c.Path != "nodemon" {
		t.Fatalf("Path = %q, want nodemon", c.Path)
	}
	want := []string{
		"--watch", "./packages/client-direct/dist",
		"-e", "js,json,map",
		"--delay", "2",
		"--exec", "pnpm --dir agent dev -- --x",
	}
	if strings.Join(c.Args, "|") != strings.Join(want, "|") {
		t.Errorf("Args = %q, want %q", c.Args, want)
	}
}

func TestAgent_builtin(t *testing.T) {
	w := Watch{
		Kind:       manifest.WatcherBuiltin,
		Self:       "/usr/local/bin/devlaunch",
		Dirs:       []string{"./packages/a/dist", "./packages/b/dist"},
		Extensions: []string{"js", "map"},
		Delay:      2 * time.Second,
	}
	c := Agent(agent, "pnpm", w, []string{"--x"})
	want := "/usr/local/bin/devlaunch watch --watch ./packages/a/dist --watch ./packages/b/dist " +
		"--ext js,map --delay 2s -- pnpm --dir agent dev -- --x"
	if got := c.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestAgent_builtinWithoutFolders(t *testing.T) {
	w := Watch{
		Kind:        manifest.WatcherBuiltin,
		Self:        "devlaunch",
		Dirs:        WatchDirs("packages", nil),
		Extensions:  []string{"js"},
		Delay:       2 * time.Second,
		StopTimeout: 2500 * time.Millisecond,
	}
	c := Agent(agent, "pnpm", w, nil)
	want := "devlaunch watch --watch . --ext js --delay 2s --stop-timeout 2.5s -- pnpm --dir agent dev --"
	if got := c.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestBuild(t *testing.T) {
	opts := Options{
		PackageManager: "pnpm",
		PackagesDir:    "packages",
		Folders:        []string{"client-direct"},
		Watch:          Watch{Kind: manifest.WatcherNodemon, Extensions: []string{"js"}, Delay: time.Second},
	}
	cmds := Build([]target.Target{core, direct, client, agent}, opts, []string{"a"})
	if len(cmds) != 4 {
		t.Fatalf("len = %d, want 4", len(cmds))
	}
	for i, c := range cmds {
		if c.Color != i {
			t.Errorf("cmds[%d].Color = %d, want %d", i, c.Color, i)
		}
	}
	if cmds[3].Path != "nodemon" {
		t.Errorf("agent should be wrapped in nodemon, got %q", cmds[3].Path)
	}
	if !strings.Contains(cmds[3].String(), "./packages/client-direct/dist") {
		t.Errorf("agent should watch client-direct dist: %s", cmds[3])
	}
	for _, c := range cmds[:3] {
		if c.Path != "pnpm" {
			t.Errorf("%s: Path = %q, want pnpm", c.Name, c.Path)
		}
	}
}

func TestBuild_empty(t *testing.T) {
	if cmds := Build(nil, Options{PackageManager: "pnpm"}, nil); len(cmds) != 0 {
		t.Errorf("expected no commands, got %d", len(cmds))
	}
}

func TestParse(t *testing.T) {
	c, err := Parse("build", `pnpm run "build all"`)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if c.Path != "pnpm" || len(c.Args) != 2 || c.Args[1] != "build all" {
		t.Errorf("unexpected command: %+v", c)
	}
	if _, err := Parse("x", "   "); err == nil {
		t.Error("expected error for empty command")
	}
	if _, err := Parse("x", `"unterminated`); err == nil {
		t.Error("expected error for unterminated quote")
	}
}
