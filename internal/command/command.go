// Package command turns discovered targets into structured commands. A
// Command is only flattened into a shell string for display.
package command

import (
	"errors"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"

	"github.com/fbkclanna/devlaunch/internal/manifest"
	"github.com/fbkclanna/devlaunch/internal/target"
)

var errEmpty = errors.New("empty command")

// Command is one process the supervisor runs.
type Command struct {
	Name  string   // display label
	Path  string   // executable, resolved through PATH at spawn time
	Args  []string // arguments, not including Path
	Dir   string   // working directory; empty means the supervisor's root
	Color int      // palette index for the label
}

// Argv returns the full argument vector.
func (c Command) Argv() []string {
	return append([]string{c.Path}, c.Args...)
}

// String returns the command as a POSIX shell string.
func (c Command) String() string {
	return shellquote.Join(c.Argv()...)
}

// Parse splits a shell string into a Command.
func Parse(name, line string) (Command, error) {
	words, err := shellquote.Split(line)
	if err != nil {
		return Command{}, err
	}
	if len(words) == 0 {
		return Command{}, errEmpty
	}
	return Command{Name: name, Path: words[0], Args: words[1:]}, nil
}

// Watch describes the file-watch wrapper used for the agent target.
type Watch struct {
	Kind        string // manifest.WatcherBuiltin or manifest.WatcherNodemon
	Self        string // path of this binary, used by the builtin watcher
	Dirs        []string
	Extensions  []string
	Delay       time.Duration
	StopTimeout time.Duration // builtin only; below the supervisor's own timeout
}

// Options carries everything Build needs besides the targets.
type Options struct {
	PackageManager string
	PackagesDir    string
	Folders        []string
	Watch          Watch
}

// Dev returns `<pm> --dir <path> dev -- <args>` for a target.
func Dev(t target.Target, pm string, args []string) Command {
	argv := []string{"--dir", t.Path, "dev", "--"}
	argv = append(argv, args...)
	return Command{Name: t.Name, Path: pm, Args: argv}
}

// Agent wraps the agent's dev task in a debounced file watcher over the
// build output of the configured folders.
func Agent(t target.Target, pm string, w Watch, args []string) Command {
	inner := Dev(t, pm, args)

	if w.Kind == manifest.WatcherNodemon {
		argv := make([]string, 0, 2*len(w.Dirs)+6)
		for _, d := range w.Dirs {
			argv = append(argv, "--watch", d)
		}
		argv = append(argv,
			"-e", strings.Join(w.Extensions, ","),
			"--delay", formatSeconds(w.Delay),
			"--exec", inner.String(),
		)
		return Command{Name: t.Name, Path: "nodemon", Args: argv}
	}

	// nodemon watches the working directory when given no --watch.
	dirs := w.Dirs
	if len(dirs) == 0 {
		dirs = []string{"."}
	}
	argv := []string{"watch"}
	for _, d := range dirs {
		argv = append(argv, "--watch", d)
	}
	argv = append(argv,
		"--ext", strings.Join(w.Extensions, ","),
		"--delay", w.Delay.String(),
	)
	if w.StopTimeout > 0 {
		argv = append(argv, "--stop-timeout", w.StopTimeout.String())
	}
	argv = append(argv, "--")
	argv = append(argv, inner.Argv()...)
	return Command{Name: t.Name, Path: w.Self, Args: argv}
}

// WatchDirs returns the dist directory of every configured folder.
func WatchDirs(packagesDir string, folders []string) []string {
	dirs := make([]string, len(folders))
	for i, f := range folders {
		dirs[i] = "./" + path.Join(packagesDir, f, "dist")
	}
	return dirs
}

// Build constructs one command per target, in target order. Callers pass
// only present targets. Colors are assigned round-robin.
func Build(targets []target.Target, opts Options, args []string) []Command {
	w := opts.Watch
	if w.Dirs == nil {
		w.Dirs = WatchDirs(opts.PackagesDir, opts.Folders)
	}

	cmds := make([]Command, 0, len(targets))
	for _, t := range targets {
		var c Command
		if t.Kind == target.KindAgent {
			c = Agent(t, opts.PackageManager, w, args)
		} else {
			c = Dev(t, opts.PackageManager, args)
		}
		c.Color = len(cmds)
		cmds = append(cmds, c)
	}
	return cmds
}

// formatSeconds renders d the way nodemon's --delay expects (seconds).
func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
}
