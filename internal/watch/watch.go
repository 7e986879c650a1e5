// Package watch restarts a command whenever files with selected extensions
// change under a set of directories, after a quiet period. It is the
// built-in replacement for wrapping the agent's dev task in nodemon.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/fbkclanna/devlaunch/internal/proc"
)

// DefaultDelay is the quiet period before a restart.
const DefaultDelay = 2 * time.Second

// Config describes what to watch and what to run.
type Config struct {
	Dirs        []string
	Extensions  []string // without the leading dot; empty matches every file
	Delay       time.Duration
	Argv        []string
	Dir         string // working directory for Argv
	Stdout      io.Writer
	Stderr      io.Writer
	StopTimeout time.Duration
	Logger      *log.Logger
}

// Runner runs and restarts one command.
type Runner struct {
	cfg     Config
	dirs    []string // absolute watch roots
	exts    map[string]bool
	pending map[string]bool // roots that did not exist yet
}

// New validates cfg and returns a Runner.
func New(cfg Config) (*Runner, error) {
	if len(cfg.Argv) == 0 {
		return nil, errors.New("watch: no command given")
	}
	if len(cfg.Dirs) == 0 {
		return nil, errors.New("watch: at least one --watch directory is required")
	}
	if cfg.Delay < 0 {
		return nil, fmt.Errorf("watch: negative delay %v", cfg.Delay)
	}
	if cfg.Stdout == nil {
		cfg.Stdout = os.Stdout
	}
	if cfg.Stderr == nil {
		cfg.Stderr = os.Stderr
	}
	if cfg.StopTimeout <= 0 {
		cfg.StopTimeout = 5 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}

	r := &Runner{
		cfg:     cfg,
		exts:    make(map[string]bool, len(cfg.Extensions)),
		pending: make(map[string]bool),
	}
	for _, e := range cfg.Extensions {
		r.exts[strings.TrimPrefix(e, ".")] = true
	}
	for _, d := range cfg.Dirs {
		if !filepath.IsAbs(d) && cfg.Dir != "" {
			d = filepath.Join(cfg.Dir, d)
		}
		abs, err := filepath.Abs(d)
		if err != nil {
			return nil, fmt.Errorf("watch: resolving %s: %w", d, err)
		}
		r.dirs = append(r.dirs, abs)
	}
	return r, nil
}

// Run starts the command and restarts it on matching changes until ctx is
// cancelled. A command that exits on its own is started again on the next
// change.
func (r *Runner) Run(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer func() { _ = w.Close() }()

	for _, d := range r.dirs {
		if err := r.addRoot(w, d); err != nil {
			return err
		}
	}

	cur, err := r.start()
	if err != nil {
		return err
	}
	defer func() {
		if cur != nil {
			r.stop(cur)
		}
	}()

	timer := time.NewTimer(r.cfg.Delay)
	timer.Stop()

	for {
		var exited <-chan error
		if cur != nil {
			exited = cur.done
		}

		select {
		case <-ctx.Done():
			return nil

		case err := <-exited:
			code := proc.ExitCode(err)
			if code == 0 {
				r.cfg.Logger.Info("clean exit - waiting for changes before restart")
			} else {
				r.cfg.Logger.Warn("app crashed - waiting for file changes before starting", "code", code)
			}
			cur = nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if r.handle(w, ev) {
				timer.Reset(r.cfg.Delay)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			r.cfg.Logger.Warn("watch error", "err", err)

		case <-timer.C:
			r.cfg.Logger.Info("restarting due to changes...")
			if cur != nil {
				r.stop(cur)
				cur = nil
			}
			if cur, err = r.start(); err != nil {
				return err
			}
		}
	}
}

// handle processes one event and reports whether it should trigger a restart.
func (r *Runner) handle(w *fsnotify.Watcher, ev fsnotify.Event) bool {
	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			r.adopt(w, ev.Name)
			return false
		}
	}
	if ev.Op == fsnotify.Chmod {
		return false
	}
	return r.underRoot(ev.Name) && r.matchesExt(ev.Name)
}

// adopt starts watching a newly created directory that is, or lies under,
// a watch root, or that leads towards a root which does not exist yet.
func (r *Runner) adopt(w *fsnotify.Watcher, dir string) {
	for _, root := range r.dirs {
		switch {
		case within(root, dir):
			if err := addTree(w, dir); err != nil {
				r.cfg.Logger.Warn("cannot watch directory", "dir", dir, "err", err)
			}
			delete(r.pending, root)
		case r.pending[root] && within(dir, root):
			if err := r.addRoot(w, root); err != nil {
				r.cfg.Logger.Warn("cannot watch directory", "dir", dir, "err", err)
			}
		}
	}
}

// addRoot watches root, or its nearest existing ancestor until it appears.
func (r *Runner) addRoot(w *fsnotify.Watcher, root string) error {
	for {
		if dirExists(root) {
			delete(r.pending, root)
			if err := addTree(w, root); err != nil {
				return fmt.Errorf("watch: %s: %w", root, err)
			}
			return nil
		}

		r.pending[root] = true
		parent := nearestAncestor(root)
		r.cfg.Logger.Debug("watch root missing, watching ancestor", "root", root, "ancestor", parent)
		if err := w.Add(parent); err != nil {
			return fmt.Errorf("watch: %s: %w", parent, err)
		}
		// A directory created before the watch was in place sends no event.
		if nearestAncestor(root) == parent {
			return nil
		}
	}
}

func nearestAncestor(p string) string {
	parent := filepath.Dir(p)
	for !dirExists(parent) && parent != filepath.Dir(parent) {
		parent = filepath.Dir(parent)
	}
	return parent
}

func (r *Runner) underRoot(name string) bool {
	for _, root := range r.dirs {
		if within(root, name) {
			return true
		}
	}
	return false
}

func (r *Runner) matchesExt(name string) bool {
	if len(r.exts) == 0 {
		return true
	}
	return r.exts[strings.TrimPrefix(filepath.Ext(name), ".")]
}

type child struct {
	cmd  *exec.Cmd
	done chan error
}

func (r *Runner) start() (*child, error) {
	cmd := exec.Command(r.cfg.Argv[0], r.cfg.Argv[1:]...)
	cmd.Dir = r.cfg.Dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = r.cfg.Stdout
	cmd.Stderr = r.cfg.Stderr
	proc.SetGroup(cmd)

	r.cfg.Logger.Debug("starting", "cmd", strings.Join(r.cfg.Argv, " "))
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("watch: starting %s: %w", r.cfg.Argv[0], err)
	}
	c := &child{cmd: cmd, done: make(chan error, 1)}
	go func() { c.done <- cmd.Wait() }()
	return c, nil
}

// stop terminates the child's process group, escalating to SIGKILL.
func (r *Runner) stop(c *child) {
	_ = proc.Terminate(c.cmd)
	t := time.NewTimer(r.cfg.StopTimeout)
	defer t.Stop()
	select {
	case <-c.done:
	case <-t.C:
		_ = proc.Kill(c.cmd)
		<-c.done
	}
}

func addTree(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != root && (strings.HasPrefix(d.Name(), ".") || d.Name() == "node_modules") {
			return filepath.SkipDir
		}
		return w.Add(p)
	})
}

func within(root, p string) bool {
	rel, err := filepath.Rel(root, p)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func dirExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}
