// Package launcher runs the dev workflow for a monorepo: it discovers the
// sub-packages that exist, builds the workspace once and then runs every
// package's dev task concurrently under a supervisor.
package launcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/charmbracelet/log"

	"github.com/fbkclanna/devlaunch/internal/command"
	"github.com/fbkclanna/devlaunch/internal/manifest"
	"github.com/fbkclanna/devlaunch/internal/supervisor"
	"github.com/fbkclanna/devlaunch/internal/target"
	"github.com/fbkclanna/devlaunch/internal/ui"
	"github.com/fbkclanna/devlaunch/internal/workspace"
)

var (
	ErrNoPackagesDir = errors.New("packages directory not found")
	ErrBuildFailed   = errors.New("build failed")
	ErrSupervise     = errors.New("error running commands")
)

// Runner runs a set of commands to completion.
type Runner interface {
	Run(ctx context.Context, cmds []command.Command) error
}

// BuildFunc runs the prerequisite build command in dir.
type BuildFunc func(ctx context.Context, argv []string, dir string) error

// Launcher sequences banner, validation, discovery, build and supervision.
type Launcher struct {
	ws          *workspace.Context
	out         io.Writer
	errOut      io.Writer
	logger      *log.Logger
	color       bool
	dotInterval time.Duration
	self        string
	build       BuildFunc
	runner      Runner
}

// Option configures a Launcher.
type Option func(*Launcher)

// WithOutput sets the writers for status output and build output.
func WithOutput(out, errOut io.Writer) Option {
	return func(l *Launcher) {
		l.out = out
		l.errOut = errOut
	}
}

// WithLogger sets the logger used for warnings.
func WithLogger(logger *log.Logger) Option {
	return func(l *Launcher) { l.logger = logger }
}

// WithColor enables colored labels and the boxed banner.
func WithColor(color bool) Option {
	return func(l *Launcher) { l.color = color }
}

// WithDotInterval sets the delay between progress dots.
func WithDotInterval(d time.Duration) Option {
	return func(l *Launcher) { l.dotInterval = d }
}

// WithSelf sets the binary the builtin watcher re-invokes.
func WithSelf(path string) Option {
	return func(l *Launcher) { l.self = path }
}

// WithBuild replaces the build step.
func WithBuild(fn BuildFunc) Option {
	return func(l *Launcher) { l.build = fn }
}

// WithRunner replaces the supervisor.
func WithRunner(r Runner) Option {
	return func(l *Launcher) { l.runner = r }
}

// New returns a Launcher for the given workspace.
func New(ws *workspace.Context, opts ...Option) *Launcher {
	l := &Launcher{
		ws:          ws,
		out:         os.Stdout,
		errOut:      os.Stderr,
		dotInterval: ui.DotInterval,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = log.New(io.Discard)
	}
	if l.build == nil {
		l.build = l.execBuild
	}
	return l
}

// Run launches the dev workflow with args forwarded to every dev task.
// It returns nil when there was nothing to run or every command finished
// without a terminal failure.
func (l *Launcher) Run(ctx context.Context, args []string) error {
	m := l.ws.Manifest

	_, _ = fmt.Fprintf(l.out, "Passing arguments: %q\n", args)
	ui.PrintBanner(l.out, l.color)
	ui.Dots(ctx, l.out, ui.DotSteps, l.dotInterval)

	fsys := l.ws.FS()
	if !target.DirExists(fsys, m.PackagesDir) {
		return fmt.Errorf("%w: ./%s does not exist", ErrNoPackagesDir, m.PackagesDir)
	}

	targets := target.Discover(fsys, l.ws.Plan())
	for _, t := range target.Missing(targets) {
		l.logger.Warn(t.MissingMessage("./" + m.PackagesDir))
	}

	cmds := command.Build(target.Present(targets), l.ws.CommandOptions(l.selfPath()), args)

	if err := l.build(ctx, m.Build, l.ws.Root); err != nil {
		_, _ = fmt.Fprintln(l.errOut, "Build failed. Exiting.")
		return fmt.Errorf("%w: %w", ErrBuildFailed, err)
	}

	if len(cmds) == 0 {
		_, _ = fmt.Fprintln(l.out, "No valid packages to run.")
		return nil
	}

	runner, err := l.runnerFor(cmds)
	if err != nil {
		return err
	}
	if err := runner.Run(ctx, cmds); err != nil {
		return fmt.Errorf("%w: %w", ErrSupervise, err)
	}
	return nil
}

func (l *Launcher) runnerFor(cmds []command.Command) (Runner, error) {
	if l.runner != nil {
		return l.runner, nil
	}
	policy, err := l.ws.Policy()
	if err != nil {
		return nil, err
	}
	width := 0
	for _, c := range cmds {
		width = max(width, len(c.Name))
	}
	return supervisor.New(policy,
		supervisor.WithDir(l.ws.Root),
		supervisor.WithOutput(ui.NewMux(l.out, l.color, width)),
		supervisor.WithLogger(l.logger),
	), nil
}

// selfPath returns the binary the builtin watcher runs. It falls back to
// resolving "devlaunch" through PATH.
func (l *Launcher) selfPath() string {
	if l.self != "" || l.ws.Manifest.AgentWatch.Watcher != manifest.WatcherBuiltin {
		return l.self
	}
	exe, err := os.Executable()
	if err != nil {
		l.logger.Debug("cannot resolve executable, using PATH", "err", err)
		return "devlaunch"
	}
	l.self = exe
	return exe
}

// execBuild runs argv with the terminal attached.
func (l *Launcher) execBuild(ctx context.Context, argv []string, dir string) error {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = l.out
	cmd.Stderr = l.errOut
	l.logger.Debug("building", "cmd", command.Command{Path: argv[0], Args: argv[1:]}.String())
	return cmd.Run()
}
