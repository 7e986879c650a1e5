package supervisor

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/fbkclanna/devlaunch/internal/command"
	"github.com/fbkclanna/devlaunch/internal/proc"
	"github.com/fbkclanna/devlaunch/internal/ui"
)

// Supervisor runs commands under a Policy.
type Supervisor struct {
	policy Policy
	dir    string
	mux    *ui.Mux
	logger *log.Logger
}

// Option configures a Supervisor.
type Option func(*Supervisor)

// WithDir sets the working directory for commands that leave Dir empty.
func WithDir(dir string) Option {
	return func(s *Supervisor) { s.dir = dir }
}

// WithOutput sets the multiplexer child output is written to.
func WithOutput(mux *ui.Mux) Option {
	return func(s *Supervisor) { s.mux = mux }
}

// WithLogger sets the logger for lifecycle events.
func WithLogger(l *log.Logger) Option {
	return func(s *Supervisor) { s.logger = l }
}

// New creates a supervisor. Output defaults to stdout without colors.
func New(policy Policy, opts ...Option) *Supervisor {
	s := &Supervisor{policy: policy}
	for _, opt := range opts {
		opt(s)
	}
	if s.mux == nil {
		s.mux = ui.NewMux(os.Stdout, false, 0)
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	return s
}

// Policy returns the supervisor's policy.
func (s *Supervisor) Policy() Policy { return s.policy }

// outcome is the terminal state of one command.
type outcome struct {
	err      *ExitError
	torndown bool
}

// Run starts every command and blocks until all of them have exited.
// It returns nil when no command failed terminally, the joined ExitErrors
// otherwise, or ctx.Err() if ctx was cancelled first.
func (s *Supervisor) Run(ctx context.Context, cmds []command.Command) error {
	if len(cmds) == 0 {
		return nil
	}

	runCtx, teardown := context.WithCancel(ctx)
	defer teardown()

	var (
		mu       sync.Mutex
		failures []error
		once     sync.Once
	)

	var g errgroup.Group
	for _, c := range cmds {
		g.Go(func() error {
			res := s.supervise(runCtx, c)
			if res.torndown {
				return nil
			}
			failed := res.err != nil
			if failed {
				mu.Lock()
				failures = append(failures, res.err)
				mu.Unlock()
			}
			if s.policy.KillOthersOn.Matches(failed) {
				once.Do(func() {
					if len(cmds) > 1 {
						s.logger.Info("Sending SIGTERM to other processes", "trigger", c.Name)
					}
					teardown()
				})
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}
	return errors.Join(failures...)
}

// supervise runs c until it succeeds, exhausts its restarts, or is torn down.
func (s *Supervisor) supervise(ctx context.Context, c command.Command) outcome {
	for attempt := 1; ; attempt++ {
		code, err := s.spawn(ctx, c)
		if ctx.Err() != nil {
			return outcome{torndown: true}
		}
		s.mux.Printf(c.Name, c.Color, "%s exited with code %d", c.String(), code)
		if err == nil {
			return outcome{}
		}
		if attempt > s.policy.MaxRestarts {
			return outcome{err: &ExitError{Name: c.Name, Attempts: attempt, Code: code, Err: err}}
		}

		s.mux.Printf(c.Name, c.Color, "restarting (%d/%d)", attempt, s.policy.MaxRestarts)
		if !sleep(ctx, s.policy.RestartDelay) {
			return outcome{torndown: true}
		}
	}
}

// spawn runs one attempt of c and returns its exit code.
func (s *Supervisor) spawn(ctx context.Context, c command.Command) (int, error) {
	id := uuid.NewString()

	cmd := exec.CommandContext(ctx, c.Path, c.Args...)
	cmd.Dir = c.Dir
	if cmd.Dir == "" {
		cmd.Dir = s.dir
	}
	out := s.mux.Writer(c.Name, c.Color)
	defer func() { _ = out.Close() }()
	cmd.Stdout = out
	cmd.Stderr = out

	proc.SetGroup(cmd)
	stopTimeout := s.policy.StopTimeout
	var escalation atomic.Pointer[time.Timer]
	cmd.Cancel = func() error {
		s.logger.Debug("stopping", "name", c.Name, "id", id, "pid", cmd.Process.Pid)
		// Stragglers in the group outlive the leader; the escalation must
		// survive Wait returning.
		escalation.Store(time.AfterFunc(stopTimeout, func() { _ = proc.Kill(cmd) }))
		return proc.Terminate(cmd)
	}
	if stopTimeout > 0 {
		cmd.WaitDelay = stopTimeout + time.Second
	}

	s.logger.Debug("starting", "name", c.Name, "id", id, "cmd", c.String())
	err := cmd.Run()
	if t := escalation.Load(); t != nil && !proc.GroupAlive(cmd) {
		// The group id may be reused once every member is gone.
		t.Stop()
	}
	// A background grandchild holding the output pipe past WaitDelay does
	// not turn a clean exit into a failure.
	if errors.Is(err, exec.ErrWaitDelay) && cmd.ProcessState != nil && cmd.ProcessState.Success() {
		s.logger.Debug("output still open after exit", "name", c.Name, "id", id)
		err = nil
	}
	return proc.ExitCode(err), err
}

// sleep waits for d or until ctx is done; it reports whether d elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
