package workspace

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fbkclanna/devlaunch/internal/command"
	"github.com/fbkclanna/devlaunch/internal/manifest"
	"github.com/fbkclanna/devlaunch/internal/supervisor"
	"github.com/fbkclanna/devlaunch/internal/target"
)

// EnvRoot overrides the working directory as the monorepo root.
const EnvRoot = "DEVLAUNCH_ROOT"

// Context holds the resolved paths and loaded config for a monorepo.
type Context struct {
	Root         string
	ManifestPath string
	Manifest     *manifest.Manifest
}

// ResolveRoot returns root if set, then $DEVLAUNCH_ROOT, then ".".
func ResolveRoot(root string) string {
	if root != "" {
		return root
	}
	if env := os.Getenv(EnvRoot); env != "" {
		return env
	}
	return "."
}

// Load resolves the root path and loads devlaunch.yaml (or the defaults).
func Load(root string) (*Context, error) {
	root, err := filepath.Abs(ResolveRoot(root))
	if err != nil {
		return nil, fmt.Errorf("resolving workspace root: %w", err)
	}

	manifestPath := filepath.Join(root, manifest.FileName)
	m, err := manifest.Load(manifestPath)
	if err != nil {
		return nil, err
	}

	return &Context{
		Root:         root,
		ManifestPath: manifestPath,
		Manifest:     m,
	}, nil
}

// PackagesDir returns the absolute path of the packages directory.
func (c *Context) PackagesDir() string {
	return filepath.Join(c.Root, c.Manifest.PackagesDir)
}

// Plan returns the discovery plan described by the manifest.
func (c *Context) Plan() target.Plan {
	return target.Plan{
		PackagesDir: c.Manifest.PackagesDir,
		Folders:     c.Manifest.Folders,
		ClientDir:   c.Manifest.ClientDir,
		AgentDir:    c.Manifest.AgentDir,
	}
}

// FS returns a filesystem rooted at the workspace root for discovery.
func (c *Context) FS() fs.StatFS {
	return os.DirFS(c.Root).(fs.StatFS)
}

// Policy returns the supervisor policy configured in the manifest.
func (c *Context) Policy() (supervisor.Policy, error) {
	s := c.Manifest.Supervisor
	trigger, err := supervisor.ParseTrigger(s.KillOthersOn)
	if err != nil {
		return supervisor.Policy{}, err
	}
	p := supervisor.DefaultPolicy()
	p.MaxRestarts = s.EffectiveMaxRestarts()
	p.KillOthersOn = trigger
	p.RestartDelay = s.RestartDelay.D()
	if s.StopTimeout > 0 {
		p.StopTimeout = s.StopTimeout.D()
	}
	return p, nil
}

// CommandOptions returns the command construction options. self is the
// path of the running binary, used by the builtin watcher.
func (c *Context) CommandOptions(self string) command.Options {
	m := c.Manifest
	return command.Options{
		PackageManager: m.PackageManager,
		PackagesDir:    m.PackagesDir,
		Folders:        m.Folders,
		Watch: command.Watch{
			Kind:        m.AgentWatch.Watcher,
			Self:        self,
			Extensions:  m.AgentWatch.Extensions,
			Delay:       m.AgentWatch.Delay.D(),
			StopTimeout: m.Supervisor.StopTimeout.D() / 2,
		},
	}
}
