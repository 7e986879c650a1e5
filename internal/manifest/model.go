package manifest

import "time"

// FileName is the optional manifest read from the monorepo root.
const FileName = "devlaunch.yaml"

// Watcher kinds for the agent target.
const (
	WatcherBuiltin = "builtin"
	WatcherNodemon = "nodemon"
)

// Kill-others triggers.
const (
	KillOnFailure = "failure"
	KillOnSuccess = "success"
	KillOnEither  = "either"
)

// Manifest represents devlaunch.yaml. Every field is optional; zero values
// are replaced by Defaults().
type Manifest struct {
	Version        int        `yaml:"version"`
	PackagesDir    string     `yaml:"packages_dir,omitempty"`
	Folders        []string   `yaml:"folders,omitempty"`
	ClientDir      string     `yaml:"client_dir,omitempty"`
	AgentDir       string     `yaml:"agent_dir,omitempty"`
	PackageManager string     `yaml:"package_manager,omitempty"`
	Build          []string   `yaml:"build,omitempty"`
	AgentWatch     AgentWatch `yaml:"agent_watch,omitempty"`
	Supervisor     Supervisor `yaml:"supervisor,omitempty"`
}

// AgentWatch configures the file-watch wrapper around the agent's dev task.
type AgentWatch struct {
	Watcher    string   `yaml:"watcher,omitempty"`
	Extensions []string `yaml:"extensions,omitempty"`
	Delay      Duration `yaml:"delay,omitempty"`
}

// Supervisor configures restart and teardown policy.
type Supervisor struct {
	MaxRestarts  *int     `yaml:"max_restarts,omitempty"`
	KillOthersOn string   `yaml:"kill_others_on,omitempty"`
	RestartDelay Duration `yaml:"restart_delay,omitempty"`
	StopTimeout  Duration `yaml:"stop_timeout,omitempty"`
}

// Defaults returns the manifest used when devlaunch.yaml is absent.
func Defaults() *Manifest {
	restarts := 3
	return &Manifest{
		Version:        1,
		PackagesDir:    "packages",
		Folders:        []string{"client-direct"},
		ClientDir:      "client",
		AgentDir:       "agent",
		PackageManager: "pnpm",
		Build:          []string{"pnpm", "build"},
		AgentWatch: AgentWatch{
			Watcher:    WatcherBuiltin,
			Extensions: []string{"js", "json", "map"},
			Delay:      Duration(2 * time.Second),
		},
		Supervisor: Supervisor{
			MaxRestarts:  &restarts,
			KillOthersOn: KillOnEither,
			StopTimeout:  Duration(5 * time.Second),
		},
	}
}

// EffectiveMaxRestarts returns the restart budget, defaulting to 3.
func (s Supervisor) EffectiveMaxRestarts() int {
	if s.MaxRestarts != nil {
		return *s.MaxRestarts
	}
	return 3
}

// applyDefaults fills zero-valued fields from Defaults(). Folders is only
// defaulted when the key is absent; an explicit empty list is kept.
func (m *Manifest) applyDefaults(foldersSet bool) {
	d := Defaults()
	if m.PackagesDir == "" {
		m.PackagesDir = d.PackagesDir
	}
	if !foldersSet {
		m.Folders = d.Folders
	}
	if m.ClientDir == "" {
		m.ClientDir = d.ClientDir
	}
	if m.AgentDir == "" {
		m.AgentDir = d.AgentDir
	}
	if m.PackageManager == "" {
		m.PackageManager = d.PackageManager
	}
	if len(m.Build) == 0 {
		m.Build = []string{m.PackageManager, "build"}
	}
	if m.AgentWatch.Watcher == "" {
		m.AgentWatch.Watcher = d.AgentWatch.Watcher
	}
	if len(m.AgentWatch.Extensions) == 0 {
		m.AgentWatch.Extensions = d.AgentWatch.Extensions
	}
	if m.AgentWatch.Delay == 0 {
		m.AgentWatch.Delay = d.AgentWatch.Delay
	}
	if m.Supervisor.MaxRestarts == nil {
		m.Supervisor.MaxRestarts = d.Supervisor.MaxRestarts
	}
	if m.Supervisor.KillOthersOn == "" {
		m.Supervisor.KillOthersOn = d.Supervisor.KillOthersOn
	}
	if m.Supervisor.StopTimeout == 0 {
		m.Supervisor.StopTimeout = d.Supervisor.StopTimeout
	}
}

// Duration is a time.Duration that unmarshals from "2s" style strings or
// from a bare number of seconds.
type Duration time.Duration

// D returns the value as a time.Duration.
func (d Duration) D() time.Duration { return time.Duration(d) }
