package manifest

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParse_valid(t *testing.T) {
	data := []byte(`
version: 1
packages_dir: pkgs
folders: ["client-direct", "plugin-solana"]
package_manager: pnpm
agent_watch:
  watcher: nodemon
  extensions: ["js", "ts"]
  delay: 1500ms
supervisor:
  max_restarts: 5
  kill_others_on: failure
  restart_delay: 1
`)
	m, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.PackagesDir != "pkgs" {
		t.Errorf("packages_dir = %q, want %q", m.PackagesDir, "pkgs")
	}
	if len(m.Folders) != 2 || m.Folders[1] != "plugin-solana" {
		t.Errorf("folders = %v", m.Folders)
	}
	if m.AgentWatch.Watcher != WatcherNodemon {
		t.Errorf("watcher = %q, want nodemon", m.AgentWatch.Watcher)
	}
	if m.AgentWatch.Delay.D() != 1500*time.Millisecond {
		t.Errorf("delay = %v, want 1.5s", m.AgentWatch.Delay.D())
	}
	if got := m.Supervisor.EffectiveMaxRestarts(); got != 5 {
		t.Errorf("max_restarts = %d, want 5", got)
	}
	if m.Supervisor.RestartDelay.D() != time.Second {
		t.Errorf("restart_delay = %v, want 1s", m.Supervisor.RestartDelay.D())
	}
	if m.ClientDir != "client" || m.AgentDir != "agent" {
		t.Errorf("client/agent dirs not defaulted: %q %q", m.ClientDir, m.AgentDir)
	}
}

func TestParse_defaultsMatchOriginalScript(t *testing.T) {
	m, err := Parse([]byte("version: 1\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.Folders) != 1 || m.Folders[0] != "client-direct" {
		t.Errorf("folders = %v, want [client-direct]", m.Folders)
	}
	if len(m.Build) != 2 || m.Build[0] != "pnpm" || m.Build[1] != "build" {
		t.Errorf("build = %v, want [pnpm build]", m.Build)
	}
	if m.Supervisor.EffectiveMaxRestarts() != 3 {
		t.Errorf("max_restarts = %d, want 3", m.Supervisor.EffectiveMaxRestarts())
	}
	if m.Supervisor.KillOthersOn != KillOnEither {
		t.Errorf("kill_others_on = %q, want either", m.Supervisor.KillOthersOn)
	}
	if m.AgentWatch.Delay.D() != 2*time.Second {
		t.Errorf("delay = %v, want 2s", m.AgentWatch.Delay.D())
	}
}

func TestParse_emptyFoldersKept(t *testing.T) {
	m, err := Parse([]byte("version: 1\nfolders: []\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.Folders) != 0 {
		t.Errorf("folders = %v, want empty", m.Folders)
	}
}

func TestParse_buildFollowsPackageManager(t *testing.T) {
	m, err := Parse([]byte("version: 1\npackage_manager: yarn\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Build[0] != "yarn" {
		t.Errorf("build = %v, want yarn build", m.Build)
	}
}

func TestParse_zeroRestartsKept(t *testing.T) {
	m, err := Parse([]byte("version: 1\nsupervisor:\n  max_restarts: 0\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := m.Supervisor.EffectiveMaxRestarts(); got != 0 {
		t.Errorf("max_restarts = %d, want 0", got)
	}
}

func TestParse_invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"missing version", "folders: [a]\n"},
		{"bad version", "version: 2\n"},
		{"absolute packages dir", "version: 1\npackages_dir: /abs\n"},
		{"escaping folder", "version: 1\nfolders: [\"../x\"]\n"},
		{"duplicate folder", "version: 1\nfolders: [a, a]\n"},
		{"core folder", "version: 1\nfolders: [core]\n"},
		{"unknown watcher", "version: 1\nagent_watch:\n  watcher: chokidar\n"},
		{"bad extension", "version: 1\nagent_watch:\n  extensions: [\"js,ts\"]\n"},
		{"negative restarts", "version: 1\nsupervisor:\n  max_restarts: -1\n"},
		{"unknown trigger", "version: 1\nsupervisor:\n  kill_others_on: never\n"},
		{"bad duration", "version: 1\nagent_watch:\n  delay: soon\n"},
		{"bad yaml", ":::invalid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data)); err == nil {
				t.Fatalf("expected error for %s", tt.name)
			}
		})
	}
}

func TestLoad_missingFileUsesDefaults(t *testing.T) {
	m, err := Load(filepath.Join(t.TempDir(), FileName))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if m.PackagesDir != "packages" {
		t.Errorf("packages_dir = %q, want packages", m.PackagesDir)
	}
}

func TestLoad_file(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte("version: 1\nclient_dir: web\n"), 0600); err != nil {
		t.Fatal(err)
	}
	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if m.ClientDir != "web" {
		t.Errorf("client_dir = %q, want web", m.ClientDir)
	}
}

func TestDefaults_valid(t *testing.T) {
	if err := Validate(Defaults()); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}
