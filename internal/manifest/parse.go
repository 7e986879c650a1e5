package manifest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Validate checks the manifest for errors.
func Validate(m *Manifest) error { return validate(m) }

// Load reads and validates a devlaunch.yaml file. A missing file is not an
// error: the defaults are returned instead.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is the workspace manifest path
	if errors.Is(err, fs.ErrNotExist) {
		return Defaults(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	return Parse(data)
}

// Parse parses and validates devlaunch.yaml content.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest YAML: %w", err)
	}

	// Distinguish "folders: []" from an absent key.
	var raw map[string]any
	_ = yaml.Unmarshal(data, &raw)
	_, foldersSet := raw["folders"]

	m.applyDefaults(foldersSet)
	if err := validate(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

func validate(m *Manifest) error {
	if m.Version != 1 {
		return fmt.Errorf("unsupported manifest version: %d (expected 1)", m.Version)
	}
	if err := validatePath(m.PackagesDir, "packages_dir"); err != nil {
		return err
	}
	if err := validatePath(m.ClientDir, "client_dir"); err != nil {
		return err
	}
	if err := validatePath(m.AgentDir, "agent_dir"); err != nil {
		return err
	}

	seen := make(map[string]bool, len(m.Folders))
	for i, f := range m.Folders {
		if f == "" {
			return fmt.Errorf("manifest: folders[%d] is empty", i)
		}
		if f == "core" {
			return fmt.Errorf("manifest: folders[%d]: core is handled separately", i)
		}
		if err := validatePath(f, fmt.Sprintf("folders[%d]", i)); err != nil {
			return err
		}
		if seen[f] {
			return fmt.Errorf("manifest: duplicate folder %q", f)
		}
		seen[f] = true
	}

	if strings.TrimSpace(m.PackageManager) == "" {
		return fmt.Errorf("manifest: package_manager is required")
	}
	if len(m.Build) == 0 || m.Build[0] == "" {
		return fmt.Errorf("manifest: build command is required")
	}

	switch m.AgentWatch.Watcher {
	case WatcherBuiltin, WatcherNodemon:
	default:
		return fmt.Errorf("manifest: agent_watch.watcher: unknown watcher %q (must be builtin or nodemon)", m.AgentWatch.Watcher)
	}
	for i, ext := range m.AgentWatch.Extensions {
		if ext == "" || strings.ContainsAny(ext, ",/ ") {
			return fmt.Errorf("manifest: agent_watch.extensions[%d]: invalid extension %q", i, ext)
		}
	}
	if m.AgentWatch.Delay < 0 {
		return fmt.Errorf("manifest: agent_watch.delay must not be negative")
	}

	if n := m.Supervisor.EffectiveMaxRestarts(); n < 0 {
		return fmt.Errorf("manifest: supervisor.max_restarts must be >= 0 (got %d)", n)
	}
	switch m.Supervisor.KillOthersOn {
	case KillOnFailure, KillOnSuccess, KillOnEither:
	default:
		return fmt.Errorf("manifest: supervisor.kill_others_on: unknown trigger %q (must be failure, success, or either)", m.Supervisor.KillOthersOn)
	}
	if m.Supervisor.RestartDelay < 0 || m.Supervisor.StopTimeout < 0 {
		return fmt.Errorf("manifest: supervisor durations must not be negative")
	}
	return nil
}

// validatePath ensures a path is relative and does not escape the root.
func validatePath(p, label string) error {
	if p == "" {
		return fmt.Errorf("manifest: %s is required", label)
	}
	if filepath.IsAbs(p) {
		return fmt.Errorf("manifest: %s: absolute path is not allowed: %s", label, p)
	}
	cleaned := filepath.Clean(p)
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return fmt.Errorf("manifest: %s: path must not escape workspace (contains ..): %s", label, p)
	}
	return nil
}

// UnmarshalYAML accepts "1500ms", "2s" or a bare number of seconds.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: duration must be a scalar", node.Line)
	}
	if secs, err := strconv.ParseFloat(node.Value, 64); err == nil {
		*d = Duration(secs * float64(time.Second))
		return nil
	}
	v, err := time.ParseDuration(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: invalid duration %q", node.Line, node.Value)
	}
	*d = Duration(v)
	return nil
}

// MarshalYAML writes the duration in time.Duration string form.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}
