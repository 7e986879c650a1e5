package target

import (
	"io/fs"
	"path"
)

// Kind distinguishes the special-cased targets from configured folders.
type Kind string

const (
	KindCore   Kind = "core"
	KindFolder Kind = "folder"
	KindClient Kind = "client"
	KindAgent  Kind = "agent"
)

// Target is a sub-package directory considered for launching.
type Target struct {
	Name   string
	Path   string // slash-separated, relative to the root
	Kind   Kind
	Exists bool
}

// Plan lists what to look for. All paths are relative to the root.
type Plan struct {
	PackagesDir string
	Folders     []string
	ClientDir   string
	AgentDir    string
}

// Discover checks every planned target in a fixed order: core, the
// configured folders as listed, client, then agent.
func Discover(fsys fs.StatFS, plan Plan) []Target {
	candidates := make([]Target, 0, len(plan.Folders)+3)
	candidates = append(candidates, Target{Name: "core", Path: path.Join(plan.PackagesDir, "core"), Kind: KindCore})
	for _, f := range plan.Folders {
		candidates = append(candidates, Target{Name: f, Path: path.Join(plan.PackagesDir, f), Kind: KindFolder})
	}
	candidates = append(candidates,
		Target{Name: path.Base(plan.ClientDir), Path: path.Clean(plan.ClientDir), Kind: KindClient},
		Target{Name: path.Base(plan.AgentDir), Path: path.Clean(plan.AgentDir), Kind: KindAgent},
	)

	for i := range candidates {
		candidates[i].Exists = exists(fsys, candidates[i].Path)
	}
	return candidates
}

// Present returns the targets whose existence check passed, in order.
func Present(targets []Target) []Target {
	var out []Target
	for _, t := range targets {
		if t.Exists {
			out = append(out, t)
		}
	}
	return out
}

// Missing returns the targets that were not found, in order.
func Missing(targets []Target) []Target {
	var out []Target
	for _, t := range targets {
		if !t.Exists {
			out = append(out, t)
		}
	}
	return out
}

// DirExists reports whether p names an existing directory in fsys.
func DirExists(fsys fs.StatFS, p string) bool {
	info, err := fsys.Stat(path.Clean(p))
	return err == nil && info.IsDir()
}

func exists(fsys fs.StatFS, p string) bool {
	_, err := fsys.Stat(path.Clean(p))
	return err == nil
}

// MissingMessage describes an absent target for a warning line.
func (t Target) MissingMessage(packagesDir string) string {
	switch t.Kind {
	case KindCore:
		return "'" + t.Name + "' package not found in " + packagesDir
	case KindFolder:
		return "'" + t.Name + "' folder not found in " + packagesDir
	default:
		return "'" + t.Name + "' directory not found."
	}
}
