package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/fbkclanna/devlaunch/internal/target"
	"github.com/fbkclanna/devlaunch/internal/ui"
)

func newTargetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "targets",
		Short: "List the packages the dev command would launch",
		Args:  cobra.NoArgs,
		RunE:  runTargets,
	}
	cmd.Flags().Bool("json", false, "Output as JSON")
	return cmd
}

type targetStatus struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Path    string `json:"path"`
	Present bool   `json:"present"`
}

func runTargets(cmd *cobra.Command, _ []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")

	ws, err := loadWorkspace(cmd)
	if err != nil {
		return err
	}

	targets := target.Discover(ws.FS(), ws.Plan())
	statuses := make([]targetStatus, 0, len(targets))
	for _, t := range targets {
		statuses = append(statuses, targetStatus{Name: t.Name, Kind: string(t.Kind), Path: t.Path, Present: t.Exists})
	}

	out := cmd.OutOrStdout()

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(statuses)
	}

	tbl := ui.NewTable(out, colorFor(out), "TARGET", "KIND", "PATH", "STATE")
	for _, s := range statuses {
		state := "present"
		if !s.Present {
			state = "missing"
		}
		tbl.Row(s.Name, s.Kind, s.Path, state)
	}
	return tbl.Flush()
}
