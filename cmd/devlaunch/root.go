package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "devlaunch",
		Short:         "Build a monorepo once and run its dev tasks side by side",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.PersistentFlags().String("root", "", "Monorepo root (default $DEVLAUNCH_ROOT or the current directory; dev reads only $DEVLAUNCH_ROOT)")

	cmd.AddCommand(
		newDevCmd(),
		newTargetsCmd(),
		newWatchCmd(),
		newDoctorCmd(),
	)

	return cmd
}
