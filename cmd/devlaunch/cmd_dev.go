package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/fbkclanna/devlaunch/internal/launcher"
)

func newDevCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dev [-- <args...>]",
		Short: "Build the workspace and run every package's dev task",
		Long: `Build the workspace once, then run the dev task of core, every
configured folder, client and agent concurrently. All arguments are
forwarded unchanged to each dev task.

dev parses no flags of its own, so --root is forwarded like any other
argument. Select the monorepo with $DEVLAUNCH_ROOT or by running from it.`,
		DisableFlagParsing: true,
		RunE:               runDev,
	}
}

func runDev(cmd *cobra.Command, args []string) error {
	// Strip leading "--" if present.
	if len(args) > 0 && args[0] == "--" {
		args = args[1:]
	}

	ws, err := loadWorkspace(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	l := launcher.New(ws,
		launcher.WithOutput(out, cmd.ErrOrStderr()),
		launcher.WithLogger(newLogger(cmd.ErrOrStderr(), "devlaunch")),
		launcher.WithColor(colorFor(out)),
	)
	return l.Run(ctx, args)
}
