package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/fbkclanna/devlaunch/internal/watch"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch --watch <dir>... [--ext js,json] [--delay 2s] -- <command...>",
		Short: "Run a command and restart it when watched files change",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runWatch,
	}
	cmd.Flags().StringArray("watch", nil, "Directory to watch recursively (repeatable)")
	cmd.Flags().String("ext", "js,json,map", "Comma-separated file extensions that trigger a restart")
	cmd.Flags().Duration("delay", watch.DefaultDelay, "Quiet period after the last change before restarting")
	cmd.Flags().Duration("stop-timeout", 5*time.Second, "Grace period before a stopped command is killed")
	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	dirs, _ := cmd.Flags().GetStringArray("watch")
	ext, _ := cmd.Flags().GetString("ext")
	delay, _ := cmd.Flags().GetDuration("delay")
	stopTimeout, _ := cmd.Flags().GetDuration("stop-timeout")

	if len(dirs) == 0 {
		return fmt.Errorf("at least one --watch directory is required")
	}

	r, err := watch.New(watch.Config{
		Dirs:        dirs,
		Extensions:  splitList(ext),
		Delay:       delay,
		Argv:        args,
		Stdout:      cmd.OutOrStdout(),
		Stderr:      cmd.ErrOrStderr(),
		StopTimeout: stopTimeout,
		Logger:      newLogger(cmd.ErrOrStderr(), "watch"),
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return r.Run(ctx)
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
