//go:build !unix

package proc

import "os/exec"

func SetGroup(*exec.Cmd) {}

func Terminate(cmd *exec.Cmd) error { return cmd.Process.Kill() }

func Kill(cmd *exec.Cmd) error { return cmd.Process.Kill() }

func GroupAlive(*exec.Cmd) bool { return false }
