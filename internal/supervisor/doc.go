// Package supervisor runs a set of commands concurrently under an explicit
// restart and teardown policy.
//
// Each command runs in its own process group with its output multiplexed,
// line by line, onto a shared writer under a colored label. A command that
// fails is restarted up to Policy.MaxRestarts times. When a command reaches
// a terminal state that matches Policy.KillOthersOn, every sibling is sent
// SIGTERM, escalating to SIGKILL after Policy.StopTimeout. Siblings stopped
// this way are neither restarted nor reported as failures.
package supervisor
