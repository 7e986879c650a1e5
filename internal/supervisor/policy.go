package supervisor

import (
	"fmt"
	"time"
)

// Trigger selects which terminal exits tear down the sibling processes.
type Trigger int

const (
	OnFailure Trigger = 1 << iota
	OnSuccess
	OnEither = OnFailure | OnSuccess
)

// ParseTrigger parses "failure", "success" or "either".
func ParseTrigger(s string) (Trigger, error) {
	switch s {
	case "failure":
		return OnFailure, nil
	case "success":
		return OnSuccess, nil
	case "either", "":
		return OnEither, nil
	default:
		return 0, fmt.Errorf("unknown kill-others trigger: %q (must be failure, success, or either)", s)
	}
}

// Matches reports whether a terminal exit with the given outcome fires t.
func (t Trigger) Matches(failed bool) bool {
	if failed {
		return t&OnFailure != 0
	}
	return t&OnSuccess != 0
}

func (t Trigger) String() string {
	switch t {
	case OnFailure:
		return "failure"
	case OnSuccess:
		return "success"
	case OnEither:
		return "either"
	default:
		return fmt.Sprintf("Trigger(%d)", int(t))
	}
}

// Policy governs restarts and teardown for one supervised run.
type Policy struct {
	// MaxRestarts is how many times a failing command is restarted before
	// its failure becomes terminal.
	MaxRestarts  int
	KillOthersOn Trigger
	RestartDelay time.Duration
	// StopTimeout is the grace period between SIGTERM and SIGKILL.
	StopTimeout time.Duration
}

// DefaultPolicy restarts three times and tears down on any exit.
func DefaultPolicy() Policy {
	return Policy{
		MaxRestarts:  3,
		KillOthersOn: OnEither,
		StopTimeout:  5 * time.Second,
	}
}
