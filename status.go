package launchd

import (
	"fmt"
	"strconv"
	"strings"
)

// State represents the classified runtime state of a launchd service
type State int

const (
	// StateUnknown indicates the state could not be determined: launchctl
	// failed, timed out, or produced ambiguous output. Never conflated
	// with StateStopped.
	StateUnknown State = iota
	// StateStopped indicates the service is registered but has no process
	StateStopped
	// StateRunning indicates the service has a live process
	StateRunning
)

// State string constants
const (
	stateUnknownStr = "unknown"
	stateStoppedStr = "stopped"
	stateRunningStr = "running"
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StateStopped:
		return stateStoppedStr
	case StateRunning:
		return stateRunningStr
	default:
		return stateUnknownStr
	}
}

// Status is the runtime status of a single service as reported by the
// process-control utility. It is advisory: a failed probe yields
// StateUnknown rather than an error so one unresponsive service cannot
// abort a scan.
type Status struct {
	// State is the classified runtime state
	State State
	// PID is the process id when State is StateRunning, zero otherwise
	PID int
}

// Running reports whether the service has a live process
func (s Status) Running() bool {
	return s.State == StateRunning
}

// String returns a display form such as "running (pid 1234)"
func (s Status) String() string {
	if s.State == StateRunning {
		return fmt.Sprintf("%s (pid %d)", stateRunningStr, s.PID)
	}
	return s.State.String()
}

// classifyListOutput classifies the stdout of launchctl list <label>.
//
// The expected shape is a header line followed by one entry line of at
// least three whitespace-delimited fields, the first being the PID or "-"
// for a service without a process:
//
//	PID	Status	Label
//	1234	0	com.example.svc
//
// Anything shorter or otherwise ambiguous classifies as StateUnknown.
func classifyListOutput(out string) Status {
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) < 2 {
		return Status{State: StateUnknown}
	}

	fields := strings.Fields(lines[1])
	if len(fields) < 3 {
		return Status{State: StateUnknown}
	}

	if fields[0] == "-" {
		return Status{State: StateStopped}
	}

	pid, err := strconv.Atoi(fields[0])
	if err != nil || pid <= 0 {
		return Status{State: StateUnknown}
	}
	return Status{State: StateRunning, PID: pid}
}
