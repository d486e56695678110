package launchd

import (
	"os"
	"path/filepath"
	"time"
)

// Definition file discovery constants
const (
	// DefinitionExt is the file extension for launchd definition files
	DefinitionExt = ".plist"

	// VendorPrefix marks Apple-owned definitions that are excluded from
	// management
	VendorPrefix = "com.apple"

	// SystemDaemonDir is the directory for vendor-installed system daemons
	SystemDaemonDir = "/System/Library/LaunchDaemons"

	// LocalDaemonDir is the directory for administrator-installed system daemons
	LocalDaemonDir = "/Library/LaunchDaemons"

	// UserAgentSubdir is the per-user agent directory relative to the home
	// directory
	UserAgentSubdir = "Library/LaunchAgents"
)

// Timeouts and limits
const (
	// DefaultProbeTimeout bounds a single launchctl list invocation
	DefaultProbeTimeout = 5 * time.Second

	// DefaultLifecycleTimeout bounds a single bootstrap/bootout invocation
	DefaultLifecycleTimeout = 10 * time.Second

	// DefaultProbeConcurrency is the number of status probes a scan runs
	// in parallel
	DefaultProbeConcurrency = 8

	// DefaultWatchDebounce coalesces bursts of filesystem events into a
	// single change notification
	DefaultWatchDebounce = 250 * time.Millisecond

	// DefaultTailLines is the number of trailing log lines returned by TailLog
	DefaultTailLines = 50
)

// Binary paths with defaults that can be overridden
const (
	// DefaultLaunchctlPath is the default path to the launchctl binary
	DefaultLaunchctlPath = "launchctl"

	// DefaultDomain is the launchd domain target for lifecycle operations
	DefaultDomain = "system"
)

// File modes
const (
	// DirMode is the default mode for created directories
	DirMode = 0o755

	// FileMode is the default mode for created definition files
	FileMode = 0o644
)

// DefaultSearchRoots returns the standard launchd definition directories in
// discovery order: vendor system daemons, local system daemons, then the
// current user's agents. The user root is omitted when the home directory
// cannot be resolved.
func DefaultSearchRoots() []string {
	roots := []string{
		SystemDaemonDir,
		LocalDaemonDir,
	}
	if home, err := os.UserHomeDir(); err == nil {
		roots = append(roots, filepath.Join(home, UserAgentSubdir))
	}
	return roots
}

// Operation represents a launchctl operation type
type Operation int

const (
	// OpUnknown represents an unknown operation
	OpUnknown Operation = iota
	// OpProbe queries runtime status (launchctl list)
	OpProbe
	// OpStart bootstraps a definition into the domain (launchctl bootstrap)
	OpStart
	// OpStop boots a definition out of the domain (launchctl bootout)
	OpStop
	// OpRestart is a sequential stop then start
	OpRestart
	// OpCreate writes a new definition file
	OpCreate
)

// String returns the string representation of the operation
func (o Operation) String() string {
	switch o {
	case OpProbe:
		return "probe"
	case OpStart:
		return "start"
	case OpStop:
		return "stop"
	case OpRestart:
		return "restart"
	case OpCreate:
		return "create"
	default:
		return "unknown"
	}
}
