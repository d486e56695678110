package launchd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/axondata/go-launchd/internal/unixfs"
)

// TemplateKind selects the shape and destination of a created definition
type TemplateKind int

const (
	// UserAgent creates a per-user agent under the user's agent
	// directory, which is created on demand
	UserAgent TemplateKind = iota
	// SystemDaemon creates a system daemon under the local daemon
	// directory, which must already exist and be writable
	SystemDaemon
)

// String returns the string representation of the template kind
func (k TemplateKind) String() string {
	switch k {
	case UserAgent:
		return "user agent"
	case SystemDaemon:
		return "system daemon"
	default:
		return "unknown"
	}
}

// Template label prefixes and log directories
const (
	userAgentLabelPrefix    = "com.user.agent."
	systemDaemonLabelPrefix = "com.system.daemon."
	userAgentLogDir         = "/tmp"
	systemDaemonLogDir      = "/var/log"
)

type createConfig struct {
	userAgentDir    string
	systemDaemonDir string
	logDir          string
}

// CreateOption configures CreateService
type CreateOption func(*createConfig)

// WithUserAgentDir overrides the destination directory for UserAgent
// definitions
func WithUserAgentDir(dir string) CreateOption {
	return func(c *createConfig) {
		c.userAgentDir = dir
	}
}

// WithSystemDaemonDir overrides the destination directory for SystemDaemon
// definitions
func WithSystemDaemonDir(dir string) CreateOption {
	return func(c *createConfig) {
		c.systemDaemonDir = dir
	}
}

// WithLogDir overrides the directory the created definition's stdout and
// stderr files point into
func WithLogDir(dir string) CreateOption {
	return func(c *createConfig) {
		c.logDir = dir
	}
}

// CreateService synthesizes a minimal definition with a generated unique
// label and writes it to the directory for kind, returning the written
// path. The caller must re-scan to pick up the new record.
//
// UserAgent definitions go to ~/Library/LaunchAgents, created if absent.
// SystemDaemon definitions go to /Library/LaunchDaemons, which is never
// created automatically; when it is missing or not writable the write is
// not attempted and a *PermissionError is returned instead.
func CreateService(kind TemplateKind, opts ...CreateOption) (string, error) {
	var cfg createConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	// uuid strings open with eight hex digits; that keeps collision odds
	// negligible for a handful of hand-created services
	suffix := uuid.NewString()[:8]

	var label, dir, logDir string
	system := false

	switch kind {
	case UserAgent:
		label = userAgentLabelPrefix + suffix
		dir = cfg.userAgentDir
		if dir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", &CreateError{Err: fmt.Errorf("resolving home dir: %w", err)}
			}
			dir = filepath.Join(home, UserAgentSubdir)
		}
		if err := os.MkdirAll(dir, DirMode); err != nil {
			return "", &CreateError{Path: dir, Err: err}
		}
		logDir = userAgentLogDir

	case SystemDaemon:
		label = systemDaemonLabelPrefix + suffix
		dir = cfg.systemDaemonDir
		if dir == "" {
			dir = LocalDaemonDir
		}
		if !unixfs.Writable(dir) {
			return "", &PermissionError{Dir: dir}
		}
		logDir = systemDaemonLogDir
		system = true

	default:
		return "", &CreateError{Err: fmt.Errorf("unknown template kind %d", kind)}
	}

	if cfg.logDir != "" {
		logDir = cfg.logDir
	}

	b := NewDefinitionBuilder(label, dir).
		WithCmd("/bin/bash", "-c", fmt.Sprintf("echo 'Hello from %s'", kind)).
		WithRunAtLoad(false).
		WithKeepAlive(false).
		WithLogPaths(
			filepath.Join(logDir, label+".out"),
			filepath.Join(logDir, label+".err"),
		)
	if system {
		b = b.WithUser("root", "wheel")
	}

	return b.Write()
}
