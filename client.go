package launchd

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Client invokes the host's launchctl utility for status probes and
// lifecycle commands. Lifecycle operations take the definition file's path
// as the launchctl-facing handle; probes take the service label. Every
// invocation carries its own timeout so one unresponsive subprocess cannot
// stall a reconciliation cycle beyond its declared bound.
type Client struct {
	// LaunchctlPath is the path to the launchctl binary
	LaunchctlPath string

	// Domain is the launchd domain target for bootstrap/bootout
	Domain string

	// ProbeTimeout bounds a single list invocation
	ProbeTimeout time.Duration

	// LifecycleTimeout bounds a single bootstrap/bootout invocation
	LifecycleTimeout time.Duration
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithLaunchctlPath sets the path to the launchctl binary
func WithLaunchctlPath(path string) ClientOption {
	return func(c *Client) {
		c.LaunchctlPath = path
	}
}

// WithDomain sets the launchd domain target for lifecycle operations
func WithDomain(domain string) ClientOption {
	return func(c *Client) {
		c.Domain = domain
	}
}

// WithProbeTimeout sets the timeout for status probes
func WithProbeTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.ProbeTimeout = d
	}
}

// WithLifecycleTimeout sets the timeout for lifecycle commands
func WithLifecycleTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.LifecycleTimeout = d
	}
}

// NewClient creates a Client with default settings and applies any
// provided options
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		LaunchctlPath:    DefaultLaunchctlPath,
		Domain:           DefaultDomain,
		ProbeTimeout:     DefaultProbeTimeout,
		LifecycleTimeout: DefaultLifecycleTimeout,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// run executes launchctl with the given arguments under the given timeout,
// returning stdout. A non-zero exit is reported with the captured stderr
// appended so the utility's diagnostic survives verbatim.
func (c *Client) run(ctx context.Context, timeout time.Duration, args ...string) (string, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, c.LaunchctlPath, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("%w (stderr: %s)", err, msg)
		}
		return "", err
	}

	return stdout.String(), nil
}

// Probe queries the runtime status of the service registered under label.
// It never returns an error: launchctl failure, timeout, and malformed
// output all classify as StateUnknown, because status is advisory and must
// not abort a scan.
func (c *Client) Probe(ctx context.Context, label string) Status {
	out, err := c.run(ctx, c.ProbeTimeout, "list", label)
	if err != nil {
		return Status{State: StateUnknown}
	}
	return classifyListOutput(out)
}

// Start bootstraps the definition at path into the configured domain. The
// caller must re-scan afterwards to observe the resulting status; the
// client never guesses it.
func (c *Client) Start(ctx context.Context, path string) error {
	if _, err := c.run(ctx, c.LifecycleTimeout, "bootstrap", c.Domain, path); err != nil {
		return &LifecycleError{Op: OpStart, Path: path, Err: err}
	}
	return nil
}

// Stop boots the definition at path out of the configured domain
func (c *Client) Stop(ctx context.Context, path string) error {
	if _, err := c.run(ctx, c.LifecycleTimeout, "bootout", c.Domain, path); err != nil {
		return &LifecycleError{Op: OpStop, Path: path, Err: err}
	}
	return nil
}

// Restart performs a sequential stop then start. If the stop fails the
// sequence aborts and the stop failure is surfaced; starting a service
// that may still be running under a stale registration is worse than
// reporting the failure.
func (c *Client) Restart(ctx context.Context, path string) error {
	if err := c.Stop(ctx, path); err != nil {
		return &LifecycleError{Op: OpRestart, Path: path, Err: fmt.Errorf("%w: %w", ErrStopAborted, err)}
	}
	return c.Start(ctx, path)
}
