// launchtui is an interactive terminal front end for the go-launchd
// reconciliation engine. It renders the discovered service set as a
// filterable table, shows the selected record's declared configuration and
// log tail, and issues start/stop/restart/create commands, re-scanning
// after every mutation so the display always reflects observed state.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/pflag"

	tea "github.com/charmbracelet/bubbletea"

	launchd "github.com/axondata/go-launchd"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		roots         []string
		launchctlPath string
		domain        string
		probeTimeout  time.Duration
		logOutput     string
		noWatch       bool
		showVersion   bool
	)

	flagSet := pflag.NewFlagSet("launchtui", pflag.ContinueOnError)
	flagSet.StringSliceVar(&roots, "root", nil, "search root (repeatable; default: standard launchd directories)")
	flagSet.StringVar(&launchctlPath, "launchctl", launchd.DefaultLaunchctlPath, "path to the launchctl binary")
	flagSet.StringVar(&domain, "domain", launchd.DefaultDomain, "launchd domain target for lifecycle operations")
	flagSet.DurationVar(&probeTimeout, "probe-timeout", launchd.DefaultProbeTimeout, "per-service status probe timeout")
	flagSet.StringVar(&logOutput, "log-output", "", "write JSON log records to this file")
	flagSet.BoolVar(&noWatch, "no-watch", false, "disable automatic refresh on definition directory changes")
	flagSet.BoolVar(&showVersion, "version", false, "print version and exit")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	if showVersion {
		info := launchd.GetVersion()
		fmt.Printf("launchtui %s (%s)\n", info.Version, info.Utility)
		return nil
	}

	logger := slog.New(slog.DiscardHandler)
	if logOutput != "" {
		f, err := os.OpenFile(logOutput, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log output: %w", err)
		}
		defer func() { _ = f.Close() }()
		logger = slog.New(slog.NewJSONHandler(f, nil))
	}

	if len(roots) == 0 {
		roots = launchd.DefaultSearchRoots()
	}

	client := launchd.NewClient(
		launchd.WithLaunchctlPath(launchctlPath),
		launchd.WithDomain(domain),
		launchd.WithProbeTimeout(probeTimeout),
	)
	scanner := launchd.NewScanner(
		launchd.WithRoots(roots...),
		launchd.WithClient(client),
		launchd.WithLogger(logger),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var events <-chan launchd.RootEvent
	if !noWatch {
		ch, cleanup, err := launchd.WatchRoots(ctx, roots, launchd.DefaultWatchDebounce)
		if err != nil {
			logger.Warn("root watching disabled", "error", err)
		} else {
			events = ch
			defer func() { _ = cleanup() }()
		}
	}

	m := newModel(scanner, client, events)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
