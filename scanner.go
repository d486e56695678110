package launchd

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Scanner walks the configured search roots, parses each candidate
// definition file, probes its runtime status, and produces the full
// ServiceSet. It is the single point of truth for record construction: no
// other component synthesizes a ServiceRecord.
type Scanner struct {
	// Roots are the search roots, in discovery order
	Roots []string

	// Client performs the per-record status probes
	Client *Client

	// Concurrency is the maximum number of probes in flight at once.
	// Probing in parallel bounds a scan's worst-case blocking without
	// changing the observable result: records keep discovery order.
	Concurrency int

	// Log receives non-fatal scan diagnostics
	Log *slog.Logger
}

// ScannerOption configures a Scanner
type ScannerOption func(*Scanner)

// WithRoots sets the search roots, replacing the defaults
func WithRoots(roots ...string) ScannerOption {
	return func(s *Scanner) {
		s.Roots = roots
	}
}

// WithClient sets the launchctl client used for probes
func WithClient(c *Client) ScannerOption {
	return func(s *Scanner) {
		s.Client = c
	}
}

// WithConcurrency sets the maximum number of concurrent probes
func WithConcurrency(n int) ScannerOption {
	return func(s *Scanner) {
		s.Concurrency = n
	}
}

// WithLogger sets the logger for scan diagnostics
func WithLogger(log *slog.Logger) ScannerOption {
	return func(s *Scanner) {
		s.Log = log
	}
}

// NewScanner creates a Scanner with the default search roots, client, and
// probe concurrency, then applies any provided options.
func NewScanner(opts ...ScannerOption) *Scanner {
	s := &Scanner{
		Roots:       DefaultSearchRoots(),
		Client:      NewClient(),
		Concurrency: DefaultProbeConcurrency,
		Log:         slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.Concurrency < 1 {
		s.Concurrency = 1
	}

	return s
}

// candidate is a definition file that passed the discovery filter, paired
// with its position in discovery order.
type candidate struct {
	path string
	def  *ServiceDefinition
}

// Scan enumerates every candidate definition file under the roots, in
// order, and returns one record per successfully parsed file.
//
// Containment rules: a root that does not exist is skipped silently; a
// root that exists but cannot be read contributes a *RootError; a file
// that fails to parse contributes a *ParseError. Neither aborts the scan.
// The accumulated non-fatal failures are returned as a *MultiError (nil
// when the scan was clean) alongside the set, which is always valid.
func (s *Scanner) Scan(ctx context.Context) (ServiceSet, error) {
	merr := &MultiError{}

	var candidates []candidate
	for _, root := range s.Roots {
		entries, err := os.ReadDir(root)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			merr.Add(&RootError{Root: root, Err: err})
			s.Log.Warn("skipping unreadable root", "root", root, "error", err)
			continue
		}

		for _, entry := range entries {
			name := entry.Name()
			if !strings.HasSuffix(name, DefinitionExt) || strings.HasPrefix(name, VendorPrefix) {
				continue
			}

			path := filepath.Join(root, name)
			def, err := ParseDefinition(path)
			if err != nil {
				merr.Add(err)
				s.Log.Warn("skipping unparseable definition", "path", path, "error", err)
				continue
			}
			candidates = append(candidates, candidate{path: path, def: def})
		}
	}

	set := make(ServiceSet, len(candidates))

	// Probes run concurrently under a semaphore; each result lands at its
	// candidate's index so discovery order survives parallelism. A probe
	// is a pure function of one label, so no state is shared across them.
	sem := make(chan struct{}, s.Concurrency)
	var wg sync.WaitGroup

	for i, cand := range candidates {
		wg.Add(1)
		go func(i int, cand candidate) {
			defer wg.Done()

			status := Status{State: StateUnknown}
			select {
			case sem <- struct{}{}:
				status = s.Client.Probe(ctx, cand.def.Label)
				<-sem
			case <-ctx.Done():
			}

			set[i] = ServiceRecord{
				Definition: cand.def,
				SourcePath: cand.path,
				Status:     status,
			}
		}(i, cand)
	}
	wg.Wait()

	s.Log.Debug("scan complete", "records", len(set), "warnings", len(merr.Errors))
	return set, merr.Err()
}
