// Package launchd reconciles declarative launchd service definitions with
// the live status reported by launchctl.
//
// The core functionality centers around the Scanner type, which walks the
// standard definition directories, parses each plist into a typed
// ServiceDefinition, probes the runtime status of each service, and merges
// both into an ordered, immutable ServiceSet:
//
//	scanner := launchd.NewScanner()
//	set, err := scanner.Scan(context.Background())
//	if err != nil {
//	    // non-fatal: unreadable roots and malformed files, set still valid
//	    log.Printf("scan warnings: %v", err)
//	}
//
//	for _, rec := range set.Filter("postgres") {
//	    fmt.Printf("%s\t%s\n", rec.Definition.Label, rec.Status)
//	}
//
// # Lifecycle Operations
//
// The Client type issues start, stop, and restart commands through
// launchctl bootstrap and bootout, using a record's SourcePath as the
// handle. The client never caches or guesses the resulting status; after
// any successful operation the authoritative state is whatever the next
// Scan observes:
//
//	client := launchd.NewClient()
//	if err := client.Restart(ctx, rec.SourcePath); err != nil {
//	    // LifecycleError carries launchctl's diagnostic verbatim
//	}
//	set, _ = scanner.Scan(ctx)
//
// # Design Philosophy
//
// This library prioritizes:
//
//   - Reconciliation over mutation: every scan builds a fresh set, no
//     record is ever updated in place
//   - Containment of partial failure: one malformed file or unreadable
//     root never hides the rest
//   - Advisory status: probe failures degrade to StateUnknown, never to a
//     hard error
//   - Bounded blocking: every launchctl invocation carries its own timeout
//
// The Scanner probes concurrently under a bounded semaphore because a scan
// of many definitions is otherwise serialized behind per-probe timeouts,
// but the observable result (set ordering and content) is identical to a
// sequential scan.
package launchd
