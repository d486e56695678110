package launchd

import "strings"

// ServiceRecord merges one filesystem-declared definition with the live
// status observed for it during a scan. Records are immutable: a new scan
// produces fresh records rather than mutating prior ones. Identity is
// SourcePath; two definitions may share a label but never a path.
type ServiceRecord struct {
	// Definition is the parsed definition file
	Definition *ServiceDefinition

	// SourcePath is the absolute path to the definition file. It doubles
	// as the handle for all lifecycle operations.
	SourcePath string

	// Status is the runtime status observed when the record was built
	Status Status
}

// ServiceSet is an ordered collection of ServiceRecords in discovery
// order: search-root order, then directory-listing order within a root.
// No two records share a SourcePath. Sets are copy-on-scan immutable data;
// downstream consumers hold read-only views and obtain changes only
// through a new scan.
type ServiceSet []ServiceRecord

// Filter returns the records whose label or program path contains query,
// case-insensitively, preserving order. An empty query returns the set
// unchanged. Filter is a pure function of (set, query): it never mutates
// the receiver and holds no state between calls, so it can run on every
// keystroke of a search input.
func (s ServiceSet) Filter(query string) ServiceSet {
	if query == "" {
		return s
	}

	query = strings.ToLower(query)
	out := make(ServiceSet, 0, len(s))
	for _, rec := range s {
		if strings.Contains(strings.ToLower(rec.Definition.Label), query) ||
			strings.Contains(strings.ToLower(rec.Definition.Program), query) {
			out = append(out, rec)
		}
	}
	return out
}

// Lookup returns the record with the given source path, or nil
func (s ServiceSet) Lookup(sourcePath string) *ServiceRecord {
	for i := range s {
		if s[i].SourcePath == sourcePath {
			return &s[i]
		}
	}
	return nil
}

// Labels returns the labels of every record, in set order
func (s ServiceSet) Labels() []string {
	out := make([]string, len(s))
	for i, rec := range s {
		out[i] = rec.Definition.Label
	}
	return out
}
