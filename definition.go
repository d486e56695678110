package launchd

import (
	"os"
	"path/filepath"
	"strings"

	"howett.net/plist"
)

// ServiceDefinition is the parsed, immutable form of one launchd
// definition file. Typed fields cover the keys the engine acts on; every
// key the file declared, modeled or not, is retained in Raw so callers can
// render arbitrary configuration without the parser knowing about it.
type ServiceDefinition struct {
	// Label is the identifier the service is registered under. Falls back
	// to the file's base name without extension when the file omits it.
	Label string

	// Program is the resolved executable path: the Program key, else the
	// first ProgramArguments element, else empty. Empty is valid.
	Program string

	// ProgramArguments is the declared argument vector, in order
	ProgramArguments []string

	// RunAtLoad reports whether launchd starts the service at load time
	RunAtLoad bool

	// KeepAlive is the declared restart policy
	KeepAlive KeepAlive

	// StandardOutPath is the declared stdout log file, if any
	StandardOutPath string

	// StandardErrorPath is the declared stderr log file, if any
	StandardErrorPath string

	// WorkingDirectory is the declared working directory, if any
	WorkingDirectory string

	// UserName is the account the service runs as, if declared
	UserName string

	// GroupName is the group the service runs as, if declared
	GroupName string

	// Raw is the complete decoded property list
	Raw map[string]any
}

// KeepAlive models the KeepAlive key, which launchd accepts either as a
// boolean or as a dictionary of restart conditions. The dictionary form
// implies the policy is active; its conditions are kept verbatim.
type KeepAlive struct {
	// Enabled reports whether any keep-alive policy is in effect
	Enabled bool
	// Conditions holds the dictionary form, nil for the boolean form
	Conditions map[string]any
}

// ParseDefinition reads and decodes one definition file, binary or XML
// property list. It has no side effects beyond reading the file. Every
// failure mode is reported as a *ParseError; nothing is thrown past this
// boundary.
func ParseDefinition(path string) (*ServiceDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	var raw map[string]any
	if _, err := plist.Unmarshal(data, &raw); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	if raw == nil {
		return nil, &ParseError{Path: path, Err: ErrNoDefinition}
	}

	def := &ServiceDefinition{
		ProgramArguments:  stringSlice(raw["ProgramArguments"]),
		RunAtLoad:         boolValue(raw["RunAtLoad"]),
		KeepAlive:         keepAliveValue(raw["KeepAlive"]),
		StandardOutPath:   stringValue(raw["StandardOutPath"]),
		StandardErrorPath: stringValue(raw["StandardErrorPath"]),
		WorkingDirectory:  stringValue(raw["WorkingDirectory"]),
		UserName:          stringValue(raw["UserName"]),
		GroupName:         stringValue(raw["GroupName"]),
		Raw:               raw,
	}

	def.Label = stringValue(raw["Label"])
	if def.Label == "" {
		def.Label = strings.TrimSuffix(filepath.Base(path), DefinitionExt)
	}

	def.Program = stringValue(raw["Program"])
	if def.Program == "" && len(def.ProgramArguments) > 0 {
		def.Program = def.ProgramArguments[0]
	}

	return def, nil
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}

func boolValue(v any) bool {
	b, _ := v.(bool)
	return b
}

func stringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func keepAliveValue(v any) KeepAlive {
	switch val := v.(type) {
	case bool:
		return KeepAlive{Enabled: val}
	case map[string]any:
		return KeepAlive{Enabled: true, Conditions: val}
	default:
		return KeepAlive{}
	}
}
