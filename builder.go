package launchd

import (
	"fmt"
	"path/filepath"

	"github.com/google/renameio/v2"
	"howett.net/plist"
)

// DefinitionBuilder provides a fluent interface for composing a launchd
// definition file and writing it atomically. The write either produces a
// complete file or nothing; no partial file is ever left on disk.
type DefinitionBuilder struct {
	// Label is the service identifier
	Label string
	// Dir is the directory the definition file is written into
	Dir string
	// Cmd is the command and arguments to execute
	Cmd []string
	// RunAtLoad starts the service when launchd loads it
	RunAtLoad bool
	// KeepAlive restarts the service when it exits
	KeepAlive bool
	// Cwd is the working directory for the service
	Cwd string
	// StdoutPath redirects standard output
	StdoutPath string
	// StderrPath redirects standard error
	StderrPath string
	// User is the account the service runs as
	User string
	// Group is the group the service runs as
	Group string
}

// definitionRecord is the serialized shape of a built definition. RunAtLoad
// and KeepAlive are always emitted so the created file states its lifecycle
// policy explicitly.
type definitionRecord struct {
	Label             string   `plist:"Label"`
	ProgramArguments  []string `plist:"ProgramArguments"`
	RunAtLoad         bool     `plist:"RunAtLoad"`
	KeepAlive         bool     `plist:"KeepAlive"`
	WorkingDirectory  string   `plist:"WorkingDirectory,omitempty"`
	StandardOutPath   string   `plist:"StandardOutPath,omitempty"`
	StandardErrorPath string   `plist:"StandardErrorPath,omitempty"`
	UserName          string   `plist:"UserName,omitempty"`
	GroupName         string   `plist:"GroupName,omitempty"`
}

// NewDefinitionBuilder creates a DefinitionBuilder for a service with the
// given label, targeting the given directory
func NewDefinitionBuilder(label, dir string) *DefinitionBuilder {
	return &DefinitionBuilder{
		Label: label,
		Dir:   dir,
	}
}

// WithCmd sets the command to execute
func (b *DefinitionBuilder) WithCmd(cmd ...string) *DefinitionBuilder {
	b.Cmd = cmd
	return b
}

// WithRunAtLoad sets whether launchd starts the service at load time
func (b *DefinitionBuilder) WithRunAtLoad(v bool) *DefinitionBuilder {
	b.RunAtLoad = v
	return b
}

// WithKeepAlive sets whether launchd restarts the service when it exits
func (b *DefinitionBuilder) WithKeepAlive(v bool) *DefinitionBuilder {
	b.KeepAlive = v
	return b
}

// WithCwd sets the working directory
func (b *DefinitionBuilder) WithCwd(cwd string) *DefinitionBuilder {
	b.Cwd = cwd
	return b
}

// WithLogPaths sets the stdout and stderr redirection paths
func (b *DefinitionBuilder) WithLogPaths(stdout, stderr string) *DefinitionBuilder {
	b.StdoutPath = stdout
	b.StderrPath = stderr
	return b
}

// WithUser sets the account and group the service runs as
func (b *DefinitionBuilder) WithUser(user, group string) *DefinitionBuilder {
	b.User = user
	b.Group = group
	return b
}

// Path returns the definition file path the builder will write
func (b *DefinitionBuilder) Path() string {
	return filepath.Join(b.Dir, b.Label+DefinitionExt)
}

// Write serializes the definition as an XML property list and writes it
// atomically, returning the written path. Failures are reported as a
// *CreateError.
func (b *DefinitionBuilder) Write() (string, error) {
	path := b.Path()

	if b.Label == "" {
		return "", &CreateError{Path: path, Err: fmt.Errorf("label is required")}
	}
	if len(b.Cmd) == 0 {
		return "", &CreateError{Path: path, Err: fmt.Errorf("command is required")}
	}

	rec := definitionRecord{
		Label:             b.Label,
		ProgramArguments:  b.Cmd,
		RunAtLoad:         b.RunAtLoad,
		KeepAlive:         b.KeepAlive,
		WorkingDirectory:  b.Cwd,
		StandardOutPath:   b.StdoutPath,
		StandardErrorPath: b.StderrPath,
		UserName:          b.User,
		GroupName:         b.Group,
	}

	data, err := plist.MarshalIndent(rec, plist.XMLFormat, "\t")
	if err != nil {
		return "", &CreateError{Path: path, Err: err}
	}

	if err := renameio.WriteFile(path, data, FileMode); err != nil {
		return "", &CreateError{Path: path, Err: err}
	}

	return path, nil
}
