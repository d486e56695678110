//go:build linux || darwin

// Package unixfs provides platform-specific filesystem access checks.
package unixfs

import "golang.org/x/sys/unix"

// Writable reports whether the current process may write to dir. A
// missing directory is not writable.
func Writable(dir string) bool {
	return unix.Access(dir, unix.W_OK) == nil
}
