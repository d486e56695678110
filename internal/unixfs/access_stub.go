//go:build !linux && !darwin

package unixfs

import "os"

// Writable reports whether dir exists and is a directory. Platforms
// without access(2) fall back to letting the write itself fail.
func Writable(dir string) bool {
	info, err := os.Stat(dir)
	return err == nil && info.IsDir()
}
