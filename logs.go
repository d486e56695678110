package launchd

import (
	"os"
	"strings"
)

// TailLog returns the last n lines of the log file at path. The engine
// only ever reads declared log files; it never writes log content. A
// missing or unreadable file is the caller's signal to display a notice,
// so the error is returned as-is.
func TailLog(path string, n int) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	if len(lines) == 1 && lines[0] == "" {
		return nil, nil
	}
	if n > 0 && len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines, nil
}

// ClearLogs truncates the declared stdout and stderr files of def,
// returning the paths that were actually cleared. Paths that are not
// declared or do not exist are skipped; the first truncation failure
// aborts and is returned alongside the paths cleared so far.
func ClearLogs(def *ServiceDefinition) ([]string, error) {
	var cleared []string

	for _, path := range []string{def.StandardOutPath, def.StandardErrorPath} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := os.Truncate(path, 0); err != nil {
			return cleared, err
		}
		cleared = append(cleared, path)
	}

	return cleared, nil
}
