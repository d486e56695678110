package launchd

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestTailLog(t *testing.T) {
	dir := t.TempDir()

	t.Run("short file", func(t *testing.T) {
		path := filepath.Join(dir, "short.log")
		if err := os.WriteFile(path, []byte("one\ntwo\nthree\n"), 0o644); err != nil {
			t.Fatal(err)
		}

		lines, err := TailLog(path, DefaultTailLines)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(lines, []string{"one", "two", "three"}) {
			t.Errorf("lines = %v", lines)
		}
	})

	t.Run("long file returns last n", func(t *testing.T) {
		var b strings.Builder
		for i := 1; i <= 60; i++ {
			fmt.Fprintf(&b, "line %d\n", i)
		}
		path := filepath.Join(dir, "long.log")
		if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
			t.Fatal(err)
		}

		lines, err := TailLog(path, 50)
		if err != nil {
			t.Fatal(err)
		}
		if len(lines) != 50 {
			t.Fatalf("len = %d, want 50", len(lines))
		}
		if lines[0] != "line 11" || lines[49] != "line 60" {
			t.Errorf("window = %q .. %q", lines[0], lines[49])
		}
	})

	t.Run("empty file", func(t *testing.T) {
		path := filepath.Join(dir, "empty.log")
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			t.Fatal(err)
		}

		lines, err := TailLog(path, 50)
		if err != nil {
			t.Fatal(err)
		}
		if len(lines) != 0 {
			t.Errorf("lines = %v, want none", lines)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := TailLog(filepath.Join(dir, "absent.log"), 50); err == nil {
			t.Error("expected error for missing file")
		}
	})
}

func TestClearLogs(t *testing.T) {
	dir := t.TempDir()

	outPath := filepath.Join(dir, "svc.out")
	errPath := filepath.Join(dir, "svc.err")
	if err := os.WriteFile(outPath, []byte("stdout content\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(errPath, []byte("stderr content\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	def := &ServiceDefinition{
		StandardOutPath:   outPath,
		StandardErrorPath: errPath,
	}

	cleared, err := ClearLogs(def)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(cleared, []string{outPath, errPath}) {
		t.Errorf("cleared = %v", cleared)
	}

	for _, path := range cleared {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if info.Size() != 0 {
			t.Errorf("%s not truncated, size %d", path, info.Size())
		}
	}
}

func TestClearLogsSkipsMissingAndUndeclared(t *testing.T) {
	dir := t.TempDir()

	outPath := filepath.Join(dir, "svc.out")
	if err := os.WriteFile(outPath, []byte("x\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	def := &ServiceDefinition{
		StandardOutPath:   outPath,
		StandardErrorPath: filepath.Join(dir, "never-written.err"),
	}

	cleared, err := ClearLogs(def)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(cleared, []string{outPath}) {
		t.Errorf("cleared = %v, want only the existing file", cleared)
	}

	if cleared, err := ClearLogs(&ServiceDefinition{}); err != nil || len(cleared) != 0 {
		t.Errorf("ClearLogs with no declared paths = %v, %v", cleared, err)
	}
}
