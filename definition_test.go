package launchd

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const fullPlist = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>Label</key>
	<string>com.example.worker</string>
	<key>Program</key>
	<string>/usr/local/bin/worker</string>
	<key>ProgramArguments</key>
	<array>
		<string>/usr/local/bin/worker</string>
		<string>--verbose</string>
	</array>
	<key>RunAtLoad</key>
	<true/>
	<key>KeepAlive</key>
	<true/>
	<key>StandardOutPath</key>
	<string>/var/log/worker.out</string>
	<key>StandardErrorPath</key>
	<string>/var/log/worker.err</string>
	<key>WorkingDirectory</key>
	<string>/var/lib/worker</string>
	<key>UserName</key>
	<string>daemon</string>
	<key>GroupName</key>
	<string>daemon</string>
	<key>ThrottleInterval</key>
	<integer>30</integer>
</dict>
</plist>
`

func writePlist(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseDefinition(t *testing.T) {
	tmpDir := t.TempDir()
	path := writePlist(t, tmpDir, "com.example.worker.plist", fullPlist)

	def, err := ParseDefinition(path)
	if err != nil {
		t.Fatal(err)
	}

	if def.Label != "com.example.worker" {
		t.Errorf("Label = %q, want %q", def.Label, "com.example.worker")
	}
	if def.Program != "/usr/local/bin/worker" {
		t.Errorf("Program = %q, want %q", def.Program, "/usr/local/bin/worker")
	}
	if len(def.ProgramArguments) != 2 || def.ProgramArguments[1] != "--verbose" {
		t.Errorf("ProgramArguments = %v", def.ProgramArguments)
	}
	if !def.RunAtLoad {
		t.Error("RunAtLoad = false, want true")
	}
	if !def.KeepAlive.Enabled || def.KeepAlive.Conditions != nil {
		t.Errorf("KeepAlive = %+v, want enabled boolean form", def.KeepAlive)
	}
	if def.StandardOutPath != "/var/log/worker.out" {
		t.Errorf("StandardOutPath = %q", def.StandardOutPath)
	}
	if def.StandardErrorPath != "/var/log/worker.err" {
		t.Errorf("StandardErrorPath = %q", def.StandardErrorPath)
	}
	if def.WorkingDirectory != "/var/lib/worker" {
		t.Errorf("WorkingDirectory = %q", def.WorkingDirectory)
	}
	if def.UserName != "daemon" || def.GroupName != "daemon" {
		t.Errorf("UserName/GroupName = %q/%q", def.UserName, def.GroupName)
	}
}

func TestParseDefinitionRawPassthrough(t *testing.T) {
	tmpDir := t.TempDir()
	path := writePlist(t, tmpDir, "com.example.worker.plist", fullPlist)

	def, err := ParseDefinition(path)
	if err != nil {
		t.Fatal(err)
	}

	// Keys the parser does not model stay visible through Raw
	if _, ok := def.Raw["ThrottleInterval"]; !ok {
		t.Error("expected unmodeled ThrottleInterval key in Raw")
	}
	if _, ok := def.Raw["Label"]; !ok {
		t.Error("expected Label key in Raw")
	}
}

func TestParseDefinitionLabelFallback(t *testing.T) {
	tmpDir := t.TempDir()
	path := writePlist(t, tmpDir, "com.test.foo.plist", `<?xml version="1.0" encoding="UTF-8"?>
<plist version="1.0">
<dict>
	<key>ProgramArguments</key>
	<array>
		<string>/bin/true</string>
	</array>
</dict>
</plist>
`)

	def, err := ParseDefinition(path)
	if err != nil {
		t.Fatal(err)
	}

	if def.Label != "com.test.foo" {
		t.Errorf("Label = %q, want filename stem %q", def.Label, "com.test.foo")
	}
	if def.Program != "/bin/true" {
		t.Errorf("Program = %q, want first argument", def.Program)
	}
}

func TestParseDefinitionEmptyProgram(t *testing.T) {
	tmpDir := t.TempDir()
	path := writePlist(t, tmpDir, "com.test.empty.plist", `<?xml version="1.0" encoding="UTF-8"?>
<plist version="1.0">
<dict>
	<key>Label</key>
	<string>com.test.empty</string>
</dict>
</plist>
`)

	def, err := ParseDefinition(path)
	if err != nil {
		t.Fatal(err)
	}

	// Empty program is valid, not an error
	if def.Program != "" {
		t.Errorf("Program = %q, want empty", def.Program)
	}
	if len(def.ProgramArguments) != 0 {
		t.Errorf("ProgramArguments = %v, want empty", def.ProgramArguments)
	}
}

func TestParseDefinitionKeepAliveDict(t *testing.T) {
	tmpDir := t.TempDir()
	path := writePlist(t, tmpDir, "com.test.ka.plist", `<?xml version="1.0" encoding="UTF-8"?>
<plist version="1.0">
<dict>
	<key>Label</key>
	<string>com.test.ka</string>
	<key>KeepAlive</key>
	<dict>
		<key>SuccessfulExit</key>
		<false/>
	</dict>
</dict>
</plist>
`)

	def, err := ParseDefinition(path)
	if err != nil {
		t.Fatal(err)
	}

	if !def.KeepAlive.Enabled {
		t.Error("dictionary KeepAlive should report Enabled")
	}
	if _, ok := def.KeepAlive.Conditions["SuccessfulExit"]; !ok {
		t.Errorf("KeepAlive.Conditions = %v, want SuccessfulExit retained", def.KeepAlive.Conditions)
	}
}

func TestParseDefinitionErrors(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("malformed content", func(t *testing.T) {
		path := writePlist(t, tmpDir, "bad.plist", "this is not a property list")

		_, err := ParseDefinition(path)
		var perr *ParseError
		if !errors.As(err, &perr) {
			t.Fatalf("expected *ParseError, got %T: %v", err, err)
		}
		if perr.Path != path {
			t.Errorf("ParseError.Path = %q, want %q", perr.Path, path)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ParseDefinition(filepath.Join(tmpDir, "absent.plist"))
		var perr *ParseError
		if !errors.As(err, &perr) {
			t.Fatalf("expected *ParseError, got %T: %v", err, err)
		}
	})
}
