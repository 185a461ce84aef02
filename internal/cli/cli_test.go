package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gbe-labs/compgen/internal/manifest"
	"github.com/gbe-labs/compgen/internal/registry"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

const positionSrc = `// capacity = 50
pub const Position = struct { x: f32, y: f32 };

pub fn update(gs: *GameSession, self: *Position, timer: Timer) bool {
    return true;
}
`

// execute runs the root command with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	rootConfig, rootDir, rootVerbose = "", "", false
	listJSON = false
	newCapacity, newRequires = 0, nil
	versionShort, versionJSON = false, false
	watchDebounce = 0

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

func newProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	compDir := filepath.Join(dir, "src", "components")
	if err := os.MkdirAll(compDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(compDir, "position.zig"), []byte(positionSrc), 0644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestGenerate(t *testing.T) {
	dir := newProject(t)

	out, err := execute(t, "--dir", dir)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	for _, want := range []string{
		"writing " + filepath.Join("src", "components_auto.zig"),
		"writing " + filepath.Join("src", "session.zig"),
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	out, err = execute(t, "--dir", dir)
	if err != nil {
		t.Fatalf("second generate: %v", err)
	}
	if strings.Contains(out, "writing") {
		t.Errorf("second run rewrote files:\n%s", out)
	}
}

func TestGenerateRejectsArgs(t *testing.T) {
	if _, err := execute(t, "--dir", newProject(t), "extra"); err == nil {
		t.Fatal("expected error for positional argument, got nil")
	}
}

func TestGenerateInvalidComponent(t *testing.T) {
	dir := newProject(t)
	bad := filepath.Join(dir, "src", "components", "bad.zig")
	if err := os.WriteFile(bad, []byte("pub const Bad = struct {};\nfn update(gs: *GameSession, self: *Bad) bool {}\n"), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "--dir", dir)
	if !errors.Is(err, manifest.ErrNotPublic) {
		t.Fatalf("error = %v, want ErrNotPublic", err)
	}
	if !strings.Contains(err.Error(), bad) {
		t.Errorf("error %q does not name %s", err, bad)
	}
	if out != "" {
		t.Errorf("aborted run printed %q", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "src", "session.zig")); !os.IsNotExist(err) {
		t.Error("aborted run created session.zig")
	}
}

func TestCheck(t *testing.T) {
	dir := newProject(t)

	_, err := execute(t, "check", "--dir", dir)
	if !errors.Is(err, errStale) {
		t.Fatalf("check before generate: error = %v, want errStale", err)
	}

	if _, err := execute(t, "--dir", dir); err != nil {
		t.Fatalf("generate: %v", err)
	}
	out, err := execute(t, "check", "--dir", dir)
	if err != nil {
		t.Fatalf("check after generate: %v", err)
	}
	if !strings.Contains(out, "up to date") {
		t.Errorf("output = %q", out)
	}
}

func TestList(t *testing.T) {
	dir := newProject(t)

	out, err := execute(t, "list", "--dir", dir)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, want := range []string{"NAME", "Position", "50", "component", "Timer", "1000 (default)", "dependency"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	out, err = execute(t, "list", "--json", "--dir", dir)
	if err != nil {
		t.Fatalf("list --json: %v", err)
	}
	var entries []registry.Entry
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("decoding JSON: %v\n%s", err, out)
	}
	want := []registry.Entry{
		{Name: "Position", Capacity: 50, Explicit: true, Declared: true, Module: "components/position.zig"},
		{Name: "Timer", Capacity: 1000, Module: "components/timer.zig"},
	}
	if diff := cmp.Diff(want, entries, cmpopts.IgnoreFields(registry.Entry{}, "Origin")); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestNew(t *testing.T) {
	dir := newProject(t)

	out, err := execute(t, "new", "Velocity", "--dir", dir, "--capacity", "250",
		"--require", "self:*Velocity", "--require", "pos:*Position")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	path := filepath.Join(dir, "src", "components", "velocity.zig")
	if !strings.Contains(out, "Created "+filepath.Join("src", "components", "velocity.zig")) {
		t.Errorf("output = %q", out)
	}

	decl, err := manifest.ScanFile(path)
	if err != nil {
		t.Fatalf("ScanFile: %v", err)
	}
	if decl.Name != "Velocity" || decl.Capacity != 250 || len(decl.Requirements) != 2 {
		t.Errorf("scanned %+v", decl)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `@import("../session.zig")`) {
		t.Errorf("component does not import the session module:\n%s", data)
	}

	// The new component is picked up by the next run.
	out, err = execute(t, "list", "--dir", dir)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "Velocity") {
		t.Errorf("list missing Velocity:\n%s", out)
	}

	if _, err := execute(t, "new", "Velocity", "--dir", dir); err == nil {
		t.Error("second new should refuse to overwrite")
	}
}

func TestNewRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad name", []string{"new", "9lives"}},
		{"negative capacity", []string{"new", "Tag", "--capacity", "-1"}},
		{"missing type", []string{"new", "Tag", "--require", "self"}},
		{"bad type", []string{"new", "Tag", "--require", "self:**Tag"}},
		{"duplicate field", []string{"new", "Tag", "--require", "a:A", "--require", "a:B"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := newProject(t)
			if _, err := execute(t, append(tt.args, "--dir", dir)...); err == nil {
				t.Fatal("expected error, got nil")
			}
			if _, err := os.Stat(filepath.Join(dir, "src", "components", "tag.zig")); !os.IsNotExist(err) {
				t.Error("rejected command created a file")
			}
		})
	}
}

func TestInitAndConfig(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, "init", "--dir", dir)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if !strings.Contains(out, "compgen.yaml") {
		t.Errorf("output = %q", out)
	}
	if _, err := execute(t, "init", "--dir", dir); err == nil {
		t.Error("second init should fail")
	}

	out, err = execute(t, "config", "--dir", dir)
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	for _, want := range []string{"components_dir: src/components", "default_capacity: 1000", "duplicates: first-wins"} {
		if !strings.Contains(out, want) {
			t.Errorf("config output missing %q:\n%s", want, out)
		}
	}
}

func TestRequiresConstraint(t *testing.T) {
	dir := newProject(t)
	if err := os.WriteFile(filepath.Join(dir, "compgen.yaml"), []byte("requires: \">= 2.0.0\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	saved := buildVersion
	t.Cleanup(func() { buildVersion = saved })

	buildVersion = "1.4.0"
	if _, err := execute(t, "--dir", dir); err == nil || !strings.Contains(err.Error(), "does not satisfy") {
		t.Errorf("error = %v, want constraint failure", err)
	}

	buildVersion = "2.1.0"
	if _, err := execute(t, "--dir", dir); err != nil {
		t.Errorf("generate with satisfying version: %v", err)
	}
}

func TestVersion(t *testing.T) {
	saved := [3]string{buildVersion, buildCommit, buildDate}
	t.Cleanup(func() { buildVersion, buildCommit, buildDate = saved[0], saved[1], saved[2] })
	buildVersion, buildCommit, buildDate = "1.2.3", "abc123", "2026-01-02"

	out, err := execute(t, "version", "--short")
	if err != nil {
		t.Fatal(err)
	}
	if out != "1.2.3\n" {
		t.Errorf("--short output = %q", out)
	}

	out, err = execute(t, "version", "--json")
	if err != nil {
		t.Fatal(err)
	}
	var info map[string]string
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("decoding JSON: %v", err)
	}
	if diff := cmp.Diff(map[string]string{"version": "1.2.3", "commit": "abc123", "date": "2026-01-02"}, info); diff != "" {
		t.Errorf("version info mismatch (-want +got):\n%s", diff)
	}

	out, err = execute(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "compgen version 1.2.3") {
		t.Errorf("output = %q", out)
	}
}

func TestParseRequirements(t *testing.T) {
	got, err := parseRequirements([]string{"self:*Tag", " pos : *Position", "dt:f32", "clock:*const Clock"})
	if err != nil {
		t.Fatal(err)
	}
	want := []manifest.Requirement{
		{Field: "self", Type: "*Tag"},
		{Field: "pos", Type: "*Position"},
		{Field: "dt", Type: "f32"},
		{Field: "clock", Type: "*const Clock"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("requirements mismatch (-want +got):\n%s", diff)
	}
}
