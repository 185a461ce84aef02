package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDiscoverFiltersAndSorts(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"velocity.zig", "position.zig", "notes.md", ".hidden.zig", "health.zig"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("// test\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.MkdirAll(filepath.Join(dir, "nested.zig"), 0755); err != nil {
		t.Fatal(err)
	}

	got, err := Discover(dir, ".zig")
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}

	want := []string{
		filepath.Join(dir, "health.zig"),
		filepath.Join(dir, "position.zig"),
		filepath.Join(dir, "velocity.zig"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Discover mismatch (-want +got):\n%s", diff)
	}
}

func TestDiscoverMissingDir(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "absent"), ".zig")
	if err == nil {
		t.Fatal("expected error for missing directory, got nil")
	}
}

func TestIsComponentFile(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"position.zig", true},
		{".zig", false},
		{".swap.zig", false},
		{"position.zig.bak", false},
		{"README.md", false},
	}
	for _, tt := range tests {
		if got := isComponentFile(tt.name, ".zig"); got != tt.want {
			t.Errorf("isComponentFile(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
