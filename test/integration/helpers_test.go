//go:build integration

package integration_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gbe-labs/compgen/internal/config"
)

// setupProject creates an isolated project directory with a default config
// file and the given component files, and returns its loaded settings.
func setupProject(t *testing.T, components map[string]string) *config.Settings {
	t.Helper()

	dir := t.TempDir()
	if _, err := config.Init(dir); err != nil {
		t.Fatalf("config.Init: %v", err)
	}
	s, err := config.Load(dir, "")
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}

	for name, content := range components {
		writeFile(t, filepath.Join(s.Path(s.ComponentsDir), name), content)
	}
	return s
}

// writeFile creates parent directories and writes content.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("creating dir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s", path)
	}
}

func assertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("expected file to not exist: %s", path)
	}
}

func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	content := readFile(t, path)
	if !strings.Contains(content, substr) {
		t.Errorf("file %s does not contain %q\n--- content ---\n%s", path, substr, content)
	}
}
