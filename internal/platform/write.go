package platform

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
)

// NormalizeNewlines strips carriage returns so CRLF and LF content compare
// equal.
func NormalizeNewlines(b []byte) []byte {
	return bytes.ReplaceAll(b, []byte("\r"), nil)
}

// Unchanged reports whether the file at path already holds content, ignoring
// line-ending differences. A missing file is reported as changed.
func Unchanged(path string, content []byte) (bool, error) {
	existing, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", path, err)
	}
	return bytes.Equal(NormalizeNewlines(existing), NormalizeNewlines(content)), nil
}

// WriteIfChanged writes content to path only when it differs from what is
// already there. It reports whether the file was written; an unchanged file
// keeps its modification time.
func WriteIfChanged(path string, content []byte) (bool, error) {
	same, err := Unchanged(path, content)
	if err != nil {
		return false, err
	}
	if same {
		return false, nil
	}

	perm := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	if err := WriteAtomic(path, content, perm); err != nil {
		return false, err
	}
	return true, nil
}

// WriteAtomic replaces path with content through a temporary file in the
// same directory, so readers never see a partially written file.
func WriteAtomic(path string, content []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", path, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing %s: %w", tmpPath, err)
	}
	if err := chmod(tmpPath, perm); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("setting permissions on %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

// chmod is a no-op on Windows, which has no Unix permission bits.
func chmod(path string, mode os.FileMode) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	return os.Chmod(path, mode)
}
