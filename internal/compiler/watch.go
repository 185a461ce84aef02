package compiler

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/gbe-labs/compgen/internal/config"
)

// DefaultDebounce is how long Watch waits for a burst of changes to settle.
const DefaultDebounce = 150 * time.Millisecond

// WatchOptions configure Watch.
type WatchOptions struct {
	Debounce time.Duration
	// OnRun is called after every generation attempt. plan is nil when the
	// build failed.
	OnRun func(plan *Plan, written []string, err error)
}

// Watch generates once and then again whenever a component file or override
// template changes, until ctx is canceled. A failed run is reported through
// OnRun and leaves the outputs untouched; watching continues.
func Watch(ctx context.Context, s *config.Settings, opts WatchOptions) error {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}

	cache, err := NewScanCache(DefaultCacheSize)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer w.Close()

	compDir := filepath.Clean(s.Path(s.ComponentsDir))
	dirs := []string{compDir}
	if s.TemplateDir != "" {
		dirs = append(dirs, filepath.Clean(s.Path(s.TemplateDir)))
	}
	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}

	run := func() {
		plan, err := build(ctx, s, cache.Scan)
		var written []string
		if err == nil {
			written, err = plan.Commit()
		}
		if err != nil {
			plan = nil
		}
		if opts.OnRun != nil {
			opts.OnRun(plan, written, err)
		}
	}
	run()

	relevant := func(ev fsnotify.Event) bool {
		base := filepath.Base(ev.Name)
		if strings.HasPrefix(base, ".") {
			return false
		}
		if filepath.Dir(ev.Name) == compDir {
			return strings.HasSuffix(base, s.Extension)
		}
		return true
	}

	debounce := time.NewTimer(opts.Debounce)
	debounce.Stop()
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op == fsnotify.Chmod || !relevant(ev) {
				continue
			}
			slog.Debug("change detected", "path", ev.Name, "op", ev.Op.String())
			debounce.Reset(opts.Debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", "error", err)
		case <-debounce.C:
			run()
		}
	}
}
