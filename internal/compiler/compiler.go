package compiler

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/gbe-labs/compgen/internal/config"
	"github.com/gbe-labs/compgen/internal/manifest"
	"github.com/gbe-labs/compgen/internal/platform"
	"github.com/gbe-labs/compgen/internal/registry"
	"github.com/gbe-labs/compgen/internal/scaffold"
)

// Plan is the fully rendered output of a run, held in memory.
type Plan struct {
	Files     []string // scanned component files in scan order
	Table     *registry.Table
	Artifacts []scaffold.Artifact
}

// ScanFunc reads one component file.
type ScanFunc func(path string) (*manifest.Declaration, error)

// Build scans the components directory and renders both artifacts without
// writing anything.
func Build(ctx context.Context, s *config.Settings) (*Plan, error) {
	return build(ctx, s, manifest.ScanFile)
}

func build(ctx context.Context, s *config.Settings, scan ScanFunc) (*Plan, error) {
	files, err := registry.Discover(s.Path(s.ComponentsDir), s.Extension)
	if err != nil {
		return nil, err
	}

	table := registry.NewTable(s.RegistryOptions())
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		decl, err := scan(path)
		if err != nil {
			return nil, err
		}
		if decl == nil {
			slog.Debug("no component declared", "path", path)
		} else {
			slog.Debug("scanned component", "path", path, "component", decl.Name,
				"capacity", decl.Capacity, "requirements", len(decl.Requirements))
		}

		if err := table.Merge(registry.Contribute(path, decl)); err != nil {
			return nil, err
		}
	}

	renderer := scaffold.NewRenderer(templateOverride(s))
	artifacts, err := renderer.Artifacts(table, Layout(s))
	if err != nil {
		return nil, fmt.Errorf("rendering artifacts: %w", err)
	}

	return &Plan{Files: files, Table: table, Artifacts: artifacts}, nil
}

// Layout returns the artifact layout described by the settings.
func Layout(s *config.Settings) scaffold.Layout {
	return scaffold.Layout{
		RegistrationPath: s.Path(s.RegistrationOutput),
		SessionPath:      s.Path(s.SessionOutput),
		Framework:        s.Framework,
		SessionType:      s.SessionType,
		Reexports:        s.Reexports,
	}
}

func templateOverride(s *config.Settings) fs.FS {
	if s.TemplateDir == "" {
		return nil
	}
	return os.DirFS(s.Path(s.TemplateDir))
}

// Stale returns the paths of artifacts whose file on disk differs from the
// rendered content.
func (p *Plan) Stale() ([]string, error) {
	var stale []string
	for _, a := range p.Artifacts {
		same, err := platform.Unchanged(a.Path, a.Content)
		if err != nil {
			return nil, err
		}
		if !same {
			stale = append(stale, a.Path)
		}
	}
	return stale, nil
}

// Commit writes every artifact that differs from the file on disk and
// returns the paths that were written. Each file is replaced atomically, but
// the set is not: if a later write fails, earlier artifacts have already
// been replaced and are included in the returned paths.
func (p *Plan) Commit() ([]string, error) {
	var written []string
	for _, a := range p.Artifacts {
		ok, err := platform.WriteIfChanged(a.Path, a.Content)
		if err != nil {
			return written, fmt.Errorf("writing %s: %w", a.Path, err)
		}
		if ok {
			written = append(written, a.Path)
		}
	}
	return written, nil
}

// Run builds a plan and commits it.
func Run(ctx context.Context, s *config.Settings) (*Plan, []string, error) {
	plan, err := Build(ctx, s)
	if err != nil {
		return nil, nil, err
	}
	written, err := plan.Commit()
	if err != nil {
		return plan, written, err
	}
	return plan, written, nil
}
