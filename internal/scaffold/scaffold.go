package scaffold

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/gbe-labs/compgen/internal/branding"
	"github.com/gbe-labs/compgen/internal/manifest"
	"github.com/gbe-labs/compgen/internal/registry"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const (
	registrationTemplate = "registration.zig.tmpl"
	sessionTemplate      = "session.zig.tmpl"
	componentTemplate    = "component.zig.tmpl"
)

// Artifact is a rendered file held in memory until it is committed.
type Artifact struct {
	Path    string
	Content []byte
}

// Layout describes where the artifacts go and the names they use.
type Layout struct {
	RegistrationPath string   // e.g. "src/components_auto.zig"
	SessionPath      string   // e.g. "src/session.zig"
	Framework        string   // framework import, e.g. "gbe"
	SessionType      string   // aggregate session type, e.g. "GameSession"
	Reexports        []string // modules re-exported by the session file
}

// RegistrationData holds the template variables of the registration module.
type RegistrationData struct {
	Tool          string
	SessionModule string
	SessionType   string
	Imports       []Import
	Systems       []System
}

// Import is one type alias of the registration module.
type Import struct {
	Name   string
	Module string
}

// System is one component wrapper of the registration module.
type System struct {
	Name   string
	Module string
	Fields []manifest.Requirement
}

// SessionData holds the template variables of the session module.
type SessionData struct {
	Tool        string
	Framework   string
	SessionType string
	Reexports   []string
	Pools       []Pool
}

// Pool is one fixed-capacity component list of the session type.
type Pool struct {
	Name     string
	Capacity int
}

// ComponentData holds the template variables of a new component file.
type ComponentData struct {
	Name          string
	Capacity      int // 0 leaves the capacity comment out
	SessionModule string
	SessionType   string
	Requirements  []manifest.Requirement
}

// Params renders the update parameters after the session parameter.
func (d ComponentData) Params() string {
	parts := make([]string, len(d.Requirements))
	for i, r := range d.Requirements {
		parts[i] = r.Field + ": " + r.Type
	}
	return strings.Join(parts, ", ")
}

// Renderer executes the generator templates. Templates are read from an
// optional override directory first and from the embedded set otherwise.
type Renderer struct {
	override fs.FS
}

// NewRenderer returns a renderer. A nil override uses only the embedded
// templates.
func NewRenderer(override fs.FS) *Renderer {
	return &Renderer{override: override}
}

// Artifacts renders the registration and session modules for a table.
func (r *Renderer) Artifacts(table *registry.Table, layout Layout) ([]Artifact, error) {
	reg, err := r.render(registrationTemplate, registrationData(table, layout))
	if err != nil {
		return nil, err
	}
	sess, err := r.render(sessionTemplate, sessionData(table, layout))
	if err != nil {
		return nil, err
	}
	return []Artifact{
		{Path: layout.RegistrationPath, Content: reg},
		{Path: layout.SessionPath, Content: sess},
	}, nil
}

func registrationData(table *registry.Table, layout Layout) RegistrationData {
	data := RegistrationData{
		Tool:          branding.CLIName(),
		SessionModule: relativeModule(filepath.Dir(layout.RegistrationPath), layout.SessionPath),
		SessionType:   layout.SessionType,
	}
	for _, e := range table.Entries() {
		data.Imports = append(data.Imports, Import{Name: e.Name, Module: e.Module})
	}
	for _, d := range table.Components() {
		e, _ := table.Lookup(d.Name)
		data.Systems = append(data.Systems, System{
			Name:   d.Name,
			Module: e.Module,
			Fields: d.Requirements,
		})
	}
	return data
}

func sessionData(table *registry.Table, layout Layout) SessionData {
	data := SessionData{
		Tool:        branding.CLIName(),
		Framework:   layout.Framework,
		SessionType: layout.SessionType,
		Reexports:   layout.Reexports,
	}
	for _, e := range table.Entries() {
		data.Pools = append(data.Pools, Pool{Name: e.Name, Capacity: e.Capacity})
	}
	return data
}

// NewComponent writes a component declaration file named after the component
// into dir and returns its path. An existing file is never overwritten.
func (r *Renderer) NewComponent(data ComponentData, dir, ext string) (string, error) {
	if len(data.Requirements) == 0 {
		data.Requirements = []manifest.Requirement{{Field: "self", Type: manifest.IndirectionMarker + data.Name}}
	}

	content, err := r.render(componentTemplate, data)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating components directory: %w", err)
	}

	path := filepath.Join(dir, registry.ConventionFile(data.Name, ext))
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return "", fmt.Errorf("component file %s already exists; remove it first", path)
		}
		return "", fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.Write(content); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// SessionModuleFrom returns the import path of the session module as seen
// from a file in dir.
func SessionModuleFrom(dir, sessionPath string) string {
	return relativeModule(dir, sessionPath)
}

func (r *Renderer) render(name string, data any) ([]byte, error) {
	src, err := r.readTemplate(name)
	if err != nil {
		return nil, err
	}

	tmpl, err := template.New(name).Option("missingkey=error").Parse(string(src))
	if err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) readTemplate(name string) ([]byte, error) {
	if r.override != nil {
		src, err := fs.ReadFile(r.override, name)
		if err == nil {
			return src, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading template %s: %w", name, err)
		}
	}
	src, err := fs.ReadFile(templateFS, "templates/"+name)
	if err != nil {
		return nil, fmt.Errorf("template %q not found: %w", name, err)
	}
	return src, nil
}

// relativeModule returns target relative to dir with forward slashes,
// falling back to target itself when no relative path exists.
func relativeModule(dir, target string) string {
	rel, err := filepath.Rel(dir, target)
	if err != nil {
		return filepath.ToSlash(target)
	}
	return filepath.ToSlash(rel)
}
