package registry

import (
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gbe-labs/compgen/internal/manifest"
)

// Table maps every known type name to its resolved capacity. It is filled by
// merging one Contribution per scanned file; entries are only ever added or
// upgraded from a dependency placeholder to a declared component.
type Table struct {
	opts       Options
	entries    map[string]*Entry
	components map[string]*manifest.Declaration
}

// NewTable returns an empty table. Zero option values fall back to
// DefaultCapacity and PolicyFirstWins.
func NewTable(opts Options) *Table {
	if opts.DefaultCapacity <= 0 {
		opts.DefaultCapacity = DefaultCapacity
	}
	if opts.Policy == "" {
		opts.Policy = PolicyFirstWins
	}
	return &Table{
		opts:       opts,
		entries:    make(map[string]*Entry),
		components: make(map[string]*manifest.Declaration),
	}
}

// Fold merges contributions in the given order and returns the final table.
func Fold(contribs []Contribution, opts Options) (*Table, error) {
	t := NewTable(opts)
	for _, c := range contribs {
		if err := t.Merge(c); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Merge adds one file's contribution. The declared component is inserted
// with its annotated capacity or the default; a placeholder created earlier
// by a dependency reference is upgraded in place. Dependencies not yet known
// are inserted with the default capacity and existing entries are left alone.
// A duplicate dropped under PolicyFirstWins still contributes its
// dependencies.
func (t *Table) Merge(c Contribution) error {
	if d := c.Declaration; d != nil {
		if err := t.declare(d); err != nil {
			return err
		}
	}

	for _, dep := range c.Dependencies {
		if _, ok := t.entries[dep]; ok {
			continue
		}
		t.entries[dep] = &Entry{
			Name:     dep,
			Capacity: t.opts.DefaultCapacity,
			Origin:   c.Path,
		}
	}
	return nil
}

func (t *Table) declare(d *manifest.Declaration) error {
	if first, ok := t.components[d.Name]; ok {
		if t.opts.Policy == PolicyFirstWins {
			slog.Warn("duplicate component declaration ignored",
				"component", d.Name, "kept", first.Path, "dropped", d.Path)
			return nil
		}
		if first.HasCapacity() && d.HasCapacity() && first.Capacity != d.Capacity {
			return &ConflictError{
				Name:           d.Name,
				First:          first.Path,
				Second:         d.Path,
				FirstCapacity:  first.Capacity,
				SecondCapacity: d.Capacity,
			}
		}
		return &DuplicateError{Name: d.Name, First: first.Path, Second: d.Path}
	}

	capacity := t.opts.DefaultCapacity
	if d.HasCapacity() {
		capacity = d.Capacity
	}
	t.components[d.Name] = d
	t.entries[d.Name] = &Entry{
		Name:     d.Name,
		Capacity: capacity,
		Explicit: d.HasCapacity(),
		Declared: true,
		Origin:   d.Path,
	}
	return nil
}

// Len returns the number of known types.
func (t *Table) Len() int { return len(t.entries) }

// Lookup returns the resolved entry for a type name.
func (t *Table) Lookup(name string) (Entry, bool) {
	e, ok := t.entries[name]
	if !ok {
		return Entry{}, false
	}
	out := *e
	out.Module = t.modulePath(e)
	return out, true
}

// Names returns every known type name in lexicographic order.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.entries))
	for name := range t.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Entries returns every resolved entry in name order.
func (t *Table) Entries() []Entry {
	names := t.Names()
	out := make([]Entry, 0, len(names))
	for _, name := range names {
		e, _ := t.Lookup(name)
		out = append(out, e)
	}
	return out
}

// Components returns the declared components in name order.
func (t *Table) Components() []*manifest.Declaration {
	names := make([]string, 0, len(t.components))
	for name := range t.components {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]*manifest.Declaration, 0, len(names))
	for _, name := range names {
		out = append(out, t.components[name])
	}
	return out
}

// modulePath returns the slash-separated import path of a type, relative to
// ModuleRoot. Declared components import the file that declares them; other
// types use the lower-cased name inside the components directory.
func (t *Table) modulePath(e *Entry) string {
	target := e.Origin
	if !e.Declared {
		target = filepath.Join(t.opts.ComponentsDir, ConventionFile(e.Name, t.opts.Extension))
	}
	if t.opts.ModuleRoot != "" {
		if rel, err := filepath.Rel(t.opts.ModuleRoot, target); err == nil {
			target = rel
		}
	}
	return filepath.ToSlash(target)
}

// ConventionFile returns the file name a type is expected in when no
// declaration has been seen for it, e.g. "Position" → "position.zig".
func ConventionFile(name, ext string) string {
	return strings.ToLower(name) + ext
}
