package manifest

import (
	"sort"
	"strings"
)

// Declaration grammar keywords.
const (
	KeywordPublic = "pub"
	BoolType      = "bool"
	UpdateFunc    = "update"

	// IndirectionMarker prefixes a pointer type, e.g. "*Position".
	IndirectionMarker = "*"
	// OptionalMarker prefixes an optional type, e.g. "?*Timer".
	OptionalMarker = "?"
	// ConstQualifier follows the indirection marker of a read-only pointer.
	ConstQualifier = "const"
)

// Requirement is one parameter of an update function after the session
// parameter: the per-entity data the component's step needs.
type Requirement struct {
	Field string // parameter name, e.g. "self"
	Type  string // type as written, e.g. "*Position" or "*const Timer"
}

// ImportKey returns the component type name the requirement refers to, with
// the optional marker, indirection marker and const qualifier removed.
func (r Requirement) ImportKey() string {
	key := strings.TrimPrefix(r.Type, OptionalMarker)
	key = strings.TrimPrefix(key, IndirectionMarker)
	return strings.TrimPrefix(key, ConstQualifier+" ")
}

// Declaration is the structural metadata of one component file.
type Declaration struct {
	Name         string        // component type name
	Capacity     int           // annotated capacity, 0 when the file has none
	Requirements []Requirement // update parameters in declared order
	Path         string        // file the declaration was read from
}

// HasCapacity reports whether the file carried a capacity annotation.
func (d *Declaration) HasCapacity() bool {
	return d.Capacity > 0
}

// Dependencies returns the distinct import keys of the requirements, sorted.
func (d *Declaration) Dependencies() []string {
	seen := make(map[string]bool, len(d.Requirements))
	var deps []string
	for _, r := range d.Requirements {
		key := r.ImportKey()
		if !seen[key] {
			seen[key] = true
			deps = append(deps, key)
		}
	}
	sort.Strings(deps)
	return deps
}
