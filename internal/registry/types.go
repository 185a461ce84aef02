package registry

import "github.com/gbe-labs/compgen/internal/manifest"

// DefaultCapacity is the pool size of a type without a capacity annotation.
const DefaultCapacity = 1000

// Policy decides what happens when two files declare the same component.
type Policy string

const (
	// PolicyFirstWins keeps the first declaration and drops later ones. It
	// is the default.
	PolicyFirstWins Policy = "first-wins"
	// PolicyStrict rejects a second declaration of a component name.
	PolicyStrict Policy = "strict"
)

// Options configure how contributions are folded into a Table.
type Options struct {
	DefaultCapacity int
	Policy          Policy
	ModuleRoot      string // directory generated imports are relative to
	ComponentsDir   string // directory holding component files
	Extension       string // component file extension, e.g. ".zig"
}

// Entry is one resolved type of the import table.
type Entry struct {
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
	Explicit bool   `json:"explicit"` // capacity came from an annotation
	Declared bool   `json:"declared"` // a component file declares this type
	Origin   string `json:"origin"`   // declaring file, or first file referencing it
	Module   string `json:"module"`   // import path used by generated code
}

// Contribution is the partial result of scanning one file.
type Contribution struct {
	Path         string
	Declaration  *manifest.Declaration // nil when the file declares no component
	Dependencies []string              // distinct required type names, sorted
}

// Contribute builds the contribution of a scanned file.
func Contribute(path string, decl *manifest.Declaration) Contribution {
	c := Contribution{Path: path, Declaration: decl}
	if decl != nil {
		c.Dependencies = decl.Dependencies()
	}
	return c
}
