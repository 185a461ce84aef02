package cli

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gbe-labs/compgen/internal/branding"
	"github.com/gbe-labs/compgen/internal/manifest"
	"github.com/gbe-labs/compgen/internal/scaffold"
	"github.com/spf13/cobra"
)

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

var (
	newCapacity int
	newRequires []string
)

func init() {
	newCmd.Flags().IntVar(&newCapacity, "capacity", 0, "Pool capacity annotation (default: none, uses default_capacity)")
	newCmd.Flags().StringArrayVar(&newRequires, "require", nil, "Update parameter as field:Type, repeatable (default self:*<Name>)")
	rootCmd.AddCommand(newCmd)
}

var newCmd = &cobra.Command{
	Use:   "new <Name>",
	Short: "Create a component declaration file",
	Long: `Create a component file in the components directory with a public struct,
an optional capacity annotation, and an update function stub.

Examples:
  ` + branding.CLIName() + ` new Health
  ` + branding.CLIName() + ` new Velocity --capacity 250 --require self:*Velocity --require pos:*Position`,
	Args: cobra.ExactArgs(1),
	RunE: runNew,
}

func runNew(cmd *cobra.Command, args []string) error {
	name := args[0]
	if !identPattern.MatchString(name) {
		return fmt.Errorf("invalid component name %q: must be an identifier", name)
	}
	if newCapacity < 0 {
		return fmt.Errorf("--capacity must be positive, got %d", newCapacity)
	}
	reqs, err := parseRequirements(newRequires)
	if err != nil {
		return err
	}

	s, err := loadSettings()
	if err != nil {
		return err
	}

	dir := s.Path(s.ComponentsDir)
	data := scaffold.ComponentData{
		Name:          name,
		Capacity:      newCapacity,
		SessionModule: scaffold.SessionModuleFrom(dir, s.Path(s.SessionOutput)),
		SessionType:   s.SessionType,
		Requirements:  reqs,
	}
	path, err := scaffold.NewRenderer(nil).NewComponent(data, dir, s.Extension)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", displayPath(s, path))
	fmt.Fprintf(cmd.OutOrStdout(), "Run '%s' to register it.\n", branding.CLIName())
	return nil
}

// parseRequirements converts field:Type flag values into requirements.
func parseRequirements(values []string) ([]manifest.Requirement, error) {
	var reqs []manifest.Requirement
	seen := make(map[string]bool)
	for _, v := range values {
		field, typ, ok := strings.Cut(v, ":")
		field = strings.TrimSpace(field)
		typ = strings.TrimSpace(typ)
		if !ok || !identPattern.MatchString(field) {
			return nil, fmt.Errorf("invalid --require %q: want field:Type", v)
		}
		req := manifest.Requirement{Field: field, Type: typ}
		if !identPattern.MatchString(req.ImportKey()) {
			return nil, fmt.Errorf("invalid --require %q: type must be an identifier, optionally prefixed with ?, * or *const", v)
		}
		if seen[field] {
			return nil, fmt.Errorf("duplicate --require field %q", field)
		}
		seen[field] = true
		reqs = append(reqs, req)
	}
	return reqs, nil
}
