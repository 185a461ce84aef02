package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/gbe-labs/compgen/internal/compiler"
	"github.com/gbe-labs/compgen/internal/registry"
	"github.com/spf13/cobra"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the resolved component table",
	Long: `List every type the generator knows about with its pool capacity. Declared
components come from a component file; dependencies are types only named by
an update function and get the default capacity.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	s, err := loadSettings()
	if err != nil {
		return err
	}
	plan, err := compiler.Build(cmd.Context(), s)
	if err != nil {
		return err
	}

	entries := plan.Table.Entries()
	if listJSON {
		return printListJSON(cmd, entries)
	}
	if len(entries) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No components found in %s.\n", displayPath(s, s.Path(s.ComponentsDir)))
		return nil
	}
	return printListTable(cmd, entries)
}

func printListTable(cmd *cobra.Command, entries []registry.Entry) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "NAME\tCAPACITY\tKIND\tMODULE")
	for _, e := range entries {
		kind := "dependency"
		if e.Declared {
			kind = "component"
		}
		capacity := fmt.Sprint(e.Capacity)
		if !e.Explicit {
			capacity += " (default)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Name, capacity, kind, e.Module)
	}
	return w.Flush()
}

func printListJSON(cmd *cobra.Command, entries []registry.Entry) error {
	if entries == nil {
		entries = []registry.Entry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
