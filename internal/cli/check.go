package cli

import (
	"errors"
	"fmt"

	"github.com/gbe-labs/compgen/internal/branding"
	"github.com/gbe-labs/compgen/internal/compiler"
	"github.com/spf13/cobra"
)

// errStale is returned by check when generated files are out of date.
var errStale = errors.New("generated files are out of date")

func init() {
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify that generated files are up to date",
	Long: `Build the generated modules in memory and compare them with the files on
disk. Exits non-zero when a file is missing or would change. Nothing is written.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings()
		if err != nil {
			return err
		}
		plan, err := compiler.Build(cmd.Context(), s)
		if err != nil {
			return err
		}
		stale, err := plan.Stale()
		if err != nil {
			return err
		}
		if len(stale) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Generated files are up to date.")
			return nil
		}
		for _, path := range stale {
			fmt.Fprintf(cmd.OutOrStdout(), "stale %s\n", displayPath(s, path))
		}
		return fmt.Errorf("%w; run '%s' to regenerate", errStale, branding.CLIName())
	},
}
