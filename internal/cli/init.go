package cli

import (
	"fmt"

	"github.com/gbe-labs/compgen/internal/branding"
	"github.com/gbe-labs/compgen/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default " + branding.ConfigFile(),
	Long: `Write a ` + branding.ConfigFile() + ` with the default settings into the project directory.
An existing config file is never overwritten.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := projectDir()
		if err != nil {
			return err
		}
		path, err := config.Init(dir)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
		fmt.Fprintf(cmd.OutOrStdout(), "Add component files to the components directory, then run '%s'.\n", branding.CLIName())
		return nil
	},
}
