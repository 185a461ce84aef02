package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective settings",
	Long: `Print the settings after applying defaults, the config file, .env, and
environment overrides, as a YAML document.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings()
		if err != nil {
			return err
		}
		out, err := s.YAML()
		if err != nil {
			return err
		}
		if s.Source != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", s.Source)
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "# defaults (no config file)")
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}
