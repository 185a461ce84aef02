package cli

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gbe-labs/compgen/internal/compiler"
	"github.com/spf13/cobra"
)

var watchDebounce time.Duration

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", compiler.DefaultDebounce, "Quiet period before regenerating after a change")
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Regenerate whenever a component file changes",
	Long: `Generate once, then watch the components directory (and the template
override directory, if configured) and regenerate after every change.
Errors are reported and the previous outputs are kept until the next
successful run. Stop with Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings()
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Watching %s (Ctrl-C to stop)\n", displayPath(s, s.Path(s.ComponentsDir)))
		return compiler.Watch(cmd.Context(), s, compiler.WatchOptions{
			Debounce: watchDebounce,
			OnRun: func(plan *compiler.Plan, written []string, err error) {
				for _, path := range written {
					fmt.Fprintf(cmd.OutOrStdout(), "writing %s\n", displayPath(s, path))
				}
				if err != nil {
					if cmd.Context().Err() == nil {
						fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
					}
					return
				}
				slog.Info("generation complete", "components", len(plan.Table.Components()), "written", len(written))
			},
		})
	},
}
