package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/gbe-labs/compgen/internal/branding"
	"github.com/gbe-labs/compgen/internal/compiler"
	"github.com/gbe-labs/compgen/internal/config"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	rootConfig  string
	rootDir     string
	rootVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` scans component declaration files and regenerates the
registration and session modules of a ` + branding.Framework() + ` simulation.

Run without arguments to regenerate. Files are only rewritten when their
content changes, and nothing is written if any component file is invalid.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if rootVerbose || os.Getenv(branding.EnvVar("verbose")) != "" {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
	},
	RunE: runGenerate,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootConfig, "config", "", "Config file (default <dir>/"+branding.ConfigFile()+")")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "dir", "C", "", "Project directory (default current directory)")
	rootCmd.PersistentFlags().BoolVarP(&rootVerbose, "verbose", "v", false, "Log scan diagnostics to stderr")
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

// projectDir returns the directory the settings are resolved in.
func projectDir() (string, error) {
	if rootDir != "" {
		return filepath.Abs(rootDir)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting current directory: %w", err)
	}
	return cwd, nil
}

// loadSettings resolves the project settings and checks the version
// constraint they carry.
func loadSettings() (*config.Settings, error) {
	dir, err := projectDir()
	if err != nil {
		return nil, err
	}
	s, err := config.Load(dir, rootConfig)
	if err != nil {
		return nil, err
	}
	if err := s.CheckVersion(buildVersion); err != nil {
		return nil, err
	}
	if s.Source != "" {
		slog.Debug("loaded config", "path", s.Source)
	}
	return s, nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	s, err := loadSettings()
	if err != nil {
		return err
	}

	plan, written, err := compiler.Run(cmd.Context(), s)
	for _, path := range written {
		fmt.Fprintf(cmd.OutOrStdout(), "writing %s\n", displayPath(s, path))
	}
	if err != nil {
		return err
	}

	slog.Info("generation complete",
		"files", len(plan.Files),
		"components", len(plan.Table.Components()),
		"types", plan.Table.Len(),
		"written", len(written))
	return nil
}

// displayPath shortens path relative to the project root when possible.
func displayPath(s *config.Settings, path string) string {
	if rel, err := filepath.Rel(s.Root, path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}
