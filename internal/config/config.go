package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/gbe-labs/compgen/internal/branding"
	"github.com/gbe-labs/compgen/internal/registry"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"
)

const fileType = "yaml"

// Settings are the resolved project settings. Paths are relative to Root
// unless absolute.
type Settings struct {
	ComponentsDir      string   `mapstructure:"components_dir" yaml:"components_dir"`
	Extension          string   `mapstructure:"extension" yaml:"extension"`
	RegistrationOutput string   `mapstructure:"registration_output" yaml:"registration_output"`
	SessionOutput      string   `mapstructure:"session_output" yaml:"session_output"`
	DefaultCapacity    int      `mapstructure:"default_capacity" yaml:"default_capacity"`
	Duplicates         string   `mapstructure:"duplicates" yaml:"duplicates"`
	Framework          string   `mapstructure:"framework" yaml:"framework"`
	SessionType        string   `mapstructure:"session_type" yaml:"session_type"`
	Reexports          []string `mapstructure:"reexports" yaml:"reexports"`
	TemplateDir        string   `mapstructure:"template_dir" yaml:"template_dir,omitempty"`
	Requires           string   `mapstructure:"requires" yaml:"requires,omitempty"`

	// Root is the directory the config file lives in.
	Root string `mapstructure:"-" yaml:"-"`
	// Source is the config file that was read, empty when defaults were used.
	Source string `mapstructure:"-" yaml:"-"`
}

// Defaults returns the settings used when no config file exists.
func Defaults() Settings {
	return Settings{
		ComponentsDir:      "src/components",
		Extension:          ".zig",
		RegistrationOutput: "src/components_auto.zig",
		SessionOutput:      "src/session.zig",
		DefaultCapacity:    registry.DefaultCapacity,
		Duplicates:         string(registry.PolicyFirstWins),
		Framework:          branding.Framework(),
		SessionType:        "GameSession",
		Reexports:          []string{"components.zig", "globals.zig"},
	}
}

// FilePath returns the default config file path inside dir.
func FilePath(dir string) string {
	return filepath.Join(dir, branding.ConfigFile())
}

// Load resolves settings for the project in dir. When file is empty the
// default config file in dir is used if present; an explicitly named file
// must exist. Environment variables with the COMPGEN_ prefix override file
// values.
func Load(dir, file string) (*Settings, error) {
	explicit := file != ""
	if !explicit {
		file = FilePath(dir)
	}

	loadDotEnv(filepath.Dir(file))

	v := viper.New()
	setDefaults(v)
	v.SetConfigType(fileType)
	v.SetEnvPrefix(branding.EnvPrefix())
	v.AutomaticEnv()

	s := &Settings{Root: filepath.Dir(file)}

	data, err := os.ReadFile(file)
	switch {
	case err == nil:
		result, err := Validate(data)
		if err != nil {
			return nil, fmt.Errorf("validating config %s: %w", file, err)
		}
		if !result.Valid {
			return nil, &ValidationError{Path: file, Issues: result.Issues}
		}
		if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", file, err)
		}
		s.Source = file
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		s.Root = dir
	default:
		return nil, fmt.Errorf("reading config %s: %w", file, err)
	}

	if err := v.Unmarshal(s); err != nil {
		return nil, fmt.Errorf("decoding settings: %w", err)
	}
	if err := s.Check(); err != nil {
		return nil, err
	}
	return s, nil
}

// setDefaults registers every key so environment overrides reach Unmarshal.
func setDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("components_dir", d.ComponentsDir)
	v.SetDefault("extension", d.Extension)
	v.SetDefault("registration_output", d.RegistrationOutput)
	v.SetDefault("session_output", d.SessionOutput)
	v.SetDefault("default_capacity", d.DefaultCapacity)
	v.SetDefault("duplicates", d.Duplicates)
	v.SetDefault("framework", d.Framework)
	v.SetDefault("session_type", d.SessionType)
	v.SetDefault("reexports", d.Reexports)
	v.SetDefault("template_dir", "")
	v.SetDefault("requires", "")
}

// loadDotEnv seeds the process environment from a .env file in dir, if any.
// Variables already set are not overridden.
func loadDotEnv(dir string) {
	path := filepath.Join(dir, ".env")
	if _, err := os.Stat(path); err != nil {
		return
	}
	_ = godotenv.Load(path)
}

// Check validates values that environment overrides may have set without
// passing through the schema.
func (s *Settings) Check() error {
	if s.DefaultCapacity <= 0 {
		return fmt.Errorf("default_capacity must be positive, got %d", s.DefaultCapacity)
	}
	switch registry.Policy(s.Duplicates) {
	case registry.PolicyStrict, registry.PolicyFirstWins:
	default:
		return fmt.Errorf("duplicates must be %q or %q, got %q",
			registry.PolicyStrict, registry.PolicyFirstWins, s.Duplicates)
	}
	if !strings.HasPrefix(s.Extension, ".") {
		return fmt.Errorf("extension must start with '.', got %q", s.Extension)
	}
	for key, val := range map[string]string{
		"components_dir":      s.ComponentsDir,
		"registration_output": s.RegistrationOutput,
		"session_output":      s.SessionOutput,
		"framework":           s.Framework,
		"session_type":        s.SessionType,
	} {
		if strings.TrimSpace(val) == "" {
			return fmt.Errorf("%s must not be empty", key)
		}
	}
	return nil
}

// Path resolves a settings path against Root.
func (s *Settings) Path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(s.Root, p)
}

// RegistryOptions returns the fold options derived from the settings.
func (s *Settings) RegistryOptions() registry.Options {
	return registry.Options{
		DefaultCapacity: s.DefaultCapacity,
		Policy:          registry.Policy(s.Duplicates),
		ModuleRoot:      filepath.Dir(s.Path(s.RegistrationOutput)),
		ComponentsDir:   s.Path(s.ComponentsDir),
		Extension:       s.Extension,
	}
}

// CheckVersion verifies that version satisfies the requires constraint.
// Development builds and an empty constraint always pass.
func (s *Settings) CheckVersion(version string) error {
	if s.Requires == "" || version == "" || version == "dev" {
		return nil
	}
	constraint, err := semver.NewConstraint(s.Requires)
	if err != nil {
		return fmt.Errorf("parsing requires constraint %q: %w", s.Requires, err)
	}
	v, err := semver.NewVersion(strings.TrimPrefix(version, "v"))
	if err != nil {
		return fmt.Errorf("parsing version %q: %w", version, err)
	}
	if !constraint.Check(v) {
		return fmt.Errorf("%s %s does not satisfy requires %q", branding.CLIName(), version, s.Requires)
	}
	return nil
}

// YAML renders the settings as a config document.
func (s *Settings) YAML() ([]byte, error) {
	out, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshaling settings: %w", err)
	}
	return out, nil
}

// Init writes a config file with default settings into dir. An existing
// file is left alone.
func Init(dir string) (string, error) {
	path := FilePath(dir)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("config file %s already exists", path)
	}

	d := Defaults()
	data, err := d.YAML()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating %s: %w", dir, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing config file: %w", err)
	}
	return path, nil
}
