// Package config manages application configuration from files and environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/klytics/answerkit/internal/roster"
	"github.com/klytics/answerkit/internal/sheet"
)

// Config holds the application configuration.
type Config struct {
	Pattern    string   `mapstructure:"pattern"`
	Duplicates string   `mapstructure:"duplicates"`
	HeaderRows int      `mapstructure:"header_rows"`
	NAValues   []string `mapstructure:"na_values"`
	Layout     string   `mapstructure:"layout"`
	Output     struct {
		Format string `mapstructure:"format"`
		Color  bool   `mapstructure:"color"`
	} `mapstructure:"output"`
	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`
	History struct {
		Enabled bool   `mapstructure:"enabled"`
		Path    string `mapstructure:"path"`
	} `mapstructure:"history"`
}

// explicitPath is the --config override, if any.
var explicitPath string

// Load reads the configuration from ~/.answerkit/config.yaml (or path, when
// given) and ANSWERKIT_* environment variables. A missing default file is
// not an error; a missing or malformed explicit file is.
func Load(path string) (*Config, error) {
	explicitPath = path
	if path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(configDir())
	}

	setDefaults()

	viper.SetEnvPrefix("ANSWERKIT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("could not read config: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("pattern", roster.DefaultPattern)
	viper.SetDefault("duplicates", string(roster.DuplicatesAllow))
	viper.SetDefault("header_rows", 1)
	viper.SetDefault("layout", "")
	viper.SetDefault("output.format", "xlsx")
	viper.SetDefault("output.color", true)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")
	viper.SetDefault("history.enabled", true)
	viper.SetDefault("history.path", filepath.Join(configDir(), "history.jsonl"))
}

// NASet returns the configured not-a-number markers, or the defaults when
// none are configured.
func (c *Config) NASet() sheet.NAValues {
	if len(c.NAValues) == 0 {
		return sheet.DefaultNAValues()
	}
	return sheet.NewNAValues(c.NAValues)
}

// Issue is a problem found by Validate.
type Issue struct {
	Key      string `json:"key"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// Validate checks config values that would make a compile fail.
func (c *Config) Validate() []Issue {
	var issues []Issue

	if _, err := roster.NewMatcher(c.Pattern); err != nil {
		issues = append(issues, Issue{Key: "pattern", Severity: "error", Message: err.Error()})
	}
	if _, err := roster.ParsePolicy(c.Duplicates); err != nil {
		issues = append(issues, Issue{Key: "duplicates", Severity: "error", Message: err.Error()})
	}
	if c.HeaderRows < 0 {
		issues = append(issues, Issue{Key: "header_rows", Severity: "error", Message: "header_rows must be >= 0"})
	}
	if c.Layout != "" {
		if _, err := os.Stat(c.Layout); err != nil {
			issues = append(issues, Issue{Key: "layout", Severity: "error", Message: fmt.Sprintf("layout file %s is not readable", c.Layout)})
		}
	}
	return issues
}

// Set sets a config value and saves to disk.
func Set(key, value string) error {
	viper.Set(key, value)
	return SaveConfig()
}

// Get retrieves a config value.
func Get(key string) string {
	return viper.GetString(key)
}

// SaveConfig writes the current config to ConfigPath.
func SaveConfig() error {
	path := ConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("could not create config directory: %w", err)
	}
	if err := viper.WriteConfigAs(path); err != nil {
		return fmt.Errorf("could not write config: %w", err)
	}
	return nil
}

// ResetConfig deletes the config file and restores defaults.
func ResetConfig() error {
	path := ConfigPath()
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("could not delete config: %w", err)
	}
	viper.Reset()
	setDefaults()
	return nil
}

// ConfigPath returns the path of the config file in use.
func ConfigPath() string {
	if explicitPath != "" {
		return explicitPath
	}
	return filepath.Join(configDir(), "config.yaml")
}

// ShowConfig returns a formatted view of the effective configuration.
func ShowConfig() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Config: %s\n\n", ConfigPath()))

	sb.WriteString("Submissions\n")
	sb.WriteString(fmt.Sprintf("  pattern:      %s\n", viper.GetString("pattern")))
	sb.WriteString(fmt.Sprintf("  duplicates:   %s\n", viper.GetString("duplicates")))
	sb.WriteString(fmt.Sprintf("  header_rows:  %d\n", viper.GetInt("header_rows")))
	if na := viper.GetStringSlice("na_values"); len(na) > 0 {
		sb.WriteString(fmt.Sprintf("  na_values:    %s\n", strings.Join(na, ", ")))
	}
	layout := viper.GetString("layout")
	if layout == "" {
		layout = "(built-in)"
	}
	sb.WriteString(fmt.Sprintf("  layout:       %s\n\n", layout))

	sb.WriteString("Output\n")
	sb.WriteString(fmt.Sprintf("  format:       %s\n", viper.GetString("output.format")))
	sb.WriteString(fmt.Sprintf("  color:        %t\n\n", viper.GetBool("output.color")))

	sb.WriteString("Logging\n")
	sb.WriteString(fmt.Sprintf("  level:        %s\n", viper.GetString("log.level")))
	sb.WriteString(fmt.Sprintf("  format:       %s\n\n", viper.GetString("log.format")))

	sb.WriteString("History\n")
	sb.WriteString(fmt.Sprintf("  enabled:      %t\n", viper.GetBool("history.enabled")))
	sb.WriteString(fmt.Sprintf("  path:         %s\n", viper.GetString("history.path")))

	return sb.String()
}

// Dir returns the answerkit state directory.
func Dir() string { return configDir() }

func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".answerkit"
	}
	return filepath.Join(home, ".answerkit")
}

// Settings returns every effective setting as a nested map.
func Settings() map[string]any {
	return viper.AllSettings()
}
