// Package cli holds the state every answerkit command shares: the loaded
// configuration, the logger and the global output flags.
package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/klytics/answerkit/internal/config"
	"github.com/klytics/answerkit/internal/extract"
	"github.com/klytics/answerkit/internal/logging"
	"github.com/klytics/answerkit/internal/roster"
)

// Env is the per-invocation command environment.
type Env struct {
	Config *config.Config
	Log    *logrus.Logger
	JSON   bool
}

// Setup loads the configuration named by --config and builds the logger.
// --verbose forces debug logging.
func Setup(cmd *cobra.Command) (*Env, error) {
	path, _ := cmd.Flags().GetString("config")
	jsonFlag, _ := cmd.Flags().GetBool("json")
	verbose, _ := cmd.Flags().GetBool("verbose")

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	log, err := logging.New(level, cfg.Log.Format, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	if !cfg.Output.Color {
		color.NoColor = true
	}

	return &Env{Config: cfg, Log: log, JSON: jsonFlag}, nil
}

// Extractor builds an extractor from the configuration. layoutPath, when
// set, overrides the configured layout file.
func (e *Env) Extractor(layoutPath string) (*extract.Extractor, error) {
	if layoutPath == "" {
		layoutPath = e.Config.Layout
	}

	var layout *extract.Layout
	if layoutPath != "" {
		l, err := extract.LoadLayout(layoutPath)
		if err != nil {
			return nil, err
		}
		layout = l
	}

	if e.Config.HeaderRows < 0 {
		return nil, fmt.Errorf("header_rows must be >= 0, got %d", e.Config.HeaderRows)
	}

	return extract.New(layout, extract.Options{
		HeaderRows: e.Config.HeaderRows,
		NAValues:   e.Config.NASet(),
		Logger:     e.Log,
	}), nil
}

// ScanOptions returns roster options from the configuration, with pattern
// and duplicates overridden when non-empty.
func (e *Env) ScanOptions(pattern, duplicates string, recursive bool) (roster.Options, error) {
	if pattern == "" {
		pattern = e.Config.Pattern
	}
	if duplicates == "" {
		duplicates = e.Config.Duplicates
	}
	policy, err := roster.ParsePolicy(duplicates)
	if err != nil {
		return roster.Options{}, err
	}
	return roster.Options{
		Pattern:    pattern,
		Recursive:  recursive,
		Duplicates: policy,
		Logger:     e.Log,
	}, nil
}
