// Package cmd contains all CLI commands for the answerkit binary.
package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/answerkit/cmd/compile"
	"github.com/klytics/answerkit/cmd/completion"
	cmdconfig "github.com/klytics/answerkit/cmd/config"
	"github.com/klytics/answerkit/cmd/diff"
	"github.com/klytics/answerkit/cmd/doctor"
	cmdhistory "github.com/klytics/answerkit/cmd/history"
	"github.com/klytics/answerkit/cmd/inspect"
	"github.com/klytics/answerkit/cmd/layout"
	"github.com/klytics/answerkit/cmd/review"
	"github.com/klytics/answerkit/cmd/version"
	cmdwatch "github.com/klytics/answerkit/cmd/watch"
	"github.com/klytics/answerkit/internal/output"
)

var (
	jsonOutput bool
	verbose    bool
	noColor    bool
	configPath string
)

// NewRootCommand creates and returns the root cobra command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "answerkit",
		Short: "Compile exam answers from student workbooks",
		Long: `answerkit reads a folder of student exam workbooks and compiles the
answers into one table, one row per student.

Unreadable workbooks never stop a run: they get an all-blank row and a
diagnostic line naming the file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor {
				color.NoColor = true
			}
			if jsonOutput {
				os.Setenv("ANSWERKIT_JSON", "true")
			}
		},
	}

	// Global persistent flags
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as machine-readable JSON")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable ANSI color output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.answerkit/config.yaml)")

	// Register subcommands
	rootCmd.AddCommand(compile.NewCommand())
	rootCmd.AddCommand(inspect.NewCommand())
	rootCmd.AddCommand(layout.NewCommand())
	rootCmd.AddCommand(cmdwatch.NewCommand())
	rootCmd.AddCommand(review.NewCommand())
	rootCmd.AddCommand(diff.NewCommand())
	rootCmd.AddCommand(doctor.NewCommand())
	rootCmd.AddCommand(cmdconfig.NewCommand())
	rootCmd.AddCommand(cmdhistory.NewCommand())
	rootCmd.AddCommand(completion.NewCommand(rootCmd))
	rootCmd.AddCommand(version.NewCommand())

	return rootCmd
}

// Execute runs the root command and handles any returned errors.
func Execute() {
	rootCmd := NewRootCommand()
	cmd, err := rootCmd.ExecuteC()
	if err == nil {
		return
	}

	code := output.ExitCode(err)
	if jsonOutput {
		output.PrintJSONError(cmd.Name(), err, code)
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
	os.Exit(code)
}
