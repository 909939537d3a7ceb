// Package config provides CLI commands for configuration management.
package config

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/answerkit/internal/cli"
	"github.com/klytics/answerkit/internal/config"
	"github.com/klytics/answerkit/internal/output"
)

// NewCommand returns the config command group.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage answerkit configuration",
		Long:  "View and modify answerkit settings in ~/.answerkit/config.yaml.",
	}

	cmd.AddCommand(newShowCommand())
	cmd.AddCommand(newSetCommand())
	cmd.AddCommand(newGetCommand())
	cmd.AddCommand(newResetCommand())
	cmd.AddCommand(newPathCommand())
	cmd.AddCommand(newValidateCommand())

	return cmd
}

func newShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := cli.Setup(cmd)
			if err != nil {
				return err
			}
			if env.JSON {
				return output.PrintJSON("config show", config.Settings())
			}
			fmt.Fprint(cmd.OutOrStdout(), config.ShowConfig())
			return nil
		},
	}
}

func newSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := cli.Setup(cmd); err != nil {
				return err
			}
			if err := config.Set(args[0], args[1]); err != nil {
				return output.SystemError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", args[0], args[1])
			return nil
		},
	}
}

func newGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := cli.Setup(cmd); err != nil {
				return err
			}
			val := config.Get(args[0])
			if val == "" {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: (not set)\n", args[0])
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", args[0], val)
			}
			return nil
		},
	}
}

func newResetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Reset configuration to defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := cli.Setup(cmd); err != nil {
				return err
			}
			if err := config.ResetConfig(); err != nil {
				return output.SystemError(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Configuration reset to defaults")
			return nil
		},
	}
}

func newPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show config file path",
		Run: func(cmd *cobra.Command, args []string) {
			path, _ := cmd.Flags().GetString("config")
			if path == "" {
				path = config.ConfigPath()
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
		},
	}
}

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := cli.Setup(cmd)
			if err != nil {
				return err
			}

			issues := env.Config.Validate()

			if env.JSON {
				return output.PrintJSON("config validate", issues)
			}

			if len(issues) == 0 {
				color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), "Configuration is valid")
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Config validation: %d issues\n\n", len(issues))
			for _, issue := range issues {
				color.New(color.FgRed).Fprintf(cmd.OutOrStdout(), "  %s: %s\n", issue.Key, issue.Message)
			}
			return fmt.Errorf("configuration has %d issues", len(issues))
		},
	}
}
