// Package layout provides the "answerkit layout" commands.
package layout

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/answerkit/internal/cli"
	"github.com/klytics/answerkit/internal/extract"
	"github.com/klytics/answerkit/internal/output"
)

// DefaultFile is the file written by "layout init" without a path.
const DefaultFile = "answerkit-layout.yaml"

// NewCommand returns the layout command group.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Show or create the answer cell layout",
		Long: `The layout lists, in column order, the sheet and cell of every answer.
Rows and columns are zero-based and counted below the header row.`,
	}

	cmd.AddCommand(newShowCommand())
	cmd.AddCommand(newInitCommand())

	return cmd
}

func newShowCommand() *cobra.Command {
	var layoutPath string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the layout in use",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := cli.Setup(cmd)
			if err != nil {
				return err
			}
			ex, err := env.Extractor(layoutPath)
			if err != nil {
				return err
			}

			if env.JSON {
				return output.PrintJSON("layout show", ex.Layout())
			}
			data, err := ex.Layout().Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVar(&layoutPath, "layout", "", "YAML layout file to show instead of the configured one")
	return cmd
}

func newInitCommand() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the built-in layout to a YAML file for editing",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := DefaultFile
			if len(args) == 1 {
				path = args[0]
			}
			if err := WriteDefault(path, force); err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			fmt.Fprintf(cmd.OutOrStdout(), "Use it with: answerkit compile <dir> --layout %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}

// WriteDefault writes DefaultLayout to path. An existing file is kept unless
// force is set.
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists — pass --force to overwrite", path)
		}
	}
	data, err := extract.DefaultLayout().Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return output.SystemError(fmt.Errorf("could not write layout: %w", err))
	}
	return nil
}
