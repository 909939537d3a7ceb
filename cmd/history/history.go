// Package history provides the "answerkit history" commands.
package history

import (
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/answerkit/internal/cli"
	"github.com/klytics/answerkit/internal/history"
	"github.com/klytics/answerkit/internal/output"
)

// NewCommand returns the history command group.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past compile runs",
	}

	cmd.AddCommand(newListCommand())
	cmd.AddCommand(newClearCommand())

	return cmd
}

func newListCommand() *cobra.Command {
	var last int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the most recent compile runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := cli.Setup(cmd)
			if err != nil {
				return err
			}
			entries, err := history.ReadEntries(env.Config.History.Path)
			if err != nil {
				return output.SystemError(fmt.Errorf("could not read history: %w", err))
			}
			entries = history.Last(entries, last)

			if env.JSON {
				return output.PrintJSON("history list", entries)
			}
			if len(entries) == 0 {
				color.New(color.FgHiBlack).Fprintln(cmd.OutOrStdout(), "No compile runs recorded")
				return nil
			}
			output.PrintTable(cmd.OutOrStdout(), []string{"When", "Folder", "Report", "Students", "Failed", "Skipped", "Exit"}, Rows(entries))
			return nil
		},
	}
	cmd.Flags().IntVarP(&last, "last", "n", 20, "Number of runs to show (0 for all)")
	return cmd
}

func newClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete the history journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := cli.Setup(cmd)
			if err != nil {
				return err
			}
			if err := history.Clear(env.Config.History.Path); err != nil {
				return output.SystemError(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "History cleared")
			return nil
		},
	}
}

// Rows renders entries as table rows, newest last.
func Rows(entries []history.Entry) [][]string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.Timestamp.Local().Format(time.DateTime),
			e.InputDir,
			filepath.Base(e.OutputFile),
			strconv.Itoa(e.Students),
			strconv.Itoa(e.Failed),
			strconv.Itoa(e.Skipped),
			strconv.Itoa(e.ExitCode),
		})
	}
	return rows
}
