// Package diff provides the answerkit diff command for comparing reports.
package diff

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/answerkit/internal/answers"
	"github.com/klytics/answerkit/internal/output"
	"github.com/klytics/answerkit/internal/report"
)

// NewCommand returns the diff command.
func NewCommand() *cobra.Command {
	var stats bool

	cmd := &cobra.Command{
		Use:   "diff <old-report> <new-report>",
		Short: "Compare two compiled reports",
		Long: `Shows, per student, the answers that differ between two compiled
reports (.xlsx, .csv or .json), plus students added or removed.

Examples:
  answerkit diff monday.xlsx tuesday.xlsx
  answerkit diff monday.xlsx tuesday.csv --stats`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonFlag, _ := cmd.Flags().GetBool("json")

			old, err := report.ReadTable(args[0])
			if err != nil {
				return fmt.Errorf("could not read %s: %w", args[0], err)
			}
			cur, err := report.ReadTable(args[1])
			if err != nil {
				return fmt.Errorf("could not read %s: %w", args[1], err)
			}

			result := answers.Diff(old, cur)

			if jsonFlag {
				return output.PrintJSON("diff", result)
			}
			if stats {
				fmt.Println(result.Stats())
				return nil
			}

			printColoredDiff(args[0], args[1], result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&stats, "stats", false, "Show only the change counts")

	return cmd
}

func printColoredDiff(oldPath, newPath string, result *answers.DiffResult) {
	dim := color.New(color.FgHiBlack)
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	cyan := color.New(color.FgCyan)

	red.Printf("--- %s\n", oldPath)
	green.Printf("+++ %s\n", newPath)

	current := ""
	for _, c := range result.Changes {
		if c.StudentID != current {
			current = c.StudentID
			fmt.Println()
			cyan.Printf("@@ %s @@\n", c.StudentID)
		}
		red.Printf("- %s: %s\n", c.Slot, display(c.Old.String()))
		green.Printf("+ %s: %s\n", c.Slot, display(c.New.String()))
	}

	if len(result.Added) > 0 {
		fmt.Println()
		for _, id := range result.Added {
			green.Printf("+ student %s\n", id)
		}
	}
	if len(result.Removed) > 0 {
		fmt.Println()
		for _, id := range result.Removed {
			red.Printf("- student %s\n", id)
		}
	}

	fmt.Println()
	dim.Println(result.Stats())
}

func display(s string) string {
	if s == "" {
		return output.AbsentMark
	}
	return s
}
