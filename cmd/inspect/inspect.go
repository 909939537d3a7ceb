// Package inspect provides the "answerkit inspect" command.
package inspect

import (
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/answerkit/internal/cli"
	"github.com/klytics/answerkit/internal/extract"
	"github.com/klytics/answerkit/internal/output"
	"github.com/klytics/answerkit/internal/roster"
	"github.com/klytics/answerkit/internal/sheet"
)

// SlotResult is one answer with the cell it was read from.
type SlotResult struct {
	Label string      `json:"label"`
	Cell  string      `json:"cell"`
	Kind  string      `json:"kind"`
	Value sheet.Value `json:"value"`
}

// Result is the inspection of a single workbook.
type Result struct {
	File      string       `json:"file"`
	StudentID string       `json:"studentId,omitempty"`
	Slots     []SlotResult `json:"slots"`
}

// NewCommand returns the inspect command.
func NewCommand() *cobra.Command {
	var layoutPath, pattern string

	cmd := &cobra.Command{
		Use:   "inspect <file.xlsx>",
		Short: "Show the answers read from a single workbook",
		Long: `Runs the extractor on one workbook and prints every answer next to the
cell it came from. Unlike compile, a workbook that cannot be read is an
error here.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := cli.Setup(cmd)
			if err != nil {
				return err
			}
			ex, err := env.Extractor(layoutPath)
			if err != nil {
				return err
			}
			if pattern == "" {
				pattern = env.Config.Pattern
			}

			res, err := Inspect(ex, args[0], pattern)
			if err != nil {
				return err
			}

			if env.JSON {
				return output.PrintJSON("inspect", res)
			}

			out := cmd.OutOrStdout()
			header := color.New(color.Bold, color.FgCyan)
			header.Fprintf(out, "%s\n", filepath.Base(res.File))
			if res.StudentID != "" {
				fmt.Fprintf(out, "  student: %s\n\n", res.StudentID)
			}

			labels := make([]string, len(res.Slots))
			values := make([]string, len(res.Slots))
			for i, s := range res.Slots {
				labels[i] = fmt.Sprintf("%s (%s)", s.Label, s.Cell)
				values[i] = s.Value.String()
			}
			output.PrintFields(out, labels, values)
			return nil
		},
	}

	cmd.Flags().StringVar(&layoutPath, "layout", "", "YAML layout file naming the answer cells")
	cmd.Flags().StringVar(&pattern, "pattern", "", "Regular expression whose first group is the student id")

	return cmd
}

// Inspect extracts path strictly. The student id is filled in when the file
// name matches pattern.
func Inspect(ex *extract.Extractor, path, pattern string) (*Result, error) {
	set, err := ex.ExtractFile(path)
	if err != nil {
		return nil, err
	}

	res := &Result{File: path}
	if m, err := roster.NewMatcher(pattern); err == nil {
		res.StudentID, _ = m.StudentID(filepath.Base(path))
	}

	for i, slot := range ex.Layout().Slots {
		kind := string(slot.Kind)
		if kind == "" {
			kind = string(extract.KindCell)
		}
		cell := slot.CellRef(ex.HeaderRows())
		if slot.Kind == extract.KindRun {
			cell += "..."
		}
		res.Slots = append(res.Slots, SlotResult{
			Label: slot.Label,
			Cell:  cell,
			Kind:  kind,
			Value: set[i],
		})
	}
	return res, nil
}
