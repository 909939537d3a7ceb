// Package compile provides the "answerkit compile" command.
package compile

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/answerkit/internal/cli"
	batch "github.com/klytics/answerkit/internal/compile"
	"github.com/klytics/answerkit/internal/history"
	"github.com/klytics/answerkit/internal/output"
	"github.com/klytics/answerkit/internal/progress"
	"github.com/klytics/answerkit/internal/report"
)

// DefaultOutput is the report written when -o is not given.
const DefaultOutput = "compiled_student_answers.xlsx"

// NewCommand returns the compile command.
func NewCommand() *cobra.Command {
	var (
		outputPath string
		format     string
		pattern    string
		duplicates string
		layoutPath string
		recursive  bool
		noHistory  bool
	)

	cmd := &cobra.Command{
		Use:   "compile <dir>",
		Short: "Compile the answers of every submission in a folder",
		Long: `Reads every student workbook in <dir> and writes one row per student.

The student id comes from the file name (see --pattern). A workbook that
cannot be read gets a blank row and one error line naming the file; the
run always continues.

Example:
  answerkit compile ./submissions
  answerkit compile ./submissions -o answers.csv
  answerkit compile ./submissions --layout exam2.yaml --duplicates warn`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := cli.Setup(cmd)
			if err != nil {
				return err
			}

			outPath, outFormat, err := ResolveOutput(outputPath, cmd.Flags().Changed("output"), format, env.Config.Output.Format)
			if err != nil {
				return err
			}
			scan, err := env.ScanOptions(pattern, duplicates, recursive)
			if err != nil {
				return err
			}
			ex, err := env.Extractor(layoutPath)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			journal := history.New(env.Config.History.Path, env.Config.History.Enabled && !noHistory)
			start := time.Now()

			res, err := batch.Folder(ctx, batch.FolderRequest{
				Dir:       args[0],
				Output:    outPath,
				Format:    outFormat,
				Scan:      scan,
				Extractor: ex,
				NewBar: func(total int) *progress.Bar {
					bar := progress.New("Compiling", total)
					if env.JSON {
						bar.Enabled = false
					}
					return bar
				},
			})
			if errors.Is(err, batch.ErrReport) {
				err = output.SystemError(err)
			}

			if res != nil {
				journal.Record(history.Entry{
					Timestamp:  start,
					InputDir:   res.Dir,
					OutputFile: outPath,
					Format:     string(outFormat),
					Students:   res.Summary.Students,
					Failed:     res.Summary.Failed,
					Skipped:    res.Summary.Skipped,
					DurationMs: time.Since(start).Milliseconds(),
					ExitCode:   output.ExitCode(err),
				})
			}
			if err != nil {
				return err
			}

			if env.JSON {
				return output.PrintJSON("compile", res)
			}
			printSummary(res)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", DefaultOutput, "Report path; the extension picks the format")
	cmd.Flags().StringVar(&format, "format", "", "Report format: xlsx, csv, json, md")
	cmd.Flags().StringVar(&pattern, "pattern", "", "Regular expression whose first group is the student id")
	cmd.Flags().StringVar(&duplicates, "duplicates", "", "Repeated student ids: allow, warn, reject")
	cmd.Flags().StringVar(&layoutPath, "layout", "", "YAML layout file naming the answer cells")
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Include workbooks in subfolders")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "Do not record this run in the history journal")

	return cmd
}

// ResolveOutput picks the report path and format. An explicit --format wins;
// if the path was left at its default, its extension follows the format.
// Otherwise the path extension decides, then the configured format.
func ResolveOutput(path string, pathSet bool, format, configured string) (string, report.Format, error) {
	if format != "" {
		f, err := report.ParseFormat(format)
		if err != nil {
			return "", "", err
		}
		if !pathSet {
			path = strings.TrimSuffix(path, filepath.Ext(path)) + "." + string(f)
		}
		return path, f, nil
	}

	if pathSet {
		if f, err := report.FormatFromPath(path); err == nil {
			return path, f, nil
		}
	}

	f, err := report.ParseFormat(configured)
	if err != nil {
		return "", "", fmt.Errorf("invalid output.format in config: %w", err)
	}
	if !pathSet || filepath.Ext(path) == "" {
		path = strings.TrimSuffix(path, filepath.Ext(path)) + "." + string(f)
	}
	return path, f, nil
}

func printSummary(res *batch.FolderResult) {
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	dim := color.New(color.FgHiBlack)
	sum := res.Summary

	green.Printf("Compiled %d students → %s\n", sum.Students, res.Output)
	if sum.Failed > 0 {
		yellow.Printf("  %d unreadable (blank rows):\n", sum.Failed)
		for _, f := range sum.Failures {
			fmt.Printf("    %s  %s\n", f.StudentID, filepath.Base(f.File))
		}
	}
	if sum.Skipped > 0 {
		dim.Printf("  %d files skipped (no student id in name)\n", sum.Skipped)
	}
	dim.Printf("  %s\n", sum.Duration.Round(time.Millisecond))
}
