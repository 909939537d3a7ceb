// Package watch provides the "answerkit watch" command.
package watch

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	cmdcompile "github.com/klytics/answerkit/cmd/compile"
	"github.com/klytics/answerkit/internal/cli"
	batch "github.com/klytics/answerkit/internal/compile"
	"github.com/klytics/answerkit/internal/history"
	w "github.com/klytics/answerkit/internal/watch"
)

// NewCommand creates the "watch" command.
func NewCommand() *cobra.Command {
	var (
		outputPath string
		format     string
		pattern    string
		duplicates string
		layoutPath string
		recursive  bool
		debounce   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Recompile the report whenever submissions change",
		Long: `Compiles <dir> once, then watches it and recompiles the whole folder
each time a workbook is added, changed or removed.

Example:
  answerkit watch ./submissions -o answers.xlsx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := cli.Setup(cmd)
			if err != nil {
				return err
			}
			outPath, outFormat, err := cmdcompile.ResolveOutput(outputPath, cmd.Flags().Changed("output"), format, env.Config.Output.Format)
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
			journal := history.New(env.Config.History.Path, env.Config.History.Enabled)

			compileOnce := func(ctx context.Context, trigger string) error {
				start := time.Now()
				res, err := batch.Folder(ctx, batch.FolderRequest{
					Dir:       args[0],
					Output:    outPath,
					Format:    outFormat,
					Scan:      scan,
					Extractor: ex,
				})
				if err != nil {
					return err
				}
				journal.Record(history.Entry{
					Timestamp:  start,
					InputDir:   res.Dir,
					OutputFile: outPath,
					Format:     string(outFormat),
					Students:   res.Summary.Students,
					Failed:     res.Summary.Failed,
					Skipped:    res.Summary.Skipped,
					DurationMs: time.Since(start).Milliseconds(),
				})

				stamp := time.Now().Format(time.TimeOnly)
				if trigger != "" {
					trigger = filepath.Base(trigger)
				} else {
					trigger = "startup"
				}
				color.New(color.FgGreen).Printf("[%s] %s → %d students, %d unreadable → %s\n",
					stamp, trigger, res.Summary.Students, res.Summary.Failed, outPath)
				return nil
			}

			watcher, err := w.New(w.Config{
				Dir:       args[0],
				Recursive: recursive,
				Debounce:  debounce,
				Ignore:    []string{outPath},
			}, compileOnce, env.Log)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := compileOnce(ctx, ""); err != nil {
				return err
			}
			fmt.Println("Press Ctrl+C to stop")

			return watcher.Start(ctx)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", cmdcompile.DefaultOutput, "Report path; the extension picks the format")
	cmd.Flags().StringVar(&format, "format", "", "Report format: xlsx, csv, json, md")
	cmd.Flags().StringVar(&pattern, "pattern", "", "Regular expression whose first group is the student id")
	cmd.Flags().StringVar(&duplicates, "duplicates", "", "Repeated student ids: allow, warn, reject")
	cmd.Flags().StringVar(&layoutPath, "layout", "", "YAML layout file naming the answer cells")
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Include workbooks in subfolders")
	cmd.Flags().DurationVar(&debounce, "debounce", w.DefaultDebounce, "Quiet period before recompiling")

	return cmd
}
