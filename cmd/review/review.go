// Package review provides the "answerkit review" interactive command.
package review

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/klytics/answerkit/internal/answers"
	"github.com/klytics/answerkit/internal/cli"
	batch "github.com/klytics/answerkit/internal/compile"
	"github.com/klytics/answerkit/internal/report"
	reviewpkg "github.com/klytics/answerkit/internal/review"
	"github.com/klytics/answerkit/internal/roster"
)

// NewCommand creates the "review" command.
func NewCommand() *cobra.Command {
	var (
		evalCmd    string
		layoutPath string
	)

	cmd := &cobra.Command{
		Use:   "review <report|dir>",
		Short: "Browse compiled answers interactively",
		Long: `Opens a REPL over a compiled report (.xlsx, .csv or .json), or over a
submissions folder compiled in memory.

Commands: list, show <id>, slot <n>, missing, failed, stats, help, exit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := cli.Setup(cmd)
			if err != nil {
				return err
			}

			table, err := load(cmd, env, args[0], layoutPath)
			if err != nil {
				return err
			}

			session := reviewpkg.NewSession(table, args[0])
			if evalCmd != "" {
				out, err := session.Eval(evalCmd)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), out)
				return nil
			}
			return session.Run()
		},
	}

	cmd.Flags().StringVar(&evalCmd, "eval", "", "Run a single review command and exit")
	cmd.Flags().StringVar(&layoutPath, "layout", "", "YAML layout file, when reviewing a folder")
	return cmd
}

func load(cmd *cobra.Command, env *cli.Env, path, layoutPath string) (*answers.Table, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("could not access %s: %w", path, err)
	}
	if !info.IsDir() {
		return report.ReadTable(path)
	}

	scan, err := env.ScanOptions("", "", false)
	if err != nil {
		return nil, err
	}
	ex, err := env.Extractor(layoutPath)
	if err != nil {
		return nil, err
	}
	r, err := roster.Scan(path, scan)
	if err != nil {
		return nil, err
	}
	table, _, err := batch.Run(cmd.Context(), r.Submissions, ex, batch.Options{Logger: env.Log, Skipped: len(r.Skipped)})
	return table, err
}
