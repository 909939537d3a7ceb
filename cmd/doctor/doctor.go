// Package doctor provides the "answerkit doctor" command for checking
// configuration and a submissions folder before a run.
package doctor

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/answerkit/internal/cli"
	"github.com/klytics/answerkit/internal/config"
	"github.com/klytics/answerkit/internal/output"
	"github.com/klytics/answerkit/internal/roster"
)

// Check represents a single health check result.
type Check struct {
	Name    string `json:"name"`
	Status  string `json:"status"` // "ok", "warning", "error"
	Message string `json:"message"`
}

// NewCommand creates the "doctor" command.
func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor [dir]",
		Short: "Check configuration and a submissions folder",
		Long: `Runs diagnostic checks on the configuration and, when a folder is
given, opens every submission to find the ones compile would blank.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := cli.Setup(cmd)
			if err != nil {
				return err
			}
			dir := ""
			if len(args) == 1 {
				dir = args[0]
			}
			checks := RunChecks(env, dir)

			if env.JSON {
				return output.PrintJSON("doctor", checks)
			}

			green := color.New(color.FgGreen).SprintFunc()
			yellow := color.New(color.FgYellow).SprintFunc()
			red := color.New(color.FgRed).SprintFunc()

			fmt.Println("answerkit doctor")
			fmt.Println("================")
			fmt.Println()

			okCount, warnCount, errCount := 0, 0, 0
			for _, c := range checks {
				var icon string
				switch c.Status {
				case "ok":
					icon = green("✓")
					okCount++
				case "warning":
					icon = yellow("!")
					warnCount++
				case "error":
					icon = red("✗")
					errCount++
				}
				fmt.Printf("  %s %s: %s\n", icon, c.Name, c.Message)
			}

			fmt.Println()
			fmt.Printf("  %d passed, %d warnings, %d errors\n", okCount, warnCount, errCount)

			if errCount > 0 {
				return fmt.Errorf("%d check(s) failed", errCount)
			}
			return nil
		},
	}
}

// RunChecks inspects the environment and, when dir is non-empty, the
// submissions in it.
func RunChecks(env *cli.Env, dir string) []Check {
	var checks []Check

	checks = append(checks, Check{
		Name:    "Go Runtime",
		Status:  "ok",
		Message: fmt.Sprintf("%s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH),
	})

	if _, err := os.Stat(config.ConfigPath()); err == nil {
		checks = append(checks, Check{Name: "Config File", Status: "ok", Message: config.ConfigPath()})
	} else {
		checks = append(checks, Check{Name: "Config File", Status: "ok", Message: "Not found — using defaults"})
	}

	if issues := env.Config.Validate(); len(issues) > 0 {
		for _, issue := range issues {
			checks = append(checks, Check{Name: "Config " + issue.Key, Status: "error", Message: issue.Message})
		}
		return checks
	}
	checks = append(checks, Check{Name: "Config Values", Status: "ok", Message: "Valid"})

	ex, err := env.Extractor("")
	if err != nil {
		checks = append(checks, Check{Name: "Layout", Status: "error", Message: err.Error()})
		return checks
	}
	checks = append(checks, Check{
		Name:    "Layout",
		Status:  "ok",
		Message: fmt.Sprintf("%d questions in sheets %v", len(ex.Layout().Slots), ex.Layout().SheetNames()),
	})

	if env.Config.History.Enabled {
		if err := os.MkdirAll(filepath.Dir(env.Config.History.Path), 0755); err != nil {
			checks = append(checks, Check{Name: "History", Status: "warning", Message: fmt.Sprintf("cannot write %s: %v", env.Config.History.Path, err)})
		} else {
			checks = append(checks, Check{Name: "History", Status: "ok", Message: env.Config.History.Path})
		}
	}

	if dir == "" {
		return checks
	}

	scan, err := env.ScanOptions("", "", false)
	if err != nil {
		return append(checks, Check{Name: "Submissions", Status: "error", Message: err.Error()})
	}
	r, err := roster.Scan(dir, scan)
	if err != nil {
		return append(checks, Check{Name: "Submissions", Status: "error", Message: err.Error()})
	}
	if len(r.Submissions) == 0 {
		checks = append(checks, Check{Name: "Submissions", Status: "warning", Message: fmt.Sprintf("no workbooks matching %s in %s", env.Config.Pattern, r.Dir)})
	} else {
		checks = append(checks, Check{Name: "Submissions", Status: "ok", Message: fmt.Sprintf("%d workbooks", len(r.Submissions))})
	}
	for _, s := range r.Skipped {
		checks = append(checks, Check{Name: "Skipped " + filepath.Base(s.Path), Status: "warning", Message: s.Reason})
	}
	for id, paths := range r.Duplicates {
		checks = append(checks, Check{Name: "Duplicate " + id, Status: "warning", Message: fmt.Sprintf("%d workbooks", len(paths))})
	}
	for _, g := range roster.FindIdentical(r.Submissions) {
		checks = append(checks, Check{Name: "Identical workbooks", Status: "warning", Message: strings.Join(g.StudentIDs, ", ")})
	}
	for _, sub := range r.Submissions {
		if _, err := ex.ExtractFile(sub.Path); err != nil {
			checks = append(checks, Check{Name: "Unreadable " + sub.StudentID, Status: "warning", Message: err.Error()})
		}
	}
	return checks
}
