package compile

import (
	"context"
	"errors"
	"fmt"

	"github.com/klytics/answerkit/internal/answers"
	"github.com/klytics/answerkit/internal/extract"
	"github.com/klytics/answerkit/internal/progress"
	"github.com/klytics/answerkit/internal/report"
	"github.com/klytics/answerkit/internal/roster"
)

// ErrReport marks a failure to write the compiled report.
var ErrReport = errors.New("could not write report")

// FolderRequest compiles every submission in Dir into Output.
type FolderRequest struct {
	Dir       string
	Output    string
	Format    report.Format
	Scan      roster.Options
	Extractor *extract.Extractor
	// NewBar, when set, is called with the number of submissions found.
	NewBar func(total int) *progress.Bar
}

// FolderResult is a finished folder compile.
type FolderResult struct {
	Dir     string           `json:"dir"`
	Output  string           `json:"output"`
	Format  report.Format    `json:"format"`
	Summary *Summary         `json:"summary"`
	Skipped []roster.Skipped `json:"skipped,omitempty"`
	Table   *answers.Table   `json:"-"`
}

// Folder scans req.Dir, extracts every submission and writes the report.
// Scan errors and cancellation are returned as is; write failures wrap
// ErrReport.
func Folder(ctx context.Context, req FolderRequest) (*FolderResult, error) {
	r, err := roster.Scan(req.Dir, req.Scan)
	if err != nil {
		return nil, err
	}

	log := req.Scan.Logger
	for _, s := range r.Skipped {
		if log != nil {
			log.WithField("file", s.Path).Warn(s.Reason)
		}
	}

	opts := Options{Logger: log, Skipped: len(r.Skipped)}
	if req.NewBar != nil {
		opts.Bar = req.NewBar(len(r.Submissions))
	}

	table, sum, err := Run(ctx, r.Submissions, req.Extractor, opts)
	if opts.Bar != nil {
		opts.Bar.Finish(fmt.Sprintf("%d students, %d failed", sum.Students, sum.Failed))
	}
	res := &FolderResult{
		Dir:     r.Dir,
		Output:  req.Output,
		Format:  req.Format,
		Summary: sum,
		Skipped: r.Skipped,
		Table:   table,
	}
	if err != nil {
		return res, err
	}

	if err := report.Write(table, req.Output, req.Format); err != nil {
		return res, fmt.Errorf("%w %s: %w", ErrReport, req.Output, err)
	}
	return res, nil
}
