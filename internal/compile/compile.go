// Package compile runs the extractor over a roster and assembles the
// answer table, one row per submission.
package compile

import (
	"context"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/klytics/answerkit/internal/answers"
	"github.com/klytics/answerkit/internal/extract"
	"github.com/klytics/answerkit/internal/progress"
	"github.com/klytics/answerkit/internal/roster"
)

// Summary describes a finished run.
type Summary struct {
	Students  int            `json:"students"`
	Extracted int            `json:"extracted"`
	Failed    int            `json:"failed"`
	Skipped   int            `json:"skipped"`
	Failures  []Failure      `json:"failures,omitempty"`
	Absent    map[string]int `json:"absentBySlot"`
	Duration  time.Duration  `json:"durationNs"`
}

// Failure names a submission whose row was blanked.
type Failure struct {
	StudentID string `json:"studentId"`
	File      string `json:"file"`
	Error     string `json:"error"`
}

// Options configures a run.
type Options struct {
	Logger logrus.FieldLogger
	// Bar, when set, is advanced once per submission.
	Bar *progress.Bar
	// Skipped is the number of files the roster scan passed over, copied
	// into the summary.
	Skipped int
}

// Run extracts every submission in order. Files are processed one at a time;
// a file that cannot be read yields an all-absent row and never stops the
// run. Cancelling ctx stops before the next file and returns the partial
// table with ctx.Err().
func Run(ctx context.Context, subs []roster.Submission, ex *extract.Extractor, opts Options) (*answers.Table, *Summary, error) {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	labels := ex.Layout().Labels()
	table := answers.NewTable(labels)
	sum := &Summary{Skipped: opts.Skipped, Absent: make(map[string]int, len(labels))}
	start := time.Now()

	for _, sub := range subs {
		if err := ctx.Err(); err != nil {
			sum.Duration = time.Since(start)
			return table, sum, err
		}

		set, err := ex.Extract(sub.Path)
		rec := answers.Record{StudentID: sub.StudentID, File: sub.Path, Answers: set, Err: err}
		table.Append(rec)

		sum.Students++
		if err != nil {
			sum.Failed++
			sum.Failures = append(sum.Failures, Failure{
				StudentID: sub.StudentID,
				File:      sub.Path,
				Error:     err.Error(),
			})
		} else {
			sum.Extracted++
			for i, v := range set {
				if v.IsAbsent() {
					sum.Absent[labels[i]]++
				}
			}
			log.WithFields(logrus.Fields{
				"student": sub.StudentID,
				"absent":  set.AbsentCount(),
			}).Debug("extracted answers")
		}

		if opts.Bar != nil {
			opts.Bar.Increment(filepath.Base(sub.Path))
		}
	}

	sum.Duration = time.Since(start)
	return table, sum, nil
}
