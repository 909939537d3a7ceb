// Package extract pulls the fixed set of answers out of one student's
// submission workbook.
package extract

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/klytics/answerkit/internal/answers"
	"github.com/klytics/answerkit/internal/formats/xlsx"
	"github.com/klytics/answerkit/internal/sheet"
)

// Options configures an Extractor.
type Options struct {
	// HeaderRows is the number of worksheet rows above grid row 0.
	HeaderRows int
	// NAValues are cell texts read as absent.
	NAValues sheet.NAValues
	// Logger receives one error entry per structural failure.
	Logger logrus.FieldLogger
}

// Extractor evaluates a Layout against submission workbooks.
type Extractor struct {
	layout *Layout
	read   xlsx.ReadOptions
	log    logrus.FieldLogger
}

// New creates an Extractor. A nil layout means DefaultLayout.
func New(layout *Layout, opts Options) *Extractor {
	if layout == nil {
		layout = DefaultLayout()
	}
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Extractor{
		layout: layout,
		read: xlsx.ReadOptions{
			Sheets:     layout.SheetNames(),
			HeaderRows: opts.HeaderRows,
			NAValues:   opts.NAValues,
		},
		log: log,
	}
}

// Layout returns the layout the extractor evaluates.
func (e *Extractor) Layout() *Layout { return e.layout }

// HeaderRows returns the number of worksheet rows above grid row 0.
func (e *Extractor) HeaderRows() int { return e.read.HeaderRows }

// Extract reads the answers of the workbook at path. The returned set always
// has one value per layout slot: when the workbook is missing, corrupt or
// lacks a layout sheet, every value is absent, the failure is logged and it
// is also returned so callers can count it. Missing cells never fail.
func (e *Extractor) Extract(path string) (answers.Set, error) {
	set, err := e.ExtractFile(path)
	if err != nil {
		e.log.WithField("file", path).WithError(err).Error("Error reading file")
		return answers.AbsentSet(len(e.layout.Slots)), err
	}
	return set, nil
}

// ExtractFile is Extract without the fallback: a structural failure is
// returned as a *StructuralError and no answers.
func (e *Extractor) ExtractFile(path string) (set answers.Set, err error) {
	defer func() {
		if r := recover(); r != nil {
			set, err = nil, &StructuralError{Path: path, Err: fmt.Errorf("reader panic: %v", r)}
		}
	}()

	wb, err := xlsx.ReadFile(path, e.read)
	if err != nil {
		return nil, &StructuralError{Path: path, Err: err}
	}

	set = make(answers.Set, len(e.layout.Slots))
	for i, slot := range e.layout.Slots {
		s, err := wb.GetSheet(slot.Sheet)
		if err != nil {
			return nil, &StructuralError{Path: path, Err: err}
		}
		set[i] = slot.Eval(s)
	}
	return set, nil
}
