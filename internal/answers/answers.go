// Package answers holds the per-student answer rows and the compiled table
// handed to report writers.
package answers

import (
	"github.com/klytics/answerkit/internal/sheet"
)

// IDColumn is the header of the first report column.
const IDColumn = "Student Id"

// Set is the ordered list of slot values extracted for one student.
type Set []sheet.Value

// AbsentSet returns n absent values.
func AbsentSet(n int) Set {
	return make(Set, n)
}

// Strings renders each value as text; absent values become "".
func (s Set) Strings() []string {
	out := make([]string, len(s))
	for i, v := range s {
		out[i] = v.String()
	}
	return out
}

// AbsentCount returns how many slots hold nothing.
func (s Set) AbsentCount() int {
	n := 0
	for _, v := range s {
		if v.IsAbsent() {
			n++
		}
	}
	return n
}

// Record is one row of the compiled table.
type Record struct {
	StudentID string `json:"student_id"`
	File      string `json:"file,omitempty"`
	Answers   Set    `json:"answers"`
	// Err is the structural failure that blanked this row, if any.
	Err error `json:"-"`
}

// Failed reports whether the row was blanked by a structural failure.
func (r Record) Failed() bool { return r.Err != nil }

// Table is the compiled report: one record per processed submission, in
// processing order.
type Table struct {
	Slots   []string `json:"slots"`
	Records []Record `json:"records"`
}

// NewTable creates an empty table with the given slot labels.
func NewTable(slots []string) *Table {
	return &Table{Slots: slots}
}

// Header returns the report header: the id column followed by slot labels.
func (t *Table) Header() []string {
	return append([]string{IDColumn}, t.Slots...)
}

// Append adds a record, padding or truncating its answers to the slot count
// so every row has the same shape.
func (t *Table) Append(r Record) {
	if len(r.Answers) != len(t.Slots) {
		fixed := AbsentSet(len(t.Slots))
		copy(fixed, r.Answers)
		r.Answers = fixed
	}
	t.Records = append(t.Records, r)
}

// Find returns every record for a student id, in table order.
func (t *Table) Find(id string) []Record {
	var out []Record
	for _, r := range t.Records {
		if r.StudentID == id {
			out = append(out, r)
		}
	}
	return out
}

// Rows returns each record as report cells: the id followed by the slot
// values as plain Go values (nil for absent).
func (t *Table) Rows() [][]any {
	rows := make([][]any, len(t.Records))
	for i, r := range t.Records {
		row := make([]any, 0, len(r.Answers)+1)
		row = append(row, r.StudentID)
		for _, v := range r.Answers {
			row = append(row, v.Interface())
		}
		rows[i] = row
	}
	return rows
}
