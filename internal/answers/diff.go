package answers

import (
	"fmt"

	"github.com/klytics/answerkit/internal/sheet"
)

// Change is one answer that differs between two tables.
type Change struct {
	StudentID string      `json:"studentId"`
	Slot      string      `json:"slot"`
	Old       sheet.Value `json:"old"`
	New       sheet.Value `json:"new"`
}

// DiffResult compares two compiled tables student by student.
type DiffResult struct {
	Added     []string `json:"added,omitempty"`
	Removed   []string `json:"removed,omitempty"`
	Changes   []Change `json:"changes,omitempty"`
	Unchanged int      `json:"unchanged"`
}

// Diff compares old and new by student id and slot label. Students are
// matched on their first record; slots missing from one table read as
// absent. Answers compare by their displayed text, so a report read back
// from CSV matches the workbook it came from. Results follow new's row
// order, with removed students last.
func Diff(old, new *Table) *DiffResult {
	res := &DiffResult{}

	oldByID := firstByID(old)
	newByID := firstByID(new)

	seen := map[string]bool{}
	for _, r := range new.Records {
		if seen[r.StudentID] {
			continue
		}
		seen[r.StudentID] = true

		prev, ok := oldByID[r.StudentID]
		if !ok {
			res.Added = append(res.Added, r.StudentID)
			continue
		}

		changed := false
		for _, label := range unionLabels(old.Slots, new.Slots) {
			a, b := valueAt(old, prev, label), valueAt(new, r, label)
			if !sameAnswer(a, b) {
				changed = true
				res.Changes = append(res.Changes, Change{StudentID: r.StudentID, Slot: label, Old: a, New: b})
			}
		}
		if !changed {
			res.Unchanged++
		}
	}

	for _, r := range old.Records {
		if _, ok := newByID[r.StudentID]; !ok && !seen[r.StudentID] {
			seen[r.StudentID] = true
			res.Removed = append(res.Removed, r.StudentID)
		}
	}
	return res
}

// Stats summarizes the comparison in one line.
func (d *DiffResult) Stats() string {
	students := map[string]bool{}
	for _, c := range d.Changes {
		students[c.StudentID] = true
	}
	return fmt.Sprintf("%d answers changed for %d students, %d added, %d removed, %d unchanged",
		len(d.Changes), len(students), len(d.Added), len(d.Removed), d.Unchanged)
}

// Empty reports whether the tables hold the same answers.
func (d *DiffResult) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changes) == 0
}

func firstByID(t *Table) map[string]Record {
	m := make(map[string]Record, len(t.Records))
	for _, r := range t.Records {
		if _, ok := m[r.StudentID]; !ok {
			m[r.StudentID] = r
		}
	}
	return m
}

func unionLabels(a, b []string) []string {
	out := append([]string(nil), a...)
	have := make(map[string]bool, len(a))
	for _, l := range a {
		have[l] = true
	}
	for _, l := range b {
		if !have[l] {
			out = append(out, l)
		}
	}
	return out
}

func valueAt(t *Table, r Record, label string) sheet.Value {
	for i, l := range t.Slots {
		if l == label && i < len(r.Answers) {
			return r.Answers[i]
		}
	}
	return sheet.Absent()
}

func sameAnswer(a, b sheet.Value) bool {
	return a.IsAbsent() == b.IsAbsent() && a.String() == b.String()
}
