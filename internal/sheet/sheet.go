// Package sheet models a worksheet as a read-only grid of optional values and
// provides the safe single-cell read and the vertical run read used to pull
// answers out of a submission.
package sheet

import (
	"iter"
	"strings"
)

// Sheet is a zero-based grid of cells. Rows may be ragged; cells past the end
// of a row are treated as blank.
type Sheet struct {
	Name  string
	cells [][]Value
	cols  int
}

// New builds a Sheet. cols is the column count of the grid; it is raised to
// the widest row if smaller.
func New(name string, cells [][]Value, cols int) *Sheet {
	for _, row := range cells {
		if len(row) > cols {
			cols = len(row)
		}
	}
	return &Sheet{Name: name, cells: cells, cols: cols}
}

// FromStrings builds a Sheet of text cells, classifying blanks and
// not-a-number markers with na. Handy for fixtures.
func FromStrings(name string, rows [][]string, na NAValues) *Sheet {
	cells := make([][]Value, len(rows))
	for r, row := range rows {
		cells[r] = make([]Value, len(row))
		for c, s := range row {
			if na.Is(s) {
				continue
			}
			cells[r][c] = Text(s)
		}
	}
	return New(name, cells, 0)
}

// Rows returns the row count.
func (s *Sheet) Rows() int { return len(s.cells) }

// Cols returns the column count.
func (s *Sheet) Cols() int { return s.cols }

// Get returns the value at (row, col). Any coordinate outside the grid,
// negative ones included, yields Absent, as do blank cells.
func (s *Sheet) Get(row, col int) Value {
	if s == nil || row < 0 || col < 0 || row >= len(s.cells) || col >= s.cols {
		return Absent()
	}
	line := s.cells[row]
	if col >= len(line) {
		return Absent()
	}
	return line[col]
}

// Run yields the present values of column col from startRow downwards and
// stops at the first Absent cell.
func (s *Sheet) Run(startRow, col int) iter.Seq[Value] {
	return func(yield func(Value) bool) {
		for row := startRow; ; row++ {
			v := s.Get(row, col)
			if v.IsAbsent() || !yield(v) {
				return
			}
		}
	}
}

// CombineDown joins the run starting at (startRow, col) with single spaces.
// An empty run is Absent, never Text("").
func (s *Sheet) CombineDown(startRow, col int) Value {
	var parts []string
	for v := range s.Run(startRow, col) {
		parts = append(parts, v.String())
	}
	if len(parts) == 0 {
		return Absent()
	}
	return Text(strings.Join(parts, " "))
}
