// Package output provides formatting utilities for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
)

// MaxColumnWidth caps a table column; longer cells are cut with "~".
const MaxColumnWidth = 40

// AbsentMark stands in for an absent answer in terminal tables.
const AbsentMark = "-"

// PrintTable renders header and rows as an aligned, pipe-separated table.
// Empty cells print as AbsentMark, dimmed.
func PrintTable(w io.Writer, header []string, rows [][]string) {
	dim := color.New(color.FgHiBlack)

	widths := columnWidths(header, rows)

	printRow(w, header, widths, color.New(color.Bold))
	dim.Fprint(w, "  ")
	for j, width := range widths {
		if j > 0 {
			dim.Fprint(w, "+-")
		}
		dim.Fprint(w, strings.Repeat("-", width+1))
	}
	fmt.Fprintln(w)

	for _, row := range rows {
		printRow(w, row, widths, nil)
	}
}

// PrintFields renders label/value pairs one per line, labels right-aligned.
func PrintFields(w io.Writer, labels, values []string) {
	width := 0
	for _, l := range labels {
		if n := utf8.RuneCountInString(l); n > width {
			width = n
		}
	}
	bold := color.New(color.Bold)
	dim := color.New(color.FgHiBlack)
	for i, l := range labels {
		bold.Fprintf(w, "  %*s  ", width, l)
		if i >= len(values) || values[i] == "" {
			dim.Fprintln(w, AbsentMark)
			continue
		}
		fmt.Fprintln(w, values[i])
	}
}

func columnWidths(header []string, rows [][]string) []int {
	widths := make([]int, len(header))
	measure := func(row []string) {
		for j, cell := range row {
			for len(widths) <= j {
				widths = append(widths, 0)
			}
			if n := utf8.RuneCountInString(cell); n > widths[j] {
				widths[j] = n
			}
		}
	}
	measure(header)
	for _, row := range rows {
		measure(row)
	}

	for i := range widths {
		if widths[i] > MaxColumnWidth {
			widths[i] = MaxColumnWidth
		}
		if widths[i] < 3 {
			widths[i] = 3
		}
	}
	return widths
}

func printRow(w io.Writer, row []string, widths []int, style *color.Color) {
	dim := color.New(color.FgHiBlack)
	fmt.Fprint(w, "  ")
	for j := range widths {
		if j > 0 {
			fmt.Fprint(w, "| ")
		}
		cell := ""
		if j < len(row) {
			cell = row[j]
		}
		absent := cell == "" && style == nil
		if absent {
			cell = AbsentMark
		}
		cell = truncate(cell, widths[j])
		padded := cell + strings.Repeat(" ", widths[j]-utf8.RuneCountInString(cell)+1)
		switch {
		case style != nil:
			style.Fprint(w, padded)
		case absent:
			dim.Fprint(w, padded)
		default:
			fmt.Fprint(w, padded)
		}
	}
	fmt.Fprintln(w)
}

func truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	r := []rune(s)
	return string(r[:width-1]) + "~"
}
