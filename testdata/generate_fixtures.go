//go:build ignore

// This program generates a sample submissions folder for answerkit.
//
//	go run testdata/generate_fixtures.go
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/klytics/answerkit/internal/fixtures"
)

const dir = "testdata/submissions"

func main() {
	if err := os.MkdirAll(dir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating %s: %v\n", dir, err)
		os.Exit(1)
	}

	exams := map[string][]fixtures.Sheet{
		// Complete submission.
		"e1001": fixtures.Exam(
			[]any{"B", 0.042, "Buy", "C", "Diversify"},
			[]any{"Rates rise", "Demand falls", 3},
			[]any{"Prices rose because", "of supply shocks", "and strong demand."},
		),
		// Blank and not-a-number answers.
		"e1002": fixtures.Exam(
			[]any{"A", "#N/A", nil, "n/a", "Hold"},
			[]any{"Rates fall", nil, 2},
			nil,
		),
		// Free-text answer interrupted by a blank line.
		"e1003": fixtures.Exam(
			[]any{"C", 0.05, "Sell", "D", "Hedge"},
			[]any{"Rates rise", "Demand rises", 1},
			[]any{"Inflation", nil, "ignored"},
		),
	}

	for id, sheets := range exams {
		path := filepath.Join(dir, fixtures.FileName(id))
		if err := fixtures.Write(path, sheets); err != nil {
			fmt.Fprintf(os.Stderr, "Error generating %s: %v\n", path, err)
			os.Exit(1)
		}
	}

	// A submission missing the Metro2 sheet.
	partial := fixtures.Exam([]any{"A"}, []any{"X"}, nil)[:2]
	if err := fixtures.Write(filepath.Join(dir, fixtures.FileName("e1004")), partial); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating partial submission: %v\n", err)
		os.Exit(1)
	}

	extras := map[string][]byte{
		fixtures.FileName("e1005"):        []byte("corrupt upload"),
		"~$" + fixtures.FileName("e1001"): []byte("lock file"),
		"instructions.xlsx":               []byte("not a submission"),
	}
	for name, data := range extras {
		if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", name, err)
			os.Exit(1)
		}
	}

	fmt.Printf("Sample submissions generated in %s.\n", dir)
}
