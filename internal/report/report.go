// Package report serializes the compiled answer table as .xlsx, CSV, JSON or
// Markdown, and reads .xlsx, CSV and JSON reports back.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/klytics/answerkit/internal/answers"
	"github.com/klytics/answerkit/internal/formats/xlsx"
)

// SheetName is the worksheet written to .xlsx reports.
const SheetName = "Answers"

// Format is a report serialization.
type Format string

const (
	FormatXLSX     Format = "xlsx"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "md"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.TrimPrefix(strings.ToLower(s), ".")); f {
	case FormatXLSX, FormatCSV, FormatJSON, FormatMarkdown:
		return f, nil
	case "markdown":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unsupported report format %q — supported: xlsx, csv, json, md", s)
	}
}

// FormatFromPath infers the format from the output file extension.
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", fmt.Errorf("cannot infer report format from %q — add an extension or pass --format", path)
	}
	return ParseFormat(ext)
}

// Write saves the table to path. An empty format is inferred from path.
func Write(t *answers.Table, path string, format Format) error {
	if format == "" {
		f, err := FormatFromPath(path)
		if err != nil {
			return err
		}
		format = f
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("could not create output directory %s: %w", dir, err)
		}
	}

	switch format {
	case FormatXLSX:
		return xlsx.WriteTable(path, SheetName, t.Header(), t.Rows())
	case FormatCSV:
		return writeFile(path, func(f *os.File) error { return writeCSV(t, f) })
	case FormatJSON:
		return writeFile(path, func(f *os.File) error { return writeJSON(t, f) })
	case FormatMarkdown:
		return writeFile(path, func(f *os.File) error {
			_, err := f.WriteString(Markdown(t))
			return err
		})
	default:
		return fmt.Errorf("unsupported report format %q", format)
	}
}

func writeFile(path string, fn func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create %s: %w", path, err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return fmt.Errorf("could not write %s: %w", path, err)
	}
	return f.Close()
}

// jsonRecord is one element of a JSON report.
type jsonRecord struct {
	StudentID string      `json:"student_id"`
	Answers   answers.Set `json:"answers"`
}

func writeJSON(t *answers.Table, f *os.File) error {
	out := make([]jsonRecord, len(t.Records))
	for i, r := range t.Records {
		out[i] = jsonRecord{StudentID: r.StudentID, Answers: r.Answers}
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writeCSV(t *answers.Table, f *os.File) error {
	w := csv.NewWriter(f)
	if err := w.Write(t.Header()); err != nil {
		return err
	}
	for _, r := range t.Records {
		if err := w.Write(append([]string{r.StudentID}, r.Answers.Strings()...)); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// Markdown renders the table as a GFM table. Absent answers are empty cells.
func Markdown(t *answers.Table) string {
	header := t.Header()
	var b strings.Builder

	b.WriteString("| ")
	b.WriteString(strings.Join(escapeCells(header), " | "))
	b.WriteString(" |\n")

	b.WriteString("|")
	for range header {
		b.WriteString(" --- |")
	}
	b.WriteString("\n")

	for _, r := range t.Records {
		cells := append([]string{r.StudentID}, r.Answers.Strings()...)
		b.WriteString("| ")
		b.WriteString(strings.Join(escapeCells(cells), " | "))
		b.WriteString(" |\n")
	}

	return b.String()
}

func escapeCells(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		c = strings.ReplaceAll(c, "|", `\|`)
		out[i] = strings.ReplaceAll(c, "\n", " ")
	}
	return out
}
