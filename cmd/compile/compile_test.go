package compile

import (
	"testing"

	"github.com/klytics/answerkit/internal/report"
)

func TestResolveOutput(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		pathSet    bool
		format     string
		configured string
		wantPath   string
		wantFormat report.Format
	}{
		{"defaults", DefaultOutput, false, "", "xlsx", DefaultOutput, report.FormatXLSX},
		{"configured csv", DefaultOutput, false, "", "csv", "compiled_student_answers.csv", report.FormatCSV},
		{"path extension", "out/answers.json", true, "", "xlsx", "out/answers.json", report.FormatJSON},
		{"format flag renames default", DefaultOutput, false, "md", "xlsx", "compiled_student_answers.md", report.FormatMarkdown},
		{"format flag keeps explicit path", "answers.txt", true, "csv", "xlsx", "answers.txt", report.FormatCSV},
		{"no extension uses config", "answers", true, "", "csv", "answers.csv", report.FormatCSV},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, f, err := ResolveOutput(tt.path, tt.pathSet, tt.format, tt.configured)
			if err != nil {
				t.Fatal(err)
			}
			if path != tt.wantPath || f != tt.wantFormat {
				t.Errorf("got %s (%s), want %s (%s)", path, f, tt.wantPath, tt.wantFormat)
			}
		})
	}
}

func TestResolveOutputInvalid(t *testing.T) {
	if _, _, err := ResolveOutput(DefaultOutput, false, "pdf", "xlsx"); err == nil {
		t.Error("expected error for --format pdf")
	}
	if _, _, err := ResolveOutput(DefaultOutput, false, "", "pdf"); err == nil {
		t.Error("expected error for configured pdf")
	}
}
