package extract

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/klytics/answerkit/internal/answers"
	"github.com/klytics/answerkit/internal/fixtures"
	"github.com/klytics/answerkit/internal/formats/xlsx"
	"github.com/klytics/answerkit/internal/sheet"
)

func newTestExtractor(buf *bytes.Buffer) *Extractor {
	log := logrus.New()
	log.SetOutput(buf)
	return New(nil, Options{HeaderRows: 1, NAValues: sheet.DefaultNAValues(), Logger: log})
}

func writeExam(t *testing.T, stock, metro1, metro2 []any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), fixtures.FileName("e1001"))
	if err := fixtures.Write(path, fixtures.Exam(stock, metro1, metro2)); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestExtractFullExam(t *testing.T) {
	path := writeExam(t,
		[]any{"A", "B", "C", "D", "E"},
		[]any{"X", "Y", "Z"},
		[]any{"P", "Q"},
	)

	var logs bytes.Buffer
	got, err := newTestExtractor(&logs).Extract(path)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	want := []string{"A", "B", "C", "D", "E", "X", "Y", "Z", "P Q"}
	if len(got) != len(want) {
		t.Fatalf("got %d answers, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].String() != w || got[i].IsAbsent() {
			t.Errorf("slot %d = %q, want %q", i+1, got[i], w)
		}
	}
	if logs.Len() != 0 {
		t.Errorf("expected no log output, got %q", logs.String())
	}
}

func TestExtractSparseExam(t *testing.T) {
	path := writeExam(t,
		[]any{"A", nil, 42, nil, "E"},
		[]any{nil, "Y"},
		nil,
	)

	got, err := newTestExtractor(&bytes.Buffer{}).Extract(path)
	if err != nil {
		t.Fatalf("sparse workbook should not fail: %v", err)
	}
	if len(got) != 9 {
		t.Fatalf("got %d answers", len(got))
	}

	absent := []bool{false, true, false, true, false, true, false, true, true}
	for i, want := range absent {
		if got[i].IsAbsent() != want {
			t.Errorf("slot %d absent = %v, want %v", i+1, got[i].IsAbsent(), want)
		}
	}
	if n, ok := got[2].Float(); !ok || n != 42 {
		t.Errorf("slot 3 = %v, want number 42", got[2])
	}
}

func TestExtractStructuralFailures(t *testing.T) {
	dir := t.TempDir()

	zeroByte := filepath.Join(dir, "zero.xlsx")
	os.WriteFile(zeroByte, nil, 0644)

	notZip := filepath.Join(dir, "notzip.xlsx")
	os.WriteFile(notZip, []byte("PK but not really"), 0644)

	missingSheet := filepath.Join(dir, "missing.xlsx")
	sheets := fixtures.Exam([]any{"A"}, nil, nil)[:2]
	if err := fixtures.Write(missingSheet, sheets); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
		is   error
	}{
		{"zero byte", zeroByte, xlsx.ErrNotWorkbook},
		{"not a zip", notZip, xlsx.ErrNotWorkbook},
		{"missing sheet", missingSheet, xlsx.ErrSheetMissing},
		{"missing file", filepath.Join(dir, "nope.xlsx"), xlsx.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			got, err := newTestExtractor(&logs).Extract(tt.path)

			if len(got) != 9 || got.AbsentCount() != 9 {
				t.Errorf("expected 9 absent values, got %v", got)
			}
			var se *StructuralError
			if !errors.As(err, &se) || se.Path != tt.path {
				t.Errorf("expected StructuralError for %s, got %v", tt.path, err)
			}
			if !errors.Is(err, tt.is) {
				t.Errorf("expected %v in chain, got %v", tt.is, err)
			}
			lines := strings.Split(strings.TrimSpace(logs.String()), "\n")
			if len(lines) != 1 || !strings.Contains(lines[0], tt.path) {
				t.Errorf("expected one log line naming the file, got %q", logs.String())
			}
		})
	}
}

func TestExtractFileDoesNotSwallow(t *testing.T) {
	set, err := newTestExtractor(&bytes.Buffer{}).ExtractFile("/nonexistent/e1.xlsx")
	if err == nil || set != nil {
		t.Errorf("ExtractFile should return the error and no answers, got %v, %v", set, err)
	}
}

func TestExtractIdempotent(t *testing.T) {
	path := writeExam(t, []any{"A", 2.5}, []any{"X"}, []any{"P", "Q", "R"})
	ex := newTestExtractor(&bytes.Buffer{})

	first, err := ex.Extract(path)
	if err != nil {
		t.Fatal(err)
	}
	second, err := ex.Extract(path)
	if err != nil {
		t.Fatal(err)
	}
	if !equalSets(first, second) {
		t.Errorf("runs differ: %v vs %v", first, second)
	}
}

func TestExtractCustomLayout(t *testing.T) {
	layout, err := ParseLayout([]byte(`
slots:
  - {sheet: Metro2, row: 1, col: 0, kind: run}
  - {label: first, sheet: Stock, row: 7, col: 1}
`))
	if err != nil {
		t.Fatal(err)
	}
	path := writeExam(t, []any{"A"}, nil, []any{"long", "answer"})

	ex := New(layout, Options{HeaderRows: 1, Logger: logrus.New()})
	got, err := ex.Extract(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].String() != "long answer" || got[1].String() != "A" {
		t.Errorf("got %v", got)
	}
}

func equalSets(a, b answers.Set) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
