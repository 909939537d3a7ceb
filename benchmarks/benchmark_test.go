package benchmarks

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/klytics/answerkit/internal/answers"
	"github.com/klytics/answerkit/internal/compile"
	"github.com/klytics/answerkit/internal/extract"
	"github.com/klytics/answerkit/internal/fixtures"
	"github.com/klytics/answerkit/internal/formats/xlsx"
	"github.com/klytics/answerkit/internal/report"
	"github.com/klytics/answerkit/internal/roster"
	"github.com/klytics/answerkit/internal/sheet"
)

func quietExtractor() *extract.Extractor {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return extract.New(nil, extract.Options{HeaderRows: 1, NAValues: sheet.DefaultNAValues(), Logger: log})
}

func writeExam(b *testing.B, dir, id string) string {
	b.Helper()
	path := filepath.Join(dir, fixtures.FileName(id))
	err := fixtures.Write(path, fixtures.Exam(
		[]any{"A", 12.5, "C", "D", "E"},
		[]any{"Higher rates", "Lower demand", 3},
		[]any{"Prices rose", "because of", "inflation"},
	))
	if err != nil {
		b.Fatal(err)
	}
	return path
}

// --- Reader Benchmarks ---

func BenchmarkXlsxRead(b *testing.B) {
	path := writeExam(b, b.TempDir(), "e100")
	opts := xlsx.ReadOptions{HeaderRows: 1, NAValues: sheet.DefaultNAValues()}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := xlsx.ReadFile(path, opts); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCombineDown(b *testing.B) {
	rows := make([][]string, 200)
	for i := range rows {
		rows[i] = []string{fmt.Sprintf("line %d", i)}
	}
	s := sheet.FromStrings("Metro2", rows, sheet.DefaultNAValues())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if s.CombineDown(1, 0).IsAbsent() {
			b.Fatal("expected a value")
		}
	}
}

// --- Extractor Benchmarks ---

func BenchmarkExtract(b *testing.B) {
	path := writeExam(b, b.TempDir(), "e100")
	ex := quietExtractor()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ex.Extract(path); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkExtractCorrupt(b *testing.B) {
	path := filepath.Join(b.TempDir(), fixtures.FileName("e200"))
	if err := os.WriteFile(path, []byte("not a workbook"), 0644); err != nil {
		b.Fatal(err)
	}
	ex := quietExtractor()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		set, _ := ex.Extract(path)
		if set.AbsentCount() != len(set) {
			b.Fatal("expected an all-absent set")
		}
	}
}

// --- Batch Benchmarks ---

func BenchmarkCompileFolder(b *testing.B) {
	dir := b.TempDir()
	for i := 0; i < 30; i++ {
		writeExam(b, dir, fmt.Sprintf("e%04d", i))
	}
	r, err := roster.Scan(dir, roster.Options{})
	if err != nil {
		b.Fatal(err)
	}
	ex := quietExtractor()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := compile.Run(context.Background(), r.Submissions, ex, compile.Options{Logger: logrus.New()}); err != nil {
			b.Fatal(err)
		}
	}
}

// --- Report Benchmarks ---

func largeTable() *answers.Table {
	t := answers.NewTable(extract.DefaultLayout().Labels())
	for i := 0; i < 500; i++ {
		set := answers.AbsentSet(9)
		for j := range set {
			if (i+j)%7 != 0 {
				set[j] = sheet.Text(fmt.Sprintf("answer %d-%d", i, j))
			}
		}
		t.Append(answers.Record{StudentID: fmt.Sprintf("e%04d", i), Answers: set})
	}
	return t
}

func BenchmarkReportWriteXLSX(b *testing.B) {
	t := largeTable()
	out := filepath.Join(b.TempDir(), "answers.xlsx")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := report.Write(t, out, report.FormatXLSX); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkReportWriteCSV(b *testing.B) {
	t := largeTable()
	out := filepath.Join(b.TempDir(), "answers.csv")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := report.Write(t, out, report.FormatCSV); err != nil {
			b.Fatal(err)
		}
	}
}
