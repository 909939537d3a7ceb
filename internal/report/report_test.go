package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klytics/answerkit/internal/answers"
	"github.com/klytics/answerkit/internal/sheet"
)

func sampleTable() *answers.Table {
	t := answers.NewTable([]string{"1", "2", "3"})
	t.Append(answers.Record{StudentID: "e100", Answers: answers.Set{
		sheet.Text("A"), sheet.Number(2.5, ""), sheet.Text("P | Q"),
	}})
	t.Append(answers.Record{StudentID: "e200", Answers: answers.AbsentSet(3)})
	return t
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{
		"xlsx": FormatXLSX, ".CSV": FormatCSV, "json": FormatJSON, "markdown": FormatMarkdown, "md": FormatMarkdown,
	} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("pdf"); err == nil {
		t.Error("expected error for pdf")
	}
	if _, err := FormatFromPath("report"); err == nil {
		t.Error("expected error for a path without extension")
	}
}

func TestWriteXLSXRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "compiled_student_answers.xlsx")
	if err := Write(sampleTable(), path, ""); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	got, err := ReadTable(path)
	if err != nil {
		t.Fatalf("ReadTable failed: %v", err)
	}
	if strings.Join(got.Header(), ",") != "Student Id,1,2,3" {
		t.Errorf("header = %v", got.Header())
	}
	if len(got.Records) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got.Records))
	}
	first := got.Records[0]
	if first.StudentID != "e100" || first.Answers[0].String() != "A" {
		t.Errorf("first row = %+v", first)
	}
	if n, ok := first.Answers[1].Float(); !ok || n != 2.5 {
		t.Errorf("numeric answer should stay numeric, got %v", first.Answers[1])
	}
	if got.Records[1].Answers.AbsentCount() != 3 {
		t.Errorf("absent answers should read back as absent: %v", got.Records[1].Answers)
	}
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	if err := Write(sampleTable(), path, FormatCSV); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "Student Id,1,2,3\ne100,A,2.5,P | Q\ne200,,,\n"
	if string(data) != want {
		t.Errorf("csv = %q, want %q", data, want)
	}

	got, err := ReadTable(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Records[1].Answers.AbsentCount() != 3 || got.Records[0].Answers[2].String() != "P | Q" {
		t.Errorf("csv read back = %+v", got.Records)
	}
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	if err := Write(sampleTable(), path, ""); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("report should be a JSON array: %v", err)
	}
	if len(raw) != 2 {
		t.Fatalf("expected 2 objects, got %d", len(raw))
	}
	for _, obj := range raw {
		if len(obj) != 2 || obj["student_id"] == nil || obj["answers"] == nil {
			t.Errorf("object should hold only student_id and answers: %v", obj)
		}
	}
	if blank := raw[1]["answers"].([]any); blank[0] != nil {
		t.Errorf("absent should encode as null, got %v", blank[0])
	}

	got, err := ReadTable(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(got.Header(), ",") != "Student Id,1,2,3" {
		t.Errorf("header = %v", got.Header())
	}
	if got.Records[0].Answers[1].Kind() != sheet.KindNumber {
		t.Errorf("number lost on round trip: %v", got.Records[0].Answers[1])
	}
}

func TestWriteJSONEmptyTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	if err := Write(answers.NewTable([]string{"1"}), path, ""); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	if strings.TrimSpace(string(data)) != "[]" {
		t.Errorf("empty report = %q, want []", data)
	}
}

func TestReadTableJSONPadsShortRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "uneven.json")
	body := `[{"student_id":"e1","answers":["a"]},{"student_id":"e2","answers":["b",2,null]}]`
	os.WriteFile(path, []byte(body), 0644)

	got, err := ReadTable(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Slots) != 3 {
		t.Fatalf("slots = %v", got.Slots)
	}
	for _, r := range got.Records {
		if len(r.Answers) != len(got.Slots) {
			t.Errorf("%s has %d answers, want %d", r.StudentID, len(r.Answers), len(got.Slots))
		}
	}
	if got.Records[0].Answers.AbsentCount() != 2 {
		t.Errorf("padding should be absent: %v", got.Records[0].Answers)
	}
}

func TestReadTableJSONMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	os.WriteFile(path, []byte(`{"slots":["1"]}`), 0644)
	if _, err := ReadTable(path); err == nil {
		t.Error("expected error for a JSON object instead of an array")
	}
}

func TestMarkdown(t *testing.T) {
	md := Markdown(sampleTable())
	lines := strings.Split(strings.TrimSpace(md), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %q", md)
	}
	if lines[0] != "| Student Id | 1 | 2 | 3 |" {
		t.Errorf("header line = %q", lines[0])
	}
	if lines[2] != `| e100 | A | 2.5 | P \| Q |` {
		t.Errorf("row line = %q", lines[2])
	}

	path := filepath.Join(t.TempDir(), "out.md")
	if err := Write(sampleTable(), path, ""); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadTable(path); err == nil {
		t.Error("markdown reports should not be readable")
	}
}
